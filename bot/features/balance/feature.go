package balance

import (
	"dicewager/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	challengeService service.ChallengeService
}

func New(challengeService service.ChallengeService) *Feature {
	return &Feature{
		challengeService: challengeService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}
