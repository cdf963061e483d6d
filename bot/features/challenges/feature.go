package challenges

import (
	"strings"

	"dicewager/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles creating, listing and accepting challenges
type Feature struct {
	challengeService service.ChallengeService
}

// New creates a new challenges feature instance
func New(challengeService service.ChallengeService) *Feature {
	return &Feature{
		challengeService: challengeService,
	}
}

// HandleCreate handles /dice create
func (f *Feature) HandleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	f.handleCreate(s, i, options)
}

// HandleList handles /dice list
func (f *Feature) HandleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleList(s, i)
}

// HandleInteraction handles accept button presses
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, acceptButtonPrefix) {
		f.handleAccept(s, i, strings.TrimPrefix(customID, acceptButtonPrefix))
	}
}
