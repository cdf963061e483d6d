package challenges

import (
	"context"

	"dicewager/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var amount decimal.Decimal
	var count int
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = decimal.NewFromFloat(opt.FloatValue())
		case "count":
			count = int(opt.IntValue())
		}
	}

	created, err := f.challengeService.CreateChallenges(ctx, amount, count)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "Failed to create challenges"), false)
		return
	}

	embed := BuildCreatedEmbed(created, f.challengeService.CreationCost(amount, count))
	if err := common.RespondWithEmbed(s, i, embed, buildAcceptButtons(created), false); err != nil {
		log.Errorf("Error responding to create command: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	challenges, err := f.challengeService.ListOpenChallenges(ctx)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "Failed to list challenges"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildListEmbed(challenges), buildAcceptButtons(challenges), false); err != nil {
		log.Errorf("Error responding to list command: %v", err)
	}
}

func (f *Feature) handleAccept(s *discordgo.Session, i *discordgo.InteractionCreate, challengeID string) {
	// Defer since settlement holds the ledger lock
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring accept interaction: %v", err)
		return
	}

	result, err := f.challengeService.AcceptChallenge(context.Background(), challengeID)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "Failed to accept challenge"), true)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildResultEmbed(result), nil, false); err != nil {
		log.Errorf("Error sending settlement result: %v", err)
	}
}
