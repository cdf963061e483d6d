package balance

import (
	"context"
	"fmt"
	"time"

	"dicewager/bot/common"
	"dicewager/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	state, err := f.challengeService.GetLedger(ctx)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to load ledger"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildBalanceEmbed(state), nil, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

// BuildBalanceEmbed shows the local user's balance, escrow and fee pool
func BuildBalanceEmbed(state *models.LedgerState) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💰 Ledger",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: fmt.Sprintf("%s %s", common.FormatUnits(state.Balance), common.UnitName), Inline: true},
			{Name: "In escrow", Value: fmt.Sprintf("%s %s", common.FormatUnits(state.Escrowed()), common.UnitName), Inline: true},
			{Name: "Open challenges", Value: fmt.Sprintf("%d", len(state.OpenChallenges)), Inline: true},
			{Name: "Platform fees collected", Value: fmt.Sprintf("%s %s", common.FormatUnits(state.FeesCollected), common.UnitName), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
