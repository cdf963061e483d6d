package challenges

import (
	"fmt"
	"strings"
	"time"

	"dicewager/bot/common"
	"dicewager/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

// BuildCreatedEmbed summarizes a newly created batch
func BuildCreatedEmbed(created []models.Challenge, totalCost decimal.Decimal) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(created))
	for _, c := range created {
		lines = append(lines, fmt.Sprintf("`%s` %s %s", c.ShortID(), common.FormatUnits(c.Amount), common.UnitName))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎲 Challenges Created",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total escrowed",
				Value:  fmt.Sprintf("%s %s", common.FormatUnits(totalCost), common.UnitName),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// BuildListEmbed lists open challenges in creation order
func BuildListEmbed(challenges []models.Challenge) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📋 Open Challenges",
		Color:     common.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(challenges) == 0 {
		embed.Description = "No open challenges. Use `/dice create` to open some."
		return embed
	}

	shown := challenges
	if len(shown) > common.MaxListedEntries {
		shown = shown[:common.MaxListedEntries]
	}

	lines := make([]string, 0, len(shown)+1)
	for i, c := range shown {
		lines = append(lines, fmt.Sprintf("%d. `%s` %s %s", i+1, c.ShortID(), common.FormatUnits(c.Amount), common.UnitName))
	}
	if hidden := len(challenges) - len(shown); hidden > 0 {
		lines = append(lines, fmt.Sprintf("…and %d more", hidden))
	}

	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildResultEmbed shows a settlement from the local user's point of view
func BuildResultEmbed(result *models.SettlementResult) *discordgo.MessageEmbed {
	title, message := result.Summary()

	color := common.ColorDanger
	switch result.Winner {
	case models.WinnerCreator:
		color = common.ColorSuccess
	case models.WinnerTie:
		color = common.ColorWarning
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your roll", Value: fmt.Sprintf("%d", result.CreatorRoll), Inline: true},
			{Name: "Opponent roll", Value: fmt.Sprintf("%d", result.AccepterRoll), Inline: true},
			{Name: "Prize pool", Value: common.FormatUnits(result.PrizePool), Inline: true},
			{Name: "Platform fee", Value: common.FormatFee(result.PlatformFee), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Challenge %s", result.ChallengeID),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
