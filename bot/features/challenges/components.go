package challenges

import (
	"fmt"

	"dicewager/bot/common"
	"dicewager/models"

	"github.com/bwmarrin/discordgo"
)

const acceptButtonPrefix = "dice_accept_"

// buildAcceptButtons creates one accept button per challenge, five to a row,
// capped at the number of buttons a message can carry
func buildAcceptButtons(challenges []models.Challenge) []discordgo.MessageComponent {
	if len(challenges) > common.MaxListedEntries {
		challenges = challenges[:common.MaxListedEntries]
	}

	components := []discordgo.MessageComponent{}
	for start := 0; start < len(challenges); start += common.MaxButtonsPerRow {
		end := min(start+common.MaxButtonsPerRow, len(challenges))

		buttons := []discordgo.MessageComponent{}
		for _, c := range challenges[start:end] {
			buttons = append(buttons, discordgo.Button{
				Label:    fmt.Sprintf("Accept %s (%s)", c.ShortID(), common.FormatUnits(c.Amount)),
				Style:    discordgo.SuccessButton,
				CustomID: acceptButtonPrefix + c.ID,
			})
		}

		components = append(components, discordgo.ActionsRow{
			Components: buttons,
		})
	}

	return components
}
