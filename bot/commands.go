package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const diceCommandName = "dice"

// diceCommand describes /dice and its subcommands
func diceCommand() *discordgo.ApplicationCommand {
	minAmount := 0.0
	minCount := 1.0
	return &discordgo.ApplicationCommand{
		Name:        diceCommandName,
		Description: "Dice challenges against simulated opponents",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Escrow a stake and open one or more challenges",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionNumber,
						Name:        "amount",
						Description: "Stake per challenge in units",
						Required:    true,
						MinValue:    &minAmount,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "count",
						Description: "How many challenges to open",
						Required:    true,
						MinValue:    &minCount,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List open challenges with accept buttons",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "balance",
				Description: "Show balance, escrow and collected fees",
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{diceCommand()}

	for _, cmd := range commands {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commandIDs = append(b.commandIDs, created.ID)
	}

	return nil
}

// unregisterCommands removes guild commands on shutdown. Global commands
// are left in place since they take a while to propagate.
func (b *Bot) unregisterCommands() {
	if b.config.GuildID == "" {
		return
	}
	for _, id := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, id); err != nil {
			log.WithError(err).Warn("Failed to delete command")
		}
	}
}
