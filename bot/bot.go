package bot

import (
	"context"
	"fmt"

	"dicewager/bot/common"
	"dicewager/bot/features/balance"
	"dicewager/bot/features/challenges"
	"dicewager/events"
	"dicewager/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
}

type Bot struct {
	config            Config
	session           *discordgo.Session
	eventBus          *events.Bus
	challengesFeature *challenges.Feature
	balanceFeature    *balance.Feature
	commandIDs        []string
}

func New(config Config, challengeService service.ChallengeService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:            config,
		session:           dg,
		eventBus:          eventBus,
		challengesFeature: challenges.New(challengeService),
		balanceFeature:    balance.New(challengeService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.challengesFeature.HandleInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.subscribeToEvents()

	return bot, nil
}

func (b *Bot) Close() error {
	b.unregisterCommands()
	return b.session.Close()
}

// subscribeToEvents keeps the bot's presence showing the current balance
func (b *Bot) subscribeToEvents() {
	b.eventBus.Subscribe(events.EventTypeBalanceChange, func(_ context.Context, event events.Event) {
		change, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		status := fmt.Sprintf("Balance: %s %s", common.FormatUnits(change.NewBalance), common.UnitName)
		if err := b.session.UpdateCustomStatus(status); err != nil {
			log.WithError(err).Warn("Failed to update bot status")
		}
	})
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != diceCommandName || len(data.Options) == 0 {
		return
	}

	subcommand := data.Options[0]
	switch subcommand.Name {
	case "create":
		b.challengesFeature.HandleCreate(s, i, subcommand.Options)
	case "list":
		b.challengesFeature.HandleList(s, i)
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command.")
	}
}
