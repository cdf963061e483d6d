package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"dicewager/bot"
	"dicewager/config"
	"dicewager/database"
	"dicewager/events"
	"dicewager/httpapi"
	"dicewager/infrastructure"
	"dicewager/ledger"
	"dicewager/repository"
	"dicewager/service"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets the logrus level and formatter for the environment
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// storage bundles the unit of work factory with the cleanup for its backend
type storage struct {
	factory service.UnitOfWorkFactory
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, the ledger resets on restart")
		return &storage{
			factory: repository.NewMemoryUnitOfWorkFactory(eventBus, cfg.InitialBalance),
			close:   func() {},
		}, nil

	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return &storage{
			factory: repository.NewSQLiteUnitOfWorkFactory(db, eventBus, cfg.InitialBalance),
			close: func() {
				if err := db.Close(); err != nil {
					log.WithError(err).Error("Error closing sqlite database")
				}
			},
		}, nil

	case config.StoragePostgres:
		databaseURL := cfg.GetDatabaseURL()
		log.Info("Running database migrations...")
		if err := database.RunMigrationsWithURL(databaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		db, err := database.NewConnection(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &storage{
			factory: repository.NewPostgresUnitOfWorkFactory(db, eventBus, cfg.InitialBalance),
			close:   db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"storage":     cfg.StorageDriver,
	}).Info("Starting dicewager...")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize storage
	log.Info("Initializing storage...")
	store, err := openStorage(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer store.close()
	log.Info("Storage initialized successfully")

	// Initialize settlement engine and services
	engine, err := ledger.NewEngine(cfg.FeeRate, cfg.DiceMinRoll, cfg.DiceMaxRoll, nil)
	if err != nil {
		return fmt.Errorf("failed to create settlement engine: %w", err)
	}
	challengeService := service.NewChallengeService(store.factory, engine, cfg.Limits(), cfg.PrimaryUserID, eventBus)
	log.WithFields(log.Fields{
		"fee_rate": cfg.FeeRate.String(),
		"min_bet":  cfg.MinBet.String(),
		"max_bet":  cfg.MaxBet.String(),
	}).Info("Services initialized successfully")

	// Forward events to NATS
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Info("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		mapper := infrastructure.NewEventSubjectMapper()
		if err := infrastructure.EnsureEventStream(natsClient, mapper); err != nil {
			natsClient.Close()
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		infrastructure.NewEventForwarder(natsClient, mapper, "dicewager").Attach(eventBus)
		log.Info("NATS event forwarding enabled")
	}

	// Initialize Discord bot
	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord bot...")
		discordBot, err = bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.DiscordGuildID,
		}, challengeService, eventBus)
		if err != nil {
			if natsClient != nil {
				natsClient.Close()
			}
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")
	}

	// Start HTTP API
	var httpServer *httpapi.Server
	httpErrs := make(chan error, 1)
	if cfg.HTTPAddr != "" {
		httpServer = httpapi.NewServer(cfg.HTTPAddr, challengeService, eventBus)
		go func() {
			if err := httpServer.Start(); err != nil {
				httpErrs <- err
			}
		}()
	}

	if httpServer == nil && discordBot == nil {
		log.Warn("No front end enabled, set HTTP_ADDR or DISCORD_TOKEN")
	}

	// Wait for context cancellation or a fatal server error
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-httpErrs:
		log.WithError(runErr).Error("HTTP server failed")
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down HTTP server")
		}
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	log.Info("Shutdown completed")
	if runErr != nil {
		return fmt.Errorf("http server: %w", runErr)
	}
	return nil
}
