package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"dicewager/cmd"
	"dicewager/config"
	"dicewager/database"
	"dicewager/ledger"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(); err != nil {
				log.WithError(err).Fatal("Migration error")
			}
			return
		case "simulate":
			if err := handleSimulateCommand(); err != nil {
				log.WithError(err).Fatal("Simulation error")
			}
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: dicewager migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

func handleSimulateCommand() error {
	games := cmd.DefaultSimulationGames
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: dicewager simulate [games], got %q", os.Args[2])
		}
		games = n
	}

	cfg := config.Get()
	engine, err := ledger.NewEngine(cfg.FeeRate, cfg.DiceMinRoll, cfg.DiceMaxRoll, nil)
	if err != nil {
		return err
	}

	stake := cfg.MinBet
	if stake.LessThan(decimal.NewFromInt(100)) && cfg.MaxBet.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		stake = decimal.NewFromInt(100)
	}
	cmd.Simulate(engine, stake, games).Print(os.Stdout)
	return nil
}
