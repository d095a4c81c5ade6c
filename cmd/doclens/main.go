package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/doclensbot/doclens/pkg/bot"
	"github.com/doclensbot/doclens/pkg/bus"
	"github.com/doclensbot/doclens/pkg/channels"
	"github.com/doclensbot/doclens/pkg/config"
	"github.com/doclensbot/doclens/pkg/docai"
	"github.com/doclensbot/doclens/pkg/logger"
	"github.com/doclensbot/doclens/pkg/metrics"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "doclens: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Configuration must be complete before any chat input is accepted.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := docai.NewClient(ctx, docai.Options{
		ProjectID:             cfg.ProjectID,
		Location:              cfg.Location,
		ProcessorID:           cfg.ProcessorID,
		SummarizerProcessorID: cfg.SummarizerProcessorID,
		CredentialsPath:       cfg.CredentialsPath,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	msgBus := bus.NewMessageBus()
	tracker := metrics.NewTracker(cfg.WorkspacePath)

	channel, err := channels.NewTelegramChannel(cfg.BotToken, msgBus)
	if err != nil {
		return err
	}

	loop := bot.NewLoop(msgBus, client, client, tracker)

	errCh := make(chan error, 2)
	go func() { errCh <- loop.Run(ctx) }()
	go func() { errCh <- channel.Run(ctx) }()

	logger.Info("🤖 Bot is running!")

	err = <-errCh
	stop()
	logger.Info("Shutting down")
	return err
}
