package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kai-zer-ru/max-notify/internal/config"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/kai-zer-ru/max-notify/internal/services/notify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sendEntry string
	sendTitle string
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message to the configured recipient",
	Long: `Send a text message through the Max platform API using a configured
entry. The message is the joined command arguments; an optional title is
prepended on its own line. Messages longer than 4000 characters are
truncated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendEntry, "entry", "e", "", "entry name or unique id (default: first entry)")
	sendCmd.Flags().StringVarP(&sendTitle, "title", "t", "", "optional message title")
}

func runSend(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	entry, ok := config.FindEntry(cfg, sendEntry)
	if !ok {
		log.Error().Str("entry", sendEntry).Msg("entry not found in config")
		return fmt.Errorf("entry not found: %s", sendEntry)
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	notifySvc := notify.New(log.Logger)
	result, _ := notifySvc.Send(ctx, entry, models.Message{
		Title: sendTitle,
		Body:  strings.Join(args, " "),
	})

	// Delivery failures are already logged by the service; the exit code
	// still reflects them so the command can be scripted.
	if result.Error != nil {
		return fmt.Errorf("send failed: %w", result.Error)
	}

	return nil
}
