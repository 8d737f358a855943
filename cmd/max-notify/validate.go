package main

import (
	"fmt"
	"os"

	"github.com/kai-zer-ru/max-notify/internal/config"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without sending anything.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Printf("Entries: %d\n", len(cfg.Entries))

	for _, e := range cfg.Entries {
		fmt.Println()
		fmt.Printf("%s\n", e.Title())
		if e.Name != "" {
			fmt.Printf("  Name: %s\n", e.Name)
		}
		fmt.Printf("  Unique ID: %s\n", e.UniqueID())
		fmt.Printf("  Display: %s\n", e.DisplayName())
		if e.RecipientType == models.RecipientTypeUser {
			fmt.Printf("  Recipient: user %d\n", e.UserID)
		} else {
			fmt.Printf("  Recipient: chat %d\n", e.ChatID)
		}
		fmt.Printf("  Access Token: (configured)\n")
	}

	return nil
}
