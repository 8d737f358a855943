package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kai-zer-ru/max-notify/internal/config"
	"github.com/kai-zer-ru/max-notify/internal/models"
	"github.com/kai-zer-ru/max-notify/internal/wizard"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	setupToken         string
	setupRecipientType string
	setupUserID        string
	setupChatID        string
	setupName          string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure a new notification entry",
	Long: `Configure a new notification entry in two steps:
1. Validate an access token against the Max API
2. Pick a recipient: a user id or a chat id

Without flags the steps run interactively, re-prompting on invalid input.
With --token the wizard runs non-interactively and fails on the first
validation error. The created entry is appended to the config file; an
entry for an already-configured recipient is rejected.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupToken, "token", "", "access token (skips the interactive prompts)")
	setupCmd.Flags().StringVar(&setupRecipientType, "recipient-type", "", "recipient type: user or chat")
	setupCmd.Flags().StringVar(&setupUserID, "user-id", "", "recipient user id")
	setupCmd.Flags().StringVar(&setupChatID, "chat-id", "", "recipient chat id")
	setupCmd.Flags().StringVar(&setupName, "name", "", "optional entry name for selecting it later")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	store := config.NewStore(configFile)
	if err := store.Load(); err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	flow := wizard.New(wizard.APIValidator(), store, log.Logger)
	flow.SetName(setupName)

	ctx := context.Background()

	if setupToken != "" {
		if err := runSetupFromFlags(ctx, flow); err != nil {
			return err
		}
	} else {
		if err := runSetupInteractive(ctx, flow); err != nil {
			return err
		}
	}

	if err := store.Save(); err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to save config")
		return err
	}

	entry := flow.Entry()
	fmt.Printf("Created %s\n", entry.Title())
	fmt.Printf("  Unique ID: %s\n", entry.UniqueID())
	fmt.Printf("  Recipient: %s\n", entry.DisplayName())
	fmt.Printf("  Config:    %s\n", configFile)

	return nil
}

// runSetupFromFlags drives the wizard in a single pass; any validation
// failure ends the run.
func runSetupFromFlags(ctx context.Context, flow *wizard.Flow) error {
	if code := flow.SubmitToken(ctx, setupToken); code != "" {
		return fmt.Errorf("token step failed: %s", codeMessage(code))
	}

	recipientType := setupRecipientType
	rawID := setupUserID
	if recipientType == "" {
		if setupChatID != "" {
			recipientType = models.RecipientTypeChat
		} else {
			recipientType = models.RecipientTypeUser
		}
	}
	if recipientType == models.RecipientTypeChat {
		rawID = setupChatID
	}

	if code := flow.SubmitRecipient(recipientType, rawID); code != "" {
		return fmt.Errorf("recipient step failed: %s", codeMessage(code))
	}

	return nil
}

// runSetupInteractive prompts on stdin, looping each step until its input
// passes validation.
func runSetupInteractive(ctx context.Context, flow *wizard.Flow) error {
	scanner := bufio.NewScanner(os.Stdin)

	for flow.State() == wizard.StateToken {
		token, err := prompt(scanner, "Access token: ")
		if err != nil {
			return err
		}
		if code := flow.SubmitToken(ctx, token); code != "" {
			fmt.Printf("Error: %s\n", codeMessage(code))
		}
	}

	for flow.State() == wizard.StateRecipient {
		recipientType, err := prompt(scanner, fmt.Sprintf("Recipient type (user/chat) [%s]: ", flow.RecipientType()))
		if err != nil {
			return err
		}
		recipientType = strings.TrimSpace(recipientType)
		if recipientType == "" {
			recipientType = flow.RecipientType()
		}

		rawID, err := prompt(scanner, fmt.Sprintf("%s id: ", recipientType))
		if err != nil {
			return err
		}

		if code := flow.SubmitRecipient(recipientType, rawID); code != "" {
			fmt.Printf("Error: %s\n", codeMessage(code))
			if flow.State() == wizard.StateAborted {
				return fmt.Errorf("setup aborted: %s", codeMessage(code))
			}
		}
	}

	if flow.State() == wizard.StateAborted {
		return fmt.Errorf("setup aborted: %s", codeMessage(wizard.CodeAlreadyConfigured))
	}

	return nil
}

func prompt(scanner *bufio.Scanner, label string) (string, error) {
	fmt.Print(label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", fmt.Errorf("input closed")
	}
	return scanner.Text(), nil
}

func codeMessage(code wizard.Code) string {
	switch code {
	case wizard.CodeInvalidToken:
		return "access token must not be empty"
	case wizard.CodeInvalidAuth:
		return "the Max API rejected this token"
	case wizard.CodeCannotConnect:
		return "could not reach the Max API"
	case wizard.CodeUserIDRequired:
		return "user id is required"
	case wizard.CodeInvalidUserID:
		return "user id must be a positive integer"
	case wizard.CodeChatIDRequired:
		return "chat id is required"
	case wizard.CodeInvalidChatID:
		return "chat id must be a positive integer"
	case wizard.CodeAlreadyConfigured:
		return "an entry for this recipient already exists"
	default:
		return "unexpected error, check the logs"
	}
}
