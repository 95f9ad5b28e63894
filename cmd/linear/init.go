package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/roeyazroel/linear-cli/internal/config"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/spf13/cobra"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the CLI with your Linear API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(c.out, "Please enter your Linear API key:")
			fmt.Fprintln(c.out, `You can create a new API key under "Personal API Keys" in your Linear account security settings.`)
			fmt.Fprintf(c.out, "Config location: %s\n\n", c.cfg.ConfigPath)

			var apiKey string
			err := huh.NewInput().
				Title("API Key").
				Placeholder("Enter your Linear API key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("API key")).
				Run()
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(c.errOut, "Initialization cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read API key: %w", err)
			}

			apiKey = strings.TrimSpace(apiKey)
			viewer, err := c.newClient(apiKey).GetCurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("validate API key: %w", err)
			}
			if err := config.SaveAPIKey(c.cfg.ConfigPath, apiKey); err != nil {
				return err
			}
			logger.Info("init: stored API key for user=%s path=%s", viewer.Name, c.cfg.ConfigPath)

			fmt.Fprintf(c.out, "\n✅ Successfully initialized Linear CLI as %s!\n", viewer.Name)
			fmt.Fprintln(c.out, "You can now use the CLI to interact with your Linear workspace.")
			return nil
		},
	}
}

// required returns a huh validator rejecting blank input.
func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
