package main

import (
	"io"
	"os"

	"github.com/roeyazroel/linear-cli/internal/config"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/texteditor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfg    config.Config
	client *linearapi.Client
	out    io.Writer
	errOut io.Writer

	// isTerminal reports whether stdout is a terminal. Overridden in tests.
	isTerminal func() bool
}

func newRootCmd() *cobra.Command {
	c := &cli{
		out:    os.Stdout,
		errOut: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
		},
	}

	root := &cobra.Command{
		Use:           "linear",
		Short:         "A terminal client for Linear",
		Version:       VersionInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Info("linear: shutdown")
			logger.Close()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newInitCmd(c),
		newIssuesCmd(c),
		newProjectsCmd(c),
	)
	return root
}

// setup loads configuration and starts the file logger.
func (c *cli) setup(cmd *cobra.Command) error {
	c.out = cmd.OutOrStdout()
	c.errOut = cmd.ErrOrStderr()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := logger.Init(cfg.LogFile, logger.ParseLevel(cfg.LogLevel)); err != nil {
		return err
	}
	logger.Info("linear: starting command=%s", cmd.CommandPath())
	logger.Debug("linear: configuration endpoint=%s page_size=%d timeout=%s editor=%s",
		cfg.APIEndpoint, cfg.PageSize, cfg.Timeout, cfg.Editor)
	return nil
}

// gateway returns the Linear client, failing when no API key is configured.
func (c *cli) gateway() (*linearapi.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	if err := c.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	c.client = c.newClient(c.cfg.LinearAPIKey)
	return c.client, nil
}

func (c *cli) newClient(token string) *linearapi.Client {
	return linearapi.NewClient(linearapi.ClientConfig{
		Token:    token,
		Endpoint: c.cfg.APIEndpoint,
		Timeout:  c.cfg.Timeout,
		PageSize: c.cfg.PageSize,
	})
}

func (c *cli) launcher() *texteditor.Launcher {
	return texteditor.New(c.cfg.Editor)
}

// interactive reports whether the terminal views can be shown.
func (c *cli) interactive(plain bool) bool {
	return !plain && c.isTerminal != nil && c.isTerminal()
}
