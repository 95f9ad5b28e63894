package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"github.com/roeyazroel/linear-cli/internal/logger"
)

// FormatShortcut returns a human-readable string for a shortcut.
func FormatShortcut(r rune) string {
	if r == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Command is an action bound to a key in one or more views.
type Command struct {
	ID              string
	Title           string
	ShortcutRune    rune   // The rune for the keyboard shortcut (e.g., 'e' for edit)
	ShortcutDisplay string // Custom display text for shortcut (e.g., "Enter"), overrides ShortcutRune display
	Modes           []ViewMode
	Run             func(a *App)
}

// Shortcut returns the key hint shown for the command.
func (c Command) Shortcut() string {
	if c.ShortcutDisplay != "" {
		return c.ShortcutDisplay
	}
	return FormatShortcut(c.ShortcutRune)
}

// availableIn reports whether the command applies to mode.
func (c Command) availableIn(mode ViewMode) bool {
	for _, m := range c.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// DefaultCommands returns the commands of the list and details views.
func DefaultCommands() []Command {
	commands := []Command{
		{
			ID:              "show_details",
			Title:           "details",
			ShortcutDisplay: "Enter",
			Modes:           []ViewMode{ModeList},
			Run: func(a *App) {
				a.showDetails()
			},
		},
		{
			ID:           "edit",
			Title:        "edit",
			ShortcutRune: 'e',
			Modes:        []ViewMode{ModeList, ModeDetails},
			Run: func(a *App) {
				a.showEditor()
			},
		},
		{
			ID:           "copy_url",
			Title:        "copy URL",
			ShortcutRune: 'y',
			Modes:        []ViewMode{ModeList, ModeDetails},
			Run: func(a *App) {
				entry, ok := a.nav.Selected()
				if !ok || entry.link() == "" {
					a.updateStatusBarWithError(fmt.Errorf("no URL for the selected %s", a.noun))
					return
				}
				if err := a.copyText(entry.link()); err != nil {
					logger.ErrorWithErr(err, "tui.commands: failed to copy URL %s=%s", entry.noun(), entry.label())
					a.updateStatusBarWithError(err)
					return
				}
				a.updateStatusBarWithMessage(fmt.Sprintf("Copied %s", entry.link()))
			},
		},
		{
			ID:           "open_browser",
			Title:        "open",
			ShortcutRune: 'o',
			Modes:        []ViewMode{ModeList, ModeDetails},
			Run: func(a *App) {
				entry, ok := a.nav.Selected()
				if !ok || entry.link() == "" {
					a.updateStatusBarWithError(fmt.Errorf("no URL for the selected %s", a.noun))
					return
				}
				if err := a.openURL(entry.link()); err != nil {
					a.updateStatusBarWithError(err)
				}
			},
		},
		{
			ID:              "back",
			Title:           "back",
			ShortcutRune:    'q',
			ShortcutDisplay: "Q/Esc",
			Modes:           []ViewMode{ModeDetails},
			Run: func(a *App) {
				a.goBack()
			},
		},
		{
			ID:           "quit",
			Title:        "quit",
			ShortcutRune: 'q',
			Modes:        []ViewMode{ModeList},
			Run: func(a *App) {
				a.stop()
			},
		},
	}
	return commands
}

// commandsFor returns the commands available in mode, in table order.
func (a *App) commandsFor(mode ViewMode) []Command {
	var out []Command
	for _, cmd := range a.commands {
		if cmd.availableIn(mode) {
			out = append(out, cmd)
		}
	}
	return out
}

// runShortcut runs the command bound to r in mode. It reports whether one ran.
func (a *App) runShortcut(mode ViewMode, r rune) bool {
	for _, cmd := range a.commandsFor(mode) {
		if cmd.ShortcutRune != 0 && cmd.ShortcutRune == r {
			logger.Debug("tui.commands: running command id=%s mode=%s", cmd.ID, mode)
			cmd.Run(a)
			return true
		}
	}
	return false
}

// runCommand runs the command with id, if it is available in mode.
func (a *App) runCommand(mode ViewMode, id string) bool {
	for _, cmd := range a.commandsFor(mode) {
		if cmd.ID == id {
			cmd.Run(a)
			return true
		}
	}
	return false
}

// helpText lists the shortcuts of mode for the status bar.
func (a *App) helpText(mode ViewMode) string {
	parts := []string{}
	if mode == ModeList {
		parts = append(parts, "↑↓: navigate")
	} else {
		parts = append(parts, "↑↓: scroll")
	}
	for _, cmd := range a.commandsFor(mode) {
		parts = append(parts, fmt.Sprintf("%s: %s", cmd.Shortcut(), cmd.Title))
	}
	return strings.Join(parts, " | ")
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browser.OpenURL(url); err != nil {
		logger.ErrorWithErr(err, "tui.commands: failed to open URL url=%s", url)
		return err
	}
	logger.Debug("tui.commands: opened URL in browser url=%s", url)
	return nil
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	logger.Debug("tui.commands: copied to clipboard text_length=%d", len(text))
	return nil
}
