// Package texteditor hands text to the user's external editor and returns the result.
package texteditor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/roeyazroel/linear-cli/internal/logger"
)

// DefaultEditor is used when neither the launcher nor $EDITOR name one.
const DefaultEditor = "vim"

// ErrEditorFailed is returned when the editor process exits unsuccessfully.
var ErrEditorFailed = errors.New("editor failed")

// Launcher opens files in an external editor.
type Launcher struct {
	// Editor is the command line to run, e.g. "vim" or "code --wait".
	// Empty falls back to $EDITOR, then DefaultEditor.
	Editor string
	// TempDir holds the scratch files (defaults to os.TempDir()).
	TempDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ExecCmd builds the editor command (overridable for tests).
	ExecCmd func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New returns a Launcher using editor and the process's standard streams.
func New(editor string) *Launcher {
	return &Launcher{
		Editor:  editor,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		ExecCmd: exec.CommandContext,
	}
}

func (l *Launcher) command() []string {
	editor := strings.TrimSpace(l.Editor)
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if editor == "" {
		editor = DefaultEditor
	}
	return strings.Fields(editor)
}

// Edit writes seed to a temp file with extension ext, blocks while the editor
// runs, and returns the saved content with surrounding whitespace trimmed.
// The temp file is always removed.
func (l *Launcher) Edit(ctx context.Context, seed, ext string) (string, error) {
	path, err := l.writeTemp(seed, ext)
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warning("texteditor: failed to remove %s: %v", path, rmErr)
		}
	}()

	argv := l.command()
	execCmd := l.ExecCmd
	if execCmd == nil {
		execCmd = exec.CommandContext
	}
	cmd := execCmd(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	logger.Debug("texteditor: running %s %s", strings.Join(argv, " "), path)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s exited with status %d", ErrEditorFailed, argv[0], exitErr.ExitCode())
		}
		return "", fmt.Errorf("%w: %v", ErrEditorFailed, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (l *Launcher) writeTemp(seed, ext string) (string, error) {
	var suffix [6]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("random file name: %w", err)
	}
	dir := l.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "txt"
	}
	path := filepath.Join(dir, fmt.Sprintf("linear-edit-%s.%s", hex.EncodeToString(suffix[:]), ext))
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}
