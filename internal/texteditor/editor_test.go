package texteditor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestEditorHelperProcess plays the part of an editor in the tests below.
func TestEditorHelperProcess(t *testing.T) {
	if os.Getenv("EDITOR_TEST_HELPER") != "1" {
		return
	}

	path := os.Args[len(os.Args)-1]
	switch os.Getenv("EDITOR_TEST_MODE") {
	case "rewrite":
		seed, _ := os.ReadFile(path)
		out := fmt.Sprintf("  edited(%s) ext=%s\n\n", seed, filepath.Ext(path))
		if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
			os.Exit(3)
		}
		os.Exit(0)
	case "clear":
		_ = os.WriteFile(path, nil, 0o600)
		os.Exit(0)
	case "fail":
		os.Exit(2)
	default:
		os.Exit(0)
	}
}

// helperExecCmd returns an ExecCmd replacement that records the file it was given.
func helperExecCmd(mode string, seen *string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if seen != nil && len(args) > 0 {
			*seen = args[len(args)-1]
		}
		cmd := exec.CommandContext(ctx, os.Args[0], append([]string{"-test.run=TestEditorHelperProcess", "--"}, args...)...)
		cmd.Env = append(os.Environ(),
			"EDITOR_TEST_HELPER=1",
			fmt.Sprintf("EDITOR_TEST_MODE=%s", mode),
		)
		return cmd
	}
}

func newTestLauncher(t *testing.T, mode string, seen *string) *Launcher {
	t.Helper()
	l := New("helper-editor")
	l.TempDir = t.TempDir()
	l.Stdin = nil
	l.Stdout = nil
	l.Stderr = nil
	l.ExecCmd = helperExecCmd(mode, seen)
	return l
}

func TestEdit_ReturnsTrimmedContentAndRemovesFile(t *testing.T) {
	var path string
	l := newTestLauncher(t, "rewrite", &path)

	got, err := l.Edit(context.Background(), "seed", "md")
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if got != "edited(seed) ext=.md" {
		t.Errorf("Edit() = %q", got)
	}
	if !strings.HasPrefix(filepath.Base(path), "linear-edit-") {
		t.Errorf("temp file name = %q, want linear-edit- prefix", filepath.Base(path))
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file %s still exists (err=%v)", path, err)
	}
}

func TestEdit_EmptyResultIsKept(t *testing.T) {
	l := newTestLauncher(t, "clear", nil)

	got, err := l.Edit(context.Background(), "something", "txt")
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if got != "" {
		t.Errorf("Edit() = %q, want empty", got)
	}
}

func TestEdit_NonZeroExit(t *testing.T) {
	var path string
	l := newTestLauncher(t, "fail", &path)

	_, err := l.Edit(context.Background(), "seed", "txt")
	if !errors.Is(err, ErrEditorFailed) {
		t.Fatalf("Edit() error = %v, want ErrEditorFailed", err)
	}
	if !strings.Contains(err.Error(), "status 2") {
		t.Errorf("error = %q, want exit status", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("temp file not removed after failure")
	}
}

func TestCommand_Fallbacks(t *testing.T) {
	t.Setenv("EDITOR", "")
	if got := (&Launcher{}).command(); len(got) != 1 || got[0] != DefaultEditor {
		t.Errorf("command() = %v, want [%s]", got, DefaultEditor)
	}

	t.Setenv("EDITOR", "nano")
	if got := (&Launcher{}).command(); got[0] != "nano" {
		t.Errorf("command() = %v, want nano", got)
	}

	got := (&Launcher{Editor: "code --wait"}).command()
	if len(got) != 2 || got[0] != "code" || got[1] != "--wait" {
		t.Errorf("command() = %v, want [code --wait]", got)
	}
}
