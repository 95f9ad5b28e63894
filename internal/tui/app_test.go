package tui

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/record"
)

func testIssues() []linearapi.Issue {
	done := testIssue()
	done.ID, done.Identifier, done.State = "issue-3", "ENG-3", "Done"

	progress := testIssue()
	progress.ID, progress.Identifier, progress.State = "issue-2", "ENG-2", "In Progress"

	return []linearapi.Issue{done, testIssue(), progress}
}

// newTestApp returns an issues App whose UI updates run immediately.
func newTestApp(t *testing.T, gw *fakeGateway) (*App, *int) {
	t.Helper()
	app := NewIssuesApp(gw, &fakeLauncher{}, testIssues())

	var pagesMu sync.Mutex
	app.queueUpdateDraw = func(f func()) {
		pagesMu.Lock()
		f()
		pagesMu.Unlock()
	}
	stops := 0
	app.stop = func() { stops++ }
	app.copyText = func(string) error { return nil }
	app.openURL = func(string) error { return nil }
	return app, &stops
}

func selectedKey(t *testing.T, app *App) string {
	t.Helper()
	entry, ok := app.nav.Selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	return entry.key()
}

func TestApp_ListNavigationFollowsSortedOrder(t *testing.T) {
	app, stops := newTestApp(t, &fakeGateway{})

	if got := selectedKey(t, app); got != "issue-2" {
		t.Fatalf("initial selection = %s, want the in-progress issue first", got)
	}
	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyDown))
	if got := selectedKey(t, app); got != "issue-3" {
		t.Fatalf("selection = %s, want the done issue last", got)
	}

	app.handleKey(runeKey('q'))
	if *stops != 1 {
		t.Fatalf("stop calls = %d, want 1", *stops)
	}
}

func TestApp_DetailsAndBack(t *testing.T) {
	app, stops := newTestApp(t, &fakeGateway{})

	app.handleKey(key(tcell.KeyEnter))
	if app.nav.Mode() != ModeDetails {
		t.Fatalf("mode = %s, want details", app.nav.Mode())
	}
	if name, _ := app.pages.GetFrontPage(); name != pageDetails {
		t.Fatalf("front page = %q", name)
	}

	app.handleKey(key(tcell.KeyEscape))
	if app.nav.Mode() != ModeList {
		t.Fatalf("mode = %s, want list", app.nav.Mode())
	}
	if *stops != 0 {
		t.Fatal("leaving details stopped the app")
	}
}

func TestApp_QuitEditorDiscardsEdits(t *testing.T) {
	gw := &fakeGateway{}
	app, _ := newTestApp(t, gw)
	before, _ := app.nav.Selected()

	app.handleKey(runeKey('e'))
	if !app.pages.HasPage(pageEditor) || app.editor == nil {
		t.Fatal("editor not shown")
	}
	editor := app.editor
	waitForCondition(t, time.Second, func() bool {
		return editor.State() == EditorBrowsing
	})

	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyLeft))
	if editor.Value(record.KeyStatus) == before.(issueRecord).issue.State {
		t.Fatal("status edit did not apply")
	}
	app.handleKey(runeKey('q'))

	if app.pages.HasPage(pageEditor) {
		t.Fatal("editor page still present")
	}
	if app.nav.Mode() != ModeList {
		t.Fatalf("mode = %s, want list", app.nav.Mode())
	}
	after, _ := app.nav.Selected()
	if after.(issueRecord).issue != before.(issueRecord).issue {
		t.Fatal("navigator record changed after quitting the editor")
	}
	if gw.issueUpdateCount() != 0 {
		t.Fatal("quitting the editor saved")
	}
}

func TestApp_SaveReplacesNavigatorRecord(t *testing.T) {
	gw := &fakeGateway{}
	app, _ := newTestApp(t, gw)
	app.handleKey(key(tcell.KeyDown)) // ENG-1, Todo

	app.handleKey(runeKey('e'))
	editor := app.editor
	waitForCondition(t, time.Second, func() bool {
		return editor.State() == EditorBrowsing
	})
	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyRight)) // In Progress
	app.handleKey(runeKey('s'))

	waitForCondition(t, time.Second, func() bool {
		for _, e := range app.nav.Entries() {
			if e.key() == "issue-1" && e.(issueRecord).issue.State == "In Progress" {
				return true
			}
		}
		return false
	})
	if got := selectedKey(t, app); got != "issue-1" {
		t.Fatalf("selection = %s, want the saved issue", got)
	}
}

func TestApp_SingleRecordBackQuits(t *testing.T) {
	app := NewIssueApp(&fakeGateway{}, &fakeLauncher{}, testIssue())
	stops := 0
	app.stop = func() { stops++ }

	if app.nav.Mode() != ModeDetails {
		t.Fatalf("mode = %s, want details", app.nav.Mode())
	}
	app.handleKey(runeKey('q'))
	if stops != 1 {
		t.Fatalf("stop calls = %d, want 1", stops)
	}
}

func TestDefaultCommands(t *testing.T) {
	commands := DefaultCommands()
	for _, id := range []string{"show_details", "edit", "copy_url", "open_browser", "back", "quit"} {
		if findCommandByID(commands, id) == nil {
			t.Fatalf("missing command %s", id)
		}
	}

	edit := findCommandByID(commands, "edit")
	if edit.Shortcut() != "E" {
		t.Fatalf("edit shortcut = %q", edit.Shortcut())
	}
	if findCommandByID(commands, "back").Shortcut() != "Q/Esc" {
		t.Fatal("back should display its custom shortcut")
	}
}

func TestCopyURLCommand(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{})
	var copied string
	app.copyText = func(s string) error {
		copied = s
		return nil
	}

	app.handleKey(runeKey('y'))
	if copied != "https://linear.app/acme/issue/ENG-1" {
		t.Fatalf("copied %q", copied)
	}

	app.copyText = func(string) error { return errors.New("no clipboard") }
	app.handleKey(runeKey('y'))
	if got := app.statusBar.GetText(true); got != "Error: no clipboard" {
		t.Fatalf("status = %q", got)
	}
}

func TestHelpText(t *testing.T) {
	app, _ := newTestApp(t, &fakeGateway{})
	want := "↑↓: navigate | Enter: details | E: edit | Y: copy URL | O: open | Q: quit"
	if got := app.helpText(ModeList); got != want {
		t.Fatalf("helpText(list) = %q, want %q", got, want)
	}
}

// findCommandByID locates a command by ID.
func findCommandByID(commands []Command, id string) *Command {
	for _, cmd := range commands {
		if cmd.ID == id {
			copyCmd := cmd
			return &copyCmd
		}
	}
	return nil
}
