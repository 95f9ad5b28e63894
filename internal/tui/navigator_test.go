package tui

import (
	"testing"
	"time"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
)

func TestNavigator_MoveClamps(t *testing.T) {
	nav := newNavigator(issueEntries(testIssues()), sortIssueEntries)

	nav.Move(-1)
	if e, _ := nav.Selected(); e.key() != "issue-2" {
		t.Fatalf("selection = %s after moving above the top", e.key())
	}
	nav.Move(10)
	if e, _ := nav.Selected(); e.key() != "issue-3" {
		t.Fatalf("selection = %s after moving past the end", e.key())
	}
}

func TestNavigator_EmptyCollection(t *testing.T) {
	nav := newNavigator(nil, sortIssueEntries)
	if _, ok := nav.Selected(); ok {
		t.Fatal("empty navigator has a selection")
	}
	nav.Move(1)
	if nav.Show(ModeDetails) {
		t.Fatal("details shown with nothing selected")
	}
	if nav.Mode() != ModeList {
		t.Fatalf("mode = %s", nav.Mode())
	}
}

func TestNavigator_Back(t *testing.T) {
	nav := newNavigator(issueEntries(testIssues()), sortIssueEntries)
	nav.Show(ModeEdit)
	if nav.Back() || nav.Mode() != ModeList {
		t.Fatalf("back from edit: mode = %s, want list", nav.Mode())
	}
	if !nav.Back() {
		t.Fatal("back from the list should close the navigator")
	}

	single := newSingleNavigator(issueRecord{issue: testIssue()})
	single.Show(ModeEdit)
	if single.Back() || single.Mode() != ModeDetails {
		t.Fatalf("back from edit on a single record: mode = %s, want details", single.Mode())
	}
	if !single.Back() {
		t.Fatal("back from details on a single record should close the navigator")
	}
}

func TestNavigator_ReplaceResortsAndKeepsSelection(t *testing.T) {
	nav := newNavigator(issueEntries(testIssues()), sortIssueEntries)
	nav.Move(2) // issue-3, Done

	reopened := testIssue()
	reopened.ID, reopened.Identifier, reopened.State = "issue-3", "ENG-3", "In Progress"
	reopened.Priority = 4
	nav.Replace(issueRecord{issue: reopened})

	entries := nav.Entries()
	if entries[0].key() != "issue-3" {
		t.Fatalf("first entry = %s, want the reopened issue", entries[0].key())
	}
	if e, _ := nav.Selected(); e.key() != "issue-3" || e.(issueRecord).issue.State != "In Progress" {
		t.Fatalf("selection = %+v", e)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
}

func TestSortProjectEntries(t *testing.T) {
	started := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	projects := []linearapi.Project{
		{ID: "p-done", State: "completed"},
		{ID: "p-nostart", State: "planned"},
		{ID: "p-started", State: "planned", StartedAt: &started},
	}
	got := sortProjectEntries(projectEntries(projects))
	want := []string{"p-started", "p-nostart", "p-done"}
	for i, id := range want {
		if got[i].key() != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].key(), id)
		}
	}
}
