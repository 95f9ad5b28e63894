package present

import (
	"bytes"
	"testing"
	"time"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func ids(issues []linearapi.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.ID
	}
	return out
}

func TestSortIssues(t *testing.T) {
	issues := []linearapi.Issue{
		{ID: "done-old", State: "Done", Priority: 1, CompletedAt: ptr(day(2)), CreatedAt: day(1)},
		{ID: "todo-low", State: "Todo", Priority: 1, CreatedAt: day(5)},
		{ID: "progress", State: "In Progress", Priority: 0, CreatedAt: day(1)},
		{ID: "unknown", State: "Triage", Priority: 1, CreatedAt: day(9)},
		{ID: "backlog-high", State: "Backlog", Priority: 4, CreatedAt: day(1)},
		{ID: "done-new", State: "Canceled", Priority: 1, CompletedAt: ptr(day(8)), CreatedAt: day(1)},
	}

	got := SortIssues(issues)
	assert.Equal(t, []string{"progress", "backlog-high", "unknown", "todo-low", "done-new", "done-old"}, ids(got))
	assert.Equal(t, "done-old", issues[0].ID, "input must not be reordered")
}

func TestSortIssues_BucketDominates(t *testing.T) {
	issues := []linearapi.Issue{
		{ID: "a", State: "Done", Priority: 4, CreatedAt: day(9), CompletedAt: ptr(day(9))},
		{ID: "b", State: "Backlog", Priority: 0, CreatedAt: day(1)},
		{ID: "c", State: "In Progress", Priority: 0, CreatedAt: day(1)},
	}
	got := SortIssues(issues)
	for i := 0; i < len(got)-1; i++ {
		assert.LessOrEqual(t, IssueBucket(got[i].State), IssueBucket(got[i+1].State))
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestSortProjects(t *testing.T) {
	projects := []linearapi.Project{
		{ID: "done", State: "completed", CreatedAt: day(9)},
		{ID: "undated", State: "in_progress", CreatedAt: day(9)},
		{ID: "started-old", State: "in_progress", StartedAt: ptr(day(1)), CreatedAt: day(1)},
		{ID: "planned", State: "planned", CreatedAt: day(1)},
		{ID: "started-new", State: "mystery", StartDate: "2024-01-05", CreatedAt: day(1)},
		{ID: "paused", State: "paused", CreatedAt: day(1)},
	}

	got := SortProjects(projects)
	order := make([]string, len(got))
	for i, p := range got {
		order[i] = p.ID
	}
	assert.Equal(t, []string{"planned", "started-new", "started-old", "undated", "paused", "done"}, order)
}

func TestEmoji(t *testing.T) {
	assert.Equal(t, "🚀", StatusEmoji("In Progress"))
	assert.Equal(t, "❓ Triage", StatusEmoji("Triage"))
	assert.Equal(t, "🔴", PriorityEmoji(4))
	assert.Equal(t, "⚪", PriorityEmoji(9))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefghi…", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "", Truncate("", 10))
	assert.Equal(t, "abcdefghij", Truncate("abcdefghij", 10), "exact fit is kept")
}

func TestIssueRow(t *testing.T) {
	row := IssueRow(linearapi.Issue{Identifier: "ENG-1", Title: "Fix", State: "Todo", Priority: 2}, true)
	require.Len(t, row, len(IssueColumns))
	assert.Equal(t, CursorMarker, row[0])
	assert.Equal(t, Unassigned, row[5])
	assert.Equal(t, NoTeam, row[6])
	assert.Equal(t, NoProject, row[7])
	assert.Equal(t, NotSet, row[8])

	row = IssueRow(linearapi.Issue{Identifier: "ENG-1"}, false)
	assert.Equal(t, " ", row[0])
}

func TestProjectRow(t *testing.T) {
	row := ProjectRow(linearapi.Project{ID: "p1", Name: "Roadmap", TargetDate: "2024-06-30"}, false)
	require.Len(t, row, len(ProjectColumns))
	assert.Equal(t, "Unknown", row[3])
	assert.Equal(t, NotSet, row[6])
	assert.Equal(t, "6/30/2024", row[7])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, []string{"ID", "Title"}, [][]string{{"ENG-1", "Fix login"}}))
	out := buf.String()
	assert.Contains(t, out, "ENG-1")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "Title")
}
