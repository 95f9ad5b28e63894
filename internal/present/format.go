package present

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
)

// Placeholders for missing related entities.
const (
	Unassigned = "Unassigned"
	NoTeam     = "No Team"
	NoProject  = "No Project"
	NotSet     = "Not set"

	// CursorMarker flags the selected row.
	CursorMarker = "▶"
)

var statusEmoji = map[string]string{
	"Ready":       "⭕",
	"Planning":    "📋",
	"In Review":   "👀",
	"Todo":        "📝",
	"Canceled":    "⛔",
	"Done":        "✅",
	"Duplicate":   "🔄",
	"Backlog":     "📚",
	"In Progress": "🚀",
}

// StatusEmoji returns the emoji for a workflow state name, or "❓ <name>" when unknown.
func StatusEmoji(status string) string {
	if e, ok := statusEmoji[status]; ok {
		return e
	}
	return "❓ " + status
}

var priorityEmoji = map[int]string{
	0: "⚪",
	1: "🟢",
	2: "🟡",
	3: "🟠",
	4: "🔴",
}

// PriorityEmoji returns the emoji for a priority level.
func PriorityEmoji(priority int) string {
	if e, ok := priorityEmoji[priority]; ok {
		return e
	}
	return "⚪"
}

// Truncate shortens s to at most width terminal cells, ending in "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 || s == "" {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// FormatDate renders t as M/D/YYYY in local time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NotSet
	}
	return t.Local().Format("1/2/2006")
}

// FormatCalendarDate renders a YYYY-MM-DD date as M/D/YYYY.
func FormatCalendarDate(date string) string {
	if date == "" {
		return NotSet
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("1/2/2006")
}

// Column is a table header with its maximum cell width.
type Column struct {
	Title string
	Width int
}

// IssueColumns are the issue list columns.
var IssueColumns = []Column{
	{">", 1},
	{"ID", 10},
	{"Title", 45},
	{"Status", 10},
	{"Priority", 10},
	{"Assignee", 15},
	{"Team", 15},
	{"Project", 15},
	{"Created", 8},
}

// ProjectColumns are the project list columns.
var ProjectColumns = []Column{
	{">", 1},
	{"ID", 10},
	{"Name", 45},
	{"State", 12},
	{"Lead", 15},
	{"Team", 15},
	{"Start Date", 12},
	{"Target Date", 12},
}

// Headers returns the column titles.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func cursor(selected bool) string {
	if selected {
		return CursorMarker
	}
	return " "
}

// IssueRow returns the display cells for one issue.
func IssueRow(issue linearapi.Issue, selected bool) []string {
	raw := []string{
		cursor(selected),
		issue.Identifier,
		issue.Title,
		StatusEmoji(issue.State) + " " + issue.State,
		PriorityEmoji(issue.Priority) + " " + strconv.Itoa(issue.Priority),
		orDefault(issue.Assignee, Unassigned),
		orDefault(issue.TeamName, NoTeam),
		orDefault(issue.ProjectName, NoProject),
		FormatDate(issue.CreatedAt),
	}
	return fit(raw, IssueColumns)
}

// ProjectRow returns the display cells for one project.
func ProjectRow(project linearapi.Project, selected bool) []string {
	start := NotSet
	if project.StartDate != "" {
		start = FormatCalendarDate(project.StartDate)
	} else if project.StartedAt != nil {
		start = FormatDate(*project.StartedAt)
	}
	raw := []string{
		cursor(selected),
		project.ID,
		project.Name,
		orDefault(project.State, "Unknown"),
		orDefault(project.Lead, Unassigned),
		orDefault(project.TeamName(), NoTeam),
		start,
		FormatCalendarDate(project.TargetDate),
	}
	return fit(raw, ProjectColumns)
}

func fit(cells []string, cols []Column) []string {
	for i := range cells {
		if i < len(cols) && i > 0 {
			cells[i] = Truncate(cells[i], cols[i].Width)
		}
	}
	return cells
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderTable writes a bordered table.
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
