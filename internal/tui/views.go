package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/present"
)

const noDescription = "_No description_"

func (r issueRecord) key() string                { return r.issue.ID }
func (r issueRecord) row(selected bool) []string { return present.IssueRow(r.issue, selected) }
func (r issueRecord) markdown() string           { return r.issue.Description }
func (r issueRecord) link() string               { return r.issue.URL }

func (r issueRecord) detailRows() [][2]string {
	issue := r.issue
	rows := [][2]string{
		{"Identifier", issue.Identifier},
		{"Title", issue.Title},
		{"Status", present.StatusEmoji(issue.State) + " " + issue.State},
		{"Priority", present.PriorityEmoji(issue.Priority) + " " + strconv.Itoa(issue.Priority)},
		{"Created", localTimestamp(issue.CreatedAt)},
		{"Updated", relative(issue.UpdatedAt)},
		{"Assignee", orPlaceholder(issue.Assignee, present.Unassigned)},
		{"Team", orPlaceholder(issue.TeamName, present.NoTeam)},
		{"Project", orPlaceholder(issue.ProjectName, present.NoProject)},
	}
	if issue.CompletedAt != nil {
		rows = append(rows, [2]string{"Completed", localTimestamp(*issue.CompletedAt)})
	}
	return rows
}

func (r projectRecord) key() string                { return r.project.ID }
func (r projectRecord) row(selected bool) []string { return present.ProjectRow(r.project, selected) }
func (r projectRecord) markdown() string           { return r.project.Description }
func (r projectRecord) link() string               { return r.project.URL }

func (r projectRecord) detailRows() [][2]string {
	p := r.project
	start := present.FormatCalendarDate(p.StartDate)
	if p.StartDate == "" && p.StartedAt != nil {
		start = present.FormatDate(*p.StartedAt)
	}
	return [][2]string{
		{"Name", p.Name},
		{"State", orPlaceholder(p.State, "Unknown")},
		{"Lead", orPlaceholder(p.Lead, present.Unassigned)},
		{"Team", orPlaceholder(p.TeamName(), present.NoTeam)},
		{"Start Date", start},
		{"Target Date", present.FormatCalendarDate(p.TargetDate)},
		{"Created", localTimestamp(p.CreatedAt)},
		{"Updated", relative(p.UpdatedAt)},
	}
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func localTimestamp(t time.Time) string {
	if t.IsZero() {
		return present.NotSet
	}
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}

func relative(t time.Time) string {
	if t.IsZero() {
		return present.NotSet
	}
	return humanize.Time(t)
}

// renderMarkdown renders a description for the details pane, translated to
// tview color tags. Rendering failures fall back to the raw text.
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		md = noDescription
	}
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.ErrorWithErr(err, "tui.views: failed to create markdown renderer")
		return tview.Escape(md)
	}
	out, err := renderer.Render(md)
	if err != nil {
		logger.ErrorWithErr(err, "tui.views: failed to render markdown")
		return tview.Escape(md)
	}
	return tview.TranslateANSI(out)
}
