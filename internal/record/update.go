package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
)

// DateLayout is the calendar date format sent to and shown from Linear.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date field cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseDate normalises input to YYYY-MM-DD. Empty input yields "".
// Besides ISO dates it accepts M/D/YYYY and phrases like "next friday".
func ParseDate(input string, now time.Time) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	for _, layout := range []string{DateLayout, "1/2/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	r, err := dateParser.Parse(s, now)
	if err != nil || r == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return r.Time.Format(DateLayout), nil
}

// SeedIssue builds form values from an issue.
func SeedIssue(issue linearapi.Issue) Values {
	return Values{
		KeyTitle:       issue.Title,
		KeyDescription: issue.Description,
		KeyStatus:      issue.State,
		KeyPriority:    strconv.Itoa(issue.Priority),
		KeyAssignee:    issue.Assignee,
		KeyTeam:        issue.TeamName,
		KeyProject:     issue.ProjectName,
	}
}

// SeedProject builds form values from a project.
func SeedProject(project linearapi.Project) Values {
	return Values{
		KeyName:        project.Name,
		KeyDescription: project.Description,
		KeyState:       project.State,
		KeyLead:        project.Lead,
		KeyTeam:        project.TeamName(),
		KeyStartDate:   project.StartDate,
		KeyTargetDate:  project.TargetDate,
	}
}

// IssueUpdate builds the update for issue id from form values.
// Select values that match no cached option are left out of the update.
func IssueUpdate(id string, values Values, cache *OptionCache) linearapi.UpdateIssueInput {
	title := values[KeyTitle]
	description := values[KeyDescription]
	priority := values.Priority()
	input := linearapi.UpdateIssueInput{
		ID:          id,
		Title:       &title,
		Description: &description,
		Priority:    &priority,
	}
	if opt, ok := cache.Lookup(CategoryStates, values[KeyStatus]); ok {
		input.StateID = &opt.ID
	}
	if opt, ok := cache.Lookup(CategoryUsers, values[KeyAssignee]); ok {
		input.AssigneeID = &opt.ID
	}
	if opt, ok := cache.Lookup(CategoryTeams, values[KeyTeam]); ok {
		input.TeamID = &opt.ID
	}
	if opt, ok := cache.Lookup(CategoryProjects, values[KeyProject]); ok {
		input.ProjectID = &opt.ID
	}
	return input
}

// ProjectUpdate builds the update for project id from form values.
// It fails with ErrInvalidDate when a date field cannot be parsed.
func ProjectUpdate(id string, values Values, cache *OptionCache, now time.Time) (linearapi.UpdateProjectInput, error) {
	name := values[KeyName]
	description := values[KeyDescription]
	input := linearapi.UpdateProjectInput{
		ID:          id,
		Name:        &name,
		Description: &description,
	}
	if opt, ok := cache.Lookup(CategoryProjectStates, values[KeyState]); ok {
		input.State = &opt.ID
	}
	if opt, ok := cache.Lookup(CategoryUsers, values[KeyLead]); ok {
		input.LeadID = &opt.ID
	}
	if opt, ok := cache.Lookup(CategoryTeams, values[KeyTeam]); ok {
		input.TeamIDs = &[]string{opt.ID}
	}

	start, err := ParseDate(values[KeyStartDate], now)
	if err != nil {
		return linearapi.UpdateProjectInput{}, fmt.Errorf("start date: %w", err)
	}
	target, err := ParseDate(values[KeyTargetDate], now)
	if err != nil {
		return linearapi.UpdateProjectInput{}, fmt.Errorf("target date: %w", err)
	}
	input.StartDate = &start
	input.TargetDate = &target
	return input, nil
}
