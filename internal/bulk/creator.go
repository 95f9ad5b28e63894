package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Row outcomes.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrTitleRequired marks rows without a title.
var ErrTitleRequired = errors.New("Title is required")

// Gateway is the subset of the Linear client the creator needs.
type Gateway interface {
	ListTeams(ctx context.Context) ([]linearapi.Team, error)
	ListUsers(ctx context.Context) ([]linearapi.User, error)
	ListProjects(ctx context.Context, q linearapi.ProjectQuery) ([]linearapi.Project, error)
	ListWorkflowStates(ctx context.Context, teamID string) ([]linearapi.WorkflowState, error)
	CreateIssue(ctx context.Context, input linearapi.CreateIssueInput) (linearapi.Issue, error)
}

// Result is the outcome of one row.
type Result struct {
	Title      string
	Identifier string
	URL        string
	Status     string
	Error      string
}

// Report collects the outcomes of a batch.
type Report struct {
	Results []Result
	Errors  []Result
}

// Summary writes the success and failure counts.
func (r Report) Summary(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\nCreated %d issues successfully\n", len(r.Results))
	if len(r.Errors) > 0 {
		_, _ = fmt.Fprintf(w, "Failed to create %d issues\n", len(r.Errors))
	}
}

// Creator turns rows into issues.
type Creator struct {
	gw Gateway

	teams    []linearapi.Team
	users    []linearapi.User
	projects []linearapi.Project
	states   []linearapi.WorkflowState
}

// NewCreator returns a Creator backed by gw.
func NewCreator(gw Gateway) *Creator {
	return &Creator{gw: gw}
}

// load fetches the lookup tables once, concurrently.
func (c *Creator) load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := c.gw.ListTeams(gctx)
		c.teams = teams
		return err
	})
	g.Go(func() error {
		users, err := c.gw.ListUsers(gctx)
		c.users = users
		return err
	})
	g.Go(func() error {
		projects, err := c.gw.ListProjects(gctx, linearapi.ProjectQuery{})
		c.projects = projects
		return err
	})
	g.Go(func() error {
		states, err := c.gw.ListWorkflowStates(gctx, "")
		c.states = states
		return err
	})
	return g.Wait()
}

// Run creates one issue per row. defaultTeam names the team for rows without
// their own; empty means the first team. A row's own team always wins.
// Row failures are collected in the report; only setup failures are returned.
func (c *Creator) Run(ctx context.Context, rows []Row, defaultTeam string) (Report, error) {
	if err := c.load(ctx); err != nil {
		return Report{}, fmt.Errorf("load lookup data: %w", err)
	}

	var fallback linearapi.Team
	if defaultTeam != "" {
		team, err := linearapi.FindTeam(c.teams, defaultTeam)
		if err != nil {
			return Report{}, err
		}
		fallback = team
	} else if len(c.teams) > 0 {
		fallback = c.teams[0]
	} else {
		return Report{}, errors.New("no teams available")
	}

	var report Report
	for _, row := range rows {
		issue, err := c.createRow(ctx, row, fallback)
		if err != nil {
			logger.Warning("bulk: line %d failed: %v", row.Line, err)
			report.Errors = append(report.Errors, Result{
				Title:  row.Title,
				Status: StatusError,
				Error:  err.Error(),
			})
			continue
		}
		report.Results = append(report.Results, Result{
			Title:      row.Title,
			Identifier: issue.Identifier,
			URL:        issue.URL,
			Status:     StatusSuccess,
		})
	}
	return report, nil
}

func (c *Creator) createRow(ctx context.Context, row Row, fallback linearapi.Team) (linearapi.Issue, error) {
	if row.Title == "" {
		return linearapi.Issue{}, ErrTitleRequired
	}

	team := fallback
	if row.Team != "" {
		t, err := linearapi.FindTeam(c.teams, row.Team)
		if err != nil {
			return linearapi.Issue{}, err
		}
		team = t
	}

	input := linearapi.CreateIssueInput{
		TeamID:      team.ID,
		Title:       row.Title,
		Description: row.Description,
	}
	if row.State != "" {
		state, err := linearapi.FindWorkflowState(c.teamStates(team.ID), row.State)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.StateID = state.ID
	}
	if row.Assignee != "" {
		user, err := linearapi.FindUser(c.users, row.Assignee)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.AssigneeID = user.ID
	}
	if row.Project != "" {
		project, err := linearapi.FindProject(c.projects, row.Project)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.ProjectID = project.ID
	}

	return c.gw.CreateIssue(ctx, input)
}

// teamStates returns the states belonging to teamID, or every state if none are tagged with it.
func (c *Creator) teamStates(teamID string) []linearapi.WorkflowState {
	var out []linearapi.WorkflowState
	for _, s := range c.states {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return c.states
	}
	return out
}
