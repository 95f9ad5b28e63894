package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/record"
	"golang.org/x/sync/errgroup"
)

// Gateway is the part of the Linear client the interactive views use.
type Gateway interface {
	ListTeams(ctx context.Context) ([]linearapi.Team, error)
	ListUsers(ctx context.Context) ([]linearapi.User, error)
	ListProjects(ctx context.Context, q linearapi.ProjectQuery) ([]linearapi.Project, error)
	ListWorkflowStates(ctx context.Context, teamID string) ([]linearapi.WorkflowState, error)
	UpdateIssue(ctx context.Context, input linearapi.UpdateIssueInput) (linearapi.Issue, error)
	UpdateProject(ctx context.Context, input linearapi.UpdateProjectInput) (linearapi.Project, error)
}

// editable binds one record type to the record editor. Implementations are
// values: a successful save returns a new editable holding the fresh record.
type editable interface {
	// noun is the lower-case record type, e.g. "issue".
	noun() string
	// label identifies the record in headers and messages.
	label() string
	fields() []record.Field
	seed() record.Values
	loadOptions(ctx context.Context, gw Gateway, cache *record.OptionCache) error
	save(ctx context.Context, gw Gateway, values record.Values, cache *record.OptionCache, now time.Time) (editable, error)
}

type issueRecord struct {
	issue linearapi.Issue
}

func (r issueRecord) noun() string           { return "issue" }
func (r issueRecord) label() string          { return r.issue.Identifier }
func (r issueRecord) fields() []record.Field { return record.IssueFields }
func (r issueRecord) seed() record.Values    { return record.SeedIssue(r.issue) }

// loadOptions fetches users, teams, projects and the issue team's workflow states.
func (r issueRecord) loadOptions(ctx context.Context, gw Gateway, cache *record.OptionCache) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := gw.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		cache.SetUsers(users)
		return nil
	})
	g.Go(func() error {
		teams, err := gw.ListTeams(gctx)
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		cache.SetTeams(teams)
		return nil
	})
	g.Go(func() error {
		projects, err := gw.ListProjects(gctx, linearapi.ProjectQuery{})
		if err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		cache.SetProjects(projects)
		return nil
	})
	if r.issue.TeamID != "" {
		g.Go(func() error {
			states, err := gw.ListWorkflowStates(gctx, r.issue.TeamID)
			if err != nil {
				return fmt.Errorf("load workflow states: %w", err)
			}
			cache.SetStates(states)
			return nil
		})
	}
	return g.Wait()
}

func (r issueRecord) save(ctx context.Context, gw Gateway, values record.Values, cache *record.OptionCache, _ time.Time) (editable, error) {
	updated, err := gw.UpdateIssue(ctx, record.IssueUpdate(r.issue.ID, values, cache))
	if err != nil {
		return nil, err
	}
	return issueRecord{issue: updated}, nil
}

type projectRecord struct {
	project linearapi.Project
}

func (r projectRecord) noun() string           { return "project" }
func (r projectRecord) label() string          { return r.project.Name }
func (r projectRecord) fields() []record.Field { return record.ProjectFields }
func (r projectRecord) seed() record.Values    { return record.SeedProject(r.project) }

// loadOptions fetches users and teams. Project states are static.
func (r projectRecord) loadOptions(ctx context.Context, gw Gateway, cache *record.OptionCache) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := gw.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		cache.SetUsers(users)
		return nil
	})
	g.Go(func() error {
		teams, err := gw.ListTeams(gctx)
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		cache.SetTeams(teams)
		return nil
	})
	return g.Wait()
}

func (r projectRecord) save(ctx context.Context, gw Gateway, values record.Values, cache *record.OptionCache, now time.Time) (editable, error) {
	input, err := record.ProjectUpdate(r.project.ID, values, cache, now)
	if err != nil {
		return nil, err
	}
	updated, err := gw.UpdateProject(ctx, input)
	if err != nil {
		return nil, err
	}
	return projectRecord{project: updated}, nil
}
