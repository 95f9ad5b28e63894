package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/roeyazroel/linear-cli/internal/bulk"
	"github.com/roeyazroel/linear-cli/internal/config"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/present"
	"github.com/roeyazroel/linear-cli/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// defaultStateName is the workflow state new issues get when none is chosen.
const defaultStateName = "Backlog"

func newIssuesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Manage Linear issues",
	}
	cmd.AddCommand(
		newIssuesListCmd(c),
		newIssuesViewCmd(c),
		newIssuesCreateCmd(c),
	)
	return cmd
}

func newIssuesListCmd(c *cli) *cobra.Command {
	var (
		q     linearapi.IssueQuery
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.gateway()
			if err != nil {
				return err
			}
			issues, err := client.FetchIssues(cmd.Context(), q)
			if err != nil {
				return err
			}
			logger.Info("issues list: fetched %d issues", len(issues))

			if !c.interactive(plain) {
				return printIssues(c.out, issues)
			}
			return tui.NewIssuesApp(client, c.launcher(), issues).Run()
		},
	}
	cmd.Flags().StringVarP(&q.ProjectName, "project", "p", "", "Filter by project name")
	cmd.Flags().StringVarP(&q.AssigneeName, "assignee", "a", "", "Filter by assignee name")
	cmd.Flags().StringVarP(&q.StateName, "status", "s", "", "Filter by status")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive list")
	return cmd
}

func newIssuesViewCmd(c *cli) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "view <label>",
		Short: "View an issue by its label (e.g. ENG-123)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(args[0])
			if label == "" {
				return errors.New("no label given")
			}
			client, err := c.gateway()
			if err != nil {
				return err
			}
			issue, err := client.FetchIssue(cmd.Context(), label)
			if err != nil {
				return err
			}

			if !c.interactive(plain) {
				return printIssues(c.out, []linearapi.Issue{issue})
			}
			return tui.NewIssueApp(client, c.launcher(), issue).Run()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive view")
	return cmd
}

type issueCreateOptions struct {
	draft       issueDraft
	interactive bool
	csv         string
	output      string
}

func newIssuesCreateCmd(c *cli) *cobra.Command {
	var opts issueCreateOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.gateway()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch {
			case opts.csv != "":
				return c.createIssuesFromCSV(ctx, client, opts)
			case opts.interactive:
				return c.createIssueInteractive(ctx, client, opts.draft)
			default:
				return c.createIssueFromFlags(ctx, client, opts.draft)
			}
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.draft.Title, "title", "t", "", "Issue title")
	flags.StringVarP(&opts.draft.Description, "description", "d", "", "Issue description")
	flags.StringVarP(&opts.draft.State, "state", "s", "", `Issue state (e.g. "Todo", "In Progress")`)
	flags.StringVarP(&opts.draft.Assignee, "assignee", "a", "", "Assignee name")
	flags.StringVarP(&opts.draft.Project, "project", "p", "", "Project name")
	flags.StringVarP(&opts.draft.Team, "team", "T", "", "Team name")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Create the issue interactively")
	flags.StringVar(&opts.csv, "csv", "", "Create issues from a CSV file")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the CSV results to a file (defaults to stdout)")
	return cmd
}

func (c *cli) createIssueFromFlags(ctx context.Context, client *linearapi.Client, draft issueDraft) error {
	draft = draft.withDefaults(config.LoadDefaults(c.cfg.DefaultsPath))
	issue, err := createIssue(ctx, client, draft)
	if err != nil {
		return err
	}
	c.saveDefaults(draft.defaults())
	return c.showCreatedIssue(client, issue)
}

func (c *cli) createIssueInteractive(ctx context.Context, client *linearapi.Client, draft issueDraft) error {
	draft = draft.withDefaults(config.LoadDefaults(c.cfg.DefaultsPath))
	fmt.Fprintln(c.errOut, "Creating a new issue (press Ctrl+C to cancel)")

	cat, err := loadIssueCatalog(ctx, client)
	if err != nil {
		return err
	}
	if len(cat.teams) == 0 {
		return errors.New("no teams available")
	}
	if team, err := cat.team(draft.Team); err == nil {
		draft.Team = team.ID
	} else {
		draft.Team = cat.teams[0].ID
	}

	teamOptions := make([]huh.Option[string], 0, len(cat.teams))
	for _, t := range cat.teams {
		teamOptions = append(teamOptions, huh.NewOption(t.Name, t.ID))
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&draft.Title).
				Validate(required("title")),
			huh.NewSelect[string]().
				Title("Team").
				Options(teamOptions...).
				Value(&draft.Team),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(c.errOut, "Issue creation cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("issue form: %w", err)
	}

	description, err := c.launcher().Edit(ctx, draft.Description, "md")
	if err != nil {
		logger.ErrorWithErr(err, "issues create: description editor failed")
		fmt.Fprintf(c.errOut, "Editor error: %v\n", err)
	} else {
		draft.Description = description
	}

	team, err := cat.team(draft.Team)
	if err != nil {
		return err
	}
	states, err := client.ListWorkflowStates(ctx, team.ID)
	if err != nil {
		return err
	}

	input := linearapi.CreateIssueInput{
		TeamID:      team.ID,
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		StateID:     preselect(draft.State, defaultState(states).ID, func(ref string) (string, error) {
			s, err := linearapi.FindWorkflowState(states, ref)
			return s.ID, err
		}),
		AssigneeID: preselect(draft.Assignee, "", func(ref string) (string, error) {
			u, err := linearapi.FindUser(cat.users, ref)
			return u.ID, err
		}),
		ProjectID: preselect(draft.Project, "", func(ref string) (string, error) {
			p, err := linearapi.FindProject(cat.projects, ref)
			return p.ID, err
		}),
	}

	stateOptions := make([]huh.Option[string], 0, len(states))
	for _, s := range states {
		stateOptions = append(stateOptions, huh.NewOption(s.Name, s.ID))
	}
	userOptions := []huh.Option[string]{huh.NewOption(present.Unassigned, "")}
	for _, u := range cat.users {
		userOptions = append(userOptions, huh.NewOption(u.Name, u.ID))
	}
	projectOptions := []huh.Option[string]{huh.NewOption(present.NoProject, "")}
	for _, p := range cat.projects {
		projectOptions = append(projectOptions, huh.NewOption(p.Name, p.ID))
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("State").
				Options(stateOptions...).
				Value(&input.StateID),
			huh.NewSelect[string]().
				Title("Assignee").
				Options(userOptions...).
				Value(&input.AssigneeID),
			huh.NewSelect[string]().
				Title("Project").
				Options(projectOptions...).
				Value(&input.ProjectID),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(c.errOut, "Issue creation cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("issue form: %w", err)
	}

	issue, err := client.CreateIssue(ctx, input)
	if err != nil {
		return err
	}
	c.saveDefaults(config.Defaults{
		Team:     team.Name,
		State:    issue.State,
		Assignee: issue.Assignee,
		Project:  issue.ProjectName,
	})
	return c.showCreatedIssue(client, issue)
}

func (c *cli) createIssuesFromCSV(ctx context.Context, client *linearapi.Client, opts issueCreateOptions) error {
	f, err := os.Open(opts.csv)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := bulk.ReadRows(f)
	if err != nil {
		return err
	}
	report, err := bulk.NewCreator(client).Run(ctx, rows, opts.draft.Team)
	if err != nil {
		return err
	}

	out := c.out
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := bulk.WriteReport(out, report); err != nil {
		return err
	}
	report.Summary(c.errOut)
	return nil
}

func (c *cli) saveDefaults(d config.Defaults) {
	if err := config.SaveDefaults(c.cfg.DefaultsPath, d); err != nil {
		logger.ErrorWithErr(err, "issues create: failed to save defaults")
		fmt.Fprintf(c.errOut, "Failed to save default values: %v\n", err)
	}
}

func (c *cli) showCreatedIssue(client *linearapi.Client, issue linearapi.Issue) error {
	if !c.interactive(false) {
		fmt.Fprintf(c.out, "Created issue %s: %s\n%s\n", issue.Identifier, issue.Title, issue.URL)
		return nil
	}
	return tui.NewIssueApp(client, c.launcher(), issue).Run()
}

func printIssues(w io.Writer, issues []linearapi.Issue) error {
	rows := make([][]string, 0, len(issues))
	for _, issue := range present.SortIssues(issues) {
		rows = append(rows, present.IssueRow(issue, false)[1:])
	}
	return present.RenderTable(w, present.Headers(present.IssueColumns)[1:], rows)
}

// issueDraft is an issue to create with related entities given by name.
type issueDraft struct {
	Title       string
	Description string
	Team        string
	State       string
	Assignee    string
	Project     string
}

// withDefaults fills unset related entities from saved defaults.
func (d issueDraft) withDefaults(saved config.Defaults) issueDraft {
	merged := d.defaults().Merge(saved)
	d.Team, d.State, d.Assignee, d.Project = merged.Team, merged.State, merged.Assignee, merged.Project
	return d
}

func (d issueDraft) defaults() config.Defaults {
	return config.Defaults{
		Team:     d.Team,
		State:    d.State,
		Assignee: d.Assignee,
		Project:  d.Project,
	}
}

// issueCatalog holds the entities issue names are resolved against.
type issueCatalog struct {
	teams    []linearapi.Team
	users    []linearapi.User
	projects []linearapi.Project
}

func loadIssueCatalog(ctx context.Context, gw bulk.Gateway) (issueCatalog, error) {
	var cat issueCatalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := gw.ListTeams(gctx)
		cat.teams = teams
		return err
	})
	g.Go(func() error {
		users, err := gw.ListUsers(gctx)
		cat.users = users
		return err
	})
	g.Go(func() error {
		projects, err := gw.ListProjects(gctx, linearapi.ProjectQuery{})
		cat.projects = projects
		return err
	})
	if err := g.Wait(); err != nil {
		return issueCatalog{}, err
	}
	return cat, nil
}

// team resolves ref, or returns the first team when ref is empty.
func (cat issueCatalog) team(ref string) (linearapi.Team, error) {
	if ref != "" {
		return linearapi.FindTeam(cat.teams, ref)
	}
	if len(cat.teams) == 0 {
		return linearapi.Team{}, errors.New("no teams available")
	}
	return cat.teams[0], nil
}

// createIssue resolves the draft's names to IDs and creates the issue.
// Unknown names fail the creation. The state defaults to Backlog.
func createIssue(ctx context.Context, gw bulk.Gateway, draft issueDraft) (linearapi.Issue, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return linearapi.Issue{}, errors.New("title is required")
	}
	cat, err := loadIssueCatalog(ctx, gw)
	if err != nil {
		return linearapi.Issue{}, err
	}
	team, err := cat.team(draft.Team)
	if err != nil {
		return linearapi.Issue{}, err
	}
	states, err := gw.ListWorkflowStates(ctx, team.ID)
	if err != nil {
		return linearapi.Issue{}, err
	}

	input := linearapi.CreateIssueInput{
		TeamID:      team.ID,
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		StateID:     defaultState(states).ID,
	}
	if draft.State != "" {
		state, err := linearapi.FindWorkflowState(states, draft.State)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.StateID = state.ID
	}
	if draft.Assignee != "" {
		user, err := linearapi.FindUser(cat.users, draft.Assignee)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.AssigneeID = user.ID
	}
	if draft.Project != "" {
		project, err := linearapi.FindProject(cat.projects, draft.Project)
		if err != nil {
			return linearapi.Issue{}, err
		}
		input.ProjectID = project.ID
	}

	logger.Info("issues create: team=%s state=%s assignee=%s project=%s",
		team.Name, input.StateID, input.AssigneeID, input.ProjectID)
	return gw.CreateIssue(ctx, input)
}

// defaultState returns the Backlog state, else the first one.
func defaultState(states []linearapi.WorkflowState) linearapi.WorkflowState {
	for _, s := range states {
		if strings.EqualFold(s.Name, defaultStateName) {
			return s
		}
	}
	if len(states) > 0 {
		return states[0]
	}
	return linearapi.WorkflowState{}
}

// preselect resolves ref with find, falling back when ref is empty or unknown.
func preselect(ref, fallback string, find func(string) (string, error)) string {
	if ref == "" {
		return fallback
	}
	id, err := find(ref)
	if err != nil {
		return fallback
	}
	return id
}
