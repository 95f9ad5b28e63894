package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/present"
	"github.com/roeyazroel/linear-cli/internal/record"
	"github.com/roeyazroel/linear-cli/internal/tui"
	"github.com/spf13/cobra"
)

func newProjectsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage Linear projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(c),
		newProjectsViewCmd(c),
		newProjectsCreateCmd(c),
	)
	return cmd
}

func newProjectsListCmd(c *cli) *cobra.Command {
	var (
		team  string
		q     linearapi.ProjectQuery
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.gateway()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if team != "" {
				teams, err := client.ListTeams(ctx)
				if err != nil {
					return err
				}
				t, err := linearapi.FindTeam(teams, team)
				if err != nil {
					return err
				}
				q.TeamID = t.ID
			}

			projects, err := client.ListProjects(ctx, q)
			if err != nil {
				return err
			}
			logger.Info("projects list: fetched %d projects", len(projects))

			if !c.interactive(plain) {
				return printProjects(c.out, projects)
			}
			return tui.NewProjectsApp(client, c.launcher(), projects).Run()
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Filter by team name")
	cmd.Flags().StringVarP(&q.LeadName, "lead", "l", "", "Filter by lead name")
	cmd.Flags().StringVarP(&q.State, "state", "s", "", "Filter by state")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive list")
	return cmd
}

func newProjectsViewCmd(c *cli) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View a project by its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("no project ID given")
			}
			client, err := c.gateway()
			if err != nil {
				return err
			}
			project, err := client.FetchProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			if !c.interactive(plain) {
				return printProjects(c.out, []linearapi.Project{project})
			}
			return tui.NewProjectApp(client, c.launcher(), project).Run()
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive view")
	return cmd
}

// projectDraft is a project to create with related entities given by name.
// Dates accept anything record.ParseDate does.
type projectDraft struct {
	Name        string
	Description string
	State       string
	Lead        string
	Team        string
	StartDate   string
	TargetDate  string
}

func newProjectsCreateCmd(c *cli) *cobra.Command {
	var (
		draft       projectDraft
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.gateway()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if interactive {
				ok, err := c.fillProjectDraft(ctx, client, &draft)
				if err != nil || !ok {
					return err
				}
			}
			project, err := createProject(ctx, client, draft, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\nProject created successfully: %s (%s)\n", project.Name, project.URL)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&draft.Name, "name", "n", "", "Project name")
	flags.StringVarP(&draft.Description, "description", "d", "", "Project description")
	flags.StringVarP(&draft.State, "state", "s", "", "Project state ("+strings.Join(record.ProjectStates, ", ")+")")
	flags.StringVarP(&draft.Lead, "lead", "l", "", "Project lead name")
	flags.StringVarP(&draft.Team, "team", "t", "", "Team name")
	flags.StringVar(&draft.StartDate, "start-date", "", "Project start date (YYYY-MM-DD)")
	flags.StringVar(&draft.TargetDate, "target-date", "", "Project target date (YYYY-MM-DD)")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Create the project interactively")
	return cmd
}

// fillProjectDraft prompts for the project fields, starting from the flag values.
// It reports false when the user cancels.
func (c *cli) fillProjectDraft(ctx context.Context, client *linearapi.Client, draft *projectDraft) (bool, error) {
	fmt.Fprintln(c.errOut, "Creating a new project (press Ctrl+C to cancel)")

	users, err := client.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	teams, err := client.ListTeams(ctx)
	if err != nil {
		return false, err
	}
	if len(teams) == 0 {
		return false, errors.New("no teams available")
	}

	leadOptions := []huh.Option[string]{huh.NewOption(present.Unassigned, "")}
	for _, u := range users {
		leadOptions = append(leadOptions, huh.NewOption(u.Name, u.Name))
	}
	teamOptions := make([]huh.Option[string], 0, len(teams))
	for _, t := range teams {
		teamOptions = append(teamOptions, huh.NewOption(t.Name, t.Name))
	}
	stateOptions := make([]huh.Option[string], 0, len(record.ProjectStates))
	for _, s := range record.ProjectStates {
		stateOptions = append(stateOptions, huh.NewOption(s, s))
	}
	if draft.Team == "" {
		draft.Team = teams[0].Name
	}
	if draft.State == "" {
		draft.State = record.ProjectStates[0]
	}

	now := time.Now()
	validDate := func(s string) error {
		_, err := record.ParseDate(s, now)
		return err
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&draft.Name).
				Validate(required("project name")),
			huh.NewText().
				Title("Description").
				Value(&draft.Description),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Lead").
				Options(leadOptions...).
				Value(&draft.Lead),
			huh.NewSelect[string]().
				Title("Team").
				Options(teamOptions...).
				Value(&draft.Team),
			huh.NewSelect[string]().
				Title("State").
				Options(stateOptions...).
				Value(&draft.State),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Description("YYYY-MM-DD or a phrase like \"next monday\"").
				Value(&draft.StartDate).
				Validate(validDate),
			huh.NewInput().
				Title("Target date").
				Description("YYYY-MM-DD or a phrase like \"end of month\"").
				Value(&draft.TargetDate).
				Validate(validDate),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(c.errOut, "Project creation cancelled.")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("project form: %w", err)
	}
	return true, nil
}

// projectCreator is the subset of the Linear client project creation needs.
type projectCreator interface {
	ListTeams(ctx context.Context) ([]linearapi.Team, error)
	ListUsers(ctx context.Context) ([]linearapi.User, error)
	CreateProject(ctx context.Context, input linearapi.CreateProjectInput) (linearapi.Project, error)
}

// createProject resolves the draft's names and dates and creates the project.
// Without a team the first one is used.
func createProject(ctx context.Context, gw projectCreator, draft projectDraft, now time.Time) (linearapi.Project, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return linearapi.Project{}, errors.New("project name is required")
	}
	input := linearapi.CreateProjectInput{
		Name:        name,
		Description: draft.Description,
	}

	var err error
	if input.StartDate, err = record.ParseDate(draft.StartDate, now); err != nil {
		return linearapi.Project{}, fmt.Errorf("start date: %w", err)
	}
	if input.TargetDate, err = record.ParseDate(draft.TargetDate, now); err != nil {
		return linearapi.Project{}, fmt.Errorf("target date: %w", err)
	}
	if draft.State != "" {
		state, ok := projectState(draft.State)
		if !ok {
			return linearapi.Project{}, fmt.Errorf("unknown project state %q (expected one of %s)",
				draft.State, strings.Join(record.ProjectStates, ", "))
		}
		input.State = state
	}

	teams, err := gw.ListTeams(ctx)
	if err != nil {
		return linearapi.Project{}, err
	}
	if draft.Team != "" {
		team, err := linearapi.FindTeam(teams, draft.Team)
		if err != nil {
			return linearapi.Project{}, err
		}
		input.TeamIDs = []string{team.ID}
	} else if len(teams) > 0 {
		input.TeamIDs = []string{teams[0].ID}
	} else {
		return linearapi.Project{}, errors.New("no teams available")
	}

	if draft.Lead != "" {
		users, err := gw.ListUsers(ctx)
		if err != nil {
			return linearapi.Project{}, err
		}
		lead, err := linearapi.FindUser(users, draft.Lead)
		if err != nil {
			return linearapi.Project{}, err
		}
		input.LeadID = lead.ID
	}

	logger.Info("projects create: name=%s teams=%v lead=%s", input.Name, input.TeamIDs, input.LeadID)
	return gw.CreateProject(ctx, input)
}

// projectState matches s against the known project states, ignoring case and
// treating spaces as underscores.
func projectState(s string) (string, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for _, state := range record.ProjectStates {
		if state == normalized {
			return state, true
		}
	}
	return "", false
}

func printProjects(w io.Writer, projects []linearapi.Project) error {
	rows := make([][]string, 0, len(projects))
	for _, project := range present.SortProjects(projects) {
		rows = append(rows, present.ProjectRow(project, false)[1:])
	}
	return present.RenderTable(w, present.Headers(present.ProjectColumns)[1:], rows)
}
