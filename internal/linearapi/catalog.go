package linearapi

import (
	"context"
	"fmt"

	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/shurcooL/graphql"
)

// ListTeams fetches all teams the user has access to.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var query struct {
		Teams struct {
			Nodes []struct {
				ID   graphql.String
				Key  graphql.String
				Name graphql.String
			}
		} `graphql:"teams"`
	}

	if err := c.query(ctx, "ListTeams", &query, nil); err != nil {
		logger.ErrorWithErr(err, "API: ListTeams failed")
		return nil, fmt.Errorf("list teams: %w", err)
	}

	teams := make([]Team, 0, len(query.Teams.Nodes))
	for _, node := range query.Teams.Nodes {
		teams = append(teams, Team{
			ID:   string(node.ID),
			Key:  string(node.Key),
			Name: string(node.Name),
		})
	}
	return teams, nil
}

// ListUsers fetches the workspace's users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var query struct {
		Users struct {
			Nodes []struct {
				ID          graphql.String
				Name        graphql.String
				DisplayName graphql.String
				Email       graphql.String
				IsMe        graphql.Boolean
			}
		} `graphql:"users(first: $first)"`
	}

	variables := map[string]interface{}{
		"first": graphql.Int(250),
	}

	if err := c.query(ctx, "ListUsers", &query, variables); err != nil {
		logger.ErrorWithErr(err, "API: ListUsers failed")
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0, len(query.Users.Nodes))
	for _, node := range query.Users.Nodes {
		users = append(users, User{
			ID:          string(node.ID),
			Name:        string(node.Name),
			DisplayName: string(node.DisplayName),
			Email:       string(node.Email),
			IsMe:        bool(node.IsMe),
		})
	}
	return users, nil
}

// GetCurrentUser fetches the current authenticated user.
func (c *Client) GetCurrentUser(ctx context.Context) (User, error) {
	var query struct {
		Viewer struct {
			ID          graphql.String
			Name        graphql.String
			DisplayName graphql.String
			Email       graphql.String
		}
	}

	if err := c.query(ctx, "GetCurrentUser", &query, nil); err != nil {
		logger.ErrorWithErr(err, "API: GetCurrentUser failed")
		return User{}, fmt.Errorf("get current user: %w", err)
	}

	return User{
		ID:          string(query.Viewer.ID),
		Name:        string(query.Viewer.Name),
		DisplayName: string(query.Viewer.DisplayName),
		Email:       string(query.Viewer.Email),
		IsMe:        true,
	}, nil
}

// ListWorkflowStates fetches the workflow states of a team, or of every team when teamID is empty.
func (c *Client) ListWorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	if teamID == "" {
		return c.listAllWorkflowStates(ctx)
	}

	var query struct {
		Team struct {
			States struct {
				Nodes []struct {
					ID       graphql.String
					Name     graphql.String
					Type     graphql.String
					Position graphql.Float
				}
			}
		} `graphql:"team(id: $teamId)"`
	}

	variables := map[string]interface{}{
		"teamId": graphql.String(teamID),
	}

	if err := c.query(ctx, "ListWorkflowStates", &query, variables); err != nil {
		logger.ErrorWithErr(err, "API: ListWorkflowStates failed for team %s", teamID)
		return nil, fmt.Errorf("list workflow states for team %s: %w", teamID, err)
	}

	states := make([]WorkflowState, 0, len(query.Team.States.Nodes))
	for _, node := range query.Team.States.Nodes {
		states = append(states, WorkflowState{
			ID:       string(node.ID),
			Name:     string(node.Name),
			Type:     string(node.Type),
			Position: float64(node.Position),
			TeamID:   teamID,
		})
	}
	return states, nil
}

func (c *Client) listAllWorkflowStates(ctx context.Context) ([]WorkflowState, error) {
	var query struct {
		WorkflowStates struct {
			Nodes []struct {
				ID       graphql.String
				Name     graphql.String
				Type     graphql.String
				Position graphql.Float
				Team     struct {
					ID graphql.String
				}
			}
		} `graphql:"workflowStates(first: $first)"`
	}

	variables := map[string]interface{}{
		"first": graphql.Int(250),
	}

	if err := c.query(ctx, "ListWorkflowStates", &query, variables); err != nil {
		logger.ErrorWithErr(err, "API: ListWorkflowStates failed")
		return nil, fmt.Errorf("list workflow states: %w", err)
	}

	states := make([]WorkflowState, 0, len(query.WorkflowStates.Nodes))
	for _, node := range query.WorkflowStates.Nodes {
		states = append(states, WorkflowState{
			ID:       string(node.ID),
			Name:     string(node.Name),
			Type:     string(node.Type),
			Position: float64(node.Position),
			TeamID:   string(node.Team.ID),
		})
	}
	return states, nil
}
