package linearapi

import (
	"context"
	"fmt"

	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/shurcooL/graphql"
)

// issueNode is the issue selection shared by queries and mutations.
type issueNode struct {
	ID         graphql.String
	Identifier graphql.String
	Title      graphql.String
	State      struct {
		ID   graphql.String
		Name graphql.String
		Type graphql.String
	}
	Assignee *struct {
		ID   graphql.String
		Name graphql.String
	}
	Priority    graphql.Float
	UpdatedAt   graphql.String
	CreatedAt   graphql.String
	CompletedAt *graphql.String
	Description *graphql.String
	Team        struct {
		ID   graphql.String
		Name graphql.String
	}
	Project *struct {
		ID   graphql.String
		Name graphql.String
	}
	URL graphql.String
}

func (n issueNode) toIssue() Issue {
	issue := Issue{
		ID:          string(n.ID),
		Identifier:  string(n.Identifier),
		Title:       string(n.Title),
		State:       string(n.State.Name),
		StateID:     string(n.State.ID),
		StateType:   string(n.State.Type),
		Priority:    int(n.Priority),
		UpdatedAt:   parseTime(string(n.UpdatedAt)),
		CreatedAt:   parseTime(string(n.CreatedAt)),
		CompletedAt: parseOptionalTime(n.CompletedAt),
		TeamID:      string(n.Team.ID),
		TeamName:    string(n.Team.Name),
		URL:         string(n.URL),
	}
	if n.Assignee != nil {
		issue.Assignee = string(n.Assignee.Name)
		issue.AssigneeID = string(n.Assignee.ID)
	}
	if n.Description != nil {
		issue.Description = string(*n.Description)
	}
	if n.Project != nil {
		issue.ProjectID = string(n.Project.ID)
		issue.ProjectName = string(n.Project.Name)
	}
	return issue
}

// buildIssueFilter builds the GraphQL issue filter for the given query.
func buildIssueFilter(q IssueQuery) IssueFilter {
	filter := make(IssueFilter)
	if q.TeamID != "" {
		filter["team"] = map[string]interface{}{
			"id": map[string]interface{}{"eq": q.TeamID},
		}
	}
	if q.ProjectName != "" {
		filter["project"] = map[string]interface{}{
			"name": map[string]interface{}{"eq": q.ProjectName},
		}
	}
	if q.AssigneeName != "" {
		filter["assignee"] = map[string]interface{}{
			"name": map[string]interface{}{"eq": q.AssigneeName},
		}
	}
	if q.StateName != "" {
		filter["state"] = map[string]interface{}{
			"name": map[string]interface{}{"eq": q.StateName},
		}
	}
	return filter
}

// FetchIssues fetches issues matching q, following pagination.
func (c *Client) FetchIssues(ctx context.Context, q IssueQuery) ([]Issue, error) {
	filter := buildIssueFilter(q)

	var after *graphql.String
	issues := make([]Issue, 0)
	for page := 1; ; page++ {
		first := c.pageSize
		if q.First > 0 && q.First-len(issues) < first {
			first = q.First - len(issues)
		}

		var query struct {
			Issues struct {
				Nodes    []issueNode
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
			} `graphql:"issues(first: $first, after: $after, filter: $filter)"`
		}

		variables := map[string]interface{}{
			"first":  graphql.Int(first),
			"filter": filter,
			"after":  after,
		}

		if err := c.query(ctx, "FetchIssues", &query, variables); err != nil {
			logger.ErrorWithErr(err, "API: FetchIssues failed on page %d", page)
			return nil, fmt.Errorf("fetch issues: %w", err)
		}

		for _, node := range query.Issues.Nodes {
			issues = append(issues, node.toIssue())
		}
		logger.Debug("API: FetchIssues page=%d fetched=%d", page, len(issues))

		if !bool(query.Issues.PageInfo.HasNextPage) || (q.First > 0 && len(issues) >= q.First) {
			break
		}
		nextCursor := query.Issues.PageInfo.EndCursor
		after = &nextCursor
	}

	return issues, nil
}

// FetchIssue fetches a single issue by its ID or identifier (e.g. ENG-123).
func (c *Client) FetchIssue(ctx context.Context, id string) (Issue, error) {
	var query struct {
		Issue *issueNode `graphql:"issue(id: $id)"`
	}

	variables := map[string]interface{}{
		"id": graphql.String(id),
	}

	if err := c.query(ctx, "FetchIssue", &query, variables); err != nil {
		logger.ErrorWithErr(err, "API: FetchIssue failed for issue %s", id)
		return Issue{}, fmt.Errorf("fetch issue %s: %w", id, err)
	}
	if query.Issue == nil {
		return Issue{}, fmt.Errorf("fetch issue %s: %w", id, ErrNotFound)
	}
	return query.Issue.toIssue(), nil
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, input CreateIssueInput) (Issue, error) {
	var mutation struct {
		IssueCreate struct {
			Success graphql.Boolean
			Issue   issueNode
		} `graphql:"issueCreate(input: $input)"`
	}

	issueInput := make(IssueCreateInput)
	issueInput["teamId"] = graphql.ID(input.TeamID)
	issueInput["title"] = graphql.String(input.Title)
	if input.Description != "" {
		issueInput["description"] = graphql.String(input.Description)
	}
	if input.ProjectID != "" {
		issueInput["projectId"] = graphql.ID(input.ProjectID)
	}
	if input.StateID != "" {
		issueInput["stateId"] = graphql.ID(input.StateID)
	}
	if input.AssigneeID != "" {
		issueInput["assigneeId"] = graphql.ID(input.AssigneeID)
	}
	if input.Priority > 0 {
		issueInput["priority"] = graphql.Int(input.Priority)
	}

	variables := map[string]interface{}{
		"input": issueInput,
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		logger.ErrorWithErr(err, "API: CreateIssue failed")
		return Issue{}, fmt.Errorf("create issue: %w", err)
	}

	if !bool(mutation.IssueCreate.Success) {
		logger.Error("API: CreateIssue operation failed (success=false)")
		return Issue{}, fmt.Errorf("create issue: %w", ErrOperationFailed)
	}

	return mutation.IssueCreate.Issue.toIssue(), nil
}

// UpdateIssue updates an existing issue and returns the stored result.
func (c *Client) UpdateIssue(ctx context.Context, input UpdateIssueInput) (Issue, error) {
	var mutation struct {
		IssueUpdate struct {
			Success graphql.Boolean
			Issue   issueNode
		} `graphql:"issueUpdate(id: $id, input: $input)"`
	}

	issueInput := make(IssueUpdateInput)
	if input.Title != nil {
		issueInput["title"] = graphql.String(*input.Title)
	}
	if input.Description != nil {
		issueInput["description"] = graphql.String(*input.Description)
	}
	if input.StateID != nil {
		issueInput["stateId"] = graphql.ID(*input.StateID)
	}
	if input.AssigneeID != nil {
		if *input.AssigneeID == "" {
			// Unassign by passing null
			issueInput["assigneeId"] = (*graphql.ID)(nil)
		} else {
			issueInput["assigneeId"] = graphql.ID(*input.AssigneeID)
		}
	}
	if input.Priority != nil {
		issueInput["priority"] = graphql.Int(*input.Priority)
	}
	if input.TeamID != nil && *input.TeamID != "" {
		issueInput["teamId"] = graphql.ID(*input.TeamID)
	}
	if input.ProjectID != nil {
		if *input.ProjectID == "" {
			issueInput["projectId"] = (*graphql.ID)(nil)
		} else {
			issueInput["projectId"] = graphql.ID(*input.ProjectID)
		}
	}

	variables := map[string]interface{}{
		"id":    graphql.String(input.ID),
		"input": issueInput,
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		logger.ErrorWithErr(err, "API: UpdateIssue failed for issue %s", input.ID)
		return Issue{}, fmt.Errorf("update issue %s: %w", input.ID, err)
	}

	if !bool(mutation.IssueUpdate.Success) {
		logger.Error("API: UpdateIssue operation failed (success=false) for issue %s", input.ID)
		return Issue{}, fmt.Errorf("update issue %s: %w", input.ID, ErrOperationFailed)
	}

	return mutation.IssueUpdate.Issue.toIssue(), nil
}
