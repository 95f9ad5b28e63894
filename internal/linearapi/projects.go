package linearapi

import (
	"context"
	"fmt"

	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/shurcooL/graphql"
)

// projectNode is the project selection shared by queries and mutations.
type projectNode struct {
	ID          graphql.String
	Name        graphql.String
	Description graphql.String
	State       graphql.String
	URL         graphql.String
	StartDate   *graphql.String
	TargetDate  *graphql.String
	StartedAt   *graphql.String
	CreatedAt   graphql.String
	UpdatedAt   graphql.String
	Lead        *struct {
		ID   graphql.String
		Name graphql.String
	}
	Teams struct {
		Nodes []struct {
			ID   graphql.String
			Key  graphql.String
			Name graphql.String
		}
	} `graphql:"teams(first: 10)"`
}

func (n projectNode) toProject() Project {
	project := Project{
		ID:          string(n.ID),
		Name:        string(n.Name),
		Description: string(n.Description),
		State:       string(n.State),
		URL:         string(n.URL),
		StartedAt:   parseOptionalTime(n.StartedAt),
		CreatedAt:   parseTime(string(n.CreatedAt)),
		UpdatedAt:   parseTime(string(n.UpdatedAt)),
	}
	if n.StartDate != nil {
		project.StartDate = string(*n.StartDate)
	}
	if n.TargetDate != nil {
		project.TargetDate = string(*n.TargetDate)
	}
	if n.Lead != nil {
		project.LeadID = string(n.Lead.ID)
		project.Lead = string(n.Lead.Name)
	}
	project.Teams = make([]Team, 0, len(n.Teams.Nodes))
	for _, t := range n.Teams.Nodes {
		project.Teams = append(project.Teams, Team{
			ID:   string(t.ID),
			Key:  string(t.Key),
			Name: string(t.Name),
		})
	}
	return project
}

func buildProjectFilter(q ProjectQuery) ProjectFilter {
	filter := make(ProjectFilter)
	if q.TeamID != "" {
		filter["accessibleTeams"] = map[string]interface{}{
			"some": map[string]interface{}{
				"id": map[string]interface{}{"eq": q.TeamID},
			},
		}
	}
	if q.LeadName != "" {
		filter["lead"] = map[string]interface{}{
			"name": map[string]interface{}{"eq": q.LeadName},
		}
	}
	if q.State != "" {
		filter["state"] = map[string]interface{}{"eq": q.State}
	}
	return filter
}

// ListProjects fetches projects matching q, following pagination.
func (c *Client) ListProjects(ctx context.Context, q ProjectQuery) ([]Project, error) {
	filter := buildProjectFilter(q)

	var after *graphql.String
	projects := make([]Project, 0)
	for page := 1; ; page++ {
		first := c.pageSize
		if q.First > 0 && q.First-len(projects) < first {
			first = q.First - len(projects)
		}

		var query struct {
			Projects struct {
				Nodes    []projectNode
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
			} `graphql:"projects(first: $first, after: $after, filter: $filter)"`
		}

		variables := map[string]interface{}{
			"first":  graphql.Int(first),
			"filter": filter,
			"after":  after,
		}

		if err := c.query(ctx, "ListProjects", &query, variables); err != nil {
			logger.ErrorWithErr(err, "API: ListProjects failed on page %d", page)
			return nil, fmt.Errorf("list projects: %w", err)
		}

		for _, node := range query.Projects.Nodes {
			projects = append(projects, node.toProject())
		}

		if !bool(query.Projects.PageInfo.HasNextPage) || (q.First > 0 && len(projects) >= q.First) {
			break
		}
		nextCursor := query.Projects.PageInfo.EndCursor
		after = &nextCursor
	}

	return projects, nil
}

// FetchProject fetches a single project by ID.
func (c *Client) FetchProject(ctx context.Context, id string) (Project, error) {
	var query struct {
		Project *projectNode `graphql:"project(id: $id)"`
	}

	variables := map[string]interface{}{
		"id": graphql.String(id),
	}

	if err := c.query(ctx, "FetchProject", &query, variables); err != nil {
		logger.ErrorWithErr(err, "API: FetchProject failed for project %s", id)
		return Project{}, fmt.Errorf("fetch project %s: %w", id, err)
	}
	if query.Project == nil {
		return Project{}, fmt.Errorf("fetch project %s: %w", id, ErrNotFound)
	}
	return query.Project.toProject(), nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, input CreateProjectInput) (Project, error) {
	var mutation struct {
		ProjectCreate struct {
			Success graphql.Boolean
			Project projectNode
		} `graphql:"projectCreate(input: $input)"`
	}

	projectInput := make(ProjectCreateInput)
	projectInput["name"] = graphql.String(input.Name)
	teamIDs := make([]graphql.ID, len(input.TeamIDs))
	for i, id := range input.TeamIDs {
		teamIDs[i] = graphql.ID(id)
	}
	projectInput["teamIds"] = teamIDs
	if input.Description != "" {
		projectInput["description"] = graphql.String(input.Description)
	}
	if input.State != "" {
		projectInput["state"] = graphql.String(input.State)
	}
	if input.LeadID != "" {
		projectInput["leadId"] = graphql.ID(input.LeadID)
	}
	if input.StartDate != "" {
		projectInput["startDate"] = graphql.String(input.StartDate)
	}
	if input.TargetDate != "" {
		projectInput["targetDate"] = graphql.String(input.TargetDate)
	}

	variables := map[string]interface{}{
		"input": projectInput,
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		logger.ErrorWithErr(err, "API: CreateProject failed")
		return Project{}, fmt.Errorf("create project: %w", err)
	}

	if !bool(mutation.ProjectCreate.Success) {
		logger.Error("API: CreateProject operation failed (success=false)")
		return Project{}, fmt.Errorf("create project: %w", ErrOperationFailed)
	}

	return mutation.ProjectCreate.Project.toProject(), nil
}

// UpdateProject updates an existing project and returns the stored result.
func (c *Client) UpdateProject(ctx context.Context, input UpdateProjectInput) (Project, error) {
	var mutation struct {
		ProjectUpdate struct {
			Success graphql.Boolean
			Project projectNode
		} `graphql:"projectUpdate(id: $id, input: $input)"`
	}

	projectInput := make(ProjectUpdateInput)
	if input.Name != nil {
		projectInput["name"] = graphql.String(*input.Name)
	}
	if input.Description != nil {
		projectInput["description"] = graphql.String(*input.Description)
	}
	if input.State != nil {
		projectInput["state"] = graphql.String(*input.State)
	}
	if input.LeadID != nil {
		if *input.LeadID == "" {
			projectInput["leadId"] = (*graphql.ID)(nil)
		} else {
			projectInput["leadId"] = graphql.ID(*input.LeadID)
		}
	}
	if input.TeamIDs != nil {
		teamIDs := make([]graphql.ID, len(*input.TeamIDs))
		for i, id := range *input.TeamIDs {
			teamIDs[i] = graphql.ID(id)
		}
		projectInput["teamIds"] = teamIDs
	}
	setDate := func(key string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			projectInput[key] = (*graphql.String)(nil)
			return
		}
		projectInput[key] = graphql.String(*value)
	}
	setDate("startDate", input.StartDate)
	setDate("targetDate", input.TargetDate)

	variables := map[string]interface{}{
		"id":    graphql.String(input.ID),
		"input": projectInput,
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		logger.ErrorWithErr(err, "API: UpdateProject failed for project %s", input.ID)
		return Project{}, fmt.Errorf("update project %s: %w", input.ID, err)
	}

	if !bool(mutation.ProjectUpdate.Success) {
		logger.Error("API: UpdateProject operation failed (success=false) for project %s", input.ID)
		return Project{}, fmt.Errorf("update project %s: %w", input.ID, ErrOperationFailed)
	}

	return mutation.ProjectUpdate.Project.toProject(), nil
}
