package linearapi

import "time"

// Team represents a Linear team.
type Team struct {
	ID   string
	Key  string
	Name string
}

// User represents a Linear user.
type User struct {
	ID          string
	Name        string
	DisplayName string
	Email       string
	IsMe        bool
}

// WorkflowState represents a workflow state in a Linear team.
type WorkflowState struct {
	ID       string
	Name     string
	Type     string // backlog, unstarted, started, completed, canceled
	Position float64
	TeamID   string
}

// Issue represents a Linear issue.
type Issue struct {
	ID          string
	Identifier  string
	Title       string
	Description string
	State       string
	StateID     string
	StateType   string
	Assignee    string
	AssigneeID  string
	Priority    int
	UpdatedAt   time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
	TeamID      string
	TeamName    string
	ProjectID   string
	ProjectName string
	URL         string
}

// Project represents a Linear project.
type Project struct {
	ID          string
	Name        string
	Description string
	State       string // planned, started/in_progress, paused, completed, canceled
	URL         string
	LeadID      string
	Lead        string
	Teams       []Team
	// StartDate and TargetDate are calendar dates (YYYY-MM-DD) or empty.
	StartDate  string
	TargetDate string
	StartedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TeamID returns the first team the project belongs to, or "".
func (p Project) TeamID() string {
	if len(p.Teams) == 0 {
		return ""
	}
	return p.Teams[0].ID
}

// TeamName returns the first team name, or "".
func (p Project) TeamName() string {
	if len(p.Teams) == 0 {
		return ""
	}
	return p.Teams[0].Name
}

// IssueQuery narrows FetchIssues. Empty fields are not filtered on.
type IssueQuery struct {
	TeamID       string
	ProjectName  string
	AssigneeName string
	StateName    string
	// First caps the number of issues returned; 0 means fetch every page.
	First int
}

// ProjectQuery narrows ListProjects. Empty fields are not filtered on.
type ProjectQuery struct {
	TeamID   string
	LeadName string
	State    string
	First    int
}

// CreateIssueInput contains input for creating a new issue.
type CreateIssueInput struct {
	TeamID      string
	Title       string
	Description string
	ProjectID   string
	StateID     string
	AssigneeID  string
	Priority    int
}

// UpdateIssueInput contains input for updating an issue.
// Nil pointers leave the field unchanged.
type UpdateIssueInput struct {
	ID          string
	Title       *string
	Description *string
	StateID     *string
	AssigneeID  *string // empty string unassigns
	Priority    *int
	TeamID      *string
	ProjectID   *string // empty string removes the project
}

// CreateProjectInput contains input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	State       string
	LeadID      string
	TeamIDs     []string
	StartDate   string
	TargetDate  string
}

// UpdateProjectInput contains input for updating a project.
// Nil pointers leave the field unchanged; an empty date clears it.
type UpdateProjectInput struct {
	ID          string
	Name        *string
	Description *string
	State       *string
	LeadID      *string // empty string removes the lead
	TeamIDs     *[]string
	StartDate   *string
	TargetDate  *string
}
