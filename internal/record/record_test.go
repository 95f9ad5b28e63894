package record

import (
	"testing"
	"time"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(names ...string) []Option {
	out := make([]Option, 0, len(names))
	for _, n := range names {
		out = append(out, Option{ID: "id-" + n, Name: n})
	}
	return out
}

func TestStep(t *testing.T) {
	list := opts("a", "b", "c")

	tests := []struct {
		name    string
		current string
		dir     int
		want    string
	}{
		{"forward", "a", 1, "b"},
		{"forward clamps at end", "c", 1, "c"},
		{"back", "b", -1, "a"},
		{"back clamps at start", "a", -1, "a"},
		{"unknown forward picks first", "zzz", 1, "a"},
		{"unknown back is a no-op", "zzz", -1, "zzz"},
		{"empty forward picks first", "", 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Step(list, tt.current, tt.dir))
		})
	}

	assert.Equal(t, "x", Step(nil, "x", 1), "no options leaves value unchanged")
}

func TestStep_StaysWithinOptions(t *testing.T) {
	list := opts("a", "b", "c", "d")
	current := "a"
	for i := 0; i < 10; i++ {
		current = Step(list, current, 1)
	}
	assert.Equal(t, "d", current)
	for i := 0; i < 10; i++ {
		current = Step(list, current, -1)
	}
	assert.Equal(t, "a", current)
}

func TestFilterOptions(t *testing.T) {
	users := opts("Zed Alan", "alice", "Bob", "Carol Ali")

	got := FilterOptions(users, "AL")
	names := make([]string, 0, len(got))
	for _, o := range got {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Carol Ali", "Zed Alan", "alice"}, names)
	assert.Empty(t, FilterOptions(users, "xyz"))
	assert.Len(t, FilterOptions(users, ""), 4)
}

func TestOptionCache_StaticCategories(t *testing.T) {
	c := NewOptionCache()
	assert.Len(t, c.Options(CategoryProjectStates), len(ProjectStates))
	assert.Len(t, c.Options(CategoryPriorities), 5)

	c.SetUsers([]linearapi.User{{ID: "u1", Name: "Jo"}})
	opt, ok := c.Lookup(CategoryUsers, "Jo")
	require.True(t, ok)
	assert.Equal(t, "u1", opt.ID)

	_, ok = c.Lookup(CategoryUsers, "jo")
	assert.False(t, ok, "lookup is exact")
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"2024-06-30", "2024-06-30"},
		{"6/30/2024", "2024-06-30"},
		{"2024-06-30T10:00:00Z", "2024-06-30"},
		{"tomorrow", "2024-03-07"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, now)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDate("banana", now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func issueCache() *OptionCache {
	c := NewOptionCache()
	c.SetStates([]linearapi.WorkflowState{{ID: "s-todo", Name: "Todo"}, {ID: "s-done", Name: "Done"}})
	c.SetUsers([]linearapi.User{{ID: "u-jo", Name: "Jo"}})
	c.SetTeams([]linearapi.Team{{ID: "t-eng", Name: "Engineering"}})
	c.SetProjects([]linearapi.Project{{ID: "p-road", Name: "Roadmap"}})
	return c
}

func TestIssueUpdate_ResolvesNames(t *testing.T) {
	issue := linearapi.Issue{
		ID: "issue-1", Title: "Fix", Description: "body", State: "Todo",
		Priority: 2, Assignee: "Jo", TeamName: "Engineering", ProjectName: "Roadmap",
	}
	values := SeedIssue(issue)
	values[KeyStatus] = "Done"

	input := IssueUpdate(issue.ID, values, issueCache())
	assert.Equal(t, "issue-1", input.ID)
	require.NotNil(t, input.StateID)
	assert.Equal(t, "s-done", *input.StateID)
	require.NotNil(t, input.AssigneeID)
	assert.Equal(t, "u-jo", *input.AssigneeID)
	require.NotNil(t, input.Priority)
	assert.Equal(t, 2, *input.Priority)
	require.NotNil(t, input.TeamID)
	assert.Equal(t, "t-eng", *input.TeamID)
	require.NotNil(t, input.ProjectID)
	assert.Equal(t, "p-road", *input.ProjectID)
	assert.Equal(t, "Fix", *input.Title)
}

func TestIssueUpdate_UnmatchedSelectsOmitted(t *testing.T) {
	values := Values{KeyTitle: "t", KeyStatus: "Ghost", KeyAssignee: "", KeyTeam: "Nope", KeyProject: "", KeyPriority: "x"}

	input := IssueUpdate("issue-1", values, issueCache())
	assert.Nil(t, input.StateID)
	assert.Nil(t, input.AssigneeID)
	assert.Nil(t, input.TeamID)
	assert.Nil(t, input.ProjectID)
	require.NotNil(t, input.Priority)
	assert.Equal(t, 0, *input.Priority)
}

func TestProjectUpdate_Dates(t *testing.T) {
	project := linearapi.Project{ID: "proj-1", Name: "Roadmap", State: "planned", StartDate: "2024-01-01"}
	values := SeedProject(project)
	values[KeyTargetDate] = "2024-06-30"

	input, err := ProjectUpdate(project.ID, values, issueCache(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, input.TargetDate)
	assert.Equal(t, "2024-06-30", *input.TargetDate)
	require.NotNil(t, input.StartDate)
	assert.Equal(t, "2024-01-01", *input.StartDate)
	require.NotNil(t, input.State)
	assert.Equal(t, "planned", *input.State)
	assert.Nil(t, input.LeadID)

	values[KeyStartDate] = ""
	input, err = ProjectUpdate(project.ID, values, issueCache(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "", *input.StartDate, "empty date clears the field")

	values[KeyTargetDate] = "banana"
	_, err = ProjectUpdate(project.ID, values, issueCache(), time.Now())
	assert.ErrorIs(t, err, ErrInvalidDate)
}
