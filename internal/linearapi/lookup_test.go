package linearapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTeam(t *testing.T) {
	teams := []Team{
		{ID: "team-1", Key: "ENG", Name: "Engineering"},
		{ID: "team-2", Key: "DES", Name: "Design"},
	}

	got, err := FindTeam(teams, "eng")
	require.NoError(t, err)
	assert.Equal(t, "team-1", got.ID)

	got, err = FindTeam(teams, "design")
	require.NoError(t, err)
	assert.Equal(t, "team-2", got.ID)

	got, err = FindTeam(teams, "team-2")
	require.NoError(t, err)
	assert.Equal(t, "Design", got.Name)
}

func TestFindUser_MatchesEmailAndDisplayName(t *testing.T) {
	users := []User{{ID: "u1", Name: "Jo Smith", DisplayName: "jo", Email: "jo@example.com"}}

	for _, ref := range []string{"Jo Smith", "JO", "jo@example.com", "u1"} {
		got, err := FindUser(users, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "u1", got.ID, ref)
	}
}

func TestFind_NotFoundSuggests(t *testing.T) {
	states := []WorkflowState{{ID: "s1", Name: "In Progress"}, {ID: "s2", Name: "Backlog"}}

	_, err := FindWorkflowState(states, "progress")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `did you mean "In Progress"?`)

	_, err = FindProject(nil, "Roadmap")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "did you mean")
}
