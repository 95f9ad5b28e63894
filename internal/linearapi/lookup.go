package linearapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNotFound is returned when a named entity does not exist.
var ErrNotFound = errors.New("not found")

// FindTeam resolves a team by ID, key or name (case-insensitive).
func FindTeam(teams []Team, ref string) (Team, error) {
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.ID == ref || strings.EqualFold(t.Key, ref) || strings.EqualFold(t.Name, ref) {
			return t, nil
		}
		names = append(names, t.Name)
	}
	return Team{}, notFound("team", ref, names)
}

// FindUser resolves a user by ID, name, display name or email (case-insensitive).
func FindUser(users []User, ref string) (User, error) {
	names := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID == ref || strings.EqualFold(u.Name, ref) || strings.EqualFold(u.DisplayName, ref) || strings.EqualFold(u.Email, ref) {
			return u, nil
		}
		names = append(names, u.Name)
	}
	return User{}, notFound("user", ref, names)
}

// FindProject resolves a project by ID or name (case-insensitive).
func FindProject(projects []Project, ref string) (Project, error) {
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return p, nil
		}
		names = append(names, p.Name)
	}
	return Project{}, notFound("project", ref, names)
}

// FindWorkflowState resolves a state by ID or name (case-insensitive).
func FindWorkflowState(states []WorkflowState, ref string) (WorkflowState, error) {
	names := make([]string, 0, len(states))
	for _, s := range states {
		if s.ID == ref || strings.EqualFold(s.Name, ref) {
			return s, nil
		}
		names = append(names, s.Name)
	}
	return WorkflowState{}, notFound("state", ref, names)
}

func notFound(kind, ref string, candidates []string) error {
	if suggestion := closest(ref, candidates); suggestion != "" {
		return fmt.Errorf("%s %q %w (did you mean %q?)", kind, ref, ErrNotFound, suggestion)
	}
	return fmt.Errorf("%s %q %w", kind, ref, ErrNotFound)
}

// closest returns the best fuzzy match for ref among candidates, or "".
func closest(ref string, candidates []string) string {
	if ref == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(ref, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
