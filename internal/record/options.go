package record

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
)

// OptionCache holds the option lists the selects cycle through.
// Order within a category is the order options were loaded in.
type OptionCache struct {
	mu      sync.RWMutex
	options map[Category][]Option
}

// NewOptionCache returns a cache pre-filled with the static categories.
func NewOptionCache() *OptionCache {
	c := &OptionCache{options: make(map[Category][]Option)}

	states := make([]Option, 0, len(ProjectStates))
	for _, s := range ProjectStates {
		states = append(states, Option{ID: s, Name: s})
	}
	c.options[CategoryProjectStates] = states

	levels := make([]Option, 0, len(PriorityLevels))
	for _, p := range PriorityLevels {
		s := strconv.Itoa(p)
		levels = append(levels, Option{ID: s, Name: s})
	}
	c.options[CategoryPriorities] = levels
	return c
}

// Set replaces the options of a category.
func (c *OptionCache) Set(cat Category, opts []Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options[cat] = append([]Option(nil), opts...)
}

// Options returns a copy of a category's options.
func (c *OptionCache) Options(cat Category) []Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Option(nil), c.options[cat]...)
}

// Lookup finds the option in cat whose name equals name exactly.
func (c *OptionCache) Lookup(cat Category, name string) (Option, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.options[cat] {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// SetUsers loads workspace users.
func (c *OptionCache) SetUsers(users []linearapi.User) {
	opts := make([]Option, 0, len(users))
	for _, u := range users {
		opts = append(opts, Option{ID: u.ID, Name: u.Name})
	}
	c.Set(CategoryUsers, opts)
}

// SetTeams loads teams.
func (c *OptionCache) SetTeams(teams []linearapi.Team) {
	opts := make([]Option, 0, len(teams))
	for _, t := range teams {
		opts = append(opts, Option{ID: t.ID, Name: t.Name})
	}
	c.Set(CategoryTeams, opts)
}

// SetProjects loads projects.
func (c *OptionCache) SetProjects(projects []linearapi.Project) {
	opts := make([]Option, 0, len(projects))
	for _, p := range projects {
		opts = append(opts, Option{ID: p.ID, Name: p.Name})
	}
	c.Set(CategoryProjects, opts)
}

// SetStates loads workflow states.
func (c *OptionCache) SetStates(states []linearapi.WorkflowState) {
	opts := make([]Option, 0, len(states))
	for _, s := range states {
		opts = append(opts, Option{ID: s.ID, Name: s.Name})
	}
	c.Set(CategoryStates, opts)
}

// FilterOptions returns the options whose name contains query (case-insensitive),
// sorted by name ascending.
func FilterOptions(opts []Option, query string) []Option {
	q := strings.ToLower(query)
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Name), q) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Step moves current one position through opts in direction dir (+1 or -1).
// Movement is clamped at both ends. A current value that is not among opts
// moves to the first option going forward and stays put going back.
func Step(opts []Option, current string, dir int) string {
	if len(opts) == 0 || dir == 0 {
		return current
	}
	idx := -1
	for i, o := range opts {
		if o.Name == current {
			idx = i
			break
		}
	}

	if dir > 0 {
		next := idx + 1
		if next > len(opts)-1 {
			next = len(opts) - 1
		}
		return opts[next].Name
	}
	if idx <= 0 {
		return current
	}
	return opts[idx-1].Name
}
