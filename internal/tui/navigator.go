package tui

import (
	"sync"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/present"
)

// ViewMode is the view a Navigator is showing.
type ViewMode int

const (
	ModeList ViewMode = iota
	ModeDetails
	ModeEdit
)

func (m ViewMode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeDetails:
		return "details"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// listEntry is a record that can be listed, shown and edited.
type listEntry interface {
	editable
	key() string
	row(selected bool) []string
	detailRows() [][2]string
	markdown() string
	link() string
}

// Navigator owns a collection of records, their display order, the selected
// record and the current view. A save replaces the selected record.
type Navigator struct {
	mu       sync.RWMutex
	entries  []listEntry
	sortFn   func([]listEntry) []listEntry
	selected string
	mode     ViewMode
	// single navigators are opened on one record and have no list view.
	single bool
}

func newNavigator(entries []listEntry, sortFn func([]listEntry) []listEntry) *Navigator {
	n := &Navigator{sortFn: sortFn}
	n.entries = n.sorted(entries)
	return n
}

func newSingleNavigator(entry listEntry) *Navigator {
	return &Navigator{
		entries:  []listEntry{entry},
		selected: entry.key(),
		mode:     ModeDetails,
		single:   true,
	}
}

func (n *Navigator) sorted(entries []listEntry) []listEntry {
	if n.sortFn == nil {
		return append([]listEntry(nil), entries...)
	}
	return n.sortFn(entries)
}

// Mode returns the current view.
func (n *Navigator) Mode() ViewMode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mode
}

// Len returns the number of records.
func (n *Navigator) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Entries returns the records in display order.
func (n *Navigator) Entries() []listEntry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]listEntry(nil), n.entries...)
}

// Selected returns the selected record. With no explicit selection the first
// record in display order is selected.
func (n *Navigator) Selected() (listEntry, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	i := n.selectedIndexLocked()
	if i < 0 {
		return nil, false
	}
	return n.entries[i], true
}

func (n *Navigator) selectedIndexLocked() int {
	if len(n.entries) == 0 {
		return -1
	}
	for i, e := range n.entries {
		if e.key() == n.selected {
			return i
		}
	}
	return 0
}

// Move shifts the selection by delta, clamped to the collection.
func (n *Navigator) Move(delta int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := n.selectedIndexLocked()
	if i < 0 {
		return
	}
	next := i + delta
	if next < 0 {
		next = 0
	}
	if next > len(n.entries)-1 {
		next = len(n.entries) - 1
	}
	n.selected = n.entries[next].key()
}

// Show switches to mode for the selected record. It reports false when there
// is nothing to show.
func (n *Navigator) Show(mode ViewMode) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := n.selectedIndexLocked()
	if i < 0 && mode != ModeList {
		return false
	}
	if i >= 0 {
		n.selected = n.entries[i].key()
	}
	n.mode = mode
	return true
}

// Back leaves the current view. It reports true when the navigator itself
// should be closed.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.mode {
	case ModeEdit:
		if n.single {
			n.mode = ModeDetails
		} else {
			n.mode = ModeList
		}
		return false
	case ModeDetails:
		if n.single {
			return true
		}
		n.mode = ModeList
		return false
	default:
		return true
	}
}

// Replace swaps in the fresh copy of a saved record and re-sorts.
func (n *Navigator) Replace(entry listEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	next := make([]listEntry, len(n.entries))
	copy(next, n.entries)
	for i, e := range next {
		if e.key() == entry.key() {
			next[i] = entry
		}
	}
	n.entries = n.sorted(next)
}

func issueEntries(issues []linearapi.Issue) []listEntry {
	out := make([]listEntry, len(issues))
	for i, issue := range issues {
		out[i] = issueRecord{issue: issue}
	}
	return out
}

func projectEntries(projects []linearapi.Project) []listEntry {
	out := make([]listEntry, len(projects))
	for i, p := range projects {
		out[i] = projectRecord{project: p}
	}
	return out
}

// sortIssueEntries orders issue entries with present.SortIssues.
func sortIssueEntries(entries []listEntry) []listEntry {
	issues := make([]linearapi.Issue, 0, len(entries))
	for _, e := range entries {
		if r, ok := e.(issueRecord); ok {
			issues = append(issues, r.issue)
		}
	}
	return issueEntries(present.SortIssues(issues))
}

// sortProjectEntries orders project entries with present.SortProjects.
func sortProjectEntries(entries []listEntry) []listEntry {
	projects := make([]linearapi.Project, 0, len(entries))
	for _, e := range entries {
		if r, ok := e.(projectRecord); ok {
			projects = append(projects, r.project)
		}
	}
	return projectEntries(present.SortProjects(projects))
}
