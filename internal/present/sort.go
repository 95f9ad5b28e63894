// Package present orders and formats issue and project collections for display.
package present

import (
	"sort"
	"time"

	"github.com/roeyazroel/linear-cli/internal/linearapi"
)

// Issue status buckets, earliest first.
const (
	bucketActive = iota
	bucketQueued
	bucketClosed
)

var issueStatusBuckets = map[string]int{
	"In Progress": bucketActive,
	"Backlog":     bucketQueued,
	"Todo":        bucketQueued,
	"Done":        bucketClosed,
	"Canceled":    bucketClosed,
}

// IssueBucket returns the sort bucket of a status name. Unknown statuses share the Backlog bucket.
func IssueBucket(status string) int {
	if b, ok := issueStatusBuckets[status]; ok {
		return b
	}
	return bucketQueued
}

var projectStateBuckets = map[string]int{
	"planned":     0,
	"in_progress": 1,
	"paused":      2,
	"completed":   3,
	"canceled":    3,
}

// ProjectBucket returns the sort bucket of a project state. Unknown states share the in_progress bucket.
func ProjectBucket(state string) int {
	if b, ok := projectStateBuckets[state]; ok {
		return b
	}
	return 1
}

// SortIssues returns issues ordered by status bucket, then priority descending,
// then completion date (closed bucket) or creation date, newest first.
// The input slice is not modified.
func SortIssues(issues []linearapi.Issue) []linearapi.Issue {
	sorted := append([]linearapi.Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ba, bb := IssueBucket(a.State), IssueBucket(b.State)
		if ba != bb {
			return ba < bb
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if ba == bucketClosed {
			return timeOrZero(a.CompletedAt).After(timeOrZero(b.CompletedAt))
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return sorted
}

// SortProjects returns projects ordered by state bucket, then start date
// descending with dated projects ahead of undated ones, then creation date
// descending. The input slice is not modified.
func SortProjects(projects []linearapi.Project) []linearapi.Project {
	sorted := append([]linearapi.Project(nil), projects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ba, bb := ProjectBucket(a.State), ProjectBucket(b.State)
		if ba != bb {
			return ba < bb
		}
		sa, sb := ProjectStart(a), ProjectStart(b)
		switch {
		case sa != nil && sb != nil:
			if !sa.Equal(*sb) {
				return sa.After(*sb)
			}
		case sa != nil:
			return true
		case sb != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return sorted
}

// ProjectStart returns when a project started, falling back to its planned start date.
func ProjectStart(p linearapi.Project) *time.Time {
	if p.StartedAt != nil {
		return p.StartedAt
	}
	if p.StartDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
