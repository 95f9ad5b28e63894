// Package bulk creates issues in batches from CSV input.
package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Input column names.
const (
	ColTitle       = "title"
	ColDescription = "description"
	ColState       = "state"
	ColAssignee    = "assignee"
	ColProject     = "project"
	ColTeam        = "team"
)

// ReportColumns are the columns of the result CSV.
var ReportColumns = []string{"title", "identifier", "url", "status", "error"}

const bom = "\ufeff"

// Row is one issue to create.
type Row struct {
	// Line is the 1-based line of the record in the input, for diagnostics.
	Line        int
	Title       string
	Description string
	State       string
	Assignee    string
	Project     string
	Team        string
}

// ReadRows parses header-driven CSV. Unknown columns are ignored and values are trimmed.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom)))
		index[name] = i
	}
	if _, ok := index[ColTitle]; !ok {
		return nil, fmt.Errorf("csv header must include a %q column", ColTitle)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row := Row{
			Line:        line,
			Title:       get(ColTitle),
			Description: cleanDescription(get(ColDescription)),
			State:       get(ColState),
			Assignee:    get(ColAssignee),
			Project:     get(ColProject),
			Team:        get(ColTeam),
		}
		if row == (Row{Line: line}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cleanDescription strips a byte order mark and treats a bare pair of quotes as empty.
func cleanDescription(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, bom))
	if s == `""` || s == `''` {
		return ""
	}
	return s
}

// WriteReport writes successes then failures as CSV with every field quoted.
func WriteReport(w io.Writer, report Report) error {
	lines := make([][]string, 0, len(report.Results)+len(report.Errors)+1)
	lines = append(lines, ReportColumns)
	for _, r := range report.Results {
		lines = append(lines, []string{r.Title, r.Identifier, r.URL, r.Status, r.Error})
	}
	for _, r := range report.Errors {
		lines = append(lines, []string{r.Title, r.Identifier, r.URL, r.Status, r.Error})
	}
	for _, fields := range lines {
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
