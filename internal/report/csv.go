package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	MonthlyColumns = []string{
		"project", "month", "scope", "type", "repo", "number", "title", "state", "closedAt",
		"parent_number", "parent_title",
	}
	RangeColumns = []string{
		"project", "scope", "type", "repo", "number", "title", "state", "closedAt",
		"parent_number", "parent_title", "assignees",
	}
)

// WriteMonthlyCSV writes the issues of one month with a MonthlyColumns header.
func WriteMonthlyCSV(w io.Writer, issues []Issue) error {
	return writeCSV(w, MonthlyColumns, issues)
}

// WriteRangeCSV writes the issues of a date range with a RangeColumns header. Assignees are joined with ", ".
func WriteRangeCSV(w io.Writer, issues []Issue) error {
	return writeCSV(w, RangeColumns, issues)
}

func writeCSV(w io.Writer, columns []string, issues []Issue) error {
	out := csv.NewWriter(w)

	if err := out.Write(columns); err != nil {
		return fmt.Errorf("while writing CSV header: %w", err)
	}

	for _, issue := range issues {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = issue.column(column)
		}

		if err := out.Write(row); err != nil {
			return fmt.Errorf("while writing CSV row for %s#%d: %w", issue.Repo, issue.Number, err)
		}
	}

	out.Flush()

	if err := out.Error(); err != nil {
		return fmt.Errorf("while flushing CSV: %w", err)
	}

	return nil
}

func (i Issue) column(name string) string {
	parent, hasParent := i.Parent.Unwrap()

	switch name {
	case "project":
		return i.Project
	case "month":
		return i.Month
	case "scope":
		return i.Scope
	case "type":
		return i.Type
	case "repo":
		return i.Repo
	case "number":
		return strconv.Itoa(i.Number)
	case "title":
		return i.Title
	case "state":
		return i.State
	case "closedAt":
		return i.ClosedAt
	case "parent_number":
		if hasParent {
			return strconv.Itoa(parent.Number)
		}
	case "parent_title":
		if hasParent {
			return parent.Title
		}
	case "assignees":
		return strings.Join(i.Assignees, ", ")
	}

	return ""
}

var unsafeFileChars = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// CSVFileName is `<title>_<suffix>.csv` with spaces and path separators of the title replaced by "_".
func CSVFileName(title, suffix string) string {
	return unsafeFileChars.Replace(title) + "_" + suffix + ".csv"
}
