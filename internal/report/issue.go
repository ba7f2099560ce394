// Package report turns project items into the issues of a time window, groups them and writes CSV and Markdown.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/extract"
	"github.com/m-kuzmin/project-reporter/internal/util/option"
)

const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// Issue is one closed issue of the report window. Type and Scope are never empty.
type Issue struct {
	Project   string
	Month     string
	Scope     string
	Type      string
	Repo      string
	Number    int
	Title     string
	State     string
	ClosedAt  string
	Parent    option.Option[github.ParentIssue]
	Assignees []string
}

// Window decides which closing times belong in the report.
type Window interface {
	Contains(closedAt time.Time) bool
}

// MonthWindow accepts issues closed in any of Months ("2025-09").
type MonthWindow struct {
	Months []string
}

func (w MonthWindow) Contains(closedAt time.Time) bool {
	return slices.Contains(w.Months, closedAt.Format(MonthLayout))
}

// DateRange accepts issues closed between Start and End ("2025-10-07"), both inclusive.
type DateRange struct {
	Start, End string
}

func (r DateRange) Contains(closedAt time.Time) bool {
	day := closedAt.Format(DateLayout)

	return r.Start <= day && day <= r.End
}

/*
Build keeps the items that are issues closed inside the window and extracts their columns. Items come out in the order
they went in.

Returned error means GitHub sent a closedAt that is not RFC 3339.
*/
func Build(title string, items []github.RawItem, window Window, extractor extract.Extractor) ([]Issue, error) {
	issues := make([]Issue, 0)

	for _, item := range items {
		content := item.Content
		if content == nil || content.ClosedAt == "" {
			continue
		}

		// The date of closedAt is taken in the offset GitHub sent, which is UTC.
		closed, err := time.Parse(time.RFC3339, content.ClosedAt)
		if err != nil {
			return nil, fmt.Errorf("while parsing closedAt of %s#%d: %w",
				content.Repository.NameWithOwner, content.Number, err)
		}

		if !window.Contains(closed) {
			continue
		}

		issues = append(issues, Issue{
			Project:   title,
			Month:     closed.Format(MonthLayout),
			Scope:     extractor.Scope(item),
			Type:      extractor.Type(item),
			Repo:      content.Repository.NameWithOwner,
			Number:    content.Number,
			Title:     content.Title,
			State:     content.State,
			ClosedAt:  content.ClosedAt,
			Parent:    option.FromPtr(content.Parent),
			Assignees: extract.Assignees(item),
		})
	}

	return issues, nil
}
