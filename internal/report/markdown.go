package report

import (
	"fmt"
	"strings"

	"github.com/m-kuzmin/project-reporter/internal/template"
)

const (
	MarkdownFileName = "relatorio.md"
	HTMLFileName     = "relatorio.html"
)

// Phrases renders the lines of the Markdown summary from a template with `monthly` and `range` groups.
type Phrases struct {
	monthly template.Group
	ranged  template.Group
}

func NewPhrases(templ template.Template) (Phrases, error) {
	err := templ.Require(map[string][]string{
		"monthly": {"header", "total", "type", "csv"},
		"range":   {"total", "type", "csv"},
	})
	if err != nil {
		return Phrases{}, fmt.Errorf("while checking report phrases: %w", err)
	}

	monthly, _ := templ.Get("monthly")
	ranged, _ := templ.Get("range")

	return Phrases{monthly: monthly, ranged: ranged}, nil
}

// MonthSection is the summary of one month: a header, the total and the type shares for every scope, then csvName.
func (p Phrases) MonthSection(title string, month MonthGroup, csvName string) ([]string, error) {
	lines := make([]string, 0, len(month.Scopes)+1)

	for _, scope := range month.Scopes {
		header, err := p.monthly.Format("header", title, month.Month, scope.Scope)
		if err != nil {
			return nil, err
		}

		summary := make([]string, 0, len(scope.Types)+1)

		total, err := p.monthly.Format("total", len(scope.Issues))
		if err != nil {
			return nil, err
		}

		summary = append(summary, total)

		for _, share := range scope.Types {
			line, err := p.monthly.Format("type", share.Name, share.Count, share.Percent)
			if err != nil {
				return nil, err
			}

			summary = append(summary, line)
		}

		lines = append(lines, header+"\n"+strings.Join(summary, "\n")+"\n")
	}

	saved, err := p.monthly.Format("csv", csvName)
	if err != nil {
		return nil, err
	}

	return append(lines, saved+"\n"), nil
}

// RangeSummary is the whole summary of a date range report.
func (p Phrases) RangeSummary(summary TypeSummary, csvName string) ([]string, error) {
	lines := make([]string, 0, len(summary.Types)+2)

	total, err := p.ranged.Format("total", summary.Total)
	if err != nil {
		return nil, err
	}

	lines = append(lines, total+"\n")

	for _, group := range summary.Types {
		line, err := p.ranged.Format("type", group.Name, group.Count, group.Percent, group.People)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	saved, err := p.ranged.Format("csv", csvName)
	if err != nil {
		return nil, err
	}

	return append(lines, "\n"+saved+"\n"), nil
}
