// Package reporter runs one report: resolve the project, fetch its items, and write the files of the configured window.
package reporter

import (
	"context"
	"fmt"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/config"
	"github.com/m-kuzmin/project-reporter/internal/extract"
	"github.com/m-kuzmin/project-reporter/internal/report"
	"github.com/m-kuzmin/project-reporter/internal/template"
	"github.com/m-kuzmin/project-reporter/internal/util/logging"
)

type Summary struct {
	Project github.ProjectHandle
	Items   int
	Issues  int
	Files   []string
}

// Run expects conf to be validated. The same Querier can serve several runs at once.
func Run(ctx context.Context, conf config.Config, q github.Querier, log *logging.Logger) (Summary, error) {
	phrases, err := loadPhrases(conf.Report.Phrases)
	if err != nil {
		return Summary{}, err
	}

	_, project, err := github.Resolve(ctx, q, conf.Project.URL)
	if err != nil {
		return Summary{}, err
	}

	log.Infof("Project: %s (ID: %s)", project.Title, project.ID)

	items, err := github.FetchAllItems(ctx, q, project.ID, conf.PagerOptions())
	if err != nil {
		return Summary{Project: project}, err
	}

	log.Infof("Total items: %d", len(items))

	issues, err := report.Build(project.Title, items, conf.Window(), extract.New(conf.FieldNames()))
	if err != nil {
		return Summary{Project: project, Items: len(items)}, err
	}

	log.Debugf("%d closed issues in the report window", len(issues))

	writer := report.Writer{
		Dir:     conf.Report.OutputDir,
		HTML:    conf.Report.HTML,
		Phrases: phrases,
		Log:     log,
	}

	var files []string

	switch window := conf.Window().(type) {
	case report.DateRange:
		files, err = writer.Range(project.Title, window, issues)
	default:
		files, err = writer.Monthly(project.Title, issues)
	}

	return Summary{Project: project, Items: len(items), Issues: len(issues), Files: files}, err
}

func loadPhrases(filename string) (report.Phrases, error) {
	templ := template.Default()

	if filename != "" {
		var err error
		if templ, err = template.LoadYAMLTemplate(filename); err != nil {
			return report.Phrases{}, fmt.Errorf("while loading report phrases from %s: %w", filename, err)
		}
	}

	return report.NewPhrases(templ)
}
