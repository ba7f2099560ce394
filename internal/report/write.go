package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/m-kuzmin/project-reporter/internal/util/logging"
)

// Writer puts report files into Dir.
type Writer struct {
	Dir     string
	HTML    bool
	Phrases Phrases
	Log     *logging.Logger
}

/*
Monthly writes one CSV per month as soon as that month is summarized, then the Markdown summary. If a month fails the
CSVs of earlier months stay on disk, but no summary is written.

Returns the paths of the files it wrote.
*/
func (w Writer) Monthly(title string, issues []Issue) ([]string, error) {
	if err := os.MkdirAll(w.dir(), 0o755); err != nil {
		return nil, fmt.Errorf("while creating output directory: %w", err)
	}

	written := make([]string, 0)
	lines := make([]string, 0)

	for _, month := range ByMonthScope(issues) {
		name := CSVFileName(title, month.Month)

		section, err := w.Phrases.MonthSection(title, month, name)
		if err != nil {
			return written, fmt.Errorf("while summarizing %s: %w", month.Month, err)
		}

		path, err := w.create(name, func(f io.Writer) error { return WriteMonthlyCSV(f, month.Issues()) })
		if err != nil {
			return written, err
		}

		written = append(written, path)
		lines = append(lines, section...)

		w.Log.Infof("Wrote %d issues closed in %s to %s", len(month.Issues()), month.Month, path)
	}

	summary, err := w.summary(lines)

	return append(written, summary...), err
}

// Range writes one CSV with every issue of the range, then the Markdown summary grouped by type.
func (w Writer) Range(title string, window DateRange, issues []Issue) ([]string, error) {
	if err := os.MkdirAll(w.dir(), 0o755); err != nil {
		return nil, fmt.Errorf("while creating output directory: %w", err)
	}

	name := CSVFileName(title, window.Start+"_a_"+window.End)

	lines, err := w.Phrases.RangeSummary(ByType(issues), name)
	if err != nil {
		return nil, fmt.Errorf("while summarizing %s to %s: %w", window.Start, window.End, err)
	}

	path, err := w.create(name, func(f io.Writer) error { return WriteRangeCSV(f, issues) })
	if err != nil {
		return nil, err
	}

	w.Log.Infof("Wrote %d issues closed from %s to %s to %s", len(issues), window.Start, window.End, path)

	summary, err := w.summary(lines)

	return append([]string{path}, summary...), err
}

// summary overwrites the Markdown file and, if enabled, its HTML rendering.
func (w Writer) summary(lines []string) ([]string, error) {
	md := []byte(strings.Join(lines, "\n"))

	path, err := w.create(MarkdownFileName, func(f io.Writer) error {
		_, err := f.Write(md)

		return err //nolint:wrapcheck // Wrapped by create
	})
	if err != nil {
		return nil, err
	}

	w.Log.Infof("Markdown report saved to %s", path)

	if !w.HTML {
		return []string{path}, nil
	}

	htmlPath, err := w.create(HTMLFileName, func(f io.Writer) error {
		_, err := f.Write(markdown.ToHTML(md, nil, nil))

		return err //nolint:wrapcheck // Wrapped by create
	})
	if err != nil {
		return []string{path}, err
	}

	return []string{path, htmlPath}, nil
}

func (w Writer) create(name string, write func(io.Writer) error) (string, error) {
	path := filepath.Join(w.dir(), name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("while creating %s: %w", path, err)
	}

	if err = write(file); err != nil {
		file.Close()

		return "", fmt.Errorf("while writing %s: %w", path, err)
	}

	if err = file.Close(); err != nil {
		return "", fmt.Errorf("while closing %s: %w", path, err)
	}

	return path, nil
}

func (w Writer) dir() string {
	if w.Dir == "" {
		return "."
	}

	return w.Dir
}
