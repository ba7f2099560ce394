// Package config holds everything a report run needs. It is read from a TOML file; the token only comes from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/extract"
	"github.com/m-kuzmin/project-reporter/internal/report"
	"github.com/m-kuzmin/project-reporter/internal/util/logging"
)

const (
	TokenEnv = "GITHUB_TOKEN"
	// Load tolerates this file being absent. Any other path has to exist.
	DefaultFile = "reporter.toml"
)

type Config struct {
	GitHub struct {
		Endpoint string   `toml:"endpoint"`
		Timeout  Duration `toml:"timeout"`
		Token    string   `toml:"-"`
	} `toml:"github"`

	Project struct {
		URL string `toml:"url"`
	} `toml:"project"`

	Report struct {
		Months    []string `toml:"months"`
		StartDate string   `toml:"start_date"`
		EndDate   string   `toml:"end_date"`
		OutputDir string   `toml:"output_dir"`
		HTML      bool     `toml:"html"`
		// YAML file that replaces the built in report phrases.
		Phrases string `toml:"phrases"`
	} `toml:"report"`

	Fields struct {
		Kind  string `toml:"kind"`
		Type  string `toml:"type"`
		Scope string `toml:"scope"`
	} `toml:"fields"`

	Fetch struct {
		PageSize int `toml:"page_size"`
		MaxPages int `toml:"max_pages"`
	} `toml:"fetch"`

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default is the configuration used for anything the file leaves out.
func Default() Config {
	var conf Config

	conf.GitHub.Endpoint = github.DefaultEndpoint
	conf.GitHub.Timeout = Duration(github.DefaultTimeout)
	conf.Report.OutputDir = "."

	fields := extract.DefaultFieldNames()
	conf.Fields.Kind, conf.Fields.Type, conf.Fields.Scope = fields.Kind, fields.Type, fields.Scope

	conf.Fetch.PageSize = github.MaxPageSize
	conf.Fetch.MaxPages = github.DefaultMaxPages
	conf.Log.Level = "info"

	return conf
}

/*
Load reads filename over Default() and takes the token from GITHUB_TOKEN. If filename is DefaultFile it may be missing,
everything can come from flags instead.

The result is not validated, call Validate once flags have been applied.
*/
func Load(filename string) (Config, error) {
	conf := Default()

	_, err := toml.DecodeFile(filename, &conf)
	if err != nil && !(errors.Is(err, os.ErrNotExist) && filename == DefaultFile) {
		return Config{}, ConfigurationError{Reason: fmt.Sprintf("while reading %s: %s", filename, err)}
	}

	conf.GitHub.Token = os.Getenv(TokenEnv)

	return conf, nil
}

// Validate returns a ConfigurationError describing the first problem it finds.
func (c Config) Validate() error {
	if c.GitHub.Token == "" {
		return ConfigurationError{Reason: "set the " + TokenEnv + " environment variable to a GitHub access token"}
	}

	if _, err := github.ParseProjectURL(c.Project.URL); err != nil {
		return ConfigurationError{Reason: err.Error()}
	}

	if err := c.validateWindow(); err != nil {
		return err
	}

	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > github.MaxPageSize {
		return ConfigurationError{Reason: fmt.Sprintf("fetch.page_size must be between 1 and %d", github.MaxPageSize)}
	}

	if c.Fetch.MaxPages < 1 {
		return ConfigurationError{Reason: "fetch.max_pages must be positive"}
	}

	if c.GitHub.Timeout <= 0 {
		return ConfigurationError{Reason: "github.timeout must be positive"}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return ConfigurationError{Reason: err.Error()}
	}

	return nil
}

func (c Config) validateWindow() error {
	hasMonths := len(c.Report.Months) > 0
	hasRange := c.Report.StartDate != "" || c.Report.EndDate != ""

	switch {
	case hasMonths && hasRange:
		return ConfigurationError{Reason: "set either report.months or report.start_date/end_date, not both"}
	case hasMonths:
		for _, month := range c.Report.Months {
			if _, err := time.Parse(report.MonthLayout, month); err != nil {
				return ConfigurationError{Reason: fmt.Sprintf("month %q is not YYYY-MM", month)}
			}
		}
	case hasRange:
		for _, day := range []string{c.Report.StartDate, c.Report.EndDate} {
			if _, err := time.Parse(report.DateLayout, day); err != nil {
				return ConfigurationError{Reason: fmt.Sprintf("date %q is not YYYY-MM-DD", day)}
			}
		}

		if c.Report.StartDate > c.Report.EndDate {
			return ConfigurationError{Reason: fmt.Sprintf("start_date %s is after end_date %s",
				c.Report.StartDate, c.Report.EndDate)}
		}
	default:
		return ConfigurationError{Reason: "set report.months or report.start_date and report.end_date"}
	}

	return nil
}

// Window is a report.MonthWindow if months are set and a report.DateRange otherwise.
func (c Config) Window() report.Window {
	if len(c.Report.Months) > 0 {
		return report.MonthWindow{Months: c.Report.Months}
	}

	return report.DateRange{Start: c.Report.StartDate, End: c.Report.EndDate}
}

func (c Config) ClientOptions() github.Options {
	return github.Options{
		Endpoint: c.GitHub.Endpoint,
		Token:    c.GitHub.Token,
		Timeout:  time.Duration(c.GitHub.Timeout),
	}
}

func (c Config) PagerOptions() github.PagerOptions {
	return github.PagerOptions{PageSize: c.Fetch.PageSize, MaxPages: c.Fetch.MaxPages}
}

func (c Config) FieldNames() extract.FieldNames {
	return extract.FieldNames{Kind: c.Fields.Kind, Type: c.Fields.Type, Scope: c.Fields.Scope}
}

type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Duration is a time.Duration written as a string in TOML, like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("while parsing duration %q: %w", text, err)
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
