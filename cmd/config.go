package main

import (
	"log"

	"github.com/alexflint/go-arg"
	"github.com/m-kuzmin/project-reporter/internal/config"
)

type args struct {
	Config   string   `arg:"-c,--config" default:"reporter.toml" help:"TOML configuration file"`
	Project  string   `arg:"-p,--project" help:"project URL, https://github.com/(orgs|users)/<name>/projects/<number>"`
	Month    []string `arg:"-m,--month,separate" help:"closing month to report on (YYYY-MM), repeatable"`
	Start    string   `arg:"--start" help:"first closing date of a range report (YYYY-MM-DD)"`
	End      string   `arg:"--end" help:"last closing date of a range report (YYYY-MM-DD)"`
	Output   string   `arg:"-o,--output" help:"directory for the CSV and Markdown files"`
	HTML     bool     `arg:"--html" help:"also render the Markdown summary to HTML"`
	LogLevel string   `arg:"--log-level" help:"trace, debug, info, error or fatal"`
}

func (args) Description() string {
	return "Summarizes the closed issues of a GitHub project into CSV and Markdown. Reads the token from " +
		config.TokenEnv + "."
}

// Reads the config file and applies the command line over it. Exits if the result is not usable.
func mustNewConfig() config.Config {
	var cli args
	arg.MustParse(&cli)

	conf, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal(err)
	}

	if cli.Project != "" {
		conf.Project.URL = cli.Project
	}

	if len(cli.Month) > 0 || cli.Start != "" || cli.End != "" {
		conf.Report.Months = cli.Month
		conf.Report.StartDate, conf.Report.EndDate = cli.Start, cli.End
	}

	if cli.Output != "" {
		conf.Report.OutputDir = cli.Output
	}

	if cli.HTML {
		conf.Report.HTML = true
	}

	if cli.LogLevel != "" {
		conf.Log.Level = cli.LogLevel
	}

	if err = conf.Validate(); err != nil {
		log.Fatal(err)
	}

	return conf
}
