package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/reporter"
	"github.com/m-kuzmin/project-reporter/internal/util/logging"
)

func main() {
	conf := mustNewConfig()

	level, _ := logging.ParseLevel(conf.Log.Level) // Checked by Validate
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := reporter.Run(ctx, conf, github.NewClient(conf.ClientOptions()), logger)
	if err != nil {
		if msg, ok := github.GqlErrorString(err); ok {
			logger.Errorf("GitHub rejected the query: %s", msg)
		}

		if errors.Is(err, context.Canceled) {
			logger.Errorf("Received ^C (SIGTERM), report was not finished.")
		}

		stop()
		logger.Fatalf("Report failed: %s", err)
	}

	logger.Infof("Done: %d of %d items were closed issues in the window, %d files written",
		summary.Issues, summary.Items, len(summary.Files))
}
