package cli

import (
	"flag"
	"fmt"
	"strings"

	"jobhealth/internal/config"
	"jobhealth/internal/health"
	"jobhealth/internal/model"
)

type jobsJSON struct {
	Title      string            `json:"title"`
	Thresholds health.Thresholds `json:"thresholds"`
	Rules      []string          `json:"rules"`
	Jobs       []jobsItemJSON    `json:"jobs"`
}

type jobsItemJSON struct {
	model.JobSpec
	NextRun string `json:"next_run,omitempty"`
}

func runJobs(args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON output")
	common := bindCommonFlags(fs)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := common.load()
	if err != nil {
		return err
	}
	cfg := env.cfg
	at := now().In(env.location)

	items := make([]jobsItemJSON, 0, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		item := jobsItemJSON{JobSpec: j}
		if next, ok := config.NextRun(j.Cron, at); ok {
			item.NextRun = next.Format("2006-01-02 15:04")
		}
		items = append(items, item)
	}

	if *jsonOut {
		return printJSON(jobsJSON{
			Title:      cfg.Title,
			Thresholds: cfg.Thresholds,
			Rules:      health.Rules(),
			Jobs:       items,
		})
	}

	th := cfg.Thresholds
	fmt.Fprintf(stdout, "title: %s\n", cfg.Title)
	fmt.Fprintln(stdout, "thresholds:")
	fmt.Fprintf(stdout, "  timeout_warning_ms: %d (%s)\n", th.TimeoutWarningMs, health.FormatDuration(th.TimeoutWarningMs))
	fmt.Fprintf(stdout, "  timeout_critical_ms: %d (%s, not used by any rule)\n", th.TimeoutCriticalMs, health.FormatDuration(th.TimeoutCriticalMs))
	fmt.Fprintf(stdout, "  max_consecutive_errors: %d\n", th.MaxConsecutiveErrors)
	fmt.Fprintf(stdout, "rules: %s\n", strings.Join(health.Rules(), " > "))
	fmt.Fprintln(stdout, "jobs:")
	for _, item := range items {
		fmt.Fprintf(stdout, "- %s (%s)\n", item.DisplayName(), item.ID)
		if item.Schedule != "" {
			fmt.Fprintf(stdout, "  schedule: %s\n", item.Schedule)
		}
		if item.Cron != "" {
			fmt.Fprintf(stdout, "  cron: %s (next: %s)\n", item.Cron, item.NextRun)
		}
		if len(item.Rounds) > 0 {
			fmt.Fprintf(stdout, "  rounds: %s\n", strings.Join(item.Rounds, ", "))
		}
	}
	return nil
}
