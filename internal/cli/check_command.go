package cli

import (
	"flag"
	"fmt"
	"time"

	"jobhealth/internal/health"
	"jobhealth/internal/model"
)

type checkJSON struct {
	Title       string               `json:"title"`
	GeneratedAt string               `json:"generated_at"`
	Status      model.Status         `json:"status"`
	ExitCode    int                  `json:"exit_code"`
	Summary     string               `json:"summary"`
	Counts      map[model.Status]int `json:"counts"`
	Jobs        []checkJobJSON       `json:"jobs"`
}

type checkJobJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	model.Verdict
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var file string
	fs.StringVar(&file, "file", "", "job snapshot JSON (default: stdin)")
	fs.StringVar(&file, "f", "", "shorthand for --file")
	jsonOut := fs.Bool("json", false, "print JSON output")
	common := bindCommonFlags(fs)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	env, err := common.load()
	if err != nil {
		return err
	}
	rep, err := env.evaluate(file)
	if err != nil {
		return err
	}

	if *jsonOut {
		if err := printJSON(newCheckJSON(rep)); err != nil {
			return err
		}
		return exitFor(rep)
	}
	fmt.Fprintln(stdout, rep.Render())
	return exitFor(rep)
}

func newCheckJSON(rep health.Report) checkJSON {
	jobs := make([]checkJobJSON, 0, len(rep.Results))
	for _, res := range rep.Results {
		jobs = append(jobs, checkJobJSON{
			ID:      res.Job.ID,
			Name:    res.Job.DisplayName(),
			Verdict: res.Verdict,
		})
	}
	return checkJSON{
		Title:       rep.Title,
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		Status:      rep.Worst(),
		ExitCode:    rep.ExitCode(),
		Summary:     rep.SummaryLine(),
		Counts:      rep.Counts(),
		Jobs:        jobs,
	}
}
