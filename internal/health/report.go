package health

import (
	"fmt"
	"strings"
	"time"

	"jobhealth/internal/model"
)

const DefaultReportTitle = "Daily push suite"

type JobResult struct {
	Job     model.JobSpec `json:"job"`
	Verdict model.Verdict `json:"verdict"`
}

// Report is the outcome of one evaluation pass. CriticalCount counts only
// the literal critical status; error verdicts render with the same icon and
// drive the same exit code but stay out of the headline count.
type Report struct {
	Title         string      `json:"title"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Results       []JobResult `json:"jobs"`
	CriticalCount int         `json:"critical_count"`
	WarningCount  int         `json:"warning_count"`
}

type AggregateOptions struct {
	Title      string
	Now        time.Time
	Classifier Classifier
}

// Aggregate classifies every registry entry, in registry order, against its
// state in lookup. Jobs absent from lookup classify as missing data.
func Aggregate(registry model.Registry, lookup map[string]*model.JobState, opts AggregateOptions) Report {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultReportTitle
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rep := Report{
		Title:       title,
		GeneratedAt: now,
		Results:     make([]JobResult, 0, len(registry)),
	}
	for _, job := range registry {
		v := opts.Classifier.Classify(job, lookup[job.ID])
		rep.Results = append(rep.Results, JobResult{Job: job, Verdict: v})
		switch v.Status {
		case model.StatusCritical:
			rep.CriticalCount++
		case model.StatusWarning:
			rep.WarningCount++
		}
	}
	return rep
}

// Worst returns the most severe status in the report, preferring error over
// critical when both are present.
func (r Report) Worst() model.Status {
	worst := model.StatusOK
	for _, res := range r.Results {
		s := res.Verdict.Status
		if s.Worse(worst) || (s == model.StatusError && worst == model.StatusCritical) {
			worst = s
		}
	}
	return worst
}

// ExitCode maps the report onto the process contract: 2 for any critical or
// error verdict, 1 for any warning, else 0.
func (r Report) ExitCode() int {
	switch r.Worst() {
	case model.StatusCritical, model.StatusError:
		return 2
	case model.StatusWarning:
		return 1
	default:
		return 0
	}
}

// Counts tallies verdicts per status.
func (r Report) Counts() map[model.Status]int {
	out := map[model.Status]int{
		model.StatusOK:       0,
		model.StatusWarning:  0,
		model.StatusCritical: 0,
		model.StatusError:    0,
	}
	for _, res := range r.Results {
		out[res.Verdict.Status]++
	}
	return out
}

func (r Report) SummaryLine() string {
	switch {
	case r.CriticalCount > 0:
		return fmt.Sprintf("⚠️ Found %d critical issue(s)", r.CriticalCount)
	case r.WarningCount > 0:
		return fmt.Sprintf("⚡ Found %d warning(s)", r.WarningCount)
	default:
		return fmt.Sprintf("✅ %s: all jobs running normally", r.Title)
	}
}

func (r Report) Render() string {
	lines := []string{
		"📊 " + r.Title + " health report",
		"Time: " + r.GeneratedAt.Format("2006-01-02 15:04"),
		"",
		r.SummaryLine(),
		"",
	}
	for _, res := range r.Results {
		lines = append(lines, RenderDetail(res)...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// RenderDetail renders one job block without the trailing separator.
func RenderDetail(res JobResult) []string {
	v := res.Verdict
	lines := []string{
		v.Icon + " " + res.Job.DisplayName(),
		"   Status: " + v.Message,
	}
	if v.LastRun != "" {
		lines = append(lines, fmt.Sprintf("   Last run: %s | Duration: %s", v.LastRun, v.Duration))
	}
	if v.Error != "" {
		lines = append(lines, "   Error: "+v.Error)
	}
	if v.Suggestion != "" {
		lines = append(lines, "   Suggestion: "+v.Suggestion)
	}
	return lines
}
