package health

import (
	"fmt"

	"jobhealth/internal/model"
)

const (
	DefaultTimeoutWarningMs     int64 = 240000
	DefaultTimeoutCriticalMs    int64 = 300000
	DefaultMaxConsecutiveErrors       = 1
)

// Thresholds drive the classification rules. TimeoutCriticalMs is carried
// as configuration but no rule reads it yet: a run past the critical
// timeout is still only a warning unless the scheduler reports a failure.
type Thresholds struct {
	TimeoutWarningMs     int64 `json:"timeout_warning_ms" toml:"timeout_warning_ms" yaml:"timeout_warning_ms" validate:"gt=0"`
	TimeoutCriticalMs    int64 `json:"timeout_critical_ms" toml:"timeout_critical_ms" yaml:"timeout_critical_ms" validate:"gtefield=TimeoutWarningMs"`
	MaxConsecutiveErrors int   `json:"max_consecutive_errors" toml:"max_consecutive_errors" yaml:"max_consecutive_errors" validate:"gte=1"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TimeoutWarningMs:     DefaultTimeoutWarningMs,
		TimeoutCriticalMs:    DefaultTimeoutCriticalMs,
		MaxConsecutiveErrors: DefaultMaxConsecutiveErrors,
	}
}

type Classifier struct {
	Thresholds Thresholds
	Formatter  Formatter
}

func NewClassifier(th Thresholds, f Formatter) Classifier {
	return Classifier{Thresholds: th, Formatter: f}
}

// rule pairs a guard with the verdict it produces. Rules are evaluated in
// slice order and the first match wins.
type rule struct {
	name    string
	match   func(c Classifier, state *model.JobState) bool
	verdict func(c Classifier, jobID string, state *model.JobState) model.Verdict
}

var rules = []rule{
	{
		name: "data_missing",
		match: func(_ Classifier, state *model.JobState) bool {
			return state == nil
		},
		verdict: func(_ Classifier, _ string, _ *model.JobState) model.Verdict {
			return model.Verdict{
				Status:     model.StatusError,
				Message:    "job data missing",
				Suggestion: "check that the job exists in the scheduler",
			}
		},
	},
	{
		name: "disabled",
		match: func(_ Classifier, state *model.JobState) bool {
			return !state.Enabled
		},
		verdict: func(c Classifier, jobID string, state *model.JobState) model.Verdict {
			v := c.withRun(model.StatusCritical, state)
			v.Message = "job disabled"
			v.Suggestion = fmt.Sprintf("re-enable with `cron update --job-id %s --patch '{\"enabled\":true}'`", jobID)
			return v
		},
	},
	{
		name: "consecutive_errors",
		match: func(c Classifier, state *model.JobState) bool {
			return state.ConsecutiveErrors >= c.Thresholds.MaxConsecutiveErrors
		},
		verdict: func(c Classifier, jobID string, state *model.JobState) model.Verdict {
			v := c.withRun(model.StatusCritical, state)
			v.Message = fmt.Sprintf("%d consecutive failures", state.ConsecutiveErrors)
			v.Error = state.LastError
			v.Suggestion = fmt.Sprintf("inspect the error, then retry manually: `cron run --job-id %s --run-mode force`", jobID)
			return v
		},
	},
	{
		name: "last_run_failed",
		match: func(_ Classifier, state *model.JobState) bool {
			return state.LastRunFailed()
		},
		verdict: func(c Classifier, _ string, state *model.JobState) model.Verdict {
			v := c.withRun(model.StatusCritical, state)
			v.Message = "last run failed"
			v.Error = state.LastError
			v.Suggestion = fmt.Sprintf("error: %s, retry manually", state.LastError)
			return v
		},
	},
	{
		name: "slow_run",
		match: func(c Classifier, state *model.JobState) bool {
			return state.LastDurationMs > c.Thresholds.TimeoutWarningMs
		},
		verdict: func(c Classifier, _ string, state *model.JobState) model.Verdict {
			v := c.withRun(model.StatusWarning, state)
			v.Message = fmt.Sprintf("slow run (%s)", FormatDuration(state.LastDurationMs))
			v.Suggestion = "monitor run time, it may be approaching the timeout"
			return v
		},
	},
	{
		name: "healthy",
		match: func(_ Classifier, _ *model.JobState) bool {
			return true
		},
		verdict: func(c Classifier, _ string, state *model.JobState) model.Verdict {
			v := c.withRun(model.StatusOK, state)
			v.Message = "running normally"
			return v
		},
	},
}

// Rules lists rule names in evaluation order.
func Rules() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.name)
	}
	return out
}

// Classify returns the verdict of the first rule matching state. A nil
// state means the job had no record in the snapshot. Only job.ID is read,
// for suggestion text.
func (c Classifier) Classify(job model.JobSpec, state *model.JobState) model.Verdict {
	for _, r := range rules {
		if !r.match(c, state) {
			continue
		}
		v := r.verdict(c, job.ID, state)
		v.Icon = v.Status.Icon()
		v.Rule = r.name
		return v
	}
	// unreachable: the last rule always matches
	return model.Verdict{}
}

func (c Classifier) withRun(status model.Status, state *model.JobState) model.Verdict {
	return model.Verdict{
		Status:   status,
		LastRun:  c.Formatter.FormatTimestamp(state.LastRunAtMs),
		Duration: FormatDuration(state.LastDurationMs),
	}
}
