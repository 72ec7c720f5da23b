package model

import "strings"

// JobSpec is a monitored job in the compiled-in registry. Schedule, Cron and
// Rounds are informational and never influence classification.
type JobSpec struct {
	ID       string   `json:"id" toml:"id" yaml:"id" validate:"required"`
	Name     string   `json:"name" toml:"name" yaml:"name"`
	Schedule string   `json:"schedule,omitempty" toml:"schedule" yaml:"schedule"`
	Cron     string   `json:"cron,omitempty" toml:"cron" yaml:"cron" validate:"omitempty,cronexpr"`
	Rounds   []string `json:"rounds,omitempty" toml:"rounds" yaml:"rounds"`
}

// DisplayName falls back to the first 8 characters of the id when the
// registry entry carries no name.
func (j JobSpec) DisplayName() string {
	if name := strings.TrimSpace(j.Name); name != "" {
		return name
	}
	return ShortID(j.ID)
}

func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

type Registry []JobSpec

func (r Registry) Find(id string) (JobSpec, bool) {
	for _, j := range r {
		if j.ID == id {
			return j, true
		}
	}
	return JobSpec{}, false
}

func (r Registry) IDs() []string {
	out := make([]string, 0, len(r))
	for _, j := range r {
		out = append(out, j.ID)
	}
	return out
}

// JobState is the last-known runtime state of one job as exported by the
// scheduler. Missing numeric fields are zero and missing strings are empty.
type JobState struct {
	Enabled           bool   `json:"enabled"`
	LastStatus        string `json:"lastStatus,omitempty"`
	LastDurationMs    int64  `json:"lastDurationMs,omitempty"`
	ConsecutiveErrors int    `json:"consecutiveErrors,omitempty"`
	LastError         string `json:"lastError,omitempty"`
	LastRunAtMs       *int64 `json:"lastRunAtMs,omitempty"`
}

// LastRunFailed is true when the scheduler recorded the last run as "error".
// Every other value, including unknown ones, is treated as not failed.
func (s JobState) LastRunFailed() bool {
	return s.LastStatus == "error"
}

// Verdict is the classification of one job. LastRun is empty only when the
// job record was missing.
type Verdict struct {
	Status     Status `json:"status"`
	Icon       string `json:"icon"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	LastRun    string `json:"last_run,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Error      string `json:"error,omitempty"`
	Rule       string `json:"rule"`
}
