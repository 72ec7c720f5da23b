package health

import (
	"strings"
	"testing"
	"time"

	"jobhealth/internal/model"
)

var fixedNow = time.Date(2026, 10, 18, 9, 5, 0, 0, time.UTC)

func testRegistry() model.Registry {
	return model.Registry{
		{ID: testJobID, Name: "Daily push suite", Schedule: "9:00 daily"},
	}
}

func aggregate(registry model.Registry, lookup map[string]*model.JobState) Report {
	return Aggregate(registry, lookup, AggregateOptions{
		Title:      "Daily push suite",
		Now:        fixedNow,
		Classifier: testClassifier(),
	})
}

func TestAggregateScenarios(t *testing.T) {
	cases := []struct {
		name        string
		mutate      func(s *model.JobState)
		missing     bool
		wantStatus  model.Status
		wantExit    int
		wantSummary string
	}{
		{name: "ok", mutate: func(s *model.JobState) {}, wantStatus: model.StatusOK, wantExit: 0, wantSummary: "✅"},
		{name: "disabled", mutate: func(s *model.JobState) { s.Enabled = false }, wantStatus: model.StatusCritical, wantExit: 2, wantSummary: "Found 1 critical"},
		{name: "consecutive errors", mutate: func(s *model.JobState) { s.ConsecutiveErrors = 2 }, wantStatus: model.StatusCritical, wantExit: 2, wantSummary: "Found 1 critical"},
		{name: "slow", mutate: func(s *model.JobState) { s.LastDurationMs = 250000 }, wantStatus: model.StatusWarning, wantExit: 1, wantSummary: "Found 1 warning"},
		{name: "missing", missing: true, wantStatus: model.StatusError, wantExit: 2, wantSummary: "✅"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := map[string]*model.JobState{}
			if !tc.missing {
				state := healthyState()
				tc.mutate(state)
				lookup[testJobID] = state
			}
			rep := aggregate(testRegistry(), lookup)
			if len(rep.Results) != 1 {
				t.Fatalf("expected one verdict, got %d", len(rep.Results))
			}
			if got := rep.Results[0].Verdict.Status; got != tc.wantStatus {
				t.Fatalf("expected %q, got %q", tc.wantStatus, got)
			}
			if got := rep.ExitCode(); got != tc.wantExit {
				t.Fatalf("expected exit %d, got %d", tc.wantExit, got)
			}
			if !strings.Contains(rep.SummaryLine(), tc.wantSummary) {
				t.Fatalf("expected summary to contain %q, got %q", tc.wantSummary, rep.SummaryLine())
			}
		})
	}
}

func TestAggregateErrorStaysOutOfCriticalCount(t *testing.T) {
	registry := model.Registry{
		{ID: "missing-job-1", Name: "Missing"},
		{ID: "slow-job", Name: "Slow"},
	}
	slow := healthyState()
	slow.LastDurationMs = 300001
	rep := aggregate(registry, map[string]*model.JobState{"slow-job": slow})

	if rep.CriticalCount != 0 {
		t.Fatalf("error verdicts must not count as critical, got %d", rep.CriticalCount)
	}
	if rep.WarningCount != 1 {
		t.Fatalf("expected one warning, got %d", rep.WarningCount)
	}
	if !strings.HasPrefix(rep.SummaryLine(), "⚡") {
		t.Fatalf("expected warning headline, got %q", rep.SummaryLine())
	}
	if rep.ExitCode() != 2 {
		t.Fatalf("expected exit 2 for error verdict, got %d", rep.ExitCode())
	}
	if rep.Worst() != model.StatusError {
		t.Fatalf("expected worst status error, got %q", rep.Worst())
	}
}

func TestAggregateKeepsRegistryOrder(t *testing.T) {
	registry := model.Registry{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	rep := aggregate(registry, map[string]*model.JobState{
		"a": healthyState(),
		"b": healthyState(),
		"c": healthyState(),
	})
	for i, id := range []string{"c", "a", "b"} {
		if rep.Results[i].Job.ID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, rep.Results[i].Job.ID)
		}
	}
	counts := rep.Counts()
	if counts[model.StatusOK] != 3 {
		t.Fatalf("expected 3 ok verdicts, got %d", counts[model.StatusOK])
	}
}

func TestRenderHealthyReport(t *testing.T) {
	rep := aggregate(testRegistry(), map[string]*model.JobState{testJobID: healthyState()})
	want := strings.Join([]string{
		"📊 Daily push suite health report",
		"Time: 2026-10-18 09:05",
		"",
		"✅ Daily push suite: all jobs running normally",
		"",
		"🟢 Daily push suite",
		"   Status: running normally",
		"   Last run: 11-14 22:13 | Duration: 5s",
		"",
	}, "\n")
	if got := rep.Render(); got != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderFailedRunIncludesErrorAndSuggestion(t *testing.T) {
	state := healthyState()
	state.LastStatus = "error"
	state.LastError = "network unreachable"
	rep := aggregate(testRegistry(), map[string]*model.JobState{testJobID: state})
	out := rep.Render()

	for _, want := range []string{
		"⚠️ Found 1 critical issue(s)",
		"🔴 Daily push suite",
		"   Status: last run failed",
		"   Error: network unreachable",
		"   Suggestion: error: network unreachable, retry manually",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected report to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderMissingJobOmitsRunLine(t *testing.T) {
	rep := aggregate(testRegistry(), nil)
	out := rep.Render()
	if strings.Contains(out, "Last run:") {
		t.Fatalf("missing job must not render a run line:\n%s", out)
	}
	if !strings.Contains(out, "🔴 Daily push suite\n   Status: job data missing") {
		t.Fatalf("unexpected detail block:\n%s", out)
	}
}

func TestRenderDetailFallsBackToShortID(t *testing.T) {
	lines := RenderDetail(JobResult{
		Job:     model.JobSpec{ID: testJobID},
		Verdict: model.Verdict{Icon: "🟢", Message: "running normally"},
	})
	if lines[0] != "🟢 7d71919d" {
		t.Fatalf("expected short id label, got %q", lines[0])
	}
}
