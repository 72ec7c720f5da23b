package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const monitoredJobID = "7d71919d-15fe-46b3-a5da-71c9a335df7b"

type harnessResult struct {
	stdout string
	stderr string
	err    error
}

// runHarness executes Run with stdin fed from input and captures output.
// The clock is pinned so rendered reports are stable.
func runHarness(t *testing.T, input string, args ...string) harnessResult {
	t.Helper()

	var out, errOut bytes.Buffer
	prevIn, prevOut, prevErr, prevNow := stdin, stdout, stderr, now
	stdin = strings.NewReader(input)
	stdout = &out
	stderr = &errOut
	now = func() time.Time { return time.Date(2026, 10, 18, 9, 5, 0, 0, time.UTC) }
	t.Cleanup(func() {
		stdin, stdout, stderr, now = prevIn, prevOut, prevErr, prevNow
	})

	err := Run(args)
	return harnessResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func snapshotDoc(enabled bool, state string) string {
	en := "false"
	if enabled {
		en = "true"
	}
	return `{"jobs": [{"id": "` + monitoredJobID + `", "enabled": ` + en + `, "state": ` + state + `}]}`
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}
