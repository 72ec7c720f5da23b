package cli

import (
	"fmt"

	"jobhealth/internal/health"
)

// ExitError carries a non-zero report exit code. The report has already
// been printed when it is returned, so callers should exit silently.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func exitFor(rep health.Report) error {
	code := rep.ExitCode()
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
