package calcjob

import (
	"errors"
	"fmt"

	"github.com/openmx-go/openmx"
)

// Exit codes reported to the orchestrator when output handling fails. The
// numbers are stable across releases; schedulers and workflow retries key
// on them.
const (
	ExitOutputMissing    = 301
	ExitOutputRead       = 302
	ExitOutputParse      = 303
	ExitOutputIncomplete = 310

	ExitDosMissing    = 311
	ExitDosRead       = 312
	ExitDosParse      = 313
	ExitDosIncomplete = 314
	ExitDosInvalid    = 315

	ExitFeatureNotAvailable = 350
)

// ExitError couples a failure with its orchestrator exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode extracts the exit code from err. It returns 0 for nil and
// ExitOutputParse for errors that carry no code of their own.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitOutputParse
}

// exitFor maps the extractor's sentinel errors onto the main-run codes.
func exitFor(err error) *ExitError {
	switch {
	case errors.Is(err, openmx.ErrOutputMissing):
		return &ExitError{Code: ExitOutputMissing, Err: err}
	case errors.Is(err, openmx.ErrOutputRead):
		return &ExitError{Code: ExitOutputRead, Err: err}
	case errors.Is(err, openmx.ErrOutputIncomplete):
		return &ExitError{Code: ExitOutputIncomplete, Err: err}
	case errors.Is(err, openmx.ErrFeatureNotAvailable):
		return &ExitError{Code: ExitFeatureNotAvailable, Err: err}
	default:
		return &ExitError{Code: ExitOutputParse, Err: err}
	}
}

// dosExitFor maps the same sentinels onto the DosMain code block.
func dosExitFor(err error) *ExitError {
	switch {
	case errors.Is(err, openmx.ErrOutputMissing):
		return &ExitError{Code: ExitDosMissing, Err: err}
	case errors.Is(err, openmx.ErrOutputRead):
		return &ExitError{Code: ExitDosRead, Err: err}
	case errors.Is(err, openmx.ErrOutputIncomplete):
		return &ExitError{Code: ExitDosIncomplete, Err: err}
	case errors.Is(err, openmx.ErrFeatureNotAvailable):
		return &ExitError{Code: ExitFeatureNotAvailable, Err: err}
	default:
		return &ExitError{Code: ExitDosParse, Err: err}
	}
}
