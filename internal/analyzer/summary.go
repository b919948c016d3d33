package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the result of one report in a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records what happened to one report.
type Outcome struct {
	Order    int
	Report   string
	File     string
	Path     string
	Rows     int
	Duration time.Duration
	Status   Status
	Err      error
}

// Summary is the per-report status of a whole run, in run order.
type Summary struct {
	Outcomes []Outcome
	Started  time.Time
	Finished time.Time
}

func (s Summary) count(st Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

func (s Summary) Succeeded() int { return s.count(StatusOK) }
func (s Summary) Failed() int    { return s.count(StatusFailed) }
func (s Summary) Skipped() int   { return s.count(StatusSkipped) }

// String reads like "4 of 5 reports succeeded, 1 failed, 0 skipped".
func (s Summary) String() string {
	return fmt.Sprintf("%d of %d reports succeeded, %d failed, %d skipped",
		s.Succeeded(), len(s.Outcomes), s.Failed(), s.Skipped())
}

// RunError lists the reports that failed in a run.
type RunError struct {
	Failed []Outcome
}

func (e *RunError) Error() string {
	msgs := make([]string, 0, len(e.Failed))
	for _, o := range e.Failed {
		msgs = append(msgs, fmt.Sprintf("%s: %v", o.File, o.Err))
	}
	return "report run failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual report errors to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, o := range e.Failed {
		errs = append(errs, o.Err)
	}
	return errs
}

// IsRunError reports whether err carries per-report failures.
func IsRunError(err error) bool {
	var re *RunError
	return errors.As(err, &re)
}
