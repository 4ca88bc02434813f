// Package verdict implements the Verdict Decider (spec.md §2 C13): a pure
// function from the accumulated assertion records and an optional
// top-level error to a terminal TestStatus.
package verdict

import (
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/spec"
)

// Decide maps the outcome of a session to a terminal TestStatus, per
// spec.md §4.9. A top-level error is classified by type:
// AssertionError/ContractViolation mean the subject's own contract was
// violated (AssertionFailed); anything else is an unexpected execution
// failure (ExecutionError). Decide never returns Aborted. Absent a
// top-level error, the first FAILED record
// determines an AssertionFailed status; an empty record set is Disabled;
// anything else is Passed.
func Decide(err error, records []spec.AssertionRecord) spec.TestStatus {
	if err != nil {
		switch e := err.(type) {
		case *kerrors.AssertionError:
			return spec.AssertionFailed(e.Message, "", "", e)
		case *kerrors.ContractViolation:
			return spec.AssertionFailed(e.Message, "no contract violation", "", e)
		default:
			return spec.ExecutionError(err)
		}
	}
	if len(records) == 0 {
		return spec.Disabled()
	}
	for _, r := range records {
		if r.Status == spec.StatusFailed {
			return spec.AssertionFailed(r.Message, r.Expected, r.Actual, nil)
		}
	}
	return spec.Passed()
}
