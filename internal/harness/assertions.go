package harness

import (
	"fmt"
	"slices"
	"strings"
)

// Check names.
const (
	CheckError       = "error"
	CheckOrder       = "order"
	CheckOutput      = "output"
	CheckContains    = "contains"
	CheckNotContains = "not_contains"
	CheckDiagnostics = "diagnostics"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Check    string // Which expect key failed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Check, e.Expected, e.Actual)
}

// EvaluateExpect checks result against every key set in expect.
// Returns one message per failed check.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []error

	if result.ErrorKind != expect.Error {
		errs = append(errs, &AssertionError{
			Check:    CheckError,
			Expected: orNone(expect.Error),
			Actual:   orNone(result.ErrorKind),
		})
	}

	if expect.Order != nil && !slices.Equal(expect.Order, result.Order) {
		errs = append(errs, &AssertionError{
			Check:    CheckOrder,
			Expected: fmt.Sprintf("%v", expect.Order),
			Actual:   fmt.Sprintf("%v", result.Order),
		})
	}

	if expect.Output != nil && *expect.Output != result.Output {
		errs = append(errs, &AssertionError{
			Check:    CheckOutput,
			Expected: fmt.Sprintf("%q", *expect.Output),
			Actual:   fmt.Sprintf("%q", result.Output),
		})
	}

	for _, want := range expect.Contains {
		if !strings.Contains(result.Code, want) {
			errs = append(errs, &AssertionError{
				Check:    CheckContains,
				Expected: fmt.Sprintf("program containing %q", want),
				Actual:   "not found",
			})
		}
	}

	for _, unwanted := range expect.NotContains {
		if strings.Contains(result.Code, unwanted) {
			errs = append(errs, &AssertionError{
				Check:    CheckNotContains,
				Expected: fmt.Sprintf("program without %q", unwanted),
				Actual:   "found",
			})
		}
	}

	if expect.Diagnostics != nil && !slices.Equal(expect.Diagnostics, result.Diagnostics) {
		errs = append(errs, &AssertionError{
			Check:    CheckDiagnostics,
			Expected: fmt.Sprintf("%v", expect.Diagnostics),
			Actual:   fmt.Sprintf("%v", result.Diagnostics),
		})
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
