// Package errs holds the error kinds shared by the loan, pool and valuation
// packages. Operations wrap these with their own name so callers can use
// errors.Is to branch on the kind.
package errs

import "errors"

var (
	// ErrInvalidInput is returned for malformed arguments: mismatched array
	// lengths, non-positive loan amounts or terms, SMM curves of the wrong length.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDomain is returned when an argument lies outside the domain of a
	// formula (zero market rate, degenerate annuity factor) or when a root
	// finder bracket does not straddle a sign change.
	ErrDomain = errors.New("domain error")

	// ErrNotConverged is returned alongside a best-effort result when an
	// iterative solver hits its iteration cap.
	ErrNotConverged = errors.New("did not converge")
)
