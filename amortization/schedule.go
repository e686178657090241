// Package amortization builds deterministic level-payment loan schedules for
// fixed- and adjustable-rate mortgages.
package amortization

import (
	"fmt"
	"math"

	"github.com/meenmo/mbs/errs"
)

const monthsPerYear = 12.0

// LevelPayment returns the constant payment that amortizes loanAmount down to
// balloon over nPeriods at a constant periodRate:
//
//	pv  = loan - balloon / (1+r)^n
//	pmt = r * pv / (1 - (1+r)^-n)
//
// A zero rate degenerates to straight-line repayment.
func LevelPayment(loanAmount, periodRate float64, nPeriods int, balloon float64) (float64, error) {
	if nPeriods <= 0 {
		return 0, fmt.Errorf("LevelPayment: periods must be positive, got %d: %w", nPeriods, errs.ErrInvalidInput)
	}
	if periodRate == 0 {
		return (loanAmount - balloon) / float64(nPeriods), nil
	}

	growth := math.Pow(1.0+periodRate, float64(nPeriods))
	annuity := 1.0 - 1.0/growth
	if annuity == 0 || math.IsNaN(annuity) || math.IsInf(growth, 0) || growth <= 0 {
		return 0, fmt.Errorf("LevelPayment: annuity factor degenerate for rate %g over %d periods: %w", periodRate, nPeriods, errs.ErrDomain)
	}

	pv := loanAmount - balloon/growth
	return periodRate * pv / annuity, nil
}

// NewFixed builds the schedule of a fixed-rate loan.
func NewFixed(terms Terms) (*Schedule, error) {
	if err := validateTerms(terms); err != nil {
		return nil, fmt.Errorf("NewFixed: %w", err)
	}

	r := terms.AnnualRate / monthsPerYear
	s, err := build(terms, Fixed, func(int) float64 { return r })
	if err != nil {
		return nil, fmt.Errorf("NewFixed: %w", err)
	}
	return s, nil
}

// NewAdjustable builds the schedule of an adjustable-rate loan. The payment is
// re-amortized over the remaining term every time the monthly rate changes.
func NewAdjustable(terms AdjustableTerms) (*Schedule, error) {
	if err := validateTerms(terms.Terms); err != nil {
		return nil, fmt.Errorf("NewAdjustable: %w", err)
	}
	if terms.TeaserMonths < 0 || terms.TeaserMonths >= terms.TermMonths {
		return nil, fmt.Errorf("NewAdjustable: teaser months %d must be in [0, %d): %w", terms.TeaserMonths, terms.TermMonths, errs.ErrInvalidInput)
	}

	resets, err := resetPath(terms.ResetRates, terms.TermMonths-terms.TeaserMonths)
	if err != nil {
		return nil, fmt.Errorf("NewAdjustable: %w", err)
	}

	teaser := terms.AnnualRate / monthsPerYear
	s, err := build(terms.Terms, Adjustable, func(period int) float64 {
		if period <= terms.TeaserMonths {
			return teaser
		}
		return resets[period-terms.TeaserMonths-1]
	})
	if err != nil {
		return nil, fmt.Errorf("NewAdjustable: %w", err)
	}
	return s, nil
}

// build fills a TermMonths+1 schedule forward. rateFn returns the monthly
// rate for period i (1-based); the payment is recomputed from the current
// balance over the remaining periods whenever that rate changes.
func build(terms Terms, kind Kind, rateFn func(period int) float64) (*Schedule, error) {
	n := terms.TermMonths
	periods := make([]Period, n+1)
	periods[0] = Period{Balance: terms.LoanAmount}

	var (
		payment  float64
		lastRate float64
	)
	for i := 1; i <= n; i++ {
		r := rateFn(i)
		prev := periods[i-1].Balance

		if i == 1 || r != lastRate {
			pmt, err := LevelPayment(prev, r, n-i+1, terms.Balloon)
			if err != nil {
				return nil, fmt.Errorf("period %d: %w", i, err)
			}
			payment = pmt
			lastRate = r
		}

		interest := prev * r
		principal := payment - interest
		periods[i] = Period{
			Balance:   prev - principal,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Rate:      r,
		}
	}

	return &Schedule{
		Kind:       kind,
		TermMonths: n,
		LoanAmount: terms.LoanAmount,
		Balloon:    terms.Balloon,
		Upfront:    terms.LoanAmount * terms.PointsPct / 100.0,
		periods:    periods,
	}, nil
}

func validateTerms(t Terms) error {
	if !(t.LoanAmount > 0) {
		return fmt.Errorf("loan amount must be positive, got %g: %w", t.LoanAmount, errs.ErrInvalidInput)
	}
	if t.TermMonths <= 0 {
		return fmt.Errorf("term months must be positive, got %d: %w", t.TermMonths, errs.ErrInvalidInput)
	}
	if t.Balloon < 0 {
		return fmt.Errorf("balloon must be non-negative, got %g: %w", t.Balloon, errs.ErrInvalidInput)
	}
	if t.PointsPct < 0 {
		return fmt.Errorf("points must be non-negative, got %g: %w", t.PointsPct, errs.ErrInvalidInput)
	}
	return nil
}

// resetPath converts annual reset rates into monthly rates, broadcasting a
// single value across all n remaining periods.
func resetPath(annual []float64, n int) ([]float64, error) {
	switch len(annual) {
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = annual[0] / monthsPerYear
		}
		return out, nil
	case n:
		out := make([]float64, n)
		for i, r := range annual {
			out[i] = r / monthsPerYear
		}
		return out, nil
	default:
		return nil, fmt.Errorf("reset rates must have length 1 or %d, got %d: %w", n, len(annual), errs.ErrInvalidInput)
	}
}
