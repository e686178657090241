// Package valuation discounts monthly cash-flow vectors against a vector of
// annual market rates and computes weighted-average life.
package valuation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/mbs/errs"
)

const monthsPerYear = 12.0

// DiscountFactors returns the monthly-compounded discount factors for periods
// startPeriod..len(marketRates)-1:
//
//	df_k = prod_{j=start..k} 1 / (1 + r_j/12)
//
// so the first factor already carries one month of discounting.
func DiscountFactors(marketRates []float64, startPeriod int) ([]float64, error) {
	if startPeriod < 1 || startPeriod > len(marketRates)-1 {
		return nil, fmt.Errorf("DiscountFactors: start period %d outside [1, %d]: %w", startPeriod, len(marketRates)-1, errs.ErrInvalidInput)
	}

	out := make([]float64, len(marketRates)-startPeriod)
	df := 1.0
	for k, r := range marketRates[startPeriod:] {
		growth := 1.0 + r/monthsPerYear
		if growth == 0 {
			return nil, fmt.Errorf("DiscountFactors: market rate %g at period %d gives a zero growth factor: %w", r, startPeriod+k, errs.ErrDomain)
		}
		df /= growth
		out[k] = df
	}
	return out, nil
}

// PresentValue discounts cashflow[startPeriod:] to the start of period
// startPeriod, i.e. after startPeriod-1 payments have been made.
// cashflow and marketRates must have the same length.
func PresentValue(cashflow, marketRates []float64, startPeriod int) (float64, error) {
	if len(cashflow) != len(marketRates) {
		return 0, fmt.Errorf("PresentValue: cash flow length %d != market rate length %d: %w", len(cashflow), len(marketRates), errs.ErrInvalidInput)
	}

	dfs, err := DiscountFactors(marketRates, startPeriod)
	if err != nil {
		return 0, fmt.Errorf("PresentValue: %w", err)
	}
	return floats.Dot(cashflow[startPeriod:], dfs), nil
}

// WeightedAverageLife returns the principal-weighted average time to
// repayment, in months: sum(cf_i * i) / originalBalance.
func WeightedAverageLife(principal []float64, originalBalance float64) (float64, error) {
	if !(originalBalance > 0) {
		return 0, fmt.Errorf("WeightedAverageLife: original balance must be positive, got %g: %w", originalBalance, errs.ErrInvalidInput)
	}

	// Period 0 carries zero weight, and floats.Span needs two points.
	if len(principal) < 2 {
		return 0, nil
	}

	periods := make([]float64, len(principal))
	floats.Span(periods, 0, float64(len(principal)-1))
	return floats.Dot(principal, periods) / originalBalance, nil
}

// Flat repeats an annual rate n times, the shape PresentValue expects for a
// flat curve.
func Flat(rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rate
	}
	return out
}
