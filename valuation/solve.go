package valuation

import (
	"fmt"

	"github.com/meenmo/mbs/errs"
	"github.com/meenmo/mbs/rootfind"
)

// SolveFlatRate finds the flat annual market rate at which the present value
// of cashflow from startPeriod equals target. The search is bracketed by
// [lo, hi] with lo < hi.
//
// A failed search still returns the best estimate alongside the error.
func SolveFlatRate(cashflow []float64, target float64, startPeriod int, lo, hi float64, opts ...rootfind.Option) (rootfind.Result, error) {
	if !(lo < hi) {
		return rootfind.Result{}, fmt.Errorf("SolveFlatRate: bracket [%g, %g] must satisfy lo < hi: %w", lo, hi, errs.ErrInvalidInput)
	}

	rates := make([]float64, len(cashflow))
	var pvErr error
	objective := func(rate float64, _ ...float64) float64 {
		for i := range rates {
			rates[i] = rate
		}
		pv, err := PresentValue(cashflow, rates, startPeriod)
		if err != nil {
			pvErr = err
			return 0
		}
		return pv - target
	}

	// Surface argument errors before searching.
	if _, err := PresentValue(cashflow, Flat(lo, len(cashflow)), startPeriod); err != nil {
		return rootfind.Result{}, fmt.Errorf("SolveFlatRate: %w", err)
	}

	res, err := rootfind.Brent(objective, lo, hi, opts...)
	if pvErr != nil {
		return rootfind.Result{}, fmt.Errorf("SolveFlatRate: %w", pvErr)
	}
	if err != nil {
		return res, fmt.Errorf("SolveFlatRate: %w", err)
	}
	return res, nil
}
