// Package prepayment maps refinancing incentive to single monthly mortality
// (SMM) using the Richard and Roll (1989) S-curve, and converts between SMM
// and its annualized equivalent, the conditional prepayment rate (CPR).
package prepayment

import (
	"fmt"
	"math"

	"github.com/meenmo/mbs/errs"
)

// S-curve coefficients.
const (
	curveLevel     = 0.2406
	curveAmplitude = 0.1389
	curveSlope     = 5.952
	curveCenter    = 1.089
)

// SMM returns the single monthly mortality implied by a loan coupon and an
// annual market rate. A coupon well above the market rate means a strong
// refinancing incentive and a higher SMM.
func SMM(couponRate, marketRate float64) (float64, error) {
	if marketRate == 0 {
		return 0, fmt.Errorf("SMM: market rate is zero: %w", errs.ErrDomain)
	}

	ratio := couponRate / marketRate
	annual := curveLevel - curveAmplitude*math.Atan(curveSlope*(curveCenter-ratio))
	return SMMFromCPR(annual), nil
}

// SMMCurve applies SMM to each market rate.
func SMMCurve(couponRate float64, marketRates []float64) ([]float64, error) {
	if len(marketRates) == 0 {
		return nil, fmt.Errorf("SMMCurve: market rates are required: %w", errs.ErrInvalidInput)
	}

	out := make([]float64, len(marketRates))
	for i, r := range marketRates {
		smm, err := SMM(couponRate, r)
		if err != nil {
			return nil, fmt.Errorf("SMMCurve: index %d: %w", i, err)
		}
		out[i] = smm
	}
	return out, nil
}

// CPR annualizes a monthly prepayment rate: 1 - (1-smm)^12.
func CPR(smm float64) float64 {
	return 1.0 - math.Pow(1.0-smm, 12)
}

// CPRCurve applies CPR elementwise.
func CPRCurve(smm []float64) []float64 {
	out := make([]float64, len(smm))
	for i, v := range smm {
		out[i] = CPR(v)
	}
	return out
}

// SMMFromCPR de-annualizes a prepayment rate: 1 - (1-cpr)^(1/12).
func SMMFromCPR(cpr float64) float64 {
	return 1.0 - math.Pow(1.0-cpr, 1.0/12.0)
}
