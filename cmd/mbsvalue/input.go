package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meenmo/mbs/amortization"
	"github.com/meenmo/mbs/pool"
	"github.com/meenmo/mbs/prepayment"
	"github.com/meenmo/mbs/valuation"
)

type loanJSON struct {
	LoanAmount float64 `json:"loan_amount"`
	AnnualRate float64 `json:"annual_rate"`
	TermMonths int     `json:"term_months"`
	Balloon    float64 `json:"balloon"`
	PointsPct  float64 `json:"points_pct"`
	// Adjustable loans set reset_rates; annual_rate is then the teaser rate.
	TeaserMonths int       `json:"teaser_months"`
	ResetRates   []float64 `json:"reset_rates"`
}

type sweepJSON struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Points int     `json:"points"`
}

type taskInput struct {
	TaskID           string   `json:"task_id,omitempty"`
	Loan             loanJSON `json:"loan"`
	FirstPaymentDate string   `json:"first_payment_date,omitempty"`

	// Prepayment: an explicit SMM curve, a flat CPR, or (when both are
	// absent) the S-curve driven by market rates.
	SMM []float64 `json:"smm,omitempty"`
	CPR *float64  `json:"cpr,omitempty"`

	PoolFactor float64 `json:"pool_factor,omitempty"`

	// Discounting: a full curve, or a flat rate repeated over the term.
	MarketRates []float64 `json:"market_rates,omitempty"`
	MarketRate  *float64  `json:"market_rate,omitempty"`
	StartPeriod int       `json:"start_period,omitempty"`

	TargetPrice float64    `json:"target_price,omitempty"`
	Sweep       *sweepJSON `json:"sweep,omitempty"`
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func parseInputs(raw []byte) ([]taskInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []taskInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input taskInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []taskInput{input}, false, nil
}

func (in taskInput) schedule() (*amortization.Schedule, error) {
	terms := amortization.Terms{
		LoanAmount: in.Loan.LoanAmount,
		AnnualRate: in.Loan.AnnualRate,
		TermMonths: in.Loan.TermMonths,
		Balloon:    in.Loan.Balloon,
		PointsPct:  in.Loan.PointsPct,
	}
	if len(in.Loan.ResetRates) == 0 {
		return amortization.NewFixed(terms)
	}
	return amortization.NewAdjustable(amortization.AdjustableTerms{
		Terms:        terms,
		TeaserMonths: in.Loan.TeaserMonths,
		ResetRates:   in.Loan.ResetRates,
	})
}

// marketRates returns the discount curve sized to n periods.
func (in taskInput) marketRates(n int) ([]float64, error) {
	switch {
	case len(in.MarketRates) > 0:
		return in.MarketRates, nil
	case in.MarketRate != nil:
		return valuation.Flat(*in.MarketRate, n), nil
	default:
		return nil, fmt.Errorf("market_rates or market_rate is required")
	}
}

// smmCurve resolves the prepayment assumption for schedule s. The S-curve
// compares each period's note rate with that period's market rate, so an
// adjustable loan's incentive follows its resets.
func (in taskInput) smmCurve(s *amortization.Schedule) ([]float64, error) {
	switch {
	case len(in.SMM) > 0:
		return in.SMM, nil
	case in.CPR != nil:
		return []float64{prepayment.SMMFromCPR(*in.CPR)}, nil
	}

	rates, err := in.marketRates(s.Len())
	if err != nil {
		return nil, fmt.Errorf("prepayment: smm, cpr or market rates are required: %w", err)
	}
	if s.Kind == amortization.Fixed || len(rates) != s.Len() {
		return prepayment.SMMCurve(in.Loan.AnnualRate, rates)
	}

	out := make([]float64, s.Len())
	for i := 1; i < s.Len(); i++ {
		smm, err := prepayment.SMM(s.Period(i).Rate*12, rates[i])
		if err != nil {
			return nil, fmt.Errorf("prepayment: period %d: %w", i, err)
		}
		out[i] = smm
	}
	return out, nil
}

func (in taskInput) startPeriod() int {
	if in.StartPeriod == 0 {
		return 1
	}
	return in.StartPeriod
}

func (in taskInput) poolFactor(fallback float64) float64 {
	if in.PoolFactor == 0 {
		return fallback
	}
	return in.PoolFactor
}

func (in taskInput) pool(s *amortization.Schedule, fallbackFactor float64) (*pool.Pool, error) {
	smm, err := in.smmCurve(s)
	if err != nil {
		return nil, err
	}
	return pool.New(s, smm, in.poolFactor(fallbackFactor))
}
