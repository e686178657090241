package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/mbs/amortization"
	"github.com/meenmo/mbs/config"
	"github.com/meenmo/mbs/errs"
	"github.com/meenmo/mbs/internal/report"
	"github.com/meenmo/mbs/pool"
	"github.com/meenmo/mbs/prepayment"
	"github.com/meenmo/mbs/rootfind"
	"github.com/meenmo/mbs/valuation"
)

type scheduleOutput struct {
	Kind         amortization.Kind    `json:"kind"`
	Payment      decimal.Decimal      `json:"payment"`
	Upfront      decimal.Decimal      `json:"upfront"`
	FinalBalance decimal.Decimal      `json:"final_balance"`
	WALMonths    float64              `json:"wal_months"`
	Rows         []report.ScheduleRow `json:"rows"`
}

func processSchedule(a *app, in taskInput) (any, error) {
	s, err := in.schedule()
	if err != nil {
		return nil, err
	}
	dating, err := a.dating(in)
	if err != nil {
		return nil, err
	}
	wal, err := valuation.WeightedAverageLife(s.Principals(), s.LoanAmount)
	if err != nil {
		return nil, err
	}

	return &scheduleOutput{
		Kind:         s.Kind,
		Payment:      report.Money(s.Period(1).Payment),
		Upfront:      report.Money(s.Upfront),
		FinalBalance: report.Money(s.FinalBalance()),
		WALMonths:    wal,
		Rows:         report.ScheduleTable(s, dating),
	}, nil
}

type poolOutput struct {
	InitialFactor float64          `json:"initial_factor"`
	WALMonths     float64          `json:"wal_months"`
	PresentValue  *decimal.Decimal `json:"present_value,omitempty"`
	Rows          []report.PoolRow `json:"rows"`
}

func processPool(a *app, in taskInput) (any, error) {
	s, err := in.schedule()
	if err != nil {
		return nil, err
	}
	p, err := in.pool(s, config.GetConfig().DefaultPoolFactor)
	if err != nil {
		return nil, err
	}
	dating, err := a.dating(in)
	if err != nil {
		return nil, err
	}
	wal, err := valuation.WeightedAverageLife(p.TotalPrincipals(), s.LoanAmount*p.InitialFactor)
	if err != nil {
		return nil, err
	}

	out := &poolOutput{
		InitialFactor: p.InitialFactor,
		WALMonths:     wal,
		Rows:          report.PoolTable(p, dating),
	}
	if rates, err := in.marketRates(p.Len()); err == nil {
		pv, err := valuation.PresentValue(p.TotalCashflows(), rates, in.startPeriod())
		if err != nil {
			return nil, err
		}
		m := report.Money(pv)
		out.PresentValue = &m
	}
	return out, nil
}

type sweepPoint struct {
	MarketRate      float64         `json:"market_rate"`
	SMM             float64         `json:"smm"`
	CPR             float64         `json:"cpr"`
	ValueNoPrepay   decimal.Decimal `json:"value_no_prepay"`
	ValueWithPrepay decimal.Decimal `json:"value_with_prepay"`
	WALWithPrepay   float64         `json:"wal_with_prepay_months"`
}

// processSweep values the pool at a range of flat market rates, once with no
// prepayment and once with the S-curve SMM implied by each rate.
func processSweep(a *app, in taskInput) (any, error) {
	if in.Sweep == nil || in.Sweep.Points < 2 {
		return nil, fmt.Errorf("sweep with at least 2 points is required")
	}
	s, err := in.schedule()
	if err != nil {
		return nil, err
	}
	factor := in.poolFactor(config.GetConfig().DefaultPoolFactor)
	flat, err := pool.New(s, []float64{0}, factor)
	if err != nil {
		return nil, err
	}

	rates := make([]float64, in.Sweep.Points)
	floats.Span(rates, in.Sweep.From, in.Sweep.To)

	out := make([]sweepPoint, 0, len(rates))
	for _, r := range rates {
		smm, err := prepayment.SMM(in.Loan.AnnualRate, r)
		if err != nil {
			return nil, fmt.Errorf("market rate %g: %w", r, err)
		}
		prepaid, err := pool.New(s, []float64{smm}, factor)
		if err != nil {
			return nil, fmt.Errorf("market rate %g: %w", r, err)
		}

		curve := valuation.Flat(r, s.Len())
		pvFlat, err := valuation.PresentValue(flat.TotalCashflows(), curve, in.startPeriod())
		if err != nil {
			return nil, err
		}
		pvPrepaid, err := valuation.PresentValue(prepaid.TotalCashflows(), curve, in.startPeriod())
		if err != nil {
			return nil, err
		}
		wal, err := valuation.WeightedAverageLife(prepaid.TotalPrincipals(), s.LoanAmount*factor)
		if err != nil {
			return nil, err
		}

		out = append(out, sweepPoint{
			MarketRate:      r,
			SMM:             smm,
			CPR:             prepayment.CPR(smm),
			ValueNoPrepay:   report.Money(pvFlat),
			ValueWithPrepay: report.Money(pvPrepaid),
			WALWithPrepay:   wal,
		})
	}
	a.log.Debug().Int("points", len(out)).Msg("sweep complete")
	return out, nil
}

type solveOutput struct {
	TargetPrice decimal.Decimal `json:"target_price"`
	Rate        float64         `json:"rate"`
	PriceAtRate decimal.Decimal `json:"price_at_rate"`
	Iterations  int             `json:"iterations"`
	Converged   bool            `json:"converged"`
}

// processSolve finds the flat discount rate at which the pool's cash flows
// are worth target_price. Without a prepayment assumption the pool is
// valued with no prepayment. A search that hits the iteration cap still
// reports its best estimate alongside the error.
func processSolve(a *app, in taskInput) (any, error) {
	if !(in.TargetPrice > 0) {
		return nil, fmt.Errorf("target_price must be positive")
	}
	s, err := in.schedule()
	if err != nil {
		return nil, err
	}

	smm := []float64{0}
	if len(in.SMM) > 0 || in.CPR != nil || len(in.MarketRates) > 0 || in.MarketRate != nil {
		if smm, err = in.smmCurve(s); err != nil {
			return nil, err
		}
	}
	p, err := pool.New(s, smm, in.poolFactor(config.GetConfig().DefaultPoolFactor))
	if err != nil {
		return nil, err
	}

	cfg := config.GetConfig()
	cf := p.TotalCashflows()
	res, err := valuation.SolveFlatRate(cf, in.TargetPrice, in.startPeriod(), cfg.SolveRateLow, cfg.SolveRateHigh, rootfind.WithLogger(a.log))
	if err != nil && !errors.Is(err, errs.ErrNotConverged) {
		return nil, err
	}

	return &solveOutput{
		TargetPrice: report.Money(in.TargetPrice),
		Rate:        res.Root,
		PriceAtRate: report.Money(in.TargetPrice + res.FuncValue),
		Iterations:  res.Iterations,
		Converged:   res.Converged,
	}, err
}
