// Package pool turns a loan-level amortization schedule into the cash flows
// of a pass-through security backed by a pool of identical loans, with
// principal prepaid according to an SMM curve.
package pool

import (
	"fmt"

	"github.com/meenmo/mbs/amortization"
	"github.com/meenmo/mbs/errs"
	"github.com/meenmo/mbs/prepayment"
)

// DefaultInitialFactor is a pool with all of its original principal outstanding.
const DefaultInitialFactor = 1.0

// Row is one period of pool cash flow.
type Row struct {
	SMM        float64
	CPR        float64
	PoolFactor float64

	PoolBalance   float64
	PoolPayment   float64
	PoolInterest  float64
	PoolPrincipal float64

	// PrepayDollars is the unscheduled principal received in this period.
	PrepayDollars  float64
	TotalPrincipal float64
	TotalCashflow  float64
}

// Pool is the immutable pool-level cash flow table, one row per schedule row.
type Pool struct {
	InitialFactor float64

	rows []Row
}

// New pools schedule under the SMM curve smm, starting from initialFactor.
//
// smm must have length 1 (held flat) or schedule.Len(); smm[0] is ignored
// since nothing prepays at origination. Payment and interest in period i are
// scaled by the factor in force at the end of period i-1; the balance by the
// factor at the end of period i.
func New(schedule *amortization.Schedule, smm []float64, initialFactor float64) (*Pool, error) {
	if schedule == nil {
		return nil, fmt.Errorf("pool.New: schedule is required: %w", errs.ErrInvalidInput)
	}
	if !(initialFactor > 0 && initialFactor <= 1) {
		return nil, fmt.Errorf("pool.New: initial factor must be in (0, 1], got %g: %w", initialFactor, errs.ErrInvalidInput)
	}

	curve, err := broadcastSMM(smm, schedule.Len())
	if err != nil {
		return nil, fmt.Errorf("pool.New: %w", err)
	}

	rows := make([]Row, schedule.Len())
	first := schedule.Period(0)
	rows[0] = Row{
		PoolFactor:  initialFactor,
		PoolBalance: first.Balance * initialFactor,
	}

	for i := 1; i < len(rows); i++ {
		p := schedule.Period(i)
		prev := rows[i-1]

		r := Row{
			SMM:        curve[i],
			CPR:        prepayment.CPR(curve[i]),
			PoolFactor: prev.PoolFactor * (1.0 - curve[i]),
		}
		r.PoolBalance = p.Balance * r.PoolFactor
		r.PoolPayment = p.Payment * prev.PoolFactor
		r.PoolInterest = p.Interest * prev.PoolFactor
		r.PoolPrincipal = r.PoolPayment - r.PoolInterest

		// Balance left after this period's scheduled principal, had nobody
		// prepaid, times this period's mortality.
		r.PrepayDollars = (prev.PoolBalance - r.PoolPrincipal) * curve[i]

		r.TotalPrincipal = r.PoolPrincipal + r.PrepayDollars
		r.TotalCashflow = r.PoolInterest + r.TotalPrincipal
		rows[i] = r
	}

	return &Pool{InitialFactor: initialFactor, rows: rows}, nil
}

func broadcastSMM(smm []float64, n int) ([]float64, error) {
	if len(smm) != 1 && len(smm) != n {
		return nil, fmt.Errorf("smm must have length 1 or %d, got %d: %w", n, len(smm), errs.ErrInvalidInput)
	}

	out := make([]float64, n)
	for i := range out {
		v := smm[0]
		if len(smm) == n {
			v = smm[i]
		}
		if !(v >= 0 && v < 1) {
			return nil, fmt.Errorf("smm[%d]=%g outside [0, 1): %w", i, v, errs.ErrInvalidInput)
		}
		out[i] = v
	}
	out[0] = 0
	return out, nil
}
