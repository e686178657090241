package pool_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/mbs/amortization"
	"github.com/meenmo/mbs/errs"
	"github.com/meenmo/mbs/pool"
	"github.com/meenmo/mbs/prepayment"
)

func fixed30(t *testing.T) *amortization.Schedule {
	t.Helper()

	s, err := amortization.NewFixed(amortization.Terms{LoanAmount: 100000, AnnualRate: 0.04, TermMonths: 360})
	require.NoError(t, err)
	return s
}

func TestNew_ZeroSMMReproducesSchedule(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	p, err := pool.New(s, []float64{0}, pool.DefaultInitialFactor)
	require.NoError(t, err)
	require.Equal(t, s.Len(), p.Len())

	for i := 0; i < p.Len(); i++ {
		row, loan := p.Row(i), s.Period(i)
		assert.Equal(t, loan.Balance, row.PoolBalance, "period %d", i)
		assert.Equal(t, loan.Payment, row.PoolPayment, "period %d", i)
		assert.Equal(t, loan.Interest, row.PoolInterest, "period %d", i)
		assert.Equal(t, 0.0, row.PrepayDollars, "period %d", i)
		assert.InDelta(t, loan.Payment, row.TotalCashflow, 1e-9, "period %d", i)
		assert.Equal(t, 1.0, row.PoolFactor)
	}
}

func TestNew_InitialFactorScalesEverything(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	p, err := pool.New(s, []float64{0}, 0.25)
	require.NoError(t, err)

	assert.Equal(t, 0.25, p.InitialFactor)
	for i := 0; i < p.Len(); i++ {
		assert.InDelta(t, 0.25*s.Period(i).Balance, p.Row(i).PoolBalance, 1e-9)
		assert.InDelta(t, 0.25*s.Period(i).Payment, p.Row(i).TotalCashflow, 1e-9)
	}
}

func TestNew_PoolFactorNonIncreasing(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	smm := make([]float64, s.Len())
	for i := range smm {
		smm[i] = 0.002 + 0.0001*float64(i%24)
	}

	const initial = 0.8
	p, err := pool.New(s, smm, initial)
	require.NoError(t, err)

	factors := p.PoolFactors()
	assert.Equal(t, initial, factors[0])
	for i := 1; i < len(factors); i++ {
		assert.LessOrEqual(t, factors[i], factors[i-1])
		assert.Greater(t, factors[i], 0.0)
		assert.InDelta(t, factors[i-1]*(1-smm[i]), factors[i], 1e-15)
	}
}

func TestNew_PeriodZeroNeverPrepays(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	smm := make([]float64, s.Len())
	for i := range smm {
		smm[i] = 0.01
	}

	p, err := pool.New(s, smm, 1)
	require.NoError(t, err)

	first := p.Row(0)
	assert.Equal(t, 0.0, first.SMM)
	assert.Equal(t, 0.0, first.CPR)
	assert.Equal(t, 1.0, first.PoolFactor)
	assert.Equal(t, 100000.0, first.PoolBalance)
	assert.Equal(t, 0.0, first.PrepayDollars)
	assert.Equal(t, 0.0, first.TotalCashflow)

	// The input slice is left untouched.
	assert.Equal(t, 0.01, smm[0])
}

func TestNew_PrepaymentAlignment(t *testing.T) {
	t.Parallel()

	s, err := amortization.NewFixed(amortization.Terms{LoanAmount: 1000, AnnualRate: 0.12, TermMonths: 3})
	require.NoError(t, err)

	smm := []float64{0.5, 0.1, 0.2, 0.3}
	p, err := pool.New(s, smm, 1)
	require.NoError(t, err)

	b := s.Balances()
	prin := s.Principals()

	// Period 1: factor in force is 1, prepay hits the post-scheduled balance.
	assert.InDelta(t, 0.1*b[1], p.Row(1).PrepayDollars, 1e-9)
	assert.InDelta(t, prin[1], p.Row(1).PoolPrincipal, 1e-9)
	assert.InDelta(t, 0.9*b[1], p.Row(1).PoolBalance, 1e-9)

	// Period 2: cash scales by the period-1 factor.
	assert.InDelta(t, 0.9*prin[2], p.Row(2).PoolPrincipal, 1e-9)
	assert.InDelta(t, 0.9*b[2]*0.2, p.Row(2).PrepayDollars, 1e-9)
	assert.InDelta(t, 0.72, p.Row(2).PoolFactor, 1e-15)

	// Every row satisfies balance[i-1] - scheduled - prepaid == balance[i].
	for i := 1; i < p.Len(); i++ {
		prev, cur := p.Row(i-1), p.Row(i)
		assert.InDelta(t, prev.PoolBalance-cur.TotalPrincipal, cur.PoolBalance, 1e-9, "period %d", i)
	}
}

func TestNew_AllPrincipalReturned(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	smm, err := prepayment.SMMCurve(0.04, []float64{0.03})
	require.NoError(t, err)

	p, err := pool.New(s, smm, 0.9)
	require.NoError(t, err)

	assert.InDelta(t, 0.9*100000, floats.Sum(p.TotalPrincipals()), 1e-6)
	assert.InDelta(t, 0.0, p.Row(p.Len()-1).PoolBalance, 1e-6)

	total := floats.Sum(p.TotalCashflows())
	interest := floats.Sum(p.PoolInterests())
	assert.InDelta(t, total, interest+floats.Sum(p.TotalPrincipals()), 1e-6)

	// Prepayment shortens the life, so less interest than the unpooled loan.
	assert.Less(t, interest, 0.9*floats.Sum(s.Interests()))
}

func TestNew_CPRColumn(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	p, err := pool.New(s, []float64{0.005}, 1)
	require.NoError(t, err)

	cprs := p.CPRs()
	assert.Equal(t, 0.0, cprs[0])
	assert.InDelta(t, prepayment.CPR(0.005), cprs[1], 1e-15)
	assert.Len(t, p.SMMs(), 361)
}

func TestNew_InvalidInput(t *testing.T) {
	t.Parallel()

	s := fixed30(t)
	cases := []struct {
		name   string
		sched  *amortization.Schedule
		smm    []float64
		factor float64
	}{
		{"nil schedule", nil, []float64{0}, 1},
		{"empty smm", s, nil, 1},
		{"wrong length smm", s, make([]float64, 360), 1},
		{"negative smm", s, []float64{-0.01}, 1},
		{"smm of one", s, []float64{1}, 1},
		{"zero factor", s, []float64{0}, 0},
		{"factor above one", s, []float64{0}, 1.5},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := pool.New(tc.sched, tc.smm, tc.factor)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, errs.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestPool_RowsAreCopies(t *testing.T) {
	t.Parallel()

	p, err := pool.New(fixed30(t), []float64{0.01}, 1)
	require.NoError(t, err)

	rows := p.Rows()
	rows[1].TotalCashflow = -1
	assert.NotEqual(t, -1.0, p.Row(1).TotalCashflow)
	assert.Len(t, p.PoolPayments(), 361)
	assert.Len(t, p.PoolPrincipals(), 361)
	assert.Len(t, p.PoolBalances(), 361)
	assert.Len(t, p.PrepayDollars(), 361)
}
