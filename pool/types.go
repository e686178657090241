package pool

// Len returns the number of periods including origination.
func (p *Pool) Len() int {
	return len(p.rows)
}

// Row returns period i.
func (p *Pool) Row(i int) Row {
	return p.rows[i]
}

// Rows returns a copy of every period.
func (p *Pool) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

func (p *Pool) column(get func(Row) float64) []float64 {
	out := make([]float64, len(p.rows))
	for i, r := range p.rows {
		out[i] = get(r)
	}
	return out
}

// SMMs returns the single monthly mortality applied in each period.
func (p *Pool) SMMs() []float64 {
	return p.column(func(r Row) float64 { return r.SMM })
}

// CPRs returns the annualized prepayment rate per period.
func (p *Pool) CPRs() []float64 {
	return p.column(func(r Row) float64 { return r.CPR })
}

// PoolFactors returns the fraction of the original pool outstanding.
func (p *Pool) PoolFactors() []float64 {
	return p.column(func(r Row) float64 { return r.PoolFactor })
}

// PoolBalances returns the pool balance after each period.
func (p *Pool) PoolBalances() []float64 {
	return p.column(func(r Row) float64 { return r.PoolBalance })
}

// PoolPayments returns the scheduled payment scaled to the pool.
func (p *Pool) PoolPayments() []float64 {
	return p.column(func(r Row) float64 { return r.PoolPayment })
}

// PoolInterests returns the interest paid by the pool per period.
func (p *Pool) PoolInterests() []float64 {
	return p.column(func(r Row) float64 { return r.PoolInterest })
}

// PoolPrincipals returns the scheduled principal paid by the pool.
func (p *Pool) PoolPrincipals() []float64 {
	return p.column(func(r Row) float64 { return r.PoolPrincipal })
}

// PrepayDollars returns the principal prepaid per period.
func (p *Pool) PrepayDollars() []float64 {
	return p.column(func(r Row) float64 { return r.PrepayDollars })
}

// TotalPrincipals is scheduled plus prepaid principal per period, the input
// to weighted-average-life.
func (p *Pool) TotalPrincipals() []float64 {
	return p.column(func(r Row) float64 { return r.TotalPrincipal })
}

// TotalCashflows is interest plus all principal per period, the input to
// present value.
func (p *Pool) TotalCashflows() []float64 {
	return p.column(func(r Row) float64 { return r.TotalCashflow })
}
