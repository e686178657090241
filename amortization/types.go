package amortization

// Kind tags the rate behaviour a schedule was built with.
type Kind string

const (
	// Fixed loans accrue at a single rate for the whole term.
	Fixed Kind = "FIXED"
	// Adjustable loans accrue at a teaser rate and then follow a reset path.
	Adjustable Kind = "ADJUSTABLE"
)

// Terms describes a level-payment loan.
//
// Rates are annual decimals (0.04 == 4%) compounded monthly.
type Terms struct {
	LoanAmount float64
	AnnualRate float64
	TermMonths int
	// Balloon is the balance contractually outstanding after the final payment.
	Balloon float64
	// PointsPct is discount points paid up front, in percent of LoanAmount.
	PointsPct float64
}

// AdjustableTerms describes an adjustable-rate loan. Terms.AnnualRate is the
// teaser rate applied for the first TeaserMonths payments.
type AdjustableTerms struct {
	Terms
	TeaserMonths int
	// ResetRates are the annual rates applied after the teaser period. A
	// single value is held for the rest of the term; otherwise one value per
	// remaining month (TermMonths - TeaserMonths) is required.
	ResetRates []float64
}

// Period is one row of an amortization schedule. Row 0 is origination.
type Period struct {
	Balance   float64
	Payment   float64
	Interest  float64
	Principal float64
	// Rate is the monthly rate accrued in this period (0 at origination).
	Rate float64
}

// Schedule is an immutable amortization table of TermMonths+1 rows.
type Schedule struct {
	Kind       Kind
	TermMonths int
	LoanAmount float64
	Balloon    float64
	// Upfront is the cash value of discount points paid at origination.
	Upfront float64

	periods []Period
}

// Len returns the number of rows, TermMonths+1.
func (s *Schedule) Len() int {
	return len(s.periods)
}

// Period returns row i.
func (s *Schedule) Period(i int) Period {
	return s.periods[i]
}

// Periods returns a copy of all rows.
func (s *Schedule) Periods() []Period {
	out := make([]Period, len(s.periods))
	copy(out, s.periods)
	return out
}

func (s *Schedule) column(get func(Period) float64) []float64 {
	out := make([]float64, len(s.periods))
	for i, p := range s.periods {
		out[i] = get(p)
	}
	return out
}

// Balances returns the outstanding balance after each period.
func (s *Schedule) Balances() []float64 {
	return s.column(func(p Period) float64 { return p.Balance })
}

// Payments returns the scheduled payment per period.
func (s *Schedule) Payments() []float64 {
	return s.column(func(p Period) float64 { return p.Payment })
}

// Interests returns the interest portion of each payment.
func (s *Schedule) Interests() []float64 {
	return s.column(func(p Period) float64 { return p.Interest })
}

// Principals returns the scheduled principal portion of each payment.
func (s *Schedule) Principals() []float64 {
	return s.column(func(p Period) float64 { return p.Principal })
}

// Rates returns the monthly rate applied in each period.
func (s *Schedule) Rates() []float64 {
	return s.column(func(p Period) float64 { return p.Rate })
}

// FinalBalance is the balance after the last scheduled payment.
func (s *Schedule) FinalBalance() float64 {
	return s.periods[len(s.periods)-1].Balance
}
