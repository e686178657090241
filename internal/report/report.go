// Package report renders schedules and pools as rounded, dated tables for
// the command-line driver.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/mbs/amortization"
	"github.com/meenmo/mbs/calendar"
	"github.com/meenmo/mbs/pool"
	"github.com/meenmo/mbs/utils"
)

// moneyPlaces is the number of decimals kept for currency amounts.
const moneyPlaces = 2

// Money rounds a currency amount to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(moneyPlaces)
}

// Dating positions rows on the calendar. A zero FirstPayment leaves rows undated.
type Dating struct {
	FirstPayment time.Time
	Calendar     calendar.CalendarID
}

// date returns the business-day adjusted date of period i; period 0 is one
// month before the first payment.
func (d Dating) date(period int) string {
	if d.FirstPayment.IsZero() {
		return ""
	}
	cal := d.Calendar
	if cal == "" {
		cal = calendar.USD
	}
	return utils.FormatDate(calendar.AdjustFollowing(cal, utils.AddMonth(d.FirstPayment, period-1)))
}

type ScheduleRow struct {
	Period    int             `json:"period"`
	Date      string          `json:"date,omitempty"`
	Rate      float64         `json:"rate"`
	Balance   decimal.Decimal `json:"balance"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
}

// ScheduleTable converts an amortization schedule into report rows.
func ScheduleTable(s *amortization.Schedule, dating Dating) []ScheduleRow {
	out := make([]ScheduleRow, s.Len())
	for i, p := range s.Periods() {
		out[i] = ScheduleRow{
			Period:    i,
			Date:      dating.date(i),
			Rate:      p.Rate * 12,
			Balance:   Money(p.Balance),
			Payment:   Money(p.Payment),
			Interest:  Money(p.Interest),
			Principal: Money(p.Principal),
		}
	}
	return out
}

type PoolRow struct {
	Period         int             `json:"period"`
	Date           string          `json:"date,omitempty"`
	SMM            float64         `json:"smm"`
	CPR            float64         `json:"cpr"`
	PoolFactor     float64         `json:"pool_factor"`
	PoolBalance    decimal.Decimal `json:"pool_balance"`
	PoolPayment    decimal.Decimal `json:"pool_pmt"`
	PoolInterest   decimal.Decimal `json:"pool_interest"`
	PoolPrincipal  decimal.Decimal `json:"pool_principal"`
	PrepayDollars  decimal.Decimal `json:"prepay_dollars"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalCashflow  decimal.Decimal `json:"total_cashflow"`
}

// PoolTable converts pool rows into report rows.
func PoolTable(p *pool.Pool, dating Dating) []PoolRow {
	out := make([]PoolRow, p.Len())
	for i, r := range p.Rows() {
		out[i] = PoolRow{
			Period:         i,
			Date:           dating.date(i),
			SMM:            r.SMM,
			CPR:            r.CPR,
			PoolFactor:     r.PoolFactor,
			PoolBalance:    Money(r.PoolBalance),
			PoolPayment:    Money(r.PoolPayment),
			PoolInterest:   Money(r.PoolInterest),
			PoolPrincipal:  Money(r.PoolPrincipal),
			PrepayDollars:  Money(r.PrepayDollars),
			TotalPrincipal: Money(r.TotalPrincipal),
			TotalCashflow:  Money(r.TotalCashflow),
		}
	}
	return out
}

// Envelope wraps a command result with a run identifier.
type Envelope struct {
	RunID   string `json:"run_id"`
	TaskID  string `json:"task_id,omitempty"`
	Command string `json:"command"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewEnvelope stamps a fresh run ID on result.
func NewEnvelope(command, taskID string, result any) Envelope {
	return Envelope{
		RunID:   uuid.NewString(),
		TaskID:  taskID,
		Command: command,
		Result:  result,
	}
}

// Write encodes v as a single JSON document.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
