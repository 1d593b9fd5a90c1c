package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationInput bundles everything one engine invocation consumes.
// The engine treats all of it as read-only.
type CalculationInput struct {
	Flights        []Flight
	DutyDays       []DutyDay
	Settings       *Settings
	Reimbursements []Reimbursement

	// CurrentDate is the explicitly passed "as of" date, used for
	// display only. The engine must not read the wall clock.
	CurrentDate time.Time
}

// MonthlyBreakdown aggregates one calendar month. Derived data,
// recomputed on every input change, never partially mutated.
type MonthlyBreakdown struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	TripCount   int `json:"trip_count"`
	WorkDays    int `json:"work_days"`
	HotelNights int `json:"hotel_nights"`

	DistanceDeduction decimal.Decimal `json:"distance_deduction"`
	CleaningCost      decimal.Decimal `json:"cleaning_cost"`
	TipDeduction      decimal.Decimal `json:"tip_deduction"`

	// AllowanceTotal is the computed meal allowance before employer
	// reimbursement; AllowanceDeductible is clamped at zero.
	AllowanceTotal      decimal.Decimal `json:"allowance_total"`
	Reimbursement       decimal.Decimal `json:"reimbursement"`
	AllowanceDeductible decimal.Decimal `json:"allowance_deductible"`

	Allowances []DailyAllowanceInfo `json:"allowances"`
}

// Key returns the month key of the breakdown.
func (m *MonthlyBreakdown) Key() MonthKey {
	return MonthKey{Year: m.Year, Month: m.Month}
}

// Total is the month's deductible sum across all four categories.
func (m *MonthlyBreakdown) Total() decimal.Decimal {
	return m.DistanceDeduction.Add(m.CleaningCost).Add(m.TipDeduction).Add(m.AllowanceDeductible)
}

// CountryAllowance is the per-country slice of the allowance breakdown.
type CountryAllowance struct {
	Country     string          `json:"country"`
	FullDays    int             `json:"full_days"`
	PartialDays int             `json:"partial_days"`
	Amount      decimal.Decimal `json:"amount"`
}

// TaxCalculation is the final aggregated result handed to the
// presentation/export collaborator. Monetary values are kept unrounded
// here; rounding to two decimals happens at emission.
type TaxCalculation struct {
	Months    []MonthlyBreakdown `json:"months"`
	Countries []CountryAllowance `json:"countries"`

	HomeBase         string `json:"home_base,omitempty"`
	HomeBaseDetected bool   `json:"home_base_detected"`

	CommuteTotal   decimal.Decimal `json:"commute_total"`
	AllowanceTotal decimal.Decimal `json:"allowance_total"`
	CleaningTotal  decimal.Decimal `json:"cleaning_total"`
	TipTotal       decimal.Decimal `json:"tip_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// AsOf mirrors CalculationInput.CurrentDate, display only.
	AsOf time.Time `json:"as_of"`
}
