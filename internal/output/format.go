package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

// germanPrinter renders amounts in German number format (1.234,56).
var germanPrinter = message.NewPrinter(language.German)

// FormatEuro renders a monetary value rounded to two decimal places.
// This is the single point where rounding happens; internal
// accumulation stays unrounded.
func FormatEuro(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return germanPrinter.Sprintf("%.2f EUR", f)
}

// Rounded returns a deep copy of the calculation with every monetary
// value rounded to two decimal places, for machine-readable emission.
func Rounded(calc *domain.TaxCalculation) *domain.TaxCalculation {
	out := *calc
	out.CommuteTotal = calc.CommuteTotal.Round(2)
	out.AllowanceTotal = calc.AllowanceTotal.Round(2)
	out.CleaningTotal = calc.CleaningTotal.Round(2)
	out.TipTotal = calc.TipTotal.Round(2)
	out.GrandTotal = calc.GrandTotal.Round(2)

	out.Months = make([]domain.MonthlyBreakdown, len(calc.Months))
	for i, m := range calc.Months {
		rm := m
		rm.DistanceDeduction = m.DistanceDeduction.Round(2)
		rm.CleaningCost = m.CleaningCost.Round(2)
		rm.TipDeduction = m.TipDeduction.Round(2)
		rm.AllowanceTotal = m.AllowanceTotal.Round(2)
		rm.Reimbursement = m.Reimbursement.Round(2)
		rm.AllowanceDeductible = m.AllowanceDeductible.Round(2)
		rm.Allowances = make([]domain.DailyAllowanceInfo, len(m.Allowances))
		for j, a := range m.Allowances {
			ra := a
			ra.Rate = a.Rate.Round(2)
			rm.Allowances[j] = ra
		}
		out.Months[i] = rm
	}

	out.Countries = make([]domain.CountryAllowance, len(calc.Countries))
	for i, c := range calc.Countries {
		rc := c
		rc.Amount = c.Amount.Round(2)
		out.Countries[i] = rc
	}
	return &out
}
