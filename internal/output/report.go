// Package output renders a finished tax calculation for the
// presentation/export collaborator: a styled console report, JSON, and
// CSV. All monetary rounding to two decimals happens here.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// ReportGenerator handles report generation in the supported formats.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport writes the calculation in the requested format.
func GenerateReport(w io.Writer, calc *domain.TaxCalculation, format string) error {
	generator := NewReportGenerator()
	switch format {
	case "console":
		return generator.GenerateConsoleReport(w, calc)
	case "json":
		return generator.GenerateJSONReport(w, calc)
	case "csv":
		return generator.GenerateCSVReport(w, calc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateConsoleReport writes the human-readable report.
func (rg *ReportGenerator) GenerateConsoleReport(w io.Writer, calc *domain.TaxCalculation) error {
	fmt.Fprintln(w, titleStyle.Render("WERBUNGSKOSTEN FLIEGENDES PERSONAL"))
	if !calc.AsOf.IsZero() {
		fmt.Fprintf(w, "Stand: %s\n", dateutil.FormatDay(calc.AsOf))
	}
	if calc.HomeBase != "" {
		fmt.Fprintf(w, "Heimatbasis: %s\n", calc.HomeBase)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("MONATSÜBERSICHT"))
	for _, m := range calc.Months {
		fmt.Fprintf(w, "%02d/%d\n", m.Month, m.Year)
		fmt.Fprintf(w, "  Fahrten:                   %d\n", m.TripCount)
		fmt.Fprintf(w, "  Entfernungspauschale:      %s\n", FormatEuro(m.DistanceDeduction))
		fmt.Fprintf(w, "  Verpflegungsmehraufwand:   %s", FormatEuro(m.AllowanceTotal))
		if m.Reimbursement.IsPositive() {
			fmt.Fprintf(w, " (erstattet %s, abziehbar %s)",
				FormatEuro(m.Reimbursement), FormatEuro(m.AllowanceDeductible))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Reinigungskosten:          %s (%d Arbeitstage)\n", FormatEuro(m.CleaningCost), m.WorkDays)
		fmt.Fprintf(w, "  Trinkgelder:               %s (%d Hotelnächte)\n", FormatEuro(m.TipDeduction), m.HotelNights)
		fmt.Fprintln(w)
	}

	if len(calc.Countries) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("LÄNDERÜBERSICHT"))
		for _, c := range calc.Countries {
			fmt.Fprintf(w, "  %-30s %2d volle Tage, %2d An-/Abreisetage: %s\n",
				c.Country, c.FullDays, c.PartialDays, FormatEuro(c.Amount))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, sectionStyle.Render("SUMMEN"))
	fmt.Fprintf(w, "  Entfernungspauschale:      %s\n", FormatEuro(calc.CommuteTotal))
	fmt.Fprintf(w, "  Verpflegungsmehraufwand:   %s\n", FormatEuro(calc.AllowanceTotal))
	fmt.Fprintf(w, "  Reinigungskosten:          %s\n", FormatEuro(calc.CleaningTotal))
	fmt.Fprintf(w, "  Trinkgelder:               %s\n", FormatEuro(calc.TipTotal))
	fmt.Fprintf(w, "  GESAMTBETRAG:              %s\n", FormatEuro(calc.GrandTotal))

	if len(calc.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("HINWEISE"))
		for _, d := range calc.Diagnostics {
			fmt.Fprintf(w, "  %s\n", warnStyle.Render(fmt.Sprintf("[%s] %s", d.Severity, d.Message)))
		}
	}
	return nil
}

// GenerateJSONReport writes the rounded calculation as indented JSON.
func (rg *ReportGenerator) GenerateJSONReport(w io.Writer, calc *domain.TaxCalculation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rounded(calc))
}

// GenerateCSVReport writes one row per month plus a totals row.
func (rg *ReportGenerator) GenerateCSVReport(w io.Writer, calc *domain.TaxCalculation) error {
	rounded := Rounded(calc)
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"year", "month", "trips", "work_days", "hotel_nights",
		"distance_deduction", "cleaning_cost", "tip_deduction",
		"allowance_total", "reimbursement", "allowance_deductible", "month_total"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range rounded.Months {
		row := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(int(m.Month)),
			strconv.Itoa(m.TripCount),
			strconv.Itoa(m.WorkDays),
			strconv.Itoa(m.HotelNights),
			m.DistanceDeduction.StringFixed(2),
			m.CleaningCost.StringFixed(2),
			m.TipDeduction.StringFixed(2),
			m.AllowanceTotal.StringFixed(2),
			m.Reimbursement.StringFixed(2),
			m.AllowanceDeductible.StringFixed(2),
			m.Total().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	totals := []string{"total", "", "", "", "",
		rounded.CommuteTotal.StringFixed(2),
		rounded.CleaningTotal.StringFixed(2),
		rounded.TipTotal.StringFixed(2),
		rounded.AllowanceTotal.StringFixed(2), "", "",
		rounded.GrandTotal.StringFixed(2)}
	return cw.Write(totals)
}
