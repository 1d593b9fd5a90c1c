package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

func sampleCalc() *domain.TaxCalculation {
	return &domain.TaxCalculation{
		Months: []domain.MonthlyBreakdown{
			{
				Year:                2024,
				Month:               time.June,
				TripCount:           4,
				WorkDays:            3,
				HotelNights:         3,
				DistanceDeduction:   decimal.RequireFromString("39.2"),
				CleaningCost:        decimal.RequireFromString("4.5"),
				TipDeduction:        decimal.RequireFromString("6"),
				AllowanceTotal:      decimal.RequireFromString("234"),
				Reimbursement:       decimal.RequireFromString("50"),
				AllowanceDeductible: decimal.RequireFromString("184"),
				Allowances: []domain.DailyAllowanceInfo{
					{
						Date:      time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
						Country:   "USA",
						Location:  "New York",
						Rate:      decimal.RequireFromString("66"),
						Class:     domain.RateFull,
						Qualifies: true,
					},
				},
			},
		},
		Countries: []domain.CountryAllowance{
			{Country: "USA", FullDays: 2, PartialDays: 2, Amount: decimal.RequireFromString("220")},
		},
		HomeBase:         "FRA",
		HomeBaseDetected: true,
		CommuteTotal:     decimal.RequireFromString("39.2"),
		AllowanceTotal:   decimal.RequireFromString("184"),
		CleaningTotal:    decimal.RequireFromString("4.5"),
		TipTotal:         decimal.RequireFromString("6"),
		GrandTotal:       decimal.RequireFromString("233.704"),
		Diagnostics: []domain.Diagnostic{
			{Severity: domain.SeverityWarning, Message: "something looked off"},
		},
		AsOf: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "98,00 EUR", FormatEuro(decimal.RequireFromString("98")), "German decimal comma")
	assert.Equal(t, "39,20 EUR", FormatEuro(decimal.RequireFromString("39.2")))
	assert.Equal(t, "233,70 EUR", FormatEuro(decimal.RequireFromString("233.704")), "rounds to two places")
	assert.Equal(t, "1.234,56 EUR", FormatEuro(decimal.RequireFromString("1234.56")), "thousands separator")
	assert.Equal(t, "0,00 EUR", FormatEuro(decimal.Zero))
}

func TestRoundedDoesNotMutateOriginal(t *testing.T) {
	calc := sampleCalc()
	rounded := Rounded(calc)

	assert.Equal(t, "233.7", rounded.GrandTotal.String())
	assert.Equal(t, "233.704", calc.GrandTotal.String(), "the original stays unrounded")
	require.Len(t, rounded.Months, 1)
	assert.Equal(t, "39.2", rounded.Months[0].DistanceDeduction.String())
}

func TestGenerateConsoleReport(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, sampleCalc(), "console")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "WERBUNGSKOSTEN FLIEGENDES PERSONAL")
	assert.Contains(t, out, "Heimatbasis: FRA")
	assert.Contains(t, out, "06/2024")
	assert.Contains(t, out, "Entfernungspauschale:      39,20 EUR")
	assert.Contains(t, out, "erstattet 50,00 EUR, abziehbar 184,00 EUR")
	assert.Contains(t, out, "LÄNDERÜBERSICHT")
	assert.Contains(t, out, "GESAMTBETRAG:              233,70 EUR")
	assert.Contains(t, out, "HINWEISE")
	assert.Contains(t, out, "something looked off")
}

func TestGenerateJSONReport(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, sampleCalc(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "233.7", decoded["grand_total"], "monetary values emit rounded")
	assert.Equal(t, "FRA", decoded["home_base"])
}

func TestGenerateCSVReport(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, sampleCalc(), "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header, one month, totals")

	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, []string{"2024", "6", "4", "3", "3", "39.20", "4.50", "6.00", "234.00", "50.00", "184.00", "233.70"}, records[1])
	assert.Equal(t, "total", records[2][0])
	assert.Equal(t, "233.70", records[2][len(records[2])-1])
}

func TestGenerateReportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, sampleCalc(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
