// Package calculation turns a chronological duty roster into the wage
// tax deduction categories for flight crew: per-diem meal allowances,
// commute distance deductions, clothing cleaning, and hotel tips.
//
// One engine call is a pure, synchronous function of its input: every
// internal structure (abroad periods, the per-day allowance calendar)
// is rebuilt from scratch, so identical inputs always yield identical
// output.
package calculation

import (
	"fmt"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/rates"
)

// Engine orchestrates the deduction calculation.
type Engine struct {
	Rates  *rates.Resolver
	Logger Logger
}

// NewEngine creates an engine over the given rate tables.
func NewEngine(resolver *rates.Resolver) *Engine {
	return &Engine{Rates: resolver, Logger: NopLogger{}}
}

// SetLogger installs a logger; nil restores the no-op default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate runs the full pipeline: normalize, segment, assign daily
// allowances, count commute trips, aggregate. Degraded records surface
// as diagnostics on the result, never as errors; the only hard failure
// is structurally unusable input.
func (e *Engine) Calculate(input *domain.CalculationInput) (*domain.TaxCalculation, error) {
	if input == nil {
		return nil, fmt.Errorf("calculation input is required")
	}
	if input.Settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if e.Rates == nil {
		return nil, fmt.Errorf("rate resolver is required")
	}

	diag := newDiagnostics(e.Logger)

	flights := NormalizeFlights(input.Flights, diag)
	e.resolveCountries(flights, diag)

	homeBase, detected := ResolveHomeBase(input.Settings, flights)
	if !detected {
		diag.infof(input.CurrentDate, "home base could not be resolved; same-day round-trip counting is disabled")
	}
	e.Logger.Debugf("normalized %d flights, home base %q", len(flights), homeBase)

	periods := SegmentTours(flights, input.DutyDays, diag)
	e.Logger.Debugf("segmented %d abroad periods", len(periods))

	assigner := newAllowanceAssigner(e.Rates, input.Settings, diag)
	calendar := assigner.assign(periods, flights, input.DutyDays)

	trips := CountTrips(flights, input.DutyDays, input.Settings, homeBase)
	workDays := workDaysByMonth(flights, input.DutyDays)
	nights := hotelNightsByMonth(periods)

	months := aggregateMonths(calendar, trips, workDays, nights, input.Settings, input.Reimbursements, e.Rates)

	result := &domain.TaxCalculation{
		Months:           months,
		Countries:        countryBreakdown(calendar),
		HomeBase:         homeBase,
		HomeBaseDetected: detected,
		Diagnostics:      diag.items,
		AsOf:             input.CurrentDate,
	}
	for _, m := range months {
		result.CommuteTotal = result.CommuteTotal.Add(m.DistanceDeduction)
		result.AllowanceTotal = result.AllowanceTotal.Add(m.AllowanceDeductible)
		result.CleaningTotal = result.CleaningTotal.Add(m.CleaningCost)
		result.TipTotal = result.TipTotal.Add(m.TipDeduction)
	}
	result.GrandTotal = result.CommuteTotal.
		Add(result.AllowanceTotal).
		Add(result.CleaningTotal).
		Add(result.TipTotal)

	return result, nil
}

// resolveCountries fills in missing departure/arrival countries from
// the airport table. Unknown stations stay empty and are reported once.
func (e *Engine) resolveCountries(flights []domain.Flight, diag *diagnostics) {
	warned := make(map[string]bool)
	warn := func(f domain.Flight, station string) {
		if station != "" && !warned[station] {
			warned[station] = true
			diag.warnf(f.Date, "unknown airport code %q; country-level rates cannot be resolved for it", station)
		}
	}
	for i := range flights {
		f := &flights[i]
		if f.DepartureCountry == "" {
			if c := e.Rates.CountryOf(f.DepartureStation); c != "" {
				f.DepartureCountry = c
			} else {
				warn(*f, f.DepartureStation)
			}
		}
		if f.ArrivalCountry == "" {
			if c := e.Rates.CountryOf(f.ArrivalStation); c != "" {
				f.ArrivalCountry = c
			} else {
				warn(*f, f.ArrivalStation)
			}
		}
	}
}
