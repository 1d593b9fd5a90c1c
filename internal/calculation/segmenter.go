package calculation

import (
	"sort"
	"time"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// tourState is the explicit segmentation state. Keeping it as a named
// enum with a single transition function keeps the edge cases auditable
// in isolation.
type tourState int

const (
	stateIdle tourState = iota
	stateInTour
)

// ResolveHomeBase picks the airport commute trips are anchored to:
// explicit settings override, else the most frequent departure station
// across the dataset (ties broken alphabetically for determinism), else
// unknown, which disables same-day round-trip counting.
func ResolveHomeBase(settings *domain.Settings, flights []domain.Flight) (string, bool) {
	if settings != nil && settings.HomeBaseOverride != "" {
		return settings.HomeBaseOverride, true
	}
	counts := make(map[string]int)
	for _, f := range flights {
		if f.DepartureStation != "" {
			counts[f.DepartureStation]++
		}
	}
	best := ""
	for station, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && station < best) {
			best = station
		}
	}
	return best, best != ""
}

// SegmentTours walks the chronologically sorted flights and groups them
// into abroad periods using the tour-start/tour-end duty markers.
func SegmentTours(flights []domain.Flight, dutyDays []domain.DutyDay, diag *diagnostics) []domain.AbroadPeriod {
	var periods []domain.AbroadPeriod
	var current *domain.AbroadPeriod
	state := stateIdle

	for _, f := range flights {
		switch {
		case f.DutyCode == domain.DutyCodeTourStart:
			if state == stateInTour {
				// A second outbound marker without a return in between.
				// Extend the open tour rather than dropping data.
				diag.warnf(f.Date, "tour-start marker on %s while a tour is already open; treating flight %s as a tour extension",
					dateutil.FormatDay(f.Date), f.Number)
				extendTour(current, f)
				continue
			}
			p := domain.AbroadPeriod{
				Start:             dateutil.DayOf(f.Date),
				End:               f.ArrivalDate(),
				Flights:           []domain.Flight{f},
				Country:           f.ArrivalCountry,
				Location:          f.ArrivalStation,
				OvernightOutbound: f.Overnight(),
			}
			current = &p
			state = stateInTour

		case f.DutyCode == domain.DutyCodeTourEnd:
			if state == stateIdle {
				periods = append(periods, inferIncompletePeriod(f, dutyDays, diag))
				continue
			}
			current.Flights = append(current.Flights, f)
			current.End = f.ArrivalDate()
			current.Country = f.ArrivalCountry
			current.Location = f.ArrivalStation
			current.ReturnCountry = f.DepartureCountry
			current.ReturnLocation = f.DepartureStation
			current.OvernightReturn = f.Overnight()
			periods = append(periods, *current)
			current = nil
			state = stateIdle

		default:
			if state == stateInTour {
				extendTour(current, f)
			}
			// Flights outside a tour without markers are handled by the
			// same-day round-trip detection and the free-standing
			// departure-day allowance rule, not by period tracking.
		}
	}

	if state == stateInTour && current != nil {
		// Roster ends mid-tour. Close at the last known arrival so the
		// observed days still earn their allowances.
		last := current.Flights[len(current.Flights)-1]
		current.ReturnCountry = last.DepartureCountry
		current.ReturnLocation = last.DepartureStation
		current.OvernightReturn = last.Overnight()
		diag.warnf(current.Start, "tour starting %s has no tour-end marker; closing it at the last observed arrival on %s",
			dateutil.FormatDay(current.Start), dateutil.FormatDay(current.End))
		periods = append(periods, *current)
	}

	return periods
}

func extendTour(p *domain.AbroadPeriod, f domain.Flight) {
	p.Flights = append(p.Flights, f)
	if f.ArrivalDate().After(p.End) {
		p.End = f.ArrivalDate()
	}
	p.Country = f.ArrivalCountry
	p.Location = f.ArrivalStation
}

// inferIncompletePeriod handles a tour-end marker with no matching
// tour-start. The period start is inferred as the earliest standalone
// layover day of the contiguous run immediately preceding the return
// flight; absent such days it is one calendar day before the return.
// This is a deliberate under-approximation, flagged but not fatal.
func inferIncompletePeriod(returnFlight domain.Flight, dutyDays []domain.DutyDay, diag *diagnostics) domain.AbroadPeriod {
	start := dateutil.PrevDay(returnFlight.Date)
	country := returnFlight.DepartureCountry

	layovers := layoverRunBefore(returnFlight.Date, dutyDays)
	if len(layovers) > 0 {
		start = dateutil.DayOf(layovers[0].Date)
		if layovers[0].Country != "" {
			country = layovers[0].Country
		}
	}

	diag.warnf(returnFlight.Date, "tour-end marker on %s has no matching tour-start; inferring period start %s",
		dateutil.FormatDay(returnFlight.Date), dateutil.FormatDay(start))

	return domain.AbroadPeriod{
		Start:           start,
		End:             returnFlight.ArrivalDate(),
		Flights:         []domain.Flight{returnFlight},
		Country:         country,
		Location:        returnFlight.DepartureStation,
		ReturnCountry:   returnFlight.DepartureCountry,
		ReturnLocation:  returnFlight.DepartureStation,
		Incomplete:      true,
		OvernightReturn: returnFlight.Overnight(),
	}
}

// layoverRunBefore returns the contiguous run of layover duty days that
// ends on the day before the given date, earliest first.
func layoverRunBefore(date time.Time, dutyDays []domain.DutyDay) []domain.DutyDay {
	layovers := make([]domain.DutyDay, 0)
	for _, d := range dutyDays {
		if d.Category == domain.DutyLayover && d.Date.Before(dateutil.DayOf(date)) {
			layovers = append(layovers, d)
		}
	}
	sort.Slice(layovers, func(i, j int) bool { return layovers[i].Date.Before(layovers[j].Date) })

	var run []domain.DutyDay
	expect := dateutil.PrevDay(date)
	for i := len(layovers) - 1; i >= 0; i-- {
		if !dateutil.SameDay(layovers[i].Date, expect) {
			break
		}
		run = append([]domain.DutyDay{layovers[i]}, run...)
		expect = dateutil.PrevDay(expect)
	}
	return run
}

// SameDayRoundTrips returns the calendar days on which the flights form
// a round trip from and back to the home base, for days carrying no
// tour markers. A single leg counts when departure and arrival both
// equal the home base (the degenerate round trip); multiple legs count
// when the earliest departure and the latest arrival touch it. Days
// with markers are excluded so marker trips are never double-counted.
func SameDayRoundTrips(flights []domain.Flight, homeBase string) []time.Time {
	if homeBase == "" {
		return nil
	}
	byDay, keys := flightsByDay(flights)
	var days []time.Time
	for _, k := range keys {
		legs := byDay[k]
		if hasTourMarker(legs) {
			continue
		}
		if isRoundTrip(legs, homeBase) {
			days = append(days, dateutil.DayOf(legs[0].Date))
		}
	}
	return days
}

func hasTourMarker(legs []domain.Flight) bool {
	for _, f := range legs {
		if f.DutyCode == domain.DutyCodeTourStart || f.DutyCode == domain.DutyCodeTourEnd {
			return true
		}
	}
	return false
}

func isRoundTrip(legs []domain.Flight, homeBase string) bool {
	if len(legs) == 0 {
		return false
	}
	if len(legs) == 1 {
		f := legs[0]
		return f.DepartureStation == homeBase && f.ArrivalStation == homeBase && !f.Overnight()
	}
	first := legs[0]
	last := legs[len(legs)-1]
	return first.DepartureStation == homeBase && last.ArrivalStation == homeBase && !last.Overnight()
}
