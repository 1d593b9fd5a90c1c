package calculation

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/rates"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// Briefing and absence constants. The briefing minutes depend on crew
// role and haul type; a simulator session always uses the fixed profile
// below, split evenly between pre- and post-briefing.
const (
	briefingPilotIntercontinental = 100
	briefingPilotRegional         = 60
	briefingCabinIntercontinental = 90
	briefingCabinRegional         = 75
	postArrivalBriefingMinutes    = 30

	simulatorNumberPrefix  = "SIM"
	simulatorBlockMinutes  = 240
	simulatorBriefingTotal = 120

	// minAbsenceMinutes is the 8h threshold a same-day absence must
	// reach to qualify for the partial-day allowance.
	minAbsenceMinutes = 8 * 60
)

// longHaulFleets are the aircraft types that put a pilot on the
// intercontinental briefing profile.
var longHaulFleets = map[string]bool{
	"A330": true, "A340": true, "A350": true, "A380": true,
	"B747": true, "B767": true, "B777": true, "B787": true,
}

// AllowanceCalendar is the ordered per-day output map of the allowance
// engine. Writes are insert-if-absent only: the first record assigned
// to a date wins and is never overwritten.
type AllowanceCalendar struct {
	days map[string]domain.DailyAllowanceInfo
}

// NewAllowanceCalendar returns an empty calendar.
func NewAllowanceCalendar() *AllowanceCalendar {
	return &AllowanceCalendar{days: make(map[string]domain.DailyAllowanceInfo)}
}

// SetIfAbsent records the allowance for its date unless the date is
// already assigned. Returns false when the write was rejected.
func (c *AllowanceCalendar) SetIfAbsent(info domain.DailyAllowanceInfo) bool {
	k := dateutil.DayKey(info.Date)
	if _, taken := c.days[k]; taken {
		return false
	}
	c.days[k] = info
	return true
}

// Get returns the allowance assigned to a calendar day.
func (c *AllowanceCalendar) Get(d time.Time) (domain.DailyAllowanceInfo, bool) {
	info, ok := c.days[dateutil.DayKey(d)]
	return info, ok
}

// Len returns the number of assigned days.
func (c *AllowanceCalendar) Len() int {
	return len(c.days)
}

// Days returns all assigned days in chronological order.
func (c *AllowanceCalendar) Days() []domain.DailyAllowanceInfo {
	keys := make([]string, 0, len(c.days))
	for k := range c.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.DailyAllowanceInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.days[k])
	}
	return out
}

// allowanceAssigner holds the per-invocation state of the daily
// allowance engine. Everything here is rebuilt on each engine call.
type allowanceAssigner struct {
	rates           *rates.Resolver
	settings        *domain.Settings
	diag            *diagnostics
	calendar        *AllowanceCalendar
	warnedCountries map[string]bool
}

func newAllowanceAssigner(r *rates.Resolver, settings *domain.Settings, diag *diagnostics) *allowanceAssigner {
	return &allowanceAssigner{
		rates:           r,
		settings:        settings,
		diag:            diag,
		calendar:        NewAllowanceCalendar(),
		warnedCountries: make(map[string]bool),
	}
}

// assign runs the full allowance pass: abroad periods first, then
// free-standing flight days, then free-standing duty days. Later
// passes never overwrite earlier assignments.
func (a *allowanceAssigner) assign(periods []domain.AbroadPeriod, flights []domain.Flight, dutyDays []domain.DutyDay) *AllowanceCalendar {
	inPeriod := make(map[uuid.UUID]bool)
	for _, p := range periods {
		for _, f := range p.Flights {
			inPeriod[f.ID] = true
		}
	}

	for i := range periods {
		a.assignPeriod(&periods[i])
	}
	a.assignFreeFlightDays(flights, inPeriod)
	a.assignDutyDays(dutyDays)

	return a.calendar
}

// assignPeriod applies the day classification rules of one abroad
// period in priority order, first match wins per day.
func (a *allowanceAssigner) assignPeriod(p *domain.AbroadPeriod) {
	returnFlight := p.Flights[len(p.Flights)-1]
	retDepDay := dateutil.DayOf(returnFlight.Date)
	retArrDay := returnFlight.ArrivalDate()
	multiDay := p.End.After(p.Start)

	for d := p.Start; !d.After(p.End); d = dateutil.NextDay(d) {
		var info domain.DailyAllowanceInfo

		switch {
		case dateutil.SameDay(d, p.Start) && !p.Incomplete:
			// Departure day from home territory. Multi-day tours earn
			// the partial rate unconditionally (the traveler is away
			// overnight); a same-day tour must clear the 8h absence
			// threshold.
			country, station := p.ReturnCountry, p.ReturnLocation
			if multiDay {
				country, station = destinationOnDay(p.Flights, d, p.Country, p.Location)
				info = a.rated(d, country, station, domain.RatePartial)
			} else if a.absenceMinutes(p.Flights) >= minAbsenceMinutes {
				info = a.rated(d, country, station, domain.RatePartial)
			} else {
				info = unqualified(d, country, station)
			}

		case dateutil.SameDay(d, retArrDay) && p.OvernightReturn && !dateutil.SameDay(d, retDepDay):
			// Arrival at home territory after an overnight return: the
			// partial rate of the country departed from.
			info = a.rated(d, p.ReturnCountry, p.ReturnLocation, domain.RatePartial)

		case dateutil.SameDay(d, retDepDay) && p.OvernightReturn:
			// Departure from abroad on an overnight return: transit
			// continues past midnight, abroad the entire calendar day.
			info = a.rated(d, p.ReturnCountry, p.ReturnLocation, domain.RateFull)

		case dateutil.SameDay(d, retArrDay) && dateutil.SameDay(retDepDay, retArrDay):
			// Same-day return to home territory.
			info = a.rated(d, p.ReturnCountry, p.ReturnLocation, domain.RatePartial)

		default:
			// Any other day inside the period is a full abroad day at
			// the rolling location.
			country, station := rollingLocation(p, d)
			info = a.rated(d, country, station, domain.RateFull)
		}

		if !a.calendar.SetIfAbsent(info) {
			prior, _ := a.calendar.Get(d)
			a.diag.warnf(d, "abroad periods overlap on %s (%s kept, %s dropped); no legal precedence rule is defined for overlapping periods",
				dateutil.FormatDay(d), prior.Country, info.Country)
		}
	}
}

// assignFreeFlightDays covers days whose flights belong to no tour:
// the same-day departure rule applies when the absence span reaches 8h,
// otherwise the day is recorded as informational.
func (a *allowanceAssigner) assignFreeFlightDays(flights []domain.Flight, inPeriod map[uuid.UUID]bool) {
	byDay, keys := flightsByDay(flights)
	for _, k := range keys {
		legs := byDay[k]
		if anyInPeriod(legs, inPeriod) || hasTourMarker(legs) {
			continue
		}
		day := dateutil.DayOf(legs[0].Date)
		last := legs[len(legs)-1]
		// The rate anchors to the last leg's departure point: on an
		// out-and-back day that is the turnaround station, the farthest
		// place worked. Tour departure days rate at the day's
		// destination instead; those days end abroad, a free-standing
		// day ends back home.
		country, station := last.DepartureCountry, last.DepartureStation
		if country == "" {
			country = rates.HomeCountry
		}

		var info domain.DailyAllowanceInfo
		if a.absenceMinutes(legs) >= minAbsenceMinutes {
			info = a.rated(day, country, station, domain.RatePartial)
		} else {
			info = unqualified(day, country, station)
		}
		a.calendar.SetIfAbsent(info)
	}
}

// assignDutyDays covers free-standing non-flight days: qualifying
// ground categories earn the domestic partial rate, layover days not
// already inside a period earn the full rate of their recorded country,
// everything else is informational only.
func (a *allowanceAssigner) assignDutyDays(dutyDays []domain.DutyDay) {
	for _, d := range dutyDays {
		day := dateutil.DayOf(d.Date)
		switch {
		case d.Category == domain.DutyLayover:
			a.calendar.SetIfAbsent(a.rated(day, d.Country, "", domain.RateFull))
		case d.Category.QualifiesForAllowance():
			a.calendar.SetIfAbsent(a.rated(day, rates.HomeCountry, "", domain.RatePartial))
		default:
			a.calendar.SetIfAbsent(unqualified(day, rates.HomeCountry, ""))
		}
	}
}

// rated builds a qualifying allowance record, resolving the city
// override before the country rate.
func (a *allowanceAssigner) rated(day time.Time, country, station string, class domain.RateClass) domain.DailyAllowanceInfo {
	city := ""
	location := station
	if airport, ok := a.rates.Airport(station); ok {
		city = airport.City
		location = airport.City
		if country == "" {
			country = airport.Country
		}
	}
	if country == "" {
		country = rates.HomeCountry
	}

	rate, known := a.rates.PerDiem(country, city, day.Year())
	if !known && !a.warnedCountries[country] {
		a.warnedCountries[country] = true
		a.diag.warnf(day, "no per-diem rate for %q; using the fallback country rate", country)
	}

	amount := rate.Partial
	if class == domain.RateFull {
		amount = rate.Full
	}
	return domain.DailyAllowanceInfo{
		Date:      day,
		Country:   country,
		Location:  location,
		Rate:      amount,
		Class:     class,
		Qualifies: true,
	}
}

// unqualified records an informational day that earns nothing.
func unqualified(day time.Time, country, station string) domain.DailyAllowanceInfo {
	return domain.DailyAllowanceInfo{
		Date:      day,
		Country:   country,
		Location:  station,
		Rate:      decimal.Zero,
		Class:     domain.RateNone,
		Qualifies: false,
	}
}

// absenceMinutes sums the total absence of one calendar day's legs:
// commute out, pre-departure briefing, the flight span from first
// departure to last landing, post-arrival briefing, and commute back.
func (a *allowanceAssigner) absenceMinutes(legs []domain.Flight) int {
	if len(legs) == 0 {
		return 0
	}
	first := legs[0]
	last := legs[len(legs)-1]

	span := dateutil.DaysBetween(first.Date, last.Date)*dateutil.MinutesPerDay +
		last.DepartureMinute + last.BlockMinutes - first.DepartureMinute
	if span < 0 {
		span = 0
	}

	commute := a.settings.OneWayCommuteMinutes()
	return commute + a.preBriefingMinutes(first) + span + a.postBriefingMinutes(last) + commute
}

// isSimulatorSession matches the fixed simulator signature: the SIM
// flight-number prefix, a round trip at a domestic hub, and an exact
// four-hour block.
func isSimulatorSession(f domain.Flight) bool {
	return strings.HasPrefix(f.Number, simulatorNumberPrefix) &&
		f.DepartureStation == f.ArrivalStation &&
		f.DepartureCountry == rates.HomeCountry &&
		f.BlockMinutes == simulatorBlockMinutes
}

func (a *allowanceAssigner) preBriefingMinutes(f domain.Flight) int {
	if isSimulatorSession(f) {
		return simulatorBriefingTotal / 2
	}
	if a.settings.Role == domain.RolePilot {
		if longHaulFleets[strings.ToUpper(a.settings.AircraftType)] {
			return briefingPilotIntercontinental
		}
		return briefingPilotRegional
	}
	// Cabin crew classify by destination, not by fleet.
	if !a.rates.IsEuropean(f.ArrivalStation) {
		return briefingCabinIntercontinental
	}
	return briefingCabinRegional
}

func (a *allowanceAssigner) postBriefingMinutes(f domain.Flight) int {
	if isSimulatorSession(f) {
		return simulatorBriefingTotal / 2
	}
	return postArrivalBriefingMinutes
}

// destinationOnDay is the place reached on a given calendar day: the
// arrival of the last flight departing that day, falling back to the
// period's first known location.
func destinationOnDay(flights []domain.Flight, day time.Time, fallbackCountry, fallbackStation string) (string, string) {
	country, station := fallbackCountry, fallbackStation
	for _, f := range flights {
		if dateutil.SameDay(f.Date, day) {
			country, station = f.ArrivalCountry, f.ArrivalStation
		}
	}
	return country, station
}

// rollingLocation is the destination of the most recent flight that
// landed on or before the given day.
func rollingLocation(p *domain.AbroadPeriod, day time.Time) (string, string) {
	country, station := p.Country, p.Location
	found := false
	for _, f := range p.Flights {
		if !f.ArrivalDate().After(day) {
			country, station = f.ArrivalCountry, f.ArrivalStation
			found = true
		}
	}
	if !found {
		// No landing observed yet (inferred starts): stay with the
		// period's resolved location.
		country, station = p.Country, p.Location
	}
	return country, station
}

func anyInPeriod(legs []domain.Flight, inPeriod map[uuid.UUID]bool) bool {
	for _, f := range legs {
		if inPeriod[f.ID] {
			return true
		}
	}
	return false
}
