package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/rates"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

const distanceTierBoundaryKm = 20

// CountTrips tallies the chargeable commute trips per month. Explicit
// tour markers count one trip each (tour-end is free under the
// outbound-only policy); same-day round trips to the home base count
// two; qualifying ground-duty days count two. Reserve/standby training
// never counts, regardless of settings.
func CountTrips(flights []domain.Flight, dutyDays []domain.DutyDay, settings *domain.Settings, homeBase string) map[domain.MonthKey]int {
	trips := make(map[domain.MonthKey]int)

	for _, f := range flights {
		switch f.DutyCode {
		case domain.DutyCodeTourStart:
			trips[domain.MonthKeyOf(f.Date)]++
		case domain.DutyCodeTourEnd:
			if !settings.OutboundTripsOnly {
				trips[domain.MonthKeyOf(f.ArrivalDate())]++
			}
		}
	}

	for _, day := range SameDayRoundTrips(flights, homeBase) {
		trips[domain.MonthKeyOf(day)] += 2
	}

	for _, d := range dutyDays {
		if d.Category == domain.DutyReserveTraining {
			continue
		}
		if settings.CountsAsTrip(d.Category) {
			trips[domain.MonthKeyOf(d.Date)] += 2
		}
	}

	return trips
}

// DistanceDeduction applies the tiered Entfernungspauschale: the base
// per-km rate up to 20 km and the above-20 rate beyond, multiplied by
// the trip count. A zero trip count short-circuits to zero.
func DistanceDeduction(trips, oneWayKm, year int, resolver *rates.Resolver) decimal.Decimal {
	if trips <= 0 || oneWayKm <= 0 {
		return decimal.Zero
	}
	tier := resolver.Commute(year)

	baseKm := oneWayKm
	if baseKm > distanceTierBoundaryKm {
		baseKm = distanceTierBoundaryKm
	}
	aboveKm := oneWayKm - distanceTierBoundaryKm
	if aboveKm < 0 {
		aboveKm = 0
	}

	tripCount := decimal.NewFromInt(int64(trips))
	base := tier.Base.Mul(decimal.NewFromInt(int64(baseKm)))
	above := tier.Above.Mul(decimal.NewFromInt(int64(aboveKm)))
	return tripCount.Mul(base.Add(above))
}

// workDaysByMonth counts the distinct calendar days per month carrying
// any duty: a flight, or a non-flight day other than plain ground duty.
// Cleaning costs accrue per such day.
func workDaysByMonth(flights []domain.Flight, dutyDays []domain.DutyDay) map[domain.MonthKey]int {
	seen := make(map[string]bool)
	counts := make(map[domain.MonthKey]int)
	mark := func(d domain.MonthKey, key string) {
		if !seen[key] {
			seen[key] = true
			counts[d]++
		}
	}
	for _, f := range flights {
		mark(domain.MonthKeyOf(f.Date), dateutil.DayKey(f.Date))
	}
	for _, d := range dutyDays {
		if d.Category == domain.DutyGround {
			continue
		}
		mark(domain.MonthKeyOf(d.Date), dateutil.DayKey(d.Date))
	}
	return counts
}

// hotelNightsByMonth counts the nights spent away per month: for each
// abroad period, one night per day from its start (inclusive) to its
// end (exclusive), attributed to the month the night begins in.
func hotelNightsByMonth(periods []domain.AbroadPeriod) map[domain.MonthKey]int {
	nights := make(map[domain.MonthKey]int)
	for _, p := range periods {
		for d := p.Start; d.Before(p.End); d = dateutil.NextDay(d) {
			nights[domain.MonthKeyOf(d)]++
		}
	}
	return nights
}
