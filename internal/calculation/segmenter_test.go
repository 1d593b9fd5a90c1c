package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

func TestResolveHomeBase(t *testing.T) {
	flights := []domain.Flight{
		testFlight(t, day(2024, time.June, 1), "LH100", "FRA", "MUC", "09:00", 60, domain.DutyCodeNone),
		testFlight(t, day(2024, time.June, 2), "LH102", "FRA", "LHR", "09:00", 95, domain.DutyCodeNone),
		testFlight(t, day(2024, time.June, 3), "LH103", "MUC", "FRA", "09:00", 60, domain.DutyCodeNone),
	}

	base, ok := ResolveHomeBase(cabinSettings(), flights)
	assert.True(t, ok)
	assert.Equal(t, "FRA", base, "most frequent departure station wins")

	s := cabinSettings()
	s.HomeBaseOverride = "MUC"
	base, ok = ResolveHomeBase(s, flights)
	assert.True(t, ok)
	assert.Equal(t, "MUC", base, "explicit override beats detection")

	base, ok = ResolveHomeBase(cabinSettings(), nil)
	assert.False(t, ok, "no flights, no home base")
	assert.Equal(t, "", base)
}

func TestResolveHomeBaseTieBreaksAlphabetically(t *testing.T) {
	flights := []domain.Flight{
		testFlight(t, day(2024, time.June, 1), "LH100", "MUC", "FRA", "09:00", 60, domain.DutyCodeNone),
		testFlight(t, day(2024, time.June, 2), "LH101", "FRA", "MUC", "09:00", 60, domain.DutyCodeNone),
	}
	base, ok := ResolveHomeBase(cabinSettings(), flights)
	assert.True(t, ok)
	assert.Equal(t, "FRA", base)
}

func TestSegmentToursBasicTour(t *testing.T) {
	diag := testDiag()
	outbound := testFlight(t, day(2024, time.June, 3), "LH400", "FRA", "JFK", "10:00", 510, domain.DutyCodeTourStart)
	inbound := testFlight(t, day(2024, time.June, 5), "LH401", "JFK", "FRA", "18:00", 450, domain.DutyCodeTourEnd)

	periods := SegmentTours([]domain.Flight{outbound, inbound}, nil, diag)

	require.Len(t, periods, 1)
	p := periods[0]
	assert.Equal(t, day(2024, time.June, 3), p.Start)
	assert.Equal(t, day(2024, time.June, 6), p.End, "overnight return lands the next day")
	assert.Equal(t, "USA", p.ReturnCountry)
	assert.Equal(t, "JFK", p.ReturnLocation)
	assert.True(t, p.OvernightReturn)
	assert.False(t, p.Incomplete)
	assert.Len(t, p.Flights, 2)
	assert.Empty(t, diag.items)
}

func TestSegmentToursIntermediateLegsExtend(t *testing.T) {
	diag := testDiag()
	flights := []domain.Flight{
		testFlight(t, day(2024, time.June, 3), "LH400", "FRA", "JFK", "10:00", 510, domain.DutyCodeTourStart),
		testFlight(t, day(2024, time.June, 4), "LH410", "JFK", "LAX", "09:00", 370, domain.DutyCodeNone),
		testFlight(t, day(2024, time.June, 6), "LH411", "LAX", "FRA", "16:00", 660, domain.DutyCodeTourEnd),
	}

	periods := SegmentTours(flights, nil, diag)

	require.Len(t, periods, 1)
	p := periods[0]
	assert.Len(t, p.Flights, 3)
	assert.Equal(t, day(2024, time.June, 7), p.End)
	assert.Equal(t, "LAX", p.ReturnLocation, "return departs from the last intermediate stop")
	assert.Empty(t, diag.items)
}

func TestSegmentToursOrphanReturnInfersFromLayovers(t *testing.T) {
	diag := testDiag()
	dutyDays := []domain.DutyDay{
		testDuty(day(2024, time.June, 2), domain.DutyLayover, "USA"),
		testDuty(day(2024, time.June, 3), domain.DutyLayover, "USA"),
	}
	inbound := testFlight(t, day(2024, time.June, 4), "LH401", "JFK", "FRA", "18:00", 450, domain.DutyCodeTourEnd)

	periods := SegmentTours([]domain.Flight{inbound}, dutyDays, diag)

	require.Len(t, periods, 1)
	p := periods[0]
	assert.True(t, p.Incomplete)
	assert.Equal(t, day(2024, time.June, 2), p.Start, "start inferred from the contiguous layover run")
	assert.Equal(t, "USA", p.Country)
	require.Len(t, diag.items, 1)
	assert.Contains(t, diag.items[0].Message, "no matching tour-start")
}

func TestSegmentToursOrphanReturnWithoutLayovers(t *testing.T) {
	diag := testDiag()
	inbound := testFlight(t, day(2024, time.June, 4), "LH401", "JFK", "FRA", "18:00", 450, domain.DutyCodeTourEnd)

	periods := SegmentTours([]domain.Flight{inbound}, nil, diag)

	require.Len(t, periods, 1)
	assert.Equal(t, day(2024, time.June, 3), periods[0].Start, "falls back to one day before the return")
	assert.True(t, periods[0].Incomplete)
}

func TestSegmentToursNonContiguousLayoversIgnored(t *testing.T) {
	diag := testDiag()
	// A layover with a gap before the return does not belong to the run.
	dutyDays := []domain.DutyDay{
		testDuty(day(2024, time.June, 1), domain.DutyLayover, "USA"),
	}
	inbound := testFlight(t, day(2024, time.June, 4), "LH401", "JFK", "FRA", "18:00", 450, domain.DutyCodeTourEnd)

	periods := SegmentTours([]domain.Flight{inbound}, dutyDays, diag)

	require.Len(t, periods, 1)
	assert.Equal(t, day(2024, time.June, 3), periods[0].Start)
}

func TestSegmentToursDoubleStartExtends(t *testing.T) {
	diag := testDiag()
	flights := []domain.Flight{
		testFlight(t, day(2024, time.June, 3), "LH400", "FRA", "JFK", "10:00", 510, domain.DutyCodeTourStart),
		testFlight(t, day(2024, time.June, 4), "LH410", "JFK", "LAX", "09:00", 370, domain.DutyCodeTourStart),
		testFlight(t, day(2024, time.June, 6), "LH411", "LAX", "FRA", "16:00", 660, domain.DutyCodeTourEnd),
	}

	periods := SegmentTours(flights, nil, diag)

	require.Len(t, periods, 1, "second start extends the open tour")
	assert.Len(t, periods[0].Flights, 3)
	require.Len(t, diag.items, 1)
	assert.Contains(t, diag.items[0].Message, "tour is already open")
}

func TestSegmentToursUnterminatedTourClosed(t *testing.T) {
	diag := testDiag()
	flights := []domain.Flight{
		testFlight(t, day(2024, time.June, 3), "LH400", "FRA", "JFK", "10:00", 510, domain.DutyCodeTourStart),
		testFlight(t, day(2024, time.June, 4), "LH410", "JFK", "LAX", "09:00", 370, domain.DutyCodeNone),
	}

	periods := SegmentTours(flights, nil, diag)

	require.Len(t, periods, 1)
	assert.Equal(t, day(2024, time.June, 4), periods[0].End, "closed at the last observed arrival")
	require.Len(t, diag.items, 1)
	assert.Contains(t, diag.items[0].Message, "no tour-end marker")
}

func TestSameDayRoundTrips(t *testing.T) {
	flights := []domain.Flight{
		// Two-leg round trip, counts.
		testFlight(t, day(2024, time.June, 10), "LH100", "FRA", "MUC", "09:00", 60, domain.DutyCodeNone),
		testFlight(t, day(2024, time.June, 10), "LH101", "MUC", "FRA", "18:00", 60, domain.DutyCodeNone),
		// Degenerate single-leg round trip, counts.
		testFlight(t, day(2024, time.June, 12), "SIM001", "FRA", "FRA", "08:00", 240, domain.DutyCodeNone),
		// Marker day, excluded even though it touches the base.
		testFlight(t, day(2024, time.June, 14), "LH400", "FRA", "FRA", "08:00", 120, domain.DutyCodeTourStart),
		// One-way positioning leg, not a round trip.
		testFlight(t, day(2024, time.June, 16), "LH102", "FRA", "MUC", "09:00", 60, domain.DutyCodeNone),
	}

	days := SameDayRoundTrips(flights, "FRA")
	require.Len(t, days, 2)
	assert.Equal(t, day(2024, time.June, 10), days[0])
	assert.Equal(t, day(2024, time.June, 12), days[1])

	assert.Nil(t, SameDayRoundTrips(flights, ""), "unknown home base disables detection")
}
