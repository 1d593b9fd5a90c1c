package calculation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/rates"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

func testRates(t *testing.T) *rates.Resolver {
	t.Helper()
	r, err := rates.NewResolver()
	require.NoError(t, err, "embedded rate tables must parse")
	return r
}

func testDiag() *diagnostics {
	return newDiagnostics(NopLogger{})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testFlight builds a roster leg with countries resolved from the
// station codes, the way the engine's country-resolution pass would.
func testFlight(t *testing.T, date time.Time, number, dep, arr, depClock string, block int, code domain.DutyCode) domain.Flight {
	t.Helper()
	r := testRates(t)
	minute, ok := dateutil.ParseClock(depClock)
	require.True(t, ok, "test clock %q must parse", depClock)
	return domain.Flight{
		ID:               uuid.New(),
		Date:             dateutil.DayOf(date),
		Number:           number,
		DepartureStation: dep,
		ArrivalStation:   arr,
		DepartureCountry: r.CountryOf(dep),
		ArrivalCountry:   r.CountryOf(arr),
		DepartureMinute:  minute,
		BlockMinutes:     block,
		DutyCode:         code,
	}
}

func testDuty(date time.Time, category domain.DutyCategory, country string) domain.DutyDay {
	return domain.DutyDay{ID: uuid.New(), Date: dateutil.DayOf(date), Category: category, Country: country}
}

// cabinSettings is the baseline test profile: cabin crew on a
// short-haul fleet with a 30 km commute.
func cabinSettings() *domain.Settings {
	return &domain.Settings{
		Role:                   domain.RoleCabin,
		AircraftType:           "A320",
		CommuteKilometers:      30,
		CleaningCostPerWorkday: decimal.RequireFromString("1.50"),
		TipPerHotelNight:       decimal.RequireFromString("2.00"),
	}
}

func requireAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got),
		"want %s, got %s (%v)", want, got.String(), msgAndArgs)
}
