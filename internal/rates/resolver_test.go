package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver()
	require.NoError(t, err, "embedded rate tables must parse")
	return r
}

func TestPerDiemCountryLookup(t *testing.T) {
	r := newTestResolver(t)

	rate, ok := r.PerDiem("USA", "", 2024)
	assert.True(t, ok, "USA is tabulated")
	assert.True(t, rate.Full.Equal(decimal.NewFromInt(59)), "generic USA full-day rate")
	assert.True(t, rate.Partial.Equal(decimal.NewFromInt(40)))
}

func TestPerDiemCityOverrideBeatsCountry(t *testing.T) {
	r := newTestResolver(t)

	rate, ok := r.PerDiem("USA", "New York", 2024)
	assert.True(t, ok)
	assert.True(t, rate.Full.Equal(decimal.NewFromInt(66)), "New York has its own, higher rate")
	assert.True(t, rate.Partial.Equal(decimal.NewFromInt(44)))
}

func TestPerDiemUnknownCountryFallsBack(t *testing.T) {
	r := newTestResolver(t)

	rate, ok := r.PerDiem("Atlantis", "", 2024)
	assert.False(t, ok, "unknown country reported as fallback")
	fallback, _ := r.PerDiem("Luxemburg", "", 2024)
	assert.True(t, rate.Full.Equal(fallback.Full), "fallback country rate applies")
}

func TestPerDiemYearResolution(t *testing.T) {
	r := newTestResolver(t)

	// Years after the last table use the last table; years before the
	// first use the first.
	future, ok := r.PerDiem("Deutschland", "", 2030)
	assert.True(t, ok)
	assert.True(t, future.Full.Equal(decimal.NewFromInt(28)))

	past, ok := r.PerDiem("Deutschland", "", 2019)
	assert.True(t, ok)
	assert.True(t, past.Partial.Equal(decimal.NewFromInt(14)))
}

func TestDomesticRate(t *testing.T) {
	r := newTestResolver(t)
	rate := r.DomesticRate(2024)
	assert.True(t, rate.Full.Equal(decimal.NewFromInt(28)))
	assert.True(t, rate.Partial.Equal(decimal.NewFromInt(14)))
}

func TestAirportResolution(t *testing.T) {
	r := newTestResolver(t)

	a, ok := r.Airport("jfk")
	assert.True(t, ok, "lookups are case-insensitive")
	assert.Equal(t, "USA", a.Country)
	assert.Equal(t, "New York", a.City)
	assert.False(t, a.European)

	assert.Equal(t, "Deutschland", r.CountryOf("FRA"))
	assert.Equal(t, "", r.CountryOf("XXX"), "unknown station yields empty country")

	assert.True(t, r.IsEuropean("FRA"))
	assert.False(t, r.IsEuropean("SIN"))
	assert.True(t, r.IsEuropean("XXX"), "unknown stations never promote to intercontinental")
}

func TestCommuteTiers(t *testing.T) {
	r := newTestResolver(t)

	legacy := r.Commute(2019)
	assert.True(t, legacy.Base.Equal(legacy.Above), "pre-2021 is a single flat rate")
	assert.True(t, legacy.Base.Equal(decimal.RequireFromString("0.30")))

	t2021 := r.Commute(2021)
	assert.True(t, t2021.Above.Equal(decimal.RequireFromString("0.35")))

	t2024 := r.Commute(2024)
	assert.True(t, t2024.Base.Equal(decimal.RequireFromString("0.30")))
	assert.True(t, t2024.Above.Equal(decimal.RequireFromString("0.38")))
}
