// Package rates resolves the static allowance tables: per-diem rates by
// country/city and year, airport-to-country resolution, and the tiered
// commute (Entfernungspauschale) rates. Pure lookups, no state beyond
// the parsed tables.
package rates

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/perdiem.yaml
var perDiemYAML []byte

//go:embed data/airports.yaml
var airportsYAML []byte

//go:embed data/commute.yaml
var commuteYAML []byte

// HomeCountry is the home territory all deductions are anchored to.
const HomeCountry = "Deutschland"

// PerDiemRate holds the full-day (24h) and partial-day rates for one
// country or city.
type PerDiemRate struct {
	Full    decimal.Decimal
	Partial decimal.Decimal
}

// Airport is one entry of the airport resolution table.
type Airport struct {
	Code     string
	Country  string
	City     string
	European bool
}

// CommuteTiers holds the per-km rates of one Entfernungspauschale tier.
type CommuteTiers struct {
	Base  decimal.Decimal // first 20 km
	Above decimal.Decimal // beyond 20 km
}

type perDiemYear struct {
	year      int
	countries map[string]PerDiemRate
	cities    map[string]PerDiemRate // keyed by city name
}

type commuteTier struct {
	fromYear int
	rates    CommuteTiers
}

// Resolver answers rate lookups against the embedded tables.
type Resolver struct {
	years           []perDiemYear // sorted ascending by year
	fallbackCountry string
	airports        map[string]Airport
	commuteTiers    []commuteTier // sorted ascending by fromYear
}

type rawPerDiemEntry struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
	Full    string `yaml:"full"`
	Partial string `yaml:"partial"`
}

type rawPerDiemDoc struct {
	FallbackCountry string `yaml:"fallback_country"`
	Years           []struct {
		Year      int               `yaml:"year"`
		Countries []rawPerDiemEntry `yaml:"countries"`
		Cities    []rawPerDiemEntry `yaml:"cities"`
	} `yaml:"years"`
}

type rawAirportsDoc struct {
	Airports []struct {
		Code     string `yaml:"code"`
		Country  string `yaml:"country"`
		City     string `yaml:"city"`
		European bool   `yaml:"european"`
	} `yaml:"airports"`
}

type rawCommuteDoc struct {
	Tiers []struct {
		FromYear int    `yaml:"from_year"`
		Base     string `yaml:"base"`
		Above    string `yaml:"above"`
	} `yaml:"tiers"`
}

// NewResolver parses the embedded rate tables.
func NewResolver() (*Resolver, error) {
	r := &Resolver{airports: make(map[string]Airport)}

	var perDiem rawPerDiemDoc
	if err := yaml.Unmarshal(perDiemYAML, &perDiem); err != nil {
		return nil, fmt.Errorf("failed to parse per-diem table: %w", err)
	}
	r.fallbackCountry = perDiem.FallbackCountry
	for _, y := range perDiem.Years {
		year := perDiemYear{
			year:      y.Year,
			countries: make(map[string]PerDiemRate, len(y.Countries)),
			cities:    make(map[string]PerDiemRate, len(y.Cities)),
		}
		for _, c := range y.Countries {
			rate, err := parseRate(c.Full, c.Partial)
			if err != nil {
				return nil, fmt.Errorf("per-diem table %d, country %s: %w", y.Year, c.Name, err)
			}
			year.countries[c.Name] = rate
		}
		for _, c := range y.Cities {
			rate, err := parseRate(c.Full, c.Partial)
			if err != nil {
				return nil, fmt.Errorf("per-diem table %d, city %s: %w", y.Year, c.Name, err)
			}
			year.cities[c.Name] = rate
		}
		r.years = append(r.years, year)
	}
	if len(r.years) == 0 {
		return nil, fmt.Errorf("per-diem table contains no years")
	}
	sort.Slice(r.years, func(i, j int) bool { return r.years[i].year < r.years[j].year })

	var airports rawAirportsDoc
	if err := yaml.Unmarshal(airportsYAML, &airports); err != nil {
		return nil, fmt.Errorf("failed to parse airport table: %w", err)
	}
	for _, a := range airports.Airports {
		code := strings.ToUpper(a.Code)
		r.airports[code] = Airport{Code: code, Country: a.Country, City: a.City, European: a.European}
	}

	var commute rawCommuteDoc
	if err := yaml.Unmarshal(commuteYAML, &commute); err != nil {
		return nil, fmt.Errorf("failed to parse commute table: %w", err)
	}
	for _, t := range commute.Tiers {
		base, errB := decimal.NewFromString(t.Base)
		above, errA := decimal.NewFromString(t.Above)
		if errB != nil || errA != nil {
			return nil, fmt.Errorf("commute tier from %d has malformed rates", t.FromYear)
		}
		r.commuteTiers = append(r.commuteTiers, commuteTier{fromYear: t.FromYear, rates: CommuteTiers{Base: base, Above: above}})
	}
	if len(r.commuteTiers) == 0 {
		return nil, fmt.Errorf("commute table contains no tiers")
	}
	sort.Slice(r.commuteTiers, func(i, j int) bool { return r.commuteTiers[i].fromYear < r.commuteTiers[j].fromYear })

	return r, nil
}

func parseRate(full, partial string) (PerDiemRate, error) {
	f, err := decimal.NewFromString(full)
	if err != nil {
		return PerDiemRate{}, fmt.Errorf("malformed full-day rate %q", full)
	}
	p, err := decimal.NewFromString(partial)
	if err != nil {
		return PerDiemRate{}, fmt.Errorf("malformed partial-day rate %q", partial)
	}
	return PerDiemRate{Full: f, Partial: p}, nil
}

// yearTable picks the table for the greatest tabulated year not after
// the requested one, falling back to the earliest table for years
// before the first entry.
func (r *Resolver) yearTable(year int) perDiemYear {
	table := r.years[0]
	for _, y := range r.years {
		if y.year > year {
			break
		}
		table = y
	}
	return table
}

// PerDiem resolves the per-diem rate for a country, checking a
// city-specific override first. The second return value is false when
// the country was unknown and the fallback entry was used; callers
// surface that as a diagnostic.
func (r *Resolver) PerDiem(country, city string, year int) (PerDiemRate, bool) {
	table := r.yearTable(year)
	if city != "" {
		if rate, ok := table.cities[city]; ok {
			return rate, true
		}
	}
	if rate, ok := table.countries[country]; ok {
		return rate, true
	}
	return table.countries[r.fallbackCountry], false
}

// DomesticRate returns the home-territory per-diem rate.
func (r *Resolver) DomesticRate(year int) PerDiemRate {
	rate, _ := r.PerDiem(HomeCountry, "", year)
	return rate
}

// Airport resolves an IATA station code.
func (r *Resolver) Airport(code string) (Airport, bool) {
	a, ok := r.airports[strings.ToUpper(code)]
	return a, ok
}

// CountryOf returns the country an airport code belongs to, or the
// empty string when the code is unknown.
func (r *Resolver) CountryOf(code string) string {
	a, ok := r.Airport(code)
	if !ok {
		return ""
	}
	return a.Country
}

// IsEuropean reports whether the station lies in Europe. Unknown codes
// default to true so that a lookup miss never promotes a flight to the
// intercontinental briefing profile.
func (r *Resolver) IsEuropean(code string) bool {
	a, ok := r.Airport(code)
	if !ok {
		return true
	}
	return a.European
}

// Commute returns the Entfernungspauschale tier applicable to a year.
func (r *Resolver) Commute(year int) CommuteTiers {
	tier := r.commuteTiers[0]
	for _, t := range r.commuteTiers {
		if t.fromYear > year {
			break
		}
		tier = t
	}
	return tier.rates
}
