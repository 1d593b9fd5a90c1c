// Package config loads and validates roster input documents: flights,
// non-flight duty days, deduction settings, and employer reimbursements.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// InputParser handles parsing of roster input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// rosterDocument is the raw YAML shape. Monetary amounts and clock
// times arrive as strings and are converted explicitly.
type rosterDocument struct {
	Settings struct {
		Role                         string `yaml:"role"`
		AircraftType                 string `yaml:"aircraft_type"`
		CommuteKilometers            int    `yaml:"commute_kilometers"`
		CommuteMinutesOverride       *int   `yaml:"commute_minutes_override"`
		CleaningCostPerWorkday       string `yaml:"cleaning_cost_per_workday"`
		TipPerHotelNight             string `yaml:"tip_per_hotel_night"`
		CountMedicalAsTrip           bool   `yaml:"count_medical_as_trip"`
		CountStandbyAsTrip           bool   `yaml:"count_standby_as_trip"`
		CountEmergencyTrainingAsTrip bool   `yaml:"count_emergency_training_as_trip"`
		OutboundTripsOnly            bool   `yaml:"outbound_trips_only"`
		HomeBaseOverride             string `yaml:"home_base_override"`
	} `yaml:"settings"`

	Flights []struct {
		Date              time.Time `yaml:"date"`
		Number            string    `yaml:"number"`
		ContinuationOfDay int       `yaml:"continuation_of_day"`
		DutyCode          string    `yaml:"duty_code"`
		DepartureStation  string    `yaml:"departure_station"`
		DepartureTime     string    `yaml:"departure_time"`
		ArrivalStation    string    `yaml:"arrival_station"`
		ArrivalTime       string    `yaml:"arrival_time"`
		BlockMinutes      int       `yaml:"block_minutes"`
	} `yaml:"flights"`

	DutyDays []struct {
		Date     time.Time `yaml:"date"`
		Category string    `yaml:"category"`
		Country  string    `yaml:"country"`
	} `yaml:"duty_days"`

	Reimbursements []struct {
		Year   int    `yaml:"year"`
		Month  int    `yaml:"month"`
		Amount string `yaml:"amount"`
	} `yaml:"reimbursements"`
}

// LoadFromFile loads a roster document from a YAML file. Malformed
// clock strings degrade to zero with a diagnostic; structural problems
// (missing dates, unknown categories) are errors.
func (ip *InputParser) LoadFromFile(filename string) (*domain.CalculationInput, []domain.Diagnostic, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a roster document.
func (ip *InputParser) Parse(data []byte) (*domain.CalculationInput, []domain.Diagnostic, error) {
	var doc rosterDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var diags []domain.Diagnostic
	warn := func(date time.Time, format string, args ...any) {
		diags = append(diags, domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Date:     date,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	settings, err := ip.buildSettings(&doc)
	if err != nil {
		return nil, nil, err
	}

	input := &domain.CalculationInput{Settings: settings}

	for i, rf := range doc.Flights {
		if rf.Date.IsZero() {
			return nil, nil, fmt.Errorf("flight %d (%s): date is required", i, rf.Number)
		}
		dutyCode, err := parseDutyCode(rf.DutyCode)
		if err != nil {
			return nil, nil, fmt.Errorf("flight %d (%s): %w", i, rf.Number, err)
		}

		dep, ok := dateutil.ParseClock(rf.DepartureTime)
		if !ok && rf.DepartureTime != "" {
			warn(rf.Date, "flight %s on %s: malformed departure time %q, treated as 00:00",
				rf.Number, dateutil.FormatDay(rf.Date), rf.DepartureTime)
		}
		arr, ok := dateutil.ParseClock(rf.ArrivalTime)
		if !ok && rf.ArrivalTime != "" {
			warn(rf.Date, "flight %s on %s: malformed arrival time %q, treated as 00:00",
				rf.Number, dateutil.FormatDay(rf.Date), rf.ArrivalTime)
		}
		if rf.BlockMinutes < 0 {
			return nil, nil, fmt.Errorf("flight %d (%s): block minutes cannot be negative", i, rf.Number)
		}

		input.Flights = append(input.Flights, domain.Flight{
			ID:                uuid.New(),
			Date:              dateutil.DayOf(rf.Date),
			Number:            rf.Number,
			ContinuationOfDay: rf.ContinuationOfDay,
			DutyCode:          dutyCode,
			DepartureStation:  rf.DepartureStation,
			ArrivalStation:    rf.ArrivalStation,
			DepartureMinute:   dep,
			ArrivalMinute:     arr,
			BlockMinutes:      rf.BlockMinutes,
		})
	}

	for i, rd := range doc.DutyDays {
		if rd.Date.IsZero() {
			return nil, nil, fmt.Errorf("duty day %d: date is required", i)
		}
		category, err := parseDutyCategory(rd.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("duty day %d (%s): %w", i, dateutil.FormatDay(rd.Date), err)
		}
		if category == domain.DutyLayover && rd.Country == "" {
			return nil, nil, fmt.Errorf("duty day %d (%s): layover days require a country", i, dateutil.FormatDay(rd.Date))
		}
		input.DutyDays = append(input.DutyDays, domain.DutyDay{
			ID:       uuid.New(),
			Date:     dateutil.DayOf(rd.Date),
			Category: category,
			Country:  rd.Country,
		})
	}

	for i, rr := range doc.Reimbursements {
		if rr.Month < 1 || rr.Month > 12 {
			return nil, nil, fmt.Errorf("reimbursement %d: month must be between 1 and 12", i)
		}
		amount, err := decimal.NewFromString(rr.Amount)
		if err != nil {
			return nil, nil, fmt.Errorf("reimbursement %d: malformed amount %q", i, rr.Amount)
		}
		if amount.IsNegative() {
			return nil, nil, fmt.Errorf("reimbursement %d: amount cannot be negative", i)
		}
		input.Reimbursements = append(input.Reimbursements, domain.Reimbursement{
			Year:   rr.Year,
			Month:  time.Month(rr.Month),
			Amount: amount,
		})
	}

	return input, diags, nil
}

func (ip *InputParser) buildSettings(doc *rosterDocument) (*domain.Settings, error) {
	s := &domain.Settings{
		AircraftType:                 doc.Settings.AircraftType,
		CommuteKilometers:            doc.Settings.CommuteKilometers,
		CommuteMinutesOverride:       doc.Settings.CommuteMinutesOverride,
		CountMedicalAsTrip:           doc.Settings.CountMedicalAsTrip,
		CountStandbyAsTrip:           doc.Settings.CountStandbyAsTrip,
		CountEmergencyTrainingAsTrip: doc.Settings.CountEmergencyTrainingAsTrip,
		OutboundTripsOnly:            doc.Settings.OutboundTripsOnly,
		HomeBaseOverride:             doc.Settings.HomeBaseOverride,
	}

	switch doc.Settings.Role {
	case string(domain.RolePilot):
		s.Role = domain.RolePilot
	case string(domain.RoleCabin), "":
		s.Role = domain.RoleCabin
	default:
		return nil, fmt.Errorf("settings: role must be %q or %q", domain.RolePilot, domain.RoleCabin)
	}

	if doc.Settings.CommuteKilometers < 0 {
		return nil, fmt.Errorf("settings: commute kilometers cannot be negative")
	}
	if s.CommuteMinutesOverride != nil && *s.CommuteMinutesOverride < 0 {
		return nil, fmt.Errorf("settings: commute minutes override cannot be negative")
	}

	var err error
	if s.CleaningCostPerWorkday, err = optionalAmount(doc.Settings.CleaningCostPerWorkday); err != nil {
		return nil, fmt.Errorf("settings: malformed cleaning cost %q", doc.Settings.CleaningCostPerWorkday)
	}
	if s.TipPerHotelNight, err = optionalAmount(doc.Settings.TipPerHotelNight); err != nil {
		return nil, fmt.Errorf("settings: malformed tip amount %q", doc.Settings.TipPerHotelNight)
	}
	if s.CleaningCostPerWorkday.IsNegative() || s.TipPerHotelNight.IsNegative() {
		return nil, fmt.Errorf("settings: amounts cannot be negative")
	}
	return s, nil
}

func optionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseDutyCode(s string) (domain.DutyCode, error) {
	switch domain.DutyCode(s) {
	case domain.DutyCodeNone, domain.DutyCodeTourStart, domain.DutyCodeTourEnd, domain.DutyCodeOther:
		return domain.DutyCode(s), nil
	}
	return domain.DutyCodeNone, fmt.Errorf("unknown duty code %q", s)
}

func parseDutyCategory(s string) (domain.DutyCategory, error) {
	switch domain.DutyCategory(s) {
	case domain.DutyMedical, domain.DutyLayover, domain.DutyStandby,
		domain.DutyEmergencyTraining, domain.DutyReserveTraining, domain.DutyGround:
		return domain.DutyCategory(s), nil
	}
	return "", fmt.Errorf("unknown duty category %q", s)
}
