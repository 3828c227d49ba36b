package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TemperatureUnit is the unit the controller reports temperatures in.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "Celsius"
	Fahrenheit TemperatureUnit = "Fahrenheit"
)

// ParseTemperatureUnit maps the controller's tempUnit string. Anything that
// does not start with "f" is Celsius.
func ParseTemperatureUnit(s string) TemperatureUnit {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "f") {
		return Fahrenheit
	}
	return Celsius
}

// HCMode is the operating mode of an H/C group (0 heat, 1 cool, 2 auto).
type HCMode int

const (
	HCModeHeat HCMode = 0
	HCModeCool HCMode = 1
	HCModeAuto HCMode = 2
)

func (m HCMode) Valid() bool { return m >= HCModeHeat && m <= HCModeAuto }

func (m HCMode) String() string {
	switch m {
	case HCModeHeat:
		return "Heat"
	case HCModeCool:
		return "Cool"
	case HCModeAuto:
		return "Auto"
	default:
		return "Unknown(" + strconv.Itoa(int(m)) + ")"
	}
}

func (m HCMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *HCMode) UnmarshalText(b []byte) error {
	v, err := ParseHCMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseHCMode accepts the device value (0|1|2) or a name
// (heat/heating, cool/cooling, auto), case-insensitive.
func ParseHCMode(s string) (HCMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "heat", "heating":
		return HCModeHeat, nil
	case "1", "cool", "cooling":
		return HCModeCool, nil
	case "2", "auto":
		return HCModeAuto, nil
	}
	return 0, fmt.Errorf("invalid h/c mode %q", s)
}

// Season is the executive season of an H/C group (0 heating, 1 cooling).
type Season int

const (
	SeasonHeating Season = 0
	SeasonCooling Season = 1
)

func (s Season) String() string {
	if s == SeasonCooling {
		return "Cooling"
	}
	return "Heating"
}

func (s Season) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Season) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "heating", "0":
		*s = SeasonHeating
	case "cooling", "1":
		*s = SeasonCooling
	default:
		return fmt.Errorf("invalid season %q", string(b))
	}
	return nil
}

// ThermalStatus reports what a zone is currently doing:
// 0 idle, 1 heating, 2 cooling, 3 heating and cooling.
type ThermalStatus int

const (
	ThermalIdle     ThermalStatus = 0
	ThermalHeat     ThermalStatus = 1
	ThermalCool     ThermalStatus = 2
	ThermalHeatCool ThermalStatus = 3
)

// Active is true whenever the zone is heating or cooling.
func (t ThermalStatus) Active() bool { return t != ThermalIdle }

// ClimateMode is the combined system-power/group-0 view used by climate surfaces.
type ClimateMode string

const (
	ClimateOff      ClimateMode = "off"
	ClimateHeat     ClimateMode = "heat"
	ClimateCool     ClimateMode = "cool"
	ClimateHeatCool ClimateMode = "heat_cool"
)

// ParseClimateMode validates a climate mode name.
func ParseClimateMode(s string) (ClimateMode, error) {
	switch m := ClimateMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ClimateOff, ClimateHeat, ClimateCool, ClimateHeatCool:
		return m, nil
	}
	return "", fmt.Errorf("invalid climate mode %q", s)
}

// HCMode returns the group mode a non-off climate mode maps to.
func (m ClimateMode) HCMode() (HCMode, bool) {
	switch m {
	case ClimateHeat:
		return HCModeHeat, true
	case ClimateCool:
		return HCModeCool, true
	case ClimateHeatCool:
		return HCModeAuto, true
	}
	return 0, false
}

// DeriveClimateMode collapses system power and H/C group 0 into one mode.
// Group 0 missing is treated as auto.
func DeriveClimateMode(s *Snapshot) ClimateMode {
	if s == nil || !s.System.PowerOn {
		return ClimateOff
	}
	mode := HCModeAuto
	if g, ok := s.Group(0); ok {
		mode = g.Mode
	}
	switch mode {
	case HCModeHeat:
		return ClimateHeat
	case HCModeCool:
		return ClimateCool
	default:
		return ClimateHeatCool
	}
}
