package weather

// TemperatureUnit selects how temperatures are rendered.
// Values match the persisted representation.
type TemperatureUnit int

const (
	Fahrenheit TemperatureUnit = 0
	Celsius    TemperatureUnit = 1
)

// Valid reports whether u is a known unit.
func (u TemperatureUnit) Valid() bool { return u == Fahrenheit || u == Celsius }

// Letter returns the single-letter suffix used on the display.
func (u TemperatureUnit) Letter() string {
	if u == Celsius {
		return "C"
	}
	return "F"
}

// WindUnit selects how wind speed is rendered.
type WindUnit int

const (
	Knots WindUnit = 0
	Mph   WindUnit = 1
	Kph   WindUnit = 2
)

// Valid reports whether u is a known unit.
func (u WindUnit) Valid() bool { return u >= Knots && u <= Kph }

// Weekday a week starts on, for the calendar and week numbers.
type WeekStart int

const (
	WeekStartsSunday WeekStart = 0
	WeekStartsMonday WeekStart = 1
)

// Valid reports whether w is a known week start.
func (w WeekStart) Valid() bool { return w == WeekStartsSunday || w == WeekStartsMonday }

// UnitConfig holds the user's display preferences.
type UnitConfig struct {
	Temperature   TemperatureUnit `json:"temperatureUnits"`
	Wind          WindUnit        `json:"windUnits"`
	WeekNumbering bool            `json:"weekNumbering"`
	WeekStart     WeekStart       `json:"weekStart"`
}

// DefaultUnitConfig is used when nothing has been configured or persisted.
func DefaultUnitConfig() UnitConfig {
	return UnitConfig{
		Temperature:   Fahrenheit,
		Wind:          Knots,
		WeekNumbering: false,
		WeekStart:     WeekStartsSunday,
	}
}

// Apply updates a single setting from its configuration string.
// It reports whether the value was recognized; unknown tags or values leave
// the configuration untouched.
func (c *UnitConfig) Apply(tag Tag, value string) bool {
	switch tag {
	case TagTemperatureUnits:
		switch value {
		case "F":
			c.Temperature = Fahrenheit
		case "C":
			c.Temperature = Celsius
		default:
			return false
		}
	case TagWindSpeedUnits:
		switch value {
		case "KNOTS":
			c.Wind = Knots
		case "MPH":
			c.Wind = Mph
		case "KPH":
			c.Wind = Kph
		default:
			return false
		}
	case TagWeekNumberEnabled:
		on, ok := parseToggle(value)
		if !ok {
			return false
		}
		c.WeekNumbering = on
	case TagMondayFirst:
		on, ok := parseToggle(value)
		if !ok {
			return false
		}
		if on {
			c.WeekStart = WeekStartsMonday
		} else {
			c.WeekStart = WeekStartsSunday
		}
	default:
		return false
	}
	return true
}

func parseToggle(value string) (bool, bool) {
	switch value {
	case "ENABLED":
		return true, true
	case "DISABLED":
		return false, true
	}
	return false, false
}
