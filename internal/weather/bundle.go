package weather

// Tag identifies a value in a bundle exchanged with the companion.
type Tag uint32

const (
	TagTemperature       Tag = 0
	TagConditions        Tag = 1
	TagTempMin           Tag = 2
	TagTempMax           Tag = 3
	TagWindSpeed         Tag = 4 // m/s
	TagWindDirection     Tag = 5
	TagHumidity          Tag = 6
	TagDescription       Tag = 7
	TagDay1Conditions    Tag = 8
	TagDay1TempMin       Tag = 9
	TagDay1TempMax       Tag = 10
	TagDay1Time          Tag = 11
	TagDay2Conditions    Tag = 12
	TagDay2TempMin       Tag = 13
	TagDay2TempMax       Tag = 14
	TagDay2Time          Tag = 15
	TagDay3Conditions    Tag = 16
	TagDay3TempMin       Tag = 17
	TagDay3TempMax       Tag = 18
	TagDay3Time          Tag = 19
	TagTemperatureUnits  Tag = 50
	TagWindSpeedUnits    Tag = 51
	TagWeekNumberEnabled Tag = 52
	TagMondayFirst       Tag = 53
)

// ForecastDays is the number of day records a bundle can carry.
const ForecastDays = 3

// day record tags are laid out in groups of four: conditions, min, max, time.
const (
	dayTagBase   = TagDay1Conditions
	dayTagStride = 4
)

// Tuple is one tagged value. Integer tags use Int, text tags use Text.
type Tuple struct {
	Key  Tag    `json:"key"`
	Int  int32  `json:"int,omitempty"`
	Text string `json:"text,omitempty"`
}

// IntTuple builds an integer tuple.
func IntTuple(key Tag, v int) Tuple {
	return Tuple{Key: key, Int: int32(v)}
}

// TextTuple builds a text tuple.
func TextTuple(key Tag, s string) Tuple {
	return Tuple{Key: key, Text: s}
}

// Setting is a configuration string carried in a bundle.
type Setting struct {
	Tag   Tag
	Value string
}

// Bundle is a decoded batch of weather fields. Current-condition fields are
// nil when the bundle did not carry them.
type Bundle struct {
	TemperatureC     *int
	WindSpeedMps     *int
	WindDirectionDeg *int
	Description      *ShortText

	Days     [ForecastDays]ForecastDay
	Settings []Setting
}

// HasForecast reports whether the bundle carries at least a first day record.
func (b Bundle) HasForecast() bool {
	return b.Days[0].Present()
}

// DecodeBundle parses tuples into a Bundle. Tags the watch does not know are
// returned separately so the caller can log them; tags that are known but
// unused (conditions, min/max, humidity of the current reading) are skipped
// silently.
func DecodeBundle(tuples []Tuple) (Bundle, []Tag) {
	var (
		b       Bundle
		unknown []Tag
	)

	for _, t := range tuples {
		switch {
		case t.Key == TagTemperature:
			v := int(t.Int)
			b.TemperatureC = &v
		case t.Key == TagWindSpeed:
			v := int(t.Int)
			b.WindSpeedMps = &v
		case t.Key == TagWindDirection:
			v := int(t.Int)
			b.WindDirectionDeg = &v
		case t.Key == TagDescription:
			v := NewShortText(t.Text)
			b.Description = &v
		case t.Key == TagConditions, t.Key == TagTempMin, t.Key == TagTempMax, t.Key == TagHumidity:
			// Reported by the companion but not reliable enough to show.
		case t.Key >= TagDay1Conditions && t.Key <= TagDay3Time:
			applyDayTuple(&b, t)
		case t.Key >= TagTemperatureUnits && t.Key <= TagMondayFirst:
			b.Settings = append(b.Settings, Setting{Tag: t.Key, Value: t.Text})
		default:
			unknown = append(unknown, t.Key)
		}
	}

	return b, unknown
}

func applyDayTuple(b *Bundle, t Tuple) {
	offset := t.Key - dayTagBase
	day := &b.Days[offset/dayTagStride]

	switch offset % dayTagStride {
	case 0:
		day.Conditions = NewShortText(t.Text)
	case 1:
		day.LowC = int(t.Int)
	case 2:
		day.HighC = int(t.Int)
	case 3:
		day.Timestamp = int64(t.Int)
	}
}

// Tuples encodes the bundle back into tagged values. Absent current fields
// and absent day records are omitted.
func (b Bundle) Tuples() []Tuple {
	var out []Tuple

	if b.TemperatureC != nil {
		out = append(out, IntTuple(TagTemperature, *b.TemperatureC))
	}
	if b.WindSpeedMps != nil {
		out = append(out, IntTuple(TagWindSpeed, *b.WindSpeedMps))
	}
	if b.WindDirectionDeg != nil {
		out = append(out, IntTuple(TagWindDirection, *b.WindDirectionDeg))
	}
	if b.Description != nil {
		out = append(out, TextTuple(TagDescription, b.Description.String()))
	}

	for i, day := range b.Days {
		if !day.Present() {
			continue
		}
		base := dayTagBase + Tag(i*dayTagStride)
		out = append(out,
			TextTuple(base, day.Conditions.String()),
			IntTuple(base+1, day.LowC),
			IntTuple(base+2, day.HighC),
			IntTuple(base+3, int(day.Timestamp)),
		)
	}

	for _, s := range b.Settings {
		out = append(out, TextTuple(s.Tag, s.Value))
	}

	return out
}
