package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// DatePattern names a display layout understood by DateFormatter.
type DatePattern string

const (
	PatternDayMonthYear DatePattern = "day-month-year"
	PatternMonthYear    DatePattern = "month-year"
	PatternYearOnly     DatePattern = "year-only"
	PatternHourMinute   DatePattern = "hour-minute"
)

// NotAvailable is rendered whenever a value cannot be shown.
const NotAvailable = "N/D"

var (
	errInvalidDate = errors.New("dashboard: invalid date value")

	yearOnlyPattern = regexp.MustCompile(`^\d{4}$`)
	dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	floatingLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}

	patternLayouts = map[DatePattern]string{
		PatternDayMonthYear: "02/01/2006",
		PatternMonthYear:    "01/2006",
		PatternYearOnly:     "2006",
		PatternHourMinute:   "15:04",
	}

	defaultLayouts = map[monday.Locale]string{
		monday.LocalePtBR: "02 Jan 2006",
		monday.LocaleEnUS: "Jan 2, 2006",
	}
)

// DateKind tags the variant stored in a DateValue.
type DateKind int

const (
	DateKindYear DateKind = iota + 1
	DateKindDateOnly
	DateKindTimestamp
)

func (k DateKind) String() string {
	switch k {
	case DateKindYear:
		return "year"
	case DateKindDateOnly:
		return "date"
	case DateKindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// DateValue is a provider date after parsing: a bare year, a calendar date
// without time of day, or an instant.
type DateValue struct {
	Kind    DateKind
	Year    int
	Month   time.Month
	Day     int
	Instant time.Time

	// floating timestamps carry wall-clock fields only and take the zone of
	// whoever reads them.
	floating bool
}

// YearDate builds a year-only value.
func YearDate(year int) DateValue {
	return DateValue{Kind: DateKindYear, Year: year, Month: time.January, Day: 1}
}

// DateOnly builds a calendar date value.
func DateOnly(year int, month time.Month, day int) DateValue {
	return DateValue{Kind: DateKindDateOnly, Year: year, Month: month, Day: day}
}

// Timestamp builds an instant value.
func Timestamp(t time.Time) DateValue {
	return DateValue{Kind: DateKindTimestamp, Year: t.Year(), Month: t.Month(), Day: t.Day(), Instant: t}
}

// IsZero reports whether the value was never set.
func (v DateValue) IsZero() bool {
	return v.Kind == 0
}

// Time resolves the value to a time in loc. Years and dates become local
// midnight. Timestamps are converted into loc.
func (v DateValue) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch v.Kind {
	case DateKindTimestamp:
		if v.floating {
			t := v.Instant
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		}
		return v.Instant.In(loc)
	case DateKindYear:
		return time.Date(v.Year, time.January, 1, 0, 0, 0, 0, loc)
	case DateKindDateOnly:
		return time.Date(v.Year, v.Month, v.Day, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// CalendarDate returns local midnight in loc of the day the value names.
// Timestamps keep the calendar day they were written with, so
// "2019-01-01T00:00:00-02:00" stays on January 1st in any zone.
func (v DateValue) CalendarDate(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch v.Kind {
	case DateKindYear, DateKindDateOnly:
		return time.Date(v.Year, v.Month, v.Day, 0, 0, 0, 0, loc)
	case DateKindTimestamp:
		t := v.Instant
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

func (v DateValue) String() string {
	switch v.Kind {
	case DateKindYear:
		return fmt.Sprintf("%04d", v.Year)
	case DateKindDateOnly:
		return fmt.Sprintf("%04d-%02d-%02d", v.Year, int(v.Month), v.Day)
	case DateKindTimestamp:
		if v.floating {
			return v.Instant.Format("2006-01-02T15:04:05")
		}
		return v.Instant.Format(time.RFC3339)
	default:
		return ""
	}
}

// ParseDateValue accepts the date shapes public statistics APIs emit:
// integer years, "YYYY", "YYYY-MM-DD", RFC 3339 timestamps (with or without
// an offset) and time.Time.
func ParseDateValue(input any) (DateValue, error) {
	switch v := input.(type) {
	case nil:
		return DateValue{}, errInvalidDate
	case DateValue:
		if v.IsZero() {
			return DateValue{}, errInvalidDate
		}
		return v, nil
	case time.Time:
		if v.IsZero() {
			return DateValue{}, errInvalidDate
		}
		return Timestamp(v), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return DateValue{}, errInvalidDate
		}
		return Timestamp(*v), nil
	case int:
		return yearValue(int64(v))
	case int32:
		return yearValue(int64(v))
	case int64:
		return yearValue(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return DateValue{}, errInvalidDate
		}
		return yearValue(int64(v))
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return ParseDateValue(v.String())
		}
		return yearValue(n)
	case string:
		return parseDateString(v)
	default:
		return DateValue{}, fmt.Errorf("%w: unsupported type %T", errInvalidDate, input)
	}
}

func yearValue(year int64) (DateValue, error) {
	if year < 1 || year > 9999 {
		return DateValue{}, fmt.Errorf("%w: year %d out of range", errInvalidDate, year)
	}
	return YearDate(int(year)), nil
}

func parseDateString(raw string) (DateValue, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateValue{}, errInvalidDate
	}
	if yearOnlyPattern.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return yearValue(int64(year))
	}
	if dateOnlyPattern.MatchString(s) {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return DateValue{}, fmt.Errorf("%w: %q", errInvalidDate, raw)
		}
		return DateOnly(t.Year(), t.Month(), t.Day()), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp(t), nil
	}
	for _, layout := range floatingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			value := Timestamp(t)
			value.floating = true
			return value, nil
		}
	}
	return DateValue{}, fmt.Errorf("%w: %q", errInvalidDate, raw)
}

// DateFormatter renders dates for display in a fixed location and locale.
type DateFormatter struct {
	Location *time.Location
	Locale   monday.Locale
}

// NewDateFormatter builds a formatter. A nil location means time.Local and an
// empty locale means pt-BR.
func NewDateFormatter(loc *time.Location, locale monday.Locale) DateFormatter {
	return DateFormatter{Location: loc, Locale: locale}
}

// Format renders input with the requested pattern. Bare years are returned
// unchanged for every pattern and anything unparseable renders as N/D.
func (f DateFormatter) Format(input any, pattern DatePattern) string {
	value, err := ParseDateValue(input)
	if err != nil {
		return NotAvailable
	}
	if value.Kind == DateKindYear {
		return fmt.Sprintf("%04d", value.Year)
	}
	t := value.Time(f.location())
	if layout, ok := patternLayouts[pattern]; ok {
		return t.Format(layout)
	}
	locale := f.locale()
	layout, ok := defaultLayouts[locale]
	if !ok {
		layout = defaultLayouts[monday.LocalePtBR]
	}
	return monday.Format(t, layout, locale)
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f DateFormatter) locale() monday.Locale {
	if f.Locale == "" {
		return monday.LocalePtBR
	}
	return f.Locale
}

// MondayLocale maps a BCP 47 style tag (pt-BR, en) to a monday locale.
func MondayLocale(tag string) monday.Locale {
	switch normalizeLocale(tag) {
	case "en", "en-us":
		return monday.LocaleEnUS
	case "en-gb":
		return monday.LocaleEnGB
	case "es", "es-es":
		return monday.LocaleEsES
	default:
		return monday.LocalePtBR
	}
}
