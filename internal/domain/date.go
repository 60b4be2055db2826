package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ClockLayout renders wall-clock time the way records store it: 12-hour,
// zero padded, with an AM/PM suffix.
const ClockLayout = "03:04:05 PM"

var monthAbbrevs = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// CalendarDate is a comparable civil date. On the wire it is the
// {day, month, year} triple with month as a three-letter English
// abbreviation. Any component may be zero when the caller omitted it.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Complete reports whether all three components are present.
func (d CalendarDate) Complete() bool {
	return d.Year != 0 && d.Month != 0 && d.Day != 0
}

// Or fills every missing component of d from fallback.
func (d CalendarDate) Or(fallback CalendarDate) CalendarDate {
	if d.Day == 0 {
		d.Day = fallback.Day
	}
	if d.Month == 0 {
		d.Month = fallback.Month
	}
	if d.Year == 0 {
		d.Year = fallback.Year
	}
	return d
}

func (d CalendarDate) MonthAbbrev() string {
	if d.Month < time.January || d.Month > time.December {
		return ""
	}
	return monthAbbrevs[d.Month-1]
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%d-%s-%d", d.Day, d.MonthAbbrev(), d.Year)
}

type calendarDateJSON struct {
	Day   any `json:"day"`
	Month any `json:"month"`
	Year  any `json:"year"`
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	out := calendarDateJSON{}
	if d.Day != 0 {
		out.Day = d.Day
	}
	if abbrev := d.MonthAbbrev(); abbrev != "" {
		out.Month = abbrev
	}
	if d.Year != 0 {
		out.Year = d.Year
	}
	return json.Marshal(out)
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = CalendarDate{}
		return nil
	}

	var raw calendarDateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	day, err := toOptionalInt(raw.Day)
	if err != nil {
		return fmt.Errorf("invalid day: %w", err)
	}
	if day < 0 || day > 31 {
		return fmt.Errorf("invalid day: %d", day)
	}
	year, err := toOptionalInt(raw.Year)
	if err != nil {
		return fmt.Errorf("invalid year: %w", err)
	}
	if year < 0 {
		return fmt.Errorf("invalid year: %d", year)
	}
	month, err := parseMonth(raw.Month)
	if err != nil {
		return err
	}

	*d = CalendarDate{Year: year, Month: month, Day: day}
	return nil
}

// toOptionalInt reads a day or year sent as a JSON number or a decimal
// string. Leading zeros are padding, not an octal prefix.
func toOptionalInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("not a whole number: %q", x)
		}
		return n, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("not a whole number: %v", x)
		}
		return cast.ToIntE(x)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func parseMonth(v any) (time.Month, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("invalid month: %v", v)
	}
	if s == "" {
		return 0, nil
	}
	for i, abbrev := range monthAbbrevs {
		if abbrev == s {
			return time.Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid month: %q", s)
}

// FlexString is a string that also accepts JSON numbers. Older records carry
// numeric identifiers where newer ones carry strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = ""
		return nil
	}
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if n, ok := raw.(json.Number); ok {
		*f = FlexString(n.String())
		return nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}
