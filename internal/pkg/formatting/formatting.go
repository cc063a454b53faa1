// Package formatting converts upstream dates, times, prices and durations
// into the display and request forms used by the site.
package formatting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Duration renders minutes as "5h 30min". Whole hours render as "5h 00min".
func Duration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dmin", h, m)
	}
	return fmt.Sprintf("%dh 00min", h)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an upstream ISO timestamp, keeping its own wall clock.
func ParseTimestamp(iso string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", iso)
}

// Clock renders the wall-clock part of an ISO timestamp as "HH:MM AM/PM".
// No timezone conversion happens: the timestamp's own offset is kept.
func Clock(iso string) (string, error) {
	t, err := ParseTimestamp(iso)
	if err != nil {
		return "", err
	}
	return clock12(t.Hour(), t.Minute()), nil
}

func clock12(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%02d:%02d %s", display, minute, period)
}

// MinutesSinceMidnight converts a Clock string back to minutes since
// midnight. Unparseable input sorts last.
func MinutesSinceMidnight(clock string) int {
	t, err := time.Parse("03:04 PM", clock)
	if err != nil {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}

// DatePart returns the calendar date of an ISO timestamp ("2026-01-28T08:00" → "2026-01-28").
func DatePart(iso string) string {
	date, _, _ := strings.Cut(iso, "T")
	return date
}

// Price renders an integer COP amount the way es-CO currency formatting does:
// "$ 85.000" with a non-breaking space and no decimals.
func Price(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$\u00a0" + humanize.FormatInteger("#.###,", int(amount))
}

var (
	dayMonthYear  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	isoDate       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	shortMonthDay = regexp.MustCompile(`^(\d{1,2})-([a-zA-Z]{3})-(\d{2})$`)
)

var spanishMonths = map[string]string{
	"ene": "01", "feb": "02", "mar": "03", "abr": "04",
	"may": "05", "jun": "06", "jul": "07", "ago": "08",
	"sep": "09", "oct": "10", "nov": "11", "dic": "12",
}

// APIDate normalizes a date to DD-MM-YYYY. Accepted inputs are DD-MM-YYYY,
// YYYY-MM-DD and D-Mmm-YY with Spanish month abbreviations ("28-Ene-26").
// Anything else yields now's date and ok == false.
func APIDate(raw string, now time.Time) (date string, ok bool) {
	raw = strings.TrimSpace(raw)

	if dayMonthYear.MatchString(raw) {
		return raw, true
	}

	if m := isoDate.FindStringSubmatch(raw); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], true
	}

	if m := shortMonthDay.FindStringSubmatch(raw); m != nil {
		if month, found := spanishMonths[strings.ToLower(m[2])]; found {
			day := m[1]
			if len(day) == 1 {
				day = "0" + day
			}
			return day + "-" + month + "-20" + m[3], true
		}
	}

	return now.Format("02-01-2006"), false
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases text, turns whitespace runs into hyphens and strips
// diacritics: "Santa Marta" → "santa-marta", "Bogotá" → "bogota".
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return StripAccents(s)
}

// StripAccents removes combining marks after canonical decomposition.
func StripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// DisplayPlace renders a place identifier for headings: upper case, hyphens
// as spaces.
func DisplayPlace(place string) string {
	return strings.ReplaceAll(strings.ToUpper(place), "-", " ")
}

// Popularity parses an upstream popularity score; missing or bad values count as 0.
func Popularity(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
