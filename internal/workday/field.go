package workday

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"coursecal/internal/model"
)

// The export encodes times as "2:30 PM" style 12-hour clock strings.
var timeRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*([AP]M)`)

// ParseTime extracts a wall-clock time from a 12-hour clock string.
// Malformed input is reported as ok=false, never as an error; callers
// treat absence as "pattern unusable".
func ParseTime(s string) (model.WallClock, bool) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return model.WallClock{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return model.WallClock{}, false
	}

	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	return model.WallClock{Hour: hour, Minute: minute}, true
}

// dateLayouts are tried in order. The export mostly uses US-style numeric
// dates with 2- or 4-digit years; ISO is the generic fallback.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01/02/06",
	"2006-01-02",
}

// ParseDate resolves a date string against the known layouts, returning
// the first valid calendar date. time.Parse rejects out-of-range
// components, so no layout can smuggle through a month 13.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dayCodes maps the export's 3-letter day abbreviations to the 2-letter
// weekday codes used for recurrence alignment.
var dayCodes = map[string]string{
	"Mon": "MO",
	"Tue": "TU",
	"Wed": "WE",
	"Thu": "TH",
	"Fri": "FR",
	"Sat": "SA",
	"Sun": "SU",
}

// ParseDays splits a "Mon/Wed/Fri" style list into weekday codes,
// preserving encounter order. Unrecognized tokens are dropped silently.
func ParseDays(s string) []string {
	var days []string
	for _, tok := range strings.Split(s, "/") {
		if code, ok := dayCodes[strings.TrimSpace(tok)]; ok {
			days = append(days, code)
		}
	}
	return days
}

var roomLabelRe = regexp.MustCompile(`(?i)^Room\s+(.+)$`)

// ParseLocation splits a "MUSIC CLRM, Room 00102" style field into a
// building and a room, stripping the "Room" label when present. A field
// with no comma is a bare location; an empty field yields nothing.
func ParseLocation(s string) (location, room string) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 {
		location = parts[0]
		room = parts[1]
		if m := roomLabelRe.FindStringSubmatch(parts[1]); m != nil {
			room = m[1]
		}
		return location, room
	}
	if len(parts) == 1 && parts[0] != "" {
		return parts[0], ""
	}
	return "", ""
}
