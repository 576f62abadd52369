package workday

import (
	"regexp"
	"strings"

	"coursecal/internal/model"
)

// timeRangeRe matches "<time> - <time>" in a single pass; both halves are
// re-parsed by ParseTime.
var timeRangeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[AP]M)\s*-\s*(\d{1,2}:\d{2}\s*[AP]M)`)

func splitTimeRange(s string) (start, end string) {
	m := timeRangeRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// ParseMeetingPatterns turns one meeting-pattern field into structured
// patterns. The field holds one or more semicolon-separated sub-patterns,
// each a pipe-delimited triplet: days, time range, location. Segments
// beyond the third within a triplet are ignored.
//
// A triplet is emitted only if it yields at least one weekday and both
// times parse with start before end; anything else degrades silently to
// no pattern. An unusable field is not an error, just a course with no
// recurrence.
func ParseMeetingPatterns(field string) []model.MeetingPattern {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}

	var patterns []model.MeetingPattern
	for _, sub := range strings.Split(field, ";") {
		segs := strings.Split(sub, "|")
		if len(segs) < 3 {
			continue
		}
		for i := range segs {
			segs[i] = strings.TrimSpace(segs[i])
		}

		days := ParseDays(segs[0])

		startRaw, endRaw := splitTimeRange(segs[1])
		start, startOK := ParseTime(startRaw)
		end, endOK := ParseTime(endRaw)

		location, room := ParseLocation(segs[2])

		if len(days) == 0 || !startOK || !endOK {
			continue
		}
		if !start.Before(end) {
			continue
		}

		patterns = append(patterns, model.MeetingPattern{
			Days:      days,
			StartTime: start,
			EndTime:   end,
			Location:  location,
			Room:      room,
		})
	}
	return patterns
}
