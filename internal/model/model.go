package model

import "time"

// MeetingPattern is one recurring weekly time slot belonging to a course:
// a set of weekdays, a start/end wall-clock time and an optional location.
type MeetingPattern struct {
	// Days holds two-letter weekday codes (MO..SU) in the order they were
	// listed in the export.
	Days []string

	// StartTime / EndTime are minutes-resolution wall-clock times on the
	// meeting day. Invariant: when Days is non-empty, StartTime < EndTime.
	StartTime WallClock
	EndTime   WallClock

	Location string
	Room     string
}

// WallClock is a naive local time of day. The export carries no timezone,
// so every instant in this system is a floating local time.
type WallClock struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// Before reports whether w is strictly earlier in the day than other.
func (w WallClock) Before(other WallClock) bool {
	if w.Hour != other.Hour {
		return w.Hour < other.Hour
	}
	return w.Minute < other.Minute
}

// On combines the wall-clock time with a calendar date.
func (w WallClock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), w.Hour, w.Minute, 0, 0, date.Location())
}

// Course is one normalized row of the schedule export.
type Course struct {
	ID    string // e.g. "CS 101"
	Title string // e.g. "Intro to Computing"

	Section             string
	CreditHours         float64
	GradingBasis        string
	RegistrationStatus  string
	InstructionalFormat string
	DeliveryMode        string

	MeetingPatterns []MeetingPattern

	Instructor string

	// StartDate / EndDate are kept as the raw strings from the export.
	// They are resolved by the date parser at synthesis time; a course
	// whose dates do not parse is still a valid course, it just yields
	// no events.
	StartDate string
	EndDate   string
}

// StudentInfo is the identity summary extracted once per export.
type StudentInfo struct {
	Name    string
	ID      string
	School  string
	Program string
}

// UnknownStudent is the sentinel used when the identity line does not
// match the expected shape. Parsing never fails over student info.
func UnknownStudent() StudentInfo {
	return StudentInfo{Name: "Unknown Student"}
}

// ParsedCourseData is the full result of parsing one export.
type ParsedCourseData struct {
	// Courses preserves input row order.
	Courses     []Course
	StudentInfo StudentInfo
}

// CalendarEvent is a single dated instance of a course meeting, ready for
// serialization. One event exists per (course, pattern, weekday, week).
type CalendarEvent struct {
	UID         string
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	Categories  []string
	Status      string
}

// EventStatusConfirmed is the fixed status stamped on every synthesized event.
const EventStatusConfirmed = "CONFIRMED"
