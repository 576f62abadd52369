// Package schedule expands a course's weekly meeting patterns into concrete
// dated calendar events bounded by the course term.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"coursecal/internal/model"
	"coursecal/internal/workday"
)

// defaultMaxEventsPerWeekday caps the weekly expansion of one (pattern,
// weekday) pair. A term is at most a few dozen weeks; the cap is a
// termination backstop, not an expected limit.
const defaultMaxEventsPerWeekday = 500

var weekdayByCode = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// Synthesizer turns parsed courses into calendar event instances.
type Synthesizer struct {
	logger    *zap.Logger
	maxEvents int
}

// NewSynthesizer creates a Synthesizer. A nil logger disables logging.
func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		logger:    logger,
		maxEvents: defaultMaxEventsPerWeekday,
	}
}

// Events expands every course into its dated event instances. Courses or
// patterns with unusable days, times or dates contribute zero events; the
// only surfaced signal is a warning for date-parse failures.
func (s *Synthesizer) Events(courses []model.Course) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, course := range courses {
		out = append(out, s.courseEvents(course)...)
	}
	return out
}

func (s *Synthesizer) courseEvents(course model.Course) []model.CalendarEvent {
	var out []model.CalendarEvent

	for _, pattern := range course.MeetingPatterns {
		if len(pattern.Days) == 0 {
			continue
		}

		termStart, startOK := workday.ParseDate(course.StartDate)
		termEnd, endOK := workday.ParseDate(course.EndDate)
		if !startOK || !endOK {
			s.logger.Warn("course term dates did not parse, no events synthesized",
				zap.String("course", course.ID),
				zap.String("start_date", course.StartDate),
				zap.String("end_date", course.EndDate),
			)
			continue
		}
		if termEnd.Before(termStart) {
			s.logger.Warn("course term ends before it starts, no events synthesized",
				zap.String("course", course.ID),
				zap.String("start_date", course.StartDate),
				zap.String("end_date", course.EndDate),
			)
			continue
		}

		for _, code := range pattern.Days {
			out = append(out, s.weekdayEvents(course, pattern, code, termStart, termEnd)...)
		}
	}

	return out
}

// weekdayEvents emits one event per week for a single weekday of a
// pattern. The WEEKLY rule anchors on the first matching weekday on or
// after term start and runs through term end inclusive.
func (s *Synthesizer) weekdayEvents(course model.Course, pattern model.MeetingPattern, code string, termStart, termEnd time.Time) []model.CalendarEvent {
	wd, ok := weekdayByCode[code]
	if !ok {
		return nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  1,
		Byweekday: []rrule.Weekday{wd},
		Dtstart:   pattern.StartTime.On(termStart),
		Until:     pattern.StartTime.On(termEnd),
	})
	if err != nil {
		s.logger.Warn("building weekly rule failed",
			zap.String("course", course.ID),
			zap.String("weekday", code),
			zap.Error(err),
		)
		return nil
	}

	var out []model.CalendarEvent
	next := rule.Iterator()
	for {
		start, ok := next()
		if !ok {
			break
		}
		if len(out) >= s.maxEvents {
			s.logger.Warn("weekly expansion truncated",
				zap.String("course", course.ID),
				zap.String("weekday", code),
				zap.Int("cap", s.maxEvents),
			)
			break
		}
		out = append(out, s.makeEvent(course, pattern, code, start))
	}
	return out
}

func (s *Synthesizer) makeEvent(course model.Course, pattern model.MeetingPattern, code string, start time.Time) model.CalendarEvent {
	subject := course.ID
	if i := strings.Index(course.ID, " "); i >= 0 {
		subject = course.ID[:i]
	}

	location := ""
	switch {
	case pattern.Location != "" && pattern.Room != "":
		location = pattern.Location + ", " + pattern.Room
	case pattern.Location != "":
		location = pattern.Location
	case pattern.Room != "":
		location = pattern.Room
	}

	description := strings.Join([]string{
		"Course: " + course.ID + " - " + course.Title,
		"Section: " + course.Section,
		"Instructor: " + course.Instructor,
		fmt.Sprintf("Credit Hours: %g", course.CreditHours),
		"Format: " + course.InstructionalFormat,
		"Delivery: " + course.DeliveryMode,
	}, "\n")

	// Deterministic UID so repeated runs produce byte-identical output.
	uid := fmt.Sprintf("%s-%s-%s@coursecal",
		strings.ReplaceAll(course.ID, " ", "-"),
		code,
		start.Format("20060102T150405"),
	)

	return model.CalendarEvent{
		UID:         uid,
		Title:       course.ID + " - " + course.Title,
		Start:       start,
		End:         pattern.EndTime.On(start),
		Location:    location,
		Description: description,
		Categories:  []string{"Course", subject},
		Status:      model.EventStatusConfirmed,
	}
}
