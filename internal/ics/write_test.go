package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecal/internal/model"
)

func sampleEvents() []model.CalendarEvent {
	return []model.CalendarEvent{
		{
			UID:         "CS-101-MO-20250113@coursecal",
			Title:       "CS 101 - Intro to Computing",
			Start:       time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC),
			End:         time.Date(2025, 1, 13, 10, 50, 0, 0, time.UTC),
			Location:    "ENGR, 100",
			Description: "Course: CS 101 - Intro to Computing\nSection: CS 101-01",
			Categories:  []string{"Course", "CS"},
			Status:      model.EventStatusConfirmed,
		},
		{
			UID:    "MATH-233-TU-20250114@coursecal",
			Title:  "MATH 233 - Calculus III",
			Start:  time.Date(2025, 1, 14, 14, 30, 0, 0, time.UTC),
			End:    time.Date(2025, 1, 14, 15, 50, 0, 0, time.UTC),
			Status: model.EventStatusConfirmed,
		},
	}
}

func TestEncode(t *testing.T) {
	doc, err := Encode(sampleEvents(), "Course Schedule")
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "BEGIN:VCALENDAR")
	assert.Contains(t, s, "END:VCALENDAR")
	assert.Contains(t, s, "PRODID:-//coursecal//Course Schedule//EN")
	assert.Contains(t, s, "METHOD:PUBLISH")
	assert.Contains(t, s, "X-WR-CALNAME:Course Schedule")

	assert.Contains(t, s, "UID:CS-101-MO-20250113@coursecal")
	assert.Contains(t, s, "SUMMARY:CS 101 - Intro to Computing")
	assert.Contains(t, s, "CATEGORIES:Course,CS")
	assert.Contains(t, s, "STATUS:CONFIRMED")
	assert.Contains(t, s, "LOCATION:ENGR")

	// Times are floating local wall-clock, no UTC marker.
	assert.Contains(t, s, "DTSTART:20250113T100000")
	assert.Contains(t, s, "DTEND:20250113T105000")
	assert.NotContains(t, s, "DTSTART:20250113T100000Z")
	assert.NotContains(t, s, "DTEND:20250113T105000Z")
}

func TestEncodeOmitsEmptyOptionalFields(t *testing.T) {
	events := sampleEvents()[1:]
	doc, err := Encode(events, "Course Schedule")
	require.NoError(t, err)

	s := string(doc)
	assert.NotContains(t, s, "LOCATION")
	assert.NotContains(t, s, "DESCRIPTION")
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := Encode(sampleEvents(), "Course Schedule")
	require.NoError(t, err)
	second, err := Encode(sampleEvents(), "Course Schedule")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeRejectsMissingUID(t *testing.T) {
	events := sampleEvents()
	events[0].UID = ""

	_, err := Encode(events, "Course Schedule")
	assert.Error(t, err)
}

func TestEncodeEmptyEventList(t *testing.T) {
	doc, err := Encode(nil, "Course Schedule")
	require.NoError(t, err)
	assert.Contains(t, string(doc), "BEGIN:VCALENDAR")
	assert.NotContains(t, string(doc), "BEGIN:VEVENT")
}
