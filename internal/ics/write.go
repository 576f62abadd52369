// Package ics serializes synthesized calendar events into an iCalendar
// document. The export carries no timezone, so DTSTART/DTEND are written
// as floating local date-times (no TZID, no UTC marker).
package ics

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	ical "github.com/arran4/golang-ical"

	"coursecal/internal/model"
)

const prodID = "-//coursecal//Course Schedule//EN"

// floatingLayout formats a naive local date-time per RFC 5545 form 1.
const floatingLayout = "20060102T150405"

// Write serializes the event list as a VCALENDAR to w. name becomes the
// calendar display name. A serialization failure is fatal for the whole
// conversion; the document is atomic.
func Write(w io.Writer, events []model.CalendarEvent, name string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		if ev.UID == "" {
			return fmt.Errorf("event %q at %s has no UID", ev.Title, ev.Start)
		}

		e := cal.AddEvent(ev.UID)
		e.SetProperty(ical.ComponentPropertyDtStart, ev.Start.Format(floatingLayout))
		e.SetProperty(ical.ComponentPropertyDtEnd, ev.End.Format(floatingLayout))
		// DTSTAMP derives from the event start so output is reproducible.
		e.SetProperty(ical.ComponentPropertyDtstamp, ev.Start.UTC().Format(floatingLayout)+"Z")
		e.SetSummary(ev.Title)
		if ev.Location != "" {
			e.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			e.SetDescription(ev.Description)
		}
		if len(ev.Categories) > 0 {
			e.SetProperty(ical.ComponentPropertyCategories, strings.Join(ev.Categories, ","))
		}
		if ev.Status != "" {
			e.SetProperty(ical.ComponentPropertyStatus, ev.Status)
		}
	}

	return cal.SerializeTo(w)
}

// Encode is Write into a byte slice.
func Encode(events []model.CalendarEvent, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, events, name); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
