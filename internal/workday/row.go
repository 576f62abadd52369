package workday

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coursecal/internal/model"
)

// Fixed column layout of a course row in the export.
const (
	colListing      = 1
	colCreditHours  = 4
	colGradingBasis = 5
	colSection      = 6
	colRegStatus    = 7
	colFormat       = 8
	colDeliveryMode = 9
	colMeetings     = 10
	colInstructor   = 11
	colStartDate    = 12
	colEndDate      = 13
)

// listingRe matches "<subject+number> - <title>", e.g. "CS 101 - Intro to
// Computing". Rows whose listing field has another shape are not courses.
var listingRe = regexp.MustCompile(`^([A-Z\s]+\s+\d+)\s*-\s*(.+)$`)

// parseCourseRow maps one export row onto a Course. It returns (nil, nil)
// for rows whose listing field is blank (continuation rows) and an error
// for rows that claim to be courses but are malformed; the table parser
// turns those errors into warnings.
func parseCourseRow(row []string, minFields int) (*model.Course, error) {
	if len(row) < minFields {
		return nil, fmt.Errorf("row has %d fields, want at least %d", len(row), minFields)
	}

	listing := strings.TrimSpace(row[colListing])
	if listing == "" {
		return nil, nil
	}

	m := listingRe.FindStringSubmatch(listing)
	if m == nil {
		return nil, fmt.Errorf("course listing %q does not match \"<subject number> - <title>\"", listing)
	}

	credit, err := strconv.ParseFloat(strings.TrimSpace(row[colCreditHours]), 64)
	if err != nil || credit < 0 {
		credit = 0
	}

	return &model.Course{
		ID:                  strings.TrimSpace(m[1]),
		Title:               strings.TrimSpace(m[2]),
		Section:             row[colSection],
		CreditHours:         credit,
		GradingBasis:        row[colGradingBasis],
		RegistrationStatus:  row[colRegStatus],
		InstructionalFormat: row[colFormat],
		DeliveryMode:        row[colDeliveryMode],
		MeetingPatterns:     ParseMeetingPatterns(row[colMeetings]),
		Instructor:          row[colInstructor],
		StartDate:           row[colStartDate],
		EndDate:             row[colEndDate],
	}, nil
}

// studentRe matches the identity line, e.g.
// "Doe, Jane (517853) - McKelvey School of Engineering/Undergraduate - ...".
var studentRe = regexp.MustCompile(`^([^(]+)\s*\((\d+)\)\s*-\s*([^/]+)/(.+?)\s*-`)

// ExtractStudentInfo pulls the student identity summary out of the
// composite header line. A line that does not match the expected shape
// yields the unknown-student sentinel; this never fails the parse.
func ExtractStudentInfo(line string) model.StudentInfo {
	m := studentRe.FindStringSubmatch(line)
	if m == nil {
		return model.UnknownStudent()
	}

	// The program segment may carry trailing " - " sections; keep the first.
	program := strings.TrimSpace(strings.Split(m[4], " - ")[0])

	return model.StudentInfo{
		Name:    strings.TrimSpace(m[1]),
		ID:      m[2],
		School:  strings.TrimSpace(m[3]),
		Program: program,
	}
}
