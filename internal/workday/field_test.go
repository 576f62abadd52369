package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coursecal/internal/model"
)

type parseTimeTest struct {
	name  string
	input string
	want  model.WallClock
	ok    bool
}

var parseTimeTests = []parseTimeTest{
	{"midnight", "12:00 AM", model.WallClock{Hour: 0, Minute: 0}, true},
	{"noon", "12:00 PM", model.WallClock{Hour: 12, Minute: 0}, true},
	{"afternoon", "1:05 PM", model.WallClock{Hour: 13, Minute: 5}, true},
	{"morning", "10:00 AM", model.WallClock{Hour: 10, Minute: 0}, true},
	{"lowercase meridiem", "2:30 pm", model.WallClock{Hour: 14, Minute: 30}, true},
	{"surrounding whitespace", "  9:15 AM  ", model.WallClock{Hour: 9, Minute: 15}, true},
	{"no meridiem", "14:30", model.WallClock{}, false},
	{"out of range minute", "2:75 PM", model.WallClock{}, false},
	{"garbage", "see instructor", model.WallClock{}, false},
	{"empty", "", model.WallClock{}, false},
}

func TestParseTime(t *testing.T) {
	for _, tt := range parseTimeTests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type parseDateTest struct {
	name  string
	input string
	want  time.Time
	ok    bool
}

var parseDateTests = []parseDateTest{
	{"us short", "1/13/2025", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), true},
	{"us padded", "05/02/2025", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), true},
	{"two digit year", "1/13/25", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), true},
	{"iso fallback", "2025-05-02", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), true},
	{"month out of range", "13/13/2025", time.Time{}, false},
	{"day out of range", "2/30/2025", time.Time{}, false},
	{"garbage", "TBD", time.Time{}, false},
	{"empty", "", time.Time{}, false},
}

func TestParseDate(t *testing.T) {
	for _, tt := range parseDateTests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			}
		})
	}
}

type parseDaysTest struct {
	name  string
	input string
	want  []string
}

var parseDaysTests = []parseDaysTest{
	{"three days", "Mon/Wed/Fri", []string{"MO", "WE", "FR"}},
	{"two days", "Tue/Thu", []string{"TU", "TH"}},
	{"single day", "Fri", []string{"FR"}},
	{"weekend", "Sat/Sun", []string{"SA", "SU"}},
	{"unknown token dropped", "Mon/Xyz/Fri", []string{"MO", "FR"}},
	{"whitespace tolerated", " Mon / Wed ", []string{"MO", "WE"}},
	{"all unknown", "Lun/Mar", nil},
	{"empty", "", nil},
}

func TestParseDays(t *testing.T) {
	for _, tt := range parseDaysTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDays(tt.input))
		})
	}
}

type parseLocationTest struct {
	name         string
	input        string
	wantLocation string
	wantRoom     string
}

var parseLocationTests = []parseLocationTest{
	{"building and room", "MUSIC CLRM, Room 00102", "MUSIC CLRM", "00102"},
	{"lowercase room label", "SIMON, room 00122", "SIMON", "00122"},
	{"second part without label", "ENGR, Basement 12", "ENGR", "Basement 12"},
	{"bare location", "SIMON", "SIMON", ""},
	{"empty", "", "", ""},
}

func TestParseLocation(t *testing.T) {
	for _, tt := range parseLocationTests {
		t.Run(tt.name, func(t *testing.T) {
			location, room := ParseLocation(tt.input)
			assert.Equal(t, tt.wantLocation, location)
			assert.Equal(t, tt.wantRoom, room)
		})
	}
}
