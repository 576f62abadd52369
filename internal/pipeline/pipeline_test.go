package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"coursecal/internal/config"
)

const exportCSV = `My Enrolled Courses,,,,,,,,,,,,,
,,,,,,,,,,,,,
Student,Course Listing,A,B,Units,Grading Basis,Section,Registration Status,Instructional Format,Delivery Mode,Meeting Patterns,Instructor,Start Date,End Date
"Doe, Jane (517853) - McKelvey School of Engineering/Undergraduate - Degree Seeking - Active","CS 101 - Intro to Computing",,,3,Graded,CS 101-01,Registered,Lecture,In-Person,"Mon/Wed | 10:00 AM - 10:50 AM | ENGR, Room 100",Alan Turing,1/13/2025,5/2/2025
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(input, []byte(exportCSV), 0o600))

	cfg := config.DefaultConfig()
	cfg.Input = input
	cfg.CacheDir = filepath.Join(dir, "cache")
	return cfg
}

func TestRun(t *testing.T) {
	p := New(testConfig(t), zaptest.NewLogger(t))

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	require.Len(t, res.Data.Courses, 1)
	assert.Equal(t, "CS 101", res.Data.Courses[0].ID)
	assert.Equal(t, "Doe, Jane", res.Data.StudentInfo.Name)

	// Mon/Wed across a 16-week term.
	assert.Len(t, res.Events, 32)

	assert.Contains(t, string(res.ICS), "BEGIN:VCALENDAR")
	assert.Contains(t, string(res.ICS), "SUMMARY:CS 101 - Intro to Computing")
}

func TestRunIdempotent(t *testing.T) {
	p := New(testConfig(t), zaptest.NewLogger(t))

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, first.ICS, second.ICS)
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input = filepath.Join(t.TempDir(), "missing.csv")

	p := New(cfg, zaptest.NewLogger(t))
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}
