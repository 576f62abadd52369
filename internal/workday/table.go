// Package workday parses the semi-structured CSV schedule export into a
// normalized course model. Every field parser degrades to "no value" on
// malformed input; only a CSV decode failure aborts a parse.
package workday

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"coursecal/internal/model"
)

const (
	// defaultDataOffset is the row index where both the student identity
	// line and the course rows begin in the export.
	defaultDataOffset = 3

	// defaultMinRowFields is the number of ordered fields a course row
	// must carry to be parseable.
	defaultMinRowFields = 14
)

// Warning records a row-scoped problem that was skipped over. Warnings
// inform; they never alter the returned data.
type Warning struct {
	// Row is the 1-based row number in the export.
	Row     int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// ParserConfig tunes the table parser for export-layout variations.
type ParserConfig struct {
	// DataOffset overrides the row index where data begins (default 3).
	DataOffset int
	// MinRowFields overrides the minimum course-row field count (default 14).
	MinRowFields int
}

// Parser decodes a full schedule export. One malformed row never aborts
// the batch: bad rows become warnings and the parse continues.
type Parser struct {
	logger     *zap.Logger
	dataOffset int
	minFields  int
}

// NewParser creates a table parser. A nil logger disables logging.
func NewParser(logger *zap.Logger, cfg ParserConfig) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DataOffset <= 0 {
		cfg.DataOffset = defaultDataOffset
	}
	if cfg.MinRowFields <= 0 {
		cfg.MinRowFields = defaultMinRowFields
	}
	return &Parser{
		logger:     logger,
		dataOffset: cfg.DataOffset,
		minFields:  cfg.MinRowFields,
	}
}

// Parse decodes the export and returns the course data, the warnings
// accumulated along the way, and an error only if the CSV itself cannot
// be decoded. Course order follows row order.
func (p *Parser) Parse(r io.Reader) (*model.ParsedCourseData, []Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // metadata rows above the data offset are ragged
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("decode schedule export: %w", err)
	}

	studentLine := ""
	if len(rows) > p.dataOffset && len(rows[p.dataOffset]) > 0 {
		studentLine = rows[p.dataOffset][0]
	}
	info := ExtractStudentInfo(studentLine)
	if info == model.UnknownStudent() && studentLine != "" {
		p.logger.Warn("student identity line did not match expected shape")
	}

	courses := make([]model.Course, 0)
	var warnings []Warning

	for i := p.dataOffset; i < len(rows); i++ {
		row := rows[i]

		// Rows without a populated listing field are expected blank
		// continuation rows; skip without a warning.
		if len(row) <= colListing || strings.TrimSpace(row[colListing]) == "" {
			continue
		}

		course, err := parseCourseRow(row, p.minFields)
		if err != nil {
			w := Warning{Row: i + 1, Message: err.Error()}
			warnings = append(warnings, w)
			p.logger.Warn("skipping malformed course row",
				zap.Int("row", w.Row),
				zap.String("reason", w.Message),
			)
			continue
		}
		if course == nil {
			continue
		}
		courses = append(courses, *course)
	}

	p.logger.Info("schedule export parsed",
		zap.Int("rows", len(rows)),
		zap.Int("courses", len(courses)),
		zap.Int("warnings", len(warnings)),
	)

	return &model.ParsedCourseData{Courses: courses, StudentInfo: info}, warnings, nil
}
