// Package pipeline runs the full conversion: acquire export, parse table,
// synthesize recurring events, serialize the calendar document.
package pipeline

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"coursecal/internal/config"
	"coursecal/internal/ics"
	"coursecal/internal/model"
	"coursecal/internal/schedule"
	"coursecal/internal/source"
	"coursecal/internal/workday"
)

// Result is one full conversion outcome. Warnings never alter the data;
// they only inform.
type Result struct {
	Data     *model.ParsedCourseData
	Warnings []workday.Warning
	Events   []model.CalendarEvent
	ICS      []byte
}

// Pipeline wires the converter stages together. The whole run is a pure,
// synchronous transform over in-memory data; only input acquisition
// touches the outside world.
type Pipeline struct {
	loader  *source.Loader
	parser  *workday.Parser
	synth   *schedule.Synthesizer
	input   string
	calName string
	logger  *zap.Logger
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		loader: source.NewLoader(logger, cfg.CacheDir),
		parser: workday.NewParser(logger, workday.ParserConfig{
			DataOffset:   cfg.DataOffset,
			MinRowFields: cfg.MinRowFields,
		}),
		synth:   schedule.NewSynthesizer(logger),
		input:   cfg.Input,
		calName: cfg.CalendarName,
		logger:  logger,
	}
}

// Run executes one conversion. The result is best-effort over defective
// rows and patterns; only input acquisition, CSV decoding and calendar
// serialization can fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	raw, err := p.loader.Load(ctx, p.input)
	if err != nil {
		return nil, err
	}

	data, warnings, err := p.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	events := p.synth.Events(data.Courses)

	doc, err := ics.Encode(events, p.calName)
	if err != nil {
		return nil, err
	}

	p.logger.Info("conversion complete",
		zap.String("student", data.StudentInfo.Name),
		zap.Int("courses", len(data.Courses)),
		zap.Int("events", len(events)),
		zap.Int("warnings", len(warnings)),
	)

	return &Result{
		Data:     data,
		Warnings: warnings,
		Events:   events,
		ICS:      doc,
	}, nil
}
