// Package app wires configuration, ingestion, the scheduling engine and the
// HTTP surface into a runnable service.
package app

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/buildsite/crewplan/config"
	"github.com/buildsite/crewplan/core/ingest"
	"github.com/buildsite/crewplan/core/model"
	"github.com/buildsite/crewplan/core/notes"
	"github.com/buildsite/crewplan/core/schedule"
	"github.com/buildsite/crewplan/infra/logger"
	"github.com/buildsite/crewplan/infra/metrics"
)

// Inputs holds the raw bytes of the current session's input files. They are
// the only state kept between requests; every computation starts from them.
type Inputs struct {
	CSV            []byte
	DemolitionPDF  []byte
	FabricationPDF []byte
}

// Service is the application shell: it holds the current inputs and default
// parameters and recomputes the schedule on every request.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	engine *schedule.Engine

	mu     sync.RWMutex
	inputs Inputs
}

// New creates a Service from the configuration and loads the bundled input
// files. A missing CSV is fatal; missing PDFs only suppress drawing notes.
func New(cfg *config.Config) (*Service, error) {
	if err := cfg.Logging.Apply(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	sink, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc := &Service{
		cfg:    cfg,
		log:    logger.New("service"),
		engine: schedule.NewEngine(logger.New("engine"), sink),
	}
	if err := svc.loadInputs(); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) loadInputs() error {
	csvData, err := os.ReadFile(s.cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("read task csv: %w", err)
	}
	s.inputs.CSV = csvData
	s.inputs.DemolitionPDF = s.readOptional(s.cfg.Data.DemolitionPDF, "demolition")
	s.inputs.FabricationPDF = s.readOptional(s.cfg.Data.FabricationPDF, "fabrication")
	return nil
}

func (s *Service) readOptional(path, kind string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warnf("%s drawing set unavailable, notes omitted: %v", kind, err)
		return nil
	}
	return data
}

// SetInputs replaces any non-nil input with the uploaded bytes.
func (s *Service) SetInputs(csvData, demolition, fabrication []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if csvData != nil {
		s.inputs.CSV = csvData
	}
	if demolition != nil {
		s.inputs.DemolitionPDF = demolition
	}
	if fabrication != nil {
		s.inputs.FabricationPDF = fabrication
	}
}

func (s *Service) snapshot() Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputs
}

// Defaults returns the configured default scheduling parameters.
func (s *Service) Defaults() schedule.Params {
	return schedule.Params{
		LabourCap:  s.cfg.Schedule.LabourCap,
		TargetDays: s.cfg.Schedule.TargetDays,
	}
}

// Compute runs one full recomputation from the current raw inputs: CSV
// parsing, note extraction and the scheduling passes. Ingestion problems
// surface as warnings on the result, never as a failed run.
func (s *Service) Compute(p schedule.Params) (*model.Result, error) {
	in := s.snapshot()

	parsed, err := ingest.ParseCSV(bytes.NewReader(in.CSV))
	if err != nil {
		return nil, fmt.Errorf("parse task csv: %w", err)
	}
	warnings := parsed.Warnings()

	tasks, noteWarnings := s.annotate(parsed.Tasks, in)
	warnings = append(warnings, noteWarnings...)

	res, err := s.engine.Run(tasks, p)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// annotate extracts notes from both drawing sets and attaches them to tasks.
// A corrupt or unreadable PDF degrades to a warning.
func (s *Service) annotate(tasks []model.Task, in Inputs) ([]model.Task, []string) {
	var warnings []string
	all := &notes.Notes{ByGroup: make(map[string][]string)}
	for _, doc := range []struct {
		kind string
		data []byte
	}{
		{"demolition", in.DemolitionPDF},
		{"fabrication", in.FabricationPDF},
	} {
		if len(doc.data) == 0 {
			continue
		}
		text, err := notes.ExtractText(doc.data)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s drawing notes unavailable: %v", doc.kind, err))
			continue
		}
		all.Merge(notes.Parse(text))
	}
	return notes.Attach(tasks, all), warnings
}

// NoteReport lists the general notes found in the drawing sets together with
// best-effort task suggestions.
type NoteReport struct {
	General     []string           `json:"general"`
	Suggestions []notes.Suggestion `json:"suggestions"`
}

// Notes extracts and matches drawing notes from the current inputs.
func (s *Service) Notes() (*NoteReport, error) {
	in := s.snapshot()
	parsed, err := ingest.ParseCSV(bytes.NewReader(in.CSV))
	if err != nil {
		return nil, fmt.Errorf("parse task csv: %w", err)
	}
	all := &notes.Notes{ByGroup: make(map[string][]string)}
	for _, data := range [][]byte{in.DemolitionPDF, in.FabricationPDF} {
		if len(data) == 0 {
			continue
		}
		text, err := notes.ExtractText(data)
		if err != nil {
			s.log.Warnf("drawing notes unavailable: %v", err)
			continue
		}
		all.Merge(notes.Parse(text))
	}
	return &NoteReport{
		General:     all.General,
		Suggestions: notes.Suggest(all.General, parsed.Tasks, 3),
	}, nil
}
