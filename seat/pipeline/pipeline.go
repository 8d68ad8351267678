// Package pipeline runs the batch stages end to end: load rounds, reconcile,
// normalize, build the inference table. Each stage completes and writes its
// artifact before the next starts.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seat-predictor/seat-predictor/seat"
	"github.com/seat-predictor/seat-predictor/seat/inference"
	"github.com/seat-predictor/seat-predictor/seat/trace"
)

// Paths locates the pipeline's inputs and outputs.
type Paths struct {
	R1, R2, R3   string
	Final        string // final_seat_allocation.csv
	Normalized   string // fully_normalized.csv
	Table        string // inference_table.csv
	MalformedLog string // malformed_rows.log
}

// DefaultPaths places inputs and artifacts under dir using the standard names.
func DefaultPaths(dir string) Paths {
	return Paths{
		R1:           filepath.Join(dir, "R1.csv"),
		R2:           filepath.Join(dir, "R2.csv"),
		R3:           filepath.Join(dir, "R3.csv"),
		Final:        filepath.Join(dir, seat.FinalAllocationFile),
		Normalized:   filepath.Join(dir, seat.NormalizedFile),
		Table:        filepath.Join(dir, inference.TableFile),
		MalformedLog: filepath.Join(dir, seat.MalformedLogFile),
	}
}

// Validate checks that every path is set.
func (p Paths) Validate() error {
	named := []struct{ name, path string }{
		{"r1", p.R1}, {"r2", p.R2}, {"r3", p.R3},
		{"final", p.Final}, {"normalized", p.Normalized},
		{"table", p.Table}, {"malformed_log", p.MalformedLog},
	}
	for _, n := range named {
		if n.path == "" {
			return fmt.Errorf("pipeline path %q must not be empty", n.name)
		}
	}
	return nil
}

// Pipeline is one configured batch run.
type Pipeline struct {
	Paths      Paths
	TraceLevel trace.Level
}

// New returns a pipeline over paths.
func New(paths Paths) *Pipeline {
	return &Pipeline{Paths: paths, TraceLevel: trace.LevelDecisions}
}

// Report summarizes a completed run.
type Report struct {
	ValidRows      map[seat.Round]int
	MalformedRows  map[seat.Round]int
	DuplicateRanks map[seat.Round]int
	Allocations    int
	TableRows      int
	Trace          *trace.Summary
	Elapsed        time.Duration
}

// LoadRounds reads the three round files concurrently. Any unreadable file
// fails the whole load.
func LoadRounds(paths Paths) (seat.Rounds, error) {
	var rounds seat.Rounds
	var g errgroup.Group
	load := func(dst **seat.RoundTable, schema *seat.Schema, path string) {
		g.Go(func() error {
			t, err := seat.LoadRoundFile(schema, path)
			if err != nil {
				return err
			}
			*dst = t
			return nil
		})
	}
	load(&rounds.R1, seat.R1Schema, paths.R1)
	load(&rounds.R2, seat.R2Schema, paths.R2)
	load(&rounds.R3, seat.R3Schema, paths.R3)
	if err := g.Wait(); err != nil {
		return seat.Rounds{}, err
	}
	return rounds, nil
}

// Run executes every stage. Inputs are all loaded before anything is
// written, so a missing input leaves no artifacts behind.
func (p *Pipeline) Run() (*Report, error) {
	start := time.Now()
	if err := p.Paths.Validate(); err != nil {
		return nil, err
	}

	rounds, err := LoadRounds(p.Paths)
	if err != nil {
		return nil, fmt.Errorf("loading rounds: %w", err)
	}
	report := &Report{
		ValidRows:      map[seat.Round]int{},
		MalformedRows:  map[seat.Round]int{},
		DuplicateRanks: map[seat.Round]int{},
	}
	tables := []*seat.RoundTable{rounds.R1, rounds.R2, rounds.R3}
	for _, t := range tables {
		report.ValidRows[t.Schema.Round] = len(t.Rows)
		report.MalformedRows[t.Schema.Round] = len(t.Malformed)
		report.DuplicateRanks[t.Schema.Round] = len(t.Duplicates)
	}
	if err := seat.AppendMalformedLog(p.Paths.MalformedLog, tables...); err != nil {
		return nil, err
	}

	tr := trace.New(p.TraceLevel)
	allocs := seat.Reconcile(rounds, tr)
	report.Allocations = len(allocs)
	report.Trace = trace.Summarize(tr)
	if err := seat.WriteAllocationsFile(p.Paths.Final, allocs); err != nil {
		return nil, err
	}
	logrus.Infof("Final seat allocation written to %s (%d candidates)", p.Paths.Final, len(allocs))

	normalized := seat.Normalize(allocs)
	if err := seat.WriteNormalizedFile(p.Paths.Normalized, normalized); err != nil {
		return nil, err
	}
	logrus.Infof("Normalized allocation written to %s", p.Paths.Normalized)

	rows := inference.Build(normalized)
	report.TableRows = len(rows)
	if err := inference.SaveTable(p.Paths.Table, rows); err != nil {
		return nil, err
	}
	logrus.Infof("Inference table saved to %s with %d rows.", p.Paths.Table, len(rows))

	report.Elapsed = time.Since(start)
	return report, nil
}
