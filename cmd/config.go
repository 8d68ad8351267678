package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/seat-predictor/seat-predictor/seat/pipeline"
	"github.com/seat-predictor/seat-predictor/seat/trace"
)

// Config represents the full pipeline.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string        `yaml:"version"`
	Inputs  InputsConfig  `yaml:"inputs"`
	Outputs OutputsConfig `yaml:"outputs"`
	Serve   ServeConfig   `yaml:"serve"`
	Trace   string        `yaml:"trace"`
}

// InputsConfig names the three round files.
type InputsConfig struct {
	R1 string `yaml:"r1"`
	R2 string `yaml:"r2"`
	R3 string `yaml:"r3"`
}

// OutputsConfig names the pipeline artifacts.
type OutputsConfig struct {
	Final        string `yaml:"final"`
	Normalized   string `yaml:"normalized"`
	Table        string `yaml:"table"`
	MalformedLog string `yaml:"malformed_log"`
}

// ServeConfig configures the query side.
type ServeConfig struct {
	Table   string `yaml:"table"`
	AuditDB string `yaml:"audit_db"` // empty disables auditing
	Watch   bool   `yaml:"watch"`
}

// defaultConfig mirrors the file names the pipeline uses when no config file exists.
func defaultConfig() Config {
	p := pipeline.DefaultPaths(".")
	return Config{
		Version: "1",
		Inputs:  InputsConfig{R1: p.R1, R2: p.R2, R3: p.R3},
		Outputs: OutputsConfig{
			Final: p.Final, Normalized: p.Normalized,
			Table: p.Table, MalformedLog: p.MalformedLog,
		},
		Serve: ServeConfig{Table: p.Table},
		Trace: string(trace.LevelDecisions),
	}
}

// loadConfig parses a pipeline.yaml with strict field checking. Fields the
// file omits keep their defaults. A missing file is an error only when
// required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			logrus.Debugf("No config at %s; using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if !trace.IsValidLevel(cfg.Trace) {
		return Config{}, fmt.Errorf("config %s: unknown trace level %q; valid: none, decisions", path, cfg.Trace)
	}
	return cfg, nil
}

// Paths converts the config to pipeline paths.
func (c Config) Paths() pipeline.Paths {
	return pipeline.Paths{
		R1: c.Inputs.R1, R2: c.Inputs.R2, R3: c.Inputs.R3,
		Final:        c.Outputs.Final,
		Normalized:   c.Outputs.Normalized,
		Table:        c.Outputs.Table,
		MalformedLog: c.Outputs.MalformedLog,
	}
}
