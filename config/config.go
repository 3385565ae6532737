// Package config loads service configuration from a yaml or json file with
// environment-variable overrides (CP_ prefix, "__" as the key separator).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/buildsite/crewplan/infra/metrics"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Data     DataConfig     `json:"data"`
	Schedule ScheduleConfig `json:"schedule"`
	Metrics  metrics.Config `json:"metrics"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig configures the HTTP dashboard server.
type ServerConfig struct {
	Addr string `json:"addr"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// DataConfig names the bundled input files. The CSV is required; missing or
// unreadable PDFs only suppress drawing notes.
type DataConfig struct {
	CSVPath        string `json:"csv_path"`
	DemolitionPDF  string `json:"demolition_pdf"`
	FabricationPDF string `json:"fabrication_pdf"`
}

func (c DataConfig) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("data.csv_path is required")
	}
	return nil
}

// ScheduleConfig holds the default scheduling parameters; each request may
// override them.
type ScheduleConfig struct {
	// LabourCap is the default daily worker limit; 0 disables leveling.
	LabourCap int `json:"labour_cap"`
	// TargetDays is the default target project duration; 0 means none.
	TargetDays int `json:"target_days"`
}

func (c ScheduleConfig) Validate() error {
	if c.LabourCap < 0 {
		return fmt.Errorf("schedule.labour_cap must not be negative")
	}
	if c.TargetDays < 0 {
		return fmt.Errorf("schedule.target_days must not be negative")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
