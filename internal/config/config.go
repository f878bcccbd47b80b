package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	pp "github.com/Andrej220/go-utils/prioritypool"

	"gopkg.in/yaml.v3"
)

// Policy kinds accepted in PolicyConfig.Kind.
const (
	PolicyRandom = "random"
	PolicyAging  = "aging"
)

// FileConfig mirrors the on-disk configuration file.
type FileConfig struct {
	Pool   PoolConfig   `yaml:"pool" json:"pool"`
	Demo   DemoConfig   `yaml:"demo" json:"demo"`
	Policy PolicyConfig `yaml:"policy" json:"policy"`

	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
}

// PoolConfig holds the pool options.
type PoolConfig struct {
	Workers    int  `yaml:"workers" json:"workers"`
	PinWorkers bool `yaml:"pin_workers" json:"pin_workers"`
}

// DemoConfig holds the demo workload settings.
type DemoConfig struct {
	Tasks             int    `yaml:"tasks" json:"tasks"`
	RunFor            string `yaml:"run_for" json:"run_for"`
	ReprioritizeAfter string `yaml:"reprioritize_after" json:"reprioritize_after"`
	MaxTaskTime       string `yaml:"max_task_time" json:"max_task_time"`
}

// PolicyConfig selects and tunes the re-prioritization policy.
type PolicyConfig struct {
	Kind string  `yaml:"kind" json:"kind"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
	Seed int64   `yaml:"seed" json:"seed"`
}

// Config is the parsed, validated configuration.
type Config struct {
	Workers    int
	PinWorkers bool

	Tasks             int
	RunFor            time.Duration
	ReprioritizeAfter time.Duration
	MaxTaskTime       time.Duration

	Policy PolicyConfig

	MetricsAddr string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:           pp.DefaultWorkers,
		Tasks:             10,
		RunFor:            5 * time.Second,
		ReprioritizeAfter: 500 * time.Millisecond,
		MaxTaskTime:       900 * time.Millisecond,
		Policy: PolicyConfig{
			Kind: PolicyRandom,
			Max:  100,
		},
	}
}

// LoadFile reads a configuration file. The format is chosen by extension.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToConfig overlays the file settings on Default.
func (f *FileConfig) ToConfig() (Config, error) {
	config := Default()

	if f.Pool.Workers > 0 {
		config.Workers = f.Pool.Workers
	}
	config.PinWorkers = f.Pool.PinWorkers

	if f.Demo.Tasks > 0 {
		config.Tasks = f.Demo.Tasks
	}
	var err error
	if config.RunFor, err = parseDuration(f.Demo.RunFor, config.RunFor); err != nil {
		return config, fmt.Errorf("invalid run_for: %w", err)
	}
	if config.ReprioritizeAfter, err = parseDuration(f.Demo.ReprioritizeAfter, config.ReprioritizeAfter); err != nil {
		return config, fmt.Errorf("invalid reprioritize_after: %w", err)
	}
	if config.MaxTaskTime, err = parseDuration(f.Demo.MaxTaskTime, config.MaxTaskTime); err != nil {
		return config, fmt.Errorf("invalid max_task_time: %w", err)
	}

	if f.Policy.Kind != "" {
		config.Policy.Kind = strings.ToLower(f.Policy.Kind)
	}
	if f.Policy.Max > 0 {
		config.Policy.Max = f.Policy.Max
	}
	config.Policy.Step = f.Policy.Step
	config.Policy.Seed = f.Policy.Seed

	config.MetricsAddr = f.MetricsAddr

	return config, config.Validate()
}

// Validate checks the configuration for values the demo cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}
	if c.Tasks < 0 {
		errs = append(errs, errors.New("tasks must not be negative"))
	}
	if c.RunFor <= 0 {
		errs = append(errs, errors.New("run_for must be positive"))
	}
	if c.MaxTaskTime <= 0 {
		errs = append(errs, errors.New("max_task_time must be positive"))
	}
	switch c.Policy.Kind {
	case PolicyRandom:
		if c.Policy.Max <= 0 {
			errs = append(errs, errors.New("policy max must be positive"))
		}
	case PolicyAging:
		if c.Policy.Step == 0 {
			errs = append(errs, errors.New("aging policy needs a non-zero step"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown policy kind: %q", c.Policy.Kind))
	}
	return errors.Join(errs...)
}

// ToOptions returns the pool options described by c.
func (c Config) ToOptions() pp.Options {
	return pp.Options{
		Workers:    c.Workers,
		PinWorkers: c.PinWorkers,
	}
}

// NewPolicy builds the policy selected by c.Policy.
func (c Config) NewPolicy() pp.Policy {
	switch c.Policy.Kind {
	case PolicyAging:
		return pp.AgingPolicy{Step: c.Policy.Step}
	default:
		return pp.NewRandomPolicy(c.Policy.Max, c.Policy.Seed)
	}
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
