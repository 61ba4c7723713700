package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	defaultIterations  = 2000
	defaultSize        = 4 << 10
	defaultAllocator   = "default"
	defaultProfileAddr = ":6060"
	defaultTracePath   = "./trace.out"
)

var errInvalidConfig = errors.New("invalid config")

// ProfilingConfig specifies profiling options for a benchmark run.
type ProfilingConfig struct {
	// EnableProfiling starts an HTTP server with pprof endpoints for the
	// duration of the run.
	EnableProfiling bool `toml:"enable" yaml:"enable"`

	// ProfileAddr is the listen address of the pprof server.
	// Defaults to ":6060"; use "localhost:6060" to restrict to local access.
	ProfileAddr string `toml:"addr" yaml:"addr"`

	// Trace records an execution trace to TraceOutputPath.
	Trace bool `toml:"trace" yaml:"trace"`

	// TraceOutputPath defaults to "./trace.out".
	TraceOutputPath string `toml:"trace_path" yaml:"trace_path"`
}

// Config describes one benchmark run.
type Config struct {
	// Iterations is how many times each scenario runs per side.
	Iterations int `toml:"iterations" yaml:"iterations"`

	// Size is the payload length in bytes.
	Size int `toml:"size" yaml:"size"`

	// Allocator selects the heap source for DynStrings: "default",
	// "recycling" or "tracking".
	Allocator string `toml:"allocator" yaml:"allocator"`

	// Scenarios restricts the run to the named scenarios; empty runs all.
	Scenarios []string `toml:"scenarios" yaml:"scenarios"`

	Profiling ProfilingConfig `toml:"profiling" yaml:"profiling"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	return Config{
		Iterations: defaultIterations,
		Size:       defaultSize,
		Allocator:  defaultAllocator,
	}
}

// loadConfig reads a run configuration from path, choosing the decoder by
// file extension. An empty path yields the defaults. Fields missing from the
// file keep their default values.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", errInvalidConfig, ext)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in values left empty.
func (c *Config) applyDefaults() {
	if c.Allocator == "" {
		c.Allocator = defaultAllocator
	}
	if c.Profiling.EnableProfiling && c.Profiling.ProfileAddr == "" {
		c.Profiling.ProfileAddr = defaultProfileAddr
	}
	if c.Profiling.Trace && c.Profiling.TraceOutputPath == "" {
		c.Profiling.TraceOutputPath = defaultTracePath
	}
}

// validate reports the first problem found in c.
func (c *Config) validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", errInvalidConfig, c.Iterations)
	}
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", errInvalidConfig, c.Size)
	}
	switch c.Allocator {
	case "default", "recycling", "tracking":
	default:
		return fmt.Errorf("%w: unknown allocator %q", errInvalidConfig, c.Allocator)
	}
	for _, name := range c.Scenarios {
		if _, ok := lookupScenario(name); !ok {
			return fmt.Errorf("%w: unknown scenario %q", errInvalidConfig, name)
		}
	}
	return nil
}
