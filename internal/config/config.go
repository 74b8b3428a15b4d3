package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "signal-worker.config.yml"

	// MaxThreads bounds how many targets are evaluated concurrently.
	MaxThreads = 64

	envTargets      = "SIGNAL_WORKER_TARGETS"
	envTargetsFile  = "SIGNAL_WORKER_TARGETS_FILE"
	envSignals      = "SIGNAL_WORKER_SIGNALS"
	envThreads      = "SIGNAL_WORKER_THREADS"
	envOutputDir    = "SIGNAL_WORKER_OUTPUT_DIR"
	envFormats      = "SIGNAL_WORKER_FORMATS"
	envDryRun       = "SIGNAL_WORKER_DRY_RUN"
	envSummaryFile  = "SIGNAL_WORKER_SUMMARY_FILE"
	envMetricsFile  = "SIGNAL_WORKER_METRICS_FILE"
	envTimeout      = "SIGNAL_WORKER_TIMEOUT"
	envMaxBodyBytes = "SIGNAL_WORKER_MAX_BODY_BYTES"
	envUserAgent    = "SIGNAL_WORKER_USER_AGENT"
)

// SupportedFormats lists the artifact formats the scan command can write.
var SupportedFormats = []string{"json", "csv"}

// Loader merges configuration coming from files, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the fully merged settings required by worker sub-commands.
type RuntimeConfig struct {
	Targets      []string
	Signals      []string
	Threads      int
	OutputDir    string
	Formats      []string
	DryRun       bool
	SummaryFile  string
	MetricsFile  string
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Overrides captures values coming from env vars or CLI flags.
type Overrides struct {
	Targets      []string
	TargetsFile  string
	Signals      []string
	Threads      int
	ThreadsSet   bool
	OutputDir    string
	Formats      []string
	DryRun       *bool
	SummaryFile  string
	MetricsFile  string
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// DefaultRuntimeConfig returns the baseline configuration when no overrides are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Threads:      4,
		OutputDir:    "signal-results",
		Formats:      []string{"json"},
		Timeout:      15 * time.Second,
		MaxBodyBytes: 2 * 1024 * 1024,
		UserAgent:    "signal-worker/1.0",
	}
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, err
		}
		if err := cfg.apply(fileOv); err != nil {
			return cfg, err
		}
	}

	envOv, err := overridesFromEnv()
	if err != nil {
		return cfg, err
	}
	if err := cfg.apply(envOv); err != nil {
		return cfg, err
	}

	if err := cfg.apply(override); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate ensures the config contains the minimum required data for scan/init commands.
func (c RuntimeConfig) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("no targets configured; provide --targets, --targets-file, or set " + envTargets)
	}

	if c.Threads < 1 || c.Threads > MaxThreads {
		return fmt.Errorf("threads must be between 1 and %d (got %d)", MaxThreads, c.Threads)
	}

	if len(c.Formats) == 0 {
		return errors.New("at least one output format must be specified")
	}
	for _, f := range c.Formats {
		if !isSupportedFormat(f) {
			return fmt.Errorf("unsupported format %s (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive (got %d)", c.MaxBodyBytes)
	}

	return nil
}

func (c *RuntimeConfig) apply(src Overrides) error {
	if len(src.Targets) > 0 {
		c.Targets = cleanList(src.Targets)
	}

	if src.TargetsFile != "" {
		values, err := readTargetsFile(src.TargetsFile)
		if err != nil {
			return err
		}
		c.Targets = values
	}

	if len(src.Signals) > 0 {
		c.Signals = cleanList(src.Signals)
	}

	if src.ThreadsSet {
		c.Threads = src.Threads
	}

	if src.OutputDir != "" {
		c.OutputDir = src.OutputDir
	}

	if len(src.Formats) > 0 {
		c.Formats = normalizeFormats(src.Formats)
	}

	if src.DryRun != nil {
		c.DryRun = *src.DryRun
	}

	if src.SummaryFile != "" {
		c.SummaryFile = src.SummaryFile
	}

	if src.MetricsFile != "" {
		c.MetricsFile = src.MetricsFile
	}

	if src.Timeout != 0 {
		c.Timeout = src.Timeout
	}

	if src.MaxBodyBytes != 0 {
		c.MaxBodyBytes = src.MaxBodyBytes
	}

	if src.UserAgent != "" {
		c.UserAgent = src.UserAgent
	}

	return nil
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, err
	}

	type rawConfig struct {
		Targets      targetList `yaml:"targets"`
		TargetsFile  string     `yaml:"targetsFile"`
		Signals      targetList `yaml:"signals"`
		Threads      *int       `yaml:"threads"`
		OutputDir    string     `yaml:"outputDir"`
		Formats      []string   `yaml:"formats"`
		DryRun       *bool      `yaml:"dryRun"`
		SummaryFile  string     `yaml:"summaryFile"`
		MetricsFile  string     `yaml:"metricsFile"`
		Timeout      string     `yaml:"timeout"`
		MaxBodyBytes int64      `yaml:"maxBodyBytes"`
		UserAgent    string     `yaml:"userAgent"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, fmt.Errorf("parse %s: %w", path, err)
	}

	over := Overrides{
		Targets:      raw.Targets,
		TargetsFile:  raw.TargetsFile,
		Signals:      raw.Signals,
		OutputDir:    raw.OutputDir,
		Formats:      raw.Formats,
		DryRun:       raw.DryRun,
		SummaryFile:  raw.SummaryFile,
		MetricsFile:  raw.MetricsFile,
		MaxBodyBytes: raw.MaxBodyBytes,
		UserAgent:    raw.UserAgent,
	}

	if raw.Threads != nil {
		over.Threads = *raw.Threads
		over.ThreadsSet = true
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Overrides{}, fmt.Errorf("parse %s: timeout: %w", path, err)
		}
		over.Timeout = d
	}

	return over, nil
}

func overridesFromEnv() (Overrides, error) {
	ov := Overrides{}

	if value := os.Getenv(envTargets); value != "" {
		ov.Targets = ParseTargetsList(value)
	}

	if value := os.Getenv(envTargetsFile); value != "" {
		ov.TargetsFile = value
	}

	if value := os.Getenv(envSignals); value != "" {
		ov.Signals = ParseSignals(value)
	}

	if value := os.Getenv(envThreads); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			ov.Threads = parsed
			ov.ThreadsSet = true
		}
	}

	if value := os.Getenv(envOutputDir); value != "" {
		ov.OutputDir = value
	}

	if value := os.Getenv(envFormats); value != "" {
		ov.Formats = ParseFormats(value)
	}

	if value := os.Getenv(envDryRun); value != "" {
		parsed := strings.EqualFold(value, "true") || value == "1"
		ov.DryRun = &parsed
	}

	if value := os.Getenv(envSummaryFile); value != "" {
		ov.SummaryFile = value
	}

	if value := os.Getenv(envMetricsFile); value != "" {
		ov.MetricsFile = value
	}

	if value := os.Getenv(envTimeout); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return ov, fmt.Errorf("%s: %w", envTimeout, err)
		}
		ov.Timeout = d
	}

	if value := os.Getenv(envMaxBodyBytes); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return ov, fmt.Errorf("%s: %w", envMaxBodyBytes, err)
		}
		ov.MaxBodyBytes = n
	}

	if value := os.Getenv(envUserAgent); value != "" {
		ov.UserAgent = value
	}

	return ov, nil
}

// ParseTargetsList turns comma or newline separated input into individual targets.
func ParseTargetsList(input string) []string {
	return splitOnDelimiters(input, []rune{',', '\n', '\r'})
}

// ParseFormats splits comma separated format strings.
func ParseFormats(input string) []string {
	return normalizeFormats(splitOnDelimiters(input, []rune{',', '\n', '\r', ' '}))
}

// ParseSignals splits comma or space separated signal ids.
func ParseSignals(input string) []string {
	return splitOnDelimiters(input, []rune{',', '\n', '\r', ' '})
}

func normalizeFormats(values []string) []string {
	out := cleanList(values)
	for i, v := range out {
		out[i] = strings.ToLower(v)
	}
	return out
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

func splitOnDelimiters(input string, delims []rune) []string {
	if input == "" {
		return nil
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	separator := func(r rune) bool {
		for _, d := range delims {
			if r == d {
				return true
			}
		}
		return false
	}

	parts := strings.FieldsFunc(trimmed, separator)
	return cleanList(parts)
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		candidate := strings.TrimSpace(v)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

func readTargetsFile(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var targets []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return targets, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// targetList enables YAML fields that can be specified as a scalar or sequence.
type targetList []string

func (t *targetList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, node := range value.Content {
			out = append(out, strings.TrimSpace(node.Value))
		}
		*t = cleanList(out)
	case yaml.ScalarNode:
		*t = ParseTargetsList(value.Value)
	default:
		return fmt.Errorf("unsupported YAML type for list")
	}
	return nil
}
