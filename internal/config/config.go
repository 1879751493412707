// Package config loads tabjson settings from an optional YAML file, a .env
// file, and TABJSON_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/tabjson"
	"github.com/bjaus/tabjson/internal/logging"
)

// Config holds all settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig controls record building.
type ConvertConfig struct {
	// Conflict is "reject" or "last-wins" (env: TABJSON_CONFLICT)
	Conflict string `yaml:"conflict"`

	// Workers bounds concurrent table conversions; 0 means one per CPU (env: TABJSON_WORKERS)
	Workers int `yaml:"workers"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Format is the stdout format: lines, json, jsonl, yaml (env: TABJSON_FORMAT)
	Format string `yaml:"format"`

	// Sheet is the workbook sheet receiving results (env: TABJSON_SHEET)
	Sheet string `yaml:"sheet"`

	// Summary is the run report style: table, markdown, csv, none (env: TABJSON_SUMMARY)
	Summary string `yaml:"summary"`

	// Indent is the number of spaces for json and yaml output (env: TABJSON_INDENT)
	Indent int `yaml:"indent"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn, or error (env: TABJSON_LOG_LEVEL)
	Level string `yaml:"level"`

	// Format is text or json (env: TABJSON_LOG_FORMAT)
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{Conflict: tabjson.ConflictReject.String()},
		Output: OutputConfig{
			Format:  string(tabjson.Lines),
			Sheet:   "JSON",
			Summary: string(tabjson.ReportTable),
		},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the dotenv file at envFile (skipped when missing), and the
// process environment. The result is not validated: callers layer their own
// overrides on top and then call [Config.Validate].
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return env, err
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TABJSON_CONFLICT":   &c.Convert.Conflict,
		"TABJSON_FORMAT":     &c.Output.Format,
		"TABJSON_SHEET":      &c.Output.Sheet,
		"TABJSON_SUMMARY":    &c.Output.Summary,
		"TABJSON_LOG_LEVEL":  &c.Logging.Level,
		"TABJSON_LOG_FORMAT": &c.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"TABJSON_WORKERS": &c.Convert.Workers,
		"TABJSON_INDENT":  &c.Output.Indent,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := tabjson.ParseConflictPolicy(c.Convert.Conflict); err != nil {
		errs = append(errs, err)
	}
	if c.Convert.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Convert.Workers))
	}
	if _, err := tabjson.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := tabjson.ParseReportStyle(c.Output.Summary); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Sheet == "" {
		errs = append(errs, errors.New("output sheet must not be empty"))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		errs = append(errs, fmt.Errorf("indent must be between 0 and 8, got %d", c.Output.Indent))
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Policy returns the parsed conflict policy.
func (c *Config) Policy() tabjson.ConflictPolicy {
	p, _ := tabjson.ParseConflictPolicy(c.Convert.Conflict)
	return p
}

// Format returns the parsed output format.
func (c *Config) Format() tabjson.Format {
	f, _ := tabjson.ParseFormat(c.Output.Format)
	return f
}

// Summary returns the parsed report style.
func (c *Config) Summary() tabjson.ReportStyle {
	s, _ := tabjson.ParseReportStyle(c.Output.Summary)
	return s
}
