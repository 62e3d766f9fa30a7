// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application configuration structures.

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/evolution-gaming/vidmeta/internal/logging"
	"github.com/evolution-gaming/vidmeta/internal/tools"
	"github.com/evolution-gaming/vidmeta/internal/video"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	defaultLogLevel  = "info"
)

// Config represent application configuration.
type Config struct {
	FfprobePath  ConfigVal[string] `json:"ffprobe_path,omitempty" yaml:"ffprobe_path,omitempty"`
	FfprobeArgs  ConfigVal[string] `json:"ffprobe_args,omitempty" yaml:"ffprobe_args,omitempty"`
	CountFrames  ConfigVal[bool]   `json:"count_frames,omitempty" yaml:"count_frames,omitempty"`
	OutputSuffix ConfigVal[string] `json:"output_suffix,omitempty" yaml:"output_suffix,omitempty"`
	LogLevel     ConfigVal[string] `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// envConfig holds configuration options that can be set via environment.
// Unset variables leave pointers nil. ffprobe path is picked up by
// tools.FfprobePath() from VIDMETA_FFPROBE_PATH.
type envConfig struct {
	FfprobeArgs  *string `env:"VIDMETA_FFPROBE_ARGS"`
	CountFrames  *bool   `env:"VIDMETA_COUNT_FRAMES"`
	OutputSuffix *string `env:"VIDMETA_OUTPUT_SUFFIX"`
	LogLevel     *string `env:"VIDMETA_LOG_LEVEL"`
}

// Verify will check that configuration is valid.
//
// Will check that configuration option values are sensible.
func (c *Config) Verify() error {
	msgs := []string{}
	// Check that ffprobe exists.
	if !fileExists(c.FfprobePath.Value()) {
		msgs = append(msgs, "invalid ffprobe path")
	}
	if _, err := shlex.Split(c.FfprobeArgs.Value()); err != nil {
		msgs = append(msgs, fmt.Sprintf("invalid ffprobe args (%s)", err))
	}
	if c.OutputSuffix.Value() == "" {
		msgs = append(msgs, "empty output suffix")
	}
	if _, err := logging.ParseLevel(c.LogLevel.Value()); err != nil {
		msgs = append(msgs, err.Error())
	}

	if len(msgs) != 0 {
		return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), ErrInvalidConfig)
	}
	return nil
}

// OverrideFrom will overwrite fields from given Config object.
//
// Only fields that are "not-nil" (as per IsNil() method) in src Config object will be
// overwritten.
func (c *Config) OverrideFrom(src Config) {
	if !src.FfprobePath.IsNil() {
		c.FfprobePath = src.FfprobePath
	}
	if !src.FfprobeArgs.IsNil() {
		c.FfprobeArgs = src.FfprobeArgs
	}
	if !src.CountFrames.IsNil() {
		c.CountFrames = src.CountFrames
	}
	if !src.OutputSuffix.IsNil() {
		c.OutputSuffix = src.OutputSuffix
	}
	if !src.LogLevel.IsNil() {
		c.LogLevel = src.LogLevel
	}
}

// loadDefaultConfig will create a default configuration.
//
// ffprobe location is auto-detected, failure to find it is not an error at this
// point but will be reported by Verify().
func loadDefaultConfig() Config {
	ffprobe, _ := tools.FfprobePath()

	return Config{
		FfprobePath:  NewConfigVal(ffprobe),
		FfprobeArgs:  NewConfigVal(""),
		CountFrames:  NewConfigVal(false),
		OutputSuffix: NewConfigVal(video.DefaultOutputSuffix),
		LogLevel:     NewConfigVal(defaultLogLevel),
	}
}

// loadConfigFromFile will load configuration from file. Format is chosen by
// file extension: JSON or YAML.
func loadConfigFromFile(f string) (cfg Config, err error) {
	fileExt := strings.ToLower(filepath.Ext(f))
	switch fileExt {
	case ".json":
		return loadJSON(f)
	case ".yaml", ".yml":
		return loadYAML(f)
	default:
		return cfg, fmt.Errorf("unknown config format: %s", fileExt)
	}
}

// loadConfigFromEnv will load configuration options set via environment variables.
func loadConfigFromEnv() (cfg Config, err error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return cfg, fmt.Errorf("config from environment: %w", err)
	}

	if ec.FfprobeArgs != nil {
		cfg.FfprobeArgs = NewConfigVal(*ec.FfprobeArgs)
	}
	if ec.CountFrames != nil {
		cfg.CountFrames = NewConfigVal(*ec.CountFrames)
	}
	if ec.OutputSuffix != nil {
		cfg.OutputSuffix = NewConfigVal(*ec.OutputSuffix)
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = NewConfigVal(*ec.LogLevel)
	}
	return cfg, nil
}

// LoadConfig will return default config merged with config from file and
// environment, in that order of precedence. This is main function to use for
// config loading. Configuration file is optional e.g. can be "".
func LoadConfig(configFile string) (cfg Config, err error) {
	cfg = loadDefaultConfig()

	// Configuration file can specify full set or partial set of configuration
	// options. So we only want to override those options that have been specified in
	// config file, rest will remain as per default config.
	if configFile != "" {
		c, err := loadConfigFromFile(configFile)
		if err != nil {
			return cfg, err
		}
		cfg.OverrideFrom(c)
	}

	c, err := loadConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	cfg.OverrideFrom(c)

	return cfg, nil
}

func loadJSON(f string) (cfg Config, err error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return cfg, fmt.Errorf("config from JSON file: %w", err)
	}

	if len(b) == 0 {
		return cfg, fmt.Errorf("JSON file is empty: %w", ErrInvalidConfig)
	}

	if err = json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config from JSON document: %w", err)
	}

	return cfg, nil
}

func loadYAML(f string) (cfg Config, err error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return cfg, fmt.Errorf("config from YAML file: %w", err)
	}

	if len(b) == 0 {
		return cfg, fmt.Errorf("YAML file is empty: %w", ErrInvalidConfig)
	}

	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config from YAML document: %w", err)
	}

	return cfg, nil
}

// fileExists checks that path exists and is not a directory.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// In order to support Config overriding we have to implement wrapper type for Config
// fields. Otherwise it is hard to distinguish skipped fields, for instance when loading
// partial configuration from file: in that case it would be impossible to  distinguish
// between say string fields zero value and empty string values as explicitly specified in
// configuration file.

// NewConfigVal is constructor for ConfigVal. It will wrap its argument into ConfigVal.
func NewConfigVal[T any](v T) ConfigVal[T] {
	return ConfigVal[T]{v: &v}
}

// ConfigVal is a wrapper for Config field value.
type ConfigVal[T any] struct {
	// Store wrapped value as pointer in order to have ability to distinguish between
	// unspecified ConfigVal and a value that is the same as zero value for wrapped type.
	v *T
}

// Value will return wrapped value.
//
// In case field has not been defined e.g. is zero value, then appropriate zero value of
// wrapped type will be returned.
func (o *ConfigVal[T]) Value() T {
	if o.IsNil() {
		var v T
		return v
	}
	return *o.v
}

// IsNil check if wrapped value is nil.
func (o *ConfigVal[T]) IsNil() bool {
	return o.v == nil
}

// IsZero reports unset value, used by "omitempty" of YAML encoder.
func (o ConfigVal[T]) IsZero() bool {
	return o.v == nil
}

// UnmarshalJSON implements json.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalJSON(b []byte) error {
	var val T
	err := json.Unmarshal(b, &val)
	if err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalJSON implements json.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value())
}

// UnmarshalYAML implements yaml.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalYAML(node *yaml.Node) error {
	var val T
	if err := node.Decode(&val); err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalYAML implements yaml.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalYAML() (interface{}, error) {
	return o.Value(), nil
}

func CreateDumpConfCommand() *DumpConfApp {
	longHelp := `Command "dump-conf" will print actual application configuration taking into account
configuration file provided, environment and default configuration values.

Examples:

	vidmeta dump-conf
	vidmeta dump-conf -conf path/to/config.json
	vidmeta dump-conf -conf path/to/config.yaml -format yaml`

	app := &DumpConfApp{
		fs:  flag.NewFlagSet("dump-conf", flag.ContinueOnError),
		gf:  globalFlags{},
		out: os.Stdout,
	}
	app.gf.Register(app.fs)
	app.fs.StringVar(&app.flFormat, "format", "json", "Output format: json or yaml")
	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}

	return app
}

// Make sure DumpConfApp implements Commander interface.
var _ Commander = (*DumpConfApp)(nil)

// DumpConfApp is subcommand application context that implements Commander interface.
type DumpConfApp struct {
	out      io.Writer
	fs       *flag.FlagSet
	gf       globalFlags
	flFormat string
}

func (d *DumpConfApp) Name() string {
	return d.fs.Name()
}

func (d *DumpConfApp) Help() {
	d.fs.Usage()
}

// Run is main entry point into DumpConfApp execution.
func (d *DumpConfApp) Run(args []string) error {
	if err := d.fs.Parse(args); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      "usage error",
		}
	}

	cfg, err := LoadConfig(d.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	switch d.flFormat {
	case "json":
		enc := json.NewEncoder(d.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(d.out)
		enc.SetIndent(2)
		err = enc.Encode(cfg)
		if err == nil {
			err = enc.Close()
		}
	default:
		d.Help()
		return &AppError{exitCode: 2, msg: fmt.Sprintf("unknown format: %s", d.flFormat)}
	}
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	// Also, report if configuration is valid.
	if err := cfg.Verify(); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("configuration validation: %s", err)}
	}

	return nil
}
