// Package config handles zod.toml configuration.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/zod/engine"
	"github.com/wippyai/zod/errors"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "zod.toml"

// Config represents a zod.toml configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Compile Compile `toml:"compile"`
	Execute Execute `toml:"execute"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Log configures the CLI logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Compile configures compile output.
type Compile struct {
	Extension string `toml:"extension"`
	OutputDir string `toml:"output_dir"`
}

// Execute configures function execution.
type Execute struct {
	Engine string `toml:"engine"`
}

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:     Log{Level: "info", Format: FormatConsole},
		Compile: Compile{Extension: ".bin"},
		Execute: Execute{Engine: engine.NameInterpreter},
	}
}

// Load parses the configuration file at path. Keys not set in the file
// keep their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "cannot read "+path)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse error in "+path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(path).
			Value(keys).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}

	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a zod.toml file and loads it.
// Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resolve "+startDir)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate rejects unknown log levels, log formats and engines.
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != FormatConsole && c.Log.Format != FormatJSON {
		return invalid("log.format", c.Log.Format, "format must be %q or %q", FormatConsole, FormatJSON)
	}
	if !strings.HasPrefix(c.Compile.Extension, ".") {
		return invalid("compile.extension", c.Compile.Extension, "extension must start with '.'")
	}
	if !slices.Contains(engine.Names(), c.Execute.Engine) {
		return invalid("execute.engine", c.Execute.Engine, "engine must be one of %s", strings.Join(engine.Names(), ", "))
	}
	return nil
}

func invalid(key, value, format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(strings.Split(key, ".")...).
		Value(value).
		Detail(format, args...).
		Build()
}

// OutputPath returns where compile writes the binary for src: the part of
// the file name before the first dot, plus the configured extension.
func (c *Config) OutputPath(src string) string {
	stem, _, _ := strings.Cut(filepath.Base(src), ".")
	return filepath.Join(c.Compile.OutputDir, stem+c.Compile.Extension)
}

// Logger builds the CLI logger. Console format uses zap's development
// encoder, JSON its production encoder. Both write to stderr.
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	var zc zap.Config
	if l.Format == FormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "build logger")
	}
	return logger, nil
}
