// Package config holds the compiler options that can be set from a file.
//
// A config file is TOML or YAML, chosen by extension. Command-line flags
// override whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "KOC_CONFIG"

// Print modes
const (
	PrintNone   = "none"   // compile only
	PrintParser = "parser" // canonical form of the tree
	PrintTokens = "tokens" // token table
	PrintTree   = "tree"   // indented tree with positions
	PrintJSON   = "json"   // JSON tree
)

// Config holds the complete compiler configuration
type Config struct {
	Print    string    `toml:"print" yaml:"print"`
	Assembly *bool     `toml:"assembly" yaml:"assembly"`
	Output   string    `toml:"output" yaml:"output"` // "-" is standard output
	Color    bool      `toml:"color" yaml:"color"`
	Log      LogConfig `toml:"log" yaml:"log"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // text or json
}

// Format is a config file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatUnknown
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("config file %s: unsupported extension %q", path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format, applies defaults and validates
// the result.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and means "all defaults".
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover finds and loads a config file. It tries the file named by
// KOC_CONFIG, then koc.toml, koc.yaml and koc.yml in dir. If none exists,
// it returns the defaults and an empty path.
func Discover(dir string) (*Config, string, error) {
	if path := os.Getenv(EnvVar); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}

	for _, name := range []string{"koc.toml", "koc.yaml", "koc.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return Default(), "", nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Print == "" {
		c.Print = PrintNone
	}
	if c.Assembly == nil {
		on := true
		c.Assembly = &on
	}
	if c.Output == "" {
		c.Output = "-"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// EmitAssembly reports whether an assembly file should be written.
func (c *Config) EmitAssembly() bool {
	return c.Assembly == nil || *c.Assembly
}

// SetAssembly turns assembly output on or off.
func (c *Config) SetAssembly(on bool) {
	c.Assembly = &on
}

// Validate checks that every option has a known value.
func (c *Config) Validate() error {
	switch c.Print {
	case PrintNone, PrintParser, PrintTokens, PrintTree, PrintJSON:
	default:
		return fmt.Errorf("invalid print mode %q (want parser, tokens, tree or json)", c.Print)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}
