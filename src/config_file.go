package qabalah

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the on-disk configuration of the q command, read from
// ~/.q/config.yaml. Command line flags override it.
type CLIConfig struct {
	Debug            bool     `yaml:"debug"`
	Verbose          bool     `yaml:"verbose"`
	StackDepth       int      `yaml:"stack_depth"`
	ReadRoots        []string `yaml:"read_roots"`
	Unrestricted     bool     `yaml:"unrestricted"`
	History          string   `yaml:"history"`
	ShowErrorContext *bool    `yaml:"show_error_context"`
	ContextLines     int      `yaml:"context_lines"`
}

const defaultCLIConfig = `# Q interpreter configuration
# This file is automatically created on first run

# Enable decoder, flow and environment diagnostics on stderr
debug: false

# Also trace strings, numerology, buffers and input
verbose: false

# Number of frames each environment may nest
stack_depth: 55

# Directories the include operator may read from.
# Leave empty and set unrestricted to allow any path.
read_roots: []
unrestricted: true

# REPL history file (empty for ~/.q/history)
history: ""

# Print the surrounding source lines with script errors
show_error_context: true
context_lines: 2
`

// DefaultCLIConfigPath returns ~/.q/config.yaml, or "" when there is no
// home directory.
func DefaultCLIConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".q", "config.yaml")
}

// DefaultHistoryPath returns ~/.q/history, or "" when there is no home
// directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".q", "history")
}

// LoadCLIConfig reads the configuration at path. A missing file is created
// with commented defaults; failing to create it is not an error.
func LoadCLIConfig(path string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	if err := yaml.Unmarshal([]byte(defaultCLIConfig), cfg); err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		createDefaultCLIConfig(path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.StackDepth < 0 {
		return nil, fmt.Errorf("%s: stack_depth must not be negative", path)
	}
	return cfg, nil
}

func createDefaultCLIConfig(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte(defaultCLIConfig), 0644)
}

// Config converts the file settings to interpreter configuration.
func (c *CLIConfig) Config() *Config {
	config := DefaultConfig()
	config.Debug = c.Debug
	config.Verbose = c.Verbose
	if c.StackDepth > 0 {
		config.StackDepth = c.StackDepth
	}
	if c.ShowErrorContext != nil {
		config.ShowErrorContext = *c.ShowErrorContext
	}
	if c.ContextLines > 0 {
		config.ContextLines = c.ContextLines
	}
	if !c.Unrestricted {
		config.FileAccess = &FileAccessConfig{ReadRoots: append([]string{}, c.ReadRoots...)}
	}
	return config
}

// HistoryPath returns the configured REPL history file.
func (c *CLIConfig) HistoryPath() string {
	if c.History != "" {
		return c.History
	}
	return DefaultHistoryPath()
}
