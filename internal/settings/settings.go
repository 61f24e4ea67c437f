// Package settings loads the optional HCL settings file that configures the
// toolkit binary: logging, the artifact location, and registry-level option
// defaults. A missing settings file is not an error; every field has a
// usable default.
package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Program and Version identify the binary in help, version, and artifact
// output.
const (
	Program = "gaction"
	Version = "0.3.0"
)

// EnvSettings names the environment variable that points at the settings
// file when no explicit path is given.
const EnvSettings = "GACTION_SETTINGS"

// defaultFile is probed in the working directory as a last resort.
const defaultFile = "gaction.hcl"

// Settings holds the decoded settings file merged over the built-in
// defaults.
type Settings struct {
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
	// Artifact is the path of the serialized command tree.
	Artifact string `hcl:"artifact,optional"`
	Defaults *Defaults `hcl:"defaults,block"`
}

// Defaults carries registry-level defaults for short-form parameters.
type Defaults struct {
	Threads int64 `hcl:"threads,optional"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		LogLevel: "info",
		Artifact: "gaction.yaml",
		Defaults: &Defaults{Threads: 1},
	}
}

// Load reads the settings file at path, falling back to $GACTION_SETTINGS
// and then to ./gaction.hcl. When no file exists the built-in defaults are
// returned.
func Load(path string) (*Settings, error) {
	s := Default()

	if path == "" {
		path = os.Getenv(EnvSettings)
	}
	if path == "" {
		if _, err := os.Stat(defaultFile); err != nil {
			return s, nil
		}
		path = defaultFile
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	var loaded Settings
	if diags := gohcl.DecodeBody(file.Body, nil, &loaded); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	if loaded.LogLevel != "" {
		s.LogLevel = strings.ToLower(loaded.LogLevel)
	}
	if loaded.LogFormat != "" {
		s.LogFormat = strings.ToLower(loaded.LogFormat)
	}
	if loaded.Artifact != "" {
		s.Artifact = loaded.Artifact
	}
	if loaded.Defaults != nil && loaded.Defaults.Threads > 0 {
		s.Defaults.Threads = loaded.Defaults.Threads
	}

	if err := s.validate(path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate(path string) error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q in %s: must be 'debug', 'info', 'warn', or 'error'", s.LogLevel, path)
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q in %s: must be 'text' or 'json'", s.LogFormat, path)
	}
	return nil
}
