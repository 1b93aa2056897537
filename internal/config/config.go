// Package config holds the file locations and options shared by every
// TerraWeave command. Values are layered: defaults, then an optional JSON
// file, then TERRAWEAVE_* environment variables, then command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Default file names, relative to the working directory.
const (
	DefaultBaseline = "Terraria.exe"
	DefaultModified = "TerrariaModified.exe"
	DefaultPatch    = "patch.tweave"
	DefaultOutput   = "PatchedTerraria.exe"

	DefaultDebounceMS = 250
)

// Config is the TerraWeave configuration.
type Config struct {
	Baseline   string `json:"baseline,omitempty" jsonschema:"title=Baseline,description=Unmodified image the patch is computed against and applied to,default=Terraria.exe"`
	Modified   string `json:"modified,omitempty" jsonschema:"title=Modified,description=Modified image the patch reproduces,default=TerrariaModified.exe"`
	Patch      string `json:"patch,omitempty" jsonschema:"title=Patch,description=Patch container path,default=patch.tweave"`
	Output     string `json:"output,omitempty" jsonschema:"title=Output,description=Where apply writes the reconstructed image,default=PatchedTerraria.exe"`
	Debug      bool   `json:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
	Verify     bool   `json:"verify,omitempty" jsonschema:"title=Verify,description=Compare the reconstructed image with the modified one after run"`
	DebounceMS int    `json:"debounceMs,omitempty" jsonschema:"title=Watch Debounce,description=Milliseconds to wait for writes to settle in diff --watch,minimum=0,default=250"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Baseline:   DefaultBaseline,
		Modified:   DefaultModified,
		Patch:      DefaultPatch,
		Output:     DefaultOutput,
		Verify:     true,
		DebounceMS: DefaultDebounceMS,
	}
}

// Load returns the defaults overlaid with the JSON file at path, if path is
// not empty, and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TERRAWEAVE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"TERRAWEAVE_BASELINE", &c.Baseline},
		{"TERRAWEAVE_MODIFIED", &c.Modified},
		{"TERRAWEAVE_PATCH", &c.Patch},
		{"TERRAWEAVE_OUTPUT", &c.Output},
	}
	for _, s := range strs {
		if v, ok := lookup(s.env); ok && v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{"TERRAWEAVE_DEBUG", &c.Debug},
		{"TERRAWEAVE_VERIFY", &c.Verify},
	}
	for _, b := range bools {
		v, ok := lookup(b.env)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.env, err)
		}
		*b.dst = parsed
	}

	if v, ok := lookup("TERRAWEAVE_DEBOUNCE_MS"); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("TERRAWEAVE_DEBOUNCE_MS: invalid value %q", v)
		}
		c.DebounceMS = ms
	}
	return nil
}

// Resolve returns a copy with relative paths joined onto dir.
func (c Config) Resolve(dir string) Config {
	for _, p := range []*string{&c.Baseline, &c.Modified, &c.Patch, &c.Output} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return c
}

// Debounce is DebounceMS as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
