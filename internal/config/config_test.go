package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupMap(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Baseline != "Terraria.exe" || cfg.Modified != "TerrariaModified.exe" ||
		cfg.Patch != "patch.tweave" || cfg.Output != "PatchedTerraria.exe" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terraweave.json")
	if err := os.WriteFile(path, []byte(`{"patch": "mods/hooks.tweave", "verify": false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Patch != "mods/hooks.tweave" || cfg.Verify {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Baseline != DefaultBaseline {
		t.Errorf("Baseline = %q, want default", cfg.Baseline)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing config file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"patch": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("mistyped config should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(Config) bool
		wantErr bool
	}{
		{
			name:  "paths",
			env:   map[string]string{"TERRAWEAVE_BASELINE": "vanilla.exe", "TERRAWEAVE_OUTPUT": ""},
			check: func(c Config) bool { return c.Baseline == "vanilla.exe" && c.Output == DefaultOutput },
		},
		{
			name:  "bools",
			env:   map[string]string{"TERRAWEAVE_DEBUG": "1", "TERRAWEAVE_VERIFY": "false"},
			check: func(c Config) bool { return c.Debug && !c.Verify },
		},
		{
			name:  "debounce",
			env:   map[string]string{"TERRAWEAVE_DEBOUNCE_MS": "40"},
			check: func(c Config) bool { return c.Debounce() == 40*time.Millisecond },
		},
		{
			name:    "bad bool",
			env:     map[string]string{"TERRAWEAVE_DEBUG": "maybe"},
			wantErr: true,
		},
		{
			name:    "negative debounce",
			env:     map[string]string{"TERRAWEAVE_DEBOUNCE_MS": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(lookupMap(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv failed: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere", "Terraria.exe")
	cfg := Default()
	cfg.Baseline = abs

	got := cfg.Resolve(dir)
	if got.Baseline != abs {
		t.Errorf("absolute path changed: %q", got.Baseline)
	}
	if got.Patch != filepath.Join(dir, DefaultPatch) {
		t.Errorf("Patch = %q", got.Patch)
	}
	if cfg.Patch != DefaultPatch {
		t.Error("Resolve modified the receiver")
	}
}
