package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Steviegt6/TerraWeave/internal/config"
	"github.com/Steviegt6/TerraWeave/internal/il"
	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// resetFlags restores every flag of c and its subcommands to its default so
// rootCmd can be executed more than once in a test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func gameImage(t *testing.T, update il.Stream, extra ...*image.Type) *image.Image {
	t.Helper()
	main := image.NewType("Terraria", "Main")
	m := image.NewMethod("System.Void", "Update")
	m.Body = image.NewBody(update...)
	if err := main.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	im := image.New("Terraria")
	for _, ty := range append([]*image.Type{main}, extra...) {
		if err := im.AddType(ty); err != nil {
			t.Fatal(err)
		}
	}
	return im
}

func hooksType(t *testing.T) *image.Type {
	t.Helper()
	ty := image.NewType("TerraWeave", "Hooks")
	m := image.NewMethod("System.Void", "OnUpdate")
	m.Body = image.NewBody(il.New(il.Nop), il.New(il.Ret))
	if err := ty.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	return ty
}

// gameDir writes a baseline and a modified image with the default names and
// returns the directory.
func gameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	vanilla := il.Stream{il.New(il.Ldarg0), il.New(il.Pop), il.New(il.Ret)}
	modded := il.Stream{
		il.New(il.Ldarg0),
		il.With(il.Call, il.MethodRef("System.Void TerraWeave.Hooks::OnUpdate()")),
		il.New(il.Pop),
		il.New(il.Ret),
	}
	if err := gameImage(t, vanilla).Save(filepath.Join(dir, config.DefaultBaseline)); err != nil {
		t.Fatal(err)
	}
	if err := gameImage(t, modded, hooksType(t)).Save(filepath.Join(dir, config.DefaultModified)); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDiffApply(t *testing.T) {
	dir := gameDir(t)

	_, stderr, err := execute(t, "diff", "-c", dir)
	if err != nil {
		t.Fatalf("diff: %v\n%s", err, stderr)
	}
	records, err := patch.ReadFile(filepath.Join(dir, config.DefaultPatch))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Kind() != patch.KindTypeInject || records[1].Kind() != patch.KindMethodModify {
		t.Errorf("kinds = %s, %s", records[0].Kind(), records[1].Kind())
	}
	if !strings.Contains(stderr, "Detected type to inject") {
		t.Errorf("diff log missing detection line:\n%s", stderr)
	}

	if _, stderr, err := execute(t, "apply", "-c", dir, "-o", "out.exe"); err != nil {
		t.Fatalf("apply: %v\n%s", err, stderr)
	}
	got, err := image.Open(filepath.Join(dir, "out.exe"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := image.Open(filepath.Join(dir, config.DefaultModified))
	if err != nil {
		t.Fatal(err)
	}
	if diffs := image.Compare(got, want, 0); len(diffs) != 0 {
		t.Errorf("reconstruction differs: %v", diffs)
	}
}

func TestRunCommand(t *testing.T) {
	dir := gameDir(t)

	if _, stderr, err := execute(t, "run", "-c", dir, "--strict"); err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	for _, name := range []string{config.DefaultPatch, config.DefaultOutput} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestMissingInputs(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "diff", args: []string{"diff", "-c", dir}},
		{name: "apply", args: []string{"apply", "-c", dir}},
		{name: "run", args: []string{"run", "-c", dir}},
		{name: "inspect", args: []string{"inspect", "-c", dir}},
		{name: "bad cwd", args: []string{"diff", "-c", filepath.Join(dir, "missing")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInspect(t *testing.T) {
	dir := gameDir(t)
	if _, stderr, err := execute(t, "diff", "-c", dir, "-p", "hooks.tweave"); err != nil {
		t.Fatalf("diff: %v\n%s", err, stderr)
	}

	t.Run("markdown", func(t *testing.T) {
		out, _, err := execute(t, "inspect", "-c", dir, "hooks.tweave")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"# hooks.tweave", "| TypeInject | 1 |", "## 2. MethodModify", "+ IL_0001: call"} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "inspect", "-c", dir, "--json", "hooks.tweave")
		if err != nil {
			t.Fatal(err)
		}
		var pj PatchJSON
		if err := json.Unmarshal([]byte(out), &pj); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if pj.Summary.TypeInjects != 1 || pj.Summary.MethodModifies != 1 || pj.Summary.Changes != 1 {
			t.Errorf("summary = %+v", pj.Summary)
		}
		if len(pj.Records) != 2 || pj.Records[0].Target != "TerraWeave.Hooks" {
			t.Errorf("records = %+v", pj.Records)
		}
	})

	t.Run("listing", func(t *testing.T) {
		out, _, err := execute(t, "inspect", "-c", dir, "-l", "hooks.tweave")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"// TypeInject TerraWeave.Hooks", "IL_0000: nop", "// MethodModify System.Void Terraria.Main::Update()"} {
			if !strings.Contains(out, want) {
				t.Errorf("listing missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("exclusive flags", func(t *testing.T) {
		if _, _, err := execute(t, "inspect", "-c", dir, "-j", "-l", "hooks.tweave"); err == nil {
			t.Error("expected --json and --listing to conflict")
		}
	})
}

func TestSchema(t *testing.T) {
	out, _, err := execute(t, "schema")
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid schema: %v", err)
	}
	if !strings.Contains(out, "debounceMs") || !strings.Contains(out, "baseline") {
		t.Errorf("schema missing config properties:\n%s", out)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "terraweave.json")
	if err := os.WriteFile(cfgPath, []byte(`{"patch": "from-file.tweave", "output": "from-file.exe"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	if err := rootCmd.PersistentFlags().Set("cwd", dir); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.PersistentFlags().Set("config", "terraweave.json"); err != nil {
		t.Fatal(err)
	}
	if err := runCmd.Flags().Set("output", "flag.exe"); err != nil {
		t.Fatal(err)
	}
	runCmd.Flags().AddFlagSet(rootCmd.PersistentFlags())

	cfg, err := loadConfig(runCmd)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"baseline", cfg.Baseline, filepath.Join(dir, config.DefaultBaseline)},
		{"patch", cfg.Patch, filepath.Join(dir, "from-file.tweave")},
		{"output", cfg.Output, filepath.Join(dir, "flag.exe")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
}
