// Package pipeline wires images, the diff engine and the patch format into
// the create, apply and run flows the commands expose.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Steviegt6/TerraWeave/internal/config"
	"github.com/Steviegt6/TerraWeave/internal/diff"
	"github.com/Steviegt6/TerraWeave/internal/fsx"
	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/logging"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// ErrMissingInput is returned when a required input file does not exist.
// It is checked before anything is written.
var ErrMissingInput = errors.New("missing input file")

// maxReportedDifferences caps the verification report of Run.
const maxReportedDifferences = 20

// Pipeline runs TerraWeave operations for one configuration. Paths in
// Config are used as given; resolve them against the working directory
// first.
type Pipeline struct {
	Config config.Config
	Logger *log.Logger
}

// New returns a pipeline. A nil logger discards output.
func New(cfg config.Config, lg *log.Logger) *Pipeline {
	if lg == nil {
		lg = logging.Discard()
	}
	return &Pipeline{Config: cfg, Logger: lg}
}

// RunResult is what Run produced.
type RunResult struct {
	Records []patch.Record
	Patched *image.Image

	// Differences lists where the reconstructed image differs from the
	// modified one, when verification is enabled.
	Differences []string
}

// Create diffs the baseline against the modified image and writes the
// patch container.
func (p *Pipeline) Create(ctx context.Context) ([]patch.Record, error) {
	records, _, err := p.create(ctx)
	return records, err
}

func (p *Pipeline) create(ctx context.Context) ([]patch.Record, *image.Image, error) {
	cfg := p.Config
	if err := requireInputs(cfg.Baseline, cfg.Modified); err != nil {
		return nil, nil, err
	}

	base, err := p.load(ctx, "baseline", cfg.Baseline)
	if err != nil {
		return nil, nil, err
	}
	mod, err := p.load(ctx, "modified", cfg.Modified)
	if err != nil {
		return nil, nil, err
	}

	chain := diff.DefaultChain()
	var records []patch.Record
	for _, pass := range chain.Passes() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		before := len(records)
		records = pass.Run(base, mod, records)
		p.Logger.Debug("Diff pass finished", "pass", pass.Name(), "records", len(records)-before)
	}
	for _, rec := range records {
		p.logRecord(rec)
	}

	if err := patch.WriteFile(cfg.Patch, records); err != nil {
		return nil, nil, fmt.Errorf("write patch: %w", err)
	}
	p.Logger.Info("Patch written", "path", cfg.Patch, "records", len(records))
	return records, mod, nil
}

func (p *Pipeline) logRecord(rec patch.Record) {
	switch r := rec.(type) {
	case patch.TypeInject:
		p.Logger.Info("Detected type to inject", "type", r.Target())
	case patch.NestedTypeInject:
		p.Logger.Info("Detected nested type to inject", "type", r.Type.Name, "declaringType", r.DeclaringType)
	case patch.MethodModify:
		p.Logger.Info("Detected modified method", "method", r.Signature, "changes", len(r.Changes))
		for _, c := range r.Changes {
			p.Logger.Debug("Method change", "method", r.Signature, "change", c.String())
		}
	}
}

// Apply replays the patch onto a freshly loaded baseline and writes the
// result. Nothing is written if any record fails.
func (p *Pipeline) Apply(ctx context.Context) (*image.Image, error) {
	cfg := p.Config
	if err := requireInputs(cfg.Baseline, cfg.Patch); err != nil {
		return nil, err
	}

	records, err := patch.ReadFile(cfg.Patch)
	if err != nil {
		return nil, fmt.Errorf("load patch %s: %w", filepath.Base(cfg.Patch), err)
	}
	p.Logger.Info("Loaded patch", "path", cfg.Patch, "records", len(records))

	patched, err := p.load(ctx, "baseline", cfg.Baseline)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.Logger.Debug("Applying record", "index", i, "kind", rec.Kind(), "target", rec.Target())
		if err := rec.Apply(patched); err != nil {
			return nil, fmt.Errorf("record %d (%s %s): %w", i, rec.Kind(), rec.Target(), err)
		}
	}

	patched.MVID = uuid.New()
	if err := patched.Save(cfg.Output); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	p.Logger.Info("Patched image written", "path", cfg.Output, "types", patched.TypeCount(), "methods", patched.MethodCount())
	return patched, nil
}

// Run creates the patch, applies it, and when Config.Verify is set compares
// the reconstructed image with the modified one.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	if err := requireInputs(p.Config.Baseline, p.Config.Modified); err != nil {
		return nil, err
	}

	records, mod, err := p.create(ctx)
	if err != nil {
		return nil, err
	}
	patched, err := p.Apply(ctx)
	if err != nil {
		return nil, err
	}

	res := &RunResult{Records: records, Patched: patched}
	if !p.Config.Verify {
		return res, nil
	}
	res.Differences = image.Compare(patched, mod, maxReportedDifferences)
	if len(res.Differences) == 0 {
		p.Logger.Info("Reconstructed image matches the modified image")
	}
	for _, d := range res.Differences {
		p.Logger.Warn("Reconstructed image differs", "difference", d)
	}
	return res, nil
}

func (p *Pipeline) load(ctx context.Context, role, path string) (*image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	im, err := image.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", role, err)
	}
	p.Logger.Debug("Loaded image", "role", role, "path", path, "types", im.TypeCount(), "methods", im.MethodCount())
	return im, nil
}

func requireInputs(paths ...string) error {
	for _, path := range paths {
		ok, err := fsx.Exists(path)
		if err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", path, ErrMissingInput)
		}
	}
	return nil
}
