// Package diff compares a baseline image with a modified one and produces
// the patch records that rebuild the modified image from the baseline.
package diff

import (
	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// Pass finds one kind of difference between two images.
type Pass interface {
	// Name identifies the pass in logs.
	Name() string

	// Run appends the records the pass finds to records and returns them.
	Run(base, mod *image.Image, records []patch.Record) []patch.Record
}

// Chain runs passes in order over the same pair of images.
type Chain struct {
	passes []Pass
}

// NewChain creates a chain from passes.
func NewChain(passes ...Pass) *Chain {
	return &Chain{passes: passes}
}

// Passes returns the passes in run order.
func (c *Chain) Passes() []Pass {
	return append([]Pass(nil), c.passes...)
}

// Run runs every pass and returns the combined records.
func (c *Chain) Run(base, mod *image.Image) []patch.Record {
	var records []patch.Record
	for _, p := range c.passes {
		records = p.Run(base, mod, records)
	}
	return records
}

// DefaultChain returns the passes in container order: injected types,
// injected nested types, then method edits. A nested type record must
// follow the record that creates its declaring type.
func DefaultChain() *Chain {
	return NewChain(TypePass{}, NestedTypePass{}, MethodPass{})
}

// Compute diffs base against mod with the default chain.
func Compute(base, mod *image.Image) []patch.Record {
	return DefaultChain().Run(base, mod)
}
