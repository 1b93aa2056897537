package diff

import (
	"strings"

	"github.com/Steviegt6/TerraWeave/internal/image"
	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// CompilerGeneratedMarker appears in the simple name of types the compiler
// synthesizes, such as <>c or <PrivateImplementationDetails>.
const CompilerGeneratedMarker = "<"

// IsCompilerGenerated reports whether t was synthesized by the compiler.
func IsCompilerGenerated(t *image.Type) bool {
	return strings.Contains(t.Name, CompilerGeneratedMarker)
}

func isInjected(base *image.Image, t *image.Type) bool {
	return base.Type(t.FullName()) == nil && !IsCompilerGenerated(t)
}

// InjectedTypes returns the top-level types of mod that base does not have,
// in mod's declaration order.
func InjectedTypes(base, mod *image.Image) []*image.Type {
	var out []*image.Type
	for _, t := range mod.AllTypes() {
		if !t.IsNested() && isInjected(base, t) {
			out = append(out, t)
		}
	}
	return out
}

// InjectedNestedTypes returns the nested types of mod that base does not
// have but whose declaring type base does have. Types nested in a new type
// are not listed; they are part of that type's description.
func InjectedNestedTypes(base, mod *image.Image) []*image.Type {
	var out []*image.Type
	for _, t := range mod.AllTypes() {
		if !t.IsNested() || !isInjected(base, t) {
			continue
		}
		if base.Type(t.DeclaringType().FullName()) != nil {
			out = append(out, t)
		}
	}
	return out
}

// TypePass emits a TypeInject for every injected top-level type.
type TypePass struct{}

func (TypePass) Name() string { return "types" }

func (TypePass) Run(base, mod *image.Image, records []patch.Record) []patch.Record {
	for _, t := range InjectedTypes(base, mod) {
		records = append(records, patch.TypeInject{Type: t})
	}
	return records
}

// NestedTypePass emits a NestedTypeInject for every injected nested type.
type NestedTypePass struct{}

func (NestedTypePass) Name() string { return "nested types" }

func (NestedTypePass) Run(base, mod *image.Image, records []patch.Record) []patch.Record {
	for _, t := range InjectedNestedTypes(base, mod) {
		records = append(records, patch.NestedTypeInject{
			DeclaringType: t.DeclaringType().FullName(),
			Type:          t,
		})
	}
	return records
}
