// Package image provides the mutable in-memory model of a managed binary:
// types (with nesting), fields, methods and method bodies.
//
// An Image indexes every type by full name and every method by full
// signature, so resolving a declaring type or a patch target is a map lookup
// that does not depend on object identity. The registries are kept current
// by the mutating methods on Image, Type and Method; build detached types
// first and attach them with AddType or AddNestedType.
package image

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateType is returned when a type's full name is already taken.
	ErrDuplicateType = errors.New("duplicate type")

	// ErrDuplicateMethod is returned when a method signature is already taken.
	ErrDuplicateMethod = errors.New("duplicate method")

	// ErrAttached is returned when adding a type or method that already
	// belongs to an image or declaring type.
	ErrAttached = errors.New("already attached")

	// ErrForeignType is returned when a declaring type belongs to another image.
	ErrForeignType = errors.New("type belongs to another image")
)

// Image is one loaded binary.
type Image struct {
	Name string
	MVID uuid.UUID

	types  []*Type
	byName map[string]*Type
	bySig  map[string]*Method
}

// New returns an empty image with a fresh module version id.
func New(name string) *Image {
	return &Image{
		Name:   name,
		MVID:   uuid.New(),
		byName: make(map[string]*Type),
		bySig:  make(map[string]*Method),
	}
}

// Types returns the top-level types in declaration order.
func (im *Image) Types() []*Type {
	return append([]*Type(nil), im.types...)
}

// AllTypes returns every type, each top-level type followed depth-first by
// its nested types.
func (im *Image) AllTypes() []*Type {
	var out []*Type
	for _, t := range im.types {
		out = t.appendTree(out)
	}
	return out
}

// Methods returns every method in AllTypes order.
func (im *Image) Methods() []*Method {
	var out []*Method
	for _, t := range im.AllTypes() {
		out = append(out, t.methods...)
	}
	return out
}

// Type resolves a type by full name, or returns nil.
func (im *Image) Type(fullName string) *Type {
	return im.byName[fullName]
}

// Method resolves a method by full signature, or returns nil.
func (im *Image) Method(signature string) *Method {
	return im.bySig[signature]
}

// TypeCount returns the number of registered types, nested ones included.
func (im *Image) TypeCount() int { return len(im.byName) }

// MethodCount returns the number of registered methods.
func (im *Image) MethodCount() int { return len(im.bySig) }

// AddType attaches a detached type, with everything it contains, as a new
// top-level type.
func (im *Image) AddType(t *Type) error {
	if t.image != nil || t.declaringType != nil {
		return fmt.Errorf("type %s: %w", t.FullName(), ErrAttached)
	}
	if err := im.register(t); err != nil {
		return err
	}
	im.types = append(im.types, t)
	return nil
}

// AddNestedType attaches a detached type as a nested type of decl, which
// must already belong to im.
func (im *Image) AddNestedType(decl, t *Type) error {
	if decl.image != im {
		return fmt.Errorf("declaring type %s: %w", decl.FullName(), ErrForeignType)
	}
	return decl.AddNestedType(t)
}

// Import returns a detached deep copy of t, ready to be added to im. Member
// references are held by name, so nothing inside the copy needs rewriting.
func (im *Image) Import(t *Type) *Type {
	return t.Clone()
}

// Clone returns an independent deep copy of the image.
func (im *Image) Clone() *Image {
	out := New(im.Name)
	out.MVID = im.MVID
	for _, t := range im.types {
		// names are unique in im, so registering the copy cannot fail
		if err := out.AddType(t.Clone()); err != nil {
			panic(err)
		}
	}
	return out
}

// register indexes t's subtree. Nothing is modified unless every name in the
// subtree is free.
func (im *Image) register(t *Type) error {
	tree := t.appendTree(nil)

	names := make(map[string]bool, len(tree))
	sigs := make(map[string]bool)
	for _, tt := range tree {
		name := tt.FullName()
		if im.byName[name] != nil || names[name] {
			return fmt.Errorf("type %s: %w", name, ErrDuplicateType)
		}
		names[name] = true
		for _, m := range tt.methods {
			sig := m.FullName()
			if im.bySig[sig] != nil || sigs[sig] {
				return fmt.Errorf("method %s: %w", sig, ErrDuplicateMethod)
			}
			sigs[sig] = true
		}
	}

	for _, tt := range tree {
		tt.image = im
		im.byName[tt.FullName()] = tt
		for _, m := range tt.methods {
			im.bySig[m.FullName()] = m
		}
	}
	return nil
}
