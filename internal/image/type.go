package image

import "fmt"

// TypeAttributes are ECMA-335 TypeDef flags.
type TypeAttributes uint32

const (
	TypePublic       TypeAttributes = 0x00000001
	TypeNestedPublic TypeAttributes = 0x00000002
	TypeInterface    TypeAttributes = 0x00000020
	TypeAbstract     TypeAttributes = 0x00000080
	TypeSealed       TypeAttributes = 0x00000100
	TypeSpecialName  TypeAttributes = 0x00000400
	TypeBeforeInit   TypeAttributes = 0x00100000
)

// FieldAttributes are ECMA-335 Field flags.
type FieldAttributes uint16

const (
	FieldPrivate  FieldAttributes = 0x0001
	FieldPublic   FieldAttributes = 0x0006
	FieldStatic   FieldAttributes = 0x0010
	FieldInitOnly FieldAttributes = 0x0020
	FieldLiteral  FieldAttributes = 0x0040
)

// Field is a field definition.
type Field struct {
	Name       string
	FieldType  string
	Attributes FieldAttributes
}

// Type is a type definition. Fields may be edited directly; methods and
// nested types go through AddMethod and AddNestedType so the owning image's
// registries stay current.
type Type struct {
	Namespace  string
	Name       string
	Attributes TypeAttributes
	BaseType   string
	Fields     []Field

	methods       []*Method
	nested        []*Type
	declaringType *Type
	image         *Image
}

// NewType returns a detached type.
func NewType(namespace, name string) *Type {
	return &Type{Namespace: namespace, Name: name}
}

// FullName is Namespace.Name for top-level types and Declaring/Name for
// nested ones.
func (t *Type) FullName() string {
	if t.declaringType != nil {
		return t.declaringType.FullName() + "/" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func (t *Type) String() string { return t.FullName() }

// IsNested reports whether t is declared inside another type.
func (t *Type) IsNested() bool { return t.declaringType != nil }

// DeclaringType returns the enclosing type, or nil.
func (t *Type) DeclaringType() *Type { return t.declaringType }

// Image returns the image t belongs to, or nil while detached.
func (t *Type) Image() *Image { return t.image }

// Methods returns the methods in declaration order.
func (t *Type) Methods() []*Method {
	return append([]*Method(nil), t.methods...)
}

// NestedTypes returns the directly nested types in declaration order.
func (t *Type) NestedTypes() []*Type {
	return append([]*Type(nil), t.nested...)
}

// AddMethod attaches a detached method to t.
func (t *Type) AddMethod(m *Method) error {
	if m.declaringType != nil {
		return fmt.Errorf("method %s: %w", m.FullName(), ErrAttached)
	}
	m.declaringType = t
	sig := m.FullName()
	for _, other := range t.methods {
		if other.FullName() == sig {
			m.declaringType = nil
			return fmt.Errorf("method %s: %w", sig, ErrDuplicateMethod)
		}
	}
	if t.image != nil {
		if t.image.bySig[sig] != nil {
			m.declaringType = nil
			return fmt.Errorf("method %s: %w", sig, ErrDuplicateMethod)
		}
		t.image.bySig[sig] = m
	}
	t.methods = append(t.methods, m)
	return nil
}

// AddNestedType attaches a detached type, with everything it contains, as a
// nested type of t.
func (t *Type) AddNestedType(n *Type) error {
	if n.image != nil || n.declaringType != nil {
		return fmt.Errorf("type %s: %w", n.FullName(), ErrAttached)
	}
	for _, other := range t.nested {
		if other.Name == n.Name {
			return fmt.Errorf("type %s/%s: %w", t.FullName(), n.Name, ErrDuplicateType)
		}
	}
	n.declaringType = t
	if t.image != nil {
		if err := t.image.register(n); err != nil {
			n.declaringType = nil
			return err
		}
	}
	t.nested = append(t.nested, n)
	return nil
}

// Clone returns a detached deep copy of t and everything it contains.
func (t *Type) Clone() *Type {
	out := &Type{
		Namespace:  t.Namespace,
		Name:       t.Name,
		Attributes: t.Attributes,
		BaseType:   t.BaseType,
		Fields:     append([]Field(nil), t.Fields...),
	}
	for _, m := range t.methods {
		c := m.Clone()
		c.declaringType = out
		out.methods = append(out.methods, c)
	}
	for _, n := range t.nested {
		c := n.Clone()
		c.declaringType = out
		out.nested = append(out.nested, c)
	}
	return out
}

func (t *Type) appendTree(out []*Type) []*Type {
	out = append(out, t)
	for _, n := range t.nested {
		out = n.appendTree(out)
	}
	return out
}
