package image

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Steviegt6/TerraWeave/internal/il"
)

// ErrIndexOutOfRange is returned by Body edits at invalid positions.
var ErrIndexOutOfRange = errors.New("instruction index out of range")

// MethodAttributes are ECMA-335 MethodDef flags.
type MethodAttributes uint16

const (
	MethodPrivate       MethodAttributes = 0x0001
	MethodPublic        MethodAttributes = 0x0006
	MethodStatic        MethodAttributes = 0x0010
	MethodVirtual       MethodAttributes = 0x0040
	MethodHideBySig     MethodAttributes = 0x0080
	MethodAbstract      MethodAttributes = 0x0400
	MethodSpecialName   MethodAttributes = 0x0800
	MethodRTSpecialName MethodAttributes = 0x1000
)

// Parameter is a method parameter.
type Parameter struct {
	Name string
	Type string
}

// Method is a method definition. Name, ReturnType and Parameters make up the
// signature and must not change once the method is attached to an image.
type Method struct {
	Name       string
	ReturnType string
	Parameters []Parameter
	Attributes MethodAttributes
	Body       *Body

	declaringType *Type
}

// NewMethod returns a detached method with an empty body.
func NewMethod(returnType, name string, params ...Parameter) *Method {
	return &Method{
		Name:       name,
		ReturnType: returnType,
		Parameters: params,
		Body:       &Body{},
	}
}

// FullName is the method's signature:
//
//	ReturnType DeclaringType::Name(ParamType,ParamType)
func (m *Method) FullName() string {
	var sb strings.Builder
	sb.WriteString(m.ReturnType)
	sb.WriteByte(' ')
	if m.declaringType != nil {
		sb.WriteString(m.declaringType.FullName())
		sb.WriteString("::")
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (m *Method) String() string { return m.FullName() }

// DeclaringType returns the type m belongs to, or nil while detached.
func (m *Method) DeclaringType() *Type { return m.declaringType }

// HasBody reports whether m carries IL.
func (m *Method) HasBody() bool { return m.Body != nil }

// Clone returns a detached deep copy.
func (m *Method) Clone() *Method {
	out := &Method{
		Name:       m.Name,
		ReturnType: m.ReturnType,
		Parameters: append([]Parameter(nil), m.Parameters...),
		Attributes: m.Attributes,
	}
	if m.Body != nil {
		out.Body = m.Body.Clone()
	}
	return out
}

// Body is a method body: local variable types and the instruction stream.
type Body struct {
	Locals       []string
	Instructions il.Stream
}

// NewBody returns a body holding the given instructions.
func NewBody(instructions ...il.Instruction) *Body {
	return &Body{Instructions: instructions}
}

// Len returns the number of instructions.
func (b *Body) Len() int { return len(b.Instructions) }

// Insert places in before the instruction at index. index may equal Len to
// append.
func (b *Body) Insert(index int, in il.Instruction) error {
	if index < 0 || index > len(b.Instructions) {
		return b.outOfRange(index)
	}
	b.Instructions = append(b.Instructions, il.Instruction{})
	copy(b.Instructions[index+1:], b.Instructions[index:])
	b.Instructions[index] = in.Clone()
	return nil
}

// Replace overwrites the opcode and operand at index.
func (b *Body) Replace(index int, in il.Instruction) error {
	if index < 0 || index >= len(b.Instructions) {
		return b.outOfRange(index)
	}
	b.Instructions[index] = in.Clone()
	return nil
}

// RemoveAt deletes the instruction at index.
func (b *Body) RemoveAt(index int) error {
	if index < 0 || index >= len(b.Instructions) {
		return b.outOfRange(index)
	}
	b.Instructions = append(b.Instructions[:index], b.Instructions[index+1:]...)
	return nil
}

// Clone returns a deep copy.
func (b *Body) Clone() *Body {
	return &Body{
		Locals:       append([]string(nil), b.Locals...),
		Instructions: b.Instructions.Clone(),
	}
}

func (b *Body) outOfRange(index int) error {
	return fmt.Errorf("index %d with %d instructions: %w", index, len(b.Instructions), ErrIndexOutOfRange)
}
