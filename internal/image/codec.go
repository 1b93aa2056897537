package image

import (
	"fmt"

	"github.com/Steviegt6/TerraWeave/internal/binio"
	"github.com/Steviegt6/TerraWeave/internal/il"
)

// EncodeType writes the full structural description of t: attributes, base
// type, fields, methods with bodies, and nested types recursively. The patch
// format embeds the same encoding for injected types.
func EncodeType(w *binio.Writer, t *Type) {
	w.String(t.Namespace)
	w.String(t.Name)
	w.Uint32(uint32(t.Attributes))
	w.String(t.BaseType)

	w.Count(len(t.Fields))
	for _, f := range t.Fields {
		w.String(f.Name)
		w.String(f.FieldType)
		w.Uint16(uint16(f.Attributes))
	}

	w.Count(len(t.methods))
	for _, m := range t.methods {
		encodeMethod(w, m)
	}

	w.Count(len(t.nested))
	for _, n := range t.nested {
		EncodeType(w, n)
	}
}

// DecodeType reads a description written by EncodeType and returns it as a
// detached type. On failure it returns nil and the error is left on r.
func DecodeType(r *binio.Reader) *Type {
	at := r.Offset()
	t := NewType(r.String(), r.String())
	t.Attributes = TypeAttributes(r.Uint32())
	t.BaseType = r.String()

	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		t.Fields = append(t.Fields, Field{
			Name:       r.String(),
			FieldType:  r.String(),
			Attributes: FieldAttributes(r.Uint16()),
		})
	}

	n = r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		m := decodeMethod(r)
		if m == nil {
			break
		}
		if err := t.AddMethod(m); err != nil {
			r.Fail(fmt.Errorf("type at offset %d: %w", at, err))
		}
	}

	n = r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		nested := DecodeType(r)
		if nested == nil {
			break
		}
		if err := t.AddNestedType(nested); err != nil {
			r.Fail(fmt.Errorf("type at offset %d: %w", at, err))
		}
	}

	if r.Err() != nil {
		return nil
	}
	return t
}

func encodeMethod(w *binio.Writer, m *Method) {
	w.String(m.Name)
	w.String(m.ReturnType)
	w.Uint16(uint16(m.Attributes))

	w.Count(len(m.Parameters))
	for _, p := range m.Parameters {
		w.String(p.Name)
		w.String(p.Type)
	}

	w.Bool(m.Body != nil)
	if m.Body == nil {
		return
	}
	w.Count(len(m.Body.Locals))
	for _, l := range m.Body.Locals {
		w.String(l)
	}
	w.Count(len(m.Body.Instructions))
	for _, in := range m.Body.Instructions {
		il.Encode(w, in)
	}
}

func decodeMethod(r *binio.Reader) *Method {
	m := &Method{
		Name:       r.String(),
		ReturnType: r.String(),
		Attributes: MethodAttributes(r.Uint16()),
	}

	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		m.Parameters = append(m.Parameters, Parameter{Name: r.String(), Type: r.String()})
	}

	if r.Bool() {
		m.Body = &Body{}
		n = r.Count()
		for i := 0; i < n && r.Err() == nil; i++ {
			m.Body.Locals = append(m.Body.Locals, r.String())
		}
		n = r.Count()
		m.Body.Instructions = make(il.Stream, 0, n)
		for i := 0; i < n && r.Err() == nil; i++ {
			m.Body.Instructions = append(m.Body.Instructions, il.Decode(r))
		}
	}

	if r.Err() != nil {
		return nil
	}
	return m
}
