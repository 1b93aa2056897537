package patch

import (
	"errors"
	"fmt"

	"github.com/Steviegt6/TerraWeave/internal/binio"
	"github.com/Steviegt6/TerraWeave/internal/il"
	"github.com/Steviegt6/TerraWeave/internal/image"
)

// TypeInject adds a new top-level type.
type TypeInject struct {
	Type *image.Type
}

func (TypeInject) Kind() Kind { return KindTypeInject }

func (r TypeInject) Target() string { return r.Type.FullName() }

// Apply imports a copy of the type, nested types included.
func (r TypeInject) Apply(im *image.Image) error {
	if im.Type(r.Type.FullName()) != nil {
		return fmt.Errorf("%s: %w", r.Type.FullName(), ErrTypeExists)
	}
	return im.AddType(im.Import(r.Type))
}

func (r TypeInject) encode(w *binio.Writer) {
	image.EncodeType(w, r.Type)
}

func decodeTypeInject(r *binio.Reader) Record {
	return TypeInject{Type: image.DecodeType(r)}
}

// NestedTypeInject adds a new type nested inside a type the baseline
// already has.
type NestedTypeInject struct {
	DeclaringType string
	Type          *image.Type
}

func (NestedTypeInject) Kind() Kind { return KindNestedTypeInject }

func (r NestedTypeInject) Target() string { return r.DeclaringType + "/" + r.Type.Name }

func (r NestedTypeInject) Apply(im *image.Image) error {
	decl := im.Type(r.DeclaringType)
	if decl == nil {
		return fmt.Errorf("declaring type %s: %w", r.DeclaringType, ErrTypeNotFound)
	}
	if im.Type(r.Target()) != nil {
		return fmt.Errorf("%s: %w", r.Target(), ErrTypeExists)
	}
	return im.AddNestedType(decl, im.Import(r.Type))
}

func (r NestedTypeInject) encode(w *binio.Writer) {
	w.String(r.DeclaringType)
	image.EncodeType(w, r.Type)
}

func decodeNestedTypeInject(r *binio.Reader) Record {
	decl := r.String()
	return NestedTypeInject{DeclaringType: decl, Type: image.DecodeType(r)}
}

// MethodModify edits the body of an existing method.
type MethodModify struct {
	Signature string
	Changes   []MethodChange
}

func (MethodModify) Kind() Kind { return KindMethodModify }

func (r MethodModify) Target() string { return r.Signature }

// Apply replays the changes in recorded order in a single forward pass.
// Each index is used as recorded: it is the scan position at which the
// change was captured, and the live list at that point already reflects
// every earlier change. The method is only updated if every change fits.
func (r MethodModify) Apply(im *image.Image) error {
	m := im.Method(r.Signature)
	if m == nil {
		return fmt.Errorf("%s: %w", r.Signature, ErrMethodNotFound)
	}

	body := &image.Body{}
	if m.Body != nil {
		body = m.Body.Clone()
	}
	for i, c := range r.Changes {
		if err := c.apply(body); err != nil {
			return fmt.Errorf("change %d (%s at %d): %w", i, c.Action, c.Index, err)
		}
	}
	m.Body = body
	return nil
}

func (r MethodModify) encode(w *binio.Writer) {
	w.String(r.Signature)
	w.Count(len(r.Changes))
	for _, c := range r.Changes {
		w.Byte(byte(c.Action))
		w.Int32(int32(c.Index))
		if c.Action.carriesInstruction() {
			il.Encode(w, c.Instruction)
		}
	}
}

func decodeMethodModify(r *binio.Reader) Record {
	rec := MethodModify{Signature: r.String()}
	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		at := r.Offset()
		c := MethodChange{Action: Action(r.Byte()), Index: int(r.Int32())}
		if r.Err() != nil {
			break
		}
		if !c.Action.valid() {
			r.Fail(fmt.Errorf("change at offset %d: action %d: %w", at, byte(c.Action), ErrUnknownRecord))
			break
		}
		if c.Action.carriesInstruction() {
			c.Instruction = il.Decode(r)
		}
		rec.Changes = append(rec.Changes, c)
	}
	return rec
}

// Action is the kind of a MethodChange.
type Action byte

const (
	ActionInsert Action = 0
	ActionModify Action = 1
	ActionRemove Action = 2
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionModify:
		return "modify"
	case ActionRemove:
		return "remove"
	}
	return fmt.Sprintf("Action(%d)", byte(a))
}

func (a Action) valid() bool { return a <= ActionRemove }

func (a Action) carriesInstruction() bool { return a == ActionInsert || a == ActionModify }

// MethodChange is one edit at an instruction position. Instruction is unset
// for removals.
type MethodChange struct {
	Action      Action
	Index       int
	Instruction il.Instruction
}

// Insert places in before the instruction at index.
func Insert(index int, in il.Instruction) MethodChange {
	return MethodChange{Action: ActionInsert, Index: index, Instruction: in}
}

// Modify replaces the instruction at index with in.
func Modify(index int, in il.Instruction) MethodChange {
	return MethodChange{Action: ActionModify, Index: index, Instruction: in}
}

// Remove deletes the instruction at index.
func Remove(index int) MethodChange {
	return MethodChange{Action: ActionRemove, Index: index}
}

// Equal compares changes by value.
func (c MethodChange) Equal(other MethodChange) bool {
	if c.Action != other.Action || c.Index != other.Index {
		return false
	}
	return !c.Action.carriesInstruction() || c.Instruction.Equal(other.Instruction)
}

func (c MethodChange) String() string {
	if !c.Action.carriesInstruction() {
		return fmt.Sprintf("%s %s", c.Action, il.Label(c.Index))
	}
	return fmt.Sprintf("%s %s: %s", c.Action, il.Label(c.Index), c.Instruction)
}

func (c MethodChange) apply(body *image.Body) error {
	var err error
	switch c.Action {
	case ActionInsert:
		err = body.Insert(c.Index, c.Instruction)
	case ActionModify:
		err = body.Replace(c.Index, c.Instruction)
	case ActionRemove:
		err = body.RemoveAt(c.Index)
	default:
		return fmt.Errorf("action %d: %w", byte(c.Action), ErrUnknownRecord)
	}
	if errors.Is(err, image.ErrIndexOutOfRange) {
		return fmt.Errorf("%d instructions: %w", body.Len(), ErrChangeOutOfRange)
	}
	return err
}
