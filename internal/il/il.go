// Package il defines the value representation of managed-code instructions
// shared by the image model, the diff engine and the patch format.
package il

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownOpCode is returned for opcodes missing from the opcode table.
	ErrUnknownOpCode = errors.New("unknown opcode")

	// ErrOperandMismatch is returned when an operand does not fit its opcode.
	ErrOperandMismatch = errors.New("operand does not match opcode")
)

// Instruction is one (opcode, operand) pair. Instructions are plain values:
// two instructions are the same instruction when Equal says so, regardless of
// which image they were loaded from.
type Instruction struct {
	OpCode  OpCode
	Operand Operand
}

// New returns an instruction with no operand.
func New(op OpCode) Instruction {
	return Instruction{OpCode: op}
}

// With returns an instruction carrying operand.
func With(op OpCode, operand Operand) Instruction {
	return Instruction{OpCode: op, Operand: operand}
}

// Equal reports value equality over opcode and operand.
func (in Instruction) Equal(other Instruction) bool {
	return in.OpCode == other.OpCode && in.Operand.Equal(other.Operand)
}

// Clone returns a deep copy.
func (in Instruction) Clone() Instruction {
	in.Operand = in.Operand.Clone()
	return in
}

// Validate checks the opcode is known and the operand kind fits it.
func (in Instruction) Validate() error {
	if !in.OpCode.Known() {
		return fmt.Errorf("%#04x: %w", uint16(in.OpCode), ErrUnknownOpCode)
	}
	want := in.OpCode.OperandKind()
	got := in.Operand.Kind
	if got == want || (want == OperandToken && got.IsMember()) {
		return nil
	}
	return fmt.Errorf("%s takes a %s operand, got %s: %w", in.OpCode, want, got, ErrOperandMismatch)
}

func (in Instruction) String() string {
	if in.Operand.Kind == OperandNone {
		return in.OpCode.Name()
	}
	return in.OpCode.Name() + " " + in.Operand.String()
}

// Stream is an ordered instruction sequence, a method body.
type Stream []Instruction

// Equal reports element-wise value equality.
func (s Stream) Equal(other Stream) bool {
	return slices.EqualFunc(s, other, Instruction.Equal)
}

// Clone returns a deep copy.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, in := range s {
		out[i] = in.Clone()
	}
	return out
}
