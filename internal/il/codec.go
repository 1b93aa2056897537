package il

import (
	"errors"
	"fmt"

	"github.com/Steviegt6/TerraWeave/internal/binio"
)

// ErrBadOperandKind is returned when decoding an operand kind byte that is
// not defined.
var ErrBadOperandKind = errors.New("invalid operand kind")

// Encode writes in as: uint16 opcode, byte operand kind, operand payload.
func Encode(w *binio.Writer, in Instruction) {
	w.Uint16(uint16(in.OpCode))
	w.Byte(byte(in.Operand.Kind))

	o := in.Operand
	switch o.Kind {
	case OperandNone:
	case OperandInt32, OperandBranch, OperandLocal, OperandArgument:
		w.Int32(int32(o.Int))
	case OperandInt64:
		w.Int64(o.Int)
	case OperandFloat32:
		w.Float32(float32(o.Float))
	case OperandFloat64:
		w.Float64(o.Float)
	case OperandSwitch:
		w.Count(len(o.Targets))
		for _, t := range o.Targets {
			w.Int32(int32(t))
		}
	default:
		w.String(o.Name)
	}
}

// Decode reads one instruction written by Encode. Failures are recorded on r.
func Decode(r *binio.Reader) Instruction {
	at := r.Offset()
	op := OpCode(r.Uint16())
	kind := OperandKind(r.Byte())
	if r.Err() != nil {
		return Instruction{}
	}
	if !kind.Valid() {
		r.Fail(fmt.Errorf("instruction at offset %d: kind %d: %w", at, kind, ErrBadOperandKind))
		return Instruction{}
	}

	o := Operand{Kind: kind}
	switch kind {
	case OperandNone:
	case OperandInt32, OperandBranch, OperandLocal, OperandArgument:
		o.Int = int64(r.Int32())
	case OperandInt64:
		o.Int = r.Int64()
	case OperandFloat32:
		o.Float = float64(r.Float32())
	case OperandFloat64:
		o.Float = r.Float64()
	case OperandSwitch:
		n := r.Count()
		o.Targets = make([]int, 0, n)
		for i := 0; i < n; i++ {
			o.Targets = append(o.Targets, int(r.Int32()))
		}
	default:
		o.Name = r.String()
	}

	in := Instruction{OpCode: op, Operand: o}
	if r.Err() != nil {
		return Instruction{}
	}
	if err := in.Validate(); err != nil {
		r.Fail(fmt.Errorf("instruction at offset %d: %w", at, err))
		return Instruction{}
	}
	return in
}
