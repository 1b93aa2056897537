package il

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// OperandKind says how an Operand's payload is interpreted. The numeric
// values are persisted in image and patch files.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandInt32
	OperandInt64
	OperandFloat32
	OperandFloat64
	OperandString
	OperandType
	OperandMethod
	OperandField
	OperandToken
	OperandBranch
	OperandSwitch
	OperandLocal
	OperandArgument
)

var operandKindNames = [...]string{
	OperandNone:     "none",
	OperandInt32:    "int32",
	OperandInt64:    "int64",
	OperandFloat32:  "float32",
	OperandFloat64:  "float64",
	OperandString:   "string",
	OperandType:     "type",
	OperandMethod:   "method",
	OperandField:    "field",
	OperandToken:    "token",
	OperandBranch:   "branch",
	OperandSwitch:   "switch",
	OperandLocal:    "local",
	OperandArgument: "argument",
}

// Valid reports whether k is a known operand kind.
func (k OperandKind) Valid() bool {
	return int(k) < len(operandKindNames)
}

func (k OperandKind) String() string {
	if k.Valid() {
		return operandKindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsMember reports whether the operand refers to a type, method or field by
// full name.
func (k OperandKind) IsMember() bool {
	switch k {
	case OperandType, OperandMethod, OperandField, OperandToken:
		return true
	}
	return false
}

// Operand is an instruction argument held by value. Member references are
// carried by full name and branch targets by instruction index, so operands
// taken from two separately loaded images compare equal when they say the
// same thing.
type Operand struct {
	Kind    OperandKind
	Int     int64   // int32, int64, branch, local and argument operands
	Float   float64 // float32 and float64 operands
	Name    string  // string literal or member full name
	Targets []int   // switch operands
}

func Int32(v int32) Operand { return Operand{Kind: OperandInt32, Int: int64(v)} }

func Int64(v int64) Operand { return Operand{Kind: OperandInt64, Int: v} }

func Float32(v float32) Operand { return Operand{Kind: OperandFloat32, Float: float64(v)} }

func Float64(v float64) Operand { return Operand{Kind: OperandFloat64, Float: v} }

func String(s string) Operand { return Operand{Kind: OperandString, Name: s} }

func TypeRef(name string) Operand { return Operand{Kind: OperandType, Name: name} }

func MethodRef(sig string) Operand { return Operand{Kind: OperandMethod, Name: sig} }

func FieldRef(name string) Operand { return Operand{Kind: OperandField, Name: name} }

func TokenRef(name string) Operand { return Operand{Kind: OperandToken, Name: name} }

func Branch(target int) Operand { return Operand{Kind: OperandBranch, Int: int64(target)} }

func Local(index int) Operand { return Operand{Kind: OperandLocal, Int: int64(index)} }

func Arg(index int) Operand { return Operand{Kind: OperandArgument, Int: int64(index)} }

// SwitchTable builds a switch operand jumping to the given instruction indices.
func SwitchTable(targets ...int) Operand {
	return Operand{Kind: OperandSwitch, Targets: slices.Clone(targets)}
}

// Equal compares operands by value. Floats compare by bit pattern so a NaN
// literal equals itself.
func (o Operand) Equal(p Operand) bool {
	if o.Kind != p.Kind {
		return false
	}
	switch o.Kind {
	case OperandNone:
		return true
	case OperandInt32, OperandInt64, OperandBranch, OperandLocal, OperandArgument:
		return o.Int == p.Int
	case OperandFloat32, OperandFloat64:
		return math.Float64bits(o.Float) == math.Float64bits(p.Float)
	case OperandSwitch:
		return slices.Equal(o.Targets, p.Targets)
	default:
		return o.Name == p.Name
	}
}

// Clone returns a copy that shares no memory with o.
func (o Operand) Clone() Operand {
	o.Targets = slices.Clone(o.Targets)
	return o
}

// Label formats an instruction index the way listings print it.
func Label(index int) string {
	return "IL_" + leftPad(strconv.FormatInt(int64(index), 16), 4)
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return ""
	case OperandInt32, OperandInt64:
		return strconv.FormatInt(o.Int, 10)
	case OperandFloat32:
		return strconv.FormatFloat(o.Float, 'g', -1, 32)
	case OperandFloat64:
		return strconv.FormatFloat(o.Float, 'g', -1, 64)
	case OperandString:
		return strconv.Quote(o.Name)
	case OperandBranch:
		return Label(int(o.Int))
	case OperandSwitch:
		labels := make([]string, len(o.Targets))
		for i, t := range o.Targets {
			labels[i] = Label(t)
		}
		return "(" + strings.Join(labels, ",") + ")"
	case OperandLocal:
		return "V_" + strconv.FormatInt(o.Int, 10)
	case OperandArgument:
		return "A_" + strconv.FormatInt(o.Int, 10)
	default:
		return o.Name
	}
}
