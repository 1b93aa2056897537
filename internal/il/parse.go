package il

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for instruction text that cannot be parsed.
var ErrSyntax = errors.New("invalid instruction syntax")

// Parse reads the text form produced by Instruction.String, e.g.
//
//	ldstr "Hello"
//	call System.Void Terraria.Main::DrawMenu(Microsoft.Xna.Framework.GameTime)
//	brtrue.s IL_0004
//	switch (IL_0002,IL_0007)
//
// Branch labels are instruction indices in hex; plain decimal indices are
// accepted too.
func Parse(text string) (Instruction, error) {
	text = strings.TrimSpace(text)
	name, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)

	op, ok := LookupOpCode(name)
	if !ok {
		return Instruction{}, fmt.Errorf("%q: %w", name, ErrUnknownOpCode)
	}

	kind := op.OperandKind()
	if kind == OperandNone {
		if rest != "" {
			return Instruction{}, fmt.Errorf("%s takes no operand, got %q: %w", name, rest, ErrSyntax)
		}
		return New(op), nil
	}
	if rest == "" {
		return Instruction{}, fmt.Errorf("%s needs a %s operand: %w", name, kind, ErrSyntax)
	}

	operand, err := parseOperand(kind, rest)
	if err != nil {
		return Instruction{}, fmt.Errorf("%s operand %q: %w", name, rest, err)
	}
	return With(op, operand), nil
}

// ParseStream parses one instruction per entry.
func ParseStream(lines []string) (Stream, error) {
	out := make(Stream, 0, len(lines))
	for i, line := range lines {
		in, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func parseOperand(kind OperandKind, s string) (Operand, error) {
	switch kind {
	case OperandInt32:
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return Operand{}, syntaxErr(err)
		}
		return Int32(int32(v)), nil
	case OperandInt64:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return Operand{}, syntaxErr(err)
		}
		return Int64(v), nil
	case OperandFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Operand{}, syntaxErr(err)
		}
		return Float32(float32(v)), nil
	case OperandFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Operand{}, syntaxErr(err)
		}
		return Float64(v), nil
	case OperandString:
		v, err := strconv.Unquote(s)
		if err != nil {
			return Operand{}, syntaxErr(err)
		}
		return String(v), nil
	case OperandBranch:
		v, err := parseLabel(s)
		if err != nil {
			return Operand{}, err
		}
		return Branch(v), nil
	case OperandSwitch:
		if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
			return Operand{}, ErrSyntax
		}
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return SwitchTable(), nil
		}
		var targets []int
		for _, part := range strings.Split(inner, ",") {
			v, err := parseLabel(strings.TrimSpace(part))
			if err != nil {
				return Operand{}, err
			}
			targets = append(targets, v)
		}
		return SwitchTable(targets...), nil
	case OperandLocal:
		v, err := parseIndex(s, "V_")
		if err != nil {
			return Operand{}, err
		}
		return Local(v), nil
	case OperandArgument:
		v, err := parseIndex(s, "A_")
		if err != nil {
			return Operand{}, err
		}
		return Arg(v), nil
	default:
		return Operand{Kind: kind, Name: s}, nil
	}
}

func parseLabel(s string) (int, error) {
	base := 10
	if strings.HasPrefix(s, "IL_") {
		s = s[3:]
		base = 16
	}
	v, err := strconv.ParseInt(s, base, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("label %q: %w", s, ErrSyntax)
	}
	return int(v), nil
}

func parseIndex(s, prefix string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("index %q: %w", s, ErrSyntax)
	}
	return int(v), nil
}

func syntaxErr(err error) error {
	return fmt.Errorf("%v: %w", err, ErrSyntax)
}
