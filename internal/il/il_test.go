package il

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/Steviegt6/TerraWeave/internal/binio"
)

func TestInstructionEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Instruction
		want bool
	}{
		{
			name: "same opcode no operand",
			a:    New(Ret),
			b:    New(Ret),
			want: true,
		},
		{
			name: "same int operand",
			a:    With(LdcI4, Int32(5)),
			b:    With(LdcI4, Int32(5)),
			want: true,
		},
		{
			name: "different int operand",
			a:    With(LdcI4, Int32(5)),
			b:    With(LdcI4, Int32(7)),
			want: false,
		},
		{
			name: "different opcode",
			a:    New(Add),
			b:    New(Sub),
			want: false,
		},
		{
			name: "method by signature",
			a:    With(Call, MethodRef("System.Void Terraria.Main::Update()")),
			b:    With(Call, MethodRef("System.Void Terraria.Main::Update()")),
			want: true,
		},
		{
			name: "same payload different kind",
			a:    With(Ldstr, String("Terraria.Main")),
			b:    With(Ldstr, TypeRef("Terraria.Main")),
			want: false,
		},
		{
			name: "switch tables",
			a:    With(Switch, SwitchTable(1, 2, 3)),
			b:    With(Switch, SwitchTable(1, 2, 3)),
			want: true,
		},
		{
			name: "switch tables differ",
			a:    With(Switch, SwitchTable(1, 2, 3)),
			b:    With(Switch, SwitchTable(1, 2)),
			want: false,
		},
		{
			name: "nan equals itself",
			a:    With(LdcR8, Float64(math.NaN())),
			b:    With(LdcR8, Float64(math.NaN())),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := Stream{With(Switch, SwitchTable(4, 5))}
	cp := orig.Clone()
	cp[0].Operand.Targets[0] = 9
	if orig[0].Operand.Targets[0] != 4 {
		t.Errorf("clone shares switch targets with the original")
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []Instruction{
		New(Nop),
		New(Ldarg0),
		With(LdcI4, Int32(-42)),
		With(LdcI8, Int64(1<<40)),
		With(LdcR4, Float32(0.1)),
		With(LdcR8, Float64(2.5)),
		With(Ldstr, String("Hello \"Terraria\"\n")),
		With(Call, MethodRef("System.Void Terraria.Main::DrawMenu(Microsoft.Xna.Framework.GameTime)")),
		With(Ldfld, FieldRef("System.Int32 Terraria.Player::statLife")),
		With(Newarr, TypeRef("System.Byte")),
		With(Ldtoken, TokenRef("Terraria.Item")),
		With(BrtrueS, Branch(0x1c)),
		With(Switch, SwitchTable(2, 7, 11)),
		With(Switch, SwitchTable()),
		With(Stloc, Local(4)),
		With(Starg, Arg(1)),
	}

	for _, want := range tests {
		t.Run(want.String(), func(t *testing.T) {
			got, err := Parse(want.String())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", want.String(), err)
			}
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = %v, want %v", want.String(), got, want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unknown mnemonic", text: "frobnicate 3", want: ErrUnknownOpCode},
		{name: "operand on nullary", text: "ret 1", want: ErrSyntax},
		{name: "missing operand", text: "ldstr", want: ErrSyntax},
		{name: "bad int", text: "ldc.i4 five", want: ErrSyntax},
		{name: "unquoted string", text: "ldstr hello", want: ErrSyntax},
		{name: "bad label", text: "br IL_zz", want: ErrSyntax},
		{name: "switch without parens", text: "switch IL_0001", want: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestParseDecimalLabel(t *testing.T) {
	got, err := Parse("br 12")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !got.Equal(With(Br, Branch(12))) {
		t.Errorf("got %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := With(LdcI4, String("x")).Validate(); !errors.Is(err, ErrOperandMismatch) {
		t.Errorf("mismatched operand: err = %v", err)
	}
	if err := New(OpCode(0xfeff)).Validate(); !errors.Is(err, ErrUnknownOpCode) {
		t.Errorf("unknown opcode: err = %v", err)
	}
	if err := With(Ldtoken, MethodRef("System.Void A::B()")).Validate(); err != nil {
		t.Errorf("ldtoken accepts member operands: %v", err)
	}
}

func TestOpCodeNames(t *testing.T) {
	for op, info := range opcodes {
		back, ok := LookupOpCode(info.name)
		if !ok || back != op {
			t.Errorf("LookupOpCode(%q) = %v, %v; want %v", info.name, back, ok, op)
		}
	}
	if got := OpCode(0xfeff).Name(); got != "op_FEFF" {
		t.Errorf("unknown opcode name = %q", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	stream := Stream{
		New(Ldarg0),
		With(LdcI4S, Int32(-3)),
		With(LdcI8, Int64(math.MaxInt64)),
		With(LdcR4, Float32(3.25)),
		With(LdcR8, Float64(-1e300)),
		With(Ldstr, String("Vanilla")),
		With(Callvirt, MethodRef("System.String System.Object::ToString()")),
		With(Stsfld, FieldRef("System.Boolean Terraria.Main::gameMenu")),
		With(Isinst, TypeRef("Terraria.NPC")),
		With(Ldtoken, FieldRef("System.Int32 Terraria.Main::maxTilesX")),
		With(Leave, Branch(9)),
		With(Switch, SwitchTable(0, 3)),
		With(LdlocS, Local(7)),
		With(LdargaS, Arg(2)),
		New(Ret),
	}

	var buf bytes.Buffer
	w := binio.NewWriter(&buf)
	for _, in := range stream {
		Encode(w, in)
	}
	if err := w.Err(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	r := binio.NewReader(buf.Bytes())
	var got Stream
	for range stream {
		got = append(got, Decode(r))
	}
	if err := r.Err(); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("%d bytes left over", r.Remaining())
	}
	if !got.Equal(stream) {
		t.Errorf("decoded stream differs:\n got %v\nwant %v", got, stream)
	}
}

func TestDecodeRejectsBadKind(t *testing.T) {
	r := binio.NewReader([]byte{0x2a, 0x00, 0xee})
	Decode(r)
	if !errors.Is(r.Err(), ErrBadOperandKind) {
		t.Errorf("err = %v, want ErrBadOperandKind", r.Err())
	}
}

func TestDecodeRejectsMismatchedOperand(t *testing.T) {
	// ret carrying an int32 operand
	r := binio.NewReader([]byte{0x2a, 0x00, byte(OperandInt32), 1, 0, 0, 0})
	Decode(r)
	if !errors.Is(r.Err(), ErrOperandMismatch) {
		t.Errorf("err = %v, want ErrOperandMismatch", r.Err())
	}
}
