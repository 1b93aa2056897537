package colorize

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
)

func tokenTypes(t *testing.T, code string) map[string]chroma.TokenType {
	t.Helper()
	it, err := ILLexer.Tokenise(nil, code)
	if err != nil {
		t.Fatalf("Tokenise failed: %v", err)
	}
	out := make(map[string]chroma.TokenType)
	for _, tok := range it.Tokens() {
		out[tok.Value] = tok.Type
	}
	return out
}

func TestILLexer(t *testing.T) {
	toks := tokenTypes(t, `IL_0003: call System.Void Terraria.Main::DrawMenu(Microsoft.Xna.Framework.GameTime)`+"\n"+
		`IL_0004: ldstr "TerraWeave"`+"\n"+`IL_0005: ldc.i4 42`)

	want := map[string]chroma.TokenType{
		"IL_0003:":     chroma.NameLabel,
		"call":         chroma.Keyword,
		"ldc.i4":       chroma.Keyword,
		`"TerraWeave"`: chroma.LiteralString,
		"42":           chroma.LiteralNumberInteger,
		"Terraria.Main::DrawMenu(Microsoft.Xna.Framework.GameTime)": chroma.NameFunction,
	}
	for value, typ := range want {
		got, ok := toks[value]
		if !ok {
			t.Errorf("no token %q in %v", value, toks)
			continue
		}
		if got != typ {
			t.Errorf("token %q = %v, want %v", value, got, typ)
		}
	}
}

func TestDisabled(t *testing.T) {
	t.Setenv("TERRAWEAVE_NO_COLOR", "1")
	code := "IL_0000: ret"
	out, err := IL(code)
	if err != nil || out != code {
		t.Errorf("IL = %q, %v; want input unchanged", out, err)
	}
}

func TestEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERRAWEAVE_NO_COLOR", "")
	out, err := JSON(`{"kind": "TypeInject"}`)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("no escape codes in %q", out)
	}
	if Line("IL_0000: ret") == "" {
		t.Error("Line returned nothing")
	}
}
