package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/Steviegt6/TerraWeave/internal/terraweave/styles"
)

// ILLexer tokenizes IL listings in the text form instructions print in:
//
//	IL_0002: call System.Void Terraria.Main::DrawMenu(Microsoft.Xna.Framework.GameTime)
//	+ IL_0003: ldstr "TerraWeave"
var ILLexer = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "TerraWeave IL",
		Aliases:   []string{"twil"},
		Filenames: []string{"*.twil"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `//[^\n]*`, Type: chroma.Comment},
				{Pattern: `^[ \t]*\+`, Type: chroma.GenericInserted},
				{Pattern: `^[ \t]*-`, Type: chroma.GenericDeleted},
				{Pattern: `^[ \t]*~`, Type: chroma.GenericEmph},
				{Pattern: `IL_[0-9a-fA-F]+:?`, Type: chroma.NameLabel},
				{Pattern: `"(\\.|[^"\\])*"`, Type: chroma.LiteralString},
				{Pattern: `\b[A-Za-z_][\w.<>` + "`" + `,\[\]]*::[^\s(]+(\([^)]*\))?`, Type: chroma.NameFunction},
				{Pattern: `\b(V|A)_\d+\b`, Type: chroma.NameVariable},
				{Pattern: `-?\d+\.\d+([eE][+-]?\d+)?`, Type: chroma.LiteralNumberFloat},
				{Pattern: `-?(0x[0-9a-fA-F]+|\d+)\b`, Type: chroma.LiteralNumberInteger},
				{Pattern: `\b[a-z][a-z0-9]*(\.[a-z0-9]+)*\b`, Type: chroma.Keyword},
				{Pattern: `[A-Za-z_][\w.<>` + "`" + `/]*`, Type: chroma.NameClass},
				{Pattern: `[(),:]`, Type: chroma.Punctuation},
				{Pattern: `\s+`, Type: chroma.TextWhitespace},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
))

// Dark is the style IL listings and JSON dumps are coloured with.
var Dark = chromastyles.Register(chroma.MustNewStyle("terraweave-dark", chroma.StyleEntries{
	chroma.Text:            styles.Foreground,
	chroma.Background:      "bg:#1e1e1e",
	chroma.Comment:         styles.Muted,
	chroma.Keyword:         styles.Opcode,
	chroma.KeywordConstant: styles.Number,
	chroma.NameLabel:       styles.Label,
	chroma.NameFunction:    styles.Member,
	chroma.NameClass:       styles.Member,
	chroma.NameTag:         styles.Opcode,
	chroma.NameVariable:    styles.Number,
	chroma.LiteralString:   styles.Literal,
	chroma.LiteralNumber:   styles.Number,
	chroma.Punctuation:     styles.Foreground,
	chroma.GenericInserted: styles.Insert,
	chroma.GenericDeleted:  styles.Remove,
	chroma.GenericEmph:     styles.Modify,
}))
