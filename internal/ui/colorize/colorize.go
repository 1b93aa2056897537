// Package colorize highlights IL listings and JSON dumps for the terminal
// with chroma.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether colour output is turned off through NO_COLOR or
// TERRAWEAVE_NO_COLOR.
func Disabled() bool {
	return os.Getenv("NO_COLOR") != "" || os.Getenv("TERRAWEAVE_NO_COLOR") != ""
}

// getStyle returns the listing style with fallbacks
func getStyle() *chroma.Style {
	for _, name := range []string{"terraweave-dark", "dracula", "monokai"} {
		if style := chromastyles.Get(name); style != nil {
			return style
		}
	}
	return chromastyles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

func highlight(lexer chroma.Lexer, code string) (string, error) {
	if Disabled() || lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// IL colours an IL listing. On failure the listing is returned unchanged
// along with the error.
func IL(code string) (string, error) {
	return highlight(ILLexer, code)
}

// JSON colours a JSON document.
func JSON(code string) (string, error) {
	return highlight(lexers.Get("json"), code)
}

// Line colours listing text without a trailing newline, falling back to the
// plain text.
func Line(line string) string {
	out, err := IL(line)
	if err != nil {
		return line
	}
	return strings.TrimRight(out, "\n")
}
