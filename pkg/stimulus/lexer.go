package stimulus

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ScriptLexer tokenizes stimulus scripts. Keywords are plain identifiers and
// are matched by the grammar, so state names and commands share one rule.
var ScriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Newlines and semicolons only separate commands
	{Name: "Whitespace", Pattern: `[\s;]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Numbers; hex must come first so 0x.. is not split
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`},
	{Name: "Int", Pattern: `[0-9]+`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
