package stimulus

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// Parser reads stimulus scripts.
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser creates a new script parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(ScriptLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a script from a reader; name is used in positions.
func (p *Parser) Parse(name string, r io.Reader) (*Script, error) {
	script, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return script, script.validate()
}

// ParseString parses a script from a string
func (p *Parser) ParseString(name, input string) (*Script, error) {
	script, err := p.parser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return script, script.validate()
}

// ParseFile parses a script from a file path
func (p *Parser) ParseFile(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// validate resolves names and bit strings up front so a script fails before
// any edge is clocked. Pin values are left to the controller.
func (s *Script) validate() error {
	for _, cmd := range s.Commands {
		if err := cmd.validate(); err != nil {
			return fmt.Errorf("stimulus: %s: %s: %w", cmd.Pos, cmd.Kind(), err)
		}
	}
	return nil
}

func (c *Command) validate() error {
	var expect *string
	var tdo *int
	switch {
	case c.Cycle != nil:
		expect, tdo = c.Cycle.Expect, c.Cycle.TDO
	case c.Pins != nil:
		if c.Pins.Value < 0 || c.Pins.Value > 0xFF {
			return fmt.Errorf("pin byte %d out of range", c.Pins.Value)
		}
		expect, tdo = c.Pins.Expect, c.Pins.TDO
	case c.Goto != nil:
		expect = c.Goto
	case c.Shift != nil:
		bits, err := register.ParseBits(c.Shift.Bits)
		if err != nil {
			return err
		}
		if c.Shift.TDO != nil {
			want, err := register.ParseBits(*c.Shift.TDO)
			if err != nil {
				return err
			}
			if len(want) != len(bits) {
				return fmt.Errorf("tdo has %d bits, shift has %d", len(want), len(bits))
			}
		}
	}
	if expect != nil {
		if _, err := tap.ParseState(*expect); err != nil {
			return err
		}
	}
	if tdo != nil && *tdo != 0 && *tdo != 1 {
		return fmt.Errorf("expected tdo %d is not a bit", *tdo)
	}
	return nil
}
