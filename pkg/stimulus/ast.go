package stimulus

import "github.com/alecthomas/participle/v2/lexer"

// Script is a parsed stimulus script.
type Script struct {
	Commands []*Command `@@*`
}

// Command is one script statement.
// Example: cycle 0 1 expect ShiftIR tdo 0
type Command struct {
	Pos lexer.Position

	Reset   bool    `(  @"reset"`
	TLR     bool    ` | @"tlr"`
	Section *string ` | "section" @String`
	Cycle   *Cycle  ` | @@`
	Pins    *Pins   ` | @@`
	Idle    *int    ` | "idle" @Int`
	Goto    *string ` | "goto" @Ident`
	Shift   *Shift  ` | @@ )`
}

// Cycle drives one edge with explicit pin values.
// Example: cycle 1 0 expect SelectDRScan
type Cycle struct {
	TMS    int     `"cycle" @Int`
	TDI    int     `@Int`
	Expect *string `( "expect" @Ident )?`
	TDO    *int    `( "tdo" @Int )?`
}

// Pins drives one edge from the packed (tms<<1)|tdi byte.
// Example: pins 0x02
type Pins struct {
	Value  int     `"pins" @( Hex | Int )`
	Expect *string `( "expect" @Ident )?`
	TDO    *int    `( "tdo" @Int )?`
}

// Shift pushes a bit string through the selected register, raising TMS with
// the last bit.
// Example: shift "1011" tdo "0001"
type Shift struct {
	Bits string  `"shift" @String`
	TDO  *string `( "tdo" @String )?`
}

// Kind names the command for messages.
func (c *Command) Kind() string {
	switch {
	case c.Reset:
		return "reset"
	case c.TLR:
		return "tlr"
	case c.Section != nil:
		return "section"
	case c.Cycle != nil:
		return "cycle"
	case c.Pins != nil:
		return "pins"
	case c.Idle != nil:
		return "idle"
	case c.Goto != nil:
		return "goto"
	case c.Shift != nil:
		return "shift"
	}
	return "unknown"
}
