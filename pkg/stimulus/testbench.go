package stimulus

import (
	_ "embed"
)

//go:embed testbench.tap
var testbenchSource string

// TestbenchSource returns the text of the built-in testbench script.
func TestbenchSource() string { return testbenchSource }

// Testbench parses the built-in testbench script: an IR sequence, five idle
// cycles, a DR sequence and five more idle cycles, as driven by the reference
// harness. It asserts nothing.
func Testbench() (*Script, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseString("testbench.tap", testbenchSource)
}
