package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/stimulus"
	"github.com/spf13/cobra"
)

var showScript bool

var testbenchCmd = &cobra.Command{
	Use:   "testbench",
	Short: "Replay the built-in reference sequence",
	Long: `Replay the reference harness sequence: an IR sequence, five idle cycles,
a DR sequence and five more idle cycles. Nothing is asserted; the trace is
printed for inspection.

Examples:
  tapsim testbench
  tapsim testbench --script > testbench.tap`,
	Args: cobra.NoArgs,
	RunE: runTestbench,
}

func init() {
	rootCmd.AddCommand(testbenchCmd)

	testbenchCmd.Flags().BoolVar(&showScript, "script", false,
		"print the script instead of running it")
}

func runTestbench(cmd *cobra.Command, args []string) error {
	if showScript {
		fmt.Print(stimulus.TestbenchSource())
		return nil
	}

	script, err := stimulus.Testbench()
	if err != nil {
		return fmt.Errorf("failed to load testbench: %w", err)
	}
	return replay(script)
}
