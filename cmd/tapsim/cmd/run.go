package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/stimulus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Replay a stimulus script against a fresh controller",
	Long: `Parse a stimulus script and clock it through a controller, printing one
line per edge in the harness format.

Examples:
  tapsim run sequence.tap
  tapsim run --ir-length 4 --ir-capture 0x1 sequence.tap`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if verbose {
		fmt.Printf("Parsing script: %s\n", filename)
	}

	parser, err := stimulus.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	script, err := parser.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	return replay(script)
}

// replay runs script on a new controller and prints the trace and the final
// register contents.
func replay(script *stimulus.Script) error {
	ctl, err := newController()
	if err != nil {
		return err
	}

	runner := stimulus.NewRunner(ctl, stimulus.WithLog(os.Stdout))
	trace, err := runner.Run(script)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Edges:     %d\n", len(trace))
	fmt.Printf("State:     %s\n", ctl.State())
	fmt.Printf("IR:        %s (stage %s)\n",
		register.FormatBits(ctl.Instruction()), register.FormatBits(ctl.InstructionRegister()))
	fmt.Printf("DR:        %s (stage %s)\n",
		register.FormatBits(ctl.Data()), register.FormatBits(ctl.DataRegister()))
	return nil
}
