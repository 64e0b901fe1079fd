package cmd

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Show the shortest TMS sequence between two states",
	Long: `Show the shortest TMS sequence between two TAP states and the states it
passes through. State names ignore case and separators, so ShiftDR, shift_dr
and SHIFT-DR are the same.

Examples:
  tapsim path RunTestIdle ShiftIR
  tapsim path exit1_dr update_dr`,
	Args: cobra.ExactArgs(2),
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) error {
	from, err := tap.ParseState(args[0])
	if err != nil {
		return err
	}
	to, err := tap.ParseState(args[1])
	if err != nil {
		return err
	}

	seq, err := tap.Path(from, to)
	if err != nil {
		return err
	}

	var tms strings.Builder
	for _, bit := range seq.TMS {
		fmt.Fprintf(&tms, "%d", tap.BitValue(bit))
	}
	names := make([]string, len(seq.States))
	for i, s := range seq.States {
		names[i] = s.String()
	}

	fmt.Printf("TMS:    %s (%d edges)\n", tms.String(), len(seq.TMS))
	fmt.Printf("States: %s\n", strings.Join(names, " -> "))
	return nil
}
