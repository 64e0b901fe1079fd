package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the TAP transition table and control signals",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-16s %-16s %-16s %s\n", "STATE", "TMS=0", "TMS=1", "SIGNALS")
	for _, s := range tap.States() {
		fmt.Printf("%-16s %-16s %-16s %s\n",
			s, tap.NextState(s, false), tap.NextState(s, true), s.Signals())
	}
	return nil
}
