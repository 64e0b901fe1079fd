package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tapctl"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool

	// Controller geometry, shared by every command that builds one
	irLength     int
	drLength     int
	irCapture    uint64
	drCapture    uint64
	holdTDO      bool
	requireReset bool
)

var rootCmd = &cobra.Command{
	Use:   "tapsim",
	Short: "IEEE 1149.1 TAP controller simulator",
	Long: `A cycle-level simulator for a single JTAG TAP controller: the 16-state
machine plus an instruction and a data register, driven one TCK edge at a time.

Examples:
  tapsim testbench                         # Replay the reference harness sequence
  tapsim run sequence.tap                  # Replay a stimulus script
  tapsim path RunTestIdle ShiftDR          # Shortest TMS sequence between states
  tapsim scan ir 10 --ir-capture 0x1       # IR scan through the adapter layer
  tapsim table                             # Transition table and control signals`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	defaults := tapctl.DefaultConfig()
	rootCmd.PersistentFlags().IntVar(&irLength, "ir-length", defaults.IRLength,
		"instruction register length in bits")
	rootCmd.PersistentFlags().IntVar(&drLength, "dr-length", defaults.DRLength,
		"data register length in bits")
	rootCmd.PersistentFlags().Uint64Var(&irCapture, "ir-capture", defaults.IRCapture,
		"value loaded into the IR on Capture-IR (hex allowed)")
	rootCmd.PersistentFlags().Uint64Var(&drCapture, "dr-capture", defaults.DRCapture,
		"value loaded into the DR on Capture-DR (hex allowed)")
	rootCmd.PersistentFlags().BoolVar(&holdTDO, "hold-tdo", false,
		"hold the last shifted bit on TDO instead of driving it low")
	rootCmd.PersistentFlags().BoolVar(&requireReset, "require-reset", false,
		"reject capture and update edges until the controller has been reset")
}

// controllerConfig builds a controller configuration from the global flags.
func controllerConfig() *tapctl.Config {
	cfg := tapctl.DefaultConfig()
	cfg.IRLength = irLength
	cfg.DRLength = drLength
	cfg.IRCapture = irCapture
	cfg.DRCapture = drCapture
	cfg.RequireReset = requireReset
	if holdTDO {
		cfg.IdleTDO = tapctl.TDOHold
	}
	return cfg
}

func newController() (*tapctl.Controller, error) {
	cfg := controllerConfig()
	if verbose {
		fmt.Printf("Controller: IR %d bits (capture %#x), DR %d bits (capture %#x), TDO %s\n",
			cfg.IRLength, cfg.IRCapture, cfg.DRLength, cfg.DRCapture, cfg.IdleTDO)
	}
	ctl, err := tapctl.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}
	return ctl, nil
}
