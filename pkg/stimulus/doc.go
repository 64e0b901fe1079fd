// Package stimulus drives a tapctl.Controller from text scripts and records
// what it does on every edge.
//
// A script is a list of commands separated by whitespace, newlines or
// semicolons; '#' starts a comment:
//
//	reset                          # asynchronous reset
//	section "IR seq"               # label for following records
//	cycle 0 1 expect ShiftIR tdo 0 # one edge with TMS, TDI
//	pins 0x02                      # one edge from (tms<<1)|tdi
//	idle 5                         # five edges with TMS=0, TDI=0
//	tlr                            # five edges with TMS=1
//	goto ShiftDR                   # shortest TMS path
//	shift "1011" tdo "0001"        # shift bits, TMS=1 on the last one
//
// Bit strings are in shift order: the first character enters first.
package stimulus
