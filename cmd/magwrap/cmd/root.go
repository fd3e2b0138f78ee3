package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/magwrap/internal/logging"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=..."
var version = "0.3.0"

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "magwrap",
	Short: "Wrap PCB coil traces onto a cylinder for MagLi",
	Long: `magwrap converts the straight copper traces of a flat PCB into MagLi
line and arc commands, as if the board were rolled onto a cylinder.

Traces running along the board's y axis become straight conductors parallel
to the cylinder axis; traces running along x become arcs around it.

Examples:
  magwrap convert coil.brd -o coil.spc --radius 25.4      # Eagle board
  magwrap convert coil.kicad_pcb -o coil.spc --job run.env
  magwrap board coil.brd                                  # Wire summary
  magwrap inspect coil.spc                                # Command summary`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLogger(logging.NewText(os.Stderr, verbose))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
