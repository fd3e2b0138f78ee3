package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/magwrap/pkg/convert"
	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"github.com/OpenTraceLab/magwrap/pkg/source"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
	"github.com/spf13/cobra"
)

var boardSrc sourceFlags

var boardCmd = &cobra.Command{
	Use:   "board <board-file>",
	Short: "Show the signal wires of a board",
	Long: `List the wires magwrap reads from a board file, grouped by net, with the
command each one will become: axial wires turn into lines, circumferential
wires into arcs. Skewed and zero-length wires cannot be converted.

Examples:
  magwrap board coil.brd
  magwrap board --net COIL_A --inner-layer B.Cu coil.kicad_pcb`,
	Args: cobra.ExactArgs(1),
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardSrc.register(boardCmd.Flags())
}

type netStats struct {
	lines, arcs, skewed, degen int
	length                     float64
}

func label(w wire.Wire) string {
	switch kind, reason := convert.Classify(w); reason {
	case convert.ReasonSkewed:
		return "skewed"
	case convert.ReasonDegenerate:
		return "degenerate"
	default:
		return kind.String()
	}
}

func runBoard(cmd *cobra.Command, args []string) error {
	board, err := source.Load(args[0], boardSrc.options())
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	stats := make(map[string]*netStats)
	for _, w := range board.Wires {
		s, ok := stats[w.Net]
		if !ok {
			s = &netStats{}
			stats[w.Net] = s
		}
		switch kind, reason := convert.Classify(w); {
		case reason == convert.ReasonSkewed:
			s.skewed++
		case reason == convert.ReasonDegenerate:
			s.degen++
		case kind == magli.KindArc:
			s.arcs++
		default:
			s.lines++
		}
		s.length += w.Length()
	}

	fmt.Printf("Board:     %s (%s)\n", args[0], board.Format)
	fmt.Printf("Wires:     %d\n", len(board.Wires))
	fmt.Printf("Thickness: %.3f mm\n", board.Thickness)
	if box, ok := board.Extent(); ok {
		fmt.Printf("Extent:    x %.3f..%.3f mm, y %.3f..%.3f mm\n", box.Min.X, box.Max.X, box.Min.Y, box.Max.Y)
	}
	fmt.Println()

	fmt.Printf("%-20s %6s %6s %7s %6s %12s\n", "NET", "LINES", "ARCS", "SKEWED", "ZERO", "LENGTH (mm)")
	for _, name := range board.Nets() {
		s := stats[name]
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%-20s %6d %6d %7d %6d %12.3f\n", name, s.lines, s.arcs, s.skewed, s.degen, s.length)
	}

	if verbose {
		fmt.Println()
		for i, w := range board.Wires {
			fmt.Printf("  [%d] %-10s %v\n", i, label(w), w)
		}
	}

	if len(board.Ignored) > 0 {
		fmt.Printf("\nIgnored (%d):\n", len(board.Ignored))
		for _, ig := range board.Ignored {
			fmt.Printf("  %s\n", ig)
		}
	}
	return nil
}
