package cmd

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/magwrap/internal/logging"
	"github.com/OpenTraceLab/magwrap/internal/preview"
	"github.com/OpenTraceLab/magwrap/pkg/convert"
	"github.com/OpenTraceLab/magwrap/pkg/cylinder"
	"github.com/OpenTraceLab/magwrap/pkg/source"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	appendOutput bool
	current      float64
	radius       float64
	refX         float64
	refAngle     float64
	segments     int
	workers      int
	jobFile      string
	previewPath  string
	convertSrc   sourceFlags
)

var convertCmd = &cobra.Command{
	Use:   "convert <board-file>",
	Short: "Convert a board's traces into MagLi commands",
	Long: `Read the signal traces of an Eagle (.brd) or KiCad (.kicad_pcb) board,
wrap them onto a cylinder and write MagLi line and arc commands.

All line commands are written first, then all arc commands, each in board
order. Traces that are neither parallel to the board's x axis nor to its y
axis cannot be represented and are reported on stderr.

Flags may also come from a job file of MAGWRAP_* keys (--job); flags given
on the command line win.

Examples:
  magwrap convert coil.brd -o coil.spc --radius 25.4 --current 2
  magwrap convert coil.brd -o coil.spc --append --ref-x 12.7 --ref-angle 90
  magwrap convert coil.kicad_pcb --job sextupole.env --preview coil.png`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "", "MagLi spec file to write")
	f.BoolVarP(&appendOutput, "append", "a", false, "append to the output instead of overwriting it")
	f.Float64VarP(&current, "current", "I", 1, "current through the traces in A")
	f.Float64VarP(&radius, "radius", "r", 0, "cylinder radius in mm (outer board surface)")
	f.Float64Var(&refX, "ref-x", 0, "board x coordinate in mm with a known angle")
	f.Float64Var(&refAngle, "ref-angle", 0, "angle in degrees at --ref-x")
	f.IntVarP(&segments, "segments", "s", 10, "segments per command")
	f.IntVar(&workers, "workers", 1, "wires classified in parallel")
	f.StringVar(&jobFile, "job", "", "read defaults from a MAGWRAP_* job file")
	f.StringVar(&previewPath, "preview", "", "also export a cross-section plot (.png, .svg, .pdf)")
	convertSrc.register(f)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := logging.Logger()
	boardPath := args[0]

	if jobFile != "" {
		if err := applyJob(cmd.Flags(), jobFile); err != nil {
			return err
		}
		log.Debug("job file applied", "path", jobFile)
	}
	if outputPath == "" {
		return fmt.Errorf("no output file: use --output or MAGWRAP_OUTPUT")
	}

	board, err := source.Load(boardPath, convertSrc.options())
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}
	log.Debug("board loaded", "path", boardPath, "format", board.Format, "wires", len(board.Wires))
	for _, ig := range board.Ignored {
		log.Warn("copper ignored", "detail", ig.String())
	}

	opts := convert.Options{
		Current:   current,
		Radius:    radius,
		Reference: cylinder.AngleReference{X: refX, Degrees: refAngle},
		Segments:  segments,
		Workers:   workers,
	}
	mode := convert.Overwrite
	if appendOutput {
		mode = convert.Append
	}

	res, err := convert.WriteFile(outputPath, mode, board.Wires, opts)
	if err != nil {
		var inc *convert.IncompleteError
		if errors.As(err, &inc) {
			return fmt.Errorf("conversion failed, %s is incomplete and must not be used: %w", inc.Path, inc.Err)
		}
		return fmt.Errorf("conversion failed: %w", err)
	}

	for _, s := range res.Skipped {
		log.Warn("wire skipped", "index", s.Index, "reason", s.Reason.String(), "wire", s.Wire.String())
	}

	fmt.Printf("Wrote %d line and %d arc commands to %s (%s)\n",
		len(res.Lines), len(res.Arcs), outputPath, mode)
	if n := len(res.Skipped); n > 0 {
		fmt.Printf("Skipped %d unsupported wire(s)\n", n)
	}
	if n := len(board.Ignored); n > 0 {
		fmt.Printf("Ignored %d track(s) with no straight-wire form\n", n)
	}

	if previewPath != "" {
		if err := preview.Export(res.Commands(), previewPath, preview.DefaultOptions()); err != nil {
			return fmt.Errorf("failed to export preview: %w", err)
		}
		fmt.Printf("Preview written to %s\n", previewPath)
	}
	return nil
}
