// Package source extracts straight signal wires from board files.
//
// Two formats are read: Eagle .brd XML and KiCad .kicad_pcb. Both are
// reduced to wire.Wire values in board millimeters, with each wire's depth
// below the outer wrapped surface taken from its layer. Copper that has no
// straight-wire form is listed in Board.Ignored instead of being dropped
// silently.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/OpenTraceLab/magwrap/pkg/eagle"
	"github.com/OpenTraceLab/magwrap/pkg/kicad/pcb"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrUnknownFormat is returned when a file is neither Eagle nor KiCad
var ErrUnknownFormat = errors.New("unknown board format")

// DefaultThickness is the board thickness, in mm, used for inner-face
// wires unless configured otherwise
const DefaultThickness = 0.3

// Format identifies a board file format
type Format string

const (
	FormatEagle Format = "eagle"
	FormatKiCad Format = "kicad"
)

// Options controls wire extraction
type Options struct {
	// Thickness is the depth, in mm, given to wires on inner layers
	Thickness float64

	// InnerLayers lists the layers that end up on the inside of the
	// cylinder, by Eagle layer number or name or by KiCad layer name.
	// Empty selects the format default: Eagle layer 1, KiCad F.Cu.
	InnerLayers []string

	// Nets restricts extraction to the named nets. Empty keeps all nets.
	Nets []string

	// KeepY leaves KiCad y coordinates as stored. By default they are
	// negated so that y grows upwards as in Eagle.
	KeepY bool

	// UseBoardThickness takes the thickness from a KiCad file's general
	// section when it has one, instead of Thickness
	UseBoardThickness bool
}

// DefaultOptions returns the options used by the reference coil boards
func DefaultOptions() Options {
	return Options{Thickness: DefaultThickness}
}

// Validate checks the options
func (o *Options) Validate() error {
	if !(o.Thickness >= 0) || math.IsInf(o.Thickness, 0) {
		return fmt.Errorf("board thickness must be a non-negative number, got %g", o.Thickness)
	}
	return nil
}

func (o *Options) keepNet(name string) bool {
	return len(o.Nets) == 0 || slices.Contains(o.Nets, name)
}

func (o *Options) inner(defaultLayer string, names ...string) bool {
	if len(o.InnerLayers) == 0 {
		return slices.Contains(names, defaultLayer)
	}
	for _, n := range names {
		if slices.Contains(o.InnerLayers, n) {
			return true
		}
	}
	return false
}

// Ignored describes copper that was not turned into a wire
type Ignored struct {
	Net    string
	Layer  string
	Line   int // source line, 0 when unknown
	Reason string
}

func (ig Ignored) String() string {
	s := ig.Reason
	if ig.Net != "" {
		s += " on net " + ig.Net
	}
	if ig.Layer != "" {
		s += " layer " + ig.Layer
	}
	if ig.Line > 0 {
		s += fmt.Sprintf(" (line %d)", ig.Line)
	}
	return s
}

// Board is the extracted wire list of one board file
type Board struct {
	Format    Format
	Thickness float64 // depth used for inner-layer wires (mm)
	Wires     []wire.Wire
	Ignored   []Ignored
}

// Nets returns the distinct net names of the wires in first-seen order
func (b *Board) Nets() []string {
	var nets []string
	for _, w := range b.Wires {
		if !slices.Contains(nets, w.Net) {
			nets = append(nets, w.Net)
		}
	}
	return nets
}

// Extent returns the bounding box of every wire end point, in board mm. ok
// is false when the board has no wires.
func (b *Board) Extent() (box r2.Box, ok bool) {
	if len(b.Wires) == 0 {
		return r2.Box{}, false
	}
	box.Min = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	box.Max = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, w := range b.Wires {
		for _, p := range []r2.Vec{{X: w.X1, Y: w.Y1}, {X: w.X2, Y: w.Y2}} {
			box.Min = r2.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y)}
			box.Max = r2.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y)}
		}
	}
	return box, true
}

// Load reads a board file. The format is chosen by extension and, for
// other names, by the file's first non-blank byte.
func Load(path string, opts Options) (*Board, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board: %w", err)
	}

	format, err := Detect(path, data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatEagle:
		b, err := eagle.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return FromEagle(b, opts), nil
	default:
		b, err := pcb.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return FromKiCad(b, opts), nil
	}
}

// Detect returns the format of a board file from its name and content
func Detect(path string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".brd":
		return FormatEagle, nil
	case ".kicad_pcb":
		return FormatKiCad, nil
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FormatEagle, nil
	case bytes.HasPrefix(trimmed, []byte("(kicad_pcb")):
		return FormatKiCad, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// FromEagle extracts the wires of every signal. Curved wires are ignored.
func FromEagle(b *eagle.Board, opts Options) *Board {
	out := &Board{Format: FormatEagle, Thickness: opts.Thickness}
	for _, sig := range b.Signals {
		if !opts.keepNet(sig.Name) {
			continue
		}
		for _, ew := range sig.Wires {
			layer := b.LayerName(ew.Layer)
			if ew.Curved() {
				out.Ignored = append(out.Ignored, Ignored{
					Net:    sig.Name,
					Layer:  layer,
					Reason: fmt.Sprintf("curved wire (%g°)", ew.Curve),
				})
				continue
			}
			depth := 0.0
			if opts.inner("1", ew.Layer, layer) {
				depth = opts.Thickness
			}
			w := wire.New(ew.X1, ew.Y1, ew.X2, ew.Y2, ew.Width, depth)
			w.Layer = layer
			w.Net = sig.Name
			out.Wires = append(out.Wires, w)
		}
	}
	return out
}

// FromKiCad extracts the connected straight tracks on copper layers. Arc
// tracks are ignored.
func FromKiCad(b *pcb.Board, opts Options) *Board {
	thickness := opts.Thickness
	if opts.UseBoardThickness && b.General.Thickness > 0 {
		thickness = b.General.Thickness
	}
	out := &Board{Format: FormatKiCad, Thickness: thickness}

	y := func(v float64) float64 {
		if opts.KeepY {
			return v
		}
		return 0 - v // keeps 0 at +0
	}

	layers := b.LayerMap()
	for _, t := range b.Tracks {
		if !t.Connected() || !opts.keepNet(t.NetName()) {
			continue
		}
		if !layers.IsCopperLayer(t.Layer) {
			out.Ignored = append(out.Ignored, Ignored{
				Net:    t.NetName(),
				Layer:  t.Layer,
				Line:   t.Line,
				Reason: "track on non-copper layer",
			})
			continue
		}
		depth := 0.0
		if opts.inner("F.Cu", t.Layer) {
			depth = thickness
		}
		w := wire.New(t.Start.X, y(t.Start.Y), t.End.X, y(t.End.Y), t.Width, depth)
		w.Layer = t.Layer
		w.Net = t.NetName()
		out.Wires = append(out.Wires, w)
	}

	for _, a := range b.Arcs {
		if a.Net == nil || pcb.IsUnconnected(a.Net.Number) || !opts.keepNet(a.NetName()) {
			continue
		}
		out.Ignored = append(out.Ignored, Ignored{
			Net:    a.NetName(),
			Layer:  a.Layer,
			Line:   a.Line,
			Reason: "curved track",
		})
	}
	return out
}
