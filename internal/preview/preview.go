// Package preview draws the cross-section of a converted coil.
package preview

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// arcStep is the largest angle, in degrees, between two sampled arc points
const arcStep = 2.0

var (
	arcColor      = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	positiveColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	negativeColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}
)

// Section is the cross-section geometry in millimeters
type Section struct {
	Arcs     []plotter.XYs // one polyline per arc command
	Positive plotter.XYs   // line commands carrying current towards +z
	Negative plotter.XYs   // line commands carrying current towards -z
}

// Trace projects commands onto the plane perpendicular to the cylinder
// axis
func Trace(cmds []magli.Command) Section {
	var s Section
	for _, c := range cmds {
		switch c := c.(type) {
		case magli.LineCommand:
			pt := plotter.XY{X: c.Center.X * 1000, Y: c.Center.Y * 1000}
			if c.Current < 0 {
				s.Negative = append(s.Negative, pt)
			} else {
				s.Positive = append(s.Positive, pt)
			}
		case magli.ArcCommand:
			s.Arcs = append(s.Arcs, sampleArc(c))
		}
	}
	return s
}

func sampleArc(c magli.ArcCommand) plotter.XYs {
	n := int(math.Ceil(math.Abs(c.Sweep())/arcStep)) + 1
	if n < 2 {
		n = 2
	}
	r := c.Radius * 1000
	pts := make(plotter.XYs, n)
	for i := range pts {
		a := c.StartAngle + c.Sweep()*float64(i)/float64(n-1)
		sin, cos := math.Sincos(a * math.Pi / 180)
		pts[i] = plotter.XY{X: r * cos, Y: r * sin}
	}
	return pts
}

// Options controls the exported image
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns a square 6 inch preview
func DefaultOptions() Options {
	return Options{
		Title:  "Wrapped coil cross-section",
		Width:  6 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// Export writes the cross-section to filename. The extension selects the
// format: .png, .svg or .pdf.
func Export(cmds []magli.Command, filename string, opts Options) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
	default:
		return fmt.Errorf("unsupported preview format %q", filepath.Ext(filename))
	}

	p, err := newPlot(Trace(cmds), opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create preview directory: %w", err)
		}
	}
	return p.Save(opts.Width, opts.Height, filename)
}

func newPlot(s Section, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(plotter.NewGrid())

	for _, pts := range s.Arcs {
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = arcColor
		p.Add(l)
	}

	for _, set := range []struct {
		pts   plotter.XYs
		col   color.Color
		shape draw.GlyphDrawer
		name  string
	}{
		{s.Positive, positiveColor, draw.CrossGlyph{}, "+z current"},
		{s.Negative, negativeColor, draw.RingGlyph{}, "-z current"},
	} {
		if len(set.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(set.pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = set.col
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = set.shape
		p.Add(sc)
		p.Legend.Add(set.name, sc)
	}

	// Equal axis scales so circles stay round
	p.X.Min, p.X.Max = math.Min(p.X.Min, p.Y.Min), math.Max(p.X.Max, p.Y.Max)
	p.Y.Min, p.Y.Max = p.X.Min, p.X.Max
	return p, nil
}
