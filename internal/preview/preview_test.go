package preview

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"gonum.org/v1/gonum/spatial/r3"
)

func testCommands() []magli.Command {
	return []magli.Command{
		magli.LineCommand{Center: r3.Vec{X: 0.005, Z: 0.01}, Length: 0.02, Segments: 10, Current: 1},
		magli.LineCommand{Center: r3.Vec{Y: 0.005, Z: 0.01}, Length: 0.02, Segments: 10, Current: -1},
		magli.ArcCommand{CenterZ: 0.02, Radius: 0.005, StartAngle: 0, EndAngle: 90, Segments: 10, Current: 1},
	}
}

func TestTrace(t *testing.T) {
	s := Trace(testCommands())
	if len(s.Positive) != 1 || len(s.Negative) != 1 || len(s.Arcs) != 1 {
		t.Fatalf("Trace = %+v", s)
	}
	if s.Positive[0].X != 5 || s.Negative[0].Y != 5 {
		t.Errorf("points not in mm: %+v %+v", s.Positive[0], s.Negative[0])
	}

	arc := s.Arcs[0]
	if len(arc) != 46 {
		t.Errorf("got %d arc samples, want 46", len(arc))
	}
	first, last := arc[0], arc[len(arc)-1]
	if math.Abs(first.X-5) > 1e-9 || math.Abs(first.Y) > 1e-9 {
		t.Errorf("arc starts at %+v, want (5, 0)", first)
	}
	if math.Abs(last.X) > 1e-9 || math.Abs(last.Y-5) > 1e-9 {
		t.Errorf("arc ends at %+v, want (0, 5)", last)
	}
	for _, p := range arc {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-5) > 1e-9 {
			t.Errorf("sample %+v off the circle", p)
		}
	}
}

func TestTraceZeroSweep(t *testing.T) {
	s := Trace([]magli.Command{magli.ArcCommand{Radius: 0.001, StartAngle: 30, EndAngle: 30}})
	if len(s.Arcs[0]) != 2 {
		t.Errorf("got %d samples, want 2", len(s.Arcs[0]))
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"coil.png", "coil.svg", filepath.Join("sub", "coil.pdf")} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Export(testCommands(), path, DefaultOptions()); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("preview not written: %v", err)
			}
			if info.Size() == 0 {
				t.Error("preview is empty")
			}
		})
	}
}

func TestExportUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coil.bmp")
	if err := Export(testCommands(), path, DefaultOptions()); err == nil {
		t.Error("expected error for .bmp")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("unsupported preview should not create a file")
	}
}
