package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/magwrap/pkg/eagle"
	"github.com/OpenTraceLab/magwrap/pkg/kicad/pcb"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

const eagleBoard = `<?xml version="1.0" encoding="utf-8"?>
<eagle version="9.6.2">
<drawing>
<layers>
<layer number="1" name="Top"/>
<layer number="16" name="Bottom"/>
</layers>
<board>
<signals>
<signal name="COIL">
<wire x1="10" y1="0" x2="10" y2="40" width="0.4" layer="1"/>
<wire x1="10" y1="40" x2="20" y2="40" width="0.4" layer="16"/>
<wire x1="20" y1="40" x2="25" y2="45" width="0.4" layer="16" curve="90"/>
</signal>
<signal name="GND">
<wire x1="0" y1="0" x2="0" y2="5" width="1" layer="16"/>
</signal>
</signals>
</board>
</drawing>
</eagle>
`

const kicadBoard = `(kicad_pcb (version 20221018) (generator pcbnew)
  (general (thickness 1.6))
  (layers (0 "F.Cu" signal) (31 "B.Cu" signal))
  (net 0 "")
  (net 1 "COIL")
  (net 2 "GND")
  (segment (start 10 0) (end 10 40) (width 0.25) (layer "F.Cu") (net 1))
  (segment (start 10 40) (end 20 40) (width 0.25) (layer "B.Cu") (net 1))
  (segment (start 0 0) (end 5 0) (width 0.2) (layer "F.Cu") (net 0))
  (segment (start 0 2) (end 0 7) (width 0.2) (layer "B.Cu") (net 2))
  (arc (start 20 40) (mid 22 42) (end 24 40) (width 0.25) (layer "B.Cu") (net 1))
)`

func parseEagle(t *testing.T) *eagle.Board {
	t.Helper()
	b, err := eagle.Parse(strings.NewReader(eagleBoard))
	if err != nil {
		t.Fatalf("eagle.Parse failed: %v", err)
	}
	return b
}

func parseKiCad(t *testing.T) *pcb.Board {
	t.Helper()
	b, err := pcb.Parse(strings.NewReader(kicadBoard))
	if err != nil {
		t.Fatalf("pcb.Parse failed: %v", err)
	}
	return b
}

func withMeta(w wire.Wire, layer, net string) wire.Wire {
	w.Layer, w.Net = layer, net
	return w
}

func TestFromEagle(t *testing.T) {
	b := FromEagle(parseEagle(t), DefaultOptions())

	want := []wire.Wire{
		withMeta(wire.New(10, 0, 10, 40, 0.4, 0.3), "Top", "COIL"),
		withMeta(wire.New(10, 40, 20, 40, 0.4, 0), "Bottom", "COIL"),
		withMeta(wire.New(0, 0, 0, 5, 1, 0), "Bottom", "GND"),
	}
	if diff := cmp.Diff(want, b.Wires); diff != "" {
		t.Errorf("wires mismatch (-want +got):\n%s", diff)
	}
	if len(b.Ignored) != 1 || b.Ignored[0].Net != "COIL" || !strings.Contains(b.Ignored[0].Reason, "curved") {
		t.Errorf("Ignored = %+v", b.Ignored)
	}
	if b.Format != FormatEagle {
		t.Errorf("Format = %v", b.Format)
	}
	box, ok := b.Extent()
	if want := (r2.Box{Max: r2.Vec{X: 20, Y: 40}}); !ok || box != want {
		t.Errorf("Extent() = %v, %v; want %v", box, ok, want)
	}
	if _, ok := (&Board{}).Extent(); ok {
		t.Error("Extent() of an empty board should not be ok")
	}
}

func TestFromEagleOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Thickness = 0.8
	opts.InnerLayers = []string{"Bottom"}
	opts.Nets = []string{"GND"}

	b := FromEagle(parseEagle(t), opts)
	if len(b.Wires) != 1 {
		t.Fatalf("got %d wires, want 1", len(b.Wires))
	}
	if w := b.Wires[0]; w.Net != "GND" || w.Depth != 0.8 {
		t.Errorf("wire = %+v", w)
	}
	if len(b.Ignored) != 0 {
		t.Errorf("filtered net still reported: %+v", b.Ignored)
	}

	opts.InnerLayers = []string{"16"}
	opts.Nets = nil
	b = FromEagle(parseEagle(t), opts)
	if b.Wires[0].Depth != 0 || b.Wires[1].Depth != 0.8 {
		t.Errorf("layer number selection failed: %+v", b.Wires)
	}
}

func TestFromKiCad(t *testing.T) {
	b := FromKiCad(parseKiCad(t), DefaultOptions())

	want := []wire.Wire{
		withMeta(wire.New(10, 0, 10, -40, 0.25, 0.3), "F.Cu", "COIL"),
		withMeta(wire.New(10, -40, 20, -40, 0.25, 0), "B.Cu", "COIL"),
		withMeta(wire.New(0, -2, 0, -7, 0.2, 0), "B.Cu", "GND"),
	}
	if diff := cmp.Diff(want, b.Wires); diff != "" {
		t.Errorf("wires mismatch (-want +got):\n%s", diff)
	}
	if len(b.Ignored) != 1 || b.Ignored[0].Line != 11 {
		t.Errorf("Ignored = %+v", b.Ignored)
	}
	if got := b.Nets(); !cmp.Equal(got, []string{"COIL", "GND"}) {
		t.Errorf("Nets() = %v", got)
	}
}

func TestFromKiCadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepY = true
	opts.UseBoardThickness = true
	opts.InnerLayers = []string{"B.Cu"}

	b := FromKiCad(parseKiCad(t), opts)
	if b.Thickness != 1.6 {
		t.Errorf("Thickness = %v, want 1.6", b.Thickness)
	}
	if w := b.Wires[0]; w.Y2 != 40 || w.Depth != 0 {
		t.Errorf("wire 0 = %+v", w)
	}
	if w := b.Wires[1]; w.Depth != 1.6 {
		t.Errorf("wire 1 depth = %v, want 1.6", w.Depth)
	}
}

func TestFromKiCadNonCopperLayer(t *testing.T) {
	src := strings.Replace(kicadBoard, `(31 "B.Cu" signal))`, `(31 "B.Cu" signal) (37 "F.SilkS" user))
  (segment (start 3 0) (end 3 9) (width 0.15) (layer "F.SilkS") (net 2))`, 1)
	pb, err := pcb.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("pcb.Parse failed: %v", err)
	}

	b := FromKiCad(pb, DefaultOptions())
	if len(b.Wires) != 3 {
		t.Errorf("got %d wires, want 3", len(b.Wires))
	}
	if len(b.Ignored) != 2 {
		t.Fatalf("Ignored = %+v", b.Ignored)
	}
	ig := b.Ignored[0]
	if ig.Layer != "F.SilkS" || ig.Net != "GND" || ig.Line != 4 || !strings.Contains(ig.Reason, "non-copper") {
		t.Errorf("Ignored[0] = %+v", ig)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		data string
		want Format
	}{
		{"coil.brd", "", FormatEagle},
		{"coil.BRD", "", FormatEagle},
		{"coil.kicad_pcb", "", FormatKiCad},
		{"coil.xml", "\n  <?xml version=\"1.0\"?><eagle/>", FormatEagle},
		{"board", "(kicad_pcb (version 1))", FormatKiCad},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Detect(tt.path, []byte(tt.data))
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Detect("notes.txt", []byte("hello")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Detect(text) error = %v, want ErrUnknownFormat", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	brd := filepath.Join(dir, "coil.brd")
	pcbPath := filepath.Join(dir, "coil.kicad_pcb")
	bad := filepath.Join(dir, "broken.brd")
	os.WriteFile(brd, []byte(eagleBoard), 0o644)
	os.WriteFile(pcbPath, []byte(kicadBoard), 0o644)
	os.WriteFile(bad, []byte(`<eagle><drawing><board><signals><signal name="S"><wire x1="a"/></signal></signals></board></drawing></eagle>`), 0o644)

	b, err := Load(brd, DefaultOptions())
	if err != nil {
		t.Fatalf("Load(brd) failed: %v", err)
	}
	if len(b.Wires) != 3 {
		t.Errorf("got %d Eagle wires, want 3", len(b.Wires))
	}

	b, err = Load(pcbPath, DefaultOptions())
	if err != nil {
		t.Fatalf("Load(kicad_pcb) failed: %v", err)
	}
	if b.Format != FormatKiCad || len(b.Wires) != 3 {
		t.Errorf("got %v with %d wires", b.Format, len(b.Wires))
	}

	if _, err := Load(bad, DefaultOptions()); err == nil || !strings.Contains(err.Error(), "broken.brd") {
		t.Errorf("Load(broken) error = %v", err)
	}

	opts := DefaultOptions()
	opts.Thickness = -1
	if _, err := Load(brd, opts); err == nil {
		t.Error("expected error for negative thickness")
	}
	if _, err := Load(filepath.Join(dir, "missing.brd"), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}
