package magli

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmp.Comparer(func(x, y float64) bool {
	return math.Abs(x-y) < 1e-9
})

func TestLineString(t *testing.T) {
	c := LineCommand{Center: r3.Vec{X: 0.005, Y: 0, Z: 0.005}, Length: 0.01, Segments: 10, Current: 1}
	want := "line(2, 0.00500, 0.00000, 0.00500, 0, 0, 0, 0.01000, 10.00000, 1.00000);"
	if got := c.String(); got != want {
		t.Errorf("String() =\n  %s\nwant\n  %s", got, want)
	}

	c.Current = -2.5
	if got := c.String(); !strings.HasSuffix(got, ", -2.50000);") {
		t.Errorf("String() = %s, want negative current", got)
	}
}

func TestArcString(t *testing.T) {
	c := ArcCommand{CenterZ: 0.003, Radius: 0.005, StartAngle: 0, EndAngle: 90, Segments: 10, Current: 1}
	want := "arc(0, 0, 0, 0.00300, 0.00000, 0.00000, 0.00000, 0.00000, 90.00000, 0.00500, 10.00000, 1.00000);"
	if got := c.String(); got != want {
		t.Errorf("String() =\n  %s\nwant\n  %s", got, want)
	}
	if c.Sweep() != 90 {
		t.Errorf("Sweep() = %v, want 90", c.Sweep())
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	cmds := []Command{
		LineCommand{Length: 0.001, Segments: 1, Current: 1},
		ArcCommand{Radius: 0.002, EndAngle: 45, Segments: 4, Current: 1},
	}
	n, err := Write(&buf, cmds)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d, want 2", n)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 3 || lines[2] != "" {
		t.Fatalf("output should be two newline-terminated lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "line(") || !strings.HasPrefix(lines[1], "arc(") {
		t.Errorf("unexpected order: %q", buf.String())
	}
}

func TestParseRoundTrip(t *testing.T) {
	cmds := []Command{
		LineCommand{Center: r3.Vec{X: 0.00412, Y: -0.00283, Z: 0.015}, Length: 0.02, Segments: 10, Current: -3},
		ArcCommand{CenterZ: 0.003, Radius: 0.0047, StartAngle: -12.5, EndAngle: 90, Segments: 24, Current: 3},
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, cmds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	got, err := p.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := cmp.Diff(cmds, got, approx); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommentsAndLayout(t *testing.T) {
	input := `
// generated coil
line(2, .001, 0, 1e-3,
     0, 0, 0, 0.002, 5, +1);   # trailing comment
arc(0,0,0, 0.01, 0,0,0, 0, 180, 0.004, 8, 2);
`
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	got, err := p.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	want := []Command{
		LineCommand{Center: r3.Vec{X: 0.001, Y: 0, Z: 0.001}, Length: 0.002, Segments: 5, Current: 1},
		ArcCommand{CenterZ: 0.01, StartAngle: 0, EndAngle: 180, Radius: 0.004, Segments: 8, Current: 2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ParseString mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown statement", "load(1);"},
		{"short line", "line(2, 0, 0, 0);"},
		{"line mode", "line(1, 0, 0, 0, 0, 0, 0, 1, 1, 1);"},
		{"rotated line", "line(2, 0, 0, 0, 0, 90, 0, 1, 1, 1);"},
		{"off-axis arc", "arc(1, 0, 0, 0, 0, 0, 0, 0, 90, 1, 1, 1);"},
		{"missing semicolon", "arc(0, 0, 0, 0, 0, 0, 0, 0, 90, 1, 1, 1)"},
		{"garbage", "line(2, x);"},
	}

	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseString(tt.input); err == nil {
				t.Errorf("ParseString(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	cmds := []Command{
		LineCommand{Center: r3.Vec{X: 0.005, Z: 0.01}, Length: 0.02, Current: 2},
		LineCommand{Center: r3.Vec{X: -0.005, Z: 0.01}, Length: 0.02, Current: -2},
		ArcCommand{CenterZ: 0.025, Radius: 0.0047, StartAngle: 0, EndAngle: 180, Current: 2},
	}
	s := Summarize(cmds)
	want := Summary{
		Lines:       2,
		Arcs:        1,
		LineLength:  0.04,
		ArcLength:   math.Pi * 0.0047,
		MinZ:        0,
		MaxZ:        0.025,
		MinRadius:   0.0047,
		MaxRadius:   0.005,
		NetLineAmps: 0,
	}
	if diff := cmp.Diff(want, s, approx); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	if empty := Summarize(nil); empty != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", empty)
	}
}
