// Package eagle reads the signal wires of an Eagle .brd board file.
//
// Only the parts needed to recover copper geometry are decoded: the layer
// table and every <signal> with its <wire> children.
package eagle

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Board is the decoded subset of an Eagle board
type Board struct {
	Version string
	Layers  []Layer
	Signals []Signal
}

// Layer is an entry of the board's layer table
type Layer struct {
	Number string
	Name   string
}

// Signal is one electrical net
type Signal struct {
	Name  string
	Wires []Wire
}

// Wire is a copper segment of a signal, in millimeters
type Wire struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Layer  string  // layer number, "1" is the top copper layer
	Curve  float64 // included angle in degrees, 0 for straight wires
}

// Curved reports whether the wire is drawn as an arc between its ends
func (w Wire) Curved() bool {
	return w.Curve != 0
}

type xmlEagle struct {
	XMLName xml.Name `xml:"eagle"`
	Version string   `xml:"version,attr"`
	Layers  []struct {
		Number string `xml:"number,attr"`
		Name   string `xml:"name,attr"`
	} `xml:"drawing>layers>layer"`
	Signals []struct {
		Name  string    `xml:"name,attr"`
		Wires []xmlWire `xml:"wire"`
	} `xml:"drawing>board>signals>signal"`
}

type xmlWire struct {
	X1    *string `xml:"x1,attr"`
	Y1    *string `xml:"y1,attr"`
	X2    *string `xml:"x2,attr"`
	Y2    *string `xml:"y2,attr"`
	Width *string `xml:"width,attr"`
	Layer string  `xml:"layer,attr"`
	Curve string  `xml:"curve,attr"`
}

// ParseFile reads a board from a .brd file
func ParseFile(filename string) (*Board, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a board from r. A wire with a missing or non-numeric
// coordinate or width fails the whole board.
func Parse(r io.Reader) (*Board, error) {
	var doc xmlEagle
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}

	board := &Board{Version: doc.Version}
	for _, l := range doc.Layers {
		board.Layers = append(board.Layers, Layer{Number: l.Number, Name: l.Name})
	}

	for _, s := range doc.Signals {
		sig := Signal{Name: s.Name}
		for i, xw := range s.Wires {
			w, err := xw.decode()
			if err != nil {
				return nil, fmt.Errorf("signal %q wire %d: %w", s.Name, i, err)
			}
			sig.Wires = append(sig.Wires, w)
		}
		board.Signals = append(board.Signals, sig)
	}

	return board, nil
}

func (xw xmlWire) decode() (Wire, error) {
	w := Wire{Layer: xw.Layer}
	fields := []struct {
		name string
		raw  *string
		dst  *float64
	}{
		{"x1", xw.X1, &w.X1},
		{"y1", xw.Y1, &w.Y1},
		{"x2", xw.X2, &w.X2},
		{"y2", xw.Y2, &w.Y2},
		{"width", xw.Width, &w.Width},
	}
	for _, f := range fields {
		if f.raw == nil {
			return Wire{}, fmt.Errorf("missing %s attribute", f.name)
		}
		v, err := strconv.ParseFloat(*f.raw, 64)
		if err != nil {
			return Wire{}, fmt.Errorf("invalid %s %q: %w", f.name, *f.raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Wire{}, fmt.Errorf("invalid %s %q: not a finite number", f.name, *f.raw)
		}
		*f.dst = v
	}
	if xw.Curve != "" {
		v, err := strconv.ParseFloat(xw.Curve, 64)
		if err != nil {
			return Wire{}, fmt.Errorf("invalid curve %q: %w", xw.Curve, err)
		}
		w.Curve = v
	}
	return w, nil
}

// LayerName returns the name of layer number, or the number itself when
// the layer table does not list it
func (b *Board) LayerName(number string) string {
	for _, l := range b.Layers {
		if l.Number == number {
			return l.Name
		}
	}
	return number
}
