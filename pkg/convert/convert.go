// Package convert wraps a board's wires onto a cylinder and collects the
// resulting MagLi commands.
//
// Output order is fixed: every line command in wire order, then every arc
// command in wire order. Wires with no line or arc form are skipped and
// reported in Result.Skipped; they never abort the rest of the board.
package convert

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/OpenTraceLab/magwrap/internal/logging"
	"github.com/OpenTraceLab/magwrap/pkg/cylinder"
	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
)

// ErrInvalidOptions is returned for conversion options that cannot be used
var ErrInvalidOptions = errors.New("invalid conversion options")

// Options controls a conversion run
type Options struct {
	Current   float64                 // current magnitude (A)
	Radius    float64                 // outer cylinder radius (mm)
	Reference cylinder.AngleReference // board x pinned to a known angle
	Segments  int                     // tessellation count passed to the solver

	// Workers > 1 classifies wires concurrently. Output order does not
	// depend on it.
	Workers int
}

// DefaultOptions returns options for a 1 A conversion with 10 segments.
// Radius has no sensible default and must be set.
func DefaultOptions() Options {
	return Options{
		Current:  1,
		Segments: 10,
		Workers:  1,
	}
}

// Validate checks the options
func (o *Options) Validate() error {
	if err := o.cylinder().Validate(); err != nil {
		return err
	}
	if math.IsNaN(o.Current) || math.IsInf(o.Current, 0) {
		return fmt.Errorf("%w: current %g is not finite", ErrInvalidOptions, o.Current)
	}
	if math.IsNaN(o.Reference.X) || math.IsInf(o.Reference.X, 0) ||
		math.IsNaN(o.Reference.Degrees) || math.IsInf(o.Reference.Degrees, 0) {
		return fmt.Errorf("%w: angle reference %+v is not finite", ErrInvalidOptions, o.Reference)
	}
	if o.Segments < 1 {
		return fmt.Errorf("%w: segments must be at least 1, got %d", ErrInvalidOptions, o.Segments)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return nil
}

func (o *Options) cylinder() cylinder.Cylinder {
	return cylinder.Cylinder{Radius: o.Radius, Ref: o.Reference}
}

// Skipped reports a wire that produced no command
type Skipped struct {
	Index  int // position in the input wire list
	Wire   wire.Wire
	Reason Reason
}

func (s Skipped) String() string {
	return fmt.Sprintf("wire %d: %v: %v", s.Index, s.Reason, s.Wire)
}

// Result is the outcome of a conversion
type Result struct {
	Lines   []magli.LineCommand
	Arcs    []magli.ArcCommand
	Skipped []Skipped
}

// Commands returns all commands in output order
func (r *Result) Commands() []magli.Command {
	cmds := make([]magli.Command, 0, len(r.Lines)+len(r.Arcs))
	for _, c := range r.Lines {
		cmds = append(cmds, c)
	}
	for _, c := range r.Arcs {
		cmds = append(cmds, c)
	}
	return cmds
}

// WriteTo writes the commands, lines first. The returned count is in bytes.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	_, err := magli.Write(cw, r.Commands())
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type outcome struct {
	cmd    magli.Command
	reason Reason
	err    error
}

// Run converts wires in order. It fails before converting anything when the
// options are invalid, a wire has non-finite or non-positive geometry, or a
// wire's depth leaves no positive radius.
func Run(wires []wire.Wire, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cyl := opts.cylinder()
	for i, w := range wires {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("wire %d: %w", i, err)
		}
		if _, err := cyl.ForDepth(w.Depth); err != nil {
			return nil, fmt.Errorf("wire %d: %w", i, err)
		}
	}

	e := Emitter{Cylinder: cyl, Current: opts.Current, Segments: opts.Segments}
	outcomes := make([]outcome, len(wires))
	emitRange := func(start, end int) {
		for i := start; i < end; i++ {
			cmd, reason, err := e.Emit(wires[i])
			outcomes[i] = outcome{cmd: cmd, reason: reason, err: err}
		}
	}

	if opts.Workers <= 1 || len(wires) < 2*opts.Workers {
		emitRange(0, len(wires))
	} else {
		var wg sync.WaitGroup
		perWorker := (len(wires) + opts.Workers - 1) / opts.Workers
		for start := 0; start < len(wires); start += perWorker {
			end := min(start+perWorker, len(wires))
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				emitRange(start, end)
			}(start, end)
		}
		wg.Wait()
	}

	res := &Result{}
	for i, o := range outcomes {
		switch cmd := o.cmd.(type) {
		case magli.LineCommand:
			res.Lines = append(res.Lines, cmd)
		case magli.ArcCommand:
			res.Arcs = append(res.Arcs, cmd)
		case nil:
			if o.err != nil {
				return nil, fmt.Errorf("wire %d: %w", i, o.err)
			}
			s := Skipped{Index: i, Wire: wires[i], Reason: o.reason}
			res.Skipped = append(res.Skipped, s)
			logging.Logger().Debug("wire skipped", "index", i, "reason", o.reason.String())
		}
	}

	logging.Logger().Debug("conversion finished",
		"wires", len(wires), "lines", len(res.Lines), "arcs", len(res.Arcs), "skipped", len(res.Skipped))
	return res, nil
}
