package convert

import (
	"bufio"
	"fmt"
	"os"

	"github.com/OpenTraceLab/magwrap/internal/logging"
	"github.com/OpenTraceLab/magwrap/pkg/wire"
)

// Mode selects how WriteFile treats an existing output file
type Mode int

const (
	// Overwrite truncates the file
	Overwrite Mode = iota
	// Append adds the commands after the existing content
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "overwrite"
}

func (m Mode) flags() int {
	if m == Append {
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
}

// IncompleteError reports an output file that was opened but not fully
// written. Whatever the file holds must not be used as a finished result.
type IncompleteError struct {
	Path    string
	Written int64 // bytes that reached the file before the failure
	Err     error
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("output %s is incomplete after %d bytes: %v", e.Path, e.Written, e.Err)
}

func (e *IncompleteError) Unwrap() error {
	return e.Err
}

// WriteFile converts wires and writes the commands to path. Options and
// wire depths are checked before the file is touched, so a configuration
// error leaves any existing file unchanged. Failures after the file has
// been opened are returned as *IncompleteError.
func WriteFile(path string, mode Mode, wires []wire.Wire, opts Options) (*Result, error) {
	res, err := Run(wires, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, mode.flags(), 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)
	_, err = res.WriteTo(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return res, &IncompleteError{Path: path, Written: cw.n, Err: err}
	}

	logging.Logger().Debug("commands written",
		"path", path, "mode", mode.String(), "lines", len(res.Lines), "arcs", len(res.Arcs), "bytes", cw.n)
	return res, nil
}
