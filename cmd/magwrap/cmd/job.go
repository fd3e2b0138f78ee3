package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// jobPrefix marks the job-file keys magwrap reads
const jobPrefix = "MAGWRAP_"

// jobKeys maps job-file keys onto convert flags
var jobKeys = map[string]string{
	"MAGWRAP_OUTPUT":          "output",
	"MAGWRAP_APPEND":          "append",
	"MAGWRAP_CURRENT":         "current",
	"MAGWRAP_RADIUS":          "radius",
	"MAGWRAP_REF_X":           "ref-x",
	"MAGWRAP_REF_ANGLE":       "ref-angle",
	"MAGWRAP_SEGMENTS":        "segments",
	"MAGWRAP_WORKERS":         "workers",
	"MAGWRAP_THICKNESS":       "thickness",
	"MAGWRAP_INNER_LAYERS":    "inner-layer",
	"MAGWRAP_NETS":            "net",
	"MAGWRAP_KEEP_Y":          "keep-y",
	"MAGWRAP_BOARD_THICKNESS": "board-thickness",
	"MAGWRAP_PREVIEW":         "preview",
}

// applyJob reads a dotenv-style job file and uses its values for every
// flag not given on the command line. Keys without the MAGWRAP_ prefix are
// ignored so a job file can carry notes for other tools.
func applyJob(fs *pflag.FlagSet, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.HasPrefix(key, jobPrefix) {
			continue
		}
		name, ok := jobKeys[key]
		if !ok {
			return fmt.Errorf("job file %s: unknown key %s", path, key)
		}
		if fs.Changed(name) {
			continue
		}
		if err := fs.Set(name, values[key]); err != nil {
			return fmt.Errorf("job file %s: %s: %w", path, key, err)
		}
	}
	return nil
}
