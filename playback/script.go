package playback

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/reactorsim/presets"
)

// DefaultScript is the timeline script shipped with the presets.
const DefaultScript = "sequence.tengo"

// MaxDuration bounds a single stage hold.
const MaxDuration = time.Minute

var ErrInvalidScript = errors.New("playback: invalid sequence script")

// LoadDurations runs the named sequence script and reads its global
// `durations` (milliseconds). The script sees `stage_count`. An existing
// file path wins over the bundled scripts. On any failure the canonical
// table is returned together with the error.
func LoadDurations(name string, stages int) ([]time.Duration, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		src, err = presets.LoadScript(name)
	}
	if err != nil {
		return CanonicalDurations(), fmt.Errorf("playback: load %s: %w", name, err)
	}
	durations, err := EvalDurations(src, stages)
	if err != nil {
		return CanonicalDurations(), fmt.Errorf("playback: %s: %w", name, err)
	}
	return durations, nil
}

// EvalDurations runs src as a sequence script.
func EvalDurations(src []byte, stages int) ([]time.Duration, error) {
	script := tengo.NewScript(src)
	_ = script.Add("stage_count", stages)
	script.SetImports(stdlib.GetModuleMap("math"))
	script.SetMaxAllocs(1 << 16)

	compiled, err := script.Run()
	if err != nil {
		return nil, err
	}
	if !compiled.IsDefined("durations") {
		return nil, fmt.Errorf("%w: durations not defined", ErrInvalidScript)
	}

	values := compiled.Get("durations").Array()
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: durations must be a non-empty array", ErrInvalidScript)
	}

	out := make([]time.Duration, 0, len(values))
	for i, v := range values {
		var ms float64
		switch n := v.(type) {
		case int64:
			ms = float64(n)
		case float64:
			ms = n
		default:
			return nil, fmt.Errorf("%w: durations[%d] is %T", ErrInvalidScript, i, v)
		}
		d := time.Duration(ms * float64(time.Millisecond))
		if d <= 0 || d > MaxDuration {
			return nil, fmt.Errorf("%w: durations[%d] = %vms out of range", ErrInvalidScript, i, ms)
		}
		out = append(out, d)
	}
	return out, nil
}
