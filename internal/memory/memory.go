package memory

import (
	"math"
	"runtime/debug"
	"strconv"
	"strings"

	"asset-browser/internal/logging"
)

// DefaultRatio is the share of the container memory limit given to the Go
// heap. The rest covers goroutine stacks, sqlite and decoded thumbnails.
const DefaultRatio = 0.85

// Source names where a memory limit came from.
const (
	SourceNone        = "none"
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
)

// Limit describes the configured soft memory limit.
type Limit struct {
	Configured     bool
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// setMemoryLimit is debug.SetMemoryLimit, replaced in tests.
var setMemoryLimit = debug.SetMemoryLimit

// Configure sets the Go soft memory limit from environment values read
// through getenv:
//
//   - GOMEMLIMIT: honoured by the runtime itself and only reported here
//   - MEMORY_LIMIT: container limit in bytes, e.g. from the Kubernetes Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the heap, in (0, 1]
//
// Call it early in main before significant allocations.
func Configure(getenv func(string) string) Limit {
	if v := getenv("GOMEMLIMIT"); v != "" {
		result := Limit{Source: SourceGoMemLimit}
		if limit := setMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("  GOMEMLIMIT set via environment: %s", v)
		return result
	}

	raw := strings.TrimSpace(getenv("MEMORY_LIMIT"))
	if raw == "" {
		logging.Debug("  MEMORY_LIMIT not set, GOMEMLIMIT left to the runtime")
		return Limit{Source: SourceNone}
	}

	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("  Invalid MEMORY_LIMIT %q, GOMEMLIMIT not configured", raw)
		return Limit{Source: SourceNone}
	}

	ratio := parseRatio(getenv("MEMORY_RATIO"))
	goMemLimit := int64(float64(containerLimit) * ratio)
	setMemoryLimit(goMemLimit)

	logging.Info("  Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		FormatBytes(goMemLimit), ratio*100, FormatBytes(containerLimit))

	return Limit{
		Configured:     true,
		Source:         SourceMemoryLimit,
		ContainerLimit: containerLimit,
		GoMemLimit:     goMemLimit,
		Ratio:          ratio,
	}
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultRatio
	}
	ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		logging.Warn("  Invalid MEMORY_RATIO %q, using %.2f", raw, DefaultRatio)
		return DefaultRatio
	}
	return ratio
}

// FormatBytes renders b with binary units, e.g. "1.5 GiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
