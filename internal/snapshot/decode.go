package snapshot

import (
	"encoding/json"
	"math"

	"jobhealth/internal/model"
)

// decodeState converts one scheduler job record into a JobState. Fields of
// the wrong type decode as zero values instead of failing the document.
// A null or empty record returns nil.
func decodeState(rec any) *model.JobState {
	obj, ok := rec.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}

	state := &model.JobState{}
	state.Enabled, _ = obj["enabled"].(bool)

	inner, _ := obj["state"].(map[string]any)
	state.LastStatus, _ = inner["lastStatus"].(string)
	state.LastError, _ = inner["lastError"].(string)
	// Durations are compared with ">" and error counts with ">=" against whole
	// thresholds, so fractions round up and down respectively.
	state.LastDurationMs = nonNegative(intField(inner, "lastDurationMs", math.Ceil))
	state.ConsecutiveErrors = int(min(nonNegative(intField(inner, "consecutiveErrors", math.Floor)), math.MaxInt))
	if at := intField(inner, "lastRunAtMs", math.Trunc); at != 0 {
		state.LastRunAtMs = &at
	}
	return state
}

// intField reads a JSON number as int64. Fractions go through round and
// values outside the int64 range saturate.
func intField(obj map[string]any, key string, round func(float64) float64) int64 {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	// Overflowing literals parse to ±Inf with a range error and saturate below.
	f, err := n.Float64()
	if math.IsNaN(f) || (err != nil && !math.IsInf(f, 0)) {
		return 0
	}
	f = round(f)
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
