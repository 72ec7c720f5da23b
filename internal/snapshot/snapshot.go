package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"

	"jobhealth/internal/model"
)

var (
	ErrRead  = errors.New("read input")
	ErrParse = errors.New("parse JSON")
)

const (
	ShapeJobsList = "jobs_list"
	ShapeJobsMap  = "jobs_map"
	ShapeBareList = "bare_list"
	ShapeUnknown  = "unknown"
)

// Lookup maps a job id to its runtime state. A nil entry means the record
// was present but empty, which classifies the same as an absent record.
type Lookup map[string]*model.JobState

type Snapshot struct {
	Source  string
	Shape   string
	Jobs    Lookup
	Skipped int
}

// Read returns the raw document from path, or from stdin when path is empty.
func Read(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		if stdin == nil {
			return nil, fmt.Errorf("%w: no stdin available", ErrRead)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w from stdin: %w", ErrRead, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return data, nil
}

// Load reads and parses a snapshot in one step.
func Load(path string, stdin io.Reader, logger *log.Logger) (Snapshot, error) {
	data, err := Read(path, stdin)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := Parse(data, logger)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Source = sourceName(path)
	logger.Debug().Str("source", snap.Source).Str("shape", snap.Shape).Int("jobs", len(snap.Jobs)).Int("skipped", snap.Skipped).Msg("snapshot loaded")
	return snap, nil
}

func sourceName(path string) string {
	if strings.TrimSpace(path) == "" {
		return "stdin"
	}
	return strings.TrimSpace(path)
}

// Parse accepts {"jobs":[...]}, {"jobs":{id:record}} or a bare [...] of
// records. Any other well-formed document yields an empty lookup. Records
// in lists are keyed by their "id" field and later duplicates win.
func Parse(data []byte, logger *log.Logger) (Snapshot, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("%w: unexpected data after top-level value", ErrParse)
	}

	snap := Snapshot{Shape: ShapeUnknown, Jobs: Lookup{}}
	switch v := doc.(type) {
	case map[string]any:
		jobs, ok := v["jobs"]
		if !ok {
			break
		}
		switch j := jobs.(type) {
		case []any:
			snap.Shape = ShapeJobsList
			snap.Skipped = collectList(snap.Jobs, j, logger)
		case map[string]any:
			snap.Shape = ShapeJobsMap
			for id, rec := range j {
				snap.Jobs[id] = decodeState(rec)
			}
		}
	case []any:
		snap.Shape = ShapeBareList
		snap.Skipped = collectList(snap.Jobs, v, logger)
	}
	if snap.Shape == ShapeUnknown {
		logger.Warn().Msg("snapshot has no recognizable jobs collection; every monitored job will report missing data")
	}
	return snap, nil
}

func collectList(out Lookup, records []any, logger *log.Logger) int {
	skipped := 0
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			skipped++
			logger.Warn().Int("index", i).Msg("skipping job record that is not an object")
			continue
		}
		id, ok := obj["id"].(string)
		if !ok || id == "" {
			skipped++
			logger.Warn().Int("index", i).Msg("skipping job record without an id")
			continue
		}
		out[id] = decodeState(obj)
	}
	return skipped
}
