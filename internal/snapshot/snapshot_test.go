package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhealth/internal/health"
	"jobhealth/internal/logging"
	"jobhealth/internal/model"
)

const jobID = "7d71919d-15fe-46b3-a5da-71c9a335df7b"

func TestParseJobsList(t *testing.T) {
	doc := `{"jobs": [{"id": "` + jobID + `", "enabled": true, "state": {"lastStatus": "ok", "lastDurationMs": 5000, "consecutiveErrors": 0, "lastRunAtMs": 1700000000000}}]}`

	snap, err := Parse([]byte(doc), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, ShapeJobsList, snap.Shape)
	require.Contains(t, snap.Jobs, jobID)

	state := snap.Jobs[jobID]
	require.NotNil(t, state)
	assert.True(t, state.Enabled)
	assert.Equal(t, "ok", state.LastStatus)
	assert.Equal(t, int64(5000), state.LastDurationMs)
	assert.Equal(t, 0, state.ConsecutiveErrors)
	require.NotNil(t, state.LastRunAtMs)
	assert.Equal(t, int64(1700000000000), *state.LastRunAtMs)
}

func TestParseJobsMap(t *testing.T) {
	doc := `{"jobs": {"a": {"enabled": true, "state": {"lastStatus": "error", "lastError": "boom"}}, "b": null}}`

	snap, err := Parse([]byte(doc), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, ShapeJobsMap, snap.Shape)
	require.NotNil(t, snap.Jobs["a"])
	assert.Equal(t, "boom", snap.Jobs["a"].LastError)
	assert.Nil(t, snap.Jobs["b"])
}

func TestParseBareListLastDuplicateWins(t *testing.T) {
	doc := `[
		{"id": "a", "enabled": true, "state": {"consecutiveErrors": 1}},
		{"id": "b", "enabled": true},
		{"id": "a", "enabled": false, "state": {"consecutiveErrors": 3}}
	]`

	snap, err := Parse([]byte(doc), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, ShapeBareList, snap.Shape)
	require.Len(t, snap.Jobs, 2)
	assert.False(t, snap.Jobs["a"].Enabled)
	assert.Equal(t, 3, snap.Jobs["a"].ConsecutiveErrors)
}

func TestParseUnknownShapesYieldEmptyLookup(t *testing.T) {
	for _, doc := range []string{
		`{}`,
		`{"items": []}`,
		`{"jobs": "nope"}`,
		`{"jobs": 3}`,
		`"text"`,
		`42`,
		`null`,
	} {
		snap, err := Parse([]byte(doc), logging.Discard())
		require.NoError(t, err, doc)
		assert.Empty(t, snap.Jobs, doc)
		assert.Equal(t, ShapeUnknown, snap.Shape, doc)
	}
}

func TestParseSkipsRecordsWithoutID(t *testing.T) {
	doc := `{"jobs": [{"enabled": true}, 7, {"id": 12}, {"id": "ok", "enabled": true}]}`

	snap, err := Parse([]byte(doc), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Skipped)
	assert.Len(t, snap.Jobs, 1)
	assert.Contains(t, snap.Jobs, "ok")
}

func TestParseLenientFields(t *testing.T) {
	doc := `{"jobs": [{"id": "x", "enabled": "yes", "state": {
		"lastStatus": 5,
		"lastDurationMs": 250000.9,
		"consecutiveErrors": "two",
		"lastError": null,
		"lastRunAtMs": -1
	}}]}`

	snap, err := Parse([]byte(doc), logging.Discard())
	require.NoError(t, err)
	state := snap.Jobs["x"]
	require.NotNil(t, state)
	assert.False(t, state.Enabled)
	assert.Equal(t, "", state.LastStatus)
	assert.Equal(t, int64(250001), state.LastDurationMs)
	assert.Equal(t, 0, state.ConsecutiveErrors)
	assert.Equal(t, "", state.LastError)
	require.NotNil(t, state.LastRunAtMs)
	assert.Equal(t, int64(-1), *state.LastRunAtMs)
}

func TestParseOutOfRangeAndFractionalNumbersKeepVerdict(t *testing.T) {
	cases := []struct {
		name  string
		state string
		want  model.Status
		rule  string
	}{
		{"huge error count", `{"lastStatus": "ok", "consecutiveErrors": 1e30}`, model.StatusCritical, "consecutive_errors"},
		{"huge integer error count", `{"lastStatus": "ok", "consecutiveErrors": 99999999999999999999}`, model.StatusCritical, "consecutive_errors"},
		{"overflowing error count", `{"lastStatus": "ok", "consecutiveErrors": 1e400}`, model.StatusCritical, "consecutive_errors"},
		{"huge duration", `{"lastStatus": "ok", "lastDurationMs": 1e30}`, model.StatusWarning, "slow_run"},
		{"duration just over threshold", `{"lastStatus": "ok", "lastDurationMs": 240000.5}`, model.StatusWarning, "slow_run"},
		{"fractional error count below limit", `{"lastStatus": "ok", "consecutiveErrors": 0.5}`, model.StatusOK, "healthy"},
	}

	classifier := health.NewClassifier(health.DefaultThresholds(), health.Formatter{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := `{"jobs": [{"id": "x", "enabled": true, "state": ` + tc.state + `}]}`
			snap, err := Parse([]byte(doc), logging.Discard())
			require.NoError(t, err)
			state := snap.Jobs["x"]
			require.NotNil(t, state)

			v := classifier.Classify(model.JobSpec{ID: "x"}, state)
			assert.Equal(t, tc.want, v.Status)
			assert.Equal(t, tc.rule, v.Rule)
		})
	}
}

func TestParseMissingStateAndEnabled(t *testing.T) {
	snap, err := Parse([]byte(`[{"id": "x"}]`), logging.Discard())
	require.NoError(t, err)
	state := snap.Jobs["x"]
	require.NotNil(t, state, "a record carrying only an id is still a record")
	assert.False(t, state.Enabled)
	assert.Nil(t, state.LastRunAtMs)
}

func TestParseEmptyRecordCountsAsMissing(t *testing.T) {
	snap, err := Parse([]byte(`{"jobs": {"x": {}}}`), logging.Discard())
	require.NoError(t, err)
	assert.Contains(t, snap.Jobs, "x")
	assert.Nil(t, snap.Jobs["x"])
}

func TestParseMalformedJSON(t *testing.T) {
	for _, doc := range []string{`{"jobs": [`, ``, `{"jobs": []} trailing`} {
		_, err := Parse([]byte(doc), logging.Discard())
		require.Error(t, err, doc)
		assert.True(t, errors.Is(err, ErrParse), doc)
	}
}

func TestReadFromFileAndStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jobs": []}`), 0o644))

	data, err := Read(path, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"jobs": []}`, string(data))

	data, err = Read("", strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRead))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadSetsSource(t *testing.T) {
	snap, err := Load("", strings.NewReader(`{"jobs": []}`), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "stdin", snap.Source)
	assert.Equal(t, ShapeJobsList, snap.Shape)
}
