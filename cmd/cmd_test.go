package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/insights"
)

const deck = `{
  "version": 2,
  "exportDate": "2025-03-01T00:00:00Z",
  "data": {
    "items": [
      {"id": "photo-1", "stem": "What does chlorophyll absorb?", "options": ["Light", "Soil", "Oxygen"], "answerIndex": 0, "difficulty": 0.2, "ef": 2.5, "intervalDays": 0, "reps": 0}
    ],
    "attempts": [],
    "errorTags": []
  }
}`

type harness struct {
	t  *testing.T
	db string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("STUDYMATE_CONFIG", "")
	t.Setenv("STUDYMATE_LLM_PROVIDER", "none")
	t.Setenv("STUDYMATE_STORE_DRIVER", "sqlite")
	return &harness{t: t, db: filepath.Join(dir, "study.db")}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--db", h.db))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "version")
	require.NoError(t, err)
	assert.Equal(t, "studymate (devel)\n", out)
}

func TestNext_EmptyPool(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "No items yet")
}

func TestImportAnswerExportReset(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "import", h.writeFile("deck.json", deck))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 items, 0 attempts and 0 error tags")

	out, err = h.run("", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "What does chlorophyll absorb?")
	assert.Contains(t, out, "photo-1")

	out, err = h.run("", "answer", "--item", "photo-1", "--option", "1", "--confidence", "0.9", "--latency", "2500")
	require.NoError(t, err)
	assert.Contains(t, out, "Correct!")

	out, err = h.run("", "stats", "--json")
	require.NoError(t, err)
	var snap insights.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 1, snap.Totals.TotalItems)
	assert.Equal(t, 1, snap.Totals.TotalAttempts)
	assert.Equal(t, 100, snap.Totals.CorrectRate)
	assert.Equal(t, 1, snap.Streak.Current)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	_, err = h.run("", "export", "--out", exportPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var payload struct {
		Version int `json:"version"`
		Data    struct {
			Items    []json.RawMessage `json:"items"`
			Attempts []json.RawMessage `json:"attempts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, 2, payload.Version)
	assert.Len(t, payload.Data.Items, 1)
	assert.Len(t, payload.Data.Attempts, 1)

	out, err = h.run("", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = h.run("", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All study data deleted.")

	out, err = h.run("", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "No items yet")
}

func TestImport_RejectsMalformedPayload(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "import", h.writeFile("deck.json", deck))
	require.NoError(t, err)

	out, err := h.run("", "import", h.writeFile("bad.json", `{"version": 2, "exportDate": "2025-03-01T00:00:00Z"}`))
	require.Error(t, err)
	assert.Contains(t, out, "existing data left untouched")

	out, err = h.run("", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "photo-1")
}

func TestAnswer_UnknownItem(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "answer", "--item", "ghost", "--option", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no item with id "ghost"`)
}

func TestDrill(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "import", h.writeFile("deck.json", deck))
	require.NoError(t, err)

	out, err := h.run("9\n2\n80\n", "drill", "--count", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "option must be between 1 and 3")
	assert.Contains(t, out, "Wrong.")
	assert.Contains(t, out, "Session summary")
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 0},
		{in: " 3 ", want: 2},
		{in: "0", wantErr: true},
		{in: "4", wantErr: true},
		{in: "b", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseOption(tt.in, 3)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseConfidence(t *testing.T) {
	got, err := parseConfidence("", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = parseConfidence("80%", 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-9)

	_, err = parseConfidence("120", 0.5)
	assert.Error(t, err)
}

func TestAnswer_DegradedStore(t *testing.T) {
	h := newHarness(t)
	blocker := h.writeFile("blocker", "not a directory")
	h.db = filepath.Join(blocker, "study.db")

	out, err := h.run("", "answer", "--item", "photo-1", "--option", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
	assert.Contains(t, out, "progress will not be saved")
}
