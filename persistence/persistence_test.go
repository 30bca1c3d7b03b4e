package persistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixels/animation"
	"pixels/define"
)

func TestExportFormat(t *testing.T) {
	m := animation.NewModel(2, 3)
	m.SetCell(0, 0, "#ff0000")

	data, err := Export(m.Snapshot())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(2), raw["gridSize"])
	assert.Equal(t, float64(3), raw["speed"])
	assert.Equal(t, []any{[]any{"#ff0000", "black", "black", "black"}}, raw["frames"])
}

func TestExportImportRoundTrip(t *testing.T) {
	m := animation.NewModel(3, 7)
	m.SetCell(0, 4, "#00ff00")
	m.AddFrame()
	m.SetCell(1, 8, "#0000ff")
	before := m.Snapshot()

	data, err := Export(before)
	require.NoError(t, err)

	doc, err := Import(data)
	require.NoError(t, err)

	other := animation.NewModel(8, 1)
	require.NoError(t, Apply(other, doc))

	after := other.Snapshot()
	assert.Equal(t, before.GridSize, after.GridSize)
	assert.Equal(t, before.Frames, after.Frames)
	assert.Equal(t, 7.0, after.PlaybackRate)
	assert.Equal(t, 0, after.ActiveFrameIndex)
}

func TestImportScenario(t *testing.T) {
	m := animation.NewModel(8, 5)
	m.AddFrame()

	doc, err := Import([]byte(`{"frames":[["black","black","black","black"]],"gridSize":2}`))
	require.NoError(t, err)
	require.NoError(t, Apply(m, doc))

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.GridSize)
	assert.Len(t, snap.Frames, 1)
	assert.Equal(t, 0, snap.ActiveFrameIndex)
	assert.Equal(t, 5.0, snap.PlaybackRate, "missing speed keeps the current rate")
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		blob  string
		parse bool
	}{
		{"empty object", `{}`, false},
		{"missing frames", `{"gridSize":2}`, false},
		{"missing grid size", `{"frames":[["black"]]}`, false},
		{"zero grid size", `{"gridSize":0,"frames":[["black"]]}`, false},
		{"empty frames", `{"gridSize":1,"frames":[]}`, false},
		{"short row", `{"gridSize":2,"frames":[["black"]]}`, false},
		{"grid size overflow", `{"gridSize":4294967296,"frames":[[]]}`, false},
		{"grid size above max", `{"gridSize":1025,"frames":[[]]}`, false},
		{"bad color", `{"gridSize":1,"frames":[["red"]]}`, false},
		{"not json", `{"gridSize":`, true},
		{"wrong type", `{"gridSize":"two","frames":[]}`, true},
		{"garbage", `hello`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.blob))

			require.Error(t, err)
			if tt.parse {
				assert.True(t, define.IsParseError(err), "want ParseError, got %v", err)
			} else {
				assert.True(t, define.IsValidationError(err), "want ValidationError, got %v", err)
			}
		})
	}
}

func TestImportNormalizesColors(t *testing.T) {
	doc, err := Import([]byte(`{"gridSize":1,"frames":[["#FF00aA"]]}`))
	require.NoError(t, err)
	assert.Equal(t, [][]define.Color{{"#ff00aa"}}, doc.Frames)

	m := animation.NewModel(4, 5)
	require.NoError(t, Apply(m, doc))
	assert.Equal(t, define.Color("#ff00aa"), m.Snapshot().Frames[0][0])
}

func TestApplyRejectsInconsistentDocument(t *testing.T) {
	m := animation.NewModel(4, 5)
	m.SetCell(0, 0, "#123456")
	before := m.Snapshot()

	err := Apply(m, Document{GridSize: 2, Frames: [][]define.Color{{"black"}}})
	assert.True(t, define.IsValidationError(err))

	err = Apply(m, Document{GridSize: 1 << 32, Frames: [][]define.Color{{}}})
	assert.True(t, define.IsValidationError(err))

	assert.Equal(t, before, m.Snapshot())
}

func TestExportFilename(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "pixel_animation_1700000000123.json", ExportFilename(ts))
}
