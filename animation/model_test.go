package animation_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "pixels/animation"
	"pixels/define"
)

func TestNewModelStartsWithOneBlankFrame(t *testing.T) {
	m := NewModel(8, 5)
	snap := m.Snapshot()

	assert.Equal(t, 8, snap.GridSize)
	require.Len(t, snap.Frames, 1)
	assert.Len(t, snap.Frames[0], 64)
	for _, c := range snap.Frames[0] {
		assert.Equal(t, define.ColorBlack, c)
	}
	assert.Equal(t, 0, snap.ActiveFrameIndex)
	assert.Equal(t, 5.0, snap.PlaybackRate)
}

func TestSetCell(t *testing.T) {
	m := NewModel(2, 5)

	assert.True(t, m.SetCell(0, 0, "#ff0000"))
	assert.Equal(t, Frame{"#ff0000", "black", "black", "black"}, m.Snapshot().Frames[0])

	assert.False(t, m.SetCell(1, 0, "#00ff00"))
	assert.False(t, m.SetCell(0, 4, "#00ff00"))
	assert.False(t, m.SetCell(0, -1, "#00ff00"))
	assert.Equal(t, Frame{"#ff0000", "black", "black", "black"}, m.Snapshot().Frames[0])
}

func TestSetActiveCell(t *testing.T) {
	m := NewModel(2, 5)
	m.AddFrame()

	assert.True(t, m.SetActiveCell(1, "#00ff00"))
	m.Advance()
	assert.True(t, m.SetActiveCell(2, "#0000ff"))
	assert.False(t, m.SetActiveCell(4, "#0000ff"))
	assert.False(t, m.SetActiveCell(-1, "#0000ff"))

	snap := m.Snapshot()
	assert.Equal(t, Frame{"black", "#00ff00", "black", "black"}, snap.Frames[1])
	assert.Equal(t, Frame{"black", "black", "#0000ff", "black"}, snap.Frames[0])
}

func TestAddFrame(t *testing.T) {
	m := NewModel(2, 5)

	idx := m.AddFrame()

	snap := m.Snapshot()
	assert.Equal(t, 1, idx)
	require.Len(t, snap.Frames, 2)
	assert.Len(t, snap.Frames[0], 4)
	assert.Len(t, snap.Frames[1], 4)
	assert.Equal(t, 1, snap.ActiveFrameIndex)
}

func TestDeleteFrameClampsActive(t *testing.T) {
	m := NewModel(2, 5)
	m.AddFrame()
	require.Equal(t, 1, m.ActiveFrameIndex())

	require.NoError(t, m.DeleteFrame(0))

	assert.Equal(t, 1, m.FrameCount())
	assert.Equal(t, 0, m.ActiveFrameIndex())
}

func TestDeleteLastFrameRejected(t *testing.T) {
	m := NewModel(2, 5)
	m.SetCell(0, 1, "#123456")
	before := m.Snapshot()

	err := m.DeleteFrame(0)

	require.Error(t, err)
	assert.True(t, define.IsValidationError(err))
	assert.ErrorIs(t, err, ErrLastFrame)
	assert.Equal(t, before, m.Snapshot())
}

func TestDeleteFrameOutOfRange(t *testing.T) {
	m := NewModel(2, 5)
	m.AddFrame()

	err := m.DeleteFrame(5)

	assert.True(t, define.IsValidationError(err))
	assert.Equal(t, 2, m.FrameCount())
}

func TestFrameCountNeverBelowOne(t *testing.T) {
	m := NewModel(3, 5)
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		if r.Intn(2) == 0 {
			m.AddFrame()
		} else {
			n := m.FrameCount()
			err := m.DeleteFrame(r.Intn(n))
			if n == 1 {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		}
		snap := m.Snapshot()
		require.GreaterOrEqual(t, len(snap.Frames), 1)
		require.GreaterOrEqual(t, snap.ActiveFrameIndex, 0)
		require.Less(t, snap.ActiveFrameIndex, len(snap.Frames))
	}
}

func TestSetActiveFrame(t *testing.T) {
	m := NewModel(2, 5)
	m.AddFrame()
	m.AddFrame()

	for i := 0; i < 3; i++ {
		assert.True(t, m.SetActiveFrame(i))
		assert.Equal(t, i, m.Snapshot().ActiveFrameIndex)
	}

	assert.False(t, m.SetActiveFrame(3))
	assert.False(t, m.SetActiveFrame(-1))
	assert.Equal(t, 2, m.ActiveFrameIndex())
}

func TestAdvanceWraps(t *testing.T) {
	m := NewModel(2, 5)
	m.AddFrame()
	m.AddFrame()
	m.SetActiveFrame(0)

	assert.Equal(t, 1, m.Advance())
	assert.Equal(t, 2, m.Advance())
	assert.Equal(t, 0, m.Advance())
}

func TestResizeKeepsOverlap(t *testing.T) {
	m := NewModel(2, 5)
	m.SetCell(0, 0, "#ff0000") // (0,0)
	m.SetCell(0, 3, "#00ff00") // (1,1)
	m.AddFrame()

	require.True(t, m.Resize(3))

	snap := m.Snapshot()
	assert.Equal(t, 3, snap.GridSize)
	require.Len(t, snap.Frames, 2)
	assert.Equal(t, Frame{
		"#ff0000", "black", "black",
		"black", "#00ff00", "black",
		"black", "black", "black",
	}, snap.Frames[0])
	assert.Len(t, snap.Frames[1], 9)
	assert.Equal(t, 1, snap.ActiveFrameIndex)

	require.True(t, m.Resize(1))
	assert.Equal(t, Frame{"#ff0000"}, m.Snapshot().Frames[0])
}

func TestResizeIgnoresNonPositive(t *testing.T) {
	m := NewModel(4, 5)

	assert.False(t, m.Resize(0))
	assert.False(t, m.Resize(-3))
	assert.False(t, m.Resize(define.MaxGridSize+1))
	assert.Equal(t, 4, m.GridSize())
}

func TestValidateFramesBoundsGridSize(t *testing.T) {
	assert.NoError(t, ValidateFrames(1, []Frame{{"black"}}))
	assert.True(t, define.IsValidationError(ValidateFrames(1<<32, []Frame{{}})))
	assert.True(t, define.IsValidationError(ValidateFrames(1<<31, []Frame{{}})))
}

func TestClearFrame(t *testing.T) {
	m := NewModel(2, 5)
	m.SetCell(0, 2, "#abcdef")

	assert.True(t, m.ClearFrame(0))
	assert.Equal(t, NewBlankFrame(2), m.Snapshot().Frames[0])
	assert.False(t, m.ClearFrame(1))
}

func TestSetPlaybackRate(t *testing.T) {
	m := NewModel(2, 5)

	require.NoError(t, m.SetPlaybackRate(9))
	assert.Equal(t, 9.0, m.PlaybackRate())

	assert.True(t, define.IsValidationError(m.SetPlaybackRate(0)))
	assert.True(t, define.IsValidationError(m.SetPlaybackRate(-1)))
	assert.Equal(t, 9.0, m.PlaybackRate())
}

func TestReplaceAll(t *testing.T) {
	m := NewModel(8, 5)

	frames := []Frame{
		{"black", "#ff0000", "black", "black"},
		{"black", "black", "#ff0000", "black"},
	}
	require.NoError(t, m.ReplaceAll(2, frames, 0))

	// caller keeps no alias into the model
	frames[0][0] = "#ffffff"

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.GridSize)
	assert.Equal(t, 0, snap.ActiveFrameIndex)
	assert.Equal(t, define.ColorBlack, snap.Frames[0][0])
	assert.Equal(t, 5.0, snap.PlaybackRate)
}

func TestReplaceAllWithRate(t *testing.T) {
	m := NewModel(8, 5)

	require.NoError(t, m.ReplaceAllWithRate(1, []Frame{{"black"}}, 0, 2))
	assert.Equal(t, 2.0, m.PlaybackRate())

	require.NoError(t, m.ReplaceAllWithRate(1, []Frame{{"black"}}, 0, 0))
	assert.Equal(t, 2.0, m.PlaybackRate())
}

func TestReplaceAllRejectsInconsistentInput(t *testing.T) {
	tests := []struct {
		name     string
		gridSize int
		frames   []Frame
		active   int
	}{
		{"no frames", 2, nil, 0},
		{"zero grid", 0, []Frame{{}}, 0},
		{"grid square overflows", 1 << 32, []Frame{{}}, 0},
		{"grid above max", define.MaxGridSize + 1, []Frame{{}}, 0},
		{"short row", 2, []Frame{{"black", "black", "black"}}, 0},
		{"unequal rows", 1, []Frame{{"black"}, {"black", "black"}}, 0},
		{"active out of range", 1, []Frame{{"black"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(8, 5)
			m.SetCell(0, 0, "#ff0000")
			before := m.Snapshot()

			err := m.ReplaceAll(tt.gridSize, tt.frames, tt.active)

			assert.True(t, define.IsValidationError(err))
			assert.Equal(t, before, m.Snapshot())
		})
	}
}

func TestSnapshotIsDecoupled(t *testing.T) {
	m := NewModel(2, 5)
	snap := m.Snapshot()

	m.SetCell(0, 0, "#ff0000")
	snap.Frames[0][1] = "#00ff00"

	assert.Equal(t, define.ColorBlack, snap.Frames[0][0])
	assert.Equal(t, define.ColorBlack, m.Snapshot().Frames[0][1])
}
