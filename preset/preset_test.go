package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixels/define"
)

func TestBuiltinCatalog(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"heart", "pacman", "snake"}, c.Names())

	tests := []struct {
		name   string
		frames int
		speed  float64
		color  define.Color
		lit    []int
	}{
		{"heart", 2, 2, "#ff0000", []int{18, 52}},
		{"pacman", 2, 4, "#ffff00", []int{18, 51}},
		{"snake", 3, 3, "#00ff00", []int{11, 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := c.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, 8, p.GridSize)
			assert.Equal(t, tt.speed, p.Speed)
			require.Len(t, p.Frames, tt.frames)
			for _, f := range p.Frames {
				assert.Len(t, f, 64)
			}
			for _, i := range tt.lit {
				assert.Equal(t, tt.color, p.Frames[0][i])
			}
			assert.Equal(t, define.ColorBlack, p.Frames[0][0])
			assert.NotEmpty(t, c.Description(tt.name))
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := MustBuiltin()

	p, _ := c.Get("snake")
	p.Frames[0][11] = "#ffffff"

	again, _ := c.Get("snake")
	assert.Equal(t, "#00ff00", again.Frames[0][11])
}

func TestUnknownPreset(t *testing.T) {
	c := MustBuiltin()

	_, ok := c.Get("tetris")
	assert.False(t, ok)
	assert.Empty(t, c.Description("tetris"))
}

func TestParseRejectsBadEntry(t *testing.T) {
	tests := map[string]string{
		"grid":  "x: {grid_size: 0, speed: 1, color: '#ffffff', frames: [[0]]}",
		"speed": "x: {grid_size: 2, speed: 0, color: '#ffffff', frames: [[0]]}",
		"color": "x: {grid_size: 2, speed: 1, color: 'red', frames: [[0]]}",
		"empty": "x: {grid_size: 2, speed: 1, color: '#ffffff', frames: []}",
		"yaml":  "x: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseDropsOutOfRangeCells(t *testing.T) {
	c, err := Parse([]byte("dot: {grid_size: 2, speed: 1, color: '#ffffff', frames: [[0, 9, -1]]}"))
	require.NoError(t, err)

	p, ok := c.Get("dot")
	require.True(t, ok)
	assert.Equal(t, []string{"#ffffff", "black", "black", "black"}, []string(p.Frames[0]))
}
