package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pixels/animation"
	"pixels/define"
)

const cellGlyph = "██"

// Terminal 用 lipgloss 把一帧绘制为终端色块，每个单元格两个字符宽
func Terminal(f animation.Frame, gridSize int) string {
	var b strings.Builder
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			i := y*gridSize + x
			c := define.ColorBlack
			if i < len(f) {
				c = f[i]
			}
			b.WriteString(cellStyle(c).Render(cellGlyph))
		}
		if y < gridSize-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellStyle(c define.Color) lipgloss.Style {
	rgba := ParseColor(c)
	hex := fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
