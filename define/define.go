package define

// Color 单元格颜色，"#rrggbb" 或哨兵值 "black"
type Color = string

// ColorBlack 空白/背景哨兵颜色，也是真实的黑色
const ColorBlack Color = "black"

// 编辑器默认值
const (
	DefaultGridSize     = 8
	DefaultPlaybackRate = 5.0
)

// MaxGridSize 网格尺寸的硬上限，保证 gridSize² 不会溢出且缩略图可以分配
const MaxGridSize = 1024

// DefaultColor 铅笔的初始颜色
const DefaultColor Color = "#000000"

// API 响应结构体
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}
