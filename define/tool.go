package define

import "strings"

type Tool int

const (
	TOOL_UNKNOWN Tool = iota
	TOOL_PENCIL
	TOOL_ERASER
)

func (t Tool) String() string {
	switch t {
	case TOOL_PENCIL:
		return "pencil"
	case TOOL_ERASER:
		return "eraser"
	}
	return "unknown"
}

// ToolFromString 将工具名称转换为枚举
func ToolFromString(name string) Tool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pencil":
		return TOOL_PENCIL
	case "eraser":
		return TOOL_ERASER
	}
	return TOOL_UNKNOWN
}

// EffectiveColor 返回该工具实际绘制的颜色，橡皮擦总是哨兵颜色
func (t Tool) EffectiveColor(current Color) Color {
	if t == TOOL_ERASER {
		return ColorBlack
	}
	return current
}
