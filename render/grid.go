package render

import (
	"sync"

	"pixels/animation"
	"pixels/define"
)

// Grid 当前帧的显示投影，完全由模型快照计算得出
type Grid struct {
	GridSize    int            `json:"gridSize"`
	ActiveFrame int            `json:"activeFrame"`
	Cells       []define.Color `json:"cells"`
}

// Project 把快照中的当前帧投影为显示网格
func Project(s animation.Snapshot) Grid {
	cells := make([]define.Color, 0, s.GridSize*s.GridSize)
	if s.ActiveFrameIndex >= 0 && s.ActiveFrameIndex < len(s.Frames) {
		cells = append(cells, s.Frames[s.ActiveFrameIndex]...)
	}
	return Grid{
		GridSize:    s.GridSize,
		ActiveFrame: s.ActiveFrameIndex,
		Cells:       cells,
	}
}

// PointerEvent 指针事件类型
type PointerEvent string

const (
	PointerDown        PointerEvent = "down"
	PointerMove        PointerEvent = "move"
	PointerUp          PointerEvent = "up"
	PointerLeave       PointerEvent = "leave"
	PointerContextMenu PointerEvent = "contextmenu"
)

// Canvas 绘制目标，*animation.Model 实现了它
type Canvas interface {
	// SetActiveCell 在同一把锁内写入当前帧，播放切帧不会让笔画落到上一帧
	SetActiveCell(cellIndex int, color define.Color) bool
}

// GridRenderer 把拖拽手势转换为对当前帧的单元格写入，不做任何本地缓冲。
// 工具与颜色全局共享，拖拽状态属于各自的 Stroke。
type GridRenderer struct {
	mu     sync.Mutex
	canvas Canvas
	tool   define.Tool
	color  define.Color

	pointer *Stroke // 默认指针，供不区分客户端的调用方使用
}

// NewGridRenderer 创建渲染器，默认铅笔工具
func NewGridRenderer(canvas Canvas) *GridRenderer {
	r := &GridRenderer{
		canvas: canvas,
		tool:   define.TOOL_PENCIL,
		color:  define.DefaultColor,
	}
	r.pointer = r.NewStroke()
	return r
}

// NewStroke 为一个独立的指针（例如一个 WebSocket 连接）创建拖拽状态
func (r *GridRenderer) NewStroke() *Stroke { return &Stroke{renderer: r} }

// SetTool 切换工具
func (r *GridRenderer) SetTool(tool define.Tool) error {
	if tool != define.TOOL_PENCIL && tool != define.TOOL_ERASER {
		return define.NewValidationError("未知的工具：%s", tool)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tool = tool
	return nil
}

// SetColor 设置铅笔颜色
func (r *GridRenderer) SetColor(c define.Color) error {
	if !define.IsValidColor(c) {
		return define.NewValidationError("无效的颜色：%q", c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.color = define.NormalizeColor(c)
	return nil
}

func (r *GridRenderer) Tool() define.Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tool
}

func (r *GridRenderer) Color() define.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.color
}

// IsDrawing 默认指针是否处于拖拽中
func (r *GridRenderer) IsDrawing() bool { return r.pointer.IsDrawing() }

// Press 默认指针按下
func (r *GridRenderer) Press(cell int) bool { return r.pointer.Press(cell) }

// Move 默认指针移动
func (r *GridRenderer) Move(cell int) bool { return r.pointer.Move(cell) }

// Release 默认指针松开
func (r *GridRenderer) Release() { r.pointer.Release() }

// Leave 默认指针离开网格
func (r *GridRenderer) Leave() { r.pointer.Leave() }

// ContextMenu 网格上的右键菜单总是被屏蔽
func (r *GridRenderer) ContextMenu() bool { return true }

// Handle 用默认指针分发一个指针事件，返回模型是否被修改
func (r *GridRenderer) Handle(ev PointerEvent, cell int) (bool, error) {
	return r.pointer.Handle(ev, cell)
}

func (r *GridRenderer) paint(cell int) bool {
	r.mu.Lock()
	c := r.tool.EffectiveColor(r.color)
	r.mu.Unlock()
	return r.canvas.SetActiveCell(cell, c)
}

// Stroke 单个指针的拖拽状态，一个客户端抬起指针不会打断另一个客户端的拖拽
type Stroke struct {
	renderer *GridRenderer
	mu       sync.Mutex
	drawing  bool
}

// IsDrawing 是否处于拖拽中
func (s *Stroke) IsDrawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing
}

// Press 按下：开始拖拽并绘制该单元格
func (s *Stroke) Press(cell int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing = true
	return s.renderer.paint(cell)
}

// Move 拖拽中移动到某个单元格
func (s *Stroke) Move(cell int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawing {
		return false
	}
	return s.renderer.paint(cell)
}

// Release 松开指针，结束拖拽
func (s *Stroke) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing = false
}

// Leave 指针离开网格，结束拖拽
func (s *Stroke) Leave() { s.Release() }

// Handle 分发一个指针事件，返回模型是否被修改
func (s *Stroke) Handle(ev PointerEvent, cell int) (bool, error) {
	switch ev {
	case PointerDown:
		return s.Press(cell), nil
	case PointerMove:
		return s.Move(cell), nil
	case PointerUp:
		s.Release()
	case PointerLeave:
		s.Leave()
	case PointerContextMenu:
		s.renderer.ContextMenu()
	default:
		return false, define.NewValidationError("未知的指针事件：%s", ev)
	}
	return false, nil
}
