package animation

import (
	"sync"

	"pixels/define"
)

// Frame 一帧：长度为 gridSize² 的扁平颜色数组
type Frame []define.Color

// NewBlankFrame 创建全部为哨兵颜色的空白帧
func NewBlankFrame(gridSize int) Frame {
	f := make(Frame, gridSize*gridSize)
	for i := range f {
		f[i] = define.ColorBlack
	}
	return f
}

// Clone 深拷贝
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Model 动画模型，独占动画数据，所有修改都经过同一把锁串行化
type Model struct {
	mu           sync.RWMutex
	gridSize     int
	frames       []Frame
	active       int
	playbackRate float64
}

// NewModel 创建只有一帧空白帧的动画
func NewModel(gridSize int, playbackRate float64) *Model {
	if gridSize < 1 || gridSize > define.MaxGridSize {
		gridSize = define.DefaultGridSize
	}
	if playbackRate <= 0 {
		playbackRate = define.DefaultPlaybackRate
	}
	return &Model{
		gridSize:     gridSize,
		frames:       []Frame{NewBlankFrame(gridSize)},
		playbackRate: playbackRate,
	}
}

func (m *Model) GridSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gridSize
}

func (m *Model) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.frames)
}

func (m *Model) ActiveFrameIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

func (m *Model) PlaybackRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playbackRate
}

// ActiveFrame 返回当前帧的副本
func (m *Model) ActiveFrame() Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames[m.active].Clone()
}

// Resize 修改网格尺寸。每一帧以左上角为锚点重新投影：
// 新旧尺寸都存在的 (x, y) 保留颜色，新增单元格为 "black"。
// 非正数或超过 define.MaxGridSize 的输入直接忽略并返回 false。
func (m *Model) Resize(newGridSize int) bool {
	if newGridSize < 1 || newGridSize > define.MaxGridSize {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if newGridSize == m.gridSize {
		return true
	}

	old := m.gridSize
	for i, f := range m.frames {
		m.frames[i] = reproject(f, old, newGridSize)
	}
	m.gridSize = newGridSize
	return true
}

func reproject(f Frame, from, to int) Frame {
	out := NewBlankFrame(to)
	n := min(from, to)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			src := y*from + x
			if src < len(f) {
				out[y*to+x] = f[src]
			}
		}
	}
	return out
}

// SetCell 带边界检查的单元格写入，索引非法时不做任何事
func (m *Model) SetCell(frameIndex, cellIndex int, color define.Color) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameIndex < 0 || frameIndex >= len(m.frames) {
		return false
	}
	f := m.frames[frameIndex]
	if cellIndex < 0 || cellIndex >= len(f) {
		return false
	}
	f[cellIndex] = color
	return true
}

// SetActiveCell 写入当前帧的单元格，读取当前帧与写入在同一把锁内完成
func (m *Model) SetActiveCell(cellIndex int, color define.Color) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.frames[m.active]
	if cellIndex < 0 || cellIndex >= len(f) {
		return false
	}
	f[cellIndex] = color
	return true
}

// ClearFrame 把指定帧全部涂成哨兵颜色
func (m *Model) ClearFrame(frameIndex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameIndex < 0 || frameIndex >= len(m.frames) {
		return false
	}
	m.frames[frameIndex] = NewBlankFrame(m.gridSize)
	return true
}

// AddFrame 追加一帧空白帧并设为当前帧，返回新帧索引
func (m *Model) AddFrame() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames = append(m.frames, NewBlankFrame(m.gridSize))
	m.active = len(m.frames) - 1
	return m.active
}

// DeleteFrame 删除指定帧，只剩一帧时拒绝
func (m *Model) DeleteFrame(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) <= 1 {
		return ErrLastFrame
	}
	if index < 0 || index >= len(m.frames) {
		return define.NewValidationError("帧 %d 不存在", index)
	}

	m.frames = append(m.frames[:index], m.frames[index+1:]...)
	if m.active >= len(m.frames) {
		m.active = len(m.frames) - 1
	}
	return nil
}

// SetActiveFrame 切换当前帧，越界时忽略
func (m *Model) SetActiveFrame(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.frames) {
		return false
	}
	m.active = index
	return true
}

// Advance 当前帧前进一帧（循环），返回新的索引
func (m *Model) Advance() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = (m.active + 1) % len(m.frames)
	return m.active
}

// SetPlaybackRate 设置播放速率（帧/秒），必须为正
func (m *Model) SetPlaybackRate(rate float64) error {
	if rate <= 0 {
		return define.NewValidationError("播放速度必须大于 0，当前为 %v", rate)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.playbackRate = rate
	return nil
}

// ReplaceAll 整体替换动画（预设加载、文件导入），校验通过前不修改任何状态
func (m *Model) ReplaceAll(gridSize int, frames []Frame, activeIndex int) error {
	return m.replace(gridSize, frames, activeIndex, 0)
}

// ReplaceAllWithRate 同 ReplaceAll，同时安装播放速率；rate <= 0 时保留当前速率
func (m *Model) ReplaceAllWithRate(gridSize int, frames []Frame, activeIndex int, rate float64) error {
	return m.replace(gridSize, frames, activeIndex, rate)
}

func (m *Model) replace(gridSize int, frames []Frame, activeIndex int, rate float64) error {
	if err := ValidateFrames(gridSize, frames); err != nil {
		return err
	}
	if activeIndex < 0 || activeIndex >= len(frames) {
		return define.NewValidationError("当前帧索引 %d 超出范围 [0, %d)", activeIndex, len(frames))
	}

	copied := make([]Frame, len(frames))
	for i, f := range frames {
		copied[i] = f.Clone()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.gridSize = gridSize
	m.frames = copied
	m.active = activeIndex
	if rate > 0 {
		m.playbackRate = rate
	}
	return nil
}

// ValidateFrames 检查网格尺寸不超过 define.MaxGridSize、帧序列非空、每行长度为 gridSize²
func ValidateFrames(gridSize int, frames []Frame) error {
	if gridSize < 1 || gridSize > define.MaxGridSize {
		return define.NewValidationError("网格尺寸必须在 1-%d 之间，当前为 %d", define.MaxGridSize, gridSize)
	}
	if len(frames) == 0 {
		return define.NewValidationError("动画至少需要一帧")
	}
	want := gridSize * gridSize
	for i, f := range frames {
		if len(f) != want {
			return define.NewValidationError("第 %d 帧有 %d 个单元格，应为 %d", i, len(f), want)
		}
	}
	return nil
}

// Snapshot 返回与后续编辑解耦的只读副本
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	frames := make([]Frame, len(m.frames))
	for i, f := range m.frames {
		frames[i] = f.Clone()
	}
	return Snapshot{
		GridSize:         m.gridSize,
		Frames:           frames,
		ActiveFrameIndex: m.active,
		PlaybackRate:     m.playbackRate,
	}
}
