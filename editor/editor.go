package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pixels/animation"
	"pixels/define"
	"pixels/device"
	"pixels/persistence"
	"pixels/playback"
	"pixels/preset"
	"pixels/render"
	"pixels/timeline"
)

// ErrPresetNotFound 预设不存在
var ErrPresetNotFound = errors.New("预设动画不存在")

// Options 编辑器初始化参数
type Options struct {
	GridSize      int
	Speed         float64
	MaxGridSize   int
	MaxSpeed      float64
	DeviceTimeout time.Duration
	Presets       *preset.Catalog
	Clock         playback.Clock
	// ThumbnailURL 为时间轴生成缩略图地址，可为空
	ThumbnailURL func(index int) string
}

// State 推送给前端的完整视图
type State struct {
	Grid     render.Grid    `json:"grid"`
	Timeline timeline.Strip `json:"timeline"`
	Tool     string         `json:"tool"`
	Color    define.Color   `json:"color"`
	Playing  bool           `json:"playing"`
	Speed    float64        `json:"speed"`
	Device   device.Status  `json:"device"`
}

// Editor 编辑器应用上下文，组合模型、渲染、时间轴、播放与设备通信。
// 每次修改之后向所有订阅者广播最新 State。
type Editor struct {
	model     *animation.Model
	renderer  *render.GridRenderer
	timeline  *timeline.Controller
	scheduler *playback.Scheduler
	device    *device.Client
	presets   *preset.Catalog

	maxGridSize int
	maxSpeed    float64

	subMu  sync.Mutex
	subs   map[int]chan State
	nextID int
}

// New 创建编辑器
func New(opts Options) *Editor {
	if opts.MaxGridSize <= 0 || opts.MaxGridSize > define.MaxGridSize {
		opts.MaxGridSize = 64
	}
	if opts.MaxSpeed <= 0 {
		opts.MaxSpeed = 10
	}
	if opts.Presets == nil {
		opts.Presets = preset.MustBuiltin()
	}

	model := animation.NewModel(opts.GridSize, opts.Speed)
	e := &Editor{
		model:       model,
		renderer:    render.NewGridRenderer(model),
		timeline:    timeline.NewController(model),
		device:      device.NewClient(opts.DeviceTimeout),
		presets:     opts.Presets,
		maxGridSize: opts.MaxGridSize,
		maxSpeed:    opts.MaxSpeed,
		subs:        make(map[int]chan State),
	}
	e.timeline.ThumbnailURL = opts.ThumbnailURL

	var schedOpts []playback.Option
	if opts.Clock != nil {
		schedOpts = append(schedOpts, playback.WithClock(opts.Clock))
	}
	// 回调在调度器锁内执行，只允许读取状态并广播
	e.scheduler = playback.NewScheduler(model, func(int) { e.publish() }, schedOpts...)
	return e
}

// Model 底层动画模型
func (e *Editor) Model() *animation.Model { return e.model }

// Presets 预设目录
func (e *Editor) Presets() *preset.Catalog { return e.presets }

// State 当前完整视图
func (e *Editor) State() State {
	snap := e.model.Snapshot()
	return State{
		Grid:     render.Project(snap),
		Timeline: e.timeline.Build(snap),
		Tool:     e.renderer.Tool().String(),
		Color:    e.renderer.Color(),
		Playing:  e.scheduler.IsPlaying(),
		Speed:    snap.PlaybackRate,
		Device:   e.device.Status(),
	}
}

// Subscribe 订阅状态变化，返回的 cancel 会关闭通道。
// 通道只保留最新的一份状态，消费慢时旧状态会被覆盖。
func (e *Editor) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = ch
	e.subMu.Unlock()

	cancel := func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if _, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (e *Editor) publish() {
	st := e.State()

	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// SetGridSize 修改网格尺寸，所有帧按左上角对齐裁剪或补黑
func (e *Editor) SetGridSize(n int) error {
	if n < 1 || n > e.maxGridSize {
		return define.NewValidationError("网格尺寸必须在 1-%d 之间", e.maxGridSize)
	}
	if e.model.Resize(n) {
		log.Info().Int("gridSize", n).Msg("📐 网格尺寸已修改")
		e.publish()
	}
	return nil
}

// SetSpeed 修改播放速度，播放中时在下一个节拍生效
func (e *Editor) SetSpeed(rate float64) error {
	if rate > e.maxSpeed {
		return define.NewValidationError("播放速度不能超过 %v", e.maxSpeed)
	}
	if err := e.model.SetPlaybackRate(rate); err != nil {
		return err
	}
	e.publish()
	return nil
}

// SetTool 切换绘图工具
func (e *Editor) SetTool(name string) error {
	if err := e.renderer.SetTool(define.ToolFromString(name)); err != nil {
		return err
	}
	e.publish()
	return nil
}

// SetColor 修改画笔颜色
func (e *Editor) SetColor(c define.Color) error {
	if err := e.renderer.SetColor(c); err != nil {
		return err
	}
	e.publish()
	return nil
}

// NewStroke 为一个独立客户端创建拖拽状态，工具与颜色仍然共享
func (e *Editor) NewStroke() *render.Stroke { return e.renderer.NewStroke() }

// Pointer 用默认指针处理网格上的指针事件
func (e *Editor) Pointer(ev render.PointerEvent, cell int) error {
	return e.StrokePointer(nil, ev, cell)
}

// StrokePointer 用指定客户端的拖拽状态处理指针事件，stroke 为 nil 时使用默认指针
func (e *Editor) StrokePointer(stroke *render.Stroke, ev render.PointerEvent, cell int) error {
	var (
		changed bool
		err     error
	)
	if stroke == nil {
		changed, err = e.renderer.Handle(ev, cell)
	} else {
		changed, err = stroke.Handle(ev, cell)
	}
	if err != nil {
		return err
	}
	if changed {
		e.publish()
	}
	return nil
}

// SetCell 直接写入单元格
func (e *Editor) SetCell(frameIndex, cellIndex int, c define.Color) error {
	if !define.IsValidColor(c) {
		return define.NewValidationError("颜色无效：%q", c)
	}
	if !e.model.SetCell(frameIndex, cellIndex, define.NormalizeColor(c)) {
		return define.NewValidationError("帧 %d 单元格 %d 不存在", frameIndex, cellIndex)
	}
	e.publish()
	return nil
}

// AddFrame 在末尾添加空白帧并选中
func (e *Editor) AddFrame() int {
	idx := e.model.AddFrame()
	log.Info().Int("index", idx).Msg("➕ 已添加新帧")
	e.publish()
	return idx
}

// DeleteFrame 删除帧
func (e *Editor) DeleteFrame(index int) error {
	if _, err := e.timeline.Delete(index); err != nil {
		return err
	}
	log.Info().Int("index", index).Msg("🗑️ 已删除帧")
	e.publish()
	return nil
}

// SelectFrame 切换当前帧
func (e *Editor) SelectFrame(index int) error {
	if _, err := e.timeline.Select(index); err != nil {
		return err
	}
	e.publish()
	return nil
}

// ClearFrame 清空帧
func (e *Editor) ClearFrame(index int) error {
	if !e.model.ClearFrame(index) {
		return define.NewValidationError("帧 %d 不存在", index)
	}
	e.publish()
	return nil
}

// TogglePlayback 切换播放状态，返回切换后是否在播放
func (e *Editor) TogglePlayback() bool {
	playing := e.scheduler.Toggle()
	e.publish()
	return playing
}

// StopPlayback 停止播放
func (e *Editor) StopPlayback() {
	if e.scheduler.Stop() {
		e.publish()
	}
}

// IsPlaying 是否在播放
func (e *Editor) IsPlaying() bool { return e.scheduler.IsPlaying() }

// LoadPreset 加载预设动画，替换全部帧与速度
func (e *Editor) LoadPreset(name string) error {
	p, ok := e.presets.Get(name)
	if !ok {
		return fmt.Errorf("%w：%s", ErrPresetNotFound, name)
	}
	if err := e.model.ReplaceAllWithRate(p.GridSize, p.Frames, 0, p.Speed); err != nil {
		return err
	}
	log.Info().Str("preset", name).Int("frames", len(p.Frames)).Msg("🎬 已加载预设动画")
	e.publish()
	return nil
}

// Export 导出当前动画
func (e *Editor) Export() ([]byte, error) {
	return persistence.Export(e.model.Snapshot())
}

// Import 导入动画文件。失败时模型保持不变。
func (e *Editor) Import(blob []byte) error {
	doc, err := persistence.Import(blob)
	if err != nil {
		log.Warn().Err(err).Msg("❌ 导入动画失败")
		return err
	}
	if doc.GridSize > e.maxGridSize {
		return define.NewValidationError("网格尺寸不能超过 %d", e.maxGridSize)
	}
	if err := persistence.Apply(e.model, doc); err != nil {
		return err
	}
	log.Info().Int("gridSize", doc.GridSize).Int("frames", len(doc.Frames)).Msg("📂 动画已导入")
	e.publish()
	return nil
}

// Connect 连接设备
func (e *Editor) Connect(ctx context.Context, address string) error {
	err := e.device.Connect(ctx, address)
	e.publish()
	return err
}

// Push 把当前动画推送到已连接的设备，未连接时返回 false
func (e *Editor) Push(ctx context.Context) (bool, error) {
	sent, err := e.device.PushAnimation(ctx, e.model.Snapshot())
	if err != nil {
		e.publish()
	}
	return sent, err
}

// DeviceStatus 设备连接状态
func (e *Editor) DeviceStatus() device.Status { return e.device.Status() }

// Close 停止播放并关闭所有订阅
func (e *Editor) Close() {
	e.scheduler.Stop()

	e.subMu.Lock()
	defer e.subMu.Unlock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}
