package preview

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pixels/animation"
	"pixels/define"
	"pixels/persistence"
	"pixels/playback"
	"pixels/preset"
	"pixels/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim        = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	frameBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// frameMsg 调度器前进了一帧
type frameMsg int

type model struct {
	title  string
	anim   *animation.Model
	sched  *playback.Scheduler
	frames chan int
}

// New 创建预览程序的模型，调度器前进时通过通道通知界面重绘
func New(anim *animation.Model, title string, opts ...playback.Option) tea.Model {
	m := model{
		title:  title,
		anim:   anim,
		frames: make(chan int, 1),
	}
	m.sched = playback.NewScheduler(anim, func(i int) {
		select {
		case m.frames <- i:
		default:
		}
	}, opts...)
	return m
}

func waitForFrame(ch <-chan int) tea.Cmd {
	return func() tea.Msg { return frameMsg(<-ch) }
}

func (m model) Init() tea.Cmd {
	m.sched.Start()
	return waitForFrame(m.frames)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sched.Stop()
			return m, tea.Quit
		case " ":
			m.sched.Toggle()
		case "right", "l":
			if !m.sched.IsPlaying() {
				m.anim.Advance()
			}
		case "left", "h":
			if !m.sched.IsPlaying() {
				n := m.anim.FrameCount()
				m.anim.SetActiveFrame((m.anim.ActiveFrameIndex() - 1 + n) % n)
			}
		case "+", "=":
			_ = m.anim.SetPlaybackRate(m.anim.PlaybackRate() + 1)
		case "-":
			if r := m.anim.PlaybackRate(); r > 1 {
				_ = m.anim.SetPlaybackRate(r - 1)
			}
		}
		return m, nil
	case frameMsg:
		return m, waitForFrame(m.frames)
	}
	return m, nil
}

func (m model) View() string {
	snap := m.anim.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(frameBox.Render(render.Terminal(snap.Frames[snap.ActiveFrameIndex], snap.GridSize)))
	b.WriteString("\n")

	status := yellow.Render("⏸ 已暂停")
	if m.sched.IsPlaying() {
		status = green.Render("▶ 播放中")
	}
	fmt.Fprintf(&b, "%s  帧 %d/%d  %s\n", status, snap.ActiveFrameIndex+1, len(snap.Frames), dim.Render(fmt.Sprintf("%.0f fps", snap.PlaybackRate)))
	b.WriteString(dim.Render("space 播放/暂停 · ←/→ 切换帧 · +/- 调整速度 · q 退出"))
	b.WriteString("\n")
	return b.String()
}

// FromFile 从导出的动画文件加载模型，网格尺寸不得超过 maxGridSize
func FromFile(path string, maxGridSize int) (*animation.Model, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取动画文件失败：%w", err)
	}
	doc, err := persistence.Import(blob)
	if err != nil {
		return nil, err
	}
	if doc.GridSize > maxGridSize {
		return nil, define.NewValidationError("网格尺寸 %d 超过上限 %d", doc.GridSize, maxGridSize)
	}
	m := animation.NewModel(doc.GridSize, doc.Speed)
	if err := persistence.Apply(m, doc); err != nil {
		return nil, err
	}
	return m, nil
}

// FromPreset 从预设目录加载模型
func FromPreset(catalog *preset.Catalog, name string) (*animation.Model, error) {
	p, ok := catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("预设动画不存在：%s（可用：%s）", name, strings.Join(catalog.Names(), ", "))
	}
	m := animation.NewModel(p.GridSize, p.Speed)
	if err := m.ReplaceAll(p.GridSize, p.Frames, 0); err != nil {
		return nil, err
	}
	return m, nil
}

// Run 运行终端预览直到用户退出
func Run(anim *animation.Model, title string) error {
	_, err := tea.NewProgram(New(anim, title)).Run()
	return err
}
