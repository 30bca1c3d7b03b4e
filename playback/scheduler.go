package playback

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"pixels/define"
)

// Target 播放驱动的对象，*animation.Model 实现了它
type Target interface {
	Advance() int
	PlaybackRate() float64
}

// Scheduler 单飞的自重排定时链：每次触发后前进一帧并重新安排下一次
type Scheduler struct {
	target    Target
	clock     Clock
	onAdvance func(index int) // 前进后触发重绘

	mu         sync.Mutex  // 保护 generation、timer 以及状态切换
	playing    atomic.Bool // 无锁读取，重绘回调中可安全调用 IsPlaying
	generation uint64      // 每次启动/停止自增，过期的触发会被忽略
	timer      Timer       // 当前挂起的下一次前进
}

// Option 调度器选项
type Option func(*Scheduler)

// WithClock 替换时钟
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// NewScheduler 创建处于停止状态的调度器
func NewScheduler(target Target, onAdvance func(index int), opts ...Option) *Scheduler {
	s := &Scheduler{
		target:    target,
		clock:     SystemClock,
		onAdvance: onAdvance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle 停止 -> 播放（立即前进一帧）或 播放 -> 停止，返回切换后是否在播放
func (s *Scheduler) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing.Load() {
		s.stopLocked()
		return false
	}
	s.startLocked()
	return true
}

// Start 开始播放，已在播放时返回 false
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing.Load() {
		return false
	}
	s.startLocked()
	return true
}

// Stop 停止播放，返回之前是否在播放
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing.Load() {
		log.Debug().Msg("ℹ️ 当前没有在播放")
		return false
	}
	s.stopLocked()
	return true
}

// IsPlaying 是否在播放
func (s *Scheduler) IsPlaying() bool { return s.playing.Load() }

func (s *Scheduler) startLocked() {
	s.playing.Store(true)
	s.generation++
	gen := s.generation

	log.Info().Float64("rate", s.target.PlaybackRate()).Uint64("generation", gen).Msg("▶️ 开始播放")

	s.advanceLocked()
	s.armLocked(gen)
}

func (s *Scheduler) stopLocked() {
	s.playing.Store(false)
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	log.Info().Msg("🛑 播放已停止")
}

// armLocked 按当前速率安排下一次前进，速率变化因此只在下一个节拍生效
func (s *Scheduler) armLocked(gen uint64) {
	rate := s.target.PlaybackRate()
	if rate <= 0 {
		rate = define.DefaultPlaybackRate
	}
	s.timer = s.clock.AfterFunc(Interval(rate), func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 停止或重新启动之后残留的触发
	if !s.playing.Load() || gen != s.generation {
		log.Debug().Uint64("generation", gen).Msg("ℹ️ 忽略过期的播放节拍")
		return
	}

	s.advanceLocked()
	s.armLocked(gen)
}

func (s *Scheduler) advanceLocked() {
	idx := s.target.Advance()
	if s.onAdvance != nil {
		s.onAdvance(idx)
	}
}
