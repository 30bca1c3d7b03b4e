package playback

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixels/animation"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Duration
	seq      int
	f        func()
	stopped  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.clock.leaky {
		// 模拟 Stop 与触发竞争：定时器仍会触发
		return false
	}
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeClock 手动推进的时钟，回调在 Advance 的调用方 goroutine 中执行
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
	leaky  bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, deadline: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.Slice(c.timers, func(i, j int) bool {
			if c.timers[i].deadline == c.timers[j].deadline {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].deadline < c.timers[j].deadline
		})
		var next *fakeTimer
		for len(c.timers) > 0 {
			t := c.timers[0]
			if t.stopped {
				c.timers = c.timers[1:]
				continue
			}
			if t.deadline <= target {
				next = t
				c.timers = c.timers[1:]
			}
			break
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		c.mu.Unlock()
		next.f()
	}
}

func newModel(frames int, rate float64) *animation.Model {
	m := animation.NewModel(2, rate)
	for i := 1; i < frames; i++ {
		m.AddFrame()
	}
	m.SetActiveFrame(0)
	return m
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Interval(5))
	assert.Equal(t, time.Second, Interval(1))
	assert.Equal(t, 100*time.Millisecond, Interval(10))
	assert.Equal(t, time.Duration(0), Interval(0))
}

func TestToggleAdvancesImmediately(t *testing.T) {
	m := newModel(3, 5)
	clock := &fakeClock{}
	var redraws []int
	s := NewScheduler(m, func(i int) { redraws = append(redraws, i) }, WithClock(clock))

	assert.True(t, s.Toggle())

	assert.True(t, s.IsPlaying())
	assert.Equal(t, 1, m.ActiveFrameIndex())
	assert.Equal(t, []int{1}, redraws)
}

func TestPlaybackAdvancesPerTickAndStops(t *testing.T) {
	for _, rate := range []float64{1, 2, 4, 5, 10} {
		m := newModel(3, rate)
		clock := &fakeClock{}
		s := NewScheduler(m, nil, WithClock(clock))

		require.True(t, s.Toggle())
		initial := m.ActiveFrameIndex()

		elapsed := 2300 * time.Millisecond
		clock.Advance(elapsed)
		require.False(t, s.Toggle())

		ticks := int(elapsed / Interval(rate))
		want := (initial + ticks) % 3
		assert.Equal(t, want, m.ActiveFrameIndex(), "rate %v", rate)

		clock.Advance(10 * time.Second)
		assert.Equal(t, want, m.ActiveFrameIndex(), "rate %v advanced after stop", rate)
		assert.False(t, s.IsPlaying())
	}
}

func TestStaleFireIgnoredAfterStop(t *testing.T) {
	m := newModel(3, 5)
	clock := &fakeClock{leaky: true}
	count := 0
	s := NewScheduler(m, func(int) { count++ }, WithClock(clock))

	s.Toggle()
	s.Toggle()
	clock.Advance(time.Second)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, m.ActiveFrameIndex())
}

func TestStaleFireIgnoredAfterRestart(t *testing.T) {
	m := newModel(4, 5)
	clock := &fakeClock{leaky: true}
	count := 0
	s := NewScheduler(m, func(int) { count++ }, WithClock(clock))

	s.Toggle()
	s.Toggle()
	clock.Advance(100 * time.Millisecond)
	s.Toggle()

	// 第一轮残留的定时器在 200ms 触发，必须被忽略；新链在 300ms 触发
	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, 2, count)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, 3, count)
}

func TestRateChangeAppliesAtNextTick(t *testing.T) {
	m := newModel(5, 1)
	clock := &fakeClock{}
	s := NewScheduler(m, nil, WithClock(clock))

	s.Toggle()
	require.NoError(t, m.SetPlaybackRate(10))

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, m.ActiveFrameIndex())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 2, m.ActiveFrameIndex())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, m.ActiveFrameIndex())
}

func TestStartStop(t *testing.T) {
	m := newModel(2, 5)
	s := NewScheduler(m, nil, WithClock(&fakeClock{}))

	assert.False(t, s.Stop())
	assert.True(t, s.Start())
	assert.False(t, s.Start())
	assert.True(t, s.Stop())
	assert.False(t, s.IsPlaying())
}

func TestSystemClock(t *testing.T) {
	m := newModel(2, 100)
	done := make(chan int, 8)
	s := NewScheduler(m, func(i int) {
		select {
		case done <- i:
		default:
		}
	}, WithClock(SystemClock))

	s.Toggle()
	<-done
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a timer-driven advance")
	}
	s.Stop()
}
