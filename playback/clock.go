package playback

import "time"

// Timer 可取消的一次性定时器
type Timer interface {
	Stop() bool
}

// Clock 定时器来源，测试中可以替换为手动推进的时钟
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock 基于 time.AfterFunc 的真实时钟
var SystemClock Clock = systemClock{}

// Interval 播放速率对应的帧间隔：1000 / rate 毫秒
func Interval(rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / rate)
}
