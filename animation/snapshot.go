package animation

import "pixels/define"

// ErrLastFrame 删除唯一一帧时返回
var ErrLastFrame = &define.ValidationError{Reason: "不能删除最后一帧"}

// Snapshot 动画在某一时刻的不可变副本，用于导出与设备推送
type Snapshot struct {
	GridSize         int
	Frames           []Frame
	ActiveFrameIndex int
	PlaybackRate     float64
}

// FrameStrings 以 [][]string 形式返回帧数据，便于 JSON 序列化
func (s Snapshot) FrameStrings() [][]string {
	out := make([][]string, len(s.Frames))
	for i, f := range s.Frames {
		row := make([]string, len(f))
		copy(row, f)
		out[i] = row
	}
	return out
}

// FramesFromStrings 把 [][]string 转换为帧序列
func FramesFromStrings(rows [][]string) []Frame {
	frames := make([]Frame, len(rows))
	for i, row := range rows {
		f := make(Frame, len(row))
		copy(f, row)
		frames[i] = f
	}
	return frames
}
