package timeline

import (
	"fmt"

	"pixels/animation"
	"pixels/define"
)

// Thumbnail 时间轴上的一帧缩略图
type Thumbnail struct {
	Index    int            `json:"index"`
	Active   bool           `json:"active"`
	Cells    []define.Color `json:"cells"`
	ImageURL string         `json:"imageUrl,omitempty"`
}

// Strip 时间轴投影，顺序与模型中的帧顺序一致
type Strip struct {
	Frames      []Thumbnail `json:"frames"`
	ActiveFrame int         `json:"activeFrame"`
	Total       int         `json:"total"`
}

// Frames 时间轴操作的目标，*animation.Model 实现了它
type Frames interface {
	SetActiveFrame(index int) bool
	DeleteFrame(index int) error
	Snapshot() animation.Snapshot
}

// Controller 处理时间轴上的选择与删除，每次修改后整体重建
type Controller struct {
	frames Frames
	// ThumbnailURL 为空时不生成缩略图地址
	ThumbnailURL func(index int) string
}

// NewController 创建时间轴控制器
func NewController(frames Frames) *Controller {
	return &Controller{frames: frames}
}

// Build 根据快照完整重建时间轴
func (c *Controller) Build(s animation.Snapshot) Strip {
	thumbs := make([]Thumbnail, len(s.Frames))
	for i, f := range s.Frames {
		cells := make([]define.Color, len(f))
		copy(cells, f)
		thumbs[i] = Thumbnail{
			Index:  i,
			Active: i == s.ActiveFrameIndex,
			Cells:  cells,
		}
		if c.ThumbnailURL != nil {
			thumbs[i].ImageURL = c.ThumbnailURL(i)
		}
	}
	return Strip{
		Frames:      thumbs,
		ActiveFrame: s.ActiveFrameIndex,
		Total:       len(thumbs),
	}
}

// Strip 基于模型当前状态的时间轴
func (c *Controller) Strip() Strip { return c.Build(c.frames.Snapshot()) }

// Select 点击缩略图：切换当前帧
func (c *Controller) Select(index int) (Strip, error) {
	if !c.frames.SetActiveFrame(index) {
		return Strip{}, define.NewValidationError("帧 %d 不存在", index)
	}
	return c.Strip(), nil
}

// Delete 点击缩略图上的删除按钮：只删除，不会同时触发选择
func (c *Controller) Delete(index int) (Strip, error) {
	if err := c.frames.DeleteFrame(index); err != nil {
		return Strip{}, fmt.Errorf("删除帧 %d 失败：%w", index, err)
	}
	return c.Strip(), nil
}
