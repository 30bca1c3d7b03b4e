package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"pixels/animation"
	"pixels/define"
)

// ContentType 导出文件的 MIME 类型
const ContentType = "application/json; charset=utf-8"

// Document 导出/导入文件格式
type Document struct {
	GridSize int        `json:"gridSize"`
	Frames   [][]string `json:"frames"`
	Speed    float64    `json:"speed"`
}

// importDocument 用指针区分字段缺失与零值
type importDocument struct {
	GridSize *int       `json:"gridSize"`
	Frames   [][]string `json:"frames"`
	Speed    *float64   `json:"speed"`
}

// Export 把快照序列化为 JSON
func Export(snap animation.Snapshot) ([]byte, error) {
	data, err := json.Marshal(Document{
		GridSize: snap.GridSize,
		Frames:   snap.FrameStrings(),
		Speed:    snap.PlaybackRate,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化动画失败：%w", err)
	}
	return data, nil
}

// ExportFilename 基于时间戳的下载文件名
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("pixel_animation_%d.json", t.UnixMilli())
}

// Import 解析上传的动画文件。JSON 非法返回 ParseError；
// 缺少 frames/gridSize、网格超过上限、帧长度不等于 gridSize² 或颜色非法返回 ValidationError。
// 十六进制颜色统一转为小写。
func Import(blob []byte) (Document, error) {
	var raw importDocument
	if err := json.Unmarshal(bytes.TrimSpace(blob), &raw); err != nil {
		return Document{}, &define.ParseError{Err: err}
	}

	if raw.GridSize == nil || *raw.GridSize == 0 || len(raw.Frames) == 0 {
		return Document{}, define.NewValidationError("动画文件格式无效：缺少 frames 或 gridSize")
	}

	doc := Document{GridSize: *raw.GridSize, Frames: raw.Frames}
	if raw.Speed != nil && *raw.Speed > 0 {
		doc.Speed = *raw.Speed
	}

	if err := animation.ValidateFrames(doc.GridSize, animation.FramesFromStrings(doc.Frames)); err != nil {
		return Document{}, err
	}
	for i, row := range doc.Frames {
		for j, c := range row {
			if !define.IsValidColor(c) {
				return Document{}, define.NewValidationError("第 %d 帧第 %d 个单元格颜色无效：%q", i, j, c)
			}
			row[j] = define.NormalizeColor(c)
		}
	}
	return doc, nil
}

// Apply 把导入的文档原子地安装到模型中，当前帧重置为 0；文件未携带速度时保留当前速度
func Apply(m *animation.Model, doc Document) error {
	return m.ReplaceAllWithRate(doc.GridSize, animation.FramesFromStrings(doc.Frames), 0, doc.Speed)
}
