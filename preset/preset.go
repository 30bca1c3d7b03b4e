package preset

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"pixels/animation"
	"pixels/define"
)

//go:embed presets.yaml
var builtinYAML []byte

// entry 预设在 YAML 中的描述形式
type entry struct {
	Description string       `yaml:"description"`
	GridSize    int          `yaml:"grid_size"`
	Speed       float64      `yaml:"speed"`
	Color       define.Color `yaml:"color"`
	Frames      [][]int      `yaml:"frames"`
}

// Preset 展开后的预设动画
type Preset struct {
	Name        string
	Description string
	GridSize    int
	Speed       float64
	Frames      []animation.Frame
}

// Catalog 预设动画目录
type Catalog struct{ presets map[string]Preset }

// Builtin 解析内嵌的预设目录
func Builtin() (*Catalog, error) { return Parse(builtinYAML) }

// MustBuiltin 内嵌数据损坏属于编程错误
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse 从 YAML 数据构建目录
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析预设失败：%w", err)
	}

	c := &Catalog{presets: make(map[string]Preset, len(raw))}
	for name, s := range raw {
		p, err := s.expand(name)
		if err != nil {
			return nil, err
		}
		c.presets[name] = p
	}
	return c, nil
}

func (s entry) expand(name string) (Preset, error) {
	if s.GridSize < 1 {
		return Preset{}, fmt.Errorf("预设 %s 的网格尺寸无效：%d", name, s.GridSize)
	}
	if s.Speed <= 0 {
		return Preset{}, fmt.Errorf("预设 %s 的速度无效：%v", name, s.Speed)
	}
	if !define.IsValidColor(s.Color) {
		return Preset{}, fmt.Errorf("预设 %s 的颜色无效：%q", name, s.Color)
	}

	cells := s.GridSize * s.GridSize
	frames := make([]animation.Frame, 0, len(s.Frames))
	for _, lit := range s.Frames {
		f := animation.NewBlankFrame(s.GridSize)
		for _, i := range lit {
			// 超出网格的索引直接丢弃
			if i >= 0 && i < cells {
				f[i] = s.Color
			}
		}
		frames = append(frames, f)
	}
	if err := animation.ValidateFrames(s.GridSize, frames); err != nil {
		return Preset{}, fmt.Errorf("预设 %s：%w", name, err)
	}

	return Preset{
		Name:        name,
		Description: s.Description,
		GridSize:    s.GridSize,
		Speed:       s.Speed,
		Frames:      frames,
	}, nil
}

// Get 获取指定名称的预设，返回的帧为副本
func (c *Catalog) Get(name string) (Preset, bool) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, false
	}
	frames := make([]animation.Frame, len(p.Frames))
	for i, f := range p.Frames {
		frames[i] = f.Clone()
	}
	p.Frames = frames
	return p, true
}

// Names 获取所有预设名称（已排序）
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description 获取预设描述
func (c *Catalog) Description(name string) string {
	if p, ok := c.presets[name]; ok {
		return p.Description
	}
	return ""
}
