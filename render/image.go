package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/draw"

	"pixels/animation"
	"pixels/define"
)

// ParseColor 把颜色令牌转换为 RGBA，无法识别的令牌按黑色处理
func ParseColor(c define.Color) color.RGBA {
	opaqueBlack := color.RGBA{A: 0xff}
	if c == define.ColorBlack || !define.IsValidColor(c) {
		return opaqueBlack
	}
	v, err := strconv.ParseUint(c[1:], 16, 32)
	if err != nil {
		return opaqueBlack
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// FrameImage 按 1 像素/单元格栅格化一帧
func FrameImage(f animation.Frame, gridSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))
	for i, c := range f {
		if i >= gridSize*gridSize {
			break
		}
		img.SetRGBA(i%gridSize, i/gridSize, ParseColor(c))
	}
	return img
}

// ScaledFrameImage 栅格化并以最近邻放大到 gridSize*scale
func ScaledFrameImage(f animation.Frame, gridSize, scale int) *image.RGBA {
	src := FrameImage(f, gridSize)
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, gridSize*scale, gridSize*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WriteFramePNG 把一帧编码为 PNG 写入 w
func WriteFramePNG(w io.Writer, f animation.Frame, gridSize, scale int) error {
	if err := png.Encode(w, ScaledFrameImage(f, gridSize, scale)); err != nil {
		return fmt.Errorf("编码缩略图失败：%w", err)
	}
	return nil
}
