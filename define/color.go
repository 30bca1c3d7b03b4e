package define

import (
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsValidColor 只接受 "black" 与 "#rrggbb"
func IsValidColor(c Color) bool {
	return c == ColorBlack || hexColor.MatchString(c)
}

// NormalizeColor 统一十六进制颜色为小写
func NormalizeColor(c Color) Color {
	if c == ColorBlack {
		return c
	}
	return strings.ToLower(c)
}
