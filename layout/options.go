package layout

import "github.com/ByLCY/captionate/markup"

// MaxFontSize 是试排字号的绝对上限。
const MaxFontSize = 200

// Box 描述字幕带的像素尺寸与边距。
type Box struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	MarginX      int `json:"marginX"`
	MarginTop    int `json:"marginTop"`
	MarginBottom int `json:"marginBottom"`
}

// UsableWidth 是去掉左右边距后的可用宽度。
func (b Box) UsableWidth() int { return b.Width - 2*b.MarginX }

// Available 是去掉上下边距后可供文本使用的高度。
func (b Box) Available() int { return b.Height - b.MarginTop - b.MarginBottom }

// Ceiling 是试排的最大字号：min(高, 宽, MaxFontSize)，至少为 1。
func (b Box) Ceiling() int {
	return max(1, min(b.Height, b.Width, MaxFontSize))
}

// Measurer 负责在指定字号与样式下度量文本。
// 对空串的度量返回该样式字体的上升/下降部，用于空行占位。
type Measurer interface {
	Measure(text string, style markup.Style, size int) (Metrics, error)
}
