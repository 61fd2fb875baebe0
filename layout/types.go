package layout

// 该文件定义排版结果，供试排、渲染与调试 JSON 共用。

import (
	"image"
	"strings"

	"github.com/ByLCY/captionate/markup"
)

// Unit 是折行的最小单位：一个单词或一段连续空白。单位内部从不拆分。
type Unit struct {
	Text  string       `json:"text"`
	Style markup.Style `json:"style"`
}

// Space 报告该单位是否只由空白组成。
func (u Unit) Space() bool { return isSpace(u.Text) }

// Metrics 是某个字号下一段文本的度量，单位为像素。
// Ink 是墨迹包围盒，坐标相对于该段文本的基线原点（y 轴向下）。
type Metrics struct {
	Width   float64         `json:"width"`
	Ascent  int             `json:"ascent"`
	Descent int             `json:"descent"`
	Ink     image.Rectangle `json:"ink"`
}

// Segment 是绑定到具体字号并完成度量的 Unit。
type Segment struct {
	Unit
	Metrics
	Size int `json:"size"`
}

// RenderLine 是折行后共享同一条基线的一行。
// Blank 表示由空逻辑行产生的占位行：没有片段，但仍按默认样式字体占用高度。
type RenderLine struct {
	Segments  []Segment `json:"segments,omitempty"`
	Width     float64   `json:"width"`
	Height    int       `json:"height"`
	MaxAscent int       `json:"maxAscent"`
	Blank     bool      `json:"blank,omitempty"`
}

// Text 返回该行的纯文本。
func (l RenderLine) Text() string {
	var b strings.Builder
	for _, seg := range l.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Plan 是最终选定的排版方案，渲染阶段只读。
// Size 为 0 表示没有任何字号能放下文本，调用方应当只绘制背景。
type Plan struct {
	Size   int          `json:"size"`
	Lines  []RenderLine `json:"lines"`
	Height int          `json:"height"`
}

// Empty 报告方案是否不绘制任何文本。
func (p *Plan) Empty() bool { return p == nil || p.Size == 0 }
