package renderer

import (
	"image"
	"math"

	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/markup"
)

// Placed 是一个已确定位置的片段，坐标相对于字幕带左上角，y 轴向下。
type Placed struct {
	layout.Segment
	X        float64
	Top      int
	Baseline int
	// Underline 为 1 像素高的下划线区域，未加下划线时为空矩形。
	Underline image.Rectangle
}

// Place 计算各片段在字幕带中的位置。
//
// 文本块整体在上下边距之间垂直居中（总高不小于可用高度时贴顶）；
// 每行在左右边距之间水平居中，但不会越过左边距；
// 同一行的片段底部对齐到共同基线；下划线位于基线下方 2 像素。
func Place(plan *layout.Plan, box layout.Box) []Placed {
	if plan.Empty() {
		return nil
	}

	available := box.Available()
	y := box.MarginTop
	// Height 含空行占位，空行与文字行一样参与垂直居中，而不是只按文字行居中后再把空行向下推
	if plan.Height > 0 && plan.Height < available {
		y += (available - plan.Height) / 2
	}

	marginX := float64(box.MarginX)
	usable := float64(box.UsableWidth())
	var out []Placed
	for _, line := range plan.Lines {
		if line.Blank {
			y += line.Height
			continue
		}
		x := math.Max(marginX, marginX+math.Floor((usable-line.Width)/2))
		for _, seg := range line.Segments {
			p := Placed{
				Segment: seg,
				X:       x,
				Top:     y + line.MaxAscent - seg.Ascent,
			}
			p.Baseline = p.Top + seg.Ascent
			if seg.Style.Has(markup.Underline) {
				x0 := int(math.RoundToEven(x))
				x1 := int(math.RoundToEven(x + seg.Width))
				p.Underline = image.Rect(x0, p.Baseline+2, x1, p.Baseline+3)
			}
			out = append(out, p)
			x += seg.Width
		}
		y += line.Height
	}
	return out
}
