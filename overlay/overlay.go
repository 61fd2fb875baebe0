// Package overlay 构建带渐变过渡的字幕背景带，并把背景、文字层与原图合成为三种输出。
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/logging"
)

// Anchor 指定字幕带贴在图片的顶部还是底部。
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// ParseAnchor 校验并返回 Anchor。
func ParseAnchor(s string) (Anchor, error) {
	switch a := Anchor(s); a {
	case AnchorTop, AnchorBottom:
		return a, nil
	default:
		return "", fmt.Errorf("未知的文字位置 %q（可选 top、bottom）", s)
	}
}

// Params 是构建背景带所需的参数。
type Params struct {
	BackgroundHeight     layout.Fraction // 背景带占图片高度的比例
	Color                color.NRGBA
	TransitionProportion layout.Fraction // 渐变区占背景带高度的比例
	Anchor               Anchor
}

// Overlay 是字幕带大小的半透明背景，构建后只读，可被多个 worker 共享。
type Overlay struct {
	Image  *image.NRGBA
	Anchor Anchor
	// Top 是背景带在原图中的起始行。
	Top int
	// Transition 是渐变区的像素高度。
	Transition int
}

// Bounds 返回背景带在原图坐标系中的区域。
func (o *Overlay) Bounds() image.Rectangle {
	return o.Image.Bounds().Add(image.Pt(0, o.Top))
}

// Build 为 imgW×imgH 的图片构建背景带。
//
// 背景带以 Color 填充；渐变区位于远离图片边缘的一侧，
// 透明度在 Transition 行内从 0 线性过渡到 Color.A。
func Build(imgW, imgH int, p Params) *Overlay {
	band := max(p.BackgroundHeight.Of(imgH), 0)
	o := &Overlay{
		Image:  image.NewNRGBA(image.Rect(0, 0, max(imgW, 0), band)),
		Anchor: p.Anchor,
	}
	if p.Anchor == AnchorBottom {
		o.Top = imgH - band
	}
	if band == 0 || imgW <= 0 {
		return o
	}

	base := p.Color
	fillRows(o.Image, 0, band, base)

	z := int(math.RoundToEven(float64(band) * float64(p.TransitionProportion)))
	z = min(z, band)
	if z <= 0 {
		logging.Logger().Debug("无渐变过渡", "band", band, "transition", z)
		return o
	}
	o.Transition = z
	for i := 0; i < z; i++ {
		// i 为距离渐变区最透明一端的行数
		c := base
		c.A = gradientAlpha(base.A, i, z)
		row := i
		if p.Anchor != AnchorBottom {
			row = band - 1 - i
		}
		fillRows(o.Image, row, row+1, c)
	}
	logging.Logger().Debug("背景带已构建", "width", imgW, "band", band, "transition", z, "anchor", string(p.Anchor))
	return o
}

// gradientAlpha 返回渐变区第 i 行（共 z 行）的透明度，z 为 1 时整行透明。
func gradientAlpha(base uint8, i, z int) uint8 {
	if z == 1 {
		return 0
	}
	f := float64(i) / float64(z-1)
	return uint8(math.RoundToEven(float64(base) * f))
}

func fillRows(img *image.NRGBA, y0, y1 int, c color.NRGBA) {
	w := img.Bounds().Dx()
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = c.R, c.G, c.B, c.A
		}
	}
}
