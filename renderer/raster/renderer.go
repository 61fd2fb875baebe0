// Package raster 使用 x/image 的 font.Drawer 逐字形绘制文字层，像素结果与度量完全一致。
package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/captionate/fonts"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/renderer"
)

var _ renderer.Renderer = (*Renderer)(nil)

// Renderer 使用度量时同一个 Resolver 中的字体绘制，因此与试排结果逐像素对应。
// 与 Resolver 一样不能跨 goroutine 共享。
type Renderer struct {
	faces *fonts.Resolver
}

// New 创建栅格渲染器。
func New(faces *fonts.Resolver) *Renderer {
	return &Renderer{faces: faces}
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(plan *layout.Plan, box layout.Box) (*image.RGBA, error) {
	dst := renderer.NewLayer(box)
	for _, p := range renderer.Place(plan, box) {
		if !p.Space() {
			face, err := r.faces.Face(p.Style, p.Size)
			if err != nil {
				return nil, fmt.Errorf("绘制 %q 失败: %w", p.Text, err)
			}
			d := font.Drawer{
				Dst:  dst,
				Src:  image.White,
				Face: face,
				Dot: fixed.Point26_6{
					X: fixed.Int26_6(math.Round(p.X * 64)),
					Y: fixed.I(p.Baseline),
				},
			}
			d.DrawString(p.Text)
		}
		if !p.Underline.Empty() {
			draw.Draw(dst, p.Underline.Intersect(dst.Bounds()), image.White, image.Point{}, draw.Over)
		}
	}
	return dst, nil
}
