// Package renderer 定义字幕文字层的绘制后端，并提供各后端共用的摆放几何。
package renderer

import (
	"image"

	"github.com/ByLCY/captionate/layout"
)

// Renderer 把排版方案绘制为字幕带大小的透明图层：文字与下划线为白色，其余像素全透明。
// 方案为空（Size 为 0）时返回全透明图层。
type Renderer interface {
	Render(plan *layout.Plan, box layout.Box) (*image.RGBA, error)
}

// NewLayer 返回 box 大小的全透明图层。
func NewLayer(box layout.Box) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, max(box.Width, 0), max(box.Height, 0)))
}
