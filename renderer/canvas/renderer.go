// Package canvasrenderer 通过 github.com/tdewolff/canvas 以矢量方式绘制文字层，
// 再按每毫米 1 像素栅格化。字形轮廓与 raster 后端不保证逐像素一致，摆放几何相同。
package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/captionate/fonts"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/renderer"
)

// ptPerPx 把像素字号换算为 canvas 使用的 pt：画布单位为 mm，栅格化时 1mm 即 1px。
const ptPerPx = 72 / 25.4

const fallbackLabel = "embed:go-regular"

var _ renderer.Renderer = (*Renderer)(nil)

// Renderer draws plans via github.com/tdewolff/canvas.
type Renderer struct {
	faces *fonts.Resolver

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily // by source label
}

// New 创建 canvas 渲染器。字体来源沿用 Resolver 的回退链结果，位图字体改用内置 Go 字体。
func New(faces *fonts.Resolver) *Renderer {
	return &Renderer{
		faces:        faces,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(plan *layout.Plan, box layout.Box) (*image.RGBA, error) {
	placed := renderer.Place(plan, box)
	if len(placed) == 0 || box.Width <= 0 || box.Height <= 0 {
		return renderer.NewLayer(box), nil
	}

	c := canvas.New(float64(box.Width), float64(box.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与摆放几何一致

	for _, p := range placed {
		if !p.Space() {
			face, err := r.fontFace(p)
			if err != nil {
				return nil, err
			}
			ctx.DrawText(p.X, float64(p.Baseline), canvas.NewTextLine(face, p.Text, canvas.Left))
		}
		if !p.Underline.Empty() {
			u := p.Underline
			ctx.SetFillColor(color.White)
			ctx.SetStrokeColor(color.RGBA{})
			ctx.DrawPath(float64(u.Min.X), float64(u.Min.Y), canvas.Rectangle(float64(u.Dx()), float64(u.Dy())))
		}
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	if img.Bounds().Dx() != box.Width || img.Bounds().Dy() != box.Height {
		// 栅格化尺寸按画布向上取整，这里裁剪回字幕带大小
		out := renderer.NewLayer(box)
		rows := min(box.Height, img.Bounds().Dy())
		for y := 0; y < rows; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+4*box.Width], img.Pix[y*img.Stride:(y+1)*img.Stride])
		}
		return out, nil
	}
	return img, nil
}

func (r *Renderer) fontFace(p renderer.Placed) (*canvas.FontFace, error) {
	f, err := r.faces.Face(p.Style, p.Size)
	if err != nil {
		return nil, fmt.Errorf("绘制 %q 失败: %w", p.Text, err)
	}
	family, err := r.ensureFontFamily(f.Source)
	if err != nil {
		return nil, err
	}
	return family.Face(float64(p.Size)*ptPerPx, color.White, canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFontFamily 每个字体来源对应一个只含 Regular 的字体族：样式已在回退链中选定为具体文件。
func (r *Renderer) ensureFontFamily(src *fonts.Source) (*canvas.FontFamily, error) {
	label, data := src.Label, src.Data
	if src.Bitmap() {
		label, data = fallbackLabel, goregular.TTF
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.fontFamilies[label]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(label)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", label, err)
	}
	r.fontFamilies[label] = family
	return family, nil
}
