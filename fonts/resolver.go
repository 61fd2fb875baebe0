package fonts

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/markup"
)

var _ layout.Measurer = (*Resolver)(nil)

type faceKey struct {
	style markup.Style
	size  int
}

// Face 是绑定了字号的字体。x/image 的 opentype face 不是并发安全的，只能在所属 worker 内使用。
type Face struct {
	font.Face
	Size    int
	Ascent  int
	Descent int
	Source  *Source
}

// Resolver 按 (样式, 字号) 缓存 Face，并实现 layout.Measurer。
type Resolver struct {
	lib    *Library
	family string
	faces  map[faceKey]*Face
}

// Family 返回该 Resolver 请求的字体族。
func (r *Resolver) Family() string { return r.family }

// Face 返回指定样式与字号的字体，下划线样式与普通样式共用同一个字体。
func (r *Resolver) Face(style markup.Style, size int) (*Face, error) {
	if size < 1 {
		return nil, fmt.Errorf("fonts: 非法字号 %d", size)
	}
	key := faceKey{style: style &^ markup.Underline, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	src, err := r.lib.Resolve(r.family, key.style)
	if err != nil {
		return nil, err
	}

	var ff font.Face
	if src.Bitmap() {
		ff = basicfont.Face7x13
	} else {
		ff, err = opentype.NewFace(src.Font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72, // 72 DPI 下 Size 即像素
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("创建字体 %s@%d 失败: %w", src.Label, size, err)
		}
	}

	m := ff.Metrics()
	f := &Face{
		Face:    ff,
		Size:    size,
		Ascent:  m.Ascent.Ceil(),
		Descent: m.Descent.Ceil(),
		Source:  src,
	}
	r.faces[key] = f
	return f, nil
}

// Measure 实现 layout.Measurer。空串只返回上升/下降部，用作空行占位高度。
func (r *Resolver) Measure(text string, style markup.Style, size int) (layout.Metrics, error) {
	f, err := r.Face(style, size)
	if err != nil {
		return layout.Metrics{}, err
	}
	met := layout.Metrics{Ascent: f.Ascent, Descent: f.Descent}
	if text == "" {
		return met, nil
	}
	bounds, advance := font.BoundString(f, text)
	met.Width = float64(advance) / 64
	met.Ink = inkRect(bounds)
	return met, nil
}

// Close 释放缓存的全部 Face。
func (r *Resolver) Close() error {
	var firstErr error
	for k, f := range r.faces {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.faces, k)
	}
	return firstErr
}

func inkRect(b fixed.Rectangle26_6) image.Rectangle {
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}
