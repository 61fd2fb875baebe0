package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Artifacts 是一条字幕的三种合成结果。
type Artifacts struct {
	// Background 是原图叠加背景带（不含文字）。
	Background *image.RGBA
	// Text 是字幕带大小的文字层，只有白色文字与下划线。
	Text *image.RGBA
	// Final 是原图叠加“背景带 + 文字层”。
	Final *image.RGBA

	// Anchor 是文字层在原图中的位置。
	Anchor image.Point
}

// Encoded 是 Artifacts 的 PNG 编码结果，三张图均为原图分辨率。
type Encoded struct {
	Background []byte
	Text       []byte
	Final      []byte
}

// Compose 将背景带与文字层合成到 src 的副本上，结果的原点为 (0,0)。src 与 ov 都不会被修改。
// text 为 nil 时视为全透明文字层。
func Compose(src image.Image, ov *Overlay, text *image.RGBA) *Artifacts {
	band := ov.Image.Bounds()
	if text == nil {
		text = image.NewRGBA(band)
	}
	at := image.Pt(0, ov.Top)

	background := copyRGBA(src)
	draw.Draw(background, band.Add(at), ov.Image, image.Point{}, draw.Over)

	layer := image.NewRGBA(band)
	draw.Draw(layer, band, ov.Image, image.Point{}, draw.Src)
	draw.Draw(layer, band, text, text.Bounds().Min, draw.Over)
	final := copyRGBA(src)
	draw.Draw(final, band.Add(at), layer, image.Point{}, draw.Over)

	return &Artifacts{
		Background: background,
		Text:       text,
		Final:      final,
		Anchor:     at,
	}
}

// TextFrame 把文字层放到原图大小的透明画面中，位置与背景带一致。
func (a *Artifacts) TextFrame() *image.RGBA {
	frame := image.NewRGBA(a.Final.Bounds())
	r := a.Text.Bounds().Sub(a.Text.Bounds().Min).Add(a.Anchor)
	draw.Draw(frame, r, a.Text, a.Text.Bounds().Min, draw.Src)
	return frame
}

// Encode 把三种结果编码为 PNG。
func (a *Artifacts) Encode() (*Encoded, error) {
	var out Encoded
	var err error
	if out.Background, err = encodePNG(a.Background); err != nil {
		return nil, fmt.Errorf("编码背景图失败: %w", err)
	}
	if out.Text, err = encodePNG(a.TextFrame()); err != nil {
		return nil, fmt.Errorf("编码文字层失败: %w", err)
	}
	if out.Final, err = encodePNG(a.Final); err != nil {
		return nil, fmt.Errorf("编码合成图失败: %w", err)
	}
	return &out, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func copyRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
