// Package caption 把一张图片与一批字幕标记处理为每条字幕的三种合成结果。
package caption

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/captionate/colorspec"
	"github.com/ByLCY/captionate/fonts"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/overlay"
)

// ErrInvalidRequest 表示请求参数不合法，整批请求在任何字幕处理之前失败。
var ErrInvalidRequest = errors.New("caption: 请求参数不合法")

// Request 是一次批量字幕请求。字段名与 JSON/YAML 键保持与外部协议一致。
type Request struct {
	Texts                []string `yaml:"text" json:"text"`
	FontFamily           string   `yaml:"font_family" json:"font_family"`
	TextPosition         string   `yaml:"text_position" json:"text_position"`
	BackgroundHeight     float64  `yaml:"background_height" json:"background_height"`
	BackgroundColor      string   `yaml:"background_color" json:"background_color"`
	MarginHorizontal     int      `yaml:"margin_horizontal" json:"margin_horizontal"`
	MarginTop            int      `yaml:"margin_top" json:"margin_top"`
	MarginBottom         int      `yaml:"margin_bottom" json:"margin_bottom"`
	TransitionProportion float64  `yaml:"transition_proportion" json:"transition_proportion"`
}

// DefaultRequest 返回各字段的默认值（不含字幕文本）。
func DefaultRequest() Request {
	return Request{
		FontFamily:           fonts.DefaultFamily,
		TextPosition:         string(overlay.AnchorBottom),
		BackgroundHeight:     0.4,
		BackgroundColor:      "rgba(0, 0, 0, 180)",
		MarginHorizontal:     10,
		MarginTop:            10,
		MarginBottom:         10,
		TransitionProportion: 0.2,
	}
}

// Validate 检查所有字段，返回的错误包装 ErrInvalidRequest 并列出全部问题。
// 背景色格式错误不算非法：渲染时会退回默认颜色。
func (r Request) Validate() error {
	var problems []string
	if !fonts.IsFamily(r.FontFamily) {
		problems = append(problems, fmt.Sprintf("font_family 必须是 %s 之一，实际 %q", strings.Join(fonts.Families, "、"), r.FontFamily))
	}
	if _, err := overlay.ParseAnchor(r.TextPosition); err != nil {
		problems = append(problems, "text_position: "+err.Error())
	}
	if !(r.BackgroundHeight >= 0 && r.BackgroundHeight <= 1) {
		problems = append(problems, fmt.Sprintf("background_height 必须在 [0,1] 内，实际 %v", r.BackgroundHeight))
	}
	if !(r.TransitionProportion >= 0 && r.TransitionProportion <= 1) {
		problems = append(problems, fmt.Sprintf("transition_proportion 必须在 [0,1] 内，实际 %v", r.TransitionProportion))
	}
	margins := []struct {
		name string
		v    int
	}{
		{"margin_horizontal", r.MarginHorizontal},
		{"margin_top", r.MarginTop},
		{"margin_bottom", r.MarginBottom},
	}
	for _, m := range margins {
		if m.v < 0 {
			problems = append(problems, fmt.Sprintf("%s 不能为负数，实际 %d", m.name, m.v))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
}

// Band 返回字幕带的相对尺寸。
func (r Request) Band() layout.BandSpec {
	return layout.BandSpec{
		Height:       layout.Fraction(r.BackgroundHeight),
		MarginX:      layout.Percent(r.MarginHorizontal),
		MarginTop:    layout.Percent(r.MarginTop),
		MarginBottom: layout.Percent(r.MarginBottom),
	}
}

// OverlayParams 返回构建背景带的参数，背景色解析失败时使用 colorspec.Fallback。
// 调用前应先通过 Validate。
func (r Request) OverlayParams() overlay.Params {
	return overlay.Params{
		BackgroundHeight:     layout.Fraction(r.BackgroundHeight),
		Color:                colorspec.Parse(r.BackgroundColor),
		TransitionProportion: layout.Fraction(r.TransitionProportion),
		Anchor:               overlay.Anchor(r.TextPosition),
	}
}
