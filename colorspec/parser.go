// Package colorspec 解析 "rgba(r, g, b, a)" 形式的背景色描述。
package colorspec

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/captionate/logging"
)

// Fallback 是任何解析失败时使用的颜色：半透明黑。
var Fallback = color.NRGBA{R: 0, G: 0, B: 0, A: 180}

var (
	colorLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:e[-+]?\d+)?`},
		{Name: "Ident", Pattern: `[a-z_]+`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	specParser = participle.MustBuild[rgbaSpec](
		participle.Lexer(colorLexer),
		participle.Elide("Whitespace"),
	)
)

// rgbaSpec 是 rgba(...) 的语法树。分量个数在语义阶段检查，便于给出明确的错误。
type rgbaSpec struct {
	Fields []string `parser:"'rgba' '(' @Number ( ',' @Number )* ')'"`
}

// Parse 解析颜色字符串，失败时记录错误并返回 Fallback。
func Parse(s string) color.NRGBA {
	c, err := ParseStrict(s)
	if err != nil {
		logging.Logger().Error("背景色解析失败，使用默认颜色", "input", s, "err", err)
		return Fallback
	}
	return c
}

// ParseStrict 解析颜色字符串并返回错误，不做回退。
//
// R/G/B 四舍五入（银行家舍入）后裁剪到 [0,255]。alpha 的文本若包含小数点且数值位于 [0,1]，
// 视为 0~1 的比例并乘以 255；否则按 0~255 的整数处理。因此 "1" 表示 1/255，而 "1.0" 表示不透明。
func ParseStrict(s string) (color.NRGBA, error) {
	spec, err := specParser.ParseString("", strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色 %q 格式错误: %w", s, err)
	}
	if len(spec.Fields) != 4 {
		return color.NRGBA{}, fmt.Errorf("颜色 %q 需要 4 个分量，实际 %d 个", s, len(spec.Fields))
	}
	var values [4]float64
	for i, field := range spec.Fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色 %q 第 %d 个分量无效: %w", s, i+1, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return color.NRGBA{}, fmt.Errorf("颜色 %q 第 %d 个分量不是有限数值", s, i+1)
		}
		values[i] = v
	}
	return color.NRGBA{
		R: channel(values[0]),
		G: channel(values[1]),
		B: channel(values[2]),
		A: channel(alpha(spec.Fields[3], values[3])),
	}, nil
}

func alpha(raw string, v float64) float64 {
	if strings.Contains(raw, ".") && v >= 0 && v <= 1 {
		if len(raw) > 1 && raw != "0" && raw != "1" {
			return v * 255
		}
	}
	return v
}

func channel(v float64) uint8 {
	v = math.RoundToEven(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
