// Package fonts 根据字体族与样式解析字体，并提供带降级链的字号缓存。
package fonts

import "github.com/ByLCY/captionate/markup"

// 支持的字体族。
const (
	Montserrat = "Montserrat"
	Nunito     = "Nunito"
	Poppins    = "Poppins"
	Roboto     = "Roboto"
)

// DefaultFamily 是未知字体族以及回退链第 3 步使用的字体族。
const DefaultFamily = Montserrat

// DefaultBaseDir 是默认字体表中相对路径的根目录。
const DefaultBaseDir = "google-fonts"

// Families 按固定顺序列出可选字体族。
var Families = []string{Montserrat, Nunito, Poppins, Roboto}

// Variants 保存一个字体族的四种样式来源（路径或 embed:名称）。
type Variants struct {
	Regular    string `yaml:"regular" json:"regular"`
	Bold       string `yaml:"bold" json:"bold"`
	Italic     string `yaml:"italic" json:"italic"`
	BoldItalic string `yaml:"bold_italic" json:"boldItalic"`
}

// Pick 按样式挑选来源，缺失的样式退回 Regular。下划线不影响字体文件。
func (v Variants) Pick(style markup.Style) string {
	var src string
	switch {
	case style.Has(markup.Bold | markup.Italic):
		src = v.BoldItalic
	case style.Has(markup.Bold):
		src = v.Bold
	case style.Has(markup.Italic):
		src = v.Italic
	}
	if src == "" {
		src = v.Regular
	}
	return src
}

// Table 把字体族名映射到四种样式的来源。
type Table map[string]Variants

// DefaultTable 返回 google-fonts 目录下的默认字体表，路径相对于 DefaultBaseDir。
func DefaultTable() Table {
	return Table{
		Montserrat: staticVariants("Montserrat/static/Montserrat"),
		Nunito:     staticVariants("Nunito/static/Nunito"),
		// Poppins 的静态字体不在 static 子目录下
		Poppins: staticVariants("Poppins/Poppins"),
		Roboto:  staticVariants("Roboto/static/Roboto"),
	}
}

func staticVariants(prefix string) Variants {
	return Variants{
		Regular:    prefix + "-Regular.ttf",
		Bold:       prefix + "-Bold.ttf",
		Italic:     prefix + "-Italic.ttf",
		BoldItalic: prefix + "-BoldItalic.ttf",
	}
}

// IsFamily 报告 name 是否为支持的字体族。
func IsFamily(name string) bool {
	for _, f := range Families {
		if f == name {
			return true
		}
	}
	return false
}
