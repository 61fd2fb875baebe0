package markup

import "strings"

// Style 是 {bold, italic, underline} 的集合，以位标记表示。
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Plain 表示没有任何样式。
const Plain Style = 0

// Has 判断 s 是否包含 f 中的全部标记。
func (s Style) Has(f Style) bool { return s&f == f }

// String 以 "bold|italic|underline" 形式输出，空集合输出 "plain"。
func (s Style) String() string {
	if s == Plain {
		return "plain"
	}
	var parts []string
	if s.Has(Bold) {
		parts = append(parts, "bold")
	}
	if s.Has(Italic) {
		parts = append(parts, "italic")
	}
	if s.Has(Underline) {
		parts = append(parts, "underline")
	}
	return strings.Join(parts, "|")
}

// MarshalText 让 Style 在调试 JSON 中可读。
func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Run 是一段样式一致的文本。
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Line 是由显式换行划分出的逻辑行（尚未按宽度折行）。
type Line struct {
	Runs []Run `json:"runs"`
}

// Empty 报告该行是否没有任何文本片段。
func (l Line) Empty() bool { return len(l.Runs) == 0 }

// String 返回该行的纯文本内容。
func (l Line) String() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// HasText 报告 lines 中是否存在非空白文本。
func HasText(lines []Line) bool {
	for _, line := range lines {
		for _, r := range line.Runs {
			if strings.TrimSpace(r.Text) != "" {
				return true
			}
		}
	}
	return false
}
