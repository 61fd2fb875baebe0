package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Format 把逻辑行重新序列化为规范标记，满足 Parse(Format(l)) == l（l 为 Parse 的输出）。
//
// Parse 会解码两次实体（预解码 + tokenizer），所以文本在这里转义两次。
// 末尾空行需要额外一个 <br>，因为 Parse 会丢弃最后一个空行。
func Format(lines []Line) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br>")
		}
		for _, r := range line.Runs {
			writeRun(&b, r)
		}
	}
	if len(lines) > 1 && lines[len(lines)-1].Empty() {
		b.WriteString("<br>")
	}
	return b.String()
}

func writeRun(b *strings.Builder, r Run) {
	if r.Style.Has(Bold) {
		b.WriteString("<b>")
	}
	if r.Style.Has(Italic) {
		b.WriteString("<i>")
	}
	if r.Style.Has(Underline) {
		b.WriteString("<u>")
	}
	b.WriteString(html.EscapeString(html.EscapeString(r.Text)))
	if r.Style.Has(Underline) {
		b.WriteString("</u>")
	}
	if r.Style.Has(Italic) {
		b.WriteString("</i>")
	}
	if r.Style.Has(Bold) {
		b.WriteString("</b>")
	}
}
