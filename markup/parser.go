// Package markup 把字幕标记（b/i/u/br 与纯文本）解析为带样式的逻辑行。
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind 标识标记树中节点的类型。
type Kind int

const (
	KindContainer Kind = iota // 根节点或无法识别的标签，只处理子节点
	KindText
	KindBold
	KindItalic
	KindUnderline
	KindBreak
)

// Node 是标记树的节点。Text 只对 KindText 有意义，Tag 记录原始标签名。
type Node struct {
	Kind     Kind
	Tag      string
	Text     string
	Children []*Node
}

func (k Kind) style() Style {
	switch k {
	case KindBold:
		return Bold
	case KindItalic:
		return Italic
	case KindUnderline:
		return Underline
	default:
		return Plain
	}
}

func kindOf(tag string) Kind {
	switch tag {
	case "b":
		return KindBold
	case "i":
		return KindItalic
	case "u":
		return KindUnderline
	case "br":
		return KindBreak
	default:
		return KindContainer
	}
}

// voidElements 不会包含子节点，即使没有写成自闭合形式。
var voidElements = map[string]bool{
	"area": true, "base": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// Parse 解析字幕标记，返回逻辑行。
//
// 解析从不失败：无法识别的标签透明处理，残缺的标签按 tokenizer 规则退化为文本。
// 若结果中没有任何非空白文本，返回仅含一个空行的切片作为“无可渲染文本”的哨兵。
func Parse(s string) []Line {
	lines := Lines(ParseTree(s))
	if len(lines) > 1 && lines[len(lines)-1].Empty() {
		lines = lines[:len(lines)-1]
	}
	if !HasText(lines) {
		return []Line{{}}
	}
	return lines
}

// ParseTree 先解码 HTML 实体，再把标记构造成节点树。
//
// 结束标签会关闭最近一个同名的打开节点（连同其后打开的节点）；没有匹配的结束标签被忽略，
// 未关闭的标签延续到输入末尾。
func ParseTree(s string) *Node {
	root := &Node{Kind: KindContainer}
	stack := []*Node{root}
	z := html.NewTokenizer(strings.NewReader(html.UnescapeString(s)))
	for {
		tt := z.Next()
		top := stack[len(stack)-1]
		switch tt {
		case html.ErrorToken:
			// io.EOF 或读取错误，二者都意味着输入结束
			return root
		case html.TextToken:
			if text := string(z.Text()); text != "" {
				top.Children = append(top.Children, &Node{Kind: KindText, Text: text})
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			node := &Node{Kind: kindOf(tag), Tag: tag}
			top.Children = append(top.Children, node)
			if node.Kind == KindBreak || tt == html.SelfClosingTagToken || voidElements[tag] {
				continue
			}
			stack = append(stack, node)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tag {
					stack = stack[:i]
					break
				}
			}
		default:
			// 注释、doctype 不参与渲染
		}
	}
}

// Lines 对节点树做递归下降，把当前样式作为值向下传递。每个 Run 都是样式相同的最长片段。
func Lines(root *Node) []Line {
	w := &walker{lines: []Line{{}}}
	if root != nil {
		w.walk(root, Plain)
	}
	return w.lines
}

type walker struct {
	lines []Line
}

func (w *walker) walk(n *Node, active Style) {
	switch n.Kind {
	case KindText:
		cur := &w.lines[len(w.lines)-1]
		// 同一行中相邻且样式相同的文本合并为一个 Run
		if k := len(cur.Runs); k > 0 && cur.Runs[k-1].Style == active {
			cur.Runs[k-1].Text += n.Text
			return
		}
		cur.Runs = append(cur.Runs, Run{Text: n.Text, Style: active})
		return
	case KindBreak:
		w.lines = append(w.lines, Line{})
		return
	}
	active |= n.Kind.style()
	for _, child := range n.Children {
		w.walk(child, active)
	}
}
