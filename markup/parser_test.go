package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/captionate/markup"
)

func runs(rs ...markup.Run) markup.Line { return markup.Line{Runs: rs} }

func TestParseStylesAndBreaks(t *testing.T) {
	lines := markup.Parse("<b>Hi</b> there<br>again")
	require.Len(t, lines, 2)
	assert.Equal(t, runs(
		markup.Run{Text: "Hi", Style: markup.Bold},
		markup.Run{Text: " there", Style: markup.Plain},
	), lines[0])
	assert.Equal(t, runs(markup.Run{Text: "again"}), lines[1])
}

func TestParseNestedStyles(t *testing.T) {
	lines := markup.Parse("<b>a<i>b<u>c</u></i>d</b>e")
	require.Len(t, lines, 1)
	assert.Equal(t, runs(
		markup.Run{Text: "a", Style: markup.Bold},
		markup.Run{Text: "b", Style: markup.Bold | markup.Italic},
		markup.Run{Text: "c", Style: markup.Bold | markup.Italic | markup.Underline},
		markup.Run{Text: "d", Style: markup.Bold},
		markup.Run{Text: "e", Style: markup.Plain},
	), lines[0])
}

// 内层重复的 <b> 关闭时不能移除外层 <b> 添加的样式。
func TestParseRepeatedTagKeepsOuterStyle(t *testing.T) {
	lines := markup.Parse("<b>x<b>y</b>z</b>")
	require.Len(t, lines, 1)
	assert.Equal(t, runs(markup.Run{Text: "xyz", Style: markup.Bold}), lines[0])
}

func TestParseUnknownTagsAreTransparent(t *testing.T) {
	lines := markup.Parse(`<span class="x">a<b>b</b></span><font>c</font>`)
	require.Len(t, lines, 1)
	assert.Equal(t, runs(
		markup.Run{Text: "a"},
		markup.Run{Text: "b", Style: markup.Bold},
		markup.Run{Text: "c"},
	), lines[0])
}

func TestParseDecodesEntities(t *testing.T) {
	lines := markup.Parse("Tom &amp; Jerry&nbsp;&eacute;")
	require.Len(t, lines, 1)
	assert.Equal(t, "Tom & Jerry\u00a0é", lines[0].String())

	// 预解码之后实体形式的标签会被当作真正的标签
	lines = markup.Parse("&lt;b&gt;bold&lt;/b&gt;")
	require.Len(t, lines, 1)
	assert.Equal(t, runs(markup.Run{Text: "bold", Style: markup.Bold}), lines[0])
}

func TestParseBreaks(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"self closing", "a<br/>b", []string{"a", "b"}},
		{"consecutive", "a<br><br>b", []string{"a", "", "b"}},
		{"leading", "<br>a", []string{"", "a"}},
		{"trailing dropped once", "a<br>", []string{"a"}},
		{"double trailing keeps one", "a<br><br>", []string{"a", ""}},
		{"uppercase", "a<BR>b", []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := markup.Parse(tc.input)
			got := make([]string, len(lines))
			for i, l := range lines {
				got[i] = l.String()
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNoRenderableText(t *testing.T) {
	for _, input := range []string{"", "   ", "<br>", "<b> </b><br>\t", "<i></i>"} {
		lines := markup.Parse(input)
		require.Len(t, lines, 1, "input %q", input)
		assert.True(t, lines[0].Empty(), "input %q", input)
		assert.False(t, markup.HasText(lines))
	}
}

func TestParseMalformedNeverFails(t *testing.T) {
	lines := markup.Parse("a < b and 3<4 </x> <b>open")
	require.Len(t, lines, 1)
	assert.Equal(t, "a < b and 3<4  open", lines[0].String())
	last := lines[0].Runs[len(lines[0].Runs)-1]
	assert.Equal(t, markup.Bold, last.Style)
}

func TestParseMismatchedCloseUnwinds(t *testing.T) {
	// </b> 关闭 <b> 以及其后打开的 <i>
	lines := markup.Parse("<b>a<i>b</b>c")
	require.Len(t, lines, 1)
	assert.Equal(t, runs(
		markup.Run{Text: "a", Style: markup.Bold},
		markup.Run{Text: "b", Style: markup.Bold | markup.Italic},
		markup.Run{Text: "c"},
	), lines[0])
}

func TestParseTreeKinds(t *testing.T) {
	root := markup.ParseTree("<u>x</u><br><em>y</em>")
	require.Len(t, root.Children, 3)
	assert.Equal(t, markup.KindUnderline, root.Children[0].Kind)
	assert.Equal(t, markup.KindBreak, root.Children[1].Kind)
	assert.Equal(t, markup.KindContainer, root.Children[2].Kind)
	assert.Equal(t, "em", root.Children[2].Tag)
}

func TestFormatIsIdempotent(t *testing.T) {
	inputs := []string{
		"<b>Hi</b> there<br>again",
		"<b>a<i>b<u>c</u></i>d</b>e",
		"x<br><br>y<br><br>",
		"<u>one</u> <u>two</u>",
		"a &amp;lt; b &lt;i&gt; 5 &gt; 3",
		"",
		"<i>  spaced   words </i><br><b><br></b>tail",
		"a<b></b>b",
		"<i>x</i><i>y</i><!-- note -->z<span>w</span>",
	}
	for _, in := range inputs {
		first := markup.Parse(in)
		second := markup.Parse(markup.Format(first))
		assert.Equal(t, first, second, "input %q formatted %q", in, markup.Format(first))
	}
}

func TestParseMergesAdjacentRuns(t *testing.T) {
	lines := markup.Parse("a<b></b>b<span>c</span><u></u>d")
	require.Len(t, lines, 1)
	assert.Equal(t, []markup.Run{{Text: "abcd", Style: markup.Plain}}, lines[0].Runs)

	lines = markup.Parse("<i>x</i><i>y</i><b>z</b>")
	assert.Equal(t, []markup.Run{
		{Text: "xy", Style: markup.Italic},
		{Text: "z", Style: markup.Bold},
	}, lines[0].Runs)

	lines = markup.Parse("a<br>b")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0].Runs, 1)
}

func TestStyleString(t *testing.T) {
	assert.Equal(t, "plain", markup.Plain.String())
	assert.Equal(t, "bold|underline", (markup.Bold | markup.Underline).String())
}
