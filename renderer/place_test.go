package renderer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/markup"
)

func seg(text string, style markup.Style, width float64, ascent, descent int) layout.Segment {
	return layout.Segment{
		Unit:    layout.Unit{Text: text, Style: style},
		Metrics: layout.Metrics{Width: width, Ascent: ascent, Descent: descent},
		Size:    20,
	}
}

func TestPlaceBaselineAlignment(t *testing.T) {
	line := layout.RenderLine{
		Segments: []layout.Segment{
			seg("Big", markup.Bold, 40, 18, 5),
			seg(" ", markup.Plain, 5, 14, 4),
			seg("small", markup.Plain, 35, 14, 4),
		},
		Width:     80,
		Height:    23,
		MaxAscent: 18,
	}
	plan := &layout.Plan{Size: 20, Lines: []layout.RenderLine{line}, Height: 23}
	box := layout.Box{Width: 200, Height: 100, MarginX: 10, MarginTop: 10, MarginBottom: 10}

	placed := Place(plan, box)
	require.Len(t, placed, 3)

	// (80-23)/2 = 28
	assert.Equal(t, 38, placed[0].Top)
	assert.Equal(t, 38+18-14, placed[2].Top)
	assert.Equal(t, placed[2].Top-placed[0].Top, 18-14)
	for _, p := range placed {
		assert.Equal(t, 56, p.Baseline)
	}

	// 10 + (180-80)/2
	assert.Equal(t, 60.0, placed[0].X)
	assert.Equal(t, 100.0, placed[1].X)
	assert.Equal(t, 105.0, placed[2].X)
}

func TestPlaceUnderlineGap(t *testing.T) {
	line := layout.RenderLine{
		Segments: []layout.Segment{
			seg("one", markup.Underline, 30, 10, 3),
			seg(" ", markup.Plain, 6, 10, 3),
			seg("two", markup.Underline|markup.Bold, 32, 11, 3),
		},
		Width:     68,
		Height:    14,
		MaxAscent: 11,
	}
	plan := &layout.Plan{Size: 12, Lines: []layout.RenderLine{line}, Height: 14}
	box := layout.Box{Width: 100, Height: 40}

	placed := Place(plan, box)
	require.Len(t, placed, 3)
	first, space, second := placed[0], placed[1], placed[2]

	assert.True(t, space.Underline.Empty())
	assert.Equal(t, 1, first.Underline.Dy())
	assert.Equal(t, first.Baseline+2, first.Underline.Min.Y)
	assert.Equal(t, 30, first.Underline.Dx())
	assert.Equal(t, 32, second.Underline.Dx())
	// 两段下划线之间留有空白宽度的间隙
	assert.Equal(t, 6, second.Underline.Min.X-first.Underline.Max.X)
}

func TestPlaceBlankLinesAdvance(t *testing.T) {
	a := layout.RenderLine{Segments: []layout.Segment{seg("a", markup.Plain, 10, 10, 3)}, Width: 10, Height: 13, MaxAscent: 10}
	blank := layout.RenderLine{Height: 13, MaxAscent: 10, Blank: true}
	plan := &layout.Plan{Size: 12, Lines: []layout.RenderLine{a, blank, a}, Height: 39}
	box := layout.Box{Width: 50, Height: 60}

	placed := Place(plan, box)
	require.Len(t, placed, 2)
	// (60-39)/2 = 10
	assert.Equal(t, 10, placed[0].Top)
	assert.Equal(t, 10+26, placed[1].Top)
}

// 末尾空行也计入居中高度，文字行因此上移。
func TestPlaceCentersBlankLinesWithText(t *testing.T) {
	a := layout.RenderLine{Segments: []layout.Segment{seg("a", markup.Plain, 10, 10, 3)}, Width: 10, Height: 13, MaxAscent: 10}
	blank := layout.RenderLine{Height: 13, MaxAscent: 10, Blank: true}
	box := layout.Box{Width: 50, Height: 60}

	placed := Place(&layout.Plan{Size: 12, Lines: []layout.RenderLine{a, blank}, Height: 26}, box)
	require.Len(t, placed, 1)
	// (60-26)/2 = 17，而不是只按文字行计算的 (60-13)/2 = 23
	assert.Equal(t, 17, placed[0].Top)

	placed = Place(&layout.Plan{Size: 12, Lines: []layout.RenderLine{blank, a}, Height: 26}, box)
	require.Len(t, placed, 1)
	assert.Equal(t, 17+13, placed[0].Top)
}

func TestPlaceNeverCrossesLeftMargin(t *testing.T) {
	line := layout.RenderLine{
		Segments: []layout.Segment{seg("ab", markup.Plain, 10, 8, 2), seg("      ", markup.Plain, 200, 8, 2)},
		Width:    210, Height: 10, MaxAscent: 8,
	}
	plan := &layout.Plan{Size: 10, Lines: []layout.RenderLine{line}, Height: 10}
	placed := Place(plan, layout.Box{Width: 100, Height: 30, MarginX: 7})
	require.NotEmpty(t, placed)
	assert.Equal(t, 7.0, placed[0].X)
}

func TestPlaceTallPlanStartsAtTopMargin(t *testing.T) {
	a := layout.RenderLine{Segments: []layout.Segment{seg("a", markup.Plain, 10, 30, 10)}, Width: 10, Height: 40, MaxAscent: 30}
	plan := &layout.Plan{Size: 40, Lines: []layout.RenderLine{a}, Height: 40}
	placed := Place(plan, layout.Box{Width: 100, Height: 40, MarginTop: 5, MarginBottom: 5})
	require.Len(t, placed, 1)
	assert.Equal(t, 5, placed[0].Top)
}

func TestPlaceEmptyPlan(t *testing.T) {
	assert.Nil(t, Place(&layout.Plan{}, layout.Box{Width: 10, Height: 10}))
	assert.Nil(t, Place(nil, layout.Box{Width: 10, Height: 10}))
	assert.Equal(t, image.Rect(0, 0, 10, 5), NewLayer(layout.Box{Width: 10, Height: 5}).Bounds())
}
