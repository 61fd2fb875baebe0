package layout_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/captionate/fonts"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/markup"
)

// 真实字体的度量带字距与 26.6 取整，字号结果仍应随字幕带单调变化。
func TestFitMonotonicWithEmbeddedFonts(t *testing.T) {
	lib := fonts.NewLibrary(fonts.Options{Table: fonts.EmbeddedTable(fonts.Families...), SystemFontDirs: []string{}})
	faces := lib.NewResolver(fonts.Montserrat)
	defer faces.Close()

	lines := markup.Parse("The <b>retina</b> contains <u>120 million rods</u><br>and <i>6 million cones</i>. AVAWAY To")
	prev := math.MaxInt
	for w := 640; w >= 40; w -= 24 {
		plan, err := layout.Fit(lines, layout.Box{Width: w, Height: 160, MarginX: 5, MarginTop: 4, MarginBottom: 4}, faces)
		require.NoError(t, err)
		assert.LessOrEqual(t, plan.Size, prev, "width %d", w)
		prev = plan.Size
	}
	require.Greater(t, prev, 0)

	prev = math.MaxInt
	for h := 300; h >= 10; h -= 10 {
		plan, err := layout.Fit(lines, layout.Box{Width: 320, Height: h, MarginX: 5}, faces)
		require.NoError(t, err)
		assert.LessOrEqual(t, plan.Size, prev, "height %d", h)
		prev = plan.Size
	}
}
