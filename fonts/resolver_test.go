package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/captionate/markup"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	lib := NewLibrary(Options{Table: EmbeddedTable(Families...), SystemFontDirs: []string{}})
	r := lib.NewResolver(Montserrat)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestMeasureScalesWithSize(t *testing.T) {
	r := newTestResolver(t)
	small, err := r.Measure("Hello", markup.Plain, 20)
	require.NoError(t, err)
	big, err := r.Measure("Hello", markup.Plain, 40)
	require.NoError(t, err)

	assert.Greater(t, small.Width, 0.0)
	assert.InDelta(t, 2*small.Width, big.Width, 1.0)
	assert.Greater(t, big.Ascent, small.Ascent)
	assert.Greater(t, small.Descent, 0)
	// 墨迹在基线之上
	assert.Less(t, small.Ink.Min.Y, 0)
	assert.LessOrEqual(t, -small.Ink.Min.Y, small.Ascent)
}

func TestMeasureStyles(t *testing.T) {
	r := newTestResolver(t)
	plain, err := r.Measure("Hello world", markup.Plain, 30)
	require.NoError(t, err)
	bold, err := r.Measure("Hello world", markup.Bold, 30)
	require.NoError(t, err)
	under, err := r.Measure("Hello world", markup.Underline, 30)
	require.NoError(t, err)

	assert.NotEqual(t, plain.Width, bold.Width)
	assert.Equal(t, plain, under)
}

func TestMeasureEmptyText(t *testing.T) {
	r := newTestResolver(t)
	m, err := r.Measure("", markup.Plain, 24)
	require.NoError(t, err)
	assert.Zero(t, m.Width)
	assert.Greater(t, m.Ascent+m.Descent, 0)
	assert.True(t, m.Ink.Empty())
}

func TestFaceCache(t *testing.T) {
	r := newTestResolver(t)
	a, err := r.Face(markup.Italic, 18)
	require.NoError(t, err)
	b, err := r.Face(markup.Italic|markup.Underline, 18)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 18, a.Size)
	assert.Equal(t, "embed:go-italic", a.Source.Label)

	_, err = r.Face(markup.Plain, 0)
	require.Error(t, err)
}

func TestBuiltinBitmapMetrics(t *testing.T) {
	lib := NewLibrary(Options{Table: Table{}, SystemFontDirs: []string{}})
	r := lib.NewResolver(Montserrat)
	m, err := r.Measure("abc", markup.Bold, 50)
	require.NoError(t, err)
	// 位图字体固定 7×13，与字号无关
	assert.Equal(t, 21.0, m.Width)
	assert.Equal(t, 11, m.Ascent)
	assert.Equal(t, 2, m.Descent)

	f, err := r.Face(markup.Plain, 50)
	require.NoError(t, err)
	assert.True(t, f.Source.Bitmap())
}
