package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandSpecResolve(t *testing.T) {
	spec := BandSpec{Height: 0.4, MarginX: 10, MarginTop: 10, MarginBottom: 10}
	box := spec.Resolve(1000, 500)
	assert.Equal(t, Box{Width: 1000, Height: 200, MarginX: 50, MarginTop: 20, MarginBottom: 20}, box)
	assert.Equal(t, 900, box.UsableWidth())
	assert.Equal(t, 160, box.Available())
}

// 百分比换算向零截断。
func TestBandSpecTruncates(t *testing.T) {
	spec := BandSpec{Height: 0.333, MarginX: 5, MarginTop: 40, MarginBottom: 40}
	box := spec.Resolve(333, 101)
	assert.Equal(t, 33, box.Height)
	assert.Equal(t, 8, box.MarginX)
	assert.Equal(t, 13, box.MarginTop)
	assert.Equal(t, 13, box.MarginBottom)
}

func TestBoxCeiling(t *testing.T) {
	assert.Equal(t, 100, Box{Width: 400, Height: 100}.Ceiling())
	assert.Equal(t, 200, Box{Width: 4000, Height: 1000}.Ceiling())
	assert.Equal(t, 1, Box{Width: 0, Height: 0}.Ceiling())
}
