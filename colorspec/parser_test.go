package colorspec

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"rgba(0,0,0,180)", color.NRGBA{0, 0, 0, 180}},
		{"rgba(10, 20, 30, 0.5)", color.NRGBA{10, 20, 30, 128}},
		{"  RGBA( 255 ,128, 0 , 1.0 ) ", color.NRGBA{255, 128, 0, 255}},
		{"rgba(1,2,3,1)", color.NRGBA{1, 2, 3, 1}},
		{"rgba(1,2,3,0)", color.NRGBA{1, 2, 3, 0}},
		{"rgba(1,2,3,0.0)", color.NRGBA{1, 2, 3, 0}},
		{"rgba(1,2,3,.25)", color.NRGBA{1, 2, 3, 64}},
		{"rgba(300,-5,12.5,500)", color.NRGBA{255, 0, 12, 255}},
		{"rgba(13.5,0,0,2.5)", color.NRGBA{14, 0, 0, 2}},
		{"rgba(0,0,0,1e2)", color.NRGBA{0, 0, 0, 100}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestParseFallback(t *testing.T) {
	for _, in := range []string{
		"rgba(1,2,3)",
		"rgba(1,2,3,4,5)",
		"rgb(1,2,3,4)",
		"1,2,3,4",
		"rgba(1,2,x,4)",
		"rgba(1,,2,3)",
		"rgba(1,2,3,4",
		"#ff0000",
		"",
	} {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, Fallback, Parse(in))
			_, err := ParseStrict(in)
			require.Error(t, err)
		})
	}
}

func TestFallbackValue(t *testing.T) {
	assert.Equal(t, color.NRGBA{0, 0, 0, 180}, Fallback)
}
