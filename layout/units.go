package layout

// 该文件负责把请求中的比例与百分比换算为像素，截断规则与 int() 一致。

// Percent 是 0~100 的百分比数值。
type Percent float64

// Of 返回 total 的该百分比，向零截断。
func (p Percent) Of(total int) int { return int(float64(p) / 100 * float64(total)) }

// Fraction 是 0~1 的比例数值。
type Fraction float64

// Of 返回 total 的该比例，向零截断。
func (f Fraction) Of(total int) int { return int(float64(total) * float64(f)) }

// BandSpec 是字幕带的相对尺寸描述。
type BandSpec struct {
	Height       Fraction // 占图片高度的比例
	MarginX      Percent  // 左右边距合计占图片宽度的百分比，每侧一半
	MarginTop    Percent  // 占字幕带高度的百分比
	MarginBottom Percent  // 占字幕带高度的百分比
}

// Resolve 把相对尺寸换算为 imageW×imageH 图片上的像素 Box。
func (s BandSpec) Resolve(imageW, imageH int) Box {
	band := s.Height.Of(imageH)
	return Box{
		Width:        imageW,
		Height:       band,
		MarginX:      int(float64(s.MarginX) / 100 * float64(imageW) / 2),
		MarginTop:    s.MarginTop.Of(band),
		MarginBottom: s.MarginBottom.Of(band),
	}
}
