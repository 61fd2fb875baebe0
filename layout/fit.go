// Package layout 在给定字幕带内寻找能放下文本的最大字号，并生成排版方案。
package layout

import (
	"fmt"
	"unicode"

	"github.com/ByLCY/captionate/logging"
	"github.com/ByLCY/captionate/markup"
)

// SplitUnits 把逻辑行的各个片段按空白边界拆成折行单位，空白本身也成为独立单位。
func SplitUnits(line markup.Line) []Unit {
	var units []Unit
	for _, run := range line.Runs {
		start := 0
		var prevSpace bool
		for i, r := range run.Text {
			sp := unicode.IsSpace(r)
			if i > start && sp != prevSpace {
				units = append(units, Unit{Text: run.Text[start:i], Style: run.Style})
				start = i
			}
			prevSpace = sp
		}
		if start < len(run.Text) {
			units = append(units, Unit{Text: run.Text[start:], Style: run.Style})
		}
	}
	return units
}

func isSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Fit 从 1 开始逐个增大字号试排，返回最后一个能放下的方案。
//
// 一旦某个字号放不下（出现比可用宽度还宽的单词，或总高度不小于可用高度）就停止搜索。
// 若连字号 1 都放不下，或 lines 中没有可渲染文本，返回 Size 为 0 的空方案。
func Fit(lines []markup.Line, box Box, m Measurer) (*Plan, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少度量后端 Measurer")
	}
	best := &Plan{}
	if !markup.HasText(lines) {
		return best, nil
	}

	units := make([][]Unit, len(lines))
	for i, line := range lines {
		units[i] = SplitUnits(line)
	}

	log := logging.Logger()
	ceiling := box.Ceiling()
	available := box.Available()
	for size := 1; size <= ceiling; size++ {
		plan, ok, err := trial(units, box, m, size)
		if err != nil {
			return nil, err
		}
		if !ok || plan.Height >= available {
			log.Debug("字号放不下，停止搜索", "size", size, "rejected", !ok, "height", plan.Height, "available", available)
			break
		}
		best = plan
	}
	log.Debug("试排完成", "size", best.Size, "lines", len(best.Lines), "height", best.Height)
	return best, nil
}

// trial 在单个字号下完成全部逻辑行的贪心折行。ok 为 false 表示出现了放不下的单词。
func trial(units [][]Unit, box Box, m Measurer, size int) (*Plan, bool, error) {
	limit := float64(box.UsableWidth())
	plan := &Plan{Size: size}

	for _, lineUnits := range units {
		if len(lineUnits) == 0 {
			blank, err := m.Measure("", markup.Plain, size)
			if err != nil {
				return nil, false, err
			}
			h := blank.Ascent + blank.Descent
			plan.Lines = append(plan.Lines, RenderLine{Height: h, MaxAscent: blank.Ascent, Blank: true})
			plan.Height += h
			continue
		}

		var cur RenderLine
		x := 0.0
		closeLine := func() {
			if len(cur.Segments) == 0 {
				return
			}
			cur.Width = x
			cur.Height = cur.MaxAscent + maxDescent(cur.Segments)
			plan.Lines = append(plan.Lines, cur)
			plan.Height += cur.Height
			cur = RenderLine{}
			x = 0
		}

		for _, u := range lineUnits {
			met, err := m.Measure(u.Text, u.Style, size)
			if err != nil {
				return nil, false, err
			}
			if !u.Space() {
				if x == 0 && met.Width > limit {
					return plan, false, nil
				}
				if x != 0 && x+met.Width > limit {
					closeLine()
				}
			}
			cur.Segments = append(cur.Segments, Segment{Unit: u, Metrics: met, Size: size})
			cur.MaxAscent = max(cur.MaxAscent, met.Ascent)
			x += met.Width
		}
		closeLine()
	}
	return plan, true, nil
}

func maxDescent(segs []Segment) int {
	d := 0
	for _, s := range segs {
		d = max(d, s.Descent)
	}
	return d
}
