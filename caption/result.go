package caption

import (
	"encoding/base64"
	"fmt"

	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/overlay"
)

// Result 是单条字幕的处理结果。Success 为 false 时 Err 非空，其余字段为零值。
type Result struct {
	Index     int
	Text      string
	Success   bool
	Err       error
	Plan      *layout.Plan
	Artifacts *overlay.Artifacts
}

// Encoded 是 Result 的 JSON 表示，图片为 base64 编码的 PNG。
type Encoded struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	BackgroundOnly string `json:"background_only,omitempty"`
	TextOnly       string `json:"text_only,omitempty"`
	FinalCombined  string `json:"final_combined,omitempty"`

	png *overlay.Encoded
}

// PNG 返回编码前的 PNG 字节，失败的结果返回 nil。
func (e *Encoded) PNG() *overlay.Encoded { return e.png }

// Batch 是整批结果的 JSON 表示。
type Batch struct {
	Images []*Encoded `json:"images"`
}

// Encode 把结果编码为 PNG 与 base64。编码失败时返回的 Encoded 标记为失败。
func (r Result) Encode() *Encoded {
	if !r.Success {
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return &Encoded{Error: msg}
	}
	enc, err := r.Artifacts.Encode()
	if err != nil {
		return &Encoded{Error: fmt.Sprintf("编码第 %d 条字幕失败: %v", r.Index+1, err)}
	}
	return &Encoded{
		Success:        true,
		BackgroundOnly: base64.StdEncoding.EncodeToString(enc.Background),
		TextOnly:       base64.StdEncoding.EncodeToString(enc.Text),
		FinalCombined:  base64.StdEncoding.EncodeToString(enc.Final),
		png:            enc,
	}
}

// EncodeAll 按顺序编码全部结果。
func EncodeAll(results []Result) *Batch {
	b := &Batch{Images: make([]*Encoded, len(results))}
	for i, r := range results {
		b.Images[i] = r.Encode()
	}
	return b
}
