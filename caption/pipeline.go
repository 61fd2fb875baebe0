package caption

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/captionate/fonts"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/logging"
	"github.com/ByLCY/captionate/markup"
	"github.com/ByLCY/captionate/overlay"
	"github.com/ByLCY/captionate/renderer"
	canvasrenderer "github.com/ByLCY/captionate/renderer/canvas"
	"github.com/ByLCY/captionate/renderer/raster"
)

// Pipeline 处理批量字幕请求。字体库在多次 Run 之间共享。
type Pipeline struct {
	lib     *fonts.Library
	workers int
	backend Backend
}

// NewPipeline 按配置创建 Pipeline。cfg 为 nil 时使用 DefaultConfig。
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		lib:     fonts.NewLibrary(cfg.FontOptions()),
		workers: cfg.Workers,
		backend: cfg.Backend,
	}, nil
}

// Library 返回 Pipeline 使用的字体库。
func (p *Pipeline) Library() *fonts.Library { return p.lib }

// job 是一次 Run 中所有 worker 共享的只读状态。
type job struct {
	src     image.Image
	box     layout.Box
	overlay *overlay.Overlay
	family  string
}

// Run 处理 req 中的全部字幕，结果按输入顺序返回。
//
// 请求不合法时立即返回包装 ErrInvalidRequest 的错误。单条字幕失败（包括 panic）
// 只体现在对应的 Result 中，不影响其它字幕。ctx 取消时放弃整批请求。
func (p *Pipeline) Run(ctx context.Context, src image.Image, req Request) ([]Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: 缺少图片", ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logging.Logger()
	start := time.Now()
	b := src.Bounds()
	j := &job{
		src:     src,
		box:     req.Band().Resolve(b.Dx(), b.Dy()),
		overlay: overlay.Build(b.Dx(), b.Dy(), req.OverlayParams()),
		family:  req.FontFamily,
	}
	log.Info("开始处理字幕请求",
		"texts", len(req.Texts),
		"width", b.Dx(), "height", b.Dy(),
		"band", j.box.Height, "marginX", j.box.MarginX,
		"marginTop", j.box.MarginTop, "marginBottom", j.box.MarginBottom,
		"backend", string(p.backend))

	results := make([]Result, len(req.Texts))
	indexes := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(indexes)
		for i := range req.Texts {
			select {
			case indexes <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers := max(1, min(p.workers, len(req.Texts)))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			faces := p.lib.NewResolver(j.family)
			defer faces.Close()
			rend := p.newRenderer(faces)
			for i := range indexes {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = p.process(j, faces, rend, i, req.Texts[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	log.Info("字幕请求完成", "texts", len(results), "failed", failed, "elapsed", time.Since(start))
	return results, nil
}

func (p *Pipeline) newRenderer(faces *fonts.Resolver) renderer.Renderer {
	if p.backend == BackendCanvas {
		return canvasrenderer.New(faces)
	}
	return raster.New(faces)
}

// process 处理单条字幕。任何错误或 panic 都被收敛到返回的 Result 中。
func (p *Pipeline) process(j *job, faces *fonts.Resolver, rend renderer.Renderer, index int, text string) (res Result) {
	res = Result{Index: index, Text: text}
	log := logging.Logger().With("index", index)
	defer func() {
		if r := recover(); r != nil {
			log.Error("处理字幕时发生 panic", "panic", r, "stack", string(debug.Stack()))
			res = Result{Index: index, Text: text, Err: fmt.Errorf("处理第 %d 条字幕时发生 panic: %v", index+1, r)}
		}
	}()

	lines := markup.Parse(norm.NFC.String(text))
	plan, err := layout.Fit(lines, j.box, faces)
	if err != nil {
		log.Error("排版失败", "err", err)
		res.Err = fmt.Errorf("排版第 %d 条字幕失败: %w", index+1, err)
		return res
	}
	if plan.Empty() && markup.HasText(lines) {
		log.Info("文本在边距内放不下，只输出背景", "text", text)
	}

	layer, err := rend.Render(plan, j.box)
	if err != nil {
		log.Error("绘制失败", "err", err)
		res.Err = fmt.Errorf("绘制第 %d 条字幕失败: %w", index+1, err)
		return res
	}

	res.Plan = plan
	res.Artifacts = overlay.Compose(j.src, j.overlay, layer)
	res.Success = true
	log.Debug("字幕完成", "size", plan.Size, "lines", len(plan.Lines))
	return res
}
