package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/captionate/binding"
	"github.com/ByLCY/captionate/caption"
	"github.com/ByLCY/captionate/layout"
	"github.com/ByLCY/captionate/logging"
)

// options 汇总命令行参数。
type options struct {
	image     string
	texts     []string
	textsFile string
	config    string
	out       string
	backend   string
	workers   int
	data      string
	debug     string
	logLevel  string
}

func main() {
	fs := pflag.NewFlagSet("captionate", pflag.ExitOnError)
	var opts options
	fs.StringVarP(&opts.image, "image", "i", "", "源图片路径（png/jpeg/gif/webp/bmp/tiff）")
	fs.StringArrayVarP(&opts.texts, "text", "t", nil, "字幕标记，可重复；支持 <b>、<i>、<u>、<br>")
	fs.StringVar(&opts.textsFile, "texts-file", "", "字幕文件，每行一条")
	fs.StringVarP(&opts.config, "config", "c", "", "YAML 配置文件路径")
	fs.StringVarP(&opts.out, "out", "o", "output", "输出目录")
	fs.StringVar(&opts.backend, "backend", "", "渲染后端：raster 或 canvas（覆盖配置）")
	fs.IntVar(&opts.workers, "workers", 0, "并行处理的 worker 数（覆盖配置）")
	fs.StringVar(&opts.data, "data", "", "绑定到字幕 ${path} 占位符的 JSON 数据")
	fs.StringVar(&opts.debug, "debug", "", "排版调试 JSON 的输出目录")
	fs.StringVar(&opts.logLevel, "log-level", "info", "日志级别：debug、info、warn、error")

	req := caption.Request{}
	fs.StringVar(&req.FontFamily, "font-family", "", "字体族：Montserrat、Nunito、Poppins、Roboto")
	fs.StringVar(&req.TextPosition, "position", "", "字幕位置：top 或 bottom")
	fs.Float64Var(&req.BackgroundHeight, "bg-height", 0, "背景带占图片高度的比例 [0,1]")
	fs.StringVar(&req.BackgroundColor, "bg-color", "", `背景色，例如 "rgba(0, 0, 0, 180)"`)
	fs.IntVar(&req.MarginHorizontal, "margin-x", 0, "左右边距合计占图片宽度的百分比")
	fs.IntVar(&req.MarginTop, "margin-top", 0, "上边距占背景带高度的百分比")
	fs.IntVar(&req.MarginBottom, "margin-bottom", 0, "下边距占背景带高度的百分比")
	fs.Float64Var(&req.TransitionProportion, "transition", 0, "渐变区占背景带高度的比例 [0,1]")
	_ = fs.Parse(os.Args[1:])

	if err := setupLogging(opts.logLevel); err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	final := mergeRequest(fs, cfg.Defaults, req)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, cfg, final); err != nil {
		log.Fatalf("生成字幕失败: %v", err)
	}
	fmt.Printf("已生成字幕：%s\n", opts.out)
}

func setupLogging(level string) error {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("未知的日志级别 %q", level)
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))
	return nil
}

// loadConfig 读取配置文件，并用显式给出的命令行参数覆盖。
func loadConfig(fs *pflag.FlagSet, opts options) (*caption.Config, error) {
	cfg := caption.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = caption.LoadConfig(opts.config); err != nil {
			return nil, err
		}
	}
	if fs.Changed("backend") {
		cfg.Backend = caption.Backend(opts.backend)
	}
	if fs.Changed("workers") {
		cfg.Workers = opts.workers
	}
	return cfg, cfg.Validate()
}

// mergeRequest 以配置中的默认值为基础，只覆盖命令行上出现过的字段。
func mergeRequest(fs *pflag.FlagSet, base, flags caption.Request) caption.Request {
	req := base
	if fs.Changed("font-family") {
		req.FontFamily = flags.FontFamily
	}
	if fs.Changed("position") {
		req.TextPosition = flags.TextPosition
	}
	if fs.Changed("bg-height") {
		req.BackgroundHeight = flags.BackgroundHeight
	}
	if fs.Changed("bg-color") {
		req.BackgroundColor = flags.BackgroundColor
	}
	if fs.Changed("margin-x") {
		req.MarginHorizontal = flags.MarginHorizontal
	}
	if fs.Changed("margin-top") {
		req.MarginTop = flags.MarginTop
	}
	if fs.Changed("margin-bottom") {
		req.MarginBottom = flags.MarginBottom
	}
	if fs.Changed("transition") {
		req.TransitionProportion = flags.TransitionProportion
	}
	return req
}

// run 串联读取、处理与写出。
func run(ctx context.Context, opts options, cfg *caption.Config, req caption.Request) error {
	if opts.image == "" {
		return fmt.Errorf("缺少 --image")
	}
	texts, err := collectTexts(opts)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("没有字幕：请使用 --text 或 --texts-file")
	}
	data, err := readData(opts.data)
	if err != nil {
		return err
	}
	req.Texts = binding.InterpolateAll(texts, data)

	img, err := decodeImage(opts.image)
	if err != nil {
		return err
	}

	p, err := caption.NewPipeline(cfg)
	if err != nil {
		return err
	}
	results, err := p.Run(ctx, img, req)
	if err != nil {
		return err
	}
	return writeOutputs(opts, req, results)
}

func collectTexts(opts options) ([]string, error) {
	texts := append([]string(nil), opts.texts...)
	if opts.textsFile == "" {
		return texts, nil
	}
	f, err := os.Open(opts.textsFile)
	if err != nil {
		return nil, fmt.Errorf("无法打开字幕文件 %s: %w", opts.textsFile, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取字幕文件失败: %w", err)
	}
	return texts, nil
}

// readData 接受 JSON 字符串，或以 @ 开头的 JSON 文件路径。
func readData(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("读取绑定数据 %s 失败: %w", path, err)
		}
	}
	return binding.Decode(raw)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开图片 %s: %w", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	logging.Logger().Debug("图片已解码", "path", path, "format", format, "bounds", img.Bounds().String())
	return img, nil
}

// manifestItem 记录一条字幕的输出。路径相对于输出目录。
type manifestItem struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	TextOnly string `json:"text_only,omitempty"`
	Combined string `json:"final_combined,omitempty"`
	FontSize int    `json:"font_size"`
	Lines    int    `json:"lines"`
}

type manifest struct {
	Image      string          `json:"image"`
	Request    caption.Request `json:"request"`
	Background string          `json:"background_only,omitempty"`
	Items      []manifestItem  `json:"items"`
}

// writeOutputs 按视频合成脚本读取的目录结构写出结果：
// background.png、text_only/text_NN_text.png、combined/text_NN_combined.png 与 manifest.json。
func writeOutputs(opts options, req caption.Request, results []caption.Result) error {
	for _, dir := range []string{opts.out, filepath.Join(opts.out, "text_only"), filepath.Join(opts.out, "combined")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if opts.debug != "" {
		if err := os.MkdirAll(opts.debug, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}

	m := manifest{Image: opts.image, Request: req}
	succeeded := 0
	for _, r := range results {
		item := manifestItem{Index: r.Index + 1, Text: r.Text}
		enc := r.Encode()
		if !enc.Success {
			item.Error = enc.Error
			logging.Logger().Error("字幕处理失败", "index", r.Index+1, "err", enc.Error)
			m.Items = append(m.Items, item)
			continue
		}
		item.Success = true
		item.FontSize = r.Plan.Size
		item.Lines = len(r.Plan.Lines)

		pngs := enc.PNG()
		if m.Background == "" {
			m.Background = "background.png"
			if err := writeFile(filepath.Join(opts.out, m.Background), pngs.Background); err != nil {
				return err
			}
		}
		item.TextOnly = filepath.Join("text_only", fmt.Sprintf("text_%02d_text.png", r.Index+1))
		item.Combined = filepath.Join("combined", fmt.Sprintf("text_%02d_combined.png", r.Index+1))
		if err := writeFile(filepath.Join(opts.out, item.TextOnly), pngs.Text); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(opts.out, item.Combined), pngs.Final); err != nil {
			return err
		}
		if opts.debug != "" {
			path := filepath.Join(opts.debug, fmt.Sprintf("text_%02d_plan.json", r.Index+1))
			if err := layout.WriteDebugJSON(r.Plan, path); err != nil {
				return fmt.Errorf("写入调试 JSON 失败: %w", err)
			}
		}
		succeeded++
		m.Items = append(m.Items, item)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 manifest 失败: %w", err)
	}
	if err := writeFile(filepath.Join(opts.out, "manifest.json"), data); err != nil {
		return err
	}
	if succeeded == 0 {
		return fmt.Errorf("全部 %d 条字幕处理失败", len(results))
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
