package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-text/typesetting/fontscan"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/captionate/logging"
	"github.com/ByLCY/captionate/markup"
)

// ErrNoFace 表示回退链全部失败，当前字幕无法排版。
var ErrNoFace = errors.New("fonts: 没有可用的字体")

// BuiltinSource 是回退链第 5 步（内置位图字体）的来源标签。
const BuiltinSource = "builtin:7x13"

// Step 标识字体来自回退链的哪一步。
type Step int

const (
	StepRequested     Step = iota + 1 // 请求的样式
	StepFamilyRegular                 // 同一字体族的 Regular
	StepDefaultFamily                 // 默认字体族的 Regular
	StepSystem                        // 系统字体
	StepBuiltin                       // 内置位图字体
)

func (s Step) String() string {
	switch s {
	case StepRequested:
		return "requested"
	case StepFamilyRegular:
		return "family-regular"
	case StepDefaultFamily:
		return "default-family"
	case StepSystem:
		return "system"
	case StepBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Options 配置字体库。
type Options struct {
	Table          Table
	DefaultFamily  string
	BaseDir        string   // 相对路径的根目录
	SystemFontDirs []string // nil 时使用 fontscan 的平台默认目录；空切片表示不查找系统字体
	DisableBuiltin bool     // 禁用第 5 步，便于暴露字体耗尽错误
}

// Source 是回退链解析出的字体来源。Font 与 Data 在内置位图字体下为 nil。
type Source struct {
	Label string
	Step  Step
	Font  *opentype.Font
	Data  []byte
}

// Bitmap 报告该来源是否为内置位图字体。
func (s *Source) Bitmap() bool { return s.Font == nil }

type parsedEntry struct {
	font *opentype.Font
	data []byte
	err  error
}

type chainKey struct {
	family string
	style  markup.Style
}

type chainEntry struct {
	src *Source
	err error
}

// Library 解析并缓存字体文件，可被多个 worker 并发共享。
type Library struct {
	opts Options

	mu     sync.Mutex
	parsed map[string]*parsedEntry
	chains map[chainKey]*chainEntry

	// fontscan.FontMap 不是并发安全的，查询由 sysMu 串行化
	sysOnce  sync.Once
	sysMu    sync.Mutex
	sysMap   *fontscan.FontMap
	sysPaths map[string]string
}

// NewLibrary 创建字体库。未指定字体表时使用 DefaultTable。
func NewLibrary(opts Options) *Library {
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	if opts.DefaultFamily == "" {
		opts.DefaultFamily = DefaultFamily
	}
	return &Library{
		opts:     opts,
		parsed:   map[string]*parsedEntry{},
		chains:   map[chainKey]*chainEntry{},
		sysPaths: map[string]string{},
	}
}

// Resolve 沿回退链为 (family, style) 找到一个可用字体，结果按键缓存。
func (l *Library) Resolve(family string, style markup.Style) (*Source, error) {
	key := chainKey{family: family, style: style &^ markup.Underline}
	l.mu.Lock()
	entry, ok := l.chains[key]
	l.mu.Unlock()
	if ok {
		return entry.src, entry.err
	}

	src, err := l.resolveChain(key.family, key.style)

	l.mu.Lock()
	if existing, ok := l.chains[key]; ok {
		l.mu.Unlock()
		return existing.src, existing.err
	}
	l.chains[key] = &chainEntry{src: src, err: err}
	l.mu.Unlock()
	return src, err
}

func (l *Library) resolveChain(family string, style markup.Style) (*Source, error) {
	log := logging.Logger()
	variants, ok := l.opts.Table[family]
	if !ok {
		log.Warn("未知字体族，使用默认字体族", "family", family, "default", l.opts.DefaultFamily)
		variants = l.opts.Table[l.opts.DefaultFamily]
	}
	defaultRegular := l.opts.Table[l.opts.DefaultFamily].Regular

	requested := variants.Pick(style)
	tried := map[string]bool{}
	var lastErr error
	attempt := func(label string, step Step) *Source {
		if label == "" || tried[label] {
			return nil
		}
		tried[label] = true
		p := l.parse(label)
		if p.err != nil {
			lastErr = p.err
			log.Warn("字体加载失败", "family", family, "style", style.String(), "source", label, "step", step.String(), "err", p.err)
			return nil
		}
		if step != StepRequested {
			log.Warn("字体降级", "family", family, "style", style.String(), "source", label, "step", step.String())
		}
		return &Source{Label: label, Step: step, Font: p.font, Data: p.data}
	}

	if src := attempt(requested, StepRequested); src != nil {
		return src, nil
	}
	if src := attempt(variants.Regular, StepFamilyRegular); src != nil {
		return src, nil
	}
	if src := attempt(defaultRegular, StepDefaultFamily); src != nil {
		return src, nil
	}
	if path := l.systemFont(family); path != "" {
		if src := attempt(path, StepSystem); src != nil {
			return src, nil
		}
	}
	if !l.opts.DisableBuiltin {
		log.Warn("所有字体文件均不可用，使用内置位图字体", "family", family, "style", style.String())
		return &Source{Label: BuiltinSource, Step: StepBuiltin}, nil
	}
	if lastErr == nil {
		lastErr = errors.New("字体表中没有可尝试的来源")
	}
	log.Error("字体回退链耗尽", "family", family, "style", style.String(), "err", lastErr)
	return nil, fmt.Errorf("%w: %s %s: %v", ErrNoFace, family, style, lastErr)
}

func (l *Library) parse(label string) *parsedEntry {
	l.mu.Lock()
	p, ok := l.parsed[label]
	l.mu.Unlock()
	if ok {
		return p
	}

	p = &parsedEntry{}
	p.data, p.err = l.loadBytes(label)
	if p.err == nil {
		p.font, p.err = opentype.Parse(p.data)
		if p.err != nil {
			p.err = fmt.Errorf("解析字体 %s 失败: %w", label, p.err)
		}
	}

	l.mu.Lock()
	l.parsed[label] = p
	l.mu.Unlock()
	return p
}

func (l *Library) loadBytes(label string) ([]byte, error) {
	if strings.HasPrefix(label, EmbedPrefix) {
		return Load(label)
	}
	path := label
	if !filepath.IsAbs(path) && l.opts.BaseDir != "" {
		path = filepath.Join(l.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// systemFont 返回回退链第 4 步的系统字体路径，按字体族缓存。
func (l *Library) systemFont(family string) string {
	if l.opts.SystemFontDirs != nil && len(l.opts.SystemFontDirs) == 0 {
		return ""
	}
	l.sysOnce.Do(func() {
		fm, err := NewSystemFontMap(l.opts.SystemFontDirs)
		if err != nil {
			logging.Logger().Warn("系统字体不可用", "err", err)
			return
		}
		l.sysMap = fm
	})

	l.sysMu.Lock()
	defer l.sysMu.Unlock()
	if path, ok := l.sysPaths[family]; ok {
		return path
	}
	path := FindSystemFont(l.sysMap, family)
	l.sysPaths[family] = path
	if path != "" {
		logging.Logger().Debug("找到系统字体", "family", family, "path", path)
	}
	return path
}

// NewResolver 为一个 worker 创建字号缓存。Resolver 不能跨 goroutine 共享。
func (l *Library) NewResolver(family string) *Resolver {
	return &Resolver{
		lib:    l,
		family: family,
		faces:  map[faceKey]*Face{},
	}
}
