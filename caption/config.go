package caption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/captionate/fonts"
)

// Backend 选择文字层的绘制后端。
type Backend string

const (
	BackendRaster Backend = "raster"
	BackendCanvas Backend = "canvas"
)

// FontConfig 描述字体表与回退行为。
type FontConfig struct {
	BaseDir        string      `yaml:"base_dir"`
	Families       fonts.Table `yaml:"families"`
	SystemDirs     []string    `yaml:"system_dirs"`
	DisableBuiltin bool        `yaml:"disable_builtin"`
}

// Config 是 captionate 的配置文件内容。
type Config struct {
	Defaults Request    `yaml:"defaults"`
	Fonts    FontConfig `yaml:"fonts"`
	Workers  int        `yaml:"workers"`
	Backend  Backend    `yaml:"backend"`
}

// DefaultConfig 返回默认配置：google-fonts 目录下的字体表、栅格后端、worker 数等于 CPU 数。
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultRequest(),
		Fonts: FontConfig{
			BaseDir:  fonts.DefaultBaseDir,
			Families: fonts.DefaultTable(),
		},
		Workers: runtime.NumCPU(),
		Backend: BackendRaster,
	}
}

// LoadConfig 读取 YAML 配置，未出现的字段保留 DefaultConfig 的值。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig 解析 YAML 配置内容。未知字段视为错误。
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置本身的取值。
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendRaster, BackendCanvas:
	default:
		return fmt.Errorf("未知的渲染后端 %q（可选 raster、canvas）", c.Backend)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers 至少为 1，实际 %d", c.Workers)
	}
	if _, ok := c.Fonts.Families[fonts.DefaultFamily]; !ok {
		return fmt.Errorf("字体表缺少默认字体族 %s", fonts.DefaultFamily)
	}
	return nil
}

// FontOptions 把字体配置转换为 fonts.Options。
func (c *Config) FontOptions() fonts.Options {
	return fonts.Options{
		Table:          c.Fonts.Families,
		DefaultFamily:  fonts.DefaultFamily,
		BaseDir:        c.Fonts.BaseDir,
		SystemFontDirs: c.Fonts.SystemDirs,
		DisableBuiltin: c.Fonts.DisableBuiltin,
	}
}
