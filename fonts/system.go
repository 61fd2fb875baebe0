package fonts

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"

	"github.com/ByLCY/captionate/logging"
)

// probeRune 用于让 fontscan 挑选字体；字幕以拉丁文字为主。
const probeRune = 'A'

var fontExts = map[string]bool{".ttf": true, ".otf": true, ".ttc": true, ".otc": true}

// scanLogger 把 fontscan 的日志转到 slog。
type scanLogger struct{}

func (scanLogger) Printf(format string, args ...any) {
	logging.Logger().Debug(fmt.Sprintf(format, args...), "component", "fontscan")
}

// NewSystemFontMap 建立系统字体索引。dirs 为 nil 时扫描平台默认目录并使用 fontscan 的磁盘缓存；
// 否则只加载 dirs 下的字体文件。
func NewSystemFontMap(dirs []string) (*fontscan.FontMap, error) {
	fm := fontscan.NewFontMap(scanLogger{})
	if dirs == nil {
		if err := fm.UseSystemFonts(""); err != nil {
			return nil, fmt.Errorf("加载系统字体索引失败: %w", err)
		}
		return fm, nil
	}

	added := 0
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !fontExts[strings.ToLower(filepath.Ext(path))] {
				// 目录不存在或无权限时跳过
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			if err := fm.AddFont(bytes.NewReader(data), path, ""); err != nil {
				logging.Logger().Debug("跳过无法识别的字体文件", "path", path, "err", err)
				return nil
			}
			added++
			return nil
		})
	}
	if added == 0 {
		return nil, fmt.Errorf("目录 %v 中没有可用的字体", dirs)
	}
	return fm, nil
}

// FindSystemFont 先按字体族名精确匹配，再退回通用无衬线族，返回字体文件路径；找不到返回空串。
// 字体集合中非首个字体无法按路径加载，会被跳过。
func FindSystemFont(fm *fontscan.FontMap, family string) string {
	if fm == nil {
		return ""
	}
	if family != "" {
		fm.SetQuery(fontscan.Query{Families: []string{family}})
		if face := fm.ResolveFace(probeRune); face != nil {
			got, _ := fm.FontMetadata(face.Font)
			if got == gtfont.NormalizeFamily(family) {
				if path := loadablePath(fm.FontLocation(face.Font)); path != "" {
					return path
				}
			}
		}
	}
	fm.SetQuery(fontscan.Query{Families: []string{fontscan.SansSerif}})
	face := fm.ResolveFace(probeRune)
	if face == nil {
		return ""
	}
	return loadablePath(fm.FontLocation(face.Font))
}

func loadablePath(loc fontscan.Location) string {
	if loc.Index != 0 || loc.Instance != 0 {
		return ""
	}
	return loc.File
}
