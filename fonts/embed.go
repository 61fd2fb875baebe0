package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbedPrefix 标记内置字体来源，例如 "embed:go-bold"。
const EmbedPrefix = "embed:"

var embedded = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-mono":        gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-regular" 或直接 "go-regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, EmbedPrefix)
	data, ok := embedded[key]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", key, strings.Join(EmbeddedNames(), ", "))
	}
	return data, nil
}

// EmbeddedNames 返回全部内置字体名，已排序。
func EmbeddedNames() []string {
	names := make([]string, 0, len(embedded))
	for name := range embedded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmbeddedTable 返回一个全部指向内置 Go 字体的字体表，适合测试与离线环境。
func EmbeddedTable(families ...string) Table {
	v := Variants{
		Regular:    EmbedPrefix + "go-regular",
		Bold:       EmbedPrefix + "go-bold",
		Italic:     EmbedPrefix + "go-italic",
		BoldItalic: EmbedPrefix + "go-bold-italic",
	}
	t := Table{}
	for _, f := range families {
		t[f] = v
	}
	return t
}
