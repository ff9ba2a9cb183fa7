package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// builtin 收录随程序分发的 Latin Modern 字体。
var builtin = map[string][]byte{
	"mono":         lmmono10regular.TTF,
	"mono-italic":  lmmono10italic.TTF,
	"roman":        lmroman10regular.TTF,
	"roman-bold":   lmroman10bold.TTF,
	"roman-italic": lmroman10italic.TTF,
	"sans":         lmsans10regular.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:mono" 或直接 "mono"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "built-in:"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回所有内置字体名称，按字母排序。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
