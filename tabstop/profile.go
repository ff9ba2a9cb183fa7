package tabstop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/elastab/dsl"
)

// Profile 是从 .etabs 文件解析出的完整配置。
type Profile struct {
	Name     string                  `json:"name"`
	Meta     DocumentMeta            `json:"meta"`
	Fonts    map[string]FontResource `json:"fonts"`
	Tabstops TabstopSpec             `json:"tabstops"`
	Page     PageSpec                `json:"page"`
}

// DocumentMeta 保存 PDF 元信息，title 可以包含 ${...} 占位符。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:<name>。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style"`
}

// TabstopSpec 保留作者书写的长度单位，直到字体确定后才换算成像素。
type TabstopSpec struct {
	Preset     string  `json:"preset"`
	Multiple   *Length `json:"multiple,omitempty"`
	Minimum    *Length `json:"minimum,omitempty"`
	Padding    *Length `json:"padding,omitempty"`
	MaxColumns int     `json:"maxColumns,omitempty"`
}

// PageSpec 描述 PDF 输出的页面，长度单位为 mm，字号单位为 pt。
type PageSpec struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     float64 `json:"margin"`
	Font       string  `json:"font"`
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"` // 字号的倍数
	Header     string  `json:"header"`
}

var pageSizes = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// DefaultProfile 返回未提供配置文件时使用的配置。
func DefaultProfile() Profile {
	return Profile{
		Name:  "default",
		Fonts: map[string]FontResource{"Mono": {Name: "Mono", Src: "builtin:mono"}},
		Tabstops: TabstopSpec{
			Preset: "default",
		},
		Page: PageSpec{
			Width:      210,
			Height:     297,
			Margin:     15,
			Font:       "Mono",
			FontSize:   10,
			LineHeight: 1.4,
		},
	}
}

// Resolve 以 spaceWidth 为基准把长度换算成像素并校验。
func (s TabstopSpec) Resolve(spaceWidth int) (Config, error) {
	var cfg Config
	switch strings.ToLower(s.Preset) {
	case "", "default":
		cfg = DefaultConfig(spaceWidth)
	case "grid":
		cfg = GridConfig()
	default:
		return Config{}, fmt.Errorf("%w: 未知的 preset %q", ErrInvalidInput, s.Preset)
	}
	if s.Multiple != nil {
		cfg.Multiple = s.Multiple.Pixels(spaceWidth)
	}
	if s.Minimum != nil {
		cfg.Minimum = s.Minimum.Pixels(spaceWidth)
	}
	if s.Padding != nil {
		cfg.Padding = s.Padding.Pixels(spaceWidth)
	}
	if s.MaxColumns != 0 {
		cfg.MaxColumns = s.MaxColumns
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadProfile 根据 DSL AST 生成配置，缺省项取 DefaultProfile 的值。
func LoadProfile(doc *dsl.Document) (Profile, error) {
	if doc == nil {
		return Profile{}, fmt.Errorf("配置文档为空")
	}
	p := DefaultProfile()
	p.Name = doc.Name

	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			p.Meta = collectMeta(section.Meta.Block)
		case section.Resources != nil:
			collectFonts(section.Resources.Block, p.Fonts)
		case section.Tabstops != nil:
			p.Tabstops, err = collectTabstops(section.Tabstops.Block)
		case section.Page != nil:
			p.Page, err = collectPage(section.Page, p.Page)
		}
		if err != nil {
			return Profile{}, fmt.Errorf("%s 段落: %w", section.Kind(), err)
		}
	}
	if _, ok := p.Fonts[p.Page.Font]; !ok {
		return Profile{}, fmt.Errorf("page 引用了未声明的字体 %s", p.Page.Font)
	}
	return p, nil
}

func collectMeta(block *dsl.Block) DocumentMeta {
	var meta DocumentMeta
	for _, a := range assignments(block) {
		switch a.Key {
		case "title":
			meta.Title = a.Value.Text()
		case "author":
			meta.Author = a.Value.Text()
		case "subject":
			meta.Subject = a.Value.Text()
		case "keywords":
			meta.Keywords = valueStrings(a.Value)
		}
	}
	return meta
}

func collectFonts(block *dsl.Block, fonts map[string]FontResource) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "font" || len(cmd.Args) == 0 {
			continue
		}
		font := FontResource{Name: cmd.Args[0].Value}
		for _, a := range assignments(cmd.Block) {
			switch a.Key {
			case "src":
				font.Src = a.Value.Text()
			case "style":
				font.Style = a.Value.Text()
			}
		}
		fonts[font.Name] = font
	}
}

func collectTabstops(block *dsl.Block) (TabstopSpec, error) {
	spec := TabstopSpec{Preset: "default"}
	for _, a := range assignments(block) {
		raw := a.Value.Text()
		switch a.Key {
		case "preset":
			spec.Preset = raw
		case "multiple", "minimum", "padding":
			l, err := ParseLength(raw)
			if err != nil {
				return spec, fmt.Errorf("%s: %w", a.Key, err)
			}
			switch a.Key {
			case "multiple":
				spec.Multiple = &l
			case "minimum":
				spec.Minimum = &l
			default:
				spec.Padding = &l
			}
		case "max-columns":
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return spec, fmt.Errorf("max-columns 必须是正整数，实际 %q", raw)
			}
			spec.MaxColumns = n
		default:
			return spec, fmt.Errorf("未知的属性 %s", a.Key)
		}
	}
	return spec, nil
}

func collectPage(section *dsl.PageSection, base PageSpec) (PageSpec, error) {
	page := base
	size, ok := pageSizes[strings.ToLower(section.Spec.Size)]
	if !ok {
		return page, fmt.Errorf("不支持的页面尺寸 %s", section.Spec.Size)
	}
	page.Width, page.Height = size[0], size[1]

	params := section.Spec.Params
	for i := 0; i < len(params); i++ {
		switch params[i].Value {
		case "landscape":
			page.Width, page.Height = page.Height, page.Width
		case "portrait":
		case "margin":
			if i+1 >= len(params) {
				return page, fmt.Errorf("margin 缺少取值")
			}
			l, err := ParseLength(params[i+1].Value)
			if err != nil {
				return page, fmt.Errorf("margin: %w", err)
			}
			page.Margin = l.ToMM()
			i++
		}
	}

	for _, a := range assignments(section.Block) {
		raw := a.Value.Text()
		switch a.Key {
		case "font":
			page.Font = raw
		case "size":
			l, err := ParseLength(raw)
			if err != nil {
				return page, fmt.Errorf("size: %w", err)
			}
			if l.Unit == UnitNone {
				l.Unit = UnitPT
			}
			page.FontSize = l.ToPT()
		case "line-height":
			f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "x"), 64)
			if err != nil || f <= 0 {
				return page, fmt.Errorf("line-height 无效: %q", raw)
			}
			page.LineHeight = f
		case "header":
			page.Header = raw
		}
	}
	return page, nil
}

func assignments(block *dsl.Block) []*dsl.Assignment {
	if block == nil {
		return nil
	}
	out := make([]*dsl.Assignment, 0, len(block.Statements))
	for _, stmt := range block.Statements {
		if stmt.Assignment != nil {
			out = append(out, stmt.Assignment)
		}
	}
	return out
}

func valueStrings(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := item.Text(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := val.Text(); s != "" {
		return []string{s}
	}
	return nil
}
