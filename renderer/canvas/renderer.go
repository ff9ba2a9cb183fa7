package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/elastab/binding"
	"github.com/ByLCY/elastab/fonts"
	"github.com/ByLCY/elastab/renderer"
	"github.com/ByLCY/elastab/tabstop"
)

const (
	guideWidth   = 0.1
	headerGap    = 4.0
	fallbackFont = "builtin:mono"
)

var (
	textColor  = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	guideColor = color.RGBA{R: 200, G: 200, B: 220, A: 255}
)

// Renderer 使用 github.com/tdewolff/canvas 度量字宽并输出 PDF。
// 度量与绘制使用同一个字体面，保证页面上的列与计算结果一致。
type Renderer struct {
	baseDir string
	profile tabstop.Profile
	data    any
	guides  bool

	face    *canvas.FontFace
	widthMu sync.Mutex
	widths  map[rune]int
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ tabstop.Measurer  = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string          // 解析相对字体路径的目录
	Profile tabstop.Profile // 页面、字体与元信息
	Data    any             // 供页眉与标题中 ${...} 使用的数据
	Guides  bool            // 在每个制表位处绘制竖向参考线
}

// NewRenderer 加载 profile 中页面引用的字体；加载失败时回退到内置等宽字体。
func NewRenderer(opts Options) (*Renderer, error) {
	page := opts.Profile.Page
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g mm", page.Width, page.Height)
	}
	if page.FontSize <= 0 {
		return nil, fmt.Errorf("字号无效: %gpt", page.FontSize)
	}
	r := &Renderer{
		baseDir: opts.BaseDir,
		profile: opts.Profile,
		data:    opts.Data,
		guides:  opts.Guides,
		widths:  map[rune]int{},
	}
	font, ok := opts.Profile.Fonts[page.Font]
	if !ok {
		font = tabstop.FontResource{Name: page.Font, Src: fallbackFont}
	}
	face, err := r.loadFace(font, page.FontSize)
	if err != nil {
		return nil, err
	}
	r.face = face
	return r, nil
}

// CharWidth 实现 tabstop.Measurer：字形宽度（mm）换算为 96 DPI 像素并四舍五入。
func (r *Renderer) CharWidth(ch rune) int {
	r.widthMu.Lock()
	defer r.widthMu.Unlock()
	if w, ok := r.widths[ch]; ok {
		return w
	}
	w := int(math.Round(r.face.TextWidth(string(ch)) * tabstop.MmToPx))
	if w < 0 {
		w = 0
	}
	r.widths[ch] = w
	return w
}

// SpaceWidth 返回空格的像素宽度。
func (r *Renderer) SpaceWidth() int { return r.CharWidth(' ') }

// Render 把每行的单元格画在对应制表位上，超出页面高度时分页。
func (r *Renderer) Render(doc tabstop.LineSource, result *tabstop.Result) ([]byte, error) {
	if doc == nil || result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if doc.LineCount() != len(result.Lines) {
		return nil, fmt.Errorf("文档行数 %d 与结果行数 %d 不一致", doc.LineCount(), len(result.Lines))
	}

	page := r.profile.Page
	lineHeight := page.FontSize * tabstop.PtToMm * page.LineHeight
	header := binding.Interpolate(page.Header, r.data)
	top := page.Margin
	if header != "" {
		top += lineHeight + headerGap
	}
	perPage := int((page.Height - top - page.Margin) / lineHeight)
	if perPage < 1 {
		return nil, fmt.Errorf("页面高度不足以容纳一行文本")
	}
	pageCount := (len(result.Lines) + perPage - 1) / perPage
	if pageCount == 0 {
		pageCount = 1
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	r.applyMeta(writer)
	for p := 0; p < pageCount; p++ {
		if p > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与行号递增方向一致

		if header != "" {
			r.drawText(ctx, page.Margin, page.Margin, header)
		}
		first := p * perPage
		last := min(first+perPage, len(result.Lines))
		for i := first; i < last; i++ {
			y := top + float64(i-first)*lineHeight
			if err := r.drawLine(ctx, y, lineHeight, doc.LineAt(i).Text, result.Lines[i].Stops); err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", i, err)
			}
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	meta := r.profile.Meta
	title := binding.Interpolate(meta.Title, r.data)
	writer.SetInfo(title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, "elastab")
}

// drawLine 绘制一行：第 k 个单元格从第 k-1 个制表位开始。
func (r *Renderer) drawLine(ctx *canvas.Context, y, lineHeight float64, text string, stops []int) error {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	cells := strings.Split(text, "\t")
	if len(cells)-1 != len(stops) {
		return fmt.Errorf("制表符数 %d 与制表位数 %d 不一致", len(cells)-1, len(stops))
	}
	left := r.profile.Page.Margin
	for k, content := range cells {
		x := left
		if k > 0 {
			x += float64(stops[k-1]) * tabstop.PxToMm
		}
		if content != "" {
			r.drawText(ctx, x, y, content)
		}
	}
	if r.guides {
		r.drawGuides(ctx, left, y, lineHeight, stops)
	}
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, x, y float64, content string) {
	line := canvas.NewTextLine(r.face, content, canvas.Left)
	// 基线位置：以行顶部加上字体上升部
	ctx.DrawText(x, y+r.face.Metrics().Ascent, line)
}

// drawGuides 在每个制表位处画一条与行等高的竖线，相邻行连成列块。
func (r *Renderer) drawGuides(ctx *canvas.Context, left, y, lineHeight float64, stops []int) {
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(guideColor)
	ctx.SetStrokeWidth(guideWidth)
	for _, stop := range stops {
		x := left + float64(stop)*tabstop.PxToMm - guideWidth
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(0, lineHeight)
		ctx.DrawPath(x, y, p)
	}
}

func (r *Renderer) loadFace(font tabstop.FontResource, sizePt float64) (*canvas.FontFace, error) {
	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(font.Name)
	data, err := r.loadFontBytes(font)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fb, fbErr := r.fallback()
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Name, err)
		}
		family, style = fb, canvas.FontRegular
	}
	return family.Face(sizePt, textColor, style, canvas.FontNormal), nil
}

func (r *Renderer) loadFontBytes(font tabstop.FontResource) ([]byte, error) {
	src := font.Src
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	if strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	data, err := fonts.Load(fallbackFont)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("elastab-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
