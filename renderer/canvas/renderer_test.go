package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/ByLCY/elastab/tabstop"
)

func newTestRenderer(t *testing.T, guides bool) *Renderer {
	t.Helper()
	p := tabstop.DefaultProfile()
	p.Page.Header = "${file|stdin}"
	p.Meta.Title = "Aligned ${file}"
	r, err := NewRenderer(Options{Profile: p, Data: map[string]any{"file": "demo.tsv"}, Guides: guides})
	if err != nil {
		t.Fatalf("创建渲染器失败: %v", err)
	}
	return r
}

// 内置等宽字体下所有可见字符宽度相同，且为正数。
func TestCharWidthMonospace(t *testing.T) {
	r := newTestRenderer(t, false)
	w := r.CharWidth('W')
	if w <= 0 {
		t.Fatalf("字宽应为正数，实际 %d", w)
	}
	for _, ch := range "il1 .M" {
		if got := r.CharWidth(ch); got != w {
			t.Fatalf("等宽字体中 %q 宽度 %d 与 'W' 的 %d 不同", ch, got, w)
		}
	}
	if r.SpaceWidth() != w {
		t.Fatalf("SpaceWidth 应等于字宽 %d，实际 %d", w, r.SpaceWidth())
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := newTestRenderer(t, true)
	doc := tabstop.NewDocument("name\tsize\tkind\nmain.go\t12\tfile\ninternal\t-\tdir\n")
	res, err := tabstop.Build(doc, tabstop.BuildOptions{Measurer: r, Config: tabstop.DefaultConfig(r.SpaceWidth())})
	if err != nil {
		t.Fatalf("计算制表位失败: %v", err)
	}
	out, err := r.Render(doc, res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF，前缀 %q", out[:min(8, len(out))])
	}
}

// 行数超过一页时应分页而不是报错。
func TestRenderPaginates(t *testing.T) {
	r := newTestRenderer(t, false)
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		buf.WriteString("k\tv\n")
	}
	doc := tabstop.NewDocument(buf.String())
	res, err := tabstop.Build(doc, tabstop.BuildOptions{Measurer: r, Config: tabstop.DefaultConfig(r.SpaceWidth())})
	if err != nil {
		t.Fatalf("计算制表位失败: %v", err)
	}
	if _, err := r.Render(doc, res); err != nil {
		t.Fatalf("多页渲染失败: %v", err)
	}
}

func TestNewRendererRejectsInvalidPage(t *testing.T) {
	p := tabstop.DefaultProfile()
	p.Page.Width = 0
	if _, err := NewRenderer(Options{Profile: p}); err == nil {
		t.Fatalf("页面宽度为 0 时应报错")
	}
}

// 字体文件不存在时回退到内置等宽字体。
func TestMissingFontFallsBack(t *testing.T) {
	p := tabstop.DefaultProfile()
	p.Fonts["Mono"] = tabstop.FontResource{Name: "Mono", Src: "missing/font.ttf"}
	r, err := NewRenderer(Options{BaseDir: t.TempDir(), Profile: p})
	if err != nil {
		t.Fatalf("应回退到内置字体，实际报错: %v", err)
	}
	if r.CharWidth('a') <= 0 {
		t.Fatalf("回退字体的字宽应为正数")
	}
}
