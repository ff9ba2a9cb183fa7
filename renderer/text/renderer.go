package textrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/elastab/renderer"
	"github.com/ByLCY/elastab/tabstop"
)

// Renderer 面向等宽终端：1 像素即 1 个字符格，制表符被展开为空格。
type Renderer struct {
	cond *runewidth.Condition
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ tabstop.Measurer  = (*Renderer)(nil)
)

// NewRenderer 创建文本渲染器；eastAsian 为 true 时歧义宽度字符按 2 格计算。
func NewRenderer(eastAsian bool) *Renderer {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &Renderer{cond: cond}
}

// SpaceWidth 恒为 1 格。
func (r *Renderer) SpaceWidth() int { return 1 }

// CharWidth 实现 tabstop.Measurer。
func (r *Renderer) CharWidth(ch rune) int {
	return r.cond.RuneWidth(ch)
}

// Render 逐行输出文本，每个制表符替换为补齐到下一个制表位所需的空格。
func (r *Renderer) Render(doc tabstop.LineSource, result *tabstop.Result) ([]byte, error) {
	if doc == nil || result == nil {
		return nil, fmt.Errorf("渲染输入为空")
	}
	if doc.LineCount() != len(result.Lines) {
		return nil, fmt.Errorf("文档行数 %d 与结果行数 %d 不一致", doc.LineCount(), len(result.Lines))
	}
	var buf bytes.Buffer
	for i, line := range result.Lines {
		if err := r.writeLine(&buf, doc.LineAt(i).Text, line.Stops); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeLine(buf *bytes.Buffer, text string, stops []int) error {
	body, term := splitTerminator(text)
	fields := strings.Split(body, "\t")
	if len(fields)-1 != len(stops) {
		return fmt.Errorf("制表符数 %d 与制表位数 %d 不一致", len(fields)-1, len(stops))
	}
	col := 0
	for i, field := range fields {
		buf.WriteString(field)
		col += r.width(field)
		if i == len(stops) {
			break
		}
		n := stops[i] - col
		if n < 0 {
			// 内容超出了制表位，至少保留一个空格分隔。
			n = 1
		}
		buf.WriteString(strings.Repeat(" ", n))
		col += n
	}
	buf.WriteString(term)
	return nil
}

// width 与 CharWidth 逐字符累加，保证与计算阶段一致。
func (r *Renderer) width(s string) int {
	w := 0
	for _, ch := range s {
		w += r.cond.RuneWidth(ch)
	}
	return w
}

func splitTerminator(text string) (string, string) {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i], text[i:]
	}
	return text, ""
}
