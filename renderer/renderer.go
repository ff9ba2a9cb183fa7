package renderer

import "github.com/ByLCY/elastab/tabstop"

// Renderer 把文档与计算出的制表位输出为最终文件，例如 PDF 或对齐后的纯文本。
// 它同时提供与输出一致的字宽度量，计算与输出必须使用同一把“尺子”。
type Renderer interface {
	tabstop.Measurer
	SpaceWidth() int
	Render(doc tabstop.LineSource, result *tabstop.Result) ([]byte, error)
}
