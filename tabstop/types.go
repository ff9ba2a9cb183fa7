package tabstop

import "strings"

// 该文件定义输入行、单元格与计算结果，供计算、渲染与调试 JSON 共用。

// NoBlock 表示单元格不属于任何列块。
const NoBlock = -1

// LineSpan 是宿主提供的一行文本及其在文本源中的字节偏移。
type LineSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// LineSource 按顺序提供文档中的各行。
type LineSource interface {
	LineCount() int
	LineAt(i int) LineSpan
}

// Document 是基于字符串快照的 LineSource 实现。
type Document struct {
	lines []LineSpan
}

var _ LineSource = (*Document)(nil)

// NewDocument 在每个 '\n' 之后切分文本，行文本保留换行符。
func NewDocument(text string) *Document {
	doc := &Document{}
	start := 0
	for start < len(text) {
		end := len(text)
		if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		doc.lines = append(doc.lines, LineSpan{Start: start, End: end, Text: text[start:end]})
		start = end
	}
	return doc
}

// DocumentFromLines 把已经切好的行依次拼接成文档，偏移按字节累计。
func DocumentFromLines(lines []string) *Document {
	doc := &Document{lines: make([]LineSpan, 0, len(lines))}
	offset := 0
	for _, text := range lines {
		doc.lines = append(doc.lines, LineSpan{Start: offset, End: offset + len(text), Text: text})
		offset += len(text)
	}
	return doc
}

func (d *Document) LineCount() int { return len(d.lines) }

func (d *Document) LineAt(i int) LineSpan { return d.lines[i] }

// Cell 是一行中以制表符分隔的一段文本（含结尾的制表符）。
type Cell struct {
	Text         string `json:"text"`
	EndsInTab    bool   `json:"endsInTab"`
	RawWidth     int    `json:"rawWidth"`
	DisplayWidth int    `json:"displayWidth"` // 含留白与最小值的宽度，解析过程中会被拉宽
	TrueWidth    int    `json:"trueWidth"`    // 不含留白的宽度
	Block        int    `json:"block"`        // 列块宽度在 arena 中的下标，NoBlock 表示无
	Offset       int    `json:"offset"`       // 与上一行单元格数的差值，仅错位对齐时非 0
	Stop         int    `json:"stop"`         // 累加后的绝对制表位
}

// Line 是扫描后的一行。
type Line struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"text"`
	Cells    []Cell `json:"cells"`
	TabCount int    `json:"tabCount"`
}

// Result 保存整篇文档每一行的制表位。
type Result struct {
	Lines  []LineStops `json:"lines"`
	Config Config      `json:"config"`
}

// LineStops 是一行的绝对制表位，严格递增，每个制表符一个。
type LineStops struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Stops []int  `json:"stops"`
	Cells []Cell `json:"cells,omitempty"`
}
