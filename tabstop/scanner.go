package tabstop

import "fmt"

// scanLine 把一行切成以制表符结尾的单元格并计算各自宽度。
// '\r' 或 '\n' 结束当前单元格，但不计作制表符，其后的内容被忽略。
func scanLine(span LineSpan, m Measurer, cfg Config) (Line, error) {
	line := Line{Start: span.Start, End: span.End, Text: span.Text}
	text := span.Text
	cellStart := 0
	width := 0

	for i, r := range text {
		switch r {
		case '\t':
			line.Cells = append(line.Cells, newCell(text[cellStart:i+1], true, width, cfg))
			line.TabCount++
			cellStart = i + 1
			width = 0
		case '\r', '\n':
			line.Cells = append(line.Cells, newCell(text[cellStart:i], false, width, cfg))
			return line, nil
		default:
			w := m.CharWidth(r)
			if w < 0 {
				return Line{}, fmt.Errorf("%w: 字符 %q 的宽度为负数 %d（行偏移 %d）", ErrInvalidInput, r, w, span.Start+i)
			}
			width += w
		}
	}
	line.Cells = append(line.Cells, newCell(text[cellStart:], false, width, cfg))
	return line, nil
}

func newCell(text string, endsInTab bool, raw int, cfg Config) Cell {
	return Cell{
		Text:         text,
		EndsInTab:    endsInTab,
		RawWidth:     raw,
		DisplayWidth: calcTabWidth(raw, true, cfg),
		TrueWidth:    calcTabWidth(raw, false, cfg),
		Block:        NoBlock,
	}
}

// calcTabWidth 依次执行：按倍数向上取整（仅含留白时）、最小值、追加留白（仅含留白时）。
func calcTabWidth(w int, includePadding bool, cfg Config) int {
	if includePadding {
		w = (w + cfg.Multiple - 1) / cfg.Multiple * cfg.Multiple
	}
	if w < cfg.Minimum {
		w = cfg.Minimum
	}
	if includePadding {
		w += cfg.Padding
	}
	return w
}
