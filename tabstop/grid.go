package tabstop

// grid 以 行 × 列 的方式访问单元格，列数以 maxColumns 为上限。
// 超出上限的单元格仍保留在 Line.Cells 中，只是不参与列块解析。
type grid struct {
	lines      []Line
	maxColumns int
	widths     []int // 列块宽度 arena，Cell.Block 是其下标
}

func newGrid(lines []Line, maxColumns int) *grid {
	return &grid{lines: lines, maxColumns: maxColumns}
}

// cell 返回第 l 行第 t 列的单元格；越界或超出列上限时返回 nil。
func (g *grid) cell(l, t int) *Cell {
	if l < 0 || l >= len(g.lines) || t < 0 || t >= g.maxColumns {
		return nil
	}
	cells := g.lines[l].Cells
	if t >= len(cells) {
		return nil
	}
	return &cells[t]
}

func (g *grid) tabCount(l int) int {
	return g.lines[l].TabCount
}

// newBlock 分配一个新的列块宽度记录。
func (g *grid) newBlock(width int) int {
	g.widths = append(g.widths, width)
	return len(g.widths) - 1
}

func (g *grid) blockWidth(id int) int {
	return g.widths[id]
}

func (g *grid) setBlockWidth(id, width int) {
	g.widths[id] = width
}

// displaySum 返回第 l 行前 n 列 DisplayWidth 之和，缺失的单元格按 0 计。
func (g *grid) displaySum(l, n int) int {
	sum := 0
	for t := 0; t < n; t++ {
		if c := g.cell(l, t); c != nil {
			sum += c.DisplayWidth
		}
	}
	return sum
}
