package tabstop

// accumulate 把第 l 行各单元格的列块宽度累加为绝对制表位。
func accumulate(g *grid, l int) []int {
	line := &g.lines[l]
	stops := make([]int, 0, line.TabCount)
	acc := 0
	for t := 0; t < line.TabCount; t++ {
		c := &line.Cells[t]
		acc += stopIncrement(g, l, t, c)
		c.TrueWidth = c.DisplayWidth
		if len(stops) > 0 && acc <= stops[len(stops)-1] {
			acc = stops[len(stops)-1] + 1
		}
		c.Stop = acc
		stops = append(stops, acc)
	}
	return stops
}

func stopIncrement(g *grid, l, t int, c *Cell) int {
	// 超出列上限或未进入列块的单元格只占自身的原始宽度。
	if c.Block == NoBlock {
		return c.RawWidth
	}
	width := g.blockWidth(c.Block)
	if c.Offset == 0 {
		return width
	}
	if prev := g.cell(l-1, t-c.Offset); prev == nil || prev.Text == "\t" {
		return width
	}
	// 错位对齐的列块宽度包含了前一个单元格的宽度，这里扣除。
	if t == 0 {
		return width
	}
	return width - g.lines[l].Cells[t-1].TrueWidth
}
