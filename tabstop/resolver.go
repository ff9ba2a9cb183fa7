package tabstop

// blockScan 是单列自上而下扫描时的状态。
type blockScan struct {
	g        *grid
	t        int
	current  int // 当前列块在 arena 中的下标，NoBlock 表示没有打开的列块
	maxWidth int
}

// resolveBlocks 逐列找出列块，并把每个列块的宽度拉到块内最宽的单元格。
// 相邻行单元格数不同时，单元格按差值与上一行错位的列对齐。
func resolveBlocks(g *grid) {
	for t := 0; t < g.maxColumns; t++ {
		scan := &blockScan{g: g, t: t, current: NoBlock}
		prevTabs := 0
		for l := range g.lines {
			c := g.cell(l, t)
			if c == nil || !c.EndsInTab {
				scan.current = NoBlock
				scan.maxWidth = 0
				prevTabs = g.tabCount(l)
				continue
			}
			scan.visit(l, c, prevTabs)
			prevTabs = g.tabCount(l)
		}
	}
}

func (s *blockScan) visit(l int, c *Cell, prevTabs int) {
	shift := s.g.tabCount(l) - prevTabs
	if l == 0 || prevTabs == 0 || shift == 0 {
		s.join(c)
		return
	}
	// 当前行多出的前导单元格（或少掉的列之后的单元格）在上一行没有对应列。
	if (shift > 0 && s.t < shift) || (shift < 0 && s.t >= -shift) {
		s.start(c)
		return
	}
	pt := s.t - shift
	if pt >= s.g.maxColumns {
		s.start(c)
		return
	}
	prev := s.g.cell(l-1, pt)
	if prev == nil || prev.Block == NoBlock {
		s.join(c)
		return
	}
	s.align(l, c, prev, shift)
}

// join 让单元格加入当前列块：窄的单元格被拉宽，宽的单元格拉宽整个列块。
func (s *blockScan) join(c *Cell) {
	if s.current == NoBlock {
		s.current = s.g.newBlock(0)
		s.maxWidth = 0
	}
	c.Block = s.current
	if c.DisplayWidth < s.maxWidth {
		c.DisplayWidth = s.maxWidth
		return
	}
	s.maxWidth = c.DisplayWidth
	s.g.setBlockWidth(s.current, s.maxWidth)
}

// start 以该单元格开启一个新的列块。
func (s *blockScan) start(c *Cell) {
	s.maxWidth = c.DisplayWidth
	s.current = s.g.newBlock(s.maxWidth)
	c.Block = s.current
}

// align 借用上一行错位列的列块，并按四种情况依次调整宽度。
func (s *blockScan) align(l int, c, prev *Cell, shift int) {
	c.Offset = shift
	s.current = prev.Block
	c.Block = s.current

	var newMax, offsetMax int
	if shift > 0 {
		newMax = s.g.displaySum(l, shift)
		// 上一行第 shift-1 列的宽度
		if lead := s.g.cell(l-1, shift-1); lead != nil {
			offsetMax = lead.DisplayWidth
		}
	} else {
		newMax = s.g.displaySum(l, -shift)
		offsetMax = newMax
	}

	switch {
	case prev.DisplayWidth < newMax:
		prev.DisplayWidth = newMax
		s.g.setBlockWidth(s.current, newMax)
	case prev.DisplayWidth < c.DisplayWidth:
		prev.DisplayWidth = offsetMax + c.DisplayWidth
		s.g.setBlockWidth(s.current, prev.DisplayWidth)
	case newMax < prev.DisplayWidth:
		c.DisplayWidth = prev.DisplayWidth
		s.g.setBlockWidth(s.current, prev.DisplayWidth)
	default:
		s.maxWidth = c.DisplayWidth
		s.g.setBlockWidth(s.current, s.maxWidth)
	}
}
