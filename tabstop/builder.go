package tabstop

import (
	"fmt"
)

// Build 对整篇文档做一次完整计算，返回每一行的绝对制表位。
// 每次调用都重新构建网格与列块记录，不保留任何状态。
func Build(src LineSource, opts BuildOptions) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: 文档为空", ErrInvalidInput)
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("%w: 缺少字宽度量 Measurer", ErrInvalidInput)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lines, err := scanLines(src, opts.Measurer, cfg)
	if err != nil {
		return nil, err
	}

	g := newGrid(lines, cfg.MaxColumns)
	resolveBlocks(g)

	res := &Result{
		Lines:  make([]LineStops, len(lines)),
		Config: cfg,
	}
	for l := range lines {
		res.Lines[l] = LineStops{
			Start: lines[l].Start,
			End:   lines[l].End,
			Stops: accumulate(g, l),
		}
		if opts.Debug.Cells {
			res.Lines[l].Cells = lines[l].Cells
		}
	}
	return res, nil
}

// Stretch 计算制表位并逐行交给 applier。
func Stretch(src LineSource, opts BuildOptions, applier Applier) error {
	if applier == nil {
		return fmt.Errorf("%w: applier 不能为空", ErrInvalidInput)
	}
	res, err := Build(src, opts)
	if err != nil {
		return err
	}
	for i, line := range res.Lines {
		if err := applier.SetTabStops(line.Start, line.End, line.Stops); err != nil {
			return fmt.Errorf("应用第 %d 行制表位失败: %w", i, err)
		}
	}
	return nil
}

func scanLines(src LineSource, m Measurer, cfg Config) ([]Line, error) {
	count := src.LineCount()
	lines := make([]Line, 0, count)
	prevEnd := 0
	for i := 0; i < count; i++ {
		span := src.LineAt(i)
		if err := checkSpan(span, prevEnd); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i, err)
		}
		line, err := scanLine(span, m, cfg)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i, err)
		}
		lines = append(lines, line)
		prevEnd = span.End
	}
	return lines, nil
}

func checkSpan(span LineSpan, prevEnd int) error {
	if span.Start < prevEnd || span.End < span.Start {
		return fmt.Errorf("%w: 行偏移 [%d, %d) 无效（上一行结束于 %d）", ErrInvalidInput, span.Start, span.End, prevEnd)
	}
	if span.End-span.Start != len(span.Text) {
		return fmt.Errorf("%w: 行偏移 [%d, %d) 与文本长度 %d 不符", ErrInvalidInput, span.Start, span.End, len(span.Text))
	}
	return nil
}
