package tabstop

import (
	"errors"
	"fmt"
)

// ErrInvalidInput 表示调用方违反了前置条件（配置、行偏移或字宽非法）。
var ErrInvalidInput = errors.New("tabstop: invalid input")

// DefaultMaxColumns 是列网格的默认上限，超出的列不参与对齐。
const DefaultMaxColumns = 64

// Config 控制单元格宽度的计算方式，单位均为像素。
type Config struct {
	Multiple   int `json:"multiple"`   // 宽度向上取整的倍数，必须 > 0
	Minimum    int `json:"minimum"`    // 最小宽度
	Padding    int `json:"padding"`    // 追加在宽度之后的留白
	MaxColumns int `json:"maxColumns"` // 参与对齐的最大列数
}

// DefaultConfig 根据空格宽度推导默认配置：留白一个空格，最小四个空格。
func DefaultConfig(spaceWidth int) Config {
	return Config{
		Multiple:   1,
		Minimum:    4 * spaceWidth,
		Padding:    spaceWidth,
		MaxColumns: DefaultMaxColumns,
	}
}

// GridConfig 让制表位落在 32 像素的倍数上，外加 8 像素留白。
func GridConfig() Config {
	return Config{
		Multiple:   32,
		Minimum:    0,
		Padding:    8,
		MaxColumns: DefaultMaxColumns,
	}
}

// Validate 检查配置是否满足前置条件。
func (c Config) Validate() error {
	switch {
	case c.Multiple <= 0:
		return fmt.Errorf("%w: multiple 必须大于 0，实际 %d", ErrInvalidInput, c.Multiple)
	case c.Minimum < 0:
		return fmt.Errorf("%w: minimum 不能为负数，实际 %d", ErrInvalidInput, c.Minimum)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding 不能为负数，实际 %d", ErrInvalidInput, c.Padding)
	case c.MaxColumns <= 0:
		return fmt.Errorf("%w: maxColumns 必须大于 0，实际 %d", ErrInvalidInput, c.MaxColumns)
	}
	return nil
}

// BuildOptions 配置一次计算所需的依赖：字宽度量、宽度规则与调试输出。
type BuildOptions struct {
	Measurer Measurer
	Config   Config
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Cells bool // 在结果中保留每行的单元格明细
}

// Measurer 返回单个字符的像素宽度，结果必须是非负整数。
type Measurer interface {
	CharWidth(r rune) int
}

// WidthFunc adapts a plain function to the Measurer interface.
type WidthFunc func(r rune) int

func (f WidthFunc) CharWidth(r rune) int { return f(r) }

// Applier 把计算出的制表位写回宿主（例如段落属性）。
type Applier interface {
	SetTabStops(start, end int, stops []int) error
}
