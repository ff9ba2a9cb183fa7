package tabstop

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by profiles; the engine itself only sees pixels.

// Unit is the unit a length was written with in a profile.
type Unit int

const (
	UnitNone  Unit = iota // unit-less numbers, treated as pixels
	UnitPX                // pixels (1/96 in)
	UnitSpace             // multiples of the width of ' '
	UnitPT                // points
	UnitMM                // millimeters
)

// Conversion constants between pt, mm and px.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
	MmToPx = 96 / 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitSpace:
		return "sp"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + UnitToString(l.Unit)
}

// Pixels 把长度换算成整数像素，sp 以 spaceWidth 为基准，结果四舍五入。
func (l Length) Pixels(spaceWidth int) int {
	var px float64
	switch l.Unit {
	case UnitSpace:
		px = l.Value * float64(spaceWidth)
	case UnitPT:
		px = l.Value * PtToMm * MmToPx
	case UnitMM:
		px = l.Value * MmToPx
	default:
		px = l.Value
	}
	return int(math.Round(px))
}

// ToMM 换算为毫米；sp 无法脱离字体换算，按 0 处理。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToMm
	case UnitMM:
		return l.Value
	case UnitPX, UnitNone:
		return l.Value * PxToMm
	default:
		return 0
	}
}

func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }

// ParseLength parses a profile length string preserving its unit.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"sp", UnitSpace}, {"pt", UnitPT}, {"mm", UnitMM}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度 %q 不能为负数", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
