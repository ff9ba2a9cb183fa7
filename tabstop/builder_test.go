package tabstop

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// unitMeasurer 是测试用的度量：每个字符 1 像素，避免引入 renderer 造成循环依赖。
var unitMeasurer = WidthFunc(func(rune) int { return 1 })

// plainConfig 不加留白、不设最小值，宽度即字符数。
var plainConfig = Config{Multiple: 1, Minimum: 0, Padding: 0, MaxColumns: DefaultMaxColumns}

func buildLines(t *testing.T, lines []string, cfg Config) *Result {
	t.Helper()
	res, err := Build(DocumentFromLines(lines), BuildOptions{Measurer: unitMeasurer, Config: cfg, Debug: DebugOptions{Cells: true}})
	if err != nil {
		t.Fatalf("计算制表位失败: %v", err)
	}
	return res
}

func stopsOf(res *Result) [][]int {
	out := make([][]int, len(res.Lines))
	for i, l := range res.Lines {
		out[i] = l.Stops
	}
	return out
}

func assertStops(t *testing.T, res *Result, want [][]int) {
	t.Helper()
	got := stopsOf(res)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("制表位不符:\n got=%v\nwant=%v", got, want)
	}
}

func TestScenarioTwoLines(t *testing.T) {
	res := buildLines(t, []string{"a\tb\n", "aa\tbb\n"}, plainConfig)
	assertStops(t, res, [][]int{{2}, {2}})
}

func TestScenarioNoTabs(t *testing.T) {
	res := buildLines(t, []string{"x\n"}, plainConfig)
	if len(res.Lines) != 1 || len(res.Lines[0].Stops) != 0 {
		t.Fatalf("无制表符的行应没有制表位，实际 %v", stopsOf(res))
	}
}

func TestScenarioWidestMiddleLine(t *testing.T) {
	res := buildLines(t, []string{"a\tb\tc\n", "aaaa\tb\tc\n", "a\tb\tc\n"}, plainConfig)
	assertStops(t, res, [][]int{{4, 5}, {4, 5}, {4, 5}})
}

// 单列列块的制表位等于块内最宽单元格。
func TestSingleColumnBlockTakesMax(t *testing.T) {
	widths := []int{3, 7, 1, 5}
	lines := make([]string, len(widths))
	for i, w := range widths {
		lines[i] = fmt.Sprintf("%s\tx\n", repeat('a', w))
	}
	res := buildLines(t, lines, plainConfig)
	for i, l := range res.Lines {
		if len(l.Stops) != 1 || l.Stops[0] != 7 {
			t.Fatalf("第 %d 行制表位应为 7，实际 %v", i, l.Stops)
		}
	}
}

func TestWideningAndNarrowing(t *testing.T) {
	base := []string{"a\tx\n", "bbb\tx\n", "cc\tx\n"}
	assertStops(t, buildLines(t, base, plainConfig), [][]int{{3}, {3}, {3}})

	widened := []string{"a\tx\n", "bbb\tx\n", "cccccc\tx\n"}
	assertStops(t, buildLines(t, widened, plainConfig), [][]int{{6}, {6}, {6}})

	// 缩窄到不再是最宽时，列块宽度不变。
	narrowed := []string{"a\tx\n", "bbb\tx\n", "c\tx\n"}
	assertStops(t, buildLines(t, narrowed, plainConfig), [][]int{{3}, {3}, {3}})
}

// 空行把文档分成两个列块，后一个列块的单元格数变化不影响前一个。
func TestUnrelatedBlocksUnaffected(t *testing.T) {
	first := []string{"id\tname\n", "1\talice\n", "\n"}
	a := buildLines(t, append(append([]string{}, first...), "k\tv\n", "kk\tvv\n"), plainConfig)
	b := buildLines(t, append(append([]string{}, first...), "\tk\tv\tw\n", "kkkkkkkk\tv\n"), plainConfig)
	for i := range first {
		if !reflect.DeepEqual(a.Lines[i].Stops, b.Lines[i].Stops) {
			t.Fatalf("第 %d 行受到了无关列块的影响: %v vs %v", i, a.Lines[i].Stops, b.Lines[i].Stops)
		}
	}
	assertStops(t, a, [][]int{{2}, {2}, {}, {2}, {2}})
}

func TestIdempotent(t *testing.T) {
	doc := NewDocument("a\tbb\tc\n\tx\tyyy\tz\nqqqq\tr\n")
	opts := BuildOptions{Measurer: unitMeasurer, Config: DefaultConfig(1)}
	first, err := Build(doc, opts)
	if err != nil {
		t.Fatalf("第一次计算失败: %v", err)
	}
	second, err := Build(doc, opts)
	if err != nil {
		t.Fatalf("第二次计算失败: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("两次计算结果不同:\n%v\n%v", stopsOf(first), stopsOf(second))
	}
}

// 空单元格宽度为 0 时，制表位仍然严格递增。
func TestStopsStrictlyIncreasing(t *testing.T) {
	res := buildLines(t, []string{"\t\t\tx\n", "a\t\tbb\tx\n"}, plainConfig)
	for i, l := range res.Lines {
		for k := 1; k < len(l.Stops); k++ {
			if l.Stops[k] <= l.Stops[k-1] {
				t.Fatalf("第 %d 行制表位未严格递增: %v", i, l.Stops)
			}
		}
	}
}

// 超出列上限的列不参与对齐，只占自身宽度。
func TestColumnsBeyondCapNotAligned(t *testing.T) {
	cfg := plainConfig
	cfg.MaxColumns = 1
	res := buildLines(t, []string{"a\tbb\tx\n", "aaa\tb\tx\n"}, cfg)
	assertStops(t, res, [][]int{{3, 5}, {3, 4}})
	if res.Lines[0].Cells[1].Block != NoBlock {
		t.Fatalf("超出上限的单元格不应属于列块")
	}
}

// 超出列上限的单元格不加留白和最小值。
func TestColumnsBeyondCapUseRawWidth(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.MaxColumns = 1
	res := buildLines(t, []string{"a\tbb\tx\n", "aaa\tb\tx\n"}, cfg)
	assertStops(t, res, [][]int{{5, 7}, {5, 6}})
}

func TestDefaultConfigPadding(t *testing.T) {
	// 留白 1、最小 4：短单元格被拉到 4，再加 1。
	res := buildLines(t, []string{"a\tb\n", "abcdef\tb\n"}, DefaultConfig(1))
	assertStops(t, res, [][]int{{7}, {7}})
	res = buildLines(t, []string{"a\tb\n", "ab\tb\n"}, DefaultConfig(1))
	assertStops(t, res, [][]int{{5}, {5}})
}

func TestDebugCellsOnlyWhenRequested(t *testing.T) {
	res, err := Build(NewDocument("a\tb\n"), BuildOptions{Measurer: unitMeasurer, Config: plainConfig})
	if err != nil {
		t.Fatalf("计算失败: %v", err)
	}
	if res.Lines[0].Cells != nil {
		t.Fatalf("未开启调试时不应输出单元格明细")
	}
	res = buildLines(t, []string{"a\tb\n"}, plainConfig)
	if len(res.Lines[0].Cells) != 2 || res.Lines[0].Cells[0].Stop != 1 {
		t.Fatalf("调试明细不符: %+v", res.Lines[0].Cells)
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	doc := NewDocument("a\tb\n")
	cases := map[string]BuildOptions{
		"缺少度量":       {Config: plainConfig},
		"multiple 为 0": {Measurer: unitMeasurer, Config: Config{Multiple: 0, MaxColumns: 1}},
		"负的 padding":   {Measurer: unitMeasurer, Config: Config{Multiple: 1, Padding: -1, MaxColumns: 1}},
		"列上限为 0":      {Measurer: unitMeasurer, Config: Config{Multiple: 1}},
		"负的字宽":        {Measurer: WidthFunc(func(rune) int { return -1 }), Config: plainConfig},
	}
	for name, opts := range cases {
		if _, err := Build(doc, opts); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: 期望 ErrInvalidInput，实际 %v", name, err)
		}
	}
	if _, err := Build(nil, BuildOptions{Measurer: unitMeasurer, Config: plainConfig}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("文档为空时期望 ErrInvalidInput，实际 %v", err)
	}
}

type spanSource []LineSpan

func (s spanSource) LineCount() int        { return len(s) }
func (s spanSource) LineAt(i int) LineSpan { return s[i] }

func TestBuildRejectsBadSpans(t *testing.T) {
	cases := map[string]spanSource{
		"长度不符": {{Start: 0, End: 5, Text: "a\tb\n"}},
		"区间倒置": {{Start: 4, End: 0, Text: ""}},
		"行重叠":  {{Start: 0, End: 4, Text: "a\tb\n"}, {Start: 2, End: 6, Text: "c\td\n"}},
	}
	for name, src := range cases {
		if _, err := Build(src, BuildOptions{Measurer: unitMeasurer, Config: plainConfig}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: 期望 ErrInvalidInput，实际 %v", name, err)
		}
	}
}

type recordingApplier struct {
	calls [][3]any
	fail  bool
}

func (a *recordingApplier) SetTabStops(start, end int, stops []int) error {
	if a.fail {
		return errors.New("boom")
	}
	a.calls = append(a.calls, [3]any{start, end, stops})
	return nil
}

func TestStretchAppliesEveryLine(t *testing.T) {
	app := &recordingApplier{}
	doc := NewDocument("a\tb\naa\tbb\nx")
	if err := Stretch(doc, BuildOptions{Measurer: unitMeasurer, Config: plainConfig}, app); err != nil {
		t.Fatalf("Stretch 失败: %v", err)
	}
	want := [][3]any{{0, 4, []int{2}}, {4, 10, []int{2}}, {10, 11, []int{}}}
	if !reflect.DeepEqual(app.calls, want) {
		t.Fatalf("applier 调用不符:\n got=%v\nwant=%v", app.calls, want)
	}

	if err := Stretch(doc, BuildOptions{Measurer: unitMeasurer, Config: plainConfig}, &recordingApplier{fail: true}); err == nil {
		t.Fatalf("applier 出错时应返回错误")
	}
	if err := Stretch(doc, BuildOptions{Measurer: unitMeasurer, Config: plainConfig}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("applier 为空时期望 ErrInvalidInput，实际 %v", err)
	}
}

func repeat(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
