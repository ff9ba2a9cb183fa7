package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/elastab/dsl"
	"github.com/ByLCY/elastab/renderer"
	canvasrenderer "github.com/ByLCY/elastab/renderer/canvas"
	textrenderer "github.com/ByLCY/elastab/renderer/text"
	"github.com/ByLCY/elastab/tabstop"
)

// options 汇总命令行参数。
type options struct {
	Input     string
	Profile   string
	Format    string
	Output    string
	Debug     string
	Data      any
	Guides    bool
	EastAsian bool
}

func main() {
	input := flag.String("in", "", "待对齐的文本文件，- 表示标准输入")
	profile := flag.String("profile", "", ".etabs 配置文件路径，为空时使用默认配置")
	format := flag.String("format", "text", "输出格式：text|pdf|json|stops")
	output := flag.String("out", "", "输出路径，为空时写到标准输出（pdf 必须指定）")
	debug := flag.String("debug", "", "列块调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "供页眉与标题 ${...} 使用的 JSON 数据")
	guides := flag.Bool("guides", false, "在 PDF 中绘制制表位参考线")
	eastAsian := flag.Bool("east-asian", false, "歧义宽度字符按 2 格计算（text/json/stops）")
	flag.Parse()

	if *input == "" {
		log.Fatalf("必须通过 -in 指定输入文件")
	}
	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	opts := options{
		Input:     *input,
		Profile:   *profile,
		Format:    strings.ToLower(*format),
		Output:    *output,
		Debug:     *debug,
		Data:      inputData,
		Guides:    *guides,
		EastAsian: *eastAsian,
	}
	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("对齐失败: %v", err)
	}
	if opts.Output != "" {
		fmt.Printf("已生成 %s：%s\n", opts.Format, opts.Output)
	}
}

// run 串联读取、配置、制表位计算与输出。
func run(opts options, stdin io.Reader, stdout io.Writer) error {
	text, err := readInput(opts.Input, stdin)
	if err != nil {
		return err
	}
	profile, err := loadProfile(opts.Profile)
	if err != nil {
		return err
	}
	r, err := newRenderer(opts, profile)
	if err != nil {
		return err
	}
	cfg, err := profile.Tabstops.Resolve(r.SpaceWidth())
	if err != nil {
		return fmt.Errorf("制表位配置无效: %w", err)
	}

	doc := tabstop.NewDocument(text)
	buildOpts := tabstop.BuildOptions{
		Measurer: r,
		Config:   cfg,
		Debug:    tabstop.DebugOptions{Cells: opts.Debug != "" || opts.Format == "json"},
	}
	result, err := tabstop.Build(doc, buildOpts)
	if err != nil {
		return fmt.Errorf("计算制表位失败: %w", err)
	}
	if opts.Debug != "" {
		if err := writeDebug(result, opts.Debug); err != nil {
			return err
		}
	}

	var out []byte
	switch opts.Format {
	case "json":
		out, err = tabstop.MarshalDebug(result)
	case "stops":
		var sb strings.Builder
		err = tabstop.Stretch(doc, buildOpts, &stopsWriter{w: &sb})
		out = []byte(sb.String())
	default:
		out, err = r.Render(doc, result)
	}
	if err != nil {
		return fmt.Errorf("输出 %s 失败: %w", opts.Format, err)
	}
	return writeOutput(opts, out, stdout)
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("无法读取输入文件 %s: %w", path, err)
	}
	return string(data), nil
}

func loadProfile(path string) (tabstop.Profile, error) {
	if path == "" {
		return tabstop.DefaultProfile(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return tabstop.Profile{}, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return tabstop.Profile{}, fmt.Errorf("解析配置失败: %w", err)
	}
	profile, err := tabstop.LoadProfile(doc)
	if err != nil {
		return tabstop.Profile{}, fmt.Errorf("加载配置失败: %w", err)
	}
	return profile, nil
}

func newRenderer(opts options, profile tabstop.Profile) (renderer.Renderer, error) {
	switch opts.Format {
	case "text", "json", "stops":
		return textrenderer.NewRenderer(opts.EastAsian), nil
	case "pdf":
		if opts.Output == "" {
			return nil, fmt.Errorf("pdf 输出必须通过 -out 指定文件")
		}
		baseDir := ""
		if opts.Profile != "" {
			baseDir = filepath.Dir(opts.Profile)
		}
		return canvasrenderer.NewRenderer(canvasrenderer.Options{
			BaseDir: baseDir,
			Profile: profile,
			Data:    withFileName(opts.Data, opts.Input),
			Guides:  opts.Guides,
		})
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
}

// withFileName 让 ${file} 总是可用，调用方提供的 file 优先。
func withFileName(data any, input string) any {
	name := filepath.Base(input)
	if input == "-" {
		name = "stdin"
	}
	switch v := data.(type) {
	case nil:
		return map[string]any{"file": name}
	case map[string]any:
		if _, ok := v["file"]; !ok {
			v["file"] = name
		}
		return v
	default:
		return data
	}
}

func writeOutput(opts options, out []byte, stdout io.Writer) error {
	if opts.Output == "" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *tabstop.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := tabstop.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// stopsWriter 是命令行自带的 Applier：每行输出 "start-end<TAB>s1,s2,..."。
type stopsWriter struct {
	w io.Writer
}

func (s *stopsWriter) SetTabStops(start, end int, stops []int) error {
	parts := make([]string, len(stops))
	for i, v := range stops {
		parts[i] = strconv.Itoa(v)
	}
	_, err := fmt.Fprintf(s.w, "%d-%d\t%s\n", start, end, strings.Join(parts, ","))
	return err
}
