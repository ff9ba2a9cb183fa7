package tabstop

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarshalDebug 把计算结果编码为缩进的 JSON，-format json 与调试文件共用。
func MarshalDebug(res *Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("计算结果为空")
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteDebugJSON 将计算结果写入文件，便于查看列块的划分与宽度。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := MarshalDebug(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
