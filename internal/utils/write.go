package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// FormatSource 使用 goimports 规则格式化源码（仅格式化，不增删 import）
func FormatSource(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("格式化 %s 失败: %w", filename, err)
	}
	return out, nil
}

// WriteFile 写入文件，目录不存在时自动创建
func WriteFile(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", filename, err)
	}
	return nil
}

// SameContent 判断磁盘上的文件内容是否与 data 完全一致，文件不存在时返回 false
func SameContent(filename string, data []byte) bool {
	existing, err := os.ReadFile(filename)
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}
