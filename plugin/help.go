package plugin

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/donutnomad/crudgen/config"
)

// Layered 可报告输出层的模板
type Layered interface {
	Layer() string
}

// FormatTemplateTable 为所有注册的模板生成列表文本
func FormatTemplateTable(registry *Registry, cfg *config.Config) string {
	templates := registry.Templates()
	if len(templates) == 0 {
		return "  (暂无已注册的模板)\n"
	}

	rows := [][]string{{"模板", "包后缀", "状态"}}
	for _, tpl := range templates {
		suffix := "-"
		if l, ok := tpl.(Layered); ok {
			suffix = cfg.PackageSuffixes[l.Layer()]
		}
		status := "关闭"
		if cfg.IsTemplateEnabled(tpl.Name()) {
			status = "启用"
		}
		rows = append(rows, []string{tpl.Name(), suffix, status})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(" ")
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(fmt.Sprintf(" %s", cell))
				continue
			}
			sb.WriteString(fmt.Sprintf(" %s", runewidth.FillRight(cell, widths[i])))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
