// Package plugintest 模板测试辅助函数。
package plugintest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/internal/fixture"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

// Config 测试用配置，输出到 /work
func Config(opts ...config.Option) *config.Config {
	base := []config.Option{
		config.WithModulePath(fixture.ModulePath),
		config.WithOutputDir("/work"),
	}
	return config.New(append(base, opts...)...)
}

// Generate 执行模板并要求恰好产出一个文件，返回文件路径与渲染后的源码
func Generate(t *testing.T, tpl plugin.Template, md *meta.EntityMetadata, cfg *config.Config) (string, string) {
	t.Helper()

	result, err := tpl.Generate(plugin.NewGenerateContext(md, cfg, nil))
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	src, err := result.Files[0].Render()
	require.NoError(t, err)
	return result.Files[0].Path, string(src)
}

// Compact 合并连续空白，断言时不受 gofmt 对齐影响
func Compact(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
