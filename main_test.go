package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/generator"
	"github.com/donutnomad/crudgen/meta"
)

const entitySource = `package entity

// User 用户
// @Entity
type User struct {
	ID   int64 ` + "`gorm:\"primaryKey\"`" + `
	Name string
}
`

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/acme/demo\n"), 0o644))
	dir := filepath.Join(root, "model", "dal", "entity")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.go"), []byte(entitySource), 0o644))
	return root
}

func TestIsGeneratedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"model/dto/user_dto.go", true},
		{"model/service/impl/user_service_impl.go", true},
		{"model/controller/user_controller.go", true},
		{"model/dal/entity/user_test.go", true},
		{"model/dal/entity/user.go", false},
		{"model/dal/entity/order_item.go", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isGeneratedFile(tt.path), tt.path)
	}
}

func TestCollectWatchDirs(t *testing.T) {
	root := writeProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "testdata", "x"), 0o755))

	dirs, err := collectWatchDirs([]string{root + "/..."})
	require.NoError(t, err)
	assert.Contains(t, dirs, root)
	assert.Contains(t, dirs, filepath.Join(root, "model", "dal", "entity"))
	assert.NotContains(t, dirs, filepath.Join(root, ".git"))
	assert.NotContains(t, dirs, filepath.Join(root, "testdata"))

	dirs, err = collectWatchDirs([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{root}, dirs)
}

func TestResolveRefs(t *testing.T) {
	root := writeProject(t)
	cfg := config.New(config.WithOutputDir(root))
	cfg.ResolveModulePath()

	refs, err := resolveRefs(context.Background(), cfg, []string{
		root + "/...",
		"github.com/acme/demo/model/dal/entity.User",
		"github.com/acme/demo/model/dal/entity.Order",
	})
	require.NoError(t, err)
	// 扫描结果与显式引用重复时去重
	require.Len(t, refs, 2)
	assert.Equal(t, "github.com/acme/demo/model/dal/entity.User", refs[0].String())
	assert.Equal(t, "Order", refs[1].Name)

	_, err = resolveRefs(context.Background(), cfg, []string{"User"})
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	opts := &options{
		configFile: filepath.Join(t.TempDir(), "missing.properties"),
		output:     "./out",
		module:     "github.com/acme/demo",
		enable:     []string{"controller"},
		disable:    []string{"convertor"},
	}
	cfg, err := opts.loadConfig(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "github.com/acme/demo", cfg.ModulePath)
	assert.True(t, cfg.IsTemplateEnabled("controller"))
	assert.False(t, cfg.IsTemplateEnabled("convertor"))

	opts.enable = []string{"repository"}
	_, err = opts.loadConfig(zap.NewNop())
	assert.ErrorContains(t, err, "repository")
}

func TestSummarize(t *testing.T) {
	ok := &generator.Report{Results: []generator.TemplateResult{
		{Template: "dto", Status: generator.StatusSucceeded, Files: []generator.FileResult{{Path: "a.go", Changed: true}}},
	}}
	failed := &generator.Report{Results: []generator.TemplateResult{
		{Template: "dto", Status: generator.StatusFailed, Err: errors.New("boom")},
	}}

	assert.NoError(t, summarize([]*generator.Report{ok}, nil, false))
	assert.ErrorContains(t, summarize([]*generator.Report{ok}, nil, true), "1 个生成文件")
	assert.ErrorContains(t, summarize([]*generator.Report{ok, failed}, nil, false), "boom")
	assert.Error(t, summarize(nil, &meta.NotFoundError{}, false))
}

func TestGenCommand(t *testing.T) {
	root := writeProject(t)
	opts := &options{configFile: filepath.Join(root, "codegen.properties"), output: root, logFormat: "console"}

	var out bytes.Buffer
	cmd := genCmd(opts)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json", root + "/..."})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"state": "completed"`)
	assert.FileExists(t, filepath.Join(root, "model", "dto", "user_dto.go"))

	// 刚生成过，check 模式没有差异
	out.Reset()
	cmd = genCmd(opts)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--check", root + "/..."})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "= dto")
}

func TestExampleEntity(t *testing.T) {
	opts := &options{configFile: filepath.Join("examples", "codegen.properties")}
	cfg, err := opts.loadConfig(zap.NewNop())
	require.NoError(t, err)
	assert.True(t, cfg.IsTemplateEnabled("controller"))

	refs, err := resolveRefs(context.Background(), cfg, []string{"./examples/..."})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "github.com/donutnomad/crudgen/examples/model/dal/entity.Account", refs[0].String())

	report, err := generator.New(cfg, generator.WithDryRun(true)).Generate(refs[0])
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Len(t, report.Succeeded(), 7)
	assert.Equal(t, "accounts", report.Metadata.TableName)
}
