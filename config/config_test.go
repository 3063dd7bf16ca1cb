package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "/dal/entity", cfg.EntityPackageSuffix)
	assert.Equal(t, "/dto", cfg.PackageSuffixes[LayerDTO])
	assert.Equal(t, "/service/impl", cfg.PackageSuffixes[LayerServiceImpl])

	for _, layer := range Layers {
		if layer == LayerController {
			assert.False(t, cfg.IsTemplateEnabled(layer), layer)
			continue
		}
		assert.True(t, cfg.IsTemplateEnabled(layer), layer)
	}
	assert.False(t, cfg.IsTemplateEnabled("repository"))
	assert.NoError(t, cfg.Validate())
}

func TestNewOptions(t *testing.T) {
	cfg := New(
		WithOutputDir("/tmp/out"),
		WithPackageSuffix(LayerMapper, "/repo"),
		WithTemplateEnabled(LayerController, true),
		WithSoftDeleteColumn("deleted"),
	)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "github.com/acme/demo/model/repo", cfg.FullPackage("github.com/acme/demo/model", LayerMapper))
	assert.True(t, cfg.IsTemplateEnabled(LayerController))
	assert.Equal(t, "deleted", cfg.SoftDeleteColumn)

	// 默认配置不受影响
	assert.Equal(t, "/mapper", Default().PackageSuffixes[LayerMapper])
}

func TestClone(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.PackageSuffixes[LayerDTO] = "/changed"
	cp.TemplateEnabled[LayerDTO] = false

	assert.Equal(t, "/dto", cfg.PackageSuffixes[LayerDTO])
	assert.True(t, cfg.TemplateEnabled[LayerDTO])
}

func TestDir(t *testing.T) {
	cfg := New(WithModulePath("github.com/acme/demo"), WithOutputDir("/work"))

	assert.Equal(t, filepath.FromSlash("/work/model/dto"), cfg.Dir("/work", "github.com/acme/demo/model/dto"))
	assert.Equal(t, filepath.FromSlash("/work"), cfg.Dir("/work", "github.com/acme/demo"))
	// 模块外的包使用完整导入路径
	assert.Equal(t, filepath.FromSlash("/work/example.com/x/dto"), cfg.Dir("/work", "example.com/x/dto"))
	assert.Equal(t, filepath.FromSlash("/work/model/dto/user_dto.go"), cfg.OutputPath("github.com/acme/demo/model/dto", "user_dto.go"))
}

func TestLoadProperties(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "codegen.properties"))
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "github.com/acme/demo/model", cfg.BasePackage)
	assert.Equal(t, "/api/dto", cfg.PackageSuffixes[LayerDTO])
	assert.Equal(t, "/query", cfg.PackageSuffixes[LayerQuery])
	assert.True(t, cfg.IsTemplateEnabled(LayerController))
	assert.False(t, cfg.IsTemplateEnabled(LayerConvertor))
	assert.Equal(t, "deleted", cfg.SoftDeleteColumn)
	assert.Equal(t, "/v1/{{ .ClassName | kebabcase }}", cfg.ControllerRoute)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "codegen.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./gen", cfg.OutputDir)
	assert.Equal(t, "github.com/acme/demo", cfg.ModulePath)
	assert.Equal(t, "/dal/mapper", cfg.PackageSuffixes[LayerMapper])
	assert.True(t, cfg.IsTemplateEnabled(LayerController))
	assert.False(t, cfg.IsTemplateEnabled(LayerQuery))
	assert.True(t, cfg.IsTemplateEnabled(LayerDTO))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		missing bool
		errMsg  string
	}{
		{name: "missing", file: "nope.properties", missing: true, errMsg: "不存在"},
		{name: "unknown key", file: "unknown.properties", errMsg: "package.repository"},
		{name: "bad bool", file: "badbool.properties", errMsg: "template.dto.enabled"},
		{name: "bad suffix", file: "badsuffix.yaml", errMsg: "package.dto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join("testdata", tt.file))
			require.Error(t, err)
			assert.Nil(t, cfg)

			var loadErr *ConfigLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.missing, loadErr.Missing)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codegen.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1"), 0o644))

	_, err := Load(path)
	var loadErr *ConfigLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), ".toml")
}

func TestLoadOrDefault(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	cfg := LoadOrDefault(filepath.Join("testdata", "nope.properties"), logger)
	assert.Equal(t, Default(), cfg)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "nope.properties", filepath.Base(logs.All()[0].ContextMap()["path"].(string)))

	cfg = LoadOrDefault(filepath.Join("testdata", "codegen.properties"), logger)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, 1, logs.Len())
}

func TestResolveModulePath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/acme/demo\n\ngo 1.22\n"), 0o644))
	sub := filepath.Join(root, "internal", "app")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg := New(WithSourceDir(root))
	cfg.ResolveModulePath()
	assert.Equal(t, "github.com/acme/demo", cfg.ModulePath)

	cfg = New(WithSourceDir(sub))
	cfg.ResolveModulePath()
	assert.Equal(t, "github.com/acme/demo/internal/app", cfg.ModulePath)

	cfg = New(WithSourceDir(sub), WithModulePath("example.com/fixed"))
	cfg.ResolveModulePath()
	assert.Equal(t, "example.com/fixed", cfg.ModulePath)
}
