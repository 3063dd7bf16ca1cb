// Package config 定义代码生成配置：输出目录、包布局以及模板开关。
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/modfile"
)

// 内置的层 / 模板名称，同时作为配置 key 使用
const (
	LayerDTO         = "dto"
	LayerQuery       = "query"
	LayerMapper      = "mapper"
	LayerService     = "service"
	LayerServiceImpl = "serviceImpl"
	LayerController  = "controller"
	LayerConvertor   = "convertor"
)

// Layers 内置层，按生成顺序排列
var Layers = []string{
	LayerDTO,
	LayerQuery,
	LayerMapper,
	LayerService,
	LayerServiceImpl,
	LayerConvertor,
	LayerController,
}

const (
	DefaultEntityPackageSuffix = "/dal/entity"
	DefaultControllerRoute     = "/api/{{ .ClassName | lower }}"
	DefaultHeader              = "Code generated by crudgen from {{ .ClassName }}. DO NOT EDIT."
)

func defaultPackageSuffixes() map[string]string {
	return map[string]string{
		LayerDTO:         "/dto",
		LayerQuery:       "/query",
		LayerMapper:      "/mapper",
		LayerService:     "/service",
		LayerServiceImpl: "/service/impl",
		LayerController:  "/controller",
		LayerConvertor:   "/convertor",
	}
}

func defaultTemplateEnabled() map[string]bool {
	return map[string]bool{
		LayerDTO:         true,
		LayerQuery:       true,
		LayerMapper:      true,
		LayerService:     true,
		LayerServiceImpl: true,
		LayerConvertor:   true,
		// controller 并非所有项目都需要，默认关闭，按需开启
		LayerController: false,
	}
}

// Config 代码生成配置
type Config struct {
	// OutputDir 生成代码的根目录
	OutputDir string
	// SourceDir 实体源码的根目录，为空时与 OutputDir 相同
	SourceDir string
	// ModulePath 根目录对应的模块路径，为空时从 go.mod 读取
	ModulePath string

	// BasePackage 实体包中不含 EntityPackageSuffix 时使用的基础包
	BasePackage string
	// EntityPackageSuffix 从实体包推导基础包时去除的后缀
	EntityPackageSuffix string

	// PackageSuffixes 层名 -> 包后缀
	PackageSuffixes map[string]string
	// TemplateEnabled 模板名 -> 是否启用
	TemplateEnabled map[string]bool

	// SoftDeleteColumn 非空时 serviceImpl 模板对该列注入"未删除"条件
	SoftDeleteColumn string
	// ControllerRoute controller 路由模板（text/template + sprig）
	ControllerRoute string
	// Header 生成文件头注释模板
	Header string
}

// Option 配置选项
type Option func(*Config)

// Default 返回全部默认值的配置
func Default() *Config {
	return &Config{
		OutputDir:           ".",
		EntityPackageSuffix: DefaultEntityPackageSuffix,
		PackageSuffixes:     defaultPackageSuffixes(),
		TemplateEnabled:     defaultTemplateEnabled(),
		ControllerRoute:     DefaultControllerRoute,
		Header:              DefaultHeader,
	}
}

// New 以默认配置为基础应用选项
func New(opts ...Option) *Config {
	c := Default()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithOutputDir(dir string) Option {
	return func(c *Config) { c.OutputDir = dir }
}

func WithSourceDir(dir string) Option {
	return func(c *Config) { c.SourceDir = dir }
}

func WithModulePath(path string) Option {
	return func(c *Config) { c.ModulePath = path }
}

func WithBasePackage(pkg string) Option {
	return func(c *Config) { c.BasePackage = pkg }
}

func WithEntityPackageSuffix(suffix string) Option {
	return func(c *Config) { c.EntityPackageSuffix = suffix }
}

// WithPackageSuffix 覆盖单个层的包后缀
func WithPackageSuffix(layer, suffix string) Option {
	return func(c *Config) { c.PackageSuffixes[layer] = suffix }
}

// WithTemplateEnabled 覆盖单个模板的开关
func WithTemplateEnabled(name string, enabled bool) Option {
	return func(c *Config) { c.TemplateEnabled[name] = enabled }
}

func WithSoftDeleteColumn(column string) Option {
	return func(c *Config) { c.SoftDeleteColumn = column }
}

func WithControllerRoute(route string) Option {
	return func(c *Config) { c.ControllerRoute = route }
}

func WithHeader(header string) Option {
	return func(c *Config) { c.Header = header }
}

// FullPackage 返回某一层的完整导入路径，未知层不追加后缀
func (c *Config) FullPackage(base, layer string) string {
	return base + c.PackageSuffixes[layer]
}

// IsTemplateEnabled 未注册的模板名视为关闭
func (c *Config) IsTemplateEnabled(name string) bool {
	return c.TemplateEnabled[name]
}

// Sources 返回实体源码根目录
func (c *Config) Sources() string {
	if c.SourceDir != "" {
		return c.SourceDir
	}
	return c.OutputDir
}

// Dir 将导入路径映射为 root 下的目录：在模块内时去掉模块前缀，否则整个导入路径作为相对路径
func (c *Config) Dir(root, importPath string) string {
	rel := importPath
	if mod := c.ModulePath; mod != "" {
		switch {
		case importPath == mod:
			rel = ""
		case strings.HasPrefix(importPath, mod+"/"):
			rel = strings.TrimPrefix(importPath, mod+"/")
		}
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// OutputPath 生成文件的完整路径
func (c *Config) OutputPath(importPath, fileName string) string {
	return filepath.Join(c.Dir(c.OutputDir, importPath), fileName)
}

// SourcePath 实体源文件的约定路径
func (c *Config) SourcePath(importPath, fileName string) string {
	return filepath.Join(c.Dir(c.Sources(), importPath), fileName)
}

// Clone 深拷贝
func (c *Config) Clone() *Config {
	out := *c
	out.PackageSuffixes = maps.Clone(c.PackageSuffixes)
	out.TemplateEnabled = maps.Clone(c.TemplateEnabled)
	if out.PackageSuffixes == nil {
		out.PackageSuffixes = map[string]string{}
	}
	if out.TemplateEnabled == nil {
		out.TemplateEnabled = map[string]bool{}
	}
	return &out
}

// Validate 检查配置是否完整
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output.dir 不能为空")
	}
	for _, layer := range slices.Sorted(maps.Keys(c.PackageSuffixes)) {
		suffix := c.PackageSuffixes[layer]
		if suffix != "" && !strings.HasPrefix(suffix, "/") {
			return fmt.Errorf("package.%s 必须以 / 开头: %q", layer, suffix)
		}
	}
	return nil
}

// DetectModulePath 读取 dir 及其上级目录中最近的 go.mod，返回模块路径和 go.mod 所在目录
func DetectModulePath(dir string) (string, string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ""
	}
	for {
		data, err := os.ReadFile(filepath.Join(abs, "go.mod"))
		if err == nil {
			return modfile.ModulePath(data), abs
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ""
		}
		abs = parent
	}
}

// ResolveModulePath 未显式配置模块路径时，从源码根目录的 go.mod 推导。
// 若 go.mod 位于根目录的上级，则模块路径追加相对子路径。
func (c *Config) ResolveModulePath() {
	if c.ModulePath != "" {
		return
	}
	mod, modDir := DetectModulePath(c.Sources())
	if mod == "" {
		return
	}
	root, err := filepath.Abs(c.Sources())
	if err != nil {
		return
	}
	rel, err := filepath.Rel(modDir, root)
	if err != nil || rel == "." {
		c.ModulePath = mod
		return
	}
	c.ModulePath = mod + "/" + filepath.ToSlash(rel)
}
