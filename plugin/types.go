package plugin

import (
	"fmt"

	"github.com/donutnomad/gg"
	"go.uber.org/zap"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/crudgen/meta"
)

// GenerateContext 生成上下文，传递给 Template
// Metadata 与 Config 均为副本，模板可以随意修改而不影响其他模板
type GenerateContext struct {
	Metadata *meta.EntityMetadata
	Config   *config.Config
	Logger   *zap.Logger
}

// NewGenerateContext 创建生成上下文，logger 为空时使用 Nop
func NewGenerateContext(md *meta.EntityMetadata, cfg *config.Config, logger *zap.Logger) *GenerateContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateContext{
		Metadata: md,
		Config:   cfg,
		Logger:   logger,
	}
}

// File 一个待输出的文件
// 导入在首次引用时登记，未用到的包不会出现在 import 中
type File struct {
	Path string        // 输出文件完整路径
	Gen  *gg.Generator // 文件定义

	ctx     *GenerateContext
	pkgPath string                    // 文件自身的导入路径
	aliases map[string]string         // 导入路径 -> 实体源文件中使用的包名
	owners  map[string]string         // 已占用的包名 -> 导入路径
	refs    map[string]*gg.PackageRef // 已登记的包
}

func newFile(ctx *GenerateContext, path, pkgPath string) *File {
	f := &File{
		Path:    path,
		Gen:     gg.New().SetPackage(utils.ToPackageName(pkgPath)),
		ctx:     ctx,
		pkgPath: pkgPath,
		aliases: make(map[string]string),
		owners:  make(map[string]string),
		refs:    make(map[string]*gg.PackageRef),
	}
	md := ctx.Metadata
	for alias, importPath := range md.Imports {
		f.aliases[importPath] = alias
	}
	if md.PackageClause != "" {
		f.aliases[md.PackageName] = md.PackageClause
	}
	return f
}

// Body 文件主体
func (f *File) Body() *gg.Group {
	return f.Gen.Body()
}

// Pkg 登记并返回包引用
// 包名优先沿用实体源文件中的写法，否则由导入路径推导，重名时追加序号
func (f *File) Pkg(importPath string) *gg.PackageRef {
	if ref, ok := f.refs[importPath]; ok {
		return ref
	}
	alias, ok := f.aliases[importPath]
	if !ok {
		alias = utils.ToPackageName(importPath)
	}

	for base, i := alias, 2; f.owners[alias] != ""; i++ {
		alias = fmt.Sprintf("%s%d", base, i)
	}
	ref := f.Gen.PAlias(importPath, alias)
	f.refs[importPath] = ref
	f.owners[alias] = importPath
	return ref
}

// Qual 引用包内的标识符，同包时不加限定
func (f *File) Qual(importPath, name string) gg.Node {
	if importPath == "" || importPath == f.pkgPath {
		return gg.S(name)
	}
	return f.Pkg(importPath).Type(name)
}

// Render 渲染为格式化后的 Go 源码
func (f *File) Render() ([]byte, error) {
	return utils.FormatSource(f.Path, []byte(f.Gen.String()))
}

// GenerateResult 生成结果
// Template 返回 gg 文件定义，由编排器统一渲染
type GenerateResult struct {
	Files []*File
}

// NewGenerateResult 创建新的生成结果
func NewGenerateResult(files ...*File) *GenerateResult {
	return &GenerateResult{Files: files}
}

// TemplateGenerationError 单个模板对单个实体生成失败
type TemplateGenerationError struct {
	Template string
	Entity   string
	Cause    error
}

func (e *TemplateGenerationError) Error() string {
	return fmt.Sprintf("模板 %s 生成 %s 失败: %v", e.Template, e.Entity, e.Cause)
}

func (e *TemplateGenerationError) Unwrap() error {
	return e.Cause
}
