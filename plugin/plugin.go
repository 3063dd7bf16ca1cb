package plugin

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/crudgen/meta"
)

// Template 是代码模板接口
// 每个模板（如 dto、mapper）需要实现此接口
type Template interface {
	// Name 返回模板名称，同时作为配置中的开关 key
	Name() string

	// Generate 执行代码生成
	// 返回的 GenerateResult 包含 gg 文件定义，由编排器统一渲染和写入
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// BaseTemplate 提供基础实现，可嵌入
type BaseTemplate struct {
	name   string
	layer  string // 输出所在的层，决定包后缀
	suffix string // 生成的类型名后缀，如 Dto、Mapper
}

func NewBaseTemplate(name, layer, suffix string) *BaseTemplate {
	return &BaseTemplate{
		name:   name,
		layer:  layer,
		suffix: suffix,
	}
}

func (t *BaseTemplate) Name() string {
	return t.name
}

func (t *BaseTemplate) Layer() string {
	return t.layer
}

// TypeName 生成的类型名，如 UserDto
func (t *BaseTemplate) TypeName(md *meta.EntityMetadata) string {
	return md.ClassName + t.suffix
}

// PackagePath 生成代码所在包的导入路径
func (t *BaseTemplate) PackagePath(ctx *GenerateContext) string {
	return ctx.Config.FullPackage(ctx.Metadata.BasePackage, t.layer)
}

// OutputPath 生成文件的完整路径
// 文件名取类型名的 snake_case 形式，如 UserServiceImpl -> user_service_impl.go，
// 目录由包路径相对模块路径的部分决定
func (t *BaseTemplate) OutputPath(ctx *GenerateContext) string {
	return ctx.Config.OutputPath(t.PackagePath(ctx), utils.ToFileName(t.TypeName(ctx.Metadata)))
}

// NewFile 创建带文件头注释的文件，包名取导入路径的最后一段
func (t *BaseTemplate) NewFile(ctx *GenerateContext) (*File, error) {
	header, err := RenderText(ctx.Config.Header, ctx.Metadata)
	if err != nil {
		return nil, fmt.Errorf("渲染文件头失败: %w", err)
	}

	f := newFile(ctx, t.OutputPath(ctx), t.PackagePath(ctx))
	if header = strings.TrimSpace(header); header != "" {
		lines := strings.Split(header, "\n")
		for i := 1; i < len(lines); i++ {
			lines[i] = strings.TrimRight("// "+lines[i], " \t")
		}
		// 空行隔开，避免成为包文档
		f.Gen.SetHeader("%s\n", strings.Join(lines, "\n"))
	}
	return f, nil
}

// RenderText 以实体元数据为数据渲染 text/template，支持 sprig 函数
func RenderText(text string, md *meta.EntityMetadata) (string, error) {
	if text == "" {
		return "", nil
	}
	tpl, err := template.New("text").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, md); err != nil {
		return "", err
	}
	return buf.String(), nil
}
