// Package dtogen 生成数据传输对象与查询对象。
package dtogen

import (
	"fmt"

	"github.com/donutnomad/gg"
	"github.com/samber/lo"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

// DtoTemplate 每个实体字段生成一个同名属性，文档原样保留
type DtoTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*DtoTemplate)(nil)

func NewDtoTemplate() *DtoTemplate {
	return &DtoTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerDTO, config.LayerDTO, plugin.SuffixDTO),
	}
}

func (t *DtoTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	plugin.TypeDoc(f.Body(), typeName, md.ClassName+" 数据传输对象", md.ClassDoc)
	fields := gg.NewGroup()
	for _, field := range md.Fields {
		plugin.Doc(fields, field.Documentation)
		fields.Append(plugin.Field(field.Name, f.Type(field.Type), fmt.Sprintf(`json:"%s"`, JSONName(field))))
	}
	f.Body().AddType(typeName, plugin.Block("struct", fields))

	return plugin.NewGenerateResult(f), nil
}

// JSONName 字段的 JSON 名称，小驼峰
func JSONName(field meta.FieldMetadata) string {
	return lo.CamelCase(field.Name)
}
