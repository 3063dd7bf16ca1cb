// Package convertorgen 生成实体与 DTO 之间的转换接口。
// 只生成方法签名，字段映射由外部实现提供。
package convertorgen

import (
	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/plugin"
)

type ConvertorTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*ConvertorTemplate)(nil)

func NewConvertorTemplate() *ConvertorTemplate {
	return &ConvertorTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerConvertor, config.LayerConvertor, plugin.SuffixConvertor),
	}
}

func (t *ConvertorTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	dtoName := md.ClassName + plugin.SuffixDTO
	dtoType := plugin.Ptr(f.LayerType(config.LayerDTO, plugin.SuffixDTO))
	entityType := plugin.Ptr(f.EntityType())

	plugin.Doc(f.Body(), typeName+" "+md.ClassName+" 与 "+dtoName+" 的互相转换\n\n字段映射不在生成范围内，由调用方实现此接口")
	iface := f.Body().NewInterface(typeName)
	iface.AddLineComment("ToDto 实体转换为 " + dtoName)
	iface.NewFunction("ToDto").AddParameter("item", entityType).AddResult("", dtoType)
	iface.AddLineComment("ToEntity " + dtoName + " 转换为实体")
	iface.NewFunction("ToEntity").AddParameter("d", dtoType).AddResult("", entityType)

	return plugin.NewGenerateResult(f), nil
}
