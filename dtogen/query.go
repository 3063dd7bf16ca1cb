package dtogen

import (
	"fmt"

	"github.com/donutnomad/gg"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/plugin"
)

// QueryTemplate 与 DTO 字段一一对应，但全部为可空类型，用于过滤条件
// 未提供的字段不参与查询
type QueryTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*QueryTemplate)(nil)

func NewQueryTemplate() *QueryTemplate {
	return &QueryTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerQuery, config.LayerQuery, plugin.SuffixQuery),
	}
}

func (t *QueryTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	plugin.TypeDoc(f.Body(), typeName, md.ClassName+" 查询条件，未赋值的字段不参与过滤", md.ClassDoc)
	fields := gg.NewGroup()
	for _, field := range md.Fields {
		name := JSONName(field)
		plugin.Doc(fields, field.Documentation)
		fields.Append(plugin.Field(field.Name, f.Type(field.Type.Nullable()),
			fmt.Sprintf(`form:"%s" json:"%s,omitempty"`, name, name)))
	}
	f.Body().AddType(typeName, plugin.Block("struct", fields))

	return plugin.NewGenerateResult(f), nil
}
