// Package mappergen 生成数据访问层接口及其 gorm 实现的构造函数。
package mappergen

import (
	"github.com/donutnomad/gg"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/plugin"
)

const gormPackage = "gorm.io/gorm"

// MapperTemplate 生成的接口嵌入 crud.Mapper，以实体和标识字段类型实例化
type MapperTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*MapperTemplate)(nil)

func NewMapperTemplate() *MapperTemplate {
	return &MapperTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerMapper, config.LayerMapper, plugin.SuffixMapper),
	}
}

func (t *MapperTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	crud := f.Crud()
	entity, id := f.EntityType(), f.IDType()

	plugin.TypeDoc(f.Body(), typeName, md.TableName+" 表的数据访问接口", md.ClassDoc)
	f.Body().AddType(typeName, plugin.Block("interface", gg.NewGroup().Append(crud.Generic("Mapper", entity, id))))
	f.Body().AddLine()

	plugin.Doc(f.Body(), "New"+typeName+" 基于 gorm 创建 "+typeName)
	f.Body().NewFunction("New"+typeName).
		AddParameter("db", f.Pkg(gormPackage).Ptr("DB")).
		AddResult("", typeName).
		AddBody(gg.Return(gg.NewInlineGroup().Append(crud.Generic("NewGormMapper", entity, id), "(db)")))

	return plugin.NewGenerateResult(f), nil
}
