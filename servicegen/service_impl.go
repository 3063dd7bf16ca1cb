package servicegen

import (
	"fmt"

	"github.com/donutnomad/gg"
	"go.uber.org/zap"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

// ServiceImplTemplate 生成业务接口的默认实现，全部操作委托给 mapper。
//
// 查询条件按字段声明顺序构建，filter 中为 nil 的字段直接跳过。
// 配置了 SoftDeleteColumn 时额外注入"未删除"条件：
//
//	bool 字段                  -> col = false
//	指针字段 / gorm.DeletedAt  -> col IS NULL
type ServiceImplTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*ServiceImplTemplate)(nil)

func NewServiceImplTemplate() *ServiceImplTemplate {
	return &ServiceImplTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerServiceImpl, config.LayerServiceImpl, plugin.SuffixServiceImpl),
	}
}

func (t *ServiceImplTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	softDelete, err := softDeleteCondition(ctx)
	if err != nil {
		return nil, err
	}

	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	serviceName := md.ClassName + plugin.SuffixService
	mapperType := f.LayerType(config.LayerMapper, plugin.SuffixMapper)
	crud := f.Crud()

	plugin.Doc(f.Body(), typeName+" "+serviceName+" 的默认实现")
	f.Body().NewStruct(typeName).AddField("mapper", mapperType)
	f.Body().AddLine()
	f.Body().NewVar().AddTypedField("_", f.LayerType(config.LayerService, plugin.SuffixService),
		gg.S("(*%s)(nil)", typeName))
	f.Body().AddLine()

	f.Body().NewFunction("New"+typeName).
		AddParameter("m", mapperType).
		AddResult("", "*"+typeName).
		AddBody(gg.Return(gg.Value("&"+typeName).AddField("mapper", "m")))

	for _, m := range serviceMethods(f) {
		f.Body().AddLine()
		fn := f.Body().NewFunction(m.name).WithReceiver("s", "*"+typeName)
		for _, p := range m.params {
			fn.AddParameter(p.name, p.typ)
		}
		for _, r := range m.results {
			fn.AddResult("", r)
		}
		fn.AddBody(gg.Return(m.delegate))
	}

	f.Body().AddLine()
	plugin.Doc(f.Body(), "buildQuery 只为 filter 中非 nil 的字段添加等值条件")
	fn := f.Body().NewFunction("buildQuery").
		WithReceiver("s", "*"+typeName).
		AddParameter("filter", plugin.Ptr(f.LayerType(config.LayerQuery, plugin.SuffixQuery))).
		AddResult("", crud.Ptr("QueryWrapper")).
		AddBody(gg.NewInlineGroup().Append("q := ", crud.Call("NewQueryWrapper")))
	if softDelete != nil {
		fn.AddBody(softDelete)
	}
	fn.AddBody(gg.If("filter == nil").AddBody(gg.Return("q")))
	for _, field := range md.Fields {
		fn.AddBody(eqCondition(field))
	}
	fn.AddBody(gg.Return("q"))

	return plugin.NewGenerateResult(f), nil
}

// eqCondition if filter.X != nil { q.Eq("col", *filter.X) }
func eqCondition(field meta.FieldMetadata) gg.Node {
	value := "filter." + field.Name
	if field.Type.Nullable().IsPointer() {
		value = "*" + value
	}
	return gg.If(gg.S("filter.%s != nil", field.Name)).AddBody(
		gg.Call("Eq").WithOwner("q").AddParameter(gg.Lit(field.ColumnName), value),
	)
}

// softDeleteCondition 未配置软删除列时返回 nil
func softDeleteCondition(ctx *plugin.GenerateContext) (gg.Node, error) {
	column := ctx.Config.SoftDeleteColumn
	if column == "" {
		return nil, nil
	}
	field, ok := ctx.Metadata.FieldByColumn(column)
	if !ok {
		ctx.Logger.Warn("实体不包含软删除列，跳过",
			zap.String("entity", ctx.Metadata.ClassName),
			zap.String("column", column))
		return nil, nil
	}

	switch {
	case field.Type.Is("", "bool"):
		return gg.Call("Eq").WithOwner("q").AddParameter(gg.Lit(column), "false"), nil
	case field.Type.IsPointer(), field.Type.Is(gormPackage, "DeletedAt"):
		return gg.Call("IsNull").WithOwner("q").AddParameter(gg.Lit(column)), nil
	}
	return nil, fmt.Errorf("软删除列 %s 的类型 %s 不受支持", column, field.Type)
}

const gormPackage = "gorm.io/gorm"
