// Package servicegen 生成业务层接口及其默认实现。
package servicegen

import (
	"github.com/donutnomad/gg"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/plugin"
)

type param struct {
	name string
	typ  gg.Node
}

// method 业务接口的一个方法，接口与实现共用同一份签名
type method struct {
	name     string
	doc      string
	params   []param
	results  []gg.Node
	delegate gg.Node // 实现中 return 的表达式
}

func serviceMethods(f *plugin.File) []method {
	entity := f.EntityType()
	crud := f.Crud()
	ctxParam := param{"ctx", f.Pkg("context").Type("Context")}
	filter := param{"filter", plugin.Ptr(f.LayerType(config.LayerQuery, plugin.SuffixQuery))}
	mapper := func(name string, args ...any) gg.Node {
		return gg.Call(name).WithOwner("s.mapper").AddParameter(args...)
	}
	buildQuery := gg.Call("buildQuery").WithOwner("s").AddParameter("filter")

	return []method{
		{
			name:     "SelectByID",
			doc:      "SelectByID 按主键查询，记录不存在时返回 nil",
			params:   []param{ctxParam, {"id", f.IDType()}},
			results:  []gg.Node{plugin.Ptr(entity), gg.S("error")},
			delegate: mapper("SelectOneByID", "ctx", "id"),
		},
		{
			name:     "Insert",
			doc:      "Insert 新增记录",
			params:   []param{ctxParam, {"item", plugin.Ptr(entity)}},
			results:  []gg.Node{gg.S("error")},
			delegate: mapper("Insert", "ctx", "item"),
		},
		{
			name:     "UpdateByID",
			doc:      "UpdateByID 按主键更新非零值字段",
			params:   []param{ctxParam, {"item", plugin.Ptr(entity)}},
			results:  []gg.Node{gg.S("error")},
			delegate: mapper("Update", "ctx", "item"),
		},
		{
			name:     "DeleteByID",
			doc:      "DeleteByID 按主键删除",
			params:   []param{ctxParam, {"id", f.IDType()}},
			results:  []gg.Node{gg.S("error")},
			delegate: mapper("DeleteByID", "ctx", "id"),
		},
		{
			name:     "SelectList",
			doc:      "SelectList 按条件查询，filter 中为 nil 的字段不参与过滤",
			params:   []param{ctxParam, filter},
			results:  []gg.Node{plugin.Slice(plugin.Ptr(entity)), gg.S("error")},
			delegate: mapper("SelectListByQuery", "ctx", buildQuery),
		},
		{
			name:    "SelectPage",
			doc:     "SelectPage 分页查询，过滤规则与 SelectList 相同",
			params:  []param{ctxParam, {"pageNumber", gg.S("int")}, {"pageSize", gg.S("int")}, filter},
			results: []gg.Node{plugin.Ptr(crud.Generic("Page", entity)), gg.S("error")},
			delegate: mapper("Paginate",
				"ctx",
				gg.NewInlineGroup().Append(crud.Generic("NewPage", entity), "(pageNumber, pageSize)"),
				buildQuery,
			),
		},
	}
}

// ServiceTemplate 生成业务接口
type ServiceTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*ServiceTemplate)(nil)

func NewServiceTemplate() *ServiceTemplate {
	return &ServiceTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerService, config.LayerService, plugin.SuffixService),
	}
}

func (t *ServiceTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	plugin.TypeDoc(f.Body(), typeName, md.ClassName+" 业务接口", md.ClassDoc)
	iface := f.Body().NewInterface(typeName)
	for _, m := range serviceMethods(f) {
		iface.AddLineComment(m.doc)
		sig := iface.NewFunction(m.name)
		for _, p := range m.params {
			sig.AddParameter(p.name, p.typ)
		}
		for _, r := range m.results {
			sig.AddResult("", r)
		}
	}

	return plugin.NewGenerateResult(f), nil
}
