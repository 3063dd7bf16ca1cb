// Package controllergen 生成基于 gin 的 REST 控制器。
//
// 每个 CRUD 操作对应一个 HTTP 动词，外加列表与分页两个接口，
// 处理函数只做参数绑定与结果转换，直接委托给业务层。
package controllergen

import (
	"fmt"
	"path"

	"github.com/donutnomad/gg"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/plugin"
)

const (
	ginPackage  = "github.com/gin-gonic/gin"
	httpPackage = "net/http"
)

// Route 一条路由
type Route struct {
	Method  string // gin 注册方法，如 GET
	Path    string // 相对于控制器分组的路径
	Handler string
}

// Routes 注册顺序固定，静态路径先于参数路径
var Routes = []Route{
	{Method: "GET", Path: "/list", Handler: "List"},
	{Method: "GET", Path: "/page", Handler: "Page"},
	{Method: "GET", Path: "/:id", Handler: "GetByID"},
	{Method: "POST", Path: "", Handler: "Create"},
	{Method: "PUT", Path: "", Handler: "Update"},
	{Method: "DELETE", Path: "/:id", Handler: "Delete"},
}

type ControllerTemplate struct {
	*plugin.BaseTemplate
}

var _ plugin.Template = (*ControllerTemplate)(nil)

func NewControllerTemplate() *ControllerTemplate {
	return &ControllerTemplate{
		BaseTemplate: plugin.NewBaseTemplate(config.LayerController, config.LayerController, plugin.SuffixController),
	}
}

func (t *ControllerTemplate) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	route, err := plugin.RenderText(ctx.Config.ControllerRoute, ctx.Metadata)
	if err != nil {
		return nil, fmt.Errorf("渲染路由 %q 失败: %w", ctx.Config.ControllerRoute, err)
	}

	f, err := t.NewFile(ctx)
	if err != nil {
		return nil, err
	}

	md := ctx.Metadata
	typeName := t.TypeName(md)
	b := &builder{f: f, crud: f.Crud()}
	serviceType := f.LayerType(config.LayerService, plugin.SuffixService)
	convertorType := f.LayerType(config.LayerConvertor, plugin.SuffixConvertor)

	plugin.Doc(f.Body(), typeName+" "+md.ClassName+" 的 REST 接口")
	f.Body().NewStruct(typeName).
		AddField("service", serviceType).
		AddField("convertor", convertorType)
	f.Body().AddLine()

	f.Body().NewFunction("New"+typeName).
		AddParameter("svc", serviceType).
		AddParameter("conv", convertorType).
		AddResult("", "*"+typeName).
		AddBody(gg.Return(gg.Value("&"+typeName).
			AddField("service", "svc").
			AddField("convertor", "conv")))
	f.Body().AddLine()

	plugin.Doc(f.Body(), "Register 在 "+route+" 下注册全部路由")
	register := f.Body().NewFunction("Register").
		WithReceiver("c", "*"+typeName).
		AddParameter("r", f.Pkg(ginPackage).Type("IRouter")).
		AddBody(gg.S("g := r.Group(%s)", gg.Lit(route)))
	for _, rt := range Routes {
		register.AddBody(gg.S("g.%s(%s, c.%s)", rt.Method, gg.Lit(rt.Path), rt.Handler))
	}

	handlers := map[string]func(g *gg.Group){
		"List":    b.list,
		"Page":    b.page,
		"GetByID": b.getByID,
		"Create":  b.create,
		"Update":  b.update,
		"Delete":  b.delete,
	}
	for _, rt := range Routes {
		f.Body().AddLine()
		plugin.Doc(f.Body(), rt.Handler+" "+rt.Method+" "+path.Clean(route+rt.Path))
		fn := f.Body().NewFunction(rt.Handler).
			WithReceiver("c", "*"+typeName).
			AddParameter("ctx", f.Pkg(ginPackage).Ptr("Context"))
		handlers[rt.Handler](fn.Body())
	}

	return plugin.NewGenerateResult(f), nil
}

type builder struct {
	f    *plugin.File
	crud *gg.PackageRef
}

// reqCtx ctx.Request.Context()
const reqCtx = "ctx.Request.Context()"

// stmt 拼接为一行语句
func stmt(parts ...any) gg.Node {
	return gg.NewInlineGroup().Append(parts...)
}

// guard if cond { fail; return }
func guard(cond, fail gg.Node) gg.Node {
	return gg.If(cond).AddBody(fail, gg.S("return"))
}

// badRequest 参数错误直接返回 400
func (b *builder) badRequest(cond gg.Node) gg.Node {
	status := b.f.Pkg(httpPackage).Dot("StatusBadRequest")
	return guard(cond, b.crud.Call("Fail", "ctx", status, "err"))
}

// failWith 业务错误交给 crud.FailErr 选择状态码
func (b *builder) failWith(cond gg.Node, err any) gg.Node {
	return guard(cond, b.crud.Call("FailErr", "ctx", err))
}

// serviceCall c.service.Name(ctx.Request.Context(), args...)
func serviceCall(name string, args ...any) gg.Node {
	return gg.Call(name).WithOwner("c.service").AddParameter(append([]any{reqCtx}, args...)...)
}

func errNotNil() gg.Node {
	return gg.S("err != nil")
}

func (b *builder) pathID(g *gg.Group) {
	g.Append(stmt("id, err := ", b.crud.Generic("PathID", b.f.IDType()), `(ctx, "id")`))
	g.Append(b.badRequest(errNotNil()))
}

func (b *builder) bindFilter(g *gg.Group) {
	g.Append(stmt("var filter ", b.f.LayerType(config.LayerQuery, plugin.SuffixQuery)))
	g.Append(b.badRequest(gg.S("err := ctx.ShouldBindQuery(&filter); err != nil")))
}

func (b *builder) bindBody(g *gg.Group) {
	g.Append(stmt("var body ", b.f.LayerType(config.LayerDTO, plugin.SuffixDTO)))
	g.Append(b.badRequest(gg.S("err := ctx.ShouldBindJSON(&body); err != nil")))
	g.Append(gg.S("item := c.convertor.ToEntity(&body)"))
}

func (b *builder) ok(value any) gg.Node {
	return b.crud.Call("OK", "ctx", value)
}

const toDto = "c.convertor.ToDto"

func (b *builder) list(g *gg.Group) {
	b.bindFilter(g)
	g.Append(stmt("items, err := ", serviceCall("SelectList", "&filter")))
	g.Append(b.failWith(errNotNil(), "err"))
	g.Append(b.ok(b.crud.Call("MapSlice", "items", toDto)))
}

func (b *builder) page(g *gg.Group) {
	g.Append(stmt("pageNumber, pageSize := ", b.crud.Call("PageParams", "ctx")))
	b.bindFilter(g)
	g.Append(stmt("page, err := ", serviceCall("SelectPage", "pageNumber", "pageSize", "&filter")))
	g.Append(b.failWith(errNotNil(), "err"))
	g.Append(b.ok(b.crud.Call("MapPage", "page", toDto)))
}

func (b *builder) getByID(g *gg.Group) {
	b.pathID(g)
	g.Append(stmt("item, err := ", serviceCall("SelectByID", "id")))
	g.Append(b.failWith(errNotNil(), "err"))
	g.Append(b.failWith(gg.S("item == nil"), b.crud.Dot("ErrNotFound")))
	g.Append(b.ok(toDto + "(item)"))
}

func (b *builder) create(g *gg.Group) {
	b.bindBody(g)
	g.Append(b.failWith(stmt("err := ", serviceCall("Insert", "item"), "; err != nil"), "err"))
	g.Append(b.ok(toDto + "(item)"))
}

func (b *builder) update(g *gg.Group) {
	b.bindBody(g)
	g.Append(b.failWith(stmt("err := ", serviceCall("UpdateByID", "item"), "; err != nil"), "err"))
	g.Append(b.ok(toDto + "(item)"))
}

func (b *builder) delete(g *gg.Group) {
	b.pathID(g)
	g.Append(b.failWith(stmt("err := ", serviceCall("DeleteByID", "id"), "; err != nil"), "err"))
	g.Append(b.ok("nil"))
}
