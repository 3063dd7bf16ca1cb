package controllergen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/internal/fixture"
	"github.com/donutnomad/crudgen/internal/plugintest"
	"github.com/donutnomad/crudgen/plugin"
)

func TestControllerTemplate(t *testing.T) {
	tpl := NewControllerTemplate()
	assert.Equal(t, "controller", tpl.Name())

	path, src := plugintest.Generate(t, tpl, fixture.User(), plugintest.Config())
	assert.Equal(t, "/work/model/controller/user_controller.go", path)

	out := plugintest.Compact(src)
	assert.Contains(t, out, "package controller")
	assert.Contains(t, out, "type UserController struct {\nservice service.UserService\nconvertor convertor.UserConvertor\n}")
	assert.Contains(t, out, "func NewUserController(svc service.UserService, conv convertor.UserConvertor) *UserController {\nreturn &UserController{service: svc, convertor: conv}\n}")

	assert.Contains(t, out, "// Register 在 /api/user 下注册全部路由\nfunc (c *UserController) Register(r gin.IRouter) {\n"+
		"g := r.Group(\"/api/user\")\n"+
		"g.GET(\"/list\", c.List)\n"+
		"g.GET(\"/page\", c.Page)\n"+
		"g.GET(\"/:id\", c.GetByID)\n"+
		"g.POST(\"\", c.Create)\n"+
		"g.PUT(\"\", c.Update)\n"+
		"g.DELETE(\"/:id\", c.Delete)\n}")

	assert.Contains(t, out, "// GetByID GET /api/user/:id\nfunc (c *UserController) GetByID(ctx *gin.Context) {\n"+
		"id, err := crud.PathID[int64](ctx, \"id\")\n"+
		"if err != nil {\ncrud.Fail(ctx, http.StatusBadRequest, err)\nreturn\n}\n"+
		"item, err := c.service.SelectByID(ctx.Request.Context(), id)\n"+
		"if err != nil {\ncrud.FailErr(ctx, err)\nreturn\n}\n"+
		"if item == nil {\ncrud.FailErr(ctx, crud.ErrNotFound)\nreturn\n}\n"+
		"crud.OK(ctx, c.convertor.ToDto(item))\n}")

	assert.Contains(t, out, "// Create POST /api/user\n")
	assert.Contains(t, out, "var body dto.UserDto\nif err := ctx.ShouldBindJSON(&body); err != nil {")
	assert.Contains(t, out, "item := c.convertor.ToEntity(&body)\nif err := c.service.Insert(ctx.Request.Context(), item); err != nil {")
	assert.Contains(t, out, "// Update PUT /api/user\n")
	assert.Contains(t, out, "if err := c.service.UpdateByID(ctx.Request.Context(), item); err != nil {")
	assert.Contains(t, out, "// Delete DELETE /api/user/:id\n")
	assert.Contains(t, out, "if err := c.service.DeleteByID(ctx.Request.Context(), id); err != nil {")

	assert.Contains(t, out, "var filter query.UserQuery\nif err := ctx.ShouldBindQuery(&filter); err != nil {")
	assert.Contains(t, out, "items, err := c.service.SelectList(ctx.Request.Context(), &filter)")
	assert.Contains(t, out, "crud.OK(ctx, crud.MapSlice(items, c.convertor.ToDto))")
	assert.Contains(t, out, "pageNumber, pageSize := crud.PageParams(ctx)")
	assert.Contains(t, out, "page, err := c.service.SelectPage(ctx.Request.Context(), pageNumber, pageSize, &filter)")
	assert.Contains(t, out, "crud.OK(ctx, crud.MapPage(page, c.convertor.ToDto))")
}

func TestControllerRoute(t *testing.T) {
	md := fixture.User()
	md.ClassName = "OrderItem"
	md.TableName = "t_order_item"

	tests := []struct {
		route string
		want  string
	}{
		{config.DefaultControllerRoute, `r.Group("/api/orderitem")`},
		{"/v1/{{ .ClassName | kebabcase }}", `r.Group("/v1/order-item")`},
		{"/{{ .TableName }}", `r.Group("/t_order_item")`},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			cfg := plugintest.Config(config.WithControllerRoute(tt.route))
			_, src := plugintest.Generate(t, NewControllerTemplate(), md, cfg)
			assert.Contains(t, src, tt.want)
		})
	}
}

func TestControllerBadRoute(t *testing.T) {
	cfg := plugintest.Config(config.WithControllerRoute("/api/{{ .ClassName"))
	_, err := NewControllerTemplate().Generate(plugin.NewGenerateContext(fixture.User(), cfg, nil))
	assert.ErrorContains(t, err, "渲染路由")
}

func TestRoutesCoverHandlers(t *testing.T) {
	handlers := make(map[string]bool)
	for _, rt := range Routes {
		assert.False(t, handlers[rt.Handler], "重复的处理函数 %s", rt.Handler)
		handlers[rt.Handler] = true
	}
	assert.Len(t, handlers, 6)
}
