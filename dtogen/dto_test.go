package dtogen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donutnomad/crudgen/internal/fixture"
	"github.com/donutnomad/crudgen/internal/plugintest"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/typeref"
)

func TestDtoTemplate(t *testing.T) {
	tpl := NewDtoTemplate()
	assert.Equal(t, "dto", tpl.Name())

	path, src := plugintest.Generate(t, tpl, fixture.User(), plugintest.Config())
	assert.Equal(t, "/work/model/dto/user_dto.go", path)

	out := plugintest.Compact(src)
	assert.True(t, strings.HasPrefix(out, "// Code generated by crudgen from User. DO NOT EDIT.\n"))
	assert.Contains(t, out, "package dto")
	assert.Contains(t, out, "// UserDto User 数据传输对象\n//\n// User 用户\ntype UserDto struct {")

	// 字段顺序与实体一致，文档逐行保留
	expected := []string{
		"// 主键\nID int64 `json:\"id\"`",
		"// 用户名\n// 登录时使用\nName string `json:\"name\"`",
		"Email string `json:\"email\"`",
		"// 年龄\nAge int32 `json:\"age\"`",
		"Balance decimal.Decimal `json:\"balance\"`",
		"CreatedAt time.Time `json:\"createdAt\"`",
		"DeletedAt gorm.DeletedAt `json:\"deletedAt\"`",
	}
	last := -1
	for _, want := range expected {
		idx := strings.Index(out, want)
		if assert.GreaterOrEqual(t, idx, 0, want) {
			assert.Greater(t, idx, last, "字段顺序: %s", want)
			last = idx
		}
	}

	assert.Contains(t, out, `"github.com/shopspring/decimal"`)
	assert.Contains(t, out, `"gorm.io/gorm"`)
	// DTO 不依赖实体包
	assert.NotContains(t, out, fixture.EntityPackage)
}

func TestDtoTemplateNoFieldDoc(t *testing.T) {
	md := fixture.User()
	md.ClassDoc = ""
	md.Fields = md.Fields[:1]
	md.Fields[0].Documentation = ""

	_, src := plugintest.Generate(t, NewDtoTemplate(), md, plugintest.Config())
	out := plugintest.Compact(src)
	assert.Contains(t, out, "// UserDto User 数据传输对象\ntype UserDto struct {\nID int64 `json:\"id\"`\n}")
}

func TestQueryTemplate(t *testing.T) {
	tpl := NewQueryTemplate()
	assert.Equal(t, "query", tpl.Name())

	path, src := plugintest.Generate(t, tpl, fixture.User(), plugintest.Config())
	assert.Equal(t, "/work/model/query/user_query.go", path)

	out := plugintest.Compact(src)
	assert.Contains(t, out, "package query")
	assert.Contains(t, out, "type UserQuery struct {")
	assert.Contains(t, out, "ID *int64 `form:\"id\" json:\"id,omitempty\"`")
	assert.Contains(t, out, "// 用户名\n// 登录时使用\nName *string `form:\"name\" json:\"name,omitempty\"`")
	assert.Contains(t, out, "Balance *decimal.Decimal `form:\"balance\" json:\"balance,omitempty\"`")
	assert.Contains(t, out, "DeletedAt *gorm.DeletedAt")
}

func TestQueryTemplateNullableKinds(t *testing.T) {
	md := fixture.User()
	md.Fields = []meta.FieldMetadata{
		{Name: "ID", Type: typeref.Builtin("int64"), ColumnName: "id", IsIdentifier: true},
		{Name: "Tags", Type: typeref.SliceOf(typeref.Builtin("string")), ColumnName: "tags"},
		{Name: "Manager", Type: typeref.PointerTo(typeref.Builtin("string")), ColumnName: "manager"},
	}

	_, src := plugintest.Generate(t, NewQueryTemplate(), md, plugintest.Config())
	out := plugintest.Compact(src)
	// 切片与指针本身可空，不再包一层指针
	assert.Contains(t, out, "Tags []string")
	assert.Contains(t, out, "Manager *string")
	assert.NotContains(t, out, "**string")
}

func TestLayoutFollowsConfig(t *testing.T) {
	cfg := plugintest.Config()
	cfg.PackageSuffixes["dto"] = "/api/v1/dto"

	path, src := plugintest.Generate(t, NewDtoTemplate(), fixture.User(), cfg)
	assert.Equal(t, "/work/model/api/v1/dto/user_dto.go", path)
	assert.Contains(t, src, "package dto")
}

func TestDtoTemplateImportAlias(t *testing.T) {
	md := fixture.User()
	md.Imports = map[string]string{
		"dec":  "github.com/shopspring/decimal",
		"time": "time",
		"gorm": "gorm.io/gorm",
	}

	_, src := plugintest.Generate(t, NewDtoTemplate(), md, plugintest.Config())
	out := plugintest.Compact(src)
	assert.Contains(t, out, `dec "github.com/shopspring/decimal"`)
	assert.Contains(t, out, "Balance dec.Decimal `json:\"balance\"`")
	assert.NotContains(t, out, "decimal.Decimal")
}
