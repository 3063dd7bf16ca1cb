package entityparse

import (
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"github.com/donutnomad/crudgen/internal/utils"
)

// gormTag 解析后的 gorm 标签，key 统一大写
type gormTag map[string]string

// parseGormTag 解析 gorm 标签，如 `gorm:"column:user_name;primaryKey"`
func parseGormTag(field *ast.Field) gormTag {
	result := make(gormTag)
	if field.Tag == nil {
		return result
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return result
	}

	for part := range strings.SplitSeq(reflect.StructTag(raw).Get("gorm"), ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, ":"); ok {
			result[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
		} else {
			result[strings.ToUpper(part)] = ""
		}
	}

	return result
}

func (t gormTag) has(key string) bool {
	_, ok := t[key]
	return ok
}

// ignored gorm:"-"
func (t gormTag) ignored() bool {
	return t.has("-")
}

// primaryKey gorm 同时接受 primaryKey 与 primary_key
func (t gormTag) primaryKey() bool {
	return t.has("PRIMARYKEY") || t.has("PRIMARY_KEY")
}

func (t gormTag) column() string {
	return t["COLUMN"]
}

// tableNameFromMethod 从 TableName() 方法中提取表名
// 查找指定结构体的 TableName 方法，并提取其返回的字符串字面量
func tableNameFromMethod(file *ast.File, structName string) string {
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Name.Name != "TableName" || funcDecl.Recv == nil || funcDecl.Body == nil {
			continue
		}
		if len(funcDecl.Recv.List) == 0 || receiverName(funcDecl.Recv.List[0].Type) != structName {
			continue
		}

		for _, stmt := range funcDecl.Body.List {
			retStmt, ok := stmt.(*ast.ReturnStmt)
			if !ok || len(retStmt.Results) == 0 {
				continue
			}
			lit, ok := retStmt.Results[0].(*ast.BasicLit)
			if !ok {
				continue
			}
			if name, err := strconv.Unquote(lit.Value); err == nil {
				return name
			}
		}
	}
	return ""
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// inferTableName 推导表名
// 优先使用 TableName() 方法，否则使用默认规则: 结构体名的蛇形命名 + "s"
func inferTableName(file *ast.File, structName string) string {
	if name := tableNameFromMethod(file, structName); name != "" {
		return name
	}
	return utils.ToSnakeCase(structName) + "s"
}
