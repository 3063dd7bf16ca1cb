// Package fixture 提供测试用的实体元数据。
package fixture

import (
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/typeref"
)

const (
	EntityPackage = "github.com/acme/demo/model/dal/entity"
	BasePackage   = "github.com/acme/demo/model"
	ModulePath    = "github.com/acme/demo"
)

// User 返回一个典型的用户实体元数据，每次调用都是新的实例
func User() *meta.EntityMetadata {
	fields := []meta.FieldMetadata{
		field("ID", "int64", "id", "主键", true),
		field("Name", "string", "name", "用户名\n登录时使用", false),
		field("Email", "string", "email", "", false),
		field("Age", "int32", "age", "年龄", false),
		field("Balance", "decimal.Decimal", "balance", "", false),
		field("CreatedAt", "time.Time", "created_at", "", false),
		field("DeletedAt", "gorm.DeletedAt", "deleted_at", "", false),
	}
	return &meta.EntityMetadata{
		ClassName:     "User",
		PackageName:   EntityPackage,
		PackageClause: "entity",
		BasePackage:   BasePackage,
		ClassDoc:      "User 用户",
		TableName:     "users",
		SourceFile:    "model/dal/entity/user.go",
		IDField:       "ID",
		IDFieldType:   typeref.Builtin("int64"),
		Fields:        fields,
		Imports: map[string]string{
			"decimal": "github.com/shopspring/decimal",
			"time":    "time",
			"gorm":    "gorm.io/gorm",
		},
		Entity: meta.EntityRef{Name: "User", Package: EntityPackage},
	}
}

func field(name, declared, column, doc string, id bool) meta.FieldMetadata {
	scope := typeref.Scope{PkgPath: EntityPackage}
	return meta.FieldMetadata{
		Name:          name,
		DeclaredType:  declared,
		Type:          scope.Resolve(declared),
		Documentation: doc,
		ColumnName:    column,
		IsIdentifier:  id,
	}
}
