// Package meta 定义实体描述符与解析后的实体元数据。
// 元数据在一次生成过程中只解析一次，之后对所有模板只读。
package meta

import (
	"fmt"
	"slices"
	"strings"

	"github.com/donutnomad/crudgen/typeref"
)

// EntityRef 实体描述符，由调用方显式给出，替代运行时的类加载
type EntityRef struct {
	Name       string // 结构体名称，如 User
	Package    string // 导入路径，如 github.com/acme/demo/model/dal/entity
	SourceFile string // 可选，显式指定源文件路径；为空时按约定路径查找
}

// ParseEntityRef 解析 "导入路径.类型名" 形式的实体引用
//
//	github.com/acme/demo/model/dal/entity.User
func ParseEntityRef(s string) (EntityRef, error) {
	s = strings.TrimSpace(s)
	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s, ".")
	if dot <= slash || dot == len(s)-1 || dot == 0 {
		return EntityRef{}, fmt.Errorf("无效的实体引用 %q，格式应为 <导入路径>.<类型名>", s)
	}
	return EntityRef{Package: s[:dot], Name: s[dot+1:]}, nil
}

// String 返回 "导入路径.类型名"
func (r EntityRef) String() string {
	if r.Package == "" {
		return r.Name
	}
	return r.Package + "." + r.Name
}

// FieldMetadata 字段元数据
type FieldMetadata struct {
	Name          string          // 字段名
	DeclaredType  string          // 源码中的类型文本
	Type          typeref.TypeRef // 解析后的类型
	Documentation string          // 字段文档，可为空
	ColumnName    string          // 持久化列名
	IsIdentifier  bool            // 是否为标识字段
}

// EntityMetadata 实体元数据
type EntityMetadata struct {
	ClassName     string // 结构体名称
	PackageName   string // 实体所在包的导入路径
	PackageClause string // 源文件中声明的包名
	BasePackage   string // 去除实体包后缀后的基础包
	ClassDoc      string // 结构体文档
	TableName     string // 表名
	SourceFile    string // 实体源文件路径

	IDField     string          // 标识字段名
	IDFieldType typeref.TypeRef // 标识字段的类型

	Fields  []FieldMetadata   // 按声明顺序排列
	Imports map[string]string // 源文件导入表

	Entity EntityRef // 指回原始实体定义
}

// EntityType 实体类型引用
func (m *EntityMetadata) EntityType() typeref.TypeRef {
	return typeref.Named(m.PackageName, m.ClassName)
}

// IDFieldMetadata 返回标识字段
func (m *EntityMetadata) IDFieldMetadata() (FieldMetadata, bool) {
	for _, f := range m.Fields {
		if f.IsIdentifier {
			return f, true
		}
	}
	return FieldMetadata{}, false
}

// FieldByColumn 按列名查找字段
func (m *EntityMetadata) FieldByColumn(column string) (FieldMetadata, bool) {
	for _, f := range m.Fields {
		if f.ColumnName == column {
			return f, true
		}
	}
	return FieldMetadata{}, false
}

// Clone 深拷贝，交给模板的总是副本
func (m *EntityMetadata) Clone() *EntityMetadata {
	if m == nil {
		return nil
	}
	out := *m
	out.IDFieldType = m.IDFieldType.Clone()
	out.Fields = slices.Clone(m.Fields)
	for i := range out.Fields {
		out.Fields[i].Type = m.Fields[i].Type.Clone()
	}
	if m.Imports != nil {
		out.Imports = make(map[string]string, len(m.Imports))
		for k, v := range m.Imports {
			out.Imports[k] = v
		}
	}
	return &out
}
