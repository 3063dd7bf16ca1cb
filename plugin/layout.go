package plugin

import (
	"strings"

	"github.com/donutnomad/gg"

	"github.com/donutnomad/crudgen/typeref"
)

// CrudPackage 生成代码依赖的运行时包
const CrudPackage = "github.com/donutnomad/crudgen/crud"

// 各层生成类型的名称后缀
const (
	SuffixDTO         = "Dto"
	SuffixQuery       = "Query"
	SuffixMapper      = "Mapper"
	SuffixService     = "Service"
	SuffixServiceImpl = "ServiceImpl"
	SuffixController  = "Controller"
	SuffixConvertor   = "Convertor"
)

// LayerType 引用某一层生成的类型，如 dto.UserDto
func (f *File) LayerType(layer, suffix string) gg.Node {
	md := f.ctx.Metadata
	return f.Qual(f.ctx.Config.FullPackage(md.BasePackage, layer), md.ClassName+suffix)
}

// EntityType 引用实体类型
func (f *File) EntityType() gg.Node {
	return f.Qual(f.ctx.Metadata.PackageName, f.ctx.Metadata.ClassName)
}

// IDType 标识字段类型
func (f *File) IDType() gg.Node {
	return f.Type(f.ctx.Metadata.IDFieldType)
}

// Type 引用解析后的字段类型
func (f *File) Type(t typeref.TypeRef) gg.Node {
	return t.Node(f.Qual)
}

// Crud 运行时包
func (f *File) Crud() *gg.PackageRef {
	return f.Pkg(CrudPackage)
}

// Ptr *T
func Ptr(typ gg.Node) gg.Node {
	return gg.NewInlineGroup().Append("*", typ)
}

// Slice []T
func Slice(typ gg.Node) gg.Node {
	return gg.NewInlineGroup().Append("[]", typ)
}

// Block 用花括号包裹成员，keyword 为 struct 或 interface
func Block(keyword string, members *gg.Group) gg.Node {
	return gg.NewInlineGroup().Append(keyword+" {\n", members, "\n}")
}

// Field 结构体字段，tag 为空时不输出
func Field(name string, typ gg.Node, tag string) gg.Node {
	g := gg.NewInlineGroup().Append(name+" ", typ)
	if tag != "" {
		g.Append(" `" + tag + "`")
	}
	return g
}

// Doc 逐行写入注释，内容原样保留不折行
func Doc(g *gg.Group, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		g.Append(comment(line))
	}
}

// TypeDoc 生成类型的文档：首行为类型名与说明，其后附上实体文档
func TypeDoc(g *gg.Group, typeName, summary, classDoc string) {
	g.Append(comment(typeName + " " + summary))
	if classDoc != "" {
		g.Append(comment(""))
		Doc(g, classDoc)
	}
}

func comment(line string) gg.Node {
	if line = strings.TrimRight(line, " \t"); line == "" {
		return gg.S("//")
	}
	return gg.S("// " + line)
}
