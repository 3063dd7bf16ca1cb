// Package typeref 将字段声明中的类型文本解析为可直接用于代码生成的类型引用。
//
// 解析永远成功：已知类型映射到固定的规范引用，未知类型生成一个"最佳猜测"引用，
// 由生成代码的编译阶段负责发现错误的猜测。
package typeref

import (
	"strings"

	"github.com/donutnomad/gg"
)

// Kind 类型引用的种类
type Kind int

const (
	KindNamed   Kind = iota + 1 // 具名类型（内建类型或包内类型）
	KindPointer                 // *T
	KindSlice                   // []T
	KindArray                   // [N]T
	KindMap                     // map[K]V
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// TypeRef 生成就绪的类型引用
type TypeRef struct {
	Kind    Kind
	PkgPath string   // 具名类型所在包的导入路径，内建类型为空
	Name    string   // 具名类型的名称
	Elem    *TypeRef // 指针、切片、数组、map 的元素类型
	Key     *TypeRef // map 的键类型
	Len     string   // 数组长度表达式

	// BestGuess 为 true 表示该引用不在已知表中，是按调用方命名空间推测出来的
	BestGuess bool
}

// Named 构造具名类型引用
func Named(pkgPath, name string) TypeRef {
	return TypeRef{Kind: KindNamed, PkgPath: pkgPath, Name: name}
}

// Builtin 构造内建类型引用
func Builtin(name string) TypeRef {
	return TypeRef{Kind: KindNamed, Name: name}
}

// PointerTo 构造 *T
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindPointer, Elem: &elem}
}

// SliceOf 构造 []T
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindSlice, Elem: &elem}
}

// IsBuiltin 是否为预声明类型
func (t TypeRef) IsBuiltin() bool {
	return t.Kind == KindNamed && t.PkgPath == ""
}

// Nullable 返回可以表达"未提供"的类型：指针、切片、map 原样返回，其余包装为指针
func (t TypeRef) Nullable() TypeRef {
	switch t.Kind {
	case KindPointer, KindSlice, KindMap:
		return t
	}
	if t.Kind == KindNamed && (t.Name == "any" || t.Name == "error") && t.PkgPath == "" {
		return t
	}
	return PointerTo(t)
}

// IsPointer 是否为指针
func (t TypeRef) IsPointer() bool {
	return t.Kind == KindPointer
}

// Is 判断是否为指定包下的指定类型
func (t TypeRef) Is(pkgPath, name string) bool {
	return t.Kind == KindNamed && t.PkgPath == pkgPath && t.Name == name
}

// Qualifier 把包路径下的标识符转换为代码节点，导入由调用方登记
type Qualifier func(pkgPath, name string) gg.Node

// Node 返回 gg 代码节点，具名类型交给 qual 处理
func (t TypeRef) Node(qual Qualifier) gg.Node {
	switch t.Kind {
	case KindPointer:
		return gg.NewInlineGroup().Append("*", t.Elem.Node(qual))
	case KindSlice:
		return gg.NewInlineGroup().Append("[]", t.Elem.Node(qual))
	case KindArray:
		return gg.NewInlineGroup().Append("["+t.Len+"]", t.Elem.Node(qual))
	case KindMap:
		return gg.NewInlineGroup().Append("map[", t.Key.Node(qual), "]", t.Elem.Node(qual))
	}
	if t.PkgPath == "" {
		return gg.S(t.Name)
	}
	return qual(t.PkgPath, t.Name)
}

// String 返回带完整包路径的类型文本，如 *github.com/shopspring/decimal.Decimal
func (t TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	switch t.Kind {
	case KindPointer:
		sb.WriteString("*")
		t.Elem.write(sb)
	case KindSlice:
		sb.WriteString("[]")
		t.Elem.write(sb)
	case KindArray:
		sb.WriteString("[" + t.Len + "]")
		t.Elem.write(sb)
	case KindMap:
		sb.WriteString("map[")
		t.Key.write(sb)
		sb.WriteString("]")
		t.Elem.write(sb)
	default:
		if t.PkgPath != "" {
			sb.WriteString(t.PkgPath + ".")
		}
		sb.WriteString(t.Name)
	}
}

// Clone 深拷贝
func (t TypeRef) Clone() TypeRef {
	out := t
	if t.Elem != nil {
		elem := t.Elem.Clone()
		out.Elem = &elem
	}
	if t.Key != nil {
		key := t.Key.Clone()
		out.Key = &key
	}
	return out
}
