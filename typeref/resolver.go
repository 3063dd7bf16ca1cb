package typeref

import (
	"database/sql"
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/types"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// predeclared Go 预声明类型
var predeclared = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// knownQualified 常用的包限定类型，key 为源码中的书写形式
var knownQualified = map[string]TypeRef{}

func init() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[time.Duration](),
		reflect.TypeFor[json.RawMessage](),
		reflect.TypeFor[sql.NullString](),
		reflect.TypeFor[sql.NullInt64](),
		reflect.TypeFor[sql.NullInt32](),
		reflect.TypeFor[sql.NullBool](),
		reflect.TypeFor[sql.NullFloat64](),
		reflect.TypeFor[sql.NullTime](),
		reflect.TypeFor[decimal.Decimal](),
		reflect.TypeFor[uuid.UUID](),
		reflect.TypeFor[datatypes.JSON](),
		reflect.TypeFor[datatypes.JSONMap](),
		reflect.TypeFor[datatypes.Date](),
		reflect.TypeFor[datatypes.Time](),
		reflect.TypeFor[gorm.DeletedAt](),
	} {
		// reflect.Type.String() 形如 "decimal.Decimal"，正好是源码中的书写形式
		knownQualified[t.String()] = Named(t.PkgPath(), t.Name())
	}
}

// Lookup 查询已知类型表
func Lookup(typeName string) (TypeRef, bool) {
	if predeclared[typeName] {
		return Builtin(typeName), true
	}
	ref, ok := knownQualified[typeName]
	return ref, ok
}

// Scope 类型解析的命名空间
type Scope struct {
	// PkgPath 未限定名称所在的包，通常是实体所在包
	PkgPath string
	// Imports 源文件的导入表，key 为包在源文件中的名称（别名或默认包名）
	Imports map[string]string
}

// Resolve 在空命名空间下解析类型文本
func Resolve(typeName string) TypeRef {
	return Scope{}.Resolve(typeName)
}

// Resolve 解析类型文本，永不失败
func (s Scope) Resolve(typeName string) TypeRef {
	typeName = strings.TrimSpace(typeName)
	expr, err := parser.ParseExpr(typeName)
	if err != nil {
		return s.guess(typeName)
	}
	return s.resolveExpr(expr)
}

func (s Scope) resolveExpr(expr ast.Expr) TypeRef {
	switch e := expr.(type) {
	case *ast.Ident:
		if ref, ok := Lookup(e.Name); ok {
			return ref
		}
		return s.guess(e.Name)
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			return s.guess(types.ExprString(e))
		}
		if path, ok := s.Imports[pkg.Name]; ok {
			return Named(path, e.Sel.Name)
		}
		if ref, ok := Lookup(pkg.Name + "." + e.Sel.Name); ok {
			return ref
		}
		return TypeRef{Kind: KindNamed, PkgPath: pkg.Name, Name: e.Sel.Name, BestGuess: true}
	case *ast.StarExpr:
		return PointerTo(s.resolveExpr(e.X))
	case *ast.ArrayType:
		elem := s.resolveExpr(e.Elt)
		if e.Len == nil {
			return SliceOf(elem)
		}
		return TypeRef{Kind: KindArray, Len: types.ExprString(e.Len), Elem: &elem}
	case *ast.MapType:
		key := s.resolveExpr(e.Key)
		elem := s.resolveExpr(e.Value)
		return TypeRef{Kind: KindMap, Key: &key, Elem: &elem}
	case *ast.ParenExpr:
		return s.resolveExpr(e.X)
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return Builtin("any")
		}
	}
	return s.guess(types.ExprString(expr))
}

// guess 生成最佳猜测引用：名称不变，放在作用域所在的包内
func (s Scope) guess(name string) TypeRef {
	return TypeRef{Kind: KindNamed, PkgPath: s.PkgPath, Name: name, BestGuess: true}
}
