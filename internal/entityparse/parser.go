// Package entityparse 解析实体源文件，提取代码生成所需的元数据。
package entityparse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
	"github.com/donutnomad/crudgen/typeref"
)

const (
	annotationID     = "Id"
	annotationColumn = "Column"
)

// Parser 实体解析器
type Parser struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Parser {
	return &Parser{cfg: cfg}
}

// Parse 定位并解析实体源文件
func (p *Parser) Parse(ref meta.EntityRef) (*meta.EntityMetadata, error) {
	path, err := p.Locate(ref)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(ref, path)
}

// Locate 查找实体源文件
// 显式指定的 SourceFile 优先；否则依次尝试 <snake_case>.go、<lowercase>.go，
// 最后在包目录下查找声明了该类型的文件
func (p *Parser) Locate(ref meta.EntityRef) (string, error) {
	if ref.SourceFile != "" {
		if isFile(ref.SourceFile) {
			return ref.SourceFile, nil
		}
		return "", &meta.NotFoundError{Entity: ref, Paths: []string{ref.SourceFile}}
	}

	candidates := lo.Uniq([]string{
		p.cfg.SourcePath(ref.Package, utils.ToFileName(ref.Name)),
		p.cfg.SourcePath(ref.Package, strings.ToLower(ref.Name)+".go"),
	})
	for _, path := range candidates {
		if isFile(path) {
			return path, nil
		}
	}

	dir := p.cfg.Dir(p.cfg.Sources(), ref.Package)
	if path := findDeclaringFile(dir, ref.Name); path != "" {
		return path, nil
	}

	return "", &meta.NotFoundError{Entity: ref, Paths: append(candidates, filepath.Join(dir, "*.go"))}
}

// ParseFile 解析指定源文件中的实体
func (p *Parser) ParseFile(ref meta.EntityRef, path string) (*meta.EntityMetadata, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, &meta.ParseError{Entity: ref, File: path, Reason: "语法错误", Cause: err}
	}

	spec, doc := findTypeSpec(file, ref.Name)
	if spec == nil {
		return nil, &meta.ParseError{Entity: ref, File: path, Reason: fmt.Sprintf("未找到类型 %s", ref.Name)}
	}
	structType, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, &meta.ParseError{Entity: ref, File: path, Reason: fmt.Sprintf("%s 不是结构体", ref.Name)}
	}

	imports := extractImports(file)
	md := &meta.EntityMetadata{
		ClassName:     ref.Name,
		PackageName:   ref.Package,
		PackageClause: file.Name.Name,
		BasePackage:   p.basePackage(ref.Package),
		ClassDoc:      classDoc(doc, ref.Name),
		TableName:     inferTableName(file, ref.Name),
		SourceFile:    path,
		Imports:       imports,
		Entity:        ref,
	}

	scope := typeref.Scope{PkgPath: ref.Package, Imports: imports}
	md.Fields = parseFields(structType.Fields.List, scope)

	ids := lo.Filter(md.Fields, func(f meta.FieldMetadata, _ int) bool { return f.IsIdentifier })
	switch len(ids) {
	case 0:
		return nil, &meta.ParseError{Entity: ref, File: path, Cause: meta.ErrNoIdentifier}
	case 1:
		md.IDField = ids[0].Name
		md.IDFieldType = ids[0].Type.Clone()
	default:
		names := lo.Map(ids, func(f meta.FieldMetadata, _ int) string { return f.Name })
		return nil, &meta.ParseError{
			Entity: ref,
			File:   path,
			Reason: strings.Join(names, ", "),
			Cause:  meta.ErrAmbiguousIdentifier,
		}
	}

	return md, nil
}

// basePackage 从实体包推导基础包：去掉最后一次出现的实体包后缀
func (p *Parser) basePackage(pkg string) string {
	if suffix := p.cfg.EntityPackageSuffix; suffix != "" {
		if idx := strings.LastIndex(pkg, suffix); idx > 0 {
			return pkg[:idx]
		}
	}
	if p.cfg.BasePackage != "" {
		return p.cfg.BasePackage
	}
	return pkg
}

// findTypeSpec 查找类型声明，返回声明和文档注释
// 单独声明时文档挂在 GenDecl 上，分组声明时挂在 TypeSpec 上
func findTypeSpec(file *ast.File, name string) (*ast.TypeSpec, *ast.CommentGroup) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, s := range genDecl.Specs {
			spec, ok := s.(*ast.TypeSpec)
			if !ok || spec.Name.Name != name {
				continue
			}
			if spec.Doc != nil || genDecl.Lparen.IsValid() {
				return spec, spec.Doc
			}
			return spec, genDecl.Doc
		}
	}
	return nil, nil
}

func classDoc(doc *ast.CommentGroup, name string) string {
	text := plugin.StripAnnotations(doc.Text())
	if text == "" {
		return "Generated class for " + name
	}
	return text
}

// extractImports 提取导入表，key 为别名或默认包名
func extractImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := utils.ToPackageName(importPath)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = importPath
	}
	return imports
}

// parseFields 按声明顺序解析字段
// 嵌入字段、未导出字段以及 gorm:"-" 字段会被跳过；
// 一行声明多个字段时只保留第一个
func parseFields(list []*ast.Field, scope typeref.Scope) []meta.FieldMetadata {
	var fields []meta.FieldMetadata

	for _, field := range list {
		if len(field.Names) == 0 {
			continue
		}
		name := field.Names[0].Name
		if !utils.IsExported(name) {
			continue
		}
		tag := parseGormTag(field)
		if tag.ignored() {
			continue
		}

		annotations := plugin.ParseAnnotations(commentText(field))
		declared := types.ExprString(field.Type)

		fields = append(fields, meta.FieldMetadata{
			Name:          name,
			DeclaredType:  declared,
			Type:          scope.Resolve(declared),
			Documentation: plugin.StripAnnotations(field.Doc.Text()),
			ColumnName:    columnName(name, tag, annotations),
			IsIdentifier:  tag.primaryKey() || annotations.Has(annotationID),
		})
	}

	return fields
}

// commentText 字段上方文档与行尾注释中都可以写注解
func commentText(field *ast.Field) string {
	return field.Doc.Text() + "\n" + field.Comment.Text()
}

// columnName gorm column 标签优先，其次 @Column 注解，最后使用 gorm 默认命名
func columnName(name string, tag gormTag, annotations plugin.Annotations) string {
	if col := tag.column(); col != "" {
		return col
	}
	if ann := annotations.Get(annotationColumn); ann != nil {
		if col, ok := ann.FirstParam(plugin.ValueParam, "name"); ok && col != "" {
			return col
		}
	}
	return utils.ToSnakeCase(name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findDeclaringFile 在目录中查找声明了指定结构体的文件，先做字符串预筛选再确认 AST
func findDeclaringFile(dir, name string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	needle := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s+struct\b`)
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".go") || strings.HasSuffix(fileName, "_test.go") {
			continue
		}
		path := filepath.Join(dir, fileName)
		content, err := os.ReadFile(path)
		if err != nil || !needle.Match(content) {
			continue
		}
		file, err := parser.ParseFile(token.NewFileSet(), path, content, parser.SkipObjectResolution)
		if err != nil {
			continue
		}
		if spec, _ := findTypeSpec(file, name); spec != nil {
			return path
		}
	}
	return ""
}

// IsNotFound 是否为实体源文件不存在
func IsNotFound(err error) bool {
	var nf *meta.NotFoundError
	return errors.As(err, &nf)
}
