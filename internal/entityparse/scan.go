package entityparse

import (
	"bufio"
	"cmp"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

// EntityAnnotation 标记需要生成代码的实体
const EntityAnnotation = "Entity"

// Scanner 两阶段并行实体扫描器
// 第一阶段：快速文本匹配，找出可能包含 @Entity 的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	cfg     *config.Config
	workers int
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func NewScanner(cfg *config.Config, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		cfg:     cfg,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan 扫描指定路径，返回带 @Entity 注解的结构体
// 支持: ./... ./pkg/... ./pkg /abs/path/file.go
func (s *Scanner) Scan(ctx context.Context, patterns ...string) ([]meta.EntityRef, error) {
	allFiles, err := collectFiles(patterns)
	if err != nil {
		return nil, err
	}
	if len(allFiles) == 0 {
		return nil, nil
	}

	matched := parallel(ctx, s.workers, allFiles, func(file string) []string {
		if ok, _ := QuickMatchFile(file); ok {
			return []string{file}
		}
		return nil
	})

	refs := parallel(ctx, s.workers, matched, s.parseFile)
	slices.SortFunc(refs, func(a, b meta.EntityRef) int {
		return cmp.Or(cmp.Compare(a.Package, b.Package), cmp.Compare(a.Name, b.Name))
	})
	return refs, ctx.Err()
}

// parallel 使用固定数量的工作者处理输入，结果顺序不保证
func parallel[In, Out any](ctx context.Context, workers int, inputs []In, fn func(In) []Out) []Out {
	inCh := make(chan In, len(inputs))
	outCh := make(chan []Out, len(inputs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case in, ok := <-inCh:
					if !ok {
						return
					}
					outCh <- fn(in)
				}
			}
		}()
	}

	for _, in := range inputs {
		inCh <- in
	}
	close(inCh)

	go func() {
		wg.Wait()
		close(outCh)
	}()

	var result []Out
	for out := range outCh {
		result = append(result, out...)
	}
	return result
}

// QuickMatchFile 快速检查文件注释中是否包含 @Entity
// 用于 dev 模式判断文件是否需要触发代码生成
func QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}
		if plugin.ParseAnnotations(trimmed).Has(EntityAnnotation) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// parseFile AST 解析单个文件，解析失败的文件直接跳过
func (s *Scanner) parseFile(filePath string) []meta.EntityRef {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil
	}

	pkg := s.importPath(filepath.Dir(filePath))
	var refs []meta.EntityRef
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := typeSpec.Type.(*ast.StructType); !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil && !genDecl.Lparen.IsValid() {
				doc = genDecl.Doc
			}
			if !plugin.ParseAnnotations(doc.Text()).Has(EntityAnnotation) {
				continue
			}
			refs = append(refs, meta.EntityRef{
				Name:       typeSpec.Name.Name,
				Package:    pkg,
				SourceFile: filePath,
			})
		}
	}
	return refs
}

// importPath 目录对应的导入路径：模块路径 + 相对源码根目录的路径
func (s *Scanner) importPath(dir string) string {
	root, err := filepath.Abs(s.cfg.Sources())
	if err != nil {
		return filepath.ToSlash(dir)
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return s.cfg.ModulePath
	case s.cfg.ModulePath == "":
		return rel
	default:
		return s.cfg.ModulePath + "/" + rel
	}
}

// collectFiles 收集所有需要扫描的文件
func collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		if recursive {
			pattern = strings.TrimSuffix(pattern, "/...")
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") {
				add(absPath)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != absPath && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata" || !recursive) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
