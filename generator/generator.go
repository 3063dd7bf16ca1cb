// Package generator 编排一次代码生成：解析实体元数据，依次执行已启用的模板，
// 单个模板失败不影响其余模板。
package generator

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/donutnomad/crudgen/builtin"
	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/internal/entityparse"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

// MetadataSource 根据实体描述符解析元数据
type MetadataSource interface {
	Parse(ref meta.EntityRef) (*meta.EntityMetadata, error)
}

// Generator 持有配置与有序的模板列表
type Generator struct {
	cfg       *config.Config
	templates []plugin.Template
	source    MetadataSource
	logger    *zap.Logger
	dryRun    bool
}

type Option func(*Generator)

// WithTemplates 替换模板列表，按给定顺序执行
func WithTemplates(templates ...plugin.Template) Option {
	return func(g *Generator) { g.templates = templates }
}

// WithRegistry 使用注册表中的模板，按注册顺序执行
func WithRegistry(reg *plugin.Registry) Option {
	return func(g *Generator) { g.templates = reg.Templates() }
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDryRun 只比较不写入，变化的文件附带 unified diff
func WithDryRun(dryRun bool) Option {
	return func(g *Generator) { g.dryRun = dryRun }
}

// WithSource 替换元数据来源，默认从源码解析
func WithSource(source MetadataSource) Option {
	return func(g *Generator) { g.source = source }
}

// New 创建 Generator，默认使用全部内置模板
func New(cfg *config.Config, opts ...Option) *Generator {
	cfg = cfg.Clone()
	cfg.ResolveModulePath()

	g := &Generator{
		cfg:       cfg,
		templates: builtin.Templates(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		g.source = entityparse.New(cfg)
	}
	return g
}

// Config 返回生成器使用的配置副本
func (g *Generator) Config() *config.Config {
	return g.cfg.Clone()
}

// Generate 为一个实体执行全部已启用的模板。
// 配置校验失败或实体定位、解析失败时返回 error，此时报告状态为 Aborted；
// 模板失败记录在报告中。
func (g *Generator) Generate(ref meta.EntityRef) (*Report, error) {
	start := time.Now()
	report := &Report{Entity: ref, State: StateCreated}
	log := g.logger.With(zap.String("entity", ref.String()))

	if err := g.cfg.Validate(); err != nil {
		transition(report, StateAborted, log)
		report.Duration = time.Since(start)
		log.Error("配置无效", zap.Error(err))
		return report, fmt.Errorf("配置无效: %w", err)
	}

	md, err := g.source.Parse(ref)
	if err != nil {
		transition(report, StateAborted, log)
		report.Duration = time.Since(start)
		log.Error("解析实体失败", zap.Error(err))
		return report, err
	}
	report.Metadata = md
	transition(report, StateMetadataResolved, log)
	log.Debug("解析实体完成", zap.String("file", md.SourceFile), zap.Int("fields", len(md.Fields)))

	for _, tpl := range g.templates {
		report.Results = append(report.Results, g.runTemplate(tpl, md, log))
	}
	transition(report, StateTemplatesRun, log)

	// 无论模板成败都进入 Completed
	transition(report, StateCompleted, log)
	report.Duration = time.Since(start)
	log.Info("生成完成",
		zap.Int("succeeded", len(report.Succeeded())),
		zap.Int("failed", len(report.Failed())),
		zap.Int("changed", len(report.Changed())),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func transition(r *Report, to State, log *zap.Logger) {
	log.Debug("状态变更", zap.Stringer("from", r.State), zap.Stringer("to", to))
	r.State = to
}

// GenerateAll 依次处理多个实体，某个实体中止不影响其余实体
func (g *Generator) GenerateAll(refs []meta.EntityRef) ([]*Report, error) {
	reports := make([]*Report, 0, len(refs))
	var errs []error
	for _, ref := range refs {
		report, err := g.Generate(ref)
		reports = append(reports, report)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

func (g *Generator) runTemplate(tpl plugin.Template, md *meta.EntityMetadata, log *zap.Logger) TemplateResult {
	name := tpl.Name()
	result := TemplateResult{Template: name}
	log = log.With(zap.String("template", name))

	if !g.cfg.IsTemplateEnabled(name) {
		result.Status = StatusDisabled
		log.Debug("模板未启用，跳过")
		return result
	}

	fail := func(err error) TemplateResult {
		genErr := &plugin.TemplateGenerationError{Template: name, Entity: md.ClassName, Cause: err}
		result.Status = StatusFailed
		result.Err = genErr
		result.Error = genErr.Error()
		log.Error("模板执行失败", zap.Error(err))
		return result
	}

	ctx := plugin.NewGenerateContext(md.Clone(), g.cfg.Clone(), log)
	out, err := safeGenerate(tpl, ctx)
	if err != nil {
		return fail(err)
	}
	if out != nil {
		for _, file := range out.Files {
			fr, err := g.emit(file)
			if err != nil {
				return fail(err)
			}
			result.Files = append(result.Files, fr)
			log.Debug("输出文件", zap.String("path", fr.Path), zap.Bool("changed", fr.Changed))
		}
	}

	result.Status = StatusSucceeded
	return result
}

// safeGenerate 模板 panic 按失败处理
func safeGenerate(tpl plugin.Template, ctx *plugin.GenerateContext) (result *plugin.GenerateResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tpl.Generate(ctx)
}

// emit 渲染、格式化，内容有变化时写入；dry run 时只生成 diff
func (g *Generator) emit(file *plugin.File) (FileResult, error) {
	out, err := file.Render()
	if err != nil {
		return FileResult{}, fmt.Errorf("渲染 %s 失败: %w", file.Path, err)
	}

	fr := FileResult{Path: file.Path, Changed: !utils.SameContent(file.Path, out)}
	if !fr.Changed {
		return fr, nil
	}
	if g.dryRun {
		fr.Diff, err = unifiedDiff(file.Path, out)
		return fr, err
	}
	return fr, utils.WriteFile(file.Path, out)
}

func unifiedDiff(path string, generated []byte) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(generated)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
}
