package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/davecgh/go-spew/spew"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/donutnomad/crudgen/builtin"
	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/generator"
	"github.com/donutnomad/crudgen/internal/entityparse"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/meta"
	"github.com/donutnomad/crudgen/plugin"
)

func init() {
	// 集中注册内置模板
	if err := builtin.Register(plugin.Global()); err != nil {
		panic(err)
	}
}

// options 命令行参数，覆盖配置文件中的同名项
type options struct {
	configFile string
	output     string
	source     string
	module     string
	enable     []string
	disable    []string
	verbose    bool
	logFormat  string
}

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:   "crudgen",
		Short: "crudgen - 根据实体生成 CRUD 脚手架代码",
		Long: `crudgen 解析实体结构体，为其生成 dto、query、mapper、service、
service 实现、convertor 与 controller 代码。

实体可以用 "<导入路径>.<类型名>" 指定，也可以给出目录模式（如 ./...），
此时扫描所有带 @Entity 注解的结构体。`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", config.DefaultFile, "配置文件（.properties / .yaml）")
	flags.StringVarP(&opts.output, "output", "o", "", "生成代码的根目录")
	flags.StringVarP(&opts.source, "source", "s", "", "实体源码的根目录")
	flags.StringVarP(&opts.module, "module", "m", "", "根目录对应的模块路径，默认读取 go.mod")
	flags.StringSliceVar(&opts.enable, "enable", nil, "启用的模板，可重复")
	flags.StringSliceVar(&opts.disable, "disable", nil, "关闭的模板，可重复")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "详细输出")
	flags.StringVar(&opts.logFormat, "log-format", "console", "日志格式: console / json")

	root.AddCommand(genCmd(opts))
	root.AddCommand(devCmd(opts))
	root.AddCommand(templatesCmd(opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func genCmd(opts *options) *cobra.Command {
	var (
		check   bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "gen [实体或路径...]",
		Short: "执行代码生成",
		Example: `  crudgen gen ./...
  crudgen gen github.com/acme/demo/model/dal/entity.User
  crudgen gen --enable controller --disable convertor ./model/...
  crudgen gen --check ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := opts.loadConfig(log)
			if err != nil {
				return err
			}
			refs, err := resolveRefs(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				log.Warn("没有找到任何实体")
				return nil
			}

			g := generator.New(cfg,
				generator.WithRegistry(plugin.Global()),
				generator.WithLogger(log),
				generator.WithDryRun(check),
			)
			reports, genErr := g.GenerateAll(refs)

			if opts.verbose {
				for _, r := range reports {
					if r.Metadata != nil {
						spew.Fdump(os.Stderr, r.Metadata)
					}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				data, err := sonic.ConfigStd.MarshalIndent(reports, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, string(data))
			} else {
				printReports(out, reports, check)
			}

			return summarize(reports, genErr, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "只比较不写入，输出差异；有差异时返回错误")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "以 JSON 输出生成报告")
	return cmd
}

func templatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "列出已注册的模板及其启用状态",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig(log)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), plugin.FormatTemplateTable(plugin.Global(), cfg))
			return err
		},
	}
}

func (o *options) logger() (*zap.Logger, error) {
	level := "info"
	if o.verbose {
		level = "debug"
	}
	return logger.New(level, o.logFormat)
}

// loadConfig 配置文件不存在或有误时使用默认配置，再应用命令行覆盖
func (o *options) loadConfig(log *zap.Logger) (*config.Config, error) {
	cfg := config.LoadOrDefault(o.configFile, log)

	if o.output != "" {
		cfg.OutputDir = o.output
	}
	if o.source != "" {
		cfg.SourceDir = o.source
	}
	if o.module != "" {
		cfg.ModulePath = o.module
	}

	names := plugin.Global().Names()
	if unknown := lo.Without(lo.Union(o.enable, o.disable), names...); len(unknown) > 0 {
		return nil, fmt.Errorf("未注册的模板: %s，可用模板: %s", strings.Join(unknown, ", "), strings.Join(names, ", "))
	}
	for _, name := range o.enable {
		cfg.TemplateEnabled[name] = true
	}
	for _, name := range o.disable {
		cfg.TemplateEnabled[name] = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ResolveModulePath()
	return cfg, nil
}

// resolveRefs "<导入路径>.<类型名>" 直接解析，其余参数当作路径模式扫描 @Entity
func resolveRefs(ctx context.Context, cfg *config.Config, args []string) ([]meta.EntityRef, error) {
	if len(args) == 0 {
		args = []string{"./..."}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		refs     []meta.EntityRef
		patterns []string
	)
	for _, arg := range args {
		if isPattern(arg) {
			patterns = append(patterns, arg)
			continue
		}
		ref, err := meta.ParseEntityRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if len(patterns) > 0 {
		scanned, err := entityparse.NewScanner(cfg).Scan(ctx, patterns...)
		if err != nil {
			return nil, fmt.Errorf("扫描失败: %w", err)
		}
		refs = append(refs, scanned...)
	}
	return lo.UniqBy(refs, meta.EntityRef.String), nil
}

// isPattern 以 . 或 / 开头，或者是存在的路径
func isPattern(arg string) bool {
	if strings.HasPrefix(arg, ".") || strings.HasPrefix(arg, "/") || strings.HasSuffix(arg, "/...") {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

func printReports(w io.Writer, reports []*generator.Report, check bool) {
	for _, r := range reports {
		_, _ = fmt.Fprintf(w, "%s [%s] %v\n", r.Entity, r.State, r.Duration)
		for _, res := range r.Results {
			switch res.Status {
			case generator.StatusDisabled:
				continue
			case generator.StatusFailed:
				_, _ = fmt.Fprintf(w, "  ✗ %-12s %s\n", res.Template, res.Error)
				continue
			}
			for _, f := range res.Files {
				mark := "="
				if f.Changed {
					mark = "+"
				}
				_, _ = fmt.Fprintf(w, "  %s %-12s %s\n", mark, res.Template, f.Path)
				if check && f.Diff != "" {
					_, _ = fmt.Fprintln(w, f.Diff)
				}
			}
		}
	}
}

// summarize 解析失败、模板失败或 check 模式下存在差异时返回错误
func summarize(reports []*generator.Report, genErr error, check bool) error {
	errs := []error{genErr}
	changed := 0
	for _, r := range reports {
		errs = append(errs, r.Err())
		changed += len(r.Changed())
	}
	if check && changed > 0 {
		errs = append(errs, fmt.Errorf("%d 个生成文件与当前实体不一致", changed))
	}
	return errors.Join(errs...)
}
