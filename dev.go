package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/donutnomad/crudgen/config"
	"github.com/donutnomad/crudgen/generator"
	"github.com/donutnomad/crudgen/internal/entityparse"
	"github.com/donutnomad/crudgen/plugin"
)

// generatedSuffixes 内置模板的输出文件后缀，这些文件的变化不触发生成
var generatedSuffixes = []string{
	"_test.go",
	"_dto.go",
	"_query.go",
	"_mapper.go",
	"_service.go",
	"_service_impl.go",
	"_convertor.go",
	"_controller.go",
}

// devRunner 处理文件变动的核心逻辑
type devRunner struct {
	log      *zap.Logger
	gen      *generator.Generator
	scanner  *entityparse.Scanner
	watcher  *fsnotify.Watcher
	debounce time.Duration
	ctx      context.Context // 用于响应退出信号

	// 防抖动相关
	mu           sync.Mutex
	pendingFiles map[string]*time.Timer // key: 实体源文件路径
}

func devCmd(opts *options) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "dev [路径...]",
		Short: "开发模式，监听实体文件变动自动生成",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			log, err := opts.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := opts.loadConfig(log)
			if err != nil {
				return err
			}
			return dev(cfg, log, args, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "防抖动时间")
	return cmd
}

// dev 启动开发模式
func dev(cfg *config.Config, log *zap.Logger, patterns []string, debounce time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("正在退出...")
		cancel()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	runner := &devRunner{
		log:          log,
		gen:          generator.New(cfg, generator.WithRegistry(plugin.Global()), generator.WithLogger(log)),
		scanner:      entityparse.NewScanner(cfg),
		watcher:      watcher,
		debounce:     debounce,
		ctx:          ctx,
		pendingFiles: make(map[string]*time.Timer),
	}

	// 退出时停止所有待处理的定时器
	defer func() {
		runner.mu.Lock()
		for _, timer := range runner.pendingFiles {
			timer.Stop()
		}
		runner.mu.Unlock()
	}()

	dirs, err := collectWatchDirs(patterns)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("没有找到需要监听的目录")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
		}
		log.Debug("监听目录", zap.String("dir", dir))
	}

	log.Info("开发模式已启动，按 Ctrl+C 退出", zap.Int("dirs", len(dirs)))
	return runner.watchLoop(ctx)
}

// watchLoop 事件处理循环
func (r *devRunner) watchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("监听错误", zap.Error(err))
		}
	}
}

// handleEvent 只处理带 @Entity 注解且语法正确的 .go 文件
func (r *devRunner) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	filePath := event.Name
	if !strings.HasSuffix(filePath, ".go") || isGeneratedFile(filePath) {
		return
	}
	log := r.log.With(zap.String("file", filePath))
	log.Debug("检测到文件变化")

	hasEntity, err := entityparse.QuickMatchFile(filePath)
	if err != nil {
		log.Debug("检查注解失败", zap.Error(err))
		return
	}
	if !hasEntity {
		log.Debug("跳过文件（无 @Entity）")
		return
	}

	if err := checkSyntax(filePath); err != nil {
		log.Warn("语法错误", zap.Error(err))
		return
	}

	r.scheduleGenerate(filePath)
}

// scheduleGenerate 防抖动调度生成
func (r *devRunner) scheduleGenerate(filePath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, exists := r.pendingFiles[filePath]; exists {
		timer.Stop()
	}

	r.pendingFiles[filePath] = time.AfterFunc(r.debounce, func() {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		r.runGenerate(filePath)

		r.mu.Lock()
		delete(r.pendingFiles, filePath)
		r.mu.Unlock()
	})
}

// runGenerate 重新生成变动文件中的全部实体
func (r *devRunner) runGenerate(filePath string) {
	refs, err := r.scanner.Scan(r.ctx, filePath)
	if err != nil {
		r.log.Error("扫描失败", zap.String("file", filePath), zap.Error(err))
		return
	}

	reports, err := r.gen.GenerateAll(refs)
	if err != nil {
		r.log.Error("生成失败", zap.Error(err))
	}
	changed := 0
	for _, report := range reports {
		changed += len(report.Changed())
	}
	r.log.Info("生成完成", zap.String("file", filePath), zap.Int("entities", len(refs)), zap.Int("changed", changed))
}

// checkSyntax 检查文件语法
func checkSyntax(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	_, err = imports.Process(filePath, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true, // 只检查语法，不修改 imports
	})
	return err
}

// collectWatchDirs 收集所有需要监听的目录
func collectWatchDirs(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		baseDir := strings.TrimSuffix(pattern, "/...")

		absDir, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absDir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}

		if !recursive {
			if !seen[absDir] {
				seen[absDir] = true
				dirs = append(dirs, absDir)
			}
			continue
		}

		err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// 跳过隐藏目录、vendor 和 testdata
			name := d.Name()
			if path != absDir && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			if !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}

// isGeneratedFile 检查是否是生成的文件
func isGeneratedFile(filePath string) bool {
	base := filepath.Base(filePath)
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
