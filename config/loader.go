package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFile 默认配置文件名
const DefaultFile = "codegen.properties"

// keyPrefix 兼容旧版配置文件中的 codegen. 前缀
const keyPrefix = "codegen."

// ConfigLoadError 配置资源缺失、无法读取或格式错误
type ConfigLoadError struct {
	Path    string
	Missing bool
	Cause   error
}

func (e *ConfigLoadError) Error() string {
	if e.Missing {
		return fmt.Sprintf("配置文件 %s 不存在", e.Path)
	}
	return fmt.Sprintf("加载配置文件 %s 失败: %v", e.Path, e.Cause)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Cause
}

// LoadOrDefault 加载配置，失败时记录警告并返回默认配置
func LoadOrDefault(path string, logger *zap.Logger) *Config {
	cfg, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("配置加载失败，使用默认配置", zap.String("path", path), zap.Error(err))
		}
		return Default()
	}
	return cfg
}

// Load 按扩展名加载配置文件：.properties 或 .yaml/.yml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Missing: errors.Is(err, fs.ErrNotExist), Cause: err}
	}

	var values map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		values, err = parseYAML(data)
	case ".properties", "":
		values, err = parseProperties(data)
	default:
		err = fmt.Errorf("不支持的配置格式 %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Cause: err}
	}

	cfg, err := FromMap(values)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Cause: err}
	}
	return cfg, nil
}

func parseProperties(data []byte) (map[string]string, error) {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

func parseYAML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := flatten("", raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// flatten 把嵌套的 map 展开为点分 key
func flatten(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case nil:
			out[key] = ""
		default:
			s, err := cast.ToStringE(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = s
		}
	}
	return nil
}

// FromMap 由扁平的 key/value 构建配置；未识别的 key 视为错误
func FromMap(values map[string]string) (*Config, error) {
	cfg := Default()
	var unknown []string

	for _, rawKey := range slices.Sorted(maps.Keys(values)) {
		value := strings.TrimSpace(values[rawKey])
		key := strings.TrimPrefix(rawKey, keyPrefix)

		switch {
		case key == "output.dir":
			cfg.OutputDir = value
		case key == "source.dir":
			cfg.SourceDir = value
		case key == "module.path":
			cfg.ModulePath = value
		case key == "base.package":
			cfg.BasePackage = value
		case key == "entity.package.suffix":
			cfg.EntityPackageSuffix = value
		case key == "service.softdelete.column":
			cfg.SoftDeleteColumn = value
		case key == "controller.route":
			cfg.ControllerRoute = value
		case key == "file.header":
			cfg.Header = value
		case strings.HasPrefix(key, "package."):
			layer := strings.TrimPrefix(key, "package.")
			if !slices.Contains(Layers, layer) {
				unknown = append(unknown, rawKey)
				continue
			}
			cfg.PackageSuffixes[layer] = value
		case strings.HasPrefix(key, "template.") && strings.HasSuffix(key, ".enabled"):
			name := strings.TrimSuffix(strings.TrimPrefix(key, "template."), ".enabled")
			if !slices.Contains(Layers, name) {
				unknown = append(unknown, rawKey)
				continue
			}
			enabled, err := cast.ToBoolE(value)
			if err != nil {
				return nil, fmt.Errorf("%s 不是合法的布尔值: %q", rawKey, value)
			}
			cfg.TemplateEnabled[name] = enabled
		default:
			unknown = append(unknown, rawKey)
		}
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("未识别的配置项: %s", strings.Join(unknown, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
