package plugin

import (
	"fmt"
	"slices"
	"sync"
)

// Registry 模板注册表
// 按注册顺序保存模板，模板名全局唯一
type Registry struct {
	mu sync.RWMutex

	// templates 模板名 -> 模板
	templates map[string]Template

	// order 注册顺序
	order []string
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]Template),
	}
}

// Register 注册模板
// 如果模板名已被注册，返回错误
func (r *Registry) Register(tpl Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tpl.Name()
	if name == "" {
		return fmt.Errorf("模板名不能为空")
	}
	if _, ok := r.templates[name]; ok {
		return fmt.Errorf("模板 %q 已注册", name)
	}

	r.templates[name] = tpl
	r.order = append(r.order, name)
	return nil
}

// MustRegister 注册模板，失败时 panic
func (r *Registry) MustRegister(tpl Template) {
	if err := r.Register(tpl); err != nil {
		panic(err)
	}
}

// Unregister 取消注册模板
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[name]; !ok {
		return fmt.Errorf("模板 %q 未注册", name)
	}
	delete(r.templates, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}

// Get 根据模板名获取模板
func (r *Registry) Get(name string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[name]
	return tpl, ok
}

// Templates 按注册顺序返回所有模板
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Template, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.templates[name])
	}
	return result
}

// Names 按注册顺序返回所有模板名
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Len 已注册模板数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// 全局注册表
var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// Register 注册到全局注册表
func Register(tpl Template) error {
	return globalRegistry.Register(tpl)
}

// MustRegister 注册到全局注册表，失败时 panic
func MustRegister(tpl Template) {
	globalRegistry.MustRegister(tpl)
}
