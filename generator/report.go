package generator

import (
	"errors"
	"time"

	"github.com/donutnomad/crudgen/meta"
)

// State 一次实体生成的状态
//
//	Created -> MetadataResolved -> TemplatesRun -> Completed
//	Created -> Aborted（实体定位或解析失败）
type State int

const (
	StateCreated State = iota
	StateMetadataResolved
	StateTemplatesRun
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateMetadataResolved:
		return "metadataResolved"
	case StateTemplatesRun:
		return "templatesRun"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status 单个模板的执行结果
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusDisabled  Status = "disabled"
)

// FileResult 一个输出文件
type FileResult struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`        // 内容与磁盘上的不同（或文件不存在）
	Diff    string `json:"diff,omitempty"` // 仅 dry run 时填充
}

// TemplateResult 单个模板的执行结果
type TemplateResult struct {
	Template string       `json:"template"`
	Status   Status       `json:"status"`
	Files    []FileResult `json:"files,omitempty"`
	Err      error        `json:"-"`
	Error    string       `json:"error,omitempty"`
}

// Report 一个实体的生成报告，调用方据此得知每个模板的成败
type Report struct {
	Entity   meta.EntityRef       `json:"entity"`
	State    State                `json:"state"`
	Metadata *meta.EntityMetadata `json:"-"`
	Results  []TemplateResult     `json:"results"`
	Duration time.Duration        `json:"duration"`
}

// Result 按模板名查找结果
func (r *Report) Result(template string) (TemplateResult, bool) {
	for _, res := range r.Results {
		if res.Template == template {
			return res, true
		}
	}
	return TemplateResult{}, false
}

func (r *Report) filter(status Status) []TemplateResult {
	var out []TemplateResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) Succeeded() []TemplateResult {
	return r.filter(StatusSucceeded)
}

func (r *Report) Failed() []TemplateResult {
	return r.filter(StatusFailed)
}

// Err 合并所有失败模板的错误，全部成功时返回 nil
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// Changed 内容发生变化的文件
func (r *Report) Changed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		for _, f := range res.Files {
			if f.Changed {
				out = append(out, f)
			}
		}
	}
	return out
}
