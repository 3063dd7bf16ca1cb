package plugin

import (
	"regexp"
	"strings"
)

// ValueParam 单值注解 @Name("x") 的参数 key
const ValueParam = "value"

// Annotation 注释中的标记，如 @Id、@Column("user_name")、@Column(name=uid, size=20)
type Annotation struct {
	Name   string
	Params map[string]string // key 统一小写
}

// Annotations 一段注释中按出现顺序排列的注解
type Annotations []*Annotation

var (
	annotationRegex     = regexp.MustCompile(`@(\w+)(?:\(([^)]*)\))?`)
	annotationLineRegex = regexp.MustCompile(`^@\w+`)
	paramKeyRegex       = regexp.MustCompile(`^\w+$`)
)

// ParseAnnotations 解析注释文本中的全部注解，注释符号 // 和 /* */ 会被忽略
func ParseAnnotations(comment string) Annotations {
	var out Annotations
	for _, line := range strings.Split(comment, "\n") {
		for _, m := range annotationRegex.FindAllStringSubmatch(trimCommentMarks(line), -1) {
			out = append(out, &Annotation{Name: m[1], Params: parseParams(m[2])})
		}
	}
	return out
}

// parseParams 逗号分隔的 key=value 列表，值可以用双引号或反引号包裹；
// 整段没有 '=' 时作为单值参数
func parseParams(content string) map[string]string {
	params := make(map[string]string)
	content = strings.TrimSpace(content)
	if content == "" {
		return params
	}

	for _, part := range splitParams(content) {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || !paramKeyRegex.MatchString(key) {
			continue
		}
		params[strings.ToLower(key)] = unquote(strings.TrimSpace(value))
	}
	if len(params) == 0 {
		if v := unquote(content); v != "" {
			params[ValueParam] = v
		}
	}
	return params
}

// splitParams 按逗号切分，引号内的逗号保留
func splitParams(s string) []string {
	var (
		parts []string
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '`':
			quote = r
		case r == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if n := len(s); n >= 2 && (s[0] == '"' || s[0] == '`') && s[n-1] == s[0] {
		return s[1 : n-1]
	}
	return s
}

func trimCommentMarks(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "//")
	line = strings.TrimPrefix(line, "/*")
	line = strings.TrimSuffix(line, "*/")
	return strings.TrimSpace(line)
}

// StripAnnotations 去掉以注解开头的行，返回剩余的说明文本
func StripAnnotations(doc string) string {
	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !annotationLineRegex.MatchString(trimCommentMarks(line)) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func (as Annotations) Has(name string) bool {
	return as.Get(name) != nil
}

// Get 返回第一个同名注解
func (as Annotations) Get(name string) *Annotation {
	for _, a := range as {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Param 读取参数，key 不区分大小写
func (a *Annotation) Param(key string) (string, bool) {
	v, ok := a.Params[strings.ToLower(key)]
	return v, ok
}

// FirstParam 按顺序返回第一个存在的参数
func (a *Annotation) FirstParam(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := a.Param(key); ok {
			return v, true
		}
	}
	return "", false
}
