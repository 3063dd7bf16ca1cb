package meta

import (
	"errors"
	"strings"
)

// ErrNoIdentifier 实体没有标识字段
var ErrNoIdentifier = errors.New("未找到标识字段")

// ErrAmbiguousIdentifier 实体有多个标识字段
var ErrAmbiguousIdentifier = errors.New("存在多个标识字段")

// NotFoundError 实体源文件不存在
type NotFoundError struct {
	Entity EntityRef
	Paths  []string // 尝试过的路径
}

func (e *NotFoundError) Error() string {
	return "未找到实体 " + e.Entity.String() + " 的源文件: " + strings.Join(e.Paths, ", ")
}

// ParseError 实体源文件无法解析、类型不存在或标识字段不合法
type ParseError struct {
	Entity EntityRef
	File   string
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("解析实体 ")
	b.WriteString(e.Entity.String())
	b.WriteString(" 失败")
	if e.File != "" {
		b.WriteString(" (" + e.File + ")")
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
