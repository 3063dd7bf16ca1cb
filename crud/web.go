package crud

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// Response 统一响应格式
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK 输出成功响应
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

// Fail 输出失败响应并终止后续处理
func Fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: err.Error()})
}

// FailErr 按错误类型选择状态码
func FailErr(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		Fail(c, http.StatusNotFound, err)
		return
	}
	Fail(c, http.StatusInternalServerError, err)
}

// PageParams 解析 pageNumber、pageSize 查询参数，缺省或非法时使用默认值
// 只接受十进制
func PageParams(c *gin.Context) (pageNumber, pageSize int) {
	return positiveQuery(c, "pageNumber", DefaultPageNumber), positiveQuery(c, "pageSize", DefaultPageSize)
}

func positiveQuery(c *gin.Context, key string, def int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, strconv.IntSize)
	if err != nil || n < 1 {
		return def
	}
	return int(n)
}

// PathID 解析路径参数为主键类型
// 整数按十进制解析，超出目标类型范围时报错
func PathID[ID any](c *gin.Context, name string) (ID, error) {
	var zero ID
	raw := c.Param(name)
	if raw == "" {
		return zero, fmt.Errorf("缺少路径参数 %s", name)
	}

	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case string:
		v = raw
	case int:
		var n int64
		n, err = strconv.ParseInt(raw, 10, strconv.IntSize)
		v = int(n)
	case int32:
		var n int64
		n, err = strconv.ParseInt(raw, 10, 32)
		v = int32(n)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case uint:
		var n uint64
		n, err = strconv.ParseUint(raw, 10, strconv.IntSize)
		v = uint(n)
	case uint32:
		var n uint64
		n, err = strconv.ParseUint(raw, 10, 32)
		v = uint32(n)
	case uint64:
		v, err = strconv.ParseUint(raw, 10, 64)
	case uuid.UUID:
		v, err = uuid.Parse(raw)
	default:
		return zero, fmt.Errorf("不支持的主键类型 %T", zero)
	}
	if err != nil {
		return zero, fmt.Errorf("路径参数 %s 无效: %w", name, err)
	}
	return v.(ID), nil
}
