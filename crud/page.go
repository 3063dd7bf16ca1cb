package crud

import "github.com/samber/lo"

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// Page 分页结果
type Page[T any] struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalRow   int64 `json:"totalRow"`
	TotalPage  int   `json:"totalPage"`
	Records    []*T  `json:"records"`
}

// NewPage 创建分页参数，非法的页码和页大小使用默认值
func NewPage[T any](pageNumber, pageSize int) *Page[T] {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Page[T]{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset 当前页第一条记录的偏移量
func (p *Page[T]) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// SetTotal 设置总记录数并计算总页数
func (p *Page[T]) SetTotal(total int64) {
	p.TotalRow = total
	size := int64(p.PageSize)
	if size <= 0 {
		p.TotalPage = 0
		return
	}
	p.TotalPage = int((total + size - 1) / size)
}

// MapSlice 逐个转换
func MapSlice[T, R any](items []*T, fn func(*T) *R) []*R {
	return lo.Map(items, func(item *T, _ int) *R { return fn(item) })
}

// MapPage 转换分页记录，分页信息保持不变
func MapPage[T, R any](p *Page[T], fn func(*T) *R) *Page[R] {
	if p == nil {
		return nil
	}
	return &Page[R]{
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalRow:   p.TotalRow,
		TotalPage:  p.TotalPage,
		Records:    MapSlice(p.Records, fn),
	}
}
