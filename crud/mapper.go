// Package crud 是生成代码在运行时依赖的持久化与 Web 辅助组件。
//
// 生成的 mapper 嵌入 Mapper 接口，由 NewGormMapper 提供基于 gorm 的默认实现；
// 生成的 serviceImpl 通过 QueryWrapper 拼装查询条件；生成的 controller 使用
// gin 辅助函数解析参数并输出统一格式的响应。
package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mapper 通用数据访问接口
type Mapper[T any, ID any] interface {
	// SelectOneByID 按主键查询，记录不存在时返回 nil, nil
	SelectOneByID(ctx context.Context, id ID) (*T, error)
	Insert(ctx context.Context, item *T) error
	// Update 按主键更新非零值字段
	Update(ctx context.Context, item *T) error
	DeleteByID(ctx context.Context, id ID) error
	SelectListByQuery(ctx context.Context, query *QueryWrapper) ([]*T, error)
	SelectCountByQuery(ctx context.Context, query *QueryWrapper) (int64, error)
	// Paginate 按 page 的页码和页大小查询，填充总数和记录后返回
	Paginate(ctx context.Context, page *Page[T], query *QueryWrapper) (*Page[T], error)
}

// GormMapper 基于 gorm 的 Mapper 实现
type GormMapper[T any, ID any] struct {
	db *gorm.DB
}

var _ Mapper[struct{}, int64] = (*GormMapper[struct{}, int64])(nil)

// NewGormMapper 创建 gorm 实现
func NewGormMapper[T any, ID any](db *gorm.DB) *GormMapper[T, ID] {
	return &GormMapper[T, ID]{db: db}
}

// DB 返回带上下文的 gorm 会话
func (m *GormMapper[T, ID]) DB(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}

func (m *GormMapper[T, ID]) SelectOneByID(ctx context.Context, id ID) (*T, error) {
	var item T
	err := m.DB(ctx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *GormMapper[T, ID]) Insert(ctx context.Context, item *T) error {
	return m.DB(ctx).Create(item).Error
}

func (m *GormMapper[T, ID]) Update(ctx context.Context, item *T) error {
	return m.DB(ctx).Model(item).Updates(item).Error
}

func (m *GormMapper[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	return m.DB(ctx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).Delete(new(T)).Error
}

func (m *GormMapper[T, ID]) SelectListByQuery(ctx context.Context, query *QueryWrapper) ([]*T, error) {
	var items []*T
	if err := m.DB(ctx).Scopes(query.Scope()).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (m *GormMapper[T, ID]) SelectCountByQuery(ctx context.Context, query *QueryWrapper) (int64, error) {
	var total int64
	if err := m.DB(ctx).Model(new(T)).Scopes(query.Scope()).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (m *GormMapper[T, ID]) Paginate(ctx context.Context, page *Page[T], query *QueryWrapper) (*Page[T], error) {
	total, err := m.SelectCountByQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	page.SetTotal(total)
	if total == 0 || page.PageNumber > page.TotalPage {
		page.Records = []*T{}
		return page, nil
	}

	var items []*T
	err = m.DB(ctx).Scopes(query.Scope()).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	page.Records = items
	return page, nil
}
