package crud

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Operator 条件运算符
type Operator string

const (
	OpEq     Operator = "="
	OpIsNull Operator = "IS NULL"
)

// Condition 单个查询条件
type Condition struct {
	Column string
	Op     Operator
	Value  any
}

// QueryWrapper 查询条件构造器，条件之间为 AND 关系
type QueryWrapper struct {
	conditions []Condition
}

// NewQueryWrapper 创建空的查询条件
func NewQueryWrapper() *QueryWrapper {
	return &QueryWrapper{}
}

// Eq column = value
func (q *QueryWrapper) Eq(column string, value any) *QueryWrapper {
	q.conditions = append(q.conditions, Condition{Column: column, Op: OpEq, Value: value})
	return q
}

// IsNull column IS NULL
func (q *QueryWrapper) IsNull(column string) *QueryWrapper {
	q.conditions = append(q.conditions, Condition{Column: column, Op: OpIsNull})
	return q
}

// Conditions 返回已添加的条件
func (q *QueryWrapper) Conditions() []Condition {
	if q == nil {
		return nil
	}
	return q.conditions
}

// Len 条件数量
func (q *QueryWrapper) Len() int {
	return len(q.Conditions())
}

// Expressions 转换为 gorm 子句表达式
func (q *QueryWrapper) Expressions() []clause.Expression {
	exprs := make([]clause.Expression, 0, q.Len())
	for _, c := range q.Conditions() {
		column := clause.Column{Table: clause.CurrentTable, Name: c.Column}
		switch c.Op {
		case OpIsNull:
			exprs = append(exprs, clause.Eq{Column: column, Value: nil})
		default:
			exprs = append(exprs, clause.Eq{Column: column, Value: c.Value})
		}
	}
	return exprs
}

// Scope 返回 gorm scope，nil 或空条件不做任何限制
func (q *QueryWrapper) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		exprs := q.Expressions()
		if len(exprs) == 0 {
			return db
		}
		return db.Clauses(clause.Where{Exprs: exprs})
	}
}
