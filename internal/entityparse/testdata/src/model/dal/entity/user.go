package entity

import (
	"time"

	dec "github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User 用户
// 保存登录账号信息
// @Entity
type User struct {
	// 主键
	ID int64 `gorm:"column:id;primaryKey"`
	// 用户名
	// 登录时使用
	Name  string `gorm:"column:user_name;size:64"`
	Email string
	Age   int32
	// 余额
	Balance   dec.Decimal
	Tags      []string `gorm:"serializer:json"`
	Manager   *User    `gorm:"-"`
	password  string
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
