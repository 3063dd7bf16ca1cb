package entity

// @Entity
type Broken struct {
	ID int64 `gorm:"primaryKey"`
