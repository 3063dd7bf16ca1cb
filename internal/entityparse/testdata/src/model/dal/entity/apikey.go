package entity

type APIKey struct {
	Key string `gorm:"PRIMARY_KEY"`
}
