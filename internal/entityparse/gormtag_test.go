package entityparse

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableNameSource = `package entity

const prefix = "t_"

type User struct{ ID int }
type OrderItem struct{ ID int }
type Account struct{ ID int }
type Wallet struct{ ID int }
type Coupon struct{ ID int }
type Admin struct{}

func (a *Account) TableName() string { return "t_account" }

func (Wallet) TableName() string {
	return "wallets_v2"
}

func (Coupon) TableName() string { return prefix + "coupon" }

func (Admin) TableName() string { return "admins_x" }
`

func TestInferTableName(t *testing.T) {
	file, err := parser.ParseFile(token.NewFileSet(), "entity.go", tableNameSource, 0)
	require.NoError(t, err)

	tests := []struct {
		structName string
		want       string
	}{
		{"User", "users"},
		{"OrderItem", "order_items"},
		// 指针接收者
		{"Account", "t_account"},
		{"Wallet", "wallets_v2"},
		// 非字面量返回值使用默认规则
		{"Coupon", "coupons"},
		// 其他类型的 TableName 不影响
		{"Missing", "missings"},
	}
	for _, tt := range tests {
		t.Run(tt.structName, func(t *testing.T) {
			assert.Equal(t, tt.want, inferTableName(file, tt.structName))
		})
	}
}

func TestParseGormTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		column  string
		primary bool
		ignored bool
	}{
		{name: "无标签"},
		{name: "column", tag: "`gorm:\"column:user_name\"`", column: "user_name"},
		{name: "primaryKey", tag: "`gorm:\"primaryKey;column:uid\"`", column: "uid", primary: true},
		{name: "primary_key", tag: "`gorm:\"PRIMARY_KEY\"`", primary: true},
		{name: "大小写不敏感", tag: "`gorm:\"Column:name ; primarykey\"`", column: "name", primary: true},
		{name: "忽略", tag: "`gorm:\"-\"`", ignored: true},
		{name: "其他标签", tag: "`json:\"name\" gorm:\"size:64\"`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := &ast.Field{}
			if tt.tag != "" {
				field.Tag = &ast.BasicLit{Kind: token.STRING, Value: tt.tag}
			}
			tag := parseGormTag(field)
			assert.Equal(t, tt.column, tag.column())
			assert.Equal(t, tt.primary, tag.primaryKey())
			assert.Equal(t, tt.ignored, tag.ignored())
		})
	}
}
