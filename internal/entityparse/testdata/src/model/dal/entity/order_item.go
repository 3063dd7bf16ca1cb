package entity

import "github.com/acme/demo/pkg/enums"

type Base struct {
	Version int
}

// OrderItem 订单明细
// @Entity
type OrderItem struct {
	Base
	// @Id
	// @Column("item_no")
	ItemNo string
	// 商品编号
	// @Column(value="sku")
	SkuCode string
	Price, Discount float64 // @Column(name=unit_price)
	Status enums.Status
	Extra  map[string]any
}

func (OrderItem) TableName() string {
	return "t_order_item"
}
