// Package cart 提供购物车状态管理与持久化。
//
// 购物车行以 (商品, 尺码, 颜色) 为唯一键：同键重复加购合并为一行，
// 数量受库存上限约束。每次变更同步持久化完整车态，
// 保证进程重启后购物车不丢失。
package cart

import "fmt"

// Line 购物车行
//
// JSON 字段名与持久化槽位中的历史格式保持一致，
// 旧版本写入的数据可以被原样读回。
type Line struct {
	// ID 行唯一键，由 LineID 派生，调用方不手工赋值
	ID string `json:"id"`

	// ProductID 商品ID
	ProductID int64 `json:"productId"`

	// ProductName 商品名称快照
	ProductName string `json:"productName"`

	// ProductImage 商品图片地址（可选）
	ProductImage string `json:"productImage,omitempty"`

	// Size 尺码
	Size string `json:"size"`

	// Color 颜色
	Color string `json:"color"`

	// UnitPrice 加购时的单价快照
	UnitPrice float64 `json:"price"`

	// Quantity 数量，恒满足 1 <= Quantity <= StockLimit
	Quantity int `json:"quantity"`

	// StockLimit 加购时的可售库存上限
	StockLimit int `json:"stock"`
}

// LineID 由 (商品ID, 尺码, 颜色) 确定性派生行键。
// 相同三元组必然得到相同键，这是同键合并的基础。
func LineID(productID int64, size, color string) string {
	return fmt.Sprintf("%d-%s-%s", productID, size, color)
}

// Subtotal 行小计
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
