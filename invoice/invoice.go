package invoice

import "time"

// Invoice 发票记录。字段标签与后端返回的 JSON 一致。
type Invoice struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customerName"`
	PhoneNumber  string      `json:"phoneNumber"`
	Address      string      `json:"address"`
	Note         string      `json:"note,omitempty"`
	TotalPrice   float64     `json:"totalPrice"`
	PaymentType  PaymentType `json:"paymentType"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	Items        []Item      `json:"items,omitempty"`
}

// Item 发票行项目
type Item struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// GetID 实现 domain.IObject
func (i Invoice) GetID() int64 { return i.ID }
