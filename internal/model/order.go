package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity 单个订单行允许的最大数量
const MaxLineQuantity = 9

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCanceled   OrderStatus = "canceled"
)

// 正向流转顺序，取消不在其中
var orderStatusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderShipped:    2,
	OrderDelivered:  3,
}

func (s OrderStatus) Valid() bool {
	if s == OrderCanceled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionTo 状态只能向前流转，取消只允许从 pending 发起；相同状态视为无变化
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if next == OrderCanceled {
		return s == OrderPending
	}
	cur, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	return orderStatusRank[next] > cur
}

// CartItem 购物车条目，价格在加入时确定
type CartItem struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	DesignID  int             `json:"design_id"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	Design    *Design         `json:"design,omitempty"`
}

// Order 订单模型，UserID 为空表示游客订单
type Order struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"order_number"`
	UserID      *int        `json:"user_id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items"`
}

// Total 订单金额
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderItem 下单时的商品快照，不随设计或目录变化
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type"`
	Model     string          `json:"model"`
	Quantity  int             `json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
