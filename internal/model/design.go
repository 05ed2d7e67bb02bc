package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultSKU      = "none"
	UnknownCategory = "unknown"
	TempIDPrefix    = "temp_"
)

// Design 手机壳设计
// UserID 为空表示匿名设计，可被认领一次
type Design struct {
	ID        int             `json:"id"`
	UserID    *int            `json:"user_id"`
	ImageURL  string          `json:"image_url"`
	Model     string          `json:"model"`
	Type      string          `json:"type"`
	SKU       string          `json:"sku"`
	Stock     bool            `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	Class     string          `json:"class"`
	Color1    string          `json:"color1"`
	Color2    string          `json:"color2"`
	Color3    string          `json:"color3"`
	CreatedAt time.Time       `json:"created_at"`
	User      *UserSummary    `json:"user,omitempty"`

	// StockStatus 展示用的库存文本，由接口层填充
	StockStatus string `json:"stock_status,omitempty"`
}

// IsAnonymous 未被任何用户认领
func (d *Design) IsAnonymous() bool {
	return d.UserID == nil
}

// OwnedBy 是否属于指定用户
func (d *Design) OwnedBy(userID int) bool {
	return d.UserID != nil && *d.UserID == userID
}

// StockLabel 库存显示文本
func (d *Design) StockLabel() string {
	if d.Stock {
		return "In Stock"
	}
	return "Out of Stock"
}

// Classification 分类服务返回的结果
type Classification struct {
	Category string `json:"category"`
	Color1   string `json:"color1"`
	Color2   string `json:"color2"`
	Color3   string `json:"color3"`
}

// UnknownClassification 分类失败时使用
func UnknownClassification() Classification {
	return Classification{Category: UnknownCategory}
}
