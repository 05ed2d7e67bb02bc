package interfaces

import "artcase-backend/internal/model"

type CartRepository interface {
	// Add 同一用户重复加入同一设计时返回 ErrDuplicate
	Add(item *model.CartItem) error
	ListByUser(userID int) ([]*model.CartItem, error)
	Delete(id, userID int) (bool, error)
	MostAdded(limit int) ([]*model.DesignRanking, error)
}

type OrderRepository interface {
	// Create 在同一事务中写入订单和订单项，order_number 冲突时返回 ErrDuplicate
	Create(order *model.Order) error
	GetByID(id int) (*model.Order, error)
	ListByUser(userID int) ([]*model.Order, error)
	ListAll(page, pageSize int, status string) ([]*model.Order, int, error)
	// UpdateStatus 仅当当前状态等于 from 时更新
	UpdateStatus(id int, from, to model.OrderStatus) (bool, error)
	Claim(orderID, userID int) (bool, error)
}
