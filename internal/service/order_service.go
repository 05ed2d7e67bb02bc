package service

import (
	"artcase-backend/internal/common"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	orderNumberAttempts = 3
	checkoutAttempts    = 3
)

// 订单号格式 ORD-YYYYMMDD-XXXXXXXX
var newOrderNumber = func(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// CheckoutInput 下单请求，商品信息是下单时的快照
type CheckoutInput struct {
	Email       string            `json:"email" binding:"required,email"`
	FirstName   string            `json:"first_name" binding:"required"`
	LastName    string            `json:"last_name" binding:"required"`
	PhoneNumber string            `json:"phone_number"`
	Address     string            `json:"address" binding:"required"`
	City        string            `json:"city" binding:"required"`
	Country     string            `json:"country" binding:"required"`
	Items       []model.OrderItem `json:"items" binding:"required"`
}

type OrderService struct {
	repo   interfaces.OrderRepository
	mailer Mailer
}

func NewOrderService(repo interfaces.OrderRepository, mailer Mailer) *OrderService {
	return &OrderService{repo: repo, mailer: mailer}
}

// validateItems 任何一行不合法都拒绝整个订单
func validateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return errors.New(errors.ErrValidation, "Order must contain at least one item")
	}
	for i, item := range items {
		if item.Quantity > model.MaxLineQuantity {
			return errors.New(errors.ErrQuantityExceeded,
				fmt.Sprintf("Quantity for item %d cannot exceed %d", i+1, model.MaxLineQuantity))
		}
		if item.Quantity < 1 {
			return errors.New(errors.ErrValidation, fmt.Sprintf("Quantity for item %d must be at least 1", i+1))
		}
		if item.Price.IsNegative() {
			return errors.New(errors.ErrValidation, fmt.Sprintf("Price for item %d must be non-negative", i+1))
		}
		if strings.TrimSpace(item.Name) == "" {
			return errors.New(errors.ErrValidation, fmt.Sprintf("Name for item %d is required", i+1))
		}
	}
	return nil
}

// Checkout 创建订单，userID 为 nil 表示游客下单
func (s *OrderService) Checkout(input CheckoutInput, userID *int) (*model.Order, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, len(input.Items))
	for i, item := range input.Items {
		item.ID, item.OrderID = 0, 0
		item.Price = item.Price.Round(2)
		items[i] = item
	}
	order := &model.Order{
		UserID:      userID,
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		Country:     input.Country,
		Status:      model.OrderPending,
		Items:       items,
	}

	create := func() error {
		order.OrderNumber = newOrderNumber(time.Now())
		return s.repo.Create(order)
	}
	isDuplicate := func(err error) bool {
		return stderrors.Is(err, interfaces.ErrDuplicate)
	}
	err := common.WithRetry(func() error {
		return common.WithRetries(create, orderNumberAttempts, isDuplicate)
	}, checkoutAttempts)
	if err != nil {
		util.Logger.Error("创建订单失败", zap.String("email", input.Email), zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create order", err)
	}

	if s.mailer != nil {
		s.mailer.SendOrderConfirmation(order)
	}
	return order, nil
}

func (s *OrderService) getOrder(id int) (*model.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load order", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Order not found")
	}
	return order, nil
}

// OrderAccess 访问订单的身份，OrderNumber 是游客订单的凭证
type OrderAccess struct {
	UserID      int
	IsAdmin     bool
	OrderNumber string
}

// canAccess 已归属的订单只有本人和管理员可以访问，游客订单需要出示订单号
func canAccess(order *model.Order, access OrderAccess) bool {
	if access.IsAdmin {
		return true
	}
	if order.UserID != nil {
		return *order.UserID == access.UserID
	}
	return access.OrderNumber != "" && access.OrderNumber == order.OrderNumber
}

func (s *OrderService) GetOrder(id int, access OrderAccess) (*model.Order, error) {
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if !canAccess(order, access) {
		return nil, errors.New(errors.ErrForbidden, "You do not have permission to view this order")
	}
	return order, nil
}

func (s *OrderService) MyOrders(userID int) ([]*model.Order, error) {
	orders, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load orders", err)
	}
	return orders, nil
}

// AllOrders 管理员订单列表，status 为空或 all 时不过滤
func (s *OrderService) AllOrders(page, pageSize int, status string) ([]*model.Order, int, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !model.OrderStatus(status).Valid() {
		return nil, 0, errors.New(errors.ErrValidation, "Invalid status value")
	}
	orders, total, err := s.repo.ListAll(page, pageSize, status)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "Failed to load orders", err)
	}
	return orders, total, nil
}

// Cancel 只有 pending 状态的订单可以取消
func (s *OrderService) Cancel(id int, access OrderAccess) (*model.Order, error) {
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if !canAccess(order, access) {
		return nil, errors.New(errors.ErrForbidden, "You do not have permission to cancel this order")
	}
	if order.Status != model.OrderPending {
		return nil, errors.New(errors.ErrOrderNotCancelable,
			fmt.Sprintf("Order cannot be canceled because it is already %s.", order.Status))
	}

	updated, err := s.repo.UpdateStatus(id, model.OrderPending, model.OrderCanceled)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to cancel order", err)
	}
	if !updated {
		return nil, errors.New(errors.ErrOrderNotCancelable, "Order status changed, it can no longer be canceled.")
	}
	order.Status = model.OrderCanceled
	util.Logger.Info("订单已取消", zap.Int("order_id", id), zap.Int("user_id", access.UserID))
	return order, nil
}

// UpdateStatus 管理员更新订单状态，只允许向前流转
func (s *OrderService) UpdateStatus(id int, status string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, errors.New(errors.ErrValidation, "Invalid status value")
	}
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return order, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, errors.New(errors.ErrInvalidStatusTransition,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, next))
	}

	updated, err := s.repo.UpdateStatus(id, order.Status, next)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update order status", err)
	}
	if !updated {
		return nil, errors.New(errors.ErrResourceConflict, "Order status was changed by another request")
	}
	order.Status = next
	return order, nil
}

// Claim 把游客订单归属给当前用户，只能成功一次
func (s *OrderService) Claim(orderID, userID int) error {
	claimed, err := s.repo.Claim(orderID, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to associate order", err)
	}
	if claimed {
		util.Logger.Info("订单已关联用户", zap.Int("order_id", orderID), zap.Int("user_id", userID))
		return nil
	}
	if _, err := s.getOrder(orderID); err != nil {
		return err
	}
	return errors.New(errors.ErrAlreadyOwned, "This order is already associated with an account.")
}

// ClaimMany 批量关联，已归属或不存在的订单直接跳过，返回成功数量
func (s *OrderService) ClaimMany(orderIDs []int, userID int) (int, error) {
	associated := 0
	for _, id := range orderIDs {
		claimed, err := s.repo.Claim(id, userID)
		if err != nil {
			return associated, errors.Wrap(errors.ErrDatabase, "Failed to associate orders", err)
		}
		if claimed {
			associated++
		}
	}
	return associated, nil
}
