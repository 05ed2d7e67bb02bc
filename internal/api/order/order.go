package order

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderService interface {
	Checkout(input service.CheckoutInput, userID *int) (*model.Order, error)
	GetOrder(id int, access service.OrderAccess) (*model.Order, error)
	MyOrders(userID int) ([]*model.Order, error)
	AllOrders(page, pageSize int, status string) ([]*model.Order, int, error)
	Cancel(id int, access service.OrderAccess) (*model.Order, error)
	UpdateStatus(id int, status string) (*model.Order, error)
	Claim(orderID, userID int) error
	ClaimMany(orderIDs []int, userID int) (int, error)
}

// OrderHandler 下单、订单查询和订单归属
type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid order id", err))
		return 0, false
	}
	return id, true
}

// Checkout 支持游客下单，每行数量 1 到 9
func (h *OrderHandler) Checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("下单失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid input data", err))
		return
	}

	var userID *int
	if id := middleware.UserID(c); id > 0 {
		userID = &id
	}

	order, err := h.orderService.Checkout(input, userID)
	if err != nil {
		util.Logger.Warn("下单失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, gin.H{
		"order":        order,
		"order_number": order.OrderNumber,
		"total":        order.Total(),
	}, "Order created successfully")
}

// orderAccess 游客订单通过 order_number 查询参数证明持有
func orderAccess(c *gin.Context) service.OrderAccess {
	return service.OrderAccess{
		UserID:      middleware.UserID(c),
		IsAdmin:     middleware.IsAdmin(c),
		OrderNumber: c.Query("order_number"),
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(id, orderAccess(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "")
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.orderService.MyOrders(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, orders, "")
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(id, orderAccess(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, order, "Order canceled successfully")
}

// AssociateOrder 把游客订单关联到当前用户
func (h *OrderHandler) AssociateOrder(c *gin.Context) {
	var req struct {
		OrderID int `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "order_id is required", err))
		return
	}
	if err := h.orderService.Claim(req.OrderID, middleware.UserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Order associated with your account")
}

// AssociateOrders 批量关联，请求体 {"orders": [{"id": 1}, ...]}
func (h *OrderHandler) AssociateOrders(c *gin.Context) {
	var req struct {
		Orders []struct {
			ID int `json:"id"`
		} `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "orders is required", err))
		return
	}

	ids := make([]int, 0, len(req.Orders))
	for _, o := range req.Orders {
		ids = append(ids, o.ID)
	}
	n, err := h.orderService.ClaimMany(ids, middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"associated": n}, fmt.Sprintf("%d orders associated.", n))
}

// ListOrders 管理员订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.orderService.AllOrders(page, pageSize, c.DefaultQuery("status", "all"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// UpdateOrderStatus 管理员更新订单状态
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,order_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid status value", err))
		return
	}

	order, err := h.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("订单状态已更新", zap.Int("order_id", id), zap.String("status", req.Status))
	errors.HandleSuccess(c, order, "Order status updated")
}
