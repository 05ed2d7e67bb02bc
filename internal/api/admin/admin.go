package admin

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminService interface {
	GetUsers(page, pageSize int) ([]*model.User, int, error)
	UpdateUserStatus(userID int, status string, suspensionDays int) (*model.User, error)
	SetUserDiscount(userID, percentage int, validUntil *time.Time) (*model.UserDiscount, error)
	GetErrorStats() map[string]interface{}
}

type AnalyticsService interface {
	Get(ctx context.Context, start, end string) (*model.Analytics, error)
}

type StatsService interface {
	GetSystemStats() (map[string]interface{}, error)
}

type FulfillmentService interface {
	Fulfill(ctx context.Context, input service.FulfillmentInput) (*service.FulfillmentResult, error)
}

// AdminHandler 按功能模块组织处理方法
type AdminHandler struct {
	adminService       AdminService
	analyticsService   AnalyticsService
	statsService       StatsService
	fulfillmentService FulfillmentService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(adminService AdminService, analyticsService AnalyticsService, statsService StatsService,
	fulfillmentService FulfillmentService) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		analyticsService:   analyticsService,
		statsService:       statsService,
		fulfillmentService: fulfillmentService,
	}
}

func userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid user id", err))
		return 0, false
	}
	return id, true
}

// 用户管理
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	users, total, err := h.adminService.GetUsers(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"users": users,
		"pagination": gin.H{
			"current_page": page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  (total + pageSize - 1) / pageSize,
		},
	}, "")
}

// UpdateUserStatus 停用时需要 suspension_duration（天）
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var input struct {
		Status             string `json:"status" binding:"required,user_status"`
		SuspensionDuration int    `json:"suspension_duration"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid status value", err))
		return
	}

	user, err := h.adminService.UpdateUserStatus(id, input.Status, input.SuspensionDuration)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"id":                  user.ID,
		"status":              user.Status,
		"suspension_end_date": user.SuspensionEndDate,
	}, "User status updated")
}

// SetUserDiscount valid_until 格式为 YYYY-MM-DD，可为空
func (h *AdminHandler) SetUserDiscount(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var input struct {
		DiscountPercentage int    `json:"discount_percentage"`
		ValidUntil         string `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	var validUntil *time.Time
	if input.ValidUntil != "" {
		t, err := time.Parse("2006-01-02", input.ValidUntil)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "valid_until must be YYYY-MM-DD", err))
			return
		}
		validUntil = &t
	}

	discount, err := h.adminService.SetUserDiscount(id, input.DiscountPercentage, validUntil)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, discount, "User discount updated")
}

// 数据分析
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.Get(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, analytics, "")
}

// Fulfill 生成打印文件并向印刷服务提交订单
func (h *AdminHandler) Fulfill(c *gin.Context) {
	var input service.FulfillmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	result, err := h.fulfillmentService.Fulfill(c.Request.Context(), input)
	if err != nil {
		util.Logger.Error("提交印刷订单失败", zap.Int("design_id", input.DesignID), zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, result, "Order submitted for printing")
}

// 系统管理
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, stats, "")
}

func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	errors.HandleSuccess(c, h.adminService.GetErrorStats(), "")
}
