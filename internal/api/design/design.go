package design

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"context"
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DesignService 设计相关的业务接口
type DesignService interface {
	Create(ctx context.Context, design *model.Design, userID *int) (*model.Design, error)
	Get(id int) (*model.Design, error)
	ListByUser(userID int) ([]*model.Design, error)
	Delete(id, userID int) error
	Claim(rawID string, userID int) (*model.Design, error)
	UploadImage(file *multipart.FileHeader) (string, error)
}

// DesignHandler 处理与设计相关的HTTP请求
type DesignHandler struct {
	designService DesignService
}

// NewDesignHandler 创建一个新的 DesignHandler 实例
func NewDesignHandler(designService DesignService) *DesignHandler {
	return &DesignHandler{designService}
}

type designRequest struct {
	ImageURL string           `json:"image_url" binding:"required"`
	Model    string           `json:"model" binding:"required"`
	Type     string           `json:"type" binding:"required"`
	SKU      string           `json:"sku"`
	Stock    *bool            `json:"stock"`
	Price    *decimal.Decimal `json:"price"`
}

func (r designRequest) toModel() *model.Design {
	d := &model.Design{
		ImageURL: strings.TrimSpace(r.ImageURL),
		Model:    strings.TrimSpace(r.Model),
		Type:     strings.TrimSpace(r.Type),
		SKU:      r.SKU,
		Stock:    true,
		Price:    *r.Price,
	}
	if r.Stock != nil {
		d.Stock = *r.Stock
	}
	return d
}

func bindDesign(c *gin.Context) (*model.Design, bool) {
	var req designRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("创建设计失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return nil, false
	}
	if req.Price == nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "Price is required"))
		return nil, false
	}
	return req.toModel(), true
}

// CreateDesign 登录用户创建设计
func (h *DesignHandler) CreateDesign(c *gin.Context) {
	d, ok := bindDesign(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	created, err := h.designService.Create(c.Request.Context(), d, &userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("设计创建成功", zap.Int("design_id", created.ID), zap.Int("user_id", userID))
	errors.HandleCreated(c, created, "Design created")
}

// CreateAnonymousDesign 未登录用户创建设计，返回临时 ID 供登录后认领
func (h *DesignHandler) CreateAnonymousDesign(c *gin.Context) {
	d, ok := bindDesign(c)
	if !ok {
		return
	}

	created, err := h.designService.Create(c.Request.Context(), d, nil)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("匿名设计创建成功", zap.Int("design_id", created.ID))
	errors.HandleCreated(c, gin.H{
		"design":       created,
		"temp_id":      service.TempID(created.ID),
		"is_anonymous": true,
	}, "Design created")
}

// AssociateDesign 把匿名设计关联到当前用户
// design_id 可以是数字，也可以是 "temp_12" 形式的字符串
func (h *DesignHandler) AssociateDesign(c *gin.Context) {
	var req struct {
		DesignID json.RawMessage `json:"design_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "design_id is required", err))
		return
	}
	raw := strings.Trim(string(req.DesignID), `"`)

	d, err := h.designService.Claim(raw, middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, d, "Design associated with your account")
}

func (h *DesignHandler) GetDesign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid design id", err))
		return
	}
	d, err := h.designService.Get(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, d, "")
}

// MyDesigns 当前用户的设计存档
func (h *DesignHandler) MyDesigns(c *gin.Context) {
	designs, err := h.designService.ListByUser(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, designs, "")
}

func (h *DesignHandler) DeleteDesign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid design id", err))
		return
	}
	if err := h.designService.Delete(id, middleware.UserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Design deleted")
}

// UploadImage 表单字段 image，返回可用于创建设计的地址
func (h *DesignHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "No image uploaded", err))
		return
	}
	url, err := h.designService.UploadImage(file)
	if err != nil {
		util.Logger.Error("设计图片上传失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"image_url": url}, "Image uploaded")
}
