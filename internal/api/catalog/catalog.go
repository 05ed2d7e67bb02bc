package catalog

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PhoneProductService interface {
	List() ([]*model.PhoneProduct, error)
	Get(id int) (*model.PhoneProduct, error)
	Create(input service.PhoneProductInput) (*model.PhoneProduct, error)
	Update(id int, input service.PhoneProductInput) (*model.PhoneProduct, int64, error)
	Delete(id int) error
}

// CatalogHandler 手机型号目录
type CatalogHandler struct {
	products PhoneProductService
}

func NewCatalogHandler(products PhoneProductService) *CatalogHandler {
	return &CatalogHandler{products: products}
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid phone product id", err))
		return 0, false
	}
	return id, true
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.products.List()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, products, "")
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.products.Get(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, p, "")
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var input service.PhoneProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}
	p, err := h.products.Create(input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("目录条目已创建", zap.Int("product_id", p.ID), zap.String("url", p.URL))
	errors.HandleCreated(c, p, "Phone product created")
}

// Update 返回同步更新的设计数量
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var input service.PhoneProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	p, synced, err := h.products.Update(id, input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("目录条目已更新", zap.Int("product_id", id), zap.Int64("designs_synced", synced))
	errors.HandleSuccess(c, gin.H{
		"product":        p,
		"designs_synced": synced,
	}, "Phone product updated")
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Phone product deleted")
}
