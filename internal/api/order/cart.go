package order

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CartService interface {
	AddToCart(userID, designID int) (*model.CartItem, error)
	ViewCart(userID int) ([]*model.CartItem, error)
	RemoveFromCart(itemID, userID int) error
	MostAddedDesigns() ([]*model.DesignRanking, error)
}

// CartHandler 购物车
type CartHandler struct {
	cartService CartService
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req struct {
		DesignID int `json:"design_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "design_id is required", err))
		return
	}

	item, err := h.cartService.AddToCart(middleware.UserID(c), req.DesignID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, item, "Item added to cart")
}

func (h *CartHandler) ViewCart(c *gin.Context) {
	items, err := h.cartService.ViewCart(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, items, "")
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid cart item id", err))
		return
	}
	if err := h.cartService.RemoveFromCart(id, middleware.UserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Item removed from cart")
}

// MostAddedDesigns 被加入购物车次数最多的设计
func (h *CartHandler) MostAddedDesigns(c *gin.Context) {
	ranking, err := h.cartService.MostAddedDesigns()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, ranking, "")
}
