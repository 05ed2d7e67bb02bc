package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddToCartUsesDiscountedPrice(t *testing.T) {
	carts := new(MockCartRepository)
	designs := new(MockDesignRepository)
	discounts := new(MockDiscountRepository)
	designs.On("GetByID", 11).Return(&model.Design{ID: 11, Price: decimal.RequireFromString("100.00")}, nil)
	discounts.On("CountLikesReceived", 3).Return(5, nil)
	discounts.On("GetUserDiscount", 3).Return(&model.UserDiscount{DiscountPercentage: 25}, nil)
	carts.On("Add", mock.AnythingOfType("*model.CartItem")).Return(nil)

	item, err := NewCartService(carts, designs, newTestDiscountService(discounts, 0)).AddToCart(3, 11)
	require.NoError(t, err)
	assert.Equal(t, "75.00", item.Price.StringFixed(2))
}

func TestAddToCartDuplicate(t *testing.T) {
	carts := new(MockCartRepository)
	designs := new(MockDesignRepository)
	discounts := new(MockDiscountRepository)
	designs.On("GetByID", 11).Return(&model.Design{ID: 11, Price: decimal.RequireFromString("30.00")}, nil)
	discounts.On("CountLikesReceived", 3).Return(0, nil)
	carts.On("Add", mock.AnythingOfType("*model.CartItem")).Return(interfaces.ErrDuplicate)

	_, err := NewCartService(carts, designs, newTestDiscountService(discounts, 0)).AddToCart(3, 11)
	assert.True(t, errors.Is(err, errors.ErrResourceExists))
	assert.Contains(t, err.Error(), "already in your cart")
}

func TestAddToCartUnknownDesign(t *testing.T) {
	designs := new(MockDesignRepository)
	designs.On("GetByID", 11).Return(nil, nil)

	_, err := NewCartService(new(MockCartRepository), designs, nil).AddToCart(3, 11)
	assert.True(t, errors.Is(err, errors.ErrDesignNotFound))
}

func TestRemoveFromCartNotOwned(t *testing.T) {
	carts := new(MockCartRepository)
	carts.On("Delete", 8, 3).Return(false, nil)

	err := NewCartService(carts, nil, nil).RemoveFromCart(8, 3)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}
