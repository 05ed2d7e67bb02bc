package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutInput(quantities ...int) CheckoutInput {
	input := CheckoutInput{
		Email:     "guest@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		Address:   "1 Main St",
		City:      "Austin",
		Country:   "US",
	}
	for _, q := range quantities {
		input.Items = append(input.Items, model.OrderItem{
			Name:     "Cats case",
			Price:    decimal.RequireFromString("25.00"),
			Model:    "iphone 15",
			Type:     "clear",
			Quantity: q,
		})
	}
	return input
}

func TestCheckoutGuest(t *testing.T) {
	repo := new(MockOrderRepository)
	mailer := new(MockMailer)
	repo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
	mailer.On("SendOrderConfirmation", mock.AnythingOfType("*model.Order")).Return()

	order, err := NewOrderService(repo, mailer).Checkout(checkoutInput(9, 1), nil)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), order.OrderNumber)
	assert.Equal(t, "250.00", order.Total().StringFixed(2))
	mailer.AssertNumberOfCalls(t, "SendOrderConfirmation", 1)
}

func TestCheckoutRejectsWholeOrder(t *testing.T) {
	tests := []struct {
		name  string
		input CheckoutInput
		code  errors.ErrorCode
	}{
		{"quantity over nine", checkoutInput(1, 10), errors.ErrQuantityExceeded},
		{"zero quantity", checkoutInput(0), errors.ErrValidation},
		{"no items", checkoutInput(), errors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)

			_, err := NewOrderService(repo, nil).Checkout(tt.input, nil)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("Create", mock.AnythingOfType("*model.Order")).Return(interfaces.ErrDuplicate).Once()
	repo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil).Once()

	numbers := []string{"ORD-20241201-AAAAAAAA", "ORD-20241201-BBBBBBBB"}
	orig := newOrderNumber
	newOrderNumber = func(time.Time) string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}
	defer func() { newOrderNumber = orig }()

	userID := 3
	order, err := NewOrderService(repo, nil).Checkout(checkoutInput(1), &userID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20241201-BBBBBBBB", order.OrderNumber)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestCancel(t *testing.T) {
	owner := 3
	tests := []struct {
		name   string
		status model.OrderStatus
		code   errors.ErrorCode
	}{
		{"processing", model.OrderProcessing, errors.ErrOrderNotCancelable},
		{"shipped", model.OrderShipped, errors.ErrOrderNotCancelable},
		{"already canceled", model.OrderCanceled, errors.ErrOrderNotCancelable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("GetByID", 1).Return(&model.Order{ID: 1, UserID: &owner, Status: tt.status}, nil)

			_, err := NewOrderService(repo, nil).Cancel(1, OrderAccess{UserID: owner})
			assert.True(t, errors.Is(err, tt.code))
			assert.Contains(t, err.Error(), string(tt.status))
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancelPending(t *testing.T) {
	owner := 3
	repo := new(MockOrderRepository)
	repo.On("GetByID", 1).Return(&model.Order{ID: 1, UserID: &owner, Status: model.OrderPending}, nil)
	repo.On("UpdateStatus", 1, model.OrderPending, model.OrderCanceled).Return(true, nil)

	order, err := NewOrderService(repo, nil).Cancel(1, OrderAccess{UserID: owner})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCanceled, order.Status)
}

func TestCancelOtherUsersOrder(t *testing.T) {
	owner := 3
	repo := new(MockOrderRepository)
	repo.On("GetByID", 1).Return(&model.Order{ID: 1, UserID: &owner, Status: model.OrderPending}, nil)

	_, err := NewOrderService(repo, nil).Cancel(1, OrderAccess{UserID: 4})
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestGuestOrderRequiresOrderNumber(t *testing.T) {
	guestOrder := func() *model.Order {
		return &model.Order{ID: 7, OrderNumber: "ORD-20241201-AAAAAAAA", Status: model.OrderPending}
	}
	tests := []struct {
		name   string
		access OrderAccess
		code   errors.ErrorCode
	}{
		{"stranger", OrderAccess{UserID: 99}, errors.ErrForbidden},
		{"wrong order number", OrderAccess{UserID: 99, OrderNumber: "ORD-20241201-BBBBBBBB"}, errors.ErrForbidden},
		{"order number", OrderAccess{OrderNumber: "ORD-20241201-AAAAAAAA"}, 0},
		{"admin", OrderAccess{UserID: 1, IsAdmin: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("GetByID", 7).Return(guestOrder(), nil)
			repo.On("UpdateStatus", 7, model.OrderPending, model.OrderCanceled).Return(true, nil)
			svc := NewOrderService(repo, nil)

			_, getErr := svc.GetOrder(7, tt.access)
			_, cancelErr := svc.Cancel(7, tt.access)
			if tt.code != 0 {
				assert.True(t, errors.Is(getErr, tt.code), "got %v", getErr)
				assert.True(t, errors.Is(cancelErr, tt.code), "got %v", cancelErr)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, getErr)
			assert.NoError(t, cancelErr)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		current model.OrderStatus
		next    string
		code    errors.ErrorCode
	}{
		{"unknown value", model.OrderPending, "lost", errors.ErrValidation},
		{"backwards", model.OrderShipped, "processing", errors.ErrInvalidStatusTransition},
		{"cancel shipped", model.OrderShipped, "canceled", errors.ErrInvalidStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("GetByID", 1).Return(&model.Order{ID: 1, Status: tt.current}, nil)

			_, err := NewOrderService(repo, nil).UpdateStatus(1, tt.next)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatusForward(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("GetByID", 1).Return(&model.Order{ID: 1, Status: model.OrderProcessing}, nil)
	repo.On("UpdateStatus", 1, model.OrderProcessing, model.OrderShipped).Return(true, nil)

	order, err := NewOrderService(repo, nil).UpdateStatus(1, "shipped")
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, order.Status)
}

func TestClaimOrder(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("Claim", 1, 3).Return(true, nil).Once()
	repo.On("Claim", 1, 4).Return(false, nil).Once()
	repo.On("GetByID", 1).Return(&model.Order{ID: 1}, nil)
	repo.On("Claim", 2, 4).Return(false, nil).Once()
	repo.On("GetByID", 2).Return(nil, nil)
	svc := NewOrderService(repo, nil)

	require.NoError(t, svc.Claim(1, 3))
	assert.True(t, errors.Is(svc.Claim(1, 4), errors.ErrAlreadyOwned))
	assert.True(t, errors.Is(svc.Claim(2, 4), errors.ErrResourceNotFound))
}

func TestClaimMany(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("Claim", 1, 3).Return(true, nil)
	repo.On("Claim", 2, 3).Return(false, nil)
	repo.On("Claim", 5, 3).Return(true, nil)

	n, err := NewOrderService(repo, nil).ClaimMany([]int{1, 2, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
