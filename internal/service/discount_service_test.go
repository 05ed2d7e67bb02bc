package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)

func newTestDiscountService(repo *MockDiscountRepository, defaultPercent int) *DiscountService {
	return &DiscountService{
		repo:           repo,
		threshold:      4,
		defaultPercent: defaultPercent,
		now:            func() time.Time { return fixedNow },
	}
}

func TestApplyDiscount(t *testing.T) {
	future := fixedNow.Add(48 * time.Hour)
	past := fixedNow.Add(-time.Hour)

	tests := []struct {
		name     string
		price    string
		likes    int
		discount *model.UserDiscount
		want     string
	}{
		{"eligible with 25 percent", "100", 5, &model.UserDiscount{DiscountPercentage: 25}, "75"},
		{"threshold reached exactly", "100", 4, &model.UserDiscount{DiscountPercentage: 10}, "90"},
		{"rounded to cents", "19.99", 9, &model.UserDiscount{DiscountPercentage: 15}, "16.99"},
		{"still valid", "40", 4, &model.UserDiscount{DiscountPercentage: 50, ValidUntil: &future}, "20"},
		{"expired", "40", 4, &model.UserDiscount{DiscountPercentage: 50, ValidUntil: &past}, "40"},
		{"full discount", "30", 4, &model.UserDiscount{DiscountPercentage: 100}, "0"},
		{"no discount row uses default", "100", 6, nil, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDiscountRepository)
			repo.On("CountLikesReceived", 3).Return(tt.likes, nil)
			repo.On("GetUserDiscount", 3).Return(tt.discount, nil)

			got, err := newTestDiscountService(repo, 0).ApplyDiscount(decimal.RequireFromString(tt.price), 3)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestApplyDiscountNotEligible(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("CountLikesReceived", 3).Return(3, nil)

	got, err := newTestDiscountService(repo, 20).ApplyDiscount(decimal.NewFromInt(100), 3)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))
	repo.AssertNotCalled(t, "GetUserDiscount", 3)
}

func TestApplyDiscountDefaultPercent(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("CountLikesReceived", 3).Return(10, nil)
	repo.On("GetUserDiscount", 3).Return(nil, nil)

	got, err := newTestDiscountService(repo, 20).ApplyDiscount(decimal.RequireFromString("25.00"), 3)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.StringFixed(2))
}

func TestApplyDiscountAnonymous(t *testing.T) {
	repo := new(MockDiscountRepository)

	got, err := newTestDiscountService(repo, 20).ApplyDiscount(decimal.RequireFromString("12.345"), 0)
	require.NoError(t, err)
	assert.Equal(t, "12.35", got.StringFixed(2))
	repo.AssertNotCalled(t, "CountLikesReceived", 0)
}

func TestApplyDiscountNegativePrice(t *testing.T) {
	repo := new(MockDiscountRepository)

	_, err := newTestDiscountService(repo, 0).ApplyDiscount(decimal.NewFromInt(-1), 3)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestGetDiscountInfo(t *testing.T) {
	repo := new(MockDiscountRepository)
	repo.On("CountLikesReceived", 8).Return(7, nil)
	repo.On("GetUserDiscount", 8).Return(&model.UserDiscount{UserID: 8, DiscountPercentage: 15}, nil)

	info, err := newTestDiscountService(repo, 0).GetDiscountInfo(8)
	require.NoError(t, err)
	assert.True(t, info.IsEligible)
	assert.Equal(t, 7, info.LikesReceived)
	assert.Equal(t, 4, info.Threshold)
	assert.Equal(t, 15, info.DiscountPercentage)
}
