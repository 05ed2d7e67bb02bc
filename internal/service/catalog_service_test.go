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

type MockPhoneProductRepository struct {
	mock.Mock
}

func (m *MockPhoneProductRepository) List() ([]*model.PhoneProduct, error) {
	args := m.Called()
	return args.Get(0).([]*model.PhoneProduct), args.Error(1)
}

func (m *MockPhoneProductRepository) GetByID(id int) (*model.PhoneProduct, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PhoneProduct), args.Error(1)
}

func (m *MockPhoneProductRepository) Create(p *model.PhoneProduct) error {
	return m.Called(p).Error(0)
}

func (m *MockPhoneProductRepository) Update(p *model.PhoneProduct) (int64, error) {
	args := m.Called(p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPhoneProductRepository) Delete(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockPhoneProductRepository) Upsert(p *model.PhoneProduct) (bool, error) {
	args := m.Called(p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPhoneProductRepository) UpdateURL(id int, url string) error {
	return m.Called(id, url).Error(0)
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		caseType, model, want string
		ok                    bool
	}{
		{model.CaseTypeRubber, "iPhone 16 Pro Max", "/tough/iPhone_16_Pro_Max_t.png", true},
		{model.CaseTypeClear, "iphone 8", "/normal/iphone_7_8.png", true},
		{"tough", "iphone 15", "/tough/iPhone_15_t.png", true},
		{model.CaseTypeClear, "nokia 3310", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalURL(tt.caseType, tt.model)
		assert.Equal(t, tt.ok, ok, tt.model)
		assert.Equal(t, tt.want, got, tt.model)
	}
}

func TestCreatePhoneProductDefaults(t *testing.T) {
	repo := new(MockPhoneProductRepository)
	repo.On("Create", mock.AnythingOfType("*model.PhoneProduct")).Return(nil)

	caseType, phone := model.CaseTypeRubber, " iPhone 15 Pro "
	p, err := NewPhoneProductService(repo).Create(PhoneProductInput{Type: &caseType, Model: &phone})
	require.NoError(t, err)
	assert.Equal(t, "iphone 15 pro", p.Model)
	assert.Equal(t, "30.00", p.Price.StringFixed(2))
	assert.True(t, p.Stock)
	assert.Equal(t, "/tough/iphone_15_pro.png", p.URL)
}

func TestCreatePhoneProductDuplicate(t *testing.T) {
	repo := new(MockPhoneProductRepository)
	repo.On("Create", mock.Anything).Return(interfaces.ErrDuplicate)

	caseType, phone := model.CaseTypeClear, "iphone 12"
	_, err := NewPhoneProductService(repo).Create(PhoneProductInput{Type: &caseType, Model: &phone})
	assert.True(t, errors.Is(err, errors.ErrResourceExists))
}

func TestUpdatePhoneProductNegativePrice(t *testing.T) {
	repo := new(MockPhoneProductRepository)
	repo.On("GetByID", 1).Return(&model.PhoneProduct{ID: 1}, nil)

	price := decimal.NewFromInt(-5)
	_, _, err := NewPhoneProductService(repo).Update(1, PhoneProductInput{Price: &price})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestPopulate(t *testing.T) {
	repo := new(MockPhoneProductRepository)
	repo.On("Upsert", mock.MatchedBy(func(p *model.PhoneProduct) bool { return p.Model == "iphone 15" })).Return(false, nil)
	repo.On("Upsert", mock.Anything).Return(true, nil)

	result, err := NewPhoneProductService(repo).Populate()
	require.NoError(t, err)
	assert.Equal(t, len(phoneCatalogue), result.Created+result.Updated)
	assert.GreaterOrEqual(t, result.Updated, 1)
}

func TestUpdateURLs(t *testing.T) {
	repo := new(MockPhoneProductRepository)
	repo.On("List").Return([]*model.PhoneProduct{
		{ID: 1, Type: model.CaseTypeClear, Model: "iphone 7"},
		{ID: 2, Type: model.CaseTypeClear, Model: "nokia 3310"},
	}, nil)
	repo.On("UpdateURL", 1, "/normal/iphone_7_8.png").Return(nil)

	updated, missing, err := NewPhoneProductService(repo).UpdateURLs()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"nokia 3310"}, missing)
}
