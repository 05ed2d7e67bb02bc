package catalog

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPhoneProductService struct {
	mock.Mock
}

func (m *MockPhoneProductService) product(args mock.Arguments) (*model.PhoneProduct, error) {
	if p := args.Get(0); p != nil {
		return p.(*model.PhoneProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPhoneProductService) List() ([]*model.PhoneProduct, error) {
	args := m.Called()
	return args.Get(0).([]*model.PhoneProduct), args.Error(1)
}

func (m *MockPhoneProductService) Get(id int) (*model.PhoneProduct, error) {
	return m.product(m.Called(id))
}

func (m *MockPhoneProductService) Create(input service.PhoneProductInput) (*model.PhoneProduct, error) {
	return m.product(m.Called(input))
}

func (m *MockPhoneProductService) Update(id int, input service.PhoneProductInput) (*model.PhoneProduct, int64, error) {
	args := m.Called(id, input)
	var p *model.PhoneProduct
	if v := args.Get(0); v != nil {
		p = v.(*model.PhoneProduct)
	}
	return p, args.Get(1).(int64), args.Error(2)
}

func (m *MockPhoneProductService) Delete(id int) error {
	return m.Called(id).Error(0)
}

func newRouter(svc *MockPhoneProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(svc)
	r := gin.New()
	r.POST("/phone-products", h.Create)
	r.PUT("/phone-products/:id", h.Update)
	r.GET("/phone-products/:id", h.Get)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePhoneProductDuplicate(t *testing.T) {
	svc := new(MockPhoneProductService)
	svc.On("Create", mock.AnythingOfType("service.PhoneProductInput")).
		Return(nil, errors.New(errors.ErrResourceExists, "A phone product with this type and model already exists."))

	w := do(newRouter(svc), http.MethodPost, "/phone-products", `{"type": "tough", "model": "iPhone 15"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdatePhoneProductReportsSyncedDesigns(t *testing.T) {
	svc := new(MockPhoneProductService)
	svc.On("Update", 2, mock.MatchedBy(func(in service.PhoneProductInput) bool {
		return in.Price != nil && in.Price.Equal(decimal.RequireFromString("28.5")) && in.Stock != nil && !*in.Stock
	})).Return(&model.PhoneProduct{ID: 2}, int64(3), nil)

	w := do(newRouter(svc), http.MethodPut, "/phone-products/2", `{"price": "28.50", "stock": false}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"designs_synced":3`)
	svc.AssertExpectations(t)
}

func TestGetPhoneProductNotFound(t *testing.T) {
	svc := new(MockPhoneProductService)
	svc.On("Get", 9).Return(nil, errors.New(errors.ErrResourceNotFound, "Phone product not found"))

	w := do(newRouter(svc), http.MethodGet, "/phone-products/9", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
