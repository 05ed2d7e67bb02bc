package design

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDesignService struct {
	mock.Mock
}

func (m *MockDesignService) Create(ctx context.Context, design *model.Design, userID *int) (*model.Design, error) {
	args := m.Called(ctx, design, userID)
	if d := args.Get(0); d != nil {
		return d.(*model.Design), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDesignService) Get(id int) (*model.Design, error) {
	args := m.Called(id)
	if d := args.Get(0); d != nil {
		return d.(*model.Design), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDesignService) ListByUser(userID int) ([]*model.Design, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Design), args.Error(1)
}

func (m *MockDesignService) Delete(id, userID int) error {
	return m.Called(id, userID).Error(0)
}

func (m *MockDesignService) Claim(rawID string, userID int) (*model.Design, error) {
	args := m.Called(rawID, userID)
	if d := args.Get(0); d != nil {
		return d.(*model.Design), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDesignService) UploadImage(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func newRouter(svc *MockDesignService, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDesignHandler(svc)
	r := gin.New()
	r.POST("/designs/anonymous", h.CreateAnonymousDesign)
	auth := r.Group("/", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	auth.POST("/designs", h.CreateDesign)
	auth.POST("/designs/associate", h.AssociateDesign)
	auth.DELETE("/designs/:id", h.DeleteDesign)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAnonymousDesign(t *testing.T) {
	svc := new(MockDesignService)
	r := newRouter(svc, 0)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Design) bool {
		return d.Model == "iPhone 15" && d.Price.Equal(decimal.RequireFromString("24.99")) && d.Stock
	}), (*int)(nil)).Return(&model.Design{ID: 12}, nil)

	w := do(r, http.MethodPost, "/designs/anonymous",
		`{"image_url": "https://img/1.png", "model": "iPhone 15", "type": "tough", "price": "24.99"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data struct {
			TempID      string `json:"temp_id"`
			IsAnonymous bool   `json:"is_anonymous"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "temp_12", resp.Data.TempID)
	assert.True(t, resp.Data.IsAnonymous)
	svc.AssertExpectations(t)
}

func TestCreateDesignRequiresModel(t *testing.T) {
	svc := new(MockDesignService)
	r := newRouter(svc, 3)

	w := do(r, http.MethodPost, "/designs", `{"image_url": "https://img/1.png", "type": "tough", "price": 10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDesignRequiresPrice(t *testing.T) {
	svc := new(MockDesignService)
	r := newRouter(svc, 3)

	w := do(r, http.MethodPost, "/designs", `{"image_url": "https://img/1.png", "model": "iPhone 15", "type": "tough"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Price is required")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssociateDesign(t *testing.T) {
	tests := []struct {
		name string
		body string
		raw  string
	}{
		{"temp id", `{"design_id": "temp_5"}`, "temp_5"},
		{"numeric id", `{"design_id": 5}`, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDesignService)
			r := newRouter(svc, 3)
			svc.On("Claim", tt.raw, 3).Return(&model.Design{ID: 5}, nil)

			w := do(r, http.MethodPost, "/designs/associate", tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestAssociateOwnedDesign(t *testing.T) {
	svc := new(MockDesignService)
	r := newRouter(svc, 3)
	svc.On("Claim", "5", 3).Return(nil, errors.New(errors.ErrAlreadyOwned, "This design is already associated with an account."))

	w := do(r, http.MethodPost, "/designs/associate", `{"design_id": 5}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteDesignNotOwner(t *testing.T) {
	svc := new(MockDesignService)
	r := newRouter(svc, 3)
	svc.On("Delete", 9, 3).Return(errors.New(errors.ErrForbidden, "You do not have permission to delete this design"))

	w := do(r, http.MethodDelete, "/designs/9", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}
