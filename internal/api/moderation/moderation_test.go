package moderation

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Create(report *model.Report) error {
	return m.Called(report).Error(0)
}

func (m *MockReportService) List(filter model.ReportFilter) ([]*model.Report, error) {
	args := m.Called(filter)
	return args.Get(0).([]*model.Report), args.Error(1)
}

func (m *MockReportService) Handle(id int, action string) (*model.Report, error) {
	args := m.Called(id, action)
	if r := args.Get(0); r != nil {
		return r.(*model.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) List() ([]*model.Announcement, error) {
	args := m.Called()
	return args.Get(0).([]*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Create(input service.AnnouncementInput, image *multipart.FileHeader, createdBy int) (*model.Announcement, error) {
	args := m.Called(input, image, createdBy)
	if a := args.Get(0); a != nil {
		return a.(*model.Announcement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnouncementService) Delete(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockAnnouncementService) Reposition(id, newPos int) ([]int, error) {
	args := m.Called(id, newPos)
	if o := args.Get(0); o != nil {
		return o.([]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRouter(t *testing.T, reports *MockReportService, announcements *MockAnnouncementService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	require.NoError(t, util.RegisterValidators(v))

	h := NewModerationHandler(reports, announcements)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, 6)
		c.Next()
	})
	r.POST("/reports", h.CreateReport)
	r.GET("/reports", h.ListReports)
	r.POST("/reports/:id/action", h.HandleReport)
	r.POST("/announcements", h.CreateAnnouncement)
	r.PUT("/announcements/:id/position", h.RepositionAnnouncement)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReport(t *testing.T) {
	reports := new(MockReportService)
	r := newRouter(t, reports, new(MockAnnouncementService))
	reports.On("Create", mock.MatchedBy(func(rep *model.Report) bool {
		return rep.ReporterID == 6 && rep.ContentType == "post" && rep.ContentID == 3
	})).Return(nil).Once()
	reports.On("Create", mock.Anything).
		Return(errors.New(errors.ErrResourceExists, "You have already reported this content.")).Once()

	w := do(r, http.MethodPost, "/reports", `{"content_type": "post", "content_id": 3, "reason": "spam"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/reports", `{"content_type": "post", "content_id": 3, "reason": "spam"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	reports.AssertExpectations(t)
}

func TestCreateReportInvalidContentType(t *testing.T) {
	reports := new(MockReportService)
	r := newRouter(t, reports, new(MockAnnouncementService))

	w := do(r, http.MethodPost, "/reports", `{"content_type": "design", "content_id": 3, "reason": "spam"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reports.AssertNotCalled(t, "Create", mock.Anything)
}

func TestListReportsDefaultsToAll(t *testing.T) {
	reports := new(MockReportService)
	r := newRouter(t, reports, new(MockAnnouncementService))
	reports.On("List", model.ReportFilter{Status: "all", ContentType: "all", Search: "bob"}).Return([]*model.Report{}, nil)

	w := do(r, http.MethodGet, "/reports?search=bob", "")

	assert.Equal(t, http.StatusOK, w.Code)
	reports.AssertExpectations(t)
}

func TestHandleReportInvalidAction(t *testing.T) {
	reports := new(MockReportService)
	r := newRouter(t, reports, new(MockAnnouncementService))
	reports.On("Handle", 2, "ignore").Return(nil, errors.New(errors.ErrBadRequest, "Invalid action"))

	w := do(r, http.MethodPost, "/reports/2/action", `{"action": "ignore"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid action")
}

func TestCreateTextAnnouncement(t *testing.T) {
	announcements := new(MockAnnouncementService)
	r := newRouter(t, new(MockReportService), announcements)
	announcements.On("Create", mock.MatchedBy(func(in service.AnnouncementInput) bool {
		return in.Title == "Sale" && in.Content == "20% off"
	}), (*multipart.FileHeader)(nil), 6).Return(&model.Announcement{ID: 1, Type: model.AnnouncementText}, nil)

	w := do(r, http.MethodPost, "/announcements", `{"title": "Sale", "content": "20% off"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	announcements.AssertExpectations(t)
}

func TestRepositionAnnouncementOutOfRange(t *testing.T) {
	announcements := new(MockAnnouncementService)
	r := newRouter(t, new(MockReportService), announcements)
	announcements.On("Reposition", 4, 7).Return(nil, errors.New(errors.ErrValidation, "Position must be between 1 and 3"))

	w := do(r, http.MethodPut, "/announcements/4/position", `{"position": 7}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
