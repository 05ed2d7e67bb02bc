package service

import (
	"artcase-backend/internal/fulfillment"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(id int, status model.UserStatus, suspensionEnd *time.Time) error {
	args := m.Called(id, status, suspensionEnd)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(page, pageSize int) ([]*model.User, int, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) GetStatistics(userID int) (*model.UserStatistics, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStatistics), args.Error(1)
}

func (m *MockUserRepository) TopByLikes(limit int) ([]*model.UserRanking, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.UserRanking), args.Error(1)
}

func (m *MockUserRepository) TopByPosts(limit int) ([]*model.UserRanking, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.UserRanking), args.Error(1)
}

type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) CountLikesReceived(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockDiscountRepository) GetUserDiscount(userID int) (*model.UserDiscount, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDiscount), args.Error(1)
}

func (m *MockDiscountRepository) SaveUserDiscount(discount *model.UserDiscount) error {
	args := m.Called(discount)
	return args.Error(0)
}

type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) CreatePost(post *model.Post, hashtags []string) error {
	args := m.Called(post, hashtags)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetPostByID(id, viewerID int) (*model.Post, error) {
	args := m.Called(id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) ListPosts(filter model.PostFilter) ([]*model.Post, error) {
	args := m.Called(filter)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) DeletePost(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockCommunityRepository) CountPosts() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) MostLikedDesignPosts(designLimit, viewerID int) ([]*model.Post, error) {
	args := m.Called(designLimit, viewerID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) ToggleLike(userID, postID int) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) ToggleFavorite(userID, postID int) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) GetLikeCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) GetFavoriteCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) DeleteLikesByDesign(userID, designID int) (int, error) {
	args := m.Called(userID, designID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) DeleteFavoritesByDesign(userID, designID int) (int, error) {
	args := m.Called(userID, designID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CreateComment(comment *model.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *MockCommunityRepository) GetCommentByID(id int) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) ListComments(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) DeleteComment(id int) error {
	return m.Called(id).Error(0)
}

type MockDesignRepository struct {
	mock.Mock
}

func (m *MockDesignRepository) Create(design *model.Design) error {
	return m.Called(design).Error(0)
}

func (m *MockDesignRepository) GetByID(id int) (*model.Design, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Design), args.Error(1)
}

func (m *MockDesignRepository) ListByUser(userID int) ([]*model.Design, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Design), args.Error(1)
}

func (m *MockDesignRepository) UpdateClassification(id int, c model.Classification) error {
	return m.Called(id, c).Error(0)
}

func (m *MockDesignRepository) Claim(designID, userID int) (bool, error) {
	args := m.Called(designID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDesignRepository) Delete(id int) error {
	return m.Called(id).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *model.Notification) error {
	return m.Called(n).Error(0)
}

func (m *MockNotificationRepository) DeleteOne(match interfaces.NotificationMatch) (bool, error) {
	args := m.Called(match)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(userID int) ([]*model.Notification, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(userID int) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) GetByID(id int) (*model.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Delete(id int) error {
	return m.Called(id).Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Add(item *model.CartItem) error {
	return m.Called(item).Error(0)
}

func (m *MockCartRepository) ListByUser(userID int) ([]*model.CartItem, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) Delete(id, userID int) (bool, error) {
	args := m.Called(id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) MostAdded(limit int) ([]*model.DesignRanking, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.DesignRanking), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderRepository) GetByID(id int) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID int) ([]*model.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(page, pageSize int, status string) ([]*model.Order, int, error) {
	args := m.Called(page, pageSize, status)
	return args.Get(0).([]*model.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(id int, from, to model.OrderStatus) (bool, error) {
	args := m.Called(id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Claim(orderID, userID int) (bool, error) {
	args := m.Called(orderID, userID)
	return args.Bool(0), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(report *model.Report) error {
	return m.Called(report).Error(0)
}

func (m *MockReportRepository) GetByID(id int) (*model.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepository) List(filter model.ReportFilter) ([]*model.Report, error) {
	args := m.Called(filter)
	return args.Get(0).([]*model.Report), args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(id int, status model.ReportStatus) error {
	return m.Called(id, status).Error(0)
}

type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) List() ([]*model.Announcement, error) {
	args := m.Called()
	return args.Get(0).([]*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) GetByID(id int) (*model.Announcement, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Create(a *model.Announcement, maxImages int) error {
	return m.Called(a, maxImages).Error(0)
}

func (m *MockAnnouncementRepository) Delete(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockAnnouncementRepository) ImageIDsByPosition() ([]int, error) {
	args := m.Called()
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAnnouncementRepository) Reindex(ids []int) error {
	return m.Called(ids).Error(0)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) DesignStats(r model.DateRange) (*model.DesignAnalytics, error) {
	args := m.Called(r)
	return args.Get(0).(*model.DesignAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) PostStats(r model.DateRange, topN int) (*model.PostAnalytics, error) {
	args := m.Called(r, topN)
	return args.Get(0).(*model.PostAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) OrderStats(r model.DateRange) (*model.OrderAnalytics, error) {
	args := m.Called(r)
	return args.Get(0).(*model.OrderAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) UserStats(r model.DateRange, likeThreshold int) (*model.UserAnalytics, error) {
	args := m.Called(r, likeThreshold)
	return args.Get(0).(*model.UserAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) TimeSeries(r model.DateRange) (*model.TimeSeriesAnalytics, error) {
	args := m.Called(r)
	return args.Get(0).(*model.TimeSeriesAnalytics), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOrderConfirmation(order *model.Order) {
	m.Called(order)
}

func (m *MockMailer) SendAccountStatusNotice(user *model.User) {
	m.Called(user)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, imageURL string) (model.Classification, error) {
	args := m.Called(ctx, imageURL)
	return args.Get(0).(model.Classification), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	args := m.Called(file, path)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) UploadBytes(ctx context.Context, data []byte, path, contentType string) (string, error) {
	args := m.Called(ctx, data, path, contentType)
	return args.String(0), args.Error(1)
}

type MockPrintSubmitter struct {
	mock.Mock
}

func (m *MockPrintSubmitter) SubmitOrder(ctx context.Context, order fulfillment.Order) (map[string]interface{}, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockPrintCatalog struct {
	mock.Mock
}

func (m *MockPrintCatalog) PhoneCases(ctx context.Context) ([]map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

func (m *MockPrintCatalog) Templates(ctx context.Context, sku string) (map[string]interface{}, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockAssetSource struct {
	mock.Mock
}

func (m *MockAssetSource) Stickers(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *MockAssetSource) Emoji(ctx context.Context, category string) (json.RawMessage, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
