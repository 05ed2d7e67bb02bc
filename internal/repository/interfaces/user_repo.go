package interfaces

import (
	"artcase-backend/internal/model"
	"time"
)

// UserRepository 接口定义了用户仓库应该实现的方法
// 查询不到记录时返回 nil, nil
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdateStatus(id int, status model.UserStatus, suspensionEnd *time.Time) error
	Count() (int, error)
	FindAll(page, pageSize int) ([]*model.User, int, error)
	GetStatistics(userID int) (*model.UserStatistics, error)
	TopByLikes(limit int) ([]*model.UserRanking, error)
	TopByPosts(limit int) ([]*model.UserRanking, error)
}

// DiscountRepository 折扣资格所需的数据
type DiscountRepository interface {
	CountLikesReceived(userID int) (int, error)
	GetUserDiscount(userID int) (*model.UserDiscount, error)
	SaveUserDiscount(discount *model.UserDiscount) error
}
