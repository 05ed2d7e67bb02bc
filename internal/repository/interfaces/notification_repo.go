package interfaces

import "artcase-backend/internal/model"

// NotificationMatch 用于定位与某次互动配对的通知，PostID/CommentID 为 0 时不参与匹配
type NotificationMatch struct {
	UserID       int
	ActionUserID int
	DesignID     int
	Type         model.NotificationType
	PostID       int
	CommentID    int
}

type NotificationRepository interface {
	Create(n *model.Notification) error
	DeleteOne(match NotificationMatch) (bool, error)
	ListByUser(userID int) ([]*model.Notification, error)
	MarkAllRead(userID int) (int64, error)
	GetByID(id int) (*model.Notification, error)
	Delete(id int) error
}
