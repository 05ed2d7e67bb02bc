package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

// NotificationService 互动通知
// 通知总是发给设计的所有者，写入失败只记录日志
type NotificationService struct {
	repo interfaces.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo interfaces.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// Notify 为一次互动生成通知，设计没有所有者时跳过
func (s *NotificationService) Notify(design *model.Design, ref model.NotificationRef, actor *model.UserSummary,
	t model.NotificationType, content string) {
	if design == nil || design.IsAnonymous() || actor == nil {
		return
	}
	designID := design.ID
	n := &model.Notification{
		UserID:       *design.UserID,
		ActionUserID: actor.ID,
		DesignID:     &designID,
		PostID:       optionalID(ref.PostID),
		CommentID:    optionalID(ref.CommentID),
		Type:         t,
		Message:      model.NotificationMessage(t, actor.Username, content),
	}
	if err := s.repo.Create(n); err != nil {
		util.Logger.Warn("创建通知失败",
			zap.Int("recipient", n.UserID),
			zap.String("type", string(t)),
			zap.Error(err))
	}
}

// Withdraw 删除与一次互动配对的通知，最多一条
func (s *NotificationService) Withdraw(design *model.Design, ref model.NotificationRef, actorID int, t model.NotificationType) {
	if design == nil || design.IsAnonymous() {
		return
	}
	match := interfaces.NotificationMatch{
		UserID:       *design.UserID,
		ActionUserID: actorID,
		DesignID:     design.ID,
		Type:         t,
		PostID:       ref.PostID,
		CommentID:    ref.CommentID,
	}
	deleted, err := s.repo.DeleteOne(match)
	if err != nil {
		util.Logger.Warn("删除配对通知失败", zap.Int("design_id", design.ID), zap.Error(err))
		return
	}
	if !deleted {
		util.Logger.Debug("未找到配对通知", zap.Int("design_id", design.ID), zap.String("type", string(t)))
	}
}

// List 按时间倒序返回用户的通知
func (s *NotificationService) List(userID int) ([]*model.Notification, error) {
	notifications, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load notifications", err)
	}
	now := s.now()
	for _, n := range notifications {
		n.RelativeTime = model.RelativeTime(n.CreatedAt, now)
	}
	return notifications, nil
}

// MarkAllRead 把用户所有未读通知标记为已读
func (s *NotificationService) MarkAllRead(userID int) (int64, error) {
	updated, err := s.repo.MarkAllRead(userID)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "Failed to mark notifications as read", err)
	}
	return updated, nil
}

// Delete 只允许删除自己的通知
func (s *NotificationService) Delete(id, userID int) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to load notification", err)
	}
	if n == nil {
		return errors.New(errors.ErrResourceNotFound, "Notification not found")
	}
	if n.UserID != userID {
		return errors.New(errors.ErrForbidden, "You can only delete your own notifications")
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete notification", err)
	}
	return nil
}
