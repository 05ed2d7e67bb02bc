package model

import (
	"fmt"
	"time"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotificationLike     NotificationType = "like"
	NotificationComment  NotificationType = "comment"
	NotificationFavorite NotificationType = "favorite"
	NotificationOrder    NotificationType = "order"
)

type Notification struct {
	ID           int              `json:"id"`
	UserID       int              `json:"user_id"`
	ActionUserID int              `json:"action_user_id"`
	DesignID     *int             `json:"design_id"`
	PostID       *int             `json:"post_id,omitempty"`
	CommentID    *int             `json:"comment_id,omitempty"`
	Type         NotificationType `json:"notification_type"`
	Message      string           `json:"message"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`

	ActionUser     *UserSummary `json:"action_user,omitempty"`
	DesignImageURL string       `json:"design_image_url,omitempty"`
	RelativeTime   string       `json:"relative_time,omitempty"`
}

// NotificationRef 通知对应的帖子和评论，0 表示没有
type NotificationRef struct {
	PostID    int
	CommentID int
}

// NotificationMessage 生成通知文本
func NotificationMessage(t NotificationType, actor, content string) string {
	switch t {
	case NotificationLike:
		return fmt.Sprintf("%s liked your design", actor)
	case NotificationFavorite:
		return fmt.Sprintf("%s favorited your design", actor)
	case NotificationComment:
		return fmt.Sprintf("%s commented on your design: %s", actor, content)
	default:
		return fmt.Sprintf("%s ordered your design", actor)
	}
}

// RelativeTime 把时间格式化为 "3 minutes ago" 这样的文本
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hour")
	default:
		return plural(int(diff/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
