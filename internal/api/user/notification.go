package user

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationService interface {
	List(userID int) ([]*model.Notification, error)
	MarkAllRead(userID int) (int64, error)
	Delete(id, userID int) error
}

// NotificationHandler 当前用户的通知
type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.notifications.List(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, list, "")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"updated": updated}, "All notifications marked as read")
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid notification id", err))
		return
	}
	if err := h.notifications.Delete(id, middleware.UserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Notification deleted")
}
