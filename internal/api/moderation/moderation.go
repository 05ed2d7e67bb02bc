package moderation

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportService interface {
	Create(report *model.Report) error
	List(filter model.ReportFilter) ([]*model.Report, error)
	Handle(id int, action string) (*model.Report, error)
}

type AnnouncementService interface {
	List() ([]*model.Announcement, error)
	Create(input service.AnnouncementInput, image *multipart.FileHeader, createdBy int) (*model.Announcement, error)
	Delete(id int) error
	Reposition(id, newPos int) ([]int, error)
}

// ModerationHandler 举报和公告
type ModerationHandler struct {
	reports       ReportService
	announcements AnnouncementService
}

func NewModerationHandler(reports ReportService, announcements AnnouncementService) *ModerationHandler {
	return &ModerationHandler{reports: reports, announcements: announcements}
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid id", err))
		return 0, false
	}
	return id, true
}

// CreateReport 举报帖子或评论
func (h *ModerationHandler) CreateReport(c *gin.Context) {
	var req struct {
		ContentType string `json:"content_type" binding:"required,report_content_type"`
		ContentID   int    `json:"content_id" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid report data", err))
		return
	}

	report := &model.Report{
		ReporterID:  middleware.UserID(c),
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
	}
	if err := h.reports.Create(report); err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("收到内容举报",
		zap.Int("report_id", report.ID),
		zap.String("content_type", report.ContentType),
		zap.Int("content_id", report.ContentID))
	errors.HandleCreated(c, report, "Report submitted")
}

// ListReports 管理员查看举报，支持 status / content_type / search 过滤
func (h *ModerationHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.List(model.ReportFilter{
		Status:      c.DefaultQuery("status", "all"),
		ContentType: c.DefaultQuery("content_type", "all"),
		Search:      c.Query("search"),
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, reports, "")
}

// HandleReport action 为 resolve 或 dismiss
func (h *ModerationHandler) HandleReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Invalid action", err))
		return
	}

	report, err := h.reports.Handle(id, req.Action)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, report, "Report updated")
}

func (h *ModerationHandler) ListAnnouncements(c *gin.Context) {
	list, err := h.announcements.List()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, list, "")
}

// CreateAnnouncement 接受表单或 JSON，图片公告可附带 image 文件
func (h *ModerationHandler) CreateAnnouncement(c *gin.Context) {
	var input service.AnnouncementInput
	if err := c.ShouldBind(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid announcement data", err))
		return
	}
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	a, err := h.announcements.Create(input, image, middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("公告已创建", zap.Int("announcement_id", a.ID), zap.String("type", a.Type))
	errors.HandleCreated(c, a, "Announcement created")
}

func (h *ModerationHandler) DeleteAnnouncement(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.announcements.Delete(id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Announcement deleted")
}

func (h *ModerationHandler) RepositionAnnouncement(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Position int `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "position is required", err))
		return
	}

	order, err := h.announcements.Reposition(id, req.Position)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"order": order}, "Announcement position updated")
}
