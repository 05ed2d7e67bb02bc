package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/storage"
	"artcase-backend/internal/util"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ReportService 内容举报
type ReportService struct {
	repo          interfaces.ReportRepository
	communityRepo interfaces.CommunityRepository
}

func NewReportService(repo interfaces.ReportRepository, communityRepo interfaces.CommunityRepository) *ReportService {
	return &ReportService{repo: repo, communityRepo: communityRepo}
}

// ReportAction 管理员对举报的处理动作
const (
	ReportActionResolve = "resolve"
	ReportActionDismiss = "dismiss"
)

func (s *ReportService) contentExists(contentType string, contentID int) error {
	switch contentType {
	case model.ReportContentPost:
		post, err := s.communityRepo.GetPostByID(contentID, 0)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "Failed to load post", err)
		}
		if post == nil {
			return errors.New(errors.ErrResourceNotFound, "Post not found")
		}
	case model.ReportContentComment:
		comment, err := s.communityRepo.GetCommentByID(contentID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "Failed to load comment", err)
		}
		if comment == nil {
			return errors.New(errors.ErrResourceNotFound, "Comment not found")
		}
	default:
		return errors.New(errors.ErrValidation, "Invalid content type")
	}
	return nil
}

// Create 同一用户对同一内容只能举报一次
func (s *ReportService) Create(report *model.Report) error {
	report.Reason = strings.TrimSpace(report.Reason)
	if report.Reason == "" {
		return errors.New(errors.ErrValidation, "Reason is required")
	}
	if err := s.contentExists(report.ContentType, report.ContentID); err != nil {
		return err
	}

	report.Status = model.ReportPending
	if err := s.repo.Create(report); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return errors.New(errors.ErrResourceExists, "You have already reported this content.")
		}
		return errors.Wrap(errors.ErrDatabase, "Failed to create report", err)
	}
	return nil
}

func (s *ReportService) List(filter model.ReportFilter) ([]*model.Report, error) {
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.ContentType == "all" {
		filter.ContentType = ""
	}
	reports, err := s.repo.List(filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load reports", err)
	}
	return reports, nil
}

// Handle resolve 标记为已解决，dismiss 标记为已审核
func (s *ReportService) Handle(id int, action string) (*model.Report, error) {
	var status model.ReportStatus
	switch action {
	case ReportActionResolve:
		status = model.ReportResolved
	case ReportActionDismiss:
		status = model.ReportReviewed
	default:
		return nil, errors.New(errors.ErrBadRequest, "Invalid action")
	}

	report, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load report", err)
	}
	if report == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Report not found")
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update report", err)
	}
	report.Status = status
	util.Logger.Info("举报已处理", zap.Int("report_id", id), zap.String("status", string(status)))
	return report, nil
}

// AnnouncementInput 创建公告
type AnnouncementInput struct {
	Title       string     `form:"title" json:"title"`
	Content     string     `form:"content" json:"content"`
	Type        string     `form:"type" json:"type"`
	ImageURL    string     `form:"image_url" json:"image_url"`
	Priority    string     `form:"priority" json:"priority"`
	Status      string     `form:"status" json:"status"`
	PublishDate *time.Time `form:"publish_date" json:"publish_date" time_format:"2006-01-02"`
}

type AnnouncementService struct {
	repo    interfaces.AnnouncementRepository
	storage storage.FileStorage
}

func NewAnnouncementService(repo interfaces.AnnouncementRepository, fs storage.FileStorage) *AnnouncementService {
	return &AnnouncementService{repo: repo, storage: fs}
}

func (s *AnnouncementService) List() ([]*model.Announcement, error) {
	list, err := s.repo.List()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load announcements", err)
	}
	return list, nil
}

// Create 图片公告需要上传文件或提供地址，最多 6 个
func (s *AnnouncementService) Create(input AnnouncementInput, image *multipart.FileHeader, createdBy int) (*model.Announcement, error) {
	a := &model.Announcement{
		Title:       strings.TrimSpace(input.Title),
		Content:     strings.TrimSpace(input.Content),
		Type:        input.Type,
		ImageURL:    input.ImageURL,
		Priority:    input.Priority,
		Status:      input.Status,
		PublishDate: input.PublishDate,
		CreatedBy:   createdBy,
	}
	if a.Type == "" {
		a.Type = model.AnnouncementText
	}
	if a.Priority == "" {
		a.Priority = "medium"
	}
	if a.Status == "" {
		a.Status = "active"
	}

	switch {
	case a.Title == "":
		return nil, errors.New(errors.ErrValidation, "Title is required")
	case a.Type != model.AnnouncementText && a.Type != model.AnnouncementImage:
		return nil, errors.New(errors.ErrValidation, "Invalid announcement type")
	case !model.ValidAnnouncementPriority(a.Priority):
		return nil, errors.New(errors.ErrValidation, "Invalid priority value")
	case !model.ValidAnnouncementStatus(a.Status):
		return nil, errors.New(errors.ErrValidation, "Invalid status value")
	}

	if a.Type == model.AnnouncementImage {
		if image != nil {
			if !util.IsAllowedImage(image.Filename) {
				return nil, errors.New(errors.ErrValidation, "Unsupported image format")
			}
			url, err := s.storage.UploadFile(image, "announcements/"+util.GenerateUniqueFilename(image.Filename))
			if err != nil {
				return nil, errors.Wrap(errors.ErrExternalService, "Failed to upload image", err)
			}
			a.ImageURL = url
		}
		if a.ImageURL == "" {
			return nil, errors.New(errors.ErrValidation, "Image is required for image announcements")
		}
	} else if a.Content == "" {
		return nil, errors.New(errors.ErrValidation, "Content is required")
	}

	if err := s.repo.Create(a, model.MaxImageAnnouncements); err != nil {
		if stderrors.Is(err, interfaces.ErrLimitExceeded) {
			return nil, errors.New(errors.ErrAnnouncementLimit,
				fmt.Sprintf("Maximum of %d image announcements allowed", model.MaxImageAnnouncements))
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create announcement", err)
	}
	return a, nil
}

func (s *AnnouncementService) get(id int) (*model.Announcement, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load announcement", err)
	}
	if a == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Announcement not found")
	}
	return a, nil
}

// Delete 删除后剩余图片公告重新编号
func (s *AnnouncementService) Delete(id int) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete announcement", err)
	}
	return nil
}

// Reposition 把图片公告移动到 newPos，其余公告依次顺移
func (s *AnnouncementService) Reposition(id, newPos int) ([]int, error) {
	a, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if a.Type != model.AnnouncementImage {
		return nil, errors.New(errors.ErrValidation, "Only image announcements have a position")
	}

	ids, err := s.repo.ImageIDsByPosition()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load announcements", err)
	}
	if newPos < 1 || newPos > len(ids) {
		return nil, errors.New(errors.ErrValidation, fmt.Sprintf("Position must be between 1 and %d", len(ids)))
	}

	order := model.ReorderPositions(ids, id, newPos)
	if err := s.repo.Reindex(order); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to reorder announcements", err)
	}
	util.Logger.Info("公告位置已调整", zap.Int("announcement_id", id), zap.Int("position", newPos))
	return order, nil
}
