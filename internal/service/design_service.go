package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/storage"
	"artcase-backend/internal/util"
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Classifier 外部图像分类服务
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (model.Classification, error)
}

type DesignService struct {
	repo       interfaces.DesignRepository
	classifier Classifier
	storage    storage.FileStorage
}

func NewDesignService(repo interfaces.DesignRepository, classifier Classifier, fs storage.FileStorage) *DesignService {
	return &DesignService{repo: repo, classifier: classifier, storage: fs}
}

func validateDesign(d *model.Design) error {
	switch {
	case strings.TrimSpace(d.ImageURL) == "":
		return errors.New(errors.ErrValidation, "image_url is required")
	case strings.TrimSpace(d.Model) == "":
		return errors.New(errors.ErrValidation, "model is required")
	case strings.TrimSpace(d.Type) == "":
		return errors.New(errors.ErrValidation, "type is required")
	case d.Price.IsNegative():
		return errors.New(errors.ErrValidation, "Price must be non-negative")
	}
	return nil
}

// Create 保存设计后同步调用分类服务，分类失败时记为 unknown
// userID 为 nil 时创建匿名设计
func (s *DesignService) Create(ctx context.Context, design *model.Design, userID *int) (*model.Design, error) {
	if err := validateDesign(design); err != nil {
		return nil, err
	}
	design.UserID = userID
	design.Price = design.Price.Round(2)
	if design.SKU == "" {
		design.SKU = model.DefaultSKU
	}

	if err := s.repo.Create(design); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create design", err)
	}
	s.classify(ctx, design)
	return design, nil
}

func (s *DesignService) classify(ctx context.Context, design *model.Design) {
	result := model.UnknownClassification()
	if s.classifier != nil {
		c, err := s.classifier.Classify(ctx, design.ImageURL)
		if err != nil {
			util.Logger.Warn("设计分类失败，使用 unknown", zap.Int("design_id", design.ID), zap.Error(err))
		} else if c.Category != "" {
			result = c
		}
	}

	design.Class, design.Color1, design.Color2, design.Color3 = result.Category, result.Color1, result.Color2, result.Color3
	if err := s.repo.UpdateClassification(design.ID, result); err != nil {
		util.Logger.Error("保存设计分类失败", zap.Int("design_id", design.ID), zap.Error(err))
	}
}

func (s *DesignService) Get(id int) (*model.Design, error) {
	design, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load design", err)
	}
	if design == nil {
		return nil, errors.New(errors.ErrDesignNotFound, "Design not found")
	}
	return design, nil
}

func (s *DesignService) ListByUser(userID int) ([]*model.Design, error) {
	designs, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load designs", err)
	}
	return designs, nil
}

// Delete 只有所有者可以删除
func (s *DesignService) Delete(id, userID int) error {
	design, err := s.Get(id)
	if err != nil {
		return err
	}
	if !design.OwnedBy(userID) {
		return errors.New(errors.ErrForbidden, "You do not have permission to delete this design")
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete design", err)
	}
	util.Logger.Info("设计已删除", zap.Int("design_id", id), zap.Int("user_id", userID))
	return nil
}

// ParseDesignID 接受 "12" 或 "temp_12"
func ParseDesignID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), model.TempIDPrefix))
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrValidation, "Invalid design id")
	}
	return id, nil
}

// TempID 匿名设计返回给前端的临时 ID
func TempID(id int) string {
	return fmt.Sprintf("%s%d", model.TempIDPrefix, id)
}

// Claim 匿名设计只能被认领一次
func (s *DesignService) Claim(rawID string, userID int) (*model.Design, error) {
	id, err := ParseDesignID(rawID)
	if err != nil {
		return nil, err
	}
	claimed, err := s.repo.Claim(id, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to associate design", err)
	}
	design, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, errors.New(errors.ErrAlreadyOwned, "This design is already associated with an account.")
	}
	util.Logger.Info("设计已关联用户", zap.Int("design_id", id), zap.Int("user_id", userID))
	return design, nil
}

// UploadImage 保存设计图片并返回 URL
func (s *DesignService) UploadImage(file *multipart.FileHeader) (string, error) {
	if !util.IsAllowedImage(file.Filename) {
		return "", errors.New(errors.ErrValidation, "Unsupported image format")
	}
	url, err := s.storage.UploadFile(file, "designs/"+util.GenerateUniqueFilename(file.Filename))
	if err != nil {
		return "", errors.Wrap(errors.ErrExternalService, "Failed to upload image", err)
	}
	return url, nil
}
