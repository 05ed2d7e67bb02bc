package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	stderrors "errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PhoneProductInput 创建或更新目录条目，nil 字段使用默认值或保持不变
type PhoneProductInput struct {
	Type  *string          `json:"type"`
	Model *string          `json:"model"`
	Price *decimal.Decimal `json:"price"`
	Stock *bool            `json:"stock"`
	URL   *string          `json:"url"`
}

// PopulateResult 导入内置目录的统计
type PopulateResult struct {
	Created int
	Updated int
}

type PhoneProductService struct {
	repo interfaces.PhoneProductRepository
}

func NewPhoneProductService(repo interfaces.PhoneProductRepository) *PhoneProductService {
	return &PhoneProductService{repo: repo}
}

// CanonicalURL 按 (目录, 型号) 查找内置图片地址
func CanonicalURL(caseType, phoneModel string) (string, bool) {
	folder := model.CaseFolder(caseType)
	key := strings.ToLower(strings.TrimSpace(phoneModel))
	for _, e := range phoneCatalogue {
		if model.CaseFolder(e.caseType) == folder && e.model == key {
			return e.url, true
		}
	}
	return "", false
}

func (s *PhoneProductService) List() ([]*model.PhoneProduct, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load phone products", err)
	}
	return products, nil
}

func (s *PhoneProductService) Get(id int) (*model.PhoneProduct, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load phone product", err)
	}
	if p == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Phone product not found")
	}
	return p, nil
}

func mapDuplicate(err error, message string) error {
	if stderrors.Is(err, interfaces.ErrDuplicate) {
		return errors.New(errors.ErrResourceExists, "A phone product with this type and model already exists.")
	}
	return errors.Wrap(errors.ErrDatabase, message, err)
}

// Create 未给出地址时按类型和型号生成，价格默认 30.00
func (s *PhoneProductService) Create(input PhoneProductInput) (*model.PhoneProduct, error) {
	if input.Type == nil || strings.TrimSpace(*input.Type) == "" || input.Model == nil || strings.TrimSpace(*input.Model) == "" {
		return nil, errors.New(errors.ErrValidation, "type and model are required")
	}
	p := &model.PhoneProduct{
		Type:  strings.TrimSpace(*input.Type),
		Model: strings.ToLower(strings.TrimSpace(*input.Model)),
		Price: model.DefaultPhoneProductPrice,
		Stock: true,
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if p.Price.IsNegative() {
		return nil, errors.New(errors.ErrValidation, "Price must be non-negative")
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.URL != nil && *input.URL != "" {
		p.URL = *input.URL
	} else {
		p.URL = model.PhoneProductURL(p.Type, p.Model)
	}

	if err := s.repo.Create(p); err != nil {
		return nil, mapDuplicate(err, "Failed to create phone product")
	}
	return p, nil
}

// Update 同步更新同型号同类型设计的库存和价格
func (s *PhoneProductService) Update(id int, input PhoneProductInput) (*model.PhoneProduct, int64, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, 0, err
	}
	if input.Type != nil {
		p.Type = strings.TrimSpace(*input.Type)
	}
	if input.Model != nil {
		p.Model = strings.ToLower(strings.TrimSpace(*input.Model))
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, 0, errors.New(errors.ErrValidation, "Price must be non-negative")
		}
		p.Price = *input.Price
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.URL != nil {
		p.URL = *input.URL
	}

	synced, err := s.repo.Update(p)
	if err != nil {
		return nil, 0, mapDuplicate(err, "Failed to update phone product")
	}
	return p, synced, nil
}

func (s *PhoneProductService) Delete(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete phone product", err)
	}
	return nil
}

// Populate 把内置目录写入数据库，已存在的条目更新价格、库存和地址
func (s *PhoneProductService) Populate() (PopulateResult, error) {
	var result PopulateResult
	for _, e := range phoneCatalogue {
		p := &model.PhoneProduct{
			Type:  e.caseType,
			Model: e.model,
			Price: decimal.RequireFromString(e.price),
			Stock: true,
			URL:   e.url,
		}
		created, err := s.repo.Upsert(p)
		if err != nil {
			return result, errors.Wrap(errors.ErrDatabase, "Failed to populate phone products", err)
		}
		if created {
			result.Created++
			util.Logger.Info("新建目录条目", zap.String("type", e.caseType), zap.String("model", e.model))
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// UpdateURLs 按内置表修正所有条目的图片地址，返回更新数量和没有映射的型号
func (s *PhoneProductService) UpdateURLs() (int, []string, error) {
	products, err := s.List()
	if err != nil {
		return 0, nil, err
	}
	updated := 0
	var missing []string
	for _, p := range products {
		url, ok := CanonicalURL(p.Type, p.Model)
		if !ok {
			util.Logger.Warn("未找到型号对应的图片地址", zap.String("type", p.Type), zap.String("model", p.Model))
			missing = append(missing, p.Model)
			continue
		}
		if err := s.repo.UpdateURL(p.ID, url); err != nil {
			return updated, missing, errors.Wrap(errors.ErrDatabase, "Failed to update phone product url", err)
		}
		updated++
	}
	return updated, missing, nil
}
