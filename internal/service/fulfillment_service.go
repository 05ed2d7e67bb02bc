package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/fulfillment"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/storage"
	"artcase-backend/internal/util"
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// PrintSubmitter 打印服务
type PrintSubmitter interface {
	SubmitOrder(ctx context.Context, order fulfillment.Order) (map[string]interface{}, error)
}

// FulfillmentInput 管理员手动提交打印订单
type FulfillmentInput struct {
	DesignID    int    `json:"design" binding:"required"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	FirstName   string `json:"firstname" binding:"required"`
	LastName    string `json:"lastname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	Country     string `json:"country" binding:"required"`
}

// FulfillmentResult 打印文件地址和打印服务响应
type FulfillmentResult struct {
	PrintFileURL string                 `json:"print_file_url"`
	Response     map[string]interface{} `json:"response"`
}

type FulfillmentService struct {
	designRepo interfaces.DesignRepository
	storage    storage.FileStorage
	printer    PrintSubmitter
	http       *http.Client
}

func NewFulfillmentService(designRepo interfaces.DesignRepository, fs storage.FileStorage, printer PrintSubmitter,
	client *http.Client) *FulfillmentService {
	return &FulfillmentService{designRepo: designRepo, storage: fs, printer: printer, http: client}
}

// Fulfill 生成打印文件并提交订单，失败只影响本次请求
func (s *FulfillmentService) Fulfill(ctx context.Context, input FulfillmentInput) (*FulfillmentResult, error) {
	design, err := s.designRepo.GetByID(input.DesignID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load design", err)
	}
	if design == nil {
		return nil, errors.New(errors.ErrDesignNotFound, "Design not found")
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = design.SKU
	}
	if sku == "" || sku == model.DefaultSKU {
		return nil, errors.New(errors.ErrValidation, "sku is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > model.MaxLineQuantity {
		return nil, errors.New(errors.ErrQuantityExceeded,
			fmt.Sprintf("Quantity must be between 1 and %d", model.MaxLineQuantity))
	}

	data, err := fulfillment.PreparePrintFile(ctx, s.http, design.ImageURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExternalService, "Failed to prepare print file", err)
	}
	path := fmt.Sprintf("print/%d/%s", design.ID, util.GenerateUniqueFilename("print.png"))
	printURL, err := s.storage.UploadBytes(ctx, data, path, "image/png")
	if err != nil {
		return nil, errors.Wrap(errors.ErrExternalService, "Failed to upload print file", err)
	}

	address := fulfillment.Address{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Line1:       input.Address,
		City:        input.City,
		CountryCode: input.Country,
		Phone:       input.PhoneNumber,
		Email:       input.Email,
	}
	response, err := s.printer.SubmitOrder(ctx, fulfillment.Order{
		Items:          []fulfillment.Item{fulfillment.NewItem(sku, quantity, printURL)},
		ShipToAddress:  address,
		BillingAddress: address,
	})
	if err != nil {
		util.Logger.Error("提交打印订单失败", zap.Int("design_id", design.ID), zap.Error(err))
		return nil, errors.Wrap(errors.ErrExternalService, "Print fulfillment failed", err)
	}

	util.Logger.Info("打印订单已提交", zap.Int("design_id", design.ID), zap.String("sku", sku))
	return &FulfillmentResult{PrintFileURL: printURL, Response: response}, nil
}
