package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 手机壳类型
const (
	CaseTypeRubber = "customed rubber case"
	CaseTypeClear  = "customed clear case"
)

// 图片目录
const (
	FolderTough  = "tough"
	FolderNormal = "normal"
)

// DefaultPhoneProductPrice 新建目录条目的默认价格
var DefaultPhoneProductPrice = decimal.RequireFromString("30.00")

// PhoneProduct 目录条目，(type, model) 唯一
type PhoneProduct struct {
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	Model     string          `json:"model"`
	Price     decimal.Decimal `json:"price"`
	Stock     bool            `json:"stock"`
	URL       string          `json:"url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CaseFolder 类型对应的图片目录
func CaseFolder(caseType string) string {
	t := strings.ToLower(caseType)
	if strings.Contains(t, "rubber") || strings.Contains(t, FolderTough) {
		return FolderTough
	}
	return FolderNormal
}

// PhoneProductURL 按类型和型号生成默认图片路径
func PhoneProductURL(caseType, model string) string {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(model)), " ", "_")
	return fmt.Sprintf("/%s/%s.png", CaseFolder(caseType), name)
}
