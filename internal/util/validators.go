package util

import (
	"artcase-backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// ValidateOrderStatus 验证订单状态枚举
func ValidateOrderStatus(fl validator.FieldLevel) bool {
	return model.OrderStatus(fl.Field().String()).Valid()
}

// ValidateUserStatus 验证用户状态枚举
func ValidateUserStatus(fl validator.FieldLevel) bool {
	return model.UserStatus(fl.Field().String()).Valid()
}

// ValidateReportContentType 验证举报内容类型
func ValidateReportContentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.ReportContentPost, model.ReportContentComment:
		return true
	}
	return false
}

// RegisterValidators 注册自定义验证标签
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("order_status", ValidateOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_status", ValidateUserStatus); err != nil {
		return err
	}
	return v.RegisterValidation("report_content_type", ValidateReportContentType)
}
