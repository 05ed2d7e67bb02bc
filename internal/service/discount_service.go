package service

import (
	"artcase-backend/config"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// DiscountInfo 用户当前的折扣状态
type DiscountInfo struct {
	UserID             int        `json:"user_id"`
	LikesReceived      int        `json:"likes_received"`
	Threshold          int        `json:"threshold"`
	IsEligible         bool       `json:"is_discount_eligible"`
	DiscountPercentage int        `json:"discount_percentage"`
	ValidUntil         *time.Time `json:"valid_until"`
}

// DiscountService 计算忠诚度折扣
// 资格在每次调用时根据实时点赞数重新计算，不做缓存
type DiscountService struct {
	repo           interfaces.DiscountRepository
	threshold      int
	defaultPercent int
	now            func() time.Time
}

func NewDiscountService(repo interfaces.DiscountRepository) *DiscountService {
	return &DiscountService{
		repo:           repo,
		threshold:      config.AppConfig.DiscountLikeThreshold,
		defaultPercent: config.AppConfig.LoyaltyDiscountPercent,
		now:            time.Now,
	}
}

// IsEligible 用户所有帖子累计获赞数是否达到阈值
func (s *DiscountService) IsEligible(userID int) (bool, error) {
	likes, err := s.repo.CountLikesReceived(userID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "Failed to count likes", err)
	}
	return likes >= s.threshold, nil
}

// effectivePercent 返回当前生效的折扣百分比，过期或未达标时为 0
func (s *DiscountService) effectivePercent(userID int) (int, error) {
	eligible, err := s.IsEligible(userID)
	if err != nil {
		return 0, err
	}
	if !eligible {
		return 0, nil
	}

	discount, err := s.repo.GetUserDiscount(userID)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "Failed to load discount", err)
	}
	if discount == nil {
		return s.defaultPercent, nil
	}
	if discount.ValidUntil != nil && !discount.ValidUntil.After(s.now()) {
		return 0, nil
	}
	return discount.DiscountPercentage, nil
}

// ApplyDiscount 按用户当前折扣调整价格，结果保留两位小数
// userID 为 0 表示未登录，价格原样返回
func (s *DiscountService) ApplyDiscount(price decimal.Decimal, userID int) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, errors.New(errors.ErrValidation, "Price must be non-negative")
	}
	if userID == 0 {
		return price.Round(2), nil
	}

	percent, err := s.effectivePercent(userID)
	if err != nil {
		return decimal.Zero, err
	}
	if percent == 0 {
		return price.Round(2), nil
	}

	factor := hundred.Sub(decimal.NewFromInt(int64(percent))).Div(hundred)
	result := price.Mul(factor).Round(2)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return result, nil
}

// GetDiscountInfo 返回用户的折扣状态
func (s *DiscountService) GetDiscountInfo(userID int) (*DiscountInfo, error) {
	likes, err := s.repo.CountLikesReceived(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to count likes", err)
	}
	info := &DiscountInfo{
		UserID:        userID,
		LikesReceived: likes,
		Threshold:     s.threshold,
		IsEligible:    likes >= s.threshold,
	}

	discount, err := s.repo.GetUserDiscount(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load discount", err)
	}
	if discount != nil {
		info.ValidUntil = discount.ValidUntil
	}
	if info.IsEligible {
		if info.DiscountPercentage, err = s.effectivePercent(userID); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// SaveUserDiscount 管理员为用户设置折扣
func (s *DiscountService) SaveUserDiscount(discount *model.UserDiscount) error {
	if discount.DiscountPercentage < 0 || discount.DiscountPercentage > 100 {
		return errors.New(errors.ErrValidation, "Discount percentage must be between 0 and 100")
	}
	if err := s.repo.SaveUserDiscount(discount); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to save discount", err)
	}
	util.Logger.Info("用户折扣已更新",
		zap.Int("user_id", discount.UserID),
		zap.Int("percentage", discount.DiscountPercentage))
	return nil
}
