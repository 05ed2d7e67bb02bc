package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type discountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) *discountRepository {
	return &discountRepository{db: db}
}

// CountLikesReceived 用户所有帖子收到的点赞总数
func (r *discountRepository) CountLikesReceived(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM likes l
		JOIN posts p ON l.post_id = p.id
		WHERE p.user_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *discountRepository) GetUserDiscount(userID int) (*model.UserDiscount, error) {
	var d model.UserDiscount
	var validUntil sql.NullTime
	err := r.db.QueryRow(`
		SELECT id, user_id, discount_percentage, valid_until, created_at
		FROM user_discounts WHERE user_id = ?`, userID,
	).Scan(&d.ID, &d.UserID, &d.DiscountPercentage, &validUntil, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.ValidUntil = timePtr(validUntil)
	return &d, nil
}

// SaveUserDiscount 每个用户只保留一条折扣记录
func (r *discountRepository) SaveUserDiscount(d *model.UserDiscount) error {
	_, err := r.db.Exec(`
		INSERT INTO user_discounts (user_id, discount_percentage, valid_until)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE discount_percentage = VALUES(discount_percentage), valid_until = VALUES(valid_until)`,
		d.UserID, d.DiscountPercentage, nullTime(d.ValidUntil))
	if err != nil {
		util.Logger.Error("保存用户折扣失败", zap.Int("user_id", d.UserID), zap.Error(err))
		return err
	}
	util.Logger.Info("用户折扣已保存", zap.Int("user_id", d.UserID), zap.Int("percentage", d.DiscountPercentage))
	return nil
}
