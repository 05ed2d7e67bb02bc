package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *model.Notification) error {
	result, err := r.db.Exec(`
		INSERT INTO notifications (user_id, action_user_id, design_id, post_id, comment_id, notification_type, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.ActionUserID, nullInt(n.DesignID), nullInt(n.PostID), nullInt(n.CommentID), n.Type, n.Message)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)
	return nil
}

// DeleteOne 删除一条匹配的通知，优先删除最新的
func (r *notificationRepository) DeleteOne(m interfaces.NotificationMatch) (bool, error) {
	query := `DELETE FROM notifications
		WHERE user_id = ? AND action_user_id = ? AND design_id = ? AND notification_type = ?`
	args := []interface{}{m.UserID, m.ActionUserID, m.DesignID, m.Type}
	if m.PostID != 0 {
		query += ` AND post_id = ?`
		args = append(args, m.PostID)
	}
	if m.CommentID != 0 {
		query += ` AND comment_id = ?`
		args = append(args, m.CommentID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1`

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *notificationRepository) ListByUser(userID int) ([]*model.Notification, error) {
	rows, err := r.db.Query(`
		SELECT n.id, n.user_id, n.action_user_id, n.design_id, n.post_id, n.comment_id, n.notification_type, n.message, n.is_read, n.created_at,
			`+userSummaryColumns+`, COALESCE(d.image_url, '')
		FROM notifications n
		JOIN users u ON u.id = n.action_user_id
		LEFT JOIN designs d ON d.id = n.design_id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC, n.id DESC`, userID)
	if err != nil {
		util.Logger.Error("查询通知失败", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var designID, postID, commentID sql.NullInt64
		var actor model.UserSummary
		dest := []interface{}{&n.ID, &n.UserID, &n.ActionUserID, &designID, &postID, &commentID,
			&n.Type, &n.Message, &n.IsRead, &n.CreatedAt}
		dest = append(dest, scanUserSummary(&actor)...)
		dest = append(dest, &n.DesignImageURL)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		n.DesignID = intPtr(designID)
		n.PostID = intPtr(postID)
		n.CommentID = intPtr(commentID)
		n.ActionUser = &actor
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *notificationRepository) MarkAllRead(userID int) (int64, error) {
	res, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) GetByID(id int) (*model.Notification, error) {
	var n model.Notification
	var designID sql.NullInt64
	err := r.db.QueryRow(`
		SELECT id, user_id, action_user_id, design_id, notification_type, message, is_read, created_at
		FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.ActionUserID, &designID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.DesignID = intPtr(designID)
	return &n, nil
}

func (r *notificationRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	return err
}
