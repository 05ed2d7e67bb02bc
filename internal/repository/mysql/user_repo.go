package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, profile_pic,
	role, status, suspension_end_date, created_at, updated_at`

func scanUser(s rowScanner) (*model.User, error) {
	var user model.User
	var suspensionEnd sql.NullTime
	err := s.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.ProfilePic, &user.Role, &user.Status, &suspensionEnd, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.SuspensionEndDate = timePtr(suspensionEnd)
	return &user, nil
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, profile_pic, role, status)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.ProfilePic, user.Role, user.Status)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.String("email", user.Email), zap.Error(err))
		return duplicateAware(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	user.CreatedAt = time.Now()
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) findOne(where string, arg interface{}) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	return r.findOne("id = ?", id)
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.findOne("email = ?", email)
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.findOne("username = ?", username)
}

// Update 更新用户资料
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, email = ?, first_name = ?, last_name = ?, profile_pic = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.Email, user.FirstName, user.LastName, user.ProfilePic, time.Now(), user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Int("user_id", user.ID), zap.Error(err))
		return duplicateAware(err)
	}
	return nil
}

// UpdateStatus 更新账号状态
func (r *userRepository) UpdateStatus(id int, status model.UserStatus, suspensionEnd *time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET status = ?, suspension_end_date = ?, updated_at = NOW() WHERE id = ?`,
		status, nullTime(suspensionEnd), id)
	if err != nil {
		util.Logger.Error("更新用户状态失败", zap.Int("user_id", id), zap.Error(err))
		return err
	}
	util.Logger.Info("用户状态已更新", zap.Int("user_id", id), zap.String("status", string(status)))
	return nil
}

// Count 返回用户总数
func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// FindAll 返回分页的用户列表
func (r *userRepository) FindAll(page, pageSize int) ([]*model.User, int, error) {
	total, err := r.Count()
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*model.User, 0, pageSize)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// GetStatistics 统计用户发帖数以及帖子收到的点赞、评论、收藏
func (r *userRepository) GetStatistics(userID int) (*model.UserStatistics, error) {
	var stats model.UserStatistics
	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM posts WHERE user_id = ?),
			(SELECT COUNT(*) FROM likes l JOIN posts p ON l.post_id = p.id WHERE p.user_id = ?),
			(SELECT COUNT(*) FROM comments c JOIN posts p ON c.post_id = p.id WHERE p.user_id = ?),
			(SELECT COUNT(*) FROM favorites f JOIN posts p ON f.post_id = p.id WHERE p.user_id = ?)`,
		userID, userID, userID, userID,
	).Scan(&stats.TotalPosts, &stats.TotalLikes, &stats.TotalComments, &stats.TotalFavorites)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// TopByLikes 获赞最多的用户，只包含获赞数大于 0 的
func (r *userRepository) TopByLikes(limit int) ([]*model.UserRanking, error) {
	return r.ranking(`
		SELECT `+userSummaryColumns+`,
			COUNT(l.id) AS total_likes,
			COUNT(DISTINCT p.id) AS post_count
		FROM users u
		JOIN posts p ON p.user_id = u.id
		JOIN likes l ON l.post_id = p.id
		GROUP BY u.id
		HAVING total_likes > 0
		ORDER BY total_likes DESC, u.id
		LIMIT ?`, limit)
}

// TopByPosts 发帖最多的用户
func (r *userRepository) TopByPosts(limit int) ([]*model.UserRanking, error) {
	return r.ranking(`
		SELECT `+userSummaryColumns+`,
			(SELECT COUNT(*) FROM likes l JOIN posts lp ON l.post_id = lp.id WHERE lp.user_id = u.id) AS total_likes,
			COUNT(p.id) AS post_count
		FROM users u
		JOIN posts p ON p.user_id = u.id
		GROUP BY u.id
		ORDER BY post_count DESC, u.id
		LIMIT ?`, limit)
}

func (r *userRepository) ranking(query string, limit int) ([]*model.UserRanking, error) {
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.UserRanking
	for rows.Next() {
		var item model.UserRanking
		dest := append(scanUserSummary(&item.UserSummary), &item.TotalLikes, &item.PostCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}
