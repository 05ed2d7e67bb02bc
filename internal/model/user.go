package model

import "time"

// UserStatus 账号状态
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User 结构体表示用户模型
type User struct {
	ID                int        `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"` // 密码哈希不应在JSON中暴露
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	ProfilePic        string     `json:"profile_pic"`
	Role              string     `json:"role"`
	Status            UserStatus `json:"status"`
	SuspensionEndDate *time.Time `json:"suspension_end_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsAdmin 管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsStaff 管理员或运营人员
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleStaff)
}

// UserSummary 嵌入在帖子、评论、通知中的用户简要信息
type UserSummary struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ProfilePic string `json:"profile_pic"`
}

// UserStatistics 用户收到的互动统计
type UserStatistics struct {
	TotalPosts     int `json:"total_posts"`
	TotalLikes     int `json:"total_likes"`
	TotalComments  int `json:"total_comments"`
	TotalFavorites int `json:"total_favorites"`
}

// UserDetails 公开的用户详情
type UserDetails struct {
	UserSummary
	Email              string         `json:"email,omitempty"`
	Status             UserStatus     `json:"status"`
	DateJoined         time.Time      `json:"date_joined"`
	Statistics         UserStatistics `json:"statistics"`
	IsDiscountEligible bool           `json:"is_discount_eligible"`
}

// UserRanking 排行榜条目
type UserRanking struct {
	UserSummary
	TotalLikes int `json:"total_likes"`
	PostCount  int `json:"post_count"`
}

// UserDiscount 用户专属折扣
type UserDiscount struct {
	ID                 int        `json:"id"`
	UserID             int        `json:"user_id"`
	DiscountPercentage int        `json:"discount_percentage"`
	ValidUntil         *time.Time `json:"valid_until"`
	CreatedAt          time.Time  `json:"created_at"`
}
