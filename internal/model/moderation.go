package model

import "time"

const (
	ReportContentPost    = "post"
	ReportContentComment = "comment"
)

// ReportStatus 举报处理状态
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

type Report struct {
	ID          int          `json:"id"`
	ReporterID  int          `json:"reporter_id"`
	ContentType string       `json:"content_type"`
	ContentID   int          `json:"content_id"`
	Reason      string       `json:"reason"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Reporter       *UserSummary           `json:"reporter,omitempty"`
	ContentDetails map[string]interface{} `json:"content_details,omitempty"`
}

// ReportFilter 管理端举报列表条件，"all" 或空表示不过滤
type ReportFilter struct {
	Status      string
	ContentType string
	Search      string
}

const (
	AnnouncementText  = "text"
	AnnouncementImage = "image"

	// MaxImageAnnouncements 图片公告位数量
	MaxImageAnnouncements = 6
)

var (
	announcementPriorities = map[string]bool{"low": true, "medium": true, "high": true}
	announcementStatuses   = map[string]bool{"active": true, "inactive": true}
)

type Announcement struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	ImageURL    string     `json:"image_url,omitempty"`
	Position    *int       `json:"position"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	PublishDate *time.Time `json:"publish_date"`
	CreatedBy   int        `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ValidAnnouncementPriority(p string) bool { return announcementPriorities[p] }

func ValidAnnouncementStatus(s string) bool { return announcementStatuses[s] }

// ReorderPositions 把 id 移到 newPos（从 1 开始），返回新的顺序
// ids 是按当前位置排好序的图片公告 id
func ReorderPositions(ids []int, id, newPos int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if newPos < 1 {
		newPos = 1
	}
	if newPos > len(out)+1 {
		newPos = len(out) + 1
	}
	out = append(out, 0)
	copy(out[newPos:], out[newPos-1:])
	out[newPos-1] = id
	return out
}

// RemovePosition 删除 id 后的顺序
func RemovePosition(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
