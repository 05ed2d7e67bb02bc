package interfaces

import "artcase-backend/internal/model"

type ReportRepository interface {
	// Create 同一用户重复举报同一内容时返回 ErrDuplicate
	Create(report *model.Report) error
	GetByID(id int) (*model.Report, error)
	List(filter model.ReportFilter) ([]*model.Report, error)
	UpdateStatus(id int, status model.ReportStatus) error
}

type AnnouncementRepository interface {
	List() ([]*model.Announcement, error)
	GetByID(id int) (*model.Announcement, error)
	// Create 图片公告追加到末位，已满 max 个时返回 ErrLimitExceeded
	Create(a *model.Announcement, maxImages int) error
	// Delete 删除后重新编号剩余的图片公告
	Delete(id int) error
	ImageIDsByPosition() ([]int, error)
	// Reindex 按 ids 顺序把位置重写为 1..n
	Reindex(ids []int) error
}
