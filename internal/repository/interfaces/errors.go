package interfaces

import "errors"

// 仓库层的哨兵错误，由服务层映射为 AppError
var (
	ErrDuplicate     = errors.New("记录已存在")
	ErrLimitExceeded = errors.New("超出数量上限")
)
