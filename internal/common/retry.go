package common

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL 错误号
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// 退避基数，测试中可调小
var retryBackoff = 50 * time.Millisecond

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsDuplicateEntry 判断是否违反唯一约束
func IsDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	return IsTemporary(err) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn)
}

// WithRetry 通用重试机制，只重试死锁、锁等待超时等临时错误
func WithRetry(operation func() error, maxRetries int) error {
	return WithRetries(operation, maxRetries, IsRetryable)
}

// WithRetries 在 shouldRetry 返回 true 时重试 operation，退避时间线性增长
func WithRetries(operation func() error, maxRetries int, shouldRetry func(error) bool) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !shouldRetry(err) || attempt == maxRetries {
			return err
		}
		time.Sleep(retryBackoff * time.Duration(attempt))
	}
	return err
}
