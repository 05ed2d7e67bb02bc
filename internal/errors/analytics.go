package errors

import (
	"sort"
	"sync"
	"time"
)

const recentErrorLimit = 20

// ErrorAnalytics 错误分析
type ErrorAnalytics struct {
	mu            sync.RWMutex
	TotalErrors   int
	ErrorsByCode  map[ErrorCode]int
	ErrorsByPath  map[string]int
	ErrorPatterns map[string]int
	LastErrorTime time.Time
	recent        []*TracedError
}

// NewErrorAnalytics 创建错误分析器
func NewErrorAnalytics() *ErrorAnalytics {
	return &ErrorAnalytics{
		ErrorsByCode:  make(map[ErrorCode]int),
		ErrorsByPath:  make(map[string]int),
		ErrorPatterns: make(map[string]int),
	}
}

// Record 记录错误
func (a *ErrorAnalytics) Record(err *TracedError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.TotalErrors++
	a.ErrorsByCode[err.Code]++
	a.ErrorsByPath[err.Context.Method+" "+err.Context.Path]++
	a.LastErrorTime = err.Timestamp
	a.ErrorPatterns[identifyPattern(err.Code)]++

	a.recent = append(a.recent, err)
	if len(a.recent) > recentErrorLimit {
		a.recent = a.recent[len(a.recent)-recentErrorLimit:]
	}
}

// identifyPattern 按错误码区间归类
func identifyPattern(code ErrorCode) string {
	switch {
	case code >= 4000:
		return "business"
	case code >= 3000:
		return "request"
	case code >= 2000:
		return "auth"
	default:
		return "system"
	}
}

// GetStats 获取统计信息
func (a *ErrorAnalytics) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	byCode := make(map[ErrorCode]int, len(a.ErrorsByCode))
	for k, v := range a.ErrorsByCode {
		byCode[k] = v
	}

	patterns := make(map[string]int, len(a.ErrorPatterns))
	for k, v := range a.ErrorPatterns {
		patterns[k] = v
	}

	type pathCount struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	paths := make([]pathCount, 0, len(a.ErrorsByPath))
	for p, n := range a.ErrorsByPath {
		paths = append(paths, pathCount{p, n})
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].Count > paths[j].Count })
	if len(paths) > 10 {
		paths = paths[:10]
	}

	recent := make([]map[string]interface{}, 0, len(a.recent))
	for i := len(a.recent) - 1; i >= 0; i-- {
		e := a.recent[i]
		recent = append(recent, map[string]interface{}{
			"request_id": e.Context.RequestID,
			"code":       e.Code,
			"message":    e.Message,
			"path":       e.Context.Path,
			"user_id":    e.Context.UserID,
			"timestamp":  e.Timestamp,
		})
	}

	return map[string]interface{}{
		"total_errors":   a.TotalErrors,
		"errors_by_code": byCode,
		"top_paths":      paths,
		"error_patterns": patterns,
		"last_error":     a.LastErrorTime,
		"recent":         recent,
	}
}
