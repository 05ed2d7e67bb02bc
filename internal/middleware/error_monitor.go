package middleware

import (
	"artcase-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware 把 HandleError 登记的错误写入 ErrorAnalytics
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			traced := errors.NewTracedError(e.Err, errors.ErrorContext{
				RequestID: c.GetString(ContextRequestID),
				UserID:    c.GetInt(ContextUserID),
				Path:      c.FullPath(),
				Method:    c.Request.Method,
				Status:    c.Writer.Status(),
			})
			analytics.Record(traced)

			// 记录错误日志
			fields := []zap.Field{
				zap.Int("error_code", int(traced.Code)),
				zap.String("error_message", traced.Message),
				zap.String("request_id", traced.Context.RequestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Int("status", traced.Context.Status),
			}
			if traced.Err != nil {
				fields = append(fields, zap.Error(traced.Err))
			}
			if traced.Context.Status >= 500 {
				if traced.Stack != "" {
					fields = append(fields, zap.String("stack", traced.Stack))
				}
				zap.L().Error("请求处理错误", fields...)
			} else {
				zap.L().Info("请求被拒绝", fields...)
			}
		}
	}
}
