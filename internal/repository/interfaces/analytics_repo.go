package interfaces

import "artcase-backend/internal/model"

type AnalyticsRepository interface {
	DesignStats(r model.DateRange) (*model.DesignAnalytics, error)
	PostStats(r model.DateRange, topN int) (*model.PostAnalytics, error)
	OrderStats(r model.DateRange) (*model.OrderAnalytics, error)
	UserStats(r model.DateRange, likeThreshold int) (*model.UserAnalytics, error)
	TimeSeries(r model.DateRange) (*model.TimeSeriesAnalytics, error)
}
