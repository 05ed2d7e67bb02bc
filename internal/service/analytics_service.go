package service

import (
	"artcase-backend/config"
	"artcase-backend/internal/cache"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	analyticsDateLayout = "2006-01-02"
	analyticsTopPosts   = 15
)

type AnalyticsService struct {
	repo  interfaces.AnalyticsRepository
	cache cache.Store
	ttl   time.Duration
	// 折扣资格名单使用的获赞阈值
	likeThreshold int
	now           func() time.Time
}

func NewAnalyticsService(repo interfaces.AnalyticsRepository, store cache.Store, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{
		repo:          repo,
		cache:         store,
		ttl:           ttl,
		likeThreshold: config.AppConfig.DiscountLikeThreshold,
		now:           time.Now,
	}
}

// ParseDateRange 解析 YYYY-MM-DD，结束日期包含当天
func ParseDateRange(start, end string) (model.DateRange, error) {
	var r model.DateRange
	if start != "" {
		t, err := time.Parse(analyticsDateLayout, start)
		if err != nil {
			return r, errors.New(errors.ErrValidation, "Invalid start_date, expected YYYY-MM-DD")
		}
		r.Start = &t
	}
	if end != "" {
		t, err := time.Parse(analyticsDateLayout, end)
		if err != nil {
			return r, errors.New(errors.ErrValidation, "Invalid end_date, expected YYYY-MM-DD")
		}
		t = t.AddDate(0, 0, 1)
		r.End = &t
	}
	if r.Start != nil && r.End != nil && !r.Start.Before(*r.End) {
		return r, errors.New(errors.ErrValidation, "start_date must not be after end_date")
	}
	return r, nil
}

func cacheKey(start, end string) string {
	if start == "" {
		start = "-"
	}
	if end == "" {
		end = "-"
	}
	return "analytics:" + start + ":" + end
}

// Get 统计结果按日期范围缓存，缓存读写失败不影响结果
func (s *AnalyticsService) Get(ctx context.Context, start, end string) (*model.Analytics, error) {
	r, err := ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}

	key := cacheKey(start, end)
	if s.cache != nil {
		var cached model.Analytics
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			util.Logger.Warn("读取统计缓存失败", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	result, err := s.compute(r)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, result, s.ttl); err != nil {
			util.Logger.Warn("写入统计缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

func (s *AnalyticsService) compute(r model.DateRange) (*model.Analytics, error) {
	designs, err := s.repo.DesignStats(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load design analytics", err)
	}
	posts, err := s.repo.PostStats(r, analyticsTopPosts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load post analytics", err)
	}
	orders, err := s.repo.OrderStats(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load order analytics", err)
	}
	users, err := s.repo.UserStats(r, s.likeThreshold)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load user analytics", err)
	}
	series, err := s.repo.TimeSeries(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load time series", err)
	}

	return &model.Analytics{
		Designs:     *designs,
		Posts:       *posts,
		Orders:      *orders,
		Users:       *users,
		TimeSeries:  *series,
		GeneratedAt: s.now().UTC(),
	}, nil
}
