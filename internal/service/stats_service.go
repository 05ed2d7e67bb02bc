package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/repository/interfaces"
)

// StatsService 管理端首页概览
type StatsService struct {
	userRepo      interfaces.UserRepository
	communityRepo interfaces.CommunityRepository
}

func NewStatsService(userRepo interfaces.UserRepository, communityRepo interfaces.CommunityRepository) *StatsService {
	return &StatsService{
		userRepo:      userRepo,
		communityRepo: communityRepo,
	}
}

func (s *StatsService) GetSystemStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	userCount, err := s.userRepo.Count()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to count users", err)
	}
	stats["total_users"] = userCount

	postCount, err := s.communityRepo.CountPosts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to count posts", err)
	}
	stats["total_posts"] = postCount

	return stats, nil
}
