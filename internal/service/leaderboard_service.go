package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "leaderboard:standings"
	leaderboardCacheTTL = 30 * time.Second
)

// LeaderboardService 按完成课程数排名的只读视图，带 Redis 缓存
type LeaderboardService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, Redis: rdb}
}

// LeaderboardEntry 排行榜一行
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           uint    `json:"userId"`
	Username         string  `json:"username"`
	CompletedCourses int     `json:"completedCourses"`
	AvgCompletion    float64 `json:"avgCompletion"`
}

// Standings 返回前 limit 名。缓存命中直接返回，否则现算并写缓存。
func (s *LeaderboardService) Standings(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return truncateStandings(entries, limit), nil
			}
		}
	}

	entries, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	return truncateStandings(entries, limit), nil
}

// Refresh 重算排行榜并刷新缓存，由后台定时器调用
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	_, err := s.build(ctx)
	return err
}

func (s *LeaderboardService) build(ctx context.Context) ([]LeaderboardEntry, error) {
	type row struct {
		UserID        uint
		Completed     int
		AvgCompletion float64
	}
	var rows []row
	err := s.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("user_id, SUM(CASE WHEN completed_at IS NOT NULL THEN 1 ELSE 0 END) AS completed, AVG(completion) AS avg_completion").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, len(rows))
	for i, r := range rows {
		userIDs[i] = r.UserID
	}
	var users []model.User
	if len(userIDs) > 0 {
		if err := s.DB.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	usernames := make(map[uint]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{
			UserID:           r.UserID,
			Username:         usernames[r.UserID],
			CompletedCourses: r.Completed,
			AvgCompletion:    r.AvgCompletion,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletedCourses != entries[j].CompletedCourses {
			return entries[i].CompletedCourses > entries[j].CompletedCourses
		}
		return entries[i].AvgCompletion > entries[j].AvgCompletion
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.Redis != nil {
		data, err := json.Marshal(entries)
		if err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("排行榜缓存写入失败", zap.Error(err))
			}
		}
	}
	return entries, nil
}

func truncateStandings(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
