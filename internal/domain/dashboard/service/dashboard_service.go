package service

import (
	"context"
	"errors"
	"time"
	"course_mall/internal/domain/dashboard/model"
	"course_mall/internal/domain/dashboard/repository"
	"course_mall/pkg/cache"
	"course_mall/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	summaryTTL       = time.Minute
	monthlyWindow    = 28 * 24 * time.Hour
	bestSellersLimit = 10
)

type DashboardService interface {
	Summary(ctx context.Context, teacherID string) (*model.Summary, error)
	MonthlyEarnings(ctx context.Context, teacherID string) ([]model.MonthlyEarning, error)
	BestSellers(ctx context.Context, teacherID string) ([]model.BestSeller, error)
	CourseOrders(ctx context.Context, teacherID string, page utils.Pagination) (*utils.PageResult, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	cache cache.CacheService // 可为 nil
	log   *zap.Logger
	now   func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository, c cache.CacheService, log *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: c, log: log, now: time.Now}
}

// Summary 四个统计并发查询，结果短时间缓存
func (s *dashboardService) Summary(ctx context.Context, teacherID string) (*model.Summary, error) {
	key := "dashboard:" + teacherID + ":summary"
	var cached model.Summary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	sum := &model.Summary{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.TotalCourses, err = s.repo.CountCourses(gctx, teacherID)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalRevenue, err = s.repo.RevenueSince(gctx, teacherID, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		sum.MonthlyRevenue, err = s.repo.RevenueSince(gctx, teacherID, s.now().Add(-monthlyWindow))
		return err
	})
	g.Go(func() (err error) {
		sum.TotalStudents, err = s.repo.CountStudents(gctx, teacherID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.toCache(ctx, key, sum)
	return sum, nil
}

func (s *dashboardService) MonthlyEarnings(ctx context.Context, teacherID string) ([]model.MonthlyEarning, error) {
	key := "dashboard:" + teacherID + ":monthly"
	var cached []model.MonthlyEarning
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.repo.MonthlyEarnings(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Month >= 1 && list[i].Month <= 12 {
			list[i].MonthName = time.Month(list[i].Month).String()
		}
	}
	s.toCache(ctx, key, list)
	return list, nil
}

func (s *dashboardService) BestSellers(ctx context.Context, teacherID string) ([]model.BestSeller, error) {
	key := "dashboard:" + teacherID + ":best"
	var cached []model.BestSeller
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.repo.BestSellers(ctx, teacherID, bestSellersLimit)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, list)
	return list, nil
}

// CourseOrders 分页列表不缓存，也不统计总数
func (s *dashboardService) CourseOrders(ctx context.Context, teacherID string, page utils.Pagination) (*utils.PageResult, error) {
	page = page.Normalize()
	list, err := s.repo.CourseOrders(ctx, teacherID, page.Limit+1, page.Offset())
	if err != nil {
		return nil, err
	}
	keep, more := page.Window(len(list))
	return &utils.PageResult{List: list[:keep], Total: -1, Page: page.Page, Limit: page.Limit, HasMore: more}, nil
}

func (s *dashboardService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

func (s *dashboardService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, summaryTTL); err != nil {
		s.log.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
