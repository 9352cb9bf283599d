// internal/service/due_query_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go_5_review_scheduler/internal/config"
	"go_5_review_scheduler/internal/middleware"
	"go_5_review_scheduler/internal/model"
	"go_5_review_scheduler/internal/repository"
	"go_5_review_scheduler/internal/scheduler"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DueQueryService は復習スケジュールの読み取り側サービスです。
// 読み取り失敗は必ずエラーとして返し、「復習なし」と区別できるようにする。
type DueQueryService interface {
	GetDueToday(ctx context.Context, userID uuid.UUID) ([]*model.DueReviewResponse, error)
	GetUpcoming(ctx context.Context, userID uuid.UUID, days int) ([]*model.UpcomingDayResponse, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*model.ReviewStatsResponse, error)
}

type dueQueryService struct {
	db   *gorm.DB
	repo repository.ScheduleRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewDueQueryService(db *gorm.DB, repo repository.ScheduleRepository, cfg *config.Config) DueQueryService {
	return &dueQueryService{
		db:   db,
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

const dateLayout = "2006-01-02"

func (s *dueQueryService) GetDueToday(ctx context.Context, userID uuid.UUID) ([]*model.DueReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	reviews, err := s.findDue(ctx, userID)
	if err != nil {
		logger.Error("Failed to find due reviews from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "今日の復習リストの取得に失敗しました。", "", model.ErrUnavailable)
	}

	responses := make([]*model.DueReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, &model.DueReviewResponse{
			QuestionID:     r.QuestionID,
			Stage:          r.Stage.String(),
			Repetitions:    r.Repetitions,
			IntervalDays:   r.IntervalDays,
			NextReviewDate: r.NextReviewDate.Format(dateLayout),
		})
	}

	logger.Info("Successfully retrieved due reviews", "count", len(responses))
	return responses, nil
}

func (s *dueQueryService) GetUpcoming(ctx context.Context, userID uuid.UUID, days int) ([]*model.UpcomingDayResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "days", days)

	if days < 0 {
		return nil, model.NewAppError("VALIDATION_ERROR",
			fmt.Sprintf("日数は0以上で指定してください (got %d)。", days), "days", model.ErrInvalidInput)
	}
	if days == 0 {
		days = 7
	}
	if days > s.cfg.App.UpcomingDaysMax {
		days = s.cfg.App.UpcomingDaysMax
	}

	today := scheduler.TruncateToDate(s.now())
	start := today.AddDate(0, 0, 1)
	end := today.AddDate(0, 0, days)

	reviews, err := s.repo.FindUpcomingByUser(ctx, s.db, userID, start, end)
	if err != nil {
		logger.Error("Failed to find upcoming reviews from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習予定カレンダーの取得に失敗しました。", "", model.ErrUnavailable)
	}

	// 予定のない日も含めてN日ぶんのバケツを作る（カレンダーUI用）
	buckets := make([]*model.UpcomingDayResponse, days)
	index := make(map[string]*model.UpcomingDayResponse, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		buckets[i] = &model.UpcomingDayResponse{
			Date:    date,
			ByStage: map[string]int{},
		}
		index[date] = buckets[i]
	}

	for _, r := range reviews {
		bucket, ok := index[r.NextReviewDate.Format(dateLayout)]
		if !ok {
			// レンジクエリの境界と日付切り捨てがずれた場合のみ起こりうる
			logger.Warn("Upcoming review outside requested window, skipping",
				"question_id", r.QuestionID, "next_review_date", r.NextReviewDate)
			continue
		}
		bucket.Count++
		bucket.ByStage[r.Stage.String()]++
	}

	logger.Info("Successfully retrieved upcoming reviews", "total", len(reviews))
	return buckets, nil
}

func (s *dueQueryService) GetStats(ctx context.Context, userID uuid.UUID) (*model.ReviewStatsResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	// total_due_today は get_due_today と同じ取得経路を使う。
	// 別の集計経路を作ると件数がズレていくため。
	due, err := s.findDue(ctx, userID)
	if err != nil {
		logger.Error("Failed to find due reviews for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計の取得に失敗しました。", "", model.ErrUnavailable)
	}

	today := scheduler.TruncateToDate(s.now())
	upcoming, err := s.repo.CountScheduledAfter(ctx, s.db, userID, today)
	if err != nil {
		logger.Error("Failed to count upcoming reviews", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計の取得に失敗しました。", "", model.ErrUnavailable)
	}

	counts, err := s.repo.CountByStage(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to count reviews by stage", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計の取得に失敗しました。", "", model.ErrUnavailable)
	}

	byStage := map[string]int{
		model.StageNew.String():      counts[model.StageNew],
		model.StageLearning.String(): counts[model.StageLearning],
		model.StageReview.String():   counts[model.StageReview],
		model.StageMastered.String(): counts[model.StageMastered],
	}

	stats := &model.ReviewStatsResponse{
		TotalDueToday: len(due),
		TotalUpcoming: int(upcoming),
		ByStage:       byStage,
	}
	logger.Info("Successfully retrieved review stats", "total_due_today", stats.TotalDueToday)
	return stats, nil
}

// findDue は「今日が期限」の行の取得経路。GetDueToday と GetStats で共有する。
func (s *dueQueryService) findDue(ctx context.Context, userID uuid.UUID) ([]*model.ScheduledReview, error) {
	today := scheduler.TruncateToDate(s.now())
	return s.repo.FindDueByUser(ctx, s.db, userID, today, s.cfg.App.DueLimit)
}
