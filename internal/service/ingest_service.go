// internal/service/ingest_service.go
package service

import (
	"context"
	"errors"
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

// ReviewIngestService は採点済み回答を受け取り、復習スケジュールを更新します。
// 採点フロー側から見れば fire-and-forget で、永続化の失敗が
// ユーザーへの回答レスポンスを失敗させることはない。
type ReviewIngestService interface {
	// OnAnswerGraded は採点完了時に呼ばれます。
	// 入力不正のみエラーを返し、一時的な永続化失敗は内部でリトライ・警報する。
	OnAnswerGraded(ctx context.Context, userID, questionID uuid.UUID, outcome model.ReviewOutcome) error
	// ApplyPending はリトライキューのエントリを再適用します（ドレインジョブから呼ばれる）
	ApplyPending(ctx context.Context, item PendingReview) error
}

type reviewIngestService struct {
	db      *gorm.DB
	repo    repository.ScheduleRepository
	sched   *scheduler.Scheduler
	queue   *RetryQueue
	alerter Alerter
	cfg     *config.Config
	now     func() time.Time // テストで時刻を固定できるように注入
}

func NewReviewIngestService(
	db *gorm.DB,
	repo repository.ScheduleRepository,
	sched *scheduler.Scheduler,
	queue *RetryQueue,
	alerter Alerter,
	cfg *config.Config,
) ReviewIngestService {
	return &reviewIngestService{
		db:      db,
		repo:    repo,
		sched:   sched,
		queue:   queue,
		alerter: alerter,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *reviewIngestService) OnAnswerGraded(ctx context.Context, userID, questionID uuid.UUID, outcome model.ReviewOutcome) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "question_id", questionID)

	// バリデーションは境界で行い、Schedulerには不正な入力を渡さない。
	// 呼び出し元エラーなのでリトライもしない。
	if err := validateOutcome(outcome); err != nil {
		logger.Warn("Rejected malformed answer outcome", "error", err)
		return model.NewAppError("VALIDATION_ERROR", "採点結果の形式が不正です。", "quality", model.ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = s.applyOnce(ctx, userID, questionID, outcome)
		if lastErr == nil {
			logger.Info("Review schedule updated", "is_correct", outcome.IsCorrect, "attempt", attempt+1)
			return nil
		}
		if errors.Is(lastErr, model.ErrInvalidInput) {
			// 永続状態が不正（実装バグ相当）。リトライしても直らない。
			logger.Error("Scheduler rejected stored state", "error", lastErr)
			return model.NewAppError("VALIDATION_ERROR", "スケジュール状態が不正です。", "", model.ErrInvalidInput)
		}
		if attempt >= len(s.cfg.App.RetryBackoffMs) {
			break
		}

		backoff := time.Duration(s.cfg.App.RetryBackoffMs[attempt]) * time.Millisecond
		logger.Warn("Failed to persist review schedule, retrying",
			"attempt", attempt+1, "backoff", backoff, "error", lastErr)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			// 呼び出し元がいなくなっても遷移は失わない。非同期経路に回す。
			s.enqueueAndAlert(ctx, userID, questionID, outcome, lastErr)
			return nil
		}
	}

	// 同期リトライが尽きた。回答レスポンスはブロックせず、非同期経路+警報に切り替える。
	logger.Error("Exhausted synchronous retries for review schedule", "error", lastErr)
	s.enqueueAndAlert(ctx, userID, questionID, outcome, lastErr)
	return nil
}

// applyOnce は 現状態の取得 -> Scheduler計算 -> 永続化 を1トランザクションで行います。
// 同一(user, question)行への書き込みは行ロック+versionのCASで直列化され、
// 並行する2つの正解がどちらも失われずに適用される。
func (s *reviewIngestService) applyOnce(ctx context.Context, userID, questionID uuid.UUID, outcome model.ReviewOutcome) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByUserAndQuestionForUpdate(ctx, tx, userID, questionID)
		isNew := errors.Is(err, model.ErrNotFound)
		if err != nil && !isNew {
			return err
		}

		// 初回回答は New のデフォルト状態から遷移する（行の遅延作成）
		var state model.ScheduledReview
		if isNew {
			state = *model.NewDefaultReview(userID, questionID)
		} else {
			state = *current
		}

		next, err := s.sched.Compute(state, outcome, s.now())
		if err != nil {
			return err
		}

		if isNew {
			return s.repo.Create(ctx, tx, &next)
		}
		return s.repo.Update(ctx, tx, &next)
	})
}

// ApplyPending はドレインジョブからの再適用です。
// キュー投入時の状態ではなく、必ず最新の永続状態に対して遷移を適用し直す。
func (s *reviewIngestService) ApplyPending(ctx context.Context, item PendingReview) error {
	return s.applyOnce(ctx, item.UserID, item.QuestionID, item.Outcome)
}

func (s *reviewIngestService) enqueueAndAlert(ctx context.Context, userID, questionID uuid.UUID, outcome model.ReviewOutcome, cause error) {
	logger := middleware.GetLogger(ctx)

	enqueued := s.queue.Enqueue(PendingReview{
		UserID:     userID,
		QuestionID: questionID,
		Outcome:    outcome,
		EnqueuedAt: s.now(),
	})

	subject := fmt.Sprintf("[%s] review schedule persistence failing", config.AppName)
	body := fmt.Sprintf(
		"Synchronous retries exhausted for user=%s question=%s (enqueued=%t).\nLast error: %v",
		userID, questionID, enqueued, cause,
	)
	if err := s.alerter.Alert(ctx, subject, body); err != nil {
		// 警報チャネル自体の障害。ログには必ず残す。
		logger.Error("Failed to raise operator alert", "error", err, "cause", cause)
	}
}

// validateOutcome は採点結果の妥当性を検査します
func validateOutcome(outcome model.ReviewOutcome) error {
	if q := outcome.Quality; q != nil && (*q < 0 || *q > 5) {
		return fmt.Errorf("quality must be in [0,5], got %d: %w", *q, model.ErrInvalidInput)
	}
	return nil
}
