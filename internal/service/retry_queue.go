// internal/service/retry_queue.go
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go_5_review_scheduler/internal/model"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// PendingReview は同期リトライが尽きた採点結果の再適用待ちエントリ
type PendingReview struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Outcome    model.ReviewOutcome
	Attempts   int
	EnqueuedAt time.Time
}

// RetryApplyFunc は待機中のエントリを再適用する関数。
// 最新の永続状態を読み直してから遷移を適用する（古い状態のリプレイはしない）。
type RetryApplyFunc func(ctx context.Context, item PendingReview) error

// RetryQueue はプロセス内の有界リトライキューです。
// gocron のバックグラウンドジョブが定期的にドレインして再適用する。
// 分散実行は非目標なのでブローカーは使わない。
type RetryQueue struct {
	mu          sync.Mutex
	items       []PendingReview
	size        int
	maxAttempts int
	scheduler   *gocron.Scheduler
	logger      *slog.Logger
}

func NewRetryQueue(size, maxAttempts int, logger *slog.Logger) *RetryQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryQueue{
		items:       make([]PendingReview, 0, size),
		size:        size,
		maxAttempts: maxAttempts,
		scheduler:   gocron.NewScheduler(time.UTC),
		logger:      logger,
	}
}

// Enqueue はエントリをキューに追加します。満杯の場合は false を返します。
func (q *RetryQueue) Enqueue(item PendingReview) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.size {
		q.logger.Error("Retry queue is full, dropping pending review",
			"user_id", item.UserID, "question_id", item.QuestionID)
		return false
	}
	q.items = append(q.items, item)
	q.logger.Info("Pending review enqueued for async retry",
		"user_id", item.UserID, "question_id", item.QuestionID,
		"attempts", item.Attempts, "queue_len", len(q.items))
	return true
}

// Len は待機中のエントリ数を返します
func (q *RetryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Start はドレインジョブをバックグラウンドで開始します
func (q *RetryQueue) Start(interval time.Duration, apply RetryApplyFunc) {
	q.scheduler.Every(interval).Do(func() {
		q.Drain(context.Background(), apply)
	})
	q.scheduler.StartAsync()
}

// Stop はドレインジョブを停止します
func (q *RetryQueue) Stop() {
	q.scheduler.Stop()
}

// Drain は待機中のエントリを全て取り出して再適用します。
// 失敗したエントリは試行回数を増やして積み直し、上限に達したら破棄して警報ログを出す。
func (q *RetryQueue) Drain(ctx context.Context, apply RetryApplyFunc) {
	q.mu.Lock()
	pending := q.items
	q.items = make([]PendingReview, 0, q.size)
	q.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	q.logger.Info("Draining retry queue", "count", len(pending))

	for _, item := range pending {
		err := apply(ctx, item)
		if err == nil {
			q.logger.Info("Pending review applied",
				"user_id", item.UserID, "question_id", item.QuestionID)
			continue
		}

		item.Attempts++
		if item.Attempts >= q.maxAttempts {
			// ここまで失敗が続くのは恒常的な障害。捨てる前に必ず痕跡を残す。
			q.logger.Error("Pending review exceeded max attempts, dropping",
				"user_id", item.UserID, "question_id", item.QuestionID,
				"attempts", item.Attempts, "error", err)
			continue
		}

		q.mu.Lock()
		if len(q.items) < q.size {
			q.items = append(q.items, item)
		} else {
			q.logger.Error("Retry queue full during drain, dropping pending review",
				"user_id", item.UserID, "question_id", item.QuestionID)
		}
		q.mu.Unlock()
	}
}
