// internal/repository/schedule_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"go_5_review_scheduler/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // テスト中はログを抑制
	})
	require.NoError(t, err, "failed to connect database for repository testing")
	require.NoError(t, db.AutoMigrate(&model.ScheduledReview{}))
	return db
}

func newScheduledReview(userID uuid.UUID, stage model.LearningStage, interval int, nextReviewDate time.Time) *model.ScheduledReview {
	now := time.Now()
	return &model.ScheduledReview{
		ReviewID:       uuid.New(),
		UserID:         userID,
		QuestionID:     uuid.New(),
		Stage:          stage,
		Repetitions:    1,
		EaseFactor:     2.5,
		IntervalDays:   interval,
		LastReviewedAt: &now,
		NextReviewDate: nextReviewDate,
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func TestGormScheduleRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	today := truncateToDate(time.Now())

	t.Run("正常系: 作成したレコードが全フィールド読み戻せる", func(t *testing.T) {
		review := newScheduledReview(userID, model.StageLearning, 3, today.AddDate(0, 0, 3))
		review.Repetitions = 2
		review.EaseFactor = 2.36
		review.ConsecutiveLapses = 1
		require.NoError(t, repo.Create(ctx, db, review))

		got, err := repo.FindByUserAndQuestion(ctx, db, userID, review.QuestionID)
		require.NoError(t, err)

		assert.Equal(t, review.ReviewID, got.ReviewID)
		assert.Equal(t, model.StageLearning, got.Stage)
		assert.Equal(t, 2, got.Repetitions)
		assert.InDelta(t, 2.36, got.EaseFactor, 1e-9)
		assert.Equal(t, 3, got.IntervalDays)
		assert.Equal(t, 1, got.ConsecutiveLapses)
		require.NotNil(t, got.LastReviewedAt)
		assert.WithinDuration(t, *review.LastReviewedAt, *got.LastReviewedAt, time.Second)
		assert.WithinDuration(t, review.NextReviewDate, got.NextReviewDate, time.Second)
	})

	t.Run("異常系: 存在しない(user, question)はErrNotFound", func(t *testing.T) {
		_, err := repo.FindByUserAndQuestion(ctx, db, userID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 同一(user, question)の二重作成はErrConflict", func(t *testing.T) {
		review := newScheduledReview(userID, model.StageLearning, 1, today.AddDate(0, 0, 1))
		require.NoError(t, repo.Create(ctx, db, review))

		dup := newScheduledReview(userID, model.StageLearning, 1, today.AddDate(0, 0, 1))
		dup.QuestionID = review.QuestionID
		err := repo.Create(ctx, db, dup)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}

func TestGormScheduleRepository_FindByUserAndQuestionForUpdate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	review := newScheduledReview(userID, model.StageReview, 7, truncateToDate(time.Now()))
	require.NoError(t, repo.Create(ctx, db, review))

	t.Run("正常系: トランザクション内で取得できる", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			got, err := repo.FindByUserAndQuestionForUpdate(ctx, tx, userID, review.QuestionID)
			require.NoError(t, err)
			assert.Equal(t, review.ReviewID, got.ReviewID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("異常系: 存在しない行はErrNotFound", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := repo.FindByUserAndQuestionForUpdate(ctx, tx, userID, uuid.New())
			return err
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGormScheduleRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	today := truncateToDate(time.Now())

	t.Run("正常系: 更新に成功するとversionが進む", func(t *testing.T) {
		review := newScheduledReview(userID, model.StageLearning, 1, today.AddDate(0, 0, 1))
		require.NoError(t, repo.Create(ctx, db, review))

		review.Stage = model.StageReview
		review.Repetitions = 3
		review.IntervalDays = 7
		review.NextReviewDate = today.AddDate(0, 0, 7)
		require.NoError(t, repo.Update(ctx, db, review))
		assert.Equal(t, int64(1), review.Version)

		got, err := repo.FindByUserAndQuestion(ctx, db, userID, review.QuestionID)
		require.NoError(t, err)
		assert.Equal(t, model.StageReview, got.Stage)
		assert.Equal(t, 3, got.Repetitions)
		assert.Equal(t, 7, got.IntervalDays)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("異常系: versionが古い更新はErrConflict", func(t *testing.T) {
		review := newScheduledReview(userID, model.StageLearning, 1, today.AddDate(0, 0, 1))
		require.NoError(t, repo.Create(ctx, db, review))

		// 並行トランザクションが先に更新した状況を再現する
		winner := *review
		require.NoError(t, repo.Update(ctx, db, &winner))

		loser := *review // 取得時の古いversionのまま
		loser.Repetitions = 99
		err := repo.Update(ctx, db, &loser)
		assert.ErrorIs(t, err, model.ErrConflict)

		// 先勝ちの更新は失われていない
		got, findErr := repo.FindByUserAndQuestion(ctx, db, userID, review.QuestionID)
		require.NoError(t, findErr)
		assert.Equal(t, winner.Repetitions, got.Repetitions)
		assert.Equal(t, int64(1), got.Version)
	})
}

func TestGormScheduleRepository_FindDueByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	otherUserID := uuid.New()
	today := truncateToDate(time.Now())

	overdue := newScheduledReview(userID, model.StageReview, 7, today.AddDate(0, 0, -3))
	dueToday := newScheduledReview(userID, model.StageLearning, 1, today)
	future := newScheduledReview(userID, model.StageMastered, 30, today.AddDate(0, 0, 10))
	otherUser := newScheduledReview(otherUserID, model.StageLearning, 1, today)
	for _, r := range []*model.ScheduledReview{overdue, dueToday, future, otherUser} {
		require.NoError(t, repo.Create(ctx, db, r))
	}

	t.Run("正常系: 期限到来分のみ期日昇順で返す", func(t *testing.T) {
		got, err := repo.FindDueByUser(ctx, db, userID, today, 100)
		require.NoError(t, err)

		require.Len(t, got, 2)
		// 期限超過が先、他ユーザーと未来の予定は含まれない
		assert.Equal(t, overdue.QuestionID, got[0].QuestionID)
		assert.Equal(t, dueToday.QuestionID, got[1].QuestionID)
	})

	t.Run("正常系: limitで件数が絞られる", func(t *testing.T) {
		got, err := repo.FindDueByUser(ctx, db, userID, today, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, overdue.QuestionID, got[0].QuestionID)
	})

	t.Run("正常系: 該当なしは空スライス", func(t *testing.T) {
		got, err := repo.FindDueByUser(ctx, db, uuid.New(), today, 100)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGormScheduleRepository_FindUpcomingByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	today := truncateToDate(time.Now())

	tomorrow := newScheduledReview(userID, model.StageLearning, 1, today.AddDate(0, 0, 1))
	inThree := newScheduledReview(userID, model.StageReview, 7, today.AddDate(0, 0, 3))
	inTen := newScheduledReview(userID, model.StageMastered, 30, today.AddDate(0, 0, 10))
	dueNow := newScheduledReview(userID, model.StageLearning, 1, today)
	for _, r := range []*model.ScheduledReview{tomorrow, inThree, inTen, dueNow} {
		require.NoError(t, repo.Create(ctx, db, r))
	}

	// 境界は両端含む: 今日当日は含まず、レンジ終端ちょうどは含む
	got, err := repo.FindUpcomingByUser(ctx, db, userID, today.AddDate(0, 0, 1), today.AddDate(0, 0, 3))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, tomorrow.QuestionID, got[0].QuestionID)
	assert.Equal(t, inThree.QuestionID, got[1].QuestionID)
}

func TestGormScheduleRepository_Counts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormScheduleRepository()

	userID := uuid.New()
	today := truncateToDate(time.Now())

	reviews := []*model.ScheduledReview{
		newScheduledReview(userID, model.StageLearning, 1, today),
		newScheduledReview(userID, model.StageLearning, 3, today.AddDate(0, 0, 3)),
		newScheduledReview(userID, model.StageReview, 7, today.AddDate(0, 0, 7)),
		newScheduledReview(userID, model.StageMastered, 30, today.AddDate(0, 0, 30)),
		newScheduledReview(uuid.New(), model.StageLearning, 1, today.AddDate(0, 0, 1)), // 他ユーザー
	}
	for _, r := range reviews {
		require.NoError(t, repo.Create(ctx, db, r))
	}

	t.Run("正常系: ステージ別件数", func(t *testing.T) {
		counts, err := repo.CountByStage(ctx, db, userID)
		require.NoError(t, err)

		assert.Equal(t, 2, counts[model.StageLearning])
		assert.Equal(t, 1, counts[model.StageReview])
		assert.Equal(t, 1, counts[model.StageMastered])
		assert.Equal(t, 0, counts[model.StageNew])
	})

	t.Run("正常系: 今日より後に予定されている件数", func(t *testing.T) {
		count, err := repo.CountScheduledAfter(ctx, db, userID, today)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
