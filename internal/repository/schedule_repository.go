// internal/repository/schedule_repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go_5_review_scheduler/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleRepository は scheduled_reviews テーブルへの永続化を担います。
// DB接続(またはトランザクション)はService層から渡される想定。
type ScheduleRepository interface {
	FindByUserAndQuestion(ctx context.Context, db *gorm.DB, userID, questionID uuid.UUID) (*model.ScheduledReview, error)
	// FindByUserAndQuestionForUpdate は行ロック付きで取得する（トランザクション内で使用）
	FindByUserAndQuestionForUpdate(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) (*model.ScheduledReview, error)
	Create(ctx context.Context, tx *gorm.DB, review *model.ScheduledReview) error
	// Update は楽観ロック(versionのCAS)付きで更新する。競合時は model.ErrConflict。
	Update(ctx context.Context, tx *gorm.DB, review *model.ScheduledReview) error
	FindDueByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, asOf time.Time, limit int) ([]*model.ScheduledReview, error)
	FindUpcomingByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*model.ScheduledReview, error)
	CountByStage(ctx context.Context, db *gorm.DB, userID uuid.UUID) (map[model.LearningStage]int, error)
	CountScheduledAfter(ctx context.Context, db *gorm.DB, userID uuid.UUID, after time.Time) (int64, error)
}

type gormScheduleRepository struct{}

func NewGormScheduleRepository() ScheduleRepository {
	return &gormScheduleRepository{}
}

func (r *gormScheduleRepository) FindByUserAndQuestion(ctx context.Context, db *gorm.DB, userID, questionID uuid.UUID) (*model.ScheduledReview, error) {
	var review model.ScheduledReview
	result := db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &review, nil
}

func (r *gormScheduleRepository) FindByUserAndQuestionForUpdate(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) (*model.ScheduledReview, error) {
	var review model.ScheduledReview
	query := tx.WithContext(ctx)
	// SQLite(テスト用)は FOR UPDATE をサポートしないため postgres のみ付与。
	// SQLiteは書き込みがDB単位で直列化されるのでロックなしでも同等の保証になる。
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := query.
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &review, nil
}

func (r *gormScheduleRepository) Create(ctx context.Context, tx *gorm.DB, review *model.ScheduledReview) error {
	result := tx.WithContext(ctx).Create(review)
	if result.Error != nil {
		// 同一(user, question)の同時初回登録は複合ユニーク制約で弾かれる
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *gormScheduleRepository) Update(ctx context.Context, tx *gorm.DB, review *model.ScheduledReview) error {
	result := tx.WithContext(ctx).Model(&model.ScheduledReview{}).
		Where("review_id = ? AND version = ?", review.ReviewID, review.Version).
		Updates(map[string]interface{}{
			"stage":              review.Stage,
			"repetitions":        review.Repetitions,
			"ease_factor":        review.EaseFactor,
			"interval_days":      review.IntervalDays,
			"consecutive_lapses": review.ConsecutiveLapses,
			"last_reviewed_at":   review.LastReviewedAt,
			"next_review_date":   review.NextReviewDate,
			"version":            review.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 取得時とversionが変わっている＝並行トランザクションに先を越された
		return model.ErrConflict
	}
	review.Version++
	return nil
}

func (r *gormScheduleRepository) FindDueByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, asOf time.Time, limit int) ([]*model.ScheduledReview, error) {
	var reviews []*model.ScheduledReview
	// (user_id, next_review_date) の複合インデックスでレンジスキャンになる。
	// stage昇順で New/Learning（定着の弱いもの）を先頭に出す。
	result := db.WithContext(ctx).
		Where("user_id = ? AND next_review_date <= ?", userID, asOf).
		Order("next_review_date ASC, stage ASC").
		Limit(limit).
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

func (r *gormScheduleRepository) FindUpcomingByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*model.ScheduledReview, error) {
	var reviews []*model.ScheduledReview
	result := db.WithContext(ctx).
		Where("user_id = ? AND next_review_date >= ? AND next_review_date <= ?", userID, start, end).
		Order("next_review_date ASC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

func (r *gormScheduleRepository) CountByStage(ctx context.Context, db *gorm.DB, userID uuid.UUID) (map[model.LearningStage]int, error) {
	var rows []struct {
		Stage model.LearningStage
		Count int
	}
	result := db.WithContext(ctx).Model(&model.ScheduledReview{}).
		Select("stage, count(*) as count").
		Where("user_id = ?", userID).
		Group("stage").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[model.LearningStage]int, len(rows))
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}
	return counts, nil
}

func (r *gormScheduleRepository) CountScheduledAfter(ctx context.Context, db *gorm.DB, userID uuid.UUID, after time.Time) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.ScheduledReview{}).
		Where("user_id = ? AND next_review_date > ?", userID, after).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// isUniqueViolation は一意制約違反かどうかを判定します
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// SQLite(テスト用)のエラーはコードで取れないため文字列で判定する
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
