// internal/model/review.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LearningStage は設問の定着度合いを表すステージ
type LearningStage int

const (
	StageNew      LearningStage = iota // 未レビュー（初回回答前のデフォルト）
	StageLearning                      // 学習中 (interval < 7日)
	StageReview                        // 復習中 (7日 <= interval < 30日)
	StageMastered                      // 定着済み (interval >= 30日)
)

func (s LearningStage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageLearning:
		return "learning"
	case StageReview:
		return "review"
	case StageMastered:
		return "mastered"
	default:
		return "unknown"
	}
}

// allowedStageTransitions はステージ遷移の許可表。
// New は初回回答前のデフォルトのみで、一度レビューされたら再突入しない。
// 不正解はどのステージからでも Learning に降格する（循環グラフ）。
// 昇格はインターバルラダーを必ず経由するため、Review を飛ばした昇格は不正。
var allowedStageTransitions = map[LearningStage][]LearningStage{
	StageNew:      {StageLearning},
	StageLearning: {StageLearning, StageReview},
	StageReview:   {StageLearning, StageReview, StageMastered},
	StageMastered: {StageLearning, StageMastered},
}

// CanTransition は from から to へのステージ遷移が許可されているかを返します
func CanTransition(from, to LearningStage) bool {
	for _, allowed := range allowedStageTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ScheduledReview は (user, question) ペアごとの復習スケジュールを表します。
// 1ペアにつき必ず1行（複合ユニークインデックス）。
type ScheduledReview struct {
	ReviewID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"-"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index:idx_user_question,unique;index:idx_user_next_review,priority:1" json:"-"`
	QuestionID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_user_question,unique" json:"question_id"`
	Stage             LearningStage `gorm:"not null;default:0" json:"stage"`
	Repetitions       int           `gorm:"not null;default:0" json:"repetitions"`
	EaseFactor        float64       `gorm:"not null;default:2.5" json:"ease_factor"`
	IntervalDays      int           `gorm:"not null;default:1" json:"interval_days"`
	ConsecutiveLapses int           `gorm:"not null;default:0" json:"consecutive_lapses"`
	LastReviewedAt    *time.Time    `json:"last_reviewed_at"`
	NextReviewDate    time.Time     `gorm:"not null;index:idx_user_next_review,priority:2" json:"next_review_date"`
	Version           int64         `gorm:"not null;default:0" json:"-"` // 楽観ロック用
	CreatedAt         time.Time     `json:"-"`
	UpdatedAt         time.Time     `json:"-"`
}

func (ScheduledReview) TableName() string {
	return "scheduled_reviews"
}

// NewDefaultReview は初回回答時に使う New 状態のレコードを返します
func NewDefaultReview(userID, questionID uuid.UUID) *ScheduledReview {
	return &ScheduledReview{
		ReviewID:   uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		Stage:      StageNew,
		EaseFactor: DefaultEaseFactor,
	}
}

// DefaultEaseFactor は新規レコードの ease factor 初期値
const DefaultEaseFactor = 2.5

// ReviewOutcome は採点済み回答の結果。Quality は SM-2 の回答品質 (0〜5)。
// nil の場合は「正解だが自信なし」のデフォルト 3 を使う。
type ReviewOutcome struct {
	IsCorrect bool
	Quality   *int
}

// QualityOrDefault は Quality 未指定時のデフォルト値を解決します
func (o ReviewOutcome) QualityOrDefault() int {
	if o.Quality == nil {
		return DefaultQuality
	}
	return *o.Quality
}

// DefaultQuality は Quality 未指定時のデフォルト（正解だが自信なし）
const DefaultQuality = 3

// --- DTO ---

// AnswerResultRequest は採点結果受付リクエストのDTO
type AnswerResultRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
	Quality   *int  `json:"quality,omitempty" validate:"omitempty,min=0,max=5"`
}

// DueReviewResponse は復習対象リストのレスポンスDTO
type DueReviewResponse struct {
	QuestionID     uuid.UUID `json:"question_id"`
	Stage          string    `json:"stage"`
	Repetitions    int       `json:"repetitions"`
	IntervalDays   int       `json:"interval_days"`
	NextReviewDate string    `json:"next_review_date"` // YYYY-MM-DD
}

// UpcomingDayResponse はカレンダー表示用の日別集計DTO
type UpcomingDayResponse struct {
	Date    string         `json:"date"` // YYYY-MM-DD
	Count   int            `json:"count"`
	ByStage map[string]int `json:"by_stage"`
}

// ReviewStatsResponse はステージ別集計のレスポンスDTO
type ReviewStatsResponse struct {
	TotalDueToday int            `json:"total_due_today"`
	TotalUpcoming int            `json:"total_upcoming"`
	ByStage       map[string]int `json:"by_stage"`
}
