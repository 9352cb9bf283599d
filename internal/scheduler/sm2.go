// internal/scheduler/sm2.go
package scheduler

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"go_5_review_scheduler/internal/model"
)

// Params は SM-2 変種アルゴリズムの調整可能なパラメータ。
// 定数は確定仕様ではないため、設定で差し替えられるようにしておく。
type Params struct {
	// 序盤の固定インターバル（日数）。repetitions=1 が先頭要素に対応する。
	LadderDays []int
	// インターバルの上限（無期限の先送りを防ぐ）
	MaxIntervalDays int
	// ease factor の下限（暴走的な短インターバル化を防ぐ）
	EaseFloor float64
	// 不正解時の ease factor 減点
	LapsePenalty float64
	// Learning -> Review / Review -> Mastered のインターバル閾値（日数）
	ReviewThresholdDays   int
	MasteredThresholdDays int
}

// DefaultParams は既定のパラメータを返します
func DefaultParams() Params {
	return Params{
		LadderDays:            []int{1, 3, 7, 14, 30, 60},
		MaxIntervalDays:       180,
		EaseFloor:             1.3,
		LapsePenalty:          0.2,
		ReviewThresholdDays:   7,
		MasteredThresholdDays: 30,
	}
}

// Scheduler は復習スケジュールの純粋な状態遷移関数を提供します。
// I/Oも共有状態も持たないため、任意の並列度で安全に呼び出せます。
// logger は計算結果が不変条件を破った場合（実装バグ）の警報にのみ使います。
type Scheduler struct {
	params Params
	logger *slog.Logger
}

func New(params Params, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{params: params, logger: logger}
}

// Compute は (現在の状態, 採点結果, 現在時刻) から次の状態を計算します。
// 引数の state は変更せず、新しい値を返します。
// 不正な入力（負の repetitions、範囲外の quality）のみエラーを返し、
// 妥当な入力に対しては必ず成功します。
func (s *Scheduler) Compute(state model.ScheduledReview, outcome model.ReviewOutcome, now time.Time) (model.ScheduledReview, error) {
	if err := s.validate(state, outcome); err != nil {
		return model.ScheduledReview{}, err
	}

	next := state
	if next.EaseFactor == 0 {
		// 永続化前のゼロ値レコード対策。通常は NewDefaultReview が設定済み。
		next.EaseFactor = model.DefaultEaseFactor
	}

	if outcome.IsCorrect {
		s.applyCorrect(&next, outcome.QualityOrDefault())
	} else {
		s.applyIncorrect(&next)
	}

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewDate = TruncateToDate(now).AddDate(0, 0, next.IntervalDays)

	s.enforceInvariants(state, &next)
	return next, nil
}

// applyCorrect は正解時の遷移を適用します
func (s *Scheduler) applyCorrect(next *model.ScheduledReview, quality int) {
	next.Repetitions++
	next.ConsecutiveLapses = 0

	// SM-2 の ease factor 更新式
	q := float64(quality)
	ef := next.EaseFactor + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if ef < s.params.EaseFloor {
		ef = s.params.EaseFloor
	}
	next.EaseFactor = ef

	if next.Repetitions <= len(s.params.LadderDays) {
		// 序盤は固定ラダーを使う
		next.IntervalDays = s.params.LadderDays[next.Repetitions-1]
	} else {
		next.IntervalDays = int(math.Round(float64(next.IntervalDays) * ef))
	}
	if next.IntervalDays > s.params.MaxIntervalDays {
		next.IntervalDays = s.params.MaxIntervalDays
	}

	next.Stage = s.clampStage(next.Stage, s.stageForInterval(next.IntervalDays))
}

// applyIncorrect は不正解時の降格遷移を適用します。
// どのステージからでも Learning に戻り、翌日復習になる。
func (s *Scheduler) applyIncorrect(next *model.ScheduledReview) {
	next.Repetitions = 0
	next.IntervalDays = 1
	next.ConsecutiveLapses++

	ef := next.EaseFactor - s.params.LapsePenalty
	if ef < s.params.EaseFloor {
		ef = s.params.EaseFloor
	}
	next.EaseFactor = ef

	next.Stage = s.clampStage(next.Stage, model.StageLearning)
}

// stageForInterval はインターバル日数からステージを導出します。
// New は初回回答前のデフォルト専用で、ここからは決して返さない。
func (s *Scheduler) stageForInterval(intervalDays int) model.LearningStage {
	switch {
	case intervalDays < s.params.ReviewThresholdDays:
		return model.StageLearning
	case intervalDays < s.params.MasteredThresholdDays:
		return model.StageReview
	default:
		return model.StageMastered
	}
}

// clampStage は遷移許可表に反する遷移を検出した場合、一段ずつの昇格に丸めます。
// 正常な入力では発生しない実装バグ扱いなので、握りつぶさず必ず警報を出す。
func (s *Scheduler) clampStage(from, derived model.LearningStage) model.LearningStage {
	if model.CanTransition(from, derived) {
		return derived
	}
	s.logger.Error("Illegal stage transition computed, clamping",
		"from", from.String(), "derived", derived.String())
	if derived > from {
		stepped := from + 1
		if model.CanTransition(from, stepped) {
			return stepped
		}
	}
	// 降格は常に Learning 行きが許可されている
	return model.StageLearning
}

// enforceInvariants は計算後の数値不変条件を検査します。
// 違反は実装バグであり、本番では clamp して警報、黙殺はしない。
func (s *Scheduler) enforceInvariants(prev model.ScheduledReview, next *model.ScheduledReview) {
	if next.IntervalDays < 1 {
		s.logger.Error("Computed interval below 1 day, clamping",
			"interval_days", next.IntervalDays, "repetitions", next.Repetitions)
		next.IntervalDays = 1
	}
	if next.EaseFactor < s.params.EaseFloor {
		s.logger.Error("Computed ease factor below floor, clamping",
			"ease_factor", next.EaseFactor)
		next.EaseFactor = s.params.EaseFloor
	}
	if next.Repetitions < 0 {
		s.logger.Error("Computed negative repetitions, clamping",
			"repetitions", next.Repetitions, "prev_repetitions", prev.Repetitions)
		next.Repetitions = 0
	}
	if next.LastReviewedAt != nil {
		// next_review_date は必ず last_reviewed_at(日付切り捨て) + interval
		expected := TruncateToDate(*next.LastReviewedAt).AddDate(0, 0, next.IntervalDays)
		if !next.NextReviewDate.Equal(expected) {
			s.logger.Error("next_review_date drifted from derivation, re-deriving",
				"stored", next.NextReviewDate, "expected", expected)
			next.NextReviewDate = expected
		}
	}
}

// validate は入力の妥当性を検査します（非リトライ対象の呼び出し元エラー）
func (s *Scheduler) validate(state model.ScheduledReview, outcome model.ReviewOutcome) error {
	if state.Repetitions < 0 {
		return fmt.Errorf("repetitions must not be negative, got %d: %w", state.Repetitions, model.ErrInvalidInput)
	}
	if state.IntervalDays < 0 {
		return fmt.Errorf("interval_days must not be negative, got %d: %w", state.IntervalDays, model.ErrInvalidInput)
	}
	if state.ConsecutiveLapses < 0 {
		return fmt.Errorf("consecutive_lapses must not be negative, got %d: %w", state.ConsecutiveLapses, model.ErrInvalidInput)
	}
	if state.EaseFactor < 0 {
		return fmt.Errorf("ease_factor must not be negative, got %f: %w", state.EaseFactor, model.ErrInvalidInput)
	}
	if q := outcome.Quality; q != nil && (*q < 0 || *q > 5) {
		return fmt.Errorf("quality must be in [0,5], got %d: %w", *q, model.ErrInvalidInput)
	}
	return nil
}

// TruncateToDate は時刻を日付粒度に切り捨てます
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
