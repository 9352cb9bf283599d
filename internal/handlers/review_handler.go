// internal/handlers/review_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go_5_review_scheduler/internal/middleware"
	"go_5_review_scheduler/internal/model"
	"go_5_review_scheduler/internal/service"
	"go_5_review_scheduler/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	ingest service.ReviewIngestService
	query  service.DueQueryService
}

func NewReviewHandler(ingest service.ReviewIngestService, query service.DueQueryService) *ReviewHandler {
	return &ReviewHandler{ingest: ingest, query: query}
}

// SubmitAnswerResult は採点フローからの結果通知を受け付けます。
// スケジュール更新は内部でリトライ・警報されるため、202で即応答する。
func (h *ReviewHandler) SubmitAnswerResult(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}

	questionIDStr := chi.URLParam(r, "question_id")
	questionID, err := uuid.Parse(questionIDStr)
	if err != nil {
		webutil.HandleError(w, model.NewAppError("VALIDATION_ERROR", "question_idの形式が不正です。", "question_id", model.ErrInvalidInput))
		return
	}

	var req model.AnswerResultRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, model.NewAppError("VALIDATION_ERROR", "リクエストボディの形式が不正です。", "", model.ErrInvalidInput))
		return
	}
	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			webutil.HandleError(w, webutil.NewValidationErrorResponse(validationErrs))
			return
		}
		webutil.HandleError(w, err)
		return
	}

	outcome := model.ReviewOutcome{
		IsCorrect: *req.IsCorrect,
		Quality:   req.Quality,
	}
	if err := h.ingest.OnAnswerGraded(r.Context(), userID, questionID, outcome); err != nil {
		logger.Warn("Answer result rejected", "question_id", questionIDStr, "error", err)
		webutil.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// GetDueToday は「今日が期限」の復習リストを返します
func (h *ReviewHandler) GetDueToday(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}

	due, err := h.query.GetDueToday(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}

	if due == nil {
		due = []*model.DueReviewResponse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, due)
}

// GetUpcoming は今後N日ぶんの日別復習予定を返します
func (h *ReviewHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil {
			webutil.HandleError(w, model.NewAppError("VALIDATION_ERROR", "daysは整数で指定してください。", "days", model.ErrInvalidInput))
			return
		}
		days = parsed
	}

	upcoming, err := h.query.GetUpcoming(r.Context(), userID, days)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, upcoming)
}

// GetStats はステージ別の集計を返します
func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}

	stats, err := h.query.GetStats(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats)
}
