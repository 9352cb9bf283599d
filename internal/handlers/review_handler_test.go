// internal/handlers/review_handler_test.go
package handlers_test // テスト対象とは別のパッケージ名

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_5_review_scheduler/internal/handlers"
	"go_5_review_scheduler/internal/model"
	svc_mocks "go_5_review_scheduler/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- ヘルパー: JSONボディ付きリクエストの作成 ---
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		if bodyStr, ok := body.(string); ok {
			reqBody = strings.NewReader(bodyStr)
		} else {
			jsonData, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewBuffer(jsonData)
		}
	}
	req, err := http.NewRequest(method, target, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// --- ヘルパー: 認証済みユーザーとURLパラメータをコンテキストに設定 ---
func contextWithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, model.UserIDKey, userID)
}

func contextWithChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func boolPtr(v bool) *bool { return &v }
func intPtrH(v int) *int   { return &v }

// --- Test SubmitAnswerResult ---
func TestReviewHandler_SubmitAnswerResult(t *testing.T) {
	testUserID := uuid.New()
	testQuestionID := uuid.New()

	tests := []struct {
		name           string
		questionID     string
		body           interface{}
		withUser       bool
		setupMock      func(m *svc_mocks.ReviewIngestService)
		expectedStatus int
		expectedCode   string // エラーレスポンスの code (正常系では空)
	}{
		{
			name:       "正常系: 正解の通知が受理され202",
			questionID: testQuestionID.String(),
			body:       model.AnswerResultRequest{IsCorrect: boolPtr(true)},
			withUser:   true,
			setupMock: func(m *svc_mocks.ReviewIngestService) {
				m.On("OnAnswerGraded", mock.Anything, testUserID, testQuestionID,
					model.ReviewOutcome{IsCorrect: true, Quality: nil}).
					Return(nil).Once()
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:       "正常系: quality付きの不正解通知",
			questionID: testQuestionID.String(),
			body:       model.AnswerResultRequest{IsCorrect: boolPtr(false), Quality: intPtrH(1)},
			withUser:   true,
			setupMock: func(m *svc_mocks.ReviewIngestService) {
				m.On("OnAnswerGraded", mock.Anything, testUserID, testQuestionID,
					mock.MatchedBy(func(o model.ReviewOutcome) bool {
						return !o.IsCorrect && o.Quality != nil && *o.Quality == 1
					})).
					Return(nil).Once()
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "異常系: question_idがUUIDでない",
			questionID:     "not-a-uuid",
			body:           model.AnswerResultRequest{IsCorrect: boolPtr(true)},
			withUser:       true,
			setupMock:      func(m *svc_mocks.ReviewIngestService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: is_correct欠落はバリデーションエラー",
			questionID:     testQuestionID.String(),
			body:           map[string]interface{}{"quality": 3},
			withUser:       true,
			setupMock:      func(m *svc_mocks.ReviewIngestService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: qualityが範囲外",
			questionID:     testQuestionID.String(),
			body:           model.AnswerResultRequest{IsCorrect: boolPtr(true), Quality: intPtrH(6)},
			withUser:       true,
			setupMock:      func(m *svc_mocks.ReviewIngestService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: ボディが壊れたJSON",
			questionID:     testQuestionID.String(),
			body:           `{"is_correct": tru`,
			withUser:       true,
			setupMock:      func(m *svc_mocks.ReviewIngestService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: 認証コンテキストなしは500",
			questionID:     testQuestionID.String(),
			body:           model.AnswerResultRequest{IsCorrect: boolPtr(true)},
			withUser:       false,
			setupMock:      func(m *svc_mocks.ReviewIngestService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "異常系: サービスが入力不正を返す",
			questionID: testQuestionID.String(),
			body:       model.AnswerResultRequest{IsCorrect: boolPtr(true)},
			withUser:   true,
			setupMock: func(m *svc_mocks.ReviewIngestService) {
				m.On("OnAnswerGraded", mock.Anything, testUserID, testQuestionID, mock.Anything).
					Return(model.NewAppError("VALIDATION_ERROR", "採点結果の形式が不正です。", "quality", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIngest := new(svc_mocks.ReviewIngestService)
			mockQuery := new(svc_mocks.DueQueryService)
			tt.setupMock(mockIngest)
			handler := handlers.NewReviewHandler(mockIngest, mockQuery)

			req := newJSONRequest(t, http.MethodPost, "/api/v1/reviews/"+tt.questionID+"/result", tt.body)
			ctx := req.Context()
			if tt.withUser {
				ctx = contextWithUser(ctx, testUserID)
			}
			ctx = contextWithChiURLParam(ctx, "question_id", tt.questionID)
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.SubmitAnswerResult(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				var errResp model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error.Code)
			}
			mockIngest.AssertExpectations(t)
		})
	}
}

// --- Test GetDueToday ---
func TestReviewHandler_GetDueToday(t *testing.T) {
	testUserID := uuid.New()
	expectedDue := []*model.DueReviewResponse{
		{QuestionID: uuid.New(), Stage: "learning", Repetitions: 1, IntervalDays: 1, NextReviewDate: "2026-09-01"},
		{QuestionID: uuid.New(), Stage: "review", Repetitions: 3, IntervalDays: 7, NextReviewDate: "2026-09-01"},
	}

	tests := []struct {
		name           string
		setupMock      func(m *svc_mocks.DueQueryService)
		expectedStatus int
		expectedLen    int
		expectError    bool
	}{
		{
			name: "正常系: 複数件取得",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetDueToday", mock.Anything, testUserID).Return(expectedDue, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "正常系: 0件でも空配列を返す",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetDueToday", mock.Anything, testUserID).Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name: "異常系: 取得失敗は503で「復習なし」と区別される",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetDueToday", mock.Anything, testUserID).
					Return(nil, model.NewAppError("INTERNAL_SERVER_ERROR", "今日の復習リストの取得に失敗しました。", "", model.ErrUnavailable)).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIngest := new(svc_mocks.ReviewIngestService)
			mockQuery := new(svc_mocks.DueQueryService)
			tt.setupMock(mockQuery)
			handler := handlers.NewReviewHandler(mockIngest, mockQuery)

			req := newJSONRequest(t, http.MethodGet, "/api/v1/reviews/due", nil)
			req = req.WithContext(contextWithUser(req.Context(), testUserID))

			rr := httptest.NewRecorder()
			handler.GetDueToday(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if !tt.expectError {
				var got []*model.DueReviewResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				require.NotNil(t, got) // nilではなく[]を返す
				assert.Len(t, got, tt.expectedLen)
			}
			mockQuery.AssertExpectations(t)
		})
	}
}

// --- Test GetUpcoming ---
func TestReviewHandler_GetUpcoming(t *testing.T) {
	testUserID := uuid.New()

	tests := []struct {
		name           string
		query          string
		setupMock      func(m *svc_mocks.DueQueryService)
		expectedStatus int
	}{
		{
			name:  "正常系: days指定あり",
			query: "?days=14",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetUpcoming", mock.Anything, testUserID, 14).
					Return([]*model.UpcomingDayResponse{{Date: "2026-09-02", Count: 1, ByStage: map[string]int{"learning": 1}}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "正常系: days未指定は0でサービスに委譲",
			query: "",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetUpcoming", mock.Anything, testUserID, 0).
					Return([]*model.UpcomingDayResponse{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: daysが整数でない",
			query:          "?days=abc",
			setupMock:      func(m *svc_mocks.DueQueryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "異常系: 負のdaysはサービスでバリデーションエラー",
			query: "?days=-1",
			setupMock: func(m *svc_mocks.DueQueryService) {
				m.On("GetUpcoming", mock.Anything, testUserID, -1).
					Return(nil, model.NewAppError("VALIDATION_ERROR", "日数は0以上で指定してください。", "days", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIngest := new(svc_mocks.ReviewIngestService)
			mockQuery := new(svc_mocks.DueQueryService)
			tt.setupMock(mockQuery)
			handler := handlers.NewReviewHandler(mockIngest, mockQuery)

			req := newJSONRequest(t, http.MethodGet, "/api/v1/reviews/upcoming"+tt.query, nil)
			req = req.WithContext(contextWithUser(req.Context(), testUserID))

			rr := httptest.NewRecorder()
			handler.GetUpcoming(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockQuery.AssertExpectations(t)
		})
	}
}

// --- Test GetStats ---
func TestReviewHandler_GetStats(t *testing.T) {
	testUserID := uuid.New()

	t.Run("正常系: 集計取得成功", func(t *testing.T) {
		mockIngest := new(svc_mocks.ReviewIngestService)
		mockQuery := new(svc_mocks.DueQueryService)
		expected := &model.ReviewStatsResponse{
			TotalDueToday: 3,
			TotalUpcoming: 12,
			ByStage:       map[string]int{"new": 0, "learning": 5, "review": 7, "mastered": 3},
		}
		mockQuery.On("GetStats", mock.Anything, testUserID).Return(expected, nil).Once()
		handler := handlers.NewReviewHandler(mockIngest, mockQuery)

		req := newJSONRequest(t, http.MethodGet, "/api/v1/reviews/stats", nil)
		req = req.WithContext(contextWithUser(req.Context(), testUserID))

		rr := httptest.NewRecorder()
		handler.GetStats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.ReviewStatsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 3, got.TotalDueToday)
		assert.Equal(t, 12, got.TotalUpcoming)
		assert.Equal(t, 5, got.ByStage["learning"])
		mockQuery.AssertExpectations(t)
	})

	t.Run("異常系: 集計取得失敗", func(t *testing.T) {
		mockIngest := new(svc_mocks.ReviewIngestService)
		mockQuery := new(svc_mocks.DueQueryService)
		mockQuery.On("GetStats", mock.Anything, testUserID).
			Return(nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計の取得に失敗しました。", "", model.ErrUnavailable)).Once()
		handler := handlers.NewReviewHandler(mockIngest, mockQuery)

		req := newJSONRequest(t, http.MethodGet, "/api/v1/reviews/stats", nil)
		req = req.WithContext(contextWithUser(req.Context(), testUserID))

		rr := httptest.NewRecorder()
		handler.GetStats(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		mockQuery.AssertExpectations(t)
	})
}
