package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/api/handlers"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

func seedSubmissions(t *testing.T, repo *storage.MockRepository) {
	t.Helper()
	for _, status := range []string{storage.StatusSent, storage.StatusSent, storage.StatusFailed} {
		require.NoError(t, repo.SaveSubmission(&storage.Submission{
			FormID:      "form-1",
			Email:       "me@example.com",
			Type:        "Food",
			PaidBy:      "Name #1",
			TotalCost:   "10.00",
			Status:      status,
			SubmittedAt: time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC),
			Row:         []string{"07/03/2024 10:00:00"},
		}))
	}
}

func TestSubmissionsHandler_List(t *testing.T) {
	t.Run("returns empty list when no submissions", func(t *testing.T) {
		handler := handlers.NewSubmissionsHandler(storage.NewMockRepository(), nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.SubmissionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Submissions)
		assert.Equal(t, 50, response.Limit) // default limit
	})

	t.Run("filters by status", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedSubmissions(t, repo)
		handler := handlers.NewSubmissionsHandler(repo, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/submissions?status=failed", nil))

		var response dto.SubmissionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.TotalCount)
		assert.Nil(t, response.Submissions[0].Row)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListErr = errors.New("db locked")
		handler := handlers.NewSubmissionsHandler(repo, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSubmissionsHandler_Get(t *testing.T) {
	repo := storage.NewMockRepository()
	seedSubmissions(t, repo)
	handler := handlers.NewSubmissionsHandler(repo, nil)

	get := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/submissions/"+id, nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", id))
		rec := httptest.NewRecorder()
		handler.Get(rec, req)
		return rec
	}

	t.Run("found", func(t *testing.T) {
		rec := get("1")
		require.Equal(t, http.StatusOK, rec.Code)
		var response dto.SubmissionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, int64(1), response.ID)
		assert.Equal(t, "2024-03-07T10:00:00Z", response.SubmittedAt)
		assert.Equal(t, []string{"07/03/2024 10:00:00"}, response.Row)
	})

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("99").Code)
	})

	t.Run("bad id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get("abc").Code)
	})
}

func TestSubmissionsHandler_Stats(t *testing.T) {
	repo := storage.NewMockRepository()
	seedSubmissions(t, repo)
	handler := handlers.NewSubmissionsHandler(repo, nil)

	rec := httptest.NewRecorder()
	handler.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response dto.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 3, response.TotalSubmissions)
	assert.Equal(t, 2, response.SentCount)
	assert.InDelta(t, 66.67, response.SuccessRate, 0.01)
	assert.Equal(t, 2, response.TypeCounts["Food"])
}
