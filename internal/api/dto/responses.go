package dto

import (
	"time"

	"github.com/eshaffer321/ration-form/internal/domain/ration"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	ActiveForms int    `json:"active_forms"`
}

// NewHealthResponse creates a healthy response with current timestamp.
func NewHealthResponse(activeForms int) HealthResponse {
	return HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		ActiveForms: activeForms,
	}
}

// OptionsResponse lists the choices offered by the form pickers.
type OptionsResponse struct {
	Types      []string        `json:"types"`
	Vendors    []string        `json:"vendors"`
	Locations  []string        `json:"locations"`
	Payers     []ration.Payer  `json:"payers"`
	Units      []ration.Unit   `json:"units"`
	Clearances []string        `json:"clearances"`
	Presets    []ration.Preset `json:"presets"`
}

// SubmissionResponse represents a logged submission in API responses.
type SubmissionResponse struct {
	ID           int64    `json:"id"`
	FormID       string   `json:"form_id"`
	Email        string   `json:"email"`
	Date         string   `json:"date"`
	Vendor       string   `json:"vendor"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	PaidBy       string   `json:"paid_by"`
	Clearance    string   `json:"clearance"`
	TotalCost    string   `json:"total_cost"`
	ItemCount    int      `json:"item_count"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
	SubmittedAt  string   `json:"submitted_at"`
	Row          []string `json:"row,omitempty"`
}

// SubmissionListResponse is returned when listing submissions.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	TotalCount  int                  `json:"total_count"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// StatsResponse summarizes the submission log.
type StatsResponse struct {
	TotalSubmissions int            `json:"total_submissions"`
	SentCount        int            `json:"sent_count"`
	FailedCount      int            `json:"failed_count"`
	SuccessRate      float64        `json:"success_rate"`
	TotalAmount      float64        `json:"total_amount"`
	TypeCounts       map[string]int `json:"type_counts"`
	PayerCounts      map[string]int `json:"payer_counts"`
}

// ToSubmissionResponse converts a storage record to an API response.
// The raw row is included only when withRow is set.
func ToSubmissionResponse(sub *storage.Submission, withRow bool) SubmissionResponse {
	resp := SubmissionResponse{
		ID:           sub.ID,
		FormID:       sub.FormID,
		Email:        sub.Email,
		Date:         sub.Date,
		Vendor:       sub.Vendor,
		Location:     sub.Location,
		Type:         sub.Type,
		PaidBy:       sub.PaidBy,
		Clearance:    sub.Clearance,
		TotalCost:    sub.TotalCost,
		ItemCount:    sub.ItemCount,
		Status:       sub.Status,
		ErrorMessage: sub.ErrorMessage,
		SubmittedAt:  sub.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if withRow {
		resp.Row = sub.Row
	}
	return resp
}

// ToSubmissionListResponse converts a storage page to an API response.
func ToSubmissionListResponse(result *storage.SubmissionListResult) SubmissionListResponse {
	resp := SubmissionListResponse{
		Submissions: make([]SubmissionResponse, 0, len(result.Submissions)),
		TotalCount:  result.TotalCount,
		Limit:       result.Limit,
		Offset:      result.Offset,
	}
	for _, sub := range result.Submissions {
		resp.Submissions = append(resp.Submissions, ToSubmissionResponse(sub, false))
	}
	return resp
}

// ToStatsResponse converts storage stats and derives the success rate.
func ToStatsResponse(stats *storage.Stats) StatsResponse {
	resp := StatsResponse{
		TotalSubmissions: stats.TotalSubmissions,
		SentCount:        stats.SentCount,
		FailedCount:      stats.FailedCount,
		TotalAmount:      stats.TotalAmount,
		TypeCounts:       stats.TypeCounts,
		PayerCounts:      stats.PayerCounts,
	}
	if stats.TotalSubmissions > 0 {
		resp.SuccessRate = float64(stats.SentCount) / float64(stats.TotalSubmissions) * 100
	}
	return resp
}
