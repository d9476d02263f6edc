package storage

import (
	"encoding/json"
	"time"
)

// Submission status values
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// PreferenceUserEmail is the preference key for the remembered submitter email
const PreferenceUserEmail = "user-email"

// Submission records one attempt to append an expense to the spreadsheet
type Submission struct {
	ID           int64     `json:"id"`
	FormID       string    `json:"form_id"`
	Email        string    `json:"email"`
	Date         string    `json:"date"`
	Vendor       string    `json:"vendor"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	PaidBy       string    `json:"paid_by"`
	Clearance    string    `json:"clearance"`
	TotalCost    string    `json:"total_cost"`
	ItemCount    int       `json:"item_count"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`

	// Row is the exact spreadsheet row that was sent
	Row     []string `json:"row"`
	RowJSON string   `json:"-"` // For DB storage
}

// encodeRow serializes Row for storage
func (s *Submission) encodeRow() string {
	if len(s.Row) == 0 {
		return "[]"
	}
	data, err := json.Marshal(s.Row)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeRow restores Row from RowJSON, leaving it empty on malformed data
func (s *Submission) decodeRow() {
	if s.RowJSON == "" {
		return
	}
	_ = json.Unmarshal([]byte(s.RowJSON), &s.Row)
}

// Stats summarizes the submission log
type Stats struct {
	TotalSubmissions int            `json:"total_submissions"`
	SentCount        int            `json:"sent_count"`
	FailedCount      int            `json:"failed_count"`
	TotalAmount      float64        `json:"total_amount"`
	TypeCounts       map[string]int `json:"type_counts"`
	PayerCounts      map[string]int `json:"payer_counts"`
}
