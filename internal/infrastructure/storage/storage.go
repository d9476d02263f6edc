// Package storage persists the submission log and remembered preferences in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides database access for submissions and preferences
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Storage
type Option func(*Storage)

// WithLogger sets the logger used for migration output
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for preference timestamps and day filters
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string, opts ...Option) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	// Run all pending migrations
	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveSubmission inserts a submission record
func (s *Storage) SaveSubmission(sub *Submission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	sub.RowJSON = sub.encodeRow()

	query := `
	INSERT INTO submissions
	(form_id, email, expense_date, vendor, location, expense_type, paid_by,
	 clearance, total_cost, item_count, row_json, status, error_message, submitted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		sub.FormID,
		sub.Email,
		sub.Date,
		sub.Vendor,
		sub.Location,
		sub.Type,
		sub.PaidBy,
		sub.Clearance,
		sub.TotalCost,
		sub.ItemCount,
		sub.RowJSON,
		sub.Status,
		sub.ErrorMessage,
		sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read submission id: %w", err)
	}
	sub.ID = id
	return nil
}

const submissionColumns = `
	id, form_id, email, expense_date, vendor, location, expense_type, paid_by,
	clearance, total_cost, item_count, row_json, status, error_message, submitted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	sub := &Submission{}
	err := row.Scan(
		&sub.ID,
		&sub.FormID,
		&sub.Email,
		&sub.Date,
		&sub.Vendor,
		&sub.Location,
		&sub.Type,
		&sub.PaidBy,
		&sub.Clearance,
		&sub.TotalCost,
		&sub.ItemCount,
		&sub.RowJSON,
		&sub.Status,
		&sub.ErrorMessage,
		&sub.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.decodeRow()
	return sub, nil
}

// GetSubmission retrieves a submission by ID
func (s *Storage) GetSubmission(id int64) (*Submission, error) {
	row := s.db.QueryRow(`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %d: %w", id, err)
	}
	return sub, nil
}

// ListSubmissions returns submissions newest first
func (s *Storage) ListSubmissions(filters SubmissionFilters) (*SubmissionListResult, error) {
	filters = filters.normalized()

	var conditions []string
	var args []any
	if filters.Email != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, filters.Email)
	}
	if filters.Type != "" {
		conditions = append(conditions, "expense_type = ?")
		args = append(args, filters.Type)
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.DaysBack > 0 {
		conditions = append(conditions, "submitted_at >= ?")
		args = append(args, s.now().UTC().AddDate(0, 0, -filters.DaysBack))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions` + where +
		` ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, append(args, filters.Limit, filters.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	result := &SubmissionListResult{
		Submissions: make([]*Submission, 0),
		TotalCount:  total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		result.Submissions = append(result.Submissions, sub)
	}
	return result, rows.Err()
}

// GetStats returns aggregate statistics over the whole log
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{
		TypeCounts:  make(map[string]int),
		PayerCounts: make(map[string]int),
	}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN status = 'sent' THEN 1 END) as sent,
		COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed,
		COALESCE(SUM(CASE WHEN status = 'sent' THEN CAST(total_cost AS REAL) END), 0) as total_amount
	FROM submissions
	`
	err := s.db.QueryRow(query).Scan(
		&stats.TotalSubmissions,
		&stats.SentCount,
		&stats.FailedCount,
		&stats.TotalAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if err := s.countBy("expense_type", stats.TypeCounts); err != nil {
		return nil, err
	}
	if err := s.countBy("paid_by", stats.PayerCounts); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy tallies sent submissions grouped by a trusted column name
func (s *Storage) countBy(column string, into map[string]int) error {
	rows, err := s.db.Query(`
		SELECT ` + column + `, COUNT(*) FROM submissions
		WHERE status = 'sent' AND ` + column + ` != ''
		GROUP BY ` + column)
	if err != nil {
		return fmt.Errorf("failed to count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
