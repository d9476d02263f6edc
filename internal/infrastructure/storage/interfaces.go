package storage

import "errors"

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the complete storage interface.
// This interface allows swapping implementations and makes testing with mocks straightforward.
type Repository interface {
	SubmissionRepository
	PreferenceRepository
	Close() error
}

// SubmissionRepository handles the submission log
type SubmissionRepository interface {
	// SaveSubmission inserts a submission and sets its ID
	SaveSubmission(sub *Submission) error

	// GetSubmission retrieves a submission by ID
	GetSubmission(id int64) (*Submission, error)

	// ListSubmissions returns submissions matching the given filters with pagination
	ListSubmissions(filters SubmissionFilters) (*SubmissionListResult, error)

	// GetStats returns aggregate statistics
	GetStats() (*Stats, error)
}

// PreferenceRepository stores small per-installation values such as the remembered email
type PreferenceRepository interface {
	// GetPreference returns ErrNotFound when the key is unset
	GetPreference(key string) (string, error)

	// SetPreference inserts or replaces a value
	SetPreference(key, value string) error

	// SetPreferenceIfAbsent writes the value only when the key is unset.
	// It reports whether the value was written.
	SetPreferenceIfAbsent(key, value string) (bool, error)
}

// SubmissionFilters defines filters for listing submissions
type SubmissionFilters struct {
	Email    string // Filter by submitter (empty = all)
	Type     string // Filter by expense type (empty = all)
	Status   string // Filter by status (empty = all)
	DaysBack int    // How many days back to look (0 = all time)
	Limit    int    // Max results (0 = default 50)
	Offset   int    // Pagination offset
}

// SubmissionListResult contains paginated submission results
type SubmissionListResult struct {
	Submissions []*Submission `json:"submissions"`
	TotalCount  int           `json:"total_count"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
}

// normalized applies default and maximum limits
func (f SubmissionFilters) normalized() SubmissionFilters {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
