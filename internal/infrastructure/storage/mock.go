package storage

import (
	"sort"
	"sync"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu          sync.Mutex
	submissions map[int64]*Submission
	preferences map[string]string
	nextID      int64

	// Hooks for test assertions
	SaveSubmissionCalled bool
	LastSavedSubmission  *Submission
	SetPreferenceCalled  bool

	// Error injection for testing error paths
	SaveSubmissionErr error
	GetSubmissionErr  error
	ListErr           error
	StatsErr          error
	GetPreferenceErr  error
	SetPreferenceErr  error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		submissions: make(map[int64]*Submission),
		preferences: make(map[string]string),
		nextID:      1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveSubmission stores a copy of the submission
func (m *MockRepository) SaveSubmission(sub *Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveSubmissionCalled = true
	m.LastSavedSubmission = sub
	if m.SaveSubmissionErr != nil {
		return m.SaveSubmissionErr
	}
	sub.ID = m.nextID
	m.nextID++
	copied := *sub
	copied.Row = append([]string(nil), sub.Row...)
	m.submissions[sub.ID] = &copied
	return nil
}

// GetSubmission returns a stored submission or ErrNotFound
func (m *MockRepository) GetSubmission(id int64) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSubmissionErr != nil {
		return nil, m.GetSubmissionErr
	}
	sub, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

// ListSubmissions filters in memory, newest ID first. DaysBack is ignored.
func (m *MockRepository) ListSubmissions(filters SubmissionFilters) (*SubmissionListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	filters = filters.normalized()

	var matched []*Submission
	for _, sub := range m.submissions {
		if filters.Email != "" && sub.Email != filters.Email {
			continue
		}
		if filters.Type != "" && sub.Type != filters.Type {
			continue
		}
		if filters.Status != "" && sub.Status != filters.Status {
			continue
		}
		matched = append(matched, sub)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	result := &SubmissionListResult{
		Submissions: make([]*Submission, 0),
		TotalCount:  len(matched),
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}
	for i := filters.Offset; i < len(matched) && i < filters.Offset+filters.Limit; i++ {
		copied := *matched[i]
		result.Submissions = append(result.Submissions, &copied)
	}
	return result, nil
}

// GetStats counts submissions in memory. TotalAmount is left at zero.
func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	stats := &Stats{
		TypeCounts:  make(map[string]int),
		PayerCounts: make(map[string]int),
	}
	for _, sub := range m.submissions {
		stats.TotalSubmissions++
		switch sub.Status {
		case StatusSent:
			stats.SentCount++
			if sub.Type != "" {
				stats.TypeCounts[sub.Type]++
			}
			if sub.PaidBy != "" {
				stats.PayerCounts[sub.PaidBy]++
			}
		case StatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

// GetPreference returns the stored value or ErrNotFound
func (m *MockRepository) GetPreference(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetPreferenceErr != nil {
		return "", m.GetPreferenceErr
	}
	value, ok := m.preferences[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// SetPreference stores a value
func (m *MockRepository) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetPreferenceCalled = true
	if m.SetPreferenceErr != nil {
		return m.SetPreferenceErr
	}
	m.preferences[key] = value
	return nil
}

// SetPreferenceIfAbsent stores a value only when the key is unset
func (m *MockRepository) SetPreferenceIfAbsent(key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetPreferenceCalled = true
	if m.SetPreferenceErr != nil {
		return false, m.SetPreferenceErr
	}
	if _, ok := m.preferences[key]; ok {
		return false, nil
	}
	m.preferences[key] = value
	return true, nil
}
