package repository

import (
	"inboxintel/internal/triage/domain"
)

// EmailRepository defines the interface for triage data access
type EmailRepository interface {
	// SeenIDs returns every email ID that has ever been saved
	SeenIDs() (map[string]struct{}, error)

	// Save persists a processed email and its tasks in one transaction.
	// Inserting a duplicate ID is a silent no-op: the first write wins
	// and no task rows are added for the duplicate either.
	Save(email *domain.ProcessedEmail) error

	// FetchAll returns all stored emails, most recently processed first,
	// with tasks attached in creation order
	FetchAll() ([]*domain.ProcessedEmail, error)

	// ClearAll deletes every stored email, task and run record
	ClearAll() error

	// CreateRun records one pipeline invocation
	CreateRun(run *domain.TriageRun) error

	// FetchRuns returns up to limit run records, newest first
	FetchRuns(limit int) ([]*domain.TriageRun, error)
}
