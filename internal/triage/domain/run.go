package domain

import "time"

// RunStatus represents the outcome of a triage run
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// TriageRun records one invocation of the pipeline for the dashboard
// run history. Recording is best-effort and never fails the run itself.
type TriageRun struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
}

// TableName overrides the GORM table name
func (TriageRun) TableName() string {
	return "triage_runs"
}
