package domain

import (
	"sort"
	"time"
)

// Urgency represents how quickly an email needs attention
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyNormal Urgency = "normal"
	UrgencyLow    Urgency = "low"
)

// Category represents the kind of email
type Category string

const (
	CategoryWork      Category = "work"
	CategorySchool    Category = "school"
	CategoryPersonal  Category = "personal"
	CategoryPromo     Category = "promo"
	CategoryAutomated Category = "automated"
)

// NormalizeUrgency maps classifier output to a known urgency level.
// Anything absent or unrecognized falls back to "normal" rather than
// failing the run.
func NormalizeUrgency(s string) Urgency {
	switch Urgency(s) {
	case UrgencyUrgent, UrgencyNormal, UrgencyLow:
		return Urgency(s)
	default:
		return UrgencyNormal
	}
}

// NormalizeCategory maps classifier output to a known category,
// defaulting to "personal".
func NormalizeCategory(s string) Category {
	switch Category(s) {
	case CategoryWork, CategorySchool, CategoryPersonal, CategoryPromo, CategoryAutomated:
		return Category(s)
	default:
		return CategoryPersonal
	}
}

// Rank returns the display order of an urgency level:
// urgent < normal < low < unknown.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyUrgent:
		return 0
	case UrgencyNormal:
		return 1
	case UrgencyLow:
		return 2
	default:
		return 3
	}
}

// RawMessage is an unread email as returned by an email source.
// The ID is opaque but stable and unique within the mailbox.
type RawMessage struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ProcessedEmail is the durable record of one triaged email.
// It is created exactly once per message ID and never updated.
type ProcessedEmail struct {
	EmailID     string    `json:"id" gorm:"primaryKey;column:email_id"`
	Sender      string    `json:"sender"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Urgency     Urgency   `json:"urgency"`
	Category    Category  `json:"category"`
	Summary     string    `json:"summary"`
	ReplyDraft  string    `json:"reply_draft"`
	ProcessedAt time.Time `json:"processed_at"`
	Tasks       []Task    `json:"tasks" gorm:"foreignKey:EmailID;references:EmailID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the GORM table name
func (ProcessedEmail) TableName() string {
	return "emails"
}

// TaskDescriptions returns the task texts in stored order.
func (e *ProcessedEmail) TaskDescriptions() []string {
	out := make([]string, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		out = append(out, t.Description)
	}
	return out
}

// Task is an actionable item extracted from an email body.
// Tasks are owned by their parent email and cascade on delete.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	EmailID     string     `json:"email_id" gorm:"index;not null"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SortByUrgency orders emails urgent first, then normal, low and unknown.
// The sort is stable so emails within the same level keep their order.
func SortByUrgency(emails []*ProcessedEmail) {
	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].Urgency.Rank() < emails[j].Urgency.Rank()
	})
}
