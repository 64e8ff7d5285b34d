package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inboxintel/internal/triage/domain"
)

// gormEmailRepository implements EmailRepository using GORM
type gormEmailRepository struct {
	db *gorm.DB
}

// NewGormEmailRepository creates a new GORM-based EmailRepository
func NewGormEmailRepository(db *gorm.DB) EmailRepository {
	return &gormEmailRepository{db: db}
}

func (r *gormEmailRepository) SeenIDs() (map[string]struct{}, error) {
	var ids []string
	if err := r.db.Model(&domain.ProcessedEmail{}).Pluck("email_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load seen email ids: %w", err)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

func (r *gormEmailRepository) Save(email *domain.ProcessedEmail) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email_id"}},
				DoNothing: true,
			}).
			Create(email)
		if res.Error != nil {
			return fmt.Errorf("failed to save email %s: %w", email.EmailID, res.Error)
		}

		// Duplicate ID: first write wins, and the original tasks stay
		// untouched so repeated saves cannot duplicate task rows.
		if res.RowsAffected == 0 {
			return nil
		}

		for i := range email.Tasks {
			email.Tasks[i].EmailID = email.EmailID
			if email.Tasks[i].CreatedAt.IsZero() {
				email.Tasks[i].CreatedAt = email.ProcessedAt
			}
			if err := tx.Create(&email.Tasks[i]).Error; err != nil {
				return fmt.Errorf("failed to save task for email %s: %w", email.EmailID, err)
			}
		}
		return nil
	})
}

func (r *gormEmailRepository) FetchAll() ([]*domain.ProcessedEmail, error) {
	var emails []*domain.ProcessedEmail
	err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.id ASC")
		}).
		Order("processed_at DESC").
		Find(&emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}
	return emails, nil
}

func (r *gormEmailRepository) ClearAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tasks").Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		if err := tx.Exec("DELETE FROM emails").Error; err != nil {
			return fmt.Errorf("failed to clear emails: %w", err)
		}
		if err := tx.Exec("DELETE FROM triage_runs").Error; err != nil {
			return fmt.Errorf("failed to clear runs: %w", err)
		}
		return nil
	})
}

func (r *gormEmailRepository) CreateRun(run *domain.TriageRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func (r *gormEmailRepository) FetchRuns(limit int) ([]*domain.TriageRun, error) {
	var runs []*domain.TriageRun
	q := r.db.Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	return runs, nil
}
