package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inboxintel/internal/triage/domain"
	"inboxintel/internal/triage/repository"
	"inboxintel/pkg/ai"
)

// Pipeline runs one triage pass over a mailbox:
// fetch -> dedup -> classify -> persist -> mark read.
type Pipeline struct {
	source     domain.EmailSource
	classifier ai.Classifier
	repo       repository.EmailRepository
	logger     *zap.Logger
}

// NewPipeline creates a triage pipeline with explicit collaborators
func NewPipeline(source domain.EmailSource, classifier ai.Classifier, repo repository.EmailRepository, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		source:     source,
		classifier: classifier,
		repo:       repo,
		logger:     logger,
	}
}

// ProcessEmails runs one triage pass and returns the newly processed
// emails in processing order.
//
// Each email is committed independently: a classification or storage
// failure on message N aborts the run but leaves messages 1..N-1
// persisted, and the error propagates to the caller. Already-processed
// IDs are skipped on retry via the seen-set filter. On error the records
// committed so far are still returned alongside it.
func (p *Pipeline) ProcessEmails(ctx context.Context) ([]*domain.ProcessedEmail, error) {
	started := time.Now().UTC()

	raw, err := p.source.GetEmails(ctx)
	if err != nil {
		return nil, p.finishRun(started, nil, fmt.Errorf("failed to fetch emails: %w", err))
	}

	seen, err := p.repo.SeenIDs()
	if err != nil {
		return nil, p.finishRun(started, nil, err)
	}

	var fresh []domain.RawMessage
	for _, msg := range raw {
		if _, ok := seen[msg.ID]; !ok {
			fresh = append(fresh, msg)
		}
	}
	p.logger.Info("fetched emails",
		zap.Int("total", len(raw)),
		zap.Int("new", len(fresh)))

	var processed []*domain.ProcessedEmail

	for _, msg := range fresh {
		result, err := p.classifier.Classify(ctx, msg.Subject, msg.Body, msg.Sender)
		if err != nil {
			return processed, p.finishRun(started, processed, fmt.Errorf("failed to classify email %s: %w", msg.ID, err))
		}

		record := buildRecord(msg, result)
		if err := p.repo.Save(record); err != nil {
			return processed, p.finishRun(started, processed, err)
		}
		processed = append(processed, record)

		p.logger.Info("email triaged",
			zap.String("email_id", record.EmailID),
			zap.String("urgency", string(record.Urgency)),
			zap.String("category", string(record.Category)),
			zap.Int("tasks", len(record.Tasks)))
	}

	// Acking is best-effort: results are already durable, so a failure
	// here is only worth a warning.
	if len(processed) > 0 {
		if acker, ok := p.source.(domain.ReadAcker); ok {
			ids := make([]string, 0, len(processed))
			for _, e := range processed {
				ids = append(ids, e.EmailID)
			}
			if err := acker.MarkAsRead(ctx, ids); err != nil {
				p.logger.Warn("failed to mark emails as read",
					zap.Strings("ids", ids),
					zap.Error(err))
			}
		}
	}

	return processed, p.finishRun(started, processed, nil)
}

// buildRecord turns a raw message and its classification into the
// durable record, substituting defaults for absent or unexpected
// classifier values.
func buildRecord(msg domain.RawMessage, result *ai.Result) *domain.ProcessedEmail {
	now := time.Now().UTC()

	record := &domain.ProcessedEmail{
		EmailID:     msg.ID,
		Sender:      msg.Sender,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Urgency:     domain.NormalizeUrgency(result.Urgency),
		Category:    domain.NormalizeCategory(result.Category),
		Summary:     result.Summary,
		ReplyDraft:  result.ReplyDraft,
		ProcessedAt: now,
	}
	for _, t := range result.Tasks {
		record.Tasks = append(record.Tasks, domain.Task{
			EmailID:     msg.ID,
			Description: t,
			CreatedAt:   now,
		})
	}
	return record
}

// finishRun records the run outcome and passes runErr through.
// History recording is best-effort and must never mask the run error.
func (p *Pipeline) finishRun(started time.Time, processed []*domain.ProcessedEmail, runErr error) error {
	run := &domain.TriageRun{
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Processed:  len(processed),
		Status:     domain.RunCompleted,
	}
	if runErr != nil {
		run.Status = domain.RunFailed
		run.Error = runErr.Error()
	}
	if err := p.repo.CreateRun(run); err != nil {
		p.logger.Warn("failed to record triage run", zap.Error(err))
	}
	return runErr
}
