package delivery

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inboxintel/internal/triage/domain"
	"inboxintel/internal/triage/repository"
	"inboxintel/internal/triage/usecase"
)

// TriageHandler handles dashboard API endpoints. It is a pure rendering
// layer over stored state plus a trigger for the pipeline; filtering and
// sorting are the only transformations applied.
type TriageHandler struct {
	pipeline *usecase.Pipeline
	repo     repository.EmailRepository
	logger   *zap.Logger
}

// NewTriageHandler creates a new TriageHandler
func NewTriageHandler(pipeline *usecase.Pipeline, repo repository.EmailRepository, logger *zap.Logger) *TriageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageHandler{
		pipeline: pipeline,
		repo:     repo,
		logger:   logger,
	}
}

// GET /api/stats
// GetStats returns the total count and per-urgency counts of stored emails
func (h *TriageHandler) GetStats(c *gin.Context) {
	emails, err := h.repo.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts := map[domain.Urgency]int{}
	for _, e := range emails {
		counts[e.Urgency]++
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(emails),
		"urgent": counts[domain.UrgencyUrgent],
		"normal": counts[domain.UrgencyNormal],
		"low":    counts[domain.UrgencyLow],
	})
}

// GET /api/emails?urgency=urgent,normal&category=work
// GetEmails returns the stored archive, newest first, optionally filtered
// by urgency and category. An empty filter means show all, not show none.
func (h *TriageHandler) GetEmails(c *gin.Context) {
	emails, err := h.repo.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	urgencies := splitFilter(c.Query("urgency"))
	categories := splitFilter(c.Query("category"))

	filtered := make([]*domain.ProcessedEmail, 0, len(emails))
	for _, e := range emails {
		if !matchesFilter(string(e.Urgency), urgencies) {
			continue
		}
		if !matchesFilter(string(e.Category), categories) {
			continue
		}
		filtered = append(filtered, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(filtered),
		"emails": filtered,
	})
}

// POST /api/triage/run
// RunTriage runs one triage pass and returns this run's new records.
// On failure the error text is surfaced and previously stored state is
// left intact.
func (h *TriageHandler) RunTriage(c *gin.Context) {
	processed, err := h.pipeline.ProcessEmails(c.Request.Context())
	if err != nil {
		h.logger.Error("triage run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if processed == nil {
		processed = []*domain.ProcessedEmail{}
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": len(processed),
		"emails":    processed,
	})
}

// GET /api/runs?limit=20
// GetRuns returns the run history, newest first
func (h *TriageHandler) GetRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.repo.FetchRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*domain.TriageRun{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// DELETE /api/emails
// ClearAll deletes every stored email, task and run record
func (h *TriageHandler) ClearAll(c *gin.Context) {
	if err := h.repo.ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("database cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func splitFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesFilter(value string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == value {
			return true
		}
	}
	return false
}
