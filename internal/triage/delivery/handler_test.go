package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inboxintel/internal/triage/domain"
	"inboxintel/internal/triage/repository"
	"inboxintel/internal/triage/usecase"
	"inboxintel/pkg/ai"
)

type stubSource struct {
	emails []domain.RawMessage
	err    error
}

func (s *stubSource) GetEmails(ctx context.Context) ([]domain.RawMessage, error) {
	return s.emails, s.err
}

type stubClassifier struct {
	result ai.Result
}

func (c *stubClassifier) Classify(ctx context.Context, subject, body, sender string) (*ai.Result, error) {
	r := c.result
	return &r, nil
}

type TriageHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	repo   repository.EmailRepository
	source *stubSource
	router *gin.Engine
}

func (s *TriageHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.Exec("PRAGMA foreign_keys = ON").Error)
	s.Require().NoError(db.AutoMigrate(
		&domain.ProcessedEmail{},
		&domain.Task{},
		&domain.TriageRun{},
	))

	s.db = db
	s.repo = repository.NewGormEmailRepository(db)
	s.source = &stubSource{}

	pipeline := usecase.NewPipeline(s.source, &stubClassifier{
		result: ai.Result{Summary: "Summarized.", Urgency: "urgent", Category: "work"},
	}, s.repo, nil)
	handler := NewTriageHandler(pipeline, s.repo, nil)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/stats", handler.GetStats)
	api.GET("/emails", handler.GetEmails)
	api.DELETE("/emails", handler.ClearAll)
	api.POST("/triage/run", handler.RunTriage)
	api.GET("/runs", handler.GetRuns)
	s.router = r
}

func (s *TriageHandlerTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM tasks").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM emails").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM triage_runs").Error)
	s.source.emails = nil
	s.source.err = nil
}

func (s *TriageHandlerTestSuite) request(method, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	body := map[string]json.RawMessage{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func (s *TriageHandlerTestSuite) seed(id string, urgency domain.Urgency, category domain.Category, at time.Time) {
	s.Require().NoError(s.repo.Save(&domain.ProcessedEmail{
		EmailID:     id,
		Sender:      "a@x.com",
		Subject:     "Subject " + id,
		Urgency:     urgency,
		Category:    category,
		ProcessedAt: at,
	}))
}

func (s *TriageHandlerTestSuite) emailIDs(raw json.RawMessage) []string {
	var emails []struct {
		EmailID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(raw, &emails))
	ids := make([]string, 0, len(emails))
	for _, e := range emails {
		ids = append(ids, e.EmailID)
	}
	return ids
}

func (s *TriageHandlerTestSuite) TestGetStats() {
	now := time.Now().UTC()
	s.seed("1", domain.UrgencyUrgent, domain.CategoryWork, now)
	s.seed("2", domain.UrgencyUrgent, domain.CategoryPersonal, now)
	s.seed("3", domain.UrgencyLow, domain.CategoryPromo, now)

	w, body := s.request(http.MethodGet, "/api/stats")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"total":3,"urgent":2,"normal":0,"low":1}`, w.Body.String())
	s.Contains(body, "total")
}

func (s *TriageHandlerTestSuite) TestGetEmailsUnfiltered() {
	base := time.Now().UTC().Truncate(time.Second)
	s.seed("old", domain.UrgencyLow, domain.CategoryWork, base.Add(-time.Hour))
	s.seed("new", domain.UrgencyUrgent, domain.CategoryWork, base)

	w, body := s.request(http.MethodGet, "/api/emails")

	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"new", "old"}, s.emailIDs(body["emails"]), "newest first")
}

func (s *TriageHandlerTestSuite) TestGetEmailsFiltered() {
	now := time.Now().UTC()
	s.seed("1", domain.UrgencyUrgent, domain.CategoryWork, now)
	s.seed("2", domain.UrgencyNormal, domain.CategoryWork, now.Add(-time.Minute))
	s.seed("3", domain.UrgencyUrgent, domain.CategoryPromo, now.Add(-2*time.Minute))

	w, body := s.request(http.MethodGet, "/api/emails?urgency=urgent&category=work")
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"1"}, s.emailIDs(body["emails"]))

	// Comma-separated filters are unioned within a dimension
	_, body = s.request(http.MethodGet, "/api/emails?urgency=urgent,normal")
	s.Equal([]string{"1", "2", "3"}, s.emailIDs(body["emails"]))

	// An empty filter value means show all, not show none
	_, body = s.request(http.MethodGet, "/api/emails?urgency=&category=")
	s.Equal([]string{"1", "2", "3"}, s.emailIDs(body["emails"]))
}

func (s *TriageHandlerTestSuite) TestRunTriage() {
	s.source.emails = []domain.RawMessage{
		{ID: "m1", Sender: "boss@x.com", Subject: "Deadline", Body: "today"},
	}

	w, body := s.request(http.MethodPost, "/api/triage/run")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`1`, string(body["processed"]))
	s.Equal([]string{"m1"}, s.emailIDs(body["emails"]))

	emails, err := s.repo.FetchAll()
	s.Require().NoError(err)
	s.Require().Len(emails, 1)
	s.Equal(domain.UrgencyUrgent, emails[0].Urgency)
}

func (s *TriageHandlerTestSuite) TestRunTriageNoNewMail() {
	w, body := s.request(http.MethodPost, "/api/triage/run")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`0`, string(body["processed"]))
	s.JSONEq(`[]`, string(body["emails"]), "empty run renders as an empty list, not null")
}

func (s *TriageHandlerTestSuite) TestRunTriageError() {
	s.source.err = errors.New("mailbox unreachable")

	w, body := s.request(http.MethodPost, "/api/triage/run")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Contains(string(body["error"]), "mailbox unreachable")
}

func (s *TriageHandlerTestSuite) TestGetRuns() {
	s.source.emails = []domain.RawMessage{{ID: "m1", Sender: "a@x.com", Subject: "Hi"}}
	_, _ = s.request(http.MethodPost, "/api/triage/run")

	w, body := s.request(http.MethodGet, "/api/runs")
	s.Equal(http.StatusOK, w.Code)

	var runs []struct {
		Status    string `json:"status"`
		Processed int    `json:"processed"`
	}
	s.Require().NoError(json.Unmarshal(body["runs"], &runs))
	s.Require().Len(runs, 1)
	s.Equal(string(domain.RunCompleted), runs[0].Status)
	s.Equal(1, runs[0].Processed)
}

func (s *TriageHandlerTestSuite) TestClearAll() {
	s.seed("1", domain.UrgencyUrgent, domain.CategoryWork, time.Now().UTC())

	w, _ := s.request(http.MethodDelete, "/api/emails")
	s.Equal(http.StatusOK, w.Code)

	emails, err := s.repo.FetchAll()
	s.Require().NoError(err)
	s.Empty(emails)
}

func TestTriageHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TriageHandlerTestSuite))
}
