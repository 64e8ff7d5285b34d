package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"inboxintel/internal/triage/domain"
)

// Service fetches unread messages from Gmail and can mark them as read.
// It implements domain.EmailSource and domain.ReadAcker.
type Service struct {
	svc        *gmail.Service
	userID     string
	maxResults int64
	logger     *zap.Logger
}

// Options configures a Gmail source
type Options struct {
	ClientID     string
	ClientSecret string
	TokenFile    string // defaults to ~/.config/inboxintel/token.json
	MaxResults   int
}

// NewService creates a Gmail source from a cached OAuth token.
// The token must have been obtained beforehand with the gmail.modify scope.
func NewService(ctx context.Context, opts Options, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}

	ts, err := tokenSource(ctx, opts)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Service{
		svc:        svc,
		userID:     "me",
		maxResults: int64(opts.MaxResults),
		logger:     logger,
	}, nil
}

func tokenSource(ctx context.Context, opts Options) (oauth2.TokenSource, error) {
	path := opts.TokenFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "inboxintel", "token.json")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no cached Google OAuth token at %s: %w", path, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}

	conf := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailModifyScope},
	}
	return conf.TokenSource(ctx, &token), nil
}

// GetEmails returns unread inbox messages, capped at MaxResults,
// in the order the Gmail API lists them.
func (s *Service) GetEmails(ctx context.Context) ([]domain.RawMessage, error) {
	res, err := s.svc.Users.Messages.List(s.userID).
		LabelIds("INBOX").
		Q("is:unread").
		MaxResults(s.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list unread messages: %w", err)
	}

	emails := make([]domain.RawMessage, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := s.svc.Users.Messages.Get(s.userID, m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to get message %s: %w", m.Id, err)
		}

		emails = append(emails, domain.RawMessage{
			ID:      m.Id,
			Sender:  getHeader(msg.Payload, "From"),
			Subject: getHeader(msg.Payload, "Subject"),
			Body:    getTextBody(msg.Payload),
		})
	}

	return emails, nil
}

// MarkAsRead removes the UNREAD label from the given message IDs.
// Per-message failures are logged and skipped so one bad ID does not
// leave the rest unread.
func (s *Service) MarkAsRead(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_, err := s.svc.Users.Messages.Modify(s.userID, id, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{"UNREAD"},
		}).Context(ctx).Do()
		if err != nil {
			s.logger.Warn("failed to mark message as read",
				zap.String("email_id", id),
				zap.Error(err))
		}
	}
	return nil
}

func getHeader(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// getTextBody collects the text/plain parts of a message, walking nested
// multipart structures.
func getTextBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	var collected []string
	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					collected = append(collected, string(data))
					continue
				}
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)

	body := ""
	for i, c := range collected {
		if i > 0 {
			body += "\n"
		}
		body += c
	}
	return body
}
