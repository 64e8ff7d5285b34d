package imap

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"inboxintel/internal/triage/domain"
)

// Service fetches unseen messages over IMAP. Message IDs are the IMAP
// UIDs of the selected INBOX, which are stable per mailbox.
// It implements domain.EmailSource and domain.ReadAcker.
type Service struct {
	addr       string
	username   string
	password   string
	maxResults int
	logger     *zap.Logger
}

// NewService creates an IMAP source. addr is host:port of a TLS IMAP
// endpoint, e.g. "imap.example.com:993".
func NewService(addr, username, password string, maxResults int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Service{
		addr:       addr,
		username:   username,
		password:   password,
		maxResults: maxResults,
		logger:     logger,
	}
}

func (s *Service) connect() (*client.Client, error) {
	c, err := client.DialTLS(s.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", s.addr, err)
	}
	if err := c.Login(s.username, s.password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	if _, err := c.Select("INBOX", false); err != nil {
		c.Logout()
		return nil, fmt.Errorf("unable to select INBOX: %w", err)
	}
	return c, nil
}

// GetEmails returns unseen inbox messages, oldest first, capped at
// maxResults. A fresh connection is opened per call.
func (s *Service) GetEmails(ctx context.Context) ([]domain.RawMessage, error) {
	c, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("unable to search unseen messages: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > s.maxResults {
		uids = uids[:s.maxResults]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	// Peek so fetching does not implicitly set \Seen; acking is a
	// separate, explicit step after persistence.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	var emails []domain.RawMessage
	for msg := range messages {
		emails = append(emails, domain.RawMessage{
			ID:      strconv.FormatUint(uint64(msg.Uid), 10),
			Sender:  envelopeSender(msg.Envelope),
			Subject: envelopeSubject(msg.Envelope),
			Body:    s.textBody(msg.GetBody(section)),
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("unable to fetch messages: %w", err)
	}
	return emails, nil
}

// MarkAsRead sets \Seen on the given UIDs in one store operation.
func (s *Service) MarkAsRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	for _, id := range ids {
		uid, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid IMAP uid %q: %w", id, err)
		}
		seqset.AddNum(uint32(uid))
	}

	c, err := s.connect()
	if err != nil {
		return err
	}
	defer c.Logout()

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := c.UidStore(seqset, item, flags, nil); err != nil {
		return fmt.Errorf("unable to mark messages seen: %w", err)
	}
	return nil
}

func envelopeSender(env *imap.Envelope) string {
	if env == nil || len(env.From) == 0 {
		return ""
	}
	from := env.From[0]
	if from.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", from.PersonalName, from.Address())
	}
	return from.Address()
}

func envelopeSubject(env *imap.Envelope) string {
	if env == nil {
		return ""
	}
	return env.Subject
}

// textBody extracts the text/plain parts of a raw message, joined with
// newlines. Parse failures yield an empty body rather than an error;
// classification still has the subject and sender to work with.
func (s *Service) textBody(r io.Reader) string {
	if r == nil {
		return ""
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		s.logger.Warn("failed to parse message body", zap.Error(err))
		return ""
	}

	var parts []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn("failed to read message part", zap.Error(err))
			break
		}
		if h, ok := p.Header.(*mail.InlineHeader); ok {
			ct, _, _ := h.ContentType()
			if ct == "text/plain" {
				if b, err := io.ReadAll(p.Body); err == nil {
					parts = append(parts, string(b))
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}
