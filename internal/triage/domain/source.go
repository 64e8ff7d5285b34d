package domain

import "context"

// EmailSource fetches unread messages from a mailbox.
// Implementations live in pkg/gmail and pkg/imap.
type EmailSource interface {
	GetEmails(ctx context.Context) ([]RawMessage, error)
}

// ReadAcker is an optional source capability: marking messages as read
// after they have been persisted. Sources that cannot acknowledge simply
// don't implement it.
type ReadAcker interface {
	MarkAsRead(ctx context.Context, ids []string) error
}
