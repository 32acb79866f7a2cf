package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

// GmailTokenStore persists OAuth grants. Find returns domain.ErrGmailNotConnected
// when the user has none.
type GmailTokenStore interface {
	Save(ctx context.Context, token *domain.GmailToken) error
	Find(ctx context.Context, userID string) (*domain.GmailToken, error)
}

// EmailListQuery selects a page of the inbox.
type EmailListQuery struct {
	Query     string
	PageToken string
	Limit     int
}

// EmailPage is a page of inbox messages with the cursor of the next page.
type EmailPage struct {
	Messages      []domain.EmailMessage
	NextPageToken string
}

// OutgoingEmail is a message composed in the dashboard.
type OutgoingEmail struct {
	To      string
	Subject string
	Body    string
}

// Mailbox is the Gmail API as seen by the dashboard. Implementations update
// token in place when they refresh it.
type Mailbox interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.GmailToken, error)
	List(ctx context.Context, token *domain.GmailToken, q EmailListQuery) (*EmailPage, error)
	Get(ctx context.Context, token *domain.GmailToken, messageID string) (*domain.EmailMessage, error)
	Send(ctx context.Context, token *domain.GmailToken, msg OutgoingEmail) (string, error)
}

type EmailService interface {
	ConnectURL(state string) string
	Connect(ctx context.Context, userID, code string) error
	List(ctx context.Context, userID string, q EmailListQuery) (*EmailPage, error)
	Get(ctx context.Context, userID, messageID string) (*domain.EmailMessage, error)
	Send(ctx context.Context, userID string, msg OutgoingEmail) (string, error)
}
