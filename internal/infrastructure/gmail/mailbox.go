// Package gmail implements ports.Mailbox on the Gmail API with OAuth2
// grants obtained through Google's consent screen.
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const me = "me"

var scopes = []string{
	gmailapi.GmailReadonlyScope,
	gmailapi.GmailSendScope,
}

// ErrAPI wraps failed Gmail calls other than 404.
var ErrAPI = errors.New("gmail api error")

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIEndpoint and Endpoint override Google's URLs; tests only.
	APIEndpoint string
	Endpoint    *oauth2.Endpoint
}

type Mailbox struct {
	oauth       *oauth2.Config
	apiEndpoint string
	log         zerolog.Logger
}

func NewMailbox(cfg Config, log zerolog.Logger) *Mailbox {
	endpoint := google.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	return &Mailbox{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiEndpoint: cfg.APIEndpoint,
		log:         log,
	}
}

// AuthCodeURL asks for offline access so a refresh token is issued.
func (m *Mailbox) AuthCodeURL(state string) string {
	return m.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (m *Mailbox) Exchange(ctx context.Context, code string) (*domain.GmailToken, error) {
	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("gmail exchange: %w", err)
	}
	gt := fromOAuth(tok)

	svc, err := m.service(ctx, gt)
	if err != nil {
		return nil, err
	}
	profile, err := svc.Users.GetProfile(me).Context(ctx).Do()
	if err != nil {
		return nil, apiError("profile", err)
	}
	gt.Email = profile.EmailAddress
	return gt, nil
}

func (m *Mailbox) List(ctx context.Context, t *domain.GmailToken, q ports.EmailListQuery) (*ports.EmailPage, error) {
	svc, err := m.service(ctx, t)
	if err != nil {
		return nil, err
	}

	call := svc.Users.Messages.List(me).MaxResults(int64(q.Limit)).Context(ctx)
	if q.Query != "" {
		call = call.Q(q.Query)
	}
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}
	list, err := call.Do()
	if err != nil {
		return nil, apiError("list messages", err)
	}

	page := &ports.EmailPage{
		Messages:      make([]domain.EmailMessage, 0, len(list.Messages)),
		NextPageToken: list.NextPageToken,
	}
	for _, ref := range list.Messages {
		msg, err := svc.Users.Messages.Get(me, ref.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject").
			Context(ctx).
			Do()
		if err != nil {
			return nil, apiError("get message metadata", err)
		}
		page.Messages = append(page.Messages, toDomain(msg, false))
	}
	return page, nil
}

func (m *Mailbox) Get(ctx context.Context, t *domain.GmailToken, messageID string) (*domain.EmailMessage, error) {
	svc, err := m.service(ctx, t)
	if err != nil {
		return nil, err
	}
	msg, err := svc.Users.Messages.Get(me, messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, apiError("get message", err)
	}
	out := toDomain(msg, true)
	return &out, nil
}

func (m *Mailbox) Send(ctx context.Context, t *domain.GmailToken, e ports.OutgoingEmail) (string, error) {
	svc, err := m.service(ctx, t)
	if err != nil {
		return "", err
	}
	raw := base64.URLEncoding.EncodeToString(buildRFC822(t.Email, e))
	sent, err := svc.Users.Messages.Send(me, &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", apiError("send message", err)
	}
	return sent.Id, nil
}

// service refreshes t when needed, copying the new grant back into t, and
// returns a Gmail client authorised with it.
func (m *Mailbox) service(ctx context.Context, t *domain.GmailToken) (*gmailapi.Service, error) {
	tok, err := m.oauth.TokenSource(ctx, toOAuth(t)).Token()
	if err != nil {
		return nil, fmt.Errorf("gmail token refresh: %w", err)
	}
	if tok.AccessToken != t.AccessToken {
		refreshed := fromOAuth(tok)
		refreshed.UserID, refreshed.Email = t.UserID, t.Email
		if refreshed.RefreshToken == "" {
			refreshed.RefreshToken = t.RefreshToken
		}
		*t = *refreshed
		m.log.Debug().Str("user_id", t.UserID).Msg("gmail token refreshed")
	}

	opts := []option.ClientOption{option.WithHTTPClient(m.oauth.Client(ctx, tok))}
	if m.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(m.apiEndpoint))
	}
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail client: %w", err)
	}
	return svc, nil
}

func apiError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrAPI, op, err)
}

func toOAuth(t *domain.GmailToken) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuth(tok *oauth2.Token) *domain.GmailToken {
	return &domain.GmailToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		UpdatedAt:    time.Now().UTC(),
	}
}

func toDomain(msg *gmailapi.Message, withBody bool) domain.EmailMessage {
	out := domain.EmailMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}
	if msg.InternalDate > 0 {
		out.Date = time.UnixMilli(msg.InternalDate).UTC()
	}
	if msg.Payload == nil {
		return out
	}
	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			out.From = h.Value
		case "to":
			out.To = h.Value
		case "subject":
			out.Subject = h.Value
		}
	}
	if withBody {
		if body := findBody(msg.Payload, "text/plain"); body != "" {
			out.Body = body
		} else {
			out.Body = findBody(msg.Payload, "text/html")
		}
	}
	return out
}

// findBody walks the MIME tree depth-first for the first part of mimeType.
func findBody(p *gmailapi.MessagePart, mimeType string) string {
	if p == nil {
		return ""
	}
	if strings.HasPrefix(p.MimeType, mimeType) && p.Body != nil && p.Body.Data != "" {
		return decodeBase64URL(p.Body.Data)
	}
	for _, part := range p.Parts {
		if b := findBody(part, mimeType); b != "" {
			return b
		}
	}
	return ""
}

func decodeBase64URL(s string) string {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return ""
	}
	return string(b)
}

var headerSafe = strings.NewReplacer("\r", "", "\n", " ")

func buildRFC822(from string, e ports.OutgoingEmail) []byte {
	var b strings.Builder
	if from != "" {
		b.WriteString("From: " + headerSafe.Replace(from) + "\r\n")
	}
	b.WriteString("To: " + headerSafe.Replace(e.To) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerSafe.Replace(e.Subject)) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.Body)
	return []byte(b.String())
}
