package domain

import "time"

// EmailMessage is a Gmail message as shown in the dashboard inbox.
type EmailMessage struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Snippet  string    `json:"snippet"`
	Body     string    `json:"body,omitempty"`
	Date     time.Time `json:"date"`
	Labels   []string  `json:"labels,omitempty"`
}

// GmailToken is the stored OAuth grant for a user's mailbox.
type GmailToken struct {
	UserID       string    `bson:"_id"`
	Email        string    `bson:"email"`
	AccessToken  string    `bson:"access_token"`
	RefreshToken string    `bson:"refresh_token"`
	TokenType    string    `bson:"token_type"`
	Expiry       time.Time `bson:"expiry"`
	UpdatedAt    time.Time `bson:"updated_at"`
}
