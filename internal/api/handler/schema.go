package handler

import (
	"time"

	"github.com/zecall/dashboard/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Credits & webhooks ---

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

// callStatusRequest is the call-processing backend's report. RemainingCredits
// is a pointer so that 0 is accepted and absence rejected.
type callStatusRequest struct {
	CallID           string   `json:"callId"           validate:"required"`
	UserID           string   `json:"userId"           validate:"required"`
	Duration         float64  `json:"duration"         validate:"gte=0"`
	BilledMinutes    float64  `json:"billedMinutes"    validate:"gte=0"`
	RemainingCredits *float64 `json:"remainingCredits" validate:"required"`
	Status           string   `json:"status"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// --- Campaigns ---

type recipientRequest struct {
	Name  string `json:"name"  validate:"max=120"`
	Phone string `json:"phone" validate:"required,e164"`
}

type createCampaignRequest struct {
	Name        string             `json:"name"         validate:"required,max=120"`
	AgentID     string             `json:"agent_id"     validate:"required"`
	Recipients  []recipientRequest `json:"recipients"   validate:"required,min=1,max=10000,dive"`
	ScheduledAt *time.Time         `json:"scheduled_at"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft scheduled running paused completed cancelled"`
}

// --- Agents ---

type createAgentRequest struct {
	Name         string `json:"name"          validate:"required,max=80"`
	Voice        string `json:"voice"         validate:"required,max=80"`
	Language     string `json:"language"      validate:"omitempty,max=16"`
	Greeting     string `json:"greeting"      validate:"max=500"`
	SystemPrompt string `json:"system_prompt" validate:"max=10000"`
}

// --- Emails ---

type emailListResponse struct {
	Data          []domain.EmailMessage `json:"data"`
	NextPageToken string                `json:"next_page_token,omitempty"`
}

type sendEmailRequest struct {
	To      string `json:"to"      form:"to"      validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,max=998"`
	Body    string `json:"body"    form:"body"    validate:"max=100000"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required,max=120"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email       string `json:"email"       form:"email"       validate:"required,email"`
	Password    string `json:"password"    form:"password"    validate:"required"`
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

type resetPasswordForm struct {
	Password string `form:"password"`
	Confirm  string `form:"confirm"`
}

// --- Subscriptions ---

type autoRenewRequest struct {
	AutoRenew *bool `json:"auto_renew" validate:"required"`
}
