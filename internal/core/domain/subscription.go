package domain

import "time"

const (
	SubscriptionActive     = "active"
	SubscriptionTrialing   = "trialing"
	SubscriptionPastDue    = "past_due"
	SubscriptionCanceled   = "canceled"
	SubscriptionIncomplete = "incomplete"
)

// Subscription is a user's plan with the payment provider.
type Subscription struct {
	ID                     string    `json:"id" bson:"_id"`
	UserID                 string    `json:"user_id" bson:"user_id"`
	TenantID               string    `json:"tenant_id" bson:"tenant_id"`
	Plan                   string    `json:"plan" bson:"plan"`
	Status                 string    `json:"status" bson:"status"`
	AutoRenew              bool      `json:"auto_renew" bson:"auto_renew"`
	ProviderSubscriptionID string    `json:"provider_subscription_id" bson:"provider_subscription_id"`
	CurrentPeriodEnd       time.Time `json:"current_period_end" bson:"current_period_end"`
	UpdatedAt              time.Time `json:"updated_at" bson:"updated_at"`
}
