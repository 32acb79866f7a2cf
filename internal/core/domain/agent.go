package domain

import "time"

// AIAgent is the voice persona a campaign or inbound number is routed to.
type AIAgent struct {
	ID           string    `json:"id" bson:"_id"`
	TenantID     string    `json:"tenant_id" bson:"tenant_id"`
	Name         string    `json:"name" bson:"name"`
	Voice        string    `json:"voice" bson:"voice"`
	Language     string    `json:"language" bson:"language"`
	Greeting     string    `json:"greeting" bson:"greeting"`
	SystemPrompt string    `json:"system_prompt" bson:"system_prompt"`
	CreatedBy    string    `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
