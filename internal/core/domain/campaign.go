package domain

import "time"

// CampaignStatus represents the lifecycle state of an outbound calling campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignRunning   CampaignStatus = "running"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:     {CampaignScheduled, CampaignRunning, CampaignCancelled},
	CampaignScheduled: {CampaignRunning, CampaignPaused, CampaignCancelled},
	CampaignRunning:   {CampaignPaused, CampaignCompleted, CampaignCancelled},
	CampaignPaused:    {CampaignRunning, CampaignCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Recipient is a single number dialled by a campaign.
type Recipient struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
}

// Campaign is a configured outbound-calling task.
type Campaign struct {
	ID          string         `json:"id" bson:"_id"`
	TenantID    string         `json:"tenant_id" bson:"tenant_id"`
	Name        string         `json:"name" bson:"name"`
	AgentID     string         `json:"agent_id" bson:"agent_id"`
	Status      CampaignStatus `json:"status" bson:"status"`
	Recipients  []Recipient    `json:"recipients" bson:"recipients"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	CreatedBy   string         `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}
