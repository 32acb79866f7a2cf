package domain

import "time"

// IncomingCall is a logged record of a received call. Records are written by
// the call-processing backend; the dashboard only reads them.
type IncomingCall struct {
	ID              string            `json:"id" bson:"_id"`
	TenantID        string            `json:"tenant_id" bson:"tenant_id"`
	UserID          string            `json:"user_id" bson:"user_id"`
	From            string            `json:"from" bson:"from"`
	To              string            `json:"to" bson:"to"`
	AgentID         string            `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	Status          string            `json:"status" bson:"status"`
	StartedAt       time.Time         `json:"started_at" bson:"started_at"`
	DurationSeconds int               `json:"duration_seconds" bson:"duration_seconds"`
	Transcript      string            `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Summary         string            `json:"summary,omitempty" bson:"summary,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}
