package domain

import (
	"math"
	"time"
)

// CreditEstimate is the outcome of checking a planned call against a user's
// balance.
type CreditEstimate struct {
	HasSufficientCredits bool    `json:"has_sufficient_credits"`
	CurrentBalance       float64 `json:"current_balance"`
	EstimatedCost        float64 `json:"estimated_cost"`
	DurationSeconds      float64 `json:"duration_seconds"`
}

// EstimateCost returns durationSeconds × ratePerSecond. Durations that are not
// strictly positive finite numbers are rejected with ErrInvalidDuration.
func EstimateCost(durationSeconds, ratePerSecond float64) (float64, error) {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		return 0, ErrInvalidDuration
	}
	return durationSeconds * ratePerSecond, nil
}

// NewCreditEstimate builds the estimate for a balance. An exactly equal
// balance is sufficient.
func NewCreditEstimate(balance, durationSeconds, cost float64) CreditEstimate {
	return CreditEstimate{
		HasSufficientCredits: balance >= cost,
		CurrentBalance:       balance,
		EstimatedCost:        cost,
		DurationSeconds:      durationSeconds,
	}
}

// CallStatusEvent is the payload reported by the call-processing backend
// when a call finishes and has been billed.
type CallStatusEvent struct {
	CallID           string    `json:"callId"`
	UserID           string    `json:"userId"`
	Duration         float64   `json:"duration"`
	BilledMinutes    float64   `json:"billedMinutes"`
	RemainingCredits float64   `json:"remainingCredits"`
	Status           string    `json:"status"`
	ReceivedAt       time.Time `json:"receivedAt"`
}

// CallUsage is one row of the append-only usage ledger.
type CallUsage struct {
	CallID           string    `json:"call_id"`
	UserID           string    `json:"user_id"`
	DurationSeconds  float64   `json:"duration_seconds"`
	BilledMinutes    float64   `json:"billed_minutes"`
	RemainingCredits float64   `json:"remaining_credits"`
	Status           string    `json:"status"`
	ReceivedAt       time.Time `json:"received_at"`
}

// CreditsUpdated is published to a user's event stream after a webhook has
// been applied. The sidebar balance widget consumes it.
type CreditsUpdated struct {
	Type             string    `json:"type"`
	CallID           string    `json:"callId"`
	UserID           string    `json:"userId"`
	Duration         float64   `json:"duration"`
	BilledMinutes    float64   `json:"billedMinutes"`
	RemainingCredits float64   `json:"remainingCredits"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurredAt"`
}

const EventCreditsUpdated = "credits-updated"
