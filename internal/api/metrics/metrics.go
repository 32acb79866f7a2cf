// Package metrics defines and registers the custom Prometheus metrics of the
// ZeCall dashboard. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zecall"

// ── Webhook metrics ───────────────────────────────────────────────────────────

// WebhooksReceivedTotal counts accepted call-status webhooks.
// Label:
//   - status: call status reported by the backend (e.g. "completed")
var WebhooksReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_received_total",
		Help:      "Total number of call-status webhooks accepted.",
	},
	[]string{"status"},
)

// WebhooksRejectedTotal counts webhooks rejected before enqueueing.
// Label:
//   - reason: "unauthorized", "invalid_payload" or "queue_full"
var WebhooksRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_rejected_total",
		Help:      "Total number of call-status webhooks rejected.",
	},
	[]string{"reason"},
)

// CallStatusProcessedTotal counts dispatcher outcomes.
// Label:
//   - result: "ok" or "error"
var CallStatusProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_status_processed_total",
		Help:      "Total number of call-status events processed by the dispatcher.",
	},
	[]string{"result"},
)

// CallStatusQueueDepth tracks pending events per worker channel.
var CallStatusQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "call_status_queue_depth",
		Help:      "Current number of call-status events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// CallStatusProcessingDuration measures dequeue-to-publish latency.
var CallStatusProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_status_processing_duration_seconds",
		Help:      "Duration of call-status processing from dequeue to publish.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Credit metrics ────────────────────────────────────────────────────────────

// CreditChecksTotal counts credit checks.
// Label:
//   - sufficient: "true" or "false"
var CreditChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_checks_total",
		Help:      "Total number of credit checks, by outcome.",
	},
	[]string{"sufficient"},
)

// EventStreamsActive is the number of open SSE connections.
var EventStreamsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "event_streams_active",
		Help:      "Number of browser event streams currently open.",
	},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// CampaignsCreatedTotal counts created campaigns by initial status.
var CampaignsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_created_total",
		Help:      "Total number of campaigns created, by initial status.",
	},
	[]string{"status"},
)

// SignupsTotal counts registered accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts registered.",
	},
)
