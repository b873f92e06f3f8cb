// Package metrics defines and registers all custom Prometheus metrics for the
// baseline pricing API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "baseline"

// SignupsTotal counts account creations.
// Label:
//   - full_access: "true" when a valid license key was presented at signup
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by entitlement tier.",
	},
	[]string{"full_access"},
)

// CalculationsTotal counts server-side calculation counting decisions.
// Label:
//   - result: "allowed", "limit_reached", or "unlimited" (full access)
var CalculationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Total number of calculation requests counted, by outcome.",
	},
	[]string{"result"},
)

// UpgradesTotal counts license upgrade attempts.
// Label:
//   - result: "success", "invalid_key", "auth_expired", or "error"
var UpgradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upgrades_total",
		Help:      "Total number of upgrade attempts, by outcome.",
	},
	[]string{"result"},
)

// DeviceChecksTotal counts advisory device checks.
// Label:
//   - result: "allowed" or "flagged"
var DeviceChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_checks_total",
		Help:      "Total number of device abuse checks, by verdict.",
	},
	[]string{"result"},
)

// DeviceTrackDroppedTotal counts device updates discarded because the
// responsible dispatcher worker queue was full.
var DeviceTrackDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_track_dropped_total",
		Help:      "Total number of device updates dropped due to a full worker queue.",
	},
)

// DeviceTrackQueueDepth tracks the number of device updates waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", ...)
var DeviceTrackQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "device_track_queue_depth",
		Help:      "Current number of device updates pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)
