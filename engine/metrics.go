package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solve3/go-solve3/metrics"
)

const subsystem = "engine"

var (
	verifications = metrics.NewCounter(
		"verifications",
		subsystem,
		"Number of verifications by status",
		[]string{"status"},
	)
	verifyDuration = metrics.NewHistogramWithBuckets(
		"verify_duration",
		subsystem,
		"Duration of verifications in seconds",
		[]string{},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	).WithLabelValues()
	rewardsPaid = metrics.NewCounter(
		"rewards",
		subsystem,
		"Number of rewards paid by campaigns",
		[]string{},
	).WithLabelValues()
)
