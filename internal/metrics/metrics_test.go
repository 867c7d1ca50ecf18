package metrics

import (
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, TokenAcquisitionsTotal)
	assert.NotNil(t, TokenAcquisitionDuration)
	assert.NotNil(t, TokenInvalidationsTotal)
	assert.NotNil(t, TokenAcquiredTimestamp)
	assert.NotNil(t, PollsTotal)
	assert.NotNil(t, PollDuration)
	assert.NotNil(t, CyclesTotal)
	assert.NotNil(t, ConsecutiveFailures)
	assert.NotNil(t, TrackedProducts)
	assert.NotNil(t, ProductQuantity)
	assert.NotNil(t, ProductMaxQuantity)
	assert.NotNil(t, LogWriteFailuresTotal)
	assert.NotNil(t, EventsDroppedTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
}

func TestProductQuantityLabels(t *testing.T) {
	t.Parallel()

	ProductQuantity.WithLabelValues("metrics-test-sku").Set(42)
	assert.InDelta(t, 42.0, ptestutil.ToFloat64(ProductQuantity.WithLabelValues("metrics-test-sku")), 0)
}
