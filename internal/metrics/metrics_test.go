package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "canceled", Result(context.Canceled))
	assert.Equal(t, "canceled", Result(errors.Wrap(context.DeadlineExceeded, "refresh")))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("test_op", "error"))
	ObserveOperation("test_op", errors.New("boom"), 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(operations.WithLabelValues("test_op", "error")))
}

func TestObserveProviderCall(t *testing.T) {
	before := testutil.ToFloat64(providerRequests.WithLabelValues("test_call", "ok"))
	ObserveProviderCall("test_call", nil, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(providerRequests.WithLabelValues("test_call", "ok")))
}

func TestGauges(t *testing.T) {
	SetCollection(12)
	SetStaged(3)
	assert.Equal(t, float64(12), testutil.ToFloat64(collectionGauge))
	assert.Equal(t, float64(3), testutil.ToFloat64(stagedGauge))

	before := testutil.ToFloat64(refreshFailures)
	AddRefreshFailures(2)
	assert.Equal(t, before+2, testutil.ToFloat64(refreshFailures))
}

func TestIncRateLimited(t *testing.T) {
	before := testutil.ToFloat64(rateLimited.WithLabelValues("/manga/search"))
	IncRateLimited("/manga/search")
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimited.WithLabelValues("/manga/search")))
}
