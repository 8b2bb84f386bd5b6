package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.SMSSent(nil)
	m.SMSSent(errors.New("fail"))
	m.SMSSent(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.smsSent.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.smsSent.WithLabelValues("error")))

	m.PaymentTransition("paid")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("paid")))

	m.PostViewed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postViews))

	m.ObserveHTTP("/api/v1/posts", "GET", 200, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/posts", "GET", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SMSSent(nil)
		m.Registration("start", nil)
		m.PaymentTransition("paid")
		m.PostViewed()
		m.Notification("k", nil)
		m.ObserveHTTP("/", "GET", 200, time.Millisecond)
	})
}
