package helpers

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthEvents_Observe(t *testing.T) {
	ev := NewAuthEvents(prometheus.NewRegistry())
	ev.Observe("login", nil)
	ev.Observe("login", errors.New("bad"))
	ev.Observe("login", errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(ev.Collector().WithLabelValues("login", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ev.Collector().WithLabelValues("login", "failure")))

	var nilEvents *AuthEvents
	nilEvents.Observe("login", nil)
}
