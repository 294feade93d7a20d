package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestProm_Counters(t *testing.T) {
	p := NewProm("chatbot_test")

	p.IncDecision("authorize", "forbidden")
	p.IncDecision("authorize", "forbidden")
	p.IncAPIKeyEvent("issued")
	p.ObserveRequest("GET", "/api/chatbots/:id", "200", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.decisions.WithLabelValues("authorize", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.apiKeys.WithLabelValues("issued")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.requests))
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	r.IncDecision("session", "ok")
	r.IncAPIKeyEvent("revoked")
	r.ObserveRequest("GET", "/", "200", 0)
}
