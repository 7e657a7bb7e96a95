package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CheckIns.WithLabelValues("LOW", OutcomePersisted).Inc()
	m.ReplyFallbacks.WithLabelValues("error").Add(2)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[f.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["liubai_checkins_total"])
	assert.Equal(t, 2.0, values["liubai_reply_fallbacks_total"])
}

func TestNewWithoutRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).PersistenceFailures.WithLabelValues("insert").Inc()
	})
}
