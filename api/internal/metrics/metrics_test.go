package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"docugenius/api/internal/structure"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAsk(reg)

	m.Observe("gpt", structure.Result{
		Success:        true,
		Confidence:     0.9,
		GenerationTime: 1.2,
		ExternalResources: []structure.Resource{
			{Name: "GitHub", URL: "https://github.com/"},
			{Name: "Medium", URL: "https://medium.com/"},
		},
	})
	m.Observe("gpt", structure.Result{Success: false, GenerationTime: 0.1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gpt", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gpt", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResourcesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Confidence))

	n, err := testutil.GatherAndCount(reg, "docugenius_ask_generation_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestObserveNil(t *testing.T) {
	var m *Ask
	assert.NotPanics(t, func() { m.Observe("gpt", structure.Result{}) })
}
