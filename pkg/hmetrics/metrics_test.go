package hmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hoard/pkg/cache"
)

func TestCollectorReportsPerCacheStats(t *testing.T) {
	c := cache.New(cache.Config{Capacity: 10})
	require.NoError(t, c.Put("a", 1))
	c.Get("a")
	c.Get("missing")

	coll := NewCollector(map[string]*cache.Cache{"products": c})

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(coll))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "hoard_cache_hits_total" {
			continue
		}
		found = true
		require.Len(t, mf.Metric, 1)
		m := mf.Metric[0]
		assert.Equal(t, float64(1), m.GetCounter().GetValue())
		assert.Equal(t, "products", labelValue(m, "cache"))
	}
	assert.True(t, found, "expected hoard_cache_hits_total in gathered metrics")
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.Label {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
