package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, layer, result string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, CacheLookups.WithLabelValues(layer, result).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordLookup(t *testing.T) {
	before := counterValue(t, LayerMemory, ResultHit)

	RecordLookup(LayerMemory, ResultHit)
	RecordLookup(LayerMemory, ResultHit)

	require.Equal(t, before+2, counterValue(t, LayerMemory, ResultHit))
}

func TestRecordReloadSetsGauge(t *testing.T) {
	RecordReload("test-dataset", LayerSource, 42, 150*time.Millisecond)

	var m dto.Metric
	require.NoError(t, RecordsLoaded.WithLabelValues("test-dataset").Write(&m))
	require.Equal(t, float64(42), m.GetGauge().GetValue())
}
