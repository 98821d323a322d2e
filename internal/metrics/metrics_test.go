package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	m.RecordCycle(nil)
	m.RecordCycle(errors.New("sink failed"))
	m.RecordSinkExport("local", nil)
	m.RecordSinkExport("ftp", errors.New("unreachable"))
	m.RecordHistoryRows(42)

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += "," + label.GetName() + "=" + label.GetValue()
			}

			switch {
			case metric.GetCounter() != nil:
				byName[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				byName[key] = metric.GetGauge().GetValue()
			}
		}
	}

	require.Equal(t, float64(1), byName["autoexport_cycles_total,status=success"])
	require.Equal(t, float64(1), byName["autoexport_cycles_total,status=error"])
	require.Equal(t, float64(1), byName["autoexport_sink_exports_total,sink=local,status=success"])
	require.Equal(t, float64(1), byName["autoexport_sink_exports_total,sink=ftp,status=error"])
	require.Equal(t, float64(42), byName["autoexport_history_rows"])
}
