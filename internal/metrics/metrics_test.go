package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SyncItems.WithLabelValues("updated").Add(3)
	m.Claims.WithLabelValues("approved").Inc()

	require.Equal(t, 3.0, testutil.ToFloat64(m.SyncItems.WithLabelValues("updated")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Claims.WithLabelValues("approved")))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	require.Panics(t, func() { New(reg) })
}
