package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveOperation("book", 10*time.Millisecond, nil)
	m.ObserveOperation("book", 5*time.Millisecond, nil)
	m.ObserveOperation("book", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("book", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("book", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
}

func TestObserveQuery(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveQuery("Book", time.Millisecond, nil)
	m.ObserveQuery("wrote", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.queryDuration))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("book", time.Millisecond, nil)
		m.ObserveQuery("Book", time.Millisecond, nil)
	})
}
