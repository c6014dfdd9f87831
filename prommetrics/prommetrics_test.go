package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bernoulli/blobstore"
	"github.com/hupe1980/bernoulli/codec"
	"github.com/hupe1980/bernoulli/filter"
	"github.com/hupe1980/bernoulli/store"
)

func TestCollector(t *testing.T) {
	c := New("test")
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))

	c.RecordBuild(10, time.Millisecond, nil)
	c.RecordBuild(5, time.Millisecond, errors.New("boom"))
	c.RecordSave(100, time.Millisecond, nil)
	c.RecordLoad(100, time.Millisecond, nil)
	c.RecordLoad(0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("build", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("build", "error")))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.keys))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.bytes.WithLabelValues("save")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.bytes.WithLabelValues("load")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("load", "error")))
	assert.Equal(t, 5, testutil.CollectAndCount(c.latency))
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, New("").Register(reg))
	assert.Error(t, New("").Register(reg))
}

func TestWiredIntoFilterAndStore(t *testing.T) {
	c := New("")
	c.MustRegister(prometheus.NewRegistry())
	ctx := context.Background()

	f, err := filter.New([]string{"a", "b", "c"}, codec.String(), filter.WithMetrics(c))
	require.NoError(t, err)

	s, err := store.New(blobstore.NewMemoryStore(), codec.String(), store.WithMetrics(c))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "f", f))
	_, err = s.Load(ctx, "f")
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.keys))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("load", "success")))
	assert.Equal(t,
		testutil.ToFloat64(c.bytes.WithLabelValues("save")),
		testutil.ToFloat64(c.bytes.WithLabelValues("load")),
	)
}
