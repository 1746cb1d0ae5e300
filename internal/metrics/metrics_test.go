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

func TestUploadObserverRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewUploadObserver("test", reg)
	require.NoError(t, err)

	o.RecordUpload(120*time.Millisecond, 10, nil)
	o.RecordUpload(80*time.Millisecond, 2048, nil)
	o.RecordUpload(time.Second, 0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(o.uploads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.uploads.WithLabelValues("error")))
	assert.Equal(t, 2058.0, testutil.ToFloat64(o.bytes))
	assert.Equal(t, 2, testutil.CollectAndCount(o.duration))
}

func TestUploadObserverReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewUploadObserver("test", reg)
	require.NoError(t, err)
	second, err := NewUploadObserver("test", reg)
	require.NoError(t, err)

	second.RecordUpload(time.Millisecond, 5, nil)
	assert.Equal(t, 5.0, testutil.ToFloat64(first.bytes))
}

func TestNilUploadObserver(t *testing.T) {
	var o *UploadObserver
	assert.NotPanics(t, func() { o.RecordUpload(time.Second, 1, nil) })
}
