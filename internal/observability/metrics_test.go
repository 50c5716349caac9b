package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/subjects", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/subjects", "500", time.Second)
	m.ObserveImportFile("catalog", "ok", 100*time.Millisecond)
	m.IncImportDecision("topic", "SKIP")

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	out := buf.String()

	assert.Contains(t, out, `fs_api_requests_total{method="GET",route="/api/subjects",status="200"} 1.000000`)
	assert.Contains(t, out, "fs_api_server_errors_total 1.000000")
	assert.Contains(t, out, `fs_import_files_total{kind="catalog",status="ok"} 1.000000`)
	assert.Contains(t, out, `fs_import_decisions_total{kind="topic",decision="skip"} 1.000000`)
	assert.True(t, strings.Contains(out, `fs_import_file_duration_seconds_bucket{kind="catalog",status="ok",le="0.1"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ApiInflightInc()
	m.IncImportDecision("subject", "CREATE")
	assert.NoError(t, m.WritePrometheus(&bytes.Buffer{}))
}

func TestTracePassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	err := Trace(context.Background(), "test.op", nil, func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	called := false
	require.NoError(t, Trace(context.Background(), "test.op", nil, func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
