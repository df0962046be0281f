package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "crypto", "encrypt", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "crypto", "decrypt", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "crypto", "encrypt", "success")
		bm.RecordOperation(context.Background(), "tenant", "rotate_salt", "success")
		bm.RecordOperation(context.Background(), "recovery", "handle_corruption", "partial")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "crypto", "encrypt", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "crypto", "decrypt", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "crypto", "encrypt", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "tenant", "rotate_salt", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "recovery", "handle_corruption", 300*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_RecordCorruption(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordCorruptionEvents", func(t *testing.T) {
		// Should not panic
		bm.RecordCorruption(context.Background(), "decryption_failed", "high")
		bm.RecordCorruption(context.Background(), "checksum_mismatch", "critical")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "crypto", "encrypt", "success")
		noOpMetrics.RecordOperation(context.Background(), "recovery", "handle_corruption", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"crypto",
			"encrypt",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "tenant", "create_tenant", 200*time.Millisecond, "error")
	})

	t.Run("NoOp_RecordCorruptionDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordCorruption(context.Background(), "decryption_failed", "high")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "crypto", "encrypt", "success")
	bm.RecordOperation(ctx, "crypto", "encrypt", "success")
	bm.RecordOperation(ctx, "crypto", "encrypt", "error")
	bm.RecordOperation(ctx, "crypto", "decrypt", "success")
	bm.RecordOperation(ctx, "tenant", "rotate_salt", "success")
	bm.RecordOperation(ctx, "recovery", "handle_corruption", "partial")

	// Record operation durations
	bm.RecordDuration(ctx, "crypto", "encrypt", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "crypto", "encrypt", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "crypto", "encrypt", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "crypto", "decrypt", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "tenant", "rotate_salt", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "recovery", "handle_corruption", 150*time.Millisecond, "partial")

	// Record corruption events
	bm.RecordCorruption(ctx, "decryption_failed", "high")
	bm.RecordCorruption(ctx, "decryption_failed", "high")
	bm.RecordCorruption(ctx, "checksum_mismatch", "critical")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="crypto".*operation="encrypt".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="crypto".*operation="encrypt".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="recovery".*operation="handle_corruption".*status="partial"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="crypto".*operation="encrypt".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="crypto".*operation="encrypt".*status="success"`,
		``,
	)

	// Check corruption counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_corruption_reports_total`,
		`kind="decryption_failed".*severity="high"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_corruption_reports_total`,
		`kind="checksum_mismatch".*severity="critical"`,
		`1`,
	)
}
