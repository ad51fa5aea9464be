package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapConfig(t *testing.T) {
	cfg, err := Config{Level: "debug"}.zapConfig()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
	assert.Nil(t, cfg.Sampling)

	cfg, err = Config{Debug: true}.zapConfig()
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())

	_, err = Config{Level: "loud"}.zapConfig()
	assert.Error(t, err)
}

func TestWithContextOmitsMissingIDs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("plain")
	ctx := obscontext.WithRequestID(context.Background(), "req-9")
	WithInvoice(WithContext(ctx, base), "inv-1", "").Info("tagged")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Context)
	fields := entries[1].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "inv-1", fields["invoice_id"])
	assert.NotContains(t, fields, "invoice_number")
	assert.NotContains(t, fields, "trace_id")
}
