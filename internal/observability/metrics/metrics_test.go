package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("regime", "igst"),
		attribute.String("customer_id", "456"),
		attribute.String("rate_mode", "with_gst"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("regime"), attrs[0].Key)
	assert.Equal(t, attribute.Key("rate_mode"), attrs[1].Key)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordInvoiceCreated(context.Background(), "igst")
		m.RecordLineItems(context.Background(), "with_gst", 3)
		m.RecordExport(context.Background(), "pdf", "invoice")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "test"}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordPaymentUpdate(context.Background(), "paid")
		m.RecordInvoiceUpdated(context.Background(), "cgst_sgst")
	})
}
