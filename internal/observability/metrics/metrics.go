package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	invoicesCreated  metric.Int64Counter
	invoicesUpdated  metric.Int64Counter
	lineItems        metric.Int64Counter
	paymentUpdates   metric.Int64Counter
	exportsGenerated metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "gstbilling"
	}
	meter := provider.Meter(name)

	invoicesCreated, err := meter.Int64Counter("gstbilling_invoices_created_total")
	if err != nil {
		return nil, err
	}
	invoicesUpdated, err := meter.Int64Counter("gstbilling_invoices_updated_total")
	if err != nil {
		return nil, err
	}
	lineItems, err := meter.Int64Counter("gstbilling_line_items_resolved_total")
	if err != nil {
		return nil, err
	}
	paymentUpdates, err := meter.Int64Counter("gstbilling_payment_updates_total")
	if err != nil {
		return nil, err
	}
	exportsGenerated, err := meter.Int64Counter("gstbilling_exports_generated_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesCreated:  invoicesCreated,
		invoicesUpdated:  invoicesUpdated,
		lineItems:        lineItems,
		paymentUpdates:   paymentUpdates,
		exportsGenerated: exportsGenerated,
	}, nil
}

// RecordInvoiceCreated counts a persisted invoice by its tax regime.
func (m *Metrics) RecordInvoiceCreated(ctx context.Context, regime string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("regime", strings.TrimSpace(regime)))
	m.invoicesCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceUpdated counts an invoice edit by its tax regime.
func (m *Metrics) RecordInvoiceUpdated(ctx context.Context, regime string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("regime", strings.TrimSpace(regime)))
	m.invoicesUpdated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLineItems counts resolved line items by rate mode.
func (m *Metrics) RecordLineItems(ctx context.Context, rateMode string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("rate_mode", strings.TrimSpace(rateMode)))
	m.lineItems.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordPaymentUpdate counts payment status transitions.
func (m *Metrics) RecordPaymentUpdate(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("payment_status", strings.TrimSpace(status)))
	m.paymentUpdates.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordExport counts generated documents by format and entity.
func (m *Metrics) RecordExport(ctx context.Context, format, entity string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("format", strings.TrimSpace(format)),
		attribute.String("entity", strings.TrimSpace(entity)),
	)
	m.exportsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"regime":         {},
	"rate_mode":      {},
	"payment_status": {},
	"format":         {},
	"entity":         {},
	"endpoint":       {},
	"status_code":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
