package observability

import (
	"testing"
	"time"

	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{Environment: "production", AppVersion: "1.2.3"})

	assert.Equal(t, "gstbilling", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.OtelEnabled)
	assert.False(t, cfg.Debug())
	assert.Equal(t, "1.2.3", cfg.Logger().Version)
}

func TestDebugInDevelopment(t *testing.T) {
	assert.True(t, Config{Environment: "local"}.Debug())
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
}

func TestGormConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment:   "production",
		Observability: config.ObservabilityConfig{SlowQueryMillis: 50},
	})

	gorm := cfg.Gorm()
	assert.Equal(t, 50*time.Millisecond, gorm.SlowThreshold)
	assert.Equal(t, gormlogger.Warn, gorm.Level)

	cfg.Environment = "development"
	assert.Equal(t, gormlogger.Info, cfg.Gorm().Level)
}

func TestTracingAndMetricsShareExporter(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName: "billing",
		Observability: config.ObservabilityConfig{
			OtelEnabled:  true,
			OTLPEndpoint: "collector:4318",
			OTLPProtocol: "http",
		},
	})

	assert.True(t, cfg.Tracing().Enabled)
	assert.Equal(t, "collector:4318", cfg.Metrics().ExporterEndpoint)
	assert.Equal(t, "http", cfg.Tracing().ExporterProtocol)
	assert.Equal(t, "billing", cfg.Metrics().ServiceName)
}
