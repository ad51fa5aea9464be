package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsTaxpayerIdentifiers(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/customers/:id"),
		attribute.String("gstin", "27AAPFU0939F1ZV"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeError(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.EqualError(t, SafeError(errors.New("boom\nstack")), "boom")
}
