package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteResource(t *testing.T) {
	tests := map[string]string{
		"/api/invoices/:id/pdf":      "invoice",
		"/api/invoices":              "invoice",
		"/api/customers/export.xlsx": "customer",
		"/api/business/import":       "business",
		"/api/states/gstin/:gstin":   "reference",
		"/api/dashboard/stats":       "dashboard",
		"/health":                    "",
		"":                           "",
	}
	for route, want := range tests {
		assert.Equal(t, want, RouteResource(route), route)
	}
}

func TestRouteExportFormat(t *testing.T) {
	assert.Equal(t, "xlsx", RouteExportFormat("/api/invoices/:id/export.xlsx"))
	assert.Equal(t, "pdf", RouteExportFormat("/api/invoices/:id/receipt"))
	assert.Equal(t, "html", RouteExportFormat("/api/invoices/:id/render"))
	assert.Equal(t, "", RouteExportFormat("/api/invoices/:id"))
}
