package context

import "strings"

// RouteResource names the business entity an API route acts on, such as
// "invoice" for /api/invoices/:id/pdf. Non-API routes return "".
func RouteResource(route string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(route), "/api/")
	if !ok {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	switch segment {
	case "invoices":
		return "invoice"
	case "customers":
		return "customer"
	case "products":
		return "product"
	case "business":
		return "business"
	case "dashboard":
		return "dashboard"
	case "gst-rates", "hsn-codes", "states":
		return "reference"
	default:
		return segment
	}
}

// RouteExportFormat reports the download format served by a route, if any.
func RouteExportFormat(route string) string {
	route = strings.TrimSpace(route)
	switch {
	case strings.HasSuffix(route, "/export.xlsx"):
		return "xlsx"
	case strings.HasSuffix(route, "/pdf"), strings.HasSuffix(route, "/receipt"):
		return "pdf"
	case strings.HasSuffix(route, "/render"):
		return "html"
	default:
		return ""
	}
}
