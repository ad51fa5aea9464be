package pdf

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
)

const ContentType = "application/pdf"

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// Filename builds a download name like "invoice-inv-00012.pdf".
func Filename(parts ...string) string {
	return slug.Make(strings.Join(parts, " ")) + ".pdf"
}
