package render

import (
	"bytes"
	"html/template"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/invoice/format"
)

// The layout follows the printed tax invoice: seller block, buyer and
// invoice details side by side, one row per line, then an HSN-wise tax
// summary and the totals.
const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Tax Invoice {{.Invoice.Number}}</title>
<style>
  body { margin: 24px; font: 12px/1.45 "Noto Sans", Arial, sans-serif; color: #222; }
  .sheet { max-width: 900px; margin: 0 auto; border: 1px solid #555; }
  .title { text-align: center; font-weight: 700; letter-spacing: 2px; padding: 6px; border-bottom: 1px solid #555; }
  .seller { padding: 10px 12px; border-bottom: 1px solid #555; }
  .seller h1 { margin: 0 0 4px; font-size: 18px; }
  .parties { display: flex; border-bottom: 1px solid #555; }
  .parties > div { flex: 1; padding: 8px 12px; }
  .parties > div + div { border-left: 1px solid #555; }
  .caption { font-size: 10px; text-transform: uppercase; color: #666; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #999; padding: 4px 6px; vertical-align: top; }
  th { background: #eee; font-size: 11px; text-align: left; }
  .num { text-align: right; white-space: nowrap; }
  .muted { color: #666; font-size: 10px; }
  .totals td { border: none; padding: 2px 12px; }
  .totals tr.grand td { font-weight: 700; border-top: 1px solid #555; }
  .words { padding: 8px 12px; border-top: 1px solid #555; }
  .foot { display: flex; justify-content: space-between; padding: 8px 12px 32px; border-top: 1px solid #555; }
</style>
</head>
<body>
<div class="sheet">
  <div class="title">TAX INVOICE</div>

  <div class="seller">
    <h1>{{.Seller.Name}}</h1>
    {{with .Seller.Address}}<div>{{.}}</div>{{end}}
    {{with .Seller.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
    {{with .Seller.PAN}}<div>PAN: {{.}}</div>{{end}}
    {{with .Seller.State}}<div>State: {{.}}</div>{{end}}
    {{if or .Seller.Phone .Seller.Email}}<div class="muted">{{.Seller.Phone}} {{.Seller.Email}}</div>{{end}}
  </div>

  <div class="parties">
    <div>
      <div class="caption">Bill to</div>
      <strong>{{.Customer.Name}}</strong>
      {{with .Customer.Address}}<div>{{.}}</div>{{end}}
      {{with .Customer.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
      {{with .Customer.State}}<div>Place of supply: {{.}}</div>{{end}}
      {{with .Customer.Phone}}<div>{{.}}</div>{{end}}
    </div>
    <div>
      <div class="caption">Invoice no.</div><div>{{.Invoice.Number}}</div>
      <div class="caption">Date</div><div>{{formatDate .Invoice.Date}}</div>
      <div class="caption">Supply</div><div>{{if .Invoice.Interstate}}Inter-state (IGST){{else}}Intra-state (CGST + SGST){{end}}</div>
      <div class="caption">Payment</div><div>{{.Invoice.PaymentStatus}}{{with .Invoice.PaymentMethod}} / {{.}}{{end}}</div>
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>#</th><th>Item</th><th>HSN</th><th class="num">Qty</th><th class="num">Rate</th>
        <th class="num">Discount</th><th class="num">Taxable</th><th class="num">GST</th><th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Position}}</td>
        <td>{{.Title}}{{with .SubTitle}}<div class="muted">{{.}}</div>{{end}}</td>
        <td>{{.HSN}}</td>
        <td class="num">{{formatQuantity .Quantity}} {{.UOM}}</td>
        <td class="num">{{formatMoney .Rate}}{{if eq .RateMode "with_gst"}}<div class="muted">incl. GST</div>{{end}}</td>
        <td class="num">{{formatMoney .Discount}}</td>
        <td class="num">{{formatMoney .Taxable}}</td>
        <td class="num">{{formatMoney .TaxAmount}}<div class="muted">{{.TaxLabel}}</div></td>
        <td class="num">{{formatMoney .FinalAmount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  {{if .HSNSummary}}
  <table>
    <thead>
      <tr><th>HSN</th><th class="num">GST %</th><th class="num">Taxable value</th><th class="num">Tax</th></tr>
    </thead>
    <tbody>
      {{range .HSNSummary}}
      <tr>
        <td>{{if .HSN}}{{.HSN}}{{else}}-{{end}}</td>
        <td class="num">{{formatPercent .GSTPercent}}</td>
        <td class="num">{{formatMoney .Taxable}}</td>
        <td class="num">{{formatMoney .Tax}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  {{end}}

  <table class="totals">
    <tr><td class="num">Subtotal</td><td class="num">{{formatMoney .Invoice.Subtotal}}</td></tr>
    {{if not .Invoice.TotalDiscount.IsZero}}<tr><td class="num">Discount</td><td class="num">-{{formatMoney .Invoice.TotalDiscount}}</td></tr>{{end}}
    {{if .Invoice.Interstate}}
    <tr><td class="num">IGST</td><td class="num">{{formatMoney .Invoice.TotalIGST}}</td></tr>
    {{else}}
    <tr><td class="num">CGST</td><td class="num">{{formatMoney .Invoice.TotalCGST}}</td></tr>
    <tr><td class="num">SGST</td><td class="num">{{formatMoney .Invoice.TotalSGST}}</td></tr>
    {{end}}
    <tr class="grand"><td class="num">Grand total</td><td class="num">{{formatMoney .Invoice.GrandTotal}}</td></tr>
    <tr><td class="num">Paid</td><td class="num">{{formatMoney .Invoice.PaidAmount}}</td></tr>
    <tr><td class="num">Balance due</td><td class="num">{{formatMoney .Invoice.BalanceDue}}</td></tr>
  </table>

  <div class="words"><span class="caption">Amount in words</span><br>{{.Invoice.AmountInWords}}</div>

  <div class="foot">
    <div>{{with .Invoice.Notes}}{{.}}{{end}}</div>
    <div>For {{.Seller.Name}}<br><br><span class="muted">Authorised signatory</span></div>
  </div>
</div>
</body>
</html>
`

// HSNRow is one line of the HSN-wise tax summary.
type HSNRow struct {
	HSN        string
	GSTPercent decimal.Decimal
	Taxable    decimal.Decimal
	Tax        decimal.Decimal
}

type page struct {
	RenderInput
	HSNSummary []HSNRow
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":    format.Rupees,
		"formatPercent":  format.Percent,
		"formatDate":     formatDate,
		"formatQuantity": formatQuantity,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	if input.Seller.Name == "" {
		input.Seller.Name = "Tax Invoice"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, page{RenderInput: input, HSNSummary: SummariseHSN(input.Items)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SummariseHSN totals taxable value and tax per HSN code and GST rate,
// ordered by HSN then rate.
func SummariseHSN(items []LineItemView) []HSNRow {
	type key struct {
		hsn  string
		rate string
	}
	index := make(map[key]int, len(items))
	var rows []HSNRow
	for _, it := range items {
		k := key{hsn: it.HSN, rate: it.GSTPercent.String()}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, HSNRow{HSN: it.HSN, GSTPercent: it.GSTPercent})
		}
		rows[i].Taxable = rows[i].Taxable.Add(it.Taxable)
		rows[i].Tax = rows[i].Tax.Add(it.TaxAmount)
	}
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].HSN != rows[b].HSN {
			return rows[a].HSN < rows[b].HSN
		}
		return rows[a].GSTPercent.LessThan(rows[b].GSTPercent)
	})
	return rows
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("02 Jan 2006")
}

// formatQuantity trims trailing zeros, e.g. 2.500 becomes 2.5.
func formatQuantity(value decimal.Decimal) string {
	return value.String()
}
