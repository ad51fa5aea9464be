package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummariseHSN(t *testing.T) {
	rows := SummariseHSN([]LineItemView{
		{HSN: "8471", GSTPercent: d("18"), Taxable: d("100.00"), TaxAmount: d("18.00")},
		{HSN: "0402", GSTPercent: d("5"), Taxable: d("40.00"), TaxAmount: d("2.00")},
		{HSN: "8471", GSTPercent: d("18.000"), Taxable: d("50.00"), TaxAmount: d("9.00")},
		{HSN: "8471", GSTPercent: d("12"), Taxable: d("10.00"), TaxAmount: d("1.20")},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "0402", rows[0].HSN)
	assert.Equal(t, "8471", rows[1].HSN)
	assert.True(t, rows[1].GSTPercent.Equal(d("12")))
	assert.True(t, rows[2].Taxable.Equal(d("150")))
	assert.True(t, rows[2].Tax.Equal(d("27")))
}

func TestRenderHTMLEscapesAndSummarises(t *testing.T) {
	out, err := NewRenderer().RenderHTML(RenderInput{
		Customer: PartyView{Name: "Tom & Jerry <Traders>"},
		Invoice: InvoiceView{
			Number:     "INV-00007",
			Interstate: true,
			TotalIGST:  d("18.00"),
			GrandTotal: d("118.00"),
		},
		Items: []LineItemView{{
			Position: 1, Title: "Router", HSN: "8517", Quantity: d("1"),
			Rate: d("100"), Taxable: d("100"), GSTPercent: d("18"),
			TaxAmount: d("18"), FinalAmount: d("118"), TaxLabel: "IGST 18%",
		}},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "INV-00007")
	assert.Contains(t, out, "Tom &amp; Jerry &lt;Traders&gt;")
	assert.Contains(t, out, "Inter-state (IGST)")
	assert.Contains(t, out, "8517")
	assert.NotContains(t, out, "CGST</td>")
}
