package format

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const DefaultInvoiceNumberTemplate = "INV-{SEQ5}"

// MaxInvoiceNumberLength is the longest serial number a tax invoice may carry.
const MaxInvoiceNumberLength = 16

var tokenRe = regexp.MustCompile(`\{([A-Z]+)(\d*)\}`)

// FormatInvoiceNumber expands template for the seq-th invoice issued at
// issuedAt. Tokens: {YYYY} {YY} {MM} {DD} {FY} {SEQ} and {SEQn}, which pads
// the sequence to n digits. Unknown tokens are an error.
func FormatInvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	var unknown string
	out := tokenRe.ReplaceAllStringFunc(template, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		name, width := m[1], m[2]
		if width != "" && name != "SEQ" {
			unknown = tok
			return tok
		}
		switch name {
		case "YYYY":
			return issuedAt.Format("2006")
		case "YY":
			return issuedAt.Format("06")
		case "MM":
			return issuedAt.Format("01")
		case "DD":
			return issuedAt.Format("02")
		case "FY":
			return FinancialYear(issuedAt)
		case "SEQ":
			return padSequence(seq, width)
		}
		unknown = tok
		return tok
	})
	if unknown != "" {
		return "", fmt.Errorf("unknown token %s in invoice number template", unknown)
	}
	if len(out) > MaxInvoiceNumberLength {
		return "", fmt.Errorf("invoice number %q exceeds %d characters", out, MaxInvoiceNumberLength)
	}
	return out, nil
}

func padSequence(seq int64, width string) string {
	n, _ := strconv.Atoi(width)
	if n <= 0 {
		return strconv.FormatInt(seq, 10)
	}
	return fmt.Sprintf("%0*d", n, seq)
}

// FinancialYear returns the Indian financial year containing t, e.g. "2026-27"
// for any date between 1 April 2026 and 31 March 2027.
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
