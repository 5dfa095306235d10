package billing

import "purchase-sale-backend/internal/models"

// Totals is the order summary. Values keep full float precision; rounding
// to two decimals happens only in Format.
type Totals struct {
	Subtotal    float64
	TotalTax    float64
	SundryTotal float64
	GrandTotal  float64
}

// ComputeTotals sums row amounts, row GST (tax mode only) and the signed
// sundry adjustments.
func ComputeTotals(items []models.LineItem, sundry []models.SundryEntry, taxEnabled bool) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += NumberOrZero(item.Amount)
		if taxEnabled && item.Tax != nil {
			t.TotalTax += NumberOrZero(item.Tax.TotalGST)
		}
	}
	t.SundryTotal = SundryTotal(sundry)
	t.GrandTotal = t.Subtotal + t.TotalTax + t.SundryTotal
	return t
}

// SundryTotal adds every entry except Roundoff (-), which is subtracted.
func SundryTotal(sundry []models.SundryEntry) float64 {
	total := 0.0
	for _, e := range sundry {
		v := NumberOrZero(e.Value)
		if e.Category == models.SundryRoundoffMinus {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

// TotalsView is the summary as shown to the operator.
type TotalsView struct {
	Subtotal    string       `json:"subtotal"`
	TotalTax    string       `json:"totalTax,omitempty"`
	SundryTotal string       `json:"sundryTotal"`
	GrandTotal  string       `json:"grandTotal"`
	Display     TotalsLabels `json:"display"`
}

// TotalsLabels holds the currency-prefixed strings.
type TotalsLabels struct {
	Subtotal    string `json:"subtotal"`
	TotalTax    string `json:"totalTax,omitempty"`
	SundryTotal string `json:"sundryTotal"`
	GrandTotal  string `json:"grandTotal"`
}

// Format renders the totals; the tax line is left out when tax is off.
func (t Totals) Format(taxEnabled bool) TotalsView {
	v := TotalsView{
		Subtotal:    FormatAmount(t.Subtotal),
		SundryTotal: FormatAmount(t.SundryTotal),
		GrandTotal:  FormatAmount(t.GrandTotal),
		Display: TotalsLabels{
			Subtotal:    FormatCurrency(t.Subtotal),
			SundryTotal: FormatCurrency(t.SundryTotal),
			GrandTotal:  FormatCurrency(t.GrandTotal),
		},
	}
	if taxEnabled {
		v.TotalTax = FormatAmount(t.TotalTax)
		v.Display.TotalTax = FormatCurrency(t.TotalTax)
	}
	return v
}
