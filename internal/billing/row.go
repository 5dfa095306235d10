package billing

import (
	"github.com/google/uuid"

	"purchase-sale-backend/internal/models"
)

// NewRow returns an empty row with a fresh id and the field set of the tax mode.
func NewRow(taxEnabled bool) models.LineItem {
	return NewRowWithID(uuid.NewString(), taxEnabled)
}

// NewRowWithID is NewRow with a caller supplied id.
func NewRowWithID(id string, taxEnabled bool) models.LineItem {
	item := models.LineItem{
		ID:          id,
		ItemName:    models.DefaultItemName,
		DebitCredit: models.Debit,
	}
	if taxEnabled {
		item.Tax = &models.TaxFields{}
	}
	return item
}

func triggersRecompute(field string, taxEnabled bool) bool {
	switch field {
	case models.FieldQty, models.FieldPrice:
		return true
	case models.FieldCGSTPercent, models.FieldSGSTPercent:
		return taxEnabled
	}
	return false
}

// RecomputeRow returns a copy of item with the derived fields recalculated
// when changedField feeds them. Other fields pass through unchanged.
func RecomputeRow(item models.LineItem, changedField string, taxEnabled bool) models.LineItem {
	out := item.Clone()
	if !triggersRecompute(changedField, taxEnabled) {
		return out
	}

	amount := NumberOrZero(out.Qty) * NumberOrZero(out.Price)
	out.Amount = FormatAmount(amount)
	if !taxEnabled {
		return out
	}

	if out.Tax == nil {
		out.Tax = &models.TaxFields{}
	}
	cgstAmt := amount * (NumberOrZero(out.Tax.CGSTPercent) / 100)
	sgstAmt := amount * (NumberOrZero(out.Tax.SGSTPercent) / 100)
	totalGST := cgstAmt + sgstAmt

	out.Tax.CGSTAmt = FormatAmount(cgstAmt)
	out.Tax.SGSTAmt = FormatAmount(sgstAmt)
	out.Tax.TotalGST = FormatAmount(totalGST)
	out.Tax.GrandTotal = FormatAmount(amount + totalGST)
	return out
}

// SetField writes an operator-editable field and recomputes the row.
func SetField(item models.LineItem, field, value string, taxEnabled bool) (models.LineItem, error) {
	out := item.Clone()
	switch field {
	case models.FieldItemName:
		out.ItemName = value
	case models.FieldQty:
		out.Qty = value
	case models.FieldUOM:
		out.UOM = value
	case models.FieldPrice:
		out.Price = value
	case models.FieldDebitCredit:
		dc := models.DebitCredit(value)
		if !dc.Valid() {
			return item, &FieldError{Field: field, Value: value, Err: ErrInvalidValue}
		}
		out.DebitCredit = dc
	case models.FieldCGSTPercent, models.FieldSGSTPercent:
		if out.Tax == nil {
			return item, &FieldError{Field: field, Err: ErrUnknownField}
		}
		if field == models.FieldCGSTPercent {
			out.Tax.CGSTPercent = value
		} else {
			out.Tax.SGSTPercent = value
		}
	case models.FieldAmount, models.FieldCGSTAmt, models.FieldSGSTAmt, models.FieldTotalGST, models.FieldGrandTotal:
		return item, &FieldError{Field: field, Err: ErrReadOnlyField}
	default:
		return item, &FieldError{Field: field, Err: ErrUnknownField}
	}
	return RecomputeRow(out, field, taxEnabled), nil
}
