package billing

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"purchase-sale-backend/internal/models"
)

// Error keys of the header and the item list.
const (
	KeyPartyName  = models.FieldPartyName
	KeyBrokerName = models.FieldBrokerName
	KeyItems      = "items"
)

// SundryKeyPrefix starts every sundry error key.
const SundryKeyPrefix = "sundry-"

// ErrorMap maps a positional error key to its message. Empty means valid.
type ErrorMap map[string]string

// ItemKey is the error key of a row field, e.g. "item-0-qty".
func ItemKey(index int, field string) string {
	return fmt.Sprintf("item-%d-%s", index, field)
}

// SundryKey is the error key of a sundry field, e.g. "sundry-1-value".
func SundryKey(index int, field string) string {
	return fmt.Sprintf("%s%d-%s", SundryKeyPrefix, index, field)
}

func (m ErrorMap) Valid() bool {
	return len(m) == 0
}

// Keys returns the keys in sorted order.
func (m ErrorMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return ErrorMap{}
	}
	return maps.Clone(m)
}

// WithoutPrefix returns a copy without the keys that start with prefix.
func (m ErrorMap) WithoutPrefix(prefix string) ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		if !strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// Without returns a copy without key.
func (m ErrorMap) Without(key string) ErrorMap {
	out := m.Clone()
	delete(out, key)
	return out
}

func positive(s string) bool {
	v, ok := ParseNumber(s)
	return ok && finite(v) && v > 0
}

func nonNegative(s string) bool {
	v, ok := ParseNumber(s)
	return ok && finite(v) && v >= 0
}

func percent(s string) bool {
	v, ok := ParseNumber(s)
	return ok && v >= 0 && v <= 100
}

// Validate checks the whole form. Every violated rule gets its own entry.
func Validate(header models.FormHeader, items []models.LineItem, sundry []models.SundryEntry, taxEnabled bool) ErrorMap {
	errs := ErrorMap{}

	if strings.TrimSpace(header.PartyName) == "" {
		errs[KeyPartyName] = "Party Name is required."
	}
	if strings.TrimSpace(header.BrokerName) == "" {
		errs[KeyBrokerName] = "Broker Name is required."
	}

	if len(items) == 0 {
		errs[KeyItems] = "At least one item is required."
	}
	for i, item := range items {
		row := i + 1
		if item.ItemName == "" {
			errs[ItemKey(i, models.FieldItemName)] = fmt.Sprintf("Item Name is required for row %d.", row)
		}
		if !positive(item.Qty) {
			errs[ItemKey(i, models.FieldQty)] = fmt.Sprintf("Quantity must be a positive number for row %d.", row)
		}
		if !positive(item.Price) {
			errs[ItemKey(i, models.FieldPrice)] = fmt.Sprintf("Price must be a positive number for row %d.", row)
		}
		if !taxEnabled {
			continue
		}
		var tax models.TaxFields
		if item.Tax != nil {
			tax = *item.Tax
		}
		if !percent(tax.CGSTPercent) {
			errs[ItemKey(i, models.FieldCGSTPercent)] = fmt.Sprintf("CGST %% must be between 0 and 100 for row %d.", row)
		}
		if !percent(tax.SGSTPercent) {
			errs[ItemKey(i, models.FieldSGSTPercent)] = fmt.Sprintf("SGST %% must be between 0 and 100 for row %d.", row)
		}
	}

	for i, e := range sundry {
		if strings.TrimSpace(e.Category) == "" {
			errs[SundryKey(i, "category")] = fmt.Sprintf("Category is required for sundry entry %d.", i+1)
		}
		if !nonNegative(e.Value) {
			errs[SundryKey(i, "value")] = fmt.Sprintf("Value must be a non-negative number for sundry entry %d.", i+1)
		}
	}

	return errs
}
