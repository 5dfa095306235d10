// Package catalog holds the fixed option lists offered by the entry form
// and the filter-as-you-type matching used by its suggestion boxes.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"purchase-sale-backend/internal/models"
)

// List names accepted by Options.
const (
	ListParties     = "parties"
	ListBrokers     = "brokers"
	ListItems       = "items"
	ListUOMs        = "uoms"
	ListDebitCredit = "debit-credit"
	ListOrderTypes  = "order-types"
	ListSundry      = "sundry-categories"
)

var people = []string{"Anand SOK", "Maniyarasu", "Kaniyarasu", "Naveen", "Hari", "Vicky"}

var lists = map[string][]string{
	ListParties:     people,
	ListBrokers:     people,
	ListItems:       {"Coconut With Husk", "Coconut Without Husk", "Copra", "Husk"},
	ListUOMs:        {"Grams", "Quintal", "Nos"},
	ListDebitCredit: {string(models.Debit), string(models.Credit)},
	ListOrderTypes:  {string(models.OrderTypePurchase), string(models.OrderTypeSale)},
	ListSundry:      models.SundryCategories,
}

// Names returns the known list names.
func Names() []string {
	return []string{ListParties, ListBrokers, ListItems, ListUOMs, ListDebitCredit, ListOrderTypes, ListSundry}
}

// Options returns a copy of the named list.
func Options(name string) ([]string, bool) {
	opts, ok := lists[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(opts))
	copy(out, opts)
	return out, true
}

// Filter keeps the options containing query, ignoring case. Order is preserved.
func Filter(options []string, query string) []string {
	fold := cases.Fold()
	q := fold.String(query)
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if strings.Contains(fold.String(opt), q) {
			out = append(out, opt)
		}
	}
	return out
}

// IsSundryCategory reports whether c is one of the fixed sundry categories.
func IsSundryCategory(c string) bool {
	for _, s := range models.SundryCategories {
		if s == c {
			return true
		}
	}
	return false
}
