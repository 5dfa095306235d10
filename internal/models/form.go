package models

// OrderType - purchase or sale
type OrderType string

const (
	OrderTypePurchase OrderType = "purchase"
	OrderTypeSale     OrderType = "sale"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePurchase || t == OrderTypeSale
}

// DebitCredit - ledger side of a line item
type DebitCredit string

const (
	Debit  DebitCredit = "Debit"
	Credit DebitCredit = "Credit"
)

func (d DebitCredit) Valid() bool {
	return d == Debit || d == Credit
}

// DefaultItemName is stamped on every fresh row.
const DefaultItemName = "Coconut With Husk"

// Sundry categories. Roundoff (-) is the only one that is subtracted.
const (
	SundryGunnyBags        = "Gunny Bags"
	SundryLoadingCharges   = "Loading Charges"
	SundryUnloadingCharges = "Unloading Charges"
	SundryTransport        = "Transport Charges"
	SundryRoundoffPlus     = "Roundoff (+)"
	SundryRoundoffMinus    = "Roundoff (-)"
	SundryOther            = "Other"
)

var SundryCategories = []string{
	SundryGunnyBags,
	SundryLoadingCharges,
	SundryUnloadingCharges,
	SundryTransport,
	SundryRoundoffPlus,
	SundryRoundoffMinus,
	SundryOther,
}

// Header field names accepted by the form controller.
const (
	FieldEntryDate  = "entryDate"
	FieldOrderType  = "orderType"
	FieldPartyName  = "partyName"
	FieldBrokerName = "brokerName"
)

// Line item field names.
const (
	FieldItemName    = "itemName"
	FieldQty         = "qty"
	FieldUOM         = "uom"
	FieldPrice       = "price"
	FieldAmount      = "amount"
	FieldDebitCredit = "debitCredit"
	FieldCGSTPercent = "cgstPercent"
	FieldCGSTAmt     = "cgstAmt"
	FieldSGSTPercent = "sgstPercent"
	FieldSGSTAmt     = "sgstAmt"
	FieldTotalGST    = "totalGst"
	FieldGrandTotal  = "grandTotal"
)

// FormHeader - order info block of the entry form
type FormHeader struct {
	EntryDate  string    `json:"entryDate" yaml:"entryDate"` // "2006-01-02"
	OrderType  OrderType `json:"orderType" yaml:"orderType"`
	PartyName  string    `json:"partyName" yaml:"partyName"`
	BrokerName string    `json:"brokerName" yaml:"brokerName"`
}

// TaxFields is only present on rows created while tax mode is on.
type TaxFields struct {
	CGSTPercent string `json:"cgstPercent"`
	CGSTAmt     string `json:"cgstAmt"`
	SGSTPercent string `json:"sgstPercent"`
	SGSTAmt     string `json:"sgstAmt"`
	TotalGST    string `json:"totalGst"`
	GrandTotal  string `json:"grandTotal"`
}

// LineItem - one row of the goods table. Numeric fields keep the raw
// text the operator typed; derived fields are fixed 2-decimal strings.
type LineItem struct {
	ID          string      `json:"id"`
	ItemName    string      `json:"itemName"`
	Qty         string      `json:"qty"`
	UOM         string      `json:"uom"`
	Price       string      `json:"price"`
	Amount      string      `json:"amount"`
	DebitCredit DebitCredit `json:"debitCredit"`
	Tax         *TaxFields  `json:"tax,omitempty"`
}

// Clone copies the row including its tax block.
func (it LineItem) Clone() LineItem {
	if it.Tax != nil {
		tax := *it.Tax
		it.Tax = &tax
	}
	return it
}

// SundryEntry - extra charge or adjustment outside the line items
type SundryEntry struct {
	Category string `json:"category" yaml:"category"`
	Value    string `json:"value" yaml:"value"`
	Remarks  string `json:"remarks" yaml:"remarks"`
}
