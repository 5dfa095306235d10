package models

// ReferenceType - display label of the order type on archived records
type ReferenceType string

const (
	ReferenceTypePurchase ReferenceType = "Purchase"
	ReferenceTypeSale     ReferenceType = "Sale"
)

// ReferenceStatus - archived records are always created as approved
type ReferenceStatus string

const StatusApproved ReferenceStatus = "Approved"

// ReferenceRecord - immutable summary of a finalized entry
type ReferenceRecord struct {
	RefNo    string          `json:"refNo"`
	Date     string          `json:"date"`
	Party    string          `json:"party"`
	ItemName string          `json:"itemName"`
	Amount   string          `json:"amount"` // grand total, 2 decimals
	Type     ReferenceType   `json:"type"`
	Status   ReferenceStatus `json:"status"`
}

// Sort keys of the reference listing.
const (
	RefKeyRefNo    = "refNo"
	RefKeyDate     = "date"
	RefKeyParty    = "party"
	RefKeyItemName = "itemName"
	RefKeyAmount   = "amount"
	RefKeyType     = "type"
	RefKeyStatus   = "status"
)

// Text returns the string value of a sort key.
func (r ReferenceRecord) Text(key string) (string, bool) {
	switch key {
	case RefKeyRefNo:
		return r.RefNo, true
	case RefKeyDate:
		return r.Date, true
	case RefKeyParty:
		return r.Party, true
	case RefKeyItemName:
		return r.ItemName, true
	case RefKeyAmount:
		return r.Amount, true
	case RefKeyType:
		return string(r.Type), true
	case RefKeyStatus:
		return string(r.Status), true
	}
	return "", false
}
