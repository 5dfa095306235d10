package models

import "time"

// Bill: a saved purchase/sale entry (header + rows + sundry)
type Bill struct {
	ID          uint      `gorm:"primaryKey"`
	EntryDate   time.Time `gorm:"index;not null"`
	OrderType   OrderType `gorm:"type:varchar(20);not null;index"` // "purchase" or "sale"
	PartyName   string    `gorm:"size:200;not null;index"`
	BrokerName  string    `gorm:"size:200;not null"`
	TaxEnabled  bool      `gorm:"not null"`
	Subtotal    float64   `gorm:"not null"`
	TotalTax    float64   `gorm:"not null"`
	SundryTotal float64   `gorm:"not null"`
	GrandTotal  float64   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items  []BillItem   `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	Sundry []BillSundry `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// BillItem: one goods row of a saved bill
type BillItem struct {
	ID          uint        `gorm:"primaryKey"`
	BillID      uint        `gorm:"index;not null"`
	Position    int         `gorm:"not null"`
	RowID       string      `gorm:"size:36;not null"` // id the row had in the form session
	ItemName    string      `gorm:"size:200;not null"`
	Qty         float64     `gorm:"not null"`
	UOM         string      `gorm:"size:50"`
	Price       float64     `gorm:"not null"`
	Amount      float64     `gorm:"not null"`
	DebitCredit DebitCredit `gorm:"size:10;not null"`
	CGSTPercent float64
	CGSTAmt     float64
	SGSTPercent float64
	SGSTAmt     float64
	TotalGST    float64
	GrandTotal  float64
	CreatedAt   time.Time
}

// BillSundry: sundry adjustment attached to a saved bill
type BillSundry struct {
	ID        uint    `gorm:"primaryKey"`
	BillID    uint    `gorm:"index;not null"`
	Position  int     `gorm:"not null"`
	Category  string  `gorm:"size:50;not null"`
	Value     float64 `gorm:"not null"`
	Remarks   string  `gorm:"size:500"`
	CreatedAt time.Time
}
