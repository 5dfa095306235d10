package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/models"
)

// BuildBill maps a submitted form onto the stored bill rows. Numeric text is
// read the same way the totals are computed, so blank values become 0.
func BuildBill(sub form.Submission) (models.Bill, error) {
	entryDate, ok := form.ParseDate(sub.Header.EntryDate)
	if !ok {
		return models.Bill{}, fmt.Errorf("entry date %q: %w", sub.Header.EntryDate, billing.ErrInvalidValue)
	}

	totals := billing.ComputeTotals(sub.Items, sub.SundryEntries, sub.TaxEnabled)
	bill := models.Bill{
		EntryDate:   entryDate,
		OrderType:   sub.Header.OrderType,
		PartyName:   sub.Header.PartyName,
		BrokerName:  sub.Header.BrokerName,
		TaxEnabled:  sub.TaxEnabled,
		Subtotal:    totals.Subtotal,
		TotalTax:    totals.TotalTax,
		SundryTotal: totals.SundryTotal,
		GrandTotal:  totals.GrandTotal,
		Items:       make([]models.BillItem, 0, len(sub.Items)),
		Sundry:      make([]models.BillSundry, 0, len(sub.SundryEntries)),
	}

	for i, it := range sub.Items {
		row := models.BillItem{
			Position:    i,
			RowID:       it.ID,
			ItemName:    it.ItemName,
			Qty:         billing.NumberOrZero(it.Qty),
			UOM:         it.UOM,
			Price:       billing.NumberOrZero(it.Price),
			Amount:      billing.NumberOrZero(it.Amount),
			DebitCredit: it.DebitCredit,
		}
		if sub.TaxEnabled && it.Tax != nil {
			row.CGSTPercent = billing.NumberOrZero(it.Tax.CGSTPercent)
			row.CGSTAmt = billing.NumberOrZero(it.Tax.CGSTAmt)
			row.SGSTPercent = billing.NumberOrZero(it.Tax.SGSTPercent)
			row.SGSTAmt = billing.NumberOrZero(it.Tax.SGSTAmt)
			row.TotalGST = billing.NumberOrZero(it.Tax.TotalGST)
			row.GrandTotal = billing.NumberOrZero(it.Tax.GrandTotal)
		} else {
			row.GrandTotal = row.Amount
		}
		bill.Items = append(bill.Items, row)
	}

	for i, e := range sub.SundryEntries {
		bill.Sundry = append(bill.Sundry, models.BillSundry{
			Position: i,
			Category: e.Category,
			Value:    billing.NumberOrZero(e.Value),
			Remarks:  e.Remarks,
		})
	}
	return bill, nil
}

// GormPersister stores bills in postgres. A bill and all of its rows are
// written in one transaction.
type GormPersister struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db, log: logger.WithComponent("database")}
}

func (p *GormPersister) SaveBill(ctx context.Context, sub form.Submission) error {
	bill, err := BuildBill(sub)
	if err != nil {
		return err
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// associations are created with the bill
		if err := tx.Create(&bill).Error; err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.log.Info().
		Uint("bill_id", bill.ID).
		Str("party", bill.PartyName).
		Float64("grand_total", bill.GrandTotal).
		Msg("Bill stored")
	return nil
}

// LogPersister accepts every bill and only logs it. Used when no database
// is configured.
type LogPersister struct {
	log zerolog.Logger
	now func() time.Time
}

func NewLogPersister() *LogPersister {
	return &LogPersister{log: logger.WithComponent("database"), now: time.Now}
}

func (p *LogPersister) SaveBill(_ context.Context, sub form.Submission) error {
	bill, err := BuildBill(sub)
	if err != nil {
		return err
	}
	p.log.Info().
		Time("received_at", p.now()).
		Str("order_type", string(bill.OrderType)).
		Str("party", bill.PartyName).
		Str("broker", bill.BrokerName).
		Int("items", len(bill.Items)).
		Int("sundry", len(bill.Sundry)).
		Str("grand_total", billing.FormatAmount(bill.GrandTotal)).
		Msg("Bill received (no database configured)")
	return nil
}
