package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/models"
)

func taxedSubmission() form.Submission {
	item := billing.NewRowWithID("row-1", true)
	item.ItemName = "Copra"
	item.Qty, item.Price = "10", "50"
	item.Tax.CGSTPercent, item.Tax.SGSTPercent = "9", "9"
	item = billing.RecomputeRow(item, models.FieldQty, true)

	return form.Submission{
		Header: models.FormHeader{
			EntryDate:  "2025-6-1",
			OrderType:  models.OrderTypeSale,
			PartyName:  "Naveen",
			BrokerName: "Hari",
		},
		Items: []models.LineItem{item},
		SundryEntries: []models.SundryEntry{
			{Category: models.SundryLoadingCharges, Value: "10.00"},
			{Category: models.SundryRoundoffMinus, Value: "0.50", Remarks: "round"},
		},
		TaxEnabled: true,
	}
}

func TestBuildBill(t *testing.T) {
	bill, err := BuildBill(taxedSubmission())
	if err != nil {
		t.Fatal(err)
	}
	if !bill.EntryDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("entry date = %v", bill.EntryDate)
	}
	if bill.OrderType != models.OrderTypeSale || !bill.TaxEnabled || bill.PartyName != "Naveen" {
		t.Errorf("header = %+v", bill)
	}
	if bill.Subtotal != 500 || bill.TotalTax != 90 || bill.SundryTotal != 9.5 || bill.GrandTotal != 599.5 {
		t.Errorf("totals = %v %v %v %v", bill.Subtotal, bill.TotalTax, bill.SundryTotal, bill.GrandTotal)
	}

	if len(bill.Items) != 1 {
		t.Fatalf("items = %d", len(bill.Items))
	}
	row := bill.Items[0]
	if row.RowID != "row-1" || row.Qty != 10 || row.CGSTAmt != 45 || row.TotalGST != 90 || row.GrandTotal != 590 {
		t.Errorf("row = %+v", row)
	}
	if len(bill.Sundry) != 2 || bill.Sundry[1].Position != 1 || bill.Sundry[1].Value != 0.5 || bill.Sundry[1].Remarks != "round" {
		t.Errorf("sundry = %+v", bill.Sundry)
	}
}

func TestBuildBillWithoutTax(t *testing.T) {
	sub := taxedSubmission()
	sub.TaxEnabled = false
	sub.Items[0] = billing.RecomputeRow(billing.NewRowWithID("row-2", false), models.FieldQty, false)
	sub.Items[0].Qty, sub.Items[0].Price, sub.Items[0].Amount = "2", "100", "200.00"

	bill, err := BuildBill(sub)
	if err != nil {
		t.Fatal(err)
	}
	row := bill.Items[0]
	if row.CGSTPercent != 0 || row.TotalGST != 0 || row.GrandTotal != 200 {
		t.Errorf("row = %+v", row)
	}
	if bill.TotalTax != 0 {
		t.Errorf("total tax = %v", bill.TotalTax)
	}
}

func TestBuildBillRejectsBadDate(t *testing.T) {
	sub := taxedSubmission()
	sub.Header.EntryDate = "someday"
	if _, err := BuildBill(sub); !errors.Is(err, billing.ErrInvalidValue) {
		t.Errorf("err = %v", err)
	}
}

func TestLogPersisterAcceptsValidBill(t *testing.T) {
	p := NewLogPersister()
	if err := p.SaveBill(context.Background(), taxedSubmission()); err != nil {
		t.Errorf("SaveBill: %v", err)
	}
}

var _ form.Persister = (*GormPersister)(nil)
var _ form.Persister = (*LogPersister)(nil)
