package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/models"
)

type fakePersister struct {
	saved []Submission
	err   error
}

func (f *fakePersister) SaveBill(_ context.Context, sub Submission) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, sub)
	return nil
}

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

// newTestController returns a controller with a fixed clock and sequential
// row ids (row-1, row-2, ...).
func newTestController(p Persister) *Controller {
	n := 0
	return NewController(p,
		WithClock(func() time.Time { return fixedNow }),
		WithRowFactory(func(tax bool) models.LineItem {
			n++
			return billing.NewRowWithID(fmt.Sprintf("row-%d", n), tax)
		}),
	)
}

func mustSetHeader(t *testing.T, c *Controller, field, value string) {
	t.Helper()
	if err := c.SetHeaderField(field, value); err != nil {
		t.Fatalf("SetHeaderField(%s, %q): %v", field, value, err)
	}
}

func mustUpdate(t *testing.T, c *Controller, id, field, value string) {
	t.Helper()
	if err := c.UpdateItem(id, field, value); err != nil {
		t.Fatalf("UpdateItem(%s, %s, %q): %v", id, field, value, err)
	}
}

func firstRowID(c *Controller) string {
	return c.State().Items[0].ID
}

// fillValid makes the default form pass validation.
func fillValid(t *testing.T, c *Controller, itemName string) {
	t.Helper()
	mustSetHeader(t, c, models.FieldPartyName, "Naveen")
	mustSetHeader(t, c, models.FieldBrokerName, "Hari")
	id := firstRowID(c)
	mustUpdate(t, c, id, models.FieldItemName, itemName)
	mustUpdate(t, c, id, models.FieldQty, "2")
	mustUpdate(t, c, id, models.FieldPrice, "100")
}

func TestNewControllerDefaults(t *testing.T) {
	c := newTestController(nil)
	s := c.State()

	want := models.FormHeader{EntryDate: "2025-06-01", OrderType: models.OrderTypePurchase}
	if s.Header != want {
		t.Errorf("header = %+v, want %+v", s.Header, want)
	}
	if s.TaxEnabled || s.SundryEnabled {
		t.Error("tax and sundry must start disabled")
	}
	if len(s.Items) != 1 || s.Items[0].Tax != nil || s.Items[0].ItemName != models.DefaultItemName {
		t.Errorf("items = %+v", s.Items)
	}
	if len(s.SundryEntries) != 0 || len(s.Errors) != 0 {
		t.Errorf("sundry = %v, errors = %v", s.SundryEntries, s.Errors)
	}
}

func TestStateIsSnapshot(t *testing.T) {
	c := newTestController(nil)
	mustUpdate(t, c, "row-1", models.FieldQty, "3")
	s := c.State()
	s.Items[0].Qty = "99"
	s.Header.PartyName = "changed"
	if got := c.State(); got.Items[0].Qty != "3" || got.Header.PartyName != "" {
		t.Errorf("snapshot leaked into controller: %+v", got)
	}
}

func TestSetHeaderField(t *testing.T) {
	c := newTestController(nil)
	c.Validate()
	if _, ok := c.State().Errors[billing.KeyPartyName]; !ok {
		t.Fatal("expected partyName error after validate")
	}

	mustSetHeader(t, c, models.FieldPartyName, "Vicky")
	s := c.State()
	if s.Header.PartyName != "Vicky" {
		t.Errorf("party = %q", s.Header.PartyName)
	}
	if _, ok := s.Errors[billing.KeyPartyName]; ok {
		t.Error("partyName error not cleared")
	}
	if _, ok := s.Errors[billing.KeyBrokerName]; !ok {
		t.Error("brokerName error must survive an unrelated edit")
	}

	mustSetHeader(t, c, models.FieldOrderType, "sale")
	mustSetHeader(t, c, models.FieldEntryDate, "2025-10-1")
	if h := c.State().Header; h.OrderType != models.OrderTypeSale || h.EntryDate != "2025-10-1" {
		t.Errorf("header = %+v", h)
	}
}

func TestSetHeaderFieldErrors(t *testing.T) {
	tests := []struct {
		field, value string
		want         error
	}{
		{models.FieldOrderType, "lease", billing.ErrInvalidValue},
		{models.FieldEntryDate, "yesterday", billing.ErrInvalidValue},
		{"remarks", "x", billing.ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			c := newTestController(nil)
			before := c.State()
			err := c.SetHeaderField(tt.field, tt.value)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var fe *billing.FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("expected FieldError for %s, got %v", tt.field, err)
			}
			if !reflect.DeepEqual(c.State(), before) {
				t.Error("failed update mutated the form")
			}
		})
	}
}

func TestToggleTaxRoundTrip(t *testing.T) {
	untouched := newTestController(nil).State()

	c := newTestController(nil)
	c.ToggleTax(true)
	on := c.State()
	if !on.TaxEnabled || len(on.Items) != 1 || on.Items[0].Tax == nil {
		t.Fatalf("tax on state = %+v", on)
	}
	c.ToggleTax(false)
	off := c.State()

	if off.Items[0].ID == untouched.Items[0].ID {
		t.Error("toggle must produce a fresh row id")
	}
	off.Items[0].ID = untouched.Items[0].ID
	if !reflect.DeepEqual(off, untouched) {
		t.Errorf("toggle on then off = %+v, want %+v", off, untouched)
	}
}

func TestToggleTaxDiscardsRowsAndSundry(t *testing.T) {
	c := newTestController(nil)
	mustUpdate(t, c, "row-1", models.FieldQty, "5")
	c.AddRow()
	c.SetSundryEnabled(true)
	if err := c.AddSundry(models.SundryEntry{Category: models.SundryGunnyBags, Value: "12"}); err != nil {
		t.Fatal(err)
	}
	c.Validate()

	c.ToggleTax(true)
	s := c.State()
	if len(s.Items) != 1 || s.Items[0].Qty != "" {
		t.Errorf("items = %+v", s.Items)
	}
	if len(s.SundryEntries) != 0 || len(s.Errors) != 0 {
		t.Errorf("sundry = %v, errors = %v", s.SundryEntries, s.Errors)
	}
}

func TestUpdateItemRecomputes(t *testing.T) {
	c := newTestController(nil)
	c.ToggleTax(true)
	id := firstRowID(c)
	mustUpdate(t, c, id, models.FieldQty, "10")
	mustUpdate(t, c, id, models.FieldPrice, "50")
	mustUpdate(t, c, id, models.FieldCGSTPercent, "9")
	mustUpdate(t, c, id, models.FieldSGSTPercent, "9")

	item := c.State().Items[0]
	got := []string{item.Amount, item.Tax.CGSTAmt, item.Tax.SGSTAmt, item.Tax.TotalGST, item.Tax.GrandTotal}
	want := []string{"500.00", "45.00", "45.00", "90.00", "590.00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("derived = %v, want %v", got, want)
	}
	if v := c.View(); v.Totals.GrandTotal != "590.00" || v.Totals.Display.GrandTotal != "₹590.00" {
		t.Errorf("totals = %+v", v.Totals)
	}
}

func TestUpdateItemClearsOnlyItsError(t *testing.T) {
	c := newTestController(nil)
	c.Validate()
	errs := c.State().Errors
	qtyKey, priceKey := billing.ItemKey(0, models.FieldQty), billing.ItemKey(0, models.FieldPrice)
	if _, ok := errs[qtyKey]; !ok {
		t.Fatalf("expected %s in %v", qtyKey, errs)
	}

	mustUpdate(t, c, "row-1", models.FieldQty, "4")
	errs = c.State().Errors
	if _, ok := errs[qtyKey]; ok {
		t.Errorf("%s not cleared", qtyKey)
	}
	if _, ok := errs[priceKey]; !ok {
		t.Errorf("%s must survive", priceKey)
	}
}

func TestUpdateItemErrors(t *testing.T) {
	c := newTestController(nil)
	before := c.State()

	if err := c.UpdateItem("missing", models.FieldQty, "1"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
	if err := c.UpdateItem("row-1", models.FieldAmount, "1"); !errors.Is(err, billing.ErrReadOnlyField) {
		t.Errorf("derived field: err = %v", err)
	}
	if err := c.UpdateItem("row-1", models.FieldCGSTPercent, "9"); !errors.Is(err, billing.ErrUnknownField) {
		t.Errorf("tax field without tax: err = %v", err)
	}
	if !reflect.DeepEqual(c.State(), before) {
		t.Error("failed updates mutated the form")
	}
}

func TestAddRowAndHandleKey(t *testing.T) {
	c := newTestController(nil)
	row := c.AddRow()
	if row.ID != "row-2" || row.Tax != nil {
		t.Errorf("added row = %+v", row)
	}

	if !c.HandleKey("F2") || !c.HandleKey("f2") {
		t.Error("add-row key not handled")
	}
	if c.HandleKey("Enter") {
		t.Error("unbound key reported as handled")
	}
	if n := len(c.State().Items); n != 4 {
		t.Errorf("items = %d, want 4", n)
	}

	custom := NewController(nil, WithAddRowKey("Insert"))
	if custom.HandleKey("F2") || !custom.HandleKey("insert") {
		t.Error("custom key binding not honored")
	}
}

func TestDeleteRow(t *testing.T) {
	c := newTestController(nil)
	c.AddRow()
	c.AddRow()
	c.Validate()

	if err := c.DeleteRow("row-2"); err != nil {
		t.Fatal(err)
	}
	s := c.State()
	if ids := []string{s.Items[0].ID, s.Items[1].ID}; !reflect.DeepEqual(ids, []string{"row-1", "row-3"}) || len(s.Items) != 2 {
		t.Errorf("items after delete = %v", ids)
	}
	if len(s.Errors) != 0 {
		t.Errorf("errors not cleared: %v", s.Errors)
	}
	if err := c.DeleteRow("row-2"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestDeleteOnlyRowLeavesOneFreshRow(t *testing.T) {
	c := newTestController(nil)
	mustUpdate(t, c, "row-1", models.FieldQty, "7")
	for i := 0; i < 3; i++ {
		if err := c.DeleteRow(firstRowID(c)); err != nil {
			t.Fatal(err)
		}
		items := c.State().Items
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
		if items[0].Qty != "" || items[0].ItemName != models.DefaultItemName {
			t.Errorf("replacement row is not fresh: %+v", items[0])
		}
	}
}

func TestRowIDsNeverReused(t *testing.T) {
	c := NewController(nil)
	seen := map[string]bool{firstRowID(c): true}
	for i := 0; i < 50; i++ {
		row := c.AddRow()
		if seen[row.ID] {
			t.Fatalf("row id %s reused", row.ID)
		}
		seen[row.ID] = true
		if i%3 == 0 {
			if err := c.DeleteRow(row.ID); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestSundryEditor(t *testing.T) {
	c := newTestController(nil)
	if err := c.AddSundry(models.SundryEntry{Category: models.SundryOther, Value: "1"}); !errors.Is(err, ErrSundryDisabled) {
		t.Fatalf("disabled add err = %v", err)
	}

	c.SetSundryEnabled(true)
	for _, e := range []models.SundryEntry{
		{Category: models.SundryLoadingCharges, Value: "30"},
		{Category: models.SundryRoundoffMinus, Value: "0.254", Remarks: "round"},
		{Category: models.SundryGunnyBags, Value: "5.5"},
	} {
		if err := c.AddSundry(e); err != nil {
			t.Fatalf("AddSundry(%+v): %v", e, err)
		}
	}
	s := c.State()
	if got := []string{s.SundryEntries[0].Value, s.SundryEntries[1].Value, s.SundryEntries[2].Value}; !reflect.DeepEqual(got, []string{"30.00", "0.25", "5.50"}) {
		t.Errorf("values = %v", got)
	}

	if err := c.UpdateSundry(0, models.SundryEntry{Category: models.SundryTransport, Value: "40"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteSundry(2); err != nil {
		t.Fatal(err)
	}
	s = c.State()
	want := []models.SundryEntry{
		{Category: models.SundryTransport, Value: "40.00"},
		{Category: models.SundryRoundoffMinus, Value: "0.25", Remarks: "round"},
	}
	if !reflect.DeepEqual(s.SundryEntries, want) {
		t.Errorf("entries = %+v", s.SundryEntries)
	}
	if got := c.Totals().SundryTotal; got != 39.75 {
		t.Errorf("sundry total = %v", got)
	}

	c.SetSundryEnabled(false)
	if n := len(c.State().SundryEntries); n != 0 {
		t.Errorf("disabling kept %d entries", n)
	}
}

func TestSundryEditorErrors(t *testing.T) {
	c := newTestController(nil)
	c.SetSundryEnabled(true)
	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown category", func() error { return c.AddSundry(models.SundryEntry{Category: "Tips", Value: "1"}) }, ErrInvalidSundry},
		{"negative value", func() error { return c.AddSundry(models.SundryEntry{Category: models.SundryOther, Value: "-1"}) }, ErrInvalidSundry},
		{"blank value", func() error { return c.AddSundry(models.SundryEntry{Category: models.SundryOther}) }, ErrInvalidSundry},
		{"update out of range", func() error { return c.UpdateSundry(0, models.SundryEntry{Category: models.SundryOther, Value: "1"}) }, ErrSundryIndex},
		{"delete out of range", func() error { return c.DeleteSundry(-1) }, ErrSundryIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if n := len(c.State().SundryEntries); n != 0 {
				t.Errorf("failed edit stored %d entries", n)
			}
		})
	}
}

func TestSetSundryEntriesClearsSundryErrors(t *testing.T) {
	c := newTestController(nil)
	c.SetSundryEntries([]models.SundryEntry{{Category: "", Value: "x"}})
	c.Validate()
	errs := c.State().Errors
	if _, ok := errs[billing.SundryKey(0, "category")]; !ok {
		t.Fatalf("expected sundry errors, got %v", errs)
	}

	entries := []models.SundryEntry{{Category: models.SundryOther, Value: "3.00"}}
	c.SetSundryEntries(entries)
	s := c.State()
	for k := range s.Errors {
		if strings.HasPrefix(k, billing.SundryKeyPrefix) {
			t.Errorf("sundry error %s survived", k)
		}
	}
	if _, ok := s.Errors[billing.KeyPartyName]; !ok {
		t.Error("non-sundry errors must survive")
	}
	entries[0].Value = "changed"
	if c.State().SundryEntries[0].Value != "3.00" {
		t.Error("controller aliases the caller's slice")
	}

}

func TestSetSundryEntriesOnFreshForm(t *testing.T) {
	c := newTestController(nil)
	c.SetSundryEntries([]models.SundryEntry{{Category: models.SundryTransport, Value: "25.00"}})
	s := c.State()
	if !s.SundryEnabled || len(s.SundryEntries) != 1 {
		t.Fatalf("state = %+v", s)
	}
	if got := billing.FormatAmount(c.Totals().SundryTotal); got != "25.00" {
		t.Errorf("sundry total = %s", got)
	}

	c.SetSundryEntries(nil)
	if s := c.State(); !s.SundryEnabled || len(s.SundryEntries) != 0 {
		t.Errorf("empty replace = %+v", s)
	}
}

func TestSaveBillScenario(t *testing.T) {
	p := &fakePersister{}
	c := newTestController(p)
	mustSetHeader(t, c, models.FieldBrokerName, "X")
	mustUpdate(t, c, "row-1", models.FieldItemName, "Copra")
	mustUpdate(t, c, "row-1", models.FieldQty, "2")
	mustUpdate(t, c, "row-1", models.FieldPrice, "100")
	before := c.State()

	err := c.SaveBill(context.Background())
	var vf *billing.ValidationFailedError
	if !errors.As(err, &vf) || !errors.Is(err, billing.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation failure", err)
	}
	if keys := vf.Errors.Keys(); !reflect.DeepEqual(keys, []string{"partyName"}) {
		t.Errorf("error keys = %v", keys)
	}
	after := c.State()
	if !reflect.DeepEqual(after.Header, before.Header) || !reflect.DeepEqual(after.Items, before.Items) {
		t.Error("failed save changed the form")
	}
	if len(p.saved) != 0 {
		t.Error("persister called on invalid form")
	}

	mustSetHeader(t, c, models.FieldPartyName, "Y")
	if err := c.SaveBill(context.Background()); err != nil {
		t.Fatalf("SaveBill: %v", err)
	}
	if len(p.saved) != 1 {
		t.Fatalf("saved %d bills", len(p.saved))
	}
	sub := p.saved[0]
	if sub.Header.PartyName != "Y" || sub.Header.BrokerName != "X" || sub.TaxEnabled {
		t.Errorf("submission header = %+v", sub)
	}
	if len(sub.Items) != 1 || sub.Items[0].Amount != "200.00" || sub.Items[0].ItemName != "Copra" {
		t.Errorf("submission items = %+v", sub.Items)
	}
	if c.ArchiveSize() != 0 {
		t.Error("save must not touch the archive")
	}

	reset := c.State()
	if reset.Header.PartyName != "" || len(reset.Items) != 1 || reset.Items[0].Qty != "" || len(reset.Errors) != 0 {
		t.Errorf("form not reset: %+v", reset)
	}
}

func TestSaveBillPersisterFailure(t *testing.T) {
	p := &fakePersister{err: errors.New("connection refused")}
	c := newTestController(p)
	fillValid(t, c, "Copra")
	before := c.State()

	err := c.SaveBill(context.Background())
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(c.State(), before) {
		t.Error("form changed after persister failure")
	}
}

func TestSaveAsReference(t *testing.T) {
	c := newTestController(nil)
	fillValid(t, c, "Copra")
	mustSetHeader(t, c, models.FieldOrderType, "sale")
	row := c.AddRow()
	mustUpdate(t, c, row.ID, models.FieldItemName, "Husk")
	mustUpdate(t, c, row.ID, models.FieldQty, "1")
	mustUpdate(t, c, row.ID, models.FieldPrice, "50.5")

	rec, err := c.SaveAsReference()
	if err != nil {
		t.Fatal(err)
	}
	want := models.ReferenceRecord{
		RefNo:    "REF-0001",
		Date:     "2025-06-01",
		Party:    "Naveen",
		ItemName: "Copra & 1 more",
		Amount:   "250.50",
		Type:     models.ReferenceTypeSale,
		Status:   models.StatusApproved,
	}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
	if refs := c.References(ReferenceFilter{}); len(refs) != 1 || refs[0] != want {
		t.Errorf("archive = %+v", refs)
	}
	if s := c.State(); s.Header.PartyName != "" || len(s.Items) != 1 {
		t.Errorf("form not reset: %+v", s)
	}
}

func TestSaveAsReferenceInvalid(t *testing.T) {
	c := newTestController(nil)
	before := c.State()
	if _, err := c.SaveAsReference(); !errors.Is(err, billing.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}
	if c.ArchiveSize() != 0 {
		t.Error("invalid form archived")
	}
	after := c.State()
	if !reflect.DeepEqual(after.Header, before.Header) || !reflect.DeepEqual(after.Items, before.Items) {
		t.Error("form changed after failed archive")
	}
	if len(after.Errors) == 0 {
		t.Error("errors not surfaced")
	}
}

func TestResetKeepsArchiveAndSort(t *testing.T) {
	c := newTestController(nil)
	fillValid(t, c, "Copra")
	if _, err := c.SaveAsReference(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SortReferences(models.RefKeyAmount); err != nil {
		t.Fatal(err)
	}
	c.ToggleTax(true)
	c.Reset()

	if c.ArchiveSize() != 1 {
		t.Error("reset cleared the archive")
	}
	if s := c.SortState(); s.Key != models.RefKeyAmount {
		t.Errorf("sort = %+v", s)
	}
	if c.State().TaxEnabled {
		t.Error("reset must disable tax")
	}
}

func TestSortReferences(t *testing.T) {
	c := newTestController(nil)
	for _, price := range []string{"5", "2.75", "10"} {
		fillValid(t, c, "Copra")
		mustUpdate(t, c, firstRowID(c), models.FieldPrice, price)
		if _, err := c.SaveAsReference(); err != nil {
			t.Fatal(err)
		}
	}

	amounts := func() []string { return column(c.References(ReferenceFilter{}), models.RefKeyAmount) }
	if got := amounts(); !reflect.DeepEqual(got, []string{"10.00", "5.50", "20.00"}) {
		t.Fatalf("insertion order = %v", got)
	}

	if _, err := c.SortReferences(models.RefKeyAmount); err != nil {
		t.Fatal(err)
	}
	if got := amounts(); !reflect.DeepEqual(got, []string{"5.50", "10.00", "20.00"}) {
		t.Errorf("ascending = %v", got)
	}
	s, _ := c.SortReferences(models.RefKeyAmount)
	if s.Direction != Descending {
		t.Errorf("state = %+v", s)
	}
	if got := amounts(); !reflect.DeepEqual(got, []string{"20.00", "10.00", "5.50"}) {
		t.Errorf("descending = %v", got)
	}

	if _, err := c.SortReferences("price"); !errors.Is(err, ErrUnknownSortKey) {
		t.Errorf("err = %v", err)
	}
	if s := c.SortState(); s.Key != models.RefKeyAmount || s.Direction != Descending {
		t.Errorf("unknown key changed sort: %+v", s)
	}
}
