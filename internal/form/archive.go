package form

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/models"
)

// Archive is the append-only list of reference records of one session.
type Archive struct {
	records []models.ReferenceRecord
	seq     int
}

// NextRefNo reserves the next reference number. Numbers come from a
// counter so they never repeat within the archive.
func (a *Archive) NextRefNo() string {
	a.seq++
	return fmt.Sprintf("REF-%04d", a.seq)
}

func (a *Archive) Append(r models.ReferenceRecord) {
	a.records = append(a.records, r)
}

func (a *Archive) Len() int {
	return len(a.records)
}

// Records returns the records in insertion order.
func (a *Archive) Records() []models.ReferenceRecord {
	out := make([]models.ReferenceRecord, len(a.records))
	copy(out, a.records)
	return out
}

// -------------------------
// Sorting
// -------------------------

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortState is the active column and direction of the reference listing.
// An empty Key means insertion order.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Next returns the state after the operator picks key: the same column
// flips ascending to descending, anything else starts ascending.
func (s SortState) Next(key string) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// SortableKey reports whether key names a reference column.
func SortableKey(key string) bool {
	_, ok := models.ReferenceRecord{}.Text(key)
	return ok
}

var dateLayouts = []string{"2006-1-2", "2006/1/2", time.RFC3339}

// ParseDate reads an entry date. Month and day may omit the leading zero.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// unparseable values sort after parseable ones
func compareValid(aok, bok bool) (int, bool) {
	switch {
	case aok && bok:
		return 0, false
	case aok:
		return -1, true
	case bok:
		return 1, true
	}
	return 0, true
}

func compareDates(a, b string) int {
	da, aok := ParseDate(a)
	db, bok := ParseDate(b)
	if c, done := compareValid(aok, bok); done {
		return c
	}
	return da.Compare(db)
}

func compareAmounts(a, b string) int {
	na, aok := billing.ParseNumber(a)
	nb, bok := billing.ParseNumber(b)
	if c, done := compareValid(aok, bok); done {
		return c
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}

func compareFolded(fold cases.Caser, a, b string) int {
	return strings.Compare(fold.String(a), fold.String(b))
}

// SortRecords returns a sorted copy of records. Equal values keep their
// insertion order in both directions.
func SortRecords(records []models.ReferenceRecord, s SortState) []models.ReferenceRecord {
	out := make([]models.ReferenceRecord, len(records))
	copy(out, records)
	if s.Key == "" || !SortableKey(s.Key) {
		return out
	}

	fold := cases.Fold()
	cmp := func(a, b models.ReferenceRecord) int {
		av, _ := a.Text(s.Key)
		bv, _ := b.Text(s.Key)
		switch s.Key {
		case models.RefKeyDate:
			return compareDates(av, bv)
		case models.RefKeyAmount:
			return compareAmounts(av, bv)
		}
		return compareFolded(fold, av, bv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// ReferenceFilter narrows the listing; empty fields match everything.
type ReferenceFilter struct {
	Type   string
	Party  string
	Status string
}

func (f ReferenceFilter) empty() bool {
	return f.Type == "" && f.Party == "" && f.Status == ""
}

// Apply keeps the records matching every set field, ignoring case.
func (f ReferenceFilter) Apply(records []models.ReferenceRecord) []models.ReferenceRecord {
	if f.empty() {
		return records
	}
	out := make([]models.ReferenceRecord, 0, len(records))
	for _, r := range records {
		if f.Type != "" && !strings.EqualFold(f.Type, string(r.Type)) {
			continue
		}
		if f.Party != "" && !strings.EqualFold(f.Party, r.Party) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(f.Status, string(r.Status)) {
			continue
		}
		out = append(out, r)
	}
	return out
}
