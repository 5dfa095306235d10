// Package form implements the purchase/sale entry form: the controller that
// owns the form state and every transition on it, and the reference archive
// of finalized entries.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/catalog"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/models"
)

// DefaultAddRowKey is the key that appends a row when none is configured.
const DefaultAddRowKey = "F2"

// Submission is what a successful save hands to the persistence collaborator.
type Submission struct {
	Header        models.FormHeader    `json:"header"`
	Items         []models.LineItem    `json:"items"`
	SundryEntries []models.SundryEntry `json:"sundryEntries"`
	TaxEnabled    bool                 `json:"taxEnabled"`
}

// Persister stores a submitted bill. It accepts or rejects the whole
// submission.
type Persister interface {
	SaveBill(ctx context.Context, sub Submission) error
}

// State is a snapshot of the form.
type State struct {
	Header        models.FormHeader    `json:"header"`
	TaxEnabled    bool                 `json:"taxEnabled"`
	SundryEnabled bool                 `json:"sundryEnabled"`
	Items         []models.LineItem    `json:"items"`
	SundryEntries []models.SundryEntry `json:"sundryEntries"`
	Errors        billing.ErrorMap     `json:"errors"`
}

func (s State) clone() State {
	out := s
	out.Items = make([]models.LineItem, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	out.SundryEntries = make([]models.SundryEntry, len(s.SundryEntries))
	copy(out.SundryEntries, s.SundryEntries)
	out.Errors = s.Errors.Clone()
	return out
}

// View is the state plus the summary block.
type View struct {
	State
	Totals billing.TotalsView `json:"totals"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source used for the default entry date.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRowFactory replaces the row constructor.
func WithRowFactory(newRow func(taxEnabled bool) models.LineItem) Option {
	return func(c *Controller) { c.newRow = newRow }
}

// WithAddRowKey sets the key that appends a row.
func WithAddRowKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.addRowKey = key
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller owns one form and its reference archive. Every exported
// method is atomic with respect to the others.
type Controller struct {
	mu        sync.Mutex
	state     State
	archive   Archive
	sort      SortState
	persister Persister
	now       func() time.Time
	newRow    func(taxEnabled bool) models.LineItem
	addRowKey string
	log       zerolog.Logger
}

// NewController returns a controller holding a freshly reset form.
func NewController(persister Persister, opts ...Option) *Controller {
	c := &Controller{
		persister: persister,
		now:       time.Now,
		newRow:    billing.NewRow,
		addRowKey: DefaultAddRowKey,
		log:       logger.WithComponent("form"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// -------------------------
// Read side
// -------------------------

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	s := c.state.clone()
	totals := billing.ComputeTotals(s.Items, s.SundryEntries, s.TaxEnabled)
	return View{State: s, Totals: totals.Format(s.TaxEnabled)}
}

func (c *Controller) Totals() billing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return billing.ComputeTotals(c.state.Items, c.state.SundryEntries, c.state.TaxEnabled)
}

// -------------------------
// Header & tax mode
// -------------------------

// SetHeaderField updates one header field and clears its error.
func (c *Controller) SetHeaderField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.state.Header
	switch field {
	case models.FieldEntryDate:
		if _, ok := ParseDate(value); !ok {
			return &billing.FieldError{Field: field, Value: value, Err: billing.ErrInvalidValue}
		}
		h.EntryDate = value
	case models.FieldOrderType:
		t := models.OrderType(value)
		if !t.Valid() {
			return &billing.FieldError{Field: field, Value: value, Err: billing.ErrInvalidValue}
		}
		h.OrderType = t
	case models.FieldPartyName:
		h.PartyName = value
	case models.FieldBrokerName:
		h.BrokerName = value
	default:
		return &billing.FieldError{Field: field, Err: billing.ErrUnknownField}
	}

	c.state.Header = h
	c.state.Errors = c.state.Errors.Without(field)
	return nil
}

// ToggleTax switches the tax mode. The rows and sundry entries are
// discarded and a single fresh row of the new mode takes their place.
func (c *Controller) ToggleTax(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.TaxEnabled = enabled
	c.state.Items = []models.LineItem{c.newRow(enabled)}
	c.state.SundryEntries = []models.SundryEntry{}
	c.state.Errors = billing.ErrorMap{}
}

// -------------------------
// Rows
// -------------------------

func (c *Controller) indexOf(id string) int {
	for i, item := range c.state.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem writes a field of the row with the given id and recomputes
// its derived values.
func (c *Controller) UpdateItem(id, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	updated, err := billing.SetField(c.state.Items[idx], field, value, c.state.TaxEnabled)
	if err != nil {
		return err
	}

	items := make([]models.LineItem, len(c.state.Items))
	copy(items, c.state.Items)
	items[idx] = updated
	c.state.Items = items
	c.state.Errors = c.state.Errors.Without(billing.ItemKey(idx, field))
	return nil
}

// AddRow appends a fresh row of the current tax mode.
func (c *Controller) AddRow() models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addRowLocked()
}

func (c *Controller) addRowLocked() models.LineItem {
	row := c.newRow(c.state.TaxEnabled)
	items := make([]models.LineItem, len(c.state.Items), len(c.state.Items)+1)
	copy(items, c.state.Items)
	c.state.Items = append(items, row)
	return row.Clone()
}

// DeleteRow removes a row. The list never ends up empty: removing the last
// row puts a fresh one in its place. All errors are cleared since their
// positional keys no longer line up.
func (c *Controller) DeleteRow(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	items := make([]models.LineItem, 0, len(c.state.Items))
	items = append(items, c.state.Items[:idx]...)
	items = append(items, c.state.Items[idx+1:]...)
	if len(items) == 0 {
		items = append(items, c.newRow(c.state.TaxEnabled))
	}
	c.state.Items = items
	c.state.Errors = billing.ErrorMap{}
	return nil
}

// HandleKey runs the shortcut bound to key and reports whether one ran.
func (c *Controller) HandleKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !strings.EqualFold(key, c.addRowKey) {
		return false
	}
	c.addRowLocked()
	return true
}

// -------------------------
// Sundry
// -------------------------

// SetSundryEntries replaces the sundry list and clears the sundry errors.
// A non-empty list turns the sundry section on.
func (c *Controller) SetSundryEntries(entries []models.SundryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(entries) > 0 {
		c.state.SundryEnabled = true
	}
	c.setSundryLocked(entries)
}

func (c *Controller) setSundryLocked(entries []models.SundryEntry) {
	list := make([]models.SundryEntry, len(entries))
	copy(list, entries)
	c.state.SundryEntries = list
	c.state.Errors = c.state.Errors.WithoutPrefix(billing.SundryKeyPrefix)
}

// SetSundryEnabled turns the sundry section on or off. Off clears the list.
func (c *Controller) SetSundryEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SundryEnabled = enabled
	if !enabled {
		c.setSundryLocked(nil)
	}
}

// checkSundry applies the entry form rules and normalizes the value to
// two decimals.
func checkSundry(e models.SundryEntry) (models.SundryEntry, error) {
	if !catalog.IsSundryCategory(e.Category) {
		return e, fmt.Errorf("%w: unknown category %q", ErrInvalidSundry, e.Category)
	}
	v, ok := billing.ParseNumber(e.Value)
	if strings.TrimSpace(e.Value) == "" || !ok || v < 0 {
		return e, fmt.Errorf("%w: value %q must be a non-negative number", ErrInvalidSundry, e.Value)
	}
	value := billing.FormatAmount(v)
	if value == "" {
		return e, fmt.Errorf("%w: value %q is out of range", ErrInvalidSundry, e.Value)
	}
	e.Value = value
	return e, nil
}

// AddSundry appends a checked entry.
func (c *Controller) AddSundry(e models.SundryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.SundryEnabled {
		return ErrSundryDisabled
	}
	entry, err := checkSundry(e)
	if err != nil {
		return err
	}
	list := make([]models.SundryEntry, len(c.state.SundryEntries), len(c.state.SundryEntries)+1)
	copy(list, c.state.SundryEntries)
	c.setSundryLocked(append(list, entry))
	return nil
}

// UpdateSundry replaces the entry at index with a checked entry.
func (c *Controller) UpdateSundry(index int, e models.SundryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.SundryEnabled {
		return ErrSundryDisabled
	}
	if index < 0 || index >= len(c.state.SundryEntries) {
		return fmt.Errorf("%w: %d", ErrSundryIndex, index)
	}
	entry, err := checkSundry(e)
	if err != nil {
		return err
	}
	list := make([]models.SundryEntry, len(c.state.SundryEntries))
	copy(list, c.state.SundryEntries)
	list[index] = entry
	c.setSundryLocked(list)
	return nil
}

// DeleteSundry removes the entry at index.
func (c *Controller) DeleteSundry(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.SundryEnabled {
		return ErrSundryDisabled
	}
	if index < 0 || index >= len(c.state.SundryEntries) {
		return fmt.Errorf("%w: %d", ErrSundryIndex, index)
	}
	list := make([]models.SundryEntry, 0, len(c.state.SundryEntries)-1)
	list = append(list, c.state.SundryEntries[:index]...)
	list = append(list, c.state.SundryEntries[index+1:]...)
	c.setSundryLocked(list)
	return nil
}

// -------------------------
// Validation, save, archive
// -------------------------

// Validate runs the full validation pass and stores its result.
func (c *Controller) Validate() billing.ErrorMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked().Clone()
}

func (c *Controller) validateLocked() billing.ErrorMap {
	s := c.state
	errs := billing.Validate(s.Header, s.Items, s.SundryEntries, s.TaxEnabled)
	c.state.Errors = errs
	if !errs.Valid() {
		c.log.Warn().Int("error_count", len(errs)).Strs("keys", errs.Keys()).Msg("Form validation failed")
	}
	return errs
}

// SaveBill validates the form and hands it to the persister. On success the
// form is reset; on any failure nothing but the error map changes.
func (c *Controller) SaveBill(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errs := c.validateLocked(); !errs.Valid() {
		return &billing.ValidationFailedError{Errors: errs.Clone()}
	}

	s := c.state.clone()
	sub := Submission{
		Header:        s.Header,
		Items:         s.Items,
		SundryEntries: s.SundryEntries,
		TaxEnabled:    s.TaxEnabled,
	}
	if c.persister != nil {
		if err := c.persister.SaveBill(ctx, sub); err != nil {
			c.log.Error().Err(err).Msg("Bill could not be persisted")
			return fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
	}

	c.log.Info().
		Str("party", sub.Header.PartyName).
		Int("items", len(sub.Items)).
		Bool("tax_enabled", sub.TaxEnabled).
		Msg("Bill saved")
	c.resetLocked()
	return nil
}

// SaveAsReference validates the form, archives its summary and resets it.
func (c *Controller) SaveAsReference() (models.ReferenceRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errs := c.validateLocked(); !errs.Valid() {
		return models.ReferenceRecord{}, &billing.ValidationFailedError{Errors: errs.Clone()}
	}

	s := c.state
	totals := billing.ComputeTotals(s.Items, s.SundryEntries, s.TaxEnabled)

	party := s.Header.PartyName
	if strings.TrimSpace(party) == "" {
		party = "N/A"
	}
	refType := models.ReferenceTypePurchase
	if s.Header.OrderType == models.OrderTypeSale {
		refType = models.ReferenceTypeSale
	}

	rec := models.ReferenceRecord{
		RefNo:    c.archive.NextRefNo(),
		Date:     s.Header.EntryDate,
		Party:    party,
		ItemName: billing.DescribeItems(s.Items),
		Amount:   billing.FormatAmount(totals.GrandTotal),
		Type:     refType,
		Status:   models.StatusApproved,
	}
	c.archive.Append(rec)

	c.log.Info().
		Str("ref_no", rec.RefNo).
		Str("amount", rec.Amount).
		Int("archive_size", c.archive.Len()).
		Msg("Reference record added")
	c.resetLocked()
	return rec, nil
}

// Reset restores the default form. The archive and its sort are kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.state.Header = models.FormHeader{
		EntryDate: c.now().Format("2006-01-02"),
		OrderType: models.OrderTypePurchase,
	}
	c.state.TaxEnabled = false
	c.state.Items = []models.LineItem{c.newRow(false)}
	c.state.SundryEntries = []models.SundryEntry{}
	c.state.Errors = billing.ErrorMap{}
	c.log.Debug().Msg("Form has been reset")
}

// -------------------------
// Reference listing
// -------------------------

// SortReferences applies a column pick to the listing sort.
func (c *Controller) SortReferences(key string) (SortState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !SortableKey(key) {
		return c.sort, fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
	}
	c.sort = c.sort.Next(key)
	return c.sort, nil
}

func (c *Controller) SortState() SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// References returns the filtered, sorted projection of the archive.
func (c *Controller) References(f ReferenceFilter) []models.ReferenceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SortRecords(f.Apply(c.archive.Records()), c.sort)
}

// ArchiveSize returns the number of archived records.
func (c *Controller) ArchiveSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.archive.Len()
}
