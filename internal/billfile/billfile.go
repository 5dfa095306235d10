// Package billfile reads bills written as YAML and replays them through a
// form controller, the way an operator would type them in.
package billfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/models"
)

// Item is one row of a bill file. Empty fields keep the row default.
type Item struct {
	ItemName    string `yaml:"itemName"`
	Qty         string `yaml:"qty"`
	UOM         string `yaml:"uom"`
	Price       string `yaml:"price"`
	DebitCredit string `yaml:"debitCredit"`
	CGSTPercent string `yaml:"cgstPercent"`
	SGSTPercent string `yaml:"sgstPercent"`
}

type Bill struct {
	Header     models.FormHeader    `yaml:"header"`
	TaxEnabled bool                 `yaml:"taxEnabled"`
	Items      []Item               `yaml:"items"`
	Sundry     []models.SundryEntry `yaml:"sundry"`
}

func Parse(data []byte) (*Bill, error) {
	var b Bill
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bill: %w", err)
	}
	return &b, nil
}

func Load(path string) (*Bill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bill file: %w", err)
	}
	return Parse(data)
}

func (it Item) fields() [][2]string {
	return [][2]string{
		{models.FieldItemName, it.ItemName},
		{models.FieldUOM, it.UOM},
		{models.FieldDebitCredit, it.DebitCredit},
		{models.FieldCGSTPercent, it.CGSTPercent},
		{models.FieldSGSTPercent, it.SGSTPercent},
		{models.FieldQty, it.Qty},
		{models.FieldPrice, it.Price},
	}
}

// Replay applies the bill to ctl. Sundry entries are set as written so
// that validation can report bad ones.
func (b *Bill) Replay(ctl *form.Controller) error {
	ctl.Reset()

	header := [][2]string{
		{models.FieldEntryDate, b.Header.EntryDate},
		{models.FieldOrderType, string(b.Header.OrderType)},
		{models.FieldPartyName, b.Header.PartyName},
		{models.FieldBrokerName, b.Header.BrokerName},
	}
	for _, h := range header {
		if h[1] == "" {
			continue
		}
		if err := ctl.SetHeaderField(h[0], h[1]); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}

	if b.TaxEnabled {
		ctl.ToggleTax(true)
	}

	for i, it := range b.Items {
		var id string
		if i == 0 {
			id = ctl.State().Items[0].ID
		} else {
			id = ctl.AddRow().ID
		}
		for _, f := range it.fields() {
			if f[1] == "" {
				continue
			}
			if err := ctl.UpdateItem(id, f[0], f[1]); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
		}
	}

	if len(b.Sundry) > 0 {
		ctl.SetSundryEntries(b.Sundry)
	}
	return nil
}
