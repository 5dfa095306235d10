package trade

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/models"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ReferenceSheet  = "References"
)

var referenceColumns = []struct {
	title string
	width float64
}{
	{"Ref No.", 12},
	{"Date", 12},
	{"Party", 24},
	{"Item Name", 32},
	{"Amount", 14},
	{"Type", 10},
	{"Status", 10},
}

// WriteReferenceWorkbook renders the records, in the given order, as a
// single-sheet workbook. Amounts are written as numbers when they parse.
func WriteReferenceWorkbook(records []models.ReferenceRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReferenceSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(referenceColumns))
	for i, col := range referenceColumns {
		header[i] = col.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ReferenceSheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(ReferenceSheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(referenceColumns), 1)
	if err := f.SetCellStyle(ReferenceSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	for i, r := range records {
		var amount interface{} = r.Amount
		if v, ok := billing.ParseNumber(r.Amount); ok {
			amount = v
		}
		row := []interface{}{r.RefNo, r.Date, r.Party, r.ItemName, amount, string(r.Type), string(r.Status)}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ReferenceSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
		amountCell, _ := excelize.CoordinatesToCellName(5, i+2)
		if err := f.SetCellStyle(ReferenceSheet, amountCell, amountCell, money); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
