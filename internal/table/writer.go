package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet written by WriteXLSX when none is given.
const DefaultSheet = "Sheet1"

// WriteCSV writes the header row followed by every data row.
func WriteCSV(w io.Writer, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for _, record := range t.Records() {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to a new workbook at path. Times and values are
// stored as numbers, padding cells as the marker text and number.
func WriteXLSX(path string, t *Table, sheet string) (err error) {
	if err := t.Validate(); err != nil {
		return err
	}
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing workbook: %w", cerr)
		}
	}()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("error naming sheet: %w", err)
		}
	}

	for c, label := range t.Header() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}

	for r, row := range t.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, xlsxValue(value)); err != nil {
				return fmt.Errorf("error writing %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}

func xlsxValue(c Cell) any {
	switch {
	case c.Kind == TimeColumn && c.Missing:
		return MissingTime
	case c.Kind == TimeColumn:
		return c.Time
	case c.Missing:
		return MissingValue
	default:
		return c.Value
	}
}
