package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Write saves the workbook as an .xlsx file, one worksheet per sheet in order.
func Write(wb *Workbook, path string) error {
	if len(wb.Sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, s := range wb.Sheets {
		if i == 0 {
			if err := fx.SetSheetName(fx.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", s.Name, err)
			}
		} else if _, err := fx.NewSheet(s.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(fx, s, headerStyle); err != nil {
			return err
		}
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(fx *excelize.File, s *Sheet, headerStyle int) error {
	header := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := fx.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %q header: %w", s.Name, err)
	}
	if len(s.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Columns), 1)
		if err := fx.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("sheet %q header style: %w", s.Name, err)
		}
	}

	for r, row := range s.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		values := make([]any, len(row))
		for i, v := range row {
			// absent cells stay blank
			if v != nil {
				values[i] = v
			}
		}
		if err := fx.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", s.Name, r+2, err)
		}
	}
	return nil
}

// Read loads every worksheet of an .xlsx file. The first row of each sheet is the
// header. Numeric cells come back as float64, other non-blank cells as their raw
// text and blank cells as absent.
func Read(path string) (*Workbook, error) {
	fx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fx.Close()

	wb := New()
	for _, name := range fx.GetSheetList() {
		rows, err := fx.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		s := wb.AddSheet(name)
		if len(rows) == 0 {
			continue
		}
		s.Columns = append(s.Columns, rows[0]...)
		for r, raw := range rows[1:] {
			row := make([]Cell, len(s.Columns))
			for i := range row {
				if i >= len(raw) || raw[i] == "" {
					continue
				}
				row[i] = readCell(fx, name, i+1, r+2, raw[i])
			}
			s.Rows = append(s.Rows, row)
		}
	}
	return wb, nil
}

func readCell(fx *excelize.File, sheet string, col, row int, raw string) Cell {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := fx.GetCellType(sheet, name)
	if err != nil {
		return raw
	}
	// numeric cells carry no type attribute
	if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// LoadSymbols reads the identifiers listed under column in the given sheet.
// Blank cells are ignored and values are trimmed.
func LoadSymbols(path, sheet, column string) ([]string, error) {
	fx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer fx.Close()

	if idx, _ := fx.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("input %s: sheet %q not found", path, sheet)
	}
	rows, err := fx.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input %s: sheet %q is empty", path, sheet)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("input %s: column %q not found in sheet %q", path, column, sheet)
	}

	var symbols []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			symbols = append(symbols, v)
		}
	}
	return symbols, nil
}
