package report

import (
	"BandWatch/internal/model"
	"BandWatch/internal/workbook"
)

// Column names shared by every style sheet.
const (
	ColumnStockName    = "Stock Name"
	ColumnCurrentPrice = "Current Price"
)

// BuildWorkbook lays out one sheet per trading style with a row per collected stock.
// Absent levels become absent cells.
func BuildWorkbook(records []*model.StockRecord) (*workbook.Workbook, error) {
	wb := workbook.New()
	for _, style := range model.Styles {
		s := wb.AddSheet(style.Name,
			ColumnStockName, ColumnCurrentPrice, style.SupportColumn(), style.ResistanceColumn())
		for _, rec := range records {
			band := rec.Band(style)
			if err := s.AppendRow(rec.Symbol, rec.CurrentPrice, level(band.Support), level(band.Resistance)); err != nil {
				return nil, err
			}
		}
	}
	return wb, nil
}

func level(v *float64) workbook.Cell {
	if v == nil {
		return nil
	}
	return *v
}
