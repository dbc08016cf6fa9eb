package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"BandWatch/internal/workbook"
)

var numericPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// ExtractNumber returns the first signed decimal number found in the cell's text,
// or nil when there is none. Applying it to its own output yields the same value.
func ExtractNumber(v workbook.Cell) workbook.Cell {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return n
	}
	match := numericPattern.FindString(fmt.Sprint(v))
	if match == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(match, "+"))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// IsLevelColumn reports whether a column holds support or resistance levels.
func IsLevelColumn(name string) bool {
	return strings.Contains(name, "Support") || strings.Contains(name, "Resistance")
}

// Clean returns a copy of wb with every support/resistance cell coerced to a number
// or to absent. Other columns are copied unchanged.
func Clean(wb *workbook.Workbook) *workbook.Workbook {
	out := wb.Clone()
	for _, s := range out.Sheets {
		for c, name := range s.Columns {
			if !IsLevelColumn(name) {
				continue
			}
			for _, row := range s.Rows {
				if c < len(row) {
					row[c] = ExtractNumber(row[c])
				}
			}
		}
	}
	return out
}
