package proximity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"BandWatch/internal/model"
	"BandWatch/internal/report"
	"BandWatch/internal/workbook"
)

// DefaultRatio is the share of the current price within which a level counts as near.
const DefaultRatio = 0.05

// Annotation column names.
const (
	ColumnNearSupport    = "Near Support"
	ColumnNearResistance = "Near Resistance"
)

// Classify labels the price against each level using threshold = price × ratio.
// A level is near when |price − level| ≤ threshold. An absent price or level
// classifies as Neutral.
func Classify(price, support, resistance *float64, ratio float64) model.Proximity {
	p := model.Proximity{NearSupport: model.LabelNeutral, NearResistance: model.LabelNeutral}
	if price == nil {
		return p
	}
	cur := decimal.NewFromFloat(*price)
	threshold := cur.Mul(decimal.NewFromFloat(ratio))

	if within(cur, support, threshold) {
		p.NearSupport = model.LabelNearSupport
	}
	if within(cur, resistance, threshold) {
		p.NearResistance = model.LabelNearResistance
	}
	return p
}

func within(price decimal.Decimal, level *float64, threshold decimal.Decimal) bool {
	if level == nil {
		return false
	}
	return price.Sub(decimal.NewFromFloat(*level)).Abs().LessThanOrEqual(threshold)
}

// Annotate returns a copy of wb where every style sheet carrying Current Price,
// Support <Style> and Resistance <Style> gains Near Support and Near Resistance
// columns. Other sheets are copied unchanged.
func Annotate(wb *workbook.Workbook, ratio float64) (*workbook.Workbook, error) {
	out := wb.Clone()
	for _, s := range out.Sheets {
		supportCol := "Support " + s.Name
		resistanceCol := "Resistance " + s.Name
		if !s.HasColumns(report.ColumnCurrentPrice, supportCol, resistanceCol) {
			continue
		}

		nearSupport := make([]workbook.Cell, len(s.Rows))
		nearResistance := make([]workbook.Cell, len(s.Rows))
		for i := range s.Rows {
			p := Classify(
				number(s.Value(i, report.ColumnCurrentPrice)),
				number(s.Value(i, supportCol)),
				number(s.Value(i, resistanceCol)),
				ratio,
			)
			nearSupport[i] = p.NearSupport
			nearResistance[i] = p.NearResistance
		}
		if err := s.AddColumn(ColumnNearSupport, nearSupport); err != nil {
			return nil, fmt.Errorf("annotate %q: %w", s.Name, err)
		}
		if err := s.AddColumn(ColumnNearResistance, nearResistance); err != nil {
			return nil, fmt.Errorf("annotate %q: %w", s.Name, err)
		}
	}
	return out, nil
}

// number reads a cell as a float. Text cells (left by a file round trip) are parsed.
func number(v workbook.Cell) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}
