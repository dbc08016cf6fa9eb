package model

// TradingStyle maps a named trading horizon to a rolling window in trading days.
type TradingStyle struct {
	Name   string
	Window int
}

var (
	StyleSwing    = TradingStyle{Name: "Swing", Window: 50}
	StyleIntraday = TradingStyle{Name: "Intraday", Window: 10}
	StyleLongTerm = TradingStyle{Name: "Long Term", Window: 200}
	StyleMomentum = TradingStyle{Name: "Momentum", Window: 30}
	StyleScalping = TradingStyle{Name: "Scalping", Window: 5}
)

// Styles lists every trading style in workbook sheet order.
var Styles = []TradingStyle{StyleSwing, StyleIntraday, StyleLongTerm, StyleMomentum, StyleScalping}

// SupportColumn is the sheet column holding the style's support level.
func (s TradingStyle) SupportColumn() string { return "Support " + s.Name }

// ResistanceColumn is the sheet column holding the style's resistance level.
func (s TradingStyle) ResistanceColumn() string { return "Resistance " + s.Name }

// StyleByName looks up a trading style by its sheet name.
func StyleByName(name string) (TradingStyle, bool) {
	for _, s := range Styles {
		if s.Name == name {
			return s, true
		}
	}
	return TradingStyle{}, false
}

// Band is a support/resistance pair. A nil level means not enough history.
type Band struct {
	Support    *float64
	Resistance *float64
}

// Complete reports whether both levels are present.
func (b Band) Complete() bool { return b.Support != nil && b.Resistance != nil }

// StockRecord is the per-stock result of fetching and band computation.
type StockRecord struct {
	Symbol       string
	CurrentPrice float64
	Bars         int
	Bands        map[string]Band // keyed by style name
}

// Band returns the record's band for the given style.
func (r *StockRecord) Band(style TradingStyle) Band {
	if r.Bands == nil {
		return Band{}
	}
	return r.Bands[style.Name]
}

// Proximity labels written to the annotated workbook.
const (
	LabelNearSupport    = "Near Support"
	LabelNearResistance = "Near Resistance"
	LabelNeutral        = "Neutral"
)

// Proximity is the classification of a current price against a band.
type Proximity struct {
	NearSupport    string
	NearResistance string
}

// SkippedStock records a symbol dropped during collection and why.
type SkippedStock struct {
	Symbol string
	Reason string
}
