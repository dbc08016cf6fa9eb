package workbook

import "fmt"

// Cell is a sheet value: nil (absent), float64 or string.
type Cell = any

// Sheet is a table with a header row of column names.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// Workbook is an ordered collection of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// New returns an empty workbook.
func New() *Workbook { return &Workbook{} }

// AddSheet appends a sheet with the given columns and returns it.
func (w *Workbook) AddSheet(name string, columns ...string) *Sheet {
	s := &Sheet{Name: name, Columns: append([]string(nil), columns...)}
	w.Sheets = append(w.Sheets, s)
	return s
}

// Sheet returns the named sheet or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SheetNames lists sheet names in order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Clone returns a deep copy so a stage can transform it without touching its input.
func (w *Workbook) Clone() *Workbook {
	out := &Workbook{Sheets: make([]*Sheet, len(w.Sheets))}
	for i, s := range w.Sheets {
		out.Sheets[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	out := &Sheet{
		Name:    s.Name,
		Columns: append([]string(nil), s.Columns...),
		Rows:    make([][]Cell, len(s.Rows)),
	}
	for i, row := range s.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (s *Sheet) HasColumns(names ...string) bool {
	for _, n := range names {
		if s.ColumnIndex(n) < 0 {
			return false
		}
	}
	return true
}

// AppendRow adds a row. Rows shorter than the header are padded with absent cells.
func (s *Sheet) AppendRow(cells ...Cell) error {
	if len(cells) > len(s.Columns) {
		return fmt.Errorf("sheet %q: row has %d cells, header has %d", s.Name, len(cells), len(s.Columns))
	}
	row := make([]Cell, len(s.Columns))
	copy(row, cells)
	s.Rows = append(s.Rows, row)
	return nil
}

// AddColumn appends a column filled with values, one per existing row.
func (s *Sheet) AddColumn(name string, values []Cell) error {
	if len(values) != len(s.Rows) {
		return fmt.Errorf("sheet %q: column %q has %d values for %d rows", s.Name, name, len(values), len(s.Rows))
	}
	s.Columns = append(s.Columns, name)
	for i := range s.Rows {
		s.Rows[i] = append(s.Rows[i], values[i])
	}
	return nil
}

// Value returns the cell at row i in the named column; absent if the column is missing.
func (s *Sheet) Value(i int, column string) Cell {
	c := s.ColumnIndex(column)
	if c < 0 || i < 0 || i >= len(s.Rows) || c >= len(s.Rows[i]) {
		return nil
	}
	return s.Rows[i][c]
}
