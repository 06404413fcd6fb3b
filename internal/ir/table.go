package ir

// Table represents a pipe table. Cells are span sequences. Rows are not
// reconciled against the header, so a row may be shorter or longer.
type Table struct {
	Headers [][]Span   `json:"headers"`
	Rows    [][][]Span `json:"rows"`
}

// NewTable creates a table with the given header cells.
func NewTable(headers [][]Span) *Table {
	return &Table{
		Headers: headers,
		Rows:    make([][][]Span, 0),
	}
}

// AddRow appends a body row.
func (t *Table) AddRow(cells [][]Span) {
	t.Rows = append(t.Rows, cells)
}

// Cols returns the widest column count across header and rows.
func (t *Table) Cols() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Cell returns the cell at (row, col), or nil when the row is too short.
// Row -1 addresses the header.
func (t *Table) Cell(row, col int) []Span {
	cells := t.Headers
	if row >= 0 {
		if row >= len(t.Rows) {
			return nil
		}
		cells = t.Rows[row]
	}
	if col < 0 || col >= len(cells) {
		return nil
	}
	return cells[col]
}

