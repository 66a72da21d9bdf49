package paygrid

// CellState is a cell together with its paid flag.
type CellState struct {
	Cell
	Paid bool `json:"paid"`
}

// RenderedGrid is the reconciled, ordered grid for one student.
type RenderedGrid struct {
	Cells []CellState `json:"cells"`
}

// Reconcile marks each cell paid iff records contain its key. Records that do
// not address any cell are ignored. The result depends only on the inputs.
func Reconcile(cells []Cell, records []Record) RenderedGrid {
	paid := make(map[Key]struct{}, len(records))
	for _, r := range records {
		paid[r.Key()] = struct{}{}
	}
	out := make([]CellState, len(cells))
	for i, c := range cells {
		_, ok := paid[c.Key]
		out[i] = CellState{Cell: c, Paid: ok}
	}
	return RenderedGrid{Cells: out}
}

// Cell looks up a cell by key.
func (g RenderedGrid) Cell(key Key) (CellState, bool) {
	for _, c := range g.Cells {
		if c.Key == key {
			return c, true
		}
	}
	return CellState{}, false
}

// PaidKeys lists the keys of paid cells in grid order.
func (g RenderedGrid) PaidKeys() []Key {
	var keys []Key
	for _, c := range g.Cells {
		if c.Paid {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// CellView is the render-ready form of a cell.
type CellView struct {
	ID          string `json:"id"`
	PaymentType string `json:"payment_type"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Label       string `json:"label"`
	Paid        bool   `json:"paid"`
}

// View converts the cell into its render-ready form.
func (c CellState) View() CellView {
	return CellView{
		ID:          c.Key.String(),
		PaymentType: c.PaymentType,
		Month:       c.Month,
		Year:        c.Year,
		Label:       c.Label,
		Paid:        c.Paid,
	}
}

// YearRow holds the twelve month cells of one year.
type YearRow struct {
	Year  int        `json:"year"`
	Cells []CellView `json:"cells"`
}

// GridView groups cells the way every renderer lays them out: one row of
// special payments followed by one row per year.
type GridView struct {
	Specials []CellView `json:"specials"`
	Years    []YearRow  `json:"years"`
}

// Views maps the grid onto view models, keeping grid order.
func (g RenderedGrid) Views() GridView {
	view := GridView{Specials: []CellView{}, Years: []YearRow{}}
	rowIndex := make(map[int]int)
	for _, c := range g.Cells {
		cv := c.View()
		if c.IsSpecial() {
			view.Specials = append(view.Specials, cv)
			continue
		}
		idx, ok := rowIndex[c.Year]
		if !ok {
			idx = len(view.Years)
			rowIndex[c.Year] = idx
			view.Years = append(view.Years, YearRow{Year: c.Year, Cells: make([]CellView, 0, 12)})
		}
		view.Years[idx].Cells = append(view.Years[idx].Cells, cv)
	}
	return view
}

// Strip renders the months of year as a 12-character string, "X" for paid and
// "-" for unpaid. Months missing from the grid render as "-".
func (g RenderedGrid) Strip(year int) string {
	strip := []byte("------------")
	for _, c := range g.Cells {
		if !c.IsSpecial() && c.Year == year && c.Paid && c.Month >= 1 && c.Month <= 12 {
			strip[c.Month-1] = 'X'
		}
	}
	return string(strip)
}
