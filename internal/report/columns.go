package report

// Column is one projectable table column. Order values across a ColumnSet
// are always the contiguous permutation 0..N-1.
type Column struct {
	ID      string
	Title   string
	Visible bool
	Order   int
}

// ColumnSet owns the ordered, toggle-able column list shared by the table
// view and the exporters.
type ColumnSet struct {
	cols []Column
}

// Column IDs. They double as export formatter keys.
const (
	ColDate        = "date"
	ColClient      = "client"
	ColJob         = "job"
	ColJobType     = "jobType"
	ColTeamMember  = "teamMember"
	ColDescription = "description"
	ColPurpose     = "purpose"
	ColBillable    = "billable"
	ColDuration    = "duration"
	ColRate        = "rate"
	ColAmount      = "amount"
	ColStatus      = "status"
)

// DefaultColumns returns the stock projection for the time-log table.
func DefaultColumns() *ColumnSet {
	titles := []struct {
		id, title string
		visible   bool
	}{
		{ColDate, "Date", true},
		{ColClient, "Client", true},
		{ColJob, "Job", true},
		{ColJobType, "Job Type", false},
		{ColTeamMember, "Team Member", true},
		{ColDescription, "Description", true},
		{ColPurpose, "Purpose", false},
		{ColBillable, "Billable", false},
		{ColDuration, "Duration", true},
		{ColRate, "Rate", false},
		{ColAmount, "Amount", true},
		{ColStatus, "Status", true},
	}

	cs := &ColumnSet{}
	for i, t := range titles {
		cs.cols = append(cs.cols, Column{ID: t.id, Title: t.title, Visible: t.visible, Order: i})
	}
	return cs
}

// NewColumnSet builds a set from explicit columns, renumbering orders to
// 0..N-1 in the given slice order.
func NewColumnSet(cols []Column) *ColumnSet {
	cs := &ColumnSet{cols: make([]Column, len(cols))}
	copy(cs.cols, cols)
	cs.renumber()
	return cs
}

// All returns every column sorted by order, visible or not.
func (cs *ColumnSet) All() []Column {
	out := make([]Column, len(cs.cols))
	copy(out, cs.cols)
	sortByOrder(out)
	return out
}

// VisibleOrdered returns the visible columns sorted by order.
func (cs *ColumnSet) VisibleOrdered() []Column {
	var out []Column
	for _, c := range cs.All() {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Toggle flips a column's visibility. Unknown IDs are ignored.
func (cs *ColumnSet) Toggle(id string) {
	for i := range cs.cols {
		if cs.cols[i].ID == id {
			cs.cols[i].Visible = !cs.cols[i].Visible
			return
		}
	}
}

// Reorder moves the dragged column to the target column's position and
// renumbers everything contiguously. Unknown IDs leave the set untouched.
func (cs *ColumnSet) Reorder(draggedID, targetID string) {
	if draggedID == targetID {
		return
	}
	ordered := cs.All()
	from, to := -1, -1
	for i, c := range ordered {
		if c.ID == draggedID {
			from = i
		}
		if c.ID == targetID {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return
	}
	cs.cols = Move(ordered, from, to)
	cs.renumber()
}

// MoveIndex moves the column at position from to position to (positions in
// order space) and renumbers.
func (cs *ColumnSet) MoveIndex(from, to int) {
	cs.cols = Move(cs.All(), from, to)
	cs.renumber()
}

// renumber assigns Order 0..N-1 following the current slice order. Callers
// hand it the slice already arranged as intended.
func (cs *ColumnSet) renumber() {
	for i := range cs.cols {
		cs.cols[i].Order = i
	}
}

func sortByOrder(cols []Column) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j].Order < cols[j-1].Order; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}
}

// Move returns list with the element at from relocated to index to. It is
// the pure function behind drag-and-drop reordering, independent of any
// event plumbing. Out-of-range indexes return the input unchanged.
func Move(list []Column, from, to int) []Column {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return list
	}
	out := make([]Column, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:to], append([]Column{list[from]}, out[to:]...)...)
	return out
}
