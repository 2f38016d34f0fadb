package planner

import "fmt"

// tableRegistry owns the rectangular tables, in creation order, and the U-table.
type tableRegistry struct {
	tables []*Table
	uTable *UTable
	newID  func() string
}

func newTableRegistry(newID func() string, defaults UTableInput) *tableRegistry {
	return &tableRegistry{
		tables: []*Table{},
		uTable: newUTable(defaults),
		newID:  newID,
	}
}

func newUTable(in UTableInput) *UTable {
	u := &UTable{LeftSeats: in.Left, RightSeats: in.Right, BottomSeats: in.Bottom}
	u.Seats = make([]*Occupancy, u.Total())

	return u
}

func (r *tableRegistry) replace(tables []*Table, uTable *UTable) {
	r.tables = make([]*Table, 0, len(tables))

	for _, t := range tables {
		r.tables = append(r.tables, t.clone())
	}

	r.renumber()

	r.uTable = uTable.clone()
}

func (r *tableRegistry) create(seatCount int) (*Table, error) {
	if seatCount < 1 {
		return nil, fmt.Errorf("%w: a table needs at least one seat, got %d", ErrValidation, seatCount)
	}

	table := &Table{
		ID:     r.newID(),
		Number: len(r.tables) + 1,
		Seats:  make([]*Occupancy, seatCount),
	}

	r.tables = append(r.tables, table)

	return table, nil
}

func (r *tableRegistry) get(id string) (*Table, error) {
	for _, t := range r.tables {
		if t.ID == id {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: table %s", ErrNotFound, id)
}

// remove drops the table and renumbers the remaining ones from 1, keeping their order.
func (r *tableRegistry) remove(id string) {
	for i, t := range r.tables {
		if t.ID == id {
			r.tables = append(r.tables[:i], r.tables[i+1:]...)

			break
		}
	}

	r.renumber()
}

func (r *tableRegistry) renumber() {
	for i, t := range r.tables {
		t.Number = i + 1
	}
}

// area returns the seats addressed by a table id, the U-table included.
func (r *tableRegistry) area(id string) (*area, error) {
	if id == UTableID {
		u := r.uTable

		return &area{id: id, seats: u.Seats, neighbours: u.neighbours}, nil
	}

	t, err := r.get(id)
	if err != nil {
		return nil, err
	}

	return &area{id: id, seats: t.Seats, neighbours: rowNeighbours(len(t.Seats))}, nil
}

// areas returns every seat area, rectangular tables first.
func (r *tableRegistry) areas() []*area {
	out := make([]*area, 0, len(r.tables)+1)

	for _, t := range r.tables {
		out = append(out, &area{id: t.ID, seats: t.Seats, neighbours: rowNeighbours(len(t.Seats))})
	}

	return append(out, &area{id: UTableID, seats: r.uTable.Seats, neighbours: r.uTable.neighbours})
}

// area is a view on the seat slice of one table. Writes through seats land in the table.
type area struct {
	id    string
	seats []*Occupancy
	// neighbours lists the seats adjacent to index, the next one first.
	neighbours func(index int) []int
}

func (a *area) inRange(index int) error {
	if index < 0 || index >= len(a.seats) {
		return fmt.Errorf("%w: seat %d at table %s", ErrNotFound, index, a.id)
	}

	return nil
}

// partnerCandidate returns the first free neighbour of index.
func (a *area) partnerCandidate(index int) (int, bool) {
	for _, n := range a.neighbours(index) {
		if a.seats[n] == nil {
			return n, true
		}
	}

	return -1, false
}

func rowNeighbours(length int) func(int) []int {
	return func(index int) []int {
		return runNeighbours(0, length, index)
	}
}

// neighbours keeps adjacency inside the arm of index; seats of different arms are never
// adjacent even when they follow each other in the flat order.
func (u *UTable) neighbours(index int) []int {
	arm, _, ok := u.Locate(index)
	if !ok {
		return nil
	}

	start, count := u.ArmRange(arm)

	return runNeighbours(start, count, index)
}

func runNeighbours(start, count, index int) []int {
	out := make([]int, 0, 2)

	if index+1 < start+count {
		out = append(out, index+1)
	}

	if index-1 >= start {
		out = append(out, index-1)
	}

	return out
}
