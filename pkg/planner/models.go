package planner

import "time"

// GuestStatus is the answer a guest gave to the invitation.
type GuestStatus string

// These constants refer to the guest statuses supported by the app.
const (
	StatusPending   GuestStatus = "pending"
	StatusConfirmed GuestStatus = "confirmed"
	StatusDeclined  GuestStatus = "declined"
)

// SeatRole tells which half of a guest sits in a slot. Single guests are always primary.
type SeatRole string

const (
	RolePrimary SeatRole = "primary"
	RolePartner SeatRole = "partner"
)

// UTableID is the table id carried by guests seated at the U-shaped table.
const UTableID = "u-table"

// Guest is one invitation. A couple is a single guest with a partner name.
type Guest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Status      GuestStatus `json:"status"`
	IsCouple    bool        `json:"isCouple"`
	PartnerName string      `json:"partnerName,omitempty"`
	// TableID and SeatIndex point at the primary slot of the guest. They mirror the slot side and
	// are only written by the allocator.
	TableID   *string `json:"tableId"`
	SeatIndex *int    `json:"seatIndex"`
}

// Seated reports whether the guest holds a seat.
func (g *Guest) Seated() bool {
	return g.TableID != nil && g.SeatIndex != nil
}

// DisplayName returns "name & partner" for couples.
func (g *Guest) DisplayName() string {
	if g.IsCouple && g.PartnerName != "" {
		return g.Name + " & " + g.PartnerName
	}

	return g.Name
}

func (g *Guest) clone() *Guest {
	c := *g

	if g.TableID != nil {
		id := *g.TableID
		c.TableID = &id
	}

	if g.SeatIndex != nil {
		idx := *g.SeatIndex
		c.SeatIndex = &idx
	}

	return &c
}

// Occupancy binds a seat slot to a guest.
type Occupancy struct {
	GuestID string   `json:"id"`
	Name    string   `json:"name"`
	Role    SeatRole `json:"role"`
}

// Table is a rectangular table. Number is 1-based and dense across all tables.
type Table struct {
	ID     string       `json:"id"`
	Number int          `json:"number"`
	Seats  []*Occupancy `json:"seats"`
}

// Occupied returns the number of non-empty slots.
func (t *Table) Occupied() int {
	return countOccupied(t.Seats)
}

func (t *Table) clone() *Table {
	return &Table{ID: t.ID, Number: t.Number, Seats: cloneSeats(t.Seats)}
}

// Arm is one of the three seat runs of the U-table.
type Arm string

const (
	ArmLeft   Arm = "left"
	ArmBottom Arm = "bottom"
	ArmRight  Arm = "right"
)

// UTable is the single U-shaped table. Seats is stored flat in the order left, bottom, right.
type UTable struct {
	LeftSeats   int          `json:"leftSeats"`
	RightSeats  int          `json:"rightSeats"`
	BottomSeats int          `json:"bottomSeats"`
	Seats       []*Occupancy `json:"seats"`
}

// Total is the number of seats over all three arms.
func (u *UTable) Total() int {
	return u.LeftSeats + u.BottomSeats + u.RightSeats
}

// ArmRange returns the flat start index and the seat count of an arm.
func (u *UTable) ArmRange(arm Arm) (int, int) {
	switch arm {
	case ArmLeft:
		return 0, u.LeftSeats
	case ArmBottom:
		return u.LeftSeats, u.BottomSeats
	case ArmRight:
		return u.LeftSeats + u.BottomSeats, u.RightSeats
	}

	return 0, 0
}

// Locate maps a flat seat index to its arm and the index within that arm.
func (u *UTable) Locate(index int) (Arm, int, bool) {
	for _, arm := range []Arm{ArmLeft, ArmBottom, ArmRight} {
		start, count := u.ArmRange(arm)
		if index >= start && index < start+count {
			return arm, index - start, true
		}
	}

	return "", 0, false
}

func (u *UTable) clone() *UTable {
	c := *u
	c.Seats = cloneSeats(u.Seats)

	return &c
}

// TaskCategory groups tasks on the todo list.
type TaskCategory string

// These constants refer to the task categories supported by the app.
const (
	CategoryGeneral       TaskCategory = "general"
	CategoryFood          TaskCategory = "food"
	CategoryDecoration    TaskCategory = "decoration"
	CategoryContact       TaskCategory = "contact"
	CategoryShopping      TaskCategory = "shopping"
	CategoryTransport     TaskCategory = "transport"
	CategoryEntertainment TaskCategory = "entertainment"
)

// Categories lists every task category in display order.
func Categories() []TaskCategory {
	return []TaskCategory{
		CategoryGeneral,
		CategoryFood,
		CategoryDecoration,
		CategoryContact,
		CategoryShopping,
		CategoryTransport,
		CategoryEntertainment,
	}
}

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}

	return 4
}

// DateLayout is the format of task deadlines.
const DateLayout = "2006-01-02"

// Task is an entry of the todo list. It has no relation to seating.
type Task struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Category TaskCategory `json:"category"`
	// Deadline is a calendar date in DateLayout, nil when the task has none.
	Deadline  *string   `json:"deadline"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Task) clone() *Task {
	c := *t

	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}

	return &c
}

func cloneSeats(seats []*Occupancy) []*Occupancy {
	out := make([]*Occupancy, len(seats))

	for i, seat := range seats {
		if seat != nil {
			occ := *seat
			out[i] = &occ
		}
	}

	return out
}

func countOccupied(seats []*Occupancy) int {
	n := 0

	for _, seat := range seats {
		if seat != nil {
			n++
		}
	}

	return n
}
