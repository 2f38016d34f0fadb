package controller

import (
	"testing"
	"time"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/stretchr/testify/assert"
)

func TestGuestContent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	content := &GuestContent{rows: []guestRow{
		{guest: planner.Guest{ID: "g-1", Name: "Alice", Status: planner.StatusConfirmed, IsCouple: true, PartnerName: "Bob"}, seat: "-"},
	}}

	assert.Equal(2, content.GetRowCount())
	assert.Equal(4, content.GetColumnCount())
	assert.Equal("name", content.GetCell(0, 0).Text)
	assert.Equal("Alice", content.GetCell(1, 0).Text)
	assert.Equal("g-1", content.GetCell(1, 0).GetReference())
	assert.Equal("Bob", content.GetCell(1, 1).Text)
	assert.Nil(content.GetCell(2, 0))

	guest, ok := content.guestAt(1)
	assert.True(ok)
	assert.Equal("Alice", guest.Name)

	_, ok = content.guestAt(0)
	assert.False(ok)
}

func TestSeatContent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	content := &SeatContent{tables: []planner.Table{
		{ID: "t-1", Number: 1, Seats: []*planner.Occupancy{{GuestID: "g-1", Name: "Alice", Role: planner.RolePrimary}, nil}},
		{ID: "t-2", Number: 2, Seats: make([]*planner.Occupancy, 4)},
	}}

	assert.Equal(3, content.GetRowCount())
	assert.Equal(5, content.GetColumnCount())
	assert.Equal("Table 1 (1/2)", content.GetCell(1, 0).Text)
	assert.Equal(seatRef{tableID: "t-1", seat: 0}, content.GetCell(1, 1).GetReference())
	assert.Equal(seatRef{tableID: "t-2", seat: 3}, content.GetCell(2, 4).GetReference())
	assert.Nil(content.GetCell(1, 3).GetReference())

	table, ok := content.tableAt(2)
	assert.True(ok)
	assert.Equal("t-2", table.ID)
}

func TestUTableContent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	content := &UTableContent{uTable: planner.UTable{
		LeftSeats: 2, BottomSeats: 3, RightSeats: 1, Seats: make([]*planner.Occupancy, 6),
	}}

	assert.Equal(3, content.GetRowCount())
	assert.Equal(4, content.GetColumnCount())
	assert.Equal("bottom (3)", content.GetCell(1, 0).Text)
	assert.Equal(seatRef{tableID: planner.UTableID, seat: 2}, content.GetCell(1, 1).GetReference())
	assert.Equal(seatRef{tableID: planner.UTableID, seat: 5}, content.GetCell(2, 1).GetReference())
	assert.Nil(content.GetCell(2, 2).GetReference())
}

func TestSeatLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	uTable := planner.UTable{LeftSeats: 2, BottomSeats: 2, RightSeats: 2, Seats: make([]*planner.Occupancy, 6)}
	numbers := map[string]int{"t-1": 3}

	tableID, uTableID, seat, uSeat := "t-1", planner.UTableID, 1, 4

	assert.Equal("-", seatLabel(planner.Guest{}, numbers, uTable))
	assert.Equal("table 3, seat 2", seatLabel(planner.Guest{TableID: &tableID, SeatIndex: &seat}, numbers, uTable))
	assert.Equal("U-table right 1", seatLabel(planner.Guest{TableID: &uTableID, SeatIndex: &uSeat}, numbers, uTable))
}

func TestDeadlineText(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal("", deadlineText(planner.DeadlineStatus{Kind: planner.DeadlineNone}))
	assert.Equal("[red]overdue by 2 days", deadlineText(planner.DeadlineStatus{Kind: planner.DeadlineOverdue, Days: -2}))
	assert.Equal("[yellow]in 4 days", deadlineText(planner.DeadlineStatus{Kind: planner.DeadlineUpcoming, Days: 4}))
	assert.Equal("[white]2026-12-24", deadlineText(planner.DeadlineStatus{
		Kind: planner.DeadlineLater, Days: 69, Date: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
	}))
}

func TestNext(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal(planner.GuestFilter(planner.StatusConfirmed), next(guestFilters(), planner.FilterAll))
	assert.Equal(planner.FilterAll, next(guestFilters(), planner.FilterCouple))
	assert.Equal(planner.TasksAll, next(taskStates(), "unknown"))
}
