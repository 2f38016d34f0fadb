package controller

import (
	"fmt"
	"sort"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// headerRows fits the title and the longest shortcut column.
const headerRows = 7

func (c *Controller) getPageGrid(name string) *tview.Grid {
	header := tview.NewTable().SetBorders(false).SetSelectable(false, false)
	c.headers[name] = header
	c.lists[name] = c.getList(name)

	c.fillHeader(name, header)

	grid := tview.NewGrid().SetRows(headerRows, 0).SetBorders(true)

	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.lists[name], 1, 0, 1, 1, 0, 0, true)

	return grid
}

// fillHeader writes the page title with its counters, followed by 2 columns listing keyboard
// shortcuts: the first holds the shortcuts of the page, the second the ones available
// everywhere. Both columns are sorted alphabetically.
func (c *Controller) fillHeader(name string, table *tview.Table) {
	table.Clear()

	row := 0
	table.SetCell(row, 0, tview.NewTableCell(c.pageTitle(name)))
	row++

	shortcuts := map[int][]string{
		0: {},
		1: {},
	}

	for r, event := range c.pageEvents[name] {
		shortcuts[0] = append(shortcuts[0], fmt.Sprintf("[orange]<%c>[white] %s", r, event.Description))
	}

	if name == pageTables || name == pageUTable {
		shortcuts[0] = append(shortcuts[0], "[orange]<Enter>[white] Assign / free seat")
	}

	for r, event := range c.events {
		shortcuts[1] = append(shortcuts[1], fmt.Sprintf("[orange]<%c>[white] %s", r, event.Description))
	}

	for col := 0; col < 2; col++ {
		sort.Strings(shortcuts[col])
	}

	for row-1 < len(shortcuts[0]) || row-1 < len(shortcuts[1]) {
		for col := 0; col < 2; col++ {
			if row-1 < len(shortcuts[col]) {
				table.SetCell(row, col+1, tview.NewTableCell(shortcuts[col][row-1]).SetExpansion(1))
			}
		}

		row++
	}
}

func (c *Controller) pageTitle(name string) string {
	switch name {
	case pageGuests:
		stats := c.planner.GuestStats()

		return fmt.Sprintf("[yellow]Guests[white] %d (%d confirmed, %d pending, %d declined, %d couples)  filter: %s",
			stats.Total, stats.Confirmed, stats.Pending, stats.Declined, stats.Couples, c.guestFilter)
	case pageTables:
		seats, occupied := 0, 0

		for _, t := range c.seating.tables {
			seats += len(t.Seats)
			occupied += t.Occupied()
		}

		return fmt.Sprintf("[yellow]Tables[white] %d tables, %d/%d seats taken", len(c.seating.tables), occupied, seats)
	case pageUTable:
		u := c.uSeats.uTable
		occupied := 0

		for _, s := range u.Seats {
			if s != nil {
				occupied++
			}
		}

		return fmt.Sprintf("[yellow]U-table[white] left %d, bottom %d, right %d, %d/%d seats taken",
			u.LeftSeats, u.BottomSeats, u.RightSeats, occupied, len(u.Seats))
	case pageTasks:
		stats := c.planner.TaskStats()

		return fmt.Sprintf("[yellow]Tasks[white] %d (%d open, %d done)  filter: %s / %s",
			stats.Total, stats.Active, stats.Completed, c.taskFilter.State, c.taskFilter.Category)
	}

	return name
}

func (c *Controller) getList(name string) *tview.Table {
	table := tview.NewTable().SetBorders(false)

	switch name {
	case pageGuests:
		table.SetContent(c.guests)
		table.SetSelectable(true, false)
		table.SetFixed(1, 0)
		table.Select(1, 0)
	case pageTasks:
		table.SetContent(c.tasks)
		table.SetSelectable(true, false)
		table.SetFixed(1, 0)
		table.Select(1, 0)
	case pageTables:
		table.SetContent(c.seating)
		table.SetSelectable(true, true)
		table.SetFixed(1, 1)
		table.Select(1, 1)
		table.SetSelectedFunc(c.getSeatAction(table))
	case pageUTable:
		table.SetContent(c.uSeats)
		table.SetSelectable(true, true)
		table.SetFixed(0, 1)
		table.Select(0, 1)
		table.SetSelectedFunc(c.getSeatAction(table))
	default:
		log.Error().Str("page", name).Msg("no list for page")
	}

	return table
}

// getSeatAction returns the handler for Enter on a seat cell.
func (c *Controller) getSeatAction(table *tview.Table) func(row, col int) {
	return func(row, col int) {
		cell := table.GetCell(row, col)
		if cell == nil {
			return
		}

		ref, ok := cell.GetReference().(seatRef)
		if !ok {
			return
		}

		c.selectSeat(ref)
	}
}

// occupant returns the record of a seat as currently displayed.
func (c *Controller) occupant(ref seatRef) *planner.Occupancy {
	if ref.tableID == planner.UTableID {
		if ref.seat < len(c.uSeats.uTable.Seats) {
			return c.uSeats.uTable.Seats[ref.seat]
		}

		return nil
	}

	for _, t := range c.seating.tables {
		if t.ID == ref.tableID && ref.seat < len(t.Seats) {
			return t.Seats[ref.seat]
		}
	}

	return nil
}

func (c *Controller) seatName(ref seatRef) string {
	if ref.tableID == planner.UTableID {
		u := c.uSeats.uTable

		if arm, rel, ok := u.Locate(ref.seat); ok {
			return fmt.Sprintf("U-table %s seat %d", arm, rel+1)
		}

		return "U-table"
	}

	for _, t := range c.seating.tables {
		if t.ID == ref.tableID {
			return fmt.Sprintf("table %d seat %d", t.Number, ref.seat+1)
		}
	}

	return ref.tableID
}
