package controller

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rivo/tview"
)

const (
	nameRatio = 2
)

// statusColors maps guest answers to the color used in the guest list.
func statusColors() map[planner.GuestStatus]tcell.Color {
	return map[planner.GuestStatus]tcell.Color{
		planner.StatusConfirmed: tcell.ColorGreen,
		planner.StatusPending:   tcell.ColorYellow,
		planner.StatusDeclined:  tcell.ColorRed,
	}
}

// deadlineColors maps deadline kinds to the color of the deadline column.
func deadlineColors() map[planner.DeadlineKind]string {
	return map[planner.DeadlineKind]string{
		planner.DeadlineOverdue:  "red",
		planner.DeadlineToday:    "orange",
		planner.DeadlineTomorrow: "yellow",
		planner.DeadlineUpcoming: "yellow",
		planner.DeadlineLater:    "white",
	}
}

func headerCell(text string, expansion int) *tview.TableCell {
	return tview.NewTableCell(text).SetExpansion(expansion).SetTextColor(tcell.ColorYellow).SetSelectable(false)
}

func blankCell() *tview.TableCell {
	return tview.NewTableCell("").SetSelectable(false)
}

// seatRef addresses one seat. It is the reference of every seat cell.
type seatRef struct {
	tableID string
	seat    int
}

type guestRow struct {
	guest planner.Guest
	seat  string
}

// GuestContent implements tview.TableContent for the guest list.
type GuestContent struct {
	tview.TableContentReadOnly
	rows []guestRow
}

// GetCell returns the cell at the given position or nil if no cell.
func (g *GuestContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		switch col {
		case 0:
			return headerCell("name", nameRatio)
		case 1:
			return headerCell("partner", nameRatio)
		case 2:
			return headerCell("status", 1)
		case 3:
			return headerCell("seat", nameRatio)
		}
	}

	if row-1 >= len(g.rows) {
		return nil
	}

	r := g.rows[row-1]

	switch col {
	case 0:
		return tview.NewTableCell(tview.Escape(r.guest.Name)).SetExpansion(nameRatio).SetReference(r.guest.ID)
	case 1:
		return tview.NewTableCell(tview.Escape(r.guest.PartnerName)).SetExpansion(nameRatio)
	case 2:
		return tview.NewTableCell(string(r.guest.Status)).SetExpansion(1).SetTextColor(statusColors()[r.guest.Status])
	case 3:
		return tview.NewTableCell(r.seat).SetExpansion(nameRatio)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (g *GuestContent) GetRowCount() int {
	return len(g.rows) + 1
}

// GetColumnCount returns the number of columns in the table.
func (g *GuestContent) GetColumnCount() int {
	return 4
}

func (g *GuestContent) guestAt(row int) (planner.Guest, bool) {
	if idx := row - 1; idx >= 0 && idx < len(g.rows) {
		return g.rows[idx].guest, true
	}

	return planner.Guest{}, false
}

// TaskContent implements tview.TableContent for the todo list.
type TaskContent struct {
	tview.TableContentReadOnly
	tasks []planner.Task
	now   time.Time
}

// GetCell returns the cell at the given position or nil if no cell.
func (t *TaskContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		switch col {
		case 0:
			return headerCell("done", 0)
		case 1:
			return headerCell("task", nameRatio*2)
		case 2:
			return headerCell("category", 1)
		case 3:
			return headerCell("priority", 1)
		case 4:
			return headerCell("deadline", nameRatio)
		}
	}

	if row-1 >= len(t.tasks) {
		return nil
	}

	task := t.tasks[row-1]

	switch col {
	case 0:
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}

		return tview.NewTableCell(tview.Escape(box)).SetReference(task.ID)
	case 1:
		text := tview.Escape(task.Text)
		if task.Completed {
			text = "[gray]" + text
		}

		return tview.NewTableCell(text).SetExpansion(nameRatio * 2)
	case 2:
		return tview.NewTableCell(string(task.Category)).SetExpansion(1)
	case 3:
		return tview.NewTableCell(string(task.Priority)).SetExpansion(1)
	case 4:
		return tview.NewTableCell(deadlineText(task.DeadlineStatus(t.now))).SetExpansion(nameRatio)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (t *TaskContent) GetRowCount() int {
	return len(t.tasks) + 1
}

// GetColumnCount returns the number of columns in the table.
func (t *TaskContent) GetColumnCount() int {
	return 5
}

func (t *TaskContent) taskAt(row int) (planner.Task, bool) {
	if idx := row - 1; idx >= 0 && idx < len(t.tasks) {
		return t.tasks[idx], true
	}

	return planner.Task{}, false
}

func deadlineText(status planner.DeadlineStatus) string {
	var text string

	switch status.Kind {
	case planner.DeadlineNone:
		return ""
	case planner.DeadlineOverdue:
		text = fmt.Sprintf("overdue by %d days", -status.Days)
	case planner.DeadlineToday:
		text = "today"
	case planner.DeadlineTomorrow:
		text = "tomorrow"
	case planner.DeadlineUpcoming:
		text = fmt.Sprintf("in %d days", status.Days)
	default:
		text = status.Date.Format(planner.DateLayout)
	}

	return fmt.Sprintf("[%s]%s", deadlineColors()[status.Kind], text)
}

// SeatContent implements tview.TableContent for the rectangular tables: one row per table, one
// column per seat.
type SeatContent struct {
	tview.TableContentReadOnly
	tables []planner.Table
}

// GetCell returns the cell at the given position or nil if no cell.
func (s *SeatContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		if col == 0 {
			return headerCell("table", 1)
		}

		return headerCell(fmt.Sprintf("seat %d", col), 1)
	}

	if row-1 >= len(s.tables) {
		return nil
	}

	table := s.tables[row-1]

	if col == 0 {
		label := fmt.Sprintf("Table %d (%d/%d)", table.Number, table.Occupied(), len(table.Seats))

		return tview.NewTableCell(label).SetTextColor(tcell.ColorYellow).SetSelectable(false).SetReference(table.ID)
	}

	if col-1 >= len(table.Seats) {
		return blankCell()
	}

	return seatCell(seatRef{tableID: table.ID, seat: col - 1}, table.Seats[col-1])
}

// GetRowCount returns the number of rows in the table.
func (s *SeatContent) GetRowCount() int {
	return len(s.tables) + 1
}

// GetColumnCount returns the number of columns in the table.
func (s *SeatContent) GetColumnCount() int {
	most := 0

	for _, t := range s.tables {
		if len(t.Seats) > most {
			most = len(t.Seats)
		}
	}

	return most + 1
}

func (s *SeatContent) tableAt(row int) (planner.Table, bool) {
	if idx := row - 1; idx >= 0 && idx < len(s.tables) {
		return s.tables[idx], true
	}

	return planner.Table{}, false
}

// UTableContent implements tview.TableContent for the U-table: one row per arm.
type UTableContent struct {
	tview.TableContentReadOnly
	uTable planner.UTable
}

func arms() []planner.Arm {
	return []planner.Arm{planner.ArmLeft, planner.ArmBottom, planner.ArmRight}
}

// GetCell returns the cell at the given position or nil if no cell.
func (u *UTableContent) GetCell(row, col int) *tview.TableCell {
	if row >= len(arms()) {
		return nil
	}

	arm := arms()[row]
	start, count := u.uTable.ArmRange(arm)

	if col == 0 {
		return tview.NewTableCell(fmt.Sprintf("%s (%d)", arm, count)).SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	if col-1 >= count {
		return blankCell()
	}

	index := start + col - 1

	return seatCell(seatRef{tableID: planner.UTableID, seat: index}, u.uTable.Seats[index])
}

// GetRowCount returns the number of rows in the table.
func (u *UTableContent) GetRowCount() int {
	return len(arms())
}

// GetColumnCount returns the number of columns in the table.
func (u *UTableContent) GetColumnCount() int {
	most := 0

	for _, arm := range arms() {
		if _, count := u.uTable.ArmRange(arm); count > most {
			most = count
		}
	}

	return most + 1
}

func seatCell(ref seatRef, occ *planner.Occupancy) *tview.TableCell {
	if occ == nil {
		return tview.NewTableCell("[gray]-").SetExpansion(1).SetReference(ref)
	}

	color := "white"
	if occ.Role == planner.RolePartner {
		color = "aqua"
	}

	return tview.NewTableCell(fmt.Sprintf("[%s]%s", color, tview.Escape(occ.Name))).SetExpansion(1).SetReference(ref)
}

// seatLabel describes where a guest sits for the guest list.
func seatLabel(guest planner.Guest, numbers map[string]int, uTable planner.UTable) string {
	if !guest.Seated() {
		return "-"
	}

	if *guest.TableID == planner.UTableID {
		arm, rel, ok := uTable.Locate(*guest.SeatIndex)
		if !ok {
			return "U-table"
		}

		return fmt.Sprintf("U-table %s %d", arm, rel+1)
	}

	return fmt.Sprintf("table %d, seat %d", numbers[*guest.TableID], *guest.SeatIndex+1)
}
