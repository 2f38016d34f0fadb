package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	nameMax  = 40
	textMax  = 80
	countMax = 4
	dateMax  = 12
)

func guestStatuses() []string {
	return []string{string(planner.StatusPending), string(planner.StatusConfirmed), string(planner.StatusDeclined)}
}

func priorities() []string {
	return []string{string(planner.PriorityHigh), string(planner.PriorityMedium), string(planner.PriorityLow)}
}

func categoryOptions() []string {
	options := []string{}
	for _, category := range planner.Categories() {
		options = append(options, string(category))
	}

	return options
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}

	return 0
}

// showForm replaces the current page with a form under a header listing the form shortcuts.
func (c *Controller) showForm(title string, form *tview.Form) {
	header := tview.NewTable().SetBorders(false).SetSelectable(false, false)
	header.SetCell(0, 0, tview.NewTableCell(fmt.Sprintf("[yellow]%s", title)))

	row := 1
	for key, event := range c.formEvents {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)
		header.SetCell(row, 0, tview.NewTableCell(text))
		row++
	}

	form.SetCancelFunc(c.closeOverlay)

	grid := tview.NewGrid().SetRows(row+1, 0).SetBorders(true)
	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(form, 1, 0, 1, 1, 0, 0, true)

	c.pages.AddPage(pageForm, grid, true, false)
	c.pages.SwitchToPage(pageForm)
	c.app.SetInputCapture(c.handleFormKeys)
	c.app.SetFocus(form)
}

// closeOverlay removes an open form or modal and returns to the list it was opened from.
func (c *Controller) closeOverlay() {
	c.pages.RemovePage(pageModal)
	c.pages.RemovePage(pageForm)

	c.refresh()
	c.showPage(c.page)
}

// confirm asks a yes/no question over the current page and runs onYes when accepted.
func (c *Controller) confirm(question string, onYes func()) {
	c.choose(question, []string{"Yes", "No"}, func(index int) {
		if index == 0 {
			onYes()
		}
	})
}

func (c *Controller) choose(question string, buttons []string, done func(index int)) {
	modal := tview.NewModal().
		SetText(question).
		AddButtons(buttons).
		SetDoneFunc(func(index int, _ string) {
			c.pages.RemovePage(pageModal)
			done(index)
			c.closeOverlay()
		})

	c.pages.AddPage(pageModal, modal, false, true)
	c.app.SetInputCapture(c.handleFormKeys)
	c.app.SetFocus(modal)
}

// saved reports the outcome of a form. Validation errors keep the form open so the user can fix
// the input; anything else closes it.
func (c *Controller) saved(err error, action, message string) {
	if err == nil {
		c.notify("[green]%s", tview.Escape(message))
		c.closeOverlay()

		return
	}

	c.fail(err, action)

	if !errors.Is(err, planner.ErrValidation) {
		c.closeOverlay()
	}
}

func (c *Controller) showGuestForm(guest *planner.Guest) {
	title := "New Guest"
	in := planner.GuestInput{Status: planner.StatusPending}

	if guest != nil {
		title = "Edit Guest"
		in = planner.GuestInput{Name: guest.Name, Status: guest.Status, IsCouple: guest.IsCouple, PartnerName: guest.PartnerName}
	}

	statuses := guestStatuses()

	form := tview.NewForm().
		AddInputField("Name", in.Name, nameMax, nil, nil).
		AddDropDown("Status", statuses, indexOf(statuses, string(in.Status)), nil).
		AddCheckbox("Couple", in.IsCouple, nil).
		AddInputField("Partner", in.PartnerName, nameMax, nil, nil)

	nameField, _ := form.GetFormItemByLabel("Name").(*tview.InputField)
	statusField, _ := form.GetFormItemByLabel("Status").(*tview.DropDown)
	coupleField, _ := form.GetFormItemByLabel("Couple").(*tview.Checkbox)
	partnerField, _ := form.GetFormItemByLabel("Partner").(*tview.InputField)

	form.AddButton("Save", func() {
		_, status := statusField.GetCurrentOption()

		edited := planner.GuestInput{
			Name:        nameField.GetText(),
			Status:      planner.GuestStatus(status),
			IsCouple:    coupleField.IsChecked(),
			PartnerName: partnerField.GetText(),
		}

		var (
			result planner.Guest
			err    error
		)

		if guest == nil {
			result, err = c.planner.AddGuest(c.ctx, edited)
		} else {
			result, err = c.planner.UpdateGuest(c.ctx, guest.ID, edited)
		}

		c.saved(err, "save guest", "saved "+result.DisplayName())
	})
	form.AddButton("Cancel", c.closeOverlay)

	c.showForm(title, form)
}

func (c *Controller) showTableForm() {
	form := tview.NewForm().
		AddInputField(fmt.Sprintf("Seats (1-%d)", c.cfg.MaxSeatsPerTable), "8", countMax, tview.InputFieldInteger, nil)

	seatsField, _ := form.GetFormItem(0).(*tview.InputField)

	form.AddButton("Save", func() {
		seats, err := strconv.Atoi(seatsField.GetText())
		if err != nil {
			err = fmt.Errorf("%w: seats must be a number", planner.ErrValidation)
		} else {
			err = c.cfg.CheckSeatCount(seats)
		}

		if err != nil {
			c.fail(err, "create table")

			return
		}

		table, err := c.planner.CreateTable(c.ctx, seats)
		c.saved(err, "create table", fmt.Sprintf("created table %d", table.Number))
	})
	form.AddButton("Cancel", c.closeOverlay)

	c.showForm("New Table", form)
}

func (c *Controller) showUTableForm() {
	u := c.planner.UTable()

	form := tview.NewForm().
		AddInputField("Left", strconv.Itoa(u.LeftSeats), countMax, tview.InputFieldInteger, nil).
		AddInputField("Bottom", strconv.Itoa(u.BottomSeats), countMax, tview.InputFieldInteger, nil).
		AddInputField("Right", strconv.Itoa(u.RightSeats), countMax, tview.InputFieldInteger, nil)

	count := func(label string) int {
		field, _ := form.GetFormItemByLabel(label).(*tview.InputField)

		n, err := strconv.Atoi(field.GetText())
		if err != nil {
			return -1
		}

		return n
	}

	form.AddButton("Save", func() {
		in := planner.UTableInput{Left: count("Left"), Right: count("Right"), Bottom: count("Bottom")}

		resized, err := c.planner.CreateOrResizeUTable(c.ctx, in)
		c.saved(err, "resize u-table", fmt.Sprintf("u-table has %d seats", resized.Total()))
	})
	form.AddButton("Cancel", c.closeOverlay)

	c.showForm("Resize U-table", form)
}

func (c *Controller) showTaskForm(task *planner.Task) {
	title := "New Task"
	in := planner.TaskInput{Category: planner.CategoryGeneral, Priority: planner.PriorityMedium}

	if task != nil {
		title = "Edit Task"
		in = planner.TaskInput{
			Text: task.Text, Category: task.Category, Deadline: task.Deadline, Priority: task.Priority, Completed: task.Completed,
		}
	}

	deadline := ""
	if in.Deadline != nil {
		deadline = *in.Deadline
	}

	categories := categoryOptions()
	levels := priorities()

	form := tview.NewForm().
		AddInputField("Task", in.Text, textMax, nil, nil).
		AddDropDown("Category", categories, indexOf(categories, string(in.Category)), nil).
		AddDropDown("Priority", levels, indexOf(levels, string(in.Priority)), nil).
		AddInputField("Deadline ("+planner.DateLayout+")", deadline, dateMax, nil, nil)

	textField, _ := form.GetFormItem(0).(*tview.InputField)
	categoryField, _ := form.GetFormItem(1).(*tview.DropDown)
	priorityField, _ := form.GetFormItem(2).(*tview.DropDown)
	deadlineField, _ := form.GetFormItem(3).(*tview.InputField)

	form.AddButton("Save", func() {
		_, category := categoryField.GetCurrentOption()
		_, priority := priorityField.GetCurrentOption()
		date := deadlineField.GetText()

		edited := planner.TaskInput{
			Text:      textField.GetText(),
			Category:  planner.TaskCategory(category),
			Deadline:  &date,
			Priority:  planner.Priority(priority),
			Completed: in.Completed,
		}

		var err error
		if task == nil {
			_, err = c.planner.AddTask(c.ctx, edited)
		} else {
			_, err = c.planner.UpdateTask(c.ctx, task.ID, edited)
		}

		c.saved(err, "save task", "saved task")
	})
	form.AddButton("Cancel", c.closeOverlay)

	c.showForm(title, form)
}

// selectSeat frees an occupied seat after confirmation, or offers the confirmed guests without a
// seat for an empty one.
func (c *Controller) selectSeat(ref seatRef) {
	if occ := c.occupant(ref); occ != nil {
		c.confirm(fmt.Sprintf("Free %s (%s)?", c.seatName(ref), occ.Name), func() {
			if err := c.planner.Vacate(c.ctx, ref.tableID, ref.seat); err != nil {
				c.fail(err, "free seat")
			} else {
				c.notify("[green]freed %s", c.seatName(ref))
			}
		})

		return
	}

	available := c.planner.AvailableGuests()
	if len(available) == 0 {
		c.notify("[yellow]every confirmed guest already has a seat")

		return
	}

	options := make([]string, 0, len(available))
	for _, g := range available {
		options = append(options, g.DisplayName())
	}

	form := tview.NewForm().AddDropDown("Guest", options, 0, nil)
	guestField, _ := form.GetFormItem(0).(*tview.DropDown)

	form.AddButton("Assign", func() {
		idx, _ := guestField.GetCurrentOption()
		if idx < 0 || idx >= len(available) {
			return
		}

		c.assign(ref, available[idx])
	})
	form.AddButton("Cancel", c.closeOverlay)

	c.showForm("Assign "+c.seatName(ref), form)
}

// assign seats the guest, asking first whether the partner of a couple takes the adjacent seat.
func (c *Controller) assign(ref seatRef, guest planner.Guest) {
	if !guest.IsCouple {
		c.place(ref, guest, false)

		return
	}

	candidate, ok, err := c.planner.PartnerCandidate(ref.tableID, ref.seat)
	if err != nil {
		c.fail(err, "assign seat")
		c.closeOverlay()

		return
	}

	if !ok {
		c.place(ref, guest, false)

		return
	}

	question := fmt.Sprintf("Seat %s next to %s at %s?",
		guest.PartnerName, guest.Name, c.seatName(seatRef{tableID: ref.tableID, seat: candidate}))

	c.choose(question, []string{"Yes", "No"}, func(index int) {
		c.place(ref, guest, index == 0)
	})
}

func (c *Controller) place(ref seatRef, guest planner.Guest, seatPartner bool) {
	placement, err := c.planner.Assign(c.ctx, ref.tableID, ref.seat, guest.ID, seatPartner)

	switch {
	case err != nil:
		c.fail(err, "assign seat")
	case placement.NoAdjacentSeat:
		c.notify("[yellow]%s seated at %s; no free seat next to them for %s",
			tview.Escape(guest.Name), c.seatName(ref), tview.Escape(guest.PartnerName))
	default:
		c.notify("[green]%s seated at %s", tview.Escape(guest.DisplayName()), c.seatName(ref))
	}

	log.Debug().Interface("placement", placement).Msg("seat assigned from the tables view")

	c.closeOverlay()
}
