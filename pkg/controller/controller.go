package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/event-planner/pkg/config"
	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// These constants name the pages of the app.
const (
	pageGuests = "guests"
	pageTables = "tables"
	pageUTable = "u-table"
	pageTasks  = "tasks"
	pageForm   = "form"
	pageModal  = "modal"
)

// Controller mediates between the planner and the view.
type Controller struct {
	ctx     context.Context
	planner *planner.Planner
	cfg     config.Config
	now     func() time.Time

	app    *tview.Application
	pages  *tview.Pages
	notice *tview.TextView
	page   string

	headers map[string]*tview.Table
	lists   map[string]*tview.Table

	guests  *GuestContent
	tasks   *TaskContent
	seating *SeatContent
	uSeats  *UTableContent

	guestFilter planner.GuestFilter
	taskFilter  planner.TaskFilter

	events     map[rune]KeyEvent
	pageEvents map[string]map[rune]KeyEvent
	formEvents map[tcell.Key]KeyEvent
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, p *planner.Planner, cfg config.Config) (*Controller, error) {
	if p == nil {
		return nil, errors.New("controller needs a planner")
	}

	c := Controller{
		ctx:         ctx,
		planner:     p,
		cfg:         cfg,
		now:         time.Now,
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		notice:      tview.NewTextView().SetDynamicColors(true),
		headers:     map[string]*tview.Table{},
		lists:       map[string]*tview.Table{},
		guests:      &GuestContent{},
		tasks:       &TaskContent{},
		seating:     &SeatContent{},
		uSeats:      &UTableContent{},
		guestFilter: planner.FilterAll,
		taskFilter:  planner.TaskFilter{State: planner.TasksAll, Category: "all"},
	}

	c.initEvents()

	return &c, nil
}

// Go builds the pages and runs the app until the user quits.
func (c *Controller) Go() error {
	c.refresh()

	for _, name := range []string{pageGuests, pageTables, pageUTable, pageTasks} {
		c.pages.AddPage(name, c.getPageGrid(name), true, false)
	}

	c.notice.SetScrollable(false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.pages, 0, 1, true).
		AddItem(c.notice, 1, 0, false)

	c.showPage(pageGuests)
	c.notify("[green]%s", tview.Escape(c.cfg.EventName))

	if err := c.app.SetRoot(root, true).Run(); err != nil {
		return fmt.Errorf("error running the app: %w", err)
	}

	return nil
}

func (c *Controller) handleKeys(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() != tcell.KeyRune {
		return evt
	}

	if k, ok := c.pageEvents[c.page][evt.Rune()]; ok {
		return k.Action(evt)
	}

	if k, ok := c.events[evt.Rune()]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[evt.Key()]; ok {
		return k.Action(evt)
	}

	return evt
}

// refresh reloads every view from the planner. It runs after each mutation.
func (c *Controller) refresh() {
	tables := c.planner.Tables()
	uTable := c.planner.UTable()

	numbers := make(map[string]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
	}

	c.guests.rows = c.guests.rows[:0]
	for g := range c.planner.Guests(c.guestFilter) {
		c.guests.rows = append(c.guests.rows, guestRow{guest: g, seat: seatLabel(g, numbers, uTable)})
	}

	c.seating.tables = tables
	c.uSeats.uTable = uTable
	c.tasks.tasks = c.planner.Tasks(c.taskFilter)
	c.tasks.now = c.now()

	for name, header := range c.headers {
		c.fillHeader(name, header)
	}

	for name, list := range c.lists {
		row, col := list.GetSelection()
		if rows := list.GetRowCount(); row >= rows {
			list.Select(rows-1, col)
		}

		log.Debug().Str("page", name).Int("rows", list.GetRowCount()).Msg("refreshed list")
	}
}

// notify shows a one-line message under the current page.
func (c *Controller) notify(format string, args ...interface{}) {
	c.notice.SetText(fmt.Sprintf(format, args...))
}

// fail logs the error and shows it as a notification. Nothing is fatal once the app runs.
func (c *Controller) fail(err error, action string) {
	log.Warn().Err(err).Str("page", c.page).Msgf("error while trying to %s", action)

	c.notify("[red]%s", tview.Escape(err.Error()))
}

func (c *Controller) showPage(name string) {
	c.page = name

	c.app.SetInputCapture(c.handleKeys)
	c.pages.SwitchToPage(name)
	c.app.SetFocus(c.lists[name])
}

func (c *Controller) quit() {
	log.Info().Msg("terminating application")

	c.app.Stop()
}
