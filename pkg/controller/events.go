package controller

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rs/zerolog/log"
)

func guestFilters() []planner.GuestFilter {
	return []planner.GuestFilter{
		planner.FilterAll,
		planner.GuestFilter(planner.StatusConfirmed),
		planner.GuestFilter(planner.StatusPending),
		planner.GuestFilter(planner.StatusDeclined),
		planner.FilterCouple,
	}
}

func taskStates() []planner.TaskState {
	return []planner.TaskState{planner.TasksAll, planner.TasksActive, planner.TasksCompleted}
}

func taskCategories() []planner.TaskCategory {
	return append([]planner.TaskCategory{"all"}, planner.Categories()...)
}

// next returns the value following current in values, wrapping around.
func next[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}

	return values[0]
}

func (c *Controller) initEvents() {
	c.events = map[rune]KeyEvent{}
	c.pageEvents = map[string]map[rune]KeyEvent{
		pageGuests: {},
		pageTables: {},
		pageUTable: {},
		pageTasks:  {},
	}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.initShowEvents(c.events)
	c.initExitEvent(c.events)

	c.initGuestEvents(c.pageEvents[pageGuests])
	c.initTableEvents(c.pageEvents[pageTables])
	c.initUTableEvents(c.pageEvents[pageUTable])
	c.initTaskEvents(c.pageEvents[pageTasks])

	c.formEvents[tcell.KeyEscape] = KeyEvent{
		Description: "Cancel",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.closeOverlay()

			return nil
		},
	}
}

func (c *Controller) initExitEvent(events map[rune]KeyEvent) {
	events['q'] = KeyEvent{
		Description: "Exit",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.quit()

			return nil
		},
	}
}

func (c *Controller) getShowAction(page string) func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.showPage(page)

		return nil
	}
}

func (c *Controller) initShowEvents(events map[rune]KeyEvent) {
	events['1'] = KeyEvent{Description: "Show Guests", Action: c.getShowAction(pageGuests)}
	events['2'] = KeyEvent{Description: "Show Tables", Action: c.getShowAction(pageTables)}
	events['3'] = KeyEvent{Description: "Show U-table", Action: c.getShowAction(pageUTable)}
	events['4'] = KeyEvent{Description: "Show Tasks", Action: c.getShowAction(pageTasks)}
}

func (c *Controller) initGuestEvents(events map[rune]KeyEvent) {
	events['a'] = KeyEvent{
		Description: "Add guest",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showGuestForm(nil)

			return nil
		},
	}

	events['e'] = KeyEvent{
		Description: "Edit guest",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if guest, ok := c.selectedGuest(); ok {
				c.showGuestForm(&guest)
			}

			return nil
		},
	}

	events['d'] = KeyEvent{
		Description: "Delete guest",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			guest, ok := c.selectedGuest()
			if !ok {
				return nil
			}

			c.confirm("Delete "+guest.DisplayName()+"?", func() {
				if err := c.planner.RemoveGuest(c.ctx, guest.ID); err != nil {
					c.fail(err, "delete guest")
				} else {
					c.notify("[green]deleted %s", guest.Name)
				}
			})

			return nil
		},
	}

	events['f'] = KeyEvent{
		Description: "Filter guests",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.guestFilter = next(guestFilters(), c.guestFilter)
			c.lists[pageGuests].Select(1, 0)
			c.refresh()

			return nil
		},
	}
}

func (c *Controller) initTableEvents(events map[rune]KeyEvent) {
	events['a'] = KeyEvent{
		Description: "Add table",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showTableForm()

			return nil
		},
	}

	events['d'] = KeyEvent{
		Description: "Delete table",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			row, _ := c.lists[pageTables].GetSelection()

			table, ok := c.seating.tableAt(row)
			if !ok {
				return nil
			}

			c.confirm(fmt.Sprintf("Delete table %d and free its %d guests?", table.Number, table.Occupied()), func() {
				if err := c.planner.DeleteTable(c.ctx, table.ID); err != nil {
					c.fail(err, "delete table")
				} else {
					c.notify("[green]deleted table %d", table.Number)
				}
			})

			return nil
		},
	}
}

func (c *Controller) initUTableEvents(events map[rune]KeyEvent) {
	events['r'] = KeyEvent{
		Description: "Resize U-table",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showUTableForm()

			return nil
		},
	}
}

func (c *Controller) initTaskEvents(events map[rune]KeyEvent) {
	events['a'] = KeyEvent{
		Description: "Add task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showTaskForm(nil)

			return nil
		},
	}

	events['e'] = KeyEvent{
		Description: "Edit task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if task, ok := c.selectedTask(); ok {
				c.showTaskForm(&task)
			}

			return nil
		},
	}

	events['d'] = KeyEvent{
		Description: "Delete task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			task, ok := c.selectedTask()
			if !ok {
				return nil
			}

			c.confirm("Delete task \""+task.Text+"\"?", func() {
				if err := c.planner.RemoveTask(c.ctx, task.ID); err != nil {
					c.fail(err, "delete task")
				}
			})

			return nil
		},
	}

	events['x'] = KeyEvent{
		Description: "Toggle done",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			task, ok := c.selectedTask()
			if !ok {
				return nil
			}

			if _, err := c.planner.ToggleTask(c.ctx, task.ID); err != nil {
				c.fail(err, "toggle task")
			}

			c.refresh()

			return nil
		},
	}

	events['f'] = KeyEvent{
		Description: "Filter done/open",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.taskFilter.State = next(taskStates(), c.taskFilter.State)
			c.refresh()

			return nil
		},
	}

	events['c'] = KeyEvent{
		Description: "Filter category",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.taskFilter.Category = next(taskCategories(), c.taskFilter.Category)
			c.refresh()

			log.Debug().Str("category", string(c.taskFilter.Category)).Msg("task filter changed")

			return nil
		},
	}
}

func (c *Controller) selectedGuest() (planner.Guest, bool) {
	row, _ := c.lists[pageGuests].GetSelection()

	return c.guests.guestAt(row)
}

func (c *Controller) selectedTask() (planner.Task, bool) {
	row, _ := c.lists[pageTasks].GetSelection()

	return c.tasks.taskAt(row)
}
