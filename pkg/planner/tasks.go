package planner

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/jinzhu/copier"
)

// TaskState filters tasks on completion.
type TaskState string

const (
	TasksAll       TaskState = "all"
	TasksActive    TaskState = "active"
	TasksCompleted TaskState = "completed"
)

// TaskFilter selects tasks for display. Empty fields match everything.
type TaskFilter struct {
	State    TaskState
	Category TaskCategory
}

func (f TaskFilter) match(t *Task) bool {
	switch f.State {
	case TasksActive:
		if t.Completed {
			return false
		}
	case TasksCompleted:
		if !t.Completed {
			return false
		}
	}

	return f.Category == "" || f.Category == "all" || f.Category == t.Category
}

// TaskStats are the counters shown above the todo list.
type TaskStats struct {
	Total     int
	Completed int
	Active    int
}

type taskRegistry struct {
	tasks []*Task
	newID func() string
	now   func() time.Time
}

func newTaskRegistry(newID func() string, now func() time.Time) *taskRegistry {
	return &taskRegistry{tasks: []*Task{}, newID: newID, now: now}
}

func (r *taskRegistry) replace(tasks []*Task) {
	r.tasks = make([]*Task, 0, len(tasks))

	for _, t := range tasks {
		r.tasks = append(r.tasks, t.clone())
	}
}

func (r *taskRegistry) get(id string) (*Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
}

func (r *taskRegistry) add(in TaskInput) (*Task, error) {
	in = in.normalize()

	if err := check(in); err != nil {
		return nil, err
	}

	task := &Task{ID: r.newID(), CreatedAt: r.now()}

	if err := copier.Copy(task, &in); err != nil {
		return nil, fmt.Errorf("error copying task input: %w", err)
	}

	r.tasks = append(r.tasks, task)

	return task, nil
}

func (r *taskRegistry) update(id string, in TaskInput) (*Task, error) {
	task, err := r.get(id)
	if err != nil {
		return nil, err
	}

	in = in.normalize()

	if err := check(in); err != nil {
		return nil, err
	}

	if err := copier.Copy(task, &in); err != nil {
		return nil, fmt.Errorf("error copying task input: %w", err)
	}

	// a nil deadline clears the previous one
	task.Deadline = in.Deadline

	return task, nil
}

func (r *taskRegistry) toggle(id string) (*Task, error) {
	task, err := r.get(id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed

	return task, nil
}

func (r *taskRegistry) remove(id string) error {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("%w: task %s", ErrNotFound, id)
}

// list returns the matching tasks ordered by priority, then open before done, then newest first.
func (r *taskRegistry) list(filter TaskFilter) []Task {
	out := []Task{}

	for _, t := range r.tasks {
		if filter.match(t) {
			out = append(out, *t.clone())
		}
	}

	slices.SortStableFunc(out, compareTasks)

	return out
}

func compareTasks(a, b Task) int {
	if d := a.Priority.rank() - b.Priority.rank(); d != 0 {
		return d
	}

	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}

		return -1
	}

	return b.CreatedAt.Compare(a.CreatedAt)
}

func (r *taskRegistry) stats() TaskStats {
	stats := TaskStats{Total: len(r.tasks)}

	for _, t := range r.tasks {
		if t.Completed {
			stats.Completed++
		}
	}

	stats.Active = stats.Total - stats.Completed

	return stats
}

// DeadlineKind classifies a deadline relative to today.
type DeadlineKind string

const (
	DeadlineNone     DeadlineKind = "none"
	DeadlineOverdue  DeadlineKind = "overdue"
	DeadlineToday    DeadlineKind = "today"
	DeadlineTomorrow DeadlineKind = "tomorrow"
	DeadlineUpcoming DeadlineKind = "upcoming"
	DeadlineLater    DeadlineKind = "later"
)

// upcomingDays is how far ahead a deadline counts as upcoming.
const upcomingDays = 7

// DeadlineStatus tells how far a deadline is from now, in calendar days.
type DeadlineStatus struct {
	Kind DeadlineKind
	Days int
	Date time.Time
}

// DeadlineStatus classifies the task deadline against the calendar day of now.
func (t *Task) DeadlineStatus(now time.Time) DeadlineStatus {
	if t.Deadline == nil {
		return DeadlineStatus{Kind: DeadlineNone}
	}

	date, err := time.ParseInLocation(DateLayout, *t.Deadline, now.Location())
	if err != nil {
		return DeadlineStatus{Kind: DeadlineNone}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Round(date.Sub(today).Hours() / 24))

	status := DeadlineStatus{Days: days, Date: date}

	switch {
	case days < 0:
		status.Kind = DeadlineOverdue
	case days == 0:
		status.Kind = DeadlineToday
	case days == 1:
		status.Kind = DeadlineTomorrow
	case days <= upcomingDays:
		status.Kind = DeadlineUpcoming
	default:
		status.Kind = DeadlineLater
	}

	return status
}
