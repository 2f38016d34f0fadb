// Package planner holds the state of an event: guests, tables with their seats, the U-table and
// the todo list. Every mutation is written through to a Gateway before it returns.
package planner

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Gateway loads and stores the whole planner state.
type Gateway interface {
	// LoadAll returns the stored document, or false when nothing has been stored yet.
	LoadAll(ctx context.Context) (*Document, bool, error)
	SaveAll(ctx context.Context, doc *Document) error
}

// Options tune a Planner. Zero values get defaults.
type Options struct {
	// UTable is the arm layout of a U-table created from scratch.
	UTable UTableInput
	NewID  func() string
	Now    func() time.Time
}

// DefaultUTable is the U-table layout used when nothing else is configured.
func DefaultUTable() UTableInput {
	return UTableInput{Left: 8, Right: 8, Bottom: 6}
}

// Planner is the entry point of every operation.
//
// Failed operations leave the state untouched. When a mutation succeeds but cannot be saved,
// the returned error wraps ErrIO and the in-memory change is kept.
type Planner struct {
	gateway Gateway
	now     func() time.Time
	layout  UTableInput
	guests  *guestRegistry
	tables  *tableRegistry
	tasks   *taskRegistry
	seats   *allocator
}

// New loads the stored state through the gateway, or starts empty with a default U-table.
func New(ctx context.Context, gateway Gateway, opts Options) (*Planner, error) {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.UTable == (UTableInput{}) {
		opts.UTable = DefaultUTable()
	}

	if err := check(opts.UTable); err != nil {
		return nil, fmt.Errorf("error in u-table defaults: %w", err)
	}

	p := &Planner{
		gateway: gateway,
		now:     opts.Now,
		layout:  opts.UTable,
		guests:  newGuestRegistry(opts.NewID),
		tables:  newTableRegistry(opts.NewID, opts.UTable),
		tasks:   newTaskRegistry(opts.NewID, opts.Now),
	}
	p.seats = &allocator{guests: p.guests, tables: p.tables}

	doc, found, err := gateway.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading planner state: %w", ErrIO, err)
	}

	if !found {
		log.Info().Msg("no stored state, starting empty")

		return p, nil
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("error in stored state: %w", err)
	}

	p.load(doc)

	log.Info().
		Int("guests", len(p.guests.guests)).
		Int("tables", len(p.tables.tables)).
		Int("tasks", len(p.tasks.tasks)).
		Msg("loaded planner state")

	return p, nil
}

func (p *Planner) load(doc *Document) {
	p.guests.replace(doc.Guests)

	uTable := doc.UTable
	if uTable == nil {
		uTable = newUTable(p.layout)
	}

	p.tables.replace(doc.Tables, uTable)
	p.tasks.replace(doc.Tasks)

	if repaired := p.seats.rebuild(); repaired > 0 {
		log.Warn().Int("guests", repaired).Msg("guest seat references rebuilt from the seats")
	}
}

// commit writes the state through the gateway after a successful mutation.
func (p *Planner) commit(ctx context.Context, action string) error {
	if err := p.gateway.SaveAll(ctx, p.document()); err != nil {
		log.Error().Err(err).Str("action", action).Msg("error saving planner state")

		return fmt.Errorf("%w: saving after %s: %w", ErrIO, action, err)
	}

	log.Debug().Str("action", action).Msg("saved planner state")

	return nil
}

func (p *Planner) document() *Document {
	doc := &Document{
		Guests:     make([]*Guest, 0, len(p.guests.guests)),
		Tables:     make([]*Table, 0, len(p.tables.tables)),
		UTable:     p.tables.uTable.clone(),
		Tasks:      make([]*Task, 0, len(p.tasks.tasks)),
		AppVersion: AppVersion,
	}

	for _, g := range p.guests.guests {
		doc.Guests = append(doc.Guests, g.clone())
	}

	for _, t := range p.tables.tables {
		doc.Tables = append(doc.Tables, t.clone())
	}

	for _, t := range p.tasks.tasks {
		doc.Tasks = append(doc.Tasks, t.clone())
	}

	return doc
}

// Export returns a copy of the whole state stamped with the export time.
func (p *Planner) Export() *Document {
	doc := p.document()
	doc.ExportDate = p.now().UTC()

	return doc
}

// Import replaces every registry with the document content. Nothing changes when the document
// is rejected.
func (p *Planner) Import(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrSchema)
	}

	if doc.Guests == nil || doc.Tables == nil {
		return fmt.Errorf("%w: guests and tables are required", ErrSchema)
	}

	if err := doc.Validate(); err != nil {
		return err
	}

	p.load(doc)

	log.Info().Int("guests", len(doc.Guests)).Int("tables", len(doc.Tables)).Msg("imported document")

	return p.commit(ctx, "import")
}

// Verify checks that every seated guest points at a slot holding them and the other way round.
func (p *Planner) Verify() error {
	return p.seats.verify()
}

// AddGuest registers a guest without a seat.
func (p *Planner) AddGuest(ctx context.Context, in GuestInput) (Guest, error) {
	guest, err := p.guests.add(in)
	if err != nil {
		return Guest{}, err
	}

	log.Debug().Str("guest", guest.ID).Str("name", guest.Name).Msg("added guest")

	return *guest.clone(), p.commit(ctx, "add guest")
}

// UpdateGuest edits a guest. The seat is kept; seat labels follow the new names and a guest that
// stops being a couple frees the partner seat.
func (p *Planner) UpdateGuest(ctx context.Context, id string, in GuestInput) (Guest, error) {
	guest, err := p.guests.update(id, in)
	if err != nil {
		return Guest{}, err
	}

	p.seats.refresh(guest)

	return *guest.clone(), p.commit(ctx, "update guest")
}

// RemoveGuest frees the seats of the guest, then deletes it.
func (p *Planner) RemoveGuest(ctx context.Context, id string) error {
	guest, err := p.guests.get(id)
	if err != nil {
		return err
	}

	if err := p.seats.vacateGuest(guest); err != nil {
		return err
	}

	p.guests.remove(id)

	log.Debug().Str("guest", id).Msg("removed guest")

	return p.commit(ctx, "remove guest")
}

// Guest returns a copy of one guest.
func (p *Planner) Guest(id string) (Guest, error) {
	guest, err := p.guests.get(id)
	if err != nil {
		return Guest{}, err
	}

	return *guest.clone(), nil
}

// Guests returns the guests matching filter in insertion order.
func (p *Planner) Guests(filter GuestFilter) iter.Seq[Guest] {
	return p.guests.view(filter)
}

// AvailableGuests lists the confirmed guests that have no seat yet.
func (p *Planner) AvailableGuests() []Guest {
	out := []Guest{}

	for g := range p.guests.view(GuestFilter(StatusConfirmed)) {
		if !g.Seated() {
			out = append(out, g)
		}
	}

	return out
}

// GuestStats counts guests by status.
func (p *Planner) GuestStats() GuestStats {
	return p.guests.stats()
}

// CreateTable appends a rectangular table with seatCount empty seats.
func (p *Planner) CreateTable(ctx context.Context, seatCount int) (Table, error) {
	table, err := p.tables.create(seatCount)
	if err != nil {
		return Table{}, err
	}

	log.Debug().Str("table", table.ID).Int("number", table.Number).Int("seats", seatCount).Msg("created table")

	return *table.clone(), p.commit(ctx, "create table")
}

// DeleteTable frees every seat of the table, removes it and renumbers the others.
func (p *Planner) DeleteTable(ctx context.Context, id string) error {
	if err := p.seats.deleteTable(id); err != nil {
		return err
	}

	log.Debug().Str("table", id).Msg("deleted table")

	return p.commit(ctx, "delete table")
}

// Table returns a copy of one rectangular table.
func (p *Planner) Table(id string) (Table, error) {
	table, err := p.tables.get(id)
	if err != nil {
		return Table{}, err
	}

	return *table.clone(), nil
}

// Tables returns copies of the rectangular tables ordered by number.
func (p *Planner) Tables() []Table {
	out := make([]Table, 0, len(p.tables.tables))

	for _, t := range p.tables.tables {
		out = append(out, *t.clone())
	}

	return out
}

// UTable returns a copy of the U-table.
func (p *Planner) UTable() UTable {
	return *p.tables.uTable.clone()
}

// CreateOrResizeUTable sets the arm sizes of the U-table. Occupants keep their flat position;
// those beyond the new end lose their seat.
func (p *Planner) CreateOrResizeUTable(ctx context.Context, in UTableInput) (UTable, error) {
	if err := p.seats.resizeUTable(in); err != nil {
		return UTable{}, err
	}

	log.Debug().Int("left", in.Left).Int("bottom", in.Bottom).Int("right", in.Right).Msg("resized u-table")

	return p.UTable(), p.commit(ctx, "resize u-table")
}

// PartnerCandidate returns the seat the partner of a couple would take when seated at seat.
func (p *Planner) PartnerCandidate(tableID string, seat int) (int, bool, error) {
	return p.seats.partnerCandidate(tableID, seat)
}

// Assign seats a confirmed guest. For a couple, seatPartner decides whether the partner takes
// the adjacent free seat; Placement reports what happened.
func (p *Planner) Assign(ctx context.Context, tableID string, seat int, guestID string, seatPartner bool) (Placement, error) {
	placement, err := p.seats.assign(tableID, seat, guestID, seatPartner)
	if err != nil {
		return Placement{}, err
	}

	log.Debug().
		Str("table", tableID).
		Int("seat", seat).
		Str("guest", guestID).
		Bool("partner", placement.PartnerSeated).
		Msg("assigned seat")

	return placement, p.commit(ctx, "assign seat")
}

// Vacate frees a seat and the other seat of a couple. Vacating an empty seat does nothing.
func (p *Planner) Vacate(ctx context.Context, tableID string, seat int) error {
	changed, err := p.seats.vacate(tableID, seat)
	if err != nil || !changed {
		return err
	}

	log.Debug().Str("table", tableID).Int("seat", seat).Msg("vacated seat")

	return p.commit(ctx, "vacate seat")
}

// AddTask appends a task to the todo list.
func (p *Planner) AddTask(ctx context.Context, in TaskInput) (Task, error) {
	task, err := p.tasks.add(in)
	if err != nil {
		return Task{}, err
	}

	return *task.clone(), p.commit(ctx, "add task")
}

// UpdateTask edits a task.
func (p *Planner) UpdateTask(ctx context.Context, id string, in TaskInput) (Task, error) {
	task, err := p.tasks.update(id, in)
	if err != nil {
		return Task{}, err
	}

	return *task.clone(), p.commit(ctx, "update task")
}

// ToggleTask flips the completion of a task.
func (p *Planner) ToggleTask(ctx context.Context, id string) (Task, error) {
	task, err := p.tasks.toggle(id)
	if err != nil {
		return Task{}, err
	}

	return *task.clone(), p.commit(ctx, "toggle task")
}

// RemoveTask deletes a task.
func (p *Planner) RemoveTask(ctx context.Context, id string) error {
	if err := p.tasks.remove(id); err != nil {
		return err
	}

	return p.commit(ctx, "remove task")
}

// Tasks returns the matching tasks in display order.
func (p *Planner) Tasks(filter TaskFilter) []Task {
	return p.tasks.list(filter)
}

// TaskStats counts tasks by completion.
func (p *Planner) TaskStats() TaskStats {
	return p.tasks.stats()
}
