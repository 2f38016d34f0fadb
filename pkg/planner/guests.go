package planner

import (
	"fmt"
	"iter"

	"github.com/jinzhu/copier"
)

// GuestFilter selects guests for display: FilterAll, FilterCouple or one of the statuses.
type GuestFilter string

const (
	FilterAll    GuestFilter = "all"
	FilterCouple GuestFilter = "couple"
)

func (f GuestFilter) match(g *Guest) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterCouple:
		return g.IsCouple
	}

	return string(g.Status) == string(f)
}

// GuestStats are the counters shown above the guest list.
type GuestStats struct {
	Total     int
	Confirmed int
	Pending   int
	Declined  int
	Couples   int
}

// guestRegistry owns the guest records in insertion order. Seat fields are written by the
// allocator only.
type guestRegistry struct {
	guests []*Guest
	byID   map[string]*Guest
	newID  func() string
}

func newGuestRegistry(newID func() string) *guestRegistry {
	return &guestRegistry{
		guests: []*Guest{},
		byID:   map[string]*Guest{},
		newID:  newID,
	}
}

func (r *guestRegistry) replace(guests []*Guest) {
	r.guests = make([]*Guest, 0, len(guests))
	r.byID = make(map[string]*Guest, len(guests))

	for _, g := range guests {
		c := g.clone()
		r.guests = append(r.guests, c)
		r.byID[c.ID] = c
	}
}

func (r *guestRegistry) get(id string) (*Guest, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: guest %s", ErrNotFound, id)
	}

	return g, nil
}

func (r *guestRegistry) add(in GuestInput) (*Guest, error) {
	in = in.normalize()

	if err := check(in); err != nil {
		return nil, err
	}

	guest := &Guest{ID: r.newID()}

	if err := copier.Copy(guest, &in); err != nil {
		return nil, fmt.Errorf("error copying guest input: %w", err)
	}

	r.guests = append(r.guests, guest)
	r.byID[guest.ID] = guest

	return guest, nil
}

func (r *guestRegistry) update(id string, in GuestInput) (*Guest, error) {
	guest, err := r.get(id)
	if err != nil {
		return nil, err
	}

	in = in.normalize()

	if err := check(in); err != nil {
		return nil, err
	}

	if err := copier.Copy(guest, &in); err != nil {
		return nil, fmt.Errorf("error copying guest input: %w", err)
	}

	return guest, nil
}

func (r *guestRegistry) remove(id string) {
	delete(r.byID, id)

	for i, g := range r.guests {
		if g.ID == id {
			r.guests = append(r.guests[:i], r.guests[i+1:]...)

			break
		}
	}
}

// view yields copies of the matching guests. The sequence reads the registry on every
// iteration, so it can be ranged over again after a mutation.
func (r *guestRegistry) view(filter GuestFilter) iter.Seq[Guest] {
	return func(yield func(Guest) bool) {
		for _, g := range r.guests {
			if !filter.match(g) {
				continue
			}

			if !yield(*g.clone()) {
				return
			}
		}
	}
}

func (r *guestRegistry) stats() GuestStats {
	stats := GuestStats{Total: len(r.guests)}

	for _, g := range r.guests {
		switch g.Status {
		case StatusConfirmed:
			stats.Confirmed++
		case StatusPending:
			stats.Pending++
		case StatusDeclined:
			stats.Declined++
		}

		if g.IsCouple {
			stats.Couples++
		}
	}

	return stats
}
