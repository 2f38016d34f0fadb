package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Placement describes the outcome of a seat assignment.
type Placement struct {
	TableID string
	Seat    int
	// PartnerSeated is set when the partner of a couple took PartnerSeat.
	PartnerSeated bool
	PartnerSeat   int
	// NoAdjacentSeat is set for couples when no free seat was next to Seat.
	NoAdjacentSeat bool
}

// allocator is the only writer of seat slots and guest back-references, so both sides are
// always updated together.
type allocator struct {
	guests *guestRegistry
	tables *tableRegistry
}

// partnerCandidate returns the seat a partner would take next to seat.
func (al *allocator) partnerCandidate(tableID string, seat int) (int, bool, error) {
	a, err := al.tables.area(tableID)
	if err != nil {
		return -1, false, err
	}

	if err := a.inRange(seat); err != nil {
		return -1, false, err
	}

	n, ok := a.partnerCandidate(seat)

	return n, ok, nil
}

func (al *allocator) assign(tableID string, seat int, guestID string, seatPartner bool) (Placement, error) {
	a, err := al.tables.area(tableID)
	if err != nil {
		return Placement{}, err
	}

	if err := a.inRange(seat); err != nil {
		return Placement{}, err
	}

	guest, err := al.guests.get(guestID)
	if err != nil {
		return Placement{}, err
	}

	if occ := a.seats[seat]; occ != nil {
		return Placement{}, fmt.Errorf("%w: seat %d at table %s is taken by %s", ErrSeatOccupied, seat, tableID, occ.Name)
	}

	if guest.Status != StatusConfirmed {
		return Placement{}, fmt.Errorf("%w: %s is %s, not confirmed", ErrGuestUnavailable, guest.Name, guest.Status)
	}

	if guest.Seated() {
		return Placement{}, fmt.Errorf("%w: %s already has seat %d at table %s",
			ErrGuestUnavailable, guest.Name, *guest.SeatIndex, *guest.TableID)
	}

	a.seats[seat] = &Occupancy{GuestID: guest.ID, Name: guest.Name, Role: RolePrimary}
	setBackReference(guest, tableID, seat)

	placement := Placement{TableID: tableID, Seat: seat, PartnerSeat: -1}

	if !guest.IsCouple {
		return placement, nil
	}

	n, ok := a.partnerCandidate(seat)
	if !ok {
		placement.NoAdjacentSeat = true

		return placement, nil
	}

	if seatPartner {
		a.seats[n] = &Occupancy{GuestID: guest.ID, Name: guest.PartnerName, Role: RolePartner}
		placement.PartnerSeated = true
		placement.PartnerSeat = n
	}

	return placement, nil
}

// vacate frees a seat together with the other half of a couple. It reports whether anything
// changed; vacating an empty seat is a no-op.
func (al *allocator) vacate(tableID string, seat int) (bool, error) {
	a, err := al.tables.area(tableID)
	if err != nil {
		return false, err
	}

	if err := a.inRange(seat); err != nil {
		return false, err
	}

	occ := a.seats[seat]
	if occ == nil {
		return false, nil
	}

	a.seats[seat] = nil

	for i, other := range a.seats {
		if other != nil && other.GuestID == occ.GuestID {
			a.seats[i] = nil
		}
	}

	if guest, err := al.guests.get(occ.GuestID); err == nil {
		clearBackReference(guest)
	}

	return true, nil
}

func (al *allocator) vacateGuest(guest *Guest) error {
	if !guest.Seated() {
		return nil
	}

	_, err := al.vacate(*guest.TableID, *guest.SeatIndex)

	return err
}

// refresh brings the occupancy records of a guest in line with an edited guest record.
func (al *allocator) refresh(guest *Guest) {
	if !guest.Seated() {
		return
	}

	a, err := al.tables.area(*guest.TableID)
	if err != nil {
		return
	}

	for i, occ := range a.seats {
		if occ == nil || occ.GuestID != guest.ID {
			continue
		}

		switch occ.Role {
		case RolePrimary:
			occ.Name = guest.Name
		case RolePartner:
			if !guest.IsCouple {
				a.seats[i] = nil

				continue
			}

			occ.Name = guest.PartnerName
		}
	}
}

func (al *allocator) deleteTable(id string) error {
	if id == UTableID {
		return fmt.Errorf("%w: the U-table can only be resized", ErrValidation)
	}

	table, err := al.tables.get(id)
	if err != nil {
		return err
	}

	for i := range table.Seats {
		if _, err := al.vacate(id, i); err != nil {
			return err
		}
	}

	al.tables.remove(id)

	return nil
}

// resizeUTable rebuilds the flat seat list. Occupants keep their position; occupants past the
// new end are vacated, and a couple whose primary seat is dropped loses its partner seat too.
func (al *allocator) resizeUTable(in UTableInput) error {
	if err := check(in); err != nil {
		return err
	}

	u := al.tables.uTable
	resized := newUTable(in)

	copy(resized.Seats, u.Seats)

	var dropped []*Occupancy

	for i := len(resized.Seats); i < len(u.Seats); i++ {
		if u.Seats[i] != nil {
			dropped = append(dropped, u.Seats[i])
		}
	}

	u.LeftSeats, u.RightSeats, u.BottomSeats = resized.LeftSeats, resized.RightSeats, resized.BottomSeats
	u.Seats = resized.Seats

	for _, occ := range dropped {
		if occ.Role != RolePrimary {
			continue
		}

		for i, other := range u.Seats {
			if other != nil && other.GuestID == occ.GuestID {
				u.Seats[i] = nil
			}
		}

		if guest, err := al.guests.get(occ.GuestID); err == nil {
			clearBackReference(guest)
		}

		log.Debug().Str("guest", occ.GuestID).Msg("dropped from the u-table by resize")
	}

	return nil
}

// rebuild derives every guest back-reference from the primary slots.
func (al *allocator) rebuild() int {
	repaired := 0
	seen := map[string]bool{}

	for _, a := range al.tables.areas() {
		for i, occ := range a.seats {
			if occ == nil || occ.Role != RolePrimary {
				continue
			}

			guest, err := al.guests.get(occ.GuestID)
			if err != nil {
				continue
			}

			seen[guest.ID] = true

			if !guest.Seated() || *guest.TableID != a.id || *guest.SeatIndex != i {
				repaired++
			}

			setBackReference(guest, a.id, i)
		}
	}

	for _, guest := range al.guests.guests {
		if !seen[guest.ID] && guest.Seated() {
			clearBackReference(guest)
			repaired++
		}
	}

	return repaired
}

// verify checks that slots and back-references agree.
func (al *allocator) verify() error {
	var problems []string

	primaries := map[string]int{}

	for _, a := range al.tables.areas() {
		partners := map[string]int{}

		for i, occ := range a.seats {
			if occ == nil {
				continue
			}

			guest, err := al.guests.get(occ.GuestID)
			if err != nil {
				problems = append(problems, fmt.Sprintf("seat %d at table %s holds unknown guest %s", i, a.id, occ.GuestID))

				continue
			}

			switch occ.Role {
			case RolePrimary:
				primaries[guest.ID]++

				if !guest.Seated() || *guest.TableID != a.id || *guest.SeatIndex != i {
					problems = append(problems, fmt.Sprintf("%s sits at seat %d of table %s but does not point back", guest.Name, i, a.id))
				}
			case RolePartner:
				partners[guest.ID]++

				if !guest.IsCouple {
					problems = append(problems, fmt.Sprintf("%s has a partner seat but is not a couple", guest.Name))
				}

				if !guest.Seated() || *guest.TableID != a.id {
					problems = append(problems, fmt.Sprintf("partner of %s sits at table %s without the primary", guest.Name, a.id))
				}
			default:
				problems = append(problems, fmt.Sprintf("seat %d at table %s has unknown role %q", i, a.id, occ.Role))
			}
		}

		for id, n := range partners {
			if n > 1 {
				problems = append(problems, fmt.Sprintf("guest %s has %d partner seats at table %s", id, n, a.id))
			}
		}
	}

	for _, guest := range al.guests.guests {
		n := primaries[guest.ID]

		switch {
		case n > 1:
			problems = append(problems, fmt.Sprintf("%s holds %d primary seats", guest.Name, n))
		case n == 0 && guest.Seated():
			problems = append(problems, fmt.Sprintf("%s points at seat %d of table %s which does not hold them",
				guest.Name, *guest.SeatIndex, *guest.TableID))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	return nil
}

func setBackReference(guest *Guest, tableID string, seat int) {
	id, idx := tableID, seat
	guest.TableID = &id
	guest.SeatIndex = &idx
}

func clearBackReference(guest *Guest) {
	guest.TableID = nil
	guest.SeatIndex = nil
}
