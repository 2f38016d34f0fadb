package planner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// memGateway keeps the last saved document in memory.
type memGateway struct {
	doc   *planner.Document
	saves int
	fail  error
}

func (m *memGateway) LoadAll(ctx context.Context) (*planner.Document, bool, error) {
	if m.doc == nil {
		return nil, false, nil
	}

	return m.doc, true, nil
}

func (m *memGateway) SaveAll(ctx context.Context, doc *planner.Document) error {
	if m.fail != nil {
		return m.fail
	}

	m.doc = doc
	m.saves++

	return nil
}

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("id-%d", n)
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func newPlanner(t *testing.T, layout planner.UTableInput) (*planner.Planner, *memGateway) {
	t.Helper()

	gateway := &memGateway{}

	p, err := planner.New(context.Background(), gateway, planner.Options{
		UTable: layout,
		NewID:  sequentialIDs(),
		Now:    fixedNow,
	})
	require.NoError(t, err)

	return p, gateway
}

func addGuest(t *testing.T, p *planner.Planner, name, partner string) planner.Guest {
	t.Helper()

	guest, err := p.AddGuest(context.Background(), planner.GuestInput{
		Name:        name,
		Status:      planner.StatusConfirmed,
		IsCouple:    partner != "",
		PartnerName: partner,
	})
	require.NoError(t, err)

	return guest
}

func names(seq func(func(planner.Guest) bool)) []string {
	out := []string{}

	for g := range seq {
		out = append(out, g.Name)
	}

	return out
}

func TestNewStartsEmpty(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	p, gateway := newPlanner(t, planner.UTableInput{})

	assert.Equal(0, p.GuestStats().Total)
	assert.Equal(0, len(p.Tables()))

	u := p.UTable()
	assert.Equal(8, u.LeftSeats)
	assert.Equal(8, u.RightSeats)
	assert.Equal(6, u.BottomSeats)
	assert.Equal(22, len(u.Seats))
	assert.Equal(0, gateway.saves)
}

func TestNewLoadFailure(t *testing.T) {
	t.Parallel()

	_, err := planner.New(context.Background(), &failingLoader{}, planner.Options{})
	assert.True(t, errors.Is(err, planner.ErrIO))
}

type failingLoader struct{ memGateway }

func (failingLoader) LoadAll(ctx context.Context) (*planner.Document, bool, error) {
	return nil, false, errDiskFull
}

func TestAddGuestValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, gateway := newPlanner(t, planner.UTableInput{})

	cases := map[string]planner.GuestInput{
		"empty name":     {Name: "", Status: planner.StatusPending},
		"blank name":     {Name: "   ", Status: planner.StatusPending},
		"no partner":     {Name: "Alice", Status: planner.StatusPending, IsCouple: true},
		"blank partner":  {Name: "Alice", Status: planner.StatusPending, IsCouple: true, PartnerName: " "},
		"unknown status": {Name: "Alice", Status: "maybe"},
		"missing status": {Name: "Alice"},
	}

	for name, in := range cases {
		_, err := p.AddGuest(ctx, in)
		assert.True(t, errors.Is(err, planner.ErrValidation), name)
	}

	assert.Equal(t, 0, p.GuestStats().Total)
	assert.Equal(t, 0, gateway.saves)
}

func TestAddGuest(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, gateway := newPlanner(t, planner.UTableInput{})

	guest, err := p.AddGuest(ctx, planner.GuestInput{Name: " Alice ", Status: planner.StatusPending, PartnerName: "ignored"})
	assert.Nil(err)
	assert.Equal("Alice", guest.Name)
	assert.Equal("", guest.PartnerName)
	assert.False(guest.Seated())
	assert.Equal(1, gateway.saves)
	assert.Equal("Alice", gateway.doc.Guests[0].Name)

	couple, err := p.AddGuest(ctx, planner.GuestInput{
		Name: "Carl", Status: planner.StatusConfirmed, IsCouple: true, PartnerName: "Dana",
	})
	assert.Nil(err)
	assert.Equal("Carl & Dana", couple.DisplayName())
}

func TestUpdateGuest(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, _ := newPlanner(t, planner.UTableInput{})
	guest := addGuest(t, p, "Alice", "")

	_, err := p.UpdateGuest(ctx, "missing", planner.GuestInput{Name: "X", Status: planner.StatusPending})
	assert.True(errors.Is(err, planner.ErrNotFound))

	_, err = p.UpdateGuest(ctx, guest.ID, planner.GuestInput{Name: "Alice", Status: planner.StatusPending, IsCouple: true})
	assert.True(errors.Is(err, planner.ErrValidation))

	// a failed update changes nothing
	got, err := p.Guest(guest.ID)
	assert.Nil(err)
	assert.False(got.IsCouple)
	assert.Equal(planner.StatusConfirmed, got.Status)

	updated, err := p.UpdateGuest(ctx, guest.ID, planner.GuestInput{
		Name: "Alicia", Status: planner.StatusDeclined, IsCouple: true, PartnerName: "Bob",
	})
	assert.Nil(err)
	assert.Equal("Alicia", updated.Name)
	assert.Equal(planner.StatusDeclined, updated.Status)
	assert.Equal("Bob", updated.PartnerName)
}

func TestUpdateGuestRefreshesSeats(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, _ := newPlanner(t, planner.UTableInput{})
	guest := addGuest(t, p, "Alice", "Bob")
	table, err := p.CreateTable(ctx, 2)
	require.NoError(t, err)

	_, err = p.Assign(ctx, table.ID, 0, guest.ID, true)
	require.NoError(t, err)

	_, err = p.UpdateGuest(ctx, guest.ID, planner.GuestInput{
		Name: "Alicia", Status: planner.StatusConfirmed, IsCouple: true, PartnerName: "Robert",
	})
	assert.Nil(err)

	table, _ = p.Table(table.ID)
	assert.Equal("Alicia", table.Seats[0].Name)
	assert.Equal("Robert", table.Seats[1].Name)

	// no longer a couple: the partner seat is released, the primary seat stays
	_, err = p.UpdateGuest(ctx, guest.ID, planner.GuestInput{Name: "Alicia", Status: planner.StatusConfirmed})
	assert.Nil(err)

	table, _ = p.Table(table.ID)
	assert.NotNil(table.Seats[0])
	assert.Nil(table.Seats[1])
	assert.Nil(p.Verify())
}

func TestRemoveGuest(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, _ := newPlanner(t, planner.UTableInput{})

	assert.True(errors.Is(p.RemoveGuest(ctx, "missing"), planner.ErrNotFound))

	guest := addGuest(t, p, "Alice", "")
	table, _ := p.CreateTable(ctx, 3)

	_, err := p.Assign(ctx, table.ID, 1, guest.ID, false)
	require.NoError(t, err)

	assert.Nil(p.RemoveGuest(ctx, guest.ID))

	table, _ = p.Table(table.ID)
	assert.Equal(0, table.Occupied())

	_, err = p.Guest(guest.ID)
	assert.True(errors.Is(err, planner.ErrNotFound))
}

func TestGuestFilters(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, _ := newPlanner(t, planner.UTableInput{})

	inputs := []planner.GuestInput{
		{Name: "Ann", Status: planner.StatusPending},
		{Name: "Ben", Status: planner.StatusConfirmed, IsCouple: true, PartnerName: "Bea"},
		{Name: "Cid", Status: planner.StatusDeclined},
		{Name: "Dot", Status: planner.StatusConfirmed},
		{Name: "Eve", Status: planner.StatusPending, IsCouple: true, PartnerName: "Eli"},
	}

	for _, in := range inputs {
		_, err := p.AddGuest(ctx, in)
		require.NoError(t, err)
	}

	assert.Equal([]string{"Ann", "Ben", "Cid", "Dot", "Eve"}, names(p.Guests(planner.FilterAll)))
	assert.Equal([]string{"Ben", "Dot"}, names(p.Guests(planner.GuestFilter(planner.StatusConfirmed))))
	assert.Equal([]string{"Ann", "Eve"}, names(p.Guests(planner.GuestFilter(planner.StatusPending))))
	assert.Equal([]string{"Ben", "Eve"}, names(p.Guests(planner.FilterCouple)))

	// the view is restartable and sees later changes
	view := p.Guests(planner.FilterCouple)
	assert.Equal([]string{"Ben", "Eve"}, names(view))

	_, err := p.AddGuest(ctx, planner.GuestInput{Name: "Fay", Status: planner.StatusPending, IsCouple: true, PartnerName: "Fin"})
	require.NoError(t, err)
	assert.Equal([]string{"Ben", "Eve", "Fay"}, names(view))

	// stopping early is fine
	for g := range view {
		assert.Equal("Ben", g.Name)

		break
	}

	assert.Equal(planner.GuestStats{Total: 6, Confirmed: 2, Pending: 3, Declined: 1, Couples: 3}, p.GuestStats())
}

func TestAvailableGuests(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, _ := newPlanner(t, planner.UTableInput{})

	seated := addGuest(t, p, "Ann", "")
	addGuest(t, p, "Ben", "")
	_, err := p.AddGuest(ctx, planner.GuestInput{Name: "Cid", Status: planner.StatusPending})
	require.NoError(t, err)

	_, err = p.Assign(ctx, planner.UTableID, 0, seated.ID, false)
	require.NoError(t, err)

	available := p.AvailableGuests()
	assert.Equal(1, len(available))
	assert.Equal("Ben", available[0].Name)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, gateway := newPlanner(t, planner.UTableInput{})
	gateway.fail = errDiskFull

	guest, err := p.AddGuest(ctx, planner.GuestInput{Name: "Alice", Status: planner.StatusConfirmed})
	assert.True(errors.Is(err, planner.ErrIO))
	assert.True(errors.Is(err, errDiskFull))
	assert.Equal("Alice", guest.Name)

	_, err = p.Guest(guest.ID)
	assert.Nil(err)
	assert.Equal(1, p.GuestStats().Total)
}

func TestReloadFromGateway(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p, gateway := newPlanner(t, planner.UTableInput{Left: 2, Right: 2, Bottom: 1})
	guest := addGuest(t, p, "Alice", "Bob")

	_, err := p.Assign(ctx, planner.UTableID, 0, guest.ID, true)
	require.NoError(t, err)

	reloaded, err := planner.New(ctx, gateway, planner.Options{})
	require.NoError(t, err)

	u := reloaded.UTable()
	assert.Equal(5, len(u.Seats))
	assert.Equal(planner.RolePrimary, u.Seats[0].Role)
	assert.Equal(planner.RolePartner, u.Seats[1].Role)

	got, err := reloaded.Guest(guest.ID)
	assert.Nil(err)
	assert.Equal(planner.UTableID, *got.TableID)
	assert.Nil(reloaded.Verify())
}
