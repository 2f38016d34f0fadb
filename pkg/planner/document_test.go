package planner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) *planner.Planner {
	t.Helper()

	ctx := context.Background()
	p, _ := newPlanner(t, planner.UTableInput{Left: 2, Right: 2, Bottom: 2})

	couple := addGuest(t, p, "Alice", "Bob")
	single := addGuest(t, p, "Carol", "")
	_, err := p.AddGuest(ctx, planner.GuestInput{Name: "Dan", Status: planner.StatusPending})
	require.NoError(t, err)

	table, err := p.CreateTable(ctx, 4)
	require.NoError(t, err)
	_, err = p.CreateTable(ctx, 2)
	require.NoError(t, err)

	_, err = p.Assign(ctx, table.ID, 0, couple.ID, true)
	require.NoError(t, err)
	_, err = p.Assign(ctx, planner.UTableID, 3, single.ID, false)
	require.NoError(t, err)

	deadline := "2026-11-01"
	_, err = p.AddTask(ctx, planner.TaskInput{
		Text: "order the cake", Category: planner.CategoryFood, Deadline: &deadline, Priority: planner.PriorityHigh,
	})
	require.NoError(t, err)

	return p
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	source := populated(t)
	exported := source.Export()
	assert.Equal(fixedNow(), exported.ExportDate)
	assert.Equal(planner.AppVersion, exported.AppVersion)

	var buf bytes.Buffer
	require.NoError(t, exported.Encode(&buf))

	decoded, err := planner.DecodeDocument(&buf)
	require.NoError(t, err)

	assert.Equal(planner.ImportSummary{
		ExportDate: fixedNow(), AppVersion: planner.AppVersion, Guests: 3, Tables: 2, HasUTable: true, Tasks: 1,
	}, decoded.Summary())

	target, gateway := newPlanner(t, planner.UTableInput{})
	addGuest(t, target, "Someone else", "")

	require.NoError(t, target.Import(ctx, decoded))
	assert.Equal(2, gateway.saves)

	imported := target.Export()
	assert.Equal(exported.Guests, imported.Guests)
	assert.Equal(exported.Tables, imported.Tables)
	assert.Equal(exported.UTable, imported.UTable)
	assert.Equal(len(exported.Tasks), len(imported.Tasks))
	assert.Equal(exported.Tasks[0].Text, imported.Tasks[0].Text)
	assert.Equal(*exported.Tasks[0].Deadline, *imported.Tasks[0].Deadline)
	assert.True(exported.Tasks[0].CreatedAt.Equal(imported.Tasks[0].CreatedAt))
	assert.Nil(target.Verify())
}

func TestDecodeDocumentSchema(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":           `{"guests": [`,
		"not an object":      `[1, 2]`,
		"missing guests":     `{"tables": []}`,
		"missing tables":     `{"guests": []}`,
		"guests not a list":  `{"guests": {}, "tables": []}`,
		"tables null":        `{"guests": [], "tables": null}`,
		"guest without id":   `{"guests": [{"name": "A", "status": "pending"}], "tables": []}`,
		"bad status":         `{"guests": [{"id": "g", "name": "A", "status": "maybe"}], "tables": []}`,
		"couple no partner":  `{"guests": [{"id": "g", "name": "A", "status": "pending", "isCouple": true}], "tables": []}`,
		"duplicate guest":    `{"guests": [{"id": "g", "name": "A", "status": "pending"}, {"id": "g", "name": "B", "status": "pending"}], "tables": []}`,
		"unknown seat guest": `{"guests": [], "tables": [{"id": "t", "number": 1, "seats": [{"id": "x", "name": "X", "role": "primary"}]}]}`,
		"u-table table id":   `{"guests": [], "tables": [{"id": "u-table", "number": 1, "seats": []}]}`,
		"u-table size":       `{"guests": [], "tables": [], "uTable": {"leftSeats": 1, "rightSeats": 1, "bottomSeats": 1, "seats": [null]}}`,
		"bad task":           `{"guests": [], "tables": [], "tasks": [{"id": "k", "text": "x", "category": "other", "priority": "high"}]}`,
		"bad deadline":       `{"guests": [], "tables": [], "tasks": [{"id": "k", "text": "x", "category": "food", "priority": "high", "deadline": "soon"}]}`,
		"partner alone": `{"guests": [{"id": "g", "name": "A", "status": "confirmed", "isCouple": true, "partnerName": "B"}],
			"tables": [{"id": "t", "number": 1, "seats": [{"id": "g", "name": "B", "role": "partner"}]}]}`,
		"seated twice": `{"guests": [{"id": "g", "name": "A", "status": "confirmed"}],
			"tables": [{"id": "t", "number": 1, "seats": [{"id": "g", "name": "A", "role": "primary"}, {"id": "g", "name": "A", "role": "primary"}]}]}`,
	}

	for name, input := range cases {
		_, err := planner.DecodeDocument(strings.NewReader(input))
		assert.True(t, errors.Is(err, planner.ErrSchema), name)
	}
}

func TestDecodeDocumentOptionalSections(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	doc, err := planner.DecodeDocument(strings.NewReader(`{"guests": [], "tables": []}`))
	require.NoError(t, err)
	assert.Nil(doc.UTable)
	assert.NotNil(doc.Tasks)
	assert.Equal(0, len(doc.Tasks))

	doc, err = planner.DecodeDocument(strings.NewReader(
		`{"guests": [], "tables": [], "uTable": {"leftSeats": 2, "rightSeats": 1, "bottomSeats": 0}}`))
	require.NoError(t, err)
	assert.Equal(3, len(doc.UTable.Seats))
}

func TestImportWithoutUTableUsesLayout(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p := populated(t)

	doc, err := planner.DecodeDocument(strings.NewReader(`{
		"guests": [{"id": "g", "name": "Ann", "status": "confirmed", "tableId": "t", "seatIndex": 5}],
		"tables": [
			{"id": "t", "number": 7, "seats": [null, {"id": "g", "name": "Ann", "role": "primary"}]},
			{"id": "s", "number": 3, "seats": [null]}
		]
	}`))
	require.NoError(t, err)
	require.NoError(t, p.Import(ctx, doc))

	u := p.UTable()
	assert.Equal(6, u.Total())
	assert.Equal(0, countOccupied(u.Seats))

	tables := p.Tables()
	assert.Equal(1, tables[0].Number)
	assert.Equal(2, tables[1].Number)

	// the seat reference follows the slot, not the stale seatIndex
	got, err := p.Guest("g")
	assert.Nil(err)
	assert.Equal(1, *got.SeatIndex)
	assert.Equal(0, len(p.Tasks(planner.TaskFilter{})))
	assert.Nil(p.Verify())
}

func TestImportRejectedKeepsState(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	p := populated(t)
	before := p.Export()

	assert.True(errors.Is(p.Import(ctx, nil), planner.ErrSchema))
	assert.True(errors.Is(p.Import(ctx, &planner.Document{Guests: []*planner.Guest{}}), planner.ErrSchema))

	bad := &planner.Document{
		Guests: []*planner.Guest{{ID: "g", Name: "A", Status: "maybe"}},
		Tables: []*planner.Table{},
	}
	assert.True(errors.Is(p.Import(ctx, bad), planner.ErrSchema))

	after := p.Export()
	assert.Equal(before.Guests, after.Guests)
	assert.Equal(before.Tables, after.Tables)
	assert.Equal(before.UTable, after.UTable)
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	day := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)

	assert.Equal("anniversaire-mamie-2026-03-09.json", planner.ExportFileName("Anniversaire Mamie", day))
	assert.Equal("event-2026-03-09.json", planner.ExportFileName("  ", day))
}
