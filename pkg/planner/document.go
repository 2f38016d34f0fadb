package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gosimple/slug"
)

// AppVersion is written into every exported document.
const AppVersion = "1.0"

// Document is the exchanged and persisted form of the whole planner state.
type Document struct {
	Guests     []*Guest  `json:"guests"`
	Tables     []*Table  `json:"tables"`
	UTable     *UTable   `json:"uTable,omitempty"`
	Tasks      []*Task   `json:"tasks"`
	ExportDate time.Time `json:"exportDate"`
	AppVersion string    `json:"appVersion"`
}

// ImportSummary is what the user confirms before an import replaces their data.
type ImportSummary struct {
	ExportDate time.Time
	AppVersion string
	Guests     int
	Tables     int
	HasUTable  bool
	Tasks      int
}

// Summary describes the document for an import confirmation.
func (d *Document) Summary() ImportSummary {
	return ImportSummary{
		ExportDate: d.ExportDate,
		AppVersion: d.AppVersion,
		Guests:     len(d.Guests),
		Tables:     len(d.Tables),
		HasUTable:  d.UTable != nil,
		Tasks:      len(d.Tasks),
	}
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	return nil
}

// DecodeDocument reads and checks a document. The whole document is rejected with ErrSchema
// unless guests and tables are JSON arrays; uTable and tasks may be missing.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %w", ErrIO, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	for _, key := range []string{"guests", "tables"} {
		value, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrSchema, key)
		}

		if trimmed := bytes.TrimSpace(value); len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: %s must be a list", ErrSchema, key)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if doc.Tasks == nil {
		doc.Tasks = []*Task{}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks the structure of the document: known enum values, unique ids, and seat
// records that point at known guests in a coherent way. A U-table with arm counts but no seats
// is expanded to empty seats.
func (d *Document) Validate() error {
	guests := map[string]*Guest{}

	for i, g := range d.Guests {
		if g == nil || g.ID == "" {
			return fmt.Errorf("%w: guest %d has no id", ErrSchema, i)
		}

		if _, dup := guests[g.ID]; dup {
			return fmt.Errorf("%w: duplicate guest id %s", ErrSchema, g.ID)
		}

		if g.Name == "" {
			return fmt.Errorf("%w: guest %s has no name", ErrSchema, g.ID)
		}

		switch g.Status {
		case StatusPending, StatusConfirmed, StatusDeclined:
		default:
			return fmt.Errorf("%w: guest %s has unknown status %q", ErrSchema, g.ID, g.Status)
		}

		if g.IsCouple && g.PartnerName == "" {
			return fmt.Errorf("%w: couple %s has no partner name", ErrSchema, g.ID)
		}

		guests[g.ID] = g
	}

	primaries := map[string]bool{}
	tableIDs := map[string]bool{}

	for i, t := range d.Tables {
		if t == nil || t.ID == "" || t.ID == UTableID {
			return fmt.Errorf("%w: table %d has no usable id", ErrSchema, i)
		}

		if tableIDs[t.ID] {
			return fmt.Errorf("%w: duplicate table id %s", ErrSchema, t.ID)
		}

		tableIDs[t.ID] = true

		if err := checkSeats(t.ID, t.Seats, guests, primaries); err != nil {
			return err
		}
	}

	if u := d.UTable; u != nil {
		if u.LeftSeats < 0 || u.RightSeats < 0 || u.BottomSeats < 0 {
			return fmt.Errorf("%w: u-table arms cannot be negative", ErrSchema)
		}

		if len(u.Seats) == 0 {
			u.Seats = make([]*Occupancy, u.Total())
		}

		if len(u.Seats) != u.Total() {
			return fmt.Errorf("%w: u-table has %d seats for %d places", ErrSchema, len(u.Seats), u.Total())
		}

		if err := checkSeats(UTableID, u.Seats, guests, primaries); err != nil {
			return err
		}
	}

	taskIDs := map[string]bool{}

	for i, t := range d.Tasks {
		if t == nil || t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", ErrSchema, i)
		}

		if taskIDs[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", ErrSchema, t.ID)
		}

		taskIDs[t.ID] = true

		in := TaskInput{Text: t.Text, Category: t.Category, Deadline: t.Deadline, Priority: t.Priority}
		if err := check(in); err != nil {
			return fmt.Errorf("%w: task %s: %v", ErrSchema, t.ID, err)
		}
	}

	return nil
}

func checkSeats(tableID string, seats []*Occupancy, guests map[string]*Guest, primaries map[string]bool) error {
	local := map[string]bool{}
	partners := map[string]bool{}

	for i, occ := range seats {
		if occ == nil {
			continue
		}

		guest, ok := guests[occ.GuestID]
		if !ok {
			return fmt.Errorf("%w: seat %d at table %s holds unknown guest %s", ErrSchema, i, tableID, occ.GuestID)
		}

		switch occ.Role {
		case RolePrimary:
			if primaries[guest.ID] {
				return fmt.Errorf("%w: guest %s is seated twice", ErrSchema, guest.ID)
			}

			primaries[guest.ID] = true
			local[guest.ID] = true
		case RolePartner:
			if !guest.IsCouple {
				return fmt.Errorf("%w: guest %s has a partner seat but is not a couple", ErrSchema, guest.ID)
			}

			if partners[guest.ID] {
				return fmt.Errorf("%w: guest %s has two partner seats", ErrSchema, guest.ID)
			}

			partners[guest.ID] = true
		default:
			return fmt.Errorf("%w: seat %d at table %s has unknown role %q", ErrSchema, i, tableID, occ.Role)
		}
	}

	for id := range partners {
		if !local[id] {
			return fmt.Errorf("%w: partner of guest %s sits at table %s without the primary", ErrSchema, id, tableID)
		}
	}

	return nil
}

// ExportFileName names an export file after the event and the day of the export.
func ExportFileName(event string, now time.Time) string {
	name := slug.Make(event)
	if name == "" {
		name = "event"
	}

	return fmt.Sprintf("%s-%s.json", name, now.Format(DateLayout))
}
