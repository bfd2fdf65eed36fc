// Package booking defines the bookable-slot value shared by the listing,
// reservation and snapshot layers.
package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/bitroom/internal/timerange"
)

// isoLocal is the zone-less timestamp layout used in snapshots. The service
// lives in a single timezone, so instants are kept local and never converted.
const isoLocal = "2006-01-02T15:04:05"

// Booking is one bookable (room, start, end) slot. Values are immutable after
// construction. RoomID is the identity key; RoomName is display-only and not
// unique.
type Booking struct {
	RoomName string
	RoomID   string
	Start    time.Time
	End      time.Time
}

// Same reports whether two bookings denote the same slot: equal room id,
// start and end. Room names do not participate.
func (b Booking) Same(o Booking) bool {
	return b.RoomID == o.RoomID && b.Start.Equal(o.Start) && b.End.Equal(o.End)
}

func (b Booking) String() string {
	return fmt.Sprintf("[%s] %s", b.RoomName, timerange.FormatDisplay(b.Start, b.End))
}

// snapshotBooking is the persisted form: four flat string fields with
// zone-less ISO-8601 timestamps.
type snapshotBooking struct {
	RoomName string `json:"room_name"`
	RoomID   string `json:"room_id"`
	Start    string `json:"t_start"`
	End      string `json:"t_end"`
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotBooking{
		RoomName: b.RoomName,
		RoomID:   b.RoomID,
		Start:    b.Start.Format(isoLocal),
		End:      b.End.Format(isoLocal),
	})
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	var raw snapshotBooking
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := time.ParseInLocation(isoLocal, raw.Start, time.Local)
	if err != nil {
		return fmt.Errorf("booking t_start: %w", err)
	}
	end, err := time.ParseInLocation(isoLocal, raw.End, time.Local)
	if err != nil {
		return fmt.Errorf("booking t_end: %w", err)
	}
	b.RoomName = raw.RoomName
	b.RoomID = raw.RoomID
	b.Start = start
	b.End = end
	return nil
}

// Order is a slot somebody has already reserved, as reported by the usage
// query endpoint.
type Order struct {
	Booking
	Applicant   string
	Tel         string
	Description string
}

func (o Order) String() string {
	return fmt.Sprintf("%s %q (%s): %q", o.Booking, o.Applicant, o.Tel, o.Description)
}
