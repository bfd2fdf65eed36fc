package roomapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/timerange"
)

// ReservationRequest carries everything the reserve endpoint needs besides
// the slots themselves. All slots must belong to one room on one calendar
// day; the wire order of the slots follows the slice order.
type ReservationRequest struct {
	Slots       []booking.Booking
	Tel         string
	Applicant   string
	Description string
	Remark      string
}

func (r ReservationRequest) validate() error {
	if len(r.Slots) == 0 {
		return fmt.Errorf("%w: no slots given", ErrInconsistentRequest)
	}
	first := r.Slots[0]
	for _, s := range r.Slots[1:] {
		if s.RoomID != first.RoomID {
			return fmt.Errorf("%w: rooms %s and %s", ErrInconsistentRequest, first.RoomID, s.RoomID)
		}
		if !sameDay(s.Start, first.Start) {
			return fmt.Errorf("%w: days %s and %s",
				ErrInconsistentRequest, first.Start.Format(dateLayout), s.Start.Format(dateLayout))
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type reservePayload struct {
	RoomName    string `json:"CDDM_DISPLAY"`
	RoomID      string `json:"CDDM"`
	Date        string `json:"YYRQ"`
	Slots       string `json:"SYSD"` // comma-joined "HH:MM-HH:MM"
	Description string `json:"SQCS"`
	Remark      string `json:"BZ"`
	Tel         string `json:"LXDH"`
	Applicant   string `json:"SQRXM"`

	// The service requires these three fields but never reads their values.
	UnitCode    string `json:"DWDM"`
	ApplyCode   string `json:"SQBM"`
	ReviewState string `json:"SHZT"`
}

// Book submits one reservation covering every slot in req.
//
// The service has been observed to accept submissions without checking for
// conflicts, so a nil return means the request was accepted, not that the
// slots were still free.
func (c *Client) Book(ctx context.Context, req ReservationRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	ranges := make([]string, len(req.Slots))
	for i, s := range req.Slots {
		ranges[i] = timerange.Format(s.Start, s.End)
	}
	first := req.Slots[0]
	payload := reservePayload{
		RoomName:    first.RoomName,
		RoomID:      first.RoomID,
		Date:        first.Start.Format(dateLayout),
		Slots:       strings.Join(ranges, ","),
		Description: req.Description,
		Remark:      req.Remark,
		Tel:         req.Tel,
		Applicant:   req.Applicant,
		UnitCode:    "299792458",
		ApplyCode:   "",
		ReviewState: "90",
	}

	body, err := c.postData(ctx, reservePath, payload, minRequestTimeout)
	if err != nil {
		return &RejectedError{Err: err}
	}
	var res struct{ status }
	if err := json.Unmarshal(body, &res); err != nil {
		return &RejectedError{Err: fmt.Errorf("decode reserve response: %w", err)}
	}
	if !res.ok() {
		return &RejectedError{Code: res.Code, Msg: res.Msg}
	}
	c.logger.Info("reservation submitted",
		"room", first.RoomID,
		"date", payload.Date,
		"slots", payload.Slots)
	return nil
}
