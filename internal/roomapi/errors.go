package roomapi

import (
	"errors"
	"fmt"
)

// ErrInconsistentRequest reports caller misuse of Book: the service can only
// reserve slots in one room on one calendar day per submission. Detected
// before any network call.
var ErrInconsistentRequest = errors.New("reservation slots must share one room and one day")

// ListingError reports a failed sniff or page fetch. The whole listing call
// fails with it; there is no partial-result mode. Page is the 0-indexed page
// within Week, or -1 for the sniff.
type ListingError struct {
	Week int
	Page int
	Err  error
}

func (e *ListingError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("listing sniff failed: %v", e.Err)
	}
	return fmt.Sprintf("listing page %d (week offset %d) failed: %v", e.Page, e.Week, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

// RejectedError reports a reservation the service refused, either at the
// transport level (Err set) or by its own status envelope (Code/Msg set).
type RejectedError struct {
	Code string
	Msg  string
	Err  error
}

func (e *RejectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reservation rejected: %v", e.Err)
	}
	return fmt.Sprintf("reservation rejected: code=%s msg=%q", e.Code, e.Msg)
}

func (e *RejectedError) Unwrap() error { return e.Err }
