package roomapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/timerange"
)

// The service slows roughly linearly with page size, so each page request
// gets a timeout proportional to the rooms it asks for, with a floor for the
// fixed overhead.
const (
	minRequestTimeout = 20 * time.Second
	perRoomTimeout    = 20 * time.Second
)

func pageTimeout(roomsPerPage int) time.Duration {
	d := time.Duration(roomsPerPage) * perRoomTimeout
	if d < minRequestTimeout {
		return minRequestTimeout
	}
	return d
}

// Wire schema for the listing endpoint. Field names are the service's own
// abbreviations; they are mapped here once and nowhere else.
type listingRequest struct {
	Date       string `json:"YYRQ"`
	PageNumber int    `json:"pageNumber"` // 1-indexed on the wire
	PageSize   int    `json:"pageSize"`
}

type listingResponse struct {
	status
	Data listingData `json:"data"`
}

type listingData struct {
	WeekList     []weekEntry `json:"weekList"`
	SiteInfoList []siteInfo  `json:"siteInfoList"`
}

type weekEntry struct {
	Date string `json:"WEEKDATE"`
}

type siteInfo struct {
	RoomName   string      `json:"CDMC"`
	RoomID     string      `json:"CDDM"`
	TotalCount json.Number `json:"totalCount"`
	Week       []dayStatus `json:"currentWeekData"`
}

type dayStatus struct {
	Locked  bool   `json:"isLock"`
	Slots   string `json:"applyTime"` // comma-joined "HH:MM-HH:MM", may be empty
	Weekday int    `json:"XQJ"`       // 1 = Monday … 7 = Sunday
}

// FetchOptions tunes a listing call. The zero value selects the defaults.
type FetchOptions struct {
	// RoomsPerPage is the page size requested from the service. Larger pages
	// mean fewer, slower requests; it is the only concurrency knob this
	// client exposes.
	RoomsPerPage int
	// Weeks is how many Monday–Sunday weeks to cover, starting with the week
	// containing the target date.
	Weeks int
}

const (
	DefaultRoomsPerPage = 3
	DefaultWeeks        = 2
)

func (o FetchOptions) withDefaults() FetchOptions {
	if o.RoomsPerPage <= 0 {
		o.RoomsPerPage = DefaultRoomsPerPage
	}
	if o.Weeks <= 0 {
		o.Weeks = DefaultWeeks
	}
	return o
}

// FetchBookings lists every open slot in the week containing date and the
// following opts.Weeks-1 weeks.
//
// One minimal sniff page (size 1) is fetched first: it is the cheapest way to
// learn the week's calendar and the total room count, which the fetch plan
// depends on. Every remaining page of every week is then fetched
// concurrently over the shared session and the per-page results are
// flattened in plan order — per page, per room, per day, per slot, with no
// sorting or de-duplication.
//
// A single failed page fails the whole call with a *ListingError: a partial
// availability list is worse than an explicit error, because a caller might
// book against it. Cancelling ctx cancels all in-flight pages.
func (c *Client) FetchBookings(ctx context.Context, date time.Time, opts FetchOptions) ([]booking.Booking, error) {
	opts = opts.withDefaults()

	sniff, err := c.fetchListingPage(ctx, date, 0, 1)
	if err != nil {
		return nil, &ListingError{Week: 0, Page: -1, Err: err}
	}
	week, err := weekCalendar(sniff.WeekList)
	if err != nil {
		return nil, &ListingError{Week: 0, Page: -1, Err: err}
	}
	if len(sniff.SiteInfoList) == 0 {
		return nil, &ListingError{Week: 0, Page: -1, Err: errors.New("sniff returned no rooms")}
	}
	total, err := sniff.SiteInfoList[0].TotalCount.Int64()
	if err != nil || total < 1 {
		return nil, &ListingError{Week: 0, Page: -1, Err: fmt.Errorf("bad room count %q", sniff.SiteInfoList[0].TotalCount)}
	}
	nPages := int((total + int64(opts.RoomsPerPage) - 1) / int64(opts.RoomsPerPage))

	// The service only reports calendar alignment for the sniffed week;
	// later weeks reuse it shifted by 7 days.
	type pageFetch struct {
		week, page int
		date       time.Time
		calendar   []time.Time
	}
	var plan []pageFetch
	for w := 0; w < opts.Weeks; w++ {
		shiftedDate := date.AddDate(0, 0, 7*w)
		calendar := shiftDays(week, 7*w)
		for p := 0; p < nPages; p++ {
			plan = append(plan, pageFetch{week: w, page: p, date: shiftedDate, calendar: calendar})
		}
	}

	results := make([][]booking.Booking, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	for i, pf := range plan {
		i, pf := i, pf
		g.Go(func() error {
			data, err := c.fetchListingPage(gctx, pf.date, pf.page, opts.RoomsPerPage)
			if err != nil {
				return &ListingError{Week: pf.week, Page: pf.page, Err: err}
			}
			bs, err := parseListing(data, pf.calendar)
			if err != nil {
				return &ListingError{Week: pf.week, Page: pf.page, Err: err}
			}
			results[i] = bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []booking.Booking
	for _, page := range results {
		out = append(out, page...)
	}
	c.logger.Debug("listing fetched",
		"date", date.Format(dateLayout),
		"rooms", total,
		"pages", nPages*opts.Weeks,
		"slots", len(out))
	return out, nil
}

// fetchListingPage retrieves one raw page. page is 0-indexed; the wire wants
// it 1-indexed.
func (c *Client) fetchListingPage(ctx context.Context, date time.Time, page, roomsPerPage int) (*listingData, error) {
	payload := listingRequest{
		Date:       date.Format(dateLayout),
		PageNumber: page + 1,
		PageSize:   roomsPerPage,
	}
	body, err := c.postData(ctx, siteInfoPath, payload, pageTimeout(roomsPerPage))
	if err != nil {
		return nil, err
	}
	var res listingResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if !res.ok() {
		return nil, fmt.Errorf("service refused listing: code=%s msg=%q", res.Code, res.Msg)
	}
	return &res.Data, nil
}

// parseListing turns one raw page into bookings. calendar is the
// Monday–Sunday week the page's weekday indices refer to. A day entry that is
// locked or has empty slot text contributes nothing; that means "nothing to
// parse", not "nothing available".
func parseListing(data *listingData, calendar []time.Time) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, room := range data.SiteInfoList {
		for _, day := range room.Week {
			if day.Locked || day.Slots == "" {
				continue
			}
			if day.Weekday < 1 || day.Weekday > len(calendar) {
				return nil, fmt.Errorf("weekday index %d outside calendar", day.Weekday)
			}
			date := calendar[day.Weekday-1]
			for _, rng := range strings.Split(day.Slots, ",") {
				start, end, err := timerange.Parse(rng)
				if err != nil {
					return nil, err
				}
				out = append(out, booking.Booking{
					RoomName: room.RoomName,
					RoomID:   room.RoomID,
					Start:    onDate(date, start),
					End:      onDate(date, end),
				})
			}
		}
	}
	return out, nil
}

// weekCalendar decodes the sniffed weekList: exactly 7 dates, Monday–Sunday,
// each one day after the previous. Everything downstream resolves weekday
// indices against it, so a bent calendar fails the listing here.
func weekCalendar(entries []weekEntry) ([]time.Time, error) {
	if len(entries) != 7 {
		return nil, fmt.Errorf("week calendar has %d days, want 7", len(entries))
	}
	out := make([]time.Time, len(entries))
	for i, e := range entries {
		d, err := time.ParseInLocation(dateLayout, e.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("week date %q: %w", e.Date, err)
		}
		if i > 0 && !d.Equal(out[i-1].AddDate(0, 0, 1)) {
			return nil, fmt.Errorf("week calendar not consecutive at %q", e.Date)
		}
		out[i] = d
	}
	return out, nil
}

func shiftDays(dates []time.Time, days int) []time.Time {
	if days == 0 {
		return dates
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = d.AddDate(0, 0, days)
	}
	return out
}

// onDate combines a calendar date with a time of day.
func onDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
}
