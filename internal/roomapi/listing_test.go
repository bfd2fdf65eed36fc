package roomapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/timerange"
)

// Monday of the week under test; 2024-05-01 is its Wednesday.
var monday = time.Date(2024, 4, 29, 0, 0, 0, 0, time.Local)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	mux.HandleFunc("/xsfw/sys/swpubapp/indexmenu/getAppConfig.do", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"0"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), srv.Client(), WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func decodeDataField(t *testing.T, r *http.Request, v any) {
	t.Helper()
	require.NoError(t, r.ParseForm())
	require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("data")), v))
}

func weekListJSON(monday time.Time) string {
	days := make([]string, 7)
	for i := range days {
		days[i] = fmt.Sprintf(`{"WEEKDATE":%q}`, monday.AddDate(0, 0, i).Format(dateLayout))
	}
	return "[" + strings.Join(days, ",") + "]"
}

// recordingService answers the listing endpoint and keeps every request it
// saw. Pages carry one room apiece whose id encodes (date, page) so tests can
// check flattening order.
type recordingService struct {
	t          *testing.T
	totalCount int

	mu       sync.Mutex
	requests []listingRequest
}

func (s *recordingService) handle(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	decodeDataField(s.t, r, &req)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	require.NoError(s.t, err)
	weekMonday := monday.AddDate(0, 0, 7*weeksBetween(monday, date))

	roomID := fmt.Sprintf("%s/p%d", req.Date, req.PageNumber-1)
	fmt.Fprintf(w, `{"code":"0","msg":"成功","data":{"weekList":%s,"siteInfoList":[
		{"CDMC":"room","CDDM":%q,"totalCount":%d,
		 "currentWeekData":[{"isLock":false,"applyTime":"08:00-08:45","XQJ":3}]}
	]}}`, weekListJSON(weekMonday), roomID, s.totalCount)
}

func weeksBetween(a, b time.Time) int {
	n := 0
	for d := a.AddDate(0, 0, 7); !d.After(b); d = d.AddDate(0, 0, 7) {
		n++
	}
	return n
}

func TestFetchBookingsPlansPagesAcrossWeeks(t *testing.T) {
	svc := &recordingService{t: t, totalCount: 5}
	mux := http.NewServeMux()
	mux.HandleFunc(siteInfoPath, svc.handle)
	c := newTestClient(t, mux)

	got, err := c.FetchBookings(context.Background(), monday, FetchOptions{RoomsPerPage: 2, Weeks: 2})
	require.NoError(t, err)

	// ceil(5/2) = 3 pages per week, 2 weeks, plus the sniff.
	require.Len(t, svc.requests, 7)

	sniff := svc.requests[0]
	assert.Equal(t, 1, sniff.PageSize, "sniff must request a single room")
	assert.Equal(t, 1, sniff.PageNumber)
	assert.Equal(t, monday.Format(dateLayout), sniff.Date)

	week2 := monday.AddDate(0, 0, 7)
	perDate := map[string]int{}
	for _, req := range svc.requests[1:] {
		assert.Equal(t, 2, req.PageSize)
		perDate[req.Date]++
	}
	assert.Equal(t, map[string]int{
		monday.Format(dateLayout): 3,
		week2.Format(dateLayout):  3,
	}, perDate)

	// One slot per page, flattened in plan order: week 0 pages 0..2, then
	// week 1 pages 0..2.
	require.Len(t, got, 6)
	for i, b := range got {
		w, p := i/3, i%3
		date := monday.AddDate(0, 0, 7*w)
		assert.Equal(t, fmt.Sprintf("%s/p%d", date.Format(dateLayout), p), b.RoomID)
		// XQJ=3 resolves to the Wednesday of the respective week.
		wed := date.AddDate(0, 0, 2)
		assert.True(t, b.Start.Equal(time.Date(wed.Year(), wed.Month(), wed.Day(), 8, 0, 0, 0, time.Local)), "slot %d start", i)
		assert.True(t, b.End.Equal(time.Date(wed.Year(), wed.Month(), wed.Day(), 8, 45, 0, 0, time.Local)), "slot %d end", i)
	}
}

func TestFetchBookingsPageCount(t *testing.T) {
	svc := &recordingService{t: t, totalCount: 23}
	mux := http.NewServeMux()
	mux.HandleFunc(siteInfoPath, svc.handle)
	c := newTestClient(t, mux)

	_, err := c.FetchBookings(context.Background(), monday, FetchOptions{RoomsPerPage: 5, Weeks: 1})
	require.NoError(t, err)

	// ceil(23/5) = 5 pages plus the sniff.
	assert.Len(t, svc.requests, 6)
}

func TestFetchBookingsFailsWholeOnOneBadPage(t *testing.T) {
	mux := http.NewServeMux()
	// Sibling requests may be cancelled once the bad page fails, so parse
	// leniently instead of asserting.
	mux.HandleFunc(siteInfoPath, func(w http.ResponseWriter, r *http.Request) {
		var req listingRequest
		_ = r.ParseForm()
		_ = json.Unmarshal([]byte(r.PostFormValue("data")), &req)

		if req.PageSize == 1 { // sniff
			fmt.Fprintf(w, `{"code":"0","msg":"成功","data":{"weekList":%s,"siteInfoList":[{"CDMC":"r","CDDM":"1","totalCount":4,"currentWeekData":[]}]}}`,
				weekListJSON(monday))
			return
		}
		if req.PageNumber == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"code":"0","msg":"成功","data":{"weekList":%s,"siteInfoList":[{"CDMC":"r","CDDM":"1","totalCount":4,"currentWeekData":[{"isLock":false,"applyTime":"08:00-08:45","XQJ":1}]}]}}`,
			weekListJSON(monday))
	})
	c := newTestClient(t, mux)

	got, err := c.FetchBookings(context.Background(), monday, FetchOptions{RoomsPerPage: 2, Weeks: 1})
	require.Error(t, err)
	assert.Nil(t, got, "no partial results on failure")

	var le *ListingError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Page)
	assert.Equal(t, 0, le.Week)
}

func TestFetchBookingsSniffRefused(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(siteInfoPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"500","msg":"内部错误","data":{}}`)
	})
	c := newTestClient(t, mux)

	_, err := c.FetchBookings(context.Background(), monday, FetchOptions{})
	var le *ListingError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, -1, le.Page)
	assert.Contains(t, le.Error(), "sniff")
}

func TestParseListingSkipsLockedAndEmpty(t *testing.T) {
	data := &listingData{SiteInfoList: []siteInfo{{
		RoomName: "r", RoomID: "1",
		Week: []dayStatus{
			{Locked: true, Slots: "08:00-08:45", Weekday: 1},
			{Locked: false, Slots: "", Weekday: 2},
		},
	}}}
	got, err := parseListing(data, weekDates(monday))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseListingResolvesWeekday(t *testing.T) {
	data := &listingData{SiteInfoList: []siteInfo{{
		RoomName: "静c-自习室111", RoomID: "100501",
		Week: []dayStatus{{Slots: "08:00-08:45,09:00-09:45", Weekday: 3}},
	}}}
	got, err := parseListing(data, weekDates(monday))
	require.NoError(t, err)

	require.Len(t, got, 2)
	want := []booking.Booking{
		{
			RoomName: "静c-自习室111", RoomID: "100501",
			Start: time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local),
			End:   time.Date(2024, 5, 1, 8, 45, 0, 0, time.Local),
		},
		{
			RoomName: "静c-自习室111", RoomID: "100501",
			Start: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
			End:   time.Date(2024, 5, 1, 9, 45, 0, 0, time.Local),
		},
	}
	for i := range want {
		assert.Equal(t, want[i].RoomName, got[i].RoomName)
		assert.True(t, got[i].Same(want[i]), "slot %d", i)
	}
}

func TestParseListingRejectsMalformedSlotText(t *testing.T) {
	data := &listingData{SiteInfoList: []siteInfo{{
		Week: []dayStatus{{Slots: "08:00-08:45-09:00", Weekday: 1}},
	}}}
	_, err := parseListing(data, weekDates(monday))
	require.Error(t, err)
	assert.ErrorIs(t, err, timerange.ErrMalformed)
}

func TestParseListingRejectsWeekdayOutOfRange(t *testing.T) {
	data := &listingData{SiteInfoList: []siteInfo{{
		Week: []dayStatus{{Slots: "08:00-08:45", Weekday: 8}},
	}}}
	_, err := parseListing(data, weekDates(monday))
	require.Error(t, err)
}

func TestWeekCalendar(t *testing.T) {
	entries := make([]weekEntry, 7)
	for i := range entries {
		entries[i] = weekEntry{Date: monday.AddDate(0, 0, i).Format(dateLayout)}
	}
	got, err := weekCalendar(entries)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.True(t, got[0].Equal(monday))
	assert.True(t, got[6].Equal(monday.AddDate(0, 0, 6)))

	_, err = weekCalendar(entries[:6])
	require.Error(t, err)

	bent := append([]weekEntry(nil), entries...)
	bent[3] = bent[2]
	_, err = weekCalendar(bent)
	require.Error(t, err)
}

func TestPageTimeout(t *testing.T) {
	assert.Equal(t, 20*time.Second, pageTimeout(1))
	assert.Equal(t, 60*time.Second, pageTimeout(3))
	assert.Equal(t, 200*time.Second, pageTimeout(10))
}

func weekDates(monday time.Time) []time.Time {
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}
