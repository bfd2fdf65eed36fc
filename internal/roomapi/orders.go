package roomapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/timerange"
)

// Wire schema for the usage query. Unlike the other endpoints this one takes
// plain form fields (no JSON envelope) and nests its rows under "datas".
type ordersResponse struct {
	status
	Datas struct {
		Cdsyqkcx struct {
			Rows []orderRow `json:"rows"`
		} `json:"cdsyqkcx"`
	} `json:"datas"`
}

type orderRow struct {
	UseDate     string `json:"SYRQ"` // "2024-05-01 08:00-08:45"
	Applicant   string `json:"SQRXM"`
	Tel         string `json:"LXDH"`
	Description string `json:"SQCS"`
}

// FetchOrders lists the reservations already placed for one room on one day.
// The endpoint does not echo room names, so returned orders carry only the
// room id.
func (c *Client) FetchOrders(ctx context.Context, roomID string, date time.Time) ([]booking.Order, error) {
	form := url.Values{
		"CDDM": {roomID},
		"YYRQ": {date.Format(dateLayout)},
	}
	body, err := c.postForm(ctx, ordersPath, form, minRequestTimeout)
	if err != nil {
		return nil, err
	}
	var res ordersResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	// This endpoint's msg field is not stable; only the code means anything.
	if res.Code != "0" {
		return nil, fmt.Errorf("service refused orders query: code=%s", res.Code)
	}

	orders := make([]booking.Order, 0, len(res.Datas.Cdsyqkcx.Rows))
	for _, row := range res.Datas.Cdsyqkcx.Rows {
		day, rng, found := strings.Cut(row.UseDate, " ")
		if !found {
			return nil, fmt.Errorf("bad order period %q", row.UseDate)
		}
		d, err := time.ParseInLocation(dateLayout, day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad order date %q: %w", day, err)
		}
		start, end, err := timerange.Parse(rng)
		if err != nil {
			return nil, err
		}
		orders = append(orders, booking.Order{
			Booking: booking.Booking{
				RoomID: roomID,
				Start:  onDate(d, start),
				End:    onDate(d, end),
			},
			Applicant:   row.Applicant,
			Tel:         row.Tel,
			Description: row.Description,
		})
	}
	return orders, nil
}
