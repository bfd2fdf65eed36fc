package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Booking {
	return Booking{
		RoomName: "静c-自习室111",
		RoomID:   "100501",
		Start:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local),
		End:      time.Date(2024, 5, 1, 8, 45, 0, 0, time.Local),
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := sample()

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var back Booking
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, b.RoomName, back.RoomName)
	assert.Equal(t, b.RoomID, back.RoomID)
	assert.True(t, back.Start.Equal(b.Start))
	assert.True(t, back.End.Equal(b.End))
}

func TestSnapshotKeys(t *testing.T) {
	raw, err := json.Marshal(sample())
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, map[string]string{
		"room_name": "静c-自习室111",
		"room_id":   "100501",
		"t_start":   "2024-05-01T08:00:00",
		"t_end":     "2024-05-01T08:45:00",
	}, m)
}

func TestUnmarshalRejectsBadTimestamps(t *testing.T) {
	var b Booking
	err := json.Unmarshal([]byte(`{"room_name":"x","room_id":"1","t_start":"soon","t_end":"2024-05-01T08:45:00"}`), &b)
	require.Error(t, err)
}

func TestSame(t *testing.T) {
	a := sample()

	b := a
	b.RoomName = "renamed"
	assert.True(t, a.Same(b), "room name is not part of slot identity")

	c := a
	c.RoomID = "100502"
	assert.False(t, a.Same(c))

	d := a
	d.End = d.End.Add(time.Minute)
	assert.False(t, a.Same(d))
}

func TestString(t *testing.T) {
	assert.Equal(t, "[静c-自习室111] 2024-05-01 08:00–08:45", sample().String())
}
