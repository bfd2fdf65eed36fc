// Package snapshot persists listing results to a JSON file so other tools
// (and later invocations) can consume them without refetching.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/bitroom/internal/booking"
)

// Save writes bookings to path, replacing any previous snapshot. The write
// goes through a temp file so readers never observe a half-written snapshot.
func Save(path string, bookings []booking.Booking) error {
	data, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) ([]booking.Booking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []booking.Booking
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return out, nil
}
