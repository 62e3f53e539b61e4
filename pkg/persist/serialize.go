package persist

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the JSON wrapper written to every persistence slot.
// It carries the snapshot payload plus enough metadata to reject
// snapshots written by an incompatible release.
type Envelope struct {
	// Slot is the slot key the snapshot was written under.
	Slot string `json:"slot"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// State is the serialized store state.
	State json.RawMessage `json:"state"`

	// Version is the serialization format version.
	Version int `json:"version"`
}

// CurrentVersion is the current version of the snapshot format.
// Increment when making breaking changes to the format. There is no
// migration path: a snapshot with a different version is treated as
// unreadable and discarded in favor of defaults.
const CurrentVersion = 1

// EncodeSnapshot wraps a store state value in an Envelope and returns
// its JSON encoding.
func EncodeSnapshot(slot string, state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("persist: encode %s state: %w", slot, err)
	}
	return json.Marshal(Envelope{
		Slot:    slot,
		SavedAt: time.Now().UTC(),
		State:   raw,
		Version: CurrentVersion,
	})
}

// DecodeSnapshot unwraps an Envelope and unmarshals its state into out.
// It fails on malformed JSON and on version mismatch; callers fall back
// to default state in both cases.
func DecodeSnapshot(data []byte, out any) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("persist: decode envelope: %w", err)
	}
	if env.Version != CurrentVersion {
		return fmt.Errorf("persist: unsupported snapshot version %d", env.Version)
	}
	if err := json.Unmarshal(env.State, out); err != nil {
		return fmt.Errorf("persist: decode state: %w", err)
	}
	return nil
}
