// Package room implements the per-room state controller: participants,
// sessions, conversation zones, and the listener fan-out that keeps every
// subscriber's view of the room consistent.
package room

// Location is a participant's reported position and movement state.
// ZoneLabel is the participant's self-reported conversation zone; after a
// zone exists, membership follows this label, never the coordinates.
type Location struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation string  `json:"rotation"`
	Moving   bool    `json:"moving"`
	// ZoneLabel names the conversation zone the client believes it is in.
	// Empty means no zone.
	ZoneLabel string `json:"zoneLabel,omitempty"`
}

// Participant tracks one connected user's state within a room.
// All fields are mutated by the Controller only.
type Participant struct {
	// ID is the unique participant identifier within the room.
	ID string `json:"id"`
	// Name is the display label shown to other participants.
	Name string `json:"name"`
	// Location is the last position reported for this participant.
	Location Location `json:"location"`
	// ZoneLabel is the label of the zone the participant currently occupies,
	// or empty. It is a lookup key into the room's live zone collection,
	// never an owning reference.
	ZoneLabel string `json:"zoneLabel,omitempty"`
}
