package room

// Channel is the transport-facing handle for one participant's connection.
// The controller closes it when the room is torn down.
type Channel interface {
	Close() error
}

// Session pairs one connection's credentials with its participant.
// Created by Join, destroyed by Leave or room teardown; exactly one
// participant for the session's lifetime.
type Session struct {
	// Token is the opaque session credential, unique within the room.
	Token string
	// Participant is the session's owning participant.
	Participant *Participant
	// MediaCredential is the provisioned media-session credential for this
	// participant's audio/video connection.
	MediaCredential string

	channel Channel
}
