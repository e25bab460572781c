package room

// Listener receives synchronous notifications for every state change in a
// room. Listeners are invoked in registration order; a listener must not
// call back into the controller from a callback.
type Listener interface {
	// OnParticipantJoined fires after a participant is added to the room.
	OnParticipantJoined(p *Participant)
	// OnParticipantMoved fires after every position update, whether or not
	// zone membership changed.
	OnParticipantMoved(p *Participant)
	// OnParticipantDisconnected fires after a participant is removed.
	OnParticipantDisconnected(p *Participant)
	// OnZoneUpdated fires when a zone is created or its occupant list changes.
	OnZoneUpdated(z *Zone)
	// OnZoneDestroyed fires when a zone loses its last occupant and is
	// removed from the room. A destroyed zone never also reports an update.
	OnZoneDestroyed(z *Zone)
	// OnRoomClosing fires exactly once, before the room's connections are
	// force-closed during teardown.
	OnRoomClosing()
}
