// Package ws adapts the room controller's synchronous listener
// notifications onto asynchronous websocket connections, and dispatches
// inbound client events back into controller operations.
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/plazahq/plaza/internal/geometry"
	"github.com/plazahq/plaza/internal/room"
)

// Inbound event types.
const (
	EventMove       = "move"
	EventDisconnect = "disconnect"
)

// Outbound event types.
const (
	EventConnected             = "connected"
	EventNewParticipant        = "newParticipant"
	EventParticipantMoved      = "participantMoved"
	EventParticipantDisconnect = "participantDisconnect"
	EventZoneUpdated           = "zoneUpdated"
	EventZoneDestroyed         = "zoneDestroyed"
	EventRoomClosing           = "roomClosing"
)

// Envelope is the wire framing for every inbound and outbound event.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ParticipantView is the wire representation of a participant.
type ParticipantView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Location room.Location `json:"location"`
}

// ZoneView is the wire representation of a conversation zone.
type ZoneView struct {
	Label       string               `json:"label"`
	Topic       string               `json:"topic"`
	Box         geometry.BoundingBox `json:"boundingBox"`
	OccupantIDs []string             `json:"occupantsByID"`
}

// MovePayload is the body of an inbound move event.
type MovePayload struct {
	Location room.Location `json:"location"`
}

// ConnectedPayload is sent once to a participant after their join
// completes, carrying their identity and the room's current state.
type ConnectedPayload struct {
	SessionToken    string            `json:"sessionToken"`
	MediaCredential string            `json:"mediaCredential"`
	Participant     ParticipantView   `json:"participant"`
	Participants    []ParticipantView `json:"participants"`
	Zones           []ZoneView        `json:"zones"`
}

// newParticipantView snapshots a participant for the wire. Listener
// callbacks run inside the controller's operation, so the snapshot is taken
// before the controller can mutate the participant again.
func newParticipantView(p *room.Participant) ParticipantView {
	return ParticipantView{
		ID:       p.ID,
		Name:     p.Name,
		Location: p.Location,
	}
}

func newZoneView(z *room.Zone) ZoneView {
	occupants := make([]string, len(z.OccupantIDs))
	copy(occupants, z.OccupantIDs)
	return ZoneView{
		Label:       z.Label,
		Topic:       z.Topic,
		Box:         z.Box,
		OccupantIDs: occupants,
	}
}

// encode frames an event with its payload for the wire.
func encode(eventType string, payload any) ([]byte, error) {
	env := Envelope{Type: eventType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s payload: %w", eventType, err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s envelope: %w", eventType, err)
	}
	return data, nil
}
