package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/plazahq/plaza/internal/room"
)

// Adapter is one room's registered listener. It marshals every controller
// notification onto each connected participant's outbound queue in
// notification order, so subscribers see the same event sequence the
// controller produced. Pushes are non-blocking; the adapter never stalls a
// controller operation.
type Adapter struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[string]*client // participant ID → client
}

func newAdapter(logger *zap.Logger) *Adapter {
	return &Adapter{
		logger:  logger,
		clients: make(map[string]*client),
	}
}

func (a *Adapter) register(c *client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[c.sess.Participant.ID] = c
}

func (a *Adapter) unregister(participantID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.clients, participantID)
}

// broadcast frames the event once and pushes it to every registered client.
func (a *Adapter) broadcast(eventType string, payload any) {
	data, err := encode(eventType, payload)
	if err != nil {
		a.logger.Warn("encoding broadcast", zap.String("event", eventType), zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.clients {
		if err := c.queue.push(data); err != nil {
			a.logger.Warn("dropping broadcast",
				zap.String("event", eventType),
				zap.String("participant", c.sess.Participant.ID),
				zap.Error(err),
			)
		}
	}
}

// OnParticipantJoined implements room.Listener.
func (a *Adapter) OnParticipantJoined(p *room.Participant) {
	a.broadcast(EventNewParticipant, newParticipantView(p))
}

// OnParticipantMoved implements room.Listener.
func (a *Adapter) OnParticipantMoved(p *room.Participant) {
	a.broadcast(EventParticipantMoved, newParticipantView(p))
}

// OnParticipantDisconnected implements room.Listener.
func (a *Adapter) OnParticipantDisconnected(p *room.Participant) {
	a.broadcast(EventParticipantDisconnect, newParticipantView(p))
}

// OnZoneUpdated implements room.Listener.
func (a *Adapter) OnZoneUpdated(z *room.Zone) {
	a.broadcast(EventZoneUpdated, newZoneView(z))
}

// OnZoneDestroyed implements room.Listener.
func (a *Adapter) OnZoneDestroyed(z *room.Zone) {
	a.broadcast(EventZoneDestroyed, newZoneView(z))
}

// OnRoomClosing implements room.Listener. The controller closes every
// participant channel immediately after this notification; the queued
// roomClosing event drains to each socket before it closes.
func (a *Adapter) OnRoomClosing() {
	a.broadcast(EventRoomClosing, nil)
}
