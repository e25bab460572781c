package room

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaProvisioner issues a media-session credential for a joining
// participant. Errors abort the join with no room state modified.
type MediaProvisioner interface {
	Provision(ctx context.Context, roomID, participantID string) (string, error)
}

// Controller owns the full state of one room: its participants, sessions,
// zones, and listeners. All methods are safe for concurrent use; each
// operation runs to completion, including listener notification, before the
// next is accepted, so listeners observe state changes in operation order.
// Rooms are fully independent of one another.
type Controller struct {
	mu          sync.Mutex
	id          string
	provisioner MediaProvisioner
	logger      *zap.Logger

	participants map[string]*Participant
	roster       []*Participant // join order
	sessions     map[string]*Session
	zones        []*Zone
	listeners    []Listener
}

// NewController creates an empty room controller.
//
// Precondition: id must be non-empty; provisioner and logger must be non-nil.
func NewController(id string, provisioner MediaProvisioner, logger *zap.Logger) *Controller {
	return &Controller{
		id:           id,
		provisioner:  provisioner,
		logger:       logger.With(zap.String("room", id)),
		participants: make(map[string]*Participant),
		sessions:     make(map[string]*Session),
	}
}

// ID returns the room identifier.
func (c *Controller) ID() string {
	return c.id
}

// Join admits a new participant to the room. The media session is
// provisioned first; if provisioning fails the error is returned and no
// room state is modified. On success the participant starts at the origin
// with no zone, a session is created, and listeners are notified.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the new session, or a non-nil error with the room
// unchanged.
func (c *Controller) Join(ctx context.Context, name string) (*Session, error) {
	if name == "" {
		return nil, fmt.Errorf("participant name must not be empty")
	}

	p := &Participant{
		ID:   uuid.NewString(),
		Name: name,
	}

	credential, err := c.provisioner.Provision(ctx, c.id, p.ID)
	if err != nil {
		return nil, fmt.Errorf("provisioning media session for %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess := &Session{
		Token:           uuid.NewString(),
		Participant:     p,
		MediaCredential: credential,
	}
	c.participants[p.ID] = p
	c.roster = append(c.roster, p)
	c.sessions[sess.Token] = sess

	c.logger.Info("participant joined",
		zap.String("participant", p.ID),
		zap.String("name", name),
	)
	c.notifyLocked(func(l Listener) { l.OnParticipantJoined(p) })
	return sess, nil
}

// Leave removes the session's participant from the room. If the participant
// occupies a zone they are removed from it, destroying the zone if they
// were its last occupant.
//
// Postcondition: The session is destroyed; returns an error if the session
// is not known to this room.
func (c *Controller) Leave(sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[sess.Token]; !ok {
		return fmt.Errorf("session %q not found", sess.Token)
	}

	p := sess.Participant
	if z := c.zoneByLabelLocked(p.ZoneLabel); z != nil {
		c.removeOccupantLocked(z, p)
	}
	p.ZoneLabel = ""

	delete(c.participants, p.ID)
	c.removeFromRosterLocked(p)
	delete(c.sessions, sess.Token)

	c.logger.Info("participant disconnected",
		zap.String("participant", p.ID),
		zap.String("name", p.Name),
	)
	c.notifyLocked(func(l Listener) { l.OnParticipantDisconnected(p) })
	return nil
}

// UpdatePosition overwrites the participant's stored position and resolves
// zone membership from the location's zone label. Coordinates never affect
// membership after a zone exists; the self-reported label is authoritative.
// Listeners always receive OnParticipantMoved, after any zone notifications.
//
// Precondition: p must belong to this room.
func (c *Controller) UpdatePosition(p *Participant, loc Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p.Location = loc

	current := c.zoneByLabelLocked(p.ZoneLabel)
	target := c.zoneByLabelLocked(loc.ZoneLabel)
	if target != current {
		if current != nil {
			c.removeOccupantLocked(current, p)
		}
		if target != nil {
			target.OccupantIDs = append(target.OccupantIDs, p.ID)
			p.ZoneLabel = target.Label
			c.notifyLocked(func(l Listener) { l.OnZoneUpdated(target) })
		} else {
			p.ZoneLabel = ""
		}
	}

	c.notifyLocked(func(l Listener) { l.OnParticipantMoved(p) })
}

// CreateZone validates and adds a new conversation zone. Validation short
// circuits on the first failure and leaves the room unchanged: the topic
// must be non-empty, the label must be non-empty and unused, and the
// bounding box must not overlap any existing zone's interior (edge
// adjacency is allowed).
//
// On success every participant strictly inside the box is enrolled as an
// occupant — the only time membership is derived from coordinates — and
// listeners receive a single OnZoneUpdated, even if no one was enrolled.
//
// Postcondition: Returns true and the zone is live, or false with no
// mutation and no notification.
func (c *Controller) CreateZone(z *Zone) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if z.Topic == "" {
		return false
	}
	if z.Label == "" || c.zoneByLabelLocked(z.Label) != nil {
		return false
	}
	for _, existing := range c.zones {
		if existing.Box.Overlaps(z.Box) {
			return false
		}
	}

	c.zones = append(c.zones, z)
	for _, p := range c.roster {
		if !z.Box.Contains(p.Location.X, p.Location.Y) {
			continue
		}
		// An enrolled participant leaves their previous zone; a participant
		// may occupy at most one zone at a time.
		if old := c.zoneByLabelLocked(p.ZoneLabel); old != nil {
			c.removeOccupantLocked(old, p)
		}
		z.OccupantIDs = append(z.OccupantIDs, p.ID)
		p.ZoneLabel = z.Label
	}

	c.logger.Info("zone created",
		zap.String("label", z.Label),
		zap.String("topic", z.Topic),
		zap.Int("occupants", len(z.OccupantIDs)),
	)
	c.notifyLocked(func(l Listener) { l.OnZoneUpdated(z) })
	return true
}

// DisconnectAll tears the room down: listeners receive OnRoomClosing
// exactly once, every participant's transport channel is force-closed, and
// all sessions, participants, and zones are cleared.
func (c *Controller) DisconnectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("room closing",
		zap.Int("participants", len(c.participants)),
	)
	c.notifyLocked(func(l Listener) { l.OnRoomClosing() })

	for _, sess := range c.sessions {
		if sess.channel == nil {
			continue
		}
		if err := sess.channel.Close(); err != nil {
			c.logger.Warn("closing participant channel",
				zap.String("participant", sess.Participant.ID),
				zap.Error(err),
			)
		}
	}

	c.participants = make(map[string]*Participant)
	c.roster = nil
	c.sessions = make(map[string]*Session)
	c.zones = nil
}

// AttachChannel binds a transport channel to the session so DisconnectAll
// can force the connection closed during teardown.
//
// Precondition: sess must belong to this room.
func (c *Controller) AttachChannel(sess *Session, ch Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess.channel = ch
}

// AddListener registers a listener. Listeners are notified in registration
// order.
func (c *Controller) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// RemoveListener deregisters a listener. Removing a listener that was never
// registered is a no-op.
func (c *Controller) RemoveListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, registered := range c.listeners {
		if registered == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// SessionByToken returns the session with the given credential.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (c *Controller) SessionByToken(token string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[token]
	return sess, ok
}

// Participants returns the room's participants in join order.
//
// Postcondition: Returns a copy; may be empty.
func (c *Controller) Participants() []*Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Participant, len(c.roster))
	copy(out, c.roster)
	return out
}

// Zones returns the room's live zones in creation order.
//
// Postcondition: Returns a copy; may be empty.
func (c *Controller) Zones() []*Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// ParticipantCount returns the number of connected participants.
func (c *Controller) ParticipantCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.participants)
}

// removeOccupantLocked takes p out of z, destroying z if p was its last
// occupant. Emits OnZoneDestroyed for a now-empty zone, OnZoneUpdated for a
// still-populated one, never both.
func (c *Controller) removeOccupantLocked(z *Zone, p *Participant) {
	if !z.removeOccupant(p.ID) {
		return
	}
	if len(z.OccupantIDs) == 0 {
		c.removeZoneLocked(z)
		c.logger.Info("zone destroyed", zap.String("label", z.Label))
		c.notifyLocked(func(l Listener) { l.OnZoneDestroyed(z) })
		return
	}
	c.notifyLocked(func(l Listener) { l.OnZoneUpdated(z) })
}

func (c *Controller) removeZoneLocked(z *Zone) {
	for i, existing := range c.zones {
		if existing == z {
			c.zones = append(c.zones[:i], c.zones[i+1:]...)
			return
		}
	}
}

func (c *Controller) removeFromRosterLocked(p *Participant) {
	for i, existing := range c.roster {
		if existing == p {
			c.roster = append(c.roster[:i], c.roster[i+1:]...)
			return
		}
	}
}

func (c *Controller) zoneByLabelLocked(label string) *Zone {
	if label == "" {
		return nil
	}
	for _, z := range c.zones {
		if z.Label == label {
			return z
		}
	}
	return nil
}

// notifyLocked invokes fn on every listener in registration order. Each
// call is guarded so a panicking listener cannot block delivery to the
// rest.
func (c *Controller) notifyLocked(fn func(Listener)) {
	for _, l := range c.listeners {
		c.guardedNotify(l, fn)
	}
}

func (c *Controller) guardedNotify(l Listener, fn func(Listener)) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("listener panicked during notification",
				zap.Any("panic", r),
			)
		}
	}()
	fn(l)
}
