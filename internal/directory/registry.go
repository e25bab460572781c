// Package directory maps room identifiers to live room controllers. The
// registry is an explicitly constructed object passed to its consumers;
// there is no package-level room state.
package directory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/plazahq/plaza/internal/room"
)

// Registry provides thread-safe creation, lookup, and teardown of rooms.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*room.Controller
	provisioner room.MediaProvisioner
	logger      *zap.Logger
}

// NewRegistry creates an empty room registry.
//
// Precondition: provisioner and logger must be non-nil.
func NewRegistry(provisioner room.MediaProvisioner, logger *zap.Logger) *Registry {
	return &Registry{
		rooms:       make(map[string]*room.Controller),
		provisioner: provisioner,
		logger:      logger,
	}
}

// Create makes a new room controller under the given identifier.
//
// Precondition: id must be non-empty.
// Postcondition: Returns the new controller, or an error if the identifier
// is empty or already in use.
func (r *Registry) Create(id string) (*room.Controller, error) {
	if id == "" {
		return nil, fmt.Errorf("room identifier must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[id]; exists {
		return nil, fmt.Errorf("room %q already exists", id)
	}
	ctrl := room.NewController(id, r.provisioner, r.logger)
	r.rooms[id] = ctrl

	r.logger.Info("room created", zap.String("room", id))
	return ctrl, nil
}

// Lookup returns the controller for the given room identifier.
//
// Postcondition: Returns (controller, true) if found, or (nil, false).
func (r *Registry) Lookup(id string) (*room.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.rooms[id]
	return ctrl, ok
}

// Delete tears down the room and removes it from the registry. The room's
// listeners receive a single room-closing notification and every
// participant's connection is force-closed.
//
// Postcondition: Returns an error if the room does not exist.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	ctrl, ok := r.rooms[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("room %q not found", id)
	}
	delete(r.rooms, id)
	r.mu.Unlock()

	// Teardown happens outside the registry lock; the controller serialises
	// its own operations.
	ctrl.DisconnectAll()
	r.logger.Info("room deleted", zap.String("room", id))
	return nil
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
