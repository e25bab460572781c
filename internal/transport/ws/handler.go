package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/plazahq/plaza/internal/config"
	"github.com/plazahq/plaza/internal/directory"
	"github.com/plazahq/plaza/internal/room"
)

// Server exposes the room service over HTTP: room creation and teardown,
// zone creation, room inspection, and the websocket event channel.
type Server struct {
	registry *directory.Registry
	cfg      config.RoomConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	adapters map[string]*Adapter // room ID → listener adapter
}

// NewServer creates the HTTP/websocket surface over the given registry.
//
// Precondition: registry and logger must be non-nil.
func NewServer(registry *directory.Registry, cfg config.RoomConfig, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		adapters: make(map[string]*Adapter),
	}
}

// Router returns the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{id}", s.handleCreateRoom).Methods(http.MethodPost)
	r.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{id}", s.handleDeleteRoom).Methods(http.MethodDelete)
	r.HandleFunc("/rooms/{id}/zones", s.handleCreateZone).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleConnect).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctrl, err := s.registry.Create(id)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	adapter := newAdapter(s.logger.With(zap.String("room", id)))
	ctrl.AddListener(adapter)
	s.mu.Lock()
	s.adapters[id] = adapter
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"roomID": id})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctrl, ok := s.registry.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	participants := ctrl.Participants()
	zones := ctrl.Zones()
	resp := struct {
		RoomID       string            `json:"roomID"`
		Participants []ParticipantView `json:"participants"`
		Zones        []ZoneView        `json:"zones"`
	}{RoomID: id, Participants: make([]ParticipantView, 0, len(participants)), Zones: make([]ZoneView, 0, len(zones))}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, newParticipantView(p))
	}
	for _, z := range zones {
		resp.Zones = append(resp.Zones, newZoneView(z))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.registry.Delete(id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.mu.Lock()
	delete(s.adapters, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctrl, ok := s.registry.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	var req ZoneView
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed zone"})
		return
	}

	zone := &room.Zone{Label: req.Label, Topic: req.Topic, Box: req.Box}
	if !ctrl.CreateZone(zone) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "zone rejected"})
		return
	}
	writeJSON(w, http.StatusCreated, newZoneView(zone))
}

// handleConnect upgrades the connection and joins the declared room. Query
// parameters: room (identifier), name (display name).
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	name := r.URL.Query().Get("name")
	if name == "" || len(name) > s.cfg.MaxNameLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid participant name"})
		return
	}

	ctrl, ok := s.registry.Lookup(roomID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}
	s.mu.Lock()
	adapter := s.adapters[roomID]
	s.mu.Unlock()
	if adapter == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading connection", zap.Error(err))
		return
	}

	sess, err := ctrl.Join(r.Context(), name)
	if err != nil {
		s.logger.Error("joining room",
			zap.String("room", roomID),
			zap.String("name", name),
			zap.Error(err),
		)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "join failed"))
		_ = conn.Close()
		return
	}

	c := newClient(conn, sess, ctrl, s.cfg.EventBufferSize, s.logger)
	ctrl.AttachChannel(sess, c)
	// Register before snapshotting: an event that fires in between is both
	// streamed and reflected in the snapshot, but never lost.
	adapter.register(c)
	c.send(EventConnected, s.connectedPayload(ctrl, sess))

	go c.writePump()
	c.readPump()

	// A room teardown destroys the session first; Leave on an
	// already-destroyed session just reports not-found.
	if err := ctrl.Leave(sess); err != nil {
		s.logger.Debug("leaving room", zap.Error(err))
	}
	adapter.unregister(sess.Participant.ID)
	_ = c.Close()
	<-c.done
}

func (s *Server) connectedPayload(ctrl *room.Controller, sess *room.Session) ConnectedPayload {
	participants := ctrl.Participants()
	zones := ctrl.Zones()
	payload := ConnectedPayload{
		SessionToken:    sess.Token,
		MediaCredential: sess.MediaCredential,
		Participant:     newParticipantView(sess.Participant),
		Participants:    make([]ParticipantView, 0, len(participants)),
		Zones:           make([]ZoneView, 0, len(zones)),
	}
	for _, p := range participants {
		payload.Participants = append(payload.Participants, newParticipantView(p))
	}
	for _, z := range zones {
		payload.Zones = append(payload.Zones, newZoneView(z))
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
