package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/landsraad/dune-server-go/internal/config"
	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/repository"
	"go.uber.org/zap"
)

// Session is one live game: its hub, its orchestrator, and the
// goroutine driving the tick loop.
type Session struct {
	ID           string
	Hub          *Hub
	Orchestrator *Orchestrator
	cancel       context.CancelFunc
}

// ErrTooManySessions is returned when the session cap is reached.
var ErrTooManySessions = errors.New("session limit reached")

// SessionManager creates and tracks game sessions and exposes the
// HTTP surface for joining them.
type SessionManager struct {
	logger   *zap.Logger
	cfg      *config.Config
	data     *data.Data
	matches  *repository.MatchStore
	recorder *game.JournalRecorder

	// baseCtx outlives any single HTTP request; sessions are tied to
	// it, not to the request that created them.
	baseCtx context.Context

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager wires the shared dependencies every session uses.
// Sessions live until ctx is cancelled or their game ends.
func NewSessionManager(ctx context.Context, cfg *config.Config, d *data.Data, matches *repository.MatchStore, logger *zap.Logger) *SessionManager {
	var recorder *game.JournalRecorder
	if cfg.Game.ReplayDir != "" {
		recorder = game.NewJournalRecorder(logger, cfg.Game.ReplayDir)
	}
	return &SessionManager{
		logger:   logger,
		cfg:      cfg,
		data:     d,
		matches:  matches,
		recorder: recorder,
		baseCtx:  ctx,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and its tick loop.
func (m *SessionManager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= m.cfg.Server.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.New().String()
	seed := m.cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano() ^ int64(rand.Int())
	}

	hub := NewHub(m.logger.With(zap.String("game_id", id)))
	orch := New(Options{
		GameID:          id,
		Data:            m.data,
		Transport:       hub,
		Logger:          m.logger,
		Recorder:        m.recorder,
		Matches:         m.matches,
		MinPlayers:      m.cfg.Server.MinPlayers,
		MaxCascadeDepth: m.cfg.Game.MaxCascadeDepth,
		TickInterval:    m.cfg.Server.TickInterval,
		LoopToSetup:     m.cfg.Game.LoopToSetup,
		Seed:            seed,
	})

	sessCtx, cancel := context.WithCancel(m.baseCtx)
	sess := &Session{ID: id, Hub: hub, Orchestrator: orch, cancel: cancel}
	m.sessions[id] = sess

	go func() {
		defer m.remove(id)
		if err := orch.Run(sessCtx); err != nil && sessCtx.Err() == nil {
			m.logger.Error("session terminated abnormally",
				zap.String("game_id", id),
				zap.Error(err),
			)
		}
	}()

	return sess, nil
}

// Get looks up a live session.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// CloseAll cancels every live session.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.cancel()
	}
}

func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.cancel()
		delete(m.sessions, id)
	}
}

// Routes registers the HTTP surface on a mux: session creation and
// the websocket join endpoint.
func (m *SessionManager) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/sessions", m.handleCreate)
	mux.HandleFunc("/ws", m.handleJoin)
}

func (m *SessionManager) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := m.Create()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"session_id": sess.ID})
}

func (m *SessionManager) handleJoin(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, ok := m.Get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sess.Hub.ServeWS(w, r)
}
