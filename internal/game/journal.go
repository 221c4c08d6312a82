package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/landsraad/dune-server-go/internal/data"
	"go.uber.org/zap"
)

// Journal is the recorded broadcast stream of one session: every
// event in the exact order it was generated. Because state is a pure
// function of the stream, replaying a journal through a fresh state
// reproduces the finished game.
type Journal struct {
	GameID string
	Events []GameEvent
	mu     sync.RWMutex
}

// NewJournal creates an empty journal for a session.
func NewJournal(gameID string) *Journal {
	return &Journal{GameID: gameID}
}

// Record appends one broadcast event.
func (j *Journal) Record(ev GameEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Events = append(j.Events, ev)
}

// Size returns the number of recorded events.
func (j *Journal) Size() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.Events)
}

// Snapshot returns a copy of the recorded stream.
func (j *Journal) Snapshot() []GameEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]GameEvent(nil), j.Events...)
}

// Replay rebuilds the session state by consuming the recorded stream
// into a fresh GameState.
func (j *Journal) Replay(d *data.Data, loopToSetup bool) (*GameState, error) {
	g := NewGameState(d, loopToSetup)
	for i, ev := range j.Snapshot() {
		if err := Consume(g, ev); err != nil {
			return nil, fmt.Errorf("replay failed at event %d (%s): %w", i, ev.Kind, err)
		}
	}
	return g, nil
}

// SaveToFile writes the journal to a gzipped gob file in directory.
func (j *Journal) SaveToFile(directory string) error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.journal", j.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)

	metadata := journalMetadata{
		GameID:     j.GameID,
		Timestamp:  time.Now(),
		Version:    1,
		EventCount: len(j.Events),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	for i := range j.Events {
		if err := encoder.Encode(&j.Events[i]); err != nil {
			return fmt.Errorf("failed to encode event %d: %w", i, err)
		}
	}

	return nil
}

// LoadJournalFromFile reads a journal previously written by
// SaveToFile.
func LoadJournalFromFile(directory, gameID string) (*Journal, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.journal", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata journalMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported journal version: %d", metadata.Version)
	}

	journal := NewJournal(metadata.GameID)
	for i := 0; i < metadata.EventCount; i++ {
		var ev GameEvent
		if err := decoder.Decode(&ev); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", i, err)
		}
		journal.Events = append(journal.Events, ev)
	}

	return journal, nil
}

type journalMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	EventCount int
}

// JournalRecorder manages journal recording across sessions.
type JournalRecorder struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	journals map[string]*Journal
	enabled  map[string]bool
	saveDir  string
}

// NewJournalRecorder creates a recorder that saves into saveDir.
func NewJournalRecorder(logger *zap.Logger, saveDir string) *JournalRecorder {
	return &JournalRecorder{
		logger:   logger,
		journals: make(map[string]*Journal),
		enabled:  make(map[string]bool),
		saveDir:  saveDir,
	}
}

// StartRecording begins recording a session.
func (jr *JournalRecorder) StartRecording(gameID string) {
	jr.mu.Lock()
	defer jr.mu.Unlock()

	jr.journals[gameID] = NewJournal(gameID)
	jr.enabled[gameID] = true

	if jr.logger != nil {
		jr.logger.Info("started journal recording",
			zap.String("game_id", gameID),
		)
	}
}

// Record appends an event to a session's journal if recording is
// enabled.
func (jr *JournalRecorder) Record(gameID string, ev GameEvent) {
	jr.mu.RLock()
	enabled := jr.enabled[gameID]
	journal := jr.journals[gameID]
	jr.mu.RUnlock()

	if !enabled || journal == nil {
		return
	}
	journal.Record(ev)
}

// GetJournal returns the journal for a session.
func (jr *JournalRecorder) GetJournal(gameID string) (*Journal, bool) {
	jr.mu.RLock()
	defer jr.mu.RUnlock()

	journal, exists := jr.journals[gameID]
	return journal, exists
}

// SaveJournal writes a session's journal to disk and drops it from
// memory.
func (jr *JournalRecorder) SaveJournal(gameID string) error {
	jr.mu.Lock()
	journal, exists := jr.journals[gameID]
	if !exists {
		jr.mu.Unlock()
		return fmt.Errorf("no journal found for game %s", gameID)
	}
	delete(jr.journals, gameID)
	delete(jr.enabled, gameID)
	jr.mu.Unlock()

	if err := journal.SaveToFile(jr.saveDir); err != nil {
		return fmt.Errorf("failed to save journal: %w", err)
	}

	if jr.logger != nil {
		jr.logger.Info("saved journal to disk",
			zap.String("game_id", gameID),
			zap.Int("event_count", journal.Size()),
			zap.String("directory", jr.saveDir),
		)
	}

	return nil
}
