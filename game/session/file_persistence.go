package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/save"
)

// persistedSession is the on-disk shape of a session: enough to rebuild
// the Engine from its current level and board, not a full input replay
// log (that is save.State's job for explicit save slots).
type persistedSession struct {
	ID             string     `json:"id"`
	ConfigID       string     `json:"config_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	Level          int        `json:"level"`
	Checkpoint     [][]string `json:"checkpoint"`
}

// FilePersistence implements Persistence using one JSON file per session.
type FilePersistence struct {
	sessionsDir   string
	configManager ConfigManager
}

// NewFilePersistence creates a file-based session persistence layer
// rooted at sessionsDir, creating it if necessary.
func NewFilePersistence(sessionsDir string, configManager ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("session: failed to create sessions directory: %w", err)
	}
	return &FilePersistence{sessionsDir: sessionsDir, configManager: configManager}, nil
}

// Save writes session's current level and board to a JSON file.
func (fp *FilePersistence) Save(session *Session) error {
	if session == nil {
		return fmt.Errorf("session: cannot persist a nil session")
	}

	data := persistedSession{
		ID:             session.ID,
		ConfigID:       session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Level:          session.Engine.CurrentLevelNum(),
	}
	if current := session.Engine.CurrentLevel(); !current.IsMessage {
		data.Checkpoint = save.EncodeCheckpoint(session.Engine.GameData(), current.Board)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("session: failed to marshal session data: %w", err)
	}
	if err := os.WriteFile(fp.getFilePath(session.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("session: failed to write session file: %w", err)
	}
	return nil
}

// Load rebuilds a session from its JSON file, reloading the ruleset
// named by its stored config id and restoring the board checkpoint.
func (fp *FilePersistence) Load(id string) (*Session, error) {
	filePath := fp.getFilePath(id)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("session: failed to read session file: %w", err)
	}

	var data persistedSession
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal session data: %w", err)
	}

	gameData, err := fp.configManager.LoadConfig(data.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("session: failed to load config %q: %w", data.ConfigID, err)
	}

	var eng *engine.Engine
	if data.Checkpoint != nil {
		size := gameData.Levels[data.Level].Size()
		board, err := save.DecodeCheckpoint(gameData, size.Width, size.Height, data.Checkpoint)
		if err != nil {
			return nil, fmt.Errorf("session: failed to restore checkpoint: %w", err)
		}
		eng = engine.NewEngineFromCheckpoint(gameData, data.Level, board)
	} else {
		// The session was persisted while on a message-level interstitial,
		// which has no board to checkpoint; replay forward to it instead.
		eng = engine.NewEngine(gameData)
		for i := 0; i < data.Level; i++ {
			eng.NextLevel()
		}
	}

	return &Session{
		ID:             data.ID,
		ConfigID:       data.ConfigID,
		Engine:         eng,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session's file.
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("session: failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns the ids of every persisted session.
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("session: failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// Exists reports whether id has a persisted file.
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}
