package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/save"
	"github.com/wricardo/rulegrid/game/session"
)

// gameServiceImpl implements GameService over a SessionManager and a
// ConfigManager, serializing operations that touch session bookkeeping.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a GameService backed by sessions and configs.
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{sessions: sessions, configs: configs}
}

// CreateSession starts a new session running configID's ruleset, or the
// default ruleset when configID is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameData, resolvedID, err := s.resolveRuleset(configID)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", resolvedID, gameData)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession returns a session's summary and refreshes its access time.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("service: session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(sess), nil
}

// ListSessions returns every resident session's summary.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, sessionInfo(sess))
	}
	return infos, nil
}

// DeleteSession removes a session.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// Move feeds input to sessionID's engine and persists the result.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, input engine.EngineInput) (*MoveResult, error) {
	return s.tick(sessionID, &input)
}

// Undo feeds EngineUndo to sessionID's engine.
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	undo := engine.EngineUndo
	return s.tick(sessionID, &undo)
}

// Restart feeds EngineRestart to sessionID's engine.
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*MoveResult, error) {
	restart := engine.EngineRestart
	return s.tick(sessionID, &restart)
}

func (s *gameServiceImpl) tick(sessionID string, input *engine.EngineInput) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: session not found: %w", err)
	}

	result := sess.Engine.Tick(input)

	if result.CompletedLevel != nil {
		sess.Engine.NextLevel()
	}

	if err := s.sessions.Save(sessionID); err != nil {
		return nil, fmt.Errorf("service: failed to persist session after tick: %w", err)
	}

	return &MoveResult{
		SessionID:      sess.ID,
		Changed:        result.Changed,
		CompletedLevel: result.CompletedLevel,
		Checkpoint:     result.Checkpoint != nil,
		AcceptingInput: result.AcceptingInput,
		Sfx:            result.Sfx,
		State:          stateInfo(sess),
	}, nil
}

// GetState returns sessionID's current board or message.
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*StateInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: session not found: %w", err)
	}
	return stateInfo(sess), nil
}

// ListConfigs lists the rulesets available for CreateSession.
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads configID's ruleset without creating a session.
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.GameData, error) {
	gameData, _, err := s.resolveRuleset(configID)
	return gameData, err
}

func (s *gameServiceImpl) resolveRuleset(configID string) (*engine.GameData, string, error) {
	if configID == "" {
		return s.configs.GetDefault(), "", nil
	}

	gameData, err := s.configs.LoadConfig(configID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			if infos, listErr := s.configs.ListConfigs(); listErr == nil && len(infos) > 0 {
				ids := make([]string, 0, len(infos))
				for _, info := range infos {
					ids = append(ids, info.ConfigID)
				}
				return nil, "", fmt.Errorf("service: config %q not found, available: %v", configID, ids)
			}
		}
		return nil, "", fmt.Errorf("service: failed to load config %q: %w", configID, err)
	}
	return gameData, configID, nil
}

func sessionInfo(sess *session.Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		Level:          sess.Engine.CurrentLevelNum(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
}

func stateInfo(sess *session.Session) *StateInfo {
	current := sess.Engine.CurrentLevel()
	info := &StateInfo{
		SessionID: sess.ID,
		ConfigID:  sess.ConfigID,
		Level:     sess.Engine.CurrentLevelNum(),
		IsMessage: current.IsMessage,
		Message:   current.Message,
	}
	if !current.IsMessage {
		cells := save.EncodeCheckpoint(sess.Engine.GameData(), current.Board)
		info.Board = &BoardView{Width: current.Board.Width, Height: current.Board.Height, Cells: cells}
	}
	return info
}
