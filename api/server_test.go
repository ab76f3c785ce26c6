package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/service"
	"github.com/wricardo/rulegrid/transport/websocket"
)

// mockGameService implements service.GameService for testing.
type mockGameService struct {
	CreateSessionFunc func(ctx context.Context, configID string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	MoveFunc    func(ctx context.Context, sessionID string, input engine.EngineInput) (*service.MoveResult, error)
	UndoFunc    func(ctx context.Context, sessionID string) (*service.MoveResult, error)
	RestartFunc func(ctx context.Context, sessionID string) (*service.MoveResult, error)
	GetStateFunc func(ctx context.Context, sessionID string) (*service.StateInfo, error)

	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configID string) (*engine.GameData, error)
}

func (m *mockGameService) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configID)
	}
	return &service.SessionInfo{ID: "test-session", ConfigID: configID, CreatedAt: time.Now()}, nil
}

func (m *mockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigID: "test-config"}, nil
}

func (m *mockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *mockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockGameService) Move(ctx context.Context, sessionID string, input engine.EngineInput) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, input)
	}
	return &service.MoveResult{SessionID: sessionID, Changed: true}, nil
}

func (m *mockGameService) Undo(ctx context.Context, sessionID string) (*service.MoveResult, error) {
	if m.UndoFunc != nil {
		return m.UndoFunc(ctx, sessionID)
	}
	return &service.MoveResult{SessionID: sessionID}, nil
}

func (m *mockGameService) Restart(ctx context.Context, sessionID string) (*service.MoveResult, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return &service.MoveResult{SessionID: sessionID}, nil
}

func (m *mockGameService) GetState(ctx context.Context, sessionID string) (*service.StateInfo, error) {
	if m.GetStateFunc != nil {
		return m.GetStateFunc(ctx, sessionID)
	}
	return &service.StateInfo{SessionID: sessionID}, nil
}

func (m *mockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *mockGameService) LoadConfig(ctx context.Context, configID string) (*engine.GameData, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configID)
	}
	return &engine.GameData{Title: configID}, nil
}

func setupTestServer(mockService *mockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*mockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "create session with default config",
			setupMock: func(m *mockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "sess-123", ConfigID: "default", CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("expected session id sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "create session with specific config",
			requestBody: map[string]string{"config_id": "sokoban"},
			setupMock: func(m *mockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					if configID != "sokoban" {
						t.Errorf("expected config id sokoban, got %s", configID)
					}
					return &service.SessionInfo{ID: "sess-456", ConfigID: configID}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "service error",
			setupMock: func(m *mockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("expected error 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	mockService := &mockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{{ID: "sess-1"}, {ID: "sess-2"}}, nil
		},
	}
	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	if resp["count"].(float64) != 2 {
		t.Errorf("expected count 2, got %v", resp["count"])
	}
}

func TestGetSession(t *testing.T) {
	mockService := &mockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "sess-123" {
				return nil, fmt.Errorf("session not found")
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server := setupTestServer(mockService)

	req := makeRequest("GET", "/api/sessions/sess-123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "sess-123"})
	w := httptest.NewRecorder()
	server.handleGetSession(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req2 := makeRequest("GET", "/api/sessions/missing", nil)
	req2 = mux.SetURLVars(req2, map[string]string{"id": "missing"})
	w2 := httptest.NewRecorder()
	server.handleGetSession(w2, req2)
	if w2.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w2.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	mockService := &mockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "sess-123" {
				return fmt.Errorf("session not found")
			}
			return nil
		},
	}
	server := setupTestServer(mockService)

	req := makeRequest("DELETE", "/api/sessions/sess-123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "sess-123"})
	w := httptest.NewRecorder()
	server.handleDeleteSession(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*mockGameService)
		expectedStatus int
	}{
		{
			name:        "valid move right",
			requestBody: map[string]interface{}{"direction": "right"},
			setupMock: func(m *mockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, input engine.EngineInput) (*service.MoveResult, error) {
					if input != engine.EngineRight {
						t.Errorf("expected EngineRight, got %v", input)
					}
					return &service.MoveResult{SessionID: sessionID, Changed: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown direction",
			requestBody:    map[string]interface{}{"direction": "sideways"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "service error",
			requestBody: map[string]interface{}{"direction": "up"},
			setupMock: func(m *mockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, input engine.EngineInput) (*service.MoveResult, error) {
					return nil, fmt.Errorf("session not found")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			req := makeRequest("POST", "/api/sessions/sess-123/move", tt.requestBody)
			req = mux.SetURLVars(req, map[string]string{"id": "sess-123"})
			w := httptest.NewRecorder()
			server.handleMove(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestUndoAndRestart(t *testing.T) {
	mockService := &mockGameService{
		UndoFunc: func(ctx context.Context, sessionID string) (*service.MoveResult, error) {
			return &service.MoveResult{SessionID: sessionID}, nil
		},
		RestartFunc: func(ctx context.Context, sessionID string) (*service.MoveResult, error) {
			return &service.MoveResult{SessionID: sessionID}, nil
		},
	}
	server := setupTestServer(mockService)

	req := makeRequest("POST", "/api/sessions/sess-123/undo", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "sess-123"})
	w := httptest.NewRecorder()
	server.handleUndo(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for undo, got %d", w.Code)
	}

	req2 := makeRequest("POST", "/api/sessions/sess-123/restart", nil)
	req2 = mux.SetURLVars(req2, map[string]string{"id": "sess-123"})
	w2 := httptest.NewRecorder()
	server.handleRestart(w2, req2)
	if w2.Code != http.StatusOK {
		t.Errorf("expected status 200 for restart, got %d", w2.Code)
	}
}

func TestGetState(t *testing.T) {
	mockService := &mockGameService{
		GetStateFunc: func(ctx context.Context, sessionID string) (*service.StateInfo, error) {
			return &service.StateInfo{
				SessionID: sessionID,
				Board:     &service.BoardView{Width: 2, Height: 1, Cells: [][]string{{"player", ""}}},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	req := makeRequest("GET", "/api/sessions/sess-123/state", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "sess-123"})
	w := httptest.NewRecorder()
	server.handleGetState(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp service.StateInfo
	parseResponse(t, w, &resp)
	if resp.Board == nil || resp.Board.Width != 2 {
		t.Error("expected a board in the response")
	}
}

func TestListConfigs(t *testing.T) {
	mockService := &mockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "sokoban"}, {ConfigID: "cells"}}, nil
		},
	}
	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp []*service.ConfigInfo
	parseResponse(t, w, &resp)
	if len(resp) != 2 {
		t.Errorf("expected 2 configs, got %d", len(resp))
	}
}

func TestGetConfig(t *testing.T) {
	mockService := &mockGameService{
		LoadConfigFunc: func(ctx context.Context, configID string) (*engine.GameData, error) {
			if configID != "sokoban" {
				t.Errorf("expected config id 'sokoban' (extension stripped), got %s", configID)
			}
			return &engine.GameData{Title: "sokoban"}, nil
		},
	}
	server := setupTestServer(mockService)

	req := makeRequest("GET", "/api/configs/sokoban.json", nil)
	req = mux.SetURLVars(req, map[string]string{"name": "sokoban.json"})
	w := httptest.NewRecorder()
	server.handleGetConfig(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestWebSocketHandler(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*mockGameService)
		expectedStatus int
	}{
		{
			name:           "missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *mockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)
			server.handleWebSocket(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
