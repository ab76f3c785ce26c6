package session

import (
	"sync"
	"testing"
	"time"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/loader"
)

const testRulesetJSON = `{
	"title": "test",
	"metadata": {},
	"collision_layers": [{"id": 0}, {"id": 1}],
	"sprites": {
		"player": {"name": "player", "collision_layer": 0},
		"background": {"name": "background", "collision_layer": 1}
	},
	"tiles": {
		"player": {"name": "player", "kind": "and", "sprites": ["player"]},
		"background": {"name": "background", "kind": "and", "sprites": ["background"]}
	},
	"tiles_with_modifiers": {},
	"neighbors": {},
	"brackets": {},
	"rule_definitions": {},
	"rules": [],
	"levels": [{"kind": "map", "cells": [[["player"]]]}],
	"win_conditions": [],
	"commands": {}
}`

func testGameData(t *testing.T) *engine.GameData {
	t.Helper()
	gameData, err := loader.Load([]byte(testRulesetJSON))
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	return gameData
}

func TestManagerCreateGeneratesIDWhenEmpty(t *testing.T) {
	m := NewManager()
	session, err := m.Create("", "test", testGameData(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID == "" {
		t.Error("expected a generated session id")
	}
}

func TestManagerCreateRejectsDuplicateID(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	if _, err := m.Create("dup", "test", gameData); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("dup", "test", gameData); err != ErrSessionAlreadyExists {
		t.Errorf("expected ErrSessionAlreadyExists, got %v", err)
	}
}

func TestManagerGetIsCaseInsensitive(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	if _, err := m.Create("MixedCase", "test", gameData); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Get("mixedcase"); err != nil {
		t.Errorf("expected a case-insensitive lookup to succeed, got %v", err)
	}
}

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)

	first, err := m.GetOrCreate("session1", "test", gameData)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := m.GetOrCreate("session1", "test", gameData)
	if err != nil {
		t.Fatalf("GetOrCreate (existing): %v", err)
	}
	if first != second {
		t.Error("expected GetOrCreate to return the same session on the second call")
	}
}

func TestManagerList(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	m.Create("a", "test", gameData)
	m.Create("b", "test", gameData)

	if got := len(m.List()); got != 2 {
		t.Errorf("expected 2 sessions, got %d", got)
	}
}

func TestManagerDelete(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	m.Create("removable", "test", gameData)

	if err := m.Delete("removable"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get("removable"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := m.Delete("removable"); err != ErrSessionNotFound {
		t.Errorf("expected deleting twice to report ErrSessionNotFound, got %v", err)
	}
}

func TestManagerUpdateLastAccessed(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	session, _ := m.Create("touch", "test", gameData)
	before := session.LastAccessedAt

	time.Sleep(time.Millisecond)
	if err := m.UpdateLastAccessed("touch"); err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("expected LastAccessedAt to advance")
	}
}

func TestManagerCleanupExpiredSessions(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)
	session, _ := m.Create("stale", "test", gameData)
	session.LastAccessedAt = time.Now().Add(-time.Hour)

	removed := m.CleanupExpiredSessions(time.Minute)
	if removed != 1 {
		t.Errorf("expected 1 session removed, got %d", removed)
	}
	if m.Count() != 0 {
		t.Errorf("expected 0 sessions remaining, got %d", m.Count())
	}
}

func TestManagerConcurrentCreate(t *testing.T) {
	m := NewManager()
	gameData := testGameData(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Create("", "test", gameData)
		}()
	}
	wg.Wait()

	if got := m.Count(); got != 20 {
		t.Errorf("expected 20 concurrently created sessions, got %d", got)
	}
}
