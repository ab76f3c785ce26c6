package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/loader"
)

// DefaultConfigDir is used when RULEGRID_CONFIG_DIR is unset.
const DefaultConfigDir = "./configs"

// ResolveConfigDir returns RULEGRID_CONFIG_DIR if set, else DefaultConfigDir.
func ResolveConfigDir() string {
	if dir := os.Getenv("RULEGRID_CONFIG_DIR"); dir != "" {
		return dir
	}
	return DefaultConfigDir
}

// Manager loads, caches and validates rule-ast rulesets from a
// directory of JSON files, exactly as engine.GameData's loader expects.
type Manager struct {
	configDir      string
	defaultName    string
	defaultRuleset *engine.GameData
	rulesets       map[string]*engine.GameData
	mu             sync.RWMutex
}

// NewManager builds a Manager rooted at configDir. A missing directory
// is not an error: LoadConfig/ListConfigs simply report nothing on disk,
// and the built-in default ruleset still loads via LoadDefault.
func NewManager(configDir string) (*Manager, error) {
	m := &Manager{
		configDir: configDir,
		rulesets:  make(map[string]*engine.GameData),
	}
	if err := m.loadDefaultRuleset(); err != nil {
		return nil, fmt.Errorf("config: failed to establish a default ruleset: %w", err)
	}
	return m, nil
}

// LoadConfig loads a named ruleset, caching the parsed result.
func (m *Manager) LoadConfig(name string) (*engine.GameData, error) {
	m.mu.RLock()
	if gameData, ok := m.rulesets[name]; ok {
		m.mu.RUnlock()
		return gameData, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if gameData, ok := m.rulesets[name]; ok {
		return gameData, nil
	}

	data, err := os.ReadFile(m.configPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("config: failed to read %q: %w", name, err)
	}

	gameData, err := loader.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.rulesets[name] = gameData
	return gameData, nil
}

// ListConfigs enumerates the *.json rulesets in configDir, skipping any
// that fail to load.
func (m *Manager) ListConfigs() ([]*Info, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: failed to read %q: %w", m.configDir, err)
	}

	var infos []*Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		gameData, err := m.LoadConfig(name)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			Filename: entry.Name(),
			ConfigID: name,
			Title:    gameData.Title,
			Levels:   len(gameData.Levels),
			Sprites:  len(gameData.Sprites),
		})
	}
	return infos, nil
}

// GetDefault returns the current default ruleset.
func (m *Manager) GetDefault() *engine.GameData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRuleset
}

// SetDefault loads name and, on success, makes it the default ruleset.
func (m *Manager) SetDefault(name string) error {
	gameData, err := m.LoadConfig(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultName = name
	m.defaultRuleset = gameData
	m.mu.Unlock()
	return nil
}

// RefreshCache drops every cached ruleset and reloads the default.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.rulesets = make(map[string]*engine.GameData)
	m.mu.Unlock()
	return m.loadDefaultRuleset()
}

func (m *Manager) loadDefaultRuleset() error {
	if gameData, err := m.LoadConfig("classic"); err == nil {
		m.mu.Lock()
		m.defaultName = "classic"
		m.defaultRuleset = gameData
		m.mu.Unlock()
		return nil
	}

	if infos, err := m.ListConfigs(); err == nil && len(infos) > 0 {
		if gameData, err := m.LoadConfig(infos[0].ConfigID); err == nil {
			m.mu.Lock()
			m.defaultName = infos[0].ConfigID
			m.defaultRuleset = gameData
			m.mu.Unlock()
			return nil
		}
	}

	gameData, err := LoadDefault()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultName = ""
	m.defaultRuleset = gameData
	m.mu.Unlock()
	return nil
}

func (m *Manager) configPath(name string) string {
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	return filepath.Join(m.configDir, filename)
}
