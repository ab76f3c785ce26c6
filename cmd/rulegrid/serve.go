package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/rulegrid/api"
	"github.com/wricardo/rulegrid/game/config"
	"github.com/wricardo/rulegrid/game/service"
	"github.com/wricardo/rulegrid/game/session"
	"github.com/wricardo/rulegrid/transport/websocket"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local REST+WebSocket server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "listen host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "listen port"},
			&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "directory for persisted sessions"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configDir := cmd.Root().String("config-dir")

			gameService, sessionManager, err := initializeServices(configDir, cmd.String("sessions-dir"))
			if err != nil {
				return fmt.Errorf("serve: failed to initialize services: %w", err)
			}

			go sessionCleanupRoutine(sessionManager)

			hub := websocket.NewHub()
			go hub.Run()

			apiServer := api.NewServer(gameService, hub)

			addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
			httpServer := &http.Server{
				Addr:         addr,
				Handler:      apiServer,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			log.Printf("rulegrid: REST API on http://%s/api", addr)
			log.Printf("rulegrid: WebSocket on ws://%s/ws?session=<session_id>", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("serve: HTTP server failed: %w", err)
			}
			return nil
		},
	}
}

// initializeServices wires the config manager, file-backed session
// persistence, and the session manager that backs a GameService.
func initializeServices(configDir, sessionsDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, configManager)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("rulegrid: warning: failed to load persisted sessions: %v", err)
	}

	gameService := service.NewGameService(sessionManager, configManager)
	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically prunes sessions untouched for 24h.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed > 0 {
			log.Printf("rulegrid: cleaned up %d expired sessions", removed)
		}
	}
}
