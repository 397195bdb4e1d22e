// Package web provides a real-time dashboard for gazekeeper
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/gazekeeper/gazekeeper/internal/log"
	"github.com/gazekeeper/gazekeeper/pkg/hub"
)

// State is the tracker's current condition as shown on the dashboard
type State struct {
	SessionID      string  `json:"session_id"`
	Policy         string  `json:"policy"`
	Status         string  `json:"status"` // looking, away, no-face
	Looking        bool    `json:"looking"`
	AwaySeconds    float64 `json:"away_seconds"`
	TriggerCount   int     `json:"trigger_count"`
	SerialAttached bool    `json:"serial_attached"`
	CameraIndex    int     `json:"camera_index"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, trigger, device, error
	Message string `json:"message"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	// State
	state   State
	stateMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub  *hub.Hub
	logHub     *hub.Hub
	previewHub *hub.Hub
}

// NewServer creates a new web dashboard server
func NewServer(port string) *Server {
	s := &Server{
		port:       port,
		logs:       make([]LogEntry, 0, 500),
		statusHub:  hub.New("status"),
		logHub:     hub.New("logs"),
		previewHub: hub.New("preview"),
	}
	s.state.SessionID = uuid.NewString()
	s.state.Status = "looking"

	app := fiber.New(fiber.Config{
		AppName:               "Gazekeeper Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/logs", s.handleGetLogs)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("dashboard listening", "url", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.logHub.Run()
	go s.previewHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "error", err)
		}
	}()
}

// UpdateState updates the tracker state and broadcasts to clients
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state // Copy for broadcast
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// SendPreviewFrame broadcasts an annotated JPEG frame to preview clients
func (s *Server) SendPreviewFrame(jpegData []byte) {
	if s.previewHub.ClientCount() == 0 {
		return
	}
	s.previewHub.BroadcastBinary(jpegData)
}

// Shutdown gracefully stops the web server and the broadcast hubs
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	s.logHub.Stop()
	s.previewHub.Stop()
	return s.app.Shutdown()
}
