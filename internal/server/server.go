package server

import (
	"bytes"
	"embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"inputcommands/input"
	"inputcommands/internal/clients"
	"inputcommands/internal/commands"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	readLimit    = 1 << 20
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	writeTimeout = 5 * time.Second
)

//go:embed index.html
var embeddedFiles embed.FS

type Config struct {
	Device  input.Device
	Manager *clients.Manager
	Logger  log.FieldLogger
	// Options are applied to every session's interpreter.
	Options []commands.Option
}

// Server runs one command interpreter per websocket session. All sessions
// share the device, guarded by a single lock held for each command.
type Server struct {
	cfg      Config
	deviceMu sync.Mutex
	upgrader websocket.Upgrader
}

func New(cfg Config) *Server {
	if cfg.Manager == nil {
		cfg.Manager = clients.NewManager()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.StandardLogger()
	}
	// The zero Upgrader rejects cross-origin handshakes, so only the
	// embedded console and non-browser clients can drive input.
	return &Server{cfg: cfg}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serveIndex)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

// Close drops every live session. http.Server.Shutdown does not track
// hijacked connections, so call this first.
func (s *Server) Close() {
	s.cfg.Manager.CloseAll()
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	b, err := embeddedFiles.ReadFile("index.html")
	if err != nil {
		http.Error(w, "index missing", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(b)
}

// HandleWS upgrades the request and runs a command session on it. Each text
// message is one command line and gets exactly one text reply with that
// command's output, which may be empty.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = "default"
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Logger.WithError(err).Warn("upgrade error")
		return
	}

	logger := s.cfg.Logger.WithFields(log.Fields{
		"session": uuid.NewString(),
		"client":  clientID,
		"remote":  r.RemoteAddr,
	})
	logger.Info("session opened")

	if old := s.cfg.Manager.SetControl(clientID, ws); old != nil {
		logger.Info("replacing previous session")
		old.Close()
	}
	go s.session(clientID, ws, logger)
}

func (s *Server) session(clientID string, ws *websocket.Conn, logger log.FieldLogger) {
	done := make(chan struct{})
	defer func() {
		close(done)
		s.cfg.Manager.RemoveControl(clientID, ws)
		ws.Close()
		logger.Info("session closed")
	}()

	ws.SetReadLimit(readLimit)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go keepAlive(ws, done)

	var out bytes.Buffer
	opts := append([]commands.Option{
		commands.WithLogger(logger),
		commands.WithLock(&s.deviceMu),
	}, s.cfg.Options...)
	interp := commands.New(s.cfg.Device, &out, opts...)

	for {
		mt, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("control read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		// Any read proves the peer is alive.
		ws.SetReadDeadline(time.Now().Add(pongWait))

		out.Reset()
		state := interp.Execute(strings.TrimRight(string(msg), "\r\n"))

		ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, out.Bytes()); err != nil {
			logger.WithError(err).Warn("write error")
			return
		}
		if state == commands.Terminated {
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "exit"),
				time.Now().Add(writeTimeout))
			return
		}
	}
}

// keepAlive pings until done is closed. WriteControl may run concurrently
// with the session's writes.
func keepAlive(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
