package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	apperrors "github.com/messenger-dev/messenger-web/internal/errors"
	"github.com/messenger-dev/messenger-web/pkg/router"
)

// Frame types.
const (
	FrameNavigate = "navigate"
	FrameBack     = "back"
	FrameForward  = "forward"

	FrameHello    = "hello"
	FrameMount    = "mount"
	FrameNotFound = "not_found"
	FrameError    = "error"
)

// ClientFrame is a message from the browser.
type ClientFrame struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

// ServerFrame is a message to the browser.
type ServerFrame struct {
	Type       string `json:"type"`
	Session    string `json:"session,omitempty"`
	ID         string `json:"id,omitempty"`
	Path       string `json:"path,omitempty"`
	Query      string `json:"query,omitempty"`
	Name       string `json:"name,omitempty"`
	View       string `json:"view,omitempty"`
	Bundle     string `json:"bundle,omitempty"`
	Title      string `json:"title,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

const writeWait = 10 * time.Second

// socket is one navigation session over a websocket.
type socket struct {
	id     string
	conn   *websocket.Conn
	router *router.Router
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.requestLogger(r).Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	logger := s.logger.With("session_id", id)
	sock := &socket{
		id:     id,
		conn:   conn,
		router: s.newRouter(logger),
		logger: logger,
		done:   make(chan struct{}),
	}

	s.addSocket(sock)
	defer s.removeSocket(sock)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	logger.Info("socket opened", "remote", r.RemoteAddr)
	s.serveSocket(ctx, sock)
	logger.Info("socket closed")
}

func (s *Server) addSocket(sock *socket) {
	s.mu.Lock()
	s.sockets[sock] = struct{}{}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
}

func (s *Server) removeSocket(sock *socket) {
	s.mu.Lock()
	delete(s.sockets, sock)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
}

// closeSockets sends a going-away close frame to every open socket.
func (s *Server) closeSockets() {
	s.mu.Lock()
	open := make([]*socket, 0, len(s.sockets))
	for sock := range s.sockets {
		open = append(open, sock)
	}
	s.mu.Unlock()

	for _, sock := range open {
		sock.close(websocket.CloseGoingAway, "server shutting down")
	}
}

// serveSocket reads frames and answers each in order. Only this goroutine
// writes data frames; the ping loop uses WriteControl, which gorilla allows
// concurrently.
func (s *Server) serveSocket(ctx context.Context, sock *socket) {
	defer sock.close(websocket.CloseNormalClosure, "")

	pongWait := 2 * s.config.PingInterval
	sock.conn.SetReadLimit(s.config.MaxMessageSize)
	sock.conn.SetReadDeadline(time.Now().Add(pongWait))
	sock.conn.SetPongHandler(func(string) error {
		return sock.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go sock.pingLoop(s.config.PingInterval)

	if err := sock.send(ServerFrame{Type: FrameHello, Session: sock.id}); err != nil {
		return
	}

	for {
		_, msg, err := sock.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				sock.logger.Warn("read error", "error", err)
			}
			return
		}
		sock.conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame ClientFrame
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			sock.logger.Debug("frame decode error", "error", err)
			if err := sock.send(errorFrame(apperrors.New("E214").WithDetail(err.Error()))); err != nil {
				return
			}
			continue
		}

		if err := sock.send(s.dispatch(ctx, sock, frame)); err != nil {
			sock.logger.Debug("write error", "error", err)
			return
		}
	}
}

// dispatch runs one client frame against the session's router.
func (s *Server) dispatch(ctx context.Context, sock *socket, frame ClientFrame) ServerFrame {
	var (
		nav *router.Navigation
		err error
	)
	switch frame.Type {
	case FrameNavigate:
		nav, err = sock.router.Navigate(ctx, frame.Path)
	case FrameBack:
		nav, err = sock.router.Back(ctx)
	case FrameForward:
		nav, err = sock.router.Forward(ctx)
	default:
		return errorFrame(apperrors.New("E214").WithDetailf("unknown frame type %q", frame.Type))
	}

	if err != nil {
		var nf *router.NotFoundError
		if errors.As(err, &nf) {
			if s.metrics != nil {
				s.metrics.ObserveNotFound()
			}
			return ServerFrame{
				Type:       FrameNotFound,
				Path:       nf.Path,
				Title:      sock.router.Document().DefaultTitle(),
				Suggestion: nf.Suggestion,
			}
		}
		sock.logger.Debug("navigation failed", "type", frame.Type, "path", frame.Path, "error", err)
		return errorFrame(navigationError(err))
	}

	return ServerFrame{
		Type:   FrameMount,
		ID:     nav.ID,
		Path:   nav.Path,
		Query:  nav.Query,
		Name:   nav.To.Name,
		View:   nav.To.View.ID(),
		Bundle: s.url(BundleURL(nav.To.View)),
		Title:  nav.Title,
	}
}

// navigationError maps router errors to coded errors.
func navigationError(err error) *apperrors.Error {
	switch {
	case errors.Is(err, router.ErrInvalidPath):
		return apperrors.New("E211").WithDetail(err.Error()).Wrap(err)
	case errors.Is(err, router.ErrNoHistory):
		return apperrors.New("E212").Wrap(err)
	default:
		return apperrors.FromError(err, "E215")
	}
}

func errorFrame(err *apperrors.Error) ServerFrame {
	return ServerFrame{Type: FrameError, Code: err.Code, Error: err.FormatCompact()}
}

func (sock *socket) send(frame ServerFrame) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}
	sock.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sock.conn.WriteMessage(websocket.TextMessage, data)
}

func (sock *socket) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sock.done:
			return
		case <-ticker.C:
			if err := sock.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (sock *socket) close(code int, reason string) {
	sock.closeOnce.Do(func() {
		close(sock.done)
		msg := websocket.FormatCloseMessage(code, reason)
		sock.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		sock.conn.Close()
	})
}
