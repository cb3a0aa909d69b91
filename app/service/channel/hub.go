package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"casebot/app/client/dialogue"
	"casebot/app/config"
	"casebot/app/service/auth"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/samber/do"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	eventSessionRequest = "session_request"
	eventSessionConfirm = "session_confirm"

	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Dialogue forwards one user turn to the dialogue framework.
type Dialogue interface {
	Send(ctx context.Context, sender, message string, metadata map[string]any) ([]dialogue.BotMessage, error)
}

type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Frame is the envelope of every socket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type userUttered struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id"`
	CustomData struct {
		AccessToken string         `json:"accessToken"`
		Analytics   map[string]any `json:"analytics"`
	} `json:"customData"`
}

type client struct {
	id    string
	ws    *websocket.Conn
	rooms []string
}

// Hub is the socket transport between the chat widget and the dialogue framework.
// Every connection sits in a room named after its id; with session persistence it also
// joins the room of its session, so replies reach every tab of that session.
type Hub struct {
	cfg      config.Channel
	dialogue Dialogue
	verifier TokenVerifier

	ctx    context.Context
	cancel context.CancelFunc
	srv    *http.Server

	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
}

func New(di *do.Injector) (*Hub, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewHub(
		cfg.Channel,
		do.MustInvoke[*dialogue.Client](di),
		do.MustInvoke[*auth.Verifier](di),
	), nil
}

func NewHub(cfg config.Channel, d Dialogue, verifier TokenVerifier) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		cfg:      cfg,
		dialogue: d,
		verifier: verifier,
		ctx:      ctx,
		cancel:   cancel,
		rooms:    make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(h.cfg.Path, h.serveWS)
	mux.HandleFunc(strings.TrimRight(h.cfg.Path, "/")+"/health", health)

	return mux
}

// Run serves until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	h.srv = &http.Server{
		Addr:              h.cfg.Addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		if err := h.Shutdown(); err != nil {
			slog.Warn("Socket shutdown failed", "error", err)
		}
	}()

	slog.Info("Socket transport listening", "addr", h.cfg.Addr, "path", h.cfg.Path)

	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", h.cfg.Addr, err)
	}

	return nil
}

func (h *Hub) Shutdown() error {
	h.cancel()

	if h.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return h.srv.Shutdown(ctx)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "closing")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	c := &client{id: uuid.NewString(), ws: ws}
	h.join(c, c.id)
	defer h.leave(c)

	slog.Debug("User connected", "sid", c.id)

	for {
		var frame Frame
		if err := wsjson.Read(ctx, ws, &frame); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				slog.Debug("Socket read ended", "sid", c.id, "error", err)
			}
			break
		}

		h.dispatch(ctx, c, frame)
	}

	slog.Debug("User disconnected", "sid", c.id)
}

func (h *Hub) dispatch(ctx context.Context, c *client, frame Frame) {
	switch frame.Event {
	case eventSessionRequest:
		h.sessionRequest(ctx, c, frame.Data)
	case h.cfg.UserMessageEvent:
		h.userMessage(ctx, c, frame.Data)
	default:
		slog.Debug("Unhandled socket event", "sid", c.id, "event", frame.Event)
	}
}

func (h *Hub) sessionRequest(ctx context.Context, c *client, data json.RawMessage) {
	var req sessionRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			slog.Debug("Malformed session request", "sid", c.id, "error", err)
		}
	}

	if req.SessionID == "" {
		req.SessionID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	if h.cfg.SessionPersistence {
		h.join(c, req.SessionID)
	}

	h.send(ctx, c, outFrame{Event: eventSessionConfirm, Data: req.SessionID})
}

func (h *Hub) userMessage(ctx context.Context, c *client, data json.RawMessage) {
	var msg userUttered
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Debug("Malformed user message", "sid", c.id, "error", err)
		return
	}

	sender := c.id
	if h.cfg.SessionPersistence {
		if msg.SessionID == "" {
			slog.Warn("Message without session_id ignored, send session_request first", "sid", c.id)
			return
		}
		sender = msg.SessionID
	}

	token := msg.CustomData.AccessToken

	claims, err := h.verifier.Verify(token)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		h.emit(ctx, sender, map[string]any{"text": "Access token not available for authentication"})
		return
	case errors.Is(err, auth.ErrTokenExpired):
		h.emit(ctx, sender, map[string]any{"text": msg.Message, "expired": true, "accessToken": token})
		return
	case err != nil:
		slog.Info("Access token rejected", "sender", sender, "error", err)
		h.emit(ctx, sender, map[string]any{"text": "Invalid access token", "accessToken": token})
		return
	}

	replies, err := h.dialogue.Send(ctx, sender, msg.Message, metadata(claims, token, msg.CustomData.Analytics))
	if err != nil {
		slog.Error("Message handling failed",
			"sender", sender,
			"error", err,
		)
		return
	}

	for _, reply := range replies {
		for _, out := range Render(reply) {
			out["accessToken"] = token
			h.emit(ctx, sender, out)
		}
	}
}

func metadata(claims auth.Claims, token string, analytics map[string]any) map[string]any {
	result := map[string]any{
		"user_id":       claims.UserID,
		"user_name":     claims.UserName,
		"authorization": "Bearer " + token,
	}

	if analytics != nil {
		copied := make(map[string]any, len(analytics)+1)
		for k, v := range analytics {
			copied[k] = v
		}
		copied["userId"] = claims.UserID
		result["analytics"] = copied
	}

	return result
}

// emit sends a bot message to every connection in room.
func (h *Hub) emit(ctx context.Context, room string, data any) {
	h.mu.Lock()
	members := pie.Keys(h.rooms[room])
	h.mu.Unlock()

	for _, c := range members {
		h.send(ctx, c, outFrame{Event: h.cfg.BotMessageEvent, Data: data})
	}
}

func (h *Hub) send(ctx context.Context, c *client, frame outFrame) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, c.ws, frame); err != nil {
		slog.Debug("Socket write failed", "sid", c.id, "event", frame.Event, "error", err)
	}
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}

	if _, ok := members[c]; ok {
		return
	}

	members[c] = struct{}{}
	c.rooms = append(c.rooms, room)
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	c.rooms = nil
}
