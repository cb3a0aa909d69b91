package channel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"casebot/app/client/dialogue"
	"casebot/app/config"
	"casebot/app/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const secret = "s3cret"

type turn struct {
	sender   string
	message  string
	metadata map[string]any
}

type fakeDialogue struct {
	mu      sync.Mutex
	turns   []turn
	replies []dialogue.BotMessage
	err     error
}

func (f *fakeDialogue) Send(_ context.Context, sender, message string, metadata map[string]any) ([]dialogue.BotMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.turns = append(f.turns, turn{sender: sender, message: message, metadata: metadata})
	return f.replies, f.err
}

func (f *fakeDialogue) Turns() []turn {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]turn(nil), f.turns...)
}

func channelConfig(persistence bool) config.Channel {
	return config.Channel{
		Path:               "/socket",
		UserMessageEvent:   "user_uttered",
		BotMessageEvent:    "bot_uttered",
		SessionPersistence: persistence,
		JWTKey:             secret,
		JWTMethod:          "HS256",
	}
}

func startHub(t *testing.T, cfg config.Channel, d Dialogue) *httptest.Server {
	t.Helper()

	verifier, err := auth.NewVerifier(cfg.JWTKey, cfg.JWTMethod)
	require.NoError(t, err)

	hub := NewHub(cfg, d, verifier)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		_ = hub.Shutdown()
		srv.Close()
	})

	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/socket", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close(websocket.StatusNormalClosure, "") })

	return ws
}

func emit(t *testing.T, ws *websocket.Conn, event string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, ws, Frame{Event: event, Data: raw}))
}

type received struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func receive(t *testing.T, ws *websocket.Conn) received {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var frame received
	require.NoError(t, wsjson.Read(ctx, ws, &frame))

	return frame
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u-42",
		"exp":  exp.Unix(),
		"data": map[string]any{"userName": "jane doe"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func utterance(message, session, accessToken string) map[string]any {
	return map[string]any{
		"message":    message,
		"session_id": session,
		"customData": map[string]any{
			"accessToken": accessToken,
			"analytics":   map[string]any{"page": "/cases"},
		},
	}
}

func TestSessionRequest(t *testing.T) {
	srv := startHub(t, channelConfig(false), &fakeDialogue{})
	ws := dial(t, srv)

	emit(t, ws, "session_request", nil)
	frame := receive(t, ws)
	assert.Equal(t, "session_confirm", frame.Event)
	assert.Regexp(t, "^[0-9a-f]{32}$", frame.Data)

	emit(t, ws, "session_request", map[string]any{"session_id": "abc"})
	assert.Equal(t, received{Event: "session_confirm", Data: "abc"}, receive(t, ws))
}

func TestUserMessage_TokenProblems(t *testing.T) {
	d := &fakeDialogue{}
	srv := startHub(t, channelConfig(false), d)
	ws := dial(t, srv)

	emit(t, ws, "user_uttered", utterance("hi", "", ""))
	assert.Equal(t, received{
		Event: "bot_uttered",
		Data:  map[string]any{"text": "Access token not available for authentication"},
	}, receive(t, ws))

	expired := token(t, time.Now().Add(-time.Minute))
	emit(t, ws, "user_uttered", utterance("my charges", "", expired))
	assert.Equal(t, received{
		Event: "bot_uttered",
		Data:  map[string]any{"text": "my charges", "expired": true, "accessToken": expired},
	}, receive(t, ws))

	emit(t, ws, "user_uttered", utterance("hi", "", "garbage"))
	assert.Equal(t, received{
		Event: "bot_uttered",
		Data:  map[string]any{"text": "Invalid access token", "accessToken": "garbage"},
	}, receive(t, ws))

	assert.Empty(t, d.Turns())
}

func TestUserMessage_ForwardsToDialogue(t *testing.T) {
	d := &fakeDialogue{replies: []dialogue.BotMessage{
		{Text: "Hello\n\nPick a case", Buttons: []map[string]any{{"title": "A", "payload": "/a"}}},
		{Custom: map[string]any{"attachment": map[string]any{"type": "template"}}},
	}}
	srv := startHub(t, channelConfig(false), d)
	ws := dial(t, srv)

	valid := token(t, time.Now().Add(time.Hour))
	emit(t, ws, "user_uttered", utterance("hi", "", valid))

	first := receive(t, ws)
	assert.Equal(t, "bot_uttered", first.Event)
	assert.Equal(t, map[string]any{"text": "Hello", "quick_replies": []any{}, "accessToken": valid}, first.Data)

	second := receive(t, ws).Data.(map[string]any)
	assert.Equal(t, "Pick a case", second["text"])
	assert.Equal(t, []any{map[string]any{"content_type": "text", "title": "A", "payload": "/a"}}, second["quick_replies"])

	third := receive(t, ws).Data.(map[string]any)
	assert.Equal(t, map[string]any{"type": "template"}, third["attachment"])
	assert.Equal(t, valid, third["accessToken"])

	turns := d.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].message)
	assert.NotEmpty(t, turns[0].sender)
	assert.Equal(t, map[string]any{
		"user_id":       "u-42",
		"user_name":     "jane doe",
		"authorization": "Bearer " + valid,
		"analytics":     map[string]any{"page": "/cases", "userId": "u-42"},
	}, turns[0].metadata)
}

func TestUserMessage_DialogueFailureIsSilent(t *testing.T) {
	d := &fakeDialogue{err: errors.New("down")}
	srv := startHub(t, channelConfig(false), d)
	ws := dial(t, srv)

	emit(t, ws, "user_uttered", utterance("hi", "", token(t, time.Now().Add(time.Hour))))
	emit(t, ws, "session_request", map[string]any{"session_id": "next"})

	assert.Equal(t, received{Event: "session_confirm", Data: "next"}, receive(t, ws))
}

func TestSessionPersistence(t *testing.T) {
	d := &fakeDialogue{replies: []dialogue.BotMessage{{Text: "Hello"}}}
	srv := startHub(t, channelConfig(true), d)

	tab1 := dial(t, srv)
	tab2 := dial(t, srv)

	for _, ws := range []*websocket.Conn{tab1, tab2} {
		emit(t, ws, "session_request", map[string]any{"session_id": "sess-1"})
		assert.Equal(t, received{Event: "session_confirm", Data: "sess-1"}, receive(t, ws))
	}

	valid := token(t, time.Now().Add(time.Hour))

	emit(t, tab1, "user_uttered", utterance("ignored", "", valid))
	emit(t, tab1, "user_uttered", utterance("hi", "sess-1", valid))

	for _, ws := range []*websocket.Conn{tab1, tab2} {
		frame := receive(t, ws)
		assert.Equal(t, "Hello", frame.Data.(map[string]any)["text"])
	}

	turns := d.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "sess-1", turns[0].sender)
	assert.Equal(t, "hi", turns[0].message)
}

func TestHealth(t *testing.T) {
	srv := startHub(t, channelConfig(false), &fakeDialogue{})

	resp, err := http.Get(srv.URL + "/socket/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "ok"}, body)
}
