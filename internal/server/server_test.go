package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	return nil
}

func (r *recorder) MoveCursor(x, y int) error { return r.add("move") }
func (r *recorder) PressLeft() error          { return r.add("leftDown") }
func (r *recorder) ReleaseLeft() error        { return r.add("leftUp") }
func (r *recorder) PressRight() error         { return r.add("rightDown") }
func (r *recorder) ReleaseRight() error       { return r.add("rightUp") }
func (r *recorder) SendText(s string) error   { return r.add("text:" + s) }

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newTestServer(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	dev := &recorder{}
	logger, _ := test.NewNullLogger()
	s := New(Config{Device: dev, Logger: logger})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(s.Close)
	return ts, dev
}

func dial(t *testing.T, ts *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?clientId=" + clientID
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func roundTrip(t *testing.T, c *websocket.Conn, line string) string {
	t.Helper()
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(line)))
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	return string(msg)
}

func TestSessionExecutesCommands(t *testing.T) {
	ts, dev := newTestServer(t)
	c := dial(t, ts, "a")

	assert.Equal(t, "", roundTrip(t, c, "MouseLeftDown 1|2"))
	assert.Equal(t, "Error: Invalid Command\n", roundTrip(t, c, "Nope"))
	assert.Equal(t, "Error: Invalid Arguments\n", roundTrip(t, c, "SetMousePosition 1-2"))
	assert.Equal(t, "", roundTrip(t, c, "SendKeys Hello World\r\n"))
	assert.Contains(t, roundTrip(t, c, "Help"), "[Exit]")

	assert.Equal(t, []string{"move", "leftDown", "text:Hello World"}, dev.snapshot())
}

func TestExitClosesSession(t *testing.T) {
	ts, _ := newTestServer(t)
	c := dial(t, ts, "a")

	assert.Equal(t, "", roundTrip(t, c, "Exit"))

	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestSameClientReplacesSession(t *testing.T) {
	ts, _ := newTestServer(t)
	first := dial(t, ts, "same")
	assert.Equal(t, "", roundTrip(t, first, "SetMousePosition 0|0"))
	second := dial(t, ts, "same")

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)

	assert.Equal(t, "Error: Invalid Command\n", roundTrip(t, second, "x"))
}

func TestHealthzAndIndex(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "WebSocket")

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCrossOriginHandshakeRejected(t *testing.T) {
	ts, dev := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?clientId=page"

	header := http.Header{"Origin": {"https://evil.example"}}
	c, resp, err := websocket.DefaultDialer.Dial(url, header)
	if c != nil {
		c.WriteMessage(websocket.TextMessage, []byte("SendKeys rm -rf ~"))
		c.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, dev.snapshot())
}

func TestSameOriginHandshakeAccepted(t *testing.T) {
	ts, dev := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?clientId=console"

	c, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {ts.URL}})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "", roundTrip(t, c, "SendKeys ok"))
	assert.Equal(t, []string{"text:ok"}, dev.snapshot())
}
