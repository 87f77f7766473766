package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) dialStatus(t *testing.T, id string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(a.router)
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/status/"+id, nil)
	if err == nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readSnapshot(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(msg, &snap))
	return snap
}

func TestStatusSocketPushesResponse(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	conn, _, err := app.dialStatus(t, id)
	require.NoError(t, err)

	snap := readSnapshot(t, conn)
	assert.Equal(t, id, snap["id"])
	assert.Equal(t, "Sam", snap["recipientName"])
	assert.Nil(t, snap["response"])

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "yes"})
	require.Equal(t, http.StatusOK, w.Code)

	snap = readSnapshot(t, conn)
	assert.Equal(t, "yes", snap["response"])
	assert.NotNil(t, snap["respondedAt"])
}

func TestStatusSocketPushesGuesses(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, anonymous())

	conn, _, err := app.dialStatus(t, id)
	require.NoError(t, err)
	readSnapshot(t, conn)

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Alex"})
	require.Equal(t, http.StatusOK, w.Code)

	snap := readSnapshot(t, conn)
	assert.Equal(t, []any{"Alex"}, snap["guesses"])
}

func TestStatusSocketNoPushWhenNotPersisted(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	conn, _, err := app.dialStatus(t, id)
	require.NoError(t, err)
	readSnapshot(t, conn)

	app.store.failWrites = true
	w := app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "yes"})
	require.Equal(t, http.StatusAccepted, w.Code)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)) //nolint:errcheck
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestStatusSocketRefusesUnknownOrExpired(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())
	app.advance(6 * 24 * time.Hour)

	_, resp, err := app.dialStatus(t, "missing0")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = app.dialStatus(t, id)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}
