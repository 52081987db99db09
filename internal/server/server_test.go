package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starduel/internal/protocol"
)

type relay struct {
	srv  *Server
	http *httptest.Server
	url  string
}

func newRelay(t *testing.T) *relay {
	t.Helper()
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &relay{
		srv:  srv,
		http: ts,
		url:  "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws",
	}
}

// connect dials n clients and waits until the hub has registered them all.
func (r *relay) connect(t *testing.T, n int) []*websocket.Conn {
	t.Helper()
	conns := make([]*websocket.Conn, n)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(r.url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		conns[i] = conn
	}
	require.Eventually(t, func() bool {
		return r.srv.ClientCount() == n
	}, 2*time.Second, 5*time.Millisecond)
	return conns
}

func readFrame(t *testing.T, conn *websocket.Conn) (int, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	frameType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return frameType, data
}

func assertSilent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, data, err := conn.ReadMessage()
	assert.Error(t, err, "unexpected frame %q", data)
}

func TestScoreIsRelayedVerbatimToEveryClient(t *testing.T) {
	r := newRelay(t)
	conns := r.connect(t, 3)

	// Extra whitespace and fields must survive the relay untouched.
	msg := []byte(`{ "event": "score", "data": {"plr": 1, "score": 3, "extra": true} }`)
	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, msg))

	for _, conn := range conns {
		frameType, data := readFrame(t, conn)
		assert.Equal(t, websocket.TextMessage, frameType)
		assert.Equal(t, msg, data)
	}
	for _, conn := range conns {
		assertSilent(t, conn)
	}
}

func TestDuplicateSendsAreRelayedTwice(t *testing.T) {
	r := newRelay(t)
	conns := r.connect(t, 2)

	msg, err := protocol.EncodeScore(protocol.JSON, protocol.ScoreUpdate{Player: 0, Score: 5})
	require.NoError(t, err)
	require.NoError(t, conns[1].WriteMessage(websocket.TextMessage, msg))
	require.NoError(t, conns[1].WriteMessage(websocket.TextMessage, msg))

	for _, conn := range conns {
		_, first := readFrame(t, conn)
		_, second := readFrame(t, conn)
		assert.Equal(t, msg, first)
		assert.Equal(t, msg, second)
	}
}

func TestMsgpackFramesStayBinary(t *testing.T) {
	r := newRelay(t)
	conns := r.connect(t, 2)

	msg, err := protocol.EncodeScore(protocol.Msgpack, protocol.ScoreUpdate{Player: 1, Score: 12})
	require.NoError(t, err)
	require.NoError(t, conns[0].WriteMessage(websocket.BinaryMessage, msg))

	frameType, data := readFrame(t, conns[1])
	assert.Equal(t, websocket.BinaryMessage, frameType)
	assert.Equal(t, msg, data)

	u, err := protocol.DecodeScore(protocol.Msgpack, data)
	require.NoError(t, err)
	assert.Equal(t, protocol.ScoreUpdate{Player: 1, Score: 12}, u)
}

func TestNonScoreFramesAreDropped(t *testing.T) {
	r := newRelay(t)
	conns := r.connect(t, 2)

	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, []byte(`{"event":"chat","data":{}}`)))
	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conns[0].WriteMessage(websocket.BinaryMessage, []byte{0xc1}))

	for _, conn := range conns {
		assertSilent(t, conn)
	}
	assert.Equal(t, 2, r.srv.ClientCount(), "bad frames do not cost the connection")
}

func TestDisconnectUnregisters(t *testing.T) {
	r := newRelay(t)
	conns := r.connect(t, 2)

	conns[0].WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conns[0].Close()

	require.Eventually(t, func() bool {
		return r.srv.ClientCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	msg := []byte(`{"event":"score","data":{"plr":0,"score":1}}`)
	require.NoError(t, conns[1].WriteMessage(websocket.TextMessage, msg))
	_, data := readFrame(t, conns[1])
	assert.Equal(t, msg, data)
}

func TestHealthReportsClientCount(t *testing.T) {
	r := newRelay(t)
	r.connect(t, 2)

	resp, err := http.Get(r.http.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, healthResponse{Status: "ok", Clients: 2}, body)
}

func TestPlainRequestIsNotUpgraded(t *testing.T) {
	r := newRelay(t)

	resp, err := http.Get(r.http.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, r.srv.ClientCount())
}
