package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/face"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	updates []*appmsg.Update
	err     error
}

func (r *recorder) dispatch(_ context.Context, u *appmsg.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
	return r.err
}

func (r *recorder) received() []*appmsg.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*appmsg.Update(nil), r.updates...)
}

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SyncPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, payload string) appmsg.Ack {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ack appmsg.Ack
	require.NoError(t, conn.ReadJSON(&ack))
	return ack
}

func TestNewRequiresDispatch(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}

func TestNewRejectsHalfTLSConfig(t *testing.T) {
	rec := &recorder{}
	_, err := New(&Config{CertPath: "cert.pem", Dispatch: rec.dispatch})
	assert.Error(t, err)
}

func TestSync_AckAppliedKeys(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	ack := roundTrip(t, conn, `{"HourColor": 16711680, "showMonth": 1}`)

	assert.True(t, ack.OK())
	assert.Equal(t, []string{appmsg.KeyHourColor, appmsg.KeyShowMonth}, ack.Applied)
	assert.Empty(t, ack.Ignored)

	got := rec.received()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].ShowMonth)
	assert.True(t, *got[0].ShowMonth)
}

func TestSync_MalformedFieldReportedAsIgnored(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	ack := roundTrip(t, conn, `{"useMil": "yes", "vibeHour": 1}`)

	assert.True(t, ack.OK())
	assert.Equal(t, []string{appmsg.KeyVibeHour}, ack.Applied)
	assert.Equal(t, []string{appmsg.KeyUseMil}, ack.Ignored)
}

func TestSync_NackNotObject(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	for _, payload := range []string{`[1,2,3]`, `42`, `not json`, `null`} {
		ack := roundTrip(t, conn, payload)
		assert.False(t, ack.OK(), "payload %q", payload)
		assert.NotEmpty(t, ack.Error, "payload %q", payload)
	}
	assert.Empty(t, rec.received(), "rejected payloads must not be dispatched")
}

func TestSync_NackDispatchError(t *testing.T) {
	rec := &recorder{err: errors.New("storage full")}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	ack := roundTrip(t, conn, `{"BackgroundColor": 0}`)

	assert.False(t, ack.OK())
	assert.Contains(t, ack.Error, "storage full")
}

func TestSync_MultipleMessagesOnOneConnection(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	roundTrip(t, conn, `{"useMil": 1}`)
	roundTrip(t, conn, `{"useMil": 0}`)
	roundTrip(t, conn, `{}`)

	got := rec.received()
	require.Len(t, got, 3)
	assert.True(t, *got[0].UseMilitaryTime)
	assert.False(t, *got[1].UseMilitaryTime)
	assert.True(t, got[2].Empty())
}

func TestHealth(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch, Platform: "chalk", Version: "1.2.3"})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var h Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "chalk", h.Platform)
	assert.Equal(t, "1.2.3", h.Version)
}

func TestSyncRejectsPlainHTTP(t *testing.T) {
	rec := &recorder{}
	_, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})

	resp, err := http.Get(ts.URL + SyncPath)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListenServeShutdown(t *testing.T) {
	rec := &recorder{}
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, Dispatch: rec.dispatch})
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	assert.NotZero(t, srv.Port())

	served := make(chan error, 1)
	go func() { served <- srv.Serve() }()

	url := "ws://" + srv.Addr().String() + SyncPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return srv.GetActiveConnections() == 1 },
		2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
	assert.Zero(t, srv.GetActiveConnections())
}

func TestServeBeforeListen(t *testing.T) {
	rec := &recorder{}
	srv, err := New(&Config{Dispatch: rec.dispatch})
	require.NoError(t, err)
	assert.Error(t, srv.Serve())
	assert.Nil(t, srv.Addr())
	assert.Zero(t, srv.Port())
}

func TestSaveMessageToAnalysis(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "capture")

	SaveMessageToAnalysis("10.0.0.2:5000", 1, websocket.TextMessage, []byte(`{"useMil":1}`), dir)
	SaveMessageToAnalysis("10.0.0.2:5000", 2, websocket.TextMessage, []byte(`garbage`), dir)

	files, err := filepath.Glob(filepath.Join(dir, "capture-*.jsonl"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var records []MessageAnalysis
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec MessageAnalysis
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "text", records[0].FrameType)
	assert.JSONEq(t, `{"useMil":1}`, string(records[0].Payload))
	assert.Equal(t, "garbage", records[1].PayloadRaw)
	assert.Equal(t, 2, records[1].MessageNum)
}

func TestSaveMessageToAnalysisDisabled(t *testing.T) {
	// Must not panic or create anything.
	SaveMessageToAnalysis("addr", 1, websocket.TextMessage, []byte(`{}`), "")
}

func TestReadCaptures(t *testing.T) {
	dir := t.TempDir()
	SaveMessageToAnalysis("10.0.0.2:4000", 1, websocket.TextMessage, []byte(`{"HourColor":16711680,"useMil":"yes"}`), dir)
	SaveMessageToAnalysis("10.0.0.2:4000", 2, websocket.TextMessage, []byte(`not json`), dir)

	files, err := filepath.Glob(filepath.Join(dir, "capture-*.jsonl"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.OpenFile(files[0], os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{broken\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	captures, err := ReadCaptures(files[0])
	require.NoError(t, err)
	require.Len(t, captures, 3)

	first := captures[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 1, first.MessageNum)
	assert.Equal(t, []string{appmsg.KeyHourColor}, first.Update.Present())
	assert.Equal(t, []string{appmsg.KeyUseMil}, first.Update.Malformed)

	assert.Error(t, captures[1].Err)
	assert.Nil(t, captures[1].Update)
	assert.Equal(t, "not json", captures[1].PayloadRaw)

	assert.Error(t, captures[2].Err)
	assert.Equal(t, 3, captures[2].Line)
}

func TestReadCaptures_MissingFile(t *testing.T) {
	_, err := ReadCaptures(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	rec := &recorder{}
	srv, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	roundTrip(t, conn, `{"HourColor": 255, "useMil": "x"}`)
	roundTrip(t, conn, `[]`)

	m := srv.metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues(resultAck)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues(resultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fields.WithLabelValues(appmsg.KeyHourColor)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.malformed.WithLabelValues(appmsg.KeyUseMil)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))

	resp, err := http.Get(ts.URL + MetricsPath)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `watchface_sync_messages_total{result="ack"} 1`)
	assert.Contains(t, string(body), "watchface_sync_dispatch_seconds_count 1")
}

func TestMetrics_FailedDispatch(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	srv, ts := newTestServer(t, &Config{Dispatch: rec.dispatch})
	conn := dial(t, ts)

	roundTrip(t, conn, `{"vibeHour": 1}`)

	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.messages.WithLabelValues(resultFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(srv.metrics.fields.WithLabelValues(appmsg.KeyVibeHour)))
}

func TestSync_UnregisteredInboxIsNacked(t *testing.T) {
	var inbox face.Mailbox
	_, ts := newTestServer(t, &Config{
		Dispatch: func(_ context.Context, u *appmsg.Update) error { return inbox.Deliver(u) },
	})
	conn := dial(t, ts)

	ack := roundTrip(t, conn, `{"showMonth": 1}`)
	assert.False(t, ack.OK())
	assert.Empty(t, ack.Applied)
	assert.Contains(t, ack.Error, face.ErrNoInbox.Error())
}
