package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/loomkit/loom/pkg/assets"
	"github.com/loomkit/loom/pkg/protocol"
	"github.com/loomkit/loom/pkg/vdom"
)

func wsURL(t *testing.T, baseURL, path string) string {
	t.Helper()
	if !strings.HasPrefix(baseURL, "http") {
		t.Fatalf("unexpected base URL: %q", baseURL)
	}
	return "ws" + strings.TrimPrefix(baseURL, "http") + path
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	return data
}

func counterRoot(props any) *vdom.Node {
	return vdom.Div(nil, vdom.Button(vdom.Attrs{"onclick": "inc"}, vdom.Text("clicked")))
}

func TestServer_WebSocketDeliversInitialLayoutUpdate(t *testing.T) {
	srv := New(DefaultConfig(), counterRoot, nil, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, wsURL(t, ts.URL, "/ws"))
	data := readMessage(t, conn)

	msgType, err := protocol.DecodeMessageType(data)
	if err != nil {
		t.Fatalf("DecodeMessageType failed: %v", err)
	}
	if msgType != protocol.TypeLayoutUpdate {
		t.Fatalf("message type = %v, want %v", msgType, protocol.TypeLayoutUpdate)
	}

	var msg protocol.LayoutUpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal layout-update: %v", err)
	}
	if len(msg.Patches) == 0 {
		t.Error("expected at least one patch in the initial render")
	}
}

func TestServer_Shared_MultipleConnectionsSeeSameTree(t *testing.T) {
	srv := NewShared(DefaultConfig(), counterRoot, nil, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.shared.Run(ctx)

	a := dialWS(t, wsURL(t, ts.URL, "/ws"))
	b := dialWS(t, wsURL(t, ts.URL, "/ws"))

	dataA := readMessage(t, a)
	dataB := readMessage(t, b)

	var msgA, msgB protocol.LayoutUpdateMessage
	if err := json.Unmarshal(dataA, &msgA); err != nil {
		t.Fatalf("unmarshal A: %v", err)
	}
	if err := json.Unmarshal(dataB, &msgB); err != nil {
		t.Fatalf("unmarshal B: %v", err)
	}
	if len(msgA.Patches) == 0 || len(msgB.Patches) == 0 {
		t.Fatal("both connections should receive the initial snapshot")
	}
}

func TestServer_ModuleFetch(t *testing.T) {
	store, err := assets.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, "react", "text/javascript", []byte("export default {}")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	srv := New(DefaultConfig(), counterRoot, nil, store)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/modules/react")
	if err != nil {
		t.Fatalf("GET /modules/react: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/javascript" {
		t.Errorf("Content-Type = %q, want text/javascript", ct)
	}
}

func TestServer_ModuleFetch_NotFound(t *testing.T) {
	store, err := assets.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	srv := New(DefaultConfig(), counterRoot, nil, store)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/modules/missing")
	if err != nil {
		t.Fatalf("GET /modules/missing: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_IndexFallback(t *testing.T) {
	srv := New(DefaultConfig(), counterRoot, nil, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}
