package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialSocket(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SocketPath
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("Dial() error: %v (status %d)", err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) ServerFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}
	var f ServerFrame
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
	return f
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) ServerFrame {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("WriteMessage() error: %v", err)
	}
	return readFrame(t, conn)
}

func TestSocketNavigation(t *testing.T) {
	srv, ts := testServer(t, nil)
	conn := dialSocket(t, ts, nil)

	hello := readFrame(t, conn)
	if hello.Type != FrameHello || len(hello.Session) != 36 {
		t.Fatalf("hello = %+v", hello)
	}
	if srv.Sockets() != 1 {
		t.Errorf("Sockets() = %d, want 1", srv.Sockets())
	}

	f := roundTrip(t, conn, `{"type":"navigate","path":"/"}`)
	if f.Type != FrameMount || f.Name != "login" || f.View != "LoginPage" || f.Title != "Вход | Messenger" {
		t.Errorf("navigate / = %+v", f)
	}
	if f.ID == "" {
		t.Error("mount frame is missing the navigation ID")
	}

	f = roundTrip(t, conn, `{"type":"navigate","path":"/dashbord"}`)
	if f.Type != FrameNotFound || f.Suggestion != "/dashboard" || f.Title != "Messenger" {
		t.Errorf("navigate /dashbord = %+v", f)
	}

	f = roundTrip(t, conn, `{"type":"navigate","path":"/dashboard?tab=chats"}`)
	if f.Type != FrameMount || f.View != "DashboardView" || f.Query != "tab=chats" ||
		f.Bundle != "/_nav/views/DashboardView.js" || f.Title != "Messenger" {
		t.Errorf("navigate /dashboard = %+v", f)
	}

	f = roundTrip(t, conn, `{"type":"back"}`)
	if f.Type != FrameMount || f.Path != "/" || f.Title != "Вход | Messenger" {
		t.Errorf("back = %+v", f)
	}

	f = roundTrip(t, conn, `{"type":"forward"}`)
	if f.Type != FrameMount || f.Path != "/dashboard" {
		t.Errorf("forward = %+v", f)
	}

	f = roundTrip(t, conn, `{"type":"forward"}`)
	if f.Type != FrameError || f.Code != "E212" {
		t.Errorf("forward at end = %+v", f)
	}
}

func TestSocketErrors(t *testing.T) {
	_, ts := testServer(t, nil)
	conn := dialSocket(t, ts, nil)
	readFrame(t, conn)

	tests := []struct {
		frame string
		code  string
	}{
		{`not json`, "E214"},
		{`{"type":"teleport"}`, "E214"},
		{`{"type":"navigate","path":"https://evil.example/"}`, "E211"},
		{`{"type":"navigate","path":"//evil.example"}`, "E211"},
		{`{"type":"back"}`, "E212"},
	}

	for _, tt := range tests {
		f := roundTrip(t, conn, tt.frame)
		if f.Type != FrameError || f.Code != tt.code {
			t.Errorf("%s -> %+v, want error %s", tt.frame, f, tt.code)
		}
		if !strings.HasPrefix(f.Error, tt.code+": ") {
			t.Errorf("%s error text = %q", tt.frame, f.Error)
		}
	}
}

func TestSocketSessionsAreIndependent(t *testing.T) {
	_, ts := testServer(t, nil)

	a := dialSocket(t, ts, nil)
	b := dialSocket(t, ts, nil)
	helloA, helloB := readFrame(t, a), readFrame(t, b)
	if helloA.Session == helloB.Session {
		t.Fatal("sessions share an ID")
	}

	roundTrip(t, a, `{"type":"navigate","path":"/"}`)
	roundTrip(t, a, `{"type":"navigate","path":"/register"}`)

	// b has no history of its own yet.
	if f := roundTrip(t, b, `{"type":"back"}`); f.Type != FrameError {
		t.Errorf("b back = %+v", f)
	}
	if f := roundTrip(t, a, `{"type":"back"}`); f.Type != FrameMount || f.Path != "/" {
		t.Errorf("a back = %+v", f)
	}
}

func TestSocketRejectsCrossOrigin(t *testing.T) {
	_, ts := testServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + SocketPath
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		t.Fatal("cross-origin dial should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %+v", resp)
	}
}

func TestSocketClosedOnShutdown(t *testing.T) {
	srv, ts := testServer(t, nil)
	conn := dialSocket(t, ts, nil)
	readFrame(t, conn)

	srv.closeSockets()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going away", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for srv.Sockets() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Sockets() != 0 {
		t.Errorf("Sockets() = %d after shutdown", srv.Sockets())
	}
}

func TestAllowOrigins(t *testing.T) {
	check := AllowOrigins("https://app.messenger.dev")

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"https://app.messenger.dev", true},
		{"https://evil.example", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/_nav/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Errorf("origin %q = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestSocketBasePath(t *testing.T) {
	_, ts := testServer(t, &Config{BasePath: "/app/"})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/app" + SocketPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error: %v", url, err)
	}
	defer conn.Close()

	if hello := readFrame(t, conn); hello.Type != FrameHello {
		t.Fatalf("hello = %+v", hello)
	}
	f := roundTrip(t, conn, `{"type":"navigate","path":"/register"}`)
	if f.Type != FrameMount || f.Path != "/register" || f.Bundle != "/app/_nav/views/RegistrationPage.js" {
		t.Errorf("navigate /register = %+v", f)
	}
}
