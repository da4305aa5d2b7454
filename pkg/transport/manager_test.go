package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rom-protocol/rom-go/pkg/cert"
)

// wsServer is a plain WebSocket test device.
type wsServer struct {
	t        *testing.T
	server   *httptest.Server
	upgrades atomic.Int32
	conns    chan *websocket.Conn
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	s := &wsServer{t: t, conns: make(chan *websocket.Conn, 4)}
	upgrader := websocket.Upgrader{}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		s.upgrades.Add(1)
		s.conns <- ws
	}))
	t.Cleanup(s.server.Close)
	return s
}

// options returns plain-socket options pointing at the test server.
func (s *wsServer) options() Options {
	s.t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(s.server.URL, "http://"))
	if err != nil {
		s.t.Fatalf("parse server address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return Options{Address: host, Port: port}
}

// accept returns the next server-side connection.
func (s *wsServer) accept() *websocket.Conn {
	s.t.Helper()
	select {
	case ws := <-s.conns:
		return ws
	case <-time.After(5 * time.Second):
		s.t.Fatal("no connection accepted")
		return nil
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for %s", what)
	}
}

func TestManagerConnectAndReceive(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)
	defer m.Close()

	received := make(chan InboundMessage, 1)
	m.Messages.On(func(msg InboundMessage) { received <- msg })

	connected := make(chan struct{}, 1)
	m.Connected.On(func(ConnectedEvent) { connected <- struct{}{} })

	if err := m.Connect(context.Background(), "robot-1", server.options()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	waitFor(t, connected, "connected event")

	if !m.IsConnected("robot-1") {
		t.Error("expected robot-1 connected")
	}

	ws := server.accept()
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"hello":1}`)); err != nil {
		t.Fatalf("server write: %v", err)
	}

	select {
	case msg := <-received:
		if msg.Device != "robot-1" {
			t.Errorf("expected device robot-1, got %s", msg.Device)
		}
		if string(msg.Raw) != `{"hello":1}` {
			t.Errorf("unexpected frame: %s", msg.Raw)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestManagerConnectWhenConnectedIsNoOp(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)
	defer m.Close()

	ctx := context.Background()
	if err := m.Connect(ctx, "robot-1", server.options()); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	if err := m.Connect(ctx, "robot-1", server.options()); err != nil {
		t.Fatalf("second connect: %v", err)
	}

	if got := server.upgrades.Load(); got != 1 {
		t.Errorf("expected exactly one socket, got %d", got)
	}
}

func TestManagerSendWritesFrame(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)
	defer m.Close()

	if err := m.Connect(context.Background(), "robot-1", server.options()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ws := server.accept()

	m.Send("robot-1", []byte(`{"cmd":"x"}`))

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	if string(data) != `{"cmd":"x"}` {
		t.Errorf("unexpected frame: %s", data)
	}
}

func TestManagerSendToUnknownDeviceIsSilent(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	// Must not panic or error.
	m.Send("ghost", []byte("x"))
	if m.IsConnected("ghost") {
		t.Error("ghost should not be connected")
	}
}

func TestManagerDisconnectEmittedOnce(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)
	defer m.Close()

	events := make(chan DisconnectedEvent, 4)
	m.Disconnected.On(func(ev DisconnectedEvent) { events <- ev })

	if err := m.Connect(context.Background(), "robot-1", server.options()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ws := server.accept()

	// Device-initiated close with an application close code.
	deadline := time.Now().Add(time.Second)
	ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(4001, "a problem occurred"), deadline)
	ws.Close()

	select {
	case ev := <-events:
		if ev.Device != "robot-1" {
			t.Errorf("expected robot-1, got %s", ev.Device)
		}
		if ev.Code != 4001 {
			t.Errorf("expected close code 4001, got %d", ev.Code)
		}
		if ev.Reason != "a problem occurred" {
			t.Errorf("unexpected reason: %s", ev.Reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no disconnect event")
	}

	// No duplicate notification.
	select {
	case ev := <-events:
		t.Errorf("unexpected second disconnect event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	if m.IsConnected("robot-1") {
		t.Error("robot-1 should be dropped from the registry")
	}
}

func TestManagerReconnectAfterDrop(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)
	defer m.Close()

	dropped := make(chan struct{}, 1)
	m.Disconnected.On(func(DisconnectedEvent) { dropped <- struct{}{} })

	ctx := context.Background()
	if err := m.Connect(ctx, "robot-1", server.options()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	server.accept().Close()
	waitFor(t, dropped, "disconnect")

	if err := m.Connect(ctx, "robot-1", server.options()); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if got := server.upgrades.Load(); got != 2 {
		t.Errorf("expected two sockets total, got %d", got)
	}
	if !m.IsConnected("robot-1") {
		t.Error("expected robot-1 connected after reconnect")
	}
}

func TestManagerClose(t *testing.T) {
	server := newWSServer(t)
	m := NewManager(nil)

	ctx := context.Background()
	if err := m.Connect(ctx, "robot-1", server.options()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	m.Close()

	if err := m.Connect(ctx, "robot-2", server.options()); err != ErrManagerClosed {
		t.Errorf("expected ErrManagerClosed, got %v", err)
	}
}

// testClientPair generates a self-signed client certificate for mutual
// TLS dials.
func testClientPair(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

func TestManagerSecureDialChecksFingerprint(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader.Upgrade(w, r, nil)
	}))
	defer server.Close()

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "https://"))
	if err != nil {
		t.Fatalf("parse server address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	pair := testClientPair(t)
	ctx := context.Background()

	t.Run("Match", func(t *testing.T) {
		material := &cert.Material{
			DeviceAddress: host,
			Certificate:   pair,
			Fingerprint:   cert.Fingerprint(server.Certificate().Raw),
		}
		m := NewManager(nil)
		defer m.Close()

		if err := m.Connect(ctx, "robot-1", Options{Address: host, Port: port, Material: material}); err != nil {
			t.Fatalf("connect with matching fingerprint: %v", err)
		}
		if !m.IsConnected("robot-1") {
			t.Error("expected robot-1 connected")
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		material := &cert.Material{
			DeviceAddress: host,
			Certificate:   pair,
			Fingerprint:   "deadbeef",
		}
		m := NewManager(nil)
		defer m.Close()

		if err := m.Connect(ctx, "robot-2", Options{Address: host, Port: port, Material: material}); err == nil {
			t.Fatal("expected fingerprint mismatch to fail the handshake")
		}
		if m.IsConnected("robot-2") {
			t.Error("robot-2 must not be registered after a failed dial")
		}
	})
}

func TestDialTarget(t *testing.T) {
	t.Run("PlainDefaults", func(t *testing.T) {
		u, tlsConf, err := dialTarget(Options{Address: "10.0.0.9"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u != "ws://10.0.0.9:8160/" {
			t.Errorf("unexpected url: %s", u)
		}
		if tlsConf != nil {
			t.Error("plain socket should carry no TLS config")
		}
	})

	t.Run("NoAddress", func(t *testing.T) {
		if _, _, err := dialTarget(Options{}); err != ErrNoAddress {
			t.Errorf("expected ErrNoAddress, got %v", err)
		}
	})
}
