package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rom-protocol/rom-go/pkg/cert"
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/log"
)

// Default ports for device sockets.
const (
	// DefaultSecurePort is the mutually-authenticated WebSocket port.
	DefaultSecurePort = 7160

	// DefaultPlainPort is the unauthenticated WebSocket port, used by
	// local development simulators only.
	DefaultPlainPort = 8160
)

// DefaultHandshakeTimeout bounds dial plus WebSocket upgrade.
const DefaultHandshakeTimeout = 10 * time.Second

// Manager errors.
var (
	ErrManagerClosed = errors.New("transport manager closed")
	ErrNoAddress     = errors.New("no device address")
)

// Options configures one device connection.
type Options struct {
	// Address is the device host. Defaults to Material.DeviceAddress
	// when certificate material is present.
	Address string

	// Port overrides the default port for the chosen scheme.
	Port int

	// Material enables wss with mutual TLS. Device certificates are
	// self-signed, so chain verification is skipped and the peer is
	// authenticated by comparing its certificate fingerprint against
	// the provisioned one. Nil selects plain ws.
	Material *cert.Material

	// HandshakeTimeout bounds dial plus upgrade (default 10s).
	HandshakeTimeout time.Duration
}

// ConnectedEvent notifies that a device socket opened.
type ConnectedEvent struct {
	Device string
}

// DisconnectedEvent notifies that a device socket closed. Emitted
// exactly once per socket.
type DisconnectedEvent struct {
	Device string
	Code   int
	Reason string
}

// InboundMessage is one text frame received from a device.
type InboundMessage struct {
	Device string
	Raw    []byte
}

// Manager owns the live socket per device identifier: only the manager
// writes to or closes a registered socket.
type Manager struct {
	logger log.Logger

	// Connected fires when a device socket opens.
	Connected *events.Event[ConnectedEvent]

	// Disconnected fires exactly once per socket close.
	Disconnected *events.Event[DisconnectedEvent]

	// Messages fires for every inbound frame, tagged with the device.
	Messages *events.Event[InboundMessage]

	mu     sync.Mutex
	conns  map[string]*deviceConn
	dials  map[string]*pendingDial
	closed bool
}

// pendingDial coalesces concurrent Connect calls for one device: the
// first caller dials, the rest wait for its outcome.
type pendingDial struct {
	done chan struct{}
	err  error
}

// NewManager creates an empty connection manager. A nil logger disables
// protocol logging.
func NewManager(logger log.Logger) *Manager {
	return &Manager{
		logger:       log.OrNoop(logger),
		Connected:    events.New[ConnectedEvent](),
		Disconnected: events.New[DisconnectedEvent](),
		Messages:     events.New[InboundMessage](),
		conns:        make(map[string]*deviceConn),
		dials:        make(map[string]*pendingDial),
	}
}

// Connect ensures a live socket to the device. Connecting to an
// already-connected device is a no-op. A lingering socket that already
// closed is discarded first. Concurrent calls for the same device share
// one dial.
func (m *Manager) Connect(ctx context.Context, device string, opts Options) error {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return ErrManagerClosed
		}
		if dc, ok := m.conns[device]; ok {
			if dc.alive() {
				m.mu.Unlock()
				return nil
			}
			// Stale socket from an earlier session.
			delete(m.conns, device)
			dc.close()
		}
		if pd, ok := m.dials[device]; ok {
			m.mu.Unlock()
			select {
			case <-pd.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if pd.err != nil {
				return pd.err
			}
			// The winning dial succeeded; loop to observe the socket.
			continue
		}
		pd := &pendingDial{done: make(chan struct{})}
		m.dials[device] = pd
		m.mu.Unlock()

		err := m.dial(ctx, device, opts)

		m.mu.Lock()
		delete(m.dials, device)
		pd.err = err
		m.mu.Unlock()
		close(pd.done)

		return err
	}
}

// dial opens the socket and registers it. Called with no locks held.
func (m *Manager) dial(ctx context.Context, device string, opts Options) error {
	u, tlsConf, err := dialTarget(opts)
	if err != nil {
		return err
	}

	timeout := opts.HandshakeTimeout
	if timeout == 0 {
		timeout = DefaultHandshakeTimeout
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		TLSClientConfig:  tlsConf,
	}

	m.logState(device, "", "DISCONNECTED", "CONNECTING", "")

	ws, _, err := dialer.DialContext(ctx, u, nil)
	if err != nil {
		m.logState(device, "", "CONNECTING", "DISCONNECTED", err.Error())
		return fmt.Errorf("dial %s: %w", u, err)
	}

	dc := newDeviceConn(m, device, ws)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		dc.close()
		return ErrManagerClosed
	}
	m.conns[device] = dc
	m.mu.Unlock()

	m.logState(device, dc.id, "CONNECTING", "CONNECTED", "")

	go dc.readPump()

	m.Connected.Emit(ConnectedEvent{Device: device})
	return nil
}

// dialTarget resolves the URL and TLS configuration for the options.
func dialTarget(opts Options) (string, *tls.Config, error) {
	address := opts.Address
	if address == "" && opts.Material != nil {
		address = opts.Material.DeviceAddress
	}
	if address == "" {
		return "", nil, ErrNoAddress
	}

	if opts.Material == nil {
		port := opts.Port
		if port == 0 {
			port = DefaultPlainPort
		}
		return fmt.Sprintf("ws://%s:%d/", address, port), nil, nil
	}

	port := opts.Port
	if port == 0 {
		port = DefaultSecurePort
	}
	tlsConf := &tls.Config{
		Certificates:          []tls.Certificate{opts.Material.Certificate},
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: opts.Material.VerifyPeerCertificate,
	}
	return fmt.Sprintf("wss://%s:%d/", address, port), tlsConf, nil
}

// IsConnected reports whether a live socket exists for the device.
func (m *Manager) IsConnected(device string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	dc, ok := m.conns[device]
	return ok && dc.alive()
}

// Send writes one text frame to the device's socket. Writing to an
// unknown or closed device is a silent no-op: callers rely on
// acknowledgement semantics, not write errors.
func (m *Manager) Send(device string, payload []byte) {
	m.mu.Lock()
	dc, ok := m.conns[device]
	m.mu.Unlock()
	if !ok {
		return
	}

	if err := dc.write(payload); err != nil {
		m.logError(device, dc.id, err.Error(), "write frame")
		return
	}

	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: dc.id,
		DeviceID:     device,
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame:        &log.FrameEvent{Size: len(payload)},
	})
}

// Close discards every live socket unconditionally and rejects further
// connects. Disconnect notifications still fire, one per socket.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	conns := make([]*deviceConn, 0, len(m.conns))
	for _, dc := range m.conns {
		conns = append(conns, dc)
	}
	m.mu.Unlock()

	for _, dc := range conns {
		dc.close()
	}
}

// drop removes a socket from the registry, keyed by identity so a
// replacement socket for the same device is left alone.
func (m *Manager) drop(dc *deviceConn) {
	m.mu.Lock()
	if cur, ok := m.conns[dc.device]; ok && cur == dc {
		delete(m.conns, dc.device)
	}
	m.mu.Unlock()
}

func (m *Manager) logState(device, connID, oldState, newState, reason string) {
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		DeviceID:     device,
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   "connection",
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (m *Manager) logError(device, connID, message, context string) {
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		DeviceID:     device,
		Direction:    log.DirectionIn,
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: message,
			Context: context,
		},
	})
}
