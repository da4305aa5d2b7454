package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rom-protocol/rom-go/pkg/log"
)

// deviceConn wraps one live WebSocket. The manager is the only writer
// and the only closer; the read pump is the only reader.
type deviceConn struct {
	manager *Manager
	device  string
	id      string
	ws      *websocket.Conn

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	notified  atomic.Bool
}

func newDeviceConn(m *Manager, device string, ws *websocket.Conn) *deviceConn {
	return &deviceConn{
		manager: m,
		device:  device,
		id:      uuid.NewString(),
		ws:      ws,
	}
}

// alive reports whether the socket has not yet closed.
func (dc *deviceConn) alive() bool {
	return !dc.closed.Load()
}

// write sends one text frame. Serialized because gorilla permits a
// single concurrent writer.
func (dc *deviceConn) write(payload []byte) error {
	dc.writeMu.Lock()
	defer dc.writeMu.Unlock()
	return dc.ws.WriteMessage(websocket.TextMessage, payload)
}

// close tears the socket down without a close handshake. The read pump
// observes the closed socket and emits the disconnect notification.
func (dc *deviceConn) close() {
	dc.closeOnce.Do(func() {
		dc.closed.Store(true)
		dc.ws.Close()
	})
}

// readPump delivers inbound frames until the socket dies, then emits
// exactly one disconnect notification and drops the socket from the
// registry.
func (dc *deviceConn) readPump() {
	for {
		msgType, data, err := dc.ws.ReadMessage()
		if err != nil {
			dc.finish(err)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		dc.manager.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: dc.id,
			DeviceID:     dc.device,
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Frame:        &log.FrameEvent{Size: len(data)},
		})

		dc.manager.Messages.Emit(InboundMessage{Device: dc.device, Raw: data})
	}
}

// finish records the close, logs it, and fans out the disconnect event.
func (dc *deviceConn) finish(err error) {
	dc.closed.Store(true)
	dc.manager.drop(dc)

	if !dc.notified.CompareAndSwap(false, true) {
		return
	}

	code := websocket.CloseAbnormalClosure
	reason := ""
	if ce, ok := err.(*websocket.CloseError); ok {
		code = ce.Code
		reason = ce.Text
	}

	dc.manager.logState(dc.device, dc.id, "CONNECTED", "DISCONNECTED", reason)

	dc.manager.Disconnected.Emit(DisconnectedEvent{
		Device: dc.device,
		Code:   code,
		Reason: reason,
	})
}
