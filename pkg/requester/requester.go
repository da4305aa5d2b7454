package requester

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rom-protocol/rom-go/pkg/async"
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/log"
	"github.com/rom-protocol/rom-go/pkg/token"
	"github.com/rom-protocol/rom-go/pkg/transport"
	"github.com/rom-protocol/rom-go/pkg/version"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// DisconnectedError is the rejection payload of every token still in
// flight when the device connection drops.
type DisconnectedError struct {
	Code   int
	Reason string
}

// Error returns a description of the disconnect.
func (e *DisconnectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("connection closed: %d %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("connection closed: %d", e.Code)
}

// Config configures a Requester.
type Config struct {
	// AppID identifies the calling application in every command header.
	AppID string

	// Credentials is an opaque credential blob echoed in every command
	// header. May be nil.
	Credentials any

	// Logger records protocol activity. Nil disables logging.
	Logger log.Logger
}

// Requester is the transaction dispatcher for one device: it issues
// transaction ids, owns the in-flight token registry, and routes every
// inbound message to the token it correlates with.
type Requester struct {
	device  string
	manager *transport.Manager
	logger  log.Logger
	appID   string
	creds   any

	mu        sync.Mutex
	inflight  map[string]token.Token
	sessionID string
	version   string

	// Disconnected fires when the device connection drops, after every
	// in-flight token has been rejected.
	Disconnected *events.Event[DisconnectedError]

	// Capability namespaces.
	Play          *PlayAPI
	LookAt        *LookAtAPI
	Display       *DisplayAPI
	Photo         *PhotoAPI
	Video         *VideoAPI
	Listen        *ListenAPI
	HotWord       *HotWordAPI
	HeadTouch     *HeadTouchAPI
	ScreenGesture *ScreenGestureAPI
	MotionTrack   *MotionTrackAPI
	FaceTrack     *FaceTrackAPI
	Attention     *AttentionAPI
	Config        *ConfigAPI
	Assets        *AssetsAPI
}

// New creates a dispatcher for the device, wired to the manager's
// message and disconnect notifications.
func New(manager *transport.Manager, device string, cfg Config) *Requester {
	r := &Requester{
		device:       device,
		manager:      manager,
		logger:       log.OrNoop(cfg.Logger),
		appID:        cfg.AppID,
		creds:        cfg.Credentials,
		inflight:     make(map[string]token.Token),
		Disconnected: events.New[DisconnectedError](),
	}
	r.Play = &PlayAPI{r: r}
	r.LookAt = &LookAtAPI{r: r}
	r.Display = &DisplayAPI{r: r}
	r.Photo = &PhotoAPI{r: r}
	r.Video = &VideoAPI{r: r}
	r.Listen = &ListenAPI{r: r}
	r.HotWord = &HotWordAPI{r: r}
	r.HeadTouch = &HeadTouchAPI{r: r}
	r.ScreenGesture = &ScreenGestureAPI{r: r}
	r.MotionTrack = &MotionTrackAPI{r: r}
	r.FaceTrack = &FaceTrackAPI{r: r}
	r.Attention = &AttentionAPI{r: r}
	r.Config = &ConfigAPI{r: r}
	r.Assets = &AssetsAPI{r: r}

	manager.Messages.On(func(msg transport.InboundMessage) {
		if msg.Device == r.device {
			r.onInbound(msg.Raw)
		}
	})
	manager.Disconnected.On(func(ev transport.DisconnectedEvent) {
		if ev.Device == r.device {
			r.onDisconnect(ev)
		}
	})

	return r
}

// Device returns the device identifier this dispatcher serves.
func (r *Requester) Device() string {
	return r.device
}

// Session returns the negotiated session id and protocol version, empty
// before Connect resolves.
func (r *Requester) Session() (sessionID, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID, r.version
}

// Connect opens the device socket and starts a session. Commands sent
// before Connect returns carry no session id and are not meaningful to
// the device.
func (r *Requester) Connect(ctx context.Context, opts transport.Options) error {
	if err := r.manager.Connect(ctx, r.device, opts); err != nil {
		return err
	}

	tok := token.NewSessionToken(r)
	r.Send(tok)

	result, err := tok.Completion().Await(ctx)
	if err != nil {
		return fmt.Errorf("session start failed: %w", err)
	}

	info, ok := result.(*wire.SessionInfo)
	if !ok {
		return fmt.Errorf("session start returned unexpected result %T", result)
	}

	r.mu.Lock()
	r.sessionID = info.SessionID
	r.version = info.Version
	r.mu.Unlock()

	if !version.CompatibleWithCurrent(info.Version) {
		r.logger.Log(log.Event{
			Timestamp: time.Now(),
			DeviceID:  r.device,
			Direction: log.DirectionIn,
			Layer:     log.LayerService,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerService,
				Message: fmt.Sprintf("device protocol version %q is not compatible with %s", info.Version, version.Current),
				Context: "session start",
			},
		})
	}

	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		DeviceID:  r.device,
		Direction: log.DirectionIn,
		Layer:     log.LayerService,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   "session",
			OldState: "NONE",
			NewState: "STARTED",
		},
	})
	return nil
}

// Send issues a fresh transaction id, registers the token, wraps its
// command in the session envelope, and writes it. Returns the
// transaction id.
func (r *Requester) Send(tok token.Token) string {
	txID := async.NewTransactionID()
	tok.Bind(txID)

	data, err := wire.EncodeEnvelope(&wire.Envelope{
		ClientHeader: r.header(txID),
		Command:      tok.Command(),
	})
	if err != nil {
		tok.Reject(err)
		return txID
	}

	// Register before the frame hits the wire: the read pump may route
	// the acknowledgement before this goroutine resumes.
	r.mu.Lock()
	r.inflight[txID] = tok
	r.mu.Unlock()

	r.manager.Send(r.device, data)
	r.logOutbound(txID, tok.Command())

	// A token that settled while we were writing must not linger.
	if tok.Done() {
		r.mu.Lock()
		delete(r.inflight, txID)
		r.mu.Unlock()
	}
	return txID
}

// SendCancel fire-and-forgets a cancel command referencing the
// transaction id. The cancel's own acknowledgement is uncorrelated.
func (r *Requester) SendCancel(transactionID string) {
	txID := async.NewTransactionID()
	cmd := wire.CancelCommand{Type: wire.CmdCancel, ID: transactionID}

	data, err := wire.EncodeEnvelope(&wire.Envelope{
		ClientHeader: r.header(txID),
		Command:      cmd,
	})
	if err != nil {
		return
	}

	r.manager.Send(r.device, data)
	r.logOutbound(txID, cmd)
}

// Parallel joins already-sent tokens under a composite policy.
func (r *Requester) Parallel(policy token.JoinPolicy, members ...token.Token) *token.Composite {
	return token.NewComposite(policy, members...)
}

// InFlight returns the number of outstanding transactions.
func (r *Requester) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight)
}

// onInbound classifies one frame and routes it to its token. Frames
// matching neither shape, and frames whose transaction id is unknown,
// are dropped: late events after settlement and responses racing a
// cancel are expected.
func (r *Requester) onInbound(raw []byte) {
	in, err := wire.Classify(raw)
	if err != nil {
		r.logger.Log(log.Event{
			Timestamp: time.Now(),
			DeviceID:  r.device,
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerWire,
				Message: err.Error(),
				Context: "classify inbound frame",
			},
		})
		return
	}

	txID := in.TransactionID()
	r.logInbound(txID, in)

	r.mu.Lock()
	tok, ok := r.inflight[txID]
	r.mu.Unlock()
	if !ok {
		return
	}

	if in.Ack != nil {
		tok.HandleAck(in.Ack)
	} else {
		tok.HandleEvent(in.Event)
	}

	if tok.Done() {
		r.mu.Lock()
		delete(r.inflight, txID)
		r.mu.Unlock()
	}
}

// onDisconnect rejects every in-flight token and clears session state.
func (r *Requester) onDisconnect(ev transport.DisconnectedEvent) {
	reason := ev.Reason
	if reason == "" {
		reason = wire.DisconnectCode(ev.Code).Reason()
	}
	cause := DisconnectedError{Code: ev.Code, Reason: reason}

	r.mu.Lock()
	pending := make([]token.Token, 0, len(r.inflight))
	for _, tok := range r.inflight {
		pending = append(pending, tok)
	}
	r.inflight = make(map[string]token.Token)
	r.sessionID = ""
	r.version = ""
	r.mu.Unlock()

	for _, tok := range pending {
		err := cause
		tok.Reject(&err)
	}

	r.Disconnected.Emit(cause)
}

// header builds the envelope header for one transaction.
func (r *Requester) header(txID string) wire.ClientHeader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return wire.ClientHeader{
		TransactionID: txID,
		SessionID:     r.sessionID,
		Version:       r.version,
		Credentials:   r.creds,
		AppID:         r.appID,
	}
}

func (r *Requester) logOutbound(txID string, cmd any) {
	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		DeviceID:  r.device,
		Direction: log.DirectionOut,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Kind:          log.MessageCommand,
			TransactionID: txID,
			CommandType:   string(wire.CommandTypeOf(cmd)),
		},
	})
}

func (r *Requester) logInbound(txID string, in *wire.Inbound) {
	msg := &log.MessageEvent{TransactionID: txID}
	if in.Ack != nil {
		msg.Kind = log.MessageAck
		code := int(in.Ack.Response.ResponseCode)
		msg.ResponseCode = &code
	} else {
		msg.Kind = log.MessageEventMsg
		msg.EventName = string(in.Event.EventBody.Event)
	}
	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		DeviceID:  r.device,
		Direction: log.DirectionIn,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Message:   msg,
	})
}

// Compile-time interface satisfaction check.
var _ token.CancelSender = (*Requester)(nil)
