package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rom-protocol/rom-go/pkg/cert"
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/log"
)

// Polling defaults: 40 attempts, one every 5 seconds, roughly a 200s
// ceiling before giving up.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 40
)

// Credential is the immutable input of the flow, supplied once.
type Credential struct {
	ClientID     string
	ClientSecret string
	DeviceSerial string
	Endpoint     string
	Email        string
	Password     string
}

// StatusMessage is a human-readable progress notification.
type StatusMessage struct {
	Message   string
	Subsystem string

	// ClearMessages tells display surfaces to replace the previous
	// notification instead of appending. Set on repeated poll attempts.
	ClearMessages bool
}

// Config tunes the flow. The zero value uses production defaults.
type Config struct {
	// HTTPClient overrides the client used for all requests.
	HTTPClient *http.Client

	// PollInterval is the delay between retrieval attempts.
	PollInterval time.Duration

	// MaxAttempts bounds retrieval polling.
	MaxAttempts int

	// Logger records flow progress. Nil disables logging.
	Logger log.Logger
}

// Flow turns a Credential into certificate material by driving the
// account service's issuance and retrieval endpoints.
type Flow struct {
	client   *http.Client
	interval time.Duration
	attempts int
	logger   log.Logger

	// Status fires a progress notification at each phase.
	Status *events.Event[StatusMessage]
}

// NewFlow creates a provisioning flow.
func NewFlow(cfg Config) *Flow {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	interval := cfg.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}
	return &Flow{
		client:   client,
		interval: interval,
		attempts: attempts,
		logger:   log.OrNoop(cfg.Logger),
		Status:   events.New[StatusMessage](),
	}
}

// tokenResponse is the password-grant login response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// certificateResponse is the retrieval endpoint's 200 payload.
type certificateResponse struct {
	Data struct {
		Payload struct {
			IPAddress string `json:"ipAddress"`
		} `json:"payload"`
		Private     string `json:"private"`
		Cert        string `json:"cert"`
		Fingerprint string `json:"fingerprint"`
	} `json:"data"`
}

// Run executes the full flow: login, best-effort device listing,
// certificate issuance, and bounded retrieval polling. It returns the
// material needed to open a mutually-authenticated socket.
func (f *Flow) Run(ctx context.Context, cred Credential) (*cert.Material, error) {
	token, err := f.login(ctx, cred)
	if err != nil {
		return nil, err
	}
	f.status("login: success")

	// Existence check only. Failure is logged, never fatal.
	if err := f.listDevices(ctx, cred, token); err != nil {
		f.status(fmt.Sprintf("device listing failed: %v", err))
	} else {
		f.status("device listing: success")
	}

	if err := f.createCertificate(ctx, cred, token); err != nil {
		return nil, err
	}
	f.status("certificate creation: success")

	return f.pollCertificate(ctx, cred, token)
}

// login performs the password-grant exchange and returns the bearer
// authorization header value.
func (f *Flow) login(ctx context.Context, cred Credential) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"grant_type":    "password",
		"client_id":     cred.ClientID,
		"client_secret": cred.ClientSecret,
		"username":      cred.Email,
		"password":      cred.Password,
	})

	resp, err := f.post(ctx, f.endpointURL(cred, "/token"), "", body)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{Status: resp.StatusCode}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	return tok.TokenType + " " + tok.AccessToken, nil
}

// listDevices fetches the account's device list. The result is not
// inspected; the call exists to surface obvious account problems early.
func (f *Flow) listDevices(ctx context.Context, cred Credential, auth string) error {
	resp, err := f.get(ctx, f.endpointURL(cred, "/rom/v1/robots"), auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// createCertificate requests issuance for the device's friendly id.
func (f *Flow) createCertificate(ctx context.Context, cred Credential, auth string) error {
	body, _ := json.Marshal(map[string]string{"friendlyId": cred.DeviceSerial})

	resp, err := f.post(ctx, f.endpointURL(cred, "/rom/v1/certificates"), auth, body)
	if err != nil {
		return &ProvisioningError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProvisioningError{Status: resp.StatusCode}
	}
	return nil
}

// pollCertificate polls the retrieval endpoint until the certificate is
// signed and available. 200 yields material; any other status aborts
// immediately; exhausting the attempt budget times out.
func (f *Flow) pollCertificate(ctx context.Context, cred Credential, auth string) (*cert.Material, error) {
	target := f.endpointURL(cred, "/rom/v1/certificates/client") +
		"?friendlyId=" + url.QueryEscape(cred.DeviceSerial)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= f.attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		f.statusReplace(fmt.Sprintf("certificate retrieval: attempt %d", attempt))

		resp, err := f.get(ctx, target, auth)
		if err != nil {
			return nil, &CertificateRetrievalError{Err: err}
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &CertificateRetrievalError{Status: resp.StatusCode}
		}

		var cr certificateResponse
		err = json.NewDecoder(resp.Body).Decode(&cr)
		resp.Body.Close()
		if err != nil {
			return nil, &CertificateRetrievalError{Err: fmt.Errorf("decode certificate response: %w", err)}
		}

		// The service answers 200 with an empty payload while the
		// certificate is still being signed.
		if cr.Data.Cert == "" || cr.Data.Private == "" {
			continue
		}

		material, err := cert.Parse(
			cr.Data.Payload.IPAddress,
			cr.Data.Private,
			cr.Data.Cert,
			cr.Data.Fingerprint,
		)
		if err != nil {
			return nil, &CertificateRetrievalError{Err: err}
		}

		f.status("certificate retrieval: success")
		return material, nil
	}

	f.status(fmt.Sprintf("certificate retrieval: gave up after %d attempts", f.attempts))
	return nil, &CertificateTimeoutError{Attempts: f.attempts}
}

// endpointURL joins the credential's endpoint host with a path,
// defaulting the scheme to https.
func (f *Flow) endpointURL(cred Credential, path string) string {
	endpoint := cred.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimRight(endpoint, "/") + path
}

func (f *Flow) get(ctx context.Context, target, auth string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return f.client.Do(req)
}

func (f *Flow) post(ctx context.Context, target, auth string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return f.client.Do(req)
}

// status emits a progress notification and mirrors it into the protocol
// log.
func (f *Flow) status(message string) {
	f.emitStatus(message, false)
}

// statusReplace emits a notification that supersedes the previous one.
func (f *Flow) statusReplace(message string) {
	f.emitStatus(message, true)
}

func (f *Flow) emitStatus(message string, clear bool) {
	f.Status.Emit(StatusMessage{Message: message, Subsystem: "provisioning", ClearMessages: clear})
	f.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Layer:     log.LayerService,
		Category:  log.CategoryStatus,
		Status:    &log.StatusEvent{Message: message, Subsystem: "provisioning"},
	})
}
