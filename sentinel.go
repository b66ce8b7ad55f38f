package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
)

// placeholderToken is installed when the OAuth exchange fails so the process
// can keep serving; requests made with it fail upstream with a 401 that the
// handlers pass through.
const placeholderToken = "default_access_token"

// SentinelClient holds the bearer credential for Sentinel Hub and performs
// outbound process calls. Constructed once and shared by all handlers.
type SentinelClient struct {
	cfg  Config
	http *http.Client

	mu    sync.Mutex
	token string
}

func newSentinelClient(cfg Config) *SentinelClient {
	return &SentinelClient{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.SentinelTimeout},
		token: placeholderToken,
	}
}

// CurrentToken returns the held credential, which is the placeholder until a
// Refresh succeeds.
func (c *SentinelClient) CurrentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Refresh performs the client-credentials exchange against the token
// endpoint. On failure the previous credential is kept (the placeholder on a
// fresh client) and the error is returned for the caller to log.
func (c *SentinelClient) Refresh(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.SentinelClientID},
		"client_secret": {c.cfg.SentinelClientSecret},
	}

	// The token endpoint is only hit at startup or after an auth failure,
	// so transient errors here are worth retrying.
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.HTTPClient.Timeout = c.cfg.SentinelTimeout

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SentinelTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := rc.Do(req)
	if err != nil {
		return fmt.Errorf("token endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint %s: %s", resp.Status, string(data))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	c.mu.Lock()
	c.token = body.AccessToken
	c.mu.Unlock()
	log.Info("obtained Sentinel Hub access token")
	return nil
}

// gatewayResponse is the outcome of one process call. Non-200 responses are
// carried here verbatim so handlers can pass the upstream status and body
// through; only transport failures become errors.
type gatewayResponse struct {
	Status        int
	ContentType   string
	ContentLength int64
	Body          []byte
}

func (g *gatewayResponse) OK() bool { return g.Status == http.StatusOK }

// Process posts a request to the Sentinel Hub process endpoint with the
// bearer credential attached. No retries here: a failed call is reported to
// the caller immediately (re-submitting with another date is the recovery).
func (c *SentinelClient) Process(ctx context.Context, preq *processRequest) (*gatewayResponse, error) {
	body, err := json.Marshal(preq)
	if err != nil {
		return nil, fmt.Errorf("marshal process request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SentinelProcessURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.CurrentToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentinel process call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read process response: %w", err)
	}

	out := &gatewayResponse{
		Status:        resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          data,
	}
	if !out.OK() {
		log.Warnf("sentinel process returned %s: %s", resp.Status, string(data))
	}
	return out, nil
}
