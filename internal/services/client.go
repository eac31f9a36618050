package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted myFlix API.
const DefaultBaseURL = "https://myflix-12345.herokuapp.com"

// RequestIDHeader carries a per-request uuid for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

var _ Service = (*Client)(nil)

// Client calls the myFlix REST API on behalf of a [session.Session].
type Client struct {
	baseURL string
	session *session.Session
	public  *http.Client
	authed  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	Session    *session.Session
	HTTPClient *http.Client  // base client; its Transport is wrapped for authenticated calls
	Timeout    time.Duration // overrides HTTPClient.Timeout when positive
	RateLimit  float64       // requests per second, zero disables throttling
	Logger     *log.Logger
}

// NewClient creates a new API client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Session == nil {
		opts.Session = session.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	public := &http.Client{Transport: base.Transport, Timeout: base.Timeout}
	if opts.Timeout > 0 {
		public.Timeout = opts.Timeout
	}

	authed := &http.Client{
		Transport: &oauth2.Transport{Source: opts.Session.TokenSource(), Base: base.Transport},
		Timeout:   public.Timeout,
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		session: opts.Session,
		public:  public,
		authed:  authed,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// SetLogger replaces the client's logger. Call it before issuing requests.
func (c *Client) SetLogger(l *log.Logger) {
	c.logger = l
}

// send performs a request and returns status, headers and body. Only transport failures are errors here.
func (c *Client) send(ctx context.Context, method, path string, auth bool, body []byte) (*http.Response, []byte, error) {
	if auth && !c.session.Authenticated() {
		return nil, nil, fmt.Errorf("%w: log in first", shared.ErrNotAuthenticated)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, newNetworkError(method, path, err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.public
	if auth {
		httpClient = c.authed
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return nil, nil, fmt.Errorf("%w: log in first", shared.ErrNotAuthenticated)
		}
		c.logger.Error("Some error occurred", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, nil, newNetworkError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, newNetworkError(method, path, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	return resp, data, nil
}

// do performs a JSON request and decodes a 2xx body into out. Empty bodies leave out untouched.
func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
	}

	resp, data, err := c.send(ctx, method, path, auth, body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Error Status code", "status", resp.StatusCode, "method", method, "path", path, "body", string(data))
		return newStatusError(method, path, resp.StatusCode, data)
	}

	return decodeBody(data, out)
}

// decodeBody decodes data into out. A [models.MessageResponse] target also accepts plain text.
func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		if msg, ok := out.(interface{ SetText(string) }); ok {
			msg.SetText(strings.TrimSpace(string(data)))
			return nil
		}
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}
