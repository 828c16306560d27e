package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/marketsupervisor/internal/common"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// TokenStore is where the bearer credential lives between runs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// HTTPClient talks to the REST backend. It implements every resource client
// interface of this package.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	timeout    time.Duration
	policy     FieldPolicy
	logger     logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request deadline; zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithFieldPolicy(p FieldPolicy) Option {
	return func(c *HTTPClient) { c.policy = p }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		timeout:    DefaultTimeout,
		policy:     DefaultFieldPolicy(),
		logger:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AuthHeaders returns the default headers plus the bearer credential when a
// token is stored. A missing token is not an error.
func (c *HTTPClient) AuthHeaders(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	h.Set("Content-Type", common.ContentTypeJSON)
	if c.tokens == nil {
		return h, nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		h.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	return h, nil
}

// call describes one API request.
type call struct {
	op       string // fallback error message and log label
	method   string
	path     string // endpoint template
	params   map[string]any
	query    url.Values
	payload  any
	resource string // FieldPolicy key applied to the response
	noAuth   bool
}

// send performs the request and returns the raw 2xx body.
func (c *HTTPClient) send(ctx context.Context, cl call) ([]byte, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if cl.payload != nil {
		data, err := json.Marshal(cl.payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + BuildURL(cl.path, cl.params)
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, cl.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cl.op, err)
	}

	if cl.noAuth {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	} else {
		h, err := c.AuthHeaders(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cl.op, err)
		}
		req.Header = h
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapError(ctx, reqCtx, cl.op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "api call", "op", cl.op, "method", cl.method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(cl.op, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapError(ctx, reqCtx, cl.op, err)
	}
	return data, nil
}

// do performs the request and decodes a JSON response into out (nil to
// discard it), applying the field policy of cl.resource first.
func (c *HTTPClient) do(ctx context.Context, cl call, out any) error {
	data, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	data, err = c.policy.Shape(cl.resource, data)
	if err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

// mapError classifies a transport-level failure. Cancellation by the
// caller wins over the client's own timeout.
func (c *HTTPClient) mapError(ctx, reqCtx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %s: %w", op, ErrTimeout, c.timeout, context.DeadlineExceeded)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func decodeAPIError(op string, resp *http.Response) error {
	e := &APIError{Op: op, Status: resp.StatusCode, Message: op}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return e
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Message) != "" {
		e.Message = body.Message
	}
	return e
}
