package messana

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

	"messana_bridge/internal/logger"
)

const (
	// DefaultTimeout bounds each individual request.
	DefaultTimeout = 10 * time.Second

	apiKeyParam  = "apikey"
	redactedKey  = "REDACTED"
	maxBodyBytes = 1 << 20
)

// Config holds the connection settings of one controller.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks to the REST API of a single Messana controller.
// It keeps no state beyond its connection settings and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("messana base_url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("messana base_url: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("messana api_key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// BaseURL returns the normalized controller address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string) (fields, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) put(ctx context.Context, path string, body any) (fields, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// do performs one request and normalizes the response into a JSON object.
// A bare JSON value is wrapped as {"value": v}; an empty body yields an empty object.
func (c *Client) do(ctx context.Context, method, path string, body any) (fields, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, apiError(method, path, 0, fmt.Errorf("build url: %w", err))
	}
	query := endpoint.Query()
	query.Set(apiKeyParam, c.apiKey)
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apiError(method, path, 0, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, apiError(method, path, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debugw("messana request", "method", method, "url", c.redact(endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apiError(method, path, 0, c.scrub(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &Error{Kind: KindAuth, Method: method, Path: path, Status: resp.StatusCode, Err: errors.New("check api key")}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apiError(method, path, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(payload))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apiError(method, path, resp.StatusCode, errors.New(msg))
	}

	out, err := decodeFields(payload)
	if err != nil {
		return nil, apiError(method, path, resp.StatusCode, fmt.Errorf("decode: %w", err))
	}
	return out, nil
}

func (c *Client) redact(u *url.URL) string {
	cp := *u
	q := cp.Query()
	if q.Has(apiKeyParam) {
		q.Set(apiKeyParam, redactedKey)
	}
	cp.RawQuery = q.Encode()
	return cp.String()
}

// scrub strips the api key from transport errors, which embed the request URL.
func (c *Client) scrub(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			ue.URL = c.redact(u)
		}
	}
	return err
}

func decodeFields(payload []byte) (fields, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return fields{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if obj, ok := raw.(map[string]any); ok {
		return fields(obj), nil
	}
	return fields{"value": raw}, nil
}
