package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// FiltersBasic requests only the basic record fields.
	FiltersBasic = "basic"
	// FiltersBasicDLC additionally requests the declared DLC id list.
	FiltersBasicDLC = "basic,dlc"

	// maxResponseBytes bounds a single appdetails response body.
	maxResponseBytes = 8 << 20
)

var (
	// ErrUnresolved is returned when an app record could not be resolved after all attempts.
	ErrUnresolved = errors.New("app not resolved")
	// ErrNoDLCList is returned when a game record carries no DLC list.
	ErrNoDLCList = errors.New("no dlc list")
	// errNotSuccessful marks an envelope whose success flag is false or missing.
	errNotSuccessful = errors.New("store reported failure")
)

type (
	// AppData is the subset of an appdetails record used by the updater.
	AppData struct {
		Name string `json:"name"`
		Type string `json:"type"`
		DLC  []int  `json:"dlc"`
	}

	// StatusError is returned for a non-200 response that survived transport retries.
	StatusError struct {
		StatusCode int
	}

	// appEnvelope is the wire format of one entry of the appdetails response, keyed by app id.
	appEnvelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}

	// Client queries the store appdetails endpoint. A single Client owns the shared
	// connection pool; create it at startup and Close it at exit.
	Client struct {
		cfg        Config
		httpClient *http.Client
		logger     *zap.Logger
		inflight   singleflight.Group
		sleep      func(ctx context.Context, d time.Duration) error
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// WithHTTPClient replaces the pooled, retrying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with a bounded connection pool and transport-level retries.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}
	c.httpClient = &http.Client{
		Timeout:   cfg.requestTimeout(),
		Transport: newRetryTransport(newPooledTransport(cfg), cfg, logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Resolve returns the display name of a single app id. Failed attempts are retried
// with a fixed delay; after the last attempt the error wraps ErrUnresolved.
// Concurrent calls for the same id share one resolution.
func (c *Client) Resolve(ctx context.Context, id string) (string, error) {
	v, err, _ := c.inflight.Do(id, func() (any, error) {
		return c.resolve(ctx, id)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) resolve(ctx context.Context, id string) (string, error) {
	attempts := c.cfg.attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := c.AppDetails(ctx, id, FiltersBasic)
		if err == nil {
			if data.Name == "" {
				return "Unknown DLC " + id, nil
			}
			return data.Name, nil
		}
		lastErr = err

		c.logger.Debug("App resolution attempt failed",
			zap.String("app_id", id),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < attempts {
			if err := c.sleep(ctx, c.cfg.retryDelay()); err != nil {
				lastErr = err
				break
			}
		}
	}

	return "", fmt.Errorf("%w: app %s: %w", ErrUnresolved, id, lastErr)
}

// DLCList returns the DLC ids declared by a game's own record.
func (c *Client) DLCList(ctx context.Context, appID int) ([]string, error) {
	id := strconv.Itoa(appID)
	data, err := c.AppDetails(ctx, id, FiltersBasicDLC)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app %s: %w", id, err)
	}
	if len(data.DLC) == 0 {
		return nil, fmt.Errorf("%w: app %s", ErrNoDLCList, id)
	}

	ids := make([]string, 0, len(data.DLC))
	for _, dlc := range data.DLC {
		ids = append(ids, strconv.Itoa(dlc))
	}
	return ids, nil
}

// AppDetails performs a single appdetails query. Transport-level retries still apply.
func (c *Client) AppDetails(ctx context.Context, id, filters string) (*AppData, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("appids", id)
	q.Set("filters", filters)
	q.Set("cc", c.cfg.CountryCode)
	q.Set("l", c.cfg.Language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var envelope map[string]appEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	entry, ok := envelope[id]
	if !ok {
		return nil, fmt.Errorf("response has no entry for app %s", id)
	}
	if !entry.Success {
		return nil, errNotSuccessful
	}

	// The store sends "data": [] for records without details.
	raw := bytes.TrimSpace(entry.Data)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("response for app %s has no data object", id)
	}

	var data AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode app data: %w", err)
	}
	return &data, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
