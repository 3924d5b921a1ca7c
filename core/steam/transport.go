package steam

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// retryableStatus lists the server responses retried at the transport layer.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// maxRetryAfter caps server-provided Retry-After hints.
const maxRetryAfter = 2 * time.Minute

// maxRetryWait is the longest pause before a transport retry. Backoff jitter
// can exceed its MaxInterval by the randomization factor.
const maxRetryWait = maxRetryAfter + maxRetryAfter/2

// retryTransport retries connection faults and overloaded-server responses with
// exponential backoff and jitter. It sits below the call-level retry loop in Client.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
	now        func() time.Time
}

// newPooledTransport builds the shared connection pool. MaxConnsPerHost makes
// callers wait for a free connection instead of failing once the pool is exhausted.
func newPooledTransport(cfg Config) *http.Transport {
	size := cfg.poolSize()
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.timeout(),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          size,
		MaxIdleConnsPerHost:   size,
		MaxConnsPerHost:       size,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.timeout(),
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: cfg.timeout(),
	}
}

func newRetryTransport(base http.RoundTripper, cfg Config, logger *zap.Logger) *retryTransport {
	initial := time.Duration(cfg.BackoffBaseMillis) * time.Millisecond
	if initial <= 0 {
		initial = 2 * time.Second
	}
	return &retryTransport{
		base:       base,
		maxRetries: cfg.TransportRetries,
		logger:     logger,
		now:        time.Now,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.Multiplier = 2
			b.MaxInterval = maxRetryAfter
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b := t.newBackOff()
	current := req

	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(current)
		if !t.shouldRetry(req, resp, err) || attempt >= t.maxRetries {
			return resp, err
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return resp, err
		}

		fields := []zap.Field{
			zap.String("url", req.URL.Redacted()),
			zap.Int("attempt", attempt+1),
		}
		if resp != nil {
			if hint, ok := parseRetryAfter(resp.Header.Get("Retry-After"), t.now()); ok {
				wait = hint
			}
			fields = append(fields, zap.Int("status", resp.StatusCode))
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			resp.Body.Close()
		} else {
			fields = append(fields, zap.Error(err))
		}
		t.logger.Debug("Retrying request", append(fields, zap.Duration("wait", wait))...)

		timer := time.NewTimer(wait)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}

		if current, err = rewind(req); err != nil {
			return nil, err
		}
	}
}

func (t *retryTransport) shouldRetry(req *http.Request, resp *http.Response, err error) bool {
	if !replayable(req) {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return retryableStatus[resp.StatusCode]
}

// replayable reports whether the request body can be sent again.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// rewind returns a copy of req with a fresh body; RoundTrippers must not mutate the original.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	var wait time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		wait = at.Sub(now)
		if wait < 0 {
			wait = 0
		}
	} else {
		return 0, false
	}
	if wait > maxRetryAfter {
		wait = maxRetryAfter
	}
	return wait, true
}
