package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Doer is satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	HTTPClient  Doer
	Sleep       Sleeper
	// Limiter gates every attempt, retries included. Nil disables limiting.
	Limiter *rate.Limiter
}

// Request describes a single JSON call
type Request struct {
	Method  string // GET (default) or POST
	URL     string
	Body    any // JSON-encoded for POST; nil sends {}
	Headers map[string]string
	// Timeout and MaxAttempts override the client defaults when positive
	Timeout     time.Duration
	MaxAttempts int
}

// Client performs JSON requests with a per-attempt timeout and a fixed-delay retry loop.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	http        Doer
	sleep       Sleeper
	limiter     *rate.Limiter
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

func NewClient(opts Options) *Client {
	c := &Client{
		http:        opts.HTTPClient,
		sleep:       opts.Sleep,
		limiter:     opts.Limiter,
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.sleep == nil {
		c.sleep = SleepContext
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.retryDelay < 0 {
		c.retryDelay = 0
	} else if opts.RetryDelay == 0 {
		c.retryDelay = DefaultRetryDelay
	}
	return c
}

// Perform runs one attempt and decodes the JSON body into out (which may be nil).
func (c *Client) Perform(ctx context.Context, req Request, out any) error {
	method, err := requestMethod(req)
	if err != nil {
		return err
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if method == http.MethodPost {
		payload := req.Body
		if payload == nil {
			payload = struct{}{}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, req.URL, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, URL: req.URL, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return classify(ctx, attemptCtx, method, req.URL, err)
	}
	defer resp.Body.Close()

	// A late response is still a timeout, whatever the transport did with the deadline
	if timedOut(ctx, attemptCtx) {
		return &Error{Kind: KindTimeout, Method: method, URL: req.URL, Err: attemptCtx.Err()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindHTTPStatus, Method: method, URL: req.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(ctx, attemptCtx, method, req.URL, err)
	}
	if timedOut(ctx, attemptCtx) {
		return &Error{Kind: KindTimeout, Method: method, URL: req.URL, Err: attemptCtx.Err()}
	}

	if out == nil {
		var discard any
		out = &discard
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindMalformedResponse, Method: method, URL: req.URL, Err: err}
	}

	return nil
}

// PerformWithRetry repeats Perform up to MaxAttempts times with a fixed delay
// between attempts. The last attempt's error is returned unchanged.
func (c *Client) PerformWithRetry(ctx context.Context, req Request, out any) error {
	attempts := c.maxAttempts
	if req.MaxAttempts > 0 {
		attempts = req.MaxAttempts
	}

	// Retrying cannot fix a request the client refuses to send
	if _, err := requestMethod(req); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return fmt.Errorf("retry aborted after %d attempt(s): %w", attempt-1, err)
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait canceled: %w", err)
			}
		}

		err := c.Perform(ctx, req, out)
		if err == nil {
			if attempt > 1 {
				log.Printf("Request recovered after %d attempts: %s", attempt, req.URL)
			}
			return nil
		}

		lastErr = err
		log.Printf("Warning: attempt %d/%d failed: %v", attempt, attempts, err)

		if ctx.Err() != nil {
			return err
		}
	}

	return lastErr
}

// SleepContext is the default Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
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

func requestMethod(req Request) (string, error) {
	switch req.Method {
	case "", http.MethodGet:
		return http.MethodGet, nil
	case http.MethodPost:
		return http.MethodPost, nil
	default:
		return "", fmt.Errorf("unsupported method %s", req.Method)
	}
}

// timedOut reports whether the attempt deadline fired while the caller's context is still live
func timedOut(parent, attempt context.Context) bool {
	return parent.Err() == nil && errors.Is(attempt.Err(), context.DeadlineExceeded)
}

func classify(parent, attempt context.Context, method, url string, err error) error {
	if timedOut(parent, attempt) {
		return &Error{Kind: KindTimeout, Method: method, URL: url, Err: err}
	}
	return &Error{Kind: KindNetwork, Method: method, URL: url, Err: err}
}
