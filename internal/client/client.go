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
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/yukikurage/task-review-api/internal/constants"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"go.uber.org/zap"
)

// Session supplies the bearer token for authenticated calls and is told when the
// server rejects it.
type Session interface {
	Token() string
	Invalidate()
}

// Options configures a Client. Zero values get defaults.
type Options struct {
	HTTPClient     *http.Client
	Logger         *zap.Logger
	BreakerTimeout time.Duration
	MaxFailures    uint32
}

// Client is a typed HTTP client for the task review API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	session    Session
	logger     *zap.Logger
}

var errServerFailure = errors.New("server error")

// New creates a Client without a session. Only SignUp and SignIn work until
// WithSession attaches one.
func New(baseURL string, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 5 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 3
	}

	logger := opts.Logger
	maxFailures := opts.MaxFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "task-review-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		breaker:    breaker,
		logger:     logger,
	}
}

// WithSession returns a copy of c that authenticates with s. The copy shares
// c's transport and circuit breaker.
func (c *Client) WithSession(s Session) *Client {
	clone := *c
	clone.session = s
	return &clone
}

// staticToken is a Session over a fixed token that ignores invalidation
type staticToken string

func (t staticToken) Token() string { return string(t) }
func (t staticToken) Invalidate() {}

type response struct {
	status int
	body   []byte
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	public bool
}

// do performs req and decodes a 2xx body into out. Authenticated calls without a
// token fail before any I/O; a 401 on an authenticated call invalidates the session.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var token string
	if !req.public {
		if c.session != nil {
			token = c.session.Token()
		}
		if token == "" {
			return apierrors.ErrUnauthorized
		}
	}

	var payload []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = data
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		httpReq.Header.Set("Accept", "application/json")
		if token != "" {
			httpReq.Header.Set(constants.AuthorizationHeader, constants.BearerPrefix+token)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		res := &response{status: resp.StatusCode, body: body}
		if resp.StatusCode >= http.StatusInternalServerError {
			return res, errServerFailure
		}
		return res, nil
	})

	res, _ := result.(*response)
	if res == nil {
		c.logger.Warn("api request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", apierrors.ErrServiceUnavailable, err)
	}

	if res.status < 200 || res.status >= 300 {
		apiErr := decodeError(res)
		if res.status == http.StatusUnauthorized && !req.public {
			c.logger.Info("session rejected by server", zap.String("path", req.path))
			c.session.Invalidate()
		}
		return apiErr
	}

	if out == nil || len(res.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(res *response) *apierrors.APIError {
	var body apierrors.APIError
	if err := json.Unmarshal(res.body, &body); err != nil {
		return apierrors.FromResponse(res.status, nil)
	}
	return apierrors.FromResponse(res.status, &body)
}

// ListOptions selects a page and an optional task status filter
type ListOptions struct {
	Page     int
	PageSize int
	Status   string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	return v
}

func idPath(format string, ids ...uint64) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
