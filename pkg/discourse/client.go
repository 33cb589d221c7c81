// Package discourse provides a client for creating groups through the
// Discourse admin API.
package discourse

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/childcare-sync/internal/model"
	"github.com/sells-group/childcare-sync/internal/resilience"
)

// Header names used for API key authentication.
const (
	HeaderAPIKey      = "Api-Key"
	HeaderAPIUsername = "Api-Username"
)

const defaultTimeout = 30 * time.Second

// Client defines the group registration operations.
type Client interface {
	// CreateGroup submits one group creation request. It never panics and
	// never returns a bare error; the outcome is described by the Result.
	CreateGroup(ctx context.Context, payload model.SubmissionPayload) Result
}

// Kind is the outcome of one CreateGroup call.
type Kind string

// Outcomes.
const (
	KindCreated         Kind = "created"
	KindRejected        Kind = "rejected"
	KindTransportFailed Kind = "transport_failed"
	KindInvalidRequest  Kind = "invalid_request"
)

// Result describes the outcome of one group creation request.
type Result struct {
	Kind       Kind
	StatusCode int
	GroupID    int64

	// Errors holds the messages from a Discourse error body, if any.
	Errors []string
	Err    error
	Class  resilience.Class
}

// OK reports whether the group was created.
func (r Result) OK() bool {
	return r.Kind == KindCreated
}

// Error returns a one-line description of a failed result, or "" on success.
func (r Result) Error() string {
	if r.OK() {
		return ""
	}
	if len(r.Errors) > 0 {
		return strings.Join(r.Errors, "; ")
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return string(r.Kind)
}

type createGroupResponse struct {
	BasicGroup struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"basic_group"`
}

type errorResponse struct {
	Errors    []string `json:"errors"`
	ErrorType string   `json:"error_type"`
}

// Option configures the client.
type Option func(*restyClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *restyClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *restyClient) {
		c.timeout = d
	}
}

type restyClient struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	client   *resty.Client
}

// NewClient creates a client posting to endpoint (for example
// https://forum.example.org/admin/groups.json), authenticated with apiKey
// on behalf of apiUsername.
func NewClient(endpoint, apiKey, apiUsername string, opts ...Option) Client {
	c := &restyClient{
		endpoint: endpoint,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	var rc *resty.Client
	if c.http != nil {
		rc = resty.NewWithClient(c.http)
	} else {
		rc = resty.New()
	}
	rc.SetTimeout(c.timeout).
		SetHeader(HeaderAPIKey, apiKey).
		SetHeader(HeaderAPIUsername, apiUsername).
		SetHeader("Accept", "application/json").
		SetLogger(zap.S().Named("discourse"))
	c.client = rc

	return c
}

func (c *restyClient) CreateGroup(ctx context.Context, payload model.SubmissionPayload) Result {
	if strings.TrimSpace(payload.Name) == "" {
		return Result{
			Kind:  KindInvalidRequest,
			Err:   eris.New("discourse: group name is required"),
			Class: resilience.ClassPermanent,
		}
	}

	var created createGroupResponse
	var failed errorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetMultipartFormData(payload.FormData()).
		SetResult(&created).
		SetError(&failed).
		Post(c.endpoint)
	if err != nil {
		return Result{
			Kind:  KindTransportFailed,
			Err:   eris.Wrap(err, "discourse: create group request"),
			Class: resilience.Classify(err),
		}
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		err := resilience.NewStatusError(
			eris.Errorf("discourse: create group: unexpected status %d", status),
			status,
		)
		return Result{
			Kind:       KindRejected,
			StatusCode: status,
			Errors:     failed.Errors,
			Err:        err,
			Class:      resilience.Classify(err),
		}
	}

	return Result{
		Kind:       KindCreated,
		StatusCode: status,
		GroupID:    created.BasicGroup.ID,
	}
}
