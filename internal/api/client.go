package api

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

	"github.com/google/uuid"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/taskwire"
)

const (
	// DefaultBaseURL is the default worksheet service API base URL.
	DefaultBaseURL = "http://localhost:8000/api/math-generation"

	// PushTransportSSE streams task status with server-sent events.
	PushTransportSSE = "sse"
	// PushTransportWebSocket streams task status over a websocket.
	PushTransportWebSocket = "websocket"

	defaultRequestTimeout = 30 * time.Second
	requestIDHeader       = "X-Request-ID"
)

// Stream is an open push channel of task status payloads.
type Stream interface {
	// Recv blocks until the next payload arrives. Any error is a transport failure.
	Recv() ([]byte, error)
	Close() error
}

// ClientConfig is the configuration for the worksheet service API client.
type ClientConfig struct {
	// BaseURL is the API base URL, e.g. http://localhost:8000/api/math-generation.
	BaseURL string
	// PushTransport selects the task status push channel (sse or websocket).
	PushTransport string
	// HTTPClient is used for every request, it must not have a global timeout
	// because streams are long lived.
	HTTPClient *http.Client
	// RequestTimeout bounds the non streaming requests.
	RequestTimeout time.Duration
	Logger         log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	switch c.PushTransport {
	case "":
		c.PushTransport = PushTransportSSE
	case PushTransportSSE, PushTransportWebSocket:
	default:
		return fmt.Errorf("unknown push transport %q", c.PushTransport)
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "api.Client"})
	return nil
}

// Client is the worksheet service HTTP API client.
type Client struct {
	baseURL        string
	pushTransport  string
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         log.Logger
}

// NewClient creates a new API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		pushTransport:  cfg.PushTransport,
		httpClient:     cfg.HTTPClient,
		requestTimeout: cfg.RequestTimeout,
		logger:         cfg.Logger,
	}, nil
}

// CheckTask gets the current status of a task (pull).
func (c *Client) CheckTask(ctx context.Context, taskID string) (*model.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	data, err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("checking task %s: %w", taskID, err)
	}

	t, err := taskwire.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("checking task %s: %w", taskID, err)
	}
	if t.ID == "" {
		t.ID = taskID
	}

	return t, nil
}

// OpenStream opens the push channel of a task status using the configured transport.
// The stream is bound to ctx, cancelling it tears down the channel.
func (c *Client) OpenStream(ctx context.Context, taskID string) (Stream, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	switch c.pushTransport {
	case PushTransportWebSocket:
		return c.openWebSocketStream(ctx, taskID)
	default:
		return c.openSSEStream(ctx, taskID)
	}
}

type submissionJSON struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

// Generate submits a worksheet generation job.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (*model.Submission, error) {
	return c.submit(ctx, "/generate", req)
}

// Grade submits a grading job for typed answers (problem ID to answer).
func (c *Client) Grade(ctx context.Context, worksheetID string, answers map[string]string) (*model.Submission, error) {
	if worksheetID == "" {
		return nil, fmt.Errorf("worksheet id is required: %w", model.ErrNotValid)
	}
	return c.submit(ctx, "/worksheets/"+url.PathEscape(worksheetID)+"/grade", answers)
}

// GradeCanvas submits a grading job with handwritten answers.
func (c *Client) GradeCanvas(ctx context.Context, worksheetID string, req model.CanvasGradeRequest) (*model.Submission, error) {
	if worksheetID == "" {
		return nil, fmt.Errorf("worksheet id is required: %w", model.ErrNotValid)
	}
	return c.submit(ctx, "/worksheets/"+url.PathEscape(worksheetID)+"/grade-canvas", req)
}

func (c *Client) submit(ctx context.Context, path string, body any) (*model.Submission, error) {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("submitting %s: %w", path, err)
	}

	var s submissionJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding submission response: %w", err)
	}
	if s.TaskID == "" {
		return nil, fmt.Errorf("submission response without task id")
	}

	c.logger.Debugf("Submitted %s: task %s", path, s.TaskID)
	return &model.Submission{TaskID: s.TaskID, Message: s.Message}, nil
}

type errorJSON struct {
	Detail any `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, data)
	}

	return data, nil
}

func responseError(code int, body []byte) error {
	msg := http.StatusText(code)
	var e errorJSON
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != nil {
		if s, ok := e.Detail.(string); ok {
			msg = s
		} else if d, err := json.Marshal(e.Detail); err == nil {
			msg = string(d)
		}
	}

	if code == http.StatusNotFound {
		return fmt.Errorf("HTTP %d: %s: %w", code, msg, model.ErrNotFound)
	}

	return fmt.Errorf("HTTP %d: %s", code, msg)
}
