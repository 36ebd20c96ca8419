package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/slok/wsc/internal/api"
	"github.com/slok/wsc/internal/conventions"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/monitor"
	"github.com/slok/wsc/internal/storage/sqlite"
)

// Push transports of the task status.
const (
	PushTransportSSE       = api.PushTransportSSE
	PushTransportWebSocket = api.PushTransportWebSocket
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} talks to the local development
// backend and journals tasks in ~/.wsc/wsc.db.
type Config struct {
	// APIURL is the worksheet service API base URL.
	// Default: http://localhost:8000/api/math-generation.
	APIURL string

	// PushTransport is the task status push channel, [PushTransportSSE] or
	// [PushTransportWebSocket]. Default: [PushTransportSSE].
	PushTransport string

	// PollInterval is the polling interval used when push is not available.
	// Default: 2s.
	PollInterval time.Duration

	// RequestTimeout bounds every non streaming API request. Default: 30s.
	RequestTimeout time.Duration

	// DBPath is the SQLite task journal path. Default: ~/.wsc/wsc.db.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(home)
	}

	if c.PollInterval <= 0 {
		c.PollInterval = monitor.DefaultPollInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point.
//
// Create a Client with [New] and release its resources with [Client.Close].
type Client struct {
	api          *api.Client
	repo         *sqlite.Repository
	logger       log.Logger
	pollInterval time.Duration
}

// New creates a new SDK client backed by a SQLite task journal.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	apiClient, err := api.NewClient(api.ClientConfig{
		BaseURL:        cfg.APIURL,
		PushTransport:  cfg.PushTransport,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create api client: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	return &Client{
		api:          apiClient,
		repo:         repo,
		logger:       cfg.Logger,
		pollInterval: cfg.PollInterval,
	}, nil
}

// Close releases the task journal. After Close returns, the client must not be used.
func (c *Client) Close() error {
	return c.repo.Close()
}
