package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/wsc/internal/api"
	"github.com/slok/wsc/internal/app/watch"
	"github.com/slok/wsc/internal/conventions"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/monitor"
	"github.com/slok/wsc/internal/printer"
	"github.com/slok/wsc/internal/storage"
	storageio "github.com/slok/wsc/internal/storage/io"
	"github.com/slok/wsc/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug          bool
	NoLog          bool
	NoColor        bool
	LoggerType     string
	DBPath         string
	APIURL         string
	PushTransport  string
	PollInterval   time.Duration
	RequestTimeout time.Duration

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	app.Flag("db-path", "Path to the SQLite task journal.").Envar("WSC_DB_PATH").Default(conventions.DBPath(homedir.HomeDir())).StringVar(&c.DBPath)
	app.Flag("api-url", "Worksheet service API base URL.").Envar("WSC_API_URL").Default(api.DefaultBaseURL).StringVar(&c.APIURL)
	app.Flag("push", "Task status push transport.").Default(api.PushTransportSSE).EnumVar(&c.PushTransport, api.PushTransportSSE, api.PushTransportWebSocket)
	app.Flag("poll-interval", "Task status polling interval used when push is not available.").Default(monitor.DefaultPollInterval.String()).DurationVar(&c.PollInterval)
	app.Flag("request-timeout", "Timeout of the API requests (streams are not bounded).").Default("30s").DurationVar(&c.RequestTimeout)

	return c
}

func newAPIClient(rootCmd *RootCommand) (*api.Client, error) {
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:        rootCmd.APIURL,
		PushTransport:  rootCmd.PushTransport,
		RequestTimeout: rootCmd.RequestTimeout,
		Logger:         rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create api client: %w", err)
	}
	return client, nil
}

func newRepository(ctx context.Context, rootCmd *RootCommand) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

func newMonitor(rootCmd *RootCommand, client monitor.TaskClient) (*monitor.Monitor, error) {
	m, err := monitor.NewMonitor(monitor.MonitorConfig{
		Client:       client,
		PollInterval: rootCmd.PollInterval,
		Logger:       rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create task monitor: %w", err)
	}
	return m, nil
}

func newPrinter(w io.Writer, format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(w)
	default: // table
		return printer.NewTablePrinter(w)
	}
}

// newRequestFileRepository returns the YAML request loader and the path to use with it.
func newRequestFileRepository(path string) (*storageio.RequestYAMLRepository, string, error) {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, "", fmt.Errorf("could not resolve %q path: %w", path, err)
		}
		path = absPath
	}

	return storageio.NewRequestYAMLRepository(os.DirFS("/")), path[1:], nil
}

// watchTask monitors a task until it finishes, printing every update.
func watchTask(ctx context.Context, rootCmd *RootCommand, client *api.Client, repo storage.TaskRepository, taskID string, kind model.TaskKind, p printer.Printer) (*model.Task, error) {
	m, err := newMonitor(rootCmd, client)
	if err != nil {
		return nil, err
	}

	svc, err := watch.NewService(watch.ServiceConfig{
		Monitor:    m,
		Repository: repo,
		Logger:     rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	task, err := svc.Run(ctx, watch.Request{
		TaskID: taskID,
		Kind:   kind,
		OnUpdate: func(t model.Task) {
			if err := p.PrintUpdate(t); err != nil {
				rootCmd.Logger.Warningf("could not print task update: %s", err)
			}
		},
	})
	if err != nil {
		return task, fmt.Errorf("could not watch task %s: %w", taskID, err)
	}

	return task, nil
}
