package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/akarpov88/petkeeper/internal/client/config"
	"github.com/akarpov88/petkeeper/internal/client/localdb"
	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/client/remote"
	"github.com/akarpov88/petkeeper/internal/client/repositories/cursors"
	"github.com/akarpov88/petkeeper/internal/client/repositories/records"
	"github.com/akarpov88/petkeeper/internal/client/share"
	"github.com/akarpov88/petkeeper/internal/client/syncer"
	"github.com/akarpov88/petkeeper/internal/logging"
)

// SyncService is the part of the sync orchestrator the CLI drives.
type SyncService interface {
	SyncAll(ctx context.Context) (*syncer.Report, error)
}

// ShareService is the part of the share acceptor the CLI drives.
type ShareService interface {
	Accept(ctx context.Context, ref share.Reference) (*share.AcceptResult, error)
	DrainPending(ctx context.Context) (*share.AcceptResult, error)
}

// RecordLister reads the local record store for display.
type RecordLister interface {
	GetAll(ctx context.Context) ([]models.Record, error)
}

type App struct {
	config  *config.Config
	sync    SyncService
	shares  ShareService
	records RecordLister
	db      io.Closer
	reader  *bufio.Reader
	out     io.Writer

	tokenOnce sync.Once
	token     string
	tokenErr  error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	app := &App{
		config: c,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	client := remote.NewHTTPClient(c.ServerEndpointURL, app.bearerToken)
	if c.RequestTimeout > 0 {
		client.SetTimeout(c.RequestTimeout)
	}

	recordRepo := records.NewSQLiteRepository(db)
	cursorRepo := cursors.NewSQLiteRepository(db)

	engine := syncer.NewEngine(db, logger)
	directory := syncer.NewDirectory(c.UserID, client)
	orchestrator := syncer.NewOrchestrator(
		client, cursorRepo, engine, directory, recordRepo,
		func() bool { return c.SyncEnabled }, logger,
	)

	app.sync = orchestrator
	app.shares = share.NewAcceptor(client, orchestrator, share.NewMailbox(), logger)
	app.records = recordRepo
	return app, nil
}

// bearerToken returns the API token, reading it from the configured token
// file or prompting once on first use.
func (a *App) bearerToken(ctx context.Context) (string, error) {
	a.tokenOnce.Do(func() {
		if a.config.TokenFile != "" {
			data, err := os.ReadFile(a.config.TokenFile)
			if err != nil {
				a.tokenErr = err
				return
			}
			a.token = strings.TrimSpace(string(data))
			return
		}
		tok, err := GetToken(a.out)
		if err != nil {
			a.tokenErr = err
			return
		}
		a.token = string(tok)
	})
	return a.token, a.tokenErr
}

// Run executes a single command when one is given on the command line, and
// starts the interactive shell otherwise.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if cmd, args, ok := commandFromArgs(os.Args[1:]); ok {
		a.Dispatch(ctx, cmd, args)
		return
	}
	a.Root(ctx)
}

// valueFlags are the config flags that consume a separate value argument.
var valueFlags = map[string]bool{"-a": true, "-u": true, "-d": true, "-t": true, "-c": true, "-config": true}

// commandFromArgs returns the first positional argument and everything after
// it, skipping over config flags and their values.
func commandFromArgs(args []string) (string, []string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				i++
			}
			continue
		}
		return arg, args[i+1:], true
	}
	return "", nil, false
}
