// Package cli реализует команды клиента habitsync поверх движка синхронизации.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/habitsync/internal/client/iocli"
	"github.com/iudanet/habitsync/internal/client/state"
	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

//go:generate moq -out engine_mock.go . Engine

// Engine операции клиентского движка, используемые командами
type Engine interface {
	ClientID() string
	Status() state.Status
	LastSyncTime() string
	LastError() string
	DirtyCounts() (trackers, entries int)
	Trackers() []*models.Tracker
	Tracker(id string) (*models.Tracker, bool)
	Entry(key models.EntryKey) (*models.Entry, bool)
	UpsertTracker(in clientsync.TrackerInput) (*models.Tracker, error)
	DeleteTracker(id string) error
	UpsertEntry(key models.EntryKey, value *float64, completed *bool) (*models.Entry, error)
	TriggerSync(ctx context.Context) (*clientsync.Result, error)
	PendingConflicts() []*models.Conflict
	RemoteConflicts(ctx context.Context) ([]api.ConflictRecord, error)
	Resolve(ctx context.Context, key models.ConflictKey, choice models.Choice) error
	ResolveAll(ctx context.Context, choice models.Choice) (int, error)
	Watch(ctx context.Context, interval time.Duration) error
}

var _ Engine = (*clientsync.Engine)(nil)

// RootOptions глобальные флаги клиента
type RootOptions struct {
	ServerURL  string
	DBPath     string
	ClientName string
	LogLevel   string
}

// Opener открывает движок по глобальным флагам. Возвращаемая функция
// дожидается записи состояния и закрывает хранилище.
type Opener func(ctx context.Context, opts *RootOptions) (Engine, func(context.Context) error, error)

// Cli общее состояние команд одного запуска
type Cli struct {
	engine Engine
	io     iocli.IO
	now    func() time.Time
}

// Root дерево команд habitsync и владелец открытого движка
type Root struct {
	cmd         *cobra.Command
	cli         *Cli
	closeEngine func(context.Context) error
}

// NewRoot собирает дерево команд habitsync.
// Движок открывается перед первой выполняемой подкомандой.
func NewRoot(opts *RootOptions, io iocli.IO, open Opener) *Root {
	r := &Root{cli: &Cli{io: io, now: time.Now}}

	cmd := &cobra.Command{
		Use:           "habitsync",
		Short:         "Offline-first habit tracker",
		Long:          "Track habits offline and synchronize them with a habitsync server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if r.cli.engine != nil {
				return nil
			}
			engine, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			r.cli.engine = engine
			r.closeEngine = closeFn
			return nil
		},
	}
	cmd.SetOut(io)
	cmd.SetErr(io)

	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", opts.ServerURL, "sync server URL")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", opts.DBPath, "path to local database")
	cmd.PersistentFlags().StringVar(&opts.ClientName, "name", opts.ClientName, "client name reported to the server")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level (debug|info|warn|error)")

	c := r.cli
	cmd.AddCommand(c.newTrackerCommand())
	cmd.AddCommand(c.newCheckinCommand())
	cmd.AddCommand(c.newSyncCommand())
	cmd.AddCommand(c.newStatusCommand())
	cmd.AddCommand(c.newConflictsCommand())
	cmd.AddCommand(c.newResolveCommand())
	cmd.AddCommand(c.newWatchCommand())

	r.cmd = cmd
	return r
}

// Command возвращает корневую cobra команду
func (r *Root) Command() *cobra.Command {
	return r.cmd
}

// Execute выполняет команду с аргументами args и закрывает движок,
// даже если команда завершилась ошибкой.
func (r *Root) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	err := r.cmd.ExecuteContext(ctx)

	if r.closeEngine != nil {
		// Состояние дописывается и после отмены контекста команды
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if closeErr := r.closeEngine(closeCtx); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		r.closeEngine = nil
	}
	return err
}

// today возвращает локальную дату в формате отметок
func (c *Cli) today() string {
	return c.now().Format(models.DateLayout)
}

// describeSyncError переводит ошибки движка в сообщения для пользователя
func describeSyncError(err error) error {
	switch {
	case errors.Is(err, clientsync.ErrOffline):
		return fmt.Errorf("server is unreachable, changes are kept locally: %w", err)
	case errors.Is(err, clientsync.ErrSyncInProgress):
		return fmt.Errorf("another sync is running, try again later: %w", err)
	default:
		return err
	}
}
