// Package cli implements vrsctl, the operator tool for the repair intake
// store. It talks to the same backends as the service.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/config"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/observability"
	"github.com/spec-kit/repair-service/internal/persistence"
	"github.com/spec-kit/repair-service/internal/repository"
	"github.com/spec-kit/repair-service/internal/service"
)

// Env is the store and services a command runs against.
type Env struct {
	Config  *config.Config
	Backend persistence.Backend
	Admin   *service.AdminService
	Tickets *service.TicketService
	Logger  *zap.Logger

	close func() error
}

// Close releases the backends.
func (e *Env) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// Opener builds the Env for one command invocation.
type Opener func(ctx context.Context) (*Env, error)

// NewEnv wires services over backend. cfg may be nil.
func NewEnv(cfg *config.Config, backend persistence.Backend, logger *zap.Logger) *Env {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	return &Env{
		Config:  cfg,
		Backend: backend,
		Admin: service.NewAdminService(service.AdminDependencies{
			UserRepo:   repository.NewUserRepository(backend),
			HashPINs:   cfg.Auth.HashPINs,
			BcryptCost: cfg.Auth.BcryptCost,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo: repository.NewTicketRepository(backend),
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Logger: logger,
	}
}

// OpenFromEnv loads configuration the way the service does. Sessions are
// never touched by vrsctl, so the session driver is forced to memory.
func OpenFromEnv(ctx context.Context) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	storeCfg := *cfg
	storeCfg.Session.Driver = config.DriverMemory
	backends, err := persistence.Open(ctx, &storeCfg, logger)
	if err != nil {
		return nil, err
	}

	env := NewEnv(cfg, backends.Collections, logger)
	env.close = func() error {
		_ = logger.Sync()
		return backends.Close()
	}
	return env, nil
}

// NewRootCommand builds the vrsctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "vrsctl",
		Short: "Operate the vehicle repair intake store",
		Long: `vrsctl inspects and maintains the user and ticket collections used by the
repair intake service. It reads the same STORE_* settings as the service.

Examples:
  vrsctl seed                                 # Create the default administrator
  vrsctl users list                           # Show staff accounts
  vrsctl users add --name Bob --pin 4321      # Add a technician
  vrsctl users link <id> <badge>              # Link a provisioned badge
  vrsctl tickets list --q alice               # Search tickets`,
		SilenceUsage: true,
	}

	run := func(fn func(ctx context.Context, cmd *cobra.Command, env *Env, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := events.ContextWithActor(cmd.Context(), events.Actor{Name: "vrsctl"})
			env, err := open(ctx)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck
			return fn(ctx, cmd, env, args)
		}
	}

	root.AddCommand(newSeedCommand(run))
	root.AddCommand(newUsersCommand(run))
	root.AddCommand(newTicketsCommand(run))
	return root
}

type runner func(fn func(ctx context.Context, cmd *cobra.Command, env *Env, args []string) error) func(*cobra.Command, []string) error

func requireSubcommand(cmd *cobra.Command, _ []string) error {
	return fmt.Errorf("%s requires a subcommand", cmd.CommandPath())
}
