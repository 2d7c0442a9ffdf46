package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/octosync/internal/client/api"
	"github.com/iudanet/octosync/internal/client/iocli"
	"github.com/iudanet/octosync/internal/client/objectstore"
	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/client/storage/boltdb"
	"github.com/iudanet/octosync/internal/client/storage/encrypted"
	"github.com/iudanet/octosync/internal/client/sync"
	"github.com/iudanet/octosync/internal/config"
	"github.com/iudanet/octosync/internal/logging"
	"github.com/iudanet/octosync/internal/resilience"
)

// globalFlags - флаги корневой команды. Заданные флаги переопределяют конфигурацию.
type globalFlags struct {
	envDir        string
	dbPath        string
	app           string
	remoteKind    string
	url           string
	token         string
	logLevel      string
	askPassphrase bool
}

// NewRootCommand builds the octosync command tree
func NewRootCommand(version string) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "octosync",
		Short: "Local-first record synchronization client",
		Long: `octosync keeps collections of JSON records in a durable local store and
pushes every change to the authoritative remote store in the background.

Configuration is read from .env and OCTOSYNC_* environment variables;
flags override both.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envDir, "env-dir", ".", "Directory containing the .env file")
	pf.StringVar(&flags.dbPath, "db", "", "Path to the local database")
	pf.StringVar(&flags.app, "app", "", "Prefix of local snapshot keys")
	pf.StringVar(&flags.remoteKind, "remote", "", "Remote kind: http, s3 or none")
	pf.StringVar(&flags.url, "server", "", "octosync-server URL")
	pf.StringVar(&flags.token, "token", "", "Bearer token for octosync-server")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.askPassphrase, "ask-passphrase", false, "Prompt for the local encryption passphrase")

	root.AddCommand(
		newListCommand(flags),
		newGetCommand(flags),
		newCreateCommand(flags),
		newUpdateCommand(flags),
		newDeleteCommand(flags),
		newSyncCommand(flags),
		newWatchCommand(flags),
		newStatusCommand(flags),
	)

	return root
}

// Execute runs the client until ctx is canceled
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var localOnly bool
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print all records of a collection, merged with the remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runList(ctx, args[0], localOnly)
			})
		},
	}
	cmd.Flags().BoolVar(&localOnly, "local", false, "Read the local snapshot only")
	return cmd
}

func newGetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runGet(ctx, args[0], args[1])
			})
		},
	}
}

func newCreateCommand(flags *globalFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create <collection> [json]",
		Short: "Create a record with a generated id",
		Example: `  octosync create projects '{"name":"Website","budget":1500}'
  octosync create leads -f lead.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(cmd, args[1:], file)
			if err != nil {
				return err
			}
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runCreate(ctx, args[0], raw)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the JSON payload from a file (- for stdin)")
	return cmd
}

func newUpdateCommand(flags *globalFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <collection> <id> [json]",
		Short: "Replace a record",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(cmd, args[2:], file)
			if err != nil {
				return err
			}
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runUpdate(ctx, args[0], args[1], raw)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the JSON payload from a file (- for stdin)")
	return cmd
}

func newDeleteCommand(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runDelete(ctx, args[0], args[1], !yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newSyncCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [collections...]",
		Short: "Push local snapshots to the remote (all collections by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runSync(ctx, args)
			})
		},
	}
}

func newWatchCommand(flags *globalFlags) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [collections...]",
		Short: "Push local snapshots periodically until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runWatch(ctx, args, interval)
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "Time between reconciliation passes")
	return cmd
}

func newStatusCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [collections...]",
		Short: "Show local record counts and last synchronization times",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runStatus(ctx, args)
			})
		},
	}
}

// readPayload берет JSON из аргумента, файла или stdin
func readPayload(cmd *cobra.Command, args []string, file string) ([]byte, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, fmt.Errorf("pass the payload either as an argument or with --file")
	case len(args) > 0:
		return []byte(args[0]), nil
	case file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, fmt.Errorf("missing JSON payload")
	}
}

// run открывает хранилища, выполняет команду и дожидается фоновых операций
func (f *globalFlags) run(cmd *cobra.Command, fn func(ctx context.Context, c *Cli) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	out := iocli.NewStreams(cmd.InOrStdin(), cmd.OutOrStdout())

	bolt, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := bolt.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	local, err := openLocal(ctx, cfg, f.askPassphrase, bolt, out)
	if err != nil {
		return err
	}

	client, description, err := newRemote(ctx, cfg, logger)
	if err != nil {
		return err
	}

	engine := sync.NewEngine(local, client, logger,
		sync.WithApp(cfg.App),
		sync.WithPolicies(cfg.Sync.Policies()),
		sync.WithMetadata(bolt),
	)
	// Фоновые отправки должны завершиться до закрытия базы
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Sync.BulkTimeout)
		defer cancel()
		if err := engine.Shutdown(drainCtx); err != nil {
			logger.Warn("Background pushes did not finish", "error", err)
		}
	}()

	c := New(engine, bolt, out, logger)
	c.SetRemote(description)
	c.SetConcurrency(cfg.Sync.Concurrency)

	return fn(ctx, c)
}

func (f *globalFlags) loadConfig(cmd *cobra.Command) (*config.Client, error) {
	cfg, err := config.LoadClient(f.envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("db") {
		cfg.DBPath = f.dbPath
	}
	if changed("app") {
		cfg.App = f.app
	}
	if changed("remote") {
		cfg.Remote.Kind = f.remoteKind
	}
	if changed("server") {
		cfg.Remote.URL = f.url
	}
	if changed("token") {
		cfg.Remote.Token = f.token
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openLocal включает шифрование снимков, если задана парольная фраза
func openLocal(ctx context.Context, cfg *config.Client, ask bool, bolt *boltdb.Storage, out iocli.IO) (storage.LocalStore, error) {
	passphrase := cfg.Passphrase
	if ask {
		var err error
		passphrase, err = out.ReadPassword("Passphrase: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
	}
	if passphrase == "" {
		return bolt, nil
	}

	store, err := encrypted.Open(ctx, bolt, bolt, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted store: %w", err)
	}
	return store, nil
}

// newRemote создает клиента удаленного хранилища. Для kind none возвращает nil интерфейс.
// Ошибка проверки бакета только логируется.
func newRemote(ctx context.Context, cfg *config.Client, logger *slog.Logger) (remote.Client, string, error) {
	switch cfg.Remote.Kind {
	case config.RemoteHTTP:
		return api.NewClient(cfg.Remote.URL, cfg.Remote.Token), "http " + cfg.Remote.URL, nil
	case config.RemoteS3:
		s3 := cfg.Remote.S3
		objClient, err := objectstore.NewObjectClient(s3)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create object storage client: %w", err)
		}
		store := objectstore.NewStore(objClient, s3.Bucket, s3.Prefix, logger)
		// Недоступное хранилище не должно мешать локальным операциям
		out := resilience.Do(ctx, cfg.Sync.Policies().Lookup, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, store.EnsureBucket(ctx)
		})
		if !out.OK() {
			logger.Warn("Bucket check failed, continuing with local data",
				"bucket", s3.Bucket,
				"status", out.Status.String(),
				"kind", remote.KindOf(out.Err),
				"error", out.Err)
		}
		return store, fmt.Sprintf("s3 %s/%s", s3.Endpoint, s3.Bucket), nil
	default:
		return nil, config.RemoteNone, nil
	}
}
