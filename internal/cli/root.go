package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/postgresengine"
	"github.com/rbiro/Multicorn/site"
	"github.com/rbiro/Multicorn/siteconfig"
)

var (
	ErrMissingSite        = errors.New("no site description given (--site or MULTICORN_SITE)")
	ErrMissingAccessPoint = errors.New("no access point given (--access-point)")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrMissingDSN         = errors.New("the site has postgres access points but no dsn was given (--dsn or MULTICORN_DSN)")
)

const (
	envPrefix      = "MULTICORN"
	keySite        = "site"
	keyLogLevel    = "log-level"
	keyDSN         = "dsn"
	keyConfig      = "config"
	defaultLevel   = "warn"
	logMsgPoolOpen = "cli: postgres pool opened"
)

// NewRootCommand builds the multicorn command tree. Output goes to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyLogLevel, defaultLevel)

	rootCmd := &cobra.Command{
		Use:   "multicorn",
		Short: "Query the access points of a site",
		Long: `multicorn loads a site description (YAML) and runs requests against its access points.

Examples:
  multicorn search --site site.yaml --access-point aliased nom=bar
  multicorn search --site site.yaml -a things 'id>=2' 'name~b%'
  multicorn schema --site site.yaml -a aliased
  multicorn list --site site.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configFile := v.GetString(keyConfig)
			if configFile == "" {
				return nil
			}

			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}

			return nil
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.String(keySite, "", "path of the site description (YAML)")
	flags.String(keyLogLevel, defaultLevel, "log level: debug, info, warn or error")
	flags.String(keyDSN, "", "PostgreSQL DSN used by postgres access points")
	flags.String(keyConfig, "", "optional settings file (any format viper reads)")

	for _, key := range []string{keySite, keyLogLevel, keyDSN, keyConfig} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	env := &environment{settings: v, errOut: errOut}

	rootCmd.AddCommand(
		newSearchCommand(env),
		newSchemaCommand(env),
		newListCommand(env),
	)

	return rootCmd
}

// environment carries the settings shared by all subcommands and builds the site on demand.
type environment struct {
	settings *viper.Viper
	errOut   io.Writer

	mu    sync.Mutex
	pools []*pgxpool.Pool
}

func (e *environment) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.settings.GetString(keyLogLevel))); err != nil {
		return nil, errors.Join(ErrInvalidLogLevel, err)
	}

	return slog.New(slog.NewTextHandler(e.errOut, &slog.HandlerOptions{Level: level})), nil
}

// site loads and builds the configured site. The returned release func closes database pools.
func (e *environment) site(ctx context.Context) (*site.Site, func(), error) {
	path := e.settings.GetString(keySite)
	if path == "" {
		return nil, nil, ErrMissingSite
	}

	logger, err := e.logger()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := siteconfig.Load(path)
	if err != nil {
		return nil, nil, err
	}

	s, err := siteconfig.Build(ctx, cfg,
		siteconfig.WithLogger(logger),
		siteconfig.WithPostgres(e.postgresFactory(logger)),
	)
	if err != nil {
		e.release()
		return nil, nil, err
	}

	return s, e.release, nil
}

func (e *environment) postgresFactory(logger *slog.Logger) siteconfig.PostgresFactory {
	var (
		once    sync.Once
		pool    *pgxpool.Pool
		poolErr error
	)

	return func(ctx context.Context, table string, schema accesspoint.Schema) (accesspoint.AccessPoint, error) {
		dsn := e.settings.GetString(keyDSN)
		if dsn == "" {
			return nil, ErrMissingDSN
		}

		once.Do(func() {
			pool, poolErr = pgxpool.New(ctx, dsn)
			if poolErr == nil {
				e.mu.Lock()
				e.pools = append(e.pools, pool)
				e.mu.Unlock()
				logger.Debug(logMsgPoolOpen)
			}
		})

		if poolErr != nil {
			return nil, poolErr
		}

		return postgresengine.NewAccessPointFromPGXPool(
			pool,
			schema,
			postgresengine.WithTableName(table),
			postgresengine.WithLogger(logger),
		)
	}
}

func (e *environment) release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, pool := range e.pools {
		pool.Close()
	}

	e.pools = nil
}
