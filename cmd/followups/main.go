package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pershin-daniil/followups/internal/calendar"
	"github.com/pershin-daniil/followups/pkg/config"
	"github.com/pershin-daniil/followups/pkg/lock"
	"github.com/pershin-daniil/followups/pkg/logger"
	"github.com/pershin-daniil/followups/pkg/pgstore"
	"github.com/pershin-daniil/followups/pkg/scheduler"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var envFile string

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
		<-sigCh
		cancel()
	}()

	root := &cobra.Command{
		Use:          "followups",
		Short:        "Books follow-up meetings for open action items",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "env file loaded before reading the environment")
	root.AddCommand(serveCmd(), migrateCmd(), suggestCmd())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.NewLogger(cfg.LogLevel), nil
}

// deps is what every command that talks to calendars needs.
type deps struct {
	store     *pgstore.Store
	locker    *lock.RedisLocker
	scheduler *scheduler.Scheduler
}

func (d deps) Close() {
	_ = d.store.Close()
	if d.locker != nil {
		_ = d.locker.Close()
	}
}

func newDeps(ctx context.Context, cfg config.Config, log *logrus.Logger) (deps, error) {
	store, err := pgstore.NewStore(ctx, log, cfg.PgDSN)
	if err != nil {
		return deps{}, err
	}
	d := deps{store: store}

	calOpts := []calendar.Option{calendar.WithLocation(cfg.Location())}
	if cfg.GoogleAPIURL != "" {
		calOpts = append(calOpts, calendar.WithEndpoint(cfg.GoogleAPIURL))
	}
	schedCfg := scheduler.DefaultConfig()
	schedCfg.Location = cfg.Location()
	schedCfg.MaxAutoBookings = cfg.MaxAutoBookings
	opts := []scheduler.Option{scheduler.WithConfig(schedCfg)}

	if cfg.RedisURL != "" {
		locker, err := lock.NewRedisLocker(ctx, log, cfg.RedisURL)
		if err != nil {
			log.Warnf("booking lock disabled: %v", err)
		} else {
			d.locker = locker
			opts = append(opts, scheduler.WithLocker(locker))
		}
	}

	d.scheduler = scheduler.New(log, calendar.New(log, calOpts...), store, store, opts...)
	return d, nil
}
