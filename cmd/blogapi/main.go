package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-api/internal/article"
	"blog-api/internal/config"
	"blog-api/internal/events"
	"blog-api/internal/logging"
	"blog-api/internal/server"
	"blog-api/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	v       = config.New()
	cfgFile string
	limit   int
)

var rootCmd = &cobra.Command{
	Use:   "blogapi",
	Short: "blogapi - A small blog article API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (and the activity worker when Redis is configured)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Print the most recent article activity recorded in Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Redis.Addr == "" {
			return errors.New("activity needs a Redis address (--redis or BLOGAPI_REDIS_ADDR)")
		}
		q, err := events.NewRedisQueue(cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer q.Close()

		evs, err := q.Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("reading recent activity: %w", err)
		}
		printActivity(cmd.OutOrStdout(), evs)
		return nil
	},
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore builds the configured backend. The returned func releases it.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBadger:
		bs, err := store.NewBadgerStore(cfg.Store.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return bs, func() { bs.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		q, err := events.NewRedisQueue(cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer q.Close()
		publisher = q

		w := events.NewWorker(q, logger)
		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			w.Start(ctx)
		}()
		// The worker must be gone before the queue closes
		defer func() {
			cancel()
			<-workerDone
		}()
	}

	svc := article.NewService(st, publisher, logger, article.Options{AllowUpsert: cfg.Articles.Upsert})
	srv := server.NewServer(svc, logger)

	// Bind before serving so a cancel can never miss the listener
	if err := srv.Listen(cfg.Server.Addr); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	logger.Info("Server running.",
		zap.String("store", cfg.Store.Backend),
		zap.Bool("activity", cfg.Redis.Addr != ""),
		zap.Bool("upsert", cfg.Articles.Upsert))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
		// Serve must be done with the store before the deferred close
		<-errCh
	}

	logger.Info("Goodbye!")
	return nil
}

func printActivity(w io.Writer, evs []events.Event) {
	if len(evs) == 0 {
		fmt.Fprintln(w, "No activity yet.")
		return
	}
	for _, ev := range evs {
		fmt.Fprintf(w, "%s  %-8s %s  %q\n", ev.At.Format(time.RFC3339), ev.Op, ev.ArticleID, ev.Title)
	}
}

func bindFlags(v *viper.Viper) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a YAML config file (default ./blogapi.yaml)")
	flags.String("redis", "", "Address of Redis server for the activity feed")
	flags.String("log-level", "debug", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	_ = v.BindPFlag("redis.addr", flags.Lookup("redis"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))

	sf := serveCmd.Flags()
	sf.String("addr", ":8000", "HTTP listen address")
	sf.String("store", config.StoreMemory, "Store backend: memory or badger")
	sf.String("badger-dir", "", "Badger data directory (empty keeps Badger in memory)")
	sf.Bool("upsert", false, "Let PUT create articles under unknown ids")
	_ = v.BindPFlag("server.addr", sf.Lookup("addr"))
	_ = v.BindPFlag("store.backend", sf.Lookup("store"))
	_ = v.BindPFlag("store.badger_dir", sf.Lookup("badger-dir"))
	_ = v.BindPFlag("articles.upsert", sf.Lookup("upsert"))

	activityCmd.Flags().IntVar(&limit, "limit", events.RecentLimit, "Number of events to show")
}

func main() {
	bindFlags(v)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(activityCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
