package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "bid-admission/internal/biddingService"
	"bid-admission/internal/config"
	"bid-admission/internal/cooldown"
	"bid-admission/internal/events"
	"bid-admission/internal/fraud"
	"bid-admission/internal/gate"
	"bid-admission/internal/metrics"
	model "bid-admission/internal/models"
	"bid-admission/internal/moderation"
	"bid-admission/internal/pending"
	"bid-admission/internal/repository"
	"bid-admission/internal/server"
	"bid-admission/internal/throttle"
	"bid-admission/internal/txlog"
	"bid-admission/internal/velocity"
	"bid-admission/services/realtime"
	"bid-admission/utils"

	"github.com/coocood/freecache"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/viney-shih/goroutines"
)

const (
	sweepInterval   = time.Minute
	publishTimeout  = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	flags := pflag.NewFlagSet("bid-admission", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML configuration file")
	flags.String("port", ":8080", "HTTP listen address")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("postgres-dsn", "", "PostgreSQL DSN; empty keeps everything in memory")
	flags.String("redis-addr", "", "Redis address for throttle counters and pending bids")
	flags.String("nats-url", "", "NATS URL for the event stream; empty disables it")
	seed := flags.Bool("seed", false, "create demo users and items at startup")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := utils.Configure(cfg.Server.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed); err != nil {
		utils.Fatal("Server stopped with error", map[string]any{"error": err.Error()})
	}
}

func run(ctx context.Context, cfg config.Config, seed bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo, closeRepo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRepo()

	counter, stash, closeCache := openCache(cfg)
	defer closeCache()

	pool := goroutines.NewPool(cfg.Events.Workers, goroutines.WithTaskQueueLength(1024))
	defer pool.Release()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub(m)
	go hub.Run(hubCtx)

	publishers := events.Multi{hub}
	if cfg.Events.NATSURL != "" {
		nc, err := nats.Connect(cfg.Events.NATSURL, nats.Name("bid-admission"), nats.MaxReconnects(-1))
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer nc.Drain()
		stream, err := events.NewStreamPublisher(ctx, nc, cfg.Events.Stream)
		if err != nil {
			return err
		}
		publishers = append(publishers, stream)
	}

	now := func() time.Time { return time.Now().UTC() }
	cooldowns := cooldown.NewStore(repo, now)
	engine := fraud.NewEngine(cfg.Fraud, now)
	deps := bidding.Dependencies{
		Gate:      gate.New(cfg.Gate, cooldowns, velocity.NewAnalyzer(repo, now), now),
		Fraud:     engine,
		Pending:   stash,
		TxLog:     txlog.NewLogger(repo, now),
		Events:    events.NewAsync(publishers, pool, publishTimeout, m),
		Scheduler: pool,
		Metrics:   m,
		Clock:     now,
	}
	if enricher := fraud.NewHTTPEnricher(cfg.Enrichment, &http.Client{Timeout: cfg.Enrichment.Timeout}); enricher != nil {
		deps.Enricher = enricher
	}
	biddingSvc := bidding.NewBiddingService(repo, cfg, deps)

	if seed {
		prepopulate(ctx, biddingSvc)
	}

	router := server.SetupRouter(server.Services{
		Bidding:    biddingSvc,
		Moderation: moderation.NewService(repo, engine, m, now),
		Hub:        hub,
		Limiter:    throttle.NewLimiter(cfg.Throttle, counter, m),
		Metrics:    m,
		Gatherer:   reg,
	})

	go sweepCooldowns(ctx, cooldowns)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting auction server", map[string]any{"addr": cfg.Server.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utils.Info("Server exited", nil)
	return nil
}

// openRepository picks PostgreSQL when a DSN is configured and the in-memory store otherwise.
func openRepository(ctx context.Context, cfg config.StorageConfig) (repository.AuctionDB, func(), error) {
	if cfg.PostgresDSN == "" {
		utils.Info("Using in-memory repository", nil)
		return repository.NewMemoryRepo(), func() {}, nil
	}

	pg, err := repository.OpenPostgres(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pg.Ping(pingCtx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("apply schema: %w", err)
	}
	utils.Info("Connected to PostgreSQL", nil)
	return pg, func() { _ = pg.Close() }, nil
}

// openCache backs the throttle and the pending-bid stash with Redis when configured,
// falling back to process-local freecache.
func openCache(cfg config.Config) (throttle.Counter, pending.Stash, func()) {
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		utils.Info("Using Redis cache", map[string]any{"addr": cfg.Cache.RedisAddr})
		return throttle.NewRedisCounter(client),
			pending.NewRedisStash(client, cfg.Admission.PendingBidTTL),
			func() { _ = client.Close() }
	}

	size := cfg.Cache.LocalCacheMB * 1024 * 1024
	utils.Info("Using local cache", map[string]any{"sizeMB": cfg.Cache.LocalCacheMB})
	return throttle.NewLocalCounter(freecache.NewCache(size / 2)),
		pending.NewLocalStash(freecache.NewCache(size/2), cfg.Admission.PendingBidTTL),
		func() {}
}

// sweepCooldowns deactivates expired cooldowns until ctx is done.
func sweepCooldowns(ctx context.Context, store *cooldown.Store) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Sweep(ctx)
			if err != nil {
				utils.Warn("Cooldown sweep failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				utils.Debug("Expired cooldowns deactivated", map[string]any{"count": n})
			}
		}
	}
}

// prepopulate adds sample users and items for local runs
func prepopulate(ctx context.Context, svc *bidding.BiddingService) {
	users := []model.User{
		{UserID: "seller1", Username: "seller1", JoinedAt: time.Now().AddDate(-1, 0, 0)},
		{UserID: "user1", Username: "user1", JoinedAt: time.Now().AddDate(-1, 0, 0)},
		{UserID: "user2", Username: "user2", JoinedAt: time.Now().AddDate(0, 0, -2)},
	}
	for _, u := range users {
		if _, err := svc.CreateUser(ctx, u); err != nil {
			utils.Warn("Seed user skipped", map[string]any{"userID": u.UserID, "error": err.Error()})
		}
	}

	end := time.Now().Add(24 * time.Hour)
	items := []model.Item{
		{ItemID: "item1", SellerID: "seller1", Title: "title1", Description: "description1", StartingPrice: decimal.NewFromInt(100), MinIncrement: decimal.NewFromInt(5), EndTime: end},
		{ItemID: "item2", SellerID: "seller1", Title: "title2", Description: "Description2", StartingPrice: decimal.NewFromInt(200), MinIncrement: decimal.NewFromInt(10), EndTime: end,
			BuyNowPrice: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
		{ItemID: "item3", SellerID: "seller1", Title: "title3", Description: "Description3", StartingPrice: decimal.NewFromInt(150), MinIncrement: decimal.NewFromInt(5), EndTime: end},
	}
	for _, item := range items {
		if _, err := svc.CreateItem(ctx, item); err != nil {
			utils.Warn("Seed item skipped", map[string]any{"itemID": item.ItemID, "error": err.Error()})
		}
	}
}
