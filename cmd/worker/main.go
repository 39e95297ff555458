package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/infrastructure/config"
	"rdfstore/internal/infrastructure/database"
	"rdfstore/internal/infrastructure/email"
	"rdfstore/internal/infrastructure/gpfs"
	"rdfstore/internal/infrastructure/graph"
	"rdfstore/internal/infrastructure/joblock"
	"rdfstore/internal/infrastructure/ldap"
	"rdfstore/internal/infrastructure/repository"
	"rdfstore/internal/shared/goroutine"
	"rdfstore/internal/shared/logger"
)

// The worker runs the maintenance jobs on a fixed interval: quota sync,
// membership audit and expiry notifications. A redis lock per job keeps
// multiple worker instances from running the same job concurrently.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting maintenance worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	allocRepo := repository.NewAllocationRepository(database.Get())
	membershipRepo := repository.NewGroupMembershipRepository(database.Get())

	directory := ldap.NewClient(&cfg.LDAP, log.Named("ldap"))
	filesystem := gpfs.NewClient(&cfg.GPFS, log.Named("gpfs"))
	graphClient := graph.NewClient(&cfg.Graph, log.Named("graph"))
	resolver := graph.NewResolver(graphClient, directory, log.Named("resolver"))
	notifier := email.NewSMTPNotificationSink(&cfg.Email)

	syncQuotasUC := usecases.NewSyncQuotasUseCase(allocRepo, filesystem, cfg.Jobs.Workers, log)
	auditUC := usecases.NewAuditMembershipsUseCase(
		allocRepo, membershipRepo, directory, notifier, cfg.Jobs.Workers, log)
	expiryUC := usecases.NewNotifyExpiringMembershipsUseCase(
		allocRepo, membershipRepo, resolver, notifier, cfg.Jobs.ExpiryNoticeDays, log)

	lockTTL := time.Duration(cfg.Jobs.LockTTLMinutes) * time.Minute

	runner := &jobRunner{
		redis:   redisClient,
		lockTTL: lockTTL,
		timeout: jobRunTimeout(lockTTL),
		logger:  log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	interval := time.Duration(cfg.Jobs.IntervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runAll := func() {
		goroutine.SafeGo(log, "quota-sync", func() {
			runner.run(ctx, "jobs:quota-sync", func(jobCtx context.Context) error {
				_, err := syncQuotasUC.Execute(jobCtx, usecases.SyncQuotasCommand{})
				return err
			})
		})
		goroutine.SafeGo(log, "membership-audit", func() {
			runner.run(ctx, "jobs:membership-audit", func(jobCtx context.Context) error {
				_, err := auditUC.Execute(jobCtx, usecases.AuditMembershipsCommand{})
				return err
			})
		})
		goroutine.SafeGo(log, "expiry-notifications", func() {
			runner.run(ctx, "jobs:expiry-notifications", func(jobCtx context.Context) error {
				_, err := expiryUC.Execute(jobCtx)
				return err
			})
		})
	}

	log.Infow("maintenance worker started", "interval", interval)
	runAll()

	for {
		select {
		case <-ticker.C:
			runAll()

		case sig := <-sigChan:
			log.Infow("received signal, shutting down", "signal", sig)
			cancel()
			return
		}
	}
}

// jobRunTimeout leaves a margin between a job's deadline and its lock TTL so
// a run that uses its whole budget cannot outlive the lock and overlap with
// the next worker's run.
func jobRunTimeout(lockTTL time.Duration) time.Duration {
	margin := lockTTL / 10
	if margin > time.Minute {
		margin = time.Minute
	}
	return lockTTL - margin
}

type jobRunner struct {
	redis   *redis.Client
	lockTTL time.Duration
	timeout time.Duration
	logger  logger.Interface
}

// run executes one job behind its redis lock. A held lock means another
// worker is on it, which is not an error.
func (r *jobRunner) run(ctx context.Context, lockKey string, fn func(ctx context.Context) error) {
	lock := joblock.NewRedisLock(r.redis, lockKey, r.lockTTL, r.logger)

	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		r.logger.Errorw("job lock acquisition failed", "job", lockKey, "error", err)
		return
	}
	if !acquired {
		r.logger.Infow("job skipped, lock held by another worker", "job", lockKey)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	defer lock.Release(context.WithoutCancel(jobCtx))

	r.logger.Infow("job starting", "job", lockKey)
	start := time.Now()

	if err := fn(jobCtx); err != nil {
		r.logger.Errorw("job finished with error", "job", lockKey, "duration", time.Since(start), "error", err)
		return
	}
	r.logger.Infow("job finished", "job", lockKey, "duration", time.Since(start))
}
