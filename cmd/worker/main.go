package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/socialbase/socialbase/internal/config"
	"github.com/socialbase/socialbase/internal/repository"
	"github.com/socialbase/socialbase/internal/services"
	"github.com/socialbase/socialbase/internal/workers"
	"github.com/socialbase/socialbase/pkg/cache"
	"github.com/socialbase/socialbase/pkg/logger"
	"github.com/socialbase/socialbase/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting socialbase reconcile worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	relationshipConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.RelationshipEvents, "stats-reconciler")
	defer relationshipConsumer.Close()

	interactionConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.InteractionEvents, "stats-reconciler")
	defer interactionConsumer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	friendRepo := repository.NewFriendRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	txManager := repository.NewTxManager(db.DB)

	statsCache := services.NewStatsCacheService(redisClient, cfg.Stats.CacheTTL, logger)
	reconciler := services.NewReconcilerService(userRepo, followRepo, friendRepo, postRepo, likeRepo, commentRepo, txManager, statsCache, logger)

	worker := workers.NewReconcileWorker(reconciler, relationshipConsumer, interactionConsumer, &cfg.Stats, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down worker...")
		cancel()
	}()

	if err := worker.Start(ctx); err != nil && err != context.Canceled {
		logger.WithError(err).Error("Worker stopped with error")
	}
	logger.Info("Worker exited")
}
