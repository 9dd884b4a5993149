package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialbase/socialbase/internal/config"
	"github.com/socialbase/socialbase/internal/handlers"
	"github.com/socialbase/socialbase/internal/middleware"
	"github.com/socialbase/socialbase/internal/repository"
	"github.com/socialbase/socialbase/internal/services"
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
	logger.Info("Starting socialbase API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	relationshipProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.RelationshipEvents)
	defer relationshipProducer.Close()

	interactionProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.InteractionEvents)
	defer interactionProducer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	friendRepo := repository.NewFriendRepository(db.DB)
	blockRepo := repository.NewBlockRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	txManager := repository.NewTxManager(db.DB)

	statsCache := services.NewStatsCacheService(redisClient, cfg.Stats.CacheTTL, logger)
	userService := services.NewUserService(userRepo, txManager, statsCache, logger)
	graphService := services.NewSocialGraphService(userRepo, followRepo, friendRepo, blockRepo, txManager, statsCache, relationshipProducer, logger)
	interactionService := services.NewPostInteractionService(userRepo, postRepo, likeRepo, commentRepo, txManager, statsCache, interactionProducer, logger)

	userHandler := handlers.NewUserHandler(userService, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	graphHandler := handlers.NewGraphHandler(graphService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/:id", userHandler.GetProfile)
		}

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{Secret: cfg.JWT.Secret}))
		{
			protected.PUT("/users/profile", userHandler.UpdateProfile)

			protected.POST("/users/:id/follow", graphHandler.Follow)
			protected.DELETE("/users/:id/follow", graphHandler.Unfollow)
			protected.POST("/follow-requests/:id/accept", graphHandler.AcceptFollowRequest)
			protected.POST("/follow-requests/:id/decline", graphHandler.DeclineFollowRequest)
			protected.DELETE("/follow-requests/:id", graphHandler.CancelFollowRequest)
			protected.GET("/follow-requests", graphHandler.ListFollowRequests)

			protected.POST("/users/:id/friend-request", graphHandler.SendFriendRequest)
			protected.POST("/friend-requests/:id/accept", graphHandler.AcceptFriendRequest)
			protected.POST("/friend-requests/:id/decline", graphHandler.DeclineFriendRequest)
			protected.DELETE("/friend-requests/:id", graphHandler.CancelFriendRequest)
			protected.GET("/friend-requests", graphHandler.ListFriendRequests)
			protected.DELETE("/users/:id/friend", graphHandler.RemoveFriend)

			protected.POST("/users/:id/block", graphHandler.Block)
			protected.DELETE("/users/:id/block", graphHandler.Unblock)

			protected.GET("/users/:id/followers", graphHandler.ListFollowers)
			protected.GET("/users/:id/following", graphHandler.ListFollowing)
			protected.GET("/users/:id/friends", graphHandler.ListFriends)

			protected.POST("/users/:id/posts", interactionHandler.CreatePost)
			protected.GET("/posts/:id", interactionHandler.GetPost)
			protected.GET("/posts/:id/stats", interactionHandler.GetPostStats)
			protected.DELETE("/posts/:id", interactionHandler.DeletePost)
			protected.POST("/posts/:id/like", interactionHandler.LikePost)
			protected.DELETE("/posts/:id/like", interactionHandler.UnlikePost)
			protected.GET("/posts/:id/liked", interactionHandler.HasLiked)
			protected.POST("/posts/:id/comments", interactionHandler.CreateComment)
			protected.GET("/posts/:id/comments", interactionHandler.ListComments)
			protected.DELETE("/posts/:id/comments/:comment_id", interactionHandler.DeleteComment)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
