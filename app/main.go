package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db"
	myRedis "github.com/senuthbros6699-eng/dialect/internal/repository/redis"
	"github.com/senuthbros6699-eng/dialect/internal/repository/supabase"
	"github.com/senuthbros6699-eng/dialect/internal/rest"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/session"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/auth"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/chat"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/comment"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/feed"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/like"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/market"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/profile"
	"github.com/senuthbros6699-eng/dialect/internal/workers"
)

func main() {
	cfg := loadConfig()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		log.Printf("unknown LOG_LEVEL %q, keeping %s", cfg.LogLevel, logrus.GetLevel())
	}

	// prepare database
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("got error when getting sql.DB from gorm.DB", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Println("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheAddr,
		Password: cfg.CachePass,
		DB:       cfg.CacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			log.Println("got error when closing the cache connection", err)
		}
	}()
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to open connection to cache ", err)
	}

	// 1. DB层
	postRepo := db.NewPostRepository(gdb)
	likeRepo := db.NewLikeRepository(gdb)
	commentRepo := db.NewCommentRepository(gdb)
	communityRepo := db.NewCommunityRepository(gdb)
	marketRepo := db.NewMarketRepository(gdb)
	// 2. Cache / realtime 层
	profileCache := myRedis.NewProfileCache(client)
	realtime := myRedis.NewRealtime(client)
	// 3. Repository协调层
	profileRepo := repository.NewProfileRepository(db.NewProfileRepository(gdb), profileCache, cfg.ProfileCacheTTL)
	messageRepo := repository.NewMessageRepository(db.NewMessageRepository(gdb), realtime)

	// hosted backend
	backend := supabase.NewClient(cfg.Backend)
	identity := supabase.NewAuth(backend, cfg.Backend.JWTSecret)
	storage := supabase.NewStorage(backend)

	// Start workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewReconcileLikesWorker(postRepo)
	go reconciler.Start(ctx)

	registry := session.NewRegistry(session.Config{
		Posts: postRepo,
		Like: like.Config{
			Likes:          likeRepo,
			Posts:          postRepo,
			Reconciler:     reconciler,
			PersistTimeout: cfg.PersistTimeout,
		},
		Comment: comment.Config{
			Comments:       commentRepo,
			PersistTimeout: cfg.PersistTimeout,
		},
		Chat: chat.Config{
			Messages: messageRepo,
			Realtime: realtime,
			Ordering: cfg.ChatOrder,
		},
	})
	defer registry.Close()

	sweeper := workers.NewSweepSessionsWorker(registry, cfg.SessionIdleTTL)
	go sweeper.Start(ctx)

	// Build service Layer
	resolver := profile.NewResolver(profileRepo, cfg.AvatarBaseURL)
	authSvc := auth.NewService(identity, cfg.AuthRedirectURL)
	feedSvc := feed.NewService(communityRepo, postRepo, resolver)
	marketSvc := market.NewService(marketRepo, storage)
	profileSvc := profile.NewService(profileRepo, postRepo, storage, resolver)

	signOuts := authSvc.OnSignOut(func(v domain.Viewer) { registry.Drop(v.ID) })
	defer signOuts.Close()

	healthHandler := rest.NewHealthHandler(map[string]rest.Pinger{
		"database": rest.PingFunc(sqlDB.PingContext),
		"cache":    rest.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
	})
	authHandler := rest.NewAuthHandler(authSvc)
	feedHandler := rest.NewFeedHandler(feedSvc)
	sessionHandler := rest.NewSessionHandler(registry)
	marketHandler := rest.NewMarketHandler(marketSvc)
	profileHandler := rest.NewProfileHandler(profileSvc)

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS(), middleware.Viewer(authSvc))

	// the chat stream outlives the request timeout
	route.GET("/communities/:slug/chat/stream", sessionHandler.StreamChat)

	api := route.Group("/")
	api.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))
	{
		api.GET("/health", healthHandler.Health)

		api.POST("/auth/otp", authHandler.RequestOTP)
		api.POST("/auth/verify", authHandler.Verify)

		api.GET("/communities", feedHandler.FetchCommunities)
		api.GET("/communities/:slug", feedHandler.GetCommunity)
		api.GET("/communities/:slug/posts", feedHandler.FetchCommunityPosts)
		api.POST("/communities/:slug/posts", feedHandler.StorePost)
		api.GET("/posts", feedHandler.FetchHome)

		api.GET("/posts/:id/like", sessionHandler.GetLike)
		api.POST("/posts/:id/like", sessionHandler.ToggleLike)
		api.GET("/posts/:id/comments", sessionHandler.FetchComments)
		api.POST("/posts/:id/comments/toggle", sessionHandler.ToggleComments)
		api.POST("/posts/:id/comments", sessionHandler.CreateComment)

		api.GET("/communities/:slug/chat", sessionHandler.OpenChat)
		api.POST("/communities/:slug/chat", sessionHandler.SendMessage)
		api.DELETE("/communities/:slug/chat", sessionHandler.CloseChat)

		api.GET("/market", marketHandler.Fetch)
		api.POST("/market", marketHandler.Sell)

		api.GET("/profiles/:username", profileHandler.GetByUsername)
		api.POST("/profiles/:username/:kind", profileHandler.UploadImage)
	}

	authorized := api.Group("/")
	authorized.Use(middleware.RequireViewer())
	{
		authorized.POST("/auth/logout", authHandler.Logout)
		authorized.GET("/me/notices", sessionHandler.FetchNotices)
	}

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for workers to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
