package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trstyle/storefront-services/handlers"
	"github.com/trstyle/storefront-services/internal/analytics"
	"github.com/trstyle/storefront-services/internal/catalog"
	"github.com/trstyle/storefront-services/internal/config"
	"github.com/trstyle/storefront-services/internal/database"
	"github.com/trstyle/storefront-services/internal/oidc"
	"github.com/trstyle/storefront-services/internal/profilesync"
	"github.com/trstyle/storefront-services/internal/sessions"
	"github.com/trstyle/storefront-services/internal/storage"
	"github.com/trstyle/storefront-services/internal/userstore"
	"github.com/trstyle/storefront-services/pkg/logger"
	"github.com/trstyle/storefront-services/pkg/metrics"
	"github.com/trstyle/storefront-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: admin_store=%v direct_store=%v redis=%v oidc=%v",
		cfg.Store.AdminURI != "", cfg.Store.DirectURI != "", cfg.Redis.Host != "", cfg.OIDC.IssuerURL != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis: sessions, token blacklist, rate limiting, analytics stream
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Analytics sink: Redis stream when available, log otherwise.
	var notify analytics.Notifier
	if redisClient != nil {
		notify = analytics.NewRedisNotifier(redisClient, cfg.Analytics.Stream)
	} else {
		notify = analytics.LogNotifier{}
	}

	// User-record store paths. The privileged path is the admin connection
	// (or the remote users API when configured); the direct path is the
	// rule-bound end-user connection. Order matters: privileged first.
	adminStore := connectStore(ctx, cfg, cfg.Store.AdminURI, "admin")
	directStore := connectStore(ctx, cfg, cfg.Store.DirectURI, "direct")

	var stores []userstore.Store
	if cfg.UsersAPI.BaseURL != "" {
		stores = append(stores, userstore.NewAPIStore(cfg.UsersAPI.BaseURL, nil))
	} else {
		stores = append(stores, adminStore)
	}
	stores = append(stores, directStore)
	syncer := profilesync.NewSyncer(notify, stores...)

	// Sessions: Redis-backed when available, Mongo otherwise.
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"), notify)
		logger.Infof("using Redis for session storage")
	} else if col := storeCollection(ctx, cfg, cfg.Store.AdminURI, "sessions"); col != nil {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(col), notify)
	}

	// OIDC verifier for the login flow
	var verifier middleware.Verifier
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && os.Getenv("ALLOW_INSECURE_TOKEN") == "true" {
		logger.Warn("enabling insecure token parsing (integration mode)")
	}

	// Avatar object storage is optional
	var avatars *storage.AvatarStorage
	if st, err := storage.NewAvatarStorage(storage.LoadMinIOConfig()); err != nil {
		logger.Warnf("avatar storage unavailable: %v", err)
	} else {
		avatars = st
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"sessions": sessionsSvc != nil,
			"redis":    redisClient != nil || cfg.Redis.Host == "",
			"oidc":     verifier != nil || cfg.OIDC.IssuerURL == "",
			"avatars":  avatars != nil,
		}
		if sessionsSvc == nil || !deps["redis"] || !deps["oidc"] {
			ready = false
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// users API (privileged path's server side)
	usersHandler := handlers.NewUsersHandler(adminStore)
	usersHandler.Register(r.Group("/"))

	// auth flow
	if sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, syncer, sessionsSvc, verifier)
		h.Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered because no session store is available")
	}

	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	handlers.NewCatalogHandler(catalog.New(nil), notify).Register(api)

	if verifier != nil {
		me := api.Group("/", middleware.AuthMiddleware(verifier))
		handlers.NewProfileHandler(syncer, avatars).Register(me)
	} else {
		api.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "OIDC not configured"})
		})
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting storefront services on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// connectStore opens a Mongo-backed user store for the given connection
// string. An empty URI or failed connection yields a store that reports
// unavailable, which is what drives the sync fallback chain.
func connectStore(ctx context.Context, cfg *config.Config, uri, name string) *userstore.MongoStore {
	col := storeCollection(ctx, cfg, uri, "users")
	if col == nil && uri != "" {
		logger.Warnf("%s store: could not connect, path will report unavailable", name)
	}
	return userstore.NewMongoStore(col, name)
}

func storeCollection(ctx context.Context, cfg *config.Config, uri, collection string) *mongo.Collection {
	if uri == "" {
		return nil
	}
	// retry with backoff to tolerate startup races
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, uri, cfg.Store.Timeout)
		if err == nil {
			return client.Database(cfg.Store.Database).Collection(collection)
		}
		logger.Warnf("attempt %d/%d: failed to connect to store: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil
}
