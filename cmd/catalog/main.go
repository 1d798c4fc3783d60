package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/wyfcoding/productcatalog/internal/auth/application"
	authdomain "github.com/wyfcoding/productcatalog/internal/auth/domain"
	authmemory "github.com/wyfcoding/productcatalog/internal/auth/infrastructure/persistence/memory"
	authmysql "github.com/wyfcoding/productcatalog/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/productcatalog/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/productcatalog/internal/auth/interfaces/http"
	catalogapp "github.com/wyfcoding/productcatalog/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/productcatalog/internal/catalog/domain"
	"github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/messaging"
	catalogmemory "github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/persistence/memory"
	catalogmysql "github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/productcatalog/internal/catalog/interfaces/http"
	catalogweb "github.com/wyfcoding/productcatalog/internal/catalog/interfaces/web"
	"github.com/wyfcoding/productcatalog/internal/currency"
	"github.com/wyfcoding/productcatalog/pkg/cache"
	"github.com/wyfcoding/productcatalog/pkg/config"
	"github.com/wyfcoding/productcatalog/pkg/db"
	"github.com/wyfcoding/productcatalog/pkg/logger"
	"github.com/wyfcoding/productcatalog/pkg/middleware"
	"github.com/wyfcoding/productcatalog/pkg/mq"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/catalog/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. 仓储
	var (
		productRepo catalogdomain.ProductRepository
		userRepo    authdomain.UserRepository
		sessionRepo authdomain.SessionRepository
	)

	switch cfg.Database.Driver {
	case "memory":
		// dev 模式：全内存，无外部依赖
		productRepo = catalogmemory.NewProductRepository()
		userRepo = authmemory.NewUserRepository()
		sessionRepo = authmemory.NewSessionRepository()
	default:
		database, err := db.Init(db.Config{
			Driver:             cfg.Database.Driver,
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to connect database", "error", err)
		}
		defer database.Close()

		if cfg.Environment == "dev" {
			if err := database.AutoMigrate(&catalogdomain.Product{}, &authdomain.User{}); err != nil {
				logger.Error(ctx, "failed to migrate database", "error", err)
			}
		}

		productRepo = catalogmysql.NewProductRepository(database.DB)
		userRepo = authmysql.NewUserRepository(database.DB)

		redisCache, err := cache.New(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxPoolSize: cfg.Redis.MaxPoolSize,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to init redis", "error", err)
		}
		defer redisCache.Close()
		sessionRepo = authredis.NewSessionRepository(redisCache.Client())
	}

	// 4. Kafka 事件发布（可选）
	var publisher catalogdomain.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to init kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaPublisher(producer)
	}

	// 5. 汇率表
	converter := currency.Default()
	if len(cfg.Currency.Rates) > 0 {
		entries := make([][3]string, 0, len(cfg.Currency.Rates))
		for _, r := range cfg.Currency.Rates {
			entries = append(entries, [3]string{r.From, r.To, r.Rate})
		}
		rates, err := currency.ParseRates(entries)
		if err != nil {
			logger.Fatal(ctx, "failed to parse currency rates", "error", err)
		}
		converter = currency.New(rates)
	}

	// 6. 应用服务
	productSvc := catalogapp.NewProductService(productRepo, publisher, cfg.Catalog.MaxPrice)
	validator := catalogapp.NewProductValidator(cfg.Catalog.MaxPrice)
	authSvc := authapp.NewAuthService(userRepo, sessionRepo, time.Duration(cfg.Session.TTLHours)*time.Hour)

	if cfg.Environment == "dev" {
		seedUsers(ctx, authSvc)
	}

	// 7. 接口层
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	r.Use(authhttp.SessionMiddleware(authSvc, cfg.Session.CookieName))
	r.LoadHTMLGlob("web/templates/*.html")

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/login") })

	authhttp.NewHandler(authSvc, cfg.Session.CookieName).RegisterRoutes(r)
	catalogweb.NewHandler(productSvc, validator, converter, cfg.Catalog.PageSize).RegisterRoutes(r)
	cataloghttp.NewHandler(productSvc, validator, converter, cfg.Catalog.PageSize).RegisterRoutes(r.Group("/api"))

	// 8. 启动
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      middleware.MethodOverride(r),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}

// seedUsers dev 环境预置演示账号，便于本地登录验证两种角色
func seedUsers(ctx context.Context, svc *authapp.AuthService) {
	seeds := []authapp.RegisterCommand{
		{Name: "Admin", Email: "admin@example.com", Password: "password", IsAdmin: true},
		{Name: "User", Email: "user@example.com", Password: "password"},
	}
	for _, s := range seeds {
		if _, err := svc.Register(ctx, s); err != nil && err != authdomain.ErrEmailTaken {
			logger.Warn(ctx, "failed to seed user", "email", s.Email, "error", err)
		}
	}
}
