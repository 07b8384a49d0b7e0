package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"price-manager-service/controllers"
	"price-manager-service/database"
	"price-manager-service/events"
	"price-manager-service/logger"
	"price-manager-service/middleware"
	"price-manager-service/models"
	awspkg "price-manager-service/pkg/aws"
	"price-manager-service/providers"
	"price-manager-service/repository"
	"price-manager-service/routes"
	"price-manager-service/services"
	"price-manager-service/storage"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "price-manager-service"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	awsCfg, err := awspkg.LoadAWSConfig(rootCtx, cfg.AWSSettings())
	if err != nil {
		panic("failed to load AWS config: " + err.Error())
	}

	var (
		log      *zap.Logger
		shipErr  error
		logGroup *awspkg.CloudWatchLogsClient
	)
	if cfg.CloudWatchEnabled {
		logGroup, shipErr = awspkg.NewCloudWatchLogsClient(rootCtx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
	}
	if logGroup != nil {
		log, err = logger.New(cfg.AppEnv, logGroup)
	} else {
		log, err = logger.New(cfg.AppEnv, nil)
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	if shipErr != nil {
		log.Warn("CloudWatch log shipping disabled", zap.Error(shipErr))
	}

	// --- 1. Infrastructure ---

	var (
		mongoClient *mongo.Client
		configRepo  repository.ConfigRepository
	)
	switch cfg.ConfigStore {
	case "dynamodb":
		configRepo = repository.NewDynamoConfigRepository(awspkg.NewDynamoClient(awsCfg), cfg.DynamoDBConfigTable)
	default:
		client, db, err := database.ConnectMongo(rootCtx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		configRepo = repository.NewMongoConfigRepository(db)
	}
	log.Info("Config store ready", zap.String("backend", cfg.ConfigStore))

	var (
		pg      *gorm.DB
		journal repository.PriceChangeRepository
	)
	if cfg.JournalEnabled() {
		pg, err = database.ConnectPostgres(cfg.Postgres, log, &models.PriceChange{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		journal = repository.NewGormPriceChangeRepository(pg)
	} else {
		log.Info("POSTGRES_USER not set, price change journal disabled")
	}

	var (
		redisClient *redis.Client
		jobs        repository.ImportJobRepository
	)
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(rootCtx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		jobs = repository.NewRedisImportJobRepository(redisClient)
	} else {
		log.Info("REDIS_URL not set, async imports disabled")
	}

	var files storage.FileStore
	switch cfg.StorageBackend {
	case "s3":
		files = storage.NewS3FileStore(awspkg.NewS3Client(awsCfg, cfg.AWSEndpoint != ""), cfg.BulkBucket)
	default:
		local, err := storage.NewLocalFileStore(cfg.BulkStorageDir)
		if err != nil {
			log.Fatal("Failed to prepare bulk storage directory", zap.Error(err))
		}
		files = local
	}

	var publisher events.Publisher = events.NopPublisher{}
	switch cfg.EventsBackend {
	case "sns":
		publisher = events.NewSNSPublisher(awspkg.NewSNSClient(awsCfg), cfg.PriceEventsTopicARN)
	case "kafka":
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	log.Info("Price events backend", zap.String("backend", cfg.EventsBackend))

	metrics := awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)

	// --- 2. Dependency Injection ---

	gateways := providers.NewMagentoGatewayFactory(log)
	settingsService := services.NewSettingsService(configRepo, log)
	priceService := services.NewPriceService(gateways, journal, publisher, metrics, log)
	bulkService := services.NewBulkService(services.BulkDeps{
		Gateways:       gateways,
		Settings:       settingsService,
		Journal:        journal,
		Publisher:      publisher,
		Metrics:        metrics,
		Files:          files,
		Jobs:           jobs,
		ArchiveExports: cfg.ArchiveExports,
	}, log)

	ctrls := routes.Controllers{
		Price:    controllers.NewPriceController(priceService),
		Settings: controllers.NewSettingsController(settingsService),
		Bulk:     controllers.NewBulkController(bulkService),
	}

	workerDone := make(chan struct{})
	if jobs != nil {
		go func() {
			defer close(workerDone)
			services.RunImportWorker(rootCtx, jobs, bulkService, log)
		}()
	} else {
		close(workerDone)
	}

	// --- 3. HTTP Server & Middleware ---

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = controllers.MaxUploadSize
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(metrics, serviceName))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "OK",
			"service":        serviceName,
			"config_store":   cfg.ConfigStore,
			"journal":        journal != nil,
			"async_imports":  jobs != nil,
			"events_backend": cfg.EventsBackend,
		})
	})

	routes.RegisterRoutes(r, ctrls, routes.Options{
		OperatorSecret: cfg.OperatorJWTSecret,
		RequestTimeout: cfg.RequestTimeout,
		BulkTimeout:    cfg.BulkRequestTimeout,
	})

	// --- 4. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Price Manager Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Price Manager Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stop()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn("Import worker did not stop in time")
	}

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := database.ClosePostgres(pg); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}
	if err := database.DisconnectMongo(mongoClient); err != nil {
		log.Error("Failed to disconnect MongoDB", zap.Error(err))
	}

	log.Info("Price Manager Service stopped gracefully")
}
