package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"brocante/admin-service/internal/app/admin/config"
	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/handler"
	assethttp "brocante/admin-service/internal/app/admin/infrastructure/http"
	"brocante/admin-service/internal/app/admin/processor"
	"brocante/admin-service/internal/app/admin/repository"
	"brocante/admin-service/internal/app/admin/service"
	"brocante/admin-service/internal/app/admin/util"
	"brocante/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init("admin-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// GORM для сущностей каталога, отдельный pgx pool для схем атрибутов
	db, err := connectGorm(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&entity.Category{}, &entity.Subcategory{}, &entity.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := connectPool(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pool.Close()
	log.Println("Successfully connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis кеширует списки категорий и подкатегорий
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// MongoDB хранит журнал действий администраторов
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	mongoCancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	log.Println("Successfully connected to MongoDB")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// События PRODUCT_CREATED/PRODUCT_UPDATED/PRODUCT_DELETED уходят витринам
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	log.Println("Successfully initialized Kafka producer")

	// === КЛИЕНТ ASSET STORAGE ===
	assetClient := assethttp.NewAssetClient(cfg.Assets.BaseURL, cfg.Assets.Timeout)
	if cfg.Assets.AuthToken != "" {
		assetClient.SetAuthToken(cfg.Assets.AuthToken)
	}

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	attributeRepo := repository.NewAttributeRepository(pool)
	auditRepo := repository.NewAuditRepository(mongoClient.Database(cfg.Mongo.Database))

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	catalogService := service.NewCatalogService(
		categoryRepo,
		subcategoryRepo,
		attributeRepo,
		auditRepo,
		redisClient,
		cfg.Catalog.CacheTTL,
	)
	productService := service.NewProductService(
		productRepo,
		categoryRepo,
		subcategoryRepo,
		attributeRepo,
		auditRepo,
		assetClient,
		kafkaProducer,
		cfg.Catalog.StrictAttributes,
	)

	// === ПРОГРЕВ КЕША ПО РАСПИСАНИЮ ===
	cacheRefresher := processor.NewCacheRefresher(
		categoryRepo,
		subcategoryRepo,
		redisClient,
		cfg.Catalog.CacheTTL,
		cfg.Catalog.CacheRefreshSchedule,
	)
	if err := cacheRefresher.Start(); err != nil {
		log.Fatalf("Failed to start cache refresher: %v", err)
	}
	defer cacheRefresher.Stop()

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	catalogHandler := handler.NewCatalogHandler(catalogService)
	productHandler := handler.NewProductHandler(productService)
	uploadHandler := handler.NewUploadHandler(assetClient)
	auditHandler := handler.NewAuditHandler(auditRepo)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)

	router := handler.SetupRouter(catalogHandler, productHandler, uploadHandler, auditHandler, authMiddleware)

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		log.Printf("Starting Admin Service on %s", cfg.Server.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Admin Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Admin Service stopped gracefully")
}

// connectGorm открывает GORM соединение с PostgreSQL с retry logic,
// чтобы пережить старт базы в Docker
func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
	}
	return db, nil
}

// connectPool создает pgx connection pool для репозитория атрибутов
func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		log.Printf("Failed to connect to database (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
	}

	return pool, nil
}
