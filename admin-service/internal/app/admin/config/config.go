package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки Admin Service
// Включает конфигурацию HTTP сервера, PostgreSQL, Redis, Kafka, MongoDB,
// asset storage и JWT
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mongo    MongoConfig
	Assets   AssetsConfig
	JWT      JWTConfig
	Catalog  CatalogConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Хранит категории, подкатегории, атрибуты и товары
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки Redis для кеширования списков каталога
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - настройки Kafka для событий каталога
// События PRODUCT_CREATED/PRODUCT_UPDATED/PRODUCT_DELETED уходят в топик catalog_events
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MongoConfig - настройки MongoDB для журнала действий администраторов
type MongoConfig struct {
	URI      string
	Database string
}

// AssetsConfig - настройки клиента asset storage
// Внешний сервис принимает бинарное изображение и возвращает постоянный URL
type AssetsConfig struct {
	BaseURL string
	Timeout time.Duration
	// AuthToken - сервисный JWT для запросов к asset storage.
	// Пустое значение означает, что asset storage не требует аутентификации.
	AuthToken string
}

// JWTConfig - настройки проверки JWT токенов
// Токены выпускает внешний auth сервис, секрет должен совпадать
type JWTConfig struct {
	Secret string
}

// CatalogConfig - поведение каталога
type CatalogConfig struct {
	// StrictAttributes включает строгую проверку ключей extra_attributes
	// по схемам категории и подкатегории. По умолчанию выключено:
	// неизвестные ключи допускаются.
	StrictAttributes bool
	// CacheRefreshSchedule - cron расписание прогрева кеша списков
	CacheRefreshSchedule string
	// CacheTTL - время жизни кешированных списков
	CacheTTL time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	strictAttrs, err := strconv.ParseBool(getEnv("CATALOG_STRICT_ATTRIBUTES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_STRICT_ATTRIBUTES value: %w", err)
	}

	assetTimeout, err := time.ParseDuration(getEnv("ASSET_STORAGE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ASSET_STORAGE_TIMEOUT value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "admin_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "admin_service"),
		},
		Assets: AssetsConfig{
			BaseURL:   getEnv("ASSET_STORAGE_URL", "http://localhost:8090"),
			Timeout:   assetTimeout,
			AuthToken: getEnv("ASSET_STORAGE_TOKEN", ""),
		},
		JWT: JWTConfig{
			// Секрет должен совпадать с auth сервисом, выпускающим токены
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Catalog: CatalogConfig{
			StrictAttributes:     strictAttrs,
			CacheRefreshSchedule: getEnv("CATALOG_CACHE_REFRESH_SCHEDULE", "@every 30m"),
			CacheTTL:             cacheTTL,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает строку подключения к PostgreSQL в формате URL для pgx
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
