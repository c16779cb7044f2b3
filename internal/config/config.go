package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Scraper  ScraperConfig
	Output   OutputConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	QueueKey string
}

type ScraperConfig struct {
	Headless          bool
	TimeoutSeconds    int
	DelayMinSeconds   int
	DelayMaxSeconds   int
	BlockSize         int
	BlockPauseMinutes int
	Currencies        []string
}

type OutputConfig struct {
	ChartsPath    string
	StoreInfoPath string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "steamdb"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			QueueKey: getEnv("REDIS_QUEUE_KEY", "queue:scrape_tasks"),
		},
		Scraper: ScraperConfig{
			Headless:          getEnvBool("SCRAPER_HEADLESS", true),
			TimeoutSeconds:    getEnvInt("SCRAPER_TIMEOUT", 60),
			DelayMinSeconds:   getEnvInt("SCRAPER_DELAY_MIN", 5),
			DelayMaxSeconds:   getEnvInt("SCRAPER_DELAY_MAX", 10),
			BlockSize:         getEnvInt("SCRAPER_BLOCK_SIZE", 50),
			BlockPauseMinutes: getEnvInt("SCRAPER_BLOCK_PAUSE", 10),
			Currencies:        getEnvList("SCRAPER_CURRENCIES", nil),
		},
		Output: OutputConfig{
			ChartsPath:    getEnv("OUTPUT_CHARTS", "charts.csv"),
			StoreInfoPath: getEnv("OUTPUT_STORE_INFO", "store_info.csv"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Scraper.DelayMinSeconds < 0 || c.Scraper.DelayMaxSeconds < c.Scraper.DelayMinSeconds {
		return fmt.Errorf("invalid scraper delay range: %d..%d",
			c.Scraper.DelayMinSeconds, c.Scraper.DelayMaxSeconds)
	}

	if c.Scraper.BlockSize < 0 {
		return fmt.Errorf("scraper block size must not be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, trimming whitespace
// around each element.
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
