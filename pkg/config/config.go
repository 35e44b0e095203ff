package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Crawler  CrawlerConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string // override for tests or proxies, empty means api.openai.com
	ChatModel      string
	EmbeddingModel string
}

type CrawlerConfig struct {
	BaseURL         string
	ListURL         string
	BoardIdx        string
	UserAgent       string
	DownloadDir     string
	Year            string
	Month           string
	MaxPages        int
	MaxItemsPerPage int
	PageDelay       time.Duration
	FileDelay       time.Duration
	ListTimeout     time.Duration
	FileTimeout     time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env is fine: plain environment variables work for Docker/K8s

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxPages, _ := strconv.Atoi(getEnv("CRAWL_MAX_PAGES", "3"))
	maxItems, _ := strconv.Atoi(getEnv("CRAWL_MAX_ITEMS_PER_PAGE", "10"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "grantseek"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Crawler: CrawlerConfig{
			BaseURL:         getEnv("CRAWL_BASE_URL", "https://www.mss.go.kr"),
			ListURL:         getEnv("CRAWL_LIST_URL", "https://www.mss.go.kr/site/smba/ex/bbs/List.do"),
			BoardIdx:        getEnv("CRAWL_BOARD_IDX", "310"),
			UserAgent:       getEnv("CRAWL_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			DownloadDir:     getEnv("CRAWL_DOWNLOAD_DIR", "mss_downloads"),
			Year:            getEnv("CRAWL_YEAR", "2025"),
			Month:           getEnv("CRAWL_MONTH", "00"),
			MaxPages:        maxPages,
			MaxItemsPerPage: maxItems,
			PageDelay:       time.Second,
			FileDelay:       500 * time.Millisecond,
			ListTimeout:     15 * time.Second,
			FileTimeout:     30 * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
