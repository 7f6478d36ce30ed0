package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"startrade/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Telegram      TelegramConfig
	AI            AIConfig
	Sentiment     SentimentConfig
	MarketData    MarketDataConfig
	RateLimits    RateLimitConfig
	Trading       TradingConfig
	Scheduler     SchedulerConfig
	ML            MLConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"startrade"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port           int           `envconfig:"HTTP_PORT" default:"8000"`
	FrontendOrigin string        `envconfig:"FRONTEND_ORIGIN"`
	UpdateInterval time.Duration `envconfig:"WS_UPDATE_INTERVAL" default:"60s"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"startrade"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" required:"true"`
	GroupID      string        `envconfig:"KAFKA_GROUP_ID" default:"startrade"`
	BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
}

// TelegramConfig is optional; alerts are only logged when BotToken is empty.
type TelegramConfig struct {
	BotToken string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatIDs  []int64 `envconfig:"TELEGRAM_ALERT_CHAT_IDS"`
}

type AIConfig struct {
	GroqKey          string        `envconfig:"GROQ_API_KEY" required:"true"`
	GroqBaseURL      string        `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	ChatModel        string        `envconfig:"AI_CHAT_MODEL" default:"llama-3.3-70b-versatile"`
	QuickModel       string        `envconfig:"AI_QUICK_MODEL" default:"llama-3.1-8b-instant"`
	RequestsPerMin   int           `envconfig:"AI_REQUESTS_PER_MINUTE" default:"30"`
	Timeout          time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	OpenAIKey        string        `envconfig:"OPENAI_API_KEY" required:"true"`
	EmbeddingBaseURL string        `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel   string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDims    int           `envconfig:"EMBEDDING_DIMENSIONS" default:"384"`
}

type SentimentConfig struct {
	HuggingFaceToken string        `envconfig:"HUGGINGFACE_API_TOKEN"`
	InferenceURL     string        `envconfig:"HUGGINGFACE_INFERENCE_URL" default:"https://api-inference.huggingface.co/models"`
	FinancialModel   string        `envconfig:"FINBERT_MODEL" default:"ProsusAI/finbert"`
	SocialModel      string        `envconfig:"SOCIAL_SENTIMENT_MODEL" default:"cardiffnlp/twitter-roberta-base-sentiment-latest"`
	Timeout          time.Duration `envconfig:"HUGGINGFACE_TIMEOUT" default:"30s"`
}

type MarketDataConfig struct {
	AlphaVantageKey     string   `envconfig:"ALPHA_VANTAGE_API_KEY"`
	AlphaVantageBaseURL string   `envconfig:"ALPHA_VANTAGE_BASE_URL" default:"https://www.alphavantage.co/query"`
	FinnhubKey          string   `envconfig:"FINN_HUB_API_KEY"`
	FinnhubBaseURL      string   `envconfig:"FINN_HUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	YahooBaseURL        string   `envconfig:"YAHOO_BASE_URL" default:"https://query1.finance.yahoo.com"`
	RedditClientID      string   `envconfig:"REDDIT_CLIENT_ID"`
	RedditClientSecret  string   `envconfig:"REDDIT_CLIENT_SECRET"`
	RedditSubreddits    []string `envconfig:"REDDIT_SUBREDDITS" default:"stocks,investing,wallstreetbets"`
}

// RateLimitConfig holds per-source request budgets.
type RateLimitConfig struct {
	AlphaVantagePerMinute int `envconfig:"ALPHA_VANTAGE_RATE_LIMIT" default:"5"`
	YahooPerHour          int `envconfig:"YFINANCE_RATE_LIMIT" default:"2000"`
	SocialPer15Min        int `envconfig:"TWITTER_RATE_LIMIT" default:"15"`
	FinnhubPerMinute      int `envconfig:"FINN_HUB_RATE_LIMIT" default:"60"`
}

type TradingConfig struct {
	Watchlist         []string `envconfig:"DEFAULT_WATCHLIST" default:"AAPL,GOOGL,MSFT,TSLA,NVDA"`
	Portfolio         []string `envconfig:"PORTFOLIO_SYMBOLS"`
	MinCompositeScore float64  `envconfig:"MIN_COMPOSITE_SCORE" default:"65"`
	MaxPortfolioSize  int      `envconfig:"MAX_PORTFOLIO_SIZE" default:"20"`
	AnalysisWorkers   int      `envconfig:"ANALYSIS_CONCURRENCY" default:"4"`
}

type SchedulerConfig struct {
	UpdateCron           string        `envconfig:"UPDATE_SCHEDULE_CRON" default:"0 16 * * 1-5"`
	Timezone             string        `envconfig:"SCHEDULER_TIMEZONE" default:"America/New_York"`
	DailyUpdateTimeout   time.Duration `envconfig:"DAILY_UPDATE_TIMEOUT" default:"45m"`
	SentimentUpdateHours int           `envconfig:"SENTIMENT_UPDATE_HOURS" default:"6"`
	IngestDaysBack       int           `envconfig:"INGEST_DAYS_BACK" default:"7"`
}

// SentimentRefreshInterval converts SENTIMENT_UPDATE_HOURS into a ticker interval.
func (c SchedulerConfig) SentimentRefreshInterval() time.Duration {
	if c.SentimentUpdateHours <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(c.SentimentUpdateHours) * time.Hour
}

type MLConfig struct {
	ModelPath string `envconfig:"ML_MODEL_PATH"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
