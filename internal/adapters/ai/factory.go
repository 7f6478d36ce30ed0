package ai

import (
	"github.com/redis/go-redis/v9"

	"startrade/internal/adapters/config"
	"startrade/internal/adapters/ratelimit"
)

// ProviderGroq is the name used for metrics, logs and the shared rate limit key
const ProviderGroq = "groq"

// NewGroqProvider builds the chat provider from config. With a redis client
// the request budget is shared across replicas, otherwise it is process local.
func NewGroqProvider(cfg config.AIConfig, redisClient *redis.Client) (*OpenAIChatProvider, error) {
	limiter := ratelimit.New("llm:"+ProviderGroq, ratelimit.PerMinute(cfg.RequestsPerMin), redisClient)

	return NewOpenAIChatProvider(OpenAIChatConfig{
		Name:       ProviderGroq,
		APIKey:     cfg.GroqKey,
		BaseURL:    cfg.GroqBaseURL,
		Timeout:    cfg.Timeout,
		MaxRetries: 2,
	}, limiter)
}
