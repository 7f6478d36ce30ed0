package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"startrade/internal/adapters/ratelimit"
	"startrade/internal/metrics"
	"startrade/pkg/errors"
	"startrade/pkg/logger"
)

// Ensure OpenAIChatProvider implements ChatProvider
var _ ChatProvider = (*OpenAIChatProvider)(nil)

// OpenAIChatConfig configures an OpenAI compatible chat backend (Groq in production)
type OpenAIChatConfig struct {
	Name       string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAIChatProvider talks to any OpenAI compatible chat completions endpoint.
type OpenAIChatProvider struct {
	name        string
	client      openai.Client
	timeout     time.Duration
	rateLimiter ratelimit.Limiter
	log         *logger.Logger
}

// NewOpenAIChatProvider creates a chat provider. A nil limiter disables client side limiting.
func NewOpenAIChatProvider(cfg OpenAIChatConfig, limiter ratelimit.Limiter) (*OpenAIChatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "%s API key", cfg.Name)
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if limiter == nil {
		limiter = ratelimit.NewNoOp()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIChatProvider{
		name:        cfg.Name,
		client:      openai.NewClient(opts...),
		timeout:     cfg.Timeout,
		rateLimiter: limiter,
		log:         logger.Get().With("component", "chat_provider", "provider", cfg.Name),
	}, nil
}

// Name returns provider name.
func (p *OpenAIChatProvider) Name() string { return p.name }

// Chat sends a chat completion request.
func (p *OpenAIChatProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		metrics.LLMCalls.WithLabelValues("completion", req.Model, "rate_limited").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, p.params(req))
	if err != nil {
		err = p.translateError(err)
		metrics.RecordLLMCall("completion", req.Model, time.Since(start), 0, 0, err)
		return nil, err
	}

	metrics.RecordLLMCall("completion", req.Model, time.Since(start),
		completion.Usage.PromptTokens, completion.Usage.CompletionTokens, nil)

	if len(completion.Choices) == 0 {
		return nil, errors.Wrapf(errors.ErrUpstream, "%s returned no choices", p.name)
	}

	choice := completion.Choices[0]
	p.log.Debug("Chat completion finished",
		"model", completion.Model,
		"finish_reason", choice.FinishReason,
		"total_tokens", completion.Usage.TotalTokens,
	)

	return &ChatResponse{
		ID:           completion.ID,
		Model:        completion.Model,
		Content:      choice.Message.Content,
		FinishReason: FinishReason(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

// ChatStream streams a chat completion chunk by chunk.
func (p *OpenAIChatProvider) ChatStream(ctx context.Context, req ChatRequest) (<-chan ChatStreamChunk, <-chan error) {
	chunks := make(chan ChatStreamChunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errCh)

		if err := p.rateLimiter.Wait(ctx); err != nil {
			metrics.LLMCalls.WithLabelValues("stream", req.Model, "rate_limited").Inc()
			errCh <- err
			return
		}

		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		start := time.Now()
		stream := p.client.Chat.Completions.NewStreaming(ctx, p.params(req))
		defer func() { _ = stream.Close() }()

		var usage Usage
		for stream.Next() {
			chunk := stream.Current()

			out := ChatStreamChunk{}
			if len(chunk.Choices) > 0 {
				out.Content = chunk.Choices[0].Delta.Content
				out.FinishReason = FinishReason(chunk.Choices[0].FinishReason)
			}
			if chunk.Usage.TotalTokens > 0 {
				usage = Usage{
					PromptTokens:     int(chunk.Usage.PromptTokens),
					CompletionTokens: int(chunk.Usage.CompletionTokens),
					TotalTokens:      int(chunk.Usage.TotalTokens),
				}
				out.Usage = &usage
			}
			if out.Content == "" && out.FinishReason == "" && out.Usage == nil {
				continue
			}

			select {
			case chunks <- out:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}

		err := stream.Err()
		if err != nil {
			err = p.translateError(err)
			errCh <- err
		}
		metrics.RecordLLMCall("stream", req.Model, time.Since(start),
			int64(usage.PromptTokens), int64(usage.CompletionTokens), err)
	}()

	return chunks, errCh
}

func (p *OpenAIChatProvider) params(req ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}

// translateError maps HTTP 429 onto ErrRateLimitExceeded
func (p *OpenAIChatProvider) translateError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return errors.Wrapf(errors.ErrRateLimitExceeded, "%s: %v", p.name, err)
	}
	return errors.Wrapf(errors.ErrUpstream, "%s chat completion: %v", p.name, err)
}
