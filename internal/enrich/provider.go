package enrich

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/taskdeck/internal/config"
	"github.com/dohr-michael/taskdeck/internal/secrets"
)

const (
	defaultOllamaBaseURL  = "http://localhost:11434"
	defaultMistralBaseURL = "https://api.mistral.ai/v1"
	defaultMistralModel   = "mistral-small-latest"
)

// newChatModel creates the chat model for a driver config. Mistral speaks
// the OpenAI wire protocol, so it shares that client.
func newChatModel(ctx context.Context, cfg config.EnrichmentConfig, keyPath string) (model.BaseChatModel, error) {
	timeout := 60 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	switch strings.ToLower(cfg.Driver) {
	case "openai":
		apiKey, err := resolveAPIKey(cfg, keyPath, "OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		modelConfig := &einoopenai.ChatModelConfig{
			APIKey:  apiKey,
			Model:   cfg.Model,
			Timeout: timeout,
		}
		if cfg.BaseURL != "" {
			modelConfig.BaseURL = cfg.BaseURL
		}
		return einoopenai.NewChatModel(ctx, modelConfig)
	case "anthropic":
		apiKey, err := resolveAPIKey(cfg, keyPath, "ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return newAnthropicModel(apiKey, cfg.Model, cfg.BaseURL, timeout), nil
	case "mistral":
		apiKey, err := resolveAPIKey(cfg, keyPath, "MISTRAL_API_KEY")
		if err != nil {
			return nil, err
		}
		modelName := cfg.Model
		if modelName == "" {
			modelName = defaultMistralModel
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultMistralBaseURL
		}
		return einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
			APIKey:  apiKey,
			Model:   modelName,
			BaseURL: baseURL,
			Timeout: timeout,
		})
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaBaseURL
		}
		return einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}

// resolveAPIKey resolves the driver credential: the configured value, then
// the named env var. Either may be an ENC[age:...] blob.
func resolveAPIKey(cfg config.EnrichmentConfig, keyPath, envVar string) (string, error) {
	v := strings.TrimSpace(cfg.APIKey)
	if v == "" {
		v = os.Getenv(envVar)
	}
	if v == "" {
		return "", fmt.Errorf("%s not set", envVar)
	}
	plain, err := secrets.Resolve(v, keyPath)
	if err != nil {
		return "", fmt.Errorf("resolve api key: %w", err)
	}
	return plain, nil
}
