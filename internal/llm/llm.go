package llm

import (
	"net/http"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI-compatible client for the provider. A nil
// httpClient uses the library default.
func NewClient(cfg config.ProviderConfig, httpClient *http.Client) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}

	return openai.NewClientWithConfig(config)
}
