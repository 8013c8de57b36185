package provider

import (
	"net/url"
	"strings"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/prompt"
	"github.com/nvpkp/lexi/internal/utils"
)

// AzureAPIVersion is the api-version sent to Azure OpenAI deployments
const AzureAPIVersion = "2023-12-01-preview"

// RequestBuilder describes the wire format of a provider
type RequestBuilder interface {
	// Endpoint returns the full request URL
	Endpoint() string
	// Headers returns the headers required for the request
	Headers() map[string]string
	// Body returns the JSON request body for a prompt pair
	Body(pair prompt.Pair) any
	// ResultPath is the gjson path of the generated text in a success response
	ResultPath() string
}

// ChatMessage represents a message in a chat request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI Chat Completions body, also accepted by Azure
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// MessagesRequest is the Anthropic Messages API body
type MessagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []ChatMessage `json:"messages"`
}

// GenerateRequest is the Ollama generate body
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func chatBody(cfg models.Configuration, pair prompt.Pair) ChatRequest {
	return ChatRequest{
		Model: cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: pair.System},
			{Role: "user", Content: pair.User},
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// versionedEndpoint appends path (which starts with /v1/) to base, skipping
// the version segment when base already ends with it
func versionedEndpoint(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return utils.JoinURL(base, strings.TrimPrefix(path, "/v1"))
	}
	return utils.JoinURL(base, path)
}

func baseOrDefault(cfg models.Configuration, k Kind) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return Describe(k).DefaultBaseURL
}

// OpenAIRequestBuilder builds requests for the OpenAI Chat Completions API
type OpenAIRequestBuilder struct {
	cfg models.Configuration
}

func (b *OpenAIRequestBuilder) Endpoint() string {
	return versionedEndpoint(baseOrDefault(b.cfg, OpenAI), "/v1/chat/completions")
}

func (b *OpenAIRequestBuilder) Headers() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + b.cfg.APIKey,
	}
}

func (b *OpenAIRequestBuilder) Body(pair prompt.Pair) any {
	return chatBody(b.cfg, pair)
}

func (b *OpenAIRequestBuilder) ResultPath() string {
	return "choices.0.message.content"
}

// AnthropicRequestBuilder builds requests for the Anthropic Messages API.
// Both prompts travel in a single user message.
type AnthropicRequestBuilder struct {
	cfg models.Configuration
}

func (b *AnthropicRequestBuilder) Endpoint() string {
	return versionedEndpoint(baseOrDefault(b.cfg, Anthropic), "/v1/messages")
}

func (b *AnthropicRequestBuilder) Headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         b.cfg.APIKey,
		"anthropic-version": "2023-06-01",
	}
}

func (b *AnthropicRequestBuilder) Body(pair prompt.Pair) any {
	return MessagesRequest{
		Model:     b.cfg.Model,
		MaxTokens: b.cfg.MaxTokens,
		Messages:  []ChatMessage{{Role: "user", Content: pair.Combined()}},
	}
}

func (b *AnthropicRequestBuilder) ResultPath() string {
	return "content.0.text"
}

// OllamaRequestBuilder builds requests for a local Ollama server
type OllamaRequestBuilder struct {
	cfg models.Configuration
}

func (b *OllamaRequestBuilder) Endpoint() string {
	return utils.JoinURL(baseOrDefault(b.cfg, Local), "/api/generate")
}

func (b *OllamaRequestBuilder) Headers() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func (b *OllamaRequestBuilder) Body(pair prompt.Pair) any {
	return GenerateRequest{Model: b.cfg.Model, Prompt: pair.Combined(), Stream: false}
}

func (b *OllamaRequestBuilder) ResultPath() string {
	return "response"
}

// AzureRequestBuilder builds requests for an Azure OpenAI deployment named
// after the configured model
type AzureRequestBuilder struct {
	cfg models.Configuration
}

func (b *AzureRequestBuilder) Endpoint() string {
	path := "/openai/deployments/" + url.PathEscape(b.cfg.Model) + "/chat/completions"
	return utils.JoinURL(b.cfg.BaseURL, path) + "?api-version=" + AzureAPIVersion
}

func (b *AzureRequestBuilder) Headers() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"api-key":      b.cfg.APIKey,
	}
}

func (b *AzureRequestBuilder) Body(pair prompt.Pair) any {
	return chatBody(b.cfg, pair)
}

func (b *AzureRequestBuilder) ResultPath() string {
	return "choices.0.message.content"
}

// NewRequestBuilder returns the wire format for k
func NewRequestBuilder(k Kind, cfg models.Configuration) RequestBuilder {
	switch k {
	case OpenAI:
		return &OpenAIRequestBuilder{cfg: cfg}
	case Anthropic:
		return &AnthropicRequestBuilder{cfg: cfg}
	case Local:
		return &OllamaRequestBuilder{cfg: cfg}
	case Azure:
		return &AzureRequestBuilder{cfg: cfg}
	default:
		panic("provider: unhandled kind " + k.String())
	}
}
