// internal/triage/openai.go
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"
)

func init() {
	if err := registry.Global().Register(
		"openai",
		func(cfg ports.ProviderConfig, logger logx.Logger) (ports.TriageProvider, error) {
			return NewOpenAI(cfg, logger), nil
		},
		ports.ProviderMetadata{
			Description:    "OpenAI chat completions API",
			EnvKey:         "OPENAI_API_KEY",
			DefaultModel:   "gpt-4o-mini",
			DefaultBaseURL: "https://api.openai.com",
			Priority:       10, // secundario
		},
	); err != nil {
		logx.New().Warn("failed to register openai provider", "error", err.Error())
	}
}

// openAITemperature temperatura fija de las peticiones de triage.
const openAITemperature = 0.3

// OpenAI implementa ports.TriageProvider contra /v1/chat/completions.
type OpenAI struct {
	client *httpclient.Client
	cfg    ports.ProviderConfig
	logger logx.Logger
}

// NewOpenAI crea el proveedor OpenAI.
func NewOpenAI(cfg ports.ProviderConfig, logger logx.Logger) *OpenAI {
	if logger == nil {
		logger = logx.NewNop()
	}
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &OpenAI{
		client: httpclient.New(httpCfg, logger),
		cfg:    cfg,
		logger: logger.With("provider", "openai"),
	}
}

// Name retorna el nombre del proveedor.
func (o *OpenAI) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate envía el prompt como único mensaje de usuario.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       o.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: openAITemperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode openai request")
	}

	o.logger.Debug("sending prompt", "model", o.cfg.Model, "bytes", len(body))

	resp, err := o.client.PostJSON(ctx, o.cfg.BaseURL+"/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + o.cfg.APIKey,
	})
	if err != nil {
		return "", providerError("openai", err)
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return "", providerError("openai", err)
	}

	data, err := httpclient.ReadBody(resp)
	if err != nil {
		return "", providerError("openai", err)
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("openai: %w: %w", errors.ErrInvalidResponse, err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w: no choices in response", errors.ErrInvalidResponse)
	}

	return decoded.Choices[0].Message.Content, nil
}

// providerError marca el fallo como ErrProviderFailed conservando la causa.
func providerError(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, errors.ErrProviderFailed, err)
}
