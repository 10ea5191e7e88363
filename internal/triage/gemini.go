// internal/triage/gemini.go
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

// Auto-registro del proveedor al importar el package
func init() {
	if err := registry.Global().Register(
		"gemini",
		func(cfg ports.ProviderConfig, logger logx.Logger) (ports.TriageProvider, error) {
			return NewGemini(cfg, logger), nil
		},
		ports.ProviderMetadata{
			Description:    "Google Gemini generateContent API",
			EnvKey:         "GEMINI_API_KEY",
			DefaultModel:   "gemini-1.5-flash",
			DefaultBaseURL: "https://generativelanguage.googleapis.com",
			Priority:       20, // primario
		},
	); err != nil {
		logx.New().Warn("failed to register gemini provider", "error", err.Error())
	}
}

// Gemini implementa ports.TriageProvider contra la API de Google.
type Gemini struct {
	client *httpclient.Client
	cfg    ports.ProviderConfig
	logger logx.Logger
}

// NewGemini crea el proveedor Gemini.
func NewGemini(cfg ports.ProviderConfig, logger logx.Logger) *Gemini {
	if logger == nil {
		logger = logx.NewNop()
	}
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &Gemini{
		client: httpclient.New(httpCfg, logger),
		cfg:    cfg,
		logger: logger.With("provider", "gemini"),
	}
}

// Name retorna el nombre del proveedor.
func (g *Gemini) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate envía el prompt a models/{model}:generateContent.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode gemini request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)
	g.logger.Debug("sending prompt", "model", g.cfg.Model, "bytes", len(body))

	resp, err := g.client.PostJSON(ctx, url, body, map[string]string{"x-goog-api-key": g.cfg.APIKey})
	if err != nil {
		return "", providerError("gemini", err)
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return "", providerError("gemini", err)
	}

	data, err := httpclient.ReadBody(resp)
	if err != nil {
		return "", providerError("gemini", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("gemini: %w: %w", errors.ErrInvalidResponse, err)
	}

	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: %w: prompt blocked (%s)", errors.ErrProviderFailed, decoded.PromptFeedback.BlockReason)
	}

	var sb strings.Builder
	if len(decoded.Candidates) > 0 {
		for _, part := range decoded.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("gemini: %w: no text in response", errors.ErrInvalidResponse)
	}

	return sb.String(), nil
}
