// Copyright 2025 Business Plan Creator
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package azure provides the hosted-model provider for Azure OpenAI Service.
// It speaks the chat-completions wire format against a named deployment and
// authenticates with either an api-key header or an Entra ID bearer token
// minted from the ambient Azure credential chain.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm"
)

const (
	// DefaultAPIVersion is the Azure OpenAI API version used when none is
	// configured. Matches the deployment scripts.
	DefaultAPIVersion = "2024-02-15-preview"

	// DefaultTimeout is the default HTTP timeout for completions.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxTokens is the default max output tokens for completions.
	DefaultMaxTokens = 4096

	// cognitiveScope is the token scope for Azure OpenAI data-plane calls.
	cognitiveScope = "https://cognitiveservices.azure.com/.default"

	// tokenRefreshMargin renews bearer tokens this long before expiry.
	tokenRefreshMargin = 5 * time.Minute
)

// HTTPClient is an interface for HTTP client operations (enables testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for the Azure OpenAI provider.
type Config struct {
	Endpoint       string                 // Required: Azure OpenAI endpoint URL
	DeploymentName string                 // Required: Azure deployment name
	APIKey         string                 // Optional: api-key auth; empty selects bearer auth
	Credential     azcore.TokenCredential // Optional: credential for bearer auth; defaults to DefaultAzureCredential
	APIVersion     string                 // Optional: API version (default: 2024-02-15-preview)
	Timeout        time.Duration          // Optional: HTTP timeout (default: 120s)
}

// Provider implements llm.Provider for Azure OpenAI.
type Provider struct {
	endpoint       string
	deploymentName string
	apiKey         string
	apiVersion     string
	credential     azcore.TokenCredential

	client HTTPClient

	mu          sync.RWMutex
	healthy     bool
	bearerToken string
	tokenExpiry time.Time
}

// NewProvider creates a new Azure OpenAI provider instance.
//
// When cfg.APIKey is empty the provider authenticates with bearer tokens from
// cfg.Credential, falling back to azidentity.NewDefaultAzureCredential (which
// covers az login locally and Managed Identity in Azure).
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure OpenAI endpoint is required")
	}

	if cfg.DeploymentName == "" {
		return nil, fmt.Errorf("azure OpenAI deployment name is required")
	}

	// Normalize endpoint (remove trailing slash)
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	cred := cfg.Credential
	if cfg.APIKey == "" && cred == nil {
		var err error
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build Azure credential: %w", err)
		}
	}

	return &Provider{
		endpoint:       cfg.Endpoint,
		deploymentName: cfg.DeploymentName,
		apiKey:         cfg.APIKey,
		apiVersion:     cfg.APIVersion,
		credential:     cred,
		client:         &http.Client{Timeout: cfg.Timeout},
		healthy:        true,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "azure-openai"
}

// Deployment returns the configured deployment name.
func (p *Provider) Deployment() string {
	return p.deploymentName
}

// IsHealthy returns whether the provider is healthy.
func (p *Provider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *Provider) setHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}

// bearer returns a cached Entra ID token, minting a fresh one near expiry.
func (p *Provider) bearer(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bearerToken != "" && time.Now().Before(p.tokenExpiry.Add(-tokenRefreshMargin)) {
		return p.bearerToken, nil
	}

	tok, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveScope},
	})
	if err != nil {
		return "", &APIError{
			StatusCode: http.StatusUnauthorized,
			Code:       "credential_error",
			Message:    fmt.Sprintf("failed to acquire Azure token: %v", err),
		}
	}

	p.bearerToken = tok.Token
	p.tokenExpiry = tok.ExpiresOn
	return p.bearerToken, nil
}

// setAuthHeaders sets the appropriate authentication headers.
func (p *Provider) setAuthHeaders(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("api-key", p.apiKey)
		return nil
	}

	token, err := p.bearer(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// buildURL constructs the Azure OpenAI chat-completions URL.
func (p *Provider) buildURL(deploymentName string) string {
	// https://{resource}.openai.azure.com/openai/deployments/{deployment}/chat/completions?api-version={version}
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, deploymentName, p.apiVersion)
}

// Complete generates a chat completion for the given request.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()

	deploymentName := p.deploymentName
	if req.Model != "" {
		deploymentName = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	apiReq := map[string]any{
		"messages":    wireMessages(req.Messages),
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
	}

	if len(req.Tools) > 0 {
		apiReq["tools"] = wireTools(req.Tools)
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.buildURL(deploymentName), bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := p.setAuthHeaders(ctx, httpReq); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return nil, fmt.Errorf("azure OpenAI API error: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			p.setHealthy(false)
		}
		return nil, parseAPIError(resp.StatusCode, body)
	}

	p.setHealthy(true)

	var apiResp chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := &llm.CompletionResponse{
		Model:   apiResp.Model,
		Latency: time.Since(start),
		Usage: llm.UsageStats{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}

	if len(apiResp.Choices) > 0 {
		choice := apiResp.Choices[0]
		out.Content = choice.Message.Content
		out.FinishReason = mapFinishReason(choice.FinishReason)
		for _, tc := range choice.Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	return out, nil
}

// wireMessages converts history messages to the chat-completions format.
func wireMessages(messages []llm.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		wm := map[string]any{
			"role":    m.Role,
			"content": m.Content,
		}
		if m.ToolCallID != "" {
			wm["tool_call_id"] = m.ToolCallID
		}
		if len(m.ToolCalls) > 0 {
			calls := make([]map[string]any, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, map[string]any{
					"id":   tc.ID,
					"type": "function",
					"function": map[string]any{
						"name":      tc.Name,
						"arguments": tc.Arguments,
					},
				})
			}
			wm["tool_calls"] = calls
		}
		out = append(out, wm)
	}
	return out
}

// wireTools converts tool definitions to the chat-completions format.
func wireTools(tools []llm.ToolDefinition) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return out
}

// parseAPIError parses an API error response.
func parseAPIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("azure OpenAI API error (status %d): %s", statusCode, string(body))
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       errResp.Error.Code,
		Type:       errResp.Error.Type,
		Message:    errResp.Error.Message,
	}
}

// mapFinishReason maps Azure OpenAI finish reasons to standard reasons.
func mapFinishReason(reason string) string {
	switch reason {
	case "length":
		return "max_tokens"
	default:
		return reason
	}
}

// APIError represents an Azure OpenAI API error.
type APIError struct {
	StatusCode int
	Code       string
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azure OpenAI API error (status %d, code %s): %s",
		e.StatusCode, e.Code, e.Message)
}

// IsRateLimitError returns true if this is a rate limit error.
func (e *APIError) IsRateLimitError() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == "rate_limit_exceeded"
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden ||
		e.Code == "invalid_api_key" ||
		e.Code == "credential_error"
}

// SetHTTPClient sets a custom HTTP client for testing.
func (p *Provider) SetHTTPClient(client HTTPClient) {
	p.client = client
}

// Internal API types (OpenAI-compatible format)

type chatCompletionsResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
