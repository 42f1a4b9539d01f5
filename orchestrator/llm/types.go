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

package llm

import (
	"time"
)

// Message roles in a conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn in a conversation history.
//
// Assistant messages that requested tool execution carry the ToolCalls the
// model emitted; tool messages carry the ToolCallID they answer. Both must be
// resent verbatim on the follow-up completion so the model can correlate
// results with its requests.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	// ID correlates the call with its tool-role result message.
	ID string `json:"id"`

	// Name is the registered tool name the model wants to invoke.
	Name string `json:"name"`

	// Arguments is the raw JSON argument object as emitted by the model.
	Arguments string `json:"arguments"`
}

// ToolDefinition describes a callable tool advertised to the model.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Parameters is a JSON Schema object describing the tool's arguments.
	Parameters map[string]any `json:"parameters"`
}

// CompletionRequest encapsulates all parameters for a chat completion.
type CompletionRequest struct {
	// Messages is the full conversation history, oldest first.
	Messages []Message `json:"messages"`

	// Tools advertises callable tools for this completion. Empty means the
	// model must answer in plain text.
	Tools []ToolDefinition `json:"tools,omitempty"`

	// MaxTokens limits the maximum number of tokens in the response.
	// If 0, provider defaults are used.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64 `json:"temperature,omitempty"`

	// Model overrides the provider's default deployment/model.
	Model string `json:"model,omitempty"`
}

// CompletionResponse contains the result of a chat completion.
type CompletionResponse struct {
	// Content is the generated text response. Empty when the model chose to
	// call tools instead of answering.
	Content string `json:"content"`

	// ToolCalls lists the tool invocations the model requested, if any.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Model is the actual model used (may differ from requested).
	Model string `json:"model"`

	// FinishReason indicates why generation stopped.
	// Common values: "stop", "max_tokens", "tool_calls", "content_filter".
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage contains token usage statistics.
	Usage UsageStats `json:"usage"`

	// Latency is the time taken to generate the response.
	Latency time.Duration `json:"latency"`
}

// UsageStats tracks token usage for monitoring.
type UsageStats struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolResultMessage builds a tool-role message answering one tool call.
func ToolResultMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}
