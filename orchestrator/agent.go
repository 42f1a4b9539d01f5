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

package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm"
	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

// maxToolRounds bounds the tool-call loop so a model that keeps requesting
// searches cannot spin forever.
const maxToolRounds = 5

// searchToolName is the function name the model uses to request a web search.
const searchToolName = "internet_search"

// Agent answers business-planning questions according to its behavioral
// contract.
type Agent interface {
	// Identifier returns the unique agent identifier.
	Identifier() string

	// Invoke runs the agent against the conversation and returns its final
	// text answer.
	Invoke(ctx context.Context, history []llm.Message) (string, error)
}

// SpecialistAgent is an Agent whose behavior is defined entirely by the
// instruction text of its specification document. All specialists share the
// same completion loop; only the system prompt differs.
type SpecialistAgent struct {
	spec     *AgentSpec
	provider llm.Provider
	search   *SearchClient
	log      *logger.Logger
}

// Identifier returns the agent identifier from the specification.
func (a *SpecialistAgent) Identifier() string {
	return a.spec.Name
}

// Title returns the display title from the specification.
func (a *SpecialistAgent) Title() string {
	return a.spec.Title
}

// Invoke runs the completion loop. When the model requests the search tool,
// the agent executes it and feeds the result back, up to maxToolRounds
// rounds; the first content-only response is the final answer.
func (a *SpecialistAgent) Invoke(ctx context.Context, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.SystemMessage(a.spec.Instructions))
	messages = append(messages, history...)

	for round := 0; round <= maxToolRounds; round++ {
		resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
			Messages: messages,
			Tools:    []llm.ToolDefinition{searchToolDefinition()},
		})
		if err != nil {
			promLLMCallsTotal.WithLabelValues(a.provider.Name(), "error").Inc()
			return "", fmt.Errorf("agent %s completion failed: %w", a.spec.Name, err)
		}
		promLLMCallsTotal.WithLabelValues(a.provider.Name(), "success").Inc()

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := a.executeToolCall(ctx, call)
			messages = append(messages, llm.ToolResultMessage(call.ID, result))
		}
	}

	return "", fmt.Errorf("agent %s exceeded tool call budget", a.spec.Name)
}

// executeToolCall dispatches one model-requested tool call. Failures are
// reported back to the model as the tool result rather than aborting the
// conversation, so it can answer from what it already knows.
func (a *SpecialistAgent) executeToolCall(ctx context.Context, call llm.ToolCall) string {
	if call.Name != searchToolName {
		return fmt.Sprintf("Unknown tool %q.", call.Name)
	}

	var args struct {
		Query      string `json:"query"`
		SearchType string `json:"search_type"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return fmt.Sprintf("Invalid tool arguments: %v.", err)
	}

	searchType := SearchTypeGeneral
	if args.SearchType == string(SearchTypeNews) {
		searchType = SearchTypeNews
	}

	a.log.Info("", "Executing web search", map[string]interface{}{
		"agent": a.spec.Name, "query": args.Query, "type": string(searchType),
	})

	result, err := a.search.Search(ctx, args.Query, searchType)
	if err != nil {
		return fmt.Sprintf("Search failed: %v.", err)
	}
	return result
}

// searchToolDefinition describes the web search tool in the function-calling
// schema the provider forwards to the model.
func searchToolDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        searchToolName,
		Description: "Search the web for up-to-date information. Use for market data, competitor research, industry news and anything beyond your training data.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query.",
				},
				"search_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"general", "news"},
					"description": "Use \"news\" for recent events, \"general\" otherwise.",
				},
			},
			"required": []string{"query"},
		},
	}
}
