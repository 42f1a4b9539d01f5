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
	"fmt"
	"strings"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm"
	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

// OrchestratorID identifies the orchestrator itself. It is reserved: it never
// appears in the registry and cannot be claimed by a specification document.
const OrchestratorID = "orchestrator"

// orchestratorInstructions is the orchestrator's own behavioral contract,
// used when it answers a question directly instead of delegating.
const orchestratorInstructions = `You are an Expert Business Planning Orchestrator AI assistant that helps with business planning, research, and analysis.

You are working on a business planning project focused on customer acquisition and competitive strategy.

Your capabilities:
- Internet search for general research
- Deep research and analysis capabilities

Guidelines:
1. Break down complex tasks into manageable steps
2. Use internet_search extensively to gather current, relevant information
3. Provide comprehensive, actionable insights
4. Support all recommendations with data and research

Focus on providing high-quality business planning assistance with well-researched, data-driven insights.`

// Orchestrator routes each question to exactly one specialist, or answers it
// directly when no specialist fits. Routing is a dedicated completion that
// returns an identifier; dispatch is a registry lookup, so adding an agent
// document extends routing without a code change.
type Orchestrator struct {
	registry *AgentRegistry
	factory  *AgentFactory
	provider llm.Provider
	search   *SearchClient
	log      *logger.Logger
}

// NewOrchestrator creates the orchestrator over the given registry, factory
// and provider.
func NewOrchestrator(registry *AgentRegistry, factory *AgentFactory, provider llm.Provider, search *SearchClient) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		factory:  factory,
		provider: provider,
		search:   search,
		log:      logger.New("orchestrator"),
	}
}

// Respond answers a user message. When agentName names a registered
// specialist the question goes straight to it; when agentName is empty the
// orchestrator routes. The second return value is the identifier of the
// agent that produced the answer.
func (o *Orchestrator) Respond(ctx context.Context, requestID, message, agentName string) (string, string, error) {
	if strings.TrimSpace(message) == "" {
		return "", "", fmt.Errorf("message cannot be empty")
	}

	if agentName != "" && agentName != OrchestratorID {
		agent, err := o.factory.Create(agentName)
		if err != nil {
			return "", "", err
		}
		answer, err := agent.Invoke(ctx, []llm.Message{llm.UserMessage(message)})
		if err != nil {
			return "", "", err
		}
		return answer, agent.Identifier(), nil
	}

	target := OrchestratorID
	if agentName == "" {
		target = o.route(ctx, requestID, message)
	}
	if target != OrchestratorID {
		agent, err := o.factory.Create(target)
		if err == nil {
			answer, err := agent.Invoke(ctx, []llm.Message{llm.UserMessage(message)})
			if err != nil {
				return "", "", err
			}
			return answer, agent.Identifier(), nil
		}
		// Registry changed between routing and dispatch; answer directly.
		o.log.Warn(requestID, "Routed agent vanished, answering directly", map[string]interface{}{
			"agent": target,
		})
	}

	answer, err := o.answerDirectly(ctx, message)
	if err != nil {
		return "", "", err
	}
	return answer, OrchestratorID, nil
}

// route asks the model which specialist should handle the message. Any
// answer that is not a registered identifier resolves to the orchestrator
// itself, so a confabulated identifier degrades to a direct answer instead
// of an error.
func (o *Orchestrator) route(ctx context.Context, requestID, message string) string {
	specs := o.registry.List()
	if len(specs) == 0 {
		return OrchestratorID
	}

	resp, err := o.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.SystemMessage(routingPrompt(specs)),
			llm.UserMessage(message),
		},
		MaxTokens:   32,
		Temperature: 0,
	})
	if err != nil {
		o.log.Warn(requestID, "Routing completion failed, answering directly", map[string]interface{}{
			"error": err.Error(),
		})
		return OrchestratorID
	}

	choice := strings.ToLower(strings.Trim(strings.TrimSpace(resp.Content), "`\"'."))
	if choice == OrchestratorID {
		return OrchestratorID
	}
	if _, err := o.registry.Get(choice); err != nil {
		o.log.Info(requestID, "Router returned unknown identifier, answering directly", map[string]interface{}{
			"choice": choice,
		})
		return OrchestratorID
	}

	o.log.Info(requestID, "Routed question to specialist", map[string]interface{}{
		"agent": choice,
	})
	return choice
}

// answerDirectly runs the orchestrator's own completion loop, with the same
// search tool the specialists carry.
func (o *Orchestrator) answerDirectly(ctx context.Context, message string) (string, error) {
	self := &SpecialistAgent{
		spec: &AgentSpec{
			Name:         OrchestratorID,
			Title:        "Business Planning Orchestrator",
			Instructions: orchestratorInstructions,
			Enabled:      true,
		},
		provider: o.provider,
		search:   o.search,
		log:      o.log,
	}
	return self.Invoke(ctx, []llm.Message{llm.UserMessage(message)})
}

// routingPrompt builds the routing system prompt from the registered
// specialists.
func routingPrompt(specs []*AgentSpec) string {
	var b strings.Builder
	b.WriteString("You are a routing classifier for a business planning assistant. ")
	b.WriteString("Pick the single best specialist for the user's question and answer with its identifier only, no punctuation or explanation.\n\nSpecialists:\n")
	for _, spec := range specs {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name, spec.Description)
	}
	fmt.Fprintf(&b, "- %s: General business planning questions that fit no specialist.\n", OrchestratorID)
	return b.String()
}
