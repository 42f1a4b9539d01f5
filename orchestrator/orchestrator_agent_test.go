// Copyright 2025 Business Plan Creator
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm"
)

func newTestOrchestrator(t *testing.T, provider llm.Provider) *Orchestrator {
	t.Helper()
	dir := t.TempDir()
	writeSpecFile(t, dir, "competitive-analysis.md", "competitive-analysis", "Competitive Analysis Agent", true)
	writeSpecFile(t, dir, "financial-analysis.md", "financial-analysis", "Financial Analysis Agent", true)

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))

	search := NewSearchClient()
	search.SetHTTPClient(&fakeSearchClient{responses: []*http.Response{htmlResponse(200, resultsPage)}})

	factory := NewAgentFactory(reg, provider, search)
	return NewOrchestrator(reg, factory, provider, search)
}

func TestOrchestratorExplicitAgentSelection(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{
		{Content: "CoCA analysis complete."},
	}}
	o := newTestOrchestrator(t, provider)

	answer, used, err := o.Respond(context.Background(), "req-1", "Calculate my CoCA", "financial-analysis")
	require.NoError(t, err)
	assert.Equal(t, "CoCA analysis complete.", answer)
	assert.Equal(t, "financial-analysis", used)

	// No routing completion: the single call is the specialist invocation.
	require.Len(t, provider.requests, 1)
	assert.Contains(t, provider.requests[0].Messages[0].Content, "Instructions for Financial Analysis Agent.")
}

func TestOrchestratorExplicitUnknownAgent(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{{Content: "unused"}}}
	o := newTestOrchestrator(t, provider)

	_, _, err := o.Respond(context.Background(), "req-1", "Question", "no-such-agent")
	require.Error(t, err)
	var notFound *ErrAgentNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestOrchestratorRoutesToSpecialist(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{
		{Content: "competitive-analysis"},
		{Content: "Here is the competitive landscape."},
	}}
	o := newTestOrchestrator(t, provider)

	answer, used, err := o.Respond(context.Background(), "req-1", "Who competes with us?", "")
	require.NoError(t, err)
	assert.Equal(t, "Here is the competitive landscape.", answer)
	assert.Equal(t, "competitive-analysis", used)

	require.Len(t, provider.requests, 2)
	routing := provider.requests[0]
	assert.Contains(t, routing.Messages[0].Content, "competitive-analysis")
	assert.Contains(t, routing.Messages[0].Content, "financial-analysis")
	assert.Contains(t, routing.Messages[0].Content, OrchestratorID)
	assert.Empty(t, routing.Tools)
}

func TestOrchestratorRouterAnswerNormalization(t *testing.T) {
	// Identifier wrapped in markup still resolves.
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{
		{Content: " `financial-analysis` \n"},
		{Content: "Financial answer."},
	}}
	o := newTestOrchestrator(t, provider)

	_, used, err := o.Respond(context.Background(), "req-1", "Pricing question", "")
	require.NoError(t, err)
	assert.Equal(t, "financial-analysis", used)
}

func TestOrchestratorUnknownRouteAnswersDirectly(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{
		{Content: "marketing-guru"},
		{Content: "Direct answer from the orchestrator."},
	}}
	o := newTestOrchestrator(t, provider)

	answer, used, err := o.Respond(context.Background(), "req-1", "General question", "")
	require.NoError(t, err)
	assert.Equal(t, "Direct answer from the orchestrator.", answer)
	assert.Equal(t, OrchestratorID, used)

	// The direct answer runs under the orchestrator's own instructions.
	require.Len(t, provider.requests, 2)
	assert.Contains(t, provider.requests[1].Messages[0].Content, "Business Planning Orchestrator")
}

func TestOrchestratorSelfRoute(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.CompletionResponse{
		{Content: "orchestrator"},
		{Content: "I handled it myself."},
	}}
	o := newTestOrchestrator(t, provider)

	answer, used, err := o.Respond(context.Background(), "req-1", "Outline a business plan", "")
	require.NoError(t, err)
	assert.Equal(t, "I handled it myself.", answer)
	assert.Equal(t, OrchestratorID, used)
}

func TestOrchestratorRoutingFailureFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.CompletionResponse{nil, {Content: "Fallback answer."}},
		errs:      []error{assert.AnError},
	}
	o := newTestOrchestrator(t, provider)

	answer, used, err := o.Respond(context.Background(), "req-1", "Question", "")
	require.NoError(t, err)
	assert.Equal(t, "Fallback answer.", answer)
	assert.Equal(t, OrchestratorID, used)
}

func TestOrchestratorEmptyMessage(t *testing.T) {
	o := newTestOrchestrator(t, &scriptedProvider{responses: []*llm.CompletionResponse{{Content: "x"}}})
	_, _, err := o.Respond(context.Background(), "req-1", "   ", "")
	require.Error(t, err)
}
