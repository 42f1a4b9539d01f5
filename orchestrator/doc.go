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

/*
Package orchestrator provides the Business Plan Creator service - an HTTP
API that routes business-planning questions to prompt-defined specialist
agents backed by Azure OpenAI.

# Overview

The service answers questions about business planning, competitive strategy
and customer acquisition economics. It handles each question through:

  - An agent registry loaded from markdown specification documents
  - An agent factory that instantiates specialists from their specs
  - An orchestrator that routes each question to exactly one specialist,
    or answers directly when none fits
  - A web search tool available to every agent

# Agent Specifications

Agents are defined entirely by markdown documents with YAML front matter:

	---
	name: financial-analysis
	title: Financial Analysis Agent
	description: Calculates CoCA and analyzes business metrics.
	enabled: true
	---

	# Instructions

	You are a Financial Analysis Expert...

Adding a document to the agents directory adds a specialist; no code change
is required. Disabled documents are filtered at load time.

# Routing

When a request names no agent, the orchestrator asks the model to pick the
best specialist from the registered descriptions. The answer must be a
registered identifier; anything else degrades to the orchestrator answering
directly with its own instructions.

# HTTP API

	GET  /api/health      - Service health and Azure deployment info
	GET  /api/agents      - List registered agents
	POST /api/chat        - Answer one question in a single response
	GET  /api/chat/stream - Answer one question over Server-Sent Events
	GET  /api/examples    - Example queries for the chat UI

The chat stream emits status events while the agent works and ends with
exactly one terminal event, either a response or an error.

# Usage

	// Start the service
	orchestrator.Run()

	// Configuration comes from the environment (and optional .env files):
	// AZURE_OPENAI_ENDPOINT        - Azure OpenAI endpoint (required)
	// AZURE_OPENAI_DEPLOYMENT_NAME - chat model deployment (required)
	// AZURE_OPENAI_API_KEY         - API key (optional; Entra ID when unset)
	// AGENTS_DIR                   - agent spec directory (default: agents)
	// PORT                         - HTTP server port (default: 5001)

# Thread Safety

All exported types in this package are safe for concurrent use. The registry
guards its spec map with sync.RWMutex and reloads by atomic replacement.

# Metrics

The service exposes Prometheus metrics at /metrics:

  - businessplan_chat_requests_total - Chat requests by agent/status
  - businessplan_chat_duration_milliseconds - Chat latency by transport
  - businessplan_llm_calls_total - LLM calls by provider/status
  - businessplan_search_requests_total - Web searches by status
*/
package orchestrator
