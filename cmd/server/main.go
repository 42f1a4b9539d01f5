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

// Package main is the entry point for the Business Plan Creator service.
//
// The service routes business-planning questions to prompt-defined
// specialist agents backed by Azure OpenAI:
// - Loads agent specifications from markdown documents
// - Delegates each question to exactly one specialist
// - Streams progress to the chat UI over Server-Sent Events
// - Gives every agent access to web search
//
// Usage:
//
//	./server
//
// Environment Variables:
//
//	AZURE_OPENAI_ENDPOINT - Azure OpenAI endpoint (required)
//	AZURE_OPENAI_DEPLOYMENT_NAME - chat model deployment (required)
//	AZURE_OPENAI_API_KEY - API key (optional; Entra ID when unset)
//	AGENTS_DIR - agent spec directory (default: agents)
//	PORT - HTTP server port (default: 5001)
package main

import (
	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator"
)

func main() {
	orchestrator.Run()
}
