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
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm/azure"
	"github.com/NicoGrassetto/Business-Plan-Creator/web"
)

// Run is the exported entry point for the Business Plan Creator service.
//
// It loads configuration, scans the agent specification directory, connects
// the Azure OpenAI provider, sets up HTTP routes, and starts the server. The
// function blocks until the server is shut down.
//
// Environment variables used:
//   - AZURE_OPENAI_ENDPOINT: Azure OpenAI resource endpoint (required)
//   - AZURE_OPENAI_DEPLOYMENT_NAME: chat model deployment (required)
//   - AZURE_OPENAI_API_KEY: API key (optional; Entra ID when unset)
//   - AZURE_OPENAI_API_VERSION: API version (default: 2024-02-15-preview)
//   - AZURE_OPENAI_CAPACITY: provisioned capacity (default: 40)
//   - AGENTS_DIR: agent spec directory (default: agents)
//   - PORT: HTTP server port (default: 5001)
func Run() {
	log.Println("Starting Business Plan Creator...")

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	registry := NewAgentRegistry()
	if err := registry.LoadFromDirectory(cfg.AgentsDir); err != nil {
		log.Fatalf("Failed to load agent specifications: %v", err)
	}
	promRegistryAgents.Set(float64(registry.Len()))

	provider, err := azure.NewProvider(azure.Config{
		Endpoint:       cfg.AzureEndpoint,
		DeploymentName: cfg.AzureDeployment,
		APIKey:         cfg.AzureAPIKey,
		APIVersion:     cfg.AzureAPIVersion,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Azure OpenAI provider: %v", err)
	}

	search := NewSearchClient()
	factory := NewAgentFactory(registry, provider, search)
	orch := NewOrchestrator(registry, factory, provider, search)

	api := NewAPIHandler(cfg, registry, orch)
	stream := NewStreamHandler(registry, orch)

	// Setup router
	r := mux.NewRouter()

	r.HandleFunc("/api/health", api.handleHealth).Methods("GET")
	r.HandleFunc("/api/agents", api.handleAgents).Methods("GET")
	r.HandleFunc("/api/chat", api.handleChat).Methods("POST")
	r.Handle("/api/chat/stream", stream).Methods("GET")
	r.HandleFunc("/api/examples", api.handleExamples).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Embedded chat UI at the root
	r.PathPrefix("/").Handler(web.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)
	log.Printf("Business Plan Creator listening on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
