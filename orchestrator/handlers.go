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
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

// maxChatBodySize bounds the chat request body.
const maxChatBodySize = 1 << 20 // 1 MB

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	cfg          *Config
	registry     *AgentRegistry
	orchestrator *Orchestrator
	log          *logger.Logger
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(cfg *Config, registry *AgentRegistry, orch *Orchestrator) *APIHandler {
	return &APIHandler{
		cfg:          cfg,
		registry:     registry,
		orchestrator: orch,
		log:          logger.New("api"),
	}
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status        string `json:"status"`
	AzureEndpoint string `json:"azure_endpoint"`
	Deployment    string `json:"deployment"`
	Capacity      int    `json:"capacity"`
}

// AgentInfo is one agent listing entry.
type AgentInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// AgentsResponse is the agent listing payload.
type AgentsResponse struct {
	Agents []AgentInfo `json:"agents"`
}

// ChatRequest is the chat endpoint request body.
type ChatRequest struct {
	Message string `json:"message"`
	Agent   string `json:"agent"`
}

// ChatResponse is the chat endpoint payload.
type ChatResponse struct {
	Response  string `json:"response"`
	AgentUsed string `json:"agent_used"`
}

// handleHealth reports service health and the Azure deployment in use.
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		AzureEndpoint: h.cfg.AzureEndpoint,
		Deployment:    h.cfg.AzureDeployment,
		Capacity:      h.cfg.AzureCapacity,
	})
}

// handleAgents lists the registered agents. The orchestrator is the router,
// not a selectable specialist, so it is absent here.
func (h *APIHandler) handleAgents(w http.ResponseWriter, r *http.Request) {
	specs := h.registry.List()
	agents := make([]AgentInfo, 0, len(specs))
	for _, spec := range specs {
		agents = append(agents, AgentInfo{
			Name:        spec.Name,
			Title:       spec.Title,
			Description: spec.Description,
			Enabled:     spec.Enabled,
		})
	}
	h.writeJSON(w, http.StatusOK, AgentsResponse{Agents: agents})
}

// handleChat answers one question in a single response.
func (h *APIHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.New().String()

	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	h.log.Info(requestID, "Chat request received", map[string]interface{}{
		"agent": req.Agent, "message_length": len(req.Message),
	})

	answer, agentUsed, err := h.orchestrator.Respond(r.Context(), requestID, req.Message, req.Agent)
	if err != nil {
		var notFound *ErrAgentNotFound
		if errors.As(err, &notFound) {
			promChatRequestsTotal.WithLabelValues(req.Agent, "not_found").Inc()
			h.writeError(w, http.StatusNotFound, "Agent "+notFound.Name+" not found")
			return
		}
		promChatRequestsTotal.WithLabelValues(req.Agent, "error").Inc()
		h.log.Error(requestID, "Chat request failed", map[string]interface{}{
			"error": err.Error(),
		})
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	promChatRequestsTotal.WithLabelValues(agentUsed, "success").Inc()
	promChatDuration.WithLabelValues("single").Observe(float64(time.Since(start).Milliseconds()))
	h.log.InfoWithDuration(requestID, "Chat request completed", float64(time.Since(start).Milliseconds()), map[string]interface{}{
		"agent_used": agentUsed, "response_length": len(answer),
	})

	h.writeJSON(w, http.StatusOK, ChatResponse{Response: answer, AgentUsed: agentUsed})
}

// handleExamples returns example queries for the chat UI.
func (h *APIHandler) handleExamples(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, exampleQueries())
}

// writeJSON writes a JSON response.
func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("", "Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// writeError writes an error response.
func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
