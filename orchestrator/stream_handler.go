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

// StreamHandler serves chat over Server-Sent Events. Progress is reported as
// status events while the agent works; the stream always ends with exactly
// one terminal event, either a response or an error.
type StreamHandler struct {
	registry     *AgentRegistry
	orchestrator *Orchestrator
	log          *logger.Logger
}

// NewStreamHandler creates the SSE chat handler.
func NewStreamHandler(registry *AgentRegistry, orch *Orchestrator) *StreamHandler {
	return &StreamHandler{
		registry:     registry,
		orchestrator: orch,
		log:          logger.New("stream"),
	}
}

// streamEvent is one SSE data payload.
type streamEvent struct {
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	Response  string `json:"response,omitempty"`
	AgentUsed string `json:"agent_used,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ServeHTTP handles GET /api/chat/stream?message=...&agent=...
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	start := time.Now()
	requestID := uuid.New().String()
	message := r.URL.Query().Get("message")
	agentName := r.URL.Query().Get("agent")

	send := func(ev streamEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(data)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	if message == "" {
		send(streamEvent{Type: "error", Error: "Message is required"})
		return
	}

	h.log.Info(requestID, "Stream request received", map[string]interface{}{
		"agent": agentName, "message_length": len(message),
	})

	send(streamEvent{Type: "status", Message: "Initializing agent..."})

	if agentName != "" && agentName != OrchestratorID {
		spec, err := h.registry.Get(agentName)
		if err != nil {
			promChatRequestsTotal.WithLabelValues(agentName, "not_found").Inc()
			send(streamEvent{Type: "error", Error: "Agent " + agentName + " not found"})
			return
		}
		send(streamEvent{Type: "status", Message: "Creating " + spec.Title + "..."})
	} else {
		send(streamEvent{Type: "status", Message: "Creating orchestrator..."})
	}

	send(streamEvent{Type: "status", Message: "Agent is thinking and planning..."})

	answer, agentUsed, err := h.orchestrator.Respond(r.Context(), requestID, message, agentName)
	if err != nil {
		var notFound *ErrAgentNotFound
		status := "error"
		if errors.As(err, &notFound) {
			status = "not_found"
		}
		promChatRequestsTotal.WithLabelValues(agentName, status).Inc()
		h.log.Error(requestID, "Stream request failed", map[string]interface{}{
			"error": err.Error(),
		})
		send(streamEvent{Type: "error", Error: err.Error()})
		return
	}

	promChatRequestsTotal.WithLabelValues(agentUsed, "success").Inc()
	promChatDuration.WithLabelValues("stream").Observe(float64(time.Since(start).Milliseconds()))
	h.log.InfoWithDuration(requestID, "Stream request completed", float64(time.Since(start).Milliseconds()), map[string]interface{}{
		"agent_used": agentUsed, "response_length": len(answer),
	})

	send(streamEvent{Type: "response", Response: answer, AgentUsed: agentUsed})
}

var _ http.Handler = (*StreamHandler)(nil)
