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
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businessplan_chat_requests_total",
			Help: "Total number of chat requests processed",
		},
		[]string{"agent", "status"},
	)
	promChatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "businessplan_chat_duration_milliseconds",
			Help:    "Chat request duration in milliseconds",
			Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000},
		},
		[]string{"transport"},
	)
	promLLMCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businessplan_llm_calls_total",
			Help: "Total number of LLM API calls",
		},
		[]string{"provider", "status"},
	)
	promSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businessplan_search_requests_total",
			Help: "Total number of web search requests",
		},
		[]string{"status"},
	)
	promRegistryAgents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "businessplan_registry_agents",
			Help: "Number of enabled agents in the registry",
		},
	)
)

func init() {
	// Register Prometheus metrics
	prometheus.MustRegister(promChatRequestsTotal)
	prometheus.MustRegister(promChatDuration)
	prometheus.MustRegister(promLLMCallsTotal)
	prometheus.MustRegister(promSearchRequestsTotal)
	prometheus.MustRegister(promRegistryAgents)
}
