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
	"fmt"

	"github.com/NicoGrassetto/Business-Plan-Creator/orchestrator/llm"
	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

// AgentFactory builds agents from registry specifications. Every specialist
// shares the factory's provider and search client; construction binds only
// the spec, so creating an agent is cheap and allocation-free beyond the
// struct itself.
type AgentFactory struct {
	registry *AgentRegistry
	provider llm.Provider
	search   *SearchClient
	log      *logger.Logger
}

// NewAgentFactory creates a factory over the given registry and provider.
func NewAgentFactory(registry *AgentRegistry, provider llm.Provider, search *SearchClient) *AgentFactory {
	return &AgentFactory{
		registry: registry,
		provider: provider,
		search:   search,
		log:      logger.New("factory"),
	}
}

// Create instantiates the agent with the given identifier. Only identifiers
// present in the registry can be instantiated; disabled specs were filtered
// at load time and report not-found here.
func (f *AgentFactory) Create(name string) (*SpecialistAgent, error) {
	spec, err := f.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("cannot create agent: %w", err)
	}
	return f.newSpecialist(spec), nil
}

// CreateAll instantiates every registered agent, keyed by identifier.
func (f *AgentFactory) CreateAll() map[string]*SpecialistAgent {
	specs := f.registry.List()
	agents := make(map[string]*SpecialistAgent, len(specs))
	for _, spec := range specs {
		agents[spec.Name] = f.newSpecialist(spec)
	}
	return agents
}

func (f *AgentFactory) newSpecialist(spec *AgentSpec) *SpecialistAgent {
	return &SpecialistAgent{
		spec:     spec,
		provider: f.provider,
		search:   f.search,
		log:      logger.New("agent"),
	}
}
